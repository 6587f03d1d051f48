package mock

import (
	"encoding/json"
	"net/http"
)

// HandlerFunc overrides a default endpoint handler.
type HandlerFunc func(w http.ResponseWriter, r *http.Request)

// Handler routes HTTP requests to the mock exchange endpoints.
type Handler struct {
	// Service is the mock exchange with endpoint handlers.
	Service *Service
}

// ServeHTTP dispatches incoming HTTP requests based on URL path.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := h.Service
	s.mu.Lock()
	s.calls[r.URL.Path]++
	s.mu.Unlock()

	switch r.URL.Path {
	case "/":
		writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the interdimensional fruit exchange"})
	case "/auth/token":
		dispatch(w, r, s.TokenHandler, s.defaultTokenHandler)
	case "/auth/refresh":
		dispatch(w, r, s.RefreshHandler, s.defaultRefreshHandler)
	case "/auth/register":
		dispatch(w, r, s.RegisterHandler, s.defaultRegisterHandler)
	case "/auth/me":
		s.meHandler(w, r)
	case "/fruits":
		s.fruitsHandler(w, r)
	case "/prices":
		s.pricesHandler(w, r)
	case "/vendors":
		s.vendorsHandler(w, r)
	case "/vendors/me":
		s.myVendorHandler(w, r)
	case "/vendors/me/add-fruit":
		s.addFruitHandler(w, r)
	case "/trade":
		s.tradeHandler(w, r)
	case "/resource":
		dispatch(w, r, s.ResourceHandler, s.defaultResourceHandler)
	default:
		http.NotFound(w, r)
	}
}

func dispatch(w http.ResponseWriter, r *http.Request, override, fallback HandlerFunc) {
	if override != nil {
		override(w, r)
		return
	}
	fallback(w, r)
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
