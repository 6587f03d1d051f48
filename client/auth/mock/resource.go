package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/viant/exchange/schema"
)

// Echo is the body returned by the generic protected /resource endpoint.
type Echo struct {
	Method   string `json:"method"`
	Username string `json:"username"`
	Body     string `json:"body"`
	Header   string `json:"header,omitempty"`
}

// defaultResourceHandler echoes any authenticated request at /resource
func (s *Service) defaultResourceHandler(w http.ResponseWriter, r *http.Request) {
	anAccount, ok := s.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	body, _ := io.ReadAll(r.Body)
	writeJSON(w, http.StatusOK, &Echo{
		Method:   r.Method,
		Username: anAccount.user.Username,
		Body:     string(body),
		Header:   r.Header.Get("X-Trace"),
	})
}

func (s *Service) meHandler(w http.ResponseWriter, r *http.Request) {
	anAccount, ok := s.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	writeJSON(w, http.StatusOK, anAccount.user)
}

func (s *Service) fruitsHandler(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := paging(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid paging")
		return
	}
	query := r.URL.Query()
	rarity, hasRarity := 0, query.Has("rarity")
	if hasRarity {
		var err error
		if rarity, err = strconv.Atoi(query.Get("rarity")); err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "Invalid rarity")
			return
		}
	}
	s.mu.Lock()
	var matched []schema.Fruit
	for _, fruit := range s.fruits {
		if hasRarity && fruit.RarityLevel != rarity {
			continue
		}
		matched = append(matched, *fruit)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, page(matched, offset, limit))
}

func (s *Service) pricesHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	fruitID, _ := strconv.Atoi(query.Get("fruit_id"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	startDate, endDate := query.Get("start_date"), query.Get("end_date")
	s.mu.Lock()
	var matched []schema.Price
	for i := len(s.prices) - 1; i >= 0; i-- {
		price := s.prices[i]
		switch {
		case fruitID != 0 && price.FruitID != fruitID:
			continue
		case startDate != "" && price.Date < startDate:
			continue
		case endDate != "" && price.Date > endDate:
			continue
		}
		matched = append(matched, price)
		if limit > 0 && len(matched) == limit {
			break
		}
	}
	s.mu.Unlock()
	if len(matched) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "No prices found"})
		return
	}
	writeJSON(w, http.StatusOK, &schema.PriceList{Prices: matched})
}

func (s *Service) vendorsHandler(w http.ResponseWriter, r *http.Request) {
	offset, limit, ok := paging(r)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid paging")
		return
	}
	species := r.URL.Query().Get("species")
	s.mu.Lock()
	var matched []schema.Vendor
	for _, vendor := range s.vendors {
		if species != "" && vendor.vendor.Species != species {
			continue
		}
		matched = append(matched, vendor.snapshot(s.fruitByID))
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, page(matched, offset, limit))
}

func (s *Service) myVendorHandler(w http.ResponseWriter, r *http.Request) {
	anAccount, ok := s.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	vendor := s.vendorByID(anAccount.vendorID)
	if vendor == nil {
		writeDetail(w, http.StatusNotFound, "Vendor profile not found")
		return
	}
	writeJSON(w, http.StatusOK, vendor.snapshot(s.fruitByID))
}

func (s *Service) addFruitHandler(w http.ResponseWriter, r *http.Request) {
	anAccount, ok := s.authenticate(r)
	if !ok {
		writeDetail(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	var request schema.AddFruitRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	vendor := s.vendorByID(anAccount.vendorID)
	if vendor == nil {
		writeDetail(w, http.StatusNotFound, "Vendor not found")
		return
	}
	vendor.inventory[request.FruitID] += request.Quantity
	writeJSON(w, http.StatusOK, &schema.AddFruitResult{Success: true})
}

func paging(r *http.Request) (offset, limit int, ok bool) {
	query := r.URL.Query()
	pageNumber, limit := 1, 10
	var err error
	if v := query.Get("page"); v != "" {
		if pageNumber, err = strconv.Atoi(v); err != nil || pageNumber < 1 {
			return 0, 0, false
		}
	}
	if v := query.Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 1 || limit > 100 {
			return 0, 0, false
		}
	}
	return (pageNumber - 1) * limit, limit, true
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
