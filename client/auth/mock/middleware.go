package mock

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	allowOriginHeader      = "Access-Control-Allow-Origin"
	allowHeadersHeader     = "Access-Control-Allow-Headers"
	allowMethodsHeader     = "Access-Control-Allow-Methods"
	requestMethodHeader    = "Access-Control-Request-Method"
	allowCredentialsHeader = "Access-Control-Allow-Credentials"
	maxAgeHeader           = "Access-Control-Max-Age"
)

// Middleware wraps an http.Handler
type Middleware func(next http.Handler) http.Handler

// Chain applies mws so that the first one is outermost
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Cors lets a browser frontend served from AllowOrigins call the exchange
// with credentials.
type Cors struct {
	AllowOrigins     []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// NewCors allows origins with credentials, "*" reflects any origin.
func NewCors(origins ...string) *Cors {
	return &Cors{AllowOrigins: origins, AllowCredentials: true, MaxAge: 10 * time.Minute}
}

func (c *Cors) allowed(origin string) bool {
	for _, candidate := range c.AllowOrigins {
		if candidate == "*" || candidate == origin {
			return true
		}
	}
	return false
}

// Middleware sets CORS headers and answers preflight requests
func (c *Cors) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" || !c.allowed(origin) {
			next.ServeHTTP(w, r)
			return
		}
		header := w.Header()
		header.Set(allowOriginHeader, origin)
		header.Add("Vary", "Origin")
		if c.AllowCredentials {
			header.Set(allowCredentialsHeader, "true")
		}
		method := r.Header.Get(requestMethodHeader)
		if r.Method != http.MethodOptions || method == "" {
			next.ServeHTTP(w, r)
			return
		}
		header.Set(allowMethodsHeader, method)
		if requested := r.Header.Get("Access-Control-Request-Headers"); requested != "" {
			header.Set(allowHeadersHeader, requested)
		} else {
			header.Set(allowHeadersHeader, strings.Join([]string{"Content-Type", "Authorization"}, ", "))
		}
		if c.MaxAge > 0 {
			header.Set(maxAgeHeader, strconv.Itoa(int(c.MaxAge.Seconds())))
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Logging logs every request at debug level, rejected credentials at info
func Logging(log logrus.FieldLogger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			entry := log.WithFields(logrus.Fields{
				"method":  r.Method,
				"path":    r.URL.Path,
				"status":  recorder.status,
				"elapsed": time.Since(started).String(),
			})
			if recorder.status == http.StatusUnauthorized {
				entry.Info("credential rejected")
				return
			}
			entry.Debug("served")
		})
	}
}
