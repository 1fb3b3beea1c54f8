package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/charmbracelet/log"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// paramsMiddleware logs the request and handles the 'verbose' query
// parameter for request-scoped verbose logging.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("incoming request", "method", r.Method, "url", r.URL.String())
		if r.URL.Query().Get("verbose") == "true" {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			defer log.SetLevel(originalLevel)
		}
		next.ServeHTTP(w, r)
	})
}

// requirePasskey guards mutating endpoints with the admin passkey from
// config. An empty configured passkey disables the check, which keeps
// local development and tests simple.
func (s *Server) requirePasskey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Cfg.AdminPasskey != "" {
			supplied := r.Header.Get("X-Admin-Passkey")
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(s.Cfg.AdminPasskey)) != 1 {
				log.Warn("Rejected request with missing or wrong passkey", "url", r.URL.String())
				http.Error(w, "invalid passkey", http.StatusUnauthorized)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
