package web

import (
	"context"
	"net/http"
	"rankle/internal/util"

	"golang.org/x/time/rate"
)

type ctxKey int

const ctxKeyTenant ctxKey = iota

// tenantKey returns the tenant key the request authenticated with.
func tenantKey(r *http.Request) string {
	key, _ := r.Context().Value(ctxKeyTenant).(string)
	return key
}

// requireTenant extracts the tenant key from the X-Tenant-Key header or the
// "key"/"id" query params and rejects the request without one. Holding a key
// is the whole auth model: a key names a board, whoever has it may use it.
func (s *Server) requireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-Tenant-Key")
		if key == "" {
			key = r.URL.Query().Get("key")
		}
		if key == "" {
			key = r.URL.Query().Get("id")
		}

		if key == "" {
			s.publicError(w, util.ErrPublic(
				"tenant key required (X-Tenant-Key header or ?key= param)",
			), http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(
			context.WithValue(r.Context(), ctxKeyTenant, key),
		))
	})
}

// cors mirrors the configured origin on every response, the API is meant to
// be called straight from static leaderboard pages.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Tenant-Key")

		next.ServeHTTP(w, r)
	})
}

type submissionLimiter struct {
	*rate.Limiter
}

// throttleSubmissions rate-limits score submissions per tenant. A board is a
// group of friends pasting one score a day each, anything past a small burst
// is either a retry loop or abuse.
func (s *Server) throttleSubmissions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.limiterMu.Lock()
		limiter, ok := s.limiters[tenantKey(r)]
		if !ok {
			limiter = &submissionLimiter{rate.NewLimiter(rate.Limit(1), 10)}
			s.limiters[tenantKey(r)] = limiter
		}
		s.limiterMu.Unlock()

		if !limiter.Allow() {
			s.publicError(w, util.ErrPublic("too many submissions, slow down"), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// publicError sends an ErrPublic message to the client as-is.
func (s *Server) publicError(w http.ResponseWriter, err util.ErrPublic, code int) {
	s.response(w, code, map[string]string{"error": err.Error()})
}
