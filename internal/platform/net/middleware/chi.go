// Package middleware adapts chi's stock middleware and adds the zerolog
// access log, request metrics and the JSON panic guard
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the stdlib middleware shape
type Middleware = func(http.Handler) http.Handler

// RequestID propagates or mints X-Request-Id
func RequestID() Middleware { return chimw.RequestID }

// RealIP trusts X-Forwarded-For and X-Real-IP
func RealIP() Middleware { return chimw.RealIP }

// Timeout cancels the request context after d
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// NoCache marks every response uncacheable
func NoCache() Middleware { return chimw.NoCache }

// Compress negotiates gzip or deflate at level
func Compress(level int) Middleware { return chimw.Compress(level) }

// Heartbeat answers GET path with 200 before routing
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// Throttle caps in flight requests at limit, excess requests get 429 after a short backlog wait
// A limit below one is treated as one
func Throttle(limit int) Middleware {
	limit = max(limit, 1)
	return chimw.ThrottleBacklog(limit, limit, 5*time.Second)
}

// StripSlashes drops a trailing slash before routing
func StripSlashes() Middleware { return chimw.StripSlashes }

// CORS allows the browser task to post from origins, "*" when empty
func CORS(origins []string) Middleware {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return chicors.Handler(chicors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	})
}
