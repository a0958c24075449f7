package middleware

import (
	"net/http"
	"time"

	"codg/internal/platform/logger"
	pnet "codg/internal/platform/net"

	"github.com/go-chi/chi/v5"
)

// RequestObserver receives one call per finished request
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// AccessLogOptions tunes the access log
type AccessLogOptions struct {
	// Slow logs at warn level at or above this duration, 0 never does
	Slow time.Duration
	// Observer is optional
	Observer RequestObserver
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// AccessLog scopes the request logger with the request id and logs one line
// per request. Mount it after RequestID
func AccessLog(opt AccessLogOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logger.WithRequest(r.Context(), pnet.RequestID(r.Context()))
			r = r.WithContext(ctx)
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			route := routePattern(r)
			if opt.Observer != nil {
				opt.Observer.ObserveRequest(r.Method, route, sw.status, elapsed)
			}
			log := logger.C(ctx)
			evt := log.Info()
			if opt.Slow > 0 && elapsed >= opt.Slow {
				evt = log.Warn()
			}
			evt.Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", sw.status).
				Int("bytes", sw.bytes).
				Dur("elapsed", elapsed).
				Msg("request done")
		})
	}
}

// routePattern keeps metric labels bounded, unmatched paths share one label
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
