package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"codg/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	// Origins allowed by CORS, any when empty
	Origins []string
	// Timeout per request, 30s when zero
	Timeout time.Duration
	// Slow requests log at warn
	Slow time.Duration
	// Observer receives per route timings, typically the metrics registry
	Observer middleware.RequestObserver
}

// CommonStack is the middleware every API scope gets, outermost first
func CommonStack(opt StackOptions) []func(http.Handler) http.Handler {
	if opt.Timeout <= 0 {
		opt.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.AccessLog(middleware.AccessLogOptions{Slow: opt.Slow, Observer: opt.Observer}),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.CORS(opt.Origins),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(opt.Timeout),
	}
}
