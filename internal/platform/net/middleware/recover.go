package middleware

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	perr "codg/internal/platform/errors"
	"codg/internal/platform/logger"
	pnet "codg/internal/platform/net"
)

// RecoverJSON turns a handler panic into the standard 500 envelope
// http.ErrAbortHandler is re-panicked so net/http can drop the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			env := pnet.Failure(perr.PanicErrf("internal error"), reqID)
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(env.StatusCode)
			_ = json.NewEncoder(w).Encode(env)
		}()
		next.ServeHTTP(w, r)
	})
}
