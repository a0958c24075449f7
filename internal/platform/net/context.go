// Package net holds transport neutral request scoping and the response envelope
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// WithRequest stores reqID where chi's RequestID middleware would, so handlers
// and background jobs resolve it the same way
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, reqID)
}

// RequestID returns the request id on ctx, empty when absent
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
