// Package module defines the contract API modules implement and the helpers
// main uses to pass ports between them
package module

import (
	phttp "codg/internal/platform/net/http"
)

// Module mounts routes and exposes a port set for cross wiring
// it lives apart from modkit so a module can export ports without import knots
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
