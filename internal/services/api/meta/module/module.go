// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"codg/internal/core/codg"
	modkit "codg/internal/modkit"
	"codg/internal/modkit/httpkit"

	metahttp "codg/internal/services/api/meta/http"
)

// ServiceName is reported by health and version
const ServiceName = "codg-api"

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module; engine is what the estimates module runs with
func New(deps modkit.Deps, engine codg.Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	d := metahttp.Deps{
		ServiceName:  ServiceName,
		StartedAt:    deps.Clock()(),
		Engine:       engine,
		ReadyTimeout: deps.Cfg.Prefix("CORE_API_").MayDuration("READY_TIMEOUT", 2*time.Second),
	}
	// keep untyped nils so readiness reports skipped
	if deps.PG != nil {
		d.PG = deps.PG
	}
	if deps.CH != nil {
		d.CH = deps.CH
	}
	return &Module{b: b, deps: d}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.ModuleName() }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
