// Package module wires estimates into the API using modkit
package module

import (
	"context"

	"codg/internal/core/codg"
	modkit "codg/internal/modkit"
	"codg/internal/modkit/httpkit"
	"codg/internal/platform/net/middleware"
	esthttp "codg/internal/services/api/estimates/http"
	estrepo "codg/internal/services/api/estimates/repo"
	estsvc "codg/internal/services/api/estimates/service"
	sessdomain "codg/internal/services/api/sessions/domain"
)

// DefaultMaxInFlight is the estimate request concurrency when CORE_ESTIMATES_MAX_INFLIGHT is unset
const DefaultMaxInFlight = 64

// Ports declares what the estimates module needs injected
type Ports struct {
	Sessions sessdomain.Reader
}

// Module implements the estimates module
type Module struct {
	b   modkit.Built
	svc *estsvc.Svc
}

// EngineFromConfig reads the scan domain from CORE_CODG_GAZE_MIN and CORE_CODG_GAZE_MAX
func EngineFromConfig(deps modkit.Deps) codg.Options {
	c := deps.Cfg.Prefix("CORE_CODG_")
	o := codg.DefaultOptions()
	o.GazeMin = c.MayFloat64("GAZE_MIN", o.GazeMin)
	o.GazeMax = c.MayFloat64("GAZE_MAX", o.GazeMax)
	return o
}

// New constructs the estimates module
// Without deps.PG or an injected session reader only inline estimates are served
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	sessdomain.RegisterValidators()
	// fits are CPU bound, bound how many run at once
	inflight := deps.Cfg.Prefix("CORE_ESTIMATES_").MayInt("MAX_INFLIGHT", DefaultMaxInFlight)
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("estimates"),
		modkit.WithPrefix("/estimates"),
		modkit.WithMiddlewares(middleware.Throttle(inflight)),
	}, opts...)...)

	sopts := []estsvc.Option{
		estsvc.WithEngine(EngineFromConfig(deps)),
		estsvc.WithMetrics(deps.Metrics),
		estsvc.WithClock(deps.Clock()),
		estsvc.WithListLimit(deps.Cfg.Prefix("CORE_SESSIONS_").MayInt("LIST_LIMIT", estsvc.DefaultListLimit)),
	}
	if deps.PG != nil {
		sopts = append(sopts, estsvc.WithStore(deps.PG, estrepo.NewPG()))
	}
	if p, ok := b.Ports.(Ports); ok && p.Sessions != nil {
		sopts = append(sopts, estsvc.WithReader(p.Sessions))
	}
	return &Module{b: b, svc: estsvc.New(sopts...)}
}

// Migrate applies the module schema
func (m *Module) Migrate(ctx context.Context) error { return m.svc.Migrate(ctx) }

// MountRoutes mounts the module routes under its prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { esthttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return m.b.ModuleName() }

// Ports exposes the estimates service
func (m *Module) Ports() any { return m.svc }
