// Package module wires sessions into the API using modkit
package module

import (
	"context"
	"time"

	modkit "codg/internal/modkit"
	"codg/internal/modkit/httpkit"
	"codg/internal/modkit/repokit"
	"codg/internal/services/api/sessions/domain"
	sesshttp "codg/internal/services/api/sessions/http"
	sessrepo "codg/internal/services/api/sessions/repo"
	sesssvc "codg/internal/services/api/sessions/service"
)

// DefaultStatementTimeout bounds each statement of an append transaction
const DefaultStatementTimeout = 5 * time.Second

// Ports is what the sessions module exposes to other modules
type Ports struct {
	Reader domain.Reader
}

// Module implements the sessions module
type Module struct {
	b   modkit.Built
	svc *sesssvc.Svc
}

// New constructs the sessions module; deps.PG is required
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	domain.RegisterValidators()
	b := modkit.Build(append([]modkit.Option{modkit.WithName("sessions"), modkit.WithPrefix("/sessions")}, opts...)...)

	db := deps.PG
	if d := deps.Cfg.Prefix("CORE_SESSIONS_").MayDuration("STATEMENT_TIMEOUT", DefaultStatementTimeout); d > 0 {
		db = repokit.WithBeginHooks(db, repokit.StatementTimeout(d))
	}
	svc := sesssvc.New(db, sessrepo.NewPG(),
		sesssvc.WithArchive(sessrepo.NewArchive(deps.CH)),
		sesssvc.WithMetrics(deps.Metrics),
		sesssvc.WithClock(deps.Clock()),
	)
	return &Module{b: b, svc: svc}
}

// Migrate applies the module schema
func (m *Module) Migrate(ctx context.Context) error { return m.svc.Migrate(ctx) }

// MountRoutes mounts the module routes under its prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { sesshttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return m.b.ModuleName() }

// Ports exposes the read side
func (m *Module) Ports() any { return Ports{Reader: m.svc} }
