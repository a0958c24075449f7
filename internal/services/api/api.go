// Package api provides the HTTP API for the application
package api

import (
	"context"
	"time"

	"codg/internal/platform/config"
	"codg/internal/platform/logger"
	"codg/internal/platform/metrics"
	phttp "codg/internal/platform/net/http"
	"codg/internal/platform/net/middleware"
	"codg/internal/platform/store"

	"codg/internal/modkit"
	"codg/internal/modkit/httpkit"
	"codg/internal/modkit/module"
	"codg/internal/modkit/swaggerkit"

	estmod "codg/internal/services/api/estimates/module"
	metamod "codg/internal/services/api/meta/module"
	sessdomain "codg/internal/services/api/sessions/domain"
	sessmod "codg/internal/services/api/sessions/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Metrics        *metrics.Metrics
	Logger         *logger.Logger
	Now            func() time.Time
	EnableSwagger  bool
	EnableProfiler bool
	// Migrate applies module schemas before routes are mounted
	Migrate bool
	// Origins allowed by CORS, any when empty
	Origins []string
	// SlowRequest logs slower requests at warn
	SlowRequest time.Duration
}

type migrator interface {
	Migrate(ctx context.Context) error
}

// Mount builds the modules and mounts them under /api/v1
// Without a Postgres store the sessions module is left out and estimates
// only serve the inline endpoint
func Mount(ctx context.Context, r phttp.Router, opt Options) ([]module.Module, error) {
	log := opt.Logger
	if log == nil {
		log = logger.Named("api")
	}
	deps := modkit.Deps{
		Log:     *log,
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
		Now:     opt.Now,
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}
	engine := estmod.EngineFromConfig(deps)

	mods := []module.Module{metamod.New(deps, engine)}

	// sessions owns the Reader port estimates consumes
	var reader sessdomain.Reader
	if deps.PG != nil {
		sessions := sessmod.New(deps)
		reader = module.MustPortsOf[sessdomain.Reader](sessions)
		mods = append(mods, sessions)
	} else {
		deps.Log.Warn().Msg("postgres disabled, sessions and stored estimates are off")
	}
	mods = append(mods, estmod.New(deps, modkit.WithPorts(estmod.Ports{Sessions: reader})))

	if opt.Migrate {
		for _, m := range mods {
			mg, ok := m.(migrator)
			if !ok {
				continue
			}
			if err := mg.Migrate(ctx); err != nil {
				return nil, err
			}
			deps.Log.Debug().Str("module", m.Name()).Msg("schema ready")
		}
	}

	// root scope: liveness, metrics, docs and profiler sit outside /api/v1
	r.Use(middleware.Heartbeat("/ping"))
	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	stack := httpkit.CommonStack(httpkit.StackOptions{
		Origins:  opt.Origins,
		Slow:     opt.SlowRequest,
		Observer: opt.Metrics,
	})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
	return mods, nil
}
