// @title         codg API
// @version       1.0
// @description   Trial sessions and cone of direct gaze estimates
// @BasePath      /api/v1

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codg/internal/platform/config"
	"codg/internal/platform/logger"
	"codg/internal/platform/metrics"
	phttp "codg/internal/platform/net/http"
	"codg/internal/platform/store"

	"codg/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")      // pgCfg lives under SERVICE_PGSQL_*
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_") // chCfg lives under SERVICE_CLICKHOUSE_*

	// bring up logging early
	opts := logger.FromEnv()
	if opts.Service == "" {
		opts.Service = "codg-api"
	}
	logger.Init(opts)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// postgres is on when SERVICE_PGSQL_DBURL is set, the archive when SERVICE_CLICKHOUSE_ENABLED
	st, err := store.Open(ctx, store.FromEnv(pgCfg, chCfg, "api"), store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if err := st.Guard(ctx); err != nil {
		l.Fatal().Err(err).Msg("store not ready")
	}

	// http server (reads CORE_API_ADDR, CORE_API_SHUTDOWN_GRACE)
	srv := phttp.NewServer(apiCfg)

	var reg *metrics.Metrics
	if apiCfg.MayBool("METRICS", true) {
		reg = metrics.New()
	}

	// mount our API
	if _, err := api.Mount(ctx, srv.Router(), api.Options{
		Config:         root,
		Store:          st,
		Metrics:        reg,
		Logger:         l,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		Migrate:        apiCfg.MayBool("MIGRATE", true),
		Origins:        apiCfg.MayCSV("CORS_ORIGINS", nil),
		SlowRequest:    apiCfg.MayDuration("SLOW_REQUEST", time.Second),
	}); err != nil {
		l.Fatal().Err(err).Msg("api mount failed")
	}

	l.Info().Str("addr", srv.Addr()).Msg("codg-api listening")
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
