package store

import (
	"context"
	"fmt"
	"time"

	"codg/internal/platform/logger"
	chx "codg/internal/platform/store/ch"
	"codg/internal/platform/store/pg"
)

func openPG(ctx context.Context, cfg PGConfig, log logger.Logger) (*pgAdapter, error) {
	var tracer pg.QueryTracer
	if cfg.LogSQL {
		tracer = pg.Tracer(log)
	}
	p, err := pg.Open(ctx, pg.Config{URL: cfg.URL, MaxConns: cfg.MaxConns, SlowMs: cfg.SlowMs}, tracer, nil)
	if err != nil {
		return nil, err
	}
	attempts := cfg.ConnectAttempts
	if attempts <= 0 {
		attempts = 1
	}
	if err := retry(ctx, attempts, func(ctx context.Context) error { return p.Pool.Ping(ctx) }); err != nil {
		p.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, cfg CHConfig) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.URL, ClientName: cfg.ClientName, ClientTag: cfg.ClientTag})
	if err != nil {
		return nil, fmt.Errorf("clickhouse: %w", err)
	}
	return newCHAdapter(c), nil
}

// retry calls fn with a per attempt timeout and capped exponential backoff
func retry(ctx context.Context, attempts int, fn func(context.Context) error) error {
	var last error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		actx, cancel := context.WithTimeout(ctx, pingTimeout)
		last = fn(actx)
		cancel()
		if last == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		backoff = min(backoff*2, backoffCeiling)
	}
	return fmt.Errorf("ping failed after %d attempts: %w", attempts, last)
}
