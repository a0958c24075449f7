package store

import (
	"context"
	"time"

	"codg/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxDB is the query surface shared by *pgxpool.Pool and pgx.Tx
type pgxDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgQuerier adapts a pool or a tx and traces each statement
type pgQuerier struct {
	db     pgxDB
	tracer pg.QueryTracer
	slowMs int
}

func (q pgQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := q.db.Exec(ctx, sql, args...)
	q.trace(ctx, sql, args, start, err)
	return ct, err
}

func (q pgQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := q.db.Query(ctx, sql, args...)
	q.trace(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// QueryRow traces once Scan returns so the error is known
func (q pgQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	return tracedRow{r: q.db.QueryRow(ctx, sql, args...), done: func(err error) {
		q.trace(ctx, sql, args, start, err)
	}}
}

func (q pgQuerier) trace(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if q.tracer == nil {
		return
	}
	elapsed := time.Since(start)
	q.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:     sql,
		Args:    args,
		Elapsed: elapsed,
		Err:     err,
		Slow:    q.slowMs > 0 && elapsed >= time.Duration(q.slowMs)*time.Millisecond,
	})
}

type tracedRow struct {
	r    pgx.Row
	done func(error)
}

func (t tracedRow) Scan(dst ...any) error {
	err := t.r.Scan(dst...)
	t.done(err)
	return err
}

// pgAdapter is the pool level TxRunner
type pgAdapter struct {
	pgQuerier
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{pgQuerier: pgQuerier{db: p.Pool, tracer: p.Tracer, slowMs: p.SlowMs}, p: p}
}

func (a *pgAdapter) Ping(ctx context.Context) error { return a.p.Pool.Ping(ctx) }

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

// Tx commits when fn returns nil, otherwise rolls back and returns fn's error
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(pgQuerier{db: tx, tracer: a.tracer, slowMs: a.slowMs}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
