package store

import (
	"context"

	"codg/internal/platform/store/ch"
)

type chAdapter struct{ c *ch.Client }

func newCHAdapter(c *ch.Client) *chAdapter { return &chAdapter{c: c} }

func (a *chAdapter) Exec(ctx context.Context, sql string, args ...any) error {
	return a.c.Exec(ctx, sql, args...)
}

func (a *chAdapter) Insert(ctx context.Context, table string, columns []string, rows [][]any) error {
	return a.c.Insert(ctx, table, columns, rows)
}

func (a *chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := a.c.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{rs}, nil
}

func (a *chAdapter) Ping(ctx context.Context) error { return a.c.Ping(ctx) }

func (a *chAdapter) Close() error { return a.c.Close() }

// chRows drops the Close error to match Rows
type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }
