// Package store opens the optional backends behind small seams repos can fake:
// Postgres for sessions, trials and summaries, ClickHouse for the trial archive
package store

import (
	"context"
	"errors"
	"fmt"

	"codg/internal/platform/logger"
)

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// CommandTag reports what a write did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the SQL surface repos use
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner runs fn in one transaction, rolling back when fn fails
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam; Insert sends rows as one batch
type Clickhouse interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Insert(ctx context.Context, table string, columns []string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger reports readiness
type Pinger interface{ Ping(context.Context) error }

// Store holds whichever backends were enabled, the rest stay nil
type Store struct {
	Log logger.Logger
	PG  TxRunner
	CH  Clickhouse
}

// Option tweaks Open
type Option func(*Store)

// WithLogger sets the logger handed to the backends
func WithLogger(log logger.Logger) Option { return func(s *Store) { s.Log = log } }

// Open connects the enabled backends; a failure closes what was already opened
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{Log: *logger.Named("store")}
	for _, o := range opts {
		o(s)
	}
	if cfg.PG.Enabled {
		pg, err := openPG(ctx, cfg.PG, s.Log)
		if err != nil {
			return nil, err
		}
		s.PG = pg
	}
	if cfg.CH.Enabled {
		ch, err := openCH(ctx, cfg.CH)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.CH = ch
	}
	return s, nil
}

// Guard pings every open backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil store")
	}
	var errs []error
	for name, b := range map[string]any{"pg": s.PG, "ch": s.CH} {
		if p, ok := b.(Pinger); ok && p != nil {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close releases every open backend
func (s *Store) Close() error {
	var errs []error
	if s.CH != nil {
		errs = append(errs, s.CH.Close())
	}
	if c, ok := s.PG.(interface{ Close() error }); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
