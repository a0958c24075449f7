package repokit

import (
	"context"
	"strconv"
	"time"
)

// BeginHook runs first inside every transaction with the tx bound Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks wraps inner so each Tx runs hooks before fn
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	return hookedTx{TxRunner: inner, hooks: hooks}
}

type hookedTx struct {
	TxRunner
	hooks []BeginHook
}

func (h hookedTx) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, hk := range h.hooks {
			if err := hk(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

// StatementTimeout bounds every statement of the transaction
func StatementTimeout(d time.Duration) BeginHook {
	v := strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	return func(ctx context.Context, q Queryer) error {
		_, err := q.Exec(ctx, `select set_config('statement_timeout', $1, true)`, v)
		return err
	}
}
