// Package repokit holds the seams repos and services are written against so
// they never import a driver
package repokit

import (
	"context"

	"codg/internal/platform/store"
)

type (
	// Queryer is the read and write surface for SQL repos
	Queryer = store.RowQuerier
	// TxRunner runs a function inside one transaction
	TxRunner = store.TxRunner
	// Rows is a result set
	Rows = store.Rows
	// Row is a single row
	Row = store.Row
	// CommandTag reports what a write did
	CommandTag = store.CommandTag
	// Archive is the columnar append seam, ClickHouse in production
	Archive = store.Clickhouse
)

// WithTx runs fn inside a transaction on tx
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}
