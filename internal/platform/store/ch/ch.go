// Package ch is the ClickHouse client behind the trial archive
package ch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures the connection; URL is a clickhouse:// DSN
type Config struct {
	URL         string
	ClientName  string
	ClientTag   string
	DialTimeout time.Duration
}

// Rows is the driver result set
type Rows = driver.Rows

// Client wraps a native protocol connection
type Client struct {
	conn driver.Conn
}

var openConn = clickhouse.Open

// Open parses the DSN, tags the connection with client info and pings it
func Open(ctx context.Context, cfg Config) (*Client, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	opts.ClientInfo = BuildClientInfo(cfg.ClientName, cfg.ClientTag)
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	conn, err := openConn(opts)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Exec runs DDL or a statement without rows
func (c *Client) Exec(ctx context.Context, sql string, args ...any) error {
	return c.conn.Exec(ctx, sql, args...)
}

// Insert appends rows to table as a single batch, values in columns order
func (c *Client) Insert(ctx context.Context, table string, columns []string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	batch, err := c.conn.PrepareBatch(ctx, InsertSQL(table, columns))
	if err != nil {
		return err
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			_ = batch.Abort()
			return fmt.Errorf("row %d has %d values for %d columns", i, len(r), len(columns))
		}
		if err := batch.Append(r...); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append row %d: %w", i, err)
		}
	}
	return batch.Send()
}

// Query runs a select
func (c *Client) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return c.conn.Query(ctx, sql, args...)
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Close closes the connection
func (c *Client) Close() error { return c.conn.Close() }

// InsertSQL is the batch prefix, e.g. INSERT INTO t (a, b)
func InsertSQL(table string, columns []string) string {
	return "INSERT INTO " + table + " (" + strings.Join(columns, ", ") + ")"
}
