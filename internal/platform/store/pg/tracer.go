package pg

import (
	"context"
	"strings"
	"time"

	"codg/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives statement events
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement at info, slow ones at warn, regardless of the
// root level since enabling it is an explicit choice
func Tracer(root logger.Logger) QueryTracer {
	return zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type zlTracer struct{ log zerolog.Logger }

func (z zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow || ev.Err != nil {
		evt = z.log.Warn()
	}
	evt.Float64("elapsed_ms", float64(ev.Elapsed.Microseconds())/1000).
		Bool("slow", ev.Slow).
		Str("sql", Compact(ev.SQL)).
		Int("args", len(ev.Args)).
		Err(ev.Err).
		Msg("pg query")
}

// Compact folds whitespace runs so multi line SQL logs on one line
func Compact(sql string) string { return strings.Join(strings.Fields(sql), " ") }
