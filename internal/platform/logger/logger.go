// Package logger wraps zerolog with process wide defaults plus request and
// trial session scoped child loggers
package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"codg/internal/core/version"
	"codg/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Logger is the project wide logging type
type Logger = zerolog.Logger

// Options configures the root logger
type Options struct {
	Level     string
	Format    string // console or json
	Service   string
	Component string
	Writer    io.Writer // defaults to stderr so CLI output on stdout stays clean
	Caller    bool
	// SampleEvery keeps one event in N when above 1
	SampleEvery  int
	StaticFields map[string]string
}

// FromEnv reads LOG_* through the raw view, config proper logs and cannot be used here
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:       strings.ToLower(rc.Get("LEVEL", "info")),
		Format:      strings.ToLower(rc.Get("FORMAT", "console")),
		Service:     rc.Get("SERVICE", ""),
		Component:   rc.Get("COMPONENT", ""),
		Caller:      rc.GetBool("CALLER", false),
		SampleEvery: rc.GetInt("SAMPLE_EVERY", 0),
	}
}

var (
	once sync.Once
	root atomic.Pointer[Logger]
)

// Init installs the root logger; only the first call has an effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano
		l := Build(opt)
		root.Store(&l)
	})
}

// Get returns the root logger, initialising it from the environment on first use
func Get() *Logger {
	if l := root.Load(); l != nil {
		return l
	}
	Init(FromEnv())
	return root.Load()
}

// Build returns a logger for opt without touching the root
func Build(opt Options) Logger {
	w := opt.Writer
	if w == nil {
		w = os.Stderr
	}
	if opt.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	fields := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
	if opt.Service != "" {
		bi := version.Info(opt.Service)
		fields = fields.Str("service", bi.Service).Str("version", bi.Version)
	}
	if opt.Component != "" {
		fields = fields.Str("component", opt.Component)
	}
	for k, v := range opt.StaticFields {
		fields = fields.Str(k, v)
	}
	if opt.Caller {
		fields = fields.Caller()
	}

	l := fields.Logger()
	if opt.SampleEvery > 1 {
		l = l.Sample(&zerolog.BasicSampler{N: uint32(opt.SampleEvery)})
	}
	return l
}

// parseLevel maps names to levels, anything unknown logs at debug
func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	}
	return zerolog.DebugLevel
}

type ctxKey string

// scoped lists the context keys C copies onto child loggers, in output order
var scoped = []ctxKey{"request_id", "session_id", "participant_id"}

// WithRequest annotates ctx with the request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	return with(ctx, "request_id", reqID)
}

// WithSession annotates ctx with the trial session and its participant
// so every line logged for that session can be grepped back together
func WithSession(ctx context.Context, sessionID, participantID string) context.Context {
	return with(with(ctx, "session_id", sessionID), "participant_id", participantID)
}

func with(ctx context.Context, k ctxKey, v string) context.Context {
	if v == "" {
		return ctx
	}
	return context.WithValue(ctx, k, v)
}

// C returns a child logger enriched from ctx
func C(ctx context.Context) *Logger {
	b := Get().With()
	for _, k := range scoped {
		if s, ok := ctx.Value(k).(string); ok {
			b = b.Str(string(k), s)
		}
	}
	l := b.Logger()
	return &l
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	l := Get().With().Str("component", component).Logger()
	return &l
}
