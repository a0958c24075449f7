package pg

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"codg/internal/platform/testkit"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	in := "\n  select id,\n\tface_id\n from   codg_trials  "
	if got := Compact(in); got != "select id, face_id from codg_trials" {
		t.Fatalf("compact %q", got)
	}
}

func TestTracer_Levels(t *testing.T) {
	var buf bytes.Buffer
	root := zerolog.New(&buf).Level(zerolog.ErrorLevel)
	tr := Tracer(root)

	tr.OnQuery(context.Background(), QueryEvent{SQL: "select 1", Elapsed: time.Millisecond})
	testkit.MustContain(t, buf.String(), `"level":"info"`)
	testkit.MustContain(t, buf.String(), `"sql":"select 1"`)

	buf.Reset()
	tr.OnQuery(context.Background(), QueryEvent{SQL: "insert", Args: []any{1, 2}, Slow: true})
	testkit.MustContain(t, buf.String(), `"level":"warn"`)
	testkit.MustContain(t, buf.String(), `"args":2`)

	buf.Reset()
	tr.OnQuery(context.Background(), QueryEvent{SQL: "insert", Err: errors.New("dup")})
	testkit.MustContain(t, buf.String(), `"error":"dup"`)
}

func TestOpen_BadURL(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "postgres://%zz"}, nil, nil); err == nil {
		t.Fatalf("want parse error")
	}
}
