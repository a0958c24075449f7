package repo

import (
	"context"
	"testing"
	"time"

	"codg/internal/core/codg"
	perr "codg/internal/platform/errors"
	"codg/internal/platform/store"
)

type captureCH struct{ rows [][]any }

func (c *captureCH) Exec(context.Context, string, ...any) error { return nil }
func (c *captureCH) Insert(_ context.Context, _ string, cols []string, rows [][]any) error {
	for _, r := range rows {
		if len(r) != len(cols) {
			return perr.Newf(perr.ErrorCodeUnknown, "row has %d values for %d columns", len(r), len(cols))
		}
	}
	c.rows = append(c.rows, rows...)
	return nil
}
func (c *captureCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (c *captureCH) Close() error                                             { return nil }

func TestArchive_RowsAndNullOnset(t *testing.T) {
	at := time.Date(2025, 6, 1, 11, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	ch := &captureCH{}
	a := NewArchive(ch)
	recs := []codg.TrialRecord{
		{ParticipantID: "P001", TrialIndex: 7, Stimulus: "M1", Level: -3, Repeat: 65535, Response: codg.Left, PresentedAt: at},
		{ParticipantID: "P001", TrialIndex: 8, Stimulus: "F1", Level: 3, Repeat: 1, Response: codg.Right},
	}
	if err := a.Append(context.Background(), "s1", recs); err != nil {
		t.Fatalf("append: %v", err)
	}
	if len(ch.rows) != 2 {
		t.Fatalf("rows %v", ch.rows)
	}
	first := ch.rows[0]
	if first[0] != "s1" || first[2] != uint32(7) || first[5] != uint16(65535) || first[7] != "Left" {
		t.Fatalf("row %v", first)
	}
	onset, ok := first[9].(*time.Time)
	if !ok || onset == nil || !onset.Equal(at) || onset.Location() != time.UTC {
		t.Fatalf("onset %#v", first[9])
	}
	if p, _ := ch.rows[1][9].(*time.Time); p != nil {
		t.Fatalf("unset onset should be null, got %v", p)
	}
}

func TestArchive_RefusesValuesWiderThanColumns(t *testing.T) {
	cases := []struct {
		name  string
		rec   codg.TrialRecord
		field string
	}{
		{"repeat above uint16", codg.TrialRecord{TrialIndex: 1, Repeat: 65536}, "repeat"},
		{"negative repeat", codg.TrialRecord{TrialIndex: 1, Repeat: -1}, "repeat"},
		{"negative index", codg.TrialRecord{TrialIndex: -1}, "trial_index"},
	}
	for _, c := range cases {
		ch := &captureCH{}
		err := NewArchive(ch).Append(context.Background(), "s1", []codg.TrialRecord{c.rec})
		if !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("%s: want validation error got %v", c.name, err)
		}
		if e, _ := perr.As(err); e.Field() != c.field {
			t.Fatalf("%s: field %q", c.name, e.Field())
		}
		if len(ch.rows) != 0 {
			t.Fatalf("%s: nothing should be sent", c.name)
		}
	}
}

func TestNewArchive_NilStore(t *testing.T) {
	if NewArchive(nil) != nil {
		t.Fatalf("nil store should disable archiving")
	}
}
