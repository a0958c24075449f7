package csvlog

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"codg/internal/core/codg"
	perr "codg/internal/platform/errors"
	"codg/internal/platform/testkit"
)

func sampleRecords() []codg.TrialRecord {
	at := time.Date(2025, 6, 1, 9, 30, 0, 123000000, time.UTC)
	return []codg.TrialRecord{
		{ParticipantID: "P001", TrialIndex: 1, Stimulus: "M1", Level: -3, Repeat: 2, ImageFile: "M1_-3.png", Response: codg.Left, RTMillis: 612, PresentedAt: at, Device: "Mozilla/5.0 (X11, Linux)"},
		{ParticipantID: "P001", TrialIndex: 2, Stimulus: "F1", Level: 1.5, Repeat: 1, ImageFile: "F1_1.5.png", Response: codg.Direct, RTMillis: 480, PresentedAt: at.Add(2 * time.Second), Device: `say "hi"`},
	}
}

func TestTrials_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTrials(&buf, sampleRecords()); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	testkit.MustContain(t, out, strings.Join(TrialColumns, ","))
	testkit.MustContain(t, out, `"Mozilla/5.0 (X11, Linux)"`)
	testkit.MustContain(t, out, `"say ""hi"""`)
	testkit.MustContain(t, out, "2025-06-01T09:30:00.123Z")

	got, err := ReadTrials(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, sampleRecords()) {
		t.Fatalf("round trip mismatch\n got %+v\nwant %+v", got, sampleRecords())
	}
}

func TestReadTrials_ReorderedAndMinimalColumns(t *testing.T) {
	in := "response,gaze_level,face_id,extra\nright,6,M1,x\n,0,M1,x\nL,-6,F1,y\n"
	got, err := ReadTrials(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("blank response row should be skipped, got %d rows", len(got))
	}
	if got[0].Response != codg.Right || got[0].Level != 6 || got[1].Response != codg.Left || got[1].Stimulus != "F1" {
		t.Fatalf("parsed %+v", got)
	}
}

func TestReadTrials_Errors(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		field string
	}{
		{"missing response column", "face_id,gaze_level\nM1,3\n", "response"},
		{"unknown response", "face_id,gaze_level,response\nM1,3,Up\n", "response"},
		{"bad level", "face_id,gaze_level,response\nM1,abc,Left\n", "gaze_level"},
		{"nan level", "face_id,gaze_level,response\nM1,NaN,Left\n", "gaze_level"},
		{"infinite level", "face_id,gaze_level,response\nM1,3,Left\nM1,-Inf,Right\n", "gaze_level"},
		{"bad rt", "face_id,gaze_level,response,rt_ms\nM1,3,Left,fast\n", "rt_ms"},
		{"bad time", "face_id,gaze_level,response,presented_at_iso\nM1,3,Left,yesterday\n", "presented_at_iso"},
	}
	for _, c := range cases {
		_, err := ReadTrials(strings.NewReader(c.in))
		if !perr.IsCode(err, perr.ErrorCodeValidation) {
			t.Fatalf("%s: want validation error got %v", c.name, err)
		}
		if e, _ := perr.As(err); e.Field() != c.field {
			t.Fatalf("%s: field %q want %q", c.name, e.Field(), c.field)
		}
	}
	if _, err := ReadTrials(strings.NewReader("")); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("empty input: %v", err)
	}
}

func TestReadTrials_ReportsLine(t *testing.T) {
	in := "face_id,gaze_level,response\nM1,3,Left\nM1,3,Left\nM1,3,Sideways\n"
	_, err := ReadTrials(strings.NewReader(in))
	testkit.MustContain(t, err.Error(), "line 4")
}

func TestReadTrials_NonFiniteLevelNamesLine(t *testing.T) {
	var b strings.Builder
	b.WriteString("face_id,gaze_level,response\n")
	for i := 0; i < 30; i++ {
		b.WriteString("M1,3,Left\n")
	}
	b.WriteString("M1,+Inf,Right\n")
	recs, err := ReadTrials(strings.NewReader(b.String()))
	if !perr.IsCode(err, perr.ErrorCodeValidation) || recs != nil {
		t.Fatalf("want validation error and no records, got %d %v", len(recs), err)
	}
	testkit.MustContain(t, err.Error(), "line 32")
}

func TestWriteSummaries_AbsentValuesAreEmpty(t *testing.T) {
	res := codg.Result{Status: codg.StatusInsufficientData}
	s := codg.Summarize("P001", res, 12, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), "term")

	var buf bytes.Buffer
	if err := WriteSummaries(&buf, []codg.Summary{s}); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("want header and one row, got %q", buf.String())
	}
	if lines[1] != "P001,,,,insufficient_data,,,,,12,2025-01-02T03:04:05.000Z,term" {
		t.Fatalf("row %q", lines[1])
	}
}

func TestFileNames(t *testing.T) {
	at := time.Date(2025, 11, 3, 14, 5, 9, 0, time.FixedZone("JST", 9*3600))
	if got := TrialsFileName("P 001/a", at); got != "codg_trials_P_001_a_2025-11-03-05-05-09.csv" {
		t.Fatalf("trials name %q", got)
	}
	if got := SummaryFileName("", at); got != "codg_summary_noid_2025-11-03-05-05-09.csv" {
		t.Fatalf("summary name %q", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	recs := sampleRecords()
	sum := codg.Summarize("P001", codg.Result{Status: codg.StatusFitFailed}, len(recs), at, "term")

	saved, err := Save(dir, sum, recs, at)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(saved.Trials) != "codg_trials_P001_2025-01-02-03-04-05.csv" {
		t.Fatalf("trials path %q", saved.Trials)
	}
	got, err := LoadTrials(saved.Trials)
	if err != nil || len(got) != len(recs) {
		t.Fatalf("load: %d %v", len(got), err)
	}
	if _, err := os.Stat(saved.Summary); err != nil {
		t.Fatalf("summary missing: %v", err)
	}

	empty, err := Save(dir, sum, nil, at.Add(time.Second))
	if err != nil || empty.Trials != "" || empty.Summary == "" {
		t.Fatalf("empty log should only write a summary: %+v %v", empty, err)
	}
}

func TestWriteSummaryFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "summary.csv")
	if err := os.WriteFile(p, []byte("stale"), 0o600); err != nil {
		t.Fatal(err)
	}
	sum := codg.Summarize("P001", codg.Result{Status: codg.StatusFitFailed}, 40, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), "term")
	if err := WriteSummaryFile(p, sum); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	testkit.MustContain(t, string(b), "P001,,,,fit_failed,")
	if strings.Contains(string(b), "stale") {
		t.Fatalf("old content kept: %q", b)
	}
	left, _ := filepath.Glob(filepath.Join(dir, ".codg-*"))
	if len(left) != 0 {
		t.Fatalf("temp files left behind: %v", left)
	}

	missing := filepath.Join(dir, "nope", "summary.csv")
	if err := WriteSummaryFile(missing, sum); !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("missing dir: %v", err)
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Fatalf("nothing should be written on failure: %v", err)
	}
}

func TestLoadTrials_GzipAndMissing(t *testing.T) {
	var raw bytes.Buffer
	if err := WriteTrials(&raw, sampleRecords()); err != nil {
		t.Fatal(err)
	}
	var gz bytes.Buffer
	zw := gzip.NewWriter(&gz)
	if _, err := zw.Write(raw.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(t.TempDir(), "log.csv.gz")
	if err := os.WriteFile(p, gz.Bytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := LoadTrials(p)
	if err != nil || len(got) != 2 {
		t.Fatalf("gz load: %d %v", len(got), err)
	}

	if _, err := LoadTrials(filepath.Join(t.TempDir(), "nope.csv")); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing file: %v", err)
	}
}
