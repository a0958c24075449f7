package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codg/internal/adapters/csvlog"
	"codg/internal/core/codg"
	"codg/internal/platform/testkit"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(strings.NewReader(stdin), &out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// scenarioLog writes eleven levels by five answers with symmetric left and
// right boundaries at about 3.68 degrees
func scenarioLog(t *testing.T, dir string) string {
	t.Helper()
	levels := []float64{-12, -9, -6, -3, -1, 0, 1, 3, 6, 9, 12}
	lefts := []int{5, 5, 4, 2, 1, 0, 0, 0, 0, 0, 0}
	rights := []int{0, 0, 0, 0, 0, 0, 1, 2, 4, 5, 5}

	var recs []codg.TrialRecord
	for _, face := range []string{"M1", "F1"} {
		for i, lv := range levels {
			for k := 0; k < 5; k++ {
				resp := codg.Direct
				switch {
				case k < lefts[i]:
					resp = codg.Left
				case k < lefts[i]+rights[i]:
					resp = codg.Right
				}
				recs = append(recs, codg.TrialRecord{
					ParticipantID: "P007",
					TrialIndex:    len(recs) + 1,
					Stimulus:      face,
					Level:         lv,
					Repeat:        k + 1,
					Response:      resp,
					Device:        "term",
				})
			}
		}
	}
	p := filepath.Join(dir, "trials.csv")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := csvlog.WriteTrials(f, recs); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return p
}

const quickDesign = "faces: [M1]\nlevels: [-6, -3, 0, 3, 6]\nrepeats: 1\ntiming:\n  fixation_ms: 0\n  stimulus_ms: 0\n  post_response_ms: 0\n"

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	testkit.MustContain(t, out, "codg dev")
}

func TestPlan(t *testing.T) {
	design := testkit.WriteTemp(t, "design.yaml", []byte("faces: [A1]\nlevels: [-3, 0, 3]\nrepeats: 2\n"))

	out, err := execute(t, "", "plan", "--design", design, "--seed", "7")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 1+6 {
		t.Fatalf("want header and 6 rows, got %q", out)
	}
	testkit.MustContain(t, out, "stimuli/A1_")

	again, _ := execute(t, "", "plan", "--design", design, "--seed", "7")
	if again != out {
		t.Fatalf("same seed should print the same plan")
	}

	js, err := execute(t, "", "plan", "--design", design, "--seed", "7", "--json")
	if err != nil {
		t.Fatalf("plan json: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal([]byte(js), &rows); err != nil || len(rows) != 6 {
		t.Fatalf("json plan %d %v", len(rows), err)
	}
}

func TestRun_SavesLogs(t *testing.T) {
	dir := t.TempDir()
	design := testkit.WriteTemp(t, "design.yaml", []byte(quickDesign))
	out := filepath.Join(dir, "out")

	stdout, err := execute(t, "l\nnope\nd\nr\nLeft\nright\n", "run", "-p", "P001", "--design", design, "--out", out, "--seed", "1")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stdout)
	}
	testkit.MustContain(t, stdout, "CoDG: NA (insufficient_data)")

	trials, _ := filepath.Glob(filepath.Join(out, "codg_trials_P001_*.csv"))
	summaries, _ := filepath.Glob(filepath.Join(out, "codg_summary_P001_*.csv"))
	if len(trials) != 1 || len(summaries) != 1 {
		t.Fatalf("files %v %v", trials, summaries)
	}
	recs, err := csvlog.LoadTrials(trials[0])
	if err != nil || len(recs) != 5 {
		t.Fatalf("log %d %v", len(recs), err)
	}
	if recs[0].Response != codg.Left || recs[1].Response != codg.Direct || recs[4].Device != "terminal" {
		t.Fatalf("records %+v", recs)
	}
}

func TestRun_InputEndsEarly(t *testing.T) {
	dir := t.TempDir()
	design := testkit.WriteTemp(t, "design.yaml", []byte(quickDesign))

	_, err := execute(t, "l\nr\n", "run", "-p", "P002", "--design", design, "--out", dir, "--seed", "1")
	if err == nil || !strings.Contains(err.Error(), "input ended after 2 of 5 trials") {
		t.Fatalf("want early end error got %v", err)
	}
	trials, _ := filepath.Glob(filepath.Join(dir, "codg_trials_P002_*.csv"))
	if len(trials) != 1 {
		t.Fatalf("partial log should be saved: %v", trials)
	}
}

func TestRun_RequiresParticipant(t *testing.T) {
	if _, err := execute(t, "", "run"); err == nil {
		t.Fatalf("missing --participant should fail")
	}
}

func TestEstimate(t *testing.T) {
	dir := t.TempDir()
	log := scenarioLog(t, dir)

	out, err := execute(t, "", "estimate", "--trials", log)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	testkit.MustContain(t, out, "all")
	testkit.MustContain(t, out, "CoDG: 7.")
	testkit.MustContain(t, out, "n=110")

	out, err = execute(t, "", "estimate", "--trials", log, "--per-face")
	if err != nil {
		t.Fatalf("per face: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "M1") || !strings.HasPrefix(lines[2], "F1") {
		t.Fatalf("per face rows %q", out)
	}
	testkit.MustContain(t, lines[2], "n=55")

	out, err = execute(t, "", "estimate", "--trials", log, "--gaze-min=-2", "--gaze-max=2")
	if err != nil {
		t.Fatalf("narrow domain: %v", err)
	}
	testkit.MustContain(t, out, "CoDG: NA (intersection_not_found)")

	if _, err := execute(t, "", "estimate", "--trials", log, "--gaze-min=5", "--gaze-max=1"); err == nil {
		t.Fatalf("inverted domain should fail")
	}
	if _, err := execute(t, "", "estimate", "--trials", filepath.Join(dir, "missing.csv")); err == nil {
		t.Fatalf("missing log should fail")
	}
}

func TestEstimate_JSONAndSummary(t *testing.T) {
	dir := t.TempDir()
	log := scenarioLog(t, dir)
	sum := filepath.Join(dir, "summary.csv")

	out, err := execute(t, "", "estimate", "--trials", log, "--face", "M1", "--json", "--summary", sum)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	var rows []struct {
		Face   string `json:"face"`
		Result struct {
			Status string `json:"status"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &rows); err != nil || len(rows) != 1 {
		t.Fatalf("json %q %v", out, err)
	}
	if rows[0].Face != "M1" || rows[0].Result.Status != string(codg.StatusOK) {
		t.Fatalf("row %+v", rows[0])
	}

	raw, err := os.ReadFile(sum)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "P007,7.") {
		t.Fatalf("summary %q", raw)
	}
	testkit.MustContain(t, lines[1], ",ok,")
	testkit.MustContain(t, lines[1], ",110,")
}
