package csvlog

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codg/internal/core/codg"
	"codg/internal/core/normalize"
	perr "codg/internal/platform/errors"
)

// StampLayout renders the file name timestamp, e.g. 2025-01-02-03-04-05
const StampLayout = "2006-01-02-15-04-05"

// Stamp formats at in UTC for file names
func Stamp(at time.Time) string { return at.UTC().Format(StampLayout) }

// TrialsFileName is codg_trials_<participant>_<stamp>.csv
func TrialsFileName(participantID string, at time.Time) string {
	return "codg_trials_" + normalize.FileSafe(participantID) + "_" + Stamp(at) + ".csv"
}

// SummaryFileName is codg_summary_<participant>_<stamp>.csv
func SummaryFileName(participantID string, at time.Time) string {
	return "codg_summary_" + normalize.FileSafe(participantID) + "_" + Stamp(at) + ".csv"
}

// Saved lists the files written by Save; Trials is empty when there was nothing to log
type Saved struct {
	Trials  string
	Summary string
}

// Save writes the trial log and the summary into dir using the standard names
// The trial log is skipped when recs is empty, the summary is always written
func Save(dir string, summary codg.Summary, recs []codg.TrialRecord, at time.Time) (Saved, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Saved{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "create %s", dir)
	}
	var out Saved
	if len(recs) > 0 {
		p := filepath.Join(dir, TrialsFileName(summary.ParticipantID, at))
		if err := writeFile(p, func(w io.Writer) error { return WriteTrials(w, recs) }); err != nil {
			return out, err
		}
		out.Trials = p
	}
	p := filepath.Join(dir, SummaryFileName(summary.ParticipantID, at))
	if err := WriteSummaryFile(p, summary); err != nil {
		return out, err
	}
	out.Summary = p
	return out, nil
}

// WriteSummaryFile replaces path with a summary CSV holding rows
// The directory must exist; the old file stays intact when writing fails
func WriteSummaryFile(path string, rows ...codg.Summary) error {
	return writeFile(path, func(w io.Writer) error { return WriteSummaries(w, rows) })
}

// LoadTrials reads a trial log from path, transparently gunzipping *.gz files
func LoadTrials(path string) ([]codg.TrialRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, perr.Wrapf(err, perr.ErrorCodeNotFound, "open %s", path)
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeValidation, "gunzip %s", path)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}
	recs, err := ReadTrials(r)
	return recs, perr.WithOp(err, path)
}

// writeFile writes through a temp file and renames so readers never see a partial file
func writeFile(path string, fn func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".codg-*.csv")
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "create temp for %s", path)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := fn(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "chmod %s", path)
	}
	if err := tmp.Close(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "close %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "rename into %s", path)
	}
	return nil
}
