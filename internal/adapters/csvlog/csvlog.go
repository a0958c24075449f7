// Package csvlog reads and writes trial logs and summary rows as CSV
//
// Column names and order match the exports of the browser task so files from
// either side can be mixed. Quoting follows encoding/csv, which quotes fields
// holding a comma, a quote or a line break and doubles embedded quotes
package csvlog

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"codg/internal/core/codg"
	perr "codg/internal/platform/errors"
)

// TimeLayout is the ISO 8601 UTC form used for every timestamp column
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// TrialColumns is the header of a trial log
var TrialColumns = []string{
	"participant_id", "trial_index", "face_id", "gaze_level", "repeat",
	"image_file", "response", "rt_ms", "presented_at_iso", "device",
}

// SummaryColumns is the header of a summary file
var SummaryColumns = []string{
	"participant_id", "codg", "x_left", "x_right", "note",
	"b0_left", "b1_left", "b0_right", "b1_right",
	"n_trials", "finished_at_iso", "device",
}

// WriteTrials writes the header and one row per record
func WriteTrials(w io.Writer, recs []codg.TrialRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TrialColumns); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "write trials header")
	}
	for _, r := range recs {
		row := []string{
			r.ParticipantID,
			strconv.Itoa(r.TrialIndex),
			r.Stimulus,
			formatFloat(r.Level),
			strconv.Itoa(r.Repeat),
			r.ImageFile,
			string(r.Response),
			strconv.FormatInt(r.RTMillis, 10),
			formatTime(r.PresentedAt),
			r.Device,
		}
		if err := cw.Write(row); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "write trial %d", r.TrialIndex)
		}
	}
	cw.Flush()
	return perr.WrapIf(cw.Error(), perr.ErrorCodeUnknown, "flush trials")
}

// WriteSummaries writes the header and one row per summary
// Absent numeric values become empty cells
func WriteSummaries(w io.Writer, rows []codg.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryColumns); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "write summary header")
	}
	for _, s := range rows {
		row := []string{
			s.ParticipantID,
			formatOpt(s.CoDG),
			formatOpt(s.XLeft),
			formatOpt(s.XRight),
			string(s.Status),
			formatOpt(s.B0Left),
			formatOpt(s.B1Left),
			formatOpt(s.B0Right),
			formatOpt(s.B1Right),
			strconv.Itoa(s.NTrials),
			formatTime(s.FinishedAt),
			s.Device,
		}
		if err := cw.Write(row); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeUnknown, "write summary for %s", s.ParticipantID)
		}
	}
	cw.Flush()
	return perr.WrapIf(cw.Error(), perr.ErrorCodeUnknown, "flush summaries")
}

// ReadTrials parses a trial log
// Columns are matched by header name so extra or reordered columns are fine;
// face_id, gaze_level and response are required. Rows with a blank response
// were never answered and are skipped
func ReadTrials(r io.Reader) ([]codg.TrialRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, perr.Validationf("trials csv: empty input")
	}
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeValidation, "trials csv: read header")
	}
	col := indexColumns(header)
	for _, req := range []string{"face_id", "gaze_level", "response"} {
		if _, ok := col[req]; !ok {
			return nil, perr.WithField(perr.Validationf("trials csv: missing column %q", req), req)
		}
	}

	var out []codg.TrialRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeValidation, "trials csv")
		}
		line, _ := cr.FieldPos(0)
		rec, skip, err := parseTrial(col, row, line)
		if err != nil {
			return nil, err
		}
		if !skip {
			out = append(out, rec)
		}
	}
	return out, nil
}

func parseTrial(col map[string]int, row []string, line int) (codg.TrialRecord, bool, error) {
	get := func(name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	bad := func(field, format string, a ...any) error {
		return perr.WithField(perr.Validationf("trials csv line %d: "+format, append([]any{line}, a...)...), field)
	}

	raw := get("response")
	if raw == "" {
		return codg.TrialRecord{}, true, nil
	}
	resp, ok := codg.ParseResponse(raw)
	if !ok {
		return codg.TrialRecord{}, false, bad("response", "unknown response %q", raw)
	}
	level, err := strconv.ParseFloat(get("gaze_level"), 64)
	if err != nil || math.IsNaN(level) || math.IsInf(level, 0) {
		return codg.TrialRecord{}, false, bad("gaze_level", "bad gaze level %q", get("gaze_level"))
	}

	rec := codg.TrialRecord{
		ParticipantID: get("participant_id"),
		Stimulus:      get("face_id"),
		Level:         level,
		ImageFile:     get("image_file"),
		Response:      resp,
		Device:        get("device"),
	}
	if rec.TrialIndex, err = optInt(get("trial_index")); err != nil {
		return rec, false, bad("trial_index", "bad trial index %q", get("trial_index"))
	}
	if rec.Repeat, err = optInt(get("repeat")); err != nil {
		return rec, false, bad("repeat", "bad repeat %q", get("repeat"))
	}
	if v := get("rt_ms"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return rec, false, bad("rt_ms", "bad rt %q", v)
		}
		rec.RTMillis = int64(f + 0.5)
	}
	if v := get("presented_at_iso"); v != "" {
		ts, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return rec, false, bad("presented_at_iso", "bad timestamp %q", v)
		}
		rec.PresentedAt = ts.UTC()
	}
	return rec, false, nil
}

func indexColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
		if _, dup := m[h]; !dup {
			m[h] = i
		}
	}
	return m
}

func optInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func formatOpt(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}
