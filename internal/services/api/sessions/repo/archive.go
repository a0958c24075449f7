package repo

import (
	"context"
	"math"
	"time"

	"codg/internal/core/codg"
	"codg/internal/modkit/repokit"
	perr "codg/internal/platform/errors"
)

// ArchiveTable is the ClickHouse table appended trials are copied to
const ArchiveTable = "codg_trials"

// ArchiveColumns is the insert column order of ArchiveTable
var ArchiveColumns = []string{
	"session_id", "participant_id", "trial_index", "face_id", "gaze_level",
	"repeat", "image_file", "response", "rt_ms", "presented_at", "device",
}

const archiveDDL = `
create table if not exists codg_trials (
  session_id String,
  participant_id String,
  trial_index UInt32,
  face_id LowCardinality(String),
  gaze_level Float64,
  repeat UInt16,
  image_file String,
  response LowCardinality(String),
  rt_ms Int64,
  presented_at Nullable(DateTime64(3, 'UTC')),
  device String
) engine = ReplacingMergeTree
order by (participant_id, session_id, trial_index)`

// Archive copies trials into the columnar store for cross participant analysis
type Archive struct{ ch repokit.Archive }

// NewArchive returns nil when ch is nil so callers can skip archiving
func NewArchive(ch repokit.Archive) *Archive {
	if ch == nil {
		return nil
	}
	return &Archive{ch: ch}
}

// Migrate creates the archive table
func (a *Archive) Migrate(ctx context.Context) error {
	return perr.WrapIf(a.ch.Exec(ctx, archiveDDL), perr.ErrorCodeUnavailable, "migrate trial archive")
}

// Append sends recs as one batch; the replacing engine folds re-sent trials
func (a *Archive) Append(ctx context.Context, sessionID string, recs []codg.TrialRecord) error {
	rows := make([][]any, 0, len(recs))
	for _, r := range recs {
		row, err := archiveRow(sessionID, r)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return perr.WrapIf(a.ch.Insert(ctx, ArchiveTable, ArchiveColumns, rows), perr.ErrorCodeUnavailable, "archive trials")
}

// archiveRow orders r by ArchiveColumns; indexes outside the column widths
// are refused and a missing onset is stored as null
func archiveRow(sessionID string, r codg.TrialRecord) ([]any, error) {
	if r.TrialIndex < 0 || int64(r.TrialIndex) > math.MaxUint32 {
		return nil, perr.WithField(perr.Validationf("trial index %d out of range", r.TrialIndex), "trial_index")
	}
	if r.Repeat < 0 || r.Repeat > math.MaxUint16 {
		return nil, perr.WithField(perr.Validationf("trial %d: repeat %d out of range", r.TrialIndex, r.Repeat), "repeat")
	}
	var onset *time.Time
	if !r.PresentedAt.IsZero() {
		at := r.PresentedAt.UTC()
		onset = &at
	}
	return []any{
		sessionID, r.ParticipantID, uint32(r.TrialIndex), r.Stimulus, r.Level,
		uint16(r.Repeat), r.ImageFile, string(r.Response), r.RTMillis, onset, r.Device,
	}, nil
}
