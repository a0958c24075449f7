// Package repo provides postgres access for estimate summaries
package repo

import (
	"context"
	"time"

	"codg/internal/core/codg"
	"codg/internal/modkit/repokit"
	perr "codg/internal/platform/errors"
	"codg/internal/platform/store"
	str "codg/internal/platform/strings"
	"codg/internal/services/api/estimates/domain"
)

// Repo is the persistence surface for summaries
type Repo interface {
	Migrate(ctx context.Context) error
	InsertSummary(ctx context.Context, sessionID, face string, s codg.Summary) (int64, error)
	// ListByParticipant returns at most limit rows, newest first
	ListByParticipant(ctx context.Context, participantID string, limit int) ([]domain.StoredSummary, error)
}

type (
	// PG binds the repo to a Queryer or an open tx
	PG struct{}
	// queries implements Repo
	queries struct{ q repokit.Queryer }
)

// NewPG returns the postgres binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

// Schema needs codg_sessions to exist first
var Schema = []string{
	`create table if not exists codg_summaries (
  id bigserial primary key,
  session_id text references codg_sessions (id) on delete set null,
  participant_id text not null,
  face_id text,
  codg double precision,
  x_left double precision,
  x_right double precision,
  status text not null check (status in ('ok', 'insufficient_data', 'fit_failed', 'intersection_not_found')),
  b0_left double precision,
  b1_left double precision,
  b0_right double precision,
  b1_right double precision,
  n_trials int not null,
  finished_at timestamptz not null,
  device text
)`,
	`create index if not exists codg_summaries_participant_idx on codg_summaries (participant_id, finished_at desc)`,
}

func (r *queries) Migrate(ctx context.Context) error {
	for _, ddl := range Schema {
		if _, err := r.q.Exec(ctx, ddl); err != nil {
			return perr.FromPostgres(err, "migrate summaries")
		}
	}
	return nil
}

func (r *queries) InsertSummary(ctx context.Context, sessionID, face string, s codg.Summary) (int64, error) {
	const sql = `
insert into codg_summaries (
  session_id, participant_id, face_id, codg, x_left, x_right, status,
  b0_left, b1_left, b0_right, b1_right, n_trials, finished_at, device
) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
returning id`
	id, err := store.Scalar[int64](ctx, r.q, sql,
		str.SQLNull(sessionID), s.ParticipantID, str.SQLNull(face),
		s.CoDG, s.XLeft, s.XRight, string(s.Status),
		s.B0Left, s.B1Left, s.B0Right, s.B1Right,
		s.NTrials, s.FinishedAt, str.SQLNull(s.Device),
	)
	return id, perr.FromPostgres(err, "insert summary")
}

func (r *queries) ListByParticipant(ctx context.Context, participantID string, limit int) ([]domain.StoredSummary, error) {
	const sql = `
select id, coalesce(session_id, ''), coalesce(face_id, ''), participant_id, codg, x_left, x_right, status,
  b0_left, b1_left, b0_right, b1_right, n_trials, finished_at, coalesce(device, '')
from codg_summaries
where participant_id = $1
order by finished_at desc, id desc
limit $2`
	out, err := store.Many(ctx, r.q, scanSummary, sql, participantID, limit)
	return out, perr.FromPostgres(err, "list summaries")
}

func scanSummary(row store.Row) (domain.StoredSummary, error) {
	var (
		s      domain.StoredSummary
		status string
		at     time.Time
	)
	err := row.Scan(&s.ID, &s.SessionID, &s.Face, &s.ParticipantID, &s.CoDG, &s.XLeft, &s.XRight, &status,
		&s.B0Left, &s.B1Left, &s.B0Right, &s.B1Right, &s.NTrials, &at, &s.Device)
	s.Status = codg.Status(status)
	s.FinishedAt = at.UTC()
	return s, err
}
