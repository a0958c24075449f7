// Package repo provides postgres access for sessions and their trials
package repo

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"codg/internal/core/codg"
	"codg/internal/modkit/repokit"
	perr "codg/internal/platform/errors"
	"codg/internal/platform/store"
	str "codg/internal/platform/strings"
	"codg/internal/services/api/sessions/domain"
)

// Repo is the persistence surface for sessions
type Repo interface {
	Migrate(ctx context.Context) error
	InsertSession(ctx context.Context, s domain.Session) error
	GetSession(ctx context.Context, id string) (domain.Session, error)
	// InsertTrials skips indexes the session already has and returns the stored ones
	InsertTrials(ctx context.Context, sessionID string, recs []codg.TrialRecord) ([]int, error)
	TrialsBySession(ctx context.Context, id string) ([]codg.TrialRecord, error)
	TrialsByParticipant(ctx context.Context, participantID, stimulus string) ([]codg.TrialRecord, error)
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

// Schema is applied in order by Migrate
var Schema = []string{
	`create table if not exists codg_sessions (
  id text primary key,
  participant_id text not null,
  device text,
  design text,
  created_at timestamptz not null default now()
)`,
	`create index if not exists codg_sessions_participant_idx on codg_sessions (participant_id, created_at)`,
	`create table if not exists codg_trials (
  session_id text not null references codg_sessions (id) on delete cascade,
  trial_index int not null check (trial_index > 0),
  face_id text not null,
  gaze_level double precision not null,
  repeat int not null default 0,
  image_file text,
  response text not null check (response in ('Left', 'Direct', 'Right')),
  rt_ms bigint not null default 0,
  presented_at timestamptz,
  primary key (session_id, trial_index)
)`,
}

func (r *queries) Migrate(ctx context.Context) error {
	for _, ddl := range Schema {
		if _, err := r.q.Exec(ctx, ddl); err != nil {
			return perr.FromPostgres(err, "migrate sessions")
		}
	}
	return nil
}

func (r *queries) InsertSession(ctx context.Context, s domain.Session) error {
	const sql = `
insert into codg_sessions (id, participant_id, device, design, created_at)
values ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, sql, s.ID, s.ParticipantID, str.SQLNull(s.Device), str.SQLNull(s.Design), s.CreatedAt)
	return perr.FromPostgres(err, "insert session")
}

func (r *queries) GetSession(ctx context.Context, id string) (domain.Session, error) {
	const sql = `
select s.id, s.participant_id, coalesce(s.device, ''), coalesce(s.design, ''), s.created_at,
  (select count(*) from codg_trials t where t.session_id = s.id)::int
from codg_sessions s
where s.id = $1`
	s, err := store.One(ctx, r.q, func(row store.Row) (domain.Session, error) {
		var s domain.Session
		err := row.Scan(&s.ID, &s.ParticipantID, &s.Device, &s.Design, &s.CreatedAt, &s.Trials)
		return s, err
	}, sql, id)
	if errors.Is(err, perr.ErrNotFound) {
		return s, perr.WithField(perr.NotFoundf("session %s not found", id), "id")
	}
	return s, perr.FromPostgres(err, "get session")
}

// trialCols is the column list of one inserted trial
const trialCols = 8

func (r *queries) InsertTrials(ctx context.Context, sessionID string, recs []codg.TrialRecord) ([]int, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	var b strings.Builder
	b.WriteString(`insert into codg_trials (session_id, trial_index, face_id, gaze_level, repeat, image_file, response, rt_ms, presented_at) values `)
	args := make([]any, 0, 1+len(recs)*trialCols)
	args = append(args, sessionID)
	for i, rec := range recs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("($1")
		for c := 0; c < trialCols; c++ {
			b.WriteString(", $")
			b.WriteString(strconv.Itoa(2 + i*trialCols + c))
		}
		b.WriteString(")")
		args = append(args,
			rec.TrialIndex, rec.Stimulus, rec.Level, rec.Repeat,
			str.SQLNull(rec.ImageFile), string(rec.Response), rec.RTMillis, nullTime(rec.PresentedAt),
		)
	}
	b.WriteString(` on conflict (session_id, trial_index) do nothing returning trial_index`)

	idx, err := store.Many(ctx, r.q, func(row store.Row) (int, error) {
		var i int
		return i, row.Scan(&i)
	}, b.String(), args...)
	return idx, perr.FromPostgres(err, "insert trials")
}

const trialSelect = `
select s.participant_id, t.trial_index, t.face_id, t.gaze_level, t.repeat, coalesce(t.image_file, ''),
  t.response, t.rt_ms, t.presented_at, coalesce(s.device, '')
from codg_trials t
join codg_sessions s on s.id = t.session_id`

func scanTrial(row store.Row) (codg.TrialRecord, error) {
	var (
		rec  codg.TrialRecord
		resp string
		at   *time.Time
	)
	err := row.Scan(&rec.ParticipantID, &rec.TrialIndex, &rec.Stimulus, &rec.Level, &rec.Repeat,
		&rec.ImageFile, &resp, &rec.RTMillis, &at, &rec.Device)
	rec.Response = codg.Response(resp)
	if at != nil {
		rec.PresentedAt = at.UTC()
	}
	return rec, err
}

func (r *queries) TrialsBySession(ctx context.Context, id string) ([]codg.TrialRecord, error) {
	recs, err := store.Many(ctx, r.q, scanTrial, trialSelect+`
where t.session_id = $1
order by t.trial_index`, id)
	return recs, perr.FromPostgres(err, "list session trials")
}

func (r *queries) TrialsByParticipant(ctx context.Context, participantID, stimulus string) ([]codg.TrialRecord, error) {
	recs, err := store.Many(ctx, r.q, scanTrial, trialSelect+`
where s.participant_id = $1
and ($2 = '' or t.face_id = $2)
order by s.created_at, t.session_id, t.trial_index`, participantID, stimulus)
	return recs, perr.FromPostgres(err, "list participant trials")
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
