// Package service contains the session workflows: open a session, append
// answered trials idempotently and read them back for estimation
package service

import (
	"context"
	"time"

	"codg/internal/core/codg"
	"codg/internal/core/normalize"
	"codg/internal/modkit/repokit"
	perr "codg/internal/platform/errors"
	"codg/internal/platform/logger"
	"codg/internal/platform/metrics"
	"codg/internal/services/api/sessions/domain"
	"codg/internal/services/api/sessions/repo"

	"github.com/google/uuid"
)

// Service defines the sessions service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the sessions service
type Svc struct {
	db      repokit.TxRunner
	binder  repokit.Binder[repo.Repo]
	archive *repo.Archive
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures Svc
type Option func(*Svc)

// WithArchive copies appended trials to the columnar archive
func WithArchive(a *repo.Archive) Option { return func(s *Svc) { s.archive = a } }

// WithMetrics counts session events
func WithMetrics(m *metrics.Metrics) Option { return func(s *Svc) { s.metrics = m } }

// WithClock pins the creation time source
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// New constructs the service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], opts ...Option) *Svc {
	if db == nil {
		panic("sessions.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("sessions.Service requires a non nil Repo binder")
	}
	s := &Svc{db: db, binder: binder, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Migrate creates the tables, the archive table too when archiving
func (s *Svc) Migrate(ctx context.Context) error {
	if err := s.binder.Bind(s.db).Migrate(ctx); err != nil {
		return err
	}
	if s.archive != nil {
		return s.archive.Migrate(ctx)
	}
	return nil
}

// Create opens a session under a normalized participant id
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.Session, error) {
	pid := normalize.Participant(in.ParticipantID)
	if pid == "" {
		return domain.Session{}, perr.WithField(perr.Validationf("participant id is blank"), "participant_id")
	}
	sess := domain.Session{
		ID:            uuid.NewString(),
		ParticipantID: pid,
		Device:        in.Device,
		Design:        in.Design,
		CreatedAt:     s.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.binder.Bind(s.db).InsertSession(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	s.metrics.SessionEvent("created")
	logger.C(logger.WithSession(ctx, sess.ID, pid)).Info().Str("design", sess.Design).Msg("session created")
	return sess, nil
}

// Get returns one session with its trial count
func (s *Svc) Get(ctx context.Context, id string) (domain.Session, error) {
	id, err := canonicalID(id)
	if err != nil {
		return domain.Session{}, err
	}
	return s.binder.Bind(s.db).GetSession(ctx, id)
}

// Append stores a batch of trials in one transaction
// Trial indexes already stored are skipped so a runner can resend a batch
// after a timeout; only newly stored trials are archived
func (s *Svc) Append(ctx context.Context, id string, in domain.AppendInput) (domain.AppendResult, error) {
	id, err := canonicalID(id)
	if err != nil {
		return domain.AppendResult{}, err
	}
	seen := make(map[int]struct{}, len(in.Trials))
	for _, t := range in.Trials {
		if _, dup := seen[t.TrialIndex]; dup {
			return domain.AppendResult{}, perr.WithField(perr.Validationf("trial_index %d repeated in batch", t.TrialIndex), "trial_index")
		}
		seen[t.TrialIndex] = struct{}{}
	}

	var (
		sess  domain.Session
		added []codg.TrialRecord
	)
	err = s.retry(ctx, func(q repokit.Queryer) error {
		r := s.binder.Bind(q)
		var err error
		if sess, err = r.GetSession(ctx, id); err != nil {
			return err
		}
		recs := make([]codg.TrialRecord, 0, len(in.Trials))
		for _, t := range in.Trials {
			recs = append(recs, t.Record(sess.ParticipantID, sess.Device))
		}
		stored, err := r.InsertTrials(ctx, id, recs)
		if err != nil {
			return err
		}
		added = pick(recs, stored)
		return nil
	})
	if err != nil {
		return domain.AppendResult{}, err
	}

	out := domain.AppendResult{SessionID: id, Appended: len(added), Total: sess.Trials + len(added)}
	log := logger.C(logger.WithSession(ctx, id, sess.ParticipantID))
	if s.archive != nil && len(added) > 0 {
		if err := s.archive.Append(ctx, id, added); err != nil {
			log.Warn().Err(err).Int("trials", len(added)).Msg("trial archive failed")
		} else {
			out.Archived = true
		}
	}
	s.metrics.SessionEvent("trials_appended")
	log.Debug().Int("appended", out.Appended).Int("total", out.Total).Msg("trials appended")
	return out, nil
}

// txAttempts bounds how often a transaction is rerun after contention
const txAttempts = 3

// retry runs fn in a transaction, again while postgres reports a retryable conflict
func (s *Svc) retry(ctx context.Context, fn func(q repokit.Queryer) error) error {
	var err error
	for i := 1; i <= txAttempts; i++ {
		if err = repokit.WithTx(ctx, s.db, fn); !perr.Retryable(err) {
			return err
		}
		logger.C(ctx).Debug().Err(err).Int("attempt", i).Msg("transaction conflict, retrying")
	}
	return err
}

// Trials lists a session's trials in trial order
func (s *Svc) Trials(ctx context.Context, id string) ([]codg.TrialRecord, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.binder.Bind(s.db).TrialsBySession(ctx, sess.ID)
}

// ParticipantTrials lists every trial of a participant, optionally for one stimulus
func (s *Svc) ParticipantTrials(ctx context.Context, participantID, stimulus string) ([]codg.TrialRecord, error) {
	pid := normalize.Participant(participantID)
	if pid == "" {
		return nil, perr.WithField(perr.InvalidArgf("participant id is blank"), "participant_id")
	}
	return s.binder.Bind(s.db).TrialsByParticipant(ctx, pid, stimulus)
}

// canonicalID accepts any uuid spelling and returns the stored lower case form
func canonicalID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", perr.WithField(perr.InvalidArgf("invalid session id %q", id), "id")
	}
	return u.String(), nil
}

// pick keeps the records whose trial index was stored, in batch order
func pick(recs []codg.TrialRecord, stored []int) []codg.TrialRecord {
	if len(stored) == len(recs) {
		return recs
	}
	keep := make(map[int]struct{}, len(stored))
	for _, i := range stored {
		keep[i] = struct{}{}
	}
	out := make([]codg.TrialRecord, 0, len(stored))
	for _, r := range recs {
		if _, ok := keep[r.TrialIndex]; ok {
			out = append(out, r)
		}
	}
	return out
}
