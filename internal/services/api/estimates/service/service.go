// Package service runs the estimator over posted or stored trials and keeps
// one summary row per stored estimate
package service

import (
	"context"
	"strings"
	"time"

	"codg/internal/core/codg"
	"codg/internal/core/normalize"
	"codg/internal/modkit/repokit"
	perr "codg/internal/platform/errors"
	"codg/internal/platform/logger"
	"codg/internal/platform/metrics"
	"codg/internal/services/api/estimates/domain"
	"codg/internal/services/api/estimates/repo"
	sessdomain "codg/internal/services/api/sessions/domain"
)

// DefaultListLimit caps Summaries
const DefaultListLimit = 200

// Service defines the estimates service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the estimates service
// Without a database only the inline Estimate works
type Svc struct {
	db      repokit.TxRunner
	binder  repokit.Binder[repo.Repo]
	reader  sessdomain.Reader
	engine  codg.Options
	est     *codg.Estimator
	metrics *metrics.Metrics
	now     func() time.Time
	limit   int
}

// Option configures Svc
type Option func(*Svc)

// WithStore persists summaries through binder on db
func WithStore(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) Option {
	return func(s *Svc) { s.db, s.binder = db, binder }
}

// WithReader reads stored sessions, normally the sessions module port
func WithReader(r sessdomain.Reader) Option { return func(s *Svc) { s.reader = r } }

// WithEngine sets the default scan domain and root policies
func WithEngine(o codg.Options) Option { return func(s *Svc) { s.engine = o } }

// WithMetrics observes every estimate
func WithMetrics(m *metrics.Metrics) Option { return func(s *Svc) { s.metrics = m } }

// WithClock pins the summary timestamp source
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// WithListLimit caps how many summaries a listing returns
func WithListLimit(n int) Option { return func(s *Svc) { s.limit = n } }

// New constructs the service; it panics on an invalid engine domain
func New(opts ...Option) *Svc {
	s := &Svc{engine: codg.DefaultOptions(), now: time.Now, limit: DefaultListLimit}
	for _, o := range opts {
		o(s)
	}
	est, err := codg.New(s.engine)
	if err != nil {
		panic(err)
	}
	s.est, s.engine = est, est.Options()
	if s.limit <= 0 {
		s.limit = DefaultListLimit
	}
	return s
}

// Migrate creates the summaries table when a store is configured
func (s *Svc) Migrate(ctx context.Context) error {
	if !s.persistent() {
		return nil
	}
	return s.binder.Bind(s.db).Migrate(ctx)
}

// Estimate runs the engine over posted observations
func (s *Svc) Estimate(ctx context.Context, in domain.EstimateInput) (domain.Estimate, error) {
	est := s.est
	if in.GazeMin != nil && in.GazeMax != nil {
		opts := s.engine
		opts.GazeMin, opts.GazeMax = *in.GazeMin, *in.GazeMax
		var err error
		if est, err = codg.New(opts); err != nil {
			return domain.Estimate{}, perr.WithField(perr.Wrap(err, perr.ErrorCodeInvalidArgument, "gaze domain"), "gaze_min")
		}
	}
	face := strings.TrimSpace(in.Face)
	out := s.run(est, in.Records(), face)

	logger.C(ctx).Debug().
		Str("face", face).
		Int("trials", out.Trials).
		Str("status", string(out.Status)).
		Msg("inline estimate")
	return out, nil
}

// EstimateSession estimates a stored session and records the summary
// face restricts the estimate to one stimulus; the summary keeps the full
// session trial count either way
func (s *Svc) EstimateSession(ctx context.Context, sessionID, face string) (domain.SessionEstimate, error) {
	if s.reader == nil || !s.persistent() {
		return domain.SessionEstimate{}, perr.Unavailablef("session estimates need the database")
	}
	sess, err := s.reader.Get(ctx, sessionID)
	if err != nil {
		return domain.SessionEstimate{}, err
	}
	recs, err := s.reader.Trials(ctx, sess.ID)
	if err != nil {
		return domain.SessionEstimate{}, err
	}
	face = strings.TrimSpace(face)
	out := s.run(s.est, recs, face)

	sum := codg.Summarize(sess.ParticipantID, out.Result, len(recs), s.now(), sess.Device)
	sum.FinishedAt = sum.FinishedAt.Truncate(time.Microsecond)
	id, err := s.binder.Bind(s.db).InsertSummary(ctx, sess.ID, face, sum)
	if err != nil {
		return domain.SessionEstimate{}, err
	}

	logger.C(logger.WithSession(ctx, sess.ID, sess.ParticipantID)).Info().
		Str("face", face).
		Str("status", string(out.Status)).
		Int("trials", out.Trials).
		Int64("summary_id", id).
		Msg("session estimated")

	return domain.SessionEstimate{
		SessionID: sess.ID,
		Estimate:  out,
		Summary:   domain.StoredSummary{ID: id, SessionID: sess.ID, Face: face, Summary: sum},
	}, nil
}

// Summaries lists a participant's stored summaries, newest first
func (s *Svc) Summaries(ctx context.Context, participantID string) (domain.SummaryList, error) {
	pid := normalize.Participant(participantID)
	if pid == "" {
		return domain.SummaryList{}, perr.WithField(perr.InvalidArgf("participant id is blank"), "participant_id")
	}
	if !s.persistent() {
		return domain.SummaryList{}, perr.Unavailablef("summaries need the database")
	}
	rows, err := s.binder.Bind(s.db).ListByParticipant(ctx, pid, s.limit)
	if err != nil {
		return domain.SummaryList{}, err
	}
	if rows == nil {
		rows = []domain.StoredSummary{}
	}
	return domain.SummaryList{ParticipantID: pid, Summaries: rows}, nil
}

func (s *Svc) run(est *codg.Estimator, recs []codg.TrialRecord, face string) domain.Estimate {
	start := time.Now()
	res := est.Estimate(recs, face)
	s.metrics.ObserveEstimate(string(res.Status), time.Since(start))
	return domain.Estimate{Face: face, Result: res, Display: res.Display()}
}

func (s *Svc) persistent() bool { return s.db != nil && s.binder != nil }
