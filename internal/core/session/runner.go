package session

import (
	"context"
	"time"

	"codg/internal/core/codg"
)

// Presenter renders the phases of a trial
type Presenter interface {
	Fixation(t Trial, current, total int)
	Stimulus(t Trial)
	// Prompt is called when the stimulus hides before an answer arrived
	Prompt(t Trial)
	Recorded(rec codg.TrialRecord)
}

// Runner drives a Session through the fixation, stimulus and cooldown timings
// Answers arriving outside AwaitingResponse are dropped
type Runner struct {
	Timing    Timing
	Presenter Presenter
	Responses <-chan codg.Response
	Now       func() time.Time
}

// Run blocks until the session completes, ctx ends or Responses closes
func (r Runner) Run(ctx context.Context, s *Session) error {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	for s.State() != Complete {
		t, _ := s.Current()
		cur, total := s.Progress()

		r.Presenter.Fixation(t, cur, total)
		if err := sleep(ctx, r.Timing.Fixation()); err != nil {
			return err
		}
		r.drain()

		if _, err := s.Present(now()); err != nil {
			return err
		}
		r.Presenter.Stimulus(t)

		resp, err := r.await(ctx, t)
		if err != nil {
			return err
		}
		rec, err := s.Respond(resp, now())
		if err != nil {
			return err
		}
		r.Presenter.Recorded(rec)

		if err := sleep(ctx, r.Timing.PostResponse()); err != nil {
			return err
		}
		if _, err := s.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// await accepts an answer during the stimulus window, then prompts and keeps waiting
func (r Runner) await(ctx context.Context, t Trial) (codg.Response, error) {
	stim := time.NewTimer(r.Timing.Stimulus())
	defer stim.Stop()
	prompted := false
	for {
		var tick <-chan time.Time
		if !prompted {
			tick = stim.C
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-tick:
			prompted = true
			r.Presenter.Prompt(t)
		case resp, ok := <-r.Responses:
			if !ok {
				return "", ErrResponsesClosed
			}
			if resp.Valid() {
				return resp, nil
			}
		}
	}
}

// drain drops answers given while no stimulus was up
func (r Runner) drain() {
	for {
		select {
		case _, ok := <-r.Responses:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
