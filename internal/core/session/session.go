package session

import (
	"errors"
	"fmt"
	"time"

	"codg/internal/core/codg"
	"codg/internal/core/normalize"

	"github.com/google/uuid"
)

// State is the phase of the current trial
type State int

const (
	// AwaitingStimulus is before the current trial's face is shown
	AwaitingStimulus State = iota
	// AwaitingResponse is after onset and before an answer
	AwaitingResponse
	// Cooldown is the post answer lockout
	Cooldown
	// Complete means every planned trial was answered
	Complete
)

func (s State) String() string {
	switch s {
	case AwaitingStimulus:
		return "awaiting_stimulus"
	case AwaitingResponse:
		return "awaiting_response"
	case Cooldown:
		return "cooldown"
	case Complete:
		return "complete"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrParticipantRequired is returned when the participant id is blank
	ErrParticipantRequired = errors.New("session: participant id required")
	// ErrEmptyPlan is returned when there are no trials to run
	ErrEmptyPlan = errors.New("session: empty plan")
	// ErrInvalidTransition is wrapped when an event does not fit the state
	ErrInvalidTransition = errors.New("session: invalid transition")
	// ErrInvalidResponse is returned for labels other than Left, Direct, Right
	ErrInvalidResponse = errors.New("session: invalid response")
	// ErrResponsesClosed is returned by Runner when its input ends early
	ErrResponsesClosed = errors.New("session: response input closed")
)

// Session owns the trial index, the current onset and the response log
// It is not safe for concurrent use
type Session struct {
	ID            uuid.UUID
	ParticipantID string
	Device        string
	StartedAt     time.Time

	trials []Trial
	idx    int
	state  State
	onset  time.Time
	log    []codg.TrialRecord
}

// New starts a session over plan for a non blank participant id
func New(participantID, device string, plan []Trial, now time.Time) (*Session, error) {
	pid := normalize.Participant(participantID)
	if pid == "" {
		return nil, ErrParticipantRequired
	}
	if len(plan) == 0 {
		return nil, ErrEmptyPlan
	}
	return &Session{
		ID:            uuid.New(),
		ParticipantID: pid,
		Device:        device,
		StartedAt:     now,
		trials:        append([]Trial(nil), plan...),
		log:           make([]codg.TrialRecord, 0, len(plan)),
	}, nil
}

// State returns the current phase
func (s *Session) State() State { return s.state }

// Progress returns the 1 based number of the current trial and the total
func (s *Session) Progress() (current, total int) {
	if s.state == Complete {
		return len(s.trials), len(s.trials)
	}
	return s.idx + 1, len(s.trials)
}

// Current returns the trial being run, false once complete
func (s *Session) Current() (Trial, bool) {
	if s.state == Complete {
		return Trial{}, false
	}
	return s.trials[s.idx], true
}

// Present marks stimulus onset for the current trial
func (s *Session) Present(now time.Time) (Trial, error) {
	if s.state != AwaitingStimulus {
		return Trial{}, s.badTransition("present")
	}
	s.onset = now
	s.state = AwaitingResponse
	return s.trials[s.idx], nil
}

// Respond logs an answer for the current trial and enters Cooldown
// Reaction time is measured from the Present onset and rounded to the millisecond
func (s *Session) Respond(r codg.Response, now time.Time) (codg.TrialRecord, error) {
	if s.state != AwaitingResponse {
		return codg.TrialRecord{}, s.badTransition("respond")
	}
	if !r.Valid() {
		return codg.TrialRecord{}, fmt.Errorf("%w: %q", ErrInvalidResponse, r)
	}
	t := s.trials[s.idx]
	rec := codg.TrialRecord{
		ParticipantID: s.ParticipantID,
		TrialIndex:    s.idx + 1,
		Stimulus:      t.Stimulus,
		Level:         t.Level,
		Repeat:        t.Repeat,
		ImageFile:     t.ImageFile,
		Response:      r,
		RTMillis:      now.Sub(s.onset).Round(time.Millisecond).Milliseconds(),
		PresentedAt:   s.onset.UTC(),
		Device:        s.Device,
	}
	s.log = append(s.log, rec)
	s.state = Cooldown
	return rec, nil
}

// Advance leaves Cooldown for the next trial or Complete
func (s *Session) Advance() (State, error) {
	if s.state != Cooldown {
		return s.state, s.badTransition("advance")
	}
	s.idx++
	if s.idx >= len(s.trials) {
		s.state = Complete
	} else {
		s.state = AwaitingStimulus
	}
	return s.state, nil
}

// Records returns a copy of the response log
func (s *Session) Records() []codg.TrialRecord {
	return append([]codg.TrialRecord(nil), s.log...)
}

func (s *Session) badTransition(event string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, event, s.state)
}
