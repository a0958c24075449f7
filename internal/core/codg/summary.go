package codg

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of decimals used for human facing output
const DisplayPlaces = 3

// Summary is the flat per participant row written at the end of a session
type Summary struct {
	ParticipantID string    `json:"participant_id"`
	CoDG          *float64  `json:"codg"`
	XLeft         *float64  `json:"x_left"`
	XRight        *float64  `json:"x_right"`
	Status        Status    `json:"note"`
	B0Left        *float64  `json:"b0_left"`
	B1Left        *float64  `json:"b1_left"`
	B0Right       *float64  `json:"b0_right"`
	B1Right       *float64  `json:"b1_right"`
	NTrials       int       `json:"n_trials"`
	FinishedAt    time.Time `json:"finished_at"`
	Device        string    `json:"device"`
}

// Summarize flattens r into a Summary
// nTrials is the size of the whole log, which can exceed r.Trials when filtered
func Summarize(participantID string, r Result, nTrials int, finishedAt time.Time, device string) Summary {
	s := Summary{
		ParticipantID: participantID,
		CoDG:          r.CoDG,
		XLeft:         r.XLeft,
		XRight:        r.XRight,
		Status:        r.Status,
		NTrials:       nTrials,
		FinishedAt:    finishedAt.UTC(),
		Device:        device,
	}
	if r.FitLeft != nil {
		s.B0Left, s.B1Left = ptr(r.FitLeft.B0), ptr(r.FitLeft.B1)
	}
	if r.FitRight != nil {
		s.B0Right, s.B1Right = ptr(r.FitRight.B0), ptr(r.FitRight.B1)
	}
	return s
}

// Display renders the one line result shown to the operator
func (r Result) Display() string {
	if r.CoDG == nil || r.XLeft == nil || r.XRight == nil {
		return fmt.Sprintf("CoDG: NA (%s)", r.Status)
	}
	return fmt.Sprintf("CoDG: %s (L=%s, R=%s)", Fixed(*r.CoDG), Fixed(*r.XLeft), Fixed(*r.XRight))
}

// String implements fmt.Stringer
func (r Result) String() string { return r.Display() }

// Fixed formats v with DisplayPlaces decimals
func Fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(DisplayPlaces)
}
