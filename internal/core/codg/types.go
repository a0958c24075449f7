// Package codg estimates the cone of direct gaze from per trial
// Left / Direct / Right judgements over discrete gaze deviation levels
//
// The package is pure: every function is a function of its arguments and
// nothing is retained between calls, so estimates may run concurrently
package codg

import (
	"math"
	"strings"
	"time"
)

// Response is a participant judgement for one trial
type Response string

const (
	// Left means the gaze was judged as averted to the observer's left
	Left Response = "Left"
	// Direct means the gaze was judged as looking at the observer
	Direct Response = "Direct"
	// Right means the gaze was judged as averted to the observer's right
	Right Response = "Right"
)

// ParseResponse accepts the canonical labels case insensitively plus the l/d/r shorthands
func ParseResponse(s string) (Response, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return Left, true
	case "direct", "d":
		return Direct, true
	case "right", "r":
		return Right, true
	}
	return "", false
}

// Valid reports whether r is one of the three judgement labels
func (r Response) Valid() bool {
	return r == Left || r == Direct || r == Right
}

// TrialRecord is one logged trial
// The estimator reads Stimulus, Level and Response; the rest is provenance
type TrialRecord struct {
	ParticipantID string    `json:"participant_id"`
	TrialIndex    int       `json:"trial_index"`
	Stimulus      string    `json:"face_id"`
	Level         float64   `json:"gaze_level"`
	Repeat        int       `json:"repeat"`
	ImageFile     string    `json:"image_file"`
	Response      Response  `json:"response"`
	RTMillis      int64     `json:"rt_ms"`
	PresentedAt   time.Time `json:"presented_at"`
	Device        string    `json:"device"`
}

// Level holds per level response counts, N > 0 and Left+Right <= N
type Level struct {
	Level float64 `json:"level"`
	N     int     `json:"n"`
	Left  int     `json:"left"`
	Right int     `json:"right"`
}

// Direct is the count of trials judged neither Left nor Right
func (l Level) Direct() int { return l.N - l.Left - l.Right }

// Fit holds the parameters of p(x) = sigmoid(B0 + B1*x)
type Fit struct {
	B0 float64 `json:"b0"`
	B1 float64 `json:"b1"`
}

// P evaluates the fitted probability at x
func (f Fit) P(x float64) float64 { return sigmoid(f.B0 + f.B1*x) }

// Status classifies the outcome of one estimation
type Status string

const (
	// StatusOK means both boundaries were found and CoDG is set
	StatusOK Status = "ok"
	// StatusInsufficientData means too few levels or trials, nothing was fitted
	StatusInsufficientData Status = "insufficient_data"
	// StatusFitFailed means at least one logistic fit could not be solved
	StatusFitFailed Status = "fit_failed"
	// StatusIntersectionNotFound means a boundary search found no bracket
	StatusIntersectionNotFound Status = "intersection_not_found"
)

// Valid reports whether s is one of the four known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusOK, StatusInsufficientData, StatusFitFailed, StatusIntersectionNotFound:
		return true
	}
	return false
}

// Result is the outcome of one estimation
// Numeric fields are nil when the stage producing them did not succeed
type Result struct {
	Status   Status   `json:"status"`
	CoDG     *float64 `json:"codg"`
	XLeft    *float64 `json:"x_left"`
	XRight   *float64 `json:"x_right"`
	FitLeft  *Fit     `json:"fit_left,omitempty"`
	FitRight *Fit     `json:"fit_right,omitempty"`

	// LeftChoice and RightChoice record whether the root policy fell back
	LeftChoice  Choice `json:"left_choice,omitempty"`
	RightChoice Choice `json:"right_choice,omitempty"`

	Levels []Level `json:"levels,omitempty"`
	Trials int     `json:"n_trials"`
}

// OK reports whether the estimate succeeded
func (r Result) OK() bool { return r.Status == StatusOK }

func sigmoid(t float64) float64 { return 1 / (1 + math.Exp(-t)) }

func ptr(v float64) *float64 { return &v }

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
