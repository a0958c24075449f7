// Package domain holds the DTOs and ports of the estimates module
package domain

import (
	"strings"

	"codg/internal/core/codg"
)

// Observation is one judgement posted for an inline estimate
type Observation struct {
	FaceID    string  `json:"face_id,omitempty" validate:"max=64" example:"M1"`
	GazeLevel float64 `json:"gaze_level" example:"-3"`
	Response  string  `json:"response" validate:"required,codg_response" example:"Left"`
}

// EstimateInput estimates ad hoc observations, nothing is stored
// Face restricts the estimate to one stimulus identity; GazeMin and GazeMax
// override the scan domain and must be given together
type EstimateInput struct {
	Trials  []Observation `json:"trials" validate:"required,min=1,max=5000,dive"`
	Face    string        `json:"face,omitempty" validate:"max=64" example:"M1"`
	GazeMin *float64      `json:"gaze_min,omitempty" validate:"required_with=GazeMax" example:"-12"`
	GazeMax *float64      `json:"gaze_max,omitempty" validate:"required_with=GazeMin" example:"12"`
}

// Records converts the observations for the engine
func (in EstimateInput) Records() []codg.TrialRecord {
	out := make([]codg.TrialRecord, 0, len(in.Trials))
	for i, o := range in.Trials {
		resp, _ := codg.ParseResponse(o.Response)
		out = append(out, codg.TrialRecord{
			TrialIndex: i + 1,
			Stimulus:   strings.TrimSpace(o.FaceID),
			Level:      o.GazeLevel,
			Response:   resp,
		})
	}
	return out
}

// Estimate is an engine result with its one line rendering
type Estimate struct {
	Face string `json:"face,omitempty" example:"M1"`
	codg.Result
	Display string `json:"display" example:"CoDG: 5.000 (L=-2.500, R=2.500)"`
}

// SessionEstimate is the estimate of a stored session and the summary row kept for it
type SessionEstimate struct {
	SessionID string        `json:"session_id"`
	Estimate  Estimate      `json:"estimate"`
	Summary   StoredSummary `json:"summary"`
}

// StoredSummary is a persisted summary row
type StoredSummary struct {
	ID        int64  `json:"id" example:"42"`
	SessionID string `json:"session_id,omitempty"`
	Face      string `json:"face,omitempty" example:"M1"`
	codg.Summary
}

// SummaryList is a participant's summaries, newest first
type SummaryList struct {
	ParticipantID string          `json:"participant_id" example:"P001"`
	Summaries     []StoredSummary `json:"summaries"`
}
