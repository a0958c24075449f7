// Package domain holds the DTOs and ports of the sessions module
package domain

import (
	"strings"
	"time"

	"codg/internal/core/codg"
)

// CreateInput opens a session for one participant
type CreateInput struct {
	ParticipantID string `json:"participant_id" validate:"required,max=64" example:"P001"`
	Device        string `json:"device,omitempty" validate:"max=512" example:"Mozilla/5.0 (X11; Linux x86_64)"`
	Design        string `json:"design,omitempty" validate:"omitempty,max=64" example:"default"`
}

// Session is a stored session with its trial count
type Session struct {
	ID            string    `json:"id" example:"0b6f2f8e-5d0a-4d7e-9d3c-8f8d2b1c4a10"`
	ParticipantID string    `json:"participant_id" example:"P001"`
	Device        string    `json:"device,omitempty"`
	Design        string    `json:"design,omitempty" example:"default"`
	CreatedAt     time.Time `json:"created_at"`
	Trials        int       `json:"n_trials" example:"110"`
}

// TrialIn is one answered trial as posted by a runner
type TrialIn struct {
	TrialIndex  int       `json:"trial_index" validate:"min=1,max=2147483647" example:"1"`
	FaceID      string    `json:"face_id" validate:"required,max=64" example:"M1"`
	GazeLevel   float64   `json:"gaze_level" example:"-3"`
	Repeat      int       `json:"repeat" validate:"min=0,max=65535" example:"2"`
	ImageFile   string    `json:"image_file,omitempty" validate:"max=256" example:"M1_-3.png"`
	Response    string    `json:"response" validate:"required,codg_response" example:"Left"`
	RTMs        int64     `json:"rt_ms" validate:"min=0" example:"612"`
	PresentedAt time.Time `json:"presented_at_iso,omitempty"`
}

// Record converts t for the engine; Response must already be validated
func (t TrialIn) Record(participantID, device string) codg.TrialRecord {
	resp, _ := codg.ParseResponse(t.Response)
	return codg.TrialRecord{
		ParticipantID: participantID,
		TrialIndex:    t.TrialIndex,
		Stimulus:      strings.TrimSpace(t.FaceID),
		Level:         t.GazeLevel,
		Repeat:        t.Repeat,
		ImageFile:     t.ImageFile,
		Response:      resp,
		RTMillis:      t.RTMs,
		PresentedAt:   t.PresentedAt.UTC(),
		Device:        device,
	}
}

// AppendInput is a batch of trials for one session
type AppendInput struct {
	Trials []TrialIn `json:"trials" validate:"required,min=1,max=500,dive"`
}

// AppendResult reports what an append stored
// Appended excludes trial indexes the session already had
type AppendResult struct {
	SessionID string `json:"session_id"`
	Appended  int    `json:"appended" example:"10"`
	Total     int    `json:"n_trials" example:"110"`
	Archived  bool   `json:"archived"`
}

// TrialsPage lists the trials of a session in trial order
type TrialsPage struct {
	Session Session            `json:"session"`
	Trials  []codg.TrialRecord `json:"trials"`
}
