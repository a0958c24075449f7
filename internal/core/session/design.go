// Package session sequences the trials of one gaze judgement session
//
// A Design describes what is shown, Plan expands it into a shuffled trial
// list and Session walks that list through an explicit state machine while
// logging one codg.TrialRecord per answered trial
package session

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Design is the experiment layout loaded from YAML
type Design struct {
	Name    string    `yaml:"name" json:"name"`
	Levels  []float64 `yaml:"levels" json:"levels"`
	Faces   []string  `yaml:"faces" json:"faces"`
	Repeats int       `yaml:"repeats" json:"repeats"`
	Ext     string    `yaml:"ext" json:"ext"`
	StimDir string    `yaml:"stim_dir" json:"stim_dir"`
	Timing  Timing    `yaml:"timing" json:"timing"`
	GazeMin float64   `yaml:"gaze_min" json:"gaze_min"`
	GazeMax float64   `yaml:"gaze_max" json:"gaze_max"`
}

// Timing holds the per trial phase durations in milliseconds
type Timing struct {
	FixationMs     int `yaml:"fixation_ms" json:"fixation_ms"`
	StimulusMs     int `yaml:"stimulus_ms" json:"stimulus_ms"`
	PostResponseMs int `yaml:"post_response_ms" json:"post_response_ms"`
}

// Fixation is the fixation cross duration
func (t Timing) Fixation() time.Duration { return time.Duration(t.FixationMs) * time.Millisecond }

// Stimulus is how long the face stays visible; answers are accepted after it hides
func (t Timing) Stimulus() time.Duration { return time.Duration(t.StimulusMs) * time.Millisecond }

// PostResponse is the lockout after an answer
func (t Timing) PostResponse() time.Duration {
	return time.Duration(t.PostResponseMs) * time.Millisecond
}

// DefaultDesign is two faces by eleven levels by five repeats, 110 trials
func DefaultDesign() Design {
	return Design{
		Name:    "codg-default",
		Levels:  []float64{-12, -9, -6, -3, -1, 0, 1, 3, 6, 9, 12},
		Faces:   []string{"M1", "F1"},
		Repeats: 5,
		Ext:     "png",
		StimDir: "stimuli",
		Timing: Timing{
			FixationMs:     1000,
			StimulusMs:     500,
			PostResponseMs: 250,
		},
		GazeMin: -12,
		GazeMax: 12,
	}
}

// ErrInvalidDesign is wrapped by every Validate failure
var ErrInvalidDesign = errors.New("session: invalid design")

// Validate checks the design can produce a plan
func (d Design) Validate() error {
	switch {
	case len(d.Levels) == 0:
		return fmt.Errorf("%w: no levels", ErrInvalidDesign)
	case len(d.Faces) == 0:
		return fmt.Errorf("%w: no faces", ErrInvalidDesign)
	case d.Repeats < 1:
		return fmt.Errorf("%w: repeats must be >= 1, got %d", ErrInvalidDesign, d.Repeats)
	case d.Ext == "":
		return fmt.Errorf("%w: empty image extension", ErrInvalidDesign)
	case d.Timing.FixationMs < 0 || d.Timing.StimulusMs < 0 || d.Timing.PostResponseMs < 0:
		return fmt.Errorf("%w: negative timing", ErrInvalidDesign)
	case d.GazeMin >= d.GazeMax:
		return fmt.Errorf("%w: gaze_min %v must be below gaze_max %v", ErrInvalidDesign, d.GazeMin, d.GazeMax)
	}
	if !finite(d.GazeMin) || !finite(d.GazeMax) {
		return fmt.Errorf("%w: gaze domain must be finite", ErrInvalidDesign)
	}
	for _, l := range d.Levels {
		if !finite(l) {
			return fmt.Errorf("%w: level %v is not a finite number", ErrInvalidDesign, l)
		}
	}
	seen := make(map[string]struct{}, len(d.Faces))
	for _, f := range d.Faces {
		if f == "" {
			return fmt.Errorf("%w: empty face id", ErrInvalidDesign)
		}
		if _, dup := seen[f]; dup {
			return fmt.Errorf("%w: duplicate face %q", ErrInvalidDesign, f)
		}
		seen[f] = struct{}{}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// TrialCount is faces x levels x repeats
func (d Design) TrialCount() int { return len(d.Faces) * len(d.Levels) * d.Repeats }

// ParseDesign decodes YAML over DefaultDesign so omitted keys keep defaults
func ParseDesign(data []byte) (Design, error) {
	d := DefaultDesign()
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Design{}, fmt.Errorf("parse design: %w", err)
	}
	if err := d.Validate(); err != nil {
		return Design{}, err
	}
	return d, nil
}

// LoadDesign reads a design file; an empty path yields DefaultDesign
func LoadDesign(path string) (Design, error) {
	if path == "" {
		return DefaultDesign(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Design{}, fmt.Errorf("read design %s: %w", path, err)
	}
	return ParseDesign(data)
}
