package codg

import "fmt"

// Estimator thresholds and default scan domain in degrees
const (
	MinLevels = 5
	MinTrials = 30

	DefaultGazeMin = -12.0
	DefaultGazeMax = 12.0
)

// Options configures an Estimator
// Zero values are replaced with defaults by WithDefaults
type Options struct {
	GazeMin float64
	GazeMax float64

	LeftPolicy  RootPolicy
	RightPolicy RootPolicy
}

// DefaultOptions returns the -12..12 domain with the near zero policies
func DefaultOptions() Options {
	return Options{
		GazeMin:     DefaultGazeMin,
		GazeMax:     DefaultGazeMax,
		LeftPolicy:  NearestBelowZero{},
		RightPolicy: NearestAboveZero{},
	}
}

// WithDefaults fills unset fields
// a zero domain (both bounds zero) means the default domain
func (o Options) WithDefaults() Options {
	d := DefaultOptions()
	if o.GazeMin == 0 && o.GazeMax == 0 {
		o.GazeMin, o.GazeMax = d.GazeMin, d.GazeMax
	}
	if o.LeftPolicy == nil {
		o.LeftPolicy = d.LeftPolicy
	}
	if o.RightPolicy == nil {
		o.RightPolicy = d.RightPolicy
	}
	return o
}

// Validate rejects an empty or inverted scan domain
func (o Options) Validate() error {
	if !finite(o.GazeMin) || !finite(o.GazeMax) {
		return fmt.Errorf("codg: gaze domain must be finite")
	}
	if o.GazeMin >= o.GazeMax {
		return fmt.Errorf("codg: gaze min %.3f must be below gaze max %.3f", o.GazeMin, o.GazeMax)
	}
	return nil
}

// Estimator runs the aggregate, fit, boundary pipeline
type Estimator struct {
	opts Options
}

// New returns an Estimator with defaults applied to opts
func New(opts Options) (*Estimator, error) {
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Estimator{opts: opts}, nil
}

// Options returns the effective options
func (e *Estimator) Options() Options { return e.opts }

// Estimate is Estimator.Estimate with DefaultOptions
func Estimate(records []TrialRecord, stimulus string) Result {
	e := &Estimator{opts: DefaultOptions()}
	return e.Estimate(records, stimulus)
}

// Estimate computes the CoDG for records, optionally restricted to one stimulus
func (e *Estimator) Estimate(records []TrialRecord, stimulus string) Result {
	return e.EstimateLevels(Aggregate(records, stimulus))
}

// EstimateLevels runs the pipeline on already aggregated levels
func (e *Estimator) EstimateLevels(levels []Level) Result {
	res := Result{Levels: levels, Trials: totalTrials(levels)}
	if len(levels) < MinLevels || res.Trials < MinTrials {
		res.Status = StatusInsufficientData
		return res
	}

	xs, ns, lefts, rights := columns(levels)
	fitL := FitLogistic(xs, ns, lefts)
	fitR := FitLogistic(xs, ns, rights)
	if fitL == nil || fitR == nil {
		res.Status = StatusFitFailed
		return res
	}
	res.FitLeft, res.FitRight = fitL, fitR

	left, okL := FindBoundary(LeftCrossing(*fitL, *fitR), e.opts.GazeMin, e.opts.GazeMax, e.opts.LeftPolicy)
	right, okR := FindBoundary(RightCrossing(*fitL, *fitR), e.opts.GazeMin, e.opts.GazeMax, e.opts.RightPolicy)
	if okL {
		res.XLeft, res.LeftChoice = ptr(left.X), left.Choice
	}
	if okR {
		res.XRight, res.RightChoice = ptr(right.X), right.Choice
	}
	if !okL || !okR {
		res.Status = StatusIntersectionNotFound
		return res
	}

	// not clamped, a negative width is reported as is
	res.CoDG = ptr(right.X - left.X)
	res.Status = StatusOK
	return res
}
