package codg

import (
	"math"
)

// Boundary search constants
const (
	ScanStep        = 0.25
	ScanSlack       = 1e-9
	BisectTolerance = 1e-4
	BisectMaxIter   = 80
)

// LeftCrossing is zero where P(Left) equals P(Direct) = 1 - pL - pR
func LeftCrossing(left, right Fit) func(float64) float64 {
	return func(x float64) float64 { return 2*left.P(x) + right.P(x) - 1 }
}

// RightCrossing is zero where P(Right) equals P(Direct)
func RightCrossing(left, right Fit) func(float64) float64 {
	return func(x float64) float64 { return left.P(x) + 2*right.P(x) - 1 }
}

// Bisect finds a root of f in [a, b]
// An endpoint that is exactly zero is returned as is. ok is false when the
// endpoints share a sign or f turns NaN anywhere along the way
func Bisect(f func(float64) float64, a, b float64) (root float64, ok bool) {
	fa, fb := f(a), f(b)
	if math.IsNaN(fa) || math.IsNaN(fb) {
		return 0, false
	}
	if fa == 0 {
		return a, true
	}
	if fb == 0 {
		return b, true
	}
	if fa*fb > 0 {
		return 0, false
	}

	lo, hi := a, b
	for i := 0; i < BisectMaxIter; i++ {
		mid := (lo + hi) / 2
		fm := f(mid)
		if math.IsNaN(fm) {
			return 0, false
		}
		if math.Abs(fm) < BisectTolerance {
			return mid, true
		}
		if fa*fm <= 0 {
			hi = mid
		} else {
			lo = mid
			fa = fm
		}
	}
	return (lo + hi) / 2, true
}

// Crossings scans [lo, hi] in ScanStep increments and bisects every adjacent
// pair whose values have a product <= 0, returning roots in ascending order
// A root landing exactly on a grid point closes two brackets and is kept once
func Crossings(f func(float64) float64, lo, hi float64) []float64 {
	var out []float64
	prevX := lo
	prevF := f(prevX)
	for i := 1; ; i++ {
		x := lo + float64(i)*ScanStep
		if x > hi+ScanSlack {
			break
		}
		fx := f(x)
		if !math.IsNaN(prevF) && !math.IsNaN(fx) && prevF*fx <= 0 {
			root, ok := Bisect(f, prevX, x)
			if ok && (len(out) == 0 || out[len(out)-1] != root) {
				out = append(out, root)
			}
		}
		prevX, prevF = x, fx
	}
	return out
}

// Choice records how a RootPolicy picked its boundary
type Choice string

const (
	// ChoicePreferred means a candidate on the expected side of zero was used
	ChoicePreferred Choice = "preferred"
	// ChoiceFallback means no candidate lay on the expected side and the
	// policy fell back to the outermost raw candidate
	ChoiceFallback Choice = "fallback"
)

// RootPolicy selects one boundary from the ascending candidate roots
// Implementations encode where a paradigm expects its boundaries to lie
type RootPolicy interface {
	Name() string
	Choose(candidates []float64) (x float64, how Choice, ok bool)
}

// NearestBelowZero takes the largest candidate <= 0, else the first candidate
// It assumes the left boundary lies just left of straight ahead gaze
//
// The fallback is unverified for strongly non monotonic fitted curves, which
// is why the Choice is surfaced on the Result
type NearestBelowZero struct{}

// Name implements RootPolicy
func (NearestBelowZero) Name() string { return "nearest_below_zero" }

// Choose implements RootPolicy
func (NearestBelowZero) Choose(c []float64) (float64, Choice, bool) {
	if len(c) == 0 {
		return 0, "", false
	}
	for i := len(c) - 1; i >= 0; i-- {
		if c[i] <= 0 {
			return c[i], ChoicePreferred, true
		}
	}
	return c[0], ChoiceFallback, true
}

// NearestAboveZero takes the smallest candidate >= 0, else the last candidate
type NearestAboveZero struct{}

// Name implements RootPolicy
func (NearestAboveZero) Name() string { return "nearest_above_zero" }

// Choose implements RootPolicy
func (NearestAboveZero) Choose(c []float64) (float64, Choice, bool) {
	if len(c) == 0 {
		return 0, "", false
	}
	for _, v := range c {
		if v >= 0 {
			return v, ChoicePreferred, true
		}
	}
	return c[len(c)-1], ChoiceFallback, true
}

// Boundary is one located crossing and the candidates it was chosen from
type Boundary struct {
	X          float64
	Choice     Choice
	Candidates []float64
}

// FindBoundary locates a crossing of f over [lo, hi] using policy
// ok is false when no bracket exists
func FindBoundary(f func(float64) float64, lo, hi float64, policy RootPolicy) (Boundary, bool) {
	cands := Crossings(f, lo, hi)
	x, how, ok := policy.Choose(cands)
	if !ok {
		return Boundary{Candidates: cands}, false
	}
	return Boundary{X: x, Choice: how, Candidates: cands}, true
}
