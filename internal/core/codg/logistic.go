package codg

import "math"

// Fitter constants
const (
	IRLSMaxIter   = 50
	IRLSTolerance = 1e-6
	ProbClamp     = 1e-6
	RidgeLambda   = 1e-6
	SingularDet   = 1e-12
)

// FitLogistic fits y successes out of n trials at each x to sigmoid(b0 + b1*x)
// using iteratively reweighted least squares from b0 = b1 = 0
//
// It returns nil when the weighted normal equations become singular, when the
// inputs are empty or ragged, or when the parameters stop being finite
func FitLogistic(xs, ns, ys []float64) *Fit {
	if len(xs) == 0 || len(xs) != len(ns) || len(xs) != len(ys) {
		return nil
	}

	var b0, b1 float64
	for iter := 0; iter < IRLSMaxIter; iter++ {
		var a11, a12, a22, c1, c2 float64
		for i, x := range xs {
			n, y := ns[i], ys[i]
			eta := b0 + b1*x
			p := math.Min(1-ProbClamp, math.Max(ProbClamp, sigmoid(eta)))

			w := n * p * (1 - p)
			z := eta + (y-n*p)/(n*p*(1-p))

			a11 += w
			a12 += w * x
			a22 += w * x * x
			c1 += w * z
			c2 += w * x * z
		}
		a11 += RidgeLambda
		a22 += RidgeLambda

		n0, n1, ok := solve2x2(a11, a12, a12, a22, c1, c2)
		if !ok || !finite(n0) || !finite(n1) {
			return nil
		}

		delta := math.Max(math.Abs(n0-b0), math.Abs(n1-b1))
		b0, b1 = n0, n1
		if delta < IRLSTolerance {
			break
		}
	}
	return &Fit{B0: b0, B1: b1}
}

// solve2x2 solves [a11 a12; a21 a22] x = [b1 b2] in closed form
// ok is false when |det| falls below SingularDet
func solve2x2(a11, a12, a21, a22, b1, b2 float64) (x0, x1 float64, ok bool) {
	det := a11*a22 - a12*a21
	if math.Abs(det) < SingularDet || math.IsNaN(det) {
		return 0, 0, false
	}
	x0 = (b1*a22 - b2*a12) / det
	x1 = (-b1*a21 + b2*a11) / det
	return x0, x1, true
}
