package rating

import (
	"errors"
	"math"
)

// epsilon is the convergence tolerance of the volatility iteration.
const epsilon = 1e-6

// maxIterations caps the Illinois iteration. The solver converges in well
// under 50 steps on sane inputs, so hitting the cap means the inputs (or the
// arithmetic) are broken and the update must not be trusted.
const maxIterations = 100

// ErrNoConvergence is returned when the volatility iteration does not
// converge within maxIterations. It aborts the whole rating update.
var ErrNoConvergence = errors.New("rating: volatility iteration did not converge")

// solveVolatility computes the new volatility σ' from the prior volatility,
// the internal deviation φ, the estimated variance v, and the estimated
// improvement Δ, using the Illinois variant of regula falsi (step 5 of the
// Glicko-2 paper).
func solveVolatility(sigma, phi, v, delta float64) (float64, error) {
	a := math.Log(sigma * sigma)
	deltaSq := delta * delta
	phiSq := phi * phi

	f := func(x float64) float64 {
		ex := math.Exp(x)
		num := ex * (deltaSq - phiSq - v - ex)
		den := 2 * (phiSq + v + ex) * (phiSq + v + ex)
		return num/den - (x-a)/(tau*tau)
	}

	// Initial bracket: A at the prior volatility, B either at the obvious
	// upper estimate or walked down in τ steps until f turns negative
	// (guaranteed, f is strictly decreasing past the root).
	A := a
	var B float64
	if deltaSq > phiSq+v {
		B = math.Log(deltaSq - phiSq - v)
	} else {
		k := 1.0
		for f(a-k*tau) < 0 {
			k++
		}
		B = a - k*tau
	}

	fA, fB := f(A), f(B)

	for i := 0; math.Abs(B-A) > epsilon; i++ {
		if i >= maxIterations {
			return 0, ErrNoConvergence
		}

		C := A + (A-B)*fA/(fB-fA)
		fC := f(C)

		if fC*fB <= 0 {
			A, fA = B, fB
		} else {
			// Illinois anti-stalling correction: keep A but halve its
			// residual so the secant cannot get stuck on one side.
			fA /= 2
		}

		B, fB = C, fC
	}

	return math.Exp(A / 2), nil
}
