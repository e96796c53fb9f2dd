package curvefit

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// fitPiecewise fits a continuous piecewise-linear model with k breakpoints,
//
//	y = c0 + c1*x + sum_j dj*max(0, x-bj)
//
// by grid-searching breakpoint locations over the interior lags and solving
// the remaining linear parameters by least squares at each candidate. The
// breakpoint nearest the raw maximum is reported as the candidate peak lag.
func fitPiecewise(lags, mi []float64, rawIdx int, opts Options) *ModelFit {
	n := len(lags)
	k := opts.Breakpoints
	p := 2 + k

	if n < p+2 || n < 4 {
		return rawFallback(ModelPiecewise, lags, mi, rawIdx, "too few points for piecewise fit")
	}

	candidates := lags[1 : n-1]
	if len(candidates) < k {
		return rawFallback(ModelPiecewise, lags, mi, rawIdx, "too few interior lags for breakpoints")
	}

	bestSSE := math.Inf(1)
	var bestKnots []float64
	var bestBeta []float64

	forEachKnotSet(candidates, k, func(knots []float64) {
		beta, sse, err := solvePiecewise(lags, mi, knots)
		if err != nil {
			return
		}
		if sse < bestSSE {
			bestSSE = sse
			bestKnots = append([]float64(nil), knots...)
			bestBeta = beta
		}
	})

	if bestKnots == nil {
		return rawFallback(ModelPiecewise, lags, mi, rawIdx, "no solvable breakpoint placement")
	}

	// A flat fitted curve has no peak structure to report; the breakpoint
	// location would be arbitrary.
	if fittedSpan(bestBeta, bestKnots, lags) < 1e-12 {
		return rawFallback(ModelPiecewise, lags, mi, rawIdx, "flat piecewise fit has no peak")
	}

	// Reported peak: the breakpoint nearest the raw-maximum lag.
	rawLag := lags[rawIdx]
	peakKnot := 0
	for j := 1; j < len(bestKnots); j++ {
		if math.Abs(bestKnots[j]-rawLag) < math.Abs(bestKnots[peakKnot]-rawLag) {
			peakKnot = j
		}
	}
	peakLag := bestKnots[peakKnot]
	peakMI := evalPiecewise(bestBeta, bestKnots, peakLag)

	uncertainty := knotUncertainty(lags, mi, bestKnots, peakKnot, candidates, bestSSE, n-p)

	curve := make([]float64, n)
	for i, x := range lags {
		curve[i] = evalPiecewise(bestBeta, bestKnots, x)
	}
	lower, upper := band(curve, predictionInterval(mi, curve, opts.IntervalProb))

	fitLags := make([]float64, n)
	copy(fitLags, lags)

	return &ModelFit{
		Model:       ModelPiecewise,
		Params:      bestBeta,
		Breakpoints: bestKnots,
		PeakLag:     peakLag,
		PeakMI:      peakMI,
		Uncertainty: uncertainty,
		RMS:         rms(mi, curve),
		FitLags:     fitLags,
		Curve:       curve,
		Lower:       lower,
		Upper:       upper,
	}
}

// forEachKnotSet enumerates strictly increasing knot combinations drawn
// from the candidate lags.
func forEachKnotSet(candidates []float64, k int, visit func(knots []float64)) {
	knots := make([]float64, k)
	var recurse func(start, depth int)
	recurse = func(start, depth int) {
		if depth == k {
			visit(knots)
			return
		}
		for i := start; i < len(candidates); i++ {
			knots[depth] = candidates[i]
			recurse(i+1, depth+1)
		}
	}
	recurse(0, 0)
}

// solvePiecewise fits the linear parameters for a fixed knot placement.
func solvePiecewise(lags, mi, knots []float64) (beta []float64, sse float64, err error) {
	n := len(lags)
	p := 2 + len(knots)
	X := mat.NewDense(n, p, nil)
	for i, x := range lags {
		X.Set(i, 0, 1)
		X.Set(i, 1, x)
		for j, b := range knots {
			X.Set(i, 2+j, math.Max(0, x-b))
		}
	}

	beta, _, _, err = leastSquares(X, mi)
	if err != nil {
		return nil, 0, err
	}

	for i, x := range lags {
		r := mi[i] - evalPiecewise(beta, knots, x)
		sse += r * r
	}
	return beta, sse, nil
}

// fittedSpan returns the range of the fitted curve over the lags.
func fittedSpan(beta, knots, lags []float64) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, x := range lags {
		v := evalPiecewise(beta, knots, x)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}

// evalPiecewise evaluates the hinge model at x.
func evalPiecewise(beta, knots []float64, x float64) float64 {
	y := beta[0] + beta[1]*x
	for j, b := range knots {
		y += beta[2+j] * math.Max(0, x-b)
	}
	return y
}

// knotUncertainty estimates the standard error on one breakpoint from the
// curvature of the SSE profile around its best placement: refit with the
// knot moved across neighboring candidates (other knots held fixed), fit a
// parabola to SSE(b), and use var(b) ~ 2 sigma^2 / SSE''(b). A flat or
// non-convex profile yields NaN rather than a fabricated value.
func knotUncertainty(lags, mi, knots []float64, knotIdx int, candidates []float64, bestSSE float64, dof int) float64 {
	if dof <= 0 {
		return math.NaN()
	}
	ssy := 0.0
	for _, v := range mi {
		ssy += v * v
	}
	// An exact fit has zero residual variance, so the breakpoint carries no
	// defined standard error.
	if bestSSE <= exactFitTol*ssy {
		return math.NaN()
	}
	sigma2 := bestSSE / float64(dof)

	trial := append([]float64(nil), knots...)
	var bs, sses []float64
	for _, c := range candidates {
		if occupied(knots, knotIdx, c) {
			continue
		}
		trial[knotIdx] = c
		_, sse, err := solvePiecewise(lags, mi, trial)
		if err != nil {
			continue
		}
		bs = append(bs, c)
		sses = append(sses, sse)
	}
	if len(bs) < 3 {
		return math.NaN()
	}

	// Parabola through the profile near the minimum: SSE(b) ~ s0 + s1*b + s2*b^2.
	minIdx := 0
	for i := range sses {
		if sses[i] < sses[minIdx] {
			minIdx = i
		}
	}
	lo := minIdx - 2
	hi := minIdx + 3
	if lo < 0 {
		lo = 0
	}
	if hi > len(bs) {
		hi = len(bs)
	}
	if hi-lo < 3 {
		return math.NaN()
	}

	X := mat.NewDense(hi-lo, 3, nil)
	for i, b := range bs[lo:hi] {
		X.Set(i, 0, 1)
		X.Set(i, 1, b)
		X.Set(i, 2, b*b)
	}
	coef, _, _, err := leastSquares(X, sses[lo:hi])
	if err != nil || coef[2] <= 0 {
		return math.NaN()
	}

	// SSE'' = 2*s2; var(b) = 2*sigma2 / SSE''.
	varB := sigma2 / coef[2]
	if varB <= 0 {
		return math.NaN()
	}
	return math.Sqrt(varB)
}

// occupied reports whether candidate c collides with another knot.
func occupied(knots []float64, knotIdx int, c float64) bool {
	for j, b := range knots {
		if j != knotIdx && b == c {
			return true
		}
	}
	return false
}
