package curvefit

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// fitQuadratic fits y = -a(x+b)^2 + c by linear least squares on a window
// of points around the raw maximum. Fitting locally keeps unrelated
// structure far from the peak from distorting the vertex estimate.
func fitQuadratic(lags, mi []float64, rawIdx int, opts Options) *ModelFit {
	lo := rawIdx - opts.PeakWindow
	hi := rawIdx + opts.PeakWindow + 1
	if lo < 0 {
		lo = 0
	}
	if hi > len(lags) {
		hi = len(lags)
	}
	wx := lags[lo:hi]
	wy := mi[lo:hi]

	if len(wx) < 4 {
		return rawFallback(ModelQuadratic, lags, mi, rawIdx, "too few points in peak window for quadratic fit")
	}

	// Center on the raw maximum for conditioning: fit y = A u^2 + B u + C
	// with u = x - x0.
	x0 := lags[rawIdx]
	n := len(wx)
	X := mat.NewDense(n, 3, nil)
	for i, x := range wx {
		u := x - x0
		X.Set(i, 0, u*u)
		X.Set(i, 1, u)
		X.Set(i, 2, 1)
	}

	beta, cov, _, err := leastSquares(X, wy)
	if err != nil {
		return rawFallback(ModelQuadratic, lags, mi, rawIdx, "singular quadratic design: "+err.Error())
	}

	A, B, C := beta[0], beta[1], beta[2]
	if A >= 0 {
		return rawFallback(ModelQuadratic, lags, mi, rawIdx, "quadratic fit is not concave")
	}

	// Vertex in centered coordinates, then back to lag units.
	u := -B / (2 * A)
	vertex := x0 + u
	if vertex < lags[0] || vertex > lags[len(lags)-1] {
		return rawFallback(ModelQuadratic, lags, mi, rawIdx, "fitted vertex outside scan range")
	}
	peakMI := C - B*B/(4*A)

	// Propagate the parameter covariance through u = -B/(2A):
	// du/dA = B/(2A^2), du/dB = -1/(2A).
	dA := B / (2 * A * A)
	dB := -1 / (2 * A)
	varU := dA*dA*cov.At(0, 0) + dB*dB*cov.At(1, 1) + 2*dA*dB*cov.At(0, 1)
	uncertainty := math.NaN()
	if varU > 0 {
		uncertainty = math.Sqrt(varU)
	}

	curve := make([]float64, n)
	for i, x := range wx {
		du := x - x0
		curve[i] = A*du*du + B*du + C
	}
	lower, upper := band(curve, predictionInterval(wy, curve, opts.IntervalProb))

	fitLags := make([]float64, n)
	copy(fitLags, wx)

	return &ModelFit{
		Model:       ModelQuadratic,
		Params:      []float64{-A, -vertex, peakMI}, // a, b, c of -a(x+b)^2+c
		PeakLag:     vertex,
		PeakMI:      peakMI,
		Uncertainty: uncertainty,
		RMS:         rms(wy, curve),
		FitLags:     fitLags,
		Curve:       curve,
		Lower:       lower,
		Upper:       upper,
	}
}
