package curvefit

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarwindlab/golagmi/lagscan"
)

// scanFrom builds a scan result from a curve sampled at integer lags.
func scanFrom(minLag, maxLag float64, f func(x float64) float64) *lagscan.Result {
	var records []lagscan.Record
	for x := minLag; x <= maxLag+1e-9; x++ {
		records = append(records, lagscan.Record{Lag: x, MI: f(x), Threshold: math.NaN()})
	}
	return &lagscan.Result{Records: records}
}

func TestFitQuadraticRecoversVertex(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	scan := scanFrom(-10, 10, func(x float64) float64 {
		return -0.05*(x-4.3)*(x-4.3) + 1.5 + 0.01*rng.NormFloat64()
	})

	res := Fit(scan, Options{Models: []Model{ModelQuadratic}})
	require.NotNil(t, res.Quadratic)
	require.False(t, res.Fallback)

	assert.Equal(t, ModelQuadratic, res.Model)
	assert.InDelta(t, 4.3, res.PeakLag, 0.3)
	assert.InDelta(t, 1.5, res.PeakMI, 0.1)
	assert.Greater(t, res.Uncertainty, 0.0, "noisy fit should carry a finite standard error")

	// Params hold a, b, c of -a(x+b)^2 + c.
	require.Len(t, res.Quadratic.Params, 3)
	assert.InDelta(t, 0.05, res.Quadratic.Params[0], 0.01)
	assert.InDelta(t, -4.3, res.Quadratic.Params[1], 0.3)
}

func TestFitQuadraticExactParabola(t *testing.T) {
	scan := scanFrom(-10, 10, func(x float64) float64 {
		return -0.1*(x+2)*(x+2) + 3
	})

	res := Fit(scan, Options{Models: []Model{ModelQuadratic}})
	require.False(t, res.Fallback)
	assert.InDelta(t, -2, res.PeakLag, 1e-6)
	assert.InDelta(t, 3, res.PeakMI, 1e-6)
	// A perfect fit has zero residual variance, so no uncertainty is defined.
	assert.True(t, math.IsNaN(res.Uncertainty))
	assert.InDelta(t, 0, res.Quadratic.RMS, 1e-9)
}

func TestFitPiecewiseRecoversKnot(t *testing.T) {
	scan := scanFrom(-10, 10, func(x float64) float64 {
		return 1 - 0.1*math.Abs(x-2)
	})

	res := Fit(scan, Options{Models: []Model{ModelPiecewise}})
	require.NotNil(t, res.Piecewise)
	require.False(t, res.Fallback)

	assert.Equal(t, ModelPiecewise, res.Model)
	assert.InDelta(t, 2, res.PeakLag, 1e-6, "tent apex sits on a scanned lag")
	assert.InDelta(t, 1, res.PeakMI, 1e-6)
	assert.InDelta(t, 0, res.Piecewise.RMS, 1e-9)
	require.Len(t, res.Piecewise.Breakpoints, 1)
	// An exact fit has zero residual variance, so no uncertainty is defined.
	assert.True(t, math.IsNaN(res.Uncertainty))
}

func TestFitPiecewiseTwoKnots(t *testing.T) {
	// Trapezoid: rise to a plateau between -1 and 3, then fall.
	scan := scanFrom(-10, 10, func(x float64) float64 {
		switch {
		case x < -1:
			return 1 + 0.2*(x+1)
		case x <= 3:
			return 1
		default:
			return 1 - 0.3*(x-3)
		}
	})

	res := Fit(scan, Options{Models: []Model{ModelPiecewise}, Breakpoints: 2})
	require.False(t, res.Fallback)
	require.Len(t, res.Piecewise.Breakpoints, 2)
	assert.InDelta(t, -1, res.Piecewise.Breakpoints[0], 1e-6)
	assert.InDelta(t, 3, res.Piecewise.Breakpoints[1], 1e-6)
}

func TestFitPrefersLowerResidual(t *testing.T) {
	// A tent is exact for the hinge model and only approximate for a parabola.
	scan := scanFrom(-10, 10, func(x float64) float64 {
		return 1 - 0.1*math.Abs(x-2)
	})

	res := Fit(scan, DefaultOptions())
	require.NotNil(t, res.Quadratic)
	require.NotNil(t, res.Piecewise)
	assert.Equal(t, ModelPiecewise, res.Model)
	assert.Less(t, res.Piecewise.RMS, res.Quadratic.RMS)
}

func TestFitNonConcaveFallsBack(t *testing.T) {
	scan := scanFrom(-10, 10, func(x float64) float64 {
		return x * x
	})

	res := Fit(scan, Options{Models: []Model{ModelQuadratic}})
	assert.True(t, res.Fallback)
	assert.True(t, math.IsNaN(res.Uncertainty))
	assert.Contains(t, res.Reason, "not concave")
	// The raw maximum is still reported.
	assert.Equal(t, 100.0, res.PeakMI)
}

func TestFitConstantCurveFallsBack(t *testing.T) {
	scan := scanFrom(-5, 5, func(x float64) float64 { return 0 })

	res := Fit(scan, DefaultOptions())
	assert.True(t, res.Fallback)
	assert.Equal(t, 0.0, res.PeakLag, "ties resolve to the smallest-magnitude lag")
	assert.True(t, math.IsNaN(res.Uncertainty))
}

func TestFitTooFewPointsFallsBack(t *testing.T) {
	scan := &lagscan.Result{Records: []lagscan.Record{
		{Lag: 5, MI: 0.8},
	}}

	res := Fit(scan, DefaultOptions())
	assert.True(t, res.Fallback)
	assert.Equal(t, 5.0, res.PeakLag)
	assert.Equal(t, 0.8, res.PeakMI)
	assert.True(t, math.IsNaN(res.Uncertainty))
}

func TestFitAllSkippedFallsBack(t *testing.T) {
	scan := &lagscan.Result{Records: []lagscan.Record{
		{Lag: -1, MI: math.NaN(), Skipped: true},
		{Lag: 0, MI: math.NaN(), Skipped: true},
		{Lag: 1, MI: math.NaN(), Skipped: true},
	}}

	res := Fit(scan, DefaultOptions())
	assert.True(t, res.Fallback)
	assert.True(t, math.IsNaN(res.PeakLag))
	assert.True(t, math.IsNaN(res.PeakMI))
}

func TestFitSkipsInvalidRecords(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	scan := scanFrom(-10, 10, func(x float64) float64 {
		return -0.05*(x-1)*(x-1) + 1 + 0.01*rng.NormFloat64()
	})
	// Mark the edges skipped; the fit must ignore them.
	scan.Records[0].Skipped = true
	scan.Records[0].MI = math.NaN()
	scan.Records[len(scan.Records)-1].Skipped = true
	scan.Records[len(scan.Records)-1].MI = math.NaN()

	res := Fit(scan, Options{Models: []Model{ModelQuadratic}})
	require.False(t, res.Fallback)
	assert.InDelta(t, 1, res.PeakLag, 0.5)
}

func TestFitPredictionBand(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	scan := scanFrom(-10, 10, func(x float64) float64 {
		return 1 - 0.05*math.Abs(x) + 0.02*rng.NormFloat64()
	})

	res := Fit(scan, Options{Models: []Model{ModelPiecewise}})
	require.False(t, res.Fallback)
	fit := res.Piecewise
	require.Equal(t, len(fit.FitLags), len(fit.Curve))
	require.Equal(t, len(fit.Curve), len(fit.Lower))
	require.Equal(t, len(fit.Curve), len(fit.Upper))
	for i := range fit.Curve {
		assert.Less(t, fit.Lower[i], fit.Curve[i])
		assert.Greater(t, fit.Upper[i], fit.Curve[i])
	}
}
