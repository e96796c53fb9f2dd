package curvefit

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/solarwindlab/golagmi/lagscan"
)

// Model identifies a candidate fit model.
type Model string

const (
	// ModelQuadratic fits a parabola to a local window around the raw
	// maximum; its vertex is the candidate peak lag.
	ModelQuadratic Model = "quadratic"
	// ModelPiecewise fits continuous linear segments joined at one or more
	// breakpoints; the breakpoint nearest the raw maximum is the candidate
	// peak lag.
	ModelPiecewise Model = "piecewise_linear"
)

// ModelFit holds the outcome of fitting one model. When the fit is
// degenerate the model falls back to reporting the raw-maximum lag with
// Fallback set, Reason explaining why, and NaN uncertainty.
type ModelFit struct {
	Model       Model
	Params      []float64 // quadratic: a, b, c of -a(x+b)^2+c; piecewise: c0, c1, d1..dk of c0+c1*x+sum dj*max(0,x-bj)
	Breakpoints []float64 // piecewise knot locations
	PeakLag     float64
	PeakMI      float64
	Uncertainty float64 // 1-sigma standard error on PeakLag; NaN when undefined
	RMS         float64 // root-mean-square residual over the fitted points
	FitLags     []float64
	Curve       []float64 // fitted model evaluated at FitLags
	Lower       []float64 // prediction interval band around Curve
	Upper       []float64
	Fallback    bool
	Reason      string
}

// Result combines the candidate model fits and the reported peak estimate.
type Result struct {
	Quadratic *ModelFit
	Piecewise *ModelFit

	Model       Model   // model the reported peak came from
	PeakLag     float64 // best-estimate coupling lag in seconds
	PeakMI      float64
	Uncertainty float64 // NaN when the estimate is a raw-maximum fallback
	Fallback    bool
	Reason      string
}

// Options controls curve fitting.
type Options struct {
	Models       []Model // candidate models; empty = both
	PeakWindow   int     // half-width in points of the quadratic fit window (default 5)
	Breakpoints  int     // piecewise breakpoint count, clamped to [1, 2] (default 1)
	IntervalProb float64 // prediction interval probability (default 0.80)
}

// DefaultOptions returns the default fitting options.
func DefaultOptions() Options {
	return Options{
		Models:       []Model{ModelPiecewise, ModelQuadratic},
		PeakWindow:   5,
		Breakpoints:  1,
		IntervalProb: 0.80,
	}
}

// Fit fits the configured models to the non-skipped portion of the scan and
// reports the peak lag with an uncertainty estimate. Fit never fails: when
// no model converges to a physical result it reports the raw-maximum lag
// with Fallback set. Ties in the raw maximum resolve toward the
// smallest-magnitude lag.
func Fit(scan *lagscan.Result, opts Options) *Result {
	if opts.PeakWindow <= 0 {
		opts.PeakWindow = 5
	}
	if opts.Breakpoints < 1 {
		opts.Breakpoints = 1
	}
	if opts.Breakpoints > 2 {
		opts.Breakpoints = 2
	}
	if opts.IntervalProb <= 0 || opts.IntervalProb >= 1 {
		opts.IntervalProb = 0.80
	}
	if len(opts.Models) == 0 {
		opts.Models = []Model{ModelPiecewise, ModelQuadratic}
	}

	valid := scan.Valid()
	raw, ok := scan.MaxRecord()
	if !ok {
		return &Result{
			PeakLag:     math.NaN(),
			PeakMI:      math.NaN(),
			Uncertainty: math.NaN(),
			Fallback:    true,
			Reason:      "no valid records in scan",
		}
	}

	lags := make([]float64, len(valid))
	mi := make([]float64, len(valid))
	rawIdx := 0
	for i, rec := range valid {
		lags[i] = rec.Lag
		mi[i] = rec.MI
		if rec.Lag == raw.Lag {
			rawIdx = i
		}
	}

	res := &Result{}
	for _, m := range opts.Models {
		switch m {
		case ModelQuadratic:
			res.Quadratic = fitQuadratic(lags, mi, rawIdx, opts)
		case ModelPiecewise:
			res.Piecewise = fitPiecewise(lags, mi, rawIdx, opts)
		}
	}

	best := selectFit(res.Quadratic, res.Piecewise)
	if best == nil {
		res.PeakLag = raw.Lag
		res.PeakMI = raw.MI
		res.Uncertainty = math.NaN()
		res.Fallback = true
		res.Reason = fallbackReason(res.Quadratic, res.Piecewise)
		return res
	}

	res.Model = best.Model
	res.PeakLag = best.PeakLag
	res.PeakMI = best.PeakMI
	res.Uncertainty = best.Uncertainty
	return res
}

// selectFit picks the successful fit with the lower RMS residual.
func selectFit(fits ...*ModelFit) *ModelFit {
	var best *ModelFit
	for _, f := range fits {
		if f == nil || f.Fallback {
			continue
		}
		if best == nil || f.RMS < best.RMS {
			best = f
		}
	}
	return best
}

func fallbackReason(fits ...*ModelFit) string {
	for _, f := range fits {
		if f != nil && f.Reason != "" {
			return f.Reason
		}
	}
	return "no model fitted"
}

// rawFallback builds a ModelFit that reports the raw maximum.
func rawFallback(m Model, lags, mi []float64, rawIdx int, reason string) *ModelFit {
	return &ModelFit{
		Model:       m,
		PeakLag:     lags[rawIdx],
		PeakMI:      mi[rawIdx],
		Uncertainty: math.NaN(),
		RMS:         math.NaN(),
		Fallback:    true,
		Reason:      reason,
	}
}

// exactFitTol is the residual-to-response ratio below which a least-squares
// residual is considered pure floating-point round-off.
const exactFitTol = 1e-24

// leastSquares solves min ||X beta - y||^2 and returns the coefficients,
// the parameter covariance sigma^2 (X'X)^-1, and the residual variance
// sigma^2 = SSE / (n - p). It fails on rank-deficient designs.
func leastSquares(X *mat.Dense, y []float64) (beta []float64, cov *mat.Dense, sigma2 float64, err error) {
	n, p := X.Dims()

	var qr mat.QR
	qr.Factorize(X)

	yVec := mat.NewVecDense(n, y)
	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, yVec); err != nil {
		return nil, nil, 0, err
	}

	beta = make([]float64, p)
	for i := range beta {
		beta[i] = sol.AtVec(i)
	}

	sse := 0.0
	ssy := 0.0
	for i := 0; i < n; i++ {
		pred := 0.0
		for j := 0; j < p; j++ {
			pred += X.At(i, j) * beta[j]
		}
		r := y[i] - pred
		sse += r * r
		ssy += y[i] * y[i]
	}
	// An exact fit leaves only QR round-off in the residual; clamp it so
	// downstream variances are truly zero rather than ~1e-30.
	if sse <= exactFitTol*ssy {
		sse = 0
	}
	if n > p {
		sigma2 = sse / float64(n-p)
	}

	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	cov = &mat.Dense{}
	if err := cov.Inverse(&xtx); err != nil {
		return nil, nil, 0, err
	}
	cov.Scale(sigma2, cov)

	return beta, cov, sigma2, nil
}

// predictionInterval returns the half-width of the prob prediction interval
// for a fit with the given residuals, following the normal approximation
// z * sqrt(SSE / (n - 2)).
func predictionInterval(observed, fitted []float64, prob float64) float64 {
	n := len(observed)
	if n <= 2 {
		return math.NaN()
	}
	sse := 0.0
	for i := range observed {
		r := observed[i] - fitted[i]
		sse += r * r
	}
	stdev := math.Sqrt(sse / float64(n-2))
	z := distuv.UnitNormal.Quantile(1 - (1-prob)/2)
	return z * stdev
}

// band evaluates the symmetric prediction band around a fitted curve.
func band(curve []float64, halfWidth float64) (lower, upper []float64) {
	lower = make([]float64, len(curve))
	upper = make([]float64, len(curve))
	for i, v := range curve {
		lower[i] = v - halfWidth
		upper[i] = v + halfWidth
	}
	return lower, upper
}

// rms returns the root-mean-square residual between observed and fitted.
func rms(observed, fitted []float64) float64 {
	if len(observed) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := range observed {
		r := observed[i] - fitted[i]
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(observed)))
}
