// Package lagfinder locates the coupling timescale between two time series.
//
// This is the library's single entry point: it wires the lag scanner, the
// mutual information estimator, optional AAFT surrogate significance
// testing, and the curve fitter into one call.
//
//	a := timeseries.CosPulse(500, 100, 10, 0.5, 1)
//	b := timeseries.Shifted(a, 5, 0.5, 2)
//
//	cfg := lagfinder.DefaultConfig()
//	cfg.MinLag, cfg.MaxLag, cfg.Step = -10, 10, 1
//	cfg.Surrogates = 100
//	cfg.Seed = 42
//
//	scan, fit, err := lagfinder.Find(ctx, a, b, cfg)
//
// The scan holds the MI-versus-lag curve (one record per lag, with skipped
// records for lags that could not be aligned); the fit holds the peak-lag
// estimate, its uncertainty, and per-model diagnostics. Downstream plotting
// consumes both; no core logic depends on it.
package lagfinder
