// Package surrogate provides surrogate data generation and significance
// thresholds for mutual information analysis.
//
// A surrogate series preserves chosen statistical properties of the
// original (here the amplitude spectrum and the marginal distribution)
// while destroying its dependency structure. Mutual information computed
// against many surrogates forms a null distribution; observed MI values
// below a high percentile of that distribution are statistically
// indistinguishable from noise.
//
// The default generator is the amplitude-adjusted Fourier transform (AAFT):
// gaussianize the series by rank, randomize Fourier phases while keeping
// amplitudes, then rank-remap back onto the original values. Other schemes
// can be substituted through the Generator type.
//
//	res, err := surrogate.Threshold(ctx, x, y, estimator, surrogate.ThresholdConfig{
//	    N:    100,
//	    Seed: 42,
//	})
//	// res.Threshold is the p95 noise floor for MI between x and y
package surrogate
