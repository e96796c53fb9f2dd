// Package mutualinfo provides histogram mutual information estimation.
//
// Mutual information I(X;Y) measures the statistical dependence between two
// variables without assuming a linear (or even monotonic) relationship. It
// is non-negative, symmetric, and zero in expectation for independent
// inputs, which makes it a robust dependence measure for lag analysis.
//
// The estimator bins both variables into equal-width histograms and computes
//
//	I(X;Y) = H(X) + H(Y) - H(X,Y)
//
// in bits, clamped to be non-negative. Bin counts are either fixed or chosen
// per variable by the Freedman-Diaconis rule (with a Sturges fallback for
// zero-IQR data), clamped to [2, 64].
//
// Constant (zero-variance) inputs carry no information and return MI = 0
// rather than a numerical error.
//
//	est := mutualinfo.New(0) // Freedman-Diaconis binning
//	mi := est.Estimate(x, y)
package mutualinfo
