// Package lagscan scans mutual information as a function of temporal lag.
//
// A scan generates an ordered set of lag offsets, resamples both series
// onto a shared regular grid for each offset (shifting series B by the
// lag), estimates mutual information on the aligned pair, and assembles
// the MI-versus-lag curve.
//
// # Failure model
//
// Only an invalid lag configuration (step <= 0 or min > max) aborts a scan.
// Lags whose post-shift overlap is too short, including the zero-overlap
// case at extreme lags, become skipped records with MI = NaN; the scan
// always returns exactly one record per generated lag, in increasing lag
// order.
//
// # Concurrency
//
// Lag evaluations are independent and side-effect-free, so the scanner
// fans them out across a bounded worker group and assembles records in lag
// order. Results are identical to a sequential scan.
//
//	cfg := lagscan.Config{MinLag: -600, MaxLag: 600, Step: 60}
//	result, err := lagscan.Scan(ctx, a, b, mutualinfo.New(0), cfg)
package lagscan
