// Package curvefit extracts the peak lag from an MI-versus-lag curve.
//
// Two candidate models are fit by least squares to the non-skipped portion
// of a lag scan:
//
//   - A quadratic -a(x+b)^2 + c on a local window around the raw maximum;
//     the vertex is the candidate peak lag, with uncertainty propagated
//     from the parameter covariance through the vertex formula.
//   - A continuous piecewise-linear model with one or more breakpoints,
//     grid-searched over interior lags; the breakpoint nearest the raw
//     maximum is the candidate peak lag, with uncertainty from the
//     curvature of the SSE profile.
//
// Ill-conditioned fits (too few points, inverted parabola, vertex outside
// the scanned range, rank-deficient designs) never raise: the model falls
// back to the raw-maximum lag with a reason attached and undefined (NaN)
// uncertainty. When several lags tie for the maximum, the window centers
// on the smallest-magnitude lag among them.
//
//	fit := curvefit.Fit(scanResult, curvefit.DefaultOptions())
//	if fit.Fallback {
//	    // raw-maximum estimate; fit.Reason explains why
//	}
package curvefit
