package lagscan

import (
	"math"
	"time"

	"github.com/solarwindlab/golagmi/timeseries"
)

// alignedPair holds two series resampled onto a shared regular grid for one
// lag offset.
type alignedPair struct {
	x, y []float64
}

// aligner resamples a fixed pair of series at arbitrary lag offsets. The
// per-series preprocessing (NaN removal, mapping timestamps to a shared
// float axis) happens once; only the grid construction depends on the lag.
type aligner struct {
	ta, va []float64
	tb, vb []float64
	step   float64
	minPts int
}

// newAligner prepares both series for lag alignment. Resolution is the grid
// spacing in seconds; when zero it is inferred from the median sample
// spacing of series A.
func newAligner(a, b *timeseries.Series, resolution float64, minOverlap int) *aligner {
	ca := a.DropNaN()
	cb := b.DropNaN()

	var epoch time.Time
	switch {
	case ca.Len() == 0 && cb.Len() == 0:
	case ca.Len() == 0:
		epoch = cb.Timestamps[0]
	case cb.Len() == 0 || ca.Timestamps[0].Before(cb.Timestamps[0]):
		epoch = ca.Timestamps[0]
	default:
		epoch = cb.Timestamps[0]
	}

	step := resolution
	if step <= 0 {
		step = ca.MedianSpacing()
	}
	if minOverlap <= 0 {
		minOverlap = defaultMinOverlap
	}

	return &aligner{
		ta:     ca.Seconds(epoch),
		va:     ca.Values,
		tb:     cb.Seconds(epoch),
		vb:     cb.Values,
		step:   step,
		minPts: minOverlap,
	}
}

// at resamples both series onto the overlap grid for the given lag, pairing
// a(t) with b(t+lag). It returns false when the overlap holds fewer than
// the minimum number of points, including the zero-overlap case at extreme
// lags.
func (al *aligner) at(lag float64) (alignedPair, bool) {
	if len(al.ta) == 0 || len(al.tb) == 0 || math.IsNaN(al.step) || al.step <= 0 {
		return alignedPair{}, false
	}

	// b is sampled at t+lag, so in a's time frame b covers [tb0-lag, tbN-lag].
	lo := math.Max(al.ta[0], al.tb[0]-lag)
	hi := math.Min(al.ta[len(al.ta)-1], al.tb[len(al.tb)-1]-lag)
	if hi < lo {
		return alignedPair{}, false
	}

	grid := timeseries.RegularGrid(lo, hi, al.step)
	if len(grid) < al.minPts {
		return alignedPair{}, false
	}

	x := timeseries.Interpolate(al.ta, al.va, grid)
	shifted := make([]float64, len(grid))
	for i, g := range grid {
		shifted[i] = g + lag
	}
	y := timeseries.Interpolate(al.tb, al.vb, shifted)

	// Rounding at the overlap edges can push a grid point just outside a
	// series' span; drop those pairs rather than feeding NaN downstream.
	xs := x[:0]
	ys := y[:0]
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < al.minPts {
		return alignedPair{}, false
	}

	return alignedPair{x: xs, y: ys}, true
}
