package timeseries

import "math"

// Interpolate evaluates a piecewise-linear interpolant of (t, v) at every
// point of grid. t must be strictly increasing and the same length as v.
// Grid points outside [t[0], t[len(t)-1]] evaluate to NaN.
func Interpolate(t, v, grid []float64) []float64 {
	out := make([]float64, len(grid))
	if len(t) == 0 || len(t) != len(v) {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}

	j := 0
	for i, g := range grid {
		if g < t[0] || g > t[len(t)-1] {
			out[i] = math.NaN()
			continue
		}
		if len(t) == 1 {
			out[i] = v[0]
			continue
		}
		for j < len(t)-2 && t[j+1] < g {
			j++
		}
		t0, t1 := t[j], t[j+1]
		if t1 == t0 {
			out[i] = v[j]
			continue
		}
		frac := (g - t0) / (t1 - t0)
		out[i] = v[j] + frac*(v[j+1]-v[j])
	}
	return out
}

// RegularGrid returns equally spaced points covering [lo, hi] with the given
// step: lo, lo+step, ... up to the largest value not exceeding hi.
func RegularGrid(lo, hi, step float64) []float64 {
	if step <= 0 || lo > hi {
		return nil
	}
	n := int(math.Floor((hi-lo)/step + 1e-9))
	grid := make([]float64, n+1)
	for i := range grid {
		grid[i] = lo + float64(i)*step
	}
	return grid
}
