package mutualinfo

import (
	"math"
	"sort"
)

// Estimator computes mutual information between two equal-length numeric
// sequences using equal-width histogram binning.
type Estimator struct {
	// Bins is the number of histogram bins per variable. When zero, the
	// bin count is chosen per variable by the Freedman-Diaconis rule.
	Bins int
}

// New creates an estimator with the given bin count (0 = Freedman-Diaconis).
func New(bins int) *Estimator {
	return &Estimator{Bins: bins}
}

// Estimate returns the mutual information I(X;Y) in bits, computed as
// H(X) + H(Y) - H(X,Y) over equal-width histograms. The result is clamped
// to be non-negative and is symmetric in its two arguments. Degenerate
// inputs (mismatched lengths, too few points, zero variance in either
// sequence) return 0.
func (e *Estimator) Estimate(x, y []float64) float64 {
	if len(x) != len(y) || len(x) < 2 {
		return 0
	}
	if isConstant(x) || isConstant(y) {
		return 0
	}

	kx := e.binCount(x)
	ky := e.binCount(y)
	xi := digitize(x, kx)
	yi := digitize(y, ky)

	hx := entropyCounts(marginalCounts(xi, kx), len(x))
	hy := entropyCounts(marginalCounts(yi, ky), len(y))
	hxy := entropyCounts(jointCounts(xi, yi, kx, ky), len(x))

	mi := hx + hy - hxy
	if mi < 0 {
		mi = 0
	}
	return mi
}

// Entropy returns the Shannon entropy in bits of the values under an
// equal-width histogram with the estimator's bin policy.
func (e *Estimator) Entropy(values []float64) float64 {
	if len(values) == 0 || isConstant(values) {
		return 0
	}
	k := e.binCount(values)
	idx := digitize(values, k)
	return entropyCounts(marginalCounts(idx, k), len(values))
}

// binCount resolves the histogram bin count for one variable.
func (e *Estimator) binCount(values []float64) int {
	if e.Bins > 0 {
		return e.Bins
	}
	return FreedmanDiaconisBins(values)
}

// FreedmanDiaconisBins selects a histogram bin count via the
// Freedman-Diaconis rule, falling back to Sturges' rule when the IQR is
// zero. The result is clamped to [2, 64].
func FreedmanDiaconisBins(values []float64) int {
	n := len(values)
	if n < 2 {
		return 2
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	iqr := quantileSorted(sorted, 0.75) - quantileSorted(sorted, 0.25)
	span := sorted[n-1] - sorted[0]

	var bins int
	if iqr > 0 && span > 0 {
		width := 2 * iqr / math.Cbrt(float64(n))
		bins = int(math.Ceil(span / width))
	} else {
		// Sturges
		bins = int(math.Ceil(math.Log2(float64(n)))) + 1
	}

	if bins < 2 {
		bins = 2
	}
	if bins > 64 {
		bins = 64
	}
	return bins
}

// digitize maps values onto k equal-width bins over [min, max].
func digitize(values []float64, k int) []int {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	width := (hi - lo) / float64(k)

	idx := make([]int, len(values))
	for i, v := range values {
		b := int((v - lo) / width)
		if b >= k {
			b = k - 1
		}
		if b < 0 {
			b = 0
		}
		idx[i] = b
	}
	return idx
}

func marginalCounts(idx []int, k int) []int {
	counts := make([]int, k)
	for _, b := range idx {
		counts[b]++
	}
	return counts
}

func jointCounts(xi, yi []int, kx, ky int) []int {
	counts := make([]int, kx*ky)
	for i := range xi {
		counts[xi[i]*ky+yi[i]]++
	}
	return counts
}

// entropyCounts computes Shannon entropy in bits from bin counts.
func entropyCounts(counts []int, n int) float64 {
	entropy := 0.0
	total := float64(n)
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// quantileSorted returns the linearly interpolated q-quantile of sorted data.
func quantileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
