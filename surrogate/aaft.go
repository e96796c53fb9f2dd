package surrogate

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Generator produces one surrogate realization of a series using the given
// random source. Alternative surrogate schemes can be substituted for AAFT.
type Generator func(values []float64, rng *rand.Rand) []float64

// AAFT generates an amplitude-adjusted Fourier transform surrogate of the
// input. The surrogate preserves the amplitude spectrum and the marginal
// value distribution of the original while randomizing Fourier phases,
// destroying any nonlinear dependency structure.
func AAFT(values []float64, rng *rand.Rand) []float64 {
	n := len(values)
	if n < 2 {
		out := make([]float64, n)
		copy(out, values)
		return out
	}

	// Step 1: reorder Gaussian noise to follow the ranks of the input,
	// producing a gaussianized copy of the series.
	ranks := rankOrder(values)
	gauss := make([]float64, n)
	for i := range gauss {
		gauss[i] = rng.NormFloat64()
	}
	sort.Float64s(gauss)
	gaussianized := make([]float64, n)
	for i, r := range ranks {
		gaussianized[i] = gauss[r]
	}

	// Step 2: randomize the Fourier phases of the gaussianized series.
	randomized := phaseRandomize(gaussianized, rng)

	// Step 3: remap the phase-randomized series back onto the original
	// marginal distribution via rank ordering.
	sortedOrig := make([]float64, n)
	copy(sortedOrig, values)
	sort.Float64s(sortedOrig)

	out := make([]float64, n)
	for i, r := range rankOrder(randomized) {
		out[i] = sortedOrig[r]
	}
	return out
}

// phaseRandomize applies a random phase to every non-DC Fourier coefficient
// while preserving amplitudes, then inverts the transform.
func phaseRandomize(values []float64, rng *rand.Rand) []float64 {
	n := len(values)
	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, values)

	for k := 1; k < len(coeffs); k++ {
		amp := cmplxAbs(coeffs[k])
		if n%2 == 0 && k == len(coeffs)-1 {
			// Nyquist coefficient of an even-length real series must stay
			// real; a random sign flip is the only phase freedom left.
			if rng.Float64() < 0.5 {
				amp = -amp
			}
			coeffs[k] = complex(amp, 0)
			continue
		}
		phase := 2 * math.Pi * rng.Float64()
		coeffs[k] = complex(amp*math.Cos(phase), amp*math.Sin(phase))
	}

	out := fft.Sequence(nil, coeffs)
	scale := 1 / float64(n)
	for i := range out {
		out[i] *= scale
	}
	return out
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// rankOrder returns, for each position, the rank of its value within the
// slice (0 = smallest). Ties are broken by position, which keeps the map
// a permutation.
func rankOrder(values []float64) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] < values[idx[b]]
	})
	ranks := make([]int, len(values))
	for r, i := range idx {
		ranks[i] = r
	}
	return ranks
}
