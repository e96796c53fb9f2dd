package timeseries

import (
	"math"
	"math/rand"
	"time"
)

// CosPulse generates a flat signal of the given amplitude with a single
// cosine depression of pulseLen samples in the middle, plus Gaussian noise.
// This mirrors the classic test signal for lag analysis: a localized event
// embedded in an otherwise quiet baseline.
func CosPulse(n, pulseLen int, amplitude, noiseSigma float64, seed int64) *Series {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	start := (n - pulseLen) / 2
	for i := range values {
		v := amplitude
		if pulseLen > 1 && i >= start && i < start+pulseLen {
			phase := 2 * math.Pi * float64(i-start) / float64(pulseLen-1)
			v = amplitude * math.Cos(phase)
		}
		values[i] = v + rng.NormFloat64()*noiseSigma
	}
	return New(values)
}

// SineWave generates a sine wave with the given period in samples, plus
// Gaussian noise.
func SineWave(n int, period, amplitude, noiseSigma float64, seed int64) *Series {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	for i := range values {
		values[i] = amplitude*math.Sin(2*math.Pi*float64(i)/period) + rng.NormFloat64()*noiseSigma
	}
	return New(values)
}

// WhiteNoise generates Gaussian white noise with the given standard deviation.
func WhiteNoise(n int, sigma float64, seed int64) *Series {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	for i := range values {
		values[i] = rng.NormFloat64() * sigma
	}
	return New(values)
}

// Shifted returns a copy of the series with values delayed by the given
// number of samples and Gaussian noise added. The first shift values repeat
// the initial sample so the length is preserved. A positive shift means the
// returned series echoes the input shift samples later.
func Shifted(s *Series, shift int, noiseSigma float64, seed int64) *Series {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, s.Len())
	for i := range values {
		j := i - shift
		if j < 0 {
			j = 0
		}
		if j >= s.Len() {
			j = s.Len() - 1
		}
		values[i] = s.Values[j] + rng.NormFloat64()*noiseSigma
	}

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name + "_shifted",
	}
}
