package timeseries

import (
	"errors"
	"math"
	"sort"
	"time"
)

// Series represents a time series with timestamps and values.
// Values may contain NaN to mark gaps; timestamps are assumed sorted.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string
}

// New creates a new time series from values on a one-second grid anchored
// at the Unix epoch, so separately constructed series share a time base.
func New(values []float64) *Series {
	timestamps := make([]time.Time, len(values))
	base := time.Unix(0, 0).UTC()
	for i := range timestamps {
		timestamps[i] = base.Add(time.Duration(i) * time.Second)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a time series with explicit timestamps.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// Mean calculates the arithmetic mean of the series, ignoring NaN values.
func (s *Series) Mean() float64 {
	sum := 0.0
	count := 0
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// Variance calculates the sample variance of the series, ignoring NaN values.
func (s *Series) Variance() float64 {
	mean := s.Mean()
	sumSq := 0.0
	count := 0
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		diff := v - mean
		sumSq += diff * diff
		count++
	}
	if count < 2 {
		return 0
	}
	return sumSq / float64(count-1)
}

// Std calculates the standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum non-NaN value in the series.
func (s *Series) Min() float64 {
	min := math.NaN()
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min {
			min = v
		}
	}
	return min
}

// Max returns the maximum non-NaN value in the series.
func (s *Series) Max() float64 {
	max := math.NaN()
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(max) || v > max {
			max = v
		}
	}
	return max
}

// Median returns the median non-NaN value of the series.
func (s *Series) Median() float64 {
	sorted := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// HasNaN reports whether the series contains any NaN values.
func (s *Series) HasNaN() bool {
	for _, v := range s.Values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// DropNaN returns a copy of the series with NaN values removed.
func (s *Series) DropNaN() *Series {
	values := make([]float64, 0, len(s.Values))
	timestamps := make([]time.Time, 0, len(s.Timestamps))
	for i, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		values = append(values, v)
		if i < len(s.Timestamps) {
			timestamps = append(timestamps, s.Timestamps[i])
		}
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Seconds maps the series timestamps onto a float64 axis of seconds
// relative to the given epoch.
func (s *Series) Seconds(epoch time.Time) []float64 {
	t := make([]float64, len(s.Timestamps))
	for i, ts := range s.Timestamps {
		t[i] = ts.Sub(epoch).Seconds()
	}
	return t
}

// MedianSpacing returns the median spacing between consecutive timestamps
// in seconds, or NaN for series with fewer than two points.
func (s *Series) MedianSpacing() float64 {
	if len(s.Timestamps) < 2 {
		return math.NaN()
	}
	gaps := make([]float64, len(s.Timestamps)-1)
	for i := 1; i < len(s.Timestamps); i++ {
		gaps[i-1] = s.Timestamps[i].Sub(s.Timestamps[i-1]).Seconds()
	}
	sort.Float64s(gaps)
	n := len(gaps)
	if n%2 == 0 {
		return (gaps[n/2-1] + gaps[n/2]) / 2
	}
	return gaps[n/2]
}

// Slice returns a slice of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	timestamps := make([]time.Time, len(values))
	if len(s.Timestamps) >= end {
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
	}
}

// Normalize standardizes the series (z-score normalization).
func (s *Series) Normalize() *Series {
	mean := s.Mean()
	std := s.Std()

	if std == 0 {
		return s.Copy()
	}

	result := make([]float64, len(s.Values))
	for i, v := range s.Values {
		result[i] = (v - mean) / std
	}

	timestamps := make([]time.Time, len(s.Timestamps))
	copy(timestamps, s.Timestamps)

	return &Series{
		Timestamps: timestamps,
		Values:     result,
		Name:       s.Name + "_normalized",
	}
}
