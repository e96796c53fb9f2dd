package lagscan

import "fmt"

// ErrInvalidRange reports an unusable lag configuration. It is the only
// fatal error class in a scan; per-lag numeric failures degrade to skipped
// records instead.
type ErrInvalidRange struct {
	Min, Max, Step float64
}

func (e *ErrInvalidRange) Error() string {
	return fmt.Sprintf("invalid lag range [%g, %g] step %g: step must be positive and min <= max", e.Min, e.Max, e.Step)
}

// Lags generates the ordered lag offsets to evaluate: min, min+step, ...
// up to and including max when step divides the range evenly, otherwise
// ending at the largest value not exceeding max.
func Lags(min, max, step float64) ([]float64, error) {
	if step <= 0 || min > max {
		return nil, &ErrInvalidRange{Min: min, Max: max, Step: step}
	}
	n := int((max-min)/step + 1e-9)
	lags := make([]float64, n+1)
	for i := range lags {
		lags[i] = min + float64(i)*step
	}
	return lags, nil
}
