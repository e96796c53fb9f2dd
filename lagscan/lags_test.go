package lagscan

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLagsInclusiveEndpoints(t *testing.T) {
	lags, err := Lags(-3, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{-3, -2, -1, 0, 1, 2, 3}, lags)
}

func TestLagsUnevenStep(t *testing.T) {
	lags, err := Lags(0, 1, 0.4)
	require.NoError(t, err)
	require.Len(t, lags, 3)
	assert.InDelta(t, 0, lags[0], 1e-12)
	assert.InDelta(t, 0.4, lags[1], 1e-12)
	assert.InDelta(t, 0.8, lags[2], 1e-12)
}

func TestLagsFractionalStep(t *testing.T) {
	// 0.1 is not exactly representable; the endpoint must still be included.
	lags, err := Lags(0, 0.5, 0.1)
	require.NoError(t, err)
	require.Len(t, lags, 6)
	assert.InDelta(t, 0.5, lags[5], 1e-12)
}

func TestLagsSinglePoint(t *testing.T) {
	lags, err := Lags(5, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, lags)
}

func TestLagsInvalidRange(t *testing.T) {
	for _, tc := range []struct {
		name           string
		min, max, step float64
	}{
		{"zero step", -1, 1, 0},
		{"negative step", -1, 1, -0.5},
		{"min above max", 2, 1, 1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Lags(tc.min, tc.max, tc.step)
			require.Error(t, err)
			var rangeErr *ErrInvalidRange
			assert.True(t, errors.As(err, &rangeErr))
		})
	}
}

func TestLagsStrictlyIncreasing(t *testing.T) {
	lags, err := Lags(-60, 60, 1.5)
	require.NoError(t, err)
	for i := 1; i < len(lags); i++ {
		assert.Greater(t, lags[i], lags[i-1])
	}
	assert.True(t, math.Abs(lags[len(lags)-1]-60) < 1e-9)
}
