// Package timeseries provides time series data structures and utilities.
//
// This package includes the Series type for representing time series data,
// along with functions for data loading, interpolation, and synthetic signal
// generation.
//
// # Creating a Series
//
// Create a time series from a slice:
//
//	values := []float64{100, 102, 105, 103, 108, 110}
//	series := timeseries.New(values)
//
// Or with explicit timestamps:
//
//	series, err := timeseries.NewWithTimestamps(timestamps, values)
//
// # Loading from CSV
//
// Load time series data from CSV files:
//
//	series, err := timeseries.LoadCSVColumn("data.csv", "density")
//
// Rows whose value field is empty or non-numeric are kept as NaN gaps so
// the time base stays intact; use DropNaN to remove them.
//
// # Basic Statistics
//
// Calculate summary statistics (all NaN-aware):
//
//	mean := series.Mean()
//	std := series.Std()
//	median := series.Median()
//
// # Gaps and Resampling
//
// Work with irregular or gappy data:
//
//	clean := series.DropNaN()
//	t := clean.Seconds(epoch)            // timestamps as float seconds
//	dt := clean.MedianSpacing()          // typical sample spacing
//	grid := timeseries.RegularGrid(t[0], t[len(t)-1], dt)
//	resampled := timeseries.Interpolate(t, clean.Values, grid)
//
// # Synthetic Signals
//
// Generate test signals for self-tests and demos:
//
//	a := timeseries.CosPulse(500, 100, 10, 0.5, 1)
//	b := timeseries.Shifted(a, 5, 0.5, 2) // a delayed by 5 samples
//	noise := timeseries.WhiteNoise(500, 1, 3)
package timeseries
