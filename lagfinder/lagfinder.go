package lagfinder

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/solarwindlab/golagmi/curvefit"
	"github.com/solarwindlab/golagmi/lagscan"
	"github.com/solarwindlab/golagmi/mutualinfo"
	"github.com/solarwindlab/golagmi/surrogate"
	"github.com/solarwindlab/golagmi/timeseries"
)

// Config holds all options for a lag-finding run. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// Lag range in seconds. A positive lag pairs A(t) with B(t+lag).
	MinLag float64
	MaxLag float64
	Step   float64

	// Resolution is the resampling grid spacing in seconds; 0 infers the
	// median sample spacing of series A.
	Resolution float64

	// MinOverlap is the minimum number of aligned points required to
	// estimate MI at a lag; shorter overlaps become skipped records.
	MinOverlap int

	// Bins is the MI histogram bin count; 0 selects Freedman-Diaconis.
	Bins int

	// Surrogates enables significance testing: the number of AAFT
	// surrogate draws used to build the noise floor. 0 disables testing.
	Surrogates int

	// SignificancePercentile is the surrogate distribution percentile used
	// as the threshold (default 95).
	SignificancePercentile float64

	// Generate overrides the surrogate scheme; nil uses AAFT.
	Generate surrogate.Generator

	// Seed fixes all random draws; identical inputs and seed give
	// bit-identical results.
	Seed int64

	// Parallelism bounds concurrent lag and surrogate evaluations
	// (default GOMAXPROCS).
	Parallelism int

	// Curve fitting options.
	Models       []curvefit.Model
	PeakWindow   int
	Breakpoints  int
	IntervalProb float64

	// Logger receives progress information; nil is silent.
	Logger logrus.FieldLogger
}

// DefaultConfig returns a configuration with sensible defaults: lags from
// -60 to +60 seconds in 1 s steps, Freedman-Diaconis binning, and no
// surrogate testing.
func DefaultConfig() Config {
	return Config{
		MinLag:                 -60,
		MaxLag:                 60,
		Step:                   1,
		MinOverlap:             10,
		SignificancePercentile: 95,
		PeakWindow:             5,
		Breakpoints:            1,
		IntervalProb:           0.80,
	}
}

// Find scans mutual information between a and b across the configured lag
// range and fits the MI-versus-lag curve to estimate the coupling lag.
//
// Only configuration errors (an invalid lag range, failed surrogate setup)
// are returned; per-lag numeric pathologies degrade to skipped records and
// degenerate fits fall back to the raw maximum. Each call is stateless and
// reproducible for a fixed Config.Seed.
func Find(ctx context.Context, a, b *timeseries.Series, cfg Config) (*lagscan.Result, *curvefit.Result, error) {
	est := mutualinfo.New(cfg.Bins)

	scanCfg := lagscan.Config{
		MinLag:      cfg.MinLag,
		MaxLag:      cfg.MaxLag,
		Step:        cfg.Step,
		Resolution:  cfg.Resolution,
		MinOverlap:  cfg.MinOverlap,
		Parallelism: cfg.Parallelism,
		Logger:      cfg.Logger,
	}
	if cfg.Surrogates > 0 {
		t, err := noiseFloor(ctx, a, b, est, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("surrogate significance testing: %w", err)
		}
		scanCfg.Threshold = t
		scanCfg.HasThreshold = true
	}
	scan, err := lagscan.Scan(ctx, a, b, est, scanCfg)
	if err != nil {
		return nil, nil, err
	}

	fit := curvefit.Fit(scan, curvefit.Options{
		Models:       cfg.Models,
		PeakWindow:   cfg.PeakWindow,
		Breakpoints:  cfg.Breakpoints,
		IntervalProb: cfg.IntervalProb,
	})

	if cfg.Logger != nil {
		entry := cfg.Logger.WithFields(logrus.Fields{
			"peak_lag":    fit.PeakLag,
			"uncertainty": fit.Uncertainty,
			"model":       fit.Model,
		})
		if fit.Fallback {
			entry.WithField("reason", fit.Reason).Warn("curve fit fell back to raw maximum")
		} else {
			entry.Info("peak lag estimated")
		}
	}

	return scan, fit, nil
}

// noiseFloor derives the surrogate significance threshold from the pair
// aligned at zero lag (or the in-range lag nearest zero).
func noiseFloor(ctx context.Context, a, b *timeseries.Series, est *mutualinfo.Estimator, cfg Config) (float64, error) {
	refLag := 0.0
	if cfg.MinLag > 0 {
		refLag = cfg.MinLag
	} else if cfg.MaxLag < 0 {
		refLag = cfg.MaxLag
	}

	x, y, ok := lagscan.AlignAt(a, b, refLag, cfg.Resolution, cfg.MinOverlap)
	if !ok {
		return 0, fmt.Errorf("insufficient overlap at reference lag %g", refLag)
	}

	res, err := surrogate.Threshold(ctx, x, y, est, surrogate.ThresholdConfig{
		N:           cfg.Surrogates,
		Percentile:  cfg.SignificancePercentile,
		Seed:        cfg.Seed,
		Parallelism: cfg.Parallelism,
		Generate:    cfg.Generate,
	})
	if err != nil {
		return 0, err
	}

	if cfg.Logger != nil {
		cfg.Logger.WithFields(logrus.Fields{
			"surrogates": cfg.Surrogates,
			"threshold":  res.Threshold,
			"mean":       res.Mean,
		}).Info("surrogate noise floor computed")
	}
	return res.Threshold, nil
}
