package lagscan

import (
	"context"
	"math"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/solarwindlab/golagmi/timeseries"
)

const defaultMinOverlap = 10

// Estimator computes a dependence statistic between two aligned sequences.
type Estimator interface {
	Estimate(x, y []float64) float64
}

// Record is one point of the MI-versus-lag curve. Skipped records mark lags
// whose overlap was too short to estimate; their MI is NaN.
type Record struct {
	Lag         float64 // lag offset in seconds; positive means B trails A
	MI          float64 // mutual information in bits, NaN when skipped
	Threshold   float64 // surrogate noise floor, NaN when testing is disabled
	Skipped     bool    // true when the overlap at this lag was insufficient
	Significant bool    // true when MI >= Threshold (always false when skipped)
}

// Result is the full MI-versus-lag curve, one record per generated lag in
// strictly increasing lag order.
type Result struct {
	Records []Record
}

// Valid returns the non-skipped records.
func (r *Result) Valid() []Record {
	valid := make([]Record, 0, len(r.Records))
	for _, rec := range r.Records {
		if !rec.Skipped {
			valid = append(valid, rec)
		}
	}
	return valid
}

// MaxRecord returns the non-skipped record with the highest MI. Ties are
// broken toward the smallest-magnitude lag. The second return is false when
// every record was skipped.
func (r *Result) MaxRecord() (Record, bool) {
	best := Record{MI: math.Inf(-1)}
	found := false
	for _, rec := range r.Records {
		if rec.Skipped {
			continue
		}
		if rec.MI > best.MI || (rec.MI == best.MI && math.Abs(rec.Lag) < math.Abs(best.Lag)) {
			best = rec
			found = true
		}
	}
	return best, found
}

// Config controls a lag scan.
type Config struct {
	MinLag, MaxLag, Step float64 // lag range in seconds
	Resolution           float64 // grid spacing in seconds; 0 = infer from series A
	MinOverlap           int     // minimum aligned points per lag (default 10)
	Threshold            float64 // significance threshold, consulted when HasThreshold is set
	HasThreshold         bool    // attach Threshold to records and flag significance
	Parallelism          int     // max concurrent lag evaluations (default GOMAXPROCS)
	Logger               logrus.FieldLogger
}

// Scan evaluates mutual information between a and b at every lag of the
// configured range. A positive lag pairs a(t) with b(t+lag), so a peak at
// positive lag means B echoes A after that delay.
//
// Per-lag failures (insufficient overlap after shifting) produce skipped
// records; only an invalid lag range is a fatal error. The result always
// has exactly one record per generated lag.
func Scan(ctx context.Context, a, b *timeseries.Series, est Estimator, cfg Config) (*Result, error) {
	lags, err := Lags(cfg.MinLag, cfg.MaxLag, cfg.Step)
	if err != nil {
		return nil, err
	}

	parallelism := cfg.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	threshold := math.NaN()
	if cfg.HasThreshold {
		threshold = cfg.Threshold
	}

	al := newAligner(a, b, cfg.Resolution, cfg.MinOverlap)

	if cfg.Logger != nil {
		cfg.Logger.WithFields(logrus.Fields{
			"lags":       len(lags),
			"resolution": al.step,
		}).Info("starting lag scan")
	}
	start := time.Now()

	records := make([]Record, len(lags))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)

	for i, lag := range lags {
		i, lag := i, lag
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records[i] = evaluate(al, est, lag, threshold)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cfg.Logger != nil {
		skipped := 0
		for _, rec := range records {
			if rec.Skipped {
				skipped++
			}
		}
		cfg.Logger.WithFields(logrus.Fields{
			"skipped": skipped,
			"elapsed": time.Since(start),
		}).Info("lag scan complete")
	}

	return &Result{Records: records}, nil
}

// evaluate runs the per-lag pipeline: align, estimate, record.
func evaluate(al *aligner, est Estimator, lag, threshold float64) Record {
	pair, ok := al.at(lag)
	if !ok {
		return Record{Lag: lag, MI: math.NaN(), Threshold: threshold, Skipped: true}
	}

	mi := est.Estimate(pair.x, pair.y)
	return Record{
		Lag:         lag,
		MI:          mi,
		Threshold:   threshold,
		Significant: !math.IsNaN(threshold) && mi >= threshold,
	}
}

// AlignAt exposes the aligner for a single lag, returning the resampled
// sequences. It is used to build the zero-lag pair that seeds surrogate
// significance testing.
func AlignAt(a, b *timeseries.Series, lag, resolution float64, minOverlap int) (x, y []float64, ok bool) {
	al := newAligner(a, b, resolution, minOverlap)
	pair, ok := al.at(lag)
	if !ok {
		return nil, nil, false
	}
	return pair.x, pair.y, true
}
