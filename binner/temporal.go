package binner

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/rebin/errs"
	"github.com/arloliu/rebin/internal/options"
)

// TemporalBinner derives bin boundaries for a sequence of event arrival
// times, either as fixed-width intervals or adaptively against a statistical
// significance threshold.
//
// The instance owns a copy of the arrival times for its lifetime. Arrival
// times must be sorted ascending; this is a documented contract, not an
// enforced check, and unsorted input yields undefined bin boundaries rather
// than an error.
//
// Each binning method overwrites the boundaries stored by the previous call.
// Methods mutate that shared result, so a TemporalBinner is not safe for
// concurrent use; callers binning concurrently need separate instances.
type TemporalBinner struct {
	arrivals []float64
	starts   []float64
	stops    []float64
}

// NewTemporalBinner creates a binner over a sorted sequence of event
// arrival times.
//
// Parameters:
//   - arrivalTimes: Event timestamps, sorted ascending, at least one
//
// Returns:
//   - *TemporalBinner: Binner owning a copy of the arrival times
//   - error: ErrNoArrivalTimes when the sequence is empty
func NewTemporalBinner(arrivalTimes []float64) (*TemporalBinner, error) {
	if len(arrivalTimes) == 0 {
		return nil, errs.ErrNoArrivalTimes
	}

	return &TemporalBinner{arrivals: slices.Clone(arrivalTimes)}, nil
}

// BinBySignificance bins arrival times adaptively: a window grows event by
// event until its significance against the expected background reaches the
// sigma level, then closes as one bin and the next window starts.
//
// For each arrival t the running count is incremented. Once the window holds
// at least the configured minimum counts, the expected background over
// [currentStart, t) is queried and the evaluator scores the window: with a
// WithBackgroundError estimator configured the evaluator receives the
// window's background error (Gaussian variant), otherwise the expected
// background count itself. A score at or above the sigma level closes the
// bin [currentStart, t) and resets the window at t.
//
// The scan never force-closes at the end of input: a trailing window that
// has not reached the sigma level is dropped, not emitted as a partial bin.
// Note the asymmetry with Rebinner, which always closes its trailing bin.
//
// A configured progress reporter is notified once per arrival regardless of
// whether significance was evaluated for it.
//
// Parameters:
//   - sig: Significance evaluator scoring (observed, background)
//   - bkg: Background estimator for the expected count over a window
//   - opts: WithBackgroundError, WithSigmaLevel, WithMinCounts, WithProgress
//
// Returns:
//   - error: ErrNilEvaluator, ErrNilEstimator, or option validation errors
//
// Example:
//
//	tb, _ := binner.NewTemporalBinner(arrivals)
//	gaussian := binner.SignificanceFunc(func(observed, bkg float64) float64 {
//		return (observed - bkg) / math.Sqrt(bkg)
//	})
//	err := tb.BinBySignificance(gaussian, background.NewConstant(0.2),
//		binner.WithSigmaLevel(5),
//		binner.WithMinCounts(10),
//	)
func (b *TemporalBinner) BinBySignificance(sig SignificanceEvaluator, bkg BackgroundEstimator, opts ...SignificanceOption) error {
	if sig == nil {
		return errs.ErrNilEvaluator
	}
	if bkg == nil {
		return errs.ErrNilEstimator
	}

	cfg := newSignificanceConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return err
	}

	starts := make([]float64, 0)
	stops := make([]float64, 0)

	currentStart := b.arrivals[0]
	totalCounts := 0

	cfg.reporter.Start(len(b.arrivals))
	for _, t := range b.arrivals {
		totalCounts++
		cfg.reporter.Increment()

		if totalCounts < cfg.minCounts {
			continue
		}

		// The expected background is queried for every evaluated window,
		// even when the error estimator supplies the evaluator's second
		// argument.
		background := bkg.Background(currentStart, t)

		var score float64
		if cfg.backgroundErr != nil {
			score = sig.Significance(float64(totalCounts), cfg.backgroundErr.Background(currentStart, t))
		} else {
			score = sig.Significance(float64(totalCounts), background)
		}

		if score >= cfg.sigmaLevel {
			starts = append(starts, currentStart)
			stops = append(stops, t)
			currentStart = t
			totalCounts = 0
		}
	}
	cfg.reporter.Finish()

	b.starts = starts
	b.stops = stops

	return nil
}

// BinByConstant bins arrival times into fixed-width intervals of dt covering
// [first, last): the bin count is ceil((last-first)/dt), starts[i] is
// first + i*dt, and stops[i] is starts[i] + dt. The final stop edge may
// exceed the last arrival time; no clamping is applied. Identical first and
// last arrivals produce zero bins.
//
// Parameters:
//   - dt: Bin width in the arrival times' time unit (must be positive)
//
// Returns:
//   - error: ErrInvalidTimeStep when dt is not a positive number
func (b *TemporalBinner) BinByConstant(dt float64) error {
	if dt <= 0 || math.IsNaN(dt) {
		return fmt.Errorf("%w: got %g", errs.ErrInvalidTimeStep, dt)
	}

	first := b.arrivals[0]
	last := b.arrivals[len(b.arrivals)-1]

	count := int(math.Ceil((last - first) / dt))
	starts := make([]float64, count)
	stops := make([]float64, count)
	for i := range starts {
		starts[i] = first + float64(i)*dt
		stops[i] = starts[i] + dt
	}

	b.starts = starts
	b.stops = stops

	return nil
}

// BinByBayesianBlocks would segment arrival times by optimal partitioning
// with false-positive probability p0. It is not implemented and always
// returns ErrNotImplemented.
func (b *TemporalBinner) BinByBayesianBlocks(p0 float64) error {
	return fmt.Errorf("%w: bayesian blocks binning with p0=%g", errs.ErrNotImplemented, p0)
}

// NBins returns the number of bins produced by the latest binning call, or
// zero before any call.
func (b *TemporalBinner) NBins() int {
	return len(b.starts)
}

// Bins returns copies of the bin boundary slices produced by the latest
// binning call: starts[i] inclusive, stops[i] exclusive, in the arrival
// times' time unit.
func (b *TemporalBinner) Bins() (starts, stops []float64) {
	return slices.Clone(b.starts), slices.Clone(b.stops)
}

// TextBins renders each bin as a "start-stop" string, in order.
func (b *TemporalBinner) TextBins() []string {
	texts := make([]string, len(b.starts))
	for i := range b.starts {
		texts[i] = fmt.Sprintf("%f-%f", b.starts[i], b.stops[i])
	}

	return texts
}
