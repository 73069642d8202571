package binner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rebin/errs"
)

// countingReporter records progress notifications for assertions.
type countingReporter struct {
	started    int
	total      int
	increments int
	finished   int
}

func (r *countingReporter) Start(total int) { r.started++; r.total = total }
func (r *countingReporter) Increment()      { r.increments++ }
func (r *countingReporter) Finish()         { r.finished++ }

func TestNewTemporalBinner_Empty(t *testing.T) {
	_, err := NewTemporalBinner(nil)
	require.ErrorIs(t, err, errs.ErrNoArrivalTimes)

	_, err = NewTemporalBinner([]float64{})
	require.ErrorIs(t, err, errs.ErrNoArrivalTimes)
}

func TestTemporalBinner_BinByConstant(t *testing.T) {
	tb, err := NewTemporalBinner([]float64{0, 1, 5, 9})
	require.NoError(t, err)

	require.NoError(t, tb.BinByConstant(2))

	starts, stops := tb.Bins()
	require.Equal(t, []float64{0, 2, 4, 6, 8}, starts)
	require.Equal(t, []float64{2, 4, 6, 8, 10}, stops)
	require.Equal(t, 5, tb.NBins())
}

func TestTemporalBinner_BinByConstant_FractionalStep(t *testing.T) {
	tb, err := NewTemporalBinner([]float64{0, 0.4, 1})
	require.NoError(t, err)

	require.NoError(t, tb.BinByConstant(0.3))

	starts, stops := tb.Bins()
	require.Len(t, starts, int(math.Ceil(1/0.3)))
	for i := range starts {
		require.InDelta(t, float64(i)*0.3, starts[i], 1e-12)
		require.InDelta(t, starts[i]+0.3, stops[i], 1e-12)
	}

	// The final stop edge may exceed the last arrival; no clamping.
	require.Greater(t, stops[len(stops)-1], 1.0)
}

func TestTemporalBinner_BinByConstant_SingleArrival(t *testing.T) {
	tb, err := NewTemporalBinner([]float64{5})
	require.NoError(t, err)

	require.NoError(t, tb.BinByConstant(2))
	require.Zero(t, tb.NBins())
}

func TestTemporalBinner_BinByConstant_InvalidStep(t *testing.T) {
	tb, err := NewTemporalBinner([]float64{0, 1})
	require.NoError(t, err)

	require.ErrorIs(t, tb.BinByConstant(0), errs.ErrInvalidTimeStep)
	require.ErrorIs(t, tb.BinByConstant(-0.5), errs.ErrInvalidTimeStep)
	require.ErrorIs(t, tb.BinByConstant(math.NaN()), errs.ErrInvalidTimeStep)
}

func TestTemporalBinner_BinBySignificance_ClosesAtThreshold(t *testing.T) {
	arrivals := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	tb, err := NewTemporalBinner(arrivals)
	require.NoError(t, err)

	// Score equals the observed count, so every third event crosses the
	// threshold of 3.
	counting := SignificanceFunc(func(observed, _ float64) float64 { return observed })
	flat := BackgroundFunc(func(_, _ float64) float64 { return 0 })

	require.NoError(t, tb.BinBySignificance(counting, flat, WithSigmaLevel(3)))

	starts, stops := tb.Bins()
	require.Equal(t, []float64{0, 2, 5}, starts)
	require.Equal(t, []float64{2, 5, 8}, stops)
}

func TestTemporalBinner_BinBySignificance_TrailingRemainderDropped(t *testing.T) {
	// Rebinner always closes its trailing bin; the significance scan drops
	// an under-threshold remainder instead. The final arrival at t=9 starts
	// a window that never reaches the threshold and produces no bin.
	arrivals := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	tb, err := NewTemporalBinner(arrivals)
	require.NoError(t, err)

	counting := SignificanceFunc(func(observed, _ float64) float64 { return observed })
	flat := BackgroundFunc(func(_, _ float64) float64 { return 0 })

	require.NoError(t, tb.BinBySignificance(counting, flat, WithSigmaLevel(3)))

	_, stops := tb.Bins()
	require.Equal(t, 8.0, stops[len(stops)-1])

	// A threshold no window reaches yields no bins at all.
	require.NoError(t, tb.BinBySignificance(counting, flat, WithSigmaLevel(1000)))
	require.Zero(t, tb.NBins())
}

func TestTemporalBinner_BinBySignificance_MinCountsSuppression(t *testing.T) {
	arrivals := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	tb, err := NewTemporalBinner(arrivals)
	require.NoError(t, err)

	evaluations := 0
	always := SignificanceFunc(func(_, _ float64) float64 {
		evaluations++
		return math.Inf(1)
	})
	flat := BackgroundFunc(func(_, _ float64) float64 { return 1 })

	require.NoError(t, tb.BinBySignificance(always, flat, WithMinCounts(5)))

	// Significance is evaluated only when a window holds five events, so
	// each window closes on its fifth event.
	require.Equal(t, 2, evaluations)
	starts, stops := tb.Bins()
	require.Equal(t, []float64{0, 4}, starts)
	require.Equal(t, []float64{4, 9}, stops)
}

func TestTemporalBinner_BinBySignificance_EvaluatorArguments(t *testing.T) {
	arrivals := []float64{0, 1, 2}
	tb, err := NewTemporalBinner(arrivals)
	require.NoError(t, err)

	backgroundCalls := 0
	bkg := BackgroundFunc(func(_, _ float64) float64 {
		backgroundCalls++
		return 100
	})
	bkgErr := BackgroundFunc(func(_, _ float64) float64 { return 7 })

	var seen []float64
	recorder := SignificanceFunc(func(_, background float64) float64 {
		seen = append(seen, background)
		return 0
	})

	// Poisson variant: the evaluator receives the expected background.
	require.NoError(t, tb.BinBySignificance(recorder, bkg))
	require.Equal(t, []float64{100, 100, 100}, seen)
	require.Equal(t, 3, backgroundCalls)

	// Gaussian variant: the evaluator receives the background error, while
	// the background estimator is still queried per evaluation.
	seen = nil
	backgroundCalls = 0
	require.NoError(t, tb.BinBySignificance(recorder, bkg, WithBackgroundError(bkgErr)))
	require.Equal(t, []float64{7, 7, 7}, seen)
	require.Equal(t, 3, backgroundCalls)
}

func TestTemporalBinner_BinBySignificance_ProgressPerArrival(t *testing.T) {
	arrivals := []float64{0, 1, 2, 3, 4}
	tb, err := NewTemporalBinner(arrivals)
	require.NoError(t, err)

	never := SignificanceFunc(func(_, _ float64) float64 { return 0 })
	flat := BackgroundFunc(func(_, _ float64) float64 { return 1 })

	reporter := &countingReporter{}
	require.NoError(t, tb.BinBySignificance(never, flat,
		WithProgress(reporter),
		WithMinCounts(100), // larger than the input: nothing ever evaluated
	))

	// Every arrival is reported even when min-counts suppresses evaluation.
	require.Equal(t, 1, reporter.started)
	require.Equal(t, len(arrivals), reporter.total)
	require.Equal(t, len(arrivals), reporter.increments)
	require.Equal(t, 1, reporter.finished)
}

func TestTemporalBinner_BinBySignificance_NilCollaborators(t *testing.T) {
	tb, err := NewTemporalBinner([]float64{0, 1})
	require.NoError(t, err)

	flat := BackgroundFunc(func(_, _ float64) float64 { return 1 })
	never := SignificanceFunc(func(_, _ float64) float64 { return 0 })

	require.ErrorIs(t, tb.BinBySignificance(nil, flat), errs.ErrNilEvaluator)
	require.ErrorIs(t, tb.BinBySignificance(never, nil), errs.ErrNilEstimator)
}

func TestTemporalBinner_BinBySignificance_OptionValidation(t *testing.T) {
	tb, err := NewTemporalBinner([]float64{0, 1})
	require.NoError(t, err)

	flat := BackgroundFunc(func(_, _ float64) float64 { return 1 })
	never := SignificanceFunc(func(_, _ float64) float64 { return 0 })

	require.ErrorIs(t, tb.BinBySignificance(never, flat, WithSigmaLevel(0)), errs.ErrInvalidSigmaLevel)
	require.ErrorIs(t, tb.BinBySignificance(never, flat, WithMinCounts(0)), errs.ErrInvalidMinCounts)
	require.ErrorIs(t, tb.BinBySignificance(never, flat, WithBackgroundError(nil)), errs.ErrNilEstimator)
}

func TestTemporalBinner_BinByBayesianBlocks(t *testing.T) {
	tb, err := NewTemporalBinner([]float64{0, 1})
	require.NoError(t, err)

	require.ErrorIs(t, tb.BinByBayesianBlocks(0.05), errs.ErrNotImplemented)
}

func TestTemporalBinner_LatestCallWins(t *testing.T) {
	tb, err := NewTemporalBinner([]float64{0, 1, 5, 9})
	require.NoError(t, err)

	require.Zero(t, tb.NBins())
	starts, stops := tb.Bins()
	require.Empty(t, starts)
	require.Empty(t, stops)

	require.NoError(t, tb.BinByConstant(2))
	require.Equal(t, 5, tb.NBins())

	require.NoError(t, tb.BinByConstant(5))
	starts, stops = tb.Bins()
	require.Equal(t, []float64{0, 5}, starts)
	require.Equal(t, []float64{5, 10}, stops)
}

func TestTemporalBinner_TextBins(t *testing.T) {
	tb, err := NewTemporalBinner([]float64{0, 1, 5, 9})
	require.NoError(t, err)

	require.Empty(t, tb.TextBins())

	require.NoError(t, tb.BinByConstant(5))
	require.Equal(t, []string{"0.000000-5.000000", "5.000000-10.000000"}, tb.TextBins())
}
