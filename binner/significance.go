package binner

import (
	"github.com/arloliu/rebin/errs"
	"github.com/arloliu/rebin/internal/options"
	"github.com/arloliu/rebin/progress"
)

// Default thresholds for BinBySignificance.
const (
	// DefaultSigmaLevel is the significance a window must reach before its
	// bin is closed.
	DefaultSigmaLevel = 10.0
	// DefaultMinCounts is the number of events a window must collect before
	// significance is evaluated at all.
	DefaultMinCounts = 1
)

// BackgroundEstimator supplies the expected background count accumulated
// over a time window. Implementations are queried once per evaluated
// arrival with the current window [start, stop).
//
// The background package provides constant-rate and fitted-polynomial
// implementations.
type BackgroundEstimator interface {
	Background(start, stop float64) float64
}

// BackgroundFunc adapts an ordinary function to the BackgroundEstimator
// interface.
type BackgroundFunc func(start, stop float64) float64

// Background calls f.
func (f BackgroundFunc) Background(start, stop float64) float64 {
	return f(start, stop)
}

// SignificanceEvaluator scores an observed event count against a background
// quantity. The statistical formula (Li & Ma, simple Gaussian, ...) is the
// caller's choice; the binner only compares the score to its sigma level.
//
// The second argument is the window's expected background count, or the
// window's background error when the scan runs with WithBackgroundError.
type SignificanceEvaluator interface {
	Significance(observed, background float64) float64
}

// SignificanceFunc adapts an ordinary function to the SignificanceEvaluator
// interface.
type SignificanceFunc func(observed, background float64) float64

// Significance calls f.
func (f SignificanceFunc) Significance(observed, background float64) float64 {
	return f(observed, background)
}

// SignificanceOption represents a functional option for configuring a
// BinBySignificance scan.
type SignificanceOption = options.Option[*significanceConfig]

type significanceConfig struct {
	backgroundErr BackgroundEstimator
	reporter      progress.Reporter
	sigmaLevel    float64
	minCounts     int
}

func newSignificanceConfig() *significanceConfig {
	return &significanceConfig{
		sigmaLevel: DefaultSigmaLevel,
		minCounts:  DefaultMinCounts,
		reporter:   progress.Nop(),
	}
}

// WithBackgroundError switches the scan to the Gaussian-background variant:
// the evaluator's second argument becomes the window's background error from
// est instead of the expected background count. The background estimator
// passed to BinBySignificance is still queried for every evaluated window.
func WithBackgroundError(est BackgroundEstimator) SignificanceOption {
	return options.New(func(c *significanceConfig) error {
		if est == nil {
			return errs.ErrNilEstimator
		}
		c.backgroundErr = est

		return nil
	})
}

// WithSigmaLevel sets the significance threshold that closes a bin.
// The default is DefaultSigmaLevel.
func WithSigmaLevel(level float64) SignificanceOption {
	return options.New(func(c *significanceConfig) error {
		if level <= 0 {
			return errs.ErrInvalidSigmaLevel
		}
		c.sigmaLevel = level

		return nil
	})
}

// WithMinCounts sets how many events a window must collect before the scan
// starts evaluating significance. The default is DefaultMinCounts.
func WithMinCounts(n int) SignificanceOption {
	return options.New(func(c *significanceConfig) error {
		if n < 1 {
			return errs.ErrInvalidMinCounts
		}
		c.minCounts = n

		return nil
	})
}

// WithProgress attaches a progress reporter that is notified once per
// processed arrival time. A nil reporter keeps the default no-op.
func WithProgress(r progress.Reporter) SignificanceOption {
	return options.NoError(func(c *significanceConfig) {
		if r != nil {
			c.reporter = r
		}
	})
}
