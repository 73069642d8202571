package background

import "github.com/arloliu/rebin/binner"

// Constant is a background model with a fixed event rate per time unit.
type Constant struct {
	rate float64
}

var _ binner.BackgroundEstimator = Constant{}

// NewConstant creates a constant-rate background model.
func NewConstant(ratePerUnit float64) Constant {
	return Constant{rate: ratePerUnit}
}

// Rate returns the fixed rate, independent of time.
func (c Constant) Rate() float64 {
	return c.rate
}

// Background returns the expected background count over the window
// [start, stop): rate times the window width.
func (c Constant) Background(start, stop float64) float64 {
	return c.rate * (stop - start)
}
