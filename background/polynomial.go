// Package background provides the background models that significance-based
// temporal binning plugs into binner.BackgroundEstimator.
//
// Constant models a flat event rate; Polynomial models a slowly varying rate
// fitted to observed samples by least squares. Both report the expected
// background count over a window as the integral of the rate across it.
package background

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/arloliu/rebin/binner"
	"github.com/arloliu/rebin/errs"
)

// Polynomial is a background rate model rate(t) = c0 + c1*t + ... + cd*t^d
// fitted to observed (time, rate) samples.
//
// The model is immutable after fitting and safe for concurrent use.
type Polynomial struct {
	coeffs      []float64
	diagnostics FitDiagnostics
}

var _ binner.BackgroundEstimator = (*Polynomial)(nil)

// FitDiagnostics summarizes how well a fitted model reproduces its training
// samples.
type FitDiagnostics struct {
	// RSquared is the coefficient of determination: 1 means the model
	// explains the samples exactly, 0 means no better than their mean.
	RSquared float64
	// RMSE is the root mean squared error of the fitted rates against the
	// observed rates, in rate units.
	RMSE float64
}

// FitPolynomial fits a polynomial of the given degree to observed rate
// samples by least squares.
//
// The design matrix is the Vandermonde matrix of the sample times, solved
// through a QR factorization. The fit needs at least degree+1 samples;
// samples at duplicated times reduce the effective rank and can make the
// system singular.
//
// Parameters:
//   - times: Sample timestamps
//   - rates: Observed background rates, one per timestamp
//   - degree: Polynomial degree (0 fits a constant rate)
//
// Returns:
//   - *Polynomial: Fitted model
//   - error: ErrLengthMismatch, ErrInvalidPolynomialDegree, or ErrSingularFit
func FitPolynomial(times, rates []float64, degree int) (*Polynomial, error) {
	if len(times) != len(rates) {
		return nil, fmt.Errorf("%w: %d times, %d rates", errs.ErrLengthMismatch, len(times), len(rates))
	}
	if degree < 0 {
		return nil, fmt.Errorf("%w: degree %d", errs.ErrInvalidPolynomialDegree, degree)
	}

	n := len(times)
	cols := degree + 1
	if n < cols {
		return nil, fmt.Errorf("%w: degree %d needs at least %d samples, got %d",
			errs.ErrInvalidPolynomialDegree, degree, cols, n)
	}

	design := mat.NewDense(n, cols, nil)
	for i, t := range times {
		v := 1.0
		for j := range cols {
			design.Set(i, j, v)
			v *= t
		}
	}

	var qr mat.QR
	qr.Factorize(design)

	var solution mat.VecDense
	if err := qr.SolveVecTo(&solution, false, mat.NewVecDense(n, slices.Clone(rates))); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrSingularFit, err)
	}

	coeffs := make([]float64, cols)
	for k := range coeffs {
		coeffs[k] = solution.AtVec(k)
	}

	p := &Polynomial{coeffs: coeffs}
	p.diagnostics = diagnose(p, times, rates)

	return p, nil
}

// diagnose computes fit quality against the training samples.
func diagnose(p *Polynomial, times, rates []float64) FitDiagnostics {
	mean := floats.Sum(rates) / float64(len(rates))

	var ssRes, ssTot float64
	for i, t := range times {
		resid := rates[i] - p.Rate(t)
		ssRes += resid * resid
		dev := rates[i] - mean
		ssTot += dev * dev
	}

	rsq := 1.0
	if ssTot > 0 {
		rsq = 1 - ssRes/ssTot
	} else if ssRes > 0 {
		rsq = 0
	}

	return FitDiagnostics{
		RSquared: rsq,
		RMSE:     math.Sqrt(ssRes / float64(len(rates))),
	}
}

// Rate evaluates the background rate at time t (Horner form).
func (p *Polynomial) Rate(t float64) float64 {
	rate := 0.0
	for k := len(p.coeffs) - 1; k >= 0; k-- {
		rate = rate*t + p.coeffs[k]
	}

	return rate
}

// Integral returns the integral of the rate from a to b, evaluated through
// the antiderivative.
func (p *Polynomial) Integral(a, b float64) float64 {
	return p.antiderivative(b) - p.antiderivative(a)
}

// antiderivative evaluates F(t) with F' = Rate and F(0) = 0.
func (p *Polynomial) antiderivative(t float64) float64 {
	sum := 0.0
	for k := len(p.coeffs) - 1; k >= 0; k-- {
		sum = sum*t + p.coeffs[k]/float64(k+1)
	}

	return sum * t
}

// Background returns the expected background count over the window
// [start, stop), the rate integrated across the window.
func (p *Polynomial) Background(start, stop float64) float64 {
	return p.Integral(start, stop)
}

// Coefficients returns a copy of the fitted coefficients in ascending
// order: Coefficients()[k] multiplies t^k.
func (p *Polynomial) Coefficients() []float64 {
	return slices.Clone(p.coeffs)
}

// Degree returns the fitted polynomial degree.
func (p *Polynomial) Degree() int {
	return len(p.coeffs) - 1
}

// Diagnostics returns the fit quality computed against the training
// samples at fit time.
func (p *Polynomial) Diagnostics() FitDiagnostics {
	return p.diagnostics
}
