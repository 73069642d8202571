package binner

import (
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/arloliu/rebin/errs"
	"github.com/arloliu/rebin/internal/options"
)

// sumTolerance is the relative tolerance of the sum-preservation guard in
// Rebin. A larger discrepancy indicates a defect in bin boundary
// construction, never bad input.
const sumTolerance = 1e-4

// Rebinner merges adjacent elements of a reference sequence into
// variable-width bins, each accumulating at least a minimum value, and
// applies the resulting boundaries to companion sequences.
//
// Bins are half-open index intervals [start, stop) over the reference
// sequence's index space. They are computed once at construction and are
// immutable afterwards, so a single Rebinner may serve concurrent Rebin,
// RebinErrors and RebinEdges calls. An instance is single-use for one
// (reference, mask, minimum) triple; build a new one for different inputs.
type Rebinner struct {
	mask   []bool
	starts []int
	stops  []int
	length int
}

// RebinnerOption represents a functional option for configuring a Rebinner.
type RebinnerOption = options.Option[*rebinnerConfig]

type rebinnerConfig struct {
	mask []bool
}

// WithMask restricts binning to the elements marked true. Masked-out
// elements never join a bin: a mask gap inside an open bin forces the bin
// closed, even when it has not reached the per-bin minimum.
//
// The mask must have the same length as the reference sequence.
func WithMask(mask []bool) RebinnerOption {
	return options.NoError(func(c *rebinnerConfig) {
		c.mask = mask
	})
}

// NewRebinner computes bin boundaries over a reference sequence.
//
// The reference sequence is used only to determine the boundaries; the data
// to aggregate is supplied later through Rebin or RebinErrors. Binning is
// refused outright when the total of the full reference sequence is below
// minPerBin, since no bin assignment could ever reach the minimum.
//
// Bin construction is a single left-to-right pass: a bin opens at the first
// eligible element, accumulates reference values until it reaches minPerBin,
// and closes just after the element that reached it. A mask gap closes an
// open bin early, under the minimum if need be. When the input ends with an
// open bin, that trailing bin is closed at the sequence end regardless of
// the minimum.
//
// Parameters:
//   - reference: Ordered numeric sequence whose running totals define the bins
//   - minPerBin: Minimum accumulated reference value per bin (must be positive)
//   - opts: Optional configuration (WithMask)
//
// Returns:
//   - *Rebinner: Immutable rebinner holding the computed boundaries
//   - error: ErrInvalidMinValue, ErrLengthMismatch, or ErrNotEnoughData
//
// Example:
//
//	r, err := binner.NewRebinner([]float64{1, 1, 1, 1, 1, 1}, 2)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(r.NBins()) // 3: bins [0,2) [2,4) [4,6)
func NewRebinner(reference []float64, minPerBin float64, opts ...RebinnerOption) (*Rebinner, error) {
	if minPerBin <= 0 {
		return nil, fmt.Errorf("%w: got %g", errs.ErrInvalidMinValue, minPerBin)
	}

	cfg := &rebinnerConfig{}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	n := len(reference)
	var mask []bool
	if cfg.mask == nil {
		mask = make([]bool, n)
		for i := range mask {
			mask[i] = true
		}
	} else {
		if len(cfg.mask) != n {
			return nil, fmt.Errorf("%w: mask length %d, reference length %d",
				errs.ErrLengthMismatch, len(cfg.mask), n)
		}
		mask = slices.Clone(cfg.mask)
	}

	// Feasibility is judged on the full reference total, masked elements
	// included.
	if total := floats.Sum(reference); total < minPerBin {
		return nil, fmt.Errorf("%w: reference total %g, per-bin minimum %g",
			errs.ErrNotEnoughData, total, minPerBin)
	}

	b := binBuilder{minPerBin: minPerBin}
	for i, v := range reference {
		b.observe(i, v, mask[i])
	}
	b.finish(n)

	if len(b.starts) != len(b.stops) {
		panic("binner: unbalanced bin boundaries")
	}

	return &Rebinner{
		mask:   mask,
		starts: b.starts,
		stops:  b.stops,
		length: n,
	}, nil
}

// binState is the state of the bin construction machine.
type binState uint8

const (
	// stateClosed means no bin is accumulating.
	stateClosed binState = iota
	// stateOpen means the most recently appended start has no matching stop
	// yet and is still accumulating.
	stateOpen
)

// binBuilder folds the reference sequence into bin boundaries, one element
// at a time.
type binBuilder struct {
	starts      []int
	stops       []int
	accumulated float64
	minPerBin   float64
	state       binState
}

// observe feeds one element into the machine. Transition rules:
//
//	closed + masked-out → closed (gaps outside a bin are inert)
//	open   + masked-out → closed at stop=i (forced closure, minimum or not)
//	closed + masked-in  → open at start=i, then accumulate
//	open   + masked-in  → accumulate; reaching the minimum closes at stop=i+1
func (b *binBuilder) observe(i int, value float64, masked bool) {
	if !masked {
		if b.state == stateOpen {
			b.close(i)
		}

		return
	}

	if b.state == stateClosed {
		b.open(i)
	}

	b.accumulated += value
	if b.accumulated >= b.minPerBin {
		b.close(i + 1)
	}
}

// finish closes a still-open trailing bin at the sequence end, regardless of
// whether it reached the minimum.
func (b *binBuilder) finish(n int) {
	if b.state == stateOpen {
		b.close(n)
	}
}

func (b *binBuilder) open(i int) {
	b.starts = append(b.starts, i)
	b.accumulated = 0
	b.state = stateOpen
}

func (b *binBuilder) close(stop int) {
	b.stops = append(b.stops, stop)
	b.accumulated = 0
	b.state = stateClosed
}

// NBins returns the number of bins.
func (r *Rebinner) NBins() int {
	return len(r.starts)
}

// Bins returns copies of the bin boundary slices: starts[i] inclusive,
// stops[i] exclusive, both indices into the reference sequence.
func (r *Rebinner) Bins() (starts, stops []int) {
	return slices.Clone(r.starts), slices.Clone(r.stops)
}

// Rebin aggregates companion sequences onto the computed bins by summation.
//
// Each companion sequence must have the reference length. For every bin the
// aggregate is the sum of the slice [start, stop). After aggregating a
// sequence, the total of its bin aggregates is checked against the total of
// its mask-included elements within a 1e-4 relative tolerance; a violation
// reports ErrSumNotPreserved and indicates a defect in boundary
// construction, so it aborts loudly instead of being corrected.
//
// Parameters:
//   - vectors: Companion sequences to aggregate, each of the reference length
//
// Returns:
//   - [][]float64: One aggregated sequence per input, in input order, each of length NBins
//   - error: ErrLengthMismatch or ErrSumNotPreserved
func (r *Rebinner) Rebin(vectors ...[]float64) ([][]float64, error) {
	results := make([][]float64, len(vectors))
	for vi, vec := range vectors {
		if len(vec) != r.length {
			return nil, fmt.Errorf("%w: vector %d has length %d, want %d",
				errs.ErrLengthMismatch, vi, len(vec), r.length)
		}

		binned := make([]float64, len(r.starts))
		for bi := range r.starts {
			binned[bi] = floats.Sum(vec[r.starts[bi]:r.stops[bi]])
		}

		if err := r.checkSumPreserved(vec, binned); err != nil {
			return nil, fmt.Errorf("vector %d: %w", vi, err)
		}

		results[vi] = binned
	}

	return results, nil
}

// RebinErrors aggregates error sequences onto the computed bins by
// quadrature: each bin's aggregate is sqrt(sum of squares) over the slice
// [start, stop), the propagation rule for independent Gaussian errors being
// summed. Quadrature does not preserve totals, so no sum check applies.
//
// Parameters:
//   - vectors: Error sequences to combine, each of the reference length
//
// Returns:
//   - [][]float64: One combined sequence per input, in input order, each of length NBins
//   - error: ErrLengthMismatch
func (r *Rebinner) RebinErrors(vectors ...[]float64) ([][]float64, error) {
	results := make([][]float64, len(vectors))
	for vi, vec := range vectors {
		if len(vec) != r.length {
			return nil, fmt.Errorf("%w: vector %d has length %d, want %d",
				errs.ErrLengthMismatch, vi, len(vec), r.length)
		}

		binned := make([]float64, len(r.starts))
		for bi := range r.starts {
			binned[bi] = floats.Norm(vec[r.starts[bi]:r.stops[bi]], 2)
		}

		results[vi] = binned
	}

	return results, nil
}

// RebinEdges remaps per-element boundary sequences onto the bin grid. For
// each bin the new start edge is the start edge of its first element and the
// new stop edge is the stop edge of its last included element:
//
//	newStarts[i] = oldStarts[starts[i]]
//	newStops[i]  = oldStops[stops[i]-1]
//
// Parameters:
//   - oldStarts: Per-element start edges, of the reference length
//   - oldStops: Per-element stop edges, of the reference length
//
// Returns:
//   - newStarts, newStops: Bin edge sequences of length NBins
//   - error: ErrLengthMismatch
func (r *Rebinner) RebinEdges(oldStarts, oldStops []float64) (newStarts, newStops []float64, err error) {
	if len(oldStarts) != r.length {
		return nil, nil, fmt.Errorf("%w: start edges length %d, want %d",
			errs.ErrLengthMismatch, len(oldStarts), r.length)
	}
	if len(oldStops) != r.length {
		return nil, nil, fmt.Errorf("%w: stop edges length %d, want %d",
			errs.ErrLengthMismatch, len(oldStops), r.length)
	}

	newStarts = make([]float64, len(r.starts))
	newStops = make([]float64, len(r.stops))
	for i := range r.starts {
		newStarts[i] = oldStarts[r.starts[i]]
		newStops[i] = oldStops[r.stops[i]-1]
	}

	return newStarts, newStops, nil
}

// checkSumPreserved verifies that binning neither created nor destroyed
// counts: the bin aggregates must total the mask-included elements within
// the relative tolerance.
func (r *Rebinner) checkSumPreserved(vec, binned []float64) error {
	var masked float64
	for i, v := range vec {
		if r.mask[i] {
			masked += v
		}
	}

	total := floats.Sum(binned)
	if !scalar.EqualWithinRel(total, masked, sumTolerance) {
		return fmt.Errorf("%w: binned total %g, masked total %g",
			errs.ErrSumNotPreserved, total, masked)
	}

	return nil
}
