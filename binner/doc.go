// Package binner provides adaptive rebinning of ordered numeric sequences
// and temporal binning of event arrival times.
//
// Two independent components share the package:
//
//   - Rebinner merges adjacent elements of a reference sequence into
//     variable-width bins until each bin accumulates at least a minimum
//     value, optionally skipping elements excluded by a boolean mask. The
//     bin boundaries computed once at construction are then applied to any
//     number of companion sequences: aggregated by sum (Rebin), combined in
//     quadrature for error sequences (RebinErrors), or used to remap
//     per-element boundary sequences onto the coarser grid (RebinEdges).
//
//   - TemporalBinner derives bin boundaries for a sorted sequence of event
//     arrival times, either as fixed-width intervals (BinByConstant) or
//     adaptively by growing a window until a statistical significance
//     threshold is reached (BinBySignificance). The significance formula and
//     the background model are injected through the SignificanceEvaluator
//     and BackgroundEstimator interfaces, keeping the scan decoupled from
//     any particular statistic.
//
// Quick start:
//
//	reference := []float64{1, 1, 1, 1, 1, 1}
//	r, err := binner.NewRebinner(reference, 2)
//	if err != nil {
//		log.Fatal(err)
//	}
//	binned, err := r.Rebin(counts, exposures)
//
// A Rebinner is immutable after construction and safe for concurrent
// aggregation calls. A TemporalBinner stores the result of its latest
// binning call and must not be used concurrently.
package binner
