// Package rebin provides adaptive rebinning of binned data, significance-driven
// binning of event arrival times, and a compact binary blob format for storing
// the resulting binned series.
//
// Rebin is built for instrument light curves and spectra: sequences of
// contiguous or gap-separated bins where downstream analysis needs every bin to
// clear a statistical threshold (minimum counts, minimum detection
// significance) and where many binned series must be stored compactly together.
//
// # Core Features
//
//   - Count-driven rebinning that merges input bins until each output bin
//     reaches a minimum total, preserving sums exactly
//   - Significance-driven temporal binning of event arrival times against a
//     background model
//   - Hash-based series identification (64-bit xxHash64) for O(1) lookups
//   - Columnar blob storage with separate edge and value payloads
//   - Per-payload encoding (Raw, Delta) and compression (None, Zstd, S2, LZ4)
//   - Optional per-bin propagated errors
//
// # Basic Usage
//
// Rebinning an existing binned series so every output bin holds at least a
// minimum number of reference counts:
//
//	import "github.com/arloliu/rebin"
//
//	// counts drives the grouping, rates is carried along
//	rb, _ := rebin.NewRebinner(counts, 30.0)
//	rebinned, _ := rb.Rebin(rates)
//	newStarts, newStops, _ := rb.RebinEdges(starts, stops)
//
// Binning event arrival times until each bin reaches a target significance:
//
//	tb, _ := rebin.NewTemporalBinner(arrivalTimes)
//	tb.BinBySignificance(sig, bkg, binner.WithSigmaLevel(5.0))
//	starts, stops := tb.Bins()
//
// Encoding binned series into a blob:
//
//	encoder, _ := rebin.NewEncoder(epoch)
//	encoder.StartSeriesName("det.n3", len(values))
//	encoder.AddBins(starts, stops, values, nil)
//	encoder.EndSeries()
//	data, _ := encoder.Finish()
//
// Decoding:
//
//	decoder, _ := rebin.NewDecoder(data)
//	b, _ := decoder.Decode()
//	for bin := range b.AllByName("det.n3") {
//	    fmt.Printf("[%.6f, %.6f) %g\n", bin.Start, bin.Stop, bin.Value)
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the binner and
// blob packages, simplifying the most common use cases. For advanced usage and
// fine-grained control, use those packages directly:
//
//   - binner: Rebinner, TemporalBinner, and their options
//   - background: background rate estimators for significance binning
//   - blob: the binary format encoder and decoder
package rebin

import (
	"time"

	"github.com/arloliu/rebin/binner"
	"github.com/arloliu/rebin/blob"
	"github.com/arloliu/rebin/internal/hash"
)

// NewRebinner creates a rebinner that groups the bins of a reference sequence
// so every output bin reaches the given minimum total.
//
// The reference sequence drives the grouping; any number of parallel sequences
// with the same length can then be rebinned with the derived bin groups.
// Grouping scans left to right and merges consecutive bins until their sum
// reaches minPerBin, so sums over the full sequence are preserved exactly.
//
// Parameters:
//   - reference: The sequence whose values drive the grouping (typically counts)
//   - minPerBin: The minimum total each output bin must reach
//   - opts: Optional configuration functions (see binner.RebinnerOption)
//
// Returns:
//   - *binner.Rebinner: The created rebinner with bin groups already derived.
//   - error: An error if the reference sequence cannot reach the minimum.
//
// Available options:
//   - binner.WithMask(mask) to exclude input bins from grouping
//
// Example:
//
//	rb, err := rebin.NewRebinner(counts, 25.0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	rebinned, _ := rb.Rebin(rates, exposure)
func NewRebinner(reference []float64, minPerBin float64, opts ...binner.RebinnerOption) (*binner.Rebinner, error) {
	return binner.NewRebinner(reference, minPerBin, opts...)
}

// NewTemporalBinner creates a binner over a sorted sequence of event arrival
// times.
//
// The binner derives bin edges from the arrival times with one of several
// strategies: constant width bins, Bayesian blocks, or significance-driven
// binning where each bin accumulates events until it clears a detection
// threshold against a background model.
//
// Parameters:
//   - arrivalTimes: Event arrival times in ascending order
//
// Returns:
//   - *binner.TemporalBinner: The created temporal binner.
//   - error: An error if the arrival times are empty or unsorted.
//
// Example:
//
//	tb, err := rebin.NewTemporalBinner(times)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	bkg := background.NewConstant(0.5)
//	err = tb.BinBySignificance(sig, bkg, binner.WithSigmaLevel(3.0))
//	starts, stops := tb.Bins()
func NewTemporalBinner(arrivalTimes []float64) (*binner.TemporalBinner, error) {
	return binner.NewTemporalBinner(arrivalTimes)
}

// NewEncoder creates a new binned-series blob encoder.
//
// Bin edges are passed as seconds relative to the epoch and stored internally
// as microseconds, so the epoch should sit near the data to keep edge deltas
// small. The default configuration uses little-endian byte order, delta
// encoded edges, raw values and no compression; options override any of these.
//
// Parameters:
//   - epoch: The reference time all bin edges are measured from
//   - opts: Optional configuration functions (see blob.EncoderOption)
//
// Returns:
//   - *blob.Encoder: The created encoder.
//   - error: An error if the configuration is invalid.
//
// Available options:
//   - blob.WithLittleEndian() / blob.WithBigEndian()
//   - blob.WithEdgeEncoding(format.TypeRaw|TypeDelta)
//   - blob.WithEdgeCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - blob.WithValueCompression(format.CompressionNone|Zstd|S2|LZ4)
//   - blob.WithBinErrors()
//
// Example:
//
//	encoder, err := rebin.NewEncoder(epoch,
//	    blob.WithValueCompression(format.CompressionZstd),
//	    blob.WithBinErrors(),
//	)
func NewEncoder(epoch time.Time, opts ...blob.EncoderOption) (*blob.Encoder, error) {
	return blob.NewEncoder(epoch, opts...)
}

// NewDecoder creates a decoder for reading binned-series blobs.
//
// The decoder validates the header and detects the blob's encoding
// configuration automatically; Decode then yields a BinnedBlob for iterating
// series.
//
// Parameters:
//   - data: The raw blob bytes (from encoder.Finish() or storage)
//
// Returns:
//   - *blob.Decoder: The created decoder.
//   - error: An error if the data is not a valid blob header.
//
// Example:
//
//	decoder, err := rebin.NewDecoder(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b, err := decoder.Decode()
//	for bin := range b.All(rebin.SeriesID("det.n3")) {
//	    fmt.Printf("[%.6f, %.6f) %g\n", bin.Start, bin.Stop, bin.Value)
//	}
func NewDecoder(data []byte) (*blob.Decoder, error) {
	return blob.NewDecoder(data)
}

// SeriesID converts a series name string to its 64-bit hash identifier.
//
// Rebin uses xxHash64 to convert series names to fixed-size IDs for:
//   - Fast O(1) hash map lookups
//   - Fixed-size index entries (16 bytes each)
//   - Consistent series identification across blobs
//
// The hash is deterministic, so the same name always maps to the same ID and
// IDs can be precomputed for frequently queried series. Names are not stored
// in the blob; the encoder rejects two different names that hash to the same
// ID, so a name that encodes successfully can always be queried back.
//
// Example:
//
//	n3 := rebin.SeriesID("det.n3")
//	b1 := rebin.SeriesID("det.b1")
//
//	encoder.StartSeriesID(n3, 100)
//	// ... add bins ...
//
//	// Query with the same ID
//	for bin := range blob.All(n3) {
//	    // ...
//	}
func SeriesID(name string) uint64 {
	return hash.ID(name)
}
