// Package errs defines the sentinel errors shared across the rebin library.
//
// All errors are plain sentinel values created with errors.New. Call sites
// wrap them with fmt.Errorf("%w: ...", err) to add context, and callers match
// them with errors.Is.
package errs

import "errors"

// Binning errors.
var (
	// ErrNotEnoughData indicates the reference sequence's total is below the
	// requested per-bin minimum, so no valid binning exists.
	ErrNotEnoughData = errors.New("total of reference sequence is below the per-bin minimum")

	// ErrLengthMismatch indicates a sequence whose length disagrees with the
	// expected reference length (mask, companion sequence, or edge sequence).
	ErrLengthMismatch = errors.New("sequence length mismatch")

	// ErrInvalidMinValue indicates a non-positive per-bin minimum.
	ErrInvalidMinValue = errors.New("per-bin minimum must be positive")

	// ErrSumNotPreserved indicates the rebinned aggregates do not sum to the
	// masked total within tolerance. It signals a defect in bin-boundary
	// construction, never invalid caller input.
	ErrSumNotPreserved = errors.New("rebinned total does not match masked total")

	// ErrNoArrivalTimes indicates an empty arrival-time sequence.
	ErrNoArrivalTimes = errors.New("arrival-time sequence is empty")

	// ErrInvalidTimeStep indicates a non-positive bin width.
	ErrInvalidTimeStep = errors.New("time step must be positive")

	// ErrInvalidSigmaLevel indicates a non-positive significance threshold.
	ErrInvalidSigmaLevel = errors.New("sigma level must be positive")

	// ErrInvalidMinCounts indicates a minimum count below one.
	ErrInvalidMinCounts = errors.New("minimum counts must be at least 1")

	// ErrNilEvaluator indicates a nil significance evaluator.
	ErrNilEvaluator = errors.New("significance evaluator is nil")

	// ErrNilEstimator indicates a nil background estimator.
	ErrNilEstimator = errors.New("background estimator is nil")

	// ErrNotImplemented indicates a binning method that is declared but not
	// supported.
	ErrNotImplemented = errors.New("not implemented")
)

// Background model errors.
var (
	// ErrInvalidPolynomialDegree indicates a negative degree or too few
	// samples for the requested degree.
	ErrInvalidPolynomialDegree = errors.New("invalid polynomial degree")

	// ErrSingularFit indicates the least-squares system could not be solved.
	ErrSingularFit = errors.New("singular fit: design matrix is rank deficient")
)

// Blob encoding errors.
var (
	// ErrInvalidSeriesID indicates a zero series ID.
	ErrInvalidSeriesID = errors.New("invalid series ID")

	// ErrEmptySeriesName indicates an empty series name.
	ErrEmptySeriesName = errors.New("series name is empty")

	// ErrInvalidBinCount indicates a bin count outside the 1..65535 range.
	ErrInvalidBinCount = errors.New("invalid bin count")

	// ErrSeriesAlreadyStarted indicates StartSeries was called while another
	// series is still open.
	ErrSeriesAlreadyStarted = errors.New("series already started")

	// ErrNoSeriesStarted indicates AddBin or EndSeries was called without a
	// started series.
	ErrNoSeriesStarted = errors.New("no series started")

	// ErrTooManyBins indicates more bins were added than claimed at
	// StartSeries.
	ErrTooManyBins = errors.New("too many bins for series")

	// ErrBinCountMismatch indicates EndSeries was called before all claimed
	// bins were added.
	ErrBinCountMismatch = errors.New("bin count mismatch")

	// ErrSeriesNotEnded indicates Finish was called while a series was still
	// open.
	ErrSeriesNotEnded = errors.New("series not ended")

	// ErrOffsetOutOfRange indicates an index entry offset that exceeds the
	// storable uint32 range.
	ErrOffsetOutOfRange = errors.New("offset out of range")

	// ErrDuplicateSeriesID indicates the same series ID was started twice in
	// one blob.
	ErrDuplicateSeriesID = errors.New("duplicate series ID")

	// ErrHashCollision indicates two distinct series names hashed to the same
	// series ID.
	ErrHashCollision = errors.New("series name hash collision")

	// ErrNoSeriesAdded indicates Finish was called on an encoder holding no
	// completed series.
	ErrNoSeriesAdded = errors.New("no series added")

	// ErrSeriesCountExceeded indicates the blob already holds the maximum
	// number of series.
	ErrSeriesCountExceeded = errors.New("series count exceeded")

	// ErrEncoderFinished indicates the encoder was used after Finish.
	ErrEncoderFinished = errors.New("encoder already finished")

	// ErrInvalidEncodingType indicates an encoding type outside the supported
	// set for the payload it was applied to.
	ErrInvalidEncodingType = errors.New("invalid encoding type")

	// ErrInvalidCompressionType indicates an unsupported compression type.
	ErrInvalidCompressionType = errors.New("invalid compression type")
)

// Blob decoding errors.
var (
	// ErrInvalidHeaderSize indicates the data is shorter than a blob header.
	ErrInvalidHeaderSize = errors.New("invalid header size")

	// ErrInvalidMagicNumber indicates the header magic does not identify a
	// binned blob.
	ErrInvalidMagicNumber = errors.New("invalid magic number")

	// ErrInvalidHeaderFlags indicates unknown encoding or compression nibbles
	// in the header flag.
	ErrInvalidHeaderFlags = errors.New("invalid header flags")

	// ErrInvalidIndexEntrySize indicates the index section is truncated.
	ErrInvalidIndexEntrySize = errors.New("invalid index entry size")

	// ErrInvalidIndexOffsets indicates index offsets that are out of order or
	// out of payload bounds.
	ErrInvalidIndexOffsets = errors.New("invalid index offsets")

	// ErrInvalidPayloadOffset indicates a payload offset outside the blob.
	ErrInvalidPayloadOffset = errors.New("invalid payload offset")
)
