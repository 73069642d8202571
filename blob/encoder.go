package blob

import (
	"fmt"
	"math"
	"time"

	"github.com/arloliu/rebin/encoding"
	"github.com/arloliu/rebin/errs"
	"github.com/arloliu/rebin/format"
	"github.com/arloliu/rebin/internal/hash"
	"github.com/arloliu/rebin/internal/options"
	"github.com/arloliu/rebin/section"
)

// Encoder encodes binned series into the binary blob format.
//
// It supports delta or raw edge encoding, raw value encoding, independent
// compression of each payload section, and both endiannesses.
//
// Note: The Encoder is NOT thread-safe. Each encoder instance should be used by a single goroutine at a time.
//
// Note: The Encoder is NOT reusable. After calling Finish, a new encoder must be created for further encoding.
type Encoder struct {
	*EncoderConfig

	edgeEncoder encoding.ColumnarEncoder[int64]
	valEncoder  encoding.ColumnarEncoder[float64]
	errEncoder  encoding.ColumnarEncoder[float64] // nil unless bin errors are enabled

	curSeriesID uint64 // current series ID being encoded
	claimed     int    // number of bins claimed for the current series

	// Encoder state captured at StartSeries, used by EndSeries to compute the
	// bins and bytes the current series contributed.
	edge encoderState // edge encoder state
	val  encoderState // value encoder state
	errv encoderState // error encoder state (unused when errors are disabled)

	// Duplicate and collision detection. usedIDs catches the same ID started
	// twice regardless of how it was introduced; seriesNames distinguishes a
	// repeated name from two distinct names hashing to the same ID.
	usedIDs     map[uint64]struct{}
	seriesNames map[uint64]string

	finished bool
}

// encoderState records where a columnar encoder stood when the current series
// started: the byte offset of the series' first item and the item count
// accumulated by all previous series.
type encoderState struct {
	offset int // byte position where the current series starts
	length int // total count of items encoded before the current series
}

// update captures the encoder's current offset and length.
func (s *encoderState) update(offset int, length int) {
	s.offset = offset
	s.length = length
}

// cloneHeader creates a shallow copy of the encoder's header for immutability.
// This allows Finish() to compute final header fields without mutating the original.
func (e *Encoder) cloneHeader() *section.Header {
	cloned := *e.header // Shallow copy (32 bytes)
	return &cloned
}

// NewEncoder creates a new Encoder with the given epoch.
//
// The encoder will grow dynamically as series are added, up to MaxSeriesCount (65536).
//
// Parameters:
//   - epoch: Epoch for the entire blob; all bin edges are stored relative to it
//   - opts: Optional encoding configuration (endianness, compression, edge encoding, bin errors)
//
// Returns:
//   - *Encoder: New encoder instance ready for series encoding
//   - error: Configuration error if invalid options provided
func NewEncoder(epoch time.Time, opts ...EncoderOption) (*Encoder, error) {
	// Create base configuration
	config := NewEncoderConfig(epoch)

	encoder := &Encoder{
		EncoderConfig: config,
		usedIDs:       nil, // lazy creation
		seriesNames:   nil, // lazy creation
	}

	// Apply options to base config
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	enc := encoder.header.Flag.EdgeEncoding()
	switch enc {
	case format.TypeRaw:
		encoder.edgeEncoder = encoding.NewEdgeRawEncoder(encoder.engine)
	case format.TypeDelta:
		encoder.edgeEncoder = encoding.NewEdgeDeltaEncoder()
	default:
		return nil, fmt.Errorf("%w: %v is not supported for edges", errs.ErrInvalidEncodingType, enc)
	}

	enc = encoder.header.Flag.ValueEncoding()
	if enc != format.TypeRaw {
		return nil, fmt.Errorf("%w: %v is not supported for values", errs.ErrInvalidEncodingType, enc)
	}
	encoder.valEncoder = encoding.NewValueRawEncoder(encoder.engine)

	if encoder.header.Flag.HasBinErrors() {
		encoder.errEncoder = encoding.NewValueRawEncoder(encoder.engine)
	}

	if err := encoder.setCodecs(*encoder.header); err != nil {
		return nil, err
	}

	return encoder, nil
}

// StartSeriesID begins encoding a new series with the specified unique identifier and number of bins.
//
// The seriesID should be a unique unsigned 64-bit integer. If the application
// does not have a predefined series ID, it can use the hash.ID function to
// hash the series name string, or call StartSeriesName directly.
//
// Parameters:
//   - seriesID: Unique 64-bit series identifier (must be non-zero)
//   - binCount: Expected number of bins (1-65535)
//
// Returns:
//   - error: ErrEncoderFinished, ErrSeriesAlreadyStarted, ErrInvalidSeriesID,
//     ErrInvalidBinCount, ErrSeriesCountExceeded, or ErrDuplicateSeriesID
func (e *Encoder) StartSeriesID(seriesID uint64, binCount int) error {
	if e.finished {
		return errs.ErrEncoderFinished
	}

	if e.curSeriesID != 0 {
		return fmt.Errorf("%w: series ID %d is already started", errs.ErrSeriesAlreadyStarted, e.curSeriesID)
	}

	if seriesID == 0 {
		return errs.ErrInvalidSeriesID
	}

	if binCount <= 0 || binCount > math.MaxUint16 {
		return errs.ErrInvalidBinCount
	}

	if len(e.indexEntries) >= MaxSeriesCount {
		return fmt.Errorf("%w: max %d", errs.ErrSeriesCountExceeded, MaxSeriesCount)
	}

	if e.usedIDs == nil {
		e.usedIDs = make(map[uint64]struct{})
	}

	if _, exists := e.usedIDs[seriesID]; exists {
		return fmt.Errorf("%w: series ID 0x%016x already used", errs.ErrDuplicateSeriesID, seriesID)
	}
	e.usedIDs[seriesID] = struct{}{}

	e.startSeries(seriesID, binCount)

	return nil
}

// StartSeriesName begins encoding a new series with the specified name and number of bins.
//
// The series name string is hashed to an unsigned 64-bit integer using
// xxHash64. The blob stores only the hash; decoders look series up by name by
// hashing it the same way. Two distinct names hashing to the same ID cannot
// both live in one blob and are rejected with ErrHashCollision.
//
// Parameters:
//   - seriesName: Series name string (must be non-empty)
//   - binCount: Expected number of bins (1-65535)
//
// Returns:
//   - error: ErrEncoderFinished, ErrSeriesAlreadyStarted, ErrEmptySeriesName,
//     ErrInvalidBinCount, ErrSeriesCountExceeded, ErrDuplicateSeriesID, or
//     ErrHashCollision
func (e *Encoder) StartSeriesName(seriesName string, binCount int) error {
	if e.finished {
		return errs.ErrEncoderFinished
	}

	if e.curSeriesID != 0 {
		return fmt.Errorf("%w: series ID %d is already started", errs.ErrSeriesAlreadyStarted, e.curSeriesID)
	}

	if seriesName == "" {
		return errs.ErrEmptySeriesName
	}

	if binCount <= 0 || binCount > math.MaxUint16 {
		return errs.ErrInvalidBinCount
	}

	if len(e.indexEntries) >= MaxSeriesCount {
		return fmt.Errorf("%w: max %d", errs.ErrSeriesCountExceeded, MaxSeriesCount)
	}

	seriesID := hash.ID(seriesName)

	if prev, ok := e.seriesNames[seriesID]; ok {
		if prev != seriesName {
			return fmt.Errorf("%w: %q and %q both hash to 0x%016x", errs.ErrHashCollision, prev, seriesName, seriesID)
		}

		return fmt.Errorf("%w: series %q already added", errs.ErrDuplicateSeriesID, seriesName)
	}

	if _, exists := e.usedIDs[seriesID]; exists {
		return fmt.Errorf("%w: series ID 0x%016x already used", errs.ErrDuplicateSeriesID, seriesID)
	}

	if e.usedIDs == nil {
		e.usedIDs = make(map[uint64]struct{})
	}
	if e.seriesNames == nil {
		e.seriesNames = make(map[uint64]string)
	}
	e.usedIDs[seriesID] = struct{}{}
	e.seriesNames[seriesID] = seriesName

	e.startSeries(seriesID, binCount)

	return nil
}

// startSeries is the internal method that actually starts a series.
// It does NOT do duplicate checking - caller is responsible for that.
func (e *Encoder) startSeries(seriesID uint64, binCount int) {
	// Capture current encoder state
	e.edge.update(e.edgeEncoder.Size(), e.edgeEncoder.Len())
	e.val.update(e.valEncoder.Size(), e.valEncoder.Len())
	if e.errEncoder != nil {
		e.errv.update(e.errEncoder.Size(), e.errEncoder.Len())
	}

	// Set current series state
	e.curSeriesID = seriesID
	e.claimed = binCount
}

// AddBin adds a single bin to the current started series.
//
// Start and stop are seconds relative to the blob epoch and are stored as
// rounded microseconds. The bin error is ignored unless the encoder was
// created with WithBinErrors.
//
// Parameters:
//   - start: Bin start edge in seconds relative to the epoch
//   - stop: Bin stop edge in seconds relative to the epoch
//   - value: Aggregated bin value
//   - binErr: Propagated bin error (ignored unless bin errors are enabled)
//
// Returns:
//   - error: ErrNoSeriesStarted, or ErrTooManyBins if adding would exceed the
//     claimed bin count
func (e *Encoder) AddBin(start, stop, value, binErr float64) error {
	if e.curSeriesID == 0 {
		return errs.ErrNoSeriesStarted
	}

	if e.valEncoder.Len()-e.val.length >= e.claimed {
		return errs.ErrTooManyBins
	}

	e.edgeEncoder.Write(microsFromSeconds(start))
	e.edgeEncoder.Write(microsFromSeconds(stop))
	e.valEncoder.Write(value)
	if e.errEncoder != nil {
		e.errEncoder.Write(binErr)
	}

	return nil
}

// AddBins adds multiple bins to the current started series.
//
// This method is more efficient than calling AddBin multiple times. The
// binErrs parameter is optional: when bin errors are enabled and binErrs is
// empty, zero errors are written for each bin.
//
// Parameters:
//   - starts: Bin start edges in seconds relative to the epoch
//   - stops: Bin stop edges (must match starts length)
//   - values: Aggregated bin values (must match starts length)
//   - binErrs: Optional propagated bin errors (if provided, must match starts length)
//
// Returns:
//   - error: ErrNoSeriesStarted, ErrLengthMismatch, or ErrTooManyBins if
//     adding would exceed the claimed bin count
func (e *Encoder) AddBins(starts, stops, values, binErrs []float64) error {
	if e.curSeriesID == 0 {
		return errs.ErrNoSeriesStarted
	}

	n := len(starts)
	if n == 0 {
		return nil // No-op for empty input
	}
	if len(stops) != n {
		return fmt.Errorf("%w: %d starts, %d stops", errs.ErrLengthMismatch, n, len(stops))
	}
	if len(values) != n {
		return fmt.Errorf("%w: %d starts, %d values", errs.ErrLengthMismatch, n, len(values))
	}
	if len(binErrs) > 0 && len(binErrs) != n {
		return fmt.Errorf("%w: %d starts, %d bin errors", errs.ErrLengthMismatch, n, len(binErrs))
	}

	curCount := e.valEncoder.Len() - e.val.length // bins added to the current series so far
	if curCount+n > e.claimed {
		return errs.ErrTooManyBins
	}

	for i := range n {
		e.edgeEncoder.Write(microsFromSeconds(starts[i]))
		e.edgeEncoder.Write(microsFromSeconds(stops[i]))
	}
	e.valEncoder.WriteSlice(values)

	if e.errEncoder != nil {
		if len(binErrs) > 0 {
			e.errEncoder.WriteSlice(binErrs)
		} else {
			// If no bin errors provided, write zeros for each bin
			e.errEncoder.WriteSlice(make([]float64, n))
		}
	}

	return nil
}

// EndSeries completes the encoding of the current series and prepares the encoder for the next series.
//
// This method should be called after all bins have been added via AddBin or
// AddBins. It validates bin counts, creates the index entry, and resets
// encoder state for the next series.
//
// Returns:
//   - error: ErrNoSeriesStarted, ErrBinCountMismatch, or ErrOffsetOutOfRange
//     if the edge offset exceeds the uint32 range
func (e *Encoder) EndSeries() error {
	if e.curSeriesID == 0 {
		return errs.ErrNoSeriesStarted
	}

	// Calculate lengths and byte sizes of data added since the series started.
	// These are used for validation and index entry creation.
	edgeEncLen := e.edgeEncoder.Len()
	edgeEncSize := e.edgeEncoder.Size()
	valEncLen := e.valEncoder.Len()
	valEncSize := e.valEncoder.Size()

	var errEncLen, errEncSize int
	if e.errEncoder != nil {
		errEncLen = e.errEncoder.Len()
		errEncSize = e.errEncoder.Size()
	}

	// Calculate current series' bin count
	curEdgeLen := edgeEncLen - e.edge.length
	curValLen := valEncLen - e.val.length
	curErrLen := errEncLen - e.errv.length

	if err := e.validateSeriesData(curEdgeLen, curValLen, curErrLen); err != nil {
		return err
	}

	// Validate the edge offset fits the on-disk uint32 BEFORE creating the entry
	if int64(e.edge.offset) > section.MaxPayloadOffset {
		return fmt.Errorf("%w: edge offset %d (max=%d)",
			errs.ErrOffsetOutOfRange, e.edge.offset, section.MaxPayloadOffset)
	}

	// Create index entry; the bin count is guaranteed to fit uint16 by the
	// claimed-count validation in StartSeries
	entry := section.NewIndexEntry(e.curSeriesID, uint16(curValLen), e.edge.offset) //nolint:gosec
	e.addEntryIndex(entry)

	// Update accumulated state for next series
	e.edge.update(edgeEncSize, edgeEncLen)
	e.val.update(valEncSize, valEncLen)
	e.errv.update(errEncSize, errEncLen)

	// Reset encoder internal states for next series
	e.edgeEncoder.Reset()
	e.valEncoder.Reset()
	if e.errEncoder != nil {
		e.errEncoder.Reset()
	}

	// Reset current series state
	e.curSeriesID = 0
	e.claimed = 0

	return nil
}

func (e *Encoder) validateSeriesData(curEdgeLen, curValLen, curErrLen int) error {
	// Ensure edges arrive in start/stop pairs matching the values
	if curEdgeLen != 2*curValLen {
		return fmt.Errorf("%w: %d edges, %d bins", errs.ErrBinCountMismatch, curEdgeLen, curValLen)
	}

	// Validate that exactly the claimed number of bins were added
	if curValLen != e.claimed {
		return fmt.Errorf("%w: claimed %d, got %d", errs.ErrBinCountMismatch, e.claimed, curValLen)
	}

	// Error count must match bin count - only check if errors are enabled
	if e.errEncoder != nil && curErrLen != e.claimed {
		return fmt.Errorf("%w: claimed %d, got %d bin errors", errs.ErrBinCountMismatch, e.claimed, curErrLen)
	}

	return nil
}

// Finish finalizes the encoding process and returns the complete byte slice representing all encoded series.
//
// This method compresses all payloads, builds the header with final offsets,
// assembles the index entries, and produces the complete binary blob. After
// calling Finish, the encoder cannot be reused and a new encoder must be
// created for further encoding.
//
// Returns:
//   - []byte: Complete encoded blob with header, index entries, and compressed payloads
//   - error: ErrEncoderFinished on reuse, ErrSeriesNotEnded if a series was
//     started but not ended, ErrNoSeriesAdded if no series were added, or
//     compression errors
func (e *Encoder) Finish() ([]byte, error) {
	if e.finished {
		return nil, errs.ErrEncoderFinished
	}

	// Finish encoders regardless of error to release resources
	defer e.edgeEncoder.Finish()
	defer e.valEncoder.Finish()
	if e.errEncoder != nil {
		defer e.errEncoder.Finish()
	}

	e.finished = true

	if e.curSeriesID != 0 {
		return nil, errs.ErrSeriesNotEnded
	}

	// Validate at least one series was added
	if len(e.indexEntries) == 0 {
		return nil, errs.ErrNoSeriesAdded
	}

	// Clone header to keep original immutable; all computed fields are set on the clone
	finalHeader := e.cloneHeader()

	// Set actual series count in cloned header now that encoding is complete
	finalHeader.SeriesCount = uint32(len(e.indexEntries)) //nolint:gosec

	// Compress edge and value payloads
	edgePayload, err := e.edgeCodec.Compress(e.edgeEncoder.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to compress edge payload: %w", err)
	}
	valPayload, err := e.valCodec.Compress(e.valEncoder.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to compress value payload: %w", err)
	}

	// Only compress the error payload if bin errors are enabled
	var errPayload []byte
	if e.errEncoder != nil {
		errPayload, err = e.valCodec.Compress(e.errEncoder.Bytes())
		if err != nil {
			return nil, fmt.Errorf("failed to compress error payload: %w", err)
		}
	}

	// Calculate EdgePayloadOffset based on actual index entries count
	indexEntriesSize := section.IndexEntrySize * len(e.indexEntries)
	finalHeader.EdgePayloadOffset = finalHeader.IndexOffset + uint32(indexEntriesSize) //nolint:gosec

	// Set value payload offset in header, it records the value payload offset
	// after the edge payload. The size of edge payload is the compressed size.
	finalHeader.ValuePayloadOffset = finalHeader.EdgePayloadOffset + uint32(len(edgePayload)) //nolint:gosec

	// Set error payload offset only when the blob carries one; zero means absent
	if e.errEncoder != nil {
		finalHeader.ErrorPayloadOffset = finalHeader.ValuePayloadOffset + uint32(len(valPayload)) //nolint:gosec
	} else {
		finalHeader.ErrorPayloadOffset = 0
	}

	// Pre-calculate exact size (reuse indexEntriesSize from above)
	blobSize := section.HeaderSize + indexEntriesSize + len(edgePayload) + len(valPayload) + len(errPayload)

	// Allocate exact-size buffer for the final blob
	// No need for pooled buffer since we return this directly to caller
	blob := make([]byte, blobSize)
	offset := 0

	// Copy cloned header with all computed fields
	offset += copy(blob[offset:], finalHeader.Bytes())

	// Write index entries
	for i := range e.indexEntries {
		entryOffset := offset + i*section.IndexEntrySize
		e.indexEntries[i].WriteToSlice(blob, entryOffset, e.engine)
	}
	offset += indexEntriesSize

	// Copy edge payload
	offset += copy(blob[offset:], edgePayload)

	// Copy value payload
	offset += copy(blob[offset:], valPayload)

	// Copy error payload
	copy(blob[offset:], errPayload)

	return blob, nil
}

// microsFromSeconds converts a second offset to a rounded microsecond offset.
func microsFromSeconds(sec float64) int64 {
	return int64(math.Round(sec * 1e6))
}
