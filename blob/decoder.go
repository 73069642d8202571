package blob

import (
	"fmt"

	"github.com/arloliu/rebin/compress"
	"github.com/arloliu/rebin/endian"
	"github.com/arloliu/rebin/errs"
	"github.com/arloliu/rebin/section"
)

// Decoder decodes the encoded blob data and reconstructs a BinnedBlob.
//
// Note: The Decoder is NOT thread-safe. Each decoder instance should be used by a single goroutine at a time.
//
// Note: The Decoder is NOT reusable. After calling Decode, a new decoder must be created for further decoding.
type Decoder struct {
	data        []byte
	seriesCount int
	engine      endian.EndianEngine
	header      *section.Header
}

// NewDecoder creates a new Decoder for the given encoded data.
//
// The decoder validates the header and prepares for decoding but does not
// decompress payloads until Decode() is called.
//
// Parameters:
//   - data: Encoded blob byte slice (must contain a valid header)
//
// Returns:
//   - *Decoder: New decoder instance ready for decoding
//   - error: Header parsing error or invalid data format
func NewDecoder(data []byte) (*Decoder, error) {
	decoder := &Decoder{
		data: data,
	}

	if err := decoder.parseHeader(); err != nil {
		return nil, err
	}

	return decoder, nil
}

// Decode decodes the encoded data into a BinnedBlob.
//
// This method validates payload offsets, decompresses all payloads, parses
// index entries, and reconstructs the blob structure.
//
// Returns:
//   - *BinnedBlob: Decoded blob with edge/value/error payloads and the series index
//   - error: Payload offset validation errors, decompression errors, or index
//     parsing errors
func (d *Decoder) Decode() (*BinnedBlob, error) {
	blob := &BinnedBlob{
		engine:      d.engine,
		epoch:       d.header.EpochAsTime().UTC(),
		flag:        d.header.Flag,
		edgeEncType: d.header.Flag.EdgeEncoding(),
	}

	// Validate payload offsets
	edgeOffset := int(d.header.EdgePayloadOffset)
	if len(d.data) < edgeOffset {
		return nil, fmt.Errorf("%w: edge payload at %d, blob size %d",
			errs.ErrInvalidPayloadOffset, edgeOffset, len(d.data))
	}

	valOffset := int(d.header.ValuePayloadOffset)
	if valOffset < edgeOffset || len(d.data) < valOffset {
		return nil, fmt.Errorf("%w: value payload at %d, blob size %d",
			errs.ErrInvalidPayloadOffset, valOffset, len(d.data))
	}

	errOffset := int(d.header.ErrorPayloadOffset)
	if d.header.Flag.HasBinErrors() && (errOffset < valOffset || len(d.data) < errOffset) {
		return nil, fmt.Errorf("%w: error payload at %d, blob size %d",
			errs.ErrInvalidPayloadOffset, errOffset, len(d.data))
	}

	// Step 1: Decompress payloads (do this before parsing index entries, the
	// derived lengths depend on decompressed payload sizes)
	payloads, err := d.decompressPayloads(edgeOffset, valOffset, errOffset)
	if err != nil {
		return nil, err
	}

	blob.edgePayload = payloads.edgePayload
	blob.valPayload = payloads.valPayload
	blob.errPayload = payloads.errPayload

	// Step 2: Parse index entries and derive per-series lengths and offsets
	indexEntries, err := d.parseIndexEntries(len(blob.edgePayload), len(blob.valPayload))
	if err != nil {
		return nil, err
	}

	// Step 3: Build the series index, keeping IDs in encode order
	blob.index = make(map[uint64]section.IndexEntry, d.seriesCount)
	blob.ids = make([]uint64, d.seriesCount)
	for i, entry := range indexEntries {
		blob.index[entry.SeriesID] = entry
		blob.ids[i] = entry.SeriesID
	}

	return blob, nil
}

// parseHeader parses the header section of the encoded data.
func (d *Decoder) parseHeader() error {
	header, err := section.ParseHeader(d.data)
	if err != nil {
		return err
	}

	d.engine = header.Flag.GetEndianEngine()
	d.seriesCount = int(header.SeriesCount)
	d.header = &header

	return nil
}

// parseIndexEntries parses the index section and derives the fields the
// entries do not store: the edge chain length of each series and the byte
// offset of its values.
//
// Edge offsets must be non-decreasing in index order; value offsets follow
// from the cumulative bin counts at 8 bytes per bin.
func (d *Decoder) parseIndexEntries(edgePayloadSize, valPayloadSize int) ([]section.IndexEntry, error) {
	indexOffset := int(d.header.IndexOffset)
	indexSize := section.IndexEntrySize * d.seriesCount
	if len(d.data) < indexOffset+indexSize {
		return nil, errs.ErrInvalidIndexEntrySize
	}

	indexData := d.data[indexOffset : indexOffset+indexSize]

	// Pre-allocate with exact size; direct indexing avoids per-append bounds checks
	indexEntries := make([]section.IndexEntry, d.seriesCount)

	var err error
	var totalBins int
	for i := range d.seriesCount {
		start := i * section.IndexEntrySize
		end := start + section.IndexEntrySize

		indexEntries[i], err = section.ParseIndexEntry(indexData[start:end], d.engine)
		if err != nil {
			return nil, err
		}

		curEntry := &indexEntries[i]

		// Values are fixed 8 bytes per bin, so the offset of each series is
		// the cumulative bin count of everything before it
		curEntry.ValueOffset = totalBins * 8
		totalBins += curEntry.BinCount

		// Derive the previous entry's edge length from this entry's offset
		if i > 0 {
			prevEntry := &indexEntries[i-1]

			if curEntry.EdgeOffset < prevEntry.EdgeOffset {
				return nil, fmt.Errorf("%w: edge offset %d after %d",
					errs.ErrInvalidIndexOffsets, curEntry.EdgeOffset, prevEntry.EdgeOffset)
			}

			prevEntry.EdgeLength = curEntry.EdgeOffset - prevEntry.EdgeOffset
		}
	}

	// The last entry's edge chain runs to the end of the edge payload
	if d.seriesCount > 0 {
		lastEntry := &indexEntries[d.seriesCount-1]
		if lastEntry.EdgeOffset > edgePayloadSize {
			return nil, fmt.Errorf("%w: edge offset %d, edge payload size %d",
				errs.ErrInvalidIndexOffsets, lastEntry.EdgeOffset, edgePayloadSize)
		}
		lastEntry.EdgeLength = edgePayloadSize - lastEntry.EdgeOffset
	}

	// The cumulative bin count must account for the whole value payload
	if totalBins*8 != valPayloadSize {
		return nil, fmt.Errorf("%w: %d bins need %d value bytes, payload has %d",
			errs.ErrInvalidIndexOffsets, totalBins, totalBins*8, valPayloadSize)
	}

	return indexEntries, nil
}

// decodedPayloads holds the decompressed payload data.
type decodedPayloads struct {
	edgePayload []byte
	valPayload  []byte
	errPayload  []byte
}

// decompressPayloads decompresses the edge, value, and error payloads.
func (d *Decoder) decompressPayloads(edgeOffset, valOffset, errOffset int) (decodedPayloads, error) {
	// Get built-in codecs based on header settings
	edgeCodec, err := compress.GetCodec(d.header.Flag.EdgeCompression())
	if err != nil {
		return decodedPayloads{}, fmt.Errorf("unsupported edge compression: %w", err)
	}

	valCodec, err := compress.GetCodec(d.header.Flag.ValueCompression())
	if err != nil {
		return decodedPayloads{}, fmt.Errorf("unsupported value compression: %w", err)
	}

	// The value payload runs to the error payload when one is present,
	// otherwise to the end of the blob
	valEnd := len(d.data)
	if d.header.Flag.HasBinErrors() {
		valEnd = errOffset
	}

	edgePayload, err := edgeCodec.Decompress(d.data[edgeOffset:valOffset])
	if err != nil {
		return decodedPayloads{}, fmt.Errorf("failed to decompress edge payload: %w", err)
	}

	valPayload, err := valCodec.Decompress(d.data[valOffset:valEnd])
	if err != nil {
		return decodedPayloads{}, fmt.Errorf("failed to decompress value payload: %w", err)
	}

	// Decompress the error payload only when the blob carries one; it shares
	// the value codec because both sections have the same layout
	var errPayload []byte
	if d.header.Flag.HasBinErrors() {
		errPayload, err = valCodec.Decompress(d.data[errOffset:])
		if err != nil {
			return decodedPayloads{}, fmt.Errorf("failed to decompress error payload: %w", err)
		}

		if len(errPayload) != len(valPayload) {
			return decodedPayloads{}, fmt.Errorf("%w: error payload %d bytes, value payload %d bytes",
				errs.ErrInvalidIndexOffsets, len(errPayload), len(valPayload))
		}
	}

	return decodedPayloads{
		edgePayload: edgePayload,
		valPayload:  valPayload,
		errPayload:  errPayload,
	}, nil
}
