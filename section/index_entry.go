package section

import (
	"github.com/arloliu/rebin/endian"
	"github.com/arloliu/rebin/errs"
)

// IndexEntry records information about a single series in the blob index
// section. It is a fixed size of 16 bytes.
//
// Only the edge offset is stored on disk. Edge chains are varint encoded and
// have no fixed per-bin width, so the byte offset of each chain must be
// recorded explicitly; it is stored as an absolute uint32 offset into the
// uncompressed edge payload. Value and error payloads are fixed 8 bytes per
// bin, so their offsets are fully determined by the cumulative bin counts of
// the preceding entries and are reconstructed at parse time instead of being
// stored.
//
// Example with 3 series:
//
//	Series 1: 40 bins, edge chain 130 bytes → EdgeOffset=0,   ValueOffset=0
//	Series 2: 25 bins, edge chain 80 bytes  → EdgeOffset=130, ValueOffset=320 (40×8)
//	Series 3: 60 bins, edge chain 195 bytes → EdgeOffset=210, ValueOffset=520 (65×8)
type IndexEntry struct {
	// SeriesID is the unsigned 64-bit series id, the xxHash64 hash of the
	// series name string.
	//
	// Offset: 0, Size: 8 bytes
	SeriesID uint64

	// BinCount is the number of bins for this series.
	//
	// Offset: 8, Size: 2 bytes (stored as uint16 on disk)
	//
	// In memory we use int to avoid frequent type conversions during
	// processing. The maximum count per series is limited by the uint16
	// range (65535 bins).
	BinCount int

	// EdgeOffset is the absolute byte offset of this series' edge chain
	// within the uncompressed edge payload.
	//
	// Offset: 12, Size: 4 bytes (stored as uint32 on disk)
	EdgeOffset int

	// EdgeLength is the byte length of the edge chain. It is not stored on
	// disk; the parser derives it from the next entry's EdgeOffset (or the
	// payload size for the last entry).
	EdgeLength int

	// ValueOffset is the byte offset of this series' values within the
	// uncompressed value payload. It is not stored on disk; the parser
	// derives it from the cumulative bin counts of the preceding entries.
	// The error payload is laid out identically, so the same offset locates
	// the series' bin errors when the blob carries them.
	ValueOffset int
}

// NewIndexEntry creates a new IndexEntry for a series.
//
// Parameters:
//   - seriesID: Unique 64-bit series identifier
//   - binCount: Number of bins for this series (1-65535)
//   - edgeOffset: Absolute byte offset of the series' edge chain
//
// Returns:
//   - IndexEntry: New index entry with derived fields left zero
func NewIndexEntry(seriesID uint64, binCount uint16, edgeOffset int) IndexEntry {
	return IndexEntry{
		SeriesID:   seriesID,
		BinCount:   int(binCount),
		EdgeOffset: edgeOffset,
	}
}

// Bytes returns the index entry as a byte slice using the specified endian
// engine.
func (e *IndexEntry) Bytes(engine endian.EndianEngine) []byte {
	var b [IndexEntrySize]byte // stack allocation, it's faster than heap allocation
	engine.PutUint64(b[0:8], e.SeriesID)
	engine.PutUint16(b[8:10], uint16(e.BinCount)) //nolint:gosec
	engine.PutUint16(b[10:12], 0)
	engine.PutUint32(b[12:16], uint32(e.EdgeOffset)) //nolint:gosec

	return b[:]
}

// WriteToSlice writes to a pre-allocated slice and returns the next position.
//
// This is the most efficient method when writing multiple entries sequentially.
//
// Parameters:
//   - data: Pre-allocated byte slice (must have space for 16 bytes at offset)
//   - offset: Starting position in the data slice
//   - engine: Endian engine for byte order
//
// Returns:
//   - int: Next write position (offset + 16)
func (e *IndexEntry) WriteToSlice(data []byte, offset int, engine endian.EndianEngine) int {
	engine.PutUint64(data[offset:offset+8], e.SeriesID)
	engine.PutUint16(data[offset+8:offset+10], uint16(e.BinCount)) //nolint:gosec
	engine.PutUint16(data[offset+10:offset+12], 0)
	engine.PutUint32(data[offset+12:offset+16], uint32(e.EdgeOffset)) //nolint:gosec

	return offset + IndexEntrySize
}

// ParseIndexEntry parses an IndexEntry from a byte slice.
//
// The derived fields (EdgeLength, ValueOffset) are left zero; the blob
// decoder fills them in once all entries are parsed.
//
// Parameters:
//   - data: Byte slice containing the index entry (must be at least 16 bytes)
//   - engine: Endian engine for byte order
//
// Returns:
//   - IndexEntry: Parsed index entry
//   - error: ErrInvalidIndexEntrySize if data is too short
func ParseIndexEntry(data []byte, engine endian.EndianEngine) (IndexEntry, error) {
	if len(data) < IndexEntrySize {
		return IndexEntry{}, errs.ErrInvalidIndexEntrySize
	}

	return IndexEntry{
		SeriesID:   engine.Uint64(data[0:8]),
		BinCount:   int(engine.Uint16(data[8:10])),
		EdgeOffset: int(engine.Uint32(data[12:16])),
	}, nil
}
