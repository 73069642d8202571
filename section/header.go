package section

import (
	"time"

	"github.com/arloliu/rebin/errs"
)

// Header represents the fixed-size header section at the start of a
// binned-series blob.
type Header struct {
	// Epoch is the blob epoch, a unix timestamp in microseconds. All bin
	// edges in the blob are stored as signed microsecond offsets from it.
	Epoch int64 // byte offset 4-11
	// SeriesCount is the number of series stored in the blob.
	SeriesCount uint32 // byte offset 12-15
	// IndexOffset is the byte offset to the start of the series index section.
	IndexOffset uint32 // byte offset 16-19
	// EdgePayloadOffset is the byte offset to the start of the edge payload
	// section. It records the offset after the index section.
	EdgePayloadOffset uint32 // byte offset 20-23
	// ValuePayloadOffset is the byte offset to the start of the value payload
	// section. It records the offset after the (possibly compressed) edge
	// payload section.
	ValuePayloadOffset uint32 // byte offset 24-27
	// ErrorPayloadOffset is the byte offset to the start of the bin error
	// payload section, or 0 when the blob carries no error payload.
	ErrorPayloadOffset uint32 // byte offset 28-31

	// Flag is a packed field for various flags and the magic number.
	Flag Flag // byte offset 0-3
}

// NewHeader creates a new Header with the given epoch.
// The series count and payload offsets are set when the encoder finishes.
func NewHeader(epoch time.Time) *Header {
	return &Header{
		Epoch:       epoch.UnixMicro(),
		Flag:        NewFlag(),
		IndexOffset: IndexOffsetOffset,
	}
}

// Parse parses the header from a byte slice.
//
// The Options field is always read little-endian because it carries the
// endianness bit itself; the remaining fields use the byte order the flag
// declares.
//
// Parameters:
//   - data: Byte slice containing the header (must be exactly 32 bytes)
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not 32 bytes, or flag validation errors
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.EncodingType = data[2]
	h.Flag.CompressionType = data[3]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()

	h.Epoch = int64(engine.Uint64(data[4:12])) //nolint:gosec
	h.SeriesCount = engine.Uint32(data[12:16])
	h.IndexOffset = engine.Uint32(data[16:20])
	h.EdgePayloadOffset = engine.Uint32(data[20:24])
	h.ValuePayloadOffset = engine.Uint32(data[24:28])
	h.ErrorPayloadOffset = engine.Uint32(data[28:32])

	return nil
}

// Bytes serializes the Header into a byte slice.
//
// The Options field is always written little-endian to match Parse; the
// remaining fields use the byte order the flag declares.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	engine := h.Flag.GetEndianEngine()

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.EncodingType
	b[3] = h.Flag.CompressionType
	engine.PutUint64(b[4:12], uint64(h.Epoch)) //nolint:gosec
	engine.PutUint32(b[12:16], h.SeriesCount)
	engine.PutUint32(b[16:20], h.IndexOffset)
	engine.PutUint32(b[20:24], h.EdgePayloadOffset)
	engine.PutUint32(b[24:28], h.ValuePayloadOffset)
	engine.PutUint32(b[28:32], h.ErrorPayloadOffset)

	return b
}

// EpochAsTime returns the blob epoch as a time.Time.
func (h *Header) EpochAsTime() time.Time {
	return time.UnixMicro(h.Epoch)
}

// ParseHeader parses a Header from a byte slice.
//
// Parameters:
//   - data: Byte slice containing the header (must be at least 32 bytes)
//
// Returns:
//   - Header: Parsed header struct
//   - error: ErrInvalidHeaderSize or flag validation errors
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errs.ErrInvalidHeaderSize
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	return h, nil
}
