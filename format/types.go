// Package format defines the encoding and compression type enums shared by
// the blob sections and codecs.
package format

// EncodingType identifies how a payload column is encoded.
type EncodingType uint8

const (
	// TypeRaw stores each value in its fixed-width binary representation.
	TypeRaw EncodingType = 0x1
	// TypeDelta stores values as zigzag varint deltas from their predecessor.
	TypeDelta EncodingType = 0x2
)

// String returns the lowercase name of the encoding type.
func (t EncodingType) String() string {
	switch t {
	case TypeRaw:
		return "raw"
	case TypeDelta:
		return "delta"
	default:
		return "unknown"
	}
}

// CompressionType identifies the compression applied to a payload section.
type CompressionType uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone CompressionType = 0x1
	// CompressionZstd compresses with Zstandard.
	CompressionZstd CompressionType = 0x2
	// CompressionS2 compresses with S2 (Snappy-compatible).
	CompressionS2 CompressionType = 0x3
	// CompressionLZ4 compresses with LZ4 block format.
	CompressionLZ4 CompressionType = 0x4
)

// String returns the lowercase name of the compression type.
func (t CompressionType) String() string {
	switch t {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	default:
		return "unknown"
	}
}
