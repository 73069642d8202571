package section

import (
	"math"

	"github.com/arloliu/rebin/format"
)

const (
	// Bit masks for the packed Options field
	BinErrorsMask    = 0x0001 // Mask for bin errors bit (bit 0)
	EndiannessMask   = 0x0002 // Mask for endianness bit (bit 1)
	ReservedBitsMask = 0x000C // Mask for reserved bits (bits 2-3)
	MagicNumberMask  = 0xFFF0 // Mask for magic number (bits 4-15)

	// Magic numbers (bits 4-15)
	MagicBinnedV1Opt = 0xBB10 // version 1 magic number for the binned-series blob format.

	// Edge encodings (bits 0-3 of the encoding byte)
	EdgeTypeRaw   = uint8(format.TypeRaw)   // fixed 8-byte edge offsets
	EdgeTypeDelta = uint8(format.TypeDelta) // zigzag varint delta edge offsets

	// Value encodings (bits 4-7 of the encoding byte)
	ValueTypeRaw = uint8(format.TypeRaw) << 4 // fixed 8-byte IEEE 754 values

	// Edge compression (bits 0-3 of the compression byte)
	EdgeCompressionNone = uint8(format.CompressionNone)
	EdgeCompressionZstd = uint8(format.CompressionZstd)
	EdgeCompressionS2   = uint8(format.CompressionS2)
	EdgeCompressionLZ4  = uint8(format.CompressionLZ4)

	// Value compression (bits 4-7 of the compression byte)
	ValueCompressionNone = uint8(format.CompressionNone) << 4
	ValueCompressionZstd = uint8(format.CompressionZstd) << 4
	ValueCompressionS2   = uint8(format.CompressionS2) << 4
	ValueCompressionLZ4  = uint8(format.CompressionLZ4) << 4
)

// offset and section sizes in the blob file
const (
	HeaderSize        = 32             // fixed header size in bytes
	IndexEntrySize    = 16             // fixed index entry size in bytes
	IndexOffsetOffset = HeaderSize     // byte offset where the index section starts
	MaxPayloadOffset  = math.MaxUint32 // maximum byte offset addressable by an index entry
	MaxBinCount       = math.MaxUint16 // maximum number of bins per series
)
