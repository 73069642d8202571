package section

import (
	"github.com/arloliu/rebin/endian"
	"github.com/arloliu/rebin/errs"
	"github.com/arloliu/rebin/format"
)

// Flag represents the packed field for various flags in the blob header.
type Flag struct {
	// Options is a packed field for various options.
	// Bit 0 is the bin errors flag, 0 means no error payload, 1 means the blob
	// carries a per-bin error payload.
	// Bit 1 is the endianness flag, 0 means little-endian, 1 means big-endian.
	// Bits 2-3 are reserved for future use, must be set to 0.
	// Bits 4-15 are the magic number identifying the blob format:
	//   - 0xBB10 (0b1011_1011_0001_0000): binned-series blob format v1
	Options uint16

	// EncodingType is an enum indicating the encodings used for this blob.
	// Bits 0-3 for edge encoding, bits 4-7 for value encoding.
	EncodingType uint8
	// CompressionType is an enum indicating the compressions used for this blob.
	// Bits 0-3 for edge payload compression, bits 4-7 for value payload compression.
	CompressionType uint8
}

var (
	validEdgeEncodings = map[uint8]struct{}{
		uint8(format.TypeRaw):   {},
		uint8(format.TypeDelta): {},
	}

	validValueEncodings = map[uint8]struct{}{
		uint8(format.TypeRaw): {},
	}

	validCompressions = map[uint8]struct{}{
		uint8(format.CompressionNone): {},
		uint8(format.CompressionZstd): {},
		uint8(format.CompressionS2):   {},
		uint8(format.CompressionLZ4):  {},
	}
)

// NewFlag creates a new Flag with default settings: little-endian, delta
// edge encoding, raw value encoding, no compression, no bin errors.
func NewFlag() Flag {
	flag := Flag{
		Options:         MagicBinnedV1Opt,
		EncodingType:    EdgeTypeDelta | ValueTypeRaw,
		CompressionType: EdgeCompressionNone | ValueCompressionNone,
	}
	flag.WithLittleEndian()

	return flag
}

// HasBinErrors returns whether the blob carries a per-bin error payload.
func (f Flag) HasBinErrors() bool {
	return (f.Options & BinErrorsMask) != 0
}

// WithBinErrors enables the per-bin error payload.
func (f *Flag) WithBinErrors() {
	f.Options |= BinErrorsMask
}

// WithoutBinErrors disables the per-bin error payload.
func (f *Flag) WithoutBinErrors() {
	f.Options &^= BinErrorsMask
}

// IsLittleEndian returns whether the data is little-endian.
func (f Flag) IsLittleEndian() bool {
	return (f.Options & EndiannessMask) == 0
}

// IsBigEndian returns whether the data is big-endian.
func (f Flag) IsBigEndian() bool {
	return (f.Options & EndiannessMask) != 0
}

// WithLittleEndian sets little-endian byte order.
func (f *Flag) WithLittleEndian() {
	f.Options &= ^uint16(EndiannessMask)
}

// WithBigEndian sets big-endian byte order.
func (f *Flag) WithBigEndian() {
	f.Options |= EndiannessMask
}

// GetMagicNumber returns the magic number from the Options field.
func (f Flag) GetMagicNumber() uint16 {
	return f.Options & MagicNumberMask
}

// EdgeEncoding returns the edge encoding type from bits 0-3 of EncodingType.
func (f Flag) EdgeEncoding() format.EncodingType {
	return format.EncodingType(f.EncodingType & 0x0F)
}

// SetEdgeEncoding sets the edge encoding type in bits 0-3 of EncodingType.
func (f *Flag) SetEdgeEncoding(enc format.EncodingType) {
	f.EncodingType &^= 0x0F // Clear bits 0-3
	f.EncodingType |= (uint8(enc) & 0x0F)
}

// ValueEncoding returns the value encoding type from bits 4-7 of EncodingType.
func (f Flag) ValueEncoding() format.EncodingType {
	return format.EncodingType((f.EncodingType >> 4) & 0x0F)
}

// SetValueEncoding sets the value encoding type in bits 4-7 of EncodingType.
func (f *Flag) SetValueEncoding(enc format.EncodingType) {
	f.EncodingType &^= 0xF0 // Clear bits 4-7
	f.EncodingType |= (uint8(enc) & 0x0F) << 4
}

// EdgeCompression returns the edge compression type from bits 0-3 of CompressionType.
func (f Flag) EdgeCompression() format.CompressionType {
	return format.CompressionType(f.CompressionType & 0x0F)
}

// SetEdgeCompression sets the edge compression type in bits 0-3 of CompressionType.
func (f *Flag) SetEdgeCompression(compression format.CompressionType) {
	f.CompressionType &^= 0x0F // Clear bits 0-3
	f.CompressionType |= (uint8(compression) & 0x0F)
}

// ValueCompression returns the value compression type from bits 4-7 of CompressionType.
func (f Flag) ValueCompression() format.CompressionType {
	return format.CompressionType((f.CompressionType >> 4) & 0x0F)
}

// SetValueCompression sets the value compression type in bits 4-7 of CompressionType.
func (f *Flag) SetValueCompression(compression format.CompressionType) {
	f.CompressionType &^= 0xF0 // Clear bits 4-7
	f.CompressionType |= (uint8(compression) & 0x0F) << 4
}

// IsValidMagicNumber checks if the magic number is valid.
func (f Flag) IsValidMagicNumber() bool {
	return f.GetMagicNumber() == MagicBinnedV1Opt
}

// IsValidEncoding checks if the encoding types are valid.
func (f Flag) IsValidEncoding() bool {
	edgeEncoding := f.EncodingType & 0x0F
	valueEncoding := (f.EncodingType >> 4) & 0x0F

	_, validEdge := validEdgeEncodings[edgeEncoding]
	_, validValue := validValueEncodings[valueEncoding]

	return validEdge && validValue
}

// IsValidCompression checks if the compression types are valid.
func (f Flag) IsValidCompression() bool {
	edgeCompression := f.CompressionType & 0x0F
	valueCompression := (f.CompressionType >> 4) & 0x0F

	_, validEdge := validCompressions[edgeCompression]
	_, validValue := validCompressions[valueCompression]

	return validEdge && validValue
}

// Validate checks if the flag header contains valid values.
func (f Flag) Validate() error {
	if !f.IsValidMagicNumber() {
		return errs.ErrInvalidMagicNumber
	}

	if (f.Options & ReservedBitsMask) != 0 {
		return errs.ErrInvalidHeaderFlags
	}

	if !f.IsValidEncoding() {
		return errs.ErrInvalidHeaderFlags
	}

	if !f.IsValidCompression() {
		return errs.ErrInvalidHeaderFlags
	}

	return nil
}

// GetEndianEngine returns the appropriate endian engine based on the flag.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	if f.IsLittleEndian() {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}
