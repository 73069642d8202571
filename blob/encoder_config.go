package blob

import (
	"fmt"
	"time"

	"github.com/arloliu/rebin/compress"
	"github.com/arloliu/rebin/endian"
	"github.com/arloliu/rebin/errs"
	"github.com/arloliu/rebin/format"
	"github.com/arloliu/rebin/internal/options"
	"github.com/arloliu/rebin/section"
)

// MaxSeriesCount is the maximum number of series allowed in a single blob.
const MaxSeriesCount = 65536

// Index entry capacity growth strategy constants for performance optimization.
const (
	// initialIndexCapacity is the initial capacity for index entries slice.
	// Small enough to avoid waste for small blobs, large enough to avoid early reallocations.
	initialIndexCapacity = 16

	// indexGrowthThreshold is the size threshold where we switch from 2x to 1.25x growth.
	// Below this, we use aggressive 2x doubling; above, we use conservative 1.25x growth.
	indexGrowthThreshold = 256
)

// EncoderConfig handles encoder configuration and shared state management.
//
// This struct follows the composition over inheritance principle, allowing the
// Encoder to focus on the encoding flow while reusing common configuration and
// index bookkeeping.
type EncoderConfig struct {
	header       *section.Header
	indexEntries []section.IndexEntry
	edgeCodec    compress.Codec
	valCodec     compress.Codec
	engine       endian.EndianEngine
}

// NewEncoderConfig creates a new EncoderConfig with the given epoch.
// The encoder will grow dynamically as series are added, up to MaxSeriesCount.
func NewEncoderConfig(epoch time.Time) *EncoderConfig {
	header := section.NewHeader(epoch)

	config := &EncoderConfig{
		header:       header,
		indexEntries: make([]section.IndexEntry, 0, initialIndexCapacity),
		engine:       header.Flag.GetEndianEngine(),
	}

	return config
}

// Configuration setter methods - these handle all the encoder options

// setEdgeEncoding sets the edge encoding type.
func (c *EncoderConfig) setEdgeEncoding(enc format.EncodingType) error {
	switch enc {
	case format.TypeRaw, format.TypeDelta:
		c.header.Flag.SetEdgeEncoding(enc)
		return nil
	default:
		return fmt.Errorf("%w: %v is not supported for edges", errs.ErrInvalidEncodingType, enc)
	}
}

// setEdgeCompression sets the edge payload compression type.
func (c *EncoderConfig) setEdgeCompression(comp format.CompressionType) error {
	switch comp {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		c.header.Flag.SetEdgeCompression(comp)
		return nil
	default:
		return fmt.Errorf("%w: %v is not supported for edges", errs.ErrInvalidCompressionType, comp)
	}
}

// setValueCompression sets the value payload compression type.
func (c *EncoderConfig) setValueCompression(comp format.CompressionType) error {
	switch comp {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
		c.header.Flag.SetValueCompression(comp)
		return nil
	default:
		return fmt.Errorf("%w: %v is not supported for values", errs.ErrInvalidCompressionType, comp)
	}
}

// setEndianness sets the endianness option.
func (c *EncoderConfig) setEndianness(end endianness) {
	switch end {
	case littleEndianOpt:
		c.header.Flag.WithLittleEndian()
	case bigEndianOpt:
		c.header.Flag.WithBigEndian()
	default:
		c.header.Flag.WithLittleEndian()
	}

	// Update the engine after changing endianness
	c.engine = c.header.Flag.GetEndianEngine()
}

// setBinErrors enables the per-bin error payload.
func (c *EncoderConfig) setBinErrors() {
	c.header.Flag.WithBinErrors()
}

// Common helper methods used by the encoder

// Header returns the header for this encoder configuration.
func (c *EncoderConfig) Header() *section.Header {
	return c.header
}

// SeriesCount returns the current number of completed series.
func (c *EncoderConfig) SeriesCount() int {
	return len(c.indexEntries)
}

// EdgeCodec returns the edge payload compression codec.
func (c *EncoderConfig) EdgeCodec() compress.Codec {
	return c.edgeCodec
}

// ValueCodec returns the value payload compression codec.
// The error payload shares this codec because both sections have the same
// fixed 8-byte-per-bin layout.
func (c *EncoderConfig) ValueCodec() compress.Codec {
	return c.valCodec
}

// addEntryIndex adds a new entry index for a completed series.
// Uses amortized growth strategy to minimize allocations:
// - 2x growth up to 256 entries (aggressive for small blobs)
// - 1.25x growth beyond 256 (conservative for large blobs)
func (c *EncoderConfig) addEntryIndex(entry section.IndexEntry) {
	// Check if we need to grow the slice capacity
	if len(c.indexEntries) == cap(c.indexEntries) {
		// Calculate new capacity using amortized growth
		oldCap := cap(c.indexEntries)
		var newCap int
		if oldCap < indexGrowthThreshold {
			// Aggressive 2x growth for small slices
			newCap = oldCap * 2
		} else {
			// Conservative 1.25x growth for large slices
			newCap = oldCap + oldCap/4
		}

		// Ensure we don't exceed MaxSeriesCount
		if newCap > MaxSeriesCount {
			newCap = MaxSeriesCount
		}

		// Manually grow the slice to avoid append's internal reallocation
		newEntries := make([]section.IndexEntry, len(c.indexEntries), newCap)
		copy(newEntries, c.indexEntries)
		c.indexEntries = newEntries
	}

	c.indexEntries = append(c.indexEntries, entry)
}

// setCodecs sets the compression codecs.
func (c *EncoderConfig) setCodecs(header section.Header) error {
	// Create compressors based on header settings
	edgeCodec, err := compress.CreateCodec(header.Flag.EdgeCompression(), "edge")
	if err != nil {
		return err
	}

	valCodec, err := compress.CreateCodec(header.Flag.ValueCompression(), "value")
	if err != nil {
		return err
	}

	c.edgeCodec = edgeCodec
	c.valCodec = valCodec

	return nil
}

// endianness represents the byte order configuration option.
type endianness uint8

const (
	littleEndianOpt endianness = iota
	bigEndianOpt    endianness = iota
)

// EncoderOption represents a functional option for configuring the EncoderConfig.
// This is a type alias for the generic Option interface specialized for EncoderConfig.
type EncoderOption = options.Option[*EncoderConfig]

// WithLittleEndian sets the encoder to use little-endian byte order.
// It is the default option.
func WithLittleEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.setEndianness(littleEndianOpt)
	})
}

// WithBigEndian sets the encoder to use big-endian byte order.
// It rarely needs to be used unless interoperability with big-endian systems is required.
func WithBigEndian() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.setEndianness(bigEndianOpt)
	})
}

// WithEdgeEncoding sets the edge encoding type for the encoder.
// Delta encoding is the default and usually the smallest; raw encoding keeps
// fixed 8-byte edges that support random access.
func WithEdgeEncoding(enc format.EncodingType) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.setEdgeEncoding(enc)
	})
}

// WithEdgeCompression sets the edge payload compression type for the encoder.
func WithEdgeCompression(comp format.CompressionType) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.setEdgeCompression(comp)
	})
}

// WithValueCompression sets the value payload compression type for the encoder.
// The bin error payload, when enabled, is compressed with the same codec.
func WithValueCompression(comp format.CompressionType) EncoderOption {
	return options.New(func(c *EncoderConfig) error {
		return c.setValueCompression(comp)
	})
}

// WithBinErrors enables the per-bin error payload.
// Every bin in the blob then carries a propagated error alongside its value.
func WithBinErrors() EncoderOption {
	return options.NoError(func(c *EncoderConfig) {
		c.setBinErrors()
	})
}
