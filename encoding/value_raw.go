package encoding

import (
	"iter"
	"math"

	"github.com/arloliu/rebin/endian"
	"github.com/arloliu/rebin/internal/pool"
)

// ValueRawEncoder encodes bin values (or bin errors) as fixed 8-byte IEEE 754
// floats in the byte order of the supplied engine.
//
// Bin values are aggregates of event counts and rarely share bit patterns
// with their neighbors, so raw is the only value codec; compression of the
// value payload is left to the blob-level compressor.
type ValueRawEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnarEncoder[float64] = (*ValueRawEncoder)(nil)

// NewValueRawEncoder creates a raw value encoder backed by a pooled buffer.
func NewValueRawEncoder(engine endian.EndianEngine) *ValueRawEncoder {
	return &ValueRawEncoder{buf: pool.GetBlobBuffer(), engine: engine}
}

// Bytes returns the encoded byte slice of all values written so far.
// The returned slice is valid until the next call to Write, WriteSlice, or
// Finish, and must not be modified by the caller.
func (e *ValueRawEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of values written since the last Finish.
func (e *ValueRawEncoder) Len() int {
	return e.count
}

// Size returns the number of bytes written to the internal buffer.
func (e *ValueRawEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset is a no-op: the raw codec keeps no per-series state, and the
// accumulated buffer is retained until Finish.
func (e *ValueRawEncoder) Reset() {}

// Finish returns the internal buffer to the pool. The encoder is no longer
// usable afterwards; subsequent calls to Write, WriteSlice, Bytes, or Size
// will panic due to the nil buffer.
func (e *ValueRawEncoder) Finish() {
	if e.buf != nil {
		pool.PutBlobBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// Write encodes a single value and appends it to the buffer.
func (e *ValueRawEncoder) Write(value float64) {
	e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(value))
	e.count++
}

// WriteSlice encodes a slice of values and appends them to the buffer.
func (e *ValueRawEncoder) WriteSlice(values []float64) {
	if len(values) == 0 {
		return
	}

	e.buf.Grow(len(values) * 8)
	for _, value := range values {
		e.buf.B = e.engine.AppendUint64(e.buf.B, math.Float64bits(value))
	}
	e.count += len(values)
}

// ValueRawDecoder decodes values produced by ValueRawEncoder.
//
// The decoder is stateless and safe for concurrent use.
type ValueRawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[float64] = ValueRawDecoder{}

// NewValueRawDecoder creates a decoder for fixed 8-byte values in the byte
// order of the supplied engine.
func NewValueRawDecoder(engine endian.EndianEngine) ValueRawDecoder {
	return ValueRawDecoder{engine: engine}
}

// All returns an iterator that yields up to count values decoded from data.
func (d ValueRawDecoder) All(data []byte, count int) iter.Seq[float64] {
	if len(data) == 0 || count <= 0 {
		return func(yield func(float64) bool) {}
	}

	return func(yield func(float64) bool) {
		n := min(count, len(data)/8)
		for i := range n {
			value := math.Float64frombits(d.engine.Uint64(data[i*8:]))
			if !yield(value) {
				return
			}
		}
	}
}

// At returns the value at the given index in O(1).
func (d ValueRawDecoder) At(data []byte, index int, count int) (float64, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	offset := index * 8
	if offset+8 > len(data) {
		return 0, false
	}

	return math.Float64frombits(d.engine.Uint64(data[offset:])), true
}
