package encoding

import (
	"iter"

	"github.com/arloliu/rebin/endian"
	"github.com/arloliu/rebin/internal/pool"
)

// EdgeRawEncoder encodes bin edge offsets as fixed 8-byte integers in the
// byte order of the supplied engine.
//
// Raw edges are four times larger than typical delta encodings but decode
// with O(1) random access, which matters for point lookups into very long
// series.
type EdgeRawEncoder struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
	count  int
}

var _ ColumnarEncoder[int64] = (*EdgeRawEncoder)(nil)

// NewEdgeRawEncoder creates a raw edge encoder backed by a pooled buffer.
func NewEdgeRawEncoder(engine endian.EndianEngine) *EdgeRawEncoder {
	return &EdgeRawEncoder{buf: pool.GetBlobBuffer(), engine: engine}
}

// Bytes returns the encoded byte slice of all edges written so far.
// The returned slice is valid until the next call to Write, WriteSlice, or
// Finish, and must not be modified by the caller.
func (e *EdgeRawEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of edges written since the last Finish.
func (e *EdgeRawEncoder) Len() int {
	return e.count
}

// Size returns the number of bytes written to the internal buffer.
func (e *EdgeRawEncoder) Size() int {
	if e.buf == nil {
		panic("encoder already finished - cannot access size after Finish()")
	}

	return e.buf.Len()
}

// Reset is a no-op: the raw codec keeps no per-series state, and the
// accumulated buffer is retained until Finish.
func (e *EdgeRawEncoder) Reset() {}

// Finish returns the internal buffer to the pool. The encoder is no longer
// usable afterwards; subsequent calls to Write, WriteSlice, Bytes, or Size
// will panic due to the nil buffer.
func (e *EdgeRawEncoder) Finish() {
	if e.buf != nil {
		pool.PutBlobBuffer(e.buf)
		e.buf = nil
	}
	e.count = 0
}

// Write encodes a single edge offset and appends it to the buffer.
func (e *EdgeRawEncoder) Write(edge int64) {
	e.buf.B = e.engine.AppendUint64(e.buf.B, uint64(edge)) //nolint:gosec
	e.count++
}

// WriteSlice encodes a slice of edge offsets and appends them to the buffer.
func (e *EdgeRawEncoder) WriteSlice(edges []int64) {
	if len(edges) == 0 {
		return
	}

	e.buf.Grow(len(edges) * 8)
	for _, edge := range edges {
		e.buf.B = e.engine.AppendUint64(e.buf.B, uint64(edge)) //nolint:gosec
	}
	e.count += len(edges)
}

// EdgeRawDecoder decodes edge offsets produced by EdgeRawEncoder.
//
// The decoder is stateless and safe for concurrent use.
type EdgeRawDecoder struct {
	engine endian.EndianEngine
}

var _ ColumnarDecoder[int64] = EdgeRawDecoder{}

// NewEdgeRawDecoder creates a decoder for fixed 8-byte edges in the byte
// order of the supplied engine.
func NewEdgeRawDecoder(engine endian.EndianEngine) EdgeRawDecoder {
	return EdgeRawDecoder{engine: engine}
}

// All returns an iterator that yields up to count edges decoded from data.
func (d EdgeRawDecoder) All(data []byte, count int) iter.Seq[int64] {
	if len(data) == 0 || count <= 0 {
		return func(yield func(int64) bool) {}
	}

	return func(yield func(int64) bool) {
		n := min(count, len(data)/8)
		for i := range n {
			edge := int64(d.engine.Uint64(data[i*8:])) //nolint:gosec
			if !yield(edge) {
				return
			}
		}
	}
}

// At returns the edge at the given index in O(1).
func (d EdgeRawDecoder) At(data []byte, index int, count int) (int64, bool) {
	if index < 0 || index >= count {
		return 0, false
	}

	offset := index * 8
	if offset+8 > len(data) {
		return 0, false
	}

	return int64(d.engine.Uint64(data[offset:])), true //nolint:gosec
}
