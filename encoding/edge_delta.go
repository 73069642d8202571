package encoding

import (
	"encoding/binary"
	"iter"

	"github.com/arloliu/rebin/internal/pool"
)

// EdgeDeltaEncoder encodes bin edge offsets using zigzag varint delta
// compression.
//
// Each edge is stored as the zigzag-encoded difference from the previous
// edge; the first edge of a chain is a difference from zero, so a chain
// decodes without any out-of-band state. Consecutive edges of a binned
// series are close together, which keeps most deltas in the 1-2 byte range
// instead of the 8 bytes of the raw representation.
//
// The encoder accumulates multiple series into a single buffer. Call Reset
// at each series boundary to restart the delta chain while keeping the
// accumulated bytes.
type EdgeDeltaEncoder struct {
	buf      *pool.ByteBuffer
	prevEdge int64
	count    int
}

var _ ColumnarEncoder[int64] = (*EdgeDeltaEncoder)(nil)

// NewEdgeDeltaEncoder creates a delta encoder backed by a pooled buffer.
func NewEdgeDeltaEncoder() *EdgeDeltaEncoder {
	return &EdgeDeltaEncoder{buf: pool.GetBlobBuffer()}
}

// Bytes returns the encoded byte slice of all edges written so far.
// The returned slice is valid until the next call to Write, WriteSlice, or
// Finish, and must not be modified by the caller.
func (e *EdgeDeltaEncoder) Bytes() []byte {
	return e.buf.Bytes()
}

// Len returns the number of edges written since the last Finish.
func (e *EdgeDeltaEncoder) Len() int {
	return e.count
}

// Size returns the number of bytes written to the internal buffer since the
// last Finish.
func (e *EdgeDeltaEncoder) Size() int {
	return e.buf.Len()
}

// Reset restarts the delta chain: the next edge written is encoded relative
// to zero rather than to the previous edge. The accumulated buffer is kept,
// so Len, Size and Bytes remain unchanged.
//
// Callers restart the chain at series boundaries so that each series
// payload can be sliced out of the buffer and decoded independently.
func (e *EdgeDeltaEncoder) Reset() {
	e.prevEdge = 0
}

// Finish returns the internal buffer to the pool and re-arms the encoder
// with a fresh one. After Finish the encoder behaves as if newly created;
// Len, Size and Bytes return zero values.
func (e *EdgeDeltaEncoder) Finish() {
	pool.PutBlobBuffer(e.buf)
	e.buf = pool.GetBlobBuffer()
	e.prevEdge = 0
	e.count = 0
}

// Write encodes a single edge offset and appends it to the buffer.
func (e *EdgeDeltaEncoder) Write(edge int64) {
	e.appendUvarint(zigzagEncode(edge - e.prevEdge))
	e.prevEdge = edge
	e.count++
}

// WriteSlice encodes a slice of edge offsets and appends them to the buffer.
func (e *EdgeDeltaEncoder) WriteSlice(edges []int64) {
	if len(edges) == 0 {
		return
	}

	// Most deltas fit in two bytes; the first of a chain may need the full
	// varint width.
	e.buf.Grow(2*len(edges) + binary.MaxVarintLen64)

	prev := e.prevEdge
	for _, edge := range edges {
		e.appendUvarint(zigzagEncode(edge - prev))
		prev = edge
	}
	e.prevEdge = prev
	e.count += len(edges)
}

func (e *EdgeDeltaEncoder) appendUvarint(v uint64) {
	start := e.buf.Len()
	e.buf.ExtendOrGrow(binary.MaxVarintLen64)
	buf := e.buf.Slice(start, start+binary.MaxVarintLen64)
	n := binary.PutUvarint(buf, v)
	e.buf.SetLength(e.buf.Len() - (binary.MaxVarintLen64 - n))
}

// EdgeDeltaDecoder decodes edge offsets produced by EdgeDeltaEncoder.
//
// The decoder is stateless and safe for concurrent use; all iteration state
// lives in the sequence returned by All. The data passed to All or At must
// start at a chain boundary, i.e. at the offset recorded for the series in
// the blob index.
type EdgeDeltaDecoder struct{}

var _ ColumnarDecoder[int64] = EdgeDeltaDecoder{}

// NewEdgeDeltaDecoder creates a decoder for zigzag varint delta edges.
func NewEdgeDeltaDecoder() EdgeDeltaDecoder {
	return EdgeDeltaDecoder{}
}

// All returns an iterator that yields up to count edges decoded from data.
// Malformed or truncated data terminates the sequence early.
func (d EdgeDeltaDecoder) All(data []byte, count int) iter.Seq[int64] {
	if len(data) == 0 || count <= 0 {
		return func(yield func(int64) bool) {}
	}

	return func(yield func(int64) bool) {
		var cur int64
		pos := 0
		for i := 0; i < count; i++ {
			if pos >= len(data) {
				return
			}
			delta, n := binary.Uvarint(data[pos:])
			if n <= 0 {
				return
			}
			pos += n
			cur += zigzagDecode(delta)
			if !yield(cur) {
				return
			}
		}
	}
}

// At returns the edge at the given index, decoding sequentially from the
// start of the chain. Random access costs O(index); callers iterating a
// whole series should prefer All.
func (d EdgeDeltaDecoder) At(data []byte, index int, count int) (int64, bool) {
	if index < 0 || index >= count || len(data) == 0 {
		return 0, false
	}

	var cur int64
	pos := 0
	for i := 0; i <= index; i++ {
		if pos >= len(data) {
			return 0, false
		}
		delta, n := binary.Uvarint(data[pos:])
		if n <= 0 {
			return 0, false
		}
		pos += n
		cur += zigzagDecode(delta)
	}

	return cur, true
}

// zigzagEncode maps signed deltas onto the unsigned varint domain so small
// negative and positive values both produce short encodings.
func zigzagEncode(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63)) //nolint:gosec
}

func zigzagDecode(z uint64) int64 {
	return int64(z>>1) ^ -int64(z&1) //nolint:gosec
}
