package encoding

import "iter"

type ColumnarEncoder[T comparable] interface {
	// Bytes returns the encoded byte slice.
	// The returned slice is valid until the next call to Write, WriteSlice, or Finish.
	// The caller should not modify the returned slice.
	Bytes() []byte

	// Len returns the number of encoded values.
	//
	// The Reset() method does not clear the internal buffer, so Len reports the
	// total across all series written since the last Finish.
	Len() int

	// Size returns the size in bytes of the encoded values.
	// It represents the number of bytes that were written to the internal buffer.
	Size() int

	// Reset clears the per-series encoder state but keeps the accumulated data in
	// the internal buffer. Callers invoke it at series boundaries so that each
	// series payload can later be sliced out and decoded independently.
	//
	// The Len(), Size() and Bytes() results remain unchanged after Reset.
	Reset()

	// Finish finalizes the encoding process and returns buffer resources to the pool.
	//
	// This method must be called when the encoding session is complete to ensure
	// buffer resources are properly returned to the pool for reuse by other
	// encoders. Use defer to ensure it's called even in error paths:
	//
	//	encoder := NewValueRawEncoder(engine)
	//	defer encoder.Finish()
	//
	//	encoder.Write(value)
	//	data := encoder.Bytes() // Get data before Finish
	//
	// Whether the encoder remains usable after Finish is implementation specific;
	// see the concrete types for details.
	Finish()

	// Write a single value.
	//
	// This method is optimized for appending a single value.
	// For bulk writes, use WriteSlice for better performance.
	Write(value T)

	// WriteSlice encodes a slice of values.
	//
	// This method is optimized for bulk writes. For single writes, use Write for
	// better performance.
	WriteSlice(values []T)
}

type ColumnarDecoder[T comparable] interface {
	// All returns an iterator that yields all decoded values from the provided
	// encoded data.
	//
	// The data should be the byte slice payload produced by a corresponding
	// encoder. The count parameter specifies the expected number of values.
	//
	// The iterator yields exactly count values when the data is valid. If the
	// data is malformed or truncated it may yield fewer; the caller should
	// handle this case appropriately.
	All(data []byte, count int) iter.Seq[T]

	// At retrieves the value at the specified index from the encoded data.
	//
	// The index is zero-based. The count parameter specifies the total number of
	// values encoded in the data, enabling bounds checking.
	//
	// If the index is out of bounds or the data is malformed, the second return
	// value is false.
	At(data []byte, index int, count int) (T, bool)
}
