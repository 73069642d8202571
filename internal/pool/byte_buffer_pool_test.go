package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_MustWrite_AppendsData(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte{1, 2, 3})
	bb.MustWrite([]byte{4, 5})

	require.Equal(t, 5, bb.Len())
	require.Equal(t, []byte{1, 2, 3, 4, 5}, bb.Bytes())
}

func TestByteBuffer_Reset_KeepsCapacity(t *testing.T) {
	bb := NewByteBuffer(8)
	bb.MustWrite([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9})

	capBefore := bb.Cap()
	bb.Reset()

	require.Equal(t, 0, bb.Len())
	require.Equal(t, capBefore, bb.Cap())
}

func TestByteBuffer_Grow_EnsuresCapacity(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte{1, 2})

	bb.Grow(1024)

	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 1024)
	require.Equal(t, []byte{1, 2}, bb.Bytes())
}

func TestByteBuffer_ExtendOrGrow_LengthensBuffer(t *testing.T) {
	bb := NewByteBuffer(4)
	bb.MustWrite([]byte{1, 2})

	bb.ExtendOrGrow(8)

	require.Equal(t, 10, bb.Len())
}

func TestByteBuffer_SetLength_PanicsOnInvalid(t *testing.T) {
	bb := NewByteBuffer(4)

	require.Panics(t, func() { bb.SetLength(-1) })
	require.Panics(t, func() { bb.SetLength(bb.Cap() + 1) })
}

func TestByteBufferPool_PutGet_ReusesBuffer(t *testing.T) {
	p := NewByteBufferPool(16, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	bb.MustWrite([]byte{1, 2, 3})
	p.Put(bb)

	got := p.Get()
	require.NotNil(t, got)
	require.Equal(t, 0, got.Len())
}

func TestByteBufferPool_Put_DiscardsOversized(t *testing.T) {
	p := NewByteBufferPool(16, 32)

	bb := NewByteBuffer(128)
	// Must not panic; oversized buffers are silently dropped.
	p.Put(bb)
	p.Put(nil)
}
