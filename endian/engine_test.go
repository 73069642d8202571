package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLittleEndianEngine_ReturnsStandardOrder(t *testing.T) {
	engine := GetLittleEndianEngine()
	require.Equal(t, binary.LittleEndian, engine)

	buf := make([]byte, 8)
	engine.PutUint64(buf, 0x0102030405060708)
	require.Equal(t, []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}, buf)
}

func TestGetBigEndianEngine_ReturnsStandardOrder(t *testing.T) {
	engine := GetBigEndianEngine()
	require.Equal(t, binary.BigEndian, engine)

	buf := make([]byte, 8)
	engine.PutUint64(buf, 0x0102030405060708)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}, buf)
}

func TestEndianEngine_AppendRoundTrip(t *testing.T) {
	for _, engine := range []EndianEngine{GetLittleEndianEngine(), GetBigEndianEngine()} {
		buf := engine.AppendUint32(nil, 0xDEADBEEF)
		require.Len(t, buf, 4)
		require.Equal(t, uint32(0xDEADBEEF), engine.Uint32(buf))
	}
}

func TestCheckEndianness_ConsistentWithHelpers(t *testing.T) {
	native := CheckEndianness()
	if native == binary.LittleEndian {
		require.True(t, IsNativeLittleEndian())
		require.False(t, IsNativeBigEndian())
		require.True(t, CompareNativeEndian(GetLittleEndianEngine()))
	} else {
		require.True(t, IsNativeBigEndian())
		require.False(t, IsNativeLittleEndian())
		require.True(t, CompareNativeEndian(GetBigEndianEngine()))
	}
}
