package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodingType_String(t *testing.T) {
	require.Equal(t, "raw", TypeRaw.String())
	require.Equal(t, "delta", TypeDelta.String())
	require.Equal(t, "unknown", EncodingType(0xF).String())
}

func TestCompressionType_String(t *testing.T) {
	require.Equal(t, "none", CompressionNone.String())
	require.Equal(t, "zstd", CompressionZstd.String())
	require.Equal(t, "s2", CompressionS2.String())
	require.Equal(t, "lz4", CompressionLZ4.String())
	require.Equal(t, "unknown", CompressionType(0xF).String())
}
