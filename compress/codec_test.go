package compress

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rebin/format"
)

func testPayload(n int) []byte {
	rng := rand.New(rand.NewSource(42))
	data := make([]byte, n)
	// Repetitive structure so every codec has something to compress.
	for i := range data {
		if i%16 < 8 {
			data[i] = byte(i % 7)
		} else {
			data[i] = byte(rng.Intn(4))
		}
	}

	return data
}

func TestCreateCodec_AllTypes(t *testing.T) {
	types := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}

	for _, ct := range types {
		codec, err := CreateCodec(ct, "edge")
		require.NoError(t, err, "compression type %s", ct)
		require.NotNil(t, codec)
	}
}

func TestCreateCodec_InvalidType(t *testing.T) {
	codec, err := CreateCodec(format.CompressionType(0xF), "value")
	require.Error(t, err)
	require.Nil(t, codec)
	require.Contains(t, err.Error(), "value")
}

func TestGetCodec_MatchesCreateCodec(t *testing.T) {
	codec, err := GetCodec(format.CompressionS2)
	require.NoError(t, err)
	require.NotNil(t, codec)

	_, err = GetCodec(format.CompressionType(0x9))
	require.Error(t, err)
}

func TestCodec_RoundTrip(t *testing.T) {
	payload := testPayload(4096)

	tests := []struct {
		name  string
		codec Codec
	}{
		{"noop", NewNoOpCompressor()},
		{"zstd", NewZstdCompressor()},
		{"s2", NewS2Compressor()},
		{"lz4", NewLZ4Compressor()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed, err := tt.codec.Compress(payload)
			require.NoError(t, err)

			restored, err := tt.codec.Decompress(compressed)
			require.NoError(t, err)
			require.True(t, bytes.Equal(payload, restored))
		})
	}
}

func TestCodec_EmptyInput(t *testing.T) {
	codecs := []Codec{
		NewZstdCompressor(),
		NewS2Compressor(),
		NewLZ4Compressor(),
	}

	for _, codec := range codecs {
		compressed, err := codec.Compress(nil)
		require.NoError(t, err)

		restored, err := codec.Decompress(compressed)
		require.NoError(t, err)
		require.Empty(t, restored)
	}
}

func TestCodec_CompressesRepetitiveData(t *testing.T) {
	payload := testPayload(16 * 1024)

	for _, codec := range []Codec{NewZstdCompressor(), NewS2Compressor(), NewLZ4Compressor()} {
		compressed, err := codec.Compress(payload)
		require.NoError(t, err)
		require.Less(t, len(compressed), len(payload))
	}
}

func TestLZ4Compressor_Decompress_InvalidData(t *testing.T) {
	codec := NewLZ4Compressor()

	_, err := codec.Decompress([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	require.Error(t, err)
}

func TestCompressionStats_Ratios(t *testing.T) {
	stats := CompressionStats{
		Algorithm:      format.CompressionZstd,
		OriginalSize:   1000,
		CompressedSize: 250,
	}

	require.InDelta(t, 0.25, stats.CompressionRatio(), 1e-9)
	require.InDelta(t, 75.0, stats.SpaceSavings(), 1e-9)

	empty := CompressionStats{}
	require.Zero(t, empty.CompressionRatio())
}
