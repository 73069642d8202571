package blob

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rebin/errs"
	"github.com/arloliu/rebin/format"
	"github.com/arloliu/rebin/section"
)

// encodeTestBlob builds a two-series blob with the given options.
func encodeTestBlob(t *testing.T, opts ...EncoderOption) []byte {
	t.Helper()

	encoder, err := NewEncoder(testEpoch, opts...)
	require.NoError(t, err)

	require.NoError(t, encoder.StartSeriesName("alpha", 3))
	require.NoError(t, encoder.AddBins(
		[]float64{0, 2, 4.5},
		[]float64{2, 4.5, 7},
		[]float64{10.5, -3.25, 0.125},
		[]float64{0.5, 0.25, 0.125}))
	require.NoError(t, encoder.EndSeries())

	require.NoError(t, encoder.StartSeriesID(777, 2))
	require.NoError(t, encoder.AddBin(10, 12, 1.5, 0.1))
	require.NoError(t, encoder.AddBin(20, 30, 42.0, 0.2))
	require.NoError(t, encoder.EndSeries())

	data, err := encoder.Finish()
	require.NoError(t, err)

	return data
}

func decodeTestBlob(t *testing.T, data []byte) *BinnedBlob {
	t.Helper()

	decoder, err := NewDecoder(data)
	require.NoError(t, err)

	decoded, err := decoder.Decode()
	require.NoError(t, err)

	return decoded
}

func collectBins(b *BinnedBlob, seriesID uint64) []Bin {
	var bins []Bin
	for bin := range b.All(seriesID) {
		bins = append(bins, bin)
	}

	return bins
}

func TestDecoder_RoundTrip(t *testing.T) {
	compressions := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
	endians := []struct {
		name string
		opt  EncoderOption
	}{
		{"LittleEndian", WithLittleEndian()},
		{"BigEndian", WithBigEndian()},
	}

	for _, comp := range compressions {
		for _, endian := range endians {
			t.Run(comp.String()+"/"+endian.name, func(t *testing.T) {
				data := encodeTestBlob(t,
					endian.opt,
					WithEdgeCompression(comp),
					WithValueCompression(comp),
					WithBinErrors())

				decoded := decodeTestBlob(t, data)
				require.Equal(t, 2, decoded.SeriesCount())
				require.True(t, decoded.HasErrors())
				require.True(t, decoded.Epoch().Equal(testEpoch))

				bins := collectBins(decoded, decoded.ids[0])
				require.Len(t, bins, 3)
				require.Equal(t, []Bin{
					{Start: 0, Stop: 2, Value: 10.5, Err: 0.5},
					{Start: 2, Stop: 4.5, Value: -3.25, Err: 0.25},
					{Start: 4.5, Stop: 7, Value: 0.125, Err: 0.125},
				}, bins)

				bins = collectBins(decoded, 777)
				require.Len(t, bins, 2)
				require.Equal(t, []Bin{
					{Start: 10, Stop: 12, Value: 1.5, Err: 0.1},
					{Start: 20, Stop: 30, Value: 42.0, Err: 0.2},
				}, bins)
			})
		}
	}
}

func TestDecoder_RoundTripRawEdges(t *testing.T) {
	data := encodeTestBlob(t, WithEdgeEncoding(format.TypeRaw))

	decoded := decodeTestBlob(t, data)
	require.False(t, decoded.HasErrors())

	bins := collectBins(decoded, 777)
	require.Equal(t, []Bin{
		{Start: 10, Stop: 12, Value: 1.5, Err: 0},
		{Start: 20, Stop: 30, Value: 42.0, Err: 0},
	}, bins)
}

func TestDecoder_RoundTripNegativeOffsets(t *testing.T) {
	encoder, err := NewEncoder(testEpoch)
	require.NoError(t, err)

	// Bins that start before the epoch
	require.NoError(t, encoder.StartSeriesID(5, 2))
	require.NoError(t, encoder.AddBin(-5.5, -2, 3.0, 0))
	require.NoError(t, encoder.AddBin(-2, 1.25, 4.0, 0))
	require.NoError(t, encoder.EndSeries())

	data, err := encoder.Finish()
	require.NoError(t, err)

	decoded := decodeTestBlob(t, data)
	require.Equal(t, []Bin{
		{Start: -5.5, Stop: -2, Value: 3.0, Err: 0},
		{Start: -2, Stop: 1.25, Value: 4.0, Err: 0},
	}, collectBins(decoded, 5))
}

func TestDecoder_EdgeRoundingToMicroseconds(t *testing.T) {
	encoder, err := NewEncoder(testEpoch)
	require.NoError(t, err)

	require.NoError(t, encoder.StartSeriesID(9, 1))
	require.NoError(t, encoder.AddBin(1.0000004, 2.0000006, 1.0, 0))
	require.NoError(t, encoder.EndSeries())

	data, err := encoder.Finish()
	require.NoError(t, err)

	bins := collectBins(decodeTestBlob(t, data), 9)
	require.Len(t, bins, 1)
	require.InDelta(t, 1.0, bins[0].Start, 1e-12)
	require.InDelta(t, 2.000001, bins[0].Stop, 1e-12)
}

func TestNewDecoder_InvalidData(t *testing.T) {
	t.Run("ShortData", func(t *testing.T) {
		_, err := NewDecoder([]byte{0x01, 0x02, 0x03})
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("CorruptMagic", func(t *testing.T) {
		data := encodeTestBlob(t)
		data[0] = 0x00
		data[1] = 0x00
		_, err := NewDecoder(data)
		require.ErrorIs(t, err, errs.ErrInvalidMagicNumber)
	})

	t.Run("ReservedBitsSet", func(t *testing.T) {
		data := encodeTestBlob(t)
		data[0] |= 0x0C
		_, err := NewDecoder(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("InvalidEncodingNibble", func(t *testing.T) {
		data := encodeTestBlob(t)
		data[2] = 0x99
		_, err := NewDecoder(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})

	t.Run("InvalidCompressionNibble", func(t *testing.T) {
		data := encodeTestBlob(t)
		data[3] = 0xFF
		_, err := NewDecoder(data)
		require.ErrorIs(t, err, errs.ErrInvalidHeaderFlags)
	})
}

func TestDecoder_Decode_InvalidData(t *testing.T) {
	t.Run("PayloadOffsetBeyondBlob", func(t *testing.T) {
		data := encodeTestBlob(t)
		// Keep the header but drop everything after the index section
		truncated := data[:section.HeaderSize+2*section.IndexEntrySize]

		decoder, err := NewDecoder(truncated)
		require.NoError(t, err)

		_, err = decoder.Decode()
		require.ErrorIs(t, err, errs.ErrInvalidPayloadOffset)
	})

	t.Run("TruncatedIndex", func(t *testing.T) {
		header := section.NewHeader(testEpoch)
		header.SeriesCount = 1
		header.EdgePayloadOffset = section.HeaderSize
		header.ValuePayloadOffset = section.HeaderSize

		decoder, err := NewDecoder(header.Bytes())
		require.NoError(t, err)

		_, err = decoder.Decode()
		require.ErrorIs(t, err, errs.ErrInvalidIndexEntrySize)
	})

	t.Run("TruncatedValuePayload", func(t *testing.T) {
		data := encodeTestBlob(t)
		// Strip the last bin's value; the index still claims five bins
		truncated := data[:len(data)-8]

		decoder, err := NewDecoder(truncated)
		require.NoError(t, err)

		_, err = decoder.Decode()
		require.ErrorIs(t, err, errs.ErrInvalidIndexOffsets)
	})

	t.Run("DecreasingEdgeOffsets", func(t *testing.T) {
		header := section.NewHeader(testEpoch)
		header.SeriesCount = 2
		header.EdgePayloadOffset = section.HeaderSize + 2*section.IndexEntrySize
		header.ValuePayloadOffset = header.EdgePayloadOffset // empty edge payload
		engine := header.Flag.GetEndianEngine()

		data := make([]byte, int(header.ValuePayloadOffset)+2*8)
		copy(data, header.Bytes())

		first := section.NewIndexEntry(1, 1, 16)
		second := section.NewIndexEntry(2, 1, 0)
		offset := first.WriteToSlice(data, section.HeaderSize, engine)
		second.WriteToSlice(data, offset, engine)

		decoder, err := NewDecoder(data)
		require.NoError(t, err)

		_, err = decoder.Decode()
		require.ErrorIs(t, err, errs.ErrInvalidIndexOffsets)
	})

	t.Run("EdgeOffsetBeyondPayload", func(t *testing.T) {
		header := section.NewHeader(testEpoch)
		header.SeriesCount = 1
		header.EdgePayloadOffset = section.HeaderSize + section.IndexEntrySize
		header.ValuePayloadOffset = header.EdgePayloadOffset // empty edge payload
		engine := header.Flag.GetEndianEngine()

		data := make([]byte, int(header.ValuePayloadOffset)+8)
		copy(data, header.Bytes())

		entry := section.NewIndexEntry(1, 1, 100)
		entry.WriteToSlice(data, section.HeaderSize, engine)

		decoder, err := NewDecoder(data)
		require.NoError(t, err)

		_, err = decoder.Decode()
		require.ErrorIs(t, err, errs.ErrInvalidIndexOffsets)
	})
}
