package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rebin/endian"
	"github.com/arloliu/rebin/errs"
)

func TestIndexEntry_RoundTrip(t *testing.T) {
	entry := NewIndexEntry(0xDEADBEEF12345678, 500, 1024)

	for _, engine := range []endian.EndianEngine{
		endian.GetLittleEndianEngine(),
		endian.GetBigEndianEngine(),
	} {
		data := entry.Bytes(engine)
		require.Len(t, data, IndexEntrySize)

		parsed, err := ParseIndexEntry(data, engine)
		require.NoError(t, err)
		require.Equal(t, uint64(0xDEADBEEF12345678), parsed.SeriesID)
		require.Equal(t, 500, parsed.BinCount)
		require.Equal(t, 1024, parsed.EdgeOffset)
		require.Zero(t, parsed.EdgeLength)
		require.Zero(t, parsed.ValueOffset)
	}
}

func TestIndexEntry_WriteToSlice(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	entries := []IndexEntry{
		NewIndexEntry(100, 40, 0),
		NewIndexEntry(200, 25, 130),
	}

	data := make([]byte, len(entries)*IndexEntrySize)
	offset := 0
	for i := range entries {
		offset = entries[i].WriteToSlice(data, offset, engine)
	}
	require.Equal(t, len(data), offset)

	for i, want := range entries {
		parsed, err := ParseIndexEntry(data[i*IndexEntrySize:], engine)
		require.NoError(t, err)
		require.Equal(t, want.SeriesID, parsed.SeriesID)
		require.Equal(t, want.BinCount, parsed.BinCount)
		require.Equal(t, want.EdgeOffset, parsed.EdgeOffset)
	}
}

func TestParseIndexEntry_ShortData(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	_, err := ParseIndexEntry(make([]byte, IndexEntrySize-1), engine)
	require.ErrorIs(t, err, errs.ErrInvalidIndexEntrySize)
}
