package rebin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rebin/blob"
	"github.com/arloliu/rebin/format"
)

// TestNewRebinner verifies boundary construction and aggregation through the
// top-level wrapper
func TestNewRebinner(t *testing.T) {
	counts := []float64{10, 20, 5, 5, 40}

	rb, err := NewRebinner(counts, 25.0)
	require.NoError(t, err)
	require.NotNil(t, rb)
	require.Equal(t, 2, rb.NBins())

	rebinned, err := rb.Rebin([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	require.Equal(t, [][]float64{{3, 12}}, rebinned)
}

// TestNewTemporalBinner verifies constant-width binning through the top-level wrapper
func TestNewTemporalBinner(t *testing.T) {
	times := []float64{0, 1.5, 3, 4.5, 6, 7.5, 9, 10}

	tb, err := NewTemporalBinner(times)
	require.NoError(t, err)
	require.NotNil(t, tb)

	err = tb.BinByConstant(2.5)
	require.NoError(t, err)
	require.Equal(t, 4, tb.NBins())

	starts, stops := tb.Bins()
	require.Equal(t, []float64{0, 2.5, 5, 7.5}, starts)
	require.Equal(t, []float64{2.5, 5, 7.5, 10}, stops)
}

// TestNewEncoder verifies custom encoder creation
func TestNewEncoder(t *testing.T) {
	epoch := time.Now()

	encoder, err := NewEncoder(epoch,
		blob.WithEdgeEncoding(format.TypeRaw),
		blob.WithValueCompression(format.CompressionZstd),
	)

	require.NoError(t, err)
	require.NotNil(t, encoder)
}

// TestSeriesID verifies hashing is deterministic and distinguishes names
func TestSeriesID(t *testing.T) {
	id1 := SeriesID("det.n3")
	id2 := SeriesID("det.n3")
	id3 := SeriesID("det.b1")

	require.Equal(t, id1, id2)
	require.NotEqual(t, id1, id3)
	require.NotZero(t, id1)
}

// TestRebinEncodeDecode runs the full pipeline: derive bin boundaries from
// counts, aggregate the companion sequences, store the result in a blob and
// read it back.
func TestRebinEncodeDecode(t *testing.T) {
	// Per-element light curve with 0.5-second cadence.
	counts := []float64{12, 8, 15, 3, 2, 1, 30, 9}
	rates := []float64{24, 16, 30, 6, 4, 2, 60, 18}
	rateErrs := []float64{3, 4, 5, 1, 1, 1, 12, 4}
	starts := []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5}
	stops := []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4}

	rb, err := NewRebinner(counts, 20.0)
	require.NoError(t, err)

	binned, err := rb.Rebin(rates)
	require.NoError(t, err)
	binnedErrs, err := rb.RebinErrors(rateErrs)
	require.NoError(t, err)
	newStarts, newStops, err := rb.RebinEdges(starts, stops)
	require.NoError(t, err)

	nbins := rb.NBins()
	require.Len(t, binned[0], nbins)

	epoch := time.UnixMicro(1700000000000000).UTC()
	encoder, err := NewEncoder(epoch,
		blob.WithValueCompression(format.CompressionZstd),
		blob.WithBinErrors(),
	)
	require.NoError(t, err)

	err = encoder.StartSeriesName("det.n3", nbins)
	require.NoError(t, err)
	err = encoder.AddBins(newStarts, newStops, binned[0], binnedErrs[0])
	require.NoError(t, err)
	err = encoder.EndSeries()
	require.NoError(t, err)

	data, err := encoder.Finish()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	decoder, err := NewDecoder(data)
	require.NoError(t, err)
	decoded, err := decoder.Decode()
	require.NoError(t, err)

	require.Equal(t, 1, decoded.SeriesCount())
	require.Equal(t, epoch, decoded.Epoch())
	require.True(t, decoded.HasSeries(SeriesID("det.n3")))
	require.Equal(t, nbins, decoded.Len(SeriesID("det.n3")))

	var got []blob.Bin
	for bin := range decoded.AllByName("det.n3") {
		got = append(got, bin)
	}

	require.Len(t, got, nbins)
	for i, bin := range got {
		require.InDelta(t, newStarts[i], bin.Start, 1e-9)
		require.InDelta(t, newStops[i], bin.Stop, 1e-9)
		require.Equal(t, binned[0][i], bin.Value)
		require.Equal(t, binnedErrs[0][i], bin.Err)
	}
}
