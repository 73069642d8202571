package blob

import (
	"iter"
	"slices"
	"time"

	"github.com/arloliu/rebin/encoding"
	"github.com/arloliu/rebin/endian"
	"github.com/arloliu/rebin/format"
	"github.com/arloliu/rebin/internal/hash"
	"github.com/arloliu/rebin/section"
)

// Bin is a single decoded bin. Start and Stop are seconds relative to the
// blob epoch; Err is zero when the blob carries no error payload.
type Bin struct {
	// Start is the inclusive start edge of the bin.
	Start float64
	// Stop is the exclusive stop edge of the bin.
	Stop float64
	// Value is the aggregated bin value.
	Value float64
	// Err is the propagated bin error.
	Err float64
}

// BinnedBlob represents a decoded blob of binned series.
//
// The payloads are held decompressed; iteration decodes bins on the fly, so a
// BinnedBlob is cheap to keep around and safe to share between goroutines for
// reads.
type BinnedBlob struct {
	engine      endian.EndianEngine
	epoch       time.Time
	flag        section.Flag
	edgeEncType format.EncodingType

	index map[uint64]section.IndexEntry // seriesID → IndexEntry
	ids   []uint64                      // series IDs in encode order

	edgePayload []byte
	valPayload  []byte
	errPayload  []byte
}

// Epoch returns the blob epoch. All bin edges are relative to it.
func (b *BinnedBlob) Epoch() time.Time {
	return b.epoch
}

// SeriesCount returns the number of series in the blob.
func (b *BinnedBlob) SeriesCount() int {
	return len(b.ids)
}

// SeriesIDs returns all series IDs in encode order.
// The returned slice is cloned to prevent external modification.
func (b *BinnedBlob) SeriesIDs() []uint64 {
	return slices.Clone(b.ids)
}

// HasSeries returns whether the blob contains the given series ID.
func (b *BinnedBlob) HasSeries(seriesID uint64) bool {
	_, ok := b.index[seriesID]
	return ok
}

// HasSeriesName returns whether the blob contains a series whose name hashes
// to an ID present in the blob.
func (b *BinnedBlob) HasSeriesName(seriesName string) bool {
	return b.HasSeries(hash.ID(seriesName))
}

// HasErrors returns whether the blob carries a per-bin error payload.
func (b *BinnedBlob) HasErrors() bool {
	return b.flag.HasBinErrors()
}

// Len returns the number of bins for the given series ID.
// Returns 0 if the series ID doesn't exist.
func (b *BinnedBlob) Len(seriesID uint64) int {
	entry, ok := b.index[seriesID]
	if !ok {
		return 0
	}

	return entry.BinCount
}

// LenByName returns the number of bins for the given series name.
// Returns 0 if the series name doesn't exist.
func (b *BinnedBlob) LenByName(seriesName string) int {
	return b.Len(hash.ID(seriesName))
}

// All returns an iterator over the bins of the given series ID.
// Returns an empty sequence if the series is not in the blob.
//
// Example:
//
//	for bin := range blob.All(seriesID) {
//	    fmt.Printf("[%g, %g) value=%g\n", bin.Start, bin.Stop, bin.Value)
//	}
func (b *BinnedBlob) All(seriesID uint64) iter.Seq[Bin] {
	entry, ok := b.index[seriesID]
	if !ok {
		return func(yield func(Bin) bool) {}
	}

	return b.allFromEntry(entry)
}

// AllByName returns an iterator over the bins of the given series name.
// The name is hashed with xxHash64, the same way the encoder hashed it.
//
// Returns an empty sequence if the series is not in the blob.
func (b *BinnedBlob) AllByName(seriesName string) iter.Seq[Bin] {
	return b.All(hash.ID(seriesName))
}

// allFromEntry returns an iterator over all bins for the given entry.
//
// Edges are decoded sequentially from the series' edge chain; values and
// errors are fixed-width and read by index as each start/stop pair completes.
func (b *BinnedBlob) allFromEntry(entry section.IndexEntry) iter.Seq[Bin] {
	count := entry.BinCount
	if count == 0 {
		return func(yield func(Bin) bool) {}
	}

	edgeBytes := b.edgePayload[entry.EdgeOffset : entry.EdgeOffset+entry.EdgeLength]
	valBytes := b.valPayload[entry.ValueOffset : entry.ValueOffset+count*8]

	var errBytes []byte
	if b.HasErrors() {
		errBytes = b.errPayload[entry.ValueOffset : entry.ValueOffset+count*8]
	}

	return func(yield func(Bin) bool) {
		valDecoder := encoding.NewValueRawDecoder(b.engine)

		var bin Bin
		i := 0
		for edge := range b.decodeEdges(edgeBytes, 2*count) {
			if i%2 == 0 {
				bin.Start = secondsFromMicros(edge)
			} else {
				bin.Stop = secondsFromMicros(edge)
				idx := i / 2

				val, ok := valDecoder.At(valBytes, idx, count)
				if !ok {
					return
				}
				bin.Value = val

				bin.Err = 0
				if errBytes != nil {
					errVal, ok := valDecoder.At(errBytes, idx, count)
					if !ok {
						return
					}
					bin.Err = errVal
				}

				if !yield(bin) {
					return
				}
			}
			i++
		}
	}
}

// decodeEdges returns an iterator over the raw microsecond edge offsets of
// one series' edge chain.
func (b *BinnedBlob) decodeEdges(data []byte, count int) iter.Seq[int64] {
	switch b.edgeEncType {
	case format.TypeRaw:
		return encoding.NewEdgeRawDecoder(b.engine).All(data, count)
	case format.TypeDelta:
		return encoding.NewEdgeDeltaDecoder().All(data, count)
	default:
		return func(yield func(int64) bool) {}
	}
}

// secondsFromMicros converts a microsecond offset to seconds.
func secondsFromMicros(us int64) float64 {
	return float64(us) / 1e6
}
