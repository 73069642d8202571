// Package encoding provides columnar encoders and decoders for the payload
// sections of a binned-series blob.
//
// A blob stores each series as two or three parallel columns: bin edges
// (start/stop microsecond offsets from the blob epoch, interleaved), bin
// values (float64 aggregates) and optional bin errors (float64). Each column
// is encoded independently so that the edge column can use a compact delta
// representation while the value columns stay fixed width.
//
// Encoders accumulate data across multiple series and produce a single
// contiguous payload via Bytes. Decoders are stateless and operate directly
// on payload slices, returning Go 1.23 iterators so callers can stream bins
// without materializing intermediate slices.
//
// Available codecs:
//
//   - EdgeDeltaEncoder / EdgeDeltaDecoder: zigzag varint deltas for edge
//     offsets. Edges of consecutive bins are close together, so deltas are
//     small and typically encode in 1-2 bytes instead of 8.
//   - EdgeRawEncoder / EdgeRawDecoder: fixed 8-byte edge offsets in a
//     configurable byte order. Larger, but supports O(1) random access.
//   - ValueRawEncoder / ValueRawDecoder: fixed 8-byte IEEE 754 values in a
//     configurable byte order. Bin aggregates are sums of counts and rarely
//     repeat, so delta schemes buy little; raw is the only value codec.
package encoding
