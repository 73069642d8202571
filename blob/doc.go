// Package blob provides encoding and decoding of binned-series blobs.
//
// A blob is an immutable binary container holding many binned series that
// share one epoch. Each series is a sequence of bins, and each bin carries a
// start edge, a stop edge, an aggregated value, and optionally a propagated
// error. Edges are stored as microsecond offsets from the blob epoch, so a
// blob can cover any window a signed 64-bit microsecond offset can express.
//
// # Physical Layout
//
//	Header (32 B) | Index (16 B × series) | Edge payload | Value payload | [Error payload]
//
// The header records the epoch, the series count, and the byte offsets of
// each section. The index holds one fixed-size entry per series with its ID,
// bin count, and the byte offset of its edge chain. Edge chains are
// delta-encoded by default (zigzag varint over the interleaved start/stop
// stream); values and errors are raw float64 columns. Each payload section is
// compressed independently with None, Zstd, S2, or LZ4.
//
// # Encoding Workflow
//
//	encoder, err := blob.NewEncoder(epoch,
//	    blob.WithEdgeCompression(format.CompressionZstd),
//	    blob.WithBinErrors(),
//	)
//
//	encoder.StartSeriesName("crab.nebula", len(values))
//	encoder.AddBins(starts, stops, values, binErrs)
//	encoder.EndSeries()
//	// ... more series ...
//	data, err := encoder.Finish()
//
// # Decoding Workflow
//
//	decoder, err := blob.NewDecoder(data)
//	decoded, err := decoder.Decode()
//
//	for bin := range decoded.AllByName("crab.nebula") {
//	    fmt.Printf("[%g, %g) value=%g err=%g\n", bin.Start, bin.Stop, bin.Value, bin.Err)
//	}
//
// Bin edges cross the API as float64 seconds relative to the epoch, matching
// the time domain of the binner package; the microsecond storage resolution
// is an internal detail of the format.
package blob
