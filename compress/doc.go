// Package compress provides compression codecs for binned-series blob payloads.
//
// Compression is applied per payload section after encoding: edge streams are
// delta-encoded first, value streams are stored raw, and either may then be
// compressed with one of the algorithms here. The blob header records the
// algorithm so decoders pick the matching codec automatically.
//
// # Supported Algorithms
//
//   - None (format.CompressionNone): payload stored as-is.
//   - Zstd (format.CompressionZstd): best ratio, moderate speed. The pure-Go
//     implementation (klauspost/compress) is used by default; building with
//     cgo switches to the libzstd binding (valyala/gozstd).
//   - S2 (format.CompressionS2): balanced speed and ratio.
//   - LZ4 (format.CompressionLZ4): fastest decompression, moderate ratio.
//
// # Selection Guide
//
//	| Workload             | Recommended | Reason                      |
//	|----------------------|-------------|-----------------------------|
//	| Archival storage     | Zstd        | Best compression ratio      |
//	| Live ingestion       | S2          | Balanced speed and ratio    |
//	| Query-heavy          | LZ4         | Fastest decompression       |
//	| Tiny payloads        | None        | Compression overhead > gain |
//
// Delta-encoded edge payloads are already dense; S2 or None is usually enough
// for them. Raw float64 value payloads compress well with Zstd.
//
// # Thread Safety
//
// All codecs are stateless values and safe for concurrent use. Internal
// encoder/decoder state is pooled per call.
package compress
