package compress

// ZstdCompressor compresses payloads with Zstandard.
//
// Zstd trades compression speed for ratio, which suits archival and network
// transfer of binned series. Two implementations back this type: a pure-Go
// codec (default) and a libzstd binding selected by the cgo build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
