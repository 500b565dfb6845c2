package compress

// ZstdCompressor provides zstd compression for archive payloads.
//
// Two implementations are selected at build time:
//   - Default: pure Go implementation (github.com/klauspost/compress/zstd)
//   - With the "zstdcgo" build tag: cgo bindings (github.com/valyala/gozstd)
//
// The cgo variant trades build portability for the reference library's
// compression ratio and speed; both produce interchangeable zstd frames.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new zstd compressor.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
