//go:build zstdcgo

package compress

import "github.com/valyala/gozstd"

// Compress compresses the input data using the cgo zstd bindings.
func (c ZstdCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, gozstd.DefaultCompressionLevel), nil
}

// Decompress decompresses the input data using the cgo zstd bindings.
func (c ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.Decompress(nil, data)
}
