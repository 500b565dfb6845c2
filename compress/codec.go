// Package compress provides the compression codecs used by the daqstream
// archive container.
//
// A finished stream file is a text manifest followed by raw or bit-packed
// sample bytes; bit-packed regions still compress well with general-purpose
// codecs because adjacent samples are correlated. The archive wraps the whole
// file, so codecs operate on complete byte slices rather than streams.
package compress

import (
	"fmt"

	"github.com/arloliu/daqstream/format"
)

// Compressor compresses a complete archive payload.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is newly allocated and owned by the caller
	//   - Input slice is not modified
	//   - Internal buffers may be reused for efficiency
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a complete archive payload.
//
// Implementations must be safe for concurrent use or document their thread
// safety requirements clearly.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original result.
	//
	// The input must have been produced by the matching Compress; corrupted
	// or incompatible data returns an error.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

var builtinCodecs = map[format.ArchiveCompression]Codec{
	format.ArchiveNone: NewNoOpCompressor(),
	format.ArchiveZstd: NewZstdCompressor(),
	format.ArchiveS2:   NewS2Compressor(),
	format.ArchiveLZ4:  NewLZ4Compressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.ArchiveCompression) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}
