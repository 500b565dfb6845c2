package stream

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/daqstream/compress"
	"github.com/arloliu/daqstream/endian"
	"github.com/arloliu/daqstream/errs"
	"github.com/arloliu/daqstream/format"
)

// Archive container layout:
//
//	offset 0   magic "DQAR"
//	offset 4   container version (1)
//	offset 5   compression type byte (format.ArchiveCompression)
//	offset 6   xxHash64 digest of the original stream file bytes
//	offset 14  original length in bytes
//	offset 22  compressed payload to end of file
//
// The fixed fields use little-endian byte order regardless of the sample
// byte order declared inside the stream file.
const (
	archiveMagic      = "DQAR"
	archiveVersion    = 1
	archiveHeaderSize = 22
)

// archiveEngine encodes the fixed container fields.
var archiveEngine = endian.GetLittleEndianEngine()

// IsArchive reports whether b starts with the archive container magic.
func IsArchive(b []byte) bool {
	return len(b) >= archiveHeaderSize && string(b[:len(archiveMagic)]) == archiveMagic
}

// Archive wraps the finished stream file at src into a compressed archive
// container at dst. The original bytes are digested with xxHash64 so Extract
// can verify integrity after decompression.
func Archive(src, dst string, comp format.ArchiveCompression) error {
	original, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", errs.ErrIO, src, err)
	}

	container, err := buildArchive(original, comp)
	if err != nil {
		return err
	}

	if err := os.WriteFile(dst, container, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", errs.ErrIO, dst, err)
	}

	return nil
}

// Extract unwraps the archive container at src and writes the original stream
// file bytes to dst.
func Extract(src, dst string) error {
	container, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", errs.ErrIO, src, err)
	}

	original, err := extractArchive(container)
	if err != nil {
		return err
	}

	if err := os.WriteFile(dst, original, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %w", errs.ErrIO, dst, err)
	}

	return nil
}

// buildArchive assembles the container for the given payload.
func buildArchive(original []byte, comp format.ArchiveCompression) ([]byte, error) {
	codec, err := compress.GetCodec(comp)
	if err != nil {
		return nil, err
	}

	payload, err := codec.Compress(original)
	if err != nil {
		return nil, fmt.Errorf("compress archive payload: %w", err)
	}

	buf := bytes.NewBuffer(make([]byte, 0, archiveHeaderSize+len(payload)))
	buf.WriteString(archiveMagic)
	buf.WriteByte(archiveVersion)
	buf.WriteByte(byte(comp))

	var fixed [16]byte
	archiveEngine.PutUint64(fixed[0:8], xxhash.Sum64(original))
	archiveEngine.PutUint64(fixed[8:16], uint64(len(original)))
	buf.Write(fixed[:])

	buf.Write(payload)

	return buf.Bytes(), nil
}

// extractArchive validates the container, decompresses the payload and
// verifies the recorded digest.
func extractArchive(container []byte) ([]byte, error) {
	if !IsArchive(container) {
		return nil, fmt.Errorf("%w: missing %q magic", errs.ErrInvalidArchive, archiveMagic)
	}

	if container[4] != archiveVersion {
		return nil, fmt.Errorf("%w: unsupported container version %d", errs.ErrInvalidArchive, container[4])
	}

	comp := format.ArchiveCompression(container[5])
	codec, err := compress.GetCodec(comp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidArchive, err)
	}

	wantDigest := archiveEngine.Uint64(container[6:14])
	wantLen := archiveEngine.Uint64(container[14:22])

	original, err := codec.Decompress(container[archiveHeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidArchive, err)
	}

	if uint64(len(original)) != wantLen {
		return nil, fmt.Errorf("%w: extracted %d bytes, header declares %d",
			errs.ErrInvalidArchive, len(original), wantLen)
	}

	if xxhash.Sum64(original) != wantDigest {
		return nil, errs.ErrChecksumMismatch
	}

	return original, nil
}
