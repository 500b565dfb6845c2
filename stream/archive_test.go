package stream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/daqstream/errs"
	"github.com/arloliu/daqstream/format"
)

// writeRun creates a small stream file with a few packed blocks and returns
// its path.
func writeRun(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "run.dat")

	w, err := Create(path, packedTask(32))
	require.NoError(t, err)

	codes := make([]uint32, 32)
	for b := 0; b < 4; b++ {
		for s := range codes {
			codes[s] = uint32((b*100 + s) & 0xFFF)
		}
		require.NoError(t, w.AppendSamples([][]uint32{codes}))
	}
	require.NoError(t, w.Close())

	return path
}

func TestArchiveRoundTrip(t *testing.T) {
	codecs := []format.ArchiveCompression{
		format.ArchiveNone,
		format.ArchiveZstd,
		format.ArchiveS2,
		format.ArchiveLZ4,
	}

	for _, comp := range codecs {
		t.Run(comp.String(), func(t *testing.T) {
			src := writeRun(t)
			dir := t.TempDir()
			archived := filepath.Join(dir, "run.dqar")
			restored := filepath.Join(dir, "run.dat")

			require.NoError(t, Archive(src, archived, comp))

			container, err := os.ReadFile(archived)
			require.NoError(t, err)
			require.True(t, IsArchive(container))

			require.NoError(t, Extract(archived, restored))

			original, err := os.ReadFile(src)
			require.NoError(t, err)
			got, err := os.ReadFile(restored)
			require.NoError(t, err)
			require.Equal(t, original, got)
		})
	}
}

func TestReadArchivedFile(t *testing.T) {
	src := writeRun(t)
	archived := filepath.Join(t.TempDir(), "run.dqar")

	require.NoError(t, Archive(src, archived, format.ArchiveZstd))

	// The reader extracts the container transparently.
	direct, err := ReadFile(src)
	require.NoError(t, err)

	fromArchive, err := ReadFile(archived)
	require.NoError(t, err)

	require.Equal(t, direct.SampleCount, fromArchive.SampleCount)
	require.Equal(t, direct.Channels, fromArchive.Channels)
}

func TestIsArchive(t *testing.T) {
	t.Run("Stream file is not an archive", func(t *testing.T) {
		b, err := os.ReadFile(writeRun(t))
		require.NoError(t, err)
		require.False(t, IsArchive(b))
	})

	t.Run("Short input", func(t *testing.T) {
		require.False(t, IsArchive([]byte("DQAR")))
		require.False(t, IsArchive(nil))
	})
}

func TestExtractRejections(t *testing.T) {
	t.Run("Missing magic", func(t *testing.T) {
		_, err := extractArchive(make([]byte, 64))
		require.ErrorIs(t, err, errs.ErrInvalidArchive)
	})

	t.Run("Unsupported container version", func(t *testing.T) {
		container, err := buildArchive([]byte("payload"), format.ArchiveNone)
		require.NoError(t, err)
		container[4] = 9

		_, err = extractArchive(container)
		require.ErrorIs(t, err, errs.ErrInvalidArchive)
	})

	t.Run("Unknown compression type", func(t *testing.T) {
		container, err := buildArchive([]byte("payload"), format.ArchiveNone)
		require.NoError(t, err)
		container[5] = 0xEE

		_, err = extractArchive(container)
		require.ErrorIs(t, err, errs.ErrInvalidArchive)
	})

	t.Run("Corrupted payload fails the digest", func(t *testing.T) {
		container, err := buildArchive([]byte("sample payload bytes"), format.ArchiveNone)
		require.NoError(t, err)
		container[archiveHeaderSize] ^= 0x01

		_, err = extractArchive(container)
		require.ErrorIs(t, err, errs.ErrChecksumMismatch)
	})

	t.Run("Payload length mismatch", func(t *testing.T) {
		container, err := buildArchive([]byte("sample payload bytes"), format.ArchiveNone)
		require.NoError(t, err)

		_, err = extractArchive(container[:len(container)-3])
		require.ErrorIs(t, err, errs.ErrInvalidArchive)
	})
}
