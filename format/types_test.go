package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSampleCompressionTokens(t *testing.T) {
	for _, c := range []SampleCompression{CompressionNone, CompressionLosslessPacking, CompressionLossyLSBRemoval} {
		parsed, err := ParseSampleCompression(c.String())
		require.NoError(t, err)
		require.Equal(t, c, parsed)
	}

	require.Equal(t, "LosslessPacking", CompressionLosslessPacking.String())
	require.Equal(t, "LossyLSBRemoval", CompressionLossyLSBRemoval.String())

	_, err := ParseSampleCompression("Huffman")
	require.Error(t, err)
}

func TestByteOrderTokens(t *testing.T) {
	for _, o := range []ByteOrder{OrderLittleEndian, OrderBigEndian} {
		parsed, err := ParseByteOrder(o.String())
		require.NoError(t, err)
		require.Equal(t, o, parsed)
	}

	_, err := ParseByteOrder("Middle")
	require.Error(t, err)
}

func TestJustificationTokens(t *testing.T) {
	for _, j := range []Justification{JustifyLeft, JustifyRight} {
		parsed, err := ParseJustification(j.String())
		require.NoError(t, err)
		require.Equal(t, j, parsed)
	}

	_, err := ParseJustification("Center")
	require.Error(t, err)
}

func TestArchiveCompressionTokens(t *testing.T) {
	t.Run("Round trip", func(t *testing.T) {
		for _, a := range []ArchiveCompression{ArchiveNone, ArchiveZstd, ArchiveS2, ArchiveLZ4} {
			parsed, err := ParseArchiveCompression(a.String())
			require.NoError(t, err)
			require.Equal(t, a, parsed)
		}
	})

	t.Run("Lowercase CLI names", func(t *testing.T) {
		for name, want := range map[string]ArchiveCompression{
			"none": ArchiveNone,
			"zstd": ArchiveZstd,
			"s2":   ArchiveS2,
			"lz4":  ArchiveLZ4,
		} {
			parsed, err := ParseArchiveCompression(name)
			require.NoError(t, err)
			require.Equal(t, want, parsed)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		_, err := ParseArchiveCompression("brotli")
		require.Error(t, err)
		require.Equal(t, "Unknown", ArchiveCompression(0xEE).String())
	})
}
