package stream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/daqstream/errs"
	"github.com/arloliu/daqstream/format"
	"github.com/arloliu/daqstream/manifest"
)

func packedTask(blockSize uint32) manifest.Task {
	return manifest.Task{
		Name:          "voltageTask",
		ReadBlockSize: blockSize,
		Channels: []manifest.Channel{{
			Name:                       "Dev1/ai0",
			RawSampleResolution:        12,
			RawSampleSizeInBits:        16,
			Justification:              format.JustifyRight,
			Signed:                     true,
			Compression:                format.CompressionLosslessPacking,
			CompressedSampleSizeInBits: 12,
			ByteOrder:                  format.OrderBigEndian,
			ScalingCoeffs:              []float64{0, 1},
		}},
	}
}

func alignedTask(blockSize uint32, numChannels int) manifest.Task {
	channels := make([]manifest.Channel, numChannels)
	for i := range channels {
		channels[i] = manifest.Channel{
			Name:                       "Dev1/ai" + string(rune('0'+i)),
			RawSampleResolution:        16,
			RawSampleSizeInBits:        16,
			Justification:              format.JustifyRight,
			Signed:                     true,
			Compression:                format.CompressionNone,
			CompressedSampleSizeInBits: 16,
			ByteOrder:                  format.OrderLittleEndian,
			ScalingCoeffs:              []float64{0, 0.5},
		}
	}

	return manifest.Task{
		Name:          "bridgeTask",
		ReadBlockSize: blockSize,
		Channels:      channels,
	}
}

func TestCreate(t *testing.T) {
	t.Run("Header patched on disk", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.dat")

		w, err := Create(path, packedTask(100))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, int64(len(b)), w.HeaderSize())

		m, err := manifest.ParseBytes(b)
		require.NoError(t, err)
		require.Equal(t, uint32(len(b)), m.HeaderSize)
	})

	t.Run("Block size computed from channels", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.dat")

		task := packedTask(100)
		task.ReadBlockSizeInBytes = 99999 // caller's value is ignored

		w, err := Create(path, task)
		require.NoError(t, err)
		defer w.Close()

		// 100 samples * 12 bits = 1200 bits = 150 bytes
		require.Equal(t, 150, w.BlockSizeInBytes())

		m, err := manifest.ParseFile(path)
		require.NoError(t, err)
		require.Equal(t, uint32(150), m.Task.ReadBlockSizeInBytes)
	})

	t.Run("File mode option", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.dat")

		w, err := Create(path, packedTask(10), WithFileMode(0o600))
		require.NoError(t, err)
		defer w.Close()

		fi, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), fi.Mode().Perm())
	})

	t.Run("Invalid task leaves no file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.dat")

		task := packedTask(10)
		task.Channels = nil

		_, err := Create(path, task)
		require.ErrorIs(t, err, errs.ErrInvalidChannelConfig)

		_, err = os.Stat(path)
		require.True(t, os.IsNotExist(err))
	})
}

func TestRoundTrip(t *testing.T) {
	t.Run("Byte-aligned little endian", func(t *testing.T) {
		const blockSize = 8
		path := filepath.Join(t.TempDir(), "run.dat")

		w, err := Create(path, alignedTask(blockSize, 2))
		require.NoError(t, err)

		blocks := [][][]uint32{
			{
				{0, 1, 2, 3, 4, 5, 6, 7},
				{100, 200, 300, 400, 500, 600, 700, 800},
			},
			{
				{0xFFFF, 0xFFFE, 0x8000, 0x7FFF, 10, 11, 12, 13},
				{1, 1, 1, 1, 2, 2, 2, 2},
			},
		}
		for _, block := range blocks {
			require.NoError(t, w.AppendSamples(block))
		}
		require.NoError(t, w.Close())

		data, err := ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, 2*blockSize, data.SampleCount)
		require.Len(t, data.Channels, 2)

		for c := 0; c < 2; c++ {
			for b, block := range blocks {
				for s, code := range block[c] {
					want := float64(int16(code)) * 0.5
					require.Equal(t, want, data.Channels[c][b*blockSize+s],
						"channel %d sample %d", c, b*blockSize+s)
				}
			}
		}
	})

	t.Run("Bit-packed signed", func(t *testing.T) {
		const blockSize = 16
		path := filepath.Join(t.TempDir(), "run.dat")

		w, err := Create(path, packedTask(blockSize))
		require.NoError(t, err)

		codes := make([]uint32, blockSize)
		for s := range codes {
			codes[s] = uint32((s*257 + 0x7F0) & 0xFFF)
		}
		require.NoError(t, w.AppendSamples([][]uint32{codes}))
		require.NoError(t, w.Close())

		data, err := ReadFile(path)
		require.NoError(t, err)
		require.Equal(t, blockSize, data.SampleCount)

		for s, code := range codes {
			v := code
			if v&0x800 != 0 {
				v |= 0xFFFFF000
			}
			require.Equal(t, float64(int32(v)), data.Channels[0][s], "sample %d", s)
		}
	})

	t.Run("Summaries", func(t *testing.T) {
		const blockSize = 4
		path := filepath.Join(t.TempDir(), "run.dat")

		w, err := Create(path, alignedTask(blockSize, 1))
		require.NoError(t, err)
		require.NoError(t, w.AppendSamples([][]uint32{{2, 4, 6, 8}}))
		require.NoError(t, w.Close())

		data, err := ReadFile(path)
		require.NoError(t, err)

		summaries := data.Summaries()
		require.Len(t, summaries, 1)
		require.Equal(t, "Dev1/ai0", summaries[0].Name)
		require.Equal(t, 4, summaries[0].Samples)
		require.Equal(t, 2.5, summaries[0].Mean) // (1+2+3+4)/4 after 0.5 gain
	})
}

func TestTruncatedFile(t *testing.T) {
	const blockSize = 8
	path := filepath.Join(t.TempDir(), "run.dat")

	w, err := Create(path, alignedTask(blockSize, 1))
	require.NoError(t, err)

	codes := []uint32{1, 2, 3, 4, 5, 6, 7, 8}
	for b := 0; b < 3; b++ {
		require.NoError(t, w.AppendSamples([][]uint32{codes}))
	}
	blockBytes := int64(w.BlockSizeInBytes())
	headerSize := w.HeaderSize()
	require.NoError(t, w.Close())

	// Chop the run mid-block, as a crashed acquisition host would.
	require.NoError(t, os.Truncate(path, headerSize+2*blockBytes+blockBytes/2))

	data, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2*blockSize, data.SampleCount)
	require.Len(t, data.Channels[0], 2*blockSize)
}

func TestWriterClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.dat")

	w, err := Create(path, alignedTask(4, 1))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close()) // idempotent

	require.ErrorIs(t, w.AppendBlock([]byte{1, 2}), errs.ErrIO)
}
