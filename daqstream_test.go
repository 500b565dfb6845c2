package daqstream

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/daqstream/format"
	"github.com/arloliu/daqstream/manifest"
)

func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	runPath := filepath.Join(dir, "run.dat")

	task := manifest.Task{
		Name:          "voltageTask",
		ReadBlockSize: 64,
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

	w, err := Create(runPath, task)
	require.NoError(t, err)

	codes := make([]uint32, 64)
	for s := range codes {
		codes[s] = uint32(s * 31 & 0xFFF)
	}
	require.NoError(t, w.AppendSamples([][]uint32{codes}))
	require.NoError(t, w.Close())

	data, err := ReadFile(runPath)
	require.NoError(t, err)
	require.Equal(t, Version, data.Manifest.Version)
	require.Equal(t, 64, data.SampleCount)

	archivePath := filepath.Join(dir, "run.dqar")
	require.NoError(t, Archive(runPath, archivePath, format.ArchiveZstd))

	fromArchive, err := ReadFile(archivePath)
	require.NoError(t, err)
	require.Equal(t, data.Channels, fromArchive.Channels)

	restoredPath := filepath.Join(dir, "restored.dat")
	require.NoError(t, Extract(archivePath, restoredPath))

	restored, err := ReadFile(restoredPath)
	require.NoError(t, err)
	require.Equal(t, data.Channels, restored.Channels)
}
