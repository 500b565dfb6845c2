package stream

import (
	"fmt"
	"os"

	"github.com/arloliu/daqstream/encoding"
	"github.com/arloliu/daqstream/errs"
	"github.com/arloliu/daqstream/manifest"
)

// Data is the fully decoded content of a daqstream file.
type Data struct {
	// Manifest is the parsed textual header.
	Manifest *manifest.Manifest
	// Channels holds one engineering-unit series per channel, in declared order.
	Channels [][]float64
	// SampleCount is the number of complete samples decoded per channel.
	// It is smaller than the written count when the data region is truncated.
	SampleCount int
}

// ChannelSummary reports per-channel statistics for reporting sinks.
type ChannelSummary struct {
	Name    string
	Samples int
	Mean    float64
}

// ReadFile reads and decodes the daqstream file at path. Archived files
// (produced by Archive) are recognized by their container magic and extracted
// transparently.
//
// The whole data region is decoded in memory; this is a post-hoc analysis
// entry point, not a streaming one.
func ReadFile(path string) (*Data, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", errs.ErrIO, path, err)
	}

	return Decode(b)
}

// Decode decodes an in-memory daqstream file image, extracting the archive
// container first when present.
func Decode(fileBytes []byte) (*Data, error) {
	if IsArchive(fileBytes) {
		extracted, err := extractArchive(fileBytes)
		if err != nil {
			return nil, err
		}
		fileBytes = extracted
	}

	m, err := manifest.ParseBytes(fileBytes)
	if err != nil {
		return nil, err
	}

	decoder, err := encoding.NewBlockDecoder(
		taskChannels(m.Task),
		int(m.Task.ReadBlockSize),
		int(m.Task.ReadBlockSizeInBytes),
	)
	if err != nil {
		return nil, err
	}

	region := fileBytes[m.HeaderSize:]
	channels, numSamples := decoder.Decode(region)

	return &Data{
		Manifest:    m,
		Channels:    channels,
		SampleCount: numSamples,
	}, nil
}

// Summaries computes per-channel sample counts and means.
func (d *Data) Summaries() []ChannelSummary {
	summaries := make([]ChannelSummary, len(d.Channels))

	for i, series := range d.Channels {
		total := 0.0
		for _, v := range series {
			total += v
		}

		mean := 0.0
		if len(series) > 0 {
			mean = total / float64(len(series))
		}

		summaries[i] = ChannelSummary{
			Name:    d.Manifest.Task.Channels[i].Name,
			Samples: len(series),
			Mean:    mean,
		}
	}

	return summaries
}
