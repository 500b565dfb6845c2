// Package manifest implements the textual header of daqstream files: the
// ordered key-value sections describing the format version, header size, the
// task record and its per-channel records, followed by the binary data marker.
//
// The manifest is write-once: the builder renders it with a fixed-width
// HeaderSize placeholder which the stream writer patches in place after
// measuring the real header length.
package manifest

import (
	"fmt"

	"github.com/arloliu/daqstream/errs"
	"github.com/arloliu/daqstream/format"
)

// Version is the only manifest version this package reads and writes.
const Version = "1.0.0"

// Channel describes one channel section ([Task0Channel{i}]) of the manifest.
type Channel struct {
	Name string
	// RawSampleResolution is the ADC resolution in bits.
	RawSampleResolution uint32
	// RawSampleSizeInBits is the physical width of a raw sample as transferred.
	RawSampleSizeInBits uint32
	// Justification is the bit alignment of valid data within the raw width.
	Justification format.Justification
	// Signed indicates two's-complement raw values.
	Signed bool
	// Compression selects the on-disk sample layout.
	Compression format.SampleCompression
	// CompressedSampleSizeInBits is the width actually stored on disk per sample.
	CompressedSampleSizeInBits uint32
	// ByteOrder is the byte order of byte-aligned samples.
	ByteOrder format.ByteOrder
	// ScalingCoeffs are the polynomial scaling coefficients, low order first.
	ScalingCoeffs []float64
}

// Validate checks the channel width invariant
// compressed <= resolution <= raw size and the coefficient list.
func (c *Channel) Validate() error {
	if c.CompressedSampleSizeInBits < 1 || c.RawSampleSizeInBits > 32 {
		return fmt.Errorf("%w: channel %q stored width %d, raw width %d",
			errs.ErrInvalidChannelConfig, c.Name, c.CompressedSampleSizeInBits, c.RawSampleSizeInBits)
	}

	if c.CompressedSampleSizeInBits > c.RawSampleResolution || c.RawSampleResolution > c.RawSampleSizeInBits {
		return fmt.Errorf("%w: channel %q requires stored (%d) <= resolution (%d) <= raw size (%d)",
			errs.ErrInvalidChannelConfig, c.Name,
			c.CompressedSampleSizeInBits, c.RawSampleResolution, c.RawSampleSizeInBits)
	}

	if len(c.ScalingCoeffs) == 0 {
		return fmt.Errorf("%w: channel %q", errs.ErrEmptyScalingCoeffs, c.Name)
	}

	return nil
}

// Task describes the [Task0] section of the manifest.
type Task struct {
	Name     string
	Channels []Channel
	// ReadBlockSize is the number of samples per channel per transfer block.
	ReadBlockSize uint32
	// ReadBlockSizeInBytes is the on-disk size of one block.
	ReadBlockSizeInBytes uint32
}

// Validate checks the task and all its channels.
func (t *Task) Validate() error {
	if len(t.Channels) < 1 {
		return fmt.Errorf("%w: task %q declares %d channels", errs.ErrInvalidChannelCount, t.Name, len(t.Channels))
	}

	if t.ReadBlockSize < 1 {
		return fmt.Errorf("%w: read block size must be >= 1", errs.ErrInvalidBlock)
	}

	for i := range t.Channels {
		if err := t.Channels[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Manifest is the parsed textual header of a daqstream file.
type Manifest struct {
	// Version is the format version string, always "1.0.0".
	Version string
	// HeaderSize is the byte offset of the first binary data byte.
	HeaderSize uint32
	// Task is the single task record described by the file.
	Task Task
}
