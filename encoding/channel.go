// Package encoding implements the sample-level codec for daqstream files:
// byte-aligned and bit-packed block layouts, raw value sign extension, and
// polynomial scaling to engineering units.
//
// The package operates on flat per-block byte buffers. The stream package maps
// manifest channel records onto the Channel configuration used here.
package encoding

import (
	"fmt"

	"github.com/arloliu/daqstream/endian"
	"github.com/arloliu/daqstream/errs"
	"github.com/arloliu/daqstream/format"
)

// maxRawSampleBits is the widest raw sample the decoder reconstructs.
// Raw values are sign-extended within a 32-bit word.
const maxRawSampleBits = 32

// Channel describes how one channel's samples are laid out on disk and how a
// raw integer code converts to an engineering-unit value.
type Channel struct {
	// RawResolution is the ADC resolution in bits.
	RawResolution uint32
	// RawSizeBits is the physical width of a raw sample as transferred.
	RawSizeBits uint32
	// Justification is the bit alignment of valid data within the raw width.
	Justification format.Justification
	// Signed indicates two's-complement raw values.
	Signed bool
	// Compression selects the on-disk sample layout.
	Compression format.SampleCompression
	// StoredBits is the width actually stored on disk per sample.
	StoredBits uint32
	// Order is the byte order of byte-aligned samples.
	Order format.ByteOrder
	// Coeffs are the polynomial scaling coefficients, evaluated as sum(c[k] * raw^k).
	Coeffs []float64
}

// lsb returns the number of low bits that were discarded (or padded) between
// the stored width and the channel's full raw width. The decoder restores
// these bits as zeros.
func (c *Channel) lsb() uint32 {
	if c.Justification == format.JustifyLeft {
		return c.RawSizeBits - c.StoredBits
	}

	return c.RawResolution - c.StoredBits
}

// validate checks the per-channel width invariant and coefficient list.
func (c *Channel) validate() error {
	if c.StoredBits < 1 || c.RawSizeBits > maxRawSampleBits {
		return fmt.Errorf("%w: stored width %d, raw width %d", errs.ErrInvalidChannelConfig, c.StoredBits, c.RawSizeBits)
	}

	if c.StoredBits > c.RawResolution || c.RawResolution > c.RawSizeBits {
		return fmt.Errorf("%w: require stored (%d) <= resolution (%d) <= raw size (%d)",
			errs.ErrInvalidChannelConfig, c.StoredBits, c.RawResolution, c.RawSizeBits)
	}

	if len(c.Coeffs) == 0 {
		return errs.ErrEmptyScalingCoeffs
	}

	return nil
}

// usesPacking reports whether the channel's samples are stored bit-dense.
// Byte-aligned little-endian samples are decoded on the unpacked path even
// when a compression mode is declared.
func (c *Channel) usesPacking() bool {
	if c.Compression == format.CompressionNone {
		return false
	}

	return c.Order != format.OrderLittleEndian || c.StoredBits%8 != 0
}

// validateChannels validates each channel and verifies that all channels in a
// task share the same raw and compressed sample format. Heterogeneous formats
// cannot be decoded from an interleaved block and are rejected.
func validateChannels(channels []Channel) (packed bool, err error) {
	if len(channels) == 0 {
		return false, fmt.Errorf("%w: task has no channels", errs.ErrInvalidChannelConfig)
	}

	first := &channels[0]
	if err := first.validate(); err != nil {
		return false, err
	}

	for i := 1; i < len(channels); i++ {
		ch := &channels[i]
		if err := ch.validate(); err != nil {
			return false, err
		}

		if ch.Compression != first.Compression ||
			ch.RawSizeBits != first.RawSizeBits ||
			ch.StoredBits != first.StoredBits ||
			ch.Order != first.Order {
			return false, fmt.Errorf("%w: channel %d raw/compressed format differs from channel 0",
				errs.ErrUnsupportedConfiguration, i)
		}
	}

	packed = first.usesPacking()
	if !packed {
		// The unpacked path consumes RawSizeBits/8 whole bytes per sample.
		if first.RawSizeBits%8 != 0 {
			return false, fmt.Errorf("%w: byte-aligned layout requires a raw width that is a byte multiple, got %d bits",
				errs.ErrInvalidChannelConfig, first.RawSizeBits)
		}

		if first.Compression != format.CompressionNone && first.StoredBits != first.RawSizeBits {
			return false, fmt.Errorf("%w: byte-aligned compressed layout requires stored width (%d) to equal raw width (%d)",
				errs.ErrUnsupportedConfiguration, first.StoredBits, first.RawSizeBits)
		}
	}

	return packed, nil
}

// BlockSizeInBytes computes the on-disk size of one block: samplesPerBlock
// interleaved samples for every channel, bit-dense when packing is active and
// rounded up to a whole byte at the block boundary.
func BlockSizeInBytes(channels []Channel, samplesPerBlock int) (int, error) {
	packed, err := validateChannels(channels)
	if err != nil {
		return 0, err
	}

	if samplesPerBlock < 1 {
		return 0, fmt.Errorf("%w: samples per block must be >= 1, got %d", errs.ErrInvalidBlock, samplesPerBlock)
	}

	bitsPerSlot := 0
	for i := range channels {
		if packed {
			bitsPerSlot += int(channels[i].StoredBits)
		} else {
			bitsPerSlot += int(channels[i].RawSizeBits)
		}
	}

	return (bitsPerSlot*samplesPerBlock + 7) / 8, nil
}

// orderEngine maps a manifest byte order to its endian engine.
func orderEngine(o format.ByteOrder) endian.EndianEngine {
	if o == format.OrderLittleEndian {
		return endian.GetLittleEndianEngine()
	}

	return endian.GetBigEndianEngine()
}

// signExtend interprets v as a two's-complement value of the given bit width
// and widens it to a 32-bit integer. The extension mask covers every bit above
// the sample width.
func signExtend(v uint32, width uint32, signed bool) int32 {
	if signed && width < maxRawSampleBits && v&(1<<(width-1)) != 0 {
		v |= ^uint32(0) << width
	}

	return int32(v)
}
