package encoding

import (
	"fmt"

	"github.com/arloliu/daqstream/endian"
	"github.com/arloliu/daqstream/errs"
	"github.com/arloliu/daqstream/format"
)

// BlockDecoder reconstructs per-channel float64 samples from the flat byte
// stream of a daqstream data region.
//
// The decoder is single pass and holds no reference to the input after Decode
// returns. It is not safe for concurrent use.
type BlockDecoder struct {
	channels   []Channel
	slot       []float64 // scratch for one interleaved sample slot
	samples    int       // samples per channel per block
	blockBytes int       // bytes per block on disk
	lsb        []uint32  // per channel, low bits restored as zeros on the packed path
	fullWidth  []uint32  // per channel, reconstructed sample width on the packed path
	engine     endian.EndianEngine
	packed     bool
}

// NewBlockDecoder creates a decoder for a task with the given channel layout.
//
// samplesPerBlock and blockBytes correspond to the manifest's ReadBlockSize
// and ReadBlockSizeInBytes fields.
//
// Returns ErrUnsupportedConfiguration when channels mix raw or compressed
// sample formats, and ErrInvalidChannelConfig when a channel violates the
// width invariant.
func NewBlockDecoder(channels []Channel, samplesPerBlock int, blockBytes int) (*BlockDecoder, error) {
	packed, err := validateChannels(channels)
	if err != nil {
		return nil, err
	}

	if samplesPerBlock < 1 || blockBytes < 1 {
		return nil, fmt.Errorf("%w: block of %d samples in %d bytes", errs.ErrInvalidBlock, samplesPerBlock, blockBytes)
	}

	d := &BlockDecoder{
		channels:   channels,
		slot:       make([]float64, len(channels)),
		samples:    samplesPerBlock,
		blockBytes: blockBytes,
		packed:     packed,
		lsb:        make([]uint32, len(channels)),
		fullWidth:  make([]uint32, len(channels)),
		engine:     orderEngine(channels[0].Order),
	}

	// Resolution and justification, and thus the reconstruction shift, may
	// differ per channel even though the stored and raw widths are uniform.
	for i := range channels {
		ch := &channels[i]
		d.lsb[i] = ch.lsb()
		d.fullWidth[i] = ch.StoredBits + ch.lsb()
	}

	return d, nil
}

// Packed reports whether the decoder uses the bit-packed path.
func (d *BlockDecoder) Packed() bool {
	return d.packed
}

// Decode converts the data region into one float64 slice per channel and
// returns the number of complete samples reconstructed per channel.
//
// Truncation is tolerated, never an error: a trailing partial block is
// dropped, and if a block's bytes are exhausted mid-sample the decoder stops
// with the samples completed so far.
func (d *BlockDecoder) Decode(data []byte) ([][]float64, int) {
	numBlocks := len(data) / d.blockBytes

	out := make([][]float64, len(d.channels))
	for i := range out {
		out[i] = make([]float64, 0, numBlocks*d.samples)
	}

	numSamples := 0
	for b := 0; b < numBlocks; b++ {
		block := data[b*d.blockBytes : (b+1)*d.blockBytes]

		var n int
		if d.packed {
			n = d.decodePackedBlock(block, out)
		} else {
			n = d.decodeUnpackedBlock(block, out)
		}

		numSamples += n
		if n < d.samples {
			break
		}
	}

	return out, numSamples
}

// decodeUnpackedBlock decodes byte-aligned samples: RawSizeBits/8 bytes per
// sample per channel, accumulated in the channel's byte order.
func (d *BlockDecoder) decodeUnpackedBlock(block []byte, out [][]float64) int {
	off := 0

	for s := 0; s < d.samples; s++ {
		for i := range d.channels {
			ch := &d.channels[i]
			numBytes := int(ch.RawSizeBits) / 8
			if off+numBytes > len(block) {
				return s
			}

			var v uint32
			switch numBytes {
			case 1:
				v = uint32(block[off])
			case 2:
				v = uint32(d.engine.Uint16(block[off : off+2]))
			case 4:
				v = d.engine.Uint32(block[off : off+4])
			default:
				// 24-bit containers have no engine accessor
				if ch.Order == format.OrderLittleEndian {
					for b := 0; b < numBytes; b++ {
						v |= uint32(block[off+b]) << (8 * b)
					}
				} else {
					for b := 0; b < numBytes; b++ {
						v = (v << 8) | uint32(block[off+b])
					}
				}
			}
			off += numBytes

			raw := signExtend(v, ch.RawSizeBits, ch.Signed)
			d.slot[i] = Scale(ch.Coeffs, raw)
		}

		d.commitSlot(out)
	}

	return d.samples
}

// decodePackedBlock decodes bit-dense samples: StoredBits bits per sample per
// channel, MSB first, then restores the discarded low bits as zeros before
// sign extension and scaling.
func (d *BlockDecoder) decodePackedBlock(block []byte, out [][]float64) int {
	br := newBitReader(block)

	for s := 0; s < d.samples; s++ {
		for i := range d.channels {
			ch := &d.channels[i]

			bits, ok := br.readBits(int(ch.StoredBits))
			if !ok {
				return s
			}

			v := uint32(bits) << d.lsb[i]
			raw := signExtend(v, d.fullWidth[i], ch.Signed)
			d.slot[i] = Scale(ch.Coeffs, raw)
		}

		d.commitSlot(out)
	}

	return d.samples
}

// commitSlot appends the fully decoded sample slot to the output series.
// Partially decoded slots are never committed.
func (d *BlockDecoder) commitSlot(out [][]float64) {
	for i, v := range d.slot {
		out[i] = append(out[i], v)
	}
}
