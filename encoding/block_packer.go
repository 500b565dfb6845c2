package encoding

import (
	"fmt"

	"github.com/arloliu/daqstream/endian"
	"github.com/arloliu/daqstream/errs"
	"github.com/arloliu/daqstream/format"
)

// BlockPacker assembles one on-disk block from per-channel raw sample codes.
//
// It is the write-side mirror of BlockDecoder: byte-aligned layout for the
// unpacked path, MSB-first bit-dense layout for the packed path. For lossy
// LSB removal the packer discards the configured low bits; the decoder later
// restores them as zeros.
//
// The packer is not safe for concurrent use. The slice returned by Pack is
// valid until the next Pack or Finish call.
type BlockPacker struct {
	channels   []Channel
	bw         *bitWriter
	samples    int
	blockBytes int
	lsb        []uint32 // per channel, low bits dropped before storage
	engine     endian.EndianEngine
	packed     bool
}

// NewBlockPacker creates a packer for a task with the given channel layout
// and samples per channel per block.
func NewBlockPacker(channels []Channel, samplesPerBlock int) (*BlockPacker, error) {
	blockBytes, err := BlockSizeInBytes(channels, samplesPerBlock)
	if err != nil {
		return nil, err
	}

	packed, err := validateChannels(channels)
	if err != nil {
		return nil, err
	}

	lsb := make([]uint32, len(channels))
	for i := range channels {
		lsb[i] = channels[i].lsb()
	}

	return &BlockPacker{
		channels:   channels,
		bw:         newBitWriter(),
		samples:    samplesPerBlock,
		blockBytes: blockBytes,
		lsb:        lsb,
		engine:     orderEngine(channels[0].Order),
		packed:     packed,
	}, nil
}

// BlockSizeInBytes returns the on-disk size of one packed block.
func (p *BlockPacker) BlockSizeInBytes() int {
	return p.blockBytes
}

// Pack interleaves one block of raw sample codes. chans must hold one slice
// per channel in declared order, each with exactly samplesPerBlock values at
// the channel's full raw width.
func (p *BlockPacker) Pack(chans [][]uint32) ([]byte, error) {
	if p.bw == nil {
		panic("packer already finished - cannot pack blocks after Finish()")
	}

	if len(chans) != len(p.channels) {
		return nil, fmt.Errorf("%w: got %d channels, task declares %d", errs.ErrInvalidBlock, len(chans), len(p.channels))
	}

	for i := range chans {
		if len(chans[i]) != p.samples {
			return nil, fmt.Errorf("%w: channel %d has %d samples, block holds %d", errs.ErrInvalidBlock, i, len(chans[i]), p.samples)
		}
	}

	p.bw.reset()

	if p.packed {
		p.packDense(chans)
	} else {
		p.packAligned(chans)
	}

	return p.bw.bytes(), nil
}

// packDense writes StoredBits bits per sample, sample-major across channels,
// dropping each channel's configured low bits first. The final partial byte
// of the block is padded with zero bits.
func (p *BlockPacker) packDense(chans [][]uint32) {
	for s := 0; s < p.samples; s++ {
		for i := range p.channels {
			ch := &p.channels[i]
			p.bw.writeBits(uint64(chans[i][s]>>p.lsb[i]), int(ch.StoredBits))
		}
	}

	p.bw.flushBits()
}

// packAligned writes RawSizeBits/8 bytes per sample in the channel's byte
// order.
func (p *BlockPacker) packAligned(chans [][]uint32) {
	var scratch [4]byte

	for s := 0; s < p.samples; s++ {
		for i := range p.channels {
			ch := &p.channels[i]
			numBytes := int(ch.RawSizeBits) / 8
			v := chans[i][s]

			switch numBytes {
			case 1:
				scratch[0] = byte(v)
			case 2:
				p.engine.PutUint16(scratch[:2], uint16(v))
			case 4:
				p.engine.PutUint32(scratch[:4], v)
			default:
				// 24-bit containers have no engine accessor
				if ch.Order == format.OrderLittleEndian {
					for b := 0; b < numBytes; b++ {
						scratch[b] = byte(v >> (8 * b))
					}
				} else {
					for b := 0; b < numBytes; b++ {
						scratch[numBytes-1-b] = byte(v >> (8 * b))
					}
				}
			}

			for b := 0; b < numBytes; b++ {
				p.bw.appendByte(scratch[b])
			}
		}
	}
}

// Finish returns the internal buffer to the pool. The packer becomes
// unusable; subsequent Pack calls panic.
func (p *BlockPacker) Finish() {
	if p.bw == nil {
		return
	}

	p.bw.finish()
	p.bw = nil
}
