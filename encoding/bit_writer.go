package encoding

import "github.com/arloliu/daqstream/internal/pool"

// bitWriter accumulates MSB-first bits into a pooled byte buffer.
//
// It mirrors the bitReader's layout: bits are packed densely with no padding
// between samples, and flushBits pads the final partial byte of a block with
// zero bits.
type bitWriter struct {
	buf      *pool.ByteBuffer
	bitBuf   uint64 // Bit accumulator, left side is written first
	bitCount int    // Number of valid bits in bitBuf
}

func newBitWriter() *bitWriter {
	return &bitWriter{
		buf: pool.GetBlockBuffer(),
	}
}

// writeBits appends the least significant numBits of value, most significant
// bit first.
func (w *bitWriter) writeBits(value uint64, numBits int) {
	if numBits == 0 {
		return
	}

	if numBits < 64 {
		value &= (1 << numBits) - 1
	}

	available := 64 - w.bitCount

	if numBits <= available {
		w.bitBuf = (w.bitBuf << numBits) | value
		w.bitCount += numBits

		if w.bitCount == 64 {
			w.flushFull()
		}

		return
	}

	// Split across the accumulator boundary: high bits complete the current
	// word, low bits start the next one.
	highBits := numBits - available
	w.bitBuf = (w.bitBuf << available) | (value >> highBits)
	w.bitCount = 64
	w.flushFull()

	w.bitBuf = value & ((1 << highBits) - 1)
	w.bitCount = highBits
}

// flushFull writes the full 64-bit accumulator to the byte buffer.
func (w *bitWriter) flushFull() {
	aligned := w.bitBuf
	for i := 0; i < 8; i++ {
		w.buf.AppendByte(byte(aligned >> (56 - i*8)))
	}

	w.bitBuf = 0
	w.bitCount = 0
}

// flushBits drains any pending bits, padding the last byte with zero bits.
func (w *bitWriter) flushBits() {
	if w.bitCount == 0 {
		return
	}

	numBytes := (w.bitCount + 7) / 8
	aligned := w.bitBuf << (64 - w.bitCount)

	for i := 0; i < numBytes; i++ {
		w.buf.AppendByte(byte(aligned >> (56 - i*8)))
	}

	w.bitBuf = 0
	w.bitCount = 0
}

// appendByte appends one byte-aligned byte. Must not be mixed with pending
// sub-byte bits.
func (w *bitWriter) appendByte(b byte) {
	w.buf.AppendByte(b)
}

// bytes returns the accumulated bytes. The slice is valid until the next
// reset or finish call.
func (w *bitWriter) bytes() []byte {
	return w.buf.Bytes()
}

// reset clears the accumulated data while retaining the buffer for reuse.
func (w *bitWriter) reset() {
	w.bitBuf = 0
	w.bitCount = 0
	w.buf.Reset()
}

// finish returns the pooled buffer. The writer is unusable afterwards.
func (w *bitWriter) finish() {
	if w.buf == nil {
		return
	}

	pool.PutBlockBuffer(w.buf)
	w.buf = nil
}
