package encoding

import "encoding/binary"

// bitReader provides MSB-first bit-level reading from a byte slice.
//
// The packed decode path creates one bitReader per block, so extraction is
// naturally bounded by the block's declared byte size even if spurious
// trailing bytes exist in the data region.
type bitReader struct {
	data     []byte // Source data
	bytePos  int    // Current byte position
	bitBuf   uint64 // Buffer holding current bits
	bitCount int    // Number of valid bits in buffer
}

// newBitReader creates a new bit reader for the given data.
func newBitReader(data []byte) *bitReader {
	return &bitReader{
		data: data,
	}
}

// readBits reads numBits bits from the stream, most significant bit first.
//
// Returns the bits right-aligned in a uint64 and true on success, or zero and
// false if insufficient data remains.
func (br *bitReader) readBits(numBits int) (uint64, bool) {
	if numBits == 0 {
		return 0, true
	}

	if numBits <= br.bitCount {
		shift := 64 - numBits
		result := br.bitBuf >> shift
		br.bitBuf <<= numBits
		br.bitCount -= numBits

		return result, true
	}

	var result uint64
	firstRead := true

	for numBits > 0 {
		if br.bitCount == 0 {
			if !br.fillBuffer() {
				return 0, false
			}
		}

		bitsToRead := numBits
		if bitsToRead > br.bitCount {
			bitsToRead = br.bitCount
		}

		// Extract bits from the most significant position
		shift := 64 - bitsToRead
		shiftedBits := br.bitBuf >> shift

		if firstRead {
			result = shiftedBits
			firstRead = false
		} else {
			result = (result << bitsToRead) | shiftedBits
		}

		br.bitBuf <<= bitsToRead
		br.bitCount -= bitsToRead
		numBits -= bitsToRead
	}

	return result, true
}

// fillBuffer refills the bit buffer from the byte stream.
//
// Reads up to 8 bytes and left-aligns them in the 64-bit buffer so extraction
// always proceeds from the MSB. Returns false when no more data is available.
func (br *bitReader) fillBuffer() bool {
	if br.bytePos >= len(br.data) {
		return false
	}

	bytesAvailable := len(br.data) - br.bytePos
	bytesToRead := 8
	if bytesToRead > bytesAvailable {
		bytesToRead = bytesAvailable
	}

	// Fast path: read full 8 bytes using binary.BigEndian
	if bytesToRead == 8 {
		br.bitBuf = binary.BigEndian.Uint64(br.data[br.bytePos : br.bytePos+8])
		br.bytePos += 8
		br.bitCount = 64

		return true
	}

	// Slow path: read partial bytes
	br.bitBuf = 0
	for i := 0; i < bytesToRead; i++ {
		br.bitBuf = (br.bitBuf << 8) | uint64(br.data[br.bytePos])
		br.bytePos++
	}

	// Left-align the bits so extraction stays MSB-first
	br.bitBuf <<= (8 - bytesToRead) * 8
	br.bitCount = bytesToRead * 8

	return true
}
