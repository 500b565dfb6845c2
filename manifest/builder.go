package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/daqstream/errs"
)

const (
	fileSection   = "[DAQCompressedBinaryFile]"
	taskSection   = "[Task0]"
	binarySection = "[BinaryData]"
	binaryMarker  = "Begin=Here"

	// headerSizeFieldWidth is the fixed textual width of the HeaderSize value.
	// The field is reserved at this width so the final value can be rewritten
	// in place without moving the bytes that follow it.
	headerSizeFieldWidth = 10

	// headerSizePlaceholder occupies the HeaderSize field until the real
	// header length is known.
	headerSizePlaceholder = "0deadBEEF0"
)

// maxHeaderSize is the largest header length representable in the fixed-width
// decimal HeaderSize field.
const maxHeaderSize = 9_999_999_999

// Render serializes the manifest header for the given task, with the
// HeaderSize field holding its fixed-width placeholder. It returns the header
// bytes and the byte offset of the placeholder, so the caller can patch the
// field in place once the real length is known.
func Render(t Task) (header []byte, sizeFieldOffset int, err error) {
	if err := t.Validate(); err != nil {
		return nil, 0, err
	}

	var b strings.Builder

	b.WriteString(fileSection + "\n")
	b.WriteString("Version=" + Version + "\n")
	b.WriteString("HeaderSize=")
	sizeFieldOffset = b.Len()
	b.WriteString(headerSizePlaceholder + "\n")
	b.WriteString("NumberOfTasks=1\n")

	b.WriteString(taskSection + "\n")
	fmt.Fprintf(&b, "Name=%s\n", t.Name)
	fmt.Fprintf(&b, "NumberOfChannels=%d\n", len(t.Channels))
	fmt.Fprintf(&b, "ReadBlockSize=%d\n", t.ReadBlockSize)
	fmt.Fprintf(&b, "ReadBlockSizeInBytes=%d\n", t.ReadBlockSizeInBytes)

	for i := range t.Channels {
		ch := &t.Channels[i]
		fmt.Fprintf(&b, "[Task0Channel%d]\n", i)
		fmt.Fprintf(&b, "Name=%s\n", ch.Name)
		fmt.Fprintf(&b, "RawSampleResolution=%d\n", ch.RawSampleResolution)
		fmt.Fprintf(&b, "RawSampleSizeInBits=%d\n", ch.RawSampleSizeInBits)
		fmt.Fprintf(&b, "RawSampleJustification=%s\n", ch.Justification)
		fmt.Fprintf(&b, "SignedNumber=%s\n", boolToken(ch.Signed))
		fmt.Fprintf(&b, "CompressionType=%s\n", ch.Compression)
		fmt.Fprintf(&b, "CompressedSampleSizeInBits=%d\n", ch.CompressedSampleSizeInBits)
		fmt.Fprintf(&b, "CompressionByteOrder=%s\n", ch.ByteOrder)

		b.WriteString("PolynomialScalingCoeffs=")
		for _, c := range ch.ScalingCoeffs {
			b.WriteString(strconv.FormatFloat(c, 'E', 15, 64))
			b.WriteByte(';')
		}
		b.WriteByte('\n')
	}

	b.WriteString(binarySection + "\n")
	b.WriteString(binaryMarker + "\n")

	return []byte(b.String()), sizeFieldOffset, nil
}

// EncodeHeaderSize formats size as the fixed-width zero-padded decimal used
// by the HeaderSize field.
func EncodeHeaderSize(size int64) ([]byte, error) {
	if size < 0 || size > maxHeaderSize {
		return nil, fmt.Errorf("%w: header size %d does not fit the %d-digit field",
			errs.ErrInvalidManifest, size, headerSizeFieldWidth)
	}

	return []byte(fmt.Sprintf("%0*d", headerSizeFieldWidth, size)), nil
}

// PatchHeaderSize rewrites the HeaderSize field of a rendered header in
// memory. sizeFieldOffset must be the offset returned by Render.
func PatchHeaderSize(header []byte, sizeFieldOffset int, size int64) error {
	digits, err := EncodeHeaderSize(size)
	if err != nil {
		return err
	}

	if sizeFieldOffset < 0 || sizeFieldOffset+headerSizeFieldWidth > len(header) {
		return fmt.Errorf("%w: size field offset %d out of range", errs.ErrInvalidManifest, sizeFieldOffset)
	}

	copy(header[sizeFieldOffset:], digits)

	return nil
}

func boolToken(v bool) string {
	if v {
		return "TRUE"
	}

	return "FALSE"
}
