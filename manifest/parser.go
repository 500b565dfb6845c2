package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/arloliu/daqstream/errs"
	"github.com/arloliu/daqstream/format"
)

// parser consumes the manifest line by line, tracking the byte offset so the
// declared HeaderSize can be checked against the real start of binary data.
type parser struct {
	r      *bufio.Reader
	offset int
}

// Parse reads a manifest from r. The reader must be positioned at the start
// of the file; parsing stops at the first byte of binary data.
//
// The grammar is strict: sections and keys must appear in their fixed order.
// All failures abort the parse with no partial manifest returned.
func Parse(r io.Reader) (*Manifest, error) {
	p := &parser{r: bufio.NewReader(r)}

	m := &Manifest{}

	if err := p.expectLine(fileSection); err != nil {
		return nil, err
	}

	version, err := p.keyValue("Version")
	if err != nil {
		return nil, err
	}
	m.Version = version

	headerSize, err := p.keyUint("HeaderSize")
	if err != nil {
		return nil, err
	}
	m.HeaderSize = headerSize

	numTasks, err := p.keyUint("NumberOfTasks")
	if err != nil {
		return nil, err
	}

	if m.Version != Version {
		return nil, fmt.Errorf("%w: got %q, want %q", errs.ErrInvalidVersion, m.Version, Version)
	}

	if numTasks != 1 {
		return nil, fmt.Errorf("%w: %d tasks declared, only single-task files are supported",
			errs.ErrUnsupportedConfiguration, numTasks)
	}

	if err := p.parseTask(&m.Task); err != nil {
		return nil, err
	}

	if err := p.expectLine(binarySection); err != nil {
		return nil, err
	}

	if err := p.expectLine(binaryMarker); err != nil {
		return nil, err
	}

	if uint32(p.offset) != m.HeaderSize {
		return nil, fmt.Errorf("%w: declared %d, binary data begins at %d",
			errs.ErrHeaderSizeMismatch, m.HeaderSize, p.offset)
	}

	return m, nil
}

// ParseBytes parses a manifest from an in-memory file image.
func ParseBytes(b []byte) (*Manifest, error) {
	return Parse(bytes.NewReader(b))
}

// ParseFile parses the manifest of the file at path.
func ParseFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrIO, err)
	}
	defer f.Close()

	return Parse(f)
}

func (p *parser) parseTask(t *Task) error {
	if err := p.expectLine(taskSection); err != nil {
		return err
	}

	name, err := p.keyValue("Name")
	if err != nil {
		return err
	}
	t.Name = name

	numChannels, err := p.keyUint("NumberOfChannels")
	if err != nil {
		return err
	}

	if numChannels < 1 {
		return fmt.Errorf("%w: %d channels declared", errs.ErrInvalidChannelCount, numChannels)
	}

	if t.ReadBlockSize, err = p.keyUint("ReadBlockSize"); err != nil {
		return err
	}

	if t.ReadBlockSizeInBytes, err = p.keyUint("ReadBlockSizeInBytes"); err != nil {
		return err
	}

	t.Channels = make([]Channel, 0, numChannels)
	for i := uint32(0); i < numChannels; i++ {
		ch, err := p.parseChannel(i)
		if err != nil {
			return err
		}

		t.Channels = append(t.Channels, ch)
	}

	return nil
}

func (p *parser) parseChannel(index uint32) (Channel, error) {
	var ch Channel

	section, err := p.line()
	if err != nil {
		return ch, err
	}

	declared, err := channelSectionIndex(section)
	if err != nil {
		return ch, err
	}

	if declared != index {
		return ch, fmt.Errorf("%w: section %q at position %d", errs.ErrChannelIndexMismatch, section, index)
	}

	if ch.Name, err = p.keyValue("Name"); err != nil {
		return ch, err
	}

	if ch.RawSampleResolution, err = p.keyUint("RawSampleResolution"); err != nil {
		return ch, err
	}

	if ch.RawSampleSizeInBits, err = p.keyUint("RawSampleSizeInBits"); err != nil {
		return ch, err
	}

	just, err := p.keyValue("RawSampleJustification")
	if err != nil {
		return ch, err
	}
	if ch.Justification, err = format.ParseJustification(just); err != nil {
		return ch, fmt.Errorf("%w: %w", errs.ErrInvalidManifest, err)
	}

	signed, err := p.keyValue("SignedNumber")
	if err != nil {
		return ch, err
	}
	ch.Signed = signed == "TRUE"

	comp, err := p.keyValue("CompressionType")
	if err != nil {
		return ch, err
	}
	if ch.Compression, err = format.ParseSampleCompression(comp); err != nil {
		return ch, fmt.Errorf("%w: %w", errs.ErrInvalidManifest, err)
	}

	if ch.CompressedSampleSizeInBits, err = p.keyUint("CompressedSampleSizeInBits"); err != nil {
		return ch, err
	}

	order, err := p.keyValue("CompressionByteOrder")
	if err != nil {
		return ch, err
	}
	if ch.ByteOrder, err = format.ParseByteOrder(order); err != nil {
		return ch, fmt.Errorf("%w: %w", errs.ErrInvalidManifest, err)
	}

	coeffs, err := p.keyValue("PolynomialScalingCoeffs")
	if err != nil {
		return ch, err
	}
	if ch.ScalingCoeffs, err = parseCoeffs(coeffs); err != nil {
		return ch, fmt.Errorf("channel %q: %w", ch.Name, err)
	}

	if err := ch.Validate(); err != nil {
		return ch, err
	}

	return ch, nil
}

// channelSectionIndex extracts the ordinal from a [Task0Channel{i}] line.
func channelSectionIndex(line string) (uint32, error) {
	const prefix = "[Task0Channel"

	if !strings.HasPrefix(line, prefix) || !strings.HasSuffix(line, "]") {
		return 0, fmt.Errorf("%w: expected channel section, got %q", errs.ErrInvalidManifest, line)
	}

	n, err := strconv.ParseUint(line[len(prefix):len(line)-1], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad channel section %q", errs.ErrInvalidManifest, line)
	}

	return uint32(n), nil
}

// parseCoeffs splits the semicolon-delimited coefficient field. An empty
// field or one with a leading semicolon is malformed: the channel carries no
// real scaling to apply.
func parseCoeffs(value string) ([]float64, error) {
	if value == "" || value[0] == ';' {
		return nil, errs.ErrEmptyScalingCoeffs
	}

	parts := strings.Split(value, ";")

	coeffs := make([]float64, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			// The field is written with a trailing semicolon.
			continue
		}

		c, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad coefficient %q", errs.ErrInvalidManifest, part)
		}

		coeffs = append(coeffs, c)
	}

	if len(coeffs) == 0 {
		return nil, errs.ErrEmptyScalingCoeffs
	}

	return coeffs, nil
}

// line reads the next newline-terminated line, advancing the byte offset.
func (p *parser) line() (string, error) {
	s, err := p.r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("%w: %d bytes read", errs.ErrTruncatedHeader, p.offset+len(s))
	}

	p.offset += len(s)

	return strings.TrimSuffix(s, "\n"), nil
}

func (p *parser) expectLine(want string) error {
	got, err := p.line()
	if err != nil {
		return err
	}

	if got != want {
		return fmt.Errorf("%w: expected %q, got %q", errs.ErrInvalidManifest, want, got)
	}

	return nil
}

// keyValue reads a "key=value" line and returns the value. The value is
// everything after the first '=', so names may contain spaces.
func (p *parser) keyValue(key string) (string, error) {
	line, err := p.line()
	if err != nil {
		return "", err
	}

	k, v, found := strings.Cut(line, "=")
	if !found || k != key {
		return "", fmt.Errorf("%w: expected %q field, got %q", errs.ErrInvalidManifest, key, line)
	}

	return v, nil
}

func (p *parser) keyUint(key string) (uint32, error) {
	v, err := p.keyValue(key)
	if err != nil {
		return 0, err
	}

	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an unsigned integer", errs.ErrInvalidManifest, key, v)
	}

	return uint32(n), nil
}
