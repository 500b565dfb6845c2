// Package format defines the enumerated types used by the daqstream manifest
// and the archive container.
package format

import "fmt"

type (
	SampleCompression  uint8
	ByteOrder          uint8
	Justification      uint8
	ArchiveCompression uint8
)

const (
	// CompressionNone stores raw samples byte-aligned at their full raw width.
	CompressionNone SampleCompression = 0x1
	// CompressionLosslessPacking stores samples at full resolution without
	// byte-aligned padding (bit-dense).
	CompressionLosslessPacking SampleCompression = 0x2
	// CompressionLossyLSBRemoval discards a configurable number of least
	// significant bits before storage.
	CompressionLossyLSBRemoval SampleCompression = 0x3

	OrderLittleEndian ByteOrder = 0x1
	OrderBigEndian    ByteOrder = 0x2

	JustifyLeft  Justification = 0x1
	JustifyRight Justification = 0x2

	ArchiveNone ArchiveCompression = 0x1 // ArchiveNone stores the payload uncompressed.
	ArchiveZstd ArchiveCompression = 0x2 // ArchiveZstd uses Zstandard compression.
	ArchiveS2   ArchiveCompression = 0x3 // ArchiveS2 uses S2 compression.
	ArchiveLZ4  ArchiveCompression = 0x4 // ArchiveLZ4 uses LZ4 block compression.
)

// Manifest tokens as they appear on disk.
const (
	tokenNone            = "None"
	tokenLosslessPacking = "LosslessPacking"
	tokenLossyLSBRemoval = "LossyLSBRemoval"
	tokenLittleEndian    = "LittleEndian"
	tokenBigEndian       = "BigEndian"
	tokenLeft            = "Left"
	tokenRight           = "Right"
)

func (c SampleCompression) String() string {
	switch c {
	case CompressionNone:
		return tokenNone
	case CompressionLosslessPacking:
		return tokenLosslessPacking
	case CompressionLossyLSBRemoval:
		return tokenLossyLSBRemoval
	default:
		return "Unknown"
	}
}

// ParseSampleCompression parses a CompressionType manifest token.
func ParseSampleCompression(s string) (SampleCompression, error) {
	switch s {
	case tokenNone:
		return CompressionNone, nil
	case tokenLosslessPacking:
		return CompressionLosslessPacking, nil
	case tokenLossyLSBRemoval:
		return CompressionLossyLSBRemoval, nil
	default:
		return 0, fmt.Errorf("unknown compression type: %q", s)
	}
}

func (o ByteOrder) String() string {
	switch o {
	case OrderLittleEndian:
		return tokenLittleEndian
	case OrderBigEndian:
		return tokenBigEndian
	default:
		return "Unknown"
	}
}

// ParseByteOrder parses a CompressionByteOrder manifest token.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch s {
	case tokenLittleEndian:
		return OrderLittleEndian, nil
	case tokenBigEndian:
		return OrderBigEndian, nil
	default:
		return 0, fmt.Errorf("unknown byte order: %q", s)
	}
}

func (j Justification) String() string {
	switch j {
	case JustifyLeft:
		return tokenLeft
	case JustifyRight:
		return tokenRight
	default:
		return "Unknown"
	}
}

// ParseJustification parses a RawSampleJustification manifest token.
func ParseJustification(s string) (Justification, error) {
	switch s {
	case tokenLeft:
		return JustifyLeft, nil
	case tokenRight:
		return JustifyRight, nil
	default:
		return 0, fmt.Errorf("unknown justification: %q", s)
	}
}

func (a ArchiveCompression) String() string {
	switch a {
	case ArchiveNone:
		return "None"
	case ArchiveZstd:
		return "Zstd"
	case ArchiveS2:
		return "S2"
	case ArchiveLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseArchiveCompression parses an archive compression name, as accepted by
// the daqstream CLI.
func ParseArchiveCompression(s string) (ArchiveCompression, error) {
	switch s {
	case "none", "None":
		return ArchiveNone, nil
	case "zstd", "Zstd":
		return ArchiveZstd, nil
	case "s2", "S2":
		return ArchiveS2, nil
	case "lz4", "LZ4":
		return ArchiveLZ4, nil
	default:
		return 0, fmt.Errorf("unknown archive compression: %q", s)
	}
}
