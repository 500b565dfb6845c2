// Package errs defines the sentinel error values shared across daqstream packages.
//
// All errors are created with errors.New and are intended to be wrapped with
// fmt.Errorf("%w: ...") to add context. Callers match them with errors.Is.
package errs

import "errors"

// File I/O errors.
var (
	// ErrIO indicates the stream file could not be created, opened or written.
	ErrIO = errors.New("file I/O failed")
)

// Manifest parsing errors.
var (
	// ErrInvalidManifest indicates the textual header violates the manifest grammar.
	ErrInvalidManifest = errors.New("invalid manifest")

	// ErrInvalidVersion indicates the manifest declares an unsupported format version.
	ErrInvalidVersion = errors.New("unsupported manifest version")

	// ErrInvalidChannelCount indicates the manifest declares fewer than one channel.
	ErrInvalidChannelCount = errors.New("invalid channel count")

	// ErrChannelIndexMismatch indicates a channel section ordinal does not match
	// its position in the manifest.
	ErrChannelIndexMismatch = errors.New("channel section index mismatch")

	// ErrEmptyScalingCoeffs indicates a channel declares no polynomial scaling
	// coefficients; such a channel cannot be scaled to engineering units.
	ErrEmptyScalingCoeffs = errors.New("empty polynomial scaling coefficients")

	// ErrHeaderSizeMismatch indicates the declared HeaderSize does not equal the
	// actual byte offset of the binary data region.
	ErrHeaderSizeMismatch = errors.New("header size mismatch")

	// ErrTruncatedHeader indicates the file ends before the manifest is complete.
	ErrTruncatedHeader = errors.New("truncated manifest header")
)

// Channel configuration errors.
var (
	// ErrInvalidChannelConfig indicates a channel violates the width invariant
	// compressedSampleSize <= rawSampleResolution <= rawSampleSize, or uses a
	// raw sample width outside the supported 1..32 bit range.
	ErrInvalidChannelConfig = errors.New("invalid channel configuration")

	// ErrUnsupportedConfiguration indicates the task mixes raw or compressed
	// sample formats across channels; heterogeneous decoding is not supported.
	ErrUnsupportedConfiguration = errors.New("unsupported task configuration")

	// ErrInvalidBlock indicates a sample block does not match the task layout
	// (wrong channel count or samples per channel).
	ErrInvalidBlock = errors.New("invalid sample block")
)

// Archive container errors.
var (
	// ErrInvalidArchive indicates the archive container magic or layout is invalid.
	ErrInvalidArchive = errors.New("invalid archive container")

	// ErrChecksumMismatch indicates the extracted payload digest does not match
	// the digest recorded in the archive header.
	ErrChecksumMismatch = errors.New("archive checksum mismatch")
)
