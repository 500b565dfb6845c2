// Package daqstream reads and writes compressed DAQ streaming files.
//
// A stream file pairs a self-describing text manifest with a binary sample
// region. The manifest records, per channel, how the acquisition hardware
// produced the raw samples (resolution, container width, justification,
// signedness), how the writer compressed them (lossless bit packing, lossy
// LSB removal, or none), and the polynomial scaling coefficients that map
// raw integer codes back to engineering units. Any reader that understands
// the manifest can reconstruct scaled samples without out-of-band knowledge
// of the acquisition setup.
//
// # Basic Usage
//
// Writing a stream file:
//
//	import (
//	    "github.com/arloliu/daqstream"
//	    "github.com/arloliu/daqstream/format"
//	    "github.com/arloliu/daqstream/manifest"
//	)
//
//	task := manifest.Task{
//	    Name:          "voltageTask",
//	    ReadBlockSize: 1000,
//	    Channels: []manifest.Channel{{
//	        Name:                       "Dev1/ai0",
//	        RawSampleResolution:        16,
//	        RawSampleSizeInBits:        16,
//	        Justification:              format.JustifyRight,
//	        Signed:                     true,
//	        Compression:                format.CompressionLosslessPacking,
//	        CompressedSampleSizeInBits: 12,
//	        ByteOrder:                  format.OrderLittleEndian,
//	        ScalingCoeffs:              []float64{0, 3.05e-4},
//	    }},
//	}
//
//	w, _ := daqstream.Create("run.dat", task)
//	w.AppendSamples(blocks) // one []uint32 per channel, ReadBlockSize samples each
//	w.Close()
//
// Reading it back:
//
//	data, _ := daqstream.ReadFile("run.dat")
//	for _, s := range data.Summaries() {
//	    fmt.Printf("%s: %d samples, mean %f\n", s.Name, s.Samples, s.Mean)
//	}
//
// Finished files can be wrapped into checksummed archive containers with
// Archive and restored with Extract.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the stream
// package, covering the common cases. For fine-grained control over headers,
// block packing and decoding, use the manifest, encoding and stream packages
// directly.
package daqstream

import (
	"github.com/arloliu/daqstream/format"
	"github.com/arloliu/daqstream/manifest"
	"github.com/arloliu/daqstream/stream"
)

// Version is the stream file format version written into every manifest.
const Version = manifest.Version

// Create creates a stream file at path and writes its manifest header.
// The returned writer appends sample blocks for the channels declared in task.
func Create(path string, task manifest.Task, opts ...stream.WriterOption) (*stream.Writer, error) {
	return stream.Create(path, task, opts...)
}

// ReadFile reads a stream file (or an archive container wrapping one) and
// returns all channels decoded to scaled engineering units.
func ReadFile(path string) (*stream.Data, error) {
	return stream.ReadFile(path)
}

// Decode decodes an in-memory stream file or archive container.
func Decode(fileBytes []byte) (*stream.Data, error) {
	return stream.Decode(fileBytes)
}

// Archive wraps the stream file at src into a compressed, checksummed archive
// container at dst.
func Archive(src, dst string, comp format.ArchiveCompression) error {
	return stream.Archive(src, dst, comp)
}

// Extract restores the original stream file from the archive container at src.
func Extract(src, dst string) error {
	return stream.Extract(src, dst)
}
