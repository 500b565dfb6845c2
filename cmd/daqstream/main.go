// Command daqstream inspects, decodes, archives and extracts compressed DAQ
// stream files.
//
// Usage:
//
//	daqstream info <file>
//	daqstream decode [-samples N] <file>
//	daqstream archive [-codec none|zstd|s2|lz4] <src> <dst>
//	daqstream extract <src> <dst>
//
// The LOG_LEVEL environment variable (debug, info, warn, error) controls log
// verbosity.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/arloliu/daqstream/format"
	"github.com/arloliu/daqstream/stream"
)

func initLogger() {
	var logLevel zerolog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "info":
		logLevel = zerolog.InfoLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage:
  daqstream info <file>
  daqstream decode [-samples N] <file>
  daqstream archive [-codec none|zstd|s2|lz4] <src> <dst>
  daqstream extract <src> <dst>
`)
	os.Exit(2)
}

func main() {
	initLogger()

	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	case "archive":
		err = runArchive(os.Args[2:])
	case "extract":
		err = runExtract(os.Args[2:])
	default:
		usage()
	}

	if err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("command failed")
	}
}

// runInfo prints the manifest of a stream file and per-channel statistics.
func runInfo(args []string) error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		usage()
	}

	data, err := stream.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	m := data.Manifest
	fmt.Printf("version:      %s\n", m.Version)
	fmt.Printf("header size:  %d bytes\n", m.HeaderSize)
	fmt.Printf("task:         %s\n", m.Task.Name)
	fmt.Printf("block size:   %d samples (%d bytes)\n", m.Task.ReadBlockSize, m.Task.ReadBlockSizeInBytes)
	fmt.Printf("channels:     %d\n", len(m.Task.Channels))

	for i, ch := range m.Task.Channels {
		fmt.Printf("  [%d] %s: %s, %d-bit raw (%d-bit container, %s justified), stored as %d bits, %s\n",
			i, ch.Name, ch.Compression, ch.RawSampleResolution, ch.RawSampleSizeInBits,
			ch.Justification, ch.CompressedSampleSizeInBits, ch.ByteOrder)
	}

	for _, s := range data.Summaries() {
		fmt.Printf("  %s: %d samples, mean %.6f\n", s.Name, s.Samples, s.Mean)
	}

	return nil
}

// runDecode prints decoded, scaled samples one row per sample.
func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	maxSamples := fs.Int("samples", 0, "limit output to the first N samples per channel (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		usage()
	}

	data, err := stream.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	n := data.SampleCount
	if *maxSamples > 0 && *maxSamples < n {
		n = *maxSamples
	}

	log.Debug().
		Int("channels", len(data.Channels)).
		Int("samples", data.SampleCount).
		Msg("decoded stream file")

	for s := 0; s < n; s++ {
		for c := range data.Channels {
			if c > 0 {
				fmt.Print("\t")
			}
			fmt.Printf("%g", data.Channels[c][s])
		}
		fmt.Println()
	}

	return nil
}

// runArchive wraps a stream file into a compressed archive container.
func runArchive(args []string) error {
	fs := flag.NewFlagSet("archive", flag.ExitOnError)
	codecName := fs.String("codec", "zstd", "archive compression: none, zstd, s2 or lz4")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		usage()
	}

	codec, err := format.ParseArchiveCompression(*codecName)
	if err != nil {
		return err
	}

	if err := stream.Archive(fs.Arg(0), fs.Arg(1), codec); err != nil {
		return err
	}

	log.Info().
		Str("src", fs.Arg(0)).
		Str("dst", fs.Arg(1)).
		Str("codec", codec.String()).
		Msg("archived stream file")

	return nil
}

// runExtract restores a stream file from an archive container.
func runExtract(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		usage()
	}

	if err := stream.Extract(fs.Arg(0), fs.Arg(1)); err != nil {
		return err
	}

	log.Info().
		Str("src", fs.Arg(0)).
		Str("dst", fs.Arg(1)).
		Msg("extracted stream file")

	return nil
}
