// Package stream implements file-level access to daqstream files: a streaming
// writer fed block by block from an acquisition loop, a reader that
// reconstructs per-channel engineering-unit series, and an archive container
// for finished stream files.
package stream

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/daqstream/encoding"
	"github.com/arloliu/daqstream/errs"
	"github.com/arloliu/daqstream/internal/options"
	"github.com/arloliu/daqstream/manifest"
)

// writerConfig holds the configurable writer behavior.
type writerConfig struct {
	fileMode      os.FileMode
	syncEachBlock bool
}

// WriterOption represents a functional option for configuring the Writer.
type WriterOption = options.Option[*writerConfig]

// WithFileMode sets the permission bits of the created stream file.
// The default is 0o644.
func WithFileMode(mode os.FileMode) WriterOption {
	return options.NoError(func(c *writerConfig) {
		c.fileMode = mode
	})
}

// WithSyncEachBlock forces an fsync after every appended block. Slower, but
// bounds data loss when the acquisition host crashes mid-run.
func WithSyncEachBlock(enabled bool) WriterOption {
	return options.NoError(func(c *writerConfig) {
		c.syncEachBlock = enabled
	})
}

// Writer streams acquisition blocks into a daqstream file.
//
// Create writes the manifest header immediately; AppendBlock appends raw
// bytes in write order. A partially written run leaves a file with a valid
// header and a possibly truncated data region, which the reader tolerates.
//
// The Writer is not safe for concurrent use: it is designed to be driven by
// a single acquisition callback.
type Writer struct {
	f          *os.File
	packer     *encoding.BlockPacker
	task       manifest.Task
	headerSize int64
	cfg        writerConfig
}

// Create opens path for writing and emits the manifest header for the given
// task. The task's ReadBlockSizeInBytes field is computed from its channels
// and ReadBlockSize; any value already set by the caller is ignored.
//
// The header is first written with a fixed-width HeaderSize placeholder,
// flushed, measured, then the placeholder is rewritten in place. The field is
// reserved at a fixed textual width so the patch never moves the bytes that
// follow it.
func Create(path string, task manifest.Task, opts ...WriterOption) (*Writer, error) {
	cfg := writerConfig{fileMode: 0o644}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	blockBytes, err := encoding.BlockSizeInBytes(taskChannels(task), int(task.ReadBlockSize))
	if err != nil {
		return nil, err
	}
	task.ReadBlockSizeInBytes = uint32(blockBytes)

	header, sizeFieldOffset, err := manifest.Render(task)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, cfg.fileMode)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", errs.ErrIO, path, err)
	}

	w := &Writer{f: f, task: task, cfg: cfg}

	if err := w.writeHeader(header, sizeFieldOffset); err != nil {
		f.Close()
		os.Remove(path)

		return nil, err
	}

	return w, nil
}

// writeHeader writes the rendered header, measures its on-disk length and
// patches the HeaderSize field in place.
func (w *Writer) writeHeader(header []byte, sizeFieldOffset int) error {
	if _, err := w.f.Write(header); err != nil {
		return fmt.Errorf("%w: write header: %w", errs.ErrIO, err)
	}

	if err := w.f.Sync(); err != nil {
		return fmt.Errorf("%w: flush header: %w", errs.ErrIO, err)
	}

	fi, err := w.f.Stat()
	if err != nil {
		return fmt.Errorf("%w: measure header: %w", errs.ErrIO, err)
	}
	w.headerSize = fi.Size()

	digits, err := manifest.EncodeHeaderSize(w.headerSize)
	if err != nil {
		return err
	}

	if _, err := w.f.WriteAt(digits, int64(sizeFieldOffset)); err != nil {
		return fmt.Errorf("%w: patch header size: %w", errs.ErrIO, err)
	}

	if _, err := w.f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("%w: seek to data region: %w", errs.ErrIO, err)
	}

	return nil
}

// HeaderSize returns the byte offset where the binary data region begins.
func (w *Writer) HeaderSize() int64 {
	return w.headerSize
}

// BlockSizeInBytes returns the on-disk size of one sample block.
func (w *Writer) BlockSizeInBytes() int {
	return int(w.task.ReadBlockSizeInBytes)
}

// AppendBlock appends raw block bytes to the data region in write order.
// The bytes must already be laid out per the task's channel configuration,
// as delivered by the acquisition driver.
func (w *Writer) AppendBlock(b []byte) error {
	if w.f == nil {
		return fmt.Errorf("%w: writer is closed", errs.ErrIO)
	}

	if _, err := w.f.Write(b); err != nil {
		return fmt.Errorf("%w: append block: %w", errs.ErrIO, err)
	}

	if w.cfg.syncEachBlock {
		if err := w.f.Sync(); err != nil {
			return fmt.Errorf("%w: sync block: %w", errs.ErrIO, err)
		}
	}

	return nil
}

// AppendSamples packs one block of raw sample codes per the task's channel
// layout and appends it. chans holds one slice per channel in declared order,
// each with exactly ReadBlockSize values at the channel's raw width.
func (w *Writer) AppendSamples(chans [][]uint32) error {
	if w.packer == nil {
		packer, err := encoding.NewBlockPacker(taskChannels(w.task), int(w.task.ReadBlockSize))
		if err != nil {
			return err
		}
		w.packer = packer
	}

	block, err := w.packer.Pack(chans)
	if err != nil {
		return err
	}

	return w.AppendBlock(block)
}

// Close flushes and releases the file handle.
func (w *Writer) Close() error {
	if w.packer != nil {
		w.packer.Finish()
		w.packer = nil
	}

	if w.f == nil {
		return nil
	}

	err := w.f.Close()
	w.f = nil
	if err != nil {
		return fmt.Errorf("%w: close: %w", errs.ErrIO, err)
	}

	return nil
}

// taskChannels maps manifest channel records onto the codec configuration.
func taskChannels(t manifest.Task) []encoding.Channel {
	chans := make([]encoding.Channel, len(t.Channels))
	for i := range t.Channels {
		ch := &t.Channels[i]
		chans[i] = encoding.Channel{
			RawResolution: ch.RawSampleResolution,
			RawSizeBits:   ch.RawSampleSizeInBits,
			Justification: ch.Justification,
			Signed:        ch.Signed,
			Compression:   ch.Compression,
			StoredBits:    ch.CompressedSampleSizeInBits,
			Order:         ch.ByteOrder,
			Coeffs:        ch.ScalingCoeffs,
		}
	}

	return chans
}
