// Copyright 2015, David Howden
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package metatag reads and writes audio metadata across MP3 (ID3v1/
// ID3v2.{2,3,4}), FLAC, Ogg Vorbis/Opus, MP4/M4A, RIFF/WAVE, AIFF/AIFC,
// DSF, DFF, Musepack and standalone APEv2 files. It generalizes the
// teacher's single `ReadFrom(io.ReadSeeker) (Metadata, error)` entry point
// into a recognize/open/render/save surface that also writes tags back,
// built on internal/container's per-format file classes.
package metatag

import (
	"context"

	"go.uber.org/zap"

	"github.com/corvidaudio/metatag/container"
	"github.com/corvidaudio/metatag/internal/vfs"
)

// Re-exported so callers need only import this package for the common
// path; internal/container remains the home of the per-format logic.
type (
	MediaFile       = container.MediaFile
	Format          = container.Format
	AudioProperties = container.AudioProperties
	OpenResult      = container.OpenResult
)

// Options configures a single Open/Save call (spec §6 ambient config: no
// persisted configuration, only per-call functional options).
type Options struct {
	logger *zap.SugaredLogger
}

// Option mutates Options; see WithLogger.
type Option func(*Options)

// WithLogger injects a structured logger. Every call site that would log
// is a no-op when unset (the default), matching the library's "never
// prints or logs unless asked" contract.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *Options) { o.logger = l }
}

func build(opts []Option) Options {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func (o Options) log(path string, format Format, err error) {
	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Debugw("metatag: open failed", "path", path, "error", err)
		return
	}
	o.logger.Debugw("metatag: opened", "path", path, "format", format)
}

// Open recognizes and decodes b, using hint (a lowercase file extension
// with no dot, or "") to break ties a magic sniff alone can't resolve.
func Open(b []byte, hint string, opts ...Option) OpenResult {
	o := build(opts)
	res := container.Open(b, hint)
	o.log(hint, res.Format, res.Err)
	return res
}

// OpenFile opens and recognizes the file at path through fs.
func OpenFile(path string, fs vfs.FS, opts ...Option) OpenResult {
	o := build(opts)
	res := container.ReadFromFile(path, fs)
	o.log(path, res.Format, res.Err)
	return res
}

// OpenFileAsync is OpenFile honoring ctx cancellation before the read
// begins (spec §5 Suspension points).
func OpenFileAsync(ctx context.Context, path string, fs vfs.FS, opts ...Option) OpenResult {
	o := build(opts)
	res := container.ReadFromFileAsync(ctx, path, fs)
	o.log(path, res.Format, res.Err)
	return res
}

// Save renders file and atomically writes it to path through fs.
func Save(file MediaFile, path string, fs vfs.FS, opts ...Option) vfs.WriteResult {
	o := build(opts)
	res := container.SaveToFile(file, path, fs)
	if o.logger != nil {
		if res.Error != nil {
			o.logger.Debugw("metatag: save failed", "path", path, "error", res.Error)
		} else {
			o.logger.Debugw("metatag: saved", "path", path)
		}
	}
	return res
}

// SaveAsync is Save but honors ctx cancellation cooperatively through the
// underlying atomic write (spec §5 Cancellation).
func SaveAsync(ctx context.Context, file MediaFile, path string, fs vfs.FS, opts ...Option) vfs.WriteResult {
	o := build(opts)
	res := container.SaveToFileAsync(ctx, file, path, fs)
	if o.logger != nil {
		if res.Error != nil {
			o.logger.Debugw("metatag: save failed", "path", path, "error", res.Error)
		} else {
			o.logger.Debugw("metatag: saved", "path", path)
		}
	}
	return res
}

// AudioChecksum returns a hex-encoded, metadata-invariant checksum of
// file's audio-only byte range (spec-adjacent convenience; see
// container.AudioChecksum).
func AudioChecksum(file MediaFile) (string, error) {
	return container.AudioChecksum(file)
}
