package container

import (
	"context"

	"github.com/corvidaudio/metatag/internal/dsf"
	"github.com/corvidaudio/metatag/internal/id3v2"
	"github.com/corvidaudio/metatag/internal/metaerr"
	"github.com/corvidaudio/metatag/internal/vfs"
	"github.com/corvidaudio/metatag/tagmodel"
)

// DSFFile is the DSF (DSD Stream File) file class (spec §4.L): the `DSD `
// header, `fmt `/`data` chunks, and an ID3v2 tag living at the header's
// declared metadata offset rather than inline in the chunk sequence.
// Grounded on internal/dsf, the sole engine for this container.
type DSFFile struct {
	file   *dsf.File
	id3Tag *tagmodel.Id3v2Tag
	audio  AudioProperties
}

// ReadDSF parses a complete DSF file image.
func ReadDSF(b []byte) (*DSFFile, error) {
	file, err := dsf.Decode(b)
	if err != nil {
		return nil, err
	}

	f := &DSFFile{file: file}
	f.audio = AudioProperties{
		SampleRate:    int(file.Format.SampleRate),
		Channels:      int(file.Format.ChannelCount),
		BitsPerSample: int(file.Format.BitsPerSample),
		Duration:      file.Format.DurationSeconds(),
	}

	if len(file.ID3v2) > 0 {
		if tag, err := id3v2.Read(file.ID3v2); err == nil {
			f.id3Tag = tagmodel.NewId3v2Tag(tag)
		}
	}
	if f.id3Tag == nil {
		f.id3Tag = tagmodel.NewId3v2Tag(&id3v2.Tag{Header: &id3v2.Header{Version: id3v2.V2_4}})
	}

	return f, nil
}

// TryReadDSF is ReadDSF with error swallowed to an ok flag.
func TryReadDSF(b []byte) (*DSFFile, bool) {
	f, err := ReadDSF(b)
	if err != nil {
		return nil, false
	}
	return f, true
}

// ReadDSFFromFile reads and parses path through fs.
func ReadDSFFromFile(path string, fs vfs.FS) (*DSFFile, error) {
	b, err := fs.ReadAll(path)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.IoFailure, "reading file", err)
	}
	return ReadDSF(b)
}

// ReadDSFFromFileAsync is ReadDSFFromFile honoring ctx cancellation before
// the read begins.
func ReadDSFFromFileAsync(ctx context.Context, path string, fs vfs.FS) (*DSFFile, error) {
	select {
	case <-ctx.Done():
		return nil, vfs.ErrCancelled
	default:
	}
	return ReadDSFFromFile(path, fs)
}

func (f *DSFFile) Format() Format { return FormatDSF }

func (f *DSFFile) AudioProperties() AudioProperties { return f.audio }

func (f *DSFFile) Tags() []tagmodel.Tag {
	return []tagmodel.Tag{f.id3Tag}
}

// Render re-renders the ID3v2 tag from current state (or drops it if now
// empty), preserving the audio chunks bitwise (spec §4.L DSF rule).
func (f *DSFFile) Render() ([]byte, error) {
	var id3Bytes []byte
	if !f.id3Tag.IsEmpty() {
		view, err := f.id3Tag.Render()
		if err != nil {
			return nil, err
		}
		id3Bytes = view.Bytes()
	}
	return dsf.Encode(f.file, id3Bytes), nil
}

func (f *DSFFile) SaveToFile(path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFile(f, path, fs)
}

func (f *DSFFile) SaveToFileAsync(ctx context.Context, path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFileAsync(ctx, f, path, fs)
}

// audioBytes returns the `data` chunk payload, untouched by tag edits.
func (f *DSFFile) audioBytes() []byte { return f.file.Data }
