package container

import (
	"context"

	"github.com/corvidaudio/metatag/internal/apetag"
	"github.com/corvidaudio/metatag/internal/metaerr"
	"github.com/corvidaudio/metatag/internal/vfs"
	"github.com/corvidaudio/metatag/tagmodel"
)

// APEFile is the standalone APEv2 file class (spec §4.M "APE standalone"):
// an audio body of unknown/opaque internal structure (Monkey's Audio
// itself is out of scope per the decoding-audio Non-goal) with an APEv2
// trailer. Grounded on internal/apetag, reusing the same footer-size
// accounting as the MP3 and Musepack file classes' APE trailers.
type APEFile struct {
	body   []byte
	apeTag *tagmodel.ApeV2Tag
}

// ReadAPEFile parses a file recognized purely by its trailing APETAGEX
// footer, with no other container structure assumed.
func ReadAPEFile(b []byte) (*APEFile, error) {
	bodyEnd, ape := splitAPETrailer(b)
	if ape.IsEmpty() {
		return nil, metaerr.New(metaerr.BadMagic, "no APEv2 footer found")
	}
	return &APEFile{body: append([]byte(nil), b[:bodyEnd]...), apeTag: ape}, nil
}

// TryReadAPEFile is ReadAPEFile with error swallowed to an ok flag.
func TryReadAPEFile(b []byte) (*APEFile, bool) {
	f, err := ReadAPEFile(b)
	if err != nil {
		return nil, false
	}
	return f, true
}

// ReadAPEFileFromFile reads and parses path through fs.
func ReadAPEFileFromFile(path string, fs vfs.FS) (*APEFile, error) {
	b, err := fs.ReadAll(path)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.IoFailure, "reading file", err)
	}
	return ReadAPEFile(b)
}

// ReadAPEFileFromFileAsync is ReadAPEFileFromFile honoring ctx cancellation
// before the read begins.
func ReadAPEFileFromFileAsync(ctx context.Context, path string, fs vfs.FS) (*APEFile, error) {
	select {
	case <-ctx.Done():
		return nil, vfs.ErrCancelled
	default:
	}
	return ReadAPEFileFromFile(path, fs)
}

func (f *APEFile) Format() Format { return FormatAPE }

// AudioProperties is always the zero value: this file class carries no
// audio-frame structure of its own to derive properties from.
func (f *APEFile) AudioProperties() AudioProperties { return AudioProperties{} }

func (f *APEFile) Tags() []tagmodel.Tag {
	return []tagmodel.Tag{f.apeTag}
}

// Render preserves the audio body bitwise and appends a freshly rendered
// APEv2 trailer from current tag state.
func (f *APEFile) Render() ([]byte, error) {
	view, err := f.apeTag.Render()
	if err != nil {
		return nil, err
	}
	out := append([]byte(nil), f.body...)
	return append(out, view.Bytes()...), nil
}

func (f *APEFile) SaveToFile(path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFile(f, path, fs)
}

func (f *APEFile) SaveToFileAsync(ctx context.Context, path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFileAsync(ctx, f, path, fs)
}

// audioBytes returns the opaque body preceding the APEv2 trailer.
func (f *APEFile) audioBytes() []byte { return f.body }
