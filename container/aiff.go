package container

import (
	"context"

	"github.com/corvidaudio/metatag/internal/aiffmeta"
	"github.com/corvidaudio/metatag/internal/id3v2"
	"github.com/corvidaudio/metatag/internal/metaerr"
	"github.com/corvidaudio/metatag/internal/riffchunk"
	"github.com/corvidaudio/metatag/internal/vfs"
	"github.com/corvidaudio/metatag/tagmodel"
)

// AIFFFile is the AIFF/AIFC file class (spec §4.L, §4.J): the big-endian
// IFF chunk sequence with its `COMM` common chunk and an optional embedded
// `ID3 `/`ID3` tag. Grounded on the same riffchunk-based generalization as
// the WAV file class, swapped to big-endian per AIFF's framing.
type AIFFFile struct {
	form   *riffchunk.Form
	isAIFC bool
	id3Tag *tagmodel.Id3v2Tag
	audio  AudioProperties
}

// ReadAIFF parses a complete AIFF/AIFC file image.
func ReadAIFF(b []byte) (*AIFFFile, error) {
	form, err := riffchunk.DecodeForm(b, riffchunk.BigEndian)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding FORM", err)
	}
	if form.Magic != aiffmeta.Magic || (form.FormType != aiffmeta.FormTypeAIFF && form.FormType != aiffmeta.FormTypeAIFC) {
		return nil, metaerr.New(metaerr.BadMagic, "expected FORM/AIFF or FORM/AIFC")
	}

	f := &AIFFFile{form: form, isAIFC: form.FormType == aiffmeta.FormTypeAIFC}

	if comm := riffchunk.Find(form.Chunks, "COMM"); comm != nil {
		if parsed, err := aiffmeta.DecodeCommonChunk(comm.Payload, f.isAIFC); err == nil {
			f.audio = AudioProperties{
				SampleRate:    int(parsed.SampleRate),
				Channels:      int(parsed.Channels),
				BitsPerSample: int(parsed.BitsPerSample),
			}
			if f.audio.SampleRate > 0 {
				f.audio.Duration = float64(parsed.SampleFrames) / float64(f.audio.SampleRate)
			}
		}
	}

	id3Chunk := riffchunk.Find(form.Chunks, "ID3 ")
	if id3Chunk == nil {
		id3Chunk = riffchunk.Find(form.Chunks, "ID3")
	}
	if id3Chunk != nil {
		if tag, err := id3v2.Read(id3Chunk.Payload); err == nil {
			f.id3Tag = tagmodel.NewId3v2Tag(tag)
		}
	}
	if f.id3Tag == nil {
		f.id3Tag = tagmodel.NewId3v2Tag(&id3v2.Tag{Header: &id3v2.Header{Version: id3v2.V2_4}})
	}

	return f, nil
}

// TryReadAIFF is ReadAIFF with error swallowed to an ok flag.
func TryReadAIFF(b []byte) (*AIFFFile, bool) {
	f, err := ReadAIFF(b)
	if err != nil {
		return nil, false
	}
	return f, true
}

// ReadAIFFFromFile reads and parses path through fs.
func ReadAIFFFromFile(path string, fs vfs.FS) (*AIFFFile, error) {
	b, err := fs.ReadAll(path)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.IoFailure, "reading file", err)
	}
	return ReadAIFF(b)
}

// ReadAIFFFromFileAsync is ReadAIFFFromFile honoring ctx cancellation
// before the read begins.
func ReadAIFFFromFileAsync(ctx context.Context, path string, fs vfs.FS) (*AIFFFile, error) {
	select {
	case <-ctx.Done():
		return nil, vfs.ErrCancelled
	default:
	}
	return ReadAIFFFromFile(path, fs)
}

func (f *AIFFFile) Format() Format { return FormatAIFF }

func (f *AIFFFile) AudioProperties() AudioProperties { return f.audio }

func (f *AIFFFile) Tags() []tagmodel.Tag {
	return []tagmodel.Tag{f.id3Tag}
}

// Render re-renders the embedded ID3 tag from current state, preserving
// every other chunk (COMM, SSND, ...) bitwise (spec §4.J).
func (f *AIFFFile) Render() ([]byte, error) {
	chunks := append([]*riffchunk.Chunk(nil), f.form.Chunks...)

	if !f.id3Tag.IsEmpty() {
		view, err := f.id3Tag.Render()
		if err != nil {
			return nil, err
		}
		id := "ID3 "
		if riffchunk.Find(chunks, "ID3") != nil {
			id = "ID3"
		}
		chunks = replaceOrAppendChunk(chunks, id, view.Bytes())
	}

	out := &riffchunk.Form{Magic: f.form.Magic, FormType: f.form.FormType, Chunks: chunks, Endian: riffchunk.BigEndian}
	return riffchunk.EncodeForm(out), nil
}

func (f *AIFFFile) SaveToFile(path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFile(f, path, fs)
}

func (f *AIFFFile) SaveToFileAsync(ctx context.Context, path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFileAsync(ctx, f, path, fs)
}

// audioBytes returns the `SSND` chunk payload, untouched by tag edits.
func (f *AIFFFile) audioBytes() []byte {
	if c := riffchunk.Find(f.form.Chunks, "SSND"); c != nil {
		return c.Payload
	}
	return nil
}
