package container

import (
	"context"

	"github.com/corvidaudio/metatag/internal/dff"
	"github.com/corvidaudio/metatag/internal/id3v2"
	"github.com/corvidaudio/metatag/internal/metaerr"
	"github.com/corvidaudio/metatag/internal/riffchunk"
	"github.com/corvidaudio/metatag/internal/vfs"
	"github.com/corvidaudio/metatag/tagmodel"
)

// DFFFile is the Philips DSDIFF (DFF) file class (spec §4.L): the `FRM8`
// outer form with its `PROP`/`FS `/`CHNL`/`CMPR` sub-chunks, `DSD`/`DST`
// audio chunk, and an optional `ID3 ` chunk. Grounded on internal/dff, the
// sole engine for this container.
type DFFFile struct {
	file   *dff.File
	id3Tag *tagmodel.Id3v2Tag
	audio  AudioProperties
}

// ReadDFF parses a complete DFF file image.
func ReadDFF(b []byte) (*DFFFile, error) {
	file, err := dff.Decode(b)
	if err != nil {
		return nil, err
	}

	f := &DFFFile{file: file}

	var sampleRate, channels int
	if file.Properties != nil {
		if fsChunk := riffchunk.Find(file.Properties.Chunks, "FS "); fsChunk != nil && len(fsChunk.Payload) >= 4 {
			sampleRate = int(be32Chunk(fsChunk.Payload[0:4]))
		}
		if chnlChunk := riffchunk.Find(file.Properties.Chunks, "CHNL"); chnlChunk != nil && len(chnlChunk.Payload) >= 2 {
			channels = int(be16Chunk(chnlChunk.Payload[0:2]))
		}
	}

	bits := 0
	if file.AudioType == "DSD " {
		bits = 1
	}

	f.audio = AudioProperties{SampleRate: sampleRate, Channels: channels, BitsPerSample: bits}
	if sampleRate > 0 && channels > 0 {
		samples := file.SampleCount(channels)
		f.audio.Duration = float64(samples) / float64(sampleRate)
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

func be32Chunk(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func be16Chunk(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// TryReadDFF is ReadDFF with error swallowed to an ok flag.
func TryReadDFF(b []byte) (*DFFFile, bool) {
	f, err := ReadDFF(b)
	if err != nil {
		return nil, false
	}
	return f, true
}

// ReadDFFFromFile reads and parses path through fs.
func ReadDFFFromFile(path string, fs vfs.FS) (*DFFFile, error) {
	b, err := fs.ReadAll(path)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.IoFailure, "reading file", err)
	}
	return ReadDFF(b)
}

// ReadDFFFromFileAsync is ReadDFFFromFile honoring ctx cancellation before
// the read begins.
func ReadDFFFromFileAsync(ctx context.Context, path string, fs vfs.FS) (*DFFFile, error) {
	select {
	case <-ctx.Done():
		return nil, vfs.ErrCancelled
	default:
	}
	return ReadDFFFromFile(path, fs)
}

func (f *DFFFile) Format() Format { return FormatDFF }

func (f *DFFFile) AudioProperties() AudioProperties { return f.audio }

func (f *DFFFile) Tags() []tagmodel.Tag {
	return []tagmodel.Tag{f.id3Tag}
}

// Render re-renders the ID3  chunk from current state, preserving
// FVER/PROP/audio and any unrecognized chunks bitwise (spec §4.L DFF rule).
func (f *DFFFile) Render() ([]byte, error) {
	if f.id3Tag.IsEmpty() {
		f.file.ID3v2 = nil
	} else {
		view, err := f.id3Tag.Render()
		if err != nil {
			return nil, err
		}
		f.file.ID3v2 = view.Bytes()
	}
	return dff.Encode(f.file), nil
}

func (f *DFFFile) SaveToFile(path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFile(f, path, fs)
}

func (f *DFFFile) SaveToFileAsync(ctx context.Context, path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFileAsync(ctx, f, path, fs)
}

// audioBytes returns the DSD/DST audio chunk, untouched by tag edits.
func (f *DFFFile) audioBytes() []byte { return f.file.Audio }
