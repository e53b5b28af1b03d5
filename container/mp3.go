package container

import (
	"bytes"
	"context"

	"github.com/corvidaudio/metatag/internal/apetag"
	"github.com/corvidaudio/metatag/internal/id3v1"
	"github.com/corvidaudio/metatag/internal/id3v2"
	"github.com/corvidaudio/metatag/internal/metaerr"
	"github.com/corvidaudio/metatag/internal/vfs"
	"github.com/corvidaudio/metatag/tagmodel"
)

// MP3File is the MP3 file class (spec §4.L): an optional ID3v2 prefix, the
// MPEG audio body (preserved bitwise), and optional ID3v1/APEv2 trailers.
// Grounded on the teacher's mp3.go (audio-property derivation) and
// id3v2.go/id3v2metadata.go (the ID3v2 prefix it reads but never writes
// back); generalized here to a read/modify/render round trip.
type MP3File struct {
	id3v2Tag *tagmodel.Id3v2Tag
	id3v1Tag *tagmodel.Id3v1Tag
	apeTag   *tagmodel.ApeV2Tag
	body     []byte // MPEG audio frames, between the ID3v2 prefix and any trailer
	audio    AudioProperties
}

// ReadMP3 parses a complete MP3 file image.
func ReadMP3(b []byte) (*MP3File, error) {
	f := &MP3File{}

	offset := 0
	if len(b) >= 10 && string(b[0:3]) == "ID3" {
		tag, err := id3v2.Read(b)
		if err != nil {
			return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding ID3v2 prefix", err)
		}
		f.id3v2Tag = tagmodel.NewId3v2Tag(tag)
		offset = id3v2.HeaderSize + tag.Header.Size
		if tag.Header.Footer {
			offset += 10 // Header.Size excludes the optional v2.4 footer
		}
		if offset > len(b) {
			offset = len(b)
		}
	} else {
		f.id3v2Tag = tagmodel.NewId3v2Tag(&id3v2.Tag{Header: &id3v2.Header{Version: id3v2.V2_4}})
	}

	trailerEnd := len(b)

	if trailerEnd-offset >= id3v1.TagSize && bytes.Equal(b[trailerEnd-id3v1.TagSize:trailerEnd-id3v1.TagSize+3], []byte("TAG")) {
		v1, err := id3v1.Read(b[:trailerEnd])
		if err == nil {
			f.id3v1Tag = tagmodel.NewId3v1Tag(v1)
			trailerEnd -= id3v1.TagSize
		}
	}

	if trailerEnd-offset >= apetag.FooterSize && bytes.Equal(b[trailerEnd-apetag.FooterSize:trailerEnd-apetag.FooterSize+8], []byte(apetag.Magic)) {
		ape, err := apetag.Decode(b[:trailerEnd])
		if err == nil {
			f.apeTag = tagmodel.NewApeV2Tag(ape)
			itemsLen, derr := apeTagSize(b[:trailerEnd])
			if derr == nil {
				trailerEnd -= itemsLen
			}
		}
	}

	f.body = append([]byte(nil), b[offset:trailerEnd]...)
	f.audio = parseAudioProperties(f.body)

	return f, nil
}

// apeTagSize returns the total on-disk size (items + footer, plus a
// mirrored header when present) of the APEv2 tag ending at the end of b,
// so the caller can exclude it from the preserved audio body.
func apeTagSize(b []byte) (int, error) {
	footer := b[len(b)-apetag.FooterSize:]
	tagSize, err := leU32(footer[12:16])
	if err != nil {
		return 0, err
	}
	flags, err := leU32(footer[20:24])
	if err != nil {
		return 0, err
	}
	size := int(tagSize)
	if flags&(1<<31) != 0 { // has-header bit
		size += apetag.FooterSize
	}
	return size, nil
}

func leU32(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, metaerr.New(metaerr.TruncatedInput, "expected 4 bytes")
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// TryReadMP3 is ReadMP3 with error swallowed to an ok flag, matching the
// orchestrator's TryRead convention (spec §4.L).
func TryReadMP3(b []byte) (*MP3File, bool) {
	f, err := ReadMP3(b)
	if err != nil {
		return nil, false
	}
	return f, true
}

// ReadMP3FromFile reads and parses path through fs.
func ReadMP3FromFile(path string, fs vfs.FS) (*MP3File, error) {
	b, err := fs.ReadAll(path)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.IoFailure, "reading file", err)
	}
	return ReadMP3(b)
}

// ReadMP3FromFileAsync is ReadMP3FromFile honoring ctx cancellation before
// the read begins.
func ReadMP3FromFileAsync(ctx context.Context, path string, fs vfs.FS) (*MP3File, error) {
	select {
	case <-ctx.Done():
		return nil, vfs.ErrCancelled
	default:
	}
	return ReadMP3FromFile(path, fs)
}

func (f *MP3File) Format() Format { return FormatMP3 }

func (f *MP3File) AudioProperties() AudioProperties { return f.audio }

// Tags returns every tag variant this file carries, ID3v2 first (the
// teacher's ReadFrom preference order for MP3), then ID3v1, then APEv2.
func (f *MP3File) Tags() []tagmodel.Tag {
	var tags []tagmodel.Tag
	if f.id3v2Tag != nil {
		tags = append(tags, f.id3v2Tag)
	}
	if f.id3v1Tag != nil {
		tags = append(tags, f.id3v1Tag)
	}
	if f.apeTag != nil {
		tags = append(tags, f.apeTag)
	}
	return tags
}

// Render rebuilds the complete file image: a fresh ID3v2 prefix, the
// preserved audio body bitwise, then any APEv2/ID3v1 trailers re-rendered
// from their current state (spec §4.L MP3 rule).
func (f *MP3File) Render() ([]byte, error) {
	var out []byte

	if f.id3v2Tag != nil && !f.id3v2Tag.IsEmpty() {
		view, err := f.id3v2Tag.Render()
		if err != nil {
			return nil, err
		}
		out = append(out, view.Bytes()...)
	}

	out = append(out, f.body...)

	if f.apeTag != nil && !f.apeTag.IsEmpty() {
		view, err := f.apeTag.Render()
		if err != nil {
			return nil, err
		}
		out = append(out, view.Bytes()...)
	}

	if f.id3v1Tag != nil && !f.id3v1Tag.IsEmpty() {
		view, err := f.id3v1Tag.Render()
		if err != nil {
			return nil, err
		}
		out = append(out, view.Bytes()...)
	}

	return out, nil
}

// SaveToFile renders f and atomically writes it to path through fs.
func (f *MP3File) SaveToFile(path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFile(f, path, fs)
}

// SaveToFileAsync is SaveToFile honoring ctx cancellation cooperatively.
func (f *MP3File) SaveToFileAsync(ctx context.Context, path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFileAsync(ctx, f, path, fs)
}

// audioBytes returns the MPEG frame region, untouched by tag edits.
func (f *MP3File) audioBytes() []byte { return f.body }
