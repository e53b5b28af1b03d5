package container

import (
	"bytes"
	"context"

	"github.com/corvidaudio/metatag/internal/apetag"
	"github.com/corvidaudio/metatag/internal/metaerr"
	"github.com/corvidaudio/metatag/internal/musepack"
	"github.com/corvidaudio/metatag/internal/vfs"
	"github.com/corvidaudio/metatag/tagmodel"
)

// MusepackFile is the Musepack SV7/SV8 file class (spec §4.L): a fixed
// SV7 `MP+` header or an SV8 `MPCK` packet stream, with metadata carried in
// a trailing APEv2 footer in both variants. Grounded on internal/musepack
// (stream-header decoding) and the APEv2 trailer handling already
// established for MP3's apeTagSize helper, since both containers append
// the same footer shape.
type MusepackFile struct {
	variant     Format // FormatMusepackSV7 or FormatMusepackSV8
	headerBytes []byte // SV7's 16-byte header, or SV8's 4-byte "MPCK" magic
	body        []byte // opaque audio region between the header and any APEv2 trailer
	apeTag      *tagmodel.ApeV2Tag
	audio       AudioProperties
}

// ReadMusepack parses a complete Musepack SV7 or SV8 file image.
func ReadMusepack(b []byte) (*MusepackFile, error) {
	switch {
	case len(b) >= 3 && string(b[0:3]) == musepack.MagicSV7:
		return readMusepackSV7(b)
	case len(b) >= 4 && string(b[0:4]) == musepack.MagicSV8:
		return readMusepackSV8(b)
	default:
		return nil, metaerr.New(metaerr.BadMagic, "expected 'MP+' or 'MPCK'")
	}
}

func readMusepackSV7(b []byte) (*MusepackFile, error) {
	if len(b) < 16 {
		return nil, metaerr.New(metaerr.TruncatedInput, "SV7 header")
	}
	header, err := musepack.DecodeSV7(b)
	if err != nil {
		return nil, err
	}

	f := &MusepackFile{
		variant:     FormatMusepackSV7,
		headerBytes: append([]byte(nil), b[0:16]...),
	}
	f.audio = AudioProperties{
		SampleRate: int(header.SampleRate()),
		Channels:   int(header.Channels),
		Duration:   header.DurationSeconds(),
	}

	bodyEnd, ape := splitAPETrailer(b)
	f.apeTag = ape
	f.body = append([]byte(nil), b[16:bodyEnd]...)
	return f, nil
}

func readMusepackSV8(b []byte) (*MusepackFile, error) {
	bodyEnd, ape := splitAPETrailer(b)
	if bodyEnd < 4 {
		return nil, metaerr.New(metaerr.TruncatedInput, "SV8 stream")
	}

	packets, err := musepack.DecodePackets(b[4:bodyEnd])
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding SV8 packets", err)
	}

	f := &MusepackFile{
		variant:     FormatMusepackSV8,
		headerBytes: append([]byte(nil), b[0:4]...),
		apeTag:      ape,
		body:        append([]byte(nil), b[4:bodyEnd]...),
	}

	for _, p := range packets {
		if p.Key != "SH" {
			continue
		}
		sh, err := musepack.DecodeStreamHeader(p.Payload)
		if err != nil {
			break
		}
		f.audio = AudioProperties{
			SampleRate: int(sh.SampleRate()),
			Channels:   int(sh.Channels),
		}
		if f.audio.SampleRate > 0 {
			f.audio.Duration = float64(sh.SampleCount) / float64(f.audio.SampleRate)
		}
		break
	}

	return f, nil
}

// splitAPETrailer locates an optional APEv2 footer at the end of b and
// returns the offset where the preceding audio body ends, plus the decoded
// tag (an empty ApeV2Tag when absent, so callers can still add one on
// save).
func splitAPETrailer(b []byte) (int, *tagmodel.ApeV2Tag) {
	end := len(b)
	if end >= apetag.FooterSize && bytes.Equal(b[end-apetag.FooterSize:end-apetag.FooterSize+8], []byte(apetag.Magic)) {
		if tag, err := apetag.Decode(b); err == nil {
			if size, err := apeTagSize(b); err == nil {
				return end - size, tagmodel.NewApeV2Tag(tag)
			}
		}
	}
	return end, tagmodel.NewApeV2Tag(&apetag.Tag{})
}

// TryReadMusepack is ReadMusepack with error swallowed to an ok flag.
func TryReadMusepack(b []byte) (*MusepackFile, bool) {
	f, err := ReadMusepack(b)
	if err != nil {
		return nil, false
	}
	return f, true
}

// ReadMusepackFromFile reads and parses path through fs.
func ReadMusepackFromFile(path string, fs vfs.FS) (*MusepackFile, error) {
	b, err := fs.ReadAll(path)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.IoFailure, "reading file", err)
	}
	return ReadMusepack(b)
}

// ReadMusepackFromFileAsync is ReadMusepackFromFile honoring ctx
// cancellation before the read begins.
func ReadMusepackFromFileAsync(ctx context.Context, path string, fs vfs.FS) (*MusepackFile, error) {
	select {
	case <-ctx.Done():
		return nil, vfs.ErrCancelled
	default:
	}
	return ReadMusepackFromFile(path, fs)
}

func (f *MusepackFile) Format() Format { return f.variant }

func (f *MusepackFile) AudioProperties() AudioProperties { return f.audio }

func (f *MusepackFile) Tags() []tagmodel.Tag {
	return []tagmodel.Tag{f.apeTag}
}

// Render preserves the stream header and audio body bitwise, appending a
// freshly rendered APEv2 trailer from current tag state (spec §4.L
// Musepack rule: "APEv2 footer carries metadata").
func (f *MusepackFile) Render() ([]byte, error) {
	var out []byte
	out = append(out, f.headerBytes...)
	out = append(out, f.body...)
	if !f.apeTag.IsEmpty() {
		view, err := f.apeTag.Render()
		if err != nil {
			return nil, err
		}
		out = append(out, view.Bytes()...)
	}
	return out, nil
}

func (f *MusepackFile) SaveToFile(path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFile(f, path, fs)
}

func (f *MusepackFile) SaveToFileAsync(ctx context.Context, path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFileAsync(ctx, f, path, fs)
}

// audioBytes returns the packet/frame stream, untouched by tag edits.
func (f *MusepackFile) audioBytes() []byte { return f.body }
