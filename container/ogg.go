package container

import (
	"context"

	"github.com/corvidaudio/metatag/internal/metaerr"
	"github.com/corvidaudio/metatag/internal/oggpage"
	"github.com/corvidaudio/metatag/internal/vfs"
	"github.com/corvidaudio/metatag/internal/vorbis"
	"github.com/corvidaudio/metatag/tagmodel"
)

// OggFile is the Ogg Vorbis / Ogg Opus file class (spec §4.L Ogg rule): the
// first two pages carry the identification and comment header packets and
// are rebuilt on save (granule/sequence preserved); every later page is
// copied verbatim. Grounded on the teacher's ogg.go, which walks the same
// two header packets read-only via internal/oggpage.
type OggFile struct {
	codec      Format // FormatOggVorbis or FormatOggOpus
	identPage  *oggpage.Page
	commentPage *oggpage.Page
	tail       []byte // every byte from the end of the comment page to EOF
	commentTag *tagmodel.VorbisCommentTag
	audio      AudioProperties
}

// ReadOgg parses a complete Ogg Vorbis or Ogg Opus file image.
func ReadOgg(b []byte) (*OggFile, error) {
	identPage, n1, err := oggpage.ReadPage(b)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "reading ogg identification page", err)
	}
	commentPage, n2, err := oggpage.ReadPage(b[n1:])
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "reading ogg comment page", err)
	}

	f := &OggFile{
		identPage:   identPage,
		commentPage: commentPage,
		tail:        append([]byte(nil), b[n1+n2:]...),
	}

	switch {
	case len(identPage.Payload) >= 7 && identPage.Payload[0] == 0x01 && string(identPage.Payload[1:7]) == "vorbis":
		f.codec = FormatOggVorbis
		f.audio = parseVorbisIdent(identPage.Payload)
	case len(identPage.Payload) >= 8 && string(identPage.Payload[0:8]) == "OpusHead":
		f.codec = FormatOggOpus
		f.audio = parseOpusIdent(identPage.Payload)
	default:
		return nil, metaerr.New(metaerr.UnsupportedVersion, "unrecognized ogg codec identification packet")
	}

	blk, err := decodeCommentPacket(f.codec, commentPage.Payload)
	if err != nil {
		return nil, err
	}
	f.commentTag = tagmodel.NewVorbisCommentTag(blk, f.codec == FormatOggVorbis)

	f.audio.Duration = oggDuration(b, f.audio.SampleRate)

	return f, nil
}

// decodeCommentPacket strips the codec-specific magic prefix from a comment
// packet and decodes the remaining Vorbis Comment body. Vorbis prefixes a
// packet-type byte plus "vorbis" and carries a trailing framing bit; Opus
// prefixes "OpusTags" with no framing bit (spec §4.L Opus-specific rule).
func decodeCommentPacket(codec Format, payload []byte) (*vorbis.Block, error) {
	switch codec {
	case FormatOggVorbis:
		if len(payload) < 7 || payload[0] != 0x03 || string(payload[1:7]) != "vorbis" {
			return nil, metaerr.New(metaerr.BadMagic, "expected vorbis comment packet")
		}
		return vorbis.Decode(payload[7:], true)
	case FormatOggOpus:
		if len(payload) < 8 || string(payload[0:8]) != "OpusTags" {
			return nil, metaerr.New(metaerr.BadMagic, "expected OpusTags packet")
		}
		return vorbis.Decode(payload[8:], false)
	default:
		return nil, metaerr.New(metaerr.UnsupportedVersion, "unknown ogg codec")
	}
}

// parseVorbisIdent extracts channel count and sample rate from a Vorbis
// identification packet (spec §4.G / Xiph Vorbis I spec: 1-byte type +
// "vorbis" + 4-byte LE version + 1-byte channels + 4-byte LE sample rate +
// bitrate triple + blocksize byte + framing bit).
func parseVorbisIdent(b []byte) AudioProperties {
	if len(b) < 16 {
		return AudioProperties{}
	}
	channels := int(b[11])
	sampleRate := leU32Ogg(b[12:16])
	var bitrate int
	if len(b) >= 24 {
		bitrate = int(leU32Ogg(b[20:24])) / 1000 // nominal bitrate, bps -> kbps
	}
	return AudioProperties{Channels: channels, SampleRate: int(sampleRate), Bitrate: bitrate}
}

// parseOpusIdent extracts channel count and input sample rate from an
// OpusHead packet (spec §4.L Opus-specific rule).
func parseOpusIdent(b []byte) AudioProperties {
	if len(b) < 16 {
		return AudioProperties{}
	}
	channels := int(b[9])
	sampleRate := leU32Ogg(b[12:16])
	return AudioProperties{Channels: channels, SampleRate: int(sampleRate)}
}

func leU32Ogg(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// oggDuration derives duration from the final page's granule position (the
// PCM sample count at that point in the stream) divided by sampleRate. The
// whole file is walked once purely to find the last page; acceptable here
// since the container is already fully in memory.
func oggDuration(b []byte, sampleRate int) float64 {
	if sampleRate <= 0 {
		return 0
	}
	pages, err := oggpage.ReadPages(b, 0)
	if err != nil || len(pages) == 0 {
		return 0
	}
	last := pages[len(pages)-1]
	return float64(last.GranulePos) / float64(sampleRate)
}

// TryReadOgg is ReadOgg with error swallowed to an ok flag.
func TryReadOgg(b []byte) (*OggFile, bool) {
	f, err := ReadOgg(b)
	if err != nil {
		return nil, false
	}
	return f, true
}

// ReadOggFromFile reads and parses path through fs.
func ReadOggFromFile(path string, fs vfs.FS) (*OggFile, error) {
	b, err := fs.ReadAll(path)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.IoFailure, "reading file", err)
	}
	return ReadOgg(b)
}

// ReadOggFromFileAsync is ReadOggFromFile honoring ctx cancellation before
// the read begins.
func ReadOggFromFileAsync(ctx context.Context, path string, fs vfs.FS) (*OggFile, error) {
	select {
	case <-ctx.Done():
		return nil, vfs.ErrCancelled
	default:
	}
	return ReadOggFromFile(path, fs)
}

func (f *OggFile) Format() Format { return f.codec }

func (f *OggFile) AudioProperties() AudioProperties { return f.audio }

func (f *OggFile) Tags() []tagmodel.Tag {
	return []tagmodel.Tag{f.commentTag}
}

// Render rebuilds the identification page verbatim and the comment page
// from current tag state (granule position and sequence number preserved),
// then appends every later page verbatim (spec §4.L Ogg rule).
func (f *OggFile) Render() ([]byte, error) {
	view, err := f.commentTag.Render()
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch f.codec {
	case FormatOggVorbis:
		payload = append([]byte{0x03}, []byte("vorbis")...)
		payload = append(payload, view.Bytes()...)
	case FormatOggOpus:
		payload = append([]byte("OpusTags"), view.Bytes()...)
	default:
		return nil, metaerr.New(metaerr.UnsupportedVersion, "unknown ogg codec")
	}

	newComment := &oggpage.Page{
		Version:        f.commentPage.Version,
		Continued:      f.commentPage.Continued,
		BOS:            f.commentPage.BOS,
		EOS:            f.commentPage.EOS,
		GranulePos:     f.commentPage.GranulePos,
		SerialNumber:   f.commentPage.SerialNumber,
		SequenceNumber: f.commentPage.SequenceNumber,
		Payload:        payload,
	}

	var out []byte
	out = append(out, f.identPage.Render().Bytes()...)
	out = append(out, newComment.Render().Bytes()...)
	out = append(out, f.tail...)
	return out, nil
}

func (f *OggFile) SaveToFile(path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFile(f, path, fs)
}

func (f *OggFile) SaveToFileAsync(ctx context.Context, path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFileAsync(ctx, f, path, fs)
}

// audioBytes returns every page after the identification/comment headers,
// untouched by tag edits.
func (f *OggFile) audioBytes() []byte { return f.tail }
