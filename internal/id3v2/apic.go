package id3v2

import (
	"bytes"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

// PictureContent decodes APIC (v2.3/2.4) and PIC (v2.2) attached-picture
// frames (spec §4.D). PIC's 3-character image-format code ("jpg"/"png") is
// normalized to the equivalent MIME type on read so callers never need to
// special-case the v2.2 variant.
type PictureContent struct {
	Encoding    binutil.Encoding
	MIME        string
	PictureType byte
	Description string
	Data        []byte
}

var picExtToMIME = map[string]string{
	"jpg": "image/jpeg", "jpeg": "image/jpeg", "png": "image/png",
}

var mimeToPicExt = map[string]string{
	"image/jpeg": "jpg", "image/png": "png",
}

// decodePIC parses a v2.2 PIC frame: encoding + 3-byte format + pic-type +
// description + data.
func decodePIC(b []byte) (*PictureContent, error) {
	if len(b) < 5 {
		return nil, metaerr.New(metaerr.TruncatedInput, "PIC frame too short")
	}
	enc, ok := textEncodingToBinutil(b[0])
	if !ok {
		return nil, metaerr.New(metaerr.InvalidField, "invalid text encoding byte")
	}
	ext := string(bytes.ToLower(b[1:4]))
	picType := b[4]

	head, tail, ok := binutil.SplitAtDelimiter(b[5:], enc)
	if !ok {
		return nil, metaerr.New(metaerr.InvalidField, "PIC missing description terminator")
	}
	desc, err := binutil.DecodeString(enc, head)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding PIC description", err)
	}

	return &PictureContent{
		Encoding:    enc,
		MIME:        picExtToMIME[ext],
		PictureType: picType,
		Description: desc,
		Data:        tail,
	}, nil
}

// decodeAPIC parses a v2.3/2.4 APIC frame: encoding + null-terminated
// Latin-1 MIME + pic-type + description + data.
func decodeAPIC(b []byte) (*PictureContent, error) {
	if len(b) < 2 {
		return nil, metaerr.New(metaerr.TruncatedInput, "APIC frame too short")
	}
	enc, ok := textEncodingToBinutil(b[0])
	if !ok {
		return nil, metaerr.New(metaerr.InvalidField, "invalid text encoding byte")
	}

	mimeHead, mimeTail, ok := binutil.SplitAtDelimiter(b[1:], binutil.Latin1)
	if !ok {
		return nil, metaerr.New(metaerr.InvalidField, "APIC missing MIME terminator")
	}
	mime := string(mimeHead)

	if len(mimeTail) < 1 {
		return nil, metaerr.New(metaerr.TruncatedInput, "APIC missing picture type")
	}
	picType := mimeTail[0]

	head, tail, ok := binutil.SplitAtDelimiter(mimeTail[1:], enc)
	if !ok {
		return nil, metaerr.New(metaerr.InvalidField, "APIC missing description terminator")
	}
	desc, err := binutil.DecodeString(enc, head)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding APIC description", err)
	}

	return &PictureContent{
		Encoding:    enc,
		MIME:        mime,
		PictureType: picType,
		Description: desc,
		Data:        tail,
	}, nil
}

// EncodeAPIC renders a v2.3/2.4 APIC frame body.
func EncodeAPIC(p *PictureContent) []byte {
	b := binutil.Acquire()
	defer b.Release()
	b.Byte(binutilToTextEncoding(p.Encoding))
	b.Bytes([]byte(p.MIME))
	b.Byte(0)
	b.Byte(p.PictureType)
	b.EncodedString(p.Description, p.Encoding)
	b.Bytes(binutil.Delimiter(p.Encoding))
	b.Bytes(p.Data)
	return b.Finalize().Bytes()
}

// EncodePIC renders a v2.2 PIC frame body, deriving the 3-char format code
// from p.MIME (falls back to "jpg" for unrecognized MIME types).
func EncodePIC(p *PictureContent) []byte {
	b := binutil.Acquire()
	defer b.Release()
	ext, ok := mimeToPicExt[p.MIME]
	if !ok {
		ext = "jpg"
	}
	b.Byte(binutilToTextEncoding(p.Encoding))
	b.Bytes([]byte(ext))
	b.Byte(p.PictureType)
	b.EncodedString(p.Description, p.Encoding)
	b.Bytes(binutil.Delimiter(p.Encoding))
	b.Bytes(p.Data)
	return b.Finalize().Bytes()
}
