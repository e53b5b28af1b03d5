package id3v2

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

// CommContent decodes COMM (comment) and USLT (unsynchronized lyrics)
// frames, which share a layout: encoding + 3-char language + description +
// text (spec §4.D), grounded on the teacher's readTextWithDescrFrame
// (id3v2frames.go).
type CommContent struct {
	Encoding    binutil.Encoding
	Language    string
	Description string
	Text        string
}

func decodeCommFrame(b []byte) (*CommContent, error) {
	if len(b) < 4 {
		return nil, metaerr.New(metaerr.TruncatedInput, "COMM/USLT frame too short")
	}
	enc, ok := textEncodingToBinutil(b[0])
	if !ok {
		return nil, metaerr.New(metaerr.InvalidField, "invalid text encoding byte")
	}
	lang := string(b[1:4])

	head, tail, ok := binutil.SplitAtDelimiter(b[4:], enc)
	if !ok {
		return nil, metaerr.New(metaerr.InvalidField, "COMM/USLT missing description terminator")
	}
	desc, err := binutil.DecodeString(enc, head)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding COMM/USLT description", err)
	}
	text, err := binutil.DecodeString(enc, tail)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding COMM/USLT text", err)
	}

	return &CommContent{Encoding: enc, Language: lang, Description: desc, Text: text}, nil
}

// EncodeComm renders a COMM/USLT frame body.
func EncodeComm(c *CommContent) []byte {
	b := binutil.Acquire()
	defer b.Release()
	b.Byte(binutilToTextEncoding(c.Encoding))
	lang := c.Language
	if len(lang) != 3 {
		lang = "eng"
	}
	b.Bytes([]byte(lang))
	b.EncodedString(c.Description, c.Encoding)
	b.Bytes(binutil.Delimiter(c.Encoding))
	b.EncodedString(c.Text, c.Encoding)
	return b.Finalize().Bytes()
}
