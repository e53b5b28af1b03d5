package id3v2

import (
	"bytes"
	"strings"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

// TextContent is the decoded content of a standard text frame (T*** except
// TXXX/TIPL/TMCL) or of TXXX (Description non-empty in that case). Multiple
// values are split on U+0000 (v2.4) or '/' (v2.3 convention, spec §4.D).
type TextContent struct {
	Encoding    binutil.Encoding
	Description string // non-empty only for TXXX
	Values      []string
}

// decodeTextFrame parses a standard T*** frame body: 1-byte encoding
// followed by encoded text, grounded on the teacher's readTFrame/decodeText
// (id3v2frames.go).
func decodeTextFrame(b []byte, v Version) (*TextContent, error) {
	if len(b) == 0 {
		return nil, metaerr.New(metaerr.TruncatedInput, "empty text frame")
	}
	enc, ok := textEncodingToBinutil(b[0])
	if !ok {
		return nil, metaerr.New(metaerr.InvalidField, "invalid text encoding byte")
	}
	raw := b[1:]
	s, err := binutil.DecodeString(enc, trimTrailingTerminator(raw, enc))
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding text frame", err)
	}
	return &TextContent{Encoding: enc, Values: splitValues(s, v)}, nil
}

// decodeTXXX parses TXXX: encoding + null-terminated description + value.
func decodeTXXX(b []byte, v Version) (*TextContent, error) {
	if len(b) == 0 {
		return nil, metaerr.New(metaerr.TruncatedInput, "empty TXXX frame")
	}
	enc, ok := textEncodingToBinutil(b[0])
	if !ok {
		return nil, metaerr.New(metaerr.InvalidField, "invalid text encoding byte")
	}
	head, tail, ok := binutil.SplitAtDelimiter(b[1:], enc)
	if !ok {
		return nil, metaerr.New(metaerr.InvalidField, "TXXX missing description terminator")
	}
	desc, err := binutil.DecodeString(enc, head)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding TXXX description", err)
	}
	val, err := binutil.DecodeString(enc, trimTrailingTerminator(tail, enc))
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding TXXX value", err)
	}
	return &TextContent{Encoding: enc, Description: desc, Values: splitValues(val, v)}, nil
}

func splitValues(s string, v Version) []string {
	if s == "" {
		return nil
	}
	var sep string
	if v == V2_4 {
		sep = "\x00"
	} else {
		sep = "/"
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, p)
	}
	return out
}

func joinValues(vals []string, v Version) string {
	if v == V2_4 {
		return strings.Join(vals, "\x00")
	}
	return strings.Join(vals, "/")
}

// trimTrailingTerminator strips one trailing encoding-appropriate null
// terminator if present; some encoders omit it and the teacher's decoder
// tolerates both (id3v2frames.go readTFrame joins on split(\x00)).
func trimTrailingTerminator(b []byte, enc binutil.Encoding) []byte {
	delim := binutil.Delimiter(enc)
	if bytes.HasSuffix(b, delim) {
		return b[:len(b)-len(delim)]
	}
	return b
}

// EncodeText renders a standard text frame body.
func EncodeText(c *TextContent, v Version) []byte {
	b := binutil.Acquire()
	defer b.Release()
	b.Byte(binutilToTextEncoding(c.Encoding))
	b.EncodedString(joinValues(c.Values, v), c.Encoding)
	return b.Finalize().Bytes()
}

// EncodeTXXX renders a TXXX frame body.
func EncodeTXXX(c *TextContent, v Version) []byte {
	b := binutil.Acquire()
	defer b.Release()
	b.Byte(binutilToTextEncoding(c.Encoding))
	b.EncodedString(c.Description, c.Encoding)
	b.Bytes(binutil.Delimiter(c.Encoding))
	b.EncodedString(joinValues(c.Values, v), c.Encoding)
	return b.Finalize().Bytes()
}
