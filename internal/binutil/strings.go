package binutil

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding enumerates the string encodings the wire formats use. Never rely
// on a host default encoding — every decode site names one of these
// explicitly, per spec §9 "String encodings".
type Encoding byte

const (
	Latin1 Encoding = iota
	UTF8
	UTF16BOM // auto-selecting on the leading byte-order mark; defaults to LE if absent
	UTF16BE
	UTF16LE
)

// latin1Codec and the two explicit-endian UTF-16 codecs are x/text
// encodings; UTF-16-with-BOM auto-detection is handled by unicode.UTF16
// configured with unicode.UseBOM, falling back to LE per spec when the BOM
// is absent (unicode.UseBOM's documented default).
var (
	latin1Codec = charmap.ISO8859_1
	utf16BE     = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	utf16LE     = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	utf16BOM    = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
)

// DecodeString decodes b under enc into a Unicode string. UTF-8 invalid
// sequences are replaced with U+FFFD using unicode/utf8 directly — x/text's
// encoding.Encoding machinery assumes valid UTF-8 on that path and offers no
// decoder for it, so this one leaf of the string toolkit stays on the
// standard library (see DESIGN.md).
func DecodeString(enc Encoding, b []byte) (string, error) {
	switch enc {
	case Latin1:
		return decodeWith(latin1Codec.NewDecoder(), b)
	case UTF8:
		return sanitizeUTF8(b), nil
	case UTF16BE:
		return decodeWith(utf16BE.NewDecoder(), b)
	case UTF16LE:
		return decodeWith(utf16LE.NewDecoder(), b)
	case UTF16BOM:
		return decodeWith(utf16BOM.NewDecoder(), b)
	default:
		return "", fmt.Errorf("binutil: unknown encoding %d", enc)
	}
}

func decodeWith(dec *encoding.Decoder, b []byte) (string, error) {
	out, err := dec.Bytes(b)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func sanitizeUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb bytes.Buffer
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		sb.WriteRune(r)
		b = b[size:]
	}
	return sb.String()
}

// EncodeString re-encodes s under enc for serialization.
func EncodeString(enc Encoding, s string) ([]byte, error) {
	switch enc {
	case Latin1:
		return latin1Codec.NewEncoder().Bytes([]byte(s))
	case UTF8:
		return []byte(s), nil
	case UTF16BE:
		return utf16BE.NewEncoder().Bytes([]byte(s))
	case UTF16LE:
		return utf16LE.NewEncoder().Bytes([]byte(s))
	case UTF16BOM:
		// Always emit a little-endian BOM when writing — the common
		// convention ID3v2.3 encoders follow.
		enc, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(s))
		return enc, err
	default:
		return nil, fmt.Errorf("binutil: unknown encoding %d", enc)
	}
}

// Delimiter returns the null-terminator sequence for enc: a single 0x00 for
// Latin-1/UTF-8, a double 0x00 (2-byte aligned) for UTF-16 variants.
func Delimiter(enc Encoding) []byte {
	switch enc {
	case UTF16BE, UTF16LE, UTF16BOM:
		return []byte{0, 0}
	default:
		return []byte{0}
	}
}

// SplitAtDelimiter splits b at the first occurrence of enc's null
// terminator, returning the piece before it and the remainder (with the
// terminator itself consumed). ok is false if no terminator is present.
func SplitAtDelimiter(b []byte, enc Encoding) (head, tail []byte, ok bool) {
	delim := Delimiter(enc)
	if len(delim) == 1 {
		i := bytes.IndexByte(b, 0)
		if i < 0 {
			return nil, nil, false
		}
		return b[:i], b[i+1:], true
	}
	// UTF-16: the terminator must be double-zero on an even byte offset.
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			return b[:i], b[i+2:], true
		}
	}
	return nil, nil, false
}
