// Package id3v1 implements the fixed 128-byte ID3v1/1.1 trailer (spec
// §4.E). Layout and genre table are grounded on the wire format documented
// in spec.md and cross-checked against other_examples/goulash-audio (id3v1
// package) and other_examples/moshee-sound (id3/id3v1 package), which both
// implement the identical 128-byte structure.
package id3v1

import (
	"bytes"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

const TagSize = 128

// Tag is the decoded contents of an ID3v1/1.1 trailer.
type Tag struct {
	Title   string
	Artist  string
	Album   string
	Year    string
	Comment string
	Track   int // 0 when absent (ID3v1.0 or byte 126 == 0)
	IsV1Dot1 bool
	GenreIndex byte
}

// Read parses the trailing 128 bytes of b as an ID3v1/1.1 tag.
func Read(b []byte) (*Tag, error) {
	if len(b) < TagSize {
		return nil, metaerr.New(metaerr.TruncatedInput, "ID3v1 tag requires 128 bytes")
	}
	b = b[len(b)-TagSize:]

	if !bytes.Equal(b[0:3], []byte("TAG")) {
		return nil, metaerr.New(metaerr.BadMagic, "expected 'TAG'")
	}

	title, _ := binutil.DecodeString(binutil.Latin1, trimNulls(b[3:33]))
	artist, _ := binutil.DecodeString(binutil.Latin1, trimNulls(b[33:63]))
	album, _ := binutil.DecodeString(binutil.Latin1, trimNulls(b[63:93]))
	year, _ := binutil.DecodeString(binutil.Latin1, trimNulls(b[93:97]))

	t := &Tag{
		Title:      title,
		Artist:     artist,
		Album:      album,
		Year:       year,
		GenreIndex: b[127],
	}

	// ID3v1.1 detection: byte 125 == 0 and byte 126 != 0.
	if b[125] == 0 && b[126] != 0 {
		t.IsV1Dot1 = true
		t.Track = int(b[126])
		comment, _ := binutil.DecodeString(binutil.Latin1, trimNulls(b[97:125]))
		t.Comment = comment
	} else {
		comment, _ := binutil.DecodeString(binutil.Latin1, trimNulls(b[97:127]))
		t.Comment = comment
	}

	return t, nil
}

// Render serializes t back into a 128-byte ID3v1/1.1 trailer. Track is
// emitted only when non-zero, producing an ID3v1.1 trailer; otherwise the
// comment occupies the full 30 bytes.
func Render(t *Tag) binutil.View {
	b := binutil.Acquire()
	defer b.Release()

	b.Bytes([]byte("TAG"))
	b.FixedString(t.Title, binutil.Latin1, 30)
	b.FixedString(t.Artist, binutil.Latin1, 30)
	b.FixedString(t.Album, binutil.Latin1, 30)
	b.FixedString(t.Year, binutil.Latin1, 4)

	if t.Track > 0 && t.Track < 256 {
		b.FixedString(t.Comment, binutil.Latin1, 28)
		b.Byte(0)
		b.Byte(byte(t.Track))
	} else {
		b.FixedString(t.Comment, binutil.Latin1, 30)
	}

	b.Byte(t.GenreIndex)

	return b.Finalize()
}

// GenreName resolves t.GenreIndex through GenreTable, returning "" when the
// index is 255 ("no genre") or >= 192 (spec §4.E).
func (t *Tag) GenreName() string {
	return LookupName(t.GenreIndex)
}

// SetGenreName sets t.GenreIndex from a genre name via a case-insensitive
// table lookup, falling back to 255 when name is not recognized.
func (t *Tag) SetGenreName(name string) {
	t.GenreIndex = IndexForName(name)
}

func trimNulls(b []byte) []byte {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return b
	}
	return b[:i]
}
