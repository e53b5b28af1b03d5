package tagmodel

import (
	"strconv"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/id3v1"
)

// Id3v1Tag adapts internal/id3v1.Tag to the unified Tag interface (spec
// §4.C). ID3v1's handful of fixed-width fields map onto a small subset of
// Properties; everything else reports Supports()==false. Props is decoded
// once at construction and held as the tag's live state (spec §4.C Props
// contract): callers mutate it in place and Render re-encodes from it.
type Id3v1Tag struct {
	props Properties
}

var id3v1Supported = map[string]bool{
	"Title": true, "Artist": true, "Album": true, "Year": true,
	"Comment": true, "Track": true, "Genre": true,
}

// NewId3v1Tag decodes a native ID3v1 tag into its Properties view.
func NewId3v1Tag(t *id3v1.Tag) *Id3v1Tag {
	p := Properties{
		Title:   t.Title,
		Artist:  t.Artist,
		Album:   t.Album,
		Comment: t.Comment,
		Track:   t.Track,
		Genre:   t.GenreName(),
	}
	if y, err := strconv.Atoi(t.Year); err == nil {
		p.Year = y
	}
	return &Id3v1Tag{props: p}
}

func (t *Id3v1Tag) Type() TagType { return TypeId3v1 }

func (t *Id3v1Tag) Props() *Properties { return &t.props }

func (t *Id3v1Tag) Supports(field string) bool { return id3v1Supported[field] }

func (t *Id3v1Tag) IsEmpty() bool { return t.props.IsEmpty() }

func (t *Id3v1Tag) Clear() { t.props.Clear() }

// Render encodes the current Properties state back into a native ID3v1
// tag, truncating to the format's fixed field widths (the native Render
// enforces the actual byte limits; this only assigns the logical values).
func (t *Id3v1Tag) Render() (binutil.View, error) {
	native := id3v1.Tag{
		Title:   t.props.Title,
		Artist:  t.props.Artist,
		Album:   t.props.Album,
		Comment: t.props.Comment,
		Track:   t.props.Track,
	}
	if t.props.Year != 0 {
		native.Year = strconv.Itoa(t.props.Year)
	}
	native.SetGenreName(t.props.Genre)
	native.IsV1Dot1 = t.props.Track != 0
	return id3v1.Render(&native), nil
}

func (t *Id3v1Tag) Validate() []Issue { return ValidateProperties(&t.props) }
