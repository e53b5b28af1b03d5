package tagmodel

import (
	"strconv"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/wavmeta"
)

// RiffInfoTag adapts a WAV `LIST`/`INFO` chunk to the unified Tag interface
// (spec §4.J). INFO's fixed FourCC keys map onto a small Properties subset;
// Props is decoded once at construction and held as the tag's live state,
// the same pattern as the other format adapters.
type RiffInfoTag struct {
	props Properties
}

var riffInfoFieldCodes = map[string]string{
	"Title": "INAM", "Artist": "IART", "Album": "IPRD", "Comment": "ICMT",
	"Genre": "IGNR", "Copyright": "ICOP", "EncoderSettings": "ISFT",
	"EncodedBy": "IENG", "Isrc": "ISRC",
}

// NewRiffInfoTag decodes a native INFO list into its Properties view.
func NewRiffInfoTag(il *wavmeta.InfoList) *RiffInfoTag {
	p := Properties{}
	for field, code := range riffInfoFieldCodes {
		if v, ok := il.Fields[code]; ok {
			setStringProperty(&p, field, v)
		}
	}
	if v, ok := il.Fields["ICRD"]; ok {
		if n, err := strconv.Atoi(first4(v)); err == nil {
			p.Year = n
		}
	}
	if v, ok := il.Fields["ITRK"]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			p.Track = n
		}
	}
	return &RiffInfoTag{props: p}
}

func (t *RiffInfoTag) Type() TagType { return TypeRiffInfo }

func (t *RiffInfoTag) Supports(field string) bool {
	switch field {
	case "Year", "Track":
		return true
	}
	_, ok := riffInfoFieldCodes[field]
	return ok
}

func (t *RiffInfoTag) Props() *Properties { return &t.props }

func (t *RiffInfoTag) IsEmpty() bool { return t.props.IsEmpty() }

func (t *RiffInfoTag) Clear() { t.props.Clear() }

// Render encodes the current Properties state into a fresh INFO list body.
func (t *RiffInfoTag) Render() (binutil.View, error) {
	il := &wavmeta.InfoList{Fields: map[string]string{}}
	p := &t.props
	for field, code := range riffInfoFieldCodes {
		if v := propertyByNameRiff(p, field); v != "" {
			il.Fields[code] = v
		}
	}
	if p.Year != 0 {
		il.Fields["ICRD"] = strconv.Itoa(p.Year)
	}
	if p.Track != 0 {
		il.Fields["ITRK"] = strconv.Itoa(p.Track)
	}
	return binutil.NewView(wavmeta.EncodeInfoList(il)), nil
}

func (t *RiffInfoTag) Validate() []Issue { return ValidateProperties(&t.props) }

func propertyByNameRiff(p *Properties, field string) string {
	switch field {
	case "Title":
		return p.Title
	case "Artist":
		return p.Artist
	case "Album":
		return p.Album
	case "Comment":
		return p.Comment
	case "Genre":
		return p.Genre
	case "Copyright":
		return p.Copyright
	case "EncoderSettings":
		return p.EncoderSettings
	case "EncodedBy":
		return p.EncodedBy
	case "Isrc":
		return p.Isrc
	}
	return ""
}
