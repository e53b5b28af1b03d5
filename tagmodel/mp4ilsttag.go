package tagmodel

import (
	"strconv"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/mp4box"
)

// Mp4IlstTag adapts an iTunes "ilst" box's children to the unified Tag
// interface (spec §4.I). Standard atoms use their native 4-byte codes;
// everything without a dedicated atom (MusicBrainz/AcoustId identifiers)
// rides on "----" freeform items keyed by the same description strings
// the TXXX/Vorbis adapters use, matching how Picard tags MP4 files. Props
// is decoded once at construction and held as the tag's live state; Render
// re-encodes a fresh ilst child list from it.
type Mp4IlstTag struct {
	props Properties
}

// NewMp4IlstTag wraps an ilst box's decoded children.
func NewMp4IlstTag(items []*mp4box.Box) *Mp4IlstTag {
	return &Mp4IlstTag{props: decodeMp4Properties(items)}
}

func (t *Mp4IlstTag) Type() TagType { return TypeApple }

var mp4AtomCodes = map[string]string{
	"Title": "\xa9nam", "Grouping": "\xa9grp",
	"Artist": "\xa9ART", "AlbumArtist": "aART", "Composer": "\xa9wrt",
	"Album": "\xa9alb", "Genre": "\xa9gen", "Comment": "\xa9cmt", "Lyrics": "\xa9lyr",
	"EncoderSettings": "\xa9too",
}

func findAtom(items []*mp4box.Box, code string) *mp4box.Box {
	return mp4box.Find(items, code)
}

func atomText(items []*mp4box.Box, code string) string {
	box := findAtom(items, code)
	if box == nil {
		return ""
	}
	data := mp4box.Find(box.Children, "data")
	if data == nil {
		return ""
	}
	v, err := mp4box.DecodeDataAtom(data.Payload)
	if err != nil {
		return ""
	}
	return v.Text()
}

func decodedDataAtom(items []*mp4box.Box, code string) *mp4box.ItemValue {
	box := findAtom(items, code)
	if box == nil {
		return nil
	}
	data := mp4box.Find(box.Children, "data")
	if data == nil {
		return nil
	}
	v, err := mp4box.DecodeDataAtom(data.Payload)
	if err != nil {
		return nil
	}
	return v
}

func freeformText(items []*mp4box.Box, name string) string {
	for _, box := range items {
		if box.Type != "----" {
			continue
		}
		item, ok := mp4box.DecodeFreeform(box.Children)
		if !ok || item.Name != name {
			continue
		}
		if len(item.Data) == 0 {
			return ""
		}
		s, _ := binutil.DecodeString(binutil.UTF8, item.Data[0])
		return s
	}
	return ""
}

// decodeMp4Properties builds a canonical Properties snapshot from a
// decoded ilst child list.
func decodeMp4Properties(items []*mp4box.Box) Properties {
	p := Properties{}
	for field, code := range mp4AtomCodes {
		setStringProperty(&p, field, atomText(items, code))
	}

	if y := atomText(items, "\xa9day"); y != "" {
		if n, err := strconv.Atoi(first4(y)); err == nil {
			p.Year = n
		}
	}
	if v := decodedDataAtom(items, "trkn"); v != nil {
		p.Track, p.TotalTracks = mp4box.TrackDisk(v.Raw)
	}
	if v := decodedDataAtom(items, "disk"); v != nil {
		p.DiscNumber, p.TotalDiscs = mp4box.TrackDisk(v.Raw)
	}
	if v := decodedDataAtom(items, "cpil"); v != nil {
		p.IsCompilation = mp4box.Bool(v.Raw)
	}
	if v := decodedDataAtom(items, "tmpo"); v != nil && len(v.Raw) >= 2 {
		bpm, err := binutil.BE16(v.Raw[0:2])
		if err == nil {
			p.BeatsPerMinute = int(bpm)
		}
	}

	for field, desc := range txxxDescriptions {
		if v := freeformText(items, desc); v != "" {
			setFreeformProperty(&p, field, v)
		}
	}
	if v := freeformText(items, "MusicBrainz Track Id"); v != "" {
		p.MusicBrainzTrackId = v
	}
	if v := freeformText(items, "MusicBrainz Album Id"); v != "" {
		p.MusicBrainzReleaseId = v
	}
	if v := freeformText(items, "MusicBrainz Artist Id"); v != "" {
		p.MusicBrainzArtistId = v
	}

	if box := findAtom(items, "covr"); box != nil {
		if data := mp4box.Find(box.Children, "data"); data != nil {
			v, err := mp4box.DecodeDataAtom(data.Payload)
			if err == nil {
				p.Pictures = append(p.Pictures, Picture{
					MIME: coverMIMEForClass(v.Class), Type: PictureFrontCover, Data: v.Raw,
				})
			}
		}
	}

	return p
}

func coverMIMEForClass(c mp4box.DataClass) string {
	switch c {
	case mp4box.ClassPNG:
		return "image/png"
	default:
		return "image/jpeg"
	}
}

func setFreeformProperty(p *Properties, field, value string) {
	switch field {
	case "MusicBrainzReleaseGroupId":
		p.MusicBrainzReleaseGroupId = value
	case "MusicBrainzAlbumArtistId":
		p.MusicBrainzAlbumArtistId = value
	case "MusicBrainzWorkId":
		p.MusicBrainzWorkId = value
	case "MusicBrainzDiscId":
		p.MusicBrainzDiscId = value
	case "MusicBrainzReleaseStatus":
		p.MusicBrainzReleaseStatus = value
	case "MusicBrainzReleaseType":
		p.MusicBrainzReleaseType = value
	case "MusicBrainzReleaseCountry":
		p.MusicBrainzReleaseCountry = value
	case "AcoustIdId":
		p.AcoustIdId = value
	case "AcoustIdFingerprint":
		p.AcoustIdFingerprint = value
	case "Barcode":
		p.Barcode = value
	case "CatalogNumber":
		p.CatalogNumber = value
	case "AmazonId":
		p.AmazonId = value
	}
}

func (t *Mp4IlstTag) Supports(field string) bool {
	switch field {
	case "Year", "Track", "TotalTracks", "DiscNumber", "TotalDiscs", "IsCompilation",
		"BeatsPerMinute", "Pictures", "MusicBrainzTrackId", "MusicBrainzReleaseId", "MusicBrainzArtistId":
		return true
	}
	if _, ok := mp4AtomCodes[field]; ok {
		return true
	}
	_, ok := txxxDescriptions[field]
	return ok
}

func (t *Mp4IlstTag) Props() *Properties { return &t.props }

func (t *Mp4IlstTag) IsEmpty() bool { return t.props.IsEmpty() }

func (t *Mp4IlstTag) Clear() { t.props.Clear() }

// Render encodes the current Properties state into a fresh ilst child list.
func (t *Mp4IlstTag) Render() (binutil.View, error) {
	return binutil.NewView(mp4box.Encode(encodeMp4Items(&t.props))), nil
}

func (t *Mp4IlstTag) Validate() []Issue { return ValidateProperties(&t.props) }

func setAtomText(items []*mp4box.Box, code, value string) []*mp4box.Box {
	for _, box := range items {
		if box.Type == code {
			for _, c := range box.Children {
				if c.Type == "data" {
					c.Payload = mp4box.EncodeDataAtom(mp4box.TextValue(value))
					return items
				}
			}
		}
	}
	dataPayload := mp4box.EncodeDataAtom(mp4box.TextValue(value))
	return append(items, &mp4box.Box{Type: code, Children: []*mp4box.Box{{Type: "data", Payload: dataPayload}}})
}

func setFreeformText(items []*mp4box.Box, name, value string) []*mp4box.Box {
	for _, box := range items {
		if box.Type != "----" {
			continue
		}
		item, ok := mp4box.DecodeFreeform(box.Children)
		if ok && item.Name == name {
			enc, _ := binutil.EncodeString(binutil.UTF8, value)
			item.Data = [][]byte{enc}
			box.Children = mp4box.EncodeFreeform(item)
			return items
		}
	}
	enc, _ := binutil.EncodeString(binutil.UTF8, value)
	item := mp4box.FreeformItem{Mean: "com.apple.iTunes", Name: name, Data: [][]byte{enc}}
	return append(items, &mp4box.Box{Type: "----", Children: mp4box.EncodeFreeform(item)})
}

// encodeMp4Items renders p into a fresh ilst child list (spec §4.I Render).
func encodeMp4Items(p *Properties) []*mp4box.Box {
	var items []*mp4box.Box
	set := func(field, value string) {
		if code, ok := mp4AtomCodes[field]; ok && value != "" {
			items = setAtomText(items, code, value)
		}
	}
	set("Title", p.Title)
	set("Grouping", p.Grouping)
	set("Artist", p.Artist)
	set("AlbumArtist", p.AlbumArtist)
	set("Composer", p.Composer)
	set("Album", p.Album)
	set("Genre", p.Genre)
	set("Comment", p.Comment)
	set("Lyrics", p.Lyrics)
	set("EncoderSettings", p.EncoderSettings)

	if p.Year != 0 {
		items = setAtomText(items, "\xa9day", strconv.Itoa(p.Year))
	}
	if p.Track != 0 {
		items = setTrackDiskAtom(items, "trkn", p.Track, p.TotalTracks)
	}
	if p.DiscNumber != 0 {
		items = setTrackDiskAtom(items, "disk", p.DiscNumber, p.TotalDiscs)
	}
	if p.IsCompilation {
		items = setDataAtom(items, "cpil", mp4box.ClassUint8, mp4box.EncodeBool(true))
	}
	if p.BeatsPerMinute != 0 {
		bpm := binutil.Acquire()
		bpm.BE16(uint16(p.BeatsPerMinute))
		items = setDataAtom(items, "tmpo", mp4box.ClassUint8, bpm.Finalize().Bytes())
		bpm.Release()
	}

	for field, desc := range txxxDescriptions {
		v := propertyByName(p, field)
		if v != "" {
			items = setFreeformText(items, desc, v)
		}
	}
	if p.MusicBrainzTrackId != "" {
		items = setFreeformText(items, "MusicBrainz Track Id", p.MusicBrainzTrackId)
	}
	if p.MusicBrainzReleaseId != "" {
		items = setFreeformText(items, "MusicBrainz Album Id", p.MusicBrainzReleaseId)
	}
	if p.MusicBrainzArtistId != "" {
		items = setFreeformText(items, "MusicBrainz Artist Id", p.MusicBrainzArtistId)
	}

	if cover := CoverArt(p.Pictures); cover != nil {
		class := mp4box.ClassJPEG
		if cover.MIME == "image/png" {
			class = mp4box.ClassPNG
		}
		items = setDataAtom(items, "covr", class, cover.Data)
	}

	return items
}

func setTrackDiskAtom(items []*mp4box.Box, code string, index, total int) []*mp4box.Box {
	return setDataAtom(items, code, mp4box.ClassImplicit, mp4box.EncodeTrackDisk(index, total))
}

func setDataAtom(items []*mp4box.Box, code string, class mp4box.DataClass, raw []byte) []*mp4box.Box {
	for _, box := range items {
		if box.Type == code {
			for _, c := range box.Children {
				if c.Type == "data" {
					c.Payload = mp4box.EncodeDataAtom(&mp4box.ItemValue{Class: class, Raw: raw})
					return items
				}
			}
		}
	}
	payload := mp4box.EncodeDataAtom(&mp4box.ItemValue{Class: class, Raw: raw})
	return append(items, &mp4box.Box{Type: code, Children: []*mp4box.Box{{Type: "data", Payload: payload}}})
}
