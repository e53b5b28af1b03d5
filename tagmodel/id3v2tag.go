package tagmodel

import (
	"strconv"
	"strings"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/id3v2"
)

// Id3v2Tag adapts internal/id3v2.Tag to the unified Tag interface (spec
// §4.C/§4.D). Standard text frames map onto Properties directly; freeform
// values (MusicBrainz identifiers, ReplayGain) are carried as TXXX frames
// keyed by the conventional description strings Picard and the rest of
// the tagging ecosystem use, since ID3v2 has no dedicated frames for them.
// Props is decoded once at construction and held as the tag's live state
// (spec §4.C Props contract): callers mutate it in place and Render
// re-encodes a fresh frame list from it.
type Id3v2Tag struct {
	props   Properties
	version id3v2.Version
}

// NewId3v2Tag decodes a native ID3v2 tag into its Properties view.
func NewId3v2Tag(t *id3v2.Tag) *Id3v2Tag {
	version := id3v2.V2_4
	if t.Header != nil {
		version = t.Header.Version
	}
	return &Id3v2Tag{props: decodeId3v2Properties(t.Frames), version: version}
}

func (t *Id3v2Tag) Type() TagType { return TypeId3v2 }

// txxxDescriptions maps each freeform Properties field to the TXXX
// description key the wider ecosystem (Picard, Mutagen, TagLib) uses.
var txxxDescriptions = map[string]string{
	"MusicBrainzReleaseGroupId": "MusicBrainz Release Group Id",
	"MusicBrainzAlbumArtistId":  "MusicBrainz Album Artist Id",
	"MusicBrainzWorkId":         "MusicBrainz Work Id",
	"MusicBrainzDiscId":         "MusicBrainz Disc Id",
	"MusicBrainzReleaseStatus":  "MusicBrainz Album Status",
	"MusicBrainzReleaseType":    "MusicBrainz Album Type",
	"MusicBrainzReleaseCountry": "MusicBrainz Album Release Country",
	"AcoustIdId":                "Acoustid Id",
	"AcoustIdFingerprint":       "Acoustid Fingerprint",
	"Barcode":                   "BARCODE",
	"CatalogNumber":             "CATALOGNUMBER",
	"AmazonId":                  "ASIN",
}

func findTXXX(frames []*id3v2.Frame, description string) *id3v2.Frame {
	for _, f := range frames {
		if f.ID == "TXXX" && f.Text != nil && strings.EqualFold(f.Text.Description, description) {
			return f
		}
	}
	return nil
}

func textFrame(frames []*id3v2.Frame, id string) string {
	for _, f := range frames {
		if f.ID == id && f.Text != nil && len(f.Text.Values) > 0 {
			return f.Text.Values[0]
		}
	}
	return ""
}

func textFrameAll(frames []*id3v2.Frame, id string) []string {
	for _, f := range frames {
		if f.ID == id && f.Text != nil {
			return f.Text.Values
		}
	}
	return nil
}

func splitPair(s string) (a, b int) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) > 0 {
		a, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	}
	if len(parts) > 1 {
		b, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}
	return
}

// decodeId3v2Properties builds a canonical Properties snapshot from a
// decoded frame list.
func decodeId3v2Properties(f []*id3v2.Frame) Properties {
	p := Properties{
		Title:       textFrame(f, "TIT2"),
		Subtitle:    textFrame(f, "TIT3"),
		Grouping:    textFrame(f, "TIT1"),
		Artist:      textFrame(f, "TPE1"),
		Performers:  textFrameAll(f, "TPE1"),
		AlbumArtist: textFrame(f, "TPE2"),
		Composer:    textFrame(f, "TCOM"),
		Conductor:   textFrame(f, "TPE3"),
		Album:       textFrame(f, "TALB"),
		Genre:       textFrame(f, "TCON"),
		Copyright:   textFrame(f, "TCOP"),
		Publisher:   textFrame(f, "TPUB"),

		TitleSort:       textFrame(f, "TSOT"),
		ArtistSort:      textFrame(f, "TSOP"),
		AlbumSort:       textFrame(f, "TSOA"),
		AlbumArtistSort: textFrame(f, "TSO2"),
		ComposerSort:    textFrame(f, "TSOC"),

		InitialKey:      textFrame(f, "TKEY"),
		Mood:            textFrame(f, "TMOO"),
		MediaType:       textFrame(f, "TMED"),
		Language:        textFrame(f, "TLAN"),
		EncodedBy:       textFrame(f, "TENC"),
		EncoderSettings: textFrame(f, "TSSE"),

		MusicBrainzReleaseGroupId: textFrameValue(findTXXX(f, txxxDescriptions["MusicBrainzReleaseGroupId"])),
		MusicBrainzAlbumArtistId:  textFrameValue(findTXXX(f, txxxDescriptions["MusicBrainzAlbumArtistId"])),
		MusicBrainzWorkId:         textFrameValue(findTXXX(f, txxxDescriptions["MusicBrainzWorkId"])),
		MusicBrainzDiscId:         textFrameValue(findTXXX(f, txxxDescriptions["MusicBrainzDiscId"])),
		MusicBrainzReleaseStatus:  textFrameValue(findTXXX(f, txxxDescriptions["MusicBrainzReleaseStatus"])),
		MusicBrainzReleaseType:    textFrameValue(findTXXX(f, txxxDescriptions["MusicBrainzReleaseType"])),
		MusicBrainzReleaseCountry: textFrameValue(findTXXX(f, txxxDescriptions["MusicBrainzReleaseCountry"])),
		AcoustIdId:                textFrameValue(findTXXX(f, txxxDescriptions["AcoustIdId"])),
		AcoustIdFingerprint:       textFrameValue(findTXXX(f, txxxDescriptions["AcoustIdFingerprint"])),
		Barcode:                   textFrameValue(findTXXX(f, txxxDescriptions["Barcode"])),
		CatalogNumber:             textFrameValue(findTXXX(f, txxxDescriptions["CatalogNumber"])),
		AmazonId:                  textFrameValue(findTXXX(f, txxxDescriptions["AmazonId"])),
	}

	if bpm, err := strconv.Atoi(textFrame(f, "TBPM")); err == nil {
		p.BeatsPerMinute = bpm
	}
	if y, err := strconv.Atoi(first4(textFrame(f, "TDRC"))); err == nil {
		p.Year = y
	} else if y, err := strconv.Atoi(textFrame(f, "TYER")); err == nil {
		p.Year = y
	}
	p.Track, p.TotalTracks = splitPair(textFrame(f, "TRCK"))
	p.DiscNumber, p.TotalDiscs = splitPair(textFrame(f, "TPOS"))
	if v := textFrameValue(findTXXX(f, "COMPILATION")); v == "1" {
		p.IsCompilation = true
	}

	for _, frame := range f {
		switch frame.ID {
		case "COMM":
			if frame.Comm != nil && frame.Comm.Description == "" {
				p.Comment = frame.Comm.Text
			}
		case "USLT":
			if frame.Comm != nil {
				p.Lyrics = frame.Comm.Text
			}
		case "APIC", "PIC":
			if frame.Pic != nil {
				p.Pictures = append(p.Pictures, Picture{
					MIME:        frame.Pic.MIME,
					Type:        PictureType(frame.Pic.PictureType),
					Description: frame.Pic.Description,
					Data:        frame.Pic.Data,
				})
			}
		case "UFID":
			if frame.Ufid != nil && frame.Ufid.Owner == "http://musicbrainz.org" {
				p.MusicBrainzTrackId = string(frame.Ufid.Identifier)
			}
		case "TXXX":
			if frame.Text != nil && strings.EqualFold(frame.Text.Description, "MusicBrainz Artist Id") {
				p.MusicBrainzArtistId = firstOf(frame.Text.Values)
			}
			if frame.Text != nil && strings.EqualFold(frame.Text.Description, "MusicBrainz Album Id") {
				p.MusicBrainzReleaseId = firstOf(frame.Text.Values)
			}
			if frame.Text != nil && strings.EqualFold(frame.Text.Description, "replaygain_track_gain") {
				p.ReplayGainTrackGain = parseGainValue(firstOf(frame.Text.Values))
			}
			if frame.Text != nil && strings.EqualFold(frame.Text.Description, "replaygain_track_peak") {
				p.ReplayGainTrackPeak = parseGainValue(firstOf(frame.Text.Values))
			}
			if frame.Text != nil && strings.EqualFold(frame.Text.Description, "replaygain_album_gain") {
				p.ReplayGainAlbumGain = parseGainValue(firstOf(frame.Text.Values))
			}
			if frame.Text != nil && strings.EqualFold(frame.Text.Description, "replaygain_album_peak") {
				p.ReplayGainAlbumPeak = parseGainValue(firstOf(frame.Text.Values))
			}
		}
	}

	return p
}

func first4(s string) string {
	if len(s) >= 4 {
		return s[:4]
	}
	return s
}

func firstOf(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

func textFrameValue(f *id3v2.Frame) string {
	if f == nil || f.Text == nil {
		return ""
	}
	return firstOf(f.Text.Values)
}

func parseGainValue(s string) *float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), " dB")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

var id3v2Supported = map[string]bool{
	"Title": true, "Subtitle": true, "Grouping": true,
	"Artist": true, "Performers": true, "AlbumArtist": true, "Composer": true, "Conductor": true,
	"Album": true, "Year": true, "Genre": true, "Copyright": true, "Publisher": true,
	"Track": true, "TotalTracks": true, "DiscNumber": true, "TotalDiscs": true,
	"TitleSort": true, "ArtistSort": true, "AlbumSort": true, "AlbumArtistSort": true, "ComposerSort": true,
	"BeatsPerMinute": true, "InitialKey": true, "Mood": true, "MediaType": true, "Language": true,
	"EncodedBy": true, "EncoderSettings": true, "Comment": true, "Lyrics": true, "Pictures": true,
	"MusicBrainzTrackId": true, "MusicBrainzReleaseId": true, "MusicBrainzArtistId": true,
	"MusicBrainzReleaseGroupId": true, "MusicBrainzAlbumArtistId": true, "MusicBrainzWorkId": true,
	"MusicBrainzDiscId": true, "MusicBrainzReleaseStatus": true, "MusicBrainzReleaseType": true,
	"MusicBrainzReleaseCountry": true, "AcoustIdId": true, "AcoustIdFingerprint": true,
	"Barcode": true, "CatalogNumber": true, "AmazonId": true,
	"ReplayGainTrackGain": true, "ReplayGainTrackPeak": true, "ReplayGainAlbumGain": true, "ReplayGainAlbumPeak": true,
	"IsCompilation": true,
}

func (t *Id3v2Tag) Supports(field string) bool { return id3v2Supported[field] }

func (t *Id3v2Tag) Props() *Properties { return &t.props }

func (t *Id3v2Tag) IsEmpty() bool { return t.props.IsEmpty() }

func (t *Id3v2Tag) Clear() { t.props.Clear() }

// Render encodes the current Properties state into a fresh frame list and
// serializes it as a complete ID3v2 tag.
func (t *Id3v2Tag) Render() (binutil.View, error) {
	native := &id3v2.Tag{
		Header: &id3v2.Header{Version: t.version},
		Frames: encodeId3v2Frames(&t.props),
	}
	return id3v2.Render(native, id3v2.DefaultRenderOptions()), nil
}

func (t *Id3v2Tag) Validate() []Issue { return ValidateProperties(&t.props) }

func setText(frames []*id3v2.Frame, id, value string) []*id3v2.Frame {
	for _, f := range frames {
		if f.ID == id && f.Text != nil {
			f.Text.Values = []string{value}
			return frames
		}
	}
	return append(frames, &id3v2.Frame{ID: id, Text: &id3v2.TextContent{Encoding: binutil.UTF8, Values: []string{value}}})
}

func setTXXX(frames []*id3v2.Frame, description, value string) []*id3v2.Frame {
	for _, f := range frames {
		if f.ID == "TXXX" && f.Text != nil && strings.EqualFold(f.Text.Description, description) {
			f.Text.Values = []string{value}
			return frames
		}
	}
	return append(frames, &id3v2.Frame{ID: "TXXX", Text: &id3v2.TextContent{Encoding: binutil.UTF8, Description: description, Values: []string{value}}})
}

// encodeId3v2Frames renders p into a fresh frame list (spec §4.D Render).
func encodeId3v2Frames(p *Properties) []*id3v2.Frame {
	var f []*id3v2.Frame
	set := func(id, v string) {
		if v != "" {
			f = setText(f, id, v)
		}
	}
	set("TIT2", p.Title)
	set("TIT3", p.Subtitle)
	set("TIT1", p.Grouping)
	set("TPE1", p.Artist)
	set("TPE2", p.AlbumArtist)
	set("TCOM", p.Composer)
	set("TPE3", p.Conductor)
	set("TALB", p.Album)
	set("TCON", p.Genre)
	set("TCOP", p.Copyright)
	set("TPUB", p.Publisher)
	set("TSOT", p.TitleSort)
	set("TSOP", p.ArtistSort)
	set("TSOA", p.AlbumSort)
	set("TSO2", p.AlbumArtistSort)
	set("TSOC", p.ComposerSort)
	set("TKEY", p.InitialKey)
	set("TMOO", p.Mood)
	set("TMED", p.MediaType)
	set("TLAN", p.Language)
	set("TENC", p.EncodedBy)
	set("TSSE", p.EncoderSettings)

	if p.BeatsPerMinute != 0 {
		f = setText(f, "TBPM", strconv.Itoa(p.BeatsPerMinute))
	}
	if p.Year != 0 {
		f = setText(f, "TDRC", strconv.Itoa(p.Year))
	}
	if p.Track != 0 {
		f = setText(f, "TRCK", trackPairString(p.Track, p.TotalTracks))
	}
	if p.DiscNumber != 0 {
		f = setText(f, "TPOS", trackPairString(p.DiscNumber, p.TotalDiscs))
	}
	if p.IsCompilation {
		f = setTXXX(f, "COMPILATION", "1")
	}

	for field, desc := range txxxDescriptions {
		v := propertyByName(p, field)
		if v != "" {
			f = setTXXX(f, desc, v)
		}
	}
	gains := []struct {
		desc string
		v    *float64
	}{
		{"replaygain_track_gain", p.ReplayGainTrackGain},
		{"replaygain_track_peak", p.ReplayGainTrackPeak},
		{"replaygain_album_gain", p.ReplayGainAlbumGain},
		{"replaygain_album_peak", p.ReplayGainAlbumPeak},
	}
	for _, g := range gains {
		if g.v != nil {
			f = setTXXX(f, g.desc, formatGainValue(*g.v))
		}
	}
	if p.MusicBrainzArtistId != "" {
		f = setTXXX(f, "MusicBrainz Artist Id", p.MusicBrainzArtistId)
	}
	if p.MusicBrainzReleaseId != "" {
		f = setTXXX(f, "MusicBrainz Album Id", p.MusicBrainzReleaseId)
	}
	if p.MusicBrainzTrackId != "" {
		f = setUFID(f, "http://musicbrainz.org", []byte(p.MusicBrainzTrackId))
	}
	if p.Comment != "" {
		f = setCommOrUslt(f, "COMM", "", p.Comment)
	}
	if p.Lyrics != "" {
		f = setCommOrUslt(f, "USLT", "", p.Lyrics)
	}

	if cover := CoverArt(p.Pictures); cover != nil {
		f = setCoverPicture(f, cover)
	}

	return f
}

func trackPairString(n, total int) string {
	if total > 0 {
		return strconv.Itoa(n) + "/" + strconv.Itoa(total)
	}
	return strconv.Itoa(n)
}

func propertyByName(p *Properties, field string) string {
	switch field {
	case "MusicBrainzReleaseGroupId":
		return p.MusicBrainzReleaseGroupId
	case "MusicBrainzAlbumArtistId":
		return p.MusicBrainzAlbumArtistId
	case "MusicBrainzWorkId":
		return p.MusicBrainzWorkId
	case "MusicBrainzDiscId":
		return p.MusicBrainzDiscId
	case "MusicBrainzReleaseStatus":
		return p.MusicBrainzReleaseStatus
	case "MusicBrainzReleaseType":
		return p.MusicBrainzReleaseType
	case "MusicBrainzReleaseCountry":
		return p.MusicBrainzReleaseCountry
	case "AcoustIdId":
		return p.AcoustIdId
	case "AcoustIdFingerprint":
		return p.AcoustIdFingerprint
	case "Barcode":
		return p.Barcode
	case "CatalogNumber":
		return p.CatalogNumber
	case "AmazonId":
		return p.AmazonId
	}
	return ""
}

func setUFID(frames []*id3v2.Frame, owner string, id []byte) []*id3v2.Frame {
	for _, f := range frames {
		if f.ID == "UFID" && f.Ufid != nil && f.Ufid.Owner == owner {
			f.Ufid.Identifier = id
			return frames
		}
	}
	return append(frames, &id3v2.Frame{ID: "UFID", Ufid: &id3v2.UFIDContent{Owner: owner, Identifier: id}})
}

func setCommOrUslt(frames []*id3v2.Frame, id, description, text string) []*id3v2.Frame {
	for _, f := range frames {
		if f.ID == id && f.Comm != nil && f.Comm.Description == description {
			f.Comm.Text = text
			return frames
		}
	}
	return append(frames, &id3v2.Frame{ID: id, Comm: &id3v2.CommContent{
		Encoding: binutil.UTF8, Language: "eng", Description: description, Text: text,
	}})
}

func setCoverPicture(frames []*id3v2.Frame, cover *Picture) []*id3v2.Frame {
	for _, f := range frames {
		if f.ID == "APIC" && f.Pic != nil && f.Pic.PictureType == byte(PictureFrontCover) {
			f.Pic.MIME = cover.MIME
			f.Pic.Description = cover.Description
			f.Pic.Data = cover.Data
			return frames
		}
	}
	return append(frames, &id3v2.Frame{ID: "APIC", Pic: &id3v2.PictureContent{
		Encoding: binutil.UTF8, MIME: cover.MIME, PictureType: byte(PictureFrontCover),
		Description: cover.Description, Data: cover.Data,
	}})
}
