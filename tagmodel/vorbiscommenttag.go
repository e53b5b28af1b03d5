package tagmodel

import (
	"strconv"
	"strings"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/flacmeta"
	"github.com/corvidaudio/metatag/internal/vorbis"
)

// VorbisCommentTag adapts a vorbis.Block (the comment structure shared by
// Ogg Vorbis, Ogg Opus, and FLAC) to the unified Tag interface. Field names
// follow the Xiph convention: uppercase ASCII, looked up case-insensitively
// (spec §4.F). Props is decoded once at construction and held as the tag's
// live state; Render re-encodes a fresh comment list from it.
type VorbisCommentTag struct {
	props         Properties
	vendor        string
	hasFramingBit bool
}

// NewVorbisCommentTag wraps a decoded Vorbis Comment block. hasFramingBit
// should be true for Ogg Vorbis comment packets and false for FLAC/Opus.
func NewVorbisCommentTag(b *vorbis.Block, hasFramingBit bool) *VorbisCommentTag {
	return &VorbisCommentTag{
		props:         decodeVorbisProperties(b),
		vendor:        b.Vendor,
		hasFramingBit: hasFramingBit,
	}
}

func (t *VorbisCommentTag) Type() TagType { return TypeXiph }

var vorbisFieldNames = map[string]string{
	"Title": "TITLE", "Subtitle": "SUBTITLE", "Grouping": "GROUPING", "Description": "DESCRIPTION",
	"Artist": "ARTIST", "AlbumArtist": "ALBUMARTIST", "Composer": "COMPOSER", "Conductor": "CONDUCTOR",
	"Remixer": "REMIXER", "Album": "ALBUM", "DateTagged": "DATETAGGED",
	"OriginalReleaseDate": "ORIGINALDATE", "Genre": "GENRE", "Copyright": "COPYRIGHT", "Publisher": "PUBLISHER",
	"TotalTracks": "TRACKTOTAL", "TotalDiscs": "DISCTOTAL",
	"TitleSort": "TITLESORT", "ArtistSort": "ARTISTSORT", "AlbumSort": "ALBUMSORT",
	"AlbumArtistSort": "ALBUMARTISTSORT", "ComposerSort": "COMPOSERSORT",
	"InitialKey": "INITIALKEY", "Mood": "MOOD", "MediaType": "MEDIA", "Language": "LANGUAGE",
	"EncodedBy": "ENCODEDBY", "EncoderSettings": "ENCODERSETTINGS",
	"Isrc": "ISRC", "Barcode": "BARCODE", "CatalogNumber": "CATALOGNUMBER", "AmazonId": "ASIN",
	"Comment": "COMMENT", "Lyrics": "LYRICS",

	"MusicBrainzTrackId":        "MUSICBRAINZ_TRACKID",
	"MusicBrainzReleaseId":      "MUSICBRAINZ_ALBUMID",
	"MusicBrainzArtistId":       "MUSICBRAINZ_ARTISTID",
	"MusicBrainzReleaseGroupId": "MUSICBRAINZ_RELEASEGROUPID",
	"MusicBrainzAlbumArtistId":  "MUSICBRAINZ_ALBUMARTISTID",
	"MusicBrainzWorkId":         "MUSICBRAINZ_WORKID",
	"MusicBrainzDiscId":         "MUSICBRAINZ_DISCID",
	"MusicBrainzReleaseStatus":  "MUSICBRAINZ_ALBUMSTATUS",
	"MusicBrainzReleaseType":    "MUSICBRAINZ_ALBUMTYPE",
	"MusicBrainzReleaseCountry": "RELEASECOUNTRY",
	"AcoustIdId":                "ACOUSTID_ID",
	"AcoustIdFingerprint":       "ACOUSTID_FINGERPRINT",

	"ReplayGainTrackGain": "REPLAYGAIN_TRACK_GAIN",
	"ReplayGainTrackPeak": "REPLAYGAIN_TRACK_PEAK",
	"ReplayGainAlbumGain": "REPLAYGAIN_ALBUM_GAIN",
	"ReplayGainAlbumPeak": "REPLAYGAIN_ALBUM_PEAK",
}

func (t *VorbisCommentTag) Supports(field string) bool {
	switch field {
	case "Year", "Track", "DiscNumber", "IsCompilation", "BeatsPerMinute", "Pictures", "Performers", "AlbumArtists", "Composers", "Genres":
		return true
	}
	_, ok := vorbisFieldNames[field]
	return ok
}

// decodeVorbisProperties builds a canonical Properties snapshot from a
// decoded comment block.
func decodeVorbisProperties(b *vorbis.Block) Properties {
	p := Properties{}
	for field, name := range vorbisFieldNames {
		v := b.Get(name)
		if len(v) == 0 {
			continue
		}
		setStringProperty(&p, field, v[0])
	}
	p.Performers = b.Get("PERFORMER")
	p.Genres = b.Get("GENRE")
	p.AlbumArtists = b.Get("ALBUMARTIST")
	p.Composers = b.Get("COMPOSER")

	if y := b.Get("YEAR"); len(y) > 0 {
		if n, err := strconv.Atoi(first4(y[0])); err == nil {
			p.Year = n
		}
	} else if date := b.Get("DATE"); len(date) > 0 {
		if n, err := strconv.Atoi(first4(date[0])); err == nil {
			p.Year = n
		}
	}
	if v := b.Get("TRACKNUMBER"); len(v) > 0 {
		p.Track, p.TotalTracks = splitPair(v[0])
	}
	if v := b.Get("DISCNUMBER"); len(v) > 0 {
		p.DiscNumber, p.TotalDiscs = splitPair(v[0])
	}
	if v := b.Get("BPM"); len(v) > 0 {
		if n, err := strconv.Atoi(v[0]); err == nil {
			p.BeatsPerMinute = n
		}
	}
	if v := b.Get("COMPILATION"); len(v) > 0 && (v[0] == "1" || strings.EqualFold(v[0], "true")) {
		p.IsCompilation = true
	}

	for _, name := range []string{"REPLAYGAIN_TRACK_GAIN", "REPLAYGAIN_TRACK_PEAK", "REPLAYGAIN_ALBUM_GAIN", "REPLAYGAIN_ALBUM_PEAK"} {
		vs := b.Get(name)
		if len(vs) == 0 {
			continue
		}
		gain := parseGainValue(vs[0])
		switch name {
		case "REPLAYGAIN_TRACK_GAIN":
			p.ReplayGainTrackGain = gain
		case "REPLAYGAIN_TRACK_PEAK":
			p.ReplayGainTrackPeak = gain
		case "REPLAYGAIN_ALBUM_GAIN":
			p.ReplayGainAlbumGain = gain
		case "REPLAYGAIN_ALBUM_PEAK":
			p.ReplayGainAlbumPeak = gain
		}
	}

	for _, pic := range b.Get(vorbis.PictureFieldName) {
		payload, err := vorbis.DecodePictureField(pic)
		if err != nil {
			continue
		}
		fp, err := flacmeta.DecodePicture(payload)
		if err != nil {
			continue
		}
		p.Pictures = append(p.Pictures, Picture{
			MIME: fp.MIME, Type: PictureType(fp.PictureType),
			Description: fp.Description, Data: fp.Data,
		})
	}

	return p
}

// setStringProperty assigns a decoded string value to the named Properties
// field; only string-typed fields appear in vorbisFieldNames so a type
// switch keyed on field name is exhaustive and reflection-free.
func setStringProperty(p *Properties, field, value string) {
	switch field {
	case "Title":
		p.Title = value
	case "Subtitle":
		p.Subtitle = value
	case "Grouping":
		p.Grouping = value
	case "Description":
		p.Description = value
	case "Artist":
		p.Artist = value
	case "AlbumArtist":
		p.AlbumArtist = value
	case "Composer":
		p.Composer = value
	case "Conductor":
		p.Conductor = value
	case "Remixer":
		p.Remixer = value
	case "Album":
		p.Album = value
	case "DateTagged":
		p.DateTagged = value
	case "OriginalReleaseDate":
		p.OriginalReleaseDate = value
	case "Genre":
		p.Genre = value
	case "Copyright":
		p.Copyright = value
	case "Publisher":
		p.Publisher = value
	case "TotalTracks":
		if n, err := strconv.Atoi(value); err == nil {
			p.TotalTracks = n
		}
	case "TotalDiscs":
		if n, err := strconv.Atoi(value); err == nil {
			p.TotalDiscs = n
		}
	case "TitleSort":
		p.TitleSort = value
	case "ArtistSort":
		p.ArtistSort = value
	case "AlbumSort":
		p.AlbumSort = value
	case "AlbumArtistSort":
		p.AlbumArtistSort = value
	case "ComposerSort":
		p.ComposerSort = value
	case "InitialKey":
		p.InitialKey = value
	case "Mood":
		p.Mood = value
	case "MediaType":
		p.MediaType = value
	case "Language":
		p.Language = value
	case "EncodedBy":
		p.EncodedBy = value
	case "EncoderSettings":
		p.EncoderSettings = value
	case "Isrc":
		p.Isrc = value
	case "Barcode":
		p.Barcode = value
	case "CatalogNumber":
		p.CatalogNumber = value
	case "AmazonId":
		p.AmazonId = value
	case "Comment":
		p.Comment = value
	case "Lyrics":
		p.Lyrics = value
	case "MusicBrainzTrackId":
		p.MusicBrainzTrackId = value
	case "MusicBrainzReleaseId":
		p.MusicBrainzReleaseId = value
	case "MusicBrainzArtistId":
		p.MusicBrainzArtistId = value
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
	}
}

func (t *VorbisCommentTag) Props() *Properties { return &t.props }

func (t *VorbisCommentTag) IsEmpty() bool { return t.props.IsEmpty() }

func (t *VorbisCommentTag) Clear() { t.props.Clear() }

// Render encodes the current Properties state into a fresh comment block.
func (t *VorbisCommentTag) Render() (binutil.View, error) {
	b := &vorbis.Block{Vendor: t.vendor}
	encodeVorbisComments(b, &t.props)
	return binutil.NewView(vorbis.Encode(b, t.hasFramingBit)), nil
}

func (t *VorbisCommentTag) Validate() []Issue { return ValidateProperties(&t.props) }

// encodeVorbisComments writes p into b, one Set per mapped field (spec §4.F
// Render).
func encodeVorbisComments(b *vorbis.Block, p *Properties) {
	set := func(field, value string) {
		if value != "" {
			b.Set(vorbisFieldNames[field], value)
		}
	}
	set("Title", p.Title)
	set("Subtitle", p.Subtitle)
	set("Grouping", p.Grouping)
	set("Description", p.Description)
	set("Artist", p.Artist)
	set("AlbumArtist", p.AlbumArtist)
	set("Composer", p.Composer)
	set("Conductor", p.Conductor)
	set("Remixer", p.Remixer)
	set("Album", p.Album)
	set("DateTagged", p.DateTagged)
	set("OriginalReleaseDate", p.OriginalReleaseDate)
	set("Genre", p.Genre)
	set("Copyright", p.Copyright)
	set("Publisher", p.Publisher)
	set("TitleSort", p.TitleSort)
	set("ArtistSort", p.ArtistSort)
	set("AlbumSort", p.AlbumSort)
	set("AlbumArtistSort", p.AlbumArtistSort)
	set("ComposerSort", p.ComposerSort)
	set("InitialKey", p.InitialKey)
	set("Mood", p.Mood)
	set("MediaType", p.MediaType)
	set("Language", p.Language)
	set("EncodedBy", p.EncodedBy)
	set("EncoderSettings", p.EncoderSettings)
	set("Isrc", p.Isrc)
	set("Barcode", p.Barcode)
	set("CatalogNumber", p.CatalogNumber)
	set("AmazonId", p.AmazonId)
	set("Comment", p.Comment)
	set("Lyrics", p.Lyrics)
	set("MusicBrainzTrackId", p.MusicBrainzTrackId)
	set("MusicBrainzReleaseId", p.MusicBrainzReleaseId)
	set("MusicBrainzArtistId", p.MusicBrainzArtistId)
	set("MusicBrainzReleaseGroupId", p.MusicBrainzReleaseGroupId)
	set("MusicBrainzAlbumArtistId", p.MusicBrainzAlbumArtistId)
	set("MusicBrainzWorkId", p.MusicBrainzWorkId)
	set("MusicBrainzDiscId", p.MusicBrainzDiscId)
	set("MusicBrainzReleaseStatus", p.MusicBrainzReleaseStatus)
	set("MusicBrainzReleaseType", p.MusicBrainzReleaseType)
	set("MusicBrainzReleaseCountry", p.MusicBrainzReleaseCountry)
	set("AcoustIdId", p.AcoustIdId)
	set("AcoustIdFingerprint", p.AcoustIdFingerprint)

	if p.Year != 0 {
		b.Set("DATE", strconv.Itoa(p.Year))
	}
	if p.Track != 0 {
		b.Set("TRACKNUMBER", trackPairString(p.Track, p.TotalTracks))
	}
	if p.DiscNumber != 0 {
		b.Set("DISCNUMBER", trackPairString(p.DiscNumber, p.TotalDiscs))
	}
	if p.BeatsPerMinute != 0 {
		b.Set("BPM", strconv.Itoa(p.BeatsPerMinute))
	}
	if p.IsCompilation {
		b.Set("COMPILATION", "1")
	}
	if p.ReplayGainTrackGain != nil {
		b.Set("REPLAYGAIN_TRACK_GAIN", formatGainValue(*p.ReplayGainTrackGain))
	}
	if p.ReplayGainTrackPeak != nil {
		b.Set("REPLAYGAIN_TRACK_PEAK", formatGainValue(*p.ReplayGainTrackPeak))
	}
	if p.ReplayGainAlbumGain != nil {
		b.Set("REPLAYGAIN_ALBUM_GAIN", formatGainValue(*p.ReplayGainAlbumGain))
	}
	if p.ReplayGainAlbumPeak != nil {
		b.Set("REPLAYGAIN_ALBUM_PEAK", formatGainValue(*p.ReplayGainAlbumPeak))
	}

	if cover := CoverArt(p.Pictures); cover != nil {
		payload := flacmeta.EncodePicture(&flacmeta.PictureBlock{
			PictureType: byte(cover.Type), MIME: cover.MIME,
			Description: cover.Description, Data: cover.Data,
		})
		b.Set(vorbis.PictureFieldName, vorbis.EncodePictureField(payload))
	}
}

func formatGainValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + " dB"
}
