package tagmodel

import (
	"strconv"

	"github.com/corvidaudio/metatag/internal/apetag"
	"github.com/corvidaudio/metatag/internal/binutil"
)

// ApeV2Tag adapts internal/apetag.Tag to the unified Tag interface (spec
// §4.K). APEv2 item keys are, by ecosystem convention, the same
// uppercase-ASCII names Vorbis Comments use, so this adapter reuses
// vorbisFieldNames rather than a second parallel table. Props is decoded
// once at construction and held as the tag's live state; Render re-encodes
// a fresh item list from it.
type ApeV2Tag struct {
	props   Properties
	version uint32
}

// NewApeV2Tag wraps a decoded native APEv2 tag.
func NewApeV2Tag(t *apetag.Tag) *ApeV2Tag {
	version := t.Version
	if version == 0 {
		version = apetag.Version2000
	}
	return &ApeV2Tag{props: decodeApeProperties(t), version: version}
}

func (t *ApeV2Tag) Type() TagType { return TypeApe }

func (t *ApeV2Tag) Supports(field string) bool {
	switch field {
	case "Year", "Track", "TotalTracks", "DiscNumber", "TotalDiscs", "IsCompilation", "BeatsPerMinute", "Pictures":
		return true
	}
	_, ok := vorbisFieldNames[field]
	return ok
}

// decodeApeProperties builds a canonical Properties snapshot from a decoded
// native item list.
func decodeApeProperties(t *apetag.Tag) Properties {
	p := Properties{}
	for field, key := range vorbisFieldNames {
		if v := t.Get(key); v != "" {
			setStringProperty(&p, field, v)
		}
	}

	if y := t.Get("Year"); y != "" {
		if n, err := strconv.Atoi(first4(y)); err == nil {
			p.Year = n
		}
	}
	if v := t.Get("Track"); v != "" {
		p.Track, p.TotalTracks = splitPair(v)
	}
	if v := t.Get("Disc"); v != "" {
		p.DiscNumber, p.TotalDiscs = splitPair(v)
	}
	if v := t.Get("BPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.BeatsPerMinute = n
		}
	}

	for _, it := range t.Items {
		if it.ValueType == apetag.ValueBinary && (it.Key == "Cover Art (front)" || it.Key == "Cover Art (Front)") {
			p.Pictures = append(p.Pictures, decodeApeCoverItem(it.Value, PictureFrontCover))
		}
	}

	return p
}

// decodeApeCoverItem splits an APEv2 binary cover-art item: a
// null-terminated description, then the raw image bytes. MIME type isn't
// carried explicitly by APEv2 so it is left for the caller/format sniffer
// to fill in.
func decodeApeCoverItem(value []byte, typ PictureType) Picture {
	for i, b := range value {
		if b == 0 {
			desc, _ := binutil.DecodeString(binutil.UTF8, value[:i])
			return Picture{Type: typ, Description: desc, Data: append([]byte(nil), value[i+1:]...)}
		}
	}
	return Picture{Type: typ, Data: append([]byte(nil), value...)}
}

func encodeApeCoverItem(p *Picture) []byte {
	b := binutil.Acquire()
	defer b.Release()
	desc, _ := binutil.EncodeString(binutil.UTF8, p.Description)
	b.Bytes(desc)
	b.Byte(0)
	b.Bytes(p.Data)
	return b.Finalize().Bytes()
}

func (t *ApeV2Tag) Props() *Properties { return &t.props }

func (t *ApeV2Tag) IsEmpty() bool { return t.props.IsEmpty() }

func (t *ApeV2Tag) Clear() { t.props.Clear() }

// Render encodes the current Properties state into a fresh item list.
func (t *ApeV2Tag) Render() (binutil.View, error) {
	native := &apetag.Tag{Version: t.version, HasHeader: true}
	encodeApeItems(native, &t.props)
	return binutil.NewView(apetag.Encode(native)), nil
}

func (t *ApeV2Tag) Validate() []Issue { return ValidateProperties(&t.props) }

// encodeApeItems writes p into native via Set, one UTF-8 text item per
// mapped field (spec §4.K Render).
func encodeApeItems(native *apetag.Tag, p *Properties) {
	set := func(field, value string) {
		if value != "" {
			native.Set(vorbisFieldNames[field], value)
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
		native.Set("Year", strconv.Itoa(p.Year))
	}
	if p.Track != 0 {
		native.Set("Track", trackPairString(p.Track, p.TotalTracks))
	}
	if p.DiscNumber != 0 {
		native.Set("Disc", trackPairString(p.DiscNumber, p.TotalDiscs))
	}
	if p.BeatsPerMinute != 0 {
		native.Set("BPM", strconv.Itoa(p.BeatsPerMinute))
	}

	if cover := CoverArt(p.Pictures); cover != nil {
		setApeBinaryItem(native, "Cover Art (Front)", encodeApeCoverItem(cover))
	}
}

func setApeBinaryItem(native *apetag.Tag, key string, value []byte) {
	for _, it := range native.Items {
		if it.Key == key {
			it.Value = value
			it.ValueType = apetag.ValueBinary
			return
		}
	}
	native.Items = append(native.Items, &apetag.Item{Key: key, ValueType: apetag.ValueBinary, Value: value})
}
