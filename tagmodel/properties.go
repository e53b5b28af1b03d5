package tagmodel

// Category buckets a property for cross-tag copy filtering (spec §4.C/§4.N).
type Category uint16

const (
	CategoryBasic Category = 1 << iota
	CategorySort
	CategoryMusicBrainz
	CategoryReplayGain
	CategoryR128
	CategoryPictures
	CategoryCustom
)

// CategoryAll is every category OR'd together, the default full copy.
const CategoryAll = CategoryBasic | CategorySort | CategoryMusicBrainz |
	CategoryReplayGain | CategoryR128 | CategoryPictures | CategoryCustom

// Properties is the canonical, format-agnostic property set (spec §3.2).
// Every Tag variant embeds one and declares, via its Supports method, which
// of these fields it is able to carry in its native representation.
type Properties struct {
	// Identity
	Title       string
	Subtitle    string
	Grouping    string
	Description string

	// People
	Artist         string
	Performers     []string
	PerformersRole []string
	AlbumArtist    string
	AlbumArtists   []string
	Composer       string
	Composers      []string
	Conductor      string
	Remixer        string

	// Album
	Album               string
	Year                int
	DateTagged          string
	OriginalReleaseDate string
	Genre               string
	Genres              []string
	Copyright           string
	Publisher           string

	// Ordering
	Track       int
	TotalTracks int
	DiscNumber  int
	TotalDiscs  int

	// Sort keys
	TitleSort        string
	ArtistSort       string
	AlbumSort        string
	AlbumArtistSort  string
	ComposerSort     string
	PerformersSort   string
	AlbumArtistsSort string
	ComposersSort    string

	// Technical flags
	IsCompilation   bool
	BeatsPerMinute  int
	InitialKey      string
	Mood            string
	MediaType       string
	Language        string
	EncodedBy       string
	EncoderSettings string

	// Identifiers
	Isrc          string
	Barcode       string
	CatalogNumber string
	AmazonId      string

	MusicBrainzTrackId        string
	MusicBrainzReleaseId      string
	MusicBrainzArtistId       string
	MusicBrainzReleaseGroupId string
	MusicBrainzAlbumArtistId  string
	MusicBrainzWorkId         string
	MusicBrainzDiscId         string
	MusicBrainzRecordingId    string
	MusicBrainzReleaseStatus  string
	MusicBrainzReleaseType    string
	MusicBrainzReleaseCountry string

	AcoustIdId          string
	AcoustIdFingerprint string

	// Long text
	Comment string
	Lyrics  string

	// Loudness
	ReplayGainTrackGain *float64
	ReplayGainTrackPeak *float64
	ReplayGainAlbumGain *float64
	ReplayGainAlbumPeak *float64
	R128TrackGain       *int16 // Q7.8 fixed point
	R128AlbumGain       *int16 // Q7.8 fixed point

	// Pictures
	Pictures []Picture
}

// fieldCategory maps every Properties field name to its copy category.
// Kept as a lookup table (not struct tags) so CopyTo's reflection loop
// stays a single map probe per field.
var fieldCategory = map[string]Category{
	"Title": CategoryBasic, "Subtitle": CategoryBasic, "Grouping": CategoryBasic, "Description": CategoryBasic,
	"Artist": CategoryBasic, "Performers": CategoryBasic, "PerformersRole": CategoryBasic,
	"AlbumArtist": CategoryBasic, "AlbumArtists": CategoryBasic,
	"Composer": CategoryBasic, "Composers": CategoryBasic, "Conductor": CategoryBasic, "Remixer": CategoryBasic,
	"Album": CategoryBasic, "Year": CategoryBasic, "DateTagged": CategoryBasic, "OriginalReleaseDate": CategoryBasic,
	"Genre": CategoryBasic, "Genres": CategoryBasic, "Copyright": CategoryBasic, "Publisher": CategoryBasic,
	"Track": CategoryBasic, "TotalTracks": CategoryBasic, "DiscNumber": CategoryBasic, "TotalDiscs": CategoryBasic,
	"IsCompilation": CategoryBasic, "BeatsPerMinute": CategoryBasic, "InitialKey": CategoryBasic, "Mood": CategoryBasic,
	"MediaType": CategoryBasic, "Language": CategoryBasic, "EncodedBy": CategoryBasic, "EncoderSettings": CategoryBasic,
	"Comment": CategoryBasic, "Lyrics": CategoryBasic,

	"TitleSort": CategorySort, "ArtistSort": CategorySort, "AlbumSort": CategorySort, "AlbumArtistSort": CategorySort,
	"ComposerSort": CategorySort, "PerformersSort": CategorySort, "AlbumArtistsSort": CategorySort, "ComposersSort": CategorySort,

	"Isrc": CategoryCustom, "Barcode": CategoryCustom, "CatalogNumber": CategoryCustom, "AmazonId": CategoryCustom,

	"MusicBrainzTrackId": CategoryMusicBrainz, "MusicBrainzReleaseId": CategoryMusicBrainz,
	"MusicBrainzArtistId": CategoryMusicBrainz, "MusicBrainzReleaseGroupId": CategoryMusicBrainz,
	"MusicBrainzAlbumArtistId": CategoryMusicBrainz, "MusicBrainzWorkId": CategoryMusicBrainz,
	"MusicBrainzDiscId": CategoryMusicBrainz, "MusicBrainzRecordingId": CategoryMusicBrainz,
	"MusicBrainzReleaseStatus": CategoryMusicBrainz, "MusicBrainzReleaseType": CategoryMusicBrainz,
	"MusicBrainzReleaseCountry": CategoryMusicBrainz,
	"AcoustIdId":                CategoryMusicBrainz, "AcoustIdFingerprint": CategoryMusicBrainz,

	"ReplayGainTrackGain": CategoryReplayGain, "ReplayGainTrackPeak": CategoryReplayGain,
	"ReplayGainAlbumGain": CategoryReplayGain, "ReplayGainAlbumPeak": CategoryReplayGain,

	"R128TrackGain": CategoryR128, "R128AlbumGain": CategoryR128,

	"Pictures": CategoryPictures,
}

// IsEmpty reports whether every property is at its zero value. Properties
// contains slices and pointers so it cannot use == directly.
func (p *Properties) IsEmpty() bool {
	if p.Title != "" || p.Subtitle != "" || p.Grouping != "" || p.Description != "" ||
		p.Artist != "" || p.AlbumArtist != "" || p.Composer != "" || p.Conductor != "" || p.Remixer != "" ||
		p.Album != "" || p.Year != 0 || p.DateTagged != "" || p.OriginalReleaseDate != "" ||
		p.Genre != "" || p.Copyright != "" || p.Publisher != "" ||
		p.Track != 0 || p.TotalTracks != 0 || p.DiscNumber != 0 || p.TotalDiscs != 0 ||
		p.TitleSort != "" || p.ArtistSort != "" || p.AlbumSort != "" || p.AlbumArtistSort != "" ||
		p.ComposerSort != "" || p.PerformersSort != "" || p.AlbumArtistsSort != "" || p.ComposersSort != "" ||
		p.IsCompilation || p.BeatsPerMinute != 0 || p.InitialKey != "" || p.Mood != "" ||
		p.MediaType != "" || p.Language != "" || p.EncodedBy != "" || p.EncoderSettings != "" ||
		p.Isrc != "" || p.Barcode != "" || p.CatalogNumber != "" || p.AmazonId != "" ||
		p.MusicBrainzTrackId != "" || p.MusicBrainzReleaseId != "" || p.MusicBrainzArtistId != "" ||
		p.MusicBrainzReleaseGroupId != "" || p.MusicBrainzAlbumArtistId != "" || p.MusicBrainzWorkId != "" ||
		p.MusicBrainzDiscId != "" || p.MusicBrainzRecordingId != "" || p.MusicBrainzReleaseStatus != "" ||
		p.MusicBrainzReleaseType != "" || p.MusicBrainzReleaseCountry != "" ||
		p.AcoustIdId != "" || p.AcoustIdFingerprint != "" ||
		p.Comment != "" || p.Lyrics != "" ||
		p.ReplayGainTrackGain != nil || p.ReplayGainTrackPeak != nil ||
		p.ReplayGainAlbumGain != nil || p.ReplayGainAlbumPeak != nil ||
		p.R128TrackGain != nil || p.R128AlbumGain != nil {
		return false
	}
	return len(p.Performers) == 0 && len(p.PerformersRole) == 0 && len(p.AlbumArtists) == 0 &&
		len(p.Composers) == 0 && len(p.Genres) == 0 && len(p.Pictures) == 0
}

// Clear resets every property to its zero value.
func (p *Properties) Clear() {
	*p = Properties{}
}
