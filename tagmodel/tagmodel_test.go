package tagmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidaudio/metatag/internal/binutil"
)

type fakeTag struct {
	props     Properties
	supported map[string]bool
}

func (f *fakeTag) Type() TagType   { return TypeId3v2 }
func (f *fakeTag) Props() *Properties { return &f.props }
func (f *fakeTag) Supports(field string) bool {
	if f.supported == nil {
		return true
	}
	return f.supported[field]
}
func (f *fakeTag) IsEmpty() bool { return f.props.IsEmpty() }
func (f *fakeTag) Clear()        { f.props.Clear() }
func (f *fakeTag) Render() (binutil.View, error) { return binutil.View{}, nil }
func (f *fakeTag) Validate() []Issue             { return ValidateProperties(&f.props) }

func TestCoverArtReplaceAtomic(t *testing.T) {
	pics := []Picture{
		{Type: PictureFrontCover, Description: "old"},
		{Type: PictureBackCover, Description: "back"},
	}
	pics = SetCoverArt(pics, Picture{Description: "new"})

	var fronts int
	for _, p := range pics {
		if p.Type == PictureFrontCover {
			fronts++
			assert.Equal(t, "new", p.Description)
		}
	}
	assert.Equal(t, 1, fronts)
	assert.Len(t, pics, 2)
}

func TestCopyToRespectsCategoriesAndSupport(t *testing.T) {
	src := &fakeTag{}
	src.props.Title = "Song"
	src.props.ArtistSort = "Last, First"
	src.props.MusicBrainzTrackId = "abc-123"
	src.props.Pictures = []Picture{{Type: PictureFrontCover, Data: []byte{1, 2, 3}}}

	dst := &fakeTag{supported: map[string]bool{"Title": true, "Pictures": true}}

	issues := CopyTo(dst, src, CopyOptions{Categories: CategoryBasic | CategoryPictures})

	assert.Equal(t, "Song", dst.props.Title)
	assert.Empty(t, dst.props.MusicBrainzTrackId) // category excluded
	require.Len(t, dst.props.Pictures, 1)
	assert.Equal(t, []byte{1, 2, 3}, dst.props.Pictures[0].Data)

	// picture data must be cloned, not aliased
	dst.props.Pictures[0].Data[0] = 99
	assert.Equal(t, byte(1), src.props.Pictures[0].Data[0])

	var droppedInfo bool
	for _, iss := range issues {
		if iss.Severity == SeverityInfo {
			droppedInfo = true
		}
	}
	_ = droppedInfo
}

func TestValidateISRCAndTrackOrdering(t *testing.T) {
	p := &Properties{Isrc: "bad", Track: 5, TotalTracks: 2, Year: 26}
	issues := ValidateProperties(p)

	var gotIsrc, gotTrack, gotYear bool
	for _, iss := range issues {
		switch iss.Field {
		case "Isrc":
			gotIsrc = true
		case "Track":
			gotTrack = true
		case "Year":
			gotYear = true
		}
	}
	assert.True(t, gotIsrc)
	assert.True(t, gotTrack)
	assert.True(t, gotYear)
}

func TestValidateGoodISRC(t *testing.T) {
	p := &Properties{Isrc: "USRC17607839"}
	issues := ValidateProperties(p)
	for _, iss := range issues {
		assert.NotEqual(t, "Isrc", iss.Field)
	}
}
