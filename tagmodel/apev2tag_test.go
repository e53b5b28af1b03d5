package tagmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidaudio/metatag/internal/apetag"
)

func TestApeV2TagProps(t *testing.T) {
	native := &apetag.Tag{Version: apetag.Version2000}
	native.Set("Title", "Song")
	native.Set("Artist", "Band")
	native.Set("Year", "1998")
	native.Set("Track", "7/15")

	p := NewApeV2Tag(native).Props()
	assert.Equal(t, "Song", p.Title)
	assert.Equal(t, "Band", p.Artist)
	assert.Equal(t, 1998, p.Year)
	assert.Equal(t, 7, p.Track)
	assert.Equal(t, 15, p.TotalTracks)
}

func TestApeV2TagCoverArtRoundTrip(t *testing.T) {
	tag := NewApeV2Tag(&apetag.Tag{Version: apetag.Version2000})
	p := tag.Props()
	p.Title = "X"
	p.Pictures = []Picture{{Type: PictureFrontCover, Description: "front", Data: []byte{1, 2, 3, 4}}}

	view, err := tag.Render()
	require.NoError(t, err)

	decoded, err := apetag.Decode(view.Bytes())
	require.NoError(t, err)
	p2 := NewApeV2Tag(decoded).Props()
	cover := CoverArt(p2.Pictures)
	require.NotNil(t, cover)
	assert.Equal(t, "front", cover.Description)
	assert.Equal(t, []byte{1, 2, 3, 4}, cover.Data)
}

func TestApeV2TagMutatePropsThenRender(t *testing.T) {
	tag := NewApeV2Tag(&apetag.Tag{Version: apetag.Version2000})
	p := tag.Props()
	p.Title = "Hello"
	p.Artist = "World"
	p.MusicBrainzTrackId = "mbid"

	view, err := tag.Render()
	require.NoError(t, err)

	decoded, err := apetag.Decode(view.Bytes())
	require.NoError(t, err)
	got := NewApeV2Tag(decoded).Props()
	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "World", got.Artist)
	assert.Equal(t, "mbid", got.MusicBrainzTrackId)
}

func TestApeV2TagSupportsAndEmpty(t *testing.T) {
	tag := NewApeV2Tag(&apetag.Tag{})
	assert.True(t, tag.IsEmpty())
	assert.True(t, tag.Supports("Title"))
	assert.False(t, tag.Supports("NotAField"))

	tag.Props().Title = "X"
	assert.False(t, tag.IsEmpty())
	tag.Clear()
	assert.True(t, tag.IsEmpty())
}
