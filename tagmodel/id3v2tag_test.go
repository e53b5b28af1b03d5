package tagmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/id3v2"
)

func newEmptyId3v2(version id3v2.Version) *id3v2.Tag {
	return &id3v2.Tag{Header: &id3v2.Header{Version: version}}
}

func TestId3v2TagPropsBasicFrames(t *testing.T) {
	native := newEmptyId3v2(id3v2.V2_4)
	native.Frames = []*id3v2.Frame{
		{ID: "TIT2", Text: &id3v2.TextContent{Encoding: binutil.UTF8, Values: []string{"Song"}}},
		{ID: "TPE1", Text: &id3v2.TextContent{Encoding: binutil.UTF8, Values: []string{"Artist"}}},
		{ID: "TALB", Text: &id3v2.TextContent{Encoding: binutil.UTF8, Values: []string{"Album"}}},
		{ID: "TRCK", Text: &id3v2.TextContent{Encoding: binutil.UTF8, Values: []string{"3/12"}}},
		{ID: "TCON", Text: &id3v2.TextContent{Encoding: binutil.UTF8, Values: []string{"Rock"}}},
		{ID: "COMM", Comm: &id3v2.CommContent{Encoding: binutil.UTF8, Language: "eng", Text: "a comment"}},
	}

	tag := NewId3v2Tag(native)
	p := tag.Props()

	assert.Equal(t, "Song", p.Title)
	assert.Equal(t, "Artist", p.Artist)
	assert.Equal(t, "Album", p.Album)
	assert.Equal(t, 3, p.Track)
	assert.Equal(t, 12, p.TotalTracks)
	assert.Equal(t, "Rock", p.Genre)
	assert.Equal(t, "a comment", p.Comment)
}

func TestId3v2TagPropsTXXXAndUFID(t *testing.T) {
	native := newEmptyId3v2(id3v2.V2_4)
	native.Frames = []*id3v2.Frame{
		{ID: "TXXX", Text: &id3v2.TextContent{Description: "MusicBrainz Artist Id", Values: []string{"mb-artist"}}},
		{ID: "TXXX", Text: &id3v2.TextContent{Description: "MusicBrainz Album Id", Values: []string{"mb-release"}}},
		{ID: "TXXX", Text: &id3v2.TextContent{Description: "replaygain_track_gain", Values: []string{"-6.50 dB"}}},
		{ID: "UFID", Ufid: &id3v2.UFIDContent{Owner: "http://musicbrainz.org", Identifier: []byte("track-uuid")}},
	}

	p := NewId3v2Tag(native).Props()
	assert.Equal(t, "mb-artist", p.MusicBrainzArtistId)
	assert.Equal(t, "mb-release", p.MusicBrainzReleaseId)
	assert.Equal(t, "track-uuid", p.MusicBrainzTrackId)
	require.NotNil(t, p.ReplayGainTrackGain)
	assert.InDelta(t, -6.50, *p.ReplayGainTrackGain, 0.001)
}

func TestId3v2TagPropsPicture(t *testing.T) {
	native := newEmptyId3v2(id3v2.V2_4)
	native.Frames = []*id3v2.Frame{
		{ID: "APIC", Pic: &id3v2.PictureContent{
			MIME: "image/jpeg", PictureType: byte(PictureFrontCover),
			Description: "cover", Data: []byte{1, 2, 3},
		}},
	}

	p := NewId3v2Tag(native).Props()
	require.Len(t, p.Pictures, 1)
	cover := CoverArt(p.Pictures)
	require.NotNil(t, cover)
	assert.Equal(t, "image/jpeg", cover.MIME)
	assert.Equal(t, []byte{1, 2, 3}, cover.Data)
}

func TestId3v2TagMutatePropsThenRender(t *testing.T) {
	native := newEmptyId3v2(id3v2.V2_4)
	tag := NewId3v2Tag(native)
	p := tag.Props()
	p.Title = "New Title"
	p.Artist = "New Artist"
	p.Year = 2020
	p.Track = 1
	p.TotalTracks = 10
	p.MusicBrainzTrackId = "mbid-123"
	p.MusicBrainzArtistId = "mbid-artist"
	p.Comment = "hello"

	view, err := tag.Render()
	require.NoError(t, err)
	assert.Greater(t, view.Len(), 0)

	decoded, err := id3v2.Read(view.Bytes())
	require.NoError(t, err)
	got := NewId3v2Tag(decoded).Props()
	assert.Equal(t, "New Title", got.Title)
	assert.Equal(t, "New Artist", got.Artist)
	assert.Equal(t, 1, got.Track)
	assert.Equal(t, 10, got.TotalTracks)
	assert.Equal(t, "mbid-123", got.MusicBrainzTrackId)
	assert.Equal(t, "mbid-artist", got.MusicBrainzArtistId)
	assert.Equal(t, "hello", got.Comment)
}

func TestId3v2TagSupportsAndEmpty(t *testing.T) {
	tag := NewId3v2Tag(newEmptyId3v2(id3v2.V2_4))
	assert.True(t, tag.IsEmpty())
	assert.True(t, tag.Supports("Title"))
	assert.False(t, tag.Supports("NotAField"))

	tag.Props().Title = "X"
	assert.False(t, tag.IsEmpty())

	tag.Clear()
	assert.True(t, tag.IsEmpty())
}
