package tagmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidaudio/metatag/internal/mp4box"
)

func TestMp4IlstTagProps(t *testing.T) {
	items := []*mp4box.Box{
		{Type: "\xa9nam", Children: []*mp4box.Box{{Type: "data", Payload: mp4box.EncodeDataAtom(mp4box.TextValue("Song"))}}},
		{Type: "\xa9ART", Children: []*mp4box.Box{{Type: "data", Payload: mp4box.EncodeDataAtom(mp4box.TextValue("Band"))}}},
		{Type: "trkn", Children: []*mp4box.Box{{Type: "data", Payload: mp4box.EncodeDataAtom(&mp4box.ItemValue{
			Class: mp4box.ClassImplicit, Raw: mp4box.EncodeTrackDisk(3, 10),
		})}}},
	}

	p := NewMp4IlstTag(items).Props()
	assert.Equal(t, "Song", p.Title)
	assert.Equal(t, "Band", p.Artist)
	assert.Equal(t, 3, p.Track)
	assert.Equal(t, 10, p.TotalTracks)
}

func TestMp4IlstTagMutatePropsThenRender(t *testing.T) {
	tag := NewMp4IlstTag(nil)
	p := tag.Props()
	p.Title = "New"
	p.Artist = "NewArtist"
	p.Year = 2015
	p.Track = 1
	p.TotalTracks = 8
	p.IsCompilation = true
	p.MusicBrainzTrackId = "mbid"

	view, err := tag.Render()
	require.NoError(t, err)

	// Render yields the ilst child list; wrap it in an ilst box so Decode
	// opens each item atom as a container, as it does inside a file.
	decoded, err := mp4box.Decode(mp4box.Encode([]*mp4box.Box{{Type: "ilst", Payload: view.Bytes()}}))
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	got := NewMp4IlstTag(decoded[0].Children).Props()
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "NewArtist", got.Artist)
	assert.Equal(t, 2015, got.Year)
	assert.Equal(t, 1, got.Track)
	assert.Equal(t, 8, got.TotalTracks)
	assert.True(t, got.IsCompilation)
	assert.Equal(t, "mbid", got.MusicBrainzTrackId)
}

func TestMp4IlstTagCoverArtRoundTrip(t *testing.T) {
	tag := NewMp4IlstTag(nil)
	p := tag.Props()
	p.Pictures = []Picture{{Type: PictureFrontCover, MIME: "image/png", Data: []byte{1, 2, 3}}}

	view, err := tag.Render()
	require.NoError(t, err)

	decoded, err := mp4box.Decode(mp4box.Encode([]*mp4box.Box{{Type: "ilst", Payload: view.Bytes()}}))
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	cover := CoverArt(NewMp4IlstTag(decoded[0].Children).Props().Pictures)
	require.NotNil(t, cover)
	assert.Equal(t, "image/png", cover.MIME)
	assert.Equal(t, []byte{1, 2, 3}, cover.Data)
}

func TestMp4IlstTagSupportsAndEmpty(t *testing.T) {
	tag := NewMp4IlstTag(nil)
	assert.True(t, tag.IsEmpty())
	assert.True(t, tag.Supports("Title"))
	assert.False(t, tag.Supports("NotAField"))

	tag.Props().Title = "X"
	assert.False(t, tag.IsEmpty())
	tag.Clear()
	assert.True(t, tag.IsEmpty())
}
