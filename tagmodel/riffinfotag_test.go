package tagmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidaudio/metatag/internal/wavmeta"
)

func TestRiffInfoTagPropsDecodedAtConstruction(t *testing.T) {
	il := &wavmeta.InfoList{Fields: map[string]string{
		"INAM": "Song", "IART": "Band", "IPRD": "Record",
		"ICRD": "2001-05-01", "ITRK": "4", "ICMT": "hi", "IGNR": "Rock",
	}}

	tag := NewRiffInfoTag(il)
	p := tag.Props()
	assert.Equal(t, "Song", p.Title)
	assert.Equal(t, "Band", p.Artist)
	assert.Equal(t, "Record", p.Album)
	assert.Equal(t, 2001, p.Year)
	assert.Equal(t, 4, p.Track)
	assert.Equal(t, "hi", p.Comment)
	assert.Equal(t, "Rock", p.Genre)
}

func TestRiffInfoTagSupports(t *testing.T) {
	tag := NewRiffInfoTag(&wavmeta.InfoList{Fields: map[string]string{}})
	assert.True(t, tag.Supports("Title"))
	assert.True(t, tag.Supports("Year"))
	assert.False(t, tag.Supports("MusicBrainzTrackId"))
}

func TestRiffInfoTagMutatePropsThenRenderRoundTrip(t *testing.T) {
	tag := NewRiffInfoTag(&wavmeta.InfoList{Fields: map[string]string{}})
	p := tag.Props()
	p.Title = "New"
	p.Artist = "Artist"
	p.Year = 1999
	p.Track = 2

	view, err := tag.Render()
	require.NoError(t, err)

	got, err := wavmeta.DecodeInfoList(view.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "New", got.Fields["INAM"])
	assert.Equal(t, "Artist", got.Fields["IART"])
	assert.Equal(t, "1999", got.Fields["ICRD"])
	assert.Equal(t, "2", got.Fields["ITRK"])
}

func TestRiffInfoTagClearAndIsEmpty(t *testing.T) {
	tag := NewRiffInfoTag(&wavmeta.InfoList{Fields: map[string]string{"INAM": "X"}})
	assert.False(t, tag.IsEmpty())
	tag.Clear()
	assert.True(t, tag.IsEmpty())
}
