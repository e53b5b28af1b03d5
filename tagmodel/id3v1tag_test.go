package tagmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidaudio/metatag/internal/id3v1"
)

func TestId3v1TagPropsDecodedAtConstruction(t *testing.T) {
	native := &id3v1.Tag{
		Title: "Song", Artist: "Band", Album: "Record",
		Year: "1999", Comment: "hi", Track: 3,
	}
	native.SetGenreName("Rock")

	tag := NewId3v1Tag(native)
	p := tag.Props()

	assert.Equal(t, "Song", p.Title)
	assert.Equal(t, "Band", p.Artist)
	assert.Equal(t, "Record", p.Album)
	assert.Equal(t, 1999, p.Year)
	assert.Equal(t, "hi", p.Comment)
	assert.Equal(t, 3, p.Track)
	assert.Equal(t, "Rock", p.Genre)
}

func TestId3v1TagSupports(t *testing.T) {
	tag := NewId3v1Tag(&id3v1.Tag{})
	assert.True(t, tag.Supports("Title"))
	assert.False(t, tag.Supports("Lyrics"))
	assert.False(t, tag.Supports("MusicBrainzTrackId"))
}

func TestId3v1TagMutatePropsThenRenderRoundTrip(t *testing.T) {
	tag := NewId3v1Tag(&id3v1.Tag{})
	p := tag.Props()
	p.Title = "New"
	p.Artist = "Artist"
	p.Album = "Album"
	p.Comment = "c"
	p.Track = 5
	p.Year = 2001
	p.Genre = "Jazz"

	view, err := tag.Render()
	require.NoError(t, err)
	require.Equal(t, id3v1.TagSize, view.Len())

	got, err := id3v1.Read(view.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "Artist", got.Artist)
	assert.Equal(t, "Jazz", got.GenreName())
	assert.True(t, got.IsV1Dot1)
	assert.Equal(t, 5, got.Track)
}

func TestId3v1TagClearAndIsEmpty(t *testing.T) {
	tag := NewId3v1Tag(&id3v1.Tag{Title: "X"})
	assert.False(t, tag.IsEmpty())

	tag.Clear()
	assert.True(t, tag.IsEmpty())
}
