package id3v1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripV1Dot1(t *testing.T) {
	src := &Tag{
		Title:      "Song Title",
		Artist:     "The Artist",
		Album:      "An Album",
		Year:       "1999",
		Comment:    "a comment",
		Track:      7,
		GenreIndex: 17, // Rock
	}

	v := Render(src)
	require.Equal(t, TagSize, v.Len())

	got, err := Read(v.Bytes())
	require.NoError(t, err)

	assert.True(t, got.IsV1Dot1)
	assert.Equal(t, "Song Title", got.Title)
	assert.Equal(t, "The Artist", got.Artist)
	assert.Equal(t, "An Album", got.Album)
	assert.Equal(t, "1999", got.Year)
	assert.Equal(t, "a comment", got.Comment)
	assert.Equal(t, 7, got.Track)
	assert.Equal(t, "Rock", got.GenreName())
}

func TestRoundTripV1Dot0NoTrack(t *testing.T) {
	src := &Tag{
		Title:   "No Track Here",
		Comment: "this comment fills all thirty bytes exactly!",
		Track:   0,
	}
	src.SetGenreName("Jazz")

	v := Render(src)
	got, err := Read(v.Bytes())
	require.NoError(t, err)

	assert.False(t, got.IsV1Dot1)
	assert.Equal(t, 0, got.Track)
	assert.Equal(t, "this comment fills all thirty bytes exactly!"[:30], got.Comment)
	assert.Equal(t, "Jazz", got.GenreName())
}

func TestReadRejectsBadMagic(t *testing.T) {
	b := make([]byte, TagSize)
	copy(b, "NOT")

	_, err := Read(b)
	assert.Error(t, err)
}

func TestReadRejectsTruncated(t *testing.T) {
	_, err := Read(make([]byte, 127))
	assert.Error(t, err)
}

func TestGenreIndexOutOfRangeYieldsNoName(t *testing.T) {
	tg := &Tag{GenreIndex: 255}
	assert.Equal(t, "", tg.GenreName())

	tg2 := &Tag{GenreIndex: 200}
	assert.Equal(t, "", tg2.GenreName())
}

func TestIndexForNameCaseInsensitive(t *testing.T) {
	assert.Equal(t, byte(17), IndexForName("rock"))
	assert.Equal(t, byte(17), IndexForName("ROCK"))
	assert.Equal(t, byte(255), IndexForName("Not A Real Genre"))
	assert.Equal(t, byte(255), IndexForName(""))
}

func TestLookupIndexFindsWinampExtension(t *testing.T) {
	i := LookupIndex("Dubstep")
	require.GreaterOrEqual(t, i, 80)
	assert.Equal(t, "Dubstep", LookupName(byte(i)))
}
