package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidaudio/metatag/tagmodel"
)

// TestCopyToBetweenRealFileClassTags exercises spec §4.N cross-tag copy
// end-to-end: an Id3v2Tag produced by ReadMP3 copied onto a
// VorbisCommentTag produced by ReadFLAC, then rendered and re-parsed on
// both sides.
func TestCopyToBetweenRealFileClassTags(t *testing.T) {
	mp3, err := ReadMP3(minimalMP3Bytes(t))
	require.NoError(t, err)
	mp3.Tags()[0].Props().Title = "Source Title"
	mp3.Tags()[0].Props().Artist = "Source Artist"
	mp3.Tags()[0].Props().Track = 3
	mp3.Tags()[0].Props().MusicBrainzArtistId = "mbid-1234"

	flac, err := ReadFLAC(flacRaw(t))
	require.NoError(t, err)

	issues := tagmodel.CopyTo(flac.Tags()[0], mp3.Tags()[0], tagmodel.CopyOptions{Categories: tagmodel.CategoryAll})
	assert.Empty(t, issues)

	out, err := flac.Render()
	require.NoError(t, err)

	reread, err := ReadFLAC(out)
	require.NoError(t, err)
	props := reread.Tags()[0].Props()
	assert.Equal(t, "Source Title", props.Title)
	assert.Equal(t, "Source Artist", props.Artist)
	assert.Equal(t, 3, props.Track)
	assert.Equal(t, "mbid-1234", props.MusicBrainzArtistId)
}

// TestCopyToRestrictedCategorySkipsFields confirms a restricted category
// bitmap drops fields outside it while still copying what's included.
func TestCopyToRestrictedCategorySkipsFields(t *testing.T) {
	mp3, err := ReadMP3(minimalMP3Bytes(t))
	require.NoError(t, err)
	mp3.Tags()[0].Props().Title = "Basic Only"
	mp3.Tags()[0].Props().MusicBrainzArtistId = "should-not-copy"

	flac, err := ReadFLAC(flacRaw(t))
	require.NoError(t, err)

	tagmodel.CopyTo(flac.Tags()[0], mp3.Tags()[0], tagmodel.CopyOptions{Categories: tagmodel.CategoryBasic})

	assert.Equal(t, "Basic Only", flac.Tags()[0].Props().Title)
	assert.Empty(t, flac.Tags()[0].Props().MusicBrainzArtistId)
}
