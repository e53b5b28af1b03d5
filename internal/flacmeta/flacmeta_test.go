package flacmeta

import (
	"testing"

	"github.com/corvidaudio/metatag/internal/vorbis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	s := &Stream{Blocks: []*Block{
		{Type: BlockStreamInfo, Data: make([]byte, 34)},
		{Type: BlockVorbisComment, Comment: &vorbis.Block{
			Vendor:   "metatag",
			Comments: []vorbis.Comment{{Field: "TITLE", Value: "Song"}},
		}},
	}}

	v := Encode(s, 0)
	got, err := Decode(v.Bytes())
	require.NoError(t, err)
	require.Len(t, got.Blocks, 3) // streaminfo, vorbis comment, padding

	assert.Equal(t, BlockStreamInfo, got.Blocks[0].Type)
	assert.Equal(t, BlockVorbisComment, got.Blocks[1].Type)
	assert.Equal(t, []string{"Song"}, got.Blocks[1].Comment.Get("TITLE"))
	assert.Equal(t, BlockPadding, got.Blocks[2].Type)
}

func TestRejectsBadMagic(t *testing.T) {
	_, err := Decode([]byte("NOPE"))
	assert.Error(t, err)
}

func TestPictureBlockRoundTrip(t *testing.T) {
	pic := &PictureBlock{
		PictureType: 3,
		MIME:        "image/png",
		Description: "cover",
		Width:       100,
		Height:      100,
		ColorDepth:  24,
		Data:        []byte{0x89, 0x50, 0x4E, 0x47},
	}
	payload := EncodePicture(pic)
	got, err := DecodePicture(payload)
	require.NoError(t, err)
	assert.Equal(t, pic.MIME, got.MIME)
	assert.Equal(t, pic.Width, got.Width)
	assert.Equal(t, pic.Data, got.Data)
}

func TestEncodePadsToTargetLenWhenSmaller(t *testing.T) {
	s := &Stream{Blocks: []*Block{{Type: BlockStreamInfo, Data: make([]byte, 34)}}}

	large := Encode(s, 0)
	small := Encode(s, large.Len()+500)
	assert.Greater(t, small.Len(), large.Len())
}

func TestLastBlockFlagSetOnlyOnFinalBlock(t *testing.T) {
	s := &Stream{Blocks: []*Block{
		{Type: BlockStreamInfo, Data: make([]byte, 34)},
		{Type: BlockApplication, Data: []byte("appl-data")},
	}}
	v := Encode(s, 0)
	got, err := Decode(v.Bytes())
	require.NoError(t, err)
	require.Len(t, got.Blocks, 3)
}
