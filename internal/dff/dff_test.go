package dff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/corvidaudio/metatag/internal/riffchunk"
)

func TestRoundTripBasic(t *testing.T) {
	f := &File{
		FormatVersion: []byte{1, 5, 0, 0},
		Properties: &PropertyChunk{
			FormType: "SND ",
			Chunks: []*riffchunk.Chunk{
				{ID: "FS ", Payload: []byte{0, 0x2B, 0x11, 0}}, // 2822400
				{ID: "CHNL", Payload: []byte{0, 2, 'S', 'L', 'R', 'R'}},
			},
		},
		AudioType: "DSD ",
		Audio:     []byte{0xAA, 0xBB, 0xCC, 0xDD},
	}

	raw := Encode(f)
	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 5, 0, 0}, got.FormatVersion)
	require.NotNil(t, got.Properties)
	assert.Equal(t, "SND ", got.Properties.FormType)
	assert.Equal(t, "DSD ", got.AudioType)
	assert.Equal(t, f.Audio, got.Audio)
}

func TestRoundTripWithID3(t *testing.T) {
	f := &File{AudioType: "DSD ", Audio: []byte{1}, ID3v2: []byte("fake-id3-bytes")}
	raw := Encode(f)
	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-id3-bytes"), got.ID3v2)
}

func TestSampleCountDerivation(t *testing.T) {
	f := &File{AudioType: "DSD ", Audio: make([]byte, 100)}
	assert.Equal(t, uint64(400), f.SampleCount(2))
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode(make([]byte, 16))
	assert.Error(t, err)
}

func TestDecodeRejectsWrongFormType(t *testing.T) {
	b := append([]byte("FRM8"), make([]byte, 8)...)
	b = append(b, []byte("WAVE")...)
	_, err := Decode(b)
	assert.Error(t, err)
}
