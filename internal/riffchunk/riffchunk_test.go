package riffchunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripLittleEndian(t *testing.T) {
	f := &Form{
		Magic:    "RIFF",
		FormType: "WAVE",
		Endian:   LittleEndian,
		Chunks: []*Chunk{
			{ID: "fmt ", Payload: make([]byte, 16)},
			{ID: "data", Payload: []byte{1, 2, 3}}, // odd length, needs padding
		},
	}
	raw := EncodeForm(f)

	got, err := DecodeForm(raw, LittleEndian)
	require.NoError(t, err)
	assert.Equal(t, "RIFF", got.Magic)
	assert.Equal(t, "WAVE", got.FormType)
	require.Len(t, got.Chunks, 2)
	assert.Equal(t, "fmt ", got.Chunks[0].ID)
	assert.Equal(t, []byte{1, 2, 3}, got.Chunks[1].Payload)
}

func TestRoundTripBigEndian(t *testing.T) {
	f := &Form{
		Magic:    "FORM",
		FormType: "AIFF",
		Endian:   BigEndian,
		Chunks: []*Chunk{
			{ID: "COMM", Payload: make([]byte, 18)},
		},
	}
	raw := EncodeForm(f)

	got, err := DecodeForm(raw, BigEndian)
	require.NoError(t, err)
	assert.Equal(t, "AIFF", got.FormType)
	require.Len(t, got.Chunks, 1)
	assert.Equal(t, "COMM", got.Chunks[0].ID)
}

func TestOddLengthChunkIsPadded(t *testing.T) {
	raw := EncodeChunks([]*Chunk{{ID: "ICMT", Payload: []byte("odd")}}, LittleEndian)
	assert.Equal(t, 0, len(raw)%2)
}

func TestDecodeChunksTruncatedFinalChunkTolerated(t *testing.T) {
	b := binutilAcquireTestBytes()
	chunks, err := DecodeChunks(b, LittleEndian)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, 2, len(chunks[0].Payload)) // declared 10, but stream only has 2
}

func binutilAcquireTestBytes() []byte {
	return []byte{'d', 'a', 't', 'a', 10, 0, 0, 0, 0xAA, 0xBB}
}

func TestFindReturnsFirstMatch(t *testing.T) {
	chunks := []*Chunk{{ID: "fmt "}, {ID: "data"}}
	assert.NotNil(t, Find(chunks, "data"))
	assert.Nil(t, Find(chunks, "nope"))
}
