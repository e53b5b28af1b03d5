package vorbis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripWithFramingBit(t *testing.T) {
	blk := &Block{
		Vendor: "metatag encoder",
		Comments: []Comment{
			{Field: "TITLE", Value: "A Song"},
			{Field: "ARTIST", Value: "An Artist"},
		},
	}
	b := Encode(blk, true)

	got, err := Decode(b, true)
	require.NoError(t, err)
	assert.Equal(t, "metatag encoder", got.Vendor)
	assert.Equal(t, []string{"A Song"}, got.Get("title"))
	assert.Equal(t, []string{"An Artist"}, got.Get("ARTIST"))
}

func TestRoundTripWithoutFramingBit(t *testing.T) {
	blk := &Block{Vendor: "opus encoder", Comments: []Comment{{Field: "ENCODER", Value: "libopus"}}}
	b := Encode(blk, false)

	got, err := Decode(b, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"libopus"}, got.Get("ENCODER"))
}

func TestSetReplacesAllExistingEntries(t *testing.T) {
	blk := &Block{Comments: []Comment{
		{Field: "GENRE", Value: "Rock"},
		{Field: "TITLE", Value: "X"},
		{Field: "GENRE", Value: "Pop"},
	}}
	blk.Set("GENRE", "Jazz")

	assert.Equal(t, []string{"Jazz"}, blk.Get("GENRE"))
	assert.Equal(t, []string{"X"}, blk.Get("TITLE"))
}

func TestPictureFieldRoundTrip(t *testing.T) {
	payload := []byte{0x00, 0x01, 0x02, 0x03, 0xFF}
	enc := EncodePictureField(payload)
	dec, err := DecodePictureField(enc)
	require.NoError(t, err)
	assert.Equal(t, payload, dec)
}

func TestDecodeTruncatedStopsCleanly(t *testing.T) {
	blk := &Block{Vendor: "v", Comments: []Comment{{Field: "A", Value: "1"}, {Field: "B", Value: "2"}}}
	full := Encode(blk, false)
	truncated := full[:len(full)-3]

	got, err := Decode(truncated, false)
	require.NoError(t, err)
	assert.Len(t, got.Comments, 1)
}
