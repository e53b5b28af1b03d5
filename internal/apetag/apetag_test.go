package apetag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripNoHeader(t *testing.T) {
	tag := &Tag{Version: Version2000}
	tag.Set("Artist", "Test Artist")
	tag.Set("Title", "Test Title")

	raw := Encode(tag)
	got, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "Test Artist", got.Get("Artist"))
	assert.Equal(t, "Test Title", got.Get("Title"))
	assert.False(t, got.HasHeader)
}

func TestRoundTripWithHeader(t *testing.T) {
	tag := &Tag{Version: Version2000, HasHeader: true}
	tag.Set("Album", "Test Album")

	raw := Encode(tag)
	got, err := Decode(raw)
	require.NoError(t, err)
	assert.True(t, got.HasHeader)
	assert.Equal(t, "Test Album", got.Get("Album"))
}

func TestBinaryItemRoundTrip(t *testing.T) {
	tag := &Tag{Version: Version2000}
	tag.Items = append(tag.Items, &Item{Key: "Cover Art (front)", ValueType: ValueBinary, Value: []byte{0xFF, 0xD8, 0xFF}})

	raw := Encode(tag)
	got, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, ValueBinary, got.Items[0].ValueType)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, got.Items[0].Value)
}

func TestGetIsCaseInsensitive(t *testing.T) {
	tag := &Tag{Version: Version2000}
	tag.Set("artist", "lowercase key")
	assert.Equal(t, "lowercase key", tag.Get("ARTIST"))
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode(make([]byte, FooterSize))
	assert.Error(t, err)
}

func TestReadOnlyFlagRoundTrip(t *testing.T) {
	tag := &Tag{Version: Version2000}
	tag.Items = append(tag.Items, &Item{Key: "Locked", ValueType: ValueUTF8, ReadOnly: true, Value: []byte("x")})

	raw := Encode(tag)
	got, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.True(t, got.Items[0].ReadOnly)
}
