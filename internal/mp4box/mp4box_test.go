package mp4box

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTripSimpleBox(t *testing.T) {
	boxes := []*Box{{Type: "free", Payload: []byte{1, 2, 3, 4}}}
	raw := Encode(boxes)

	got, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "free", got[0].Type)
	assert.Equal(t, []byte{1, 2, 3, 4}, got[0].Payload)
}

func TestContainerRoundTrip(t *testing.T) {
	boxes := []*Box{{
		Type: "moov",
		Children: []*Box{
			{Type: "udta", Children: []*Box{
				{Type: "meta", Children: []*Box{
					{Type: "ilst", Children: []*Box{
						{Type: "\xa9nam", Children: []*Box{
							{Type: "data", Payload: EncodeDataAtom(TextValue("Song Title"))},
						}},
					}},
				}},
			}},
		},
	}}

	raw := Encode(boxes)
	got, err := Decode(raw)
	require.NoError(t, err)

	ilst := FindPath(got, "moov", "udta", "meta", "ilst")
	require.NotNil(t, ilst)

	nameBox := Find(ilst, "\xa9nam")
	require.NotNil(t, nameBox)
	dataBox := Find(nameBox.Children, "data")
	require.NotNil(t, dataBox)

	v, err := DecodeDataAtom(dataBox.Payload)
	require.NoError(t, err)
	assert.Equal(t, "Song Title", v.Text())
}

func TestTrackDiskRoundTrip(t *testing.T) {
	raw := EncodeTrackDisk(3, 12)
	idx, total := TrackDisk(raw)
	assert.Equal(t, 3, idx)
	assert.Equal(t, 12, total)
}

func TestExtendedSize64Bit(t *testing.T) {
	// size32 == 1, then a 64-bit total size of 26 (16-byte header + 10-byte body)
	raw := append([]byte{0, 0, 0, 1, 'f', 'r', 'e', 'e', 0, 0, 0, 0, 0, 0, 0, 26}, make([]byte, 10)...)

	got, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Payload, 10)
}

func TestFreeformRoundTrip(t *testing.T) {
	item := FreeformItem{Mean: "com.apple.iTunes", Name: "MusicBrainz Track Id", Data: [][]byte{[]byte("track-123")}}
	children := EncodeFreeform(item)
	box := &Box{Type: "----", Children: children}

	raw := Encode([]*Box{box})
	got, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)

	decoded, ok := DecodeFreeform(got[0].Children)
	require.True(t, ok)
	assert.Equal(t, "MusicBrainz Track Id", decoded.Name)
	assert.Equal(t, [][]byte{[]byte("track-123")}, decoded.Data)
}

func TestBoolRoundTrip(t *testing.T) {
	assert.True(t, Bool(EncodeBool(true)))
	assert.False(t, Bool(EncodeBool(false)))
}
