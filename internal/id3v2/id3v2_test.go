package id3v2

import (
	"testing"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildV24(frames []*Frame) []byte {
	tag := &Tag{Header: &Header{Version: V2_4}, Frames: frames}
	v := Render(tag, DefaultRenderOptions())
	return v.Bytes()
}

func TestRoundTripTextFramesV24(t *testing.T) {
	frames := []*Frame{
		{ID: "TIT2", Text: &TextContent{Encoding: binutil.UTF8, Values: []string{"Song Title"}}},
		{ID: "TPE1", Text: &TextContent{Encoding: binutil.UTF8, Values: []string{"Artist One", "Artist Two"}}},
	}
	raw := buildV24(frames)

	got, err := Read(raw)
	require.NoError(t, err)
	require.Len(t, got.Frames, 2)

	assert.Equal(t, "TIT2", got.Frames[0].ID)
	assert.Equal(t, []string{"Song Title"}, got.Frames[0].Text.Values)
	assert.Equal(t, []string{"Artist One", "Artist Two"}, got.Frames[1].Text.Values)
}

func TestRoundTripTXXX(t *testing.T) {
	frames := []*Frame{
		{ID: "TXXX", Text: &TextContent{Encoding: binutil.UTF8, Description: "MusicBrainz Album Id", Values: []string{"abc-123"}}},
	}
	got, err := Read(buildV24(frames))
	require.NoError(t, err)
	require.Len(t, got.Frames, 1)
	assert.Equal(t, "MusicBrainz Album Id", got.Frames[0].Text.Description)
	assert.Equal(t, []string{"abc-123"}, got.Frames[0].Text.Values)
}

func TestRoundTripCommentFrame(t *testing.T) {
	frames := []*Frame{
		{ID: "COMM", Comm: &CommContent{Encoding: binutil.UTF8, Language: "eng", Description: "", Text: "hello world"}},
	}
	got, err := Read(buildV24(frames))
	require.NoError(t, err)
	require.Len(t, got.Frames, 1)
	assert.Equal(t, "eng", got.Frames[0].Comm.Language)
	assert.Equal(t, "hello world", got.Frames[0].Comm.Text)
}

func TestRoundTripAPIC(t *testing.T) {
	frames := []*Frame{
		{ID: "APIC", Pic: &PictureContent{
			Encoding:    binutil.UTF8,
			MIME:        "image/jpeg",
			PictureType: 3,
			Description: "front",
			Data:        []byte{0xFF, 0xD8, 0xFF, 0x00, 0x01, 0x02},
		}},
	}
	got, err := Read(buildV24(frames))
	require.NoError(t, err)
	require.Len(t, got.Frames, 1)
	assert.Equal(t, "image/jpeg", got.Frames[0].Pic.MIME)
	assert.Equal(t, byte(3), got.Frames[0].Pic.PictureType)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0x00, 0x01, 0x02}, got.Frames[0].Pic.Data)
}

func TestRoundTripUFID(t *testing.T) {
	frames := []*Frame{
		{ID: "UFID", Ufid: &UFIDContent{Owner: "http://musicbrainz.org", Identifier: []byte("track-id-xyz")}},
	}
	got, err := Read(buildV24(frames))
	require.NoError(t, err)
	assert.Equal(t, "http://musicbrainz.org", got.Frames[0].Ufid.Owner)
	assert.Equal(t, []byte("track-id-xyz"), got.Frames[0].Ufid.Identifier)
}

func TestV22to23Mapping(t *testing.T) {
	mapped, ok := mapFrameID("TT2")
	assert.True(t, ok)
	assert.Equal(t, "TIT2", mapped)

	mapped, ok = mapFrameID("PIC")
	assert.True(t, ok)
	assert.Equal(t, "APIC", mapped)

	_, ok = mapFrameID("ZZZ")
	assert.False(t, ok)
}

func TestUnsyncRoundTrip(t *testing.T) {
	orig := []byte{0x00, 0xFF, 0xE0, 0x01, 0xFF, 0x02, 0xFF}
	applied := ApplyUnsync(orig)
	removed := RemoveUnsync(applied)
	assert.Equal(t, orig, removed)
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	b := make([]byte, 10)
	copy(b, "XYZ")
	_, err := ReadHeader(b)
	assert.Error(t, err)
}

func TestReadStopsAtInvalidFrameID(t *testing.T) {
	h := &Header{Version: V2_4, Size: 20}
	hdr := h.Render().Bytes()

	body := make([]byte, 20)
	copy(body[0:4], []byte{0x00, 0x01, 0x02, 0x03}) // invalid ID bytes

	raw := append(hdr, body...)
	got, err := Read(raw)
	require.NoError(t, err)
	assert.Empty(t, got.Frames)
}

func TestReadClampsToDeclaredSizeOverflow(t *testing.T) {
	h := &Header{Version: V2_4, Size: 1_000_000} // declared size far exceeds actual bytes
	hdr := h.Render().Bytes()

	frames := []*Frame{{ID: "TIT2", Text: &TextContent{Encoding: binutil.UTF8, Values: []string{"x"}}}}
	tag := &Tag{Header: &Header{Version: V2_4}, Frames: frames}
	body := Render(tag, RenderOptions{NoPadding: true}).Bytes()[HeaderSize:]

	raw := append(hdr, body...)
	got, err := Read(raw)
	require.NoError(t, err)
	require.Len(t, got.Frames, 1)
	assert.Equal(t, []string{"x"}, got.Frames[0].Text.Values)
}
