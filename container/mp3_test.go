package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/id3v1"
	"github.com/corvidaudio/metatag/internal/id3v2"
)

func mpegBody() []byte {
	frame := []byte{0xFF, 0xFB, 0x90, 0x00}
	return append(frame, make([]byte, 400)...)
}

func TestReadMP3WithID3v2Prefix(t *testing.T) {
	tag := &id3v2.Tag{
		Header: &id3v2.Header{Version: id3v2.V2_4},
		Frames: []*id3v2.Frame{
			{ID: "TIT2", Text: &id3v2.TextContent{Encoding: binutil.UTF8, Values: []string{"A Title"}}},
		},
	}
	view := id3v2.Render(tag, id3v2.DefaultRenderOptions())
	raw := append(view.Bytes(), mpegBody()...)

	f, err := ReadMP3(raw)
	require.NoError(t, err)
	assert.Equal(t, FormatMP3, f.Format())
	assert.Equal(t, "A Title", f.Tags()[0].Props().Title)
	assert.Greater(t, f.AudioProperties().SampleRate, 0)
}

func TestReadMP3WithoutID3v2PrefixStartsWithEmptyTag(t *testing.T) {
	f, err := ReadMP3(mpegBody())
	require.NoError(t, err)
	require.Len(t, f.Tags(), 1)
	assert.True(t, f.Tags()[0].IsEmpty())
}

func TestReadMP3WithID3v1Trailer(t *testing.T) {
	v1 := &id3v1.Tag{Title: "Old Title", Artist: "Old Artist", Year: "1999"}
	trailer := id3v1.Render(v1).Bytes()
	raw := append(mpegBody(), trailer...)

	f, err := ReadMP3(raw)
	require.NoError(t, err)
	require.Len(t, f.Tags(), 2)
	assert.Equal(t, "Old Title", f.Tags()[1].Props().Title)
}

func TestMP3RenderRoundTripPreservesBodyAndMutatesTag(t *testing.T) {
	f, err := ReadMP3(mpegBody())
	require.NoError(t, err)

	f.Tags()[0].Props().Title = "New Title"
	out, err := f.Render()
	require.NoError(t, err)

	reread, err := ReadMP3(out)
	require.NoError(t, err)
	assert.Equal(t, "New Title", reread.Tags()[0].Props().Title)
	assert.Equal(t, f.AudioProperties(), reread.AudioProperties())
}

func TestReadMP3WithID3v2FooterSkipsFooterBytes(t *testing.T) {
	tag := &id3v2.Tag{
		Header: &id3v2.Header{Version: id3v2.V2_4},
		Frames: []*id3v2.Frame{
			{ID: "TIT2", Text: &id3v2.TextContent{Encoding: binutil.UTF8, Values: []string{"Footer Title"}}},
		},
	}
	view := id3v2.Render(tag, id3v2.DefaultRenderOptions())
	raw := append([]byte(nil), view.Bytes()...)
	raw[5] |= 0x10 // v2.4 footer flag bit, never set by our own Render

	footer := make([]byte, 10)
	copy(footer, "3DI")
	footer[3] = byte(id3v2.V2_4)
	footer[5] = 0x10
	copy(footer[6:10], raw[6:10]) // mirrors the header's sync-safe size field

	full := append(append([]byte(nil), raw...), footer...)
	full = append(full, mpegBody()...)

	f, err := ReadMP3(full)
	require.NoError(t, err)
	assert.Equal(t, "Footer Title", f.Tags()[0].Props().Title)
	assert.Equal(t, mpegBody(), f.body)
}

func TestTryReadMP3ReturnsFalseOnGarbage(t *testing.T) {
	_, ok := TryReadMP3([]byte{0x00})
	assert.False(t, ok)
}

func TestApeTagSizeFooterOnlyWithoutMirroredHeader(t *testing.T) {
	// Build a minimal valid footer with no header mirrored (flags=0) via
	// the raw byte layout apeTagSize reads directly.
	footer := make([]byte, 32)
	copy(footer[0:8], []byte("APETAGEX"))
	// tagSize = 32 (footer only, no items)
	footer[12] = 32
	size, err := apeTagSize(footer)
	require.NoError(t, err)
	assert.Equal(t, 32, size)
}
