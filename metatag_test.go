package metatag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/corvidaudio/metatag/container"
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/id3v2"
	"github.com/corvidaudio/metatag/internal/vfs"
)

func minimalMP3(t *testing.T) []byte {
	t.Helper()
	tag := &id3v2.Tag{
		Header: &id3v2.Header{Version: id3v2.V2_4},
		Frames: []*id3v2.Frame{{ID: "TIT2", Text: &id3v2.TextContent{Encoding: binutil.UTF8, Values: []string{"Root Song"}}}},
	}
	view := id3v2.Render(tag, id3v2.DefaultRenderOptions())
	body := []byte{0xFF, 0xFB, 0x90, 0x00}
	for i := 0; i < 200; i++ {
		body = append(body, 0)
	}
	return append(view.Bytes(), body...)
}

func TestOpenRecognizesBytes(t *testing.T) {
	res := Open(minimalMP3(t), "mp3")
	require.NoError(t, res.Err)
	assert.Equal(t, container.FormatMP3, res.Format)
	assert.Equal(t, "Root Song", res.File.Tags()[0].Props().Title)
}

func TestOpenFileSaveFileRoundTrip(t *testing.T) {
	fs := vfs.NewMemFS()
	require.NoError(t, fs.WriteAll("song.mp3", minimalMP3(t)))

	res := OpenFile("song.mp3", fs)
	require.NoError(t, res.Err)

	res.File.Tags()[0].Props().Title = "Saved Title"
	wr := Save(res.File, "song.mp3", fs)
	require.NoError(t, wr.Error)

	reread := OpenFile("song.mp3", fs)
	require.NoError(t, reread.Err)
	assert.Equal(t, "Saved Title", reread.File.Tags()[0].Props().Title)
}

func TestOpenFileAsyncHonorsCancellation(t *testing.T) {
	fs := vfs.NewMemFS()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := OpenFileAsync(ctx, "song.mp3", fs)
	assert.ErrorIs(t, res.Err, vfs.ErrCancelled)
}

func TestWithLoggerLogsOnOpen(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core).Sugar()

	res := Open(minimalMP3(t), "mp3", WithLogger(logger))
	require.NoError(t, res.Err)
	assert.Positive(t, logs.Len())
}

func TestAudioChecksumStableAcrossTagEdit(t *testing.T) {
	res := Open(minimalMP3(t), "mp3")
	require.NoError(t, res.Err)

	before, err := AudioChecksum(res.File)
	require.NoError(t, err)

	res.File.Tags()[0].Props().Title = "Changed"
	out, err := res.File.Render()
	require.NoError(t, err)

	reopened := Open(out, "mp3")
	require.NoError(t, reopened.Err)
	after, err := AudioChecksum(reopened.File)
	require.NoError(t, err)

	assert.Equal(t, before, after)
}
