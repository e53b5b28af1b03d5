package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidaudio/metatag/internal/riffchunk"
	"github.com/corvidaudio/metatag/internal/wavmeta"
)

func wavFormChunks(t *testing.T, withInfo bool) []*riffchunk.Chunk {
	t.Helper()
	fmtChunk := &riffchunk.Chunk{ID: "fmt ", Payload: wavmeta.EncodeFormatChunk(&wavmeta.FormatChunk{
		FormatTag: 1, Channels: 2, SampleRate: 44100, ByteRate: 176400, BlockAlign: 4, BitsPerSample: 16,
	})}
	dataChunk := &riffchunk.Chunk{ID: "data", Payload: make([]byte, 44100*4*2)} // 2 seconds, 16-bit stereo
	chunks := []*riffchunk.Chunk{fmtChunk, dataChunk}
	if withInfo {
		il := &wavmeta.InfoList{Fields: map[string]string{"INAM": "Wav Song"}}
		listChunk := &riffchunk.Chunk{ID: "LIST", Payload: append([]byte("INFO"), wavmeta.EncodeInfoList(il)...)}
		chunks = append(chunks, listChunk)
	}
	return chunks
}

func wavRaw(t *testing.T, withInfo bool) []byte {
	t.Helper()
	form := &riffchunk.Form{Magic: "RIFF", FormType: "WAVE", Chunks: wavFormChunks(t, withInfo), Endian: riffchunk.LittleEndian}
	return riffchunk.EncodeForm(form)
}

func TestReadWAVDerivesAudioProperties(t *testing.T) {
	f, err := ReadWAV(wavRaw(t, false))
	require.NoError(t, err)
	assert.Equal(t, FormatWAV, f.Format())
	assert.Equal(t, 44100, f.AudioProperties().SampleRate)
	assert.Equal(t, 2, f.AudioProperties().Channels)
	assert.Equal(t, 16, f.AudioProperties().BitsPerSample)
	assert.InDelta(t, 2.0, f.AudioProperties().Duration, 0.01)
}

func TestReadWAVDecodesInfoList(t *testing.T) {
	f, err := ReadWAV(wavRaw(t, true))
	require.NoError(t, err)
	require.Len(t, f.Tags(), 1)
	assert.Equal(t, "Wav Song", f.Tags()[0].Props().Title)
}

func TestReadWAVRejectsBadMagic(t *testing.T) {
	_, err := ReadWAV([]byte("not a riff file at all"))
	assert.Error(t, err)
}

func TestWAVRenderPreservesAudioDataAndAddsInfo(t *testing.T) {
	f, err := ReadWAV(wavRaw(t, false))
	require.NoError(t, err)

	f.Tags()[0].Props().Title = "Added Title"
	out, err := f.Render()
	require.NoError(t, err)

	reread, err := ReadWAV(out)
	require.NoError(t, err)
	assert.Equal(t, "Added Title", reread.Tags()[0].Props().Title)
	assert.Equal(t, 44100, reread.AudioProperties().SampleRate)
}

func TestWAVRenderRewritesExistingInfoInPlace(t *testing.T) {
	f, err := ReadWAV(wavRaw(t, true))
	require.NoError(t, err)

	f.Tags()[0].Props().Title = "Replaced"
	out, err := f.Render()
	require.NoError(t, err)

	reread, err := ReadWAV(out)
	require.NoError(t, err)
	assert.Equal(t, "Replaced", reread.Tags()[0].Props().Title)
	// fmt/data chunks still present and correctly sized.
	assert.Equal(t, 44100, reread.AudioProperties().SampleRate)
}
