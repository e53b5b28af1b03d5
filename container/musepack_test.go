package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidaudio/metatag/internal/apetag"
	"github.com/corvidaudio/metatag/internal/musepack"
)

func musepackApeBytes(t *testing.T, title string) []byte {
	t.Helper()
	tag := &apetag.Tag{
		Version:   apetag.Version2000,
		HasHeader: true,
		Items:     []*apetag.Item{{Key: "Title", ValueType: apetag.ValueUTF8, Value: []byte(title)}},
	}
	return apetag.Encode(tag)
}

func musepackSV7Raw(t *testing.T, withAPE bool) []byte {
	t.Helper()
	header := make([]byte, 16)
	copy(header[0:3], musepack.MagicSV7)
	header[3] = 2 // channels=2, sample rate idx 0
	header[4] = 0x10 // frame count LE32 at [4:8]
	raw := append([]byte(nil), header...)
	raw = append(raw, make([]byte, 32)...) // opaque audio body
	if withAPE {
		raw = append(raw, musepackApeBytes(t, "Mpc Song")...)
	}
	return raw
}

func musepackSV8Raw(t *testing.T, withAPE bool) []byte {
	t.Helper()
	sh := &musepack.StreamHeaderSV8{
		CRC: 0xDEADBEEF, StreamVersion: 8, SampleCount: 44100 * 2, SampleRateIdx: 0, Channels: 2,
	}
	shPayload := musepack.EncodeStreamHeader(sh)
	packets := []*musepack.Packet{
		{Key: "SH", Payload: shPayload},
		{Key: "SE", Payload: nil},
	}
	raw := append([]byte(nil), []byte(musepack.MagicSV8)...)
	raw = append(raw, musepack.EncodePackets(packets)...)
	if withAPE {
		raw = append(raw, musepackApeBytes(t, "Mpc8 Song")...)
	}
	return raw
}

func TestReadMusepackSV7DerivesAudioProperties(t *testing.T) {
	f, err := ReadMusepack(musepackSV7Raw(t, false))
	require.NoError(t, err)
	assert.Equal(t, FormatMusepackSV7, f.Format())
	assert.Equal(t, 2, f.AudioProperties().Channels)
	assert.Equal(t, 44100, f.AudioProperties().SampleRate)
}

func TestReadMusepackSV7DecodesAPETag(t *testing.T) {
	f, err := ReadMusepack(musepackSV7Raw(t, true))
	require.NoError(t, err)
	assert.Equal(t, "Mpc Song", f.Tags()[0].Props().Title)
}

func TestReadMusepackSV7WithoutAPEStartsEmpty(t *testing.T) {
	f, err := ReadMusepack(musepackSV7Raw(t, false))
	require.NoError(t, err)
	assert.True(t, f.Tags()[0].IsEmpty())
}

func TestReadMusepackSV8DerivesAudioProperties(t *testing.T) {
	f, err := ReadMusepack(musepackSV8Raw(t, false))
	require.NoError(t, err)
	assert.Equal(t, FormatMusepackSV8, f.Format())
	assert.Equal(t, 2, f.AudioProperties().Channels)
	assert.Equal(t, 44100, f.AudioProperties().SampleRate)
	assert.InDelta(t, 2.0, f.AudioProperties().Duration, 0.01)
}

func TestReadMusepackSV8DecodesAPETag(t *testing.T) {
	f, err := ReadMusepack(musepackSV8Raw(t, true))
	require.NoError(t, err)
	assert.Equal(t, "Mpc8 Song", f.Tags()[0].Props().Title)
}

func TestReadMusepackRejectsBadMagic(t *testing.T) {
	_, err := ReadMusepack([]byte("not a musepack file at all"))
	assert.Error(t, err)
}

func TestMusepackSV7RenderPreservesBodyAndAddsAPE(t *testing.T) {
	f, err := ReadMusepack(musepackSV7Raw(t, false))
	require.NoError(t, err)

	f.Tags()[0].Props().Title = "Added Title"
	out, err := f.Render()
	require.NoError(t, err)

	reread, err := ReadMusepack(out)
	require.NoError(t, err)
	assert.Equal(t, "Added Title", reread.Tags()[0].Props().Title)
	assert.Equal(t, 2, reread.AudioProperties().Channels)
}

func TestMusepackSV8RenderUpdatesExistingAPE(t *testing.T) {
	f, err := ReadMusepack(musepackSV8Raw(t, true))
	require.NoError(t, err)

	f.Tags()[0].Props().Title = "Replaced"
	out, err := f.Render()
	require.NoError(t, err)

	reread, err := ReadMusepack(out)
	require.NoError(t, err)
	assert.Equal(t, "Replaced", reread.Tags()[0].Props().Title)
	assert.Equal(t, 44100, reread.AudioProperties().SampleRate)
}
