package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidaudio/metatag/internal/mp4box"
)

func be16(v uint16) []byte { return []byte{byte(v >> 8), byte(v)} }
func be32Fixed(v uint32) []byte {
	return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
}

func mp4EsdsBox(avgBitrate uint32) *mp4box.Box {
	body := make([]byte, 13)
	copy(body[9:13], be32Fixed(avgBitrate))
	payload := append([]byte{0, 0, 0, 0, 0x04, 13}, body...)
	return &mp4box.Box{Type: "esds", Payload: payload}
}

func mp4SampleEntry(sampleRate uint32, channels, bits uint16, avgBitrate uint32) []byte {
	header := make([]byte, audioSampleEntryHeaderLen)
	copy(header[16:18], be16(channels))
	copy(header[18:20], be16(bits))
	copy(header[24:28], be32Fixed(sampleRate<<16))
	entryPayload := append(header, mp4box.Encode([]*mp4box.Box{mp4EsdsBox(avgBitrate)})...)
	return mp4box.Encode([]*mp4box.Box{{Type: "mp4a", Payload: entryPayload}})
}

func mp4MvhdOrMdhd(timescale, duration uint32) []byte {
	b := make([]byte, 20)
	copy(b[12:16], be32Fixed(timescale))
	copy(b[16:20], be32Fixed(duration))
	return b
}

func mp4Boxes(t *testing.T, withIlst bool) []*mp4box.Box {
	t.Helper()
	stsdPayload := make([]byte, 8)
	stsdPayload[7] = 1
	stsdPayload = append(stsdPayload, mp4SampleEntry(44100, 2, 16, 128000)...)
	stsd := &mp4box.Box{Type: "stsd", Payload: stsdPayload}
	stbl := &mp4box.Box{Type: "stbl", Children: []*mp4box.Box{stsd}}
	minf := &mp4box.Box{Type: "minf", Children: []*mp4box.Box{stbl}}
	mdhd := &mp4box.Box{Type: "mdhd", Payload: mp4MvhdOrMdhd(44100, 44100*2)}
	mdia := &mp4box.Box{Type: "mdia", Children: []*mp4box.Box{mdhd, minf}}
	trak := &mp4box.Box{Type: "trak", Children: []*mp4box.Box{mdia}}
	mvhd := &mp4box.Box{Type: "mvhd", Payload: mp4MvhdOrMdhd(44100, 44100*2)}

	moov := &mp4box.Box{Type: "moov", Children: []*mp4box.Box{mvhd, trak}}

	if withIlst {
		nameItem := &mp4box.Box{Type: "\xa9nam", Children: []*mp4box.Box{
			{Type: "data", Payload: mp4box.EncodeDataAtom(mp4box.TextValue("M4A Song"))},
		}}
		ilst := &mp4box.Box{Type: "ilst", Children: []*mp4box.Box{nameItem}}
		meta := &mp4box.Box{Type: "meta", Children: []*mp4box.Box{ilst}}
		udta := &mp4box.Box{Type: "udta", Children: []*mp4box.Box{meta}}
		moov.Children = append(moov.Children, udta)
	}

	return []*mp4box.Box{{Type: "ftyp", Payload: []byte("isomiso2mp41")}, moov}
}

func mp4Raw(t *testing.T, withIlst bool) []byte {
	t.Helper()
	return mp4box.Encode(mp4Boxes(t, withIlst))
}

func TestReadMP4DerivesAudioProperties(t *testing.T) {
	f, err := ReadMP4(mp4Raw(t, false))
	require.NoError(t, err)
	assert.Equal(t, FormatMP4, f.Format())
	assert.Equal(t, 44100, f.AudioProperties().SampleRate)
	assert.Equal(t, 2, f.AudioProperties().Channels)
	assert.Equal(t, 16, f.AudioProperties().BitsPerSample)
	assert.Equal(t, 128, f.AudioProperties().Bitrate)
	assert.InDelta(t, 2.0, f.AudioProperties().Duration, 0.01)
}

func TestReadMP4WithoutIlstStartsEmpty(t *testing.T) {
	f, err := ReadMP4(mp4Raw(t, false))
	require.NoError(t, err)
	assert.True(t, f.Tags()[0].IsEmpty())
}

func TestReadMP4DecodesIlstItems(t *testing.T) {
	f, err := ReadMP4(mp4Raw(t, true))
	require.NoError(t, err)
	assert.Equal(t, "M4A Song", f.Tags()[0].Props().Title)
}

func TestReadMP4RejectsMissingMoov(t *testing.T) {
	_, err := ReadMP4(mp4box.Encode([]*mp4box.Box{{Type: "ftyp", Payload: []byte("isom")}}))
	assert.Error(t, err)
}

func TestMP4RenderCreatesIlstChainWhenAbsent(t *testing.T) {
	f, err := ReadMP4(mp4Raw(t, false))
	require.NoError(t, err)

	f.Tags()[0].Props().Title = "Added Title"
	out, err := f.Render()
	require.NoError(t, err)

	reread, err := ReadMP4(out)
	require.NoError(t, err)
	assert.Equal(t, "Added Title", reread.Tags()[0].Props().Title)
	assert.Equal(t, 44100, reread.AudioProperties().SampleRate)
}

func TestMP4RenderUpdatesExistingIlst(t *testing.T) {
	f, err := ReadMP4(mp4Raw(t, true))
	require.NoError(t, err)

	f.Tags()[0].Props().Title = "Replaced"
	out, err := f.Render()
	require.NoError(t, err)

	reread, err := ReadMP4(out)
	require.NoError(t, err)
	assert.Equal(t, "Replaced", reread.Tags()[0].Props().Title)
}
