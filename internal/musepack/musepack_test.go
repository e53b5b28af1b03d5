package musepack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSV7(t *testing.T) {
	b := make([]byte, 16)
	copy(b, "MP+")
	b[3] = (1 << 5) | 2 // sample rate idx 1 (48000), channels 2
	b[4], b[5], b[6], b[7] = 100, 0, 0, 0
	h, err := DecodeSV7(b)
	require.NoError(t, err)
	assert.Equal(t, uint32(100), h.FrameCount)
	assert.Equal(t, uint32(48000), h.SampleRate())
	assert.Equal(t, byte(2), h.Channels)
}

func TestDecodeSV7RejectsBadMagic(t *testing.T) {
	_, err := DecodeSV7(make([]byte, 16))
	assert.Error(t, err)
}

func TestVarintRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 16384, 1 << 20} {
		enc := encodeVarint(v)
		got, n, err := decodeVarint(enc)
		require.NoError(t, err)
		assert.Equal(t, v, got)
		assert.Equal(t, len(enc), n)
	}
}

func TestStreamHeaderRoundTrip(t *testing.T) {
	h := &StreamHeaderSV8{CRC: 0xDEADBEEF, StreamVersion: 8, SampleCount: 123456, SilenceSamples: 0, SampleRateIdx: 0, Channels: 2}
	payload := EncodeStreamHeader(h)

	got, err := DecodeStreamHeader(payload)
	require.NoError(t, err)
	assert.Equal(t, h.SampleCount, got.SampleCount)
	assert.Equal(t, h.Channels, got.Channels)
	assert.Equal(t, uint32(44100), got.SampleRate())
}

func TestPacketsRoundTrip(t *testing.T) {
	packets := []*Packet{
		{Key: "SH", Payload: EncodeStreamHeader(&StreamHeaderSV8{CRC: 1, StreamVersion: 8, SampleCount: 10, Channels: 2})},
		{Key: "SE", Payload: []byte{}},
	}
	raw := EncodePackets(packets)

	got, err := DecodePackets(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "SH", got[0].Key)
	assert.Equal(t, "SE", got[1].Key)
}

func TestDecodePacketsLargePayloadSizeFieldGrows(t *testing.T) {
	payload := make([]byte, 200) // pushes total size field from 1 to 2 bytes
	packets := []*Packet{{Key: "AP", Payload: payload}}
	raw := EncodePackets(packets)

	got, err := DecodePackets(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Payload, 200)
}
