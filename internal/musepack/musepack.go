// Package musepack implements both Musepack stream variants (spec §4.L):
// SV7's fixed 16-byte `MP+` header, and SV8's packet stream headed by
// `MPCK` with length-prefixed typed packets, the first of which (`SH`,
// Stream Header) carries the varint-encoded sample count/rate/channel
// fields. Metadata itself lives in a trailing internal/apetag footer in
// both variants. No teacher equivalent; grounded on spec.md and built
// using internal/binutil's varint-free primitives plus a small
// Musepack-specific varint decoder (SV8's packet headers are the one wire
// format in this codebase using base-128 varints, most significant group
// first).
package musepack

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

const (
	MagicSV7 = "MP+"
	MagicSV8 = "MPCK"
)

// StreamHeaderSV7 is SV7's fixed 16-byte header (spec §4.L).
type StreamHeaderSV7 struct {
	FrameCount     uint32
	SampleRateIdx  byte // index into a fixed table; 0 commonly means 44100 Hz
	Channels       byte // defaults to 2 (stereo) when unspecified by the stream
}

var sv7SampleRates = [4]uint32{44100, 48000, 37800, 32000}

// SampleRate resolves the SV7 sample-rate index to Hz.
func (h *StreamHeaderSV7) SampleRate() uint32 {
	if int(h.SampleRateIdx) < len(sv7SampleRates) {
		return sv7SampleRates[h.SampleRateIdx]
	}
	return sv7SampleRates[0]
}

const sv7SamplesPerFrame = 1152

// DurationSeconds computes SV7 playback duration from the frame count.
func (h *StreamHeaderSV7) DurationSeconds() float64 {
	rate := h.SampleRate()
	if rate == 0 {
		return 0
	}
	return float64(h.FrameCount) * sv7SamplesPerFrame / float64(rate)
}

// DecodeSV7 parses a Musepack SV7 header (the `MP+` magic plus the
// following flags/frame-count word).
func DecodeSV7(b []byte) (*StreamHeaderSV7, error) {
	if len(b) < 16 || string(b[0:3]) != MagicSV7 {
		return nil, metaerr.New(metaerr.BadMagic, "expected 'MP+'")
	}
	frameCount, err := binutil.LE32(b[4:8])
	if err != nil {
		return nil, err
	}
	flags := b[3]
	channels := byte(2)
	if c := flags & 0x0F; c != 0 {
		channels = c
	}
	return &StreamHeaderSV7{
		FrameCount:    frameCount,
		SampleRateIdx: (flags >> 5) & 0x3,
		Channels:      channels,
	}, nil
}

// Packet is one length-prefixed SV8 packet.
type Packet struct {
	Key     string // 2-byte packet key, e.g. "SH", "RG", "AP", "SE"
	Payload []byte
}

// StreamHeaderSV8 is the decoded `SH` (Stream Header) packet: CRC, stream
// version, and varint-encoded sample count/silence/sample-rate/channels
// (spec §4.L).
type StreamHeaderSV8 struct {
	CRC           uint32
	StreamVersion byte
	SampleCount   uint64
	SilenceSamples uint64
	SampleRateIdx byte
	Channels      byte
}

var sv8SampleRates = [4]uint32{44100, 48000, 37800, 32000}

// SampleRate resolves the SV8 sample-rate index to Hz.
func (h *StreamHeaderSV8) SampleRate() uint32 {
	if int(h.SampleRateIdx) < len(sv8SampleRates) {
		return sv8SampleRates[h.SampleRateIdx]
	}
	return sv8SampleRates[0]
}

// DecodePackets parses the packet sequence following the `MPCK` magic.
// Each packet is: 2-byte key + a variable-length size field encoded as a
// big-endian base-128 varint (high bit set on all but the final byte),
// the size covering the key+size-field+payload.
func DecodePackets(b []byte) ([]*Packet, error) {
	var packets []*Packet
	offset := 0
	for offset+2 <= len(b) {
		key := string(b[offset : offset+2])
		offset += 2

		size, n, err := decodeVarint(b[offset:])
		if err != nil {
			return nil, err
		}
		offset += n

		payloadLen := int(size) - 2 - n
		if payloadLen < 0 || offset+payloadLen > len(b) {
			return nil, metaerr.New(metaerr.TruncatedInput, "SV8 packet payload")
		}
		packets = append(packets, &Packet{Key: key, Payload: append([]byte(nil), b[offset:offset+payloadLen]...)})
		offset += payloadLen

		if key == "SE" { // Stream End
			break
		}
	}
	return packets, nil
}

// decodeVarint reads a big-endian base-128 varint (SV8's packet-size
// encoding): each byte contributes 7 bits, MSB set means "more bytes
// follow".
func decodeVarint(b []byte) (uint64, int, error) {
	var value uint64
	for i := 0; i < len(b) && i < 10; i++ {
		value = value<<7 | uint64(b[i]&0x7F)
		if b[i]&0x80 == 0 {
			return value, i + 1, nil
		}
	}
	return 0, 0, metaerr.New(metaerr.TruncatedInput, "SV8 varint")
}

func encodeVarint(v uint64) []byte {
	var rev []byte
	rev = append(rev, byte(v&0x7F))
	v >>= 7
	for v > 0 {
		rev = append(rev, byte(v&0x7F)|0x80)
		v >>= 7
	}
	out := make([]byte, len(rev))
	for i, b := range rev {
		out[len(rev)-1-i] = b
	}
	return out
}

// DecodeStreamHeader parses an `SH` packet's payload.
func DecodeStreamHeader(payload []byte) (*StreamHeaderSV8, error) {
	if len(payload) < 5 {
		return nil, metaerr.New(metaerr.TruncatedInput, "SH packet too short")
	}
	crc, err := binutil.LE32(payload[0:4])
	if err != nil {
		return nil, err
	}
	version := payload[4]
	offset := 5

	sampleCount, n, err := decodeVarint(payload[offset:])
	if err != nil {
		return nil, err
	}
	offset += n

	silence, n, err := decodeVarint(payload[offset:])
	if err != nil {
		return nil, err
	}
	offset += n

	if offset+2 > len(payload) {
		return nil, metaerr.New(metaerr.TruncatedInput, "SH sample-rate/channel fields")
	}
	packed, err := binutil.BE16(payload[offset : offset+2])
	if err != nil {
		return nil, err
	}

	return &StreamHeaderSV8{
		CRC:            crc,
		StreamVersion:  version,
		SampleCount:    sampleCount,
		SilenceSamples: silence,
		SampleRateIdx:  byte((packed >> 13) & 0x7),
		Channels:       byte((packed>>9)&0xF) + 1,
	}, nil
}

// EncodeStreamHeader renders a StreamHeaderSV8 back to an `SH` packet
// payload.
func EncodeStreamHeader(h *StreamHeaderSV8) []byte {
	b := binutil.Acquire()
	defer b.Release()
	b.LE32(h.CRC)
	b.Byte(h.StreamVersion)
	b.Bytes(encodeVarint(h.SampleCount))
	b.Bytes(encodeVarint(h.SilenceSamples))

	channelsField := h.Channels
	if channelsField > 0 {
		channelsField--
	}
	packed := uint16(h.SampleRateIdx&0x7)<<13 | uint16(channelsField&0xF)<<9
	b.BE16(packed)

	return b.Finalize().Bytes()
}

// EncodePackets renders a packet sequence back to SV8 wire form. The
// packet size field covers the key, the size field itself, and the
// payload; since the size field's own encoded length feeds back into the
// total it describes, this converges by fixed-point iteration (at most a
// couple of rounds in practice, since varint length only grows at
// power-of-128 boundaries).
func EncodePackets(packets []*Packet) []byte {
	b := binutil.Acquire()
	defer b.Release()
	for _, p := range packets {
		sizeFieldLen := 1
		for {
			total := uint64(2 + sizeFieldLen + len(p.Payload))
			if len(encodeVarint(total)) == sizeFieldLen {
				b.Bytes([]byte(p.Key))
				b.Bytes(encodeVarint(total))
				b.Bytes(p.Payload)
				break
			}
			sizeFieldLen = len(encodeVarint(total))
		}
	}
	return b.Finalize().Bytes()
}
