// Package wavmeta implements WAV-specific metadata chunks layered on top
// of internal/riffchunk's generic RIFF framing (spec §4.J): the `fmt `
// format chunk, `LIST`/`INFO` key-value fields, an embedded `id3 ` ID3v2
// tag, and the Broadcast Wave Format `bext` chunk.
package wavmeta

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
	"github.com/corvidaudio/metatag/internal/riffchunk"
)

const (
	Magic    = "RIFF"
	FormType = "WAVE"
)

// FormatChunk is the decoded `fmt ` chunk: WAVEFORMATEX, extended to
// WAVEFORMATEXTENSIBLE when the chunk is 40 bytes (spec §4.J).
type FormatChunk struct {
	FormatTag      uint16
	Channels       uint16
	SampleRate     uint32
	ByteRate       uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	ValidBitsPerSample uint16
	ChannelMask    uint32
	SubFormat      [16]byte // SubFormat GUID, WAVEFORMATEXTENSIBLE only
	Extensible     bool
}

// DecodeFormatChunk parses a `fmt ` chunk payload of 16, 18, or 40 bytes.
func DecodeFormatChunk(b []byte) (*FormatChunk, error) {
	if len(b) < 16 {
		return nil, metaerr.New(metaerr.TruncatedInput, "fmt chunk too short")
	}
	formatTag, _ := binutil.LE16(b[0:2])
	channels, _ := binutil.LE16(b[2:4])
	sampleRate, _ := binutil.LE32(b[4:8])
	byteRate, _ := binutil.LE32(b[8:12])
	blockAlign, _ := binutil.LE16(b[12:14])
	bitsPerSample, _ := binutil.LE16(b[14:16])

	f := &FormatChunk{
		FormatTag:     formatTag,
		Channels:      channels,
		SampleRate:    sampleRate,
		ByteRate:      byteRate,
		BlockAlign:    blockAlign,
		BitsPerSample: bitsPerSample,
	}

	if len(b) >= 40 {
		validBits, _ := binutil.LE16(b[18:20])
		channelMask, _ := binutil.LE32(b[20:24])
		f.ValidBitsPerSample = validBits
		f.ChannelMask = channelMask
		copy(f.SubFormat[:], b[24:40])
		f.Extensible = true
	}

	return f, nil
}

// EncodeFormatChunk renders a FormatChunk back to its `fmt ` payload,
// emitting the 40-byte extensible form when f.Extensible is set.
func EncodeFormatChunk(f *FormatChunk) []byte {
	b := binutil.Acquire()
	defer b.Release()

	b.LE16(f.FormatTag)
	b.LE16(f.Channels)
	b.LE32(f.SampleRate)
	b.LE32(f.ByteRate)
	b.LE16(f.BlockAlign)
	b.LE16(f.BitsPerSample)

	if f.Extensible {
		b.LE16(22) // cbSize: size of the extension past BitsPerSample
		b.LE16(f.ValidBitsPerSample)
		b.LE32(f.ChannelMask)
		b.Bytes(f.SubFormat[:])
	}

	return b.Finalize().Bytes()
}

// infoFieldOrder fixes a stable field order on render; grounded on the
// field list other_examples' RIFF INFO model documents (INAM first: title,
// artist, product, date, track, then the rest), not required by the format
// itself.
var infoFieldOrder = []string{
	"INAM", "IART", "IPRD", "ICRD", "ITRK", "ICMT", "IGNR", "ICOP", "ISFT", "IENG", "ISRC",
}

// InfoList is the decoded key-value content of a `LIST` chunk of type
// `INFO` (spec §4.J): null-terminated Latin-1 values, even-padded.
type InfoList struct {
	Fields map[string]string
}

// DecodeInfoList parses an INFO list chunk's body (the 4-byte "INFO" type
// code is assumed already stripped by the caller).
func DecodeInfoList(b []byte) (*InfoList, error) {
	il := &InfoList{Fields: map[string]string{}}
	chunks, err := riffchunk.DecodeChunks(b, riffchunk.LittleEndian)
	if err != nil {
		return nil, err
	}
	for _, c := range chunks {
		v, err := binutil.DecodeString(binutil.Latin1, trimNullTerminator(c.Payload))
		if err != nil {
			continue
		}
		il.Fields[c.ID] = v
	}
	return il, nil
}

func trimNullTerminator(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == 0 {
		return b[:n-1]
	}
	return b
}

// EncodeInfoList renders an InfoList back to an INFO list chunk's body,
// emitting known fields in a stable order first, then any custom fields
// in map iteration order.
func EncodeInfoList(il *InfoList) []byte {
	var chunks []*riffchunk.Chunk
	seen := map[string]bool{}
	for _, id := range infoFieldOrder {
		if v, ok := il.Fields[id]; ok {
			chunks = append(chunks, infoChunk(id, v))
			seen[id] = true
		}
	}
	for id, v := range il.Fields {
		if !seen[id] {
			chunks = append(chunks, infoChunk(id, v))
		}
	}
	return riffchunk.EncodeChunks(chunks, riffchunk.LittleEndian)
}

func infoChunk(id, value string) *riffchunk.Chunk {
	enc, _ := binutil.EncodeString(binutil.Latin1, value)
	return &riffchunk.Chunk{ID: id, Payload: append(enc, 0)}
}

// BroadcastExtension is the fixed 602-byte BWF `bext` chunk plus any
// trailing variable-length coding history text (spec §4.J).
type BroadcastExtension struct {
	Description        string // 256 bytes
	Originator         string // 32 bytes
	OriginatorReference string // 32 bytes
	OriginationDate    string // 10 bytes, "YYYY-MM-DD"
	OriginationTime    string // 8 bytes, "HH:MM:SS"
	TimeReferenceLow   uint32
	TimeReferenceHigh  uint32
	Version            uint16
	UMID                [64]byte
	CodingHistory       string
}

const bextFixedSize = 602

// DecodeBroadcastExtension parses a `bext` chunk payload.
func DecodeBroadcastExtension(b []byte) (*BroadcastExtension, error) {
	if len(b) < bextFixedSize {
		return nil, metaerr.New(metaerr.TruncatedInput, "bext chunk too short")
	}
	timeRefLow, _ := binutil.LE32(b[338:342])
	timeRefHigh, _ := binutil.LE32(b[342:346])
	version, _ := binutil.LE16(b[346:348])

	bx := &BroadcastExtension{
		Description:         decodeFixedLatin1(b[0:256]),
		Originator:           decodeFixedLatin1(b[256:288]),
		OriginatorReference:  decodeFixedLatin1(b[288:320]),
		OriginationDate:      decodeFixedLatin1(b[320:330]),
		OriginationTime:      decodeFixedLatin1(b[330:338]),
		TimeReferenceLow:     timeRefLow,
		TimeReferenceHigh:    timeRefHigh,
		Version:              version,
	}
	copy(bx.UMID[:], b[348:412])
	if len(b) > bextFixedSize {
		bx.CodingHistory = decodeFixedLatin1(b[bextFixedSize:])
	}
	return bx, nil
}

func decodeFixedLatin1(b []byte) string {
	n := len(b)
	for n > 0 && b[n-1] == 0 {
		n--
	}
	s, _ := binutil.DecodeString(binutil.Latin1, b[:n])
	return s
}

// EncodeBroadcastExtension renders a BroadcastExtension to its fixed
// 602-byte layout plus trailing coding history.
func EncodeBroadcastExtension(bx *BroadcastExtension) []byte {
	b := binutil.Acquire()
	defer b.Release()

	b.FixedString(bx.Description, binutil.Latin1, 256)
	b.FixedString(bx.Originator, binutil.Latin1, 32)
	b.FixedString(bx.OriginatorReference, binutil.Latin1, 32)
	b.FixedString(bx.OriginationDate, binutil.Latin1, 10)
	b.FixedString(bx.OriginationTime, binutil.Latin1, 8)
	b.LE32(bx.TimeReferenceLow)
	b.LE32(bx.TimeReferenceHigh)
	b.LE16(bx.Version)
	b.Bytes(bx.UMID[:])
	b.Zeros(190) // reserved, bringing the fixed region to 602 bytes
	if bx.CodingHistory != "" {
		enc, _ := binutil.EncodeString(binutil.Latin1, bx.CodingHistory)
		b.Bytes(enc)
	}

	return b.Finalize().Bytes()
}
