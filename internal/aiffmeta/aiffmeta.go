// Package aiffmeta implements AIFF/AIFC-specific chunks layered on
// internal/riffchunk's generic big-endian IFF framing (spec §4.J): the
// `COMM` common chunk (audio properties, AIFC compression type and Pascal
// string name), `SSND` sound data, and an embedded `ID3 `/`ID3` tag.
package aiffmeta

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

const (
	Magic        = "FORM"
	FormTypeAIFF = "AIFF"
	FormTypeAIFC = "AIFC"
)

// CommonChunk is the decoded `COMM` chunk: 18 bytes of base fields, with
// AIFC adding a 4-byte compression type and a Pascal string name.
type CommonChunk struct {
	Channels        int16
	SampleFrames    uint32
	BitsPerSample   int16
	SampleRate      float64 // decoded from the 80-bit IEEE extended field
	Compression     string  // AIFC only; "NONE" implied for plain AIFF
	CompressionName string  // AIFC only, Pascal string
}

// DecodeCommonChunk parses a `COMM` chunk payload. isAIFC selects whether
// the trailing compression type/name fields are expected.
func DecodeCommonChunk(b []byte, isAIFC bool) (*CommonChunk, error) {
	if len(b) < 18 {
		return nil, metaerr.New(metaerr.TruncatedInput, "COMM chunk too short")
	}
	channels, err := binutil.BE16(b[0:2])
	if err != nil {
		return nil, err
	}
	frames, err := binutil.BE32(b[2:6])
	if err != nil {
		return nil, err
	}
	bits, err := binutil.BE16(b[6:8])
	if err != nil {
		return nil, err
	}
	sampleRate := binutil.DecodeExtended80(b[8:18])

	c := &CommonChunk{
		Channels:      int16(channels),
		SampleFrames:  frames,
		BitsPerSample: int16(bits),
		SampleRate:    sampleRate,
		Compression:   "NONE",
	}

	if isAIFC && len(b) > 18 {
		if len(b) < 22 {
			return nil, metaerr.New(metaerr.TruncatedInput, "AIFC COMM compression type")
		}
		c.Compression = string(b[18:22])
		if len(b) > 22 {
			n := int(b[22])
			end := 23 + n
			if end > len(b) {
				end = len(b)
			}
			c.CompressionName = string(b[23:end])
		}
	}

	return c, nil
}

// EncodeCommonChunk renders a CommonChunk back to its `COMM` payload. AIFC
// fields are only emitted when isAIFC is set.
func EncodeCommonChunk(c *CommonChunk, isAIFC bool) []byte {
	b := binutil.Acquire()
	defer b.Release()

	b.BE16(uint16(c.Channels))
	b.BE32(c.SampleFrames)
	b.BE16(uint16(c.BitsPerSample))
	b.Bytes(binutil.EncodeExtended80(c.SampleRate))

	if isAIFC {
		comp := c.Compression
		if comp == "" {
			comp = "NONE"
		}
		b.Bytes([]byte(comp))
		b.Byte(byte(len(c.CompressionName)))
		b.Bytes([]byte(c.CompressionName))
		// Overall chunk padding to an even length is handled by
		// riffchunk.EncodeChunks at the outer chunk level.
	}

	return b.Finalize().Bytes()
}
