// Package dff implements Philips' DSDIFF (DFF) container (spec §4.L):
// an outer `FRM8` form with a 64-bit BE size wrapping a `DSD ` form type,
// followed by IFF-style chunks (`FVER`, `PROP` containing sub-chunks
// `FS `/`CHNL`/`CMPR`, audio data as `DSD`/`DST`, and an optional `ID3 `
// chunk). No teacher equivalent; grounded on spec.md and reuses
// internal/riffchunk's big-endian framing for the inner chunk sequence
// once the outer 64-bit-sized form header is peeled off (DFF's outer size
// field is 8 bytes, wider than riffchunk's native 4-byte size field, so
// the outer form is parsed directly here).
package dff

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
	"github.com/corvidaudio/metatag/internal/riffchunk"
)

const (
	OuterMagic = "FRM8"
	FormType   = "DSD "
)

// PropertyChunk is the decoded `PROP` chunk: its `SND ` sub-form type and
// the flat sub-chunk sequence it wraps (`FS `, `CHNL`, `CMPR`, ...).
type PropertyChunk struct {
	FormType string
	Chunks   []*riffchunk.Chunk
}

// File is a decoded DFF container.
type File struct {
	FormatVersion []byte // FVER payload, 4 bytes
	Properties    *PropertyChunk
	AudioType     string // "DSD " or "DST "
	Audio         []byte
	ID3v2         []byte // ID3  chunk payload, if present
	Extra         []*riffchunk.Chunk // any other top-level chunks, preserved verbatim
}

// Decode parses a complete DFF file.
func Decode(b []byte) (*File, error) {
	if len(b) < 16 || string(b[0:4]) != OuterMagic {
		return nil, metaerr.New(metaerr.BadMagic, "expected 'FRM8'")
	}
	size, err := binutil.BE64(b[4:12])
	if err != nil {
		return nil, err
	}
	formType := string(b[12:16])
	if formType != FormType {
		return nil, metaerr.New(metaerr.InvalidField, "expected 'DSD ' form type")
	}

	end := 12 + int(size)
	if end > len(b) {
		end = len(b)
	}

	chunks, err := decodeWideChunks(b[16:end])
	if err != nil {
		return nil, err
	}

	f := &File{}
	for _, c := range chunks {
		switch c.ID {
		case "FVER":
			f.FormatVersion = c.Payload
		case "PROP":
			prop, err := decodeProperty(c.Payload)
			if err != nil {
				return nil, err
			}
			f.Properties = prop
		case "DSD ", "DST ":
			f.AudioType = c.ID
			f.Audio = c.Payload
		case "ID3 ":
			f.ID3v2 = c.Payload
		default:
			f.Extra = append(f.Extra, c)
		}
	}

	return f, nil
}

// decodeWideChunks parses DFF's top-level chunk sequence, which (unlike
// the inner PROP sub-chunks) uses a 64-bit BE size field per chunk.
func decodeWideChunks(b []byte) ([]*riffchunk.Chunk, error) {
	var chunks []*riffchunk.Chunk
	offset := 0
	for offset+12 <= len(b) {
		id := string(b[offset : offset+4])
		size, err := binutil.BE64(b[offset+4 : offset+12])
		if err != nil {
			return nil, err
		}
		offset += 12

		payloadEnd := offset + int(size)
		if payloadEnd > len(b) {
			payloadEnd = len(b)
		}
		chunks = append(chunks, &riffchunk.Chunk{ID: id, Payload: append([]byte(nil), b[offset:payloadEnd]...)})

		offset = payloadEnd
		if size%2 == 1 && offset < len(b) {
			offset++
		}
	}
	return chunks, nil
}

func decodeProperty(b []byte) (*PropertyChunk, error) {
	if len(b) < 4 {
		return nil, metaerr.New(metaerr.TruncatedInput, "PROP chunk too short")
	}
	formType := string(b[0:4])
	chunks, err := riffchunk.DecodeChunks(b[4:], riffchunk.BigEndian)
	if err != nil {
		return nil, err
	}
	return &PropertyChunk{FormType: formType, Chunks: chunks}, nil
}

// SampleCount derives the uncompressed sample count from the audio chunk
// size, per spec §4.L: size in bits divided by channel count.
func (f *File) SampleCount(channels int) uint64 {
	if channels == 0 || f.AudioType != "DSD " {
		return 0
	}
	return uint64(len(f.Audio)) * 8 / uint64(channels)
}

// Encode renders a File back to its wire form.
func Encode(f *File) []byte {
	var chunks []*riffchunk.Chunk
	if f.FormatVersion != nil {
		chunks = append(chunks, &riffchunk.Chunk{ID: "FVER", Payload: f.FormatVersion})
	}
	if f.Properties != nil {
		chunks = append(chunks, &riffchunk.Chunk{ID: "PROP", Payload: encodeProperty(f.Properties)})
	}
	chunks = append(chunks, f.Extra...)
	if f.AudioType != "" {
		chunks = append(chunks, &riffchunk.Chunk{ID: f.AudioType, Payload: f.Audio})
	}
	if f.ID3v2 != nil {
		chunks = append(chunks, &riffchunk.Chunk{ID: "ID3 ", Payload: f.ID3v2})
	}

	body := encodeWideChunks(chunks)

	b := binutil.Acquire()
	defer b.Release()
	b.Bytes([]byte(OuterMagic))
	b.BE64(uint64(4 + len(body)))
	b.Bytes([]byte(FormType))
	b.Bytes(body)
	return b.Finalize().Bytes()
}

func encodeProperty(p *PropertyChunk) []byte {
	b := binutil.Acquire()
	defer b.Release()
	b.Bytes([]byte(p.FormType))
	b.Bytes(riffchunk.EncodeChunks(p.Chunks, riffchunk.BigEndian))
	return b.Finalize().Bytes()
}

func encodeWideChunks(chunks []*riffchunk.Chunk) []byte {
	b := binutil.Acquire()
	defer b.Release()
	for _, c := range chunks {
		b.Bytes([]byte(c.ID))
		b.BE64(uint64(len(c.Payload)))
		b.Bytes(c.Payload)
		if len(c.Payload)%2 == 1 {
			b.Byte(0)
		}
	}
	return b.Finalize().Bytes()
}
