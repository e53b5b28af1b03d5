// Package riffchunk implements the generic "FourCC + size + payload" chunk
// framing shared by RIFF (WAV), the x-chunk layer of AIFF, and DFF's
// IFF-style forms (spec §4.J): magic + sized container wrapping a flat
// sequence of chunks, each padded to an even length. RIFF is little-endian
// throughout; AIFF and DFF are big-endian. Grounded on the teacher's
// flac.go/mp4.go chunked-container readers (the closest idiom in the
// teacher for "magic, then a sequence of type+length+payload records"),
// since dhowden/tag has no RIFF/AIFF support of its own to copy from
// directly.
package riffchunk

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

// Endian selects the byte order a chunk stream's size fields use.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

// Chunk is one FourCC-identified record in a chunk stream.
type Chunk struct {
	ID      string
	Payload []byte
}

// Form is a decoded chunk stream: its outer magic (RIFF/FORM/FRM8), its
// declared form type (WAVE/AIFF/AIFC), and the flat chunk sequence that
// follows.
type Form struct {
	Magic    string
	FormType string
	Chunks   []*Chunk
	Endian   Endian
}

func readSize(b []byte, e Endian) (uint32, error) {
	if e == LittleEndian {
		return binutil.LE32(b)
	}
	return binutil.BE32(b)
}

func writeSize(b *binutil.Builder, x uint32, e Endian) {
	if e == LittleEndian {
		b.LE32(x)
	} else {
		b.BE32(x)
	}
}

// DecodeForm parses a complete outer form: 4-byte magic + 4-byte size +
// 4-byte form type, followed by a chunk sequence filling the declared size
// (spec §4.J). magic and formType are matched case-sensitively against the
// caller's expectations by the caller, not here, since RIFF/WAV, AIFF and
// AIFC, and DFF all reuse this same framing with different magic/form
// combinations.
func DecodeForm(b []byte, e Endian) (*Form, error) {
	if len(b) < 12 {
		return nil, metaerr.New(metaerr.TruncatedInput, "chunk form header")
	}
	magic := string(b[0:4])
	size, err := readSize(b[4:8], e)
	if err != nil {
		return nil, err
	}
	formType := string(b[8:12])

	end := 8 + int(size)
	if end > len(b) {
		end = len(b)
	}
	if end < 12 {
		return nil, metaerr.New(metaerr.TruncatedInput, "chunk form size out of range")
	}

	chunks, err := DecodeChunks(b[12:end], e)
	if err != nil {
		return nil, err
	}

	return &Form{Magic: magic, FormType: formType, Chunks: chunks, Endian: e}, nil
}

// DecodeChunks parses a flat sequence of FourCC+size+payload chunks, each
// padded to an even total length (spec §4.J).
func DecodeChunks(b []byte, e Endian) ([]*Chunk, error) {
	var chunks []*Chunk
	offset := 0
	for offset+8 <= len(b) {
		id := string(b[offset : offset+4])
		size, err := readSize(b[offset+4:offset+8], e)
		if err != nil {
			return nil, err
		}
		offset += 8

		payloadEnd := offset + int(size)
		if payloadEnd > len(b) {
			payloadEnd = len(b) // tolerate a truncated final chunk
		}
		payload := append([]byte(nil), b[offset:payloadEnd]...)
		chunks = append(chunks, &Chunk{ID: id, Payload: payload})

		offset = payloadEnd
		if size%2 == 1 && offset < len(b) {
			offset++ // skip the pad byte
		}
	}
	return chunks, nil
}

// EncodeForm renders a Form back to its wire bytes, recomputing the outer
// size from the encoded chunk sequence.
func EncodeForm(f *Form) []byte {
	body := EncodeChunks(f.Chunks, f.Endian)

	b := binutil.Acquire()
	defer b.Release()
	b.Bytes([]byte(f.Magic))
	writeSize(b, uint32(4+len(body)), f.Endian)
	b.Bytes([]byte(f.FormType))
	b.Bytes(body)
	return b.Finalize().Bytes()
}

// EncodeChunks renders a flat chunk sequence, even-padding each chunk.
func EncodeChunks(chunks []*Chunk, e Endian) []byte {
	b := binutil.Acquire()
	defer b.Release()
	for _, c := range chunks {
		b.Bytes([]byte(c.ID))
		writeSize(b, uint32(len(c.Payload)), e)
		b.Bytes(c.Payload)
		if len(c.Payload)%2 == 1 {
			b.Byte(0)
		}
	}
	return b.Finalize().Bytes()
}

// Find returns the first chunk matching id, or nil.
func Find(chunks []*Chunk, id string) *Chunk {
	for _, c := range chunks {
		if c.ID == id {
			return c
		}
	}
	return nil
}
