// Package vorbis implements the Vorbis Comment block shared by Ogg Vorbis,
// Ogg Opus, and FLAC (spec §4.F). Grounded on the teacher's ogg.go, which
// parses the same structure inline as part of its Ogg-packet walk;
// generalized here into its own reusable codec since FLAC's
// VORBIS_COMMENT metadata block and Ogg's comment packet share an
// identical body.
package vorbis

import (
	"encoding/base64"
	"strings"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

// PictureFieldName is the well-known comment field that carries a
// base64-encoded FLAC-style PICTURE block payload (spec §4.F).
const PictureFieldName = "METADATA_BLOCK_PICTURE"

// Comment is a single `FIELD=value` user comment, preserving its original
// field-name casing on read for passthrough/round-trip, while lookups are
// case-insensitive per the Vorbis spec (field names are uppercase ASCII by
// convention but readers must tolerate any case).
type Comment struct {
	Field string
	Value string
}

// Block is a decoded Vorbis Comment structure (spec §4.F).
type Block struct {
	Vendor   string
	Comments []Comment
}

// Decode parses b as a Vorbis Comment block. hasFramingBit controls whether
// a trailing framing-bit byte is expected (present in raw Vorbis streams,
// absent in Opus's OpusTags per spec §4.F).
func Decode(b []byte, hasFramingBit bool) (*Block, error) {
	if len(b) < 4 {
		return nil, metaerr.New(metaerr.TruncatedInput, "vorbis comment vendor length")
	}
	vendorLen, err := binutil.LE32(b[0:4])
	if err != nil {
		return nil, err
	}
	offset := 4
	if offset+int(vendorLen) > len(b) {
		return nil, metaerr.New(metaerr.TruncatedInput, "vorbis comment vendor string")
	}
	vendor, err := binutil.DecodeString(binutil.UTF8, b[offset:offset+int(vendorLen)])
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding vendor string", err)
	}
	offset += int(vendorLen)

	if offset+4 > len(b) {
		return nil, metaerr.New(metaerr.TruncatedInput, "vorbis comment count")
	}
	count, err := binutil.LE32(b[offset : offset+4])
	if err != nil {
		return nil, err
	}
	offset += 4

	blk := &Block{Vendor: vendor}
	for i := uint32(0); i < count; i++ {
		if offset+4 > len(b) {
			break // truncated: stop, preserving what was successfully read
		}
		entryLen, err := binutil.LE32(b[offset : offset+4])
		if err != nil {
			break
		}
		offset += 4
		if offset+int(entryLen) > len(b) {
			break
		}
		entry, err := binutil.DecodeString(binutil.UTF8, b[offset:offset+int(entryLen)])
		if err != nil {
			offset += int(entryLen)
			continue
		}
		offset += int(entryLen)

		eq := strings.IndexByte(entry, '=')
		if eq < 0 {
			continue // malformed entry with no '=': skip per field-name constraint
		}
		blk.Comments = append(blk.Comments, Comment{Field: entry[:eq], Value: entry[eq+1:]})
	}

	_ = hasFramingBit // the framing bit (if present) carries no semantic content once parsed
	return blk, nil
}

// Encode serializes blk back into a Vorbis Comment body.
func Encode(blk *Block, withFramingBit bool) []byte {
	b := binutil.Acquire()
	defer b.Release()

	vendor, _ := binutil.EncodeString(binutil.UTF8, blk.Vendor)
	b.LE32(uint32(len(vendor)))
	b.Bytes(vendor)
	b.LE32(uint32(len(blk.Comments)))

	for _, c := range blk.Comments {
		entry, _ := binutil.EncodeString(binutil.UTF8, c.Field+"="+c.Value)
		b.LE32(uint32(len(entry)))
		b.Bytes(entry)
	}

	if withFramingBit {
		b.Byte(1)
	}

	return b.Finalize().Bytes()
}

// Get returns all values for field, matched case-insensitively, in
// insertion order.
func (blk *Block) Get(field string) []string {
	var out []string
	for _, c := range blk.Comments {
		if strings.EqualFold(c.Field, field) {
			out = append(out, c.Value)
		}
	}
	return out
}

// Set replaces every existing entry for field with a single new one
// holding value, preserving the position of the first existing match (or
// appending if field is absent).
func (blk *Block) Set(field, value string) {
	for i, c := range blk.Comments {
		if strings.EqualFold(c.Field, field) {
			blk.Comments[i].Value = value
			blk.removeAllAfter(field, i)
			return
		}
	}
	blk.Comments = append(blk.Comments, Comment{Field: field, Value: value})
}

func (blk *Block) removeAllAfter(field string, keepIdx int) {
	out := blk.Comments[:keepIdx+1]
	for i := keepIdx + 1; i < len(blk.Comments); i++ {
		if !strings.EqualFold(blk.Comments[i].Field, field) {
			out = append(out, blk.Comments[i])
		}
	}
	blk.Comments = out
}

// DecodePictureField decodes a METADATA_BLOCK_PICTURE comment value: it is
// base64 of a FLAC-style PICTURE metadata block payload (spec §4.F).
func DecodePictureField(value string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "base64-decoding METADATA_BLOCK_PICTURE", err)
	}
	return data, nil
}

// EncodePictureField base64-encodes a FLAC-style PICTURE block payload for
// storage as a METADATA_BLOCK_PICTURE comment value.
func EncodePictureField(picturePayload []byte) string {
	return base64.StdEncoding.EncodeToString(picturePayload)
}
