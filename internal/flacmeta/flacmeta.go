// Package flacmeta implements FLAC's native metadata-block stream (spec
// §4.H): the "fLaC" marker followed by a sequence of length-prefixed
// blocks, the last of which is flagged via its header's high bit.
// Grounded on the teacher's flac.go, which walks the identical block
// sequence but only consumes VORBIS_COMMENT; generalized here to decode
// every documented block type and preserve unknown ones for round-trip.
package flacmeta

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
	"github.com/corvidaudio/metatag/internal/vorbis"
)

// BlockType enumerates FLAC's documented metadata block types (spec §4.H).
type BlockType byte

const (
	BlockStreamInfo    BlockType = 0
	BlockPadding       BlockType = 1
	BlockApplication   BlockType = 2
	BlockSeektable     BlockType = 3
	BlockVorbisComment BlockType = 4
	BlockCueSheet      BlockType = 5
	BlockPicture       BlockType = 6
)

const Marker = "fLaC"

// Block is one decoded metadata block. Data holds the raw block payload
// for every type this engine doesn't interpret further (STREAMINFO,
// SEEKTABLE, APPLICATION, CUESHEET are preserved opaquely — only
// VORBIS_COMMENT and PICTURE are exposed as structured content, matching
// the teacher's getter surface generalized to a round-trippable model).
type Block struct {
	Type BlockType
	Data []byte

	Comment *vorbis.Block
	Picture *PictureBlock
}

// PictureBlock is FLAC's native PICTURE metadata block payload (spec §4.H,
// also reused as the METADATA_BLOCK_PICTURE payload format in Vorbis
// Comments per spec §4.F).
type PictureBlock struct {
	PictureType byte
	MIME        string
	Description string
	Width       uint32
	Height      uint32
	ColorDepth  uint32
	NumColors   uint32
	Data        []byte
}

// Stream is the full sequence of metadata blocks preceding the audio
// frames.
type Stream struct {
	Blocks []*Block
}

// Decode parses b, which must begin with the "fLaC" marker, into a Stream.
func Decode(b []byte) (*Stream, error) {
	if len(b) < 4 || string(b[0:4]) != Marker {
		return nil, metaerr.New(metaerr.BadMagic, "expected 'fLaC'")
	}
	offset := 4
	s := &Stream{}

	for offset < len(b) {
		if offset+4 > len(b) {
			return nil, metaerr.New(metaerr.TruncatedInput, "flac metadata block header")
		}
		header := b[offset]
		last := header&0x80 != 0
		btype := BlockType(header & 0x7f)

		blockLen, err := binutil.BE24(b[offset+1 : offset+4])
		if err != nil {
			return nil, err
		}
		offset += 4

		if offset+int(blockLen) > len(b) {
			return nil, metaerr.New(metaerr.TruncatedInput, "flac metadata block payload")
		}
		payload := b[offset : offset+int(blockLen)]
		offset += int(blockLen)

		blk, err := decodeBlock(btype, payload)
		if err != nil {
			return nil, err
		}
		s.Blocks = append(s.Blocks, blk)

		if last {
			break
		}
	}

	return s, nil
}

func decodeBlock(t BlockType, payload []byte) (*Block, error) {
	cp := append([]byte(nil), payload...)
	switch t {
	case BlockVorbisComment:
		c, err := vorbis.Decode(cp, false)
		if err != nil {
			return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding FLAC VORBIS_COMMENT block", err)
		}
		return &Block{Type: t, Data: cp, Comment: c}, nil
	case BlockPicture:
		p, err := DecodePicture(cp)
		if err != nil {
			return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding FLAC PICTURE block", err)
		}
		return &Block{Type: t, Data: cp, Picture: p}, nil
	default:
		return &Block{Type: t, Data: cp}, nil
	}
}

// DecodePicture parses a FLAC PICTURE block payload. Exported because the
// same payload format is reused, base64-encoded, as the Vorbis Comment
// METADATA_BLOCK_PICTURE field value (spec §4.F).
func DecodePicture(b []byte) (*PictureBlock, error) {
	if len(b) < 32 {
		return nil, metaerr.New(metaerr.TruncatedInput, "PICTURE block too short")
	}
	picType, err := binutil.BE32(b[0:4])
	if err != nil {
		return nil, err
	}
	mimeLen, err := binutil.BE32(b[4:8])
	if err != nil {
		return nil, err
	}
	offset := 8
	if offset+int(mimeLen) > len(b) {
		return nil, metaerr.New(metaerr.TruncatedInput, "PICTURE MIME string")
	}
	mime := string(b[offset : offset+int(mimeLen)])
	offset += int(mimeLen)

	descLen, err := binutil.BE32(b[offset : offset+4])
	if err != nil {
		return nil, err
	}
	offset += 4
	if offset+int(descLen) > len(b) {
		return nil, metaerr.New(metaerr.TruncatedInput, "PICTURE description string")
	}
	desc, err := binutil.DecodeString(binutil.UTF8, b[offset:offset+int(descLen)])
	if err != nil {
		return nil, err
	}
	offset += int(descLen)

	if offset+20 > len(b) {
		return nil, metaerr.New(metaerr.TruncatedInput, "PICTURE dimension fields")
	}
	width, _ := binutil.BE32(b[offset : offset+4])
	height, _ := binutil.BE32(b[offset+4 : offset+8])
	depth, _ := binutil.BE32(b[offset+8 : offset+12])
	numColors, _ := binutil.BE32(b[offset+12 : offset+16])
	dataLen, _ := binutil.BE32(b[offset+16 : offset+20])
	offset += 20

	if offset+int(dataLen) > len(b) {
		return nil, metaerr.New(metaerr.TruncatedInput, "PICTURE data")
	}

	return &PictureBlock{
		PictureType: byte(picType),
		MIME:        mime,
		Description: desc,
		Width:       width,
		Height:      height,
		ColorDepth:  depth,
		NumColors:   numColors,
		Data:        append([]byte(nil), b[offset:offset+int(dataLen)]...),
	}, nil
}

// EncodePicture renders a PictureBlock to its FLAC PICTURE block payload.
func EncodePicture(p *PictureBlock) []byte {
	b := binutil.Acquire()
	defer b.Release()

	b.BE32(uint32(p.PictureType))
	b.BE32(uint32(len(p.MIME)))
	b.Bytes([]byte(p.MIME))

	desc, _ := binutil.EncodeString(binutil.UTF8, p.Description)
	b.BE32(uint32(len(desc)))
	b.Bytes(desc)

	b.BE32(p.Width)
	b.BE32(p.Height)
	b.BE32(p.ColorDepth)
	b.BE32(p.NumColors)
	b.BE32(uint32(len(p.Data)))
	b.Bytes(p.Data)

	return b.Finalize().Bytes()
}

// blockPayload returns the bytes to write for a block, re-encoding
// structured content if present.
func blockPayload(blk *Block) []byte {
	switch {
	case blk.Comment != nil:
		return vorbis.Encode(blk.Comment, false)
	case blk.Picture != nil:
		return EncodePicture(blk.Picture)
	default:
		return blk.Data
	}
}

// Encode serializes a Stream back to its wire form, including the "fLaC"
// marker, flagging the final block's header bit. targetLen, if non-zero,
// is the original total metadata length (marker-exclusive); when the
// encoded content is smaller, a single PADDING block is appended to keep
// the total unchanged (spec's FLAC padding policy — see DESIGN.md); when
// larger, a minimum 16-byte PADDING block is appended instead and the file
// grows.
func Encode(s *Stream, targetLen int) binutil.View {
	out := binutil.Acquire()
	defer out.Release()
	out.Bytes([]byte(Marker))

	blocks := make([]*Block, 0, len(s.Blocks)+1)
	for _, blk := range s.Blocks {
		if blk.Type == BlockPadding {
			continue // padding is recomputed, not carried over
		}
		blocks = append(blocks, blk)
	}

	payloads := make([][]byte, len(blocks))
	contentLen := 0
	for i, blk := range blocks {
		p := blockPayload(blk)
		payloads[i] = p
		contentLen += 4 + len(p)
	}

	paddingLen := 16
	if targetLen > 0 && targetLen > contentLen+4 {
		paddingLen = targetLen - contentLen - 4
	}

	for i, blk := range blocks {
		writeBlockHeader(out, blk.Type, false, len(payloads[i]))
		out.Bytes(payloads[i])
	}
	writeBlockHeader(out, BlockPadding, true, paddingLen)
	out.Zeros(paddingLen)

	return out.Finalize()
}

func writeBlockHeader(b *binutil.Builder, t BlockType, last bool, length int) {
	header := byte(t)
	if last {
		header |= 0x80
	}
	b.Byte(header)
	b.BE24(uint32(length))
}
