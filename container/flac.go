package container

import (
	"context"

	"github.com/corvidaudio/metatag/internal/flacmeta"
	"github.com/corvidaudio/metatag/internal/metaerr"
	"github.com/corvidaudio/metatag/internal/vfs"
	"github.com/corvidaudio/metatag/internal/vorbis"
	"github.com/corvidaudio/metatag/tagmodel"
)

// FLACFile is the native-FLAC file class (spec §4.L): the "fLaC" marker,
// its metadata-block chain, and everything after the last block treated as
// the audio body and preserved bitwise. Grounded on the teacher's flac.go
// (which walks the identical block chain read-only) via internal/flacmeta.
type FLACFile struct {
	stream      *flacmeta.Stream
	commentTag  *tagmodel.VorbisCommentTag
	commentIdx  int // index into stream.Blocks of the VORBIS_COMMENT block, -1 if absent
	metadataLen int // original metadata length (marker-exclusive), for padding-preserving Render
	audioBody   []byte
	audio       AudioProperties
}

// ReadFLAC parses a complete native FLAC file image.
func ReadFLAC(b []byte) (*FLACFile, error) {
	if len(b) < 4 || string(b[0:4]) != flacmeta.Marker {
		return nil, metaerr.New(metaerr.BadMagic, "expected 'fLaC'")
	}

	stream, err := flacmeta.Decode(b)
	if err != nil {
		return nil, err
	}

	consumed := consumedLength(b, stream)

	f := &FLACFile{
		stream:      stream,
		commentIdx:  -1,
		metadataLen: consumed - 4,
		audioBody:   append([]byte(nil), b[consumed:]...),
	}

	for i, blk := range stream.Blocks {
		if blk.Type == flacmeta.BlockVorbisComment && blk.Comment != nil {
			f.commentTag = tagmodel.NewVorbisCommentTag(blk.Comment, false)
			f.commentIdx = i
			break
		}
		if blk.Type == flacmeta.BlockStreamInfo && len(blk.Data) >= 18 {
			f.audio = decodeStreamInfo(blk.Data)
		}
	}
	if f.commentTag == nil {
		f.commentTag = tagmodel.NewVorbisCommentTag(&vorbisBlankBlock, false)
	}

	return f, nil
}

// decodeStreamInfo extracts sample rate, channel count and bit depth from
// a STREAMINFO block payload (spec §4.H: fixed 34-byte structure, the
// relevant fields packed across bytes 10-13 this engine doesn't otherwise
// interpret since flacmeta preserves STREAMINFO opaquely).
func decodeStreamInfo(b []byte) AudioProperties {
	if len(b) < 18 {
		return AudioProperties{}
	}
	packed := uint64(b[10])<<16 | uint64(b[11])<<8 | uint64(b[12])
	sampleRate := int(packed >> 4)
	channels := int((packed>>1)&0x7) + 1
	bitsHigh := b[12] & 0x01
	bitsLow := b[13] >> 4
	bits := int(bitsHigh)<<4 | int(bitsLow)
	bits++

	totalSamples := uint64(b[13]&0x0F)<<32 | uint64(b[14])<<24 | uint64(b[15])<<16 | uint64(b[16])<<8 | uint64(b[17])
	var duration float64
	if sampleRate > 0 {
		duration = float64(totalSamples) / float64(sampleRate)
	}

	return AudioProperties{
		SampleRate:    sampleRate,
		Channels:      channels,
		BitsPerSample: bits,
		Duration:      duration,
	}
}

func consumedLength(b []byte, s *flacmeta.Stream) int {
	offset := 4
	for i := 0; i < len(s.Blocks); i++ {
		if offset+4 > len(b) {
			break
		}
		last := b[offset]&0x80 != 0
		blockLen := int(b[offset+1])<<16 | int(b[offset+2])<<8 | int(b[offset+3])
		offset += 4 + blockLen
		if last {
			break
		}
	}
	return offset
}

var vorbisBlankBlock = blankVorbisBlock()

func blankVorbisBlock() vorbis.Block {
	return vorbis.Block{Vendor: "metatag"}
}

// vorbisDecodeForFlac re-decodes a rendered VORBIS_COMMENT block payload so
// Render can hand flacmeta.Block a structured Comment (flacmeta.Encode
// re-encodes from that struct rather than the raw bytes when present).
func vorbisDecodeForFlac(b []byte) (*vorbis.Block, error) {
	return vorbis.Decode(b, false)
}

// TryReadFLAC is ReadFLAC with error swallowed to an ok flag.
func TryReadFLAC(b []byte) (*FLACFile, bool) {
	f, err := ReadFLAC(b)
	if err != nil {
		return nil, false
	}
	return f, true
}

// ReadFLACFromFile reads and parses path through fs.
func ReadFLACFromFile(path string, fs vfs.FS) (*FLACFile, error) {
	b, err := fs.ReadAll(path)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.IoFailure, "reading file", err)
	}
	return ReadFLAC(b)
}

// ReadFLACFromFileAsync is ReadFLACFromFile honoring ctx cancellation
// before the read begins.
func ReadFLACFromFileAsync(ctx context.Context, path string, fs vfs.FS) (*FLACFile, error) {
	select {
	case <-ctx.Done():
		return nil, vfs.ErrCancelled
	default:
	}
	return ReadFLACFromFile(path, fs)
}

func (f *FLACFile) Format() Format { return FormatFLAC }

func (f *FLACFile) AudioProperties() AudioProperties { return f.audio }

func (f *FLACFile) Tags() []tagmodel.Tag {
	return []tagmodel.Tag{f.commentTag}
}

// Render rebuilds the metadata-block chain from current tag state and
// reassembles the stream, recomputing PADDING to keep the original
// metadata length when the new content is smaller (spec's FLAC padding
// policy, see DESIGN.md), then appends the preserved audio body verbatim.
func (f *FLACFile) Render() ([]byte, error) {
	blocks := append([]*flacmeta.Block(nil), f.stream.Blocks...)

	view, err := f.commentTag.Render()
	if err != nil {
		return nil, err
	}
	commentBlock := &flacmeta.Block{Type: flacmeta.BlockVorbisComment, Data: view.Bytes()}
	// re-decode so blockPayload re-encodes from the Comment struct rather
	// than the raw bytes (flacmeta.Encode prefers blk.Comment when set).
	if decoded, derr := vorbisDecodeForFlac(view.Bytes()); derr == nil {
		commentBlock.Comment = decoded
	}

	if f.commentIdx >= 0 {
		blocks[f.commentIdx] = commentBlock
	} else {
		blocks = append(blocks, commentBlock)
	}

	out := flacmeta.Encode(&flacmeta.Stream{Blocks: blocks}, f.metadataLen)
	return append(out.Bytes(), f.audioBody...), nil
}

func (f *FLACFile) SaveToFile(path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFile(f, path, fs)
}

func (f *FLACFile) SaveToFileAsync(ctx context.Context, path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFileAsync(ctx, f, path, fs)
}

// audioBytes returns the frame stream following the metadata blocks,
// untouched by tag edits.
func (f *FLACFile) audioBytes() []byte { return f.audioBody }
