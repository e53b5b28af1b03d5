// Package id3v2 implements the ID3v2.2/2.3/2.4 tag engine (spec §4.D):
// header and frame-header parsing, unsynchronization, the v2.2 three-letter
// frame-ID to v2.3/2.4 four-letter mapping table, and per-frame content
// codecs. Grounded on the teacher's id3v2.go/id3v2frames.go (dhowden/tag),
// generalized from a read-only getter map into a round-trippable frame
// model per the expanded spec.
package id3v2

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

// Version identifies which ID3v2 minor revision a tag was read as or
// should be rendered as.
type Version int

const (
	V2_2 Version = 2
	V2_3 Version = 3
	V2_4 Version = 4
)

const HeaderSize = 10

// Header is the 10-byte ID3v2 tag header (spec §4.D).
type Header struct {
	Version           Version
	Unsynchronisation bool
	ExtendedHeader    bool
	Experimental      bool
	Footer            bool // v2.4 bit 4; detect-only, never emitted (spec Open Questions)
	Size              int  // tag size excluding the 10-byte header
}

// ReadHeader parses the fixed 10-byte ID3v2 header from the start of b.
func ReadHeader(b []byte) (*Header, error) {
	if len(b) < HeaderSize {
		return nil, metaerr.New(metaerr.TruncatedInput, "ID3v2 header requires 10 bytes")
	}
	if string(b[0:3]) != "ID3" {
		return nil, metaerr.New(metaerr.BadMagic, "expected 'ID3'")
	}

	var v Version
	switch b[3] {
	case 2:
		v = V2_2
	case 3:
		v = V2_3
	case 4:
		v = V2_4
	default:
		return nil, metaerr.New(metaerr.UnsupportedVersion, "unknown ID3v2 major version")
	}

	flags := b[5]
	size, err := binutil.DecodeSyncSafe32(b[6:10])
	if err != nil {
		return nil, metaerr.Wrap(metaerr.TruncatedInput, "decoding ID3v2 tag size", err)
	}

	return &Header{
		Version:           v,
		Unsynchronisation: flags&0x80 != 0,
		ExtendedHeader:    flags&0x40 != 0,
		Experimental:      flags&0x20 != 0,
		Footer:            v == V2_4 && flags&0x10 != 0,
		Size:              int(size),
	}, nil
}

// Render serializes h as the 10-byte header.
func (h *Header) Render() binutil.View {
	b := binutil.Acquire()
	defer b.Release()

	b.Bytes([]byte("ID3"))
	b.Byte(byte(h.Version))
	b.Byte(0) // revision, always 0 on write

	var flags byte
	if h.Unsynchronisation {
		flags |= 0x80
	}
	if h.ExtendedHeader {
		flags |= 0x40
	}
	if h.Experimental {
		flags |= 0x20
	}
	b.Byte(flags)
	b.SyncSafe32(uint32(h.Size))

	return b.Finalize()
}

// skipExtendedHeader returns the number of bytes the extended header
// occupies starting at b, per version-specific size semantics (spec §4.D):
// v2.4's size field is sync-safe and includes itself; v2.3's is big-endian
// and excludes itself.
func skipExtendedHeader(b []byte, v Version) (int, error) {
	if len(b) < 4 {
		return 0, metaerr.New(metaerr.TruncatedInput, "extended header size")
	}
	if v == V2_4 {
		size, err := binutil.DecodeSyncSafe32(b[0:4])
		if err != nil {
			return 0, err
		}
		return int(size), nil
	}
	size, err := binutil.BE32(b[0:4])
	if err != nil {
		return 0, err
	}
	return 4 + int(size), nil
}
