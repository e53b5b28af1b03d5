package id3v2

import (
	"github.com/corvidaudio/metatag/internal/binutil"
)

// FrameFlags are the status/format bits carried on v2.3/v2.4 frame headers
// (spec §4.D). v2.2 frames carry no flags.
type FrameFlags struct {
	TagAlterPreservation  bool
	FileAlterPreservation bool
	ReadOnly              bool

	GroupIdentity       bool
	Compression         bool
	Encryption          bool
	Unsynchronisation   bool // v2.4 only
	DataLengthIndicator bool // v2.4 only
}

// Frame is one decoded ID3v2 frame: a v2.3/2.4-normalized four-letter ID,
// its flags, and its content as a tagged union (exactly one of the typed
// fields below is non-nil, or Raw holds an opaque/unrecognized payload).
type Frame struct {
	ID    string
	Flags FrameFlags

	Text  *TextContent
	Comm  *CommContent
	Pic   *PictureContent
	Ufid  *UFIDContent
	Ipls  *IPLSContent
	Popm  *POPMContent
	Raw   *RawContent
}

// RawContent is the payload of a frame this engine doesn't interpret
// (PRIV, GEOB, CHAP, CTOC, SYLT when unconsumed by a high-level getter, or
// any unknown ID) — preserved byte-for-byte for round-trip (spec §4.D).
type RawContent struct {
	Data []byte
}

func textEncodingToBinutil(b byte) (binutil.Encoding, bool) {
	switch b {
	case 0:
		return binutil.Latin1, true
	case 1:
		return binutil.UTF16BOM, true
	case 2:
		return binutil.UTF16BE, true
	case 3:
		return binutil.UTF8, true
	default:
		return 0, false
	}
}

func binutilToTextEncoding(e binutil.Encoding) byte {
	switch e {
	case binutil.Latin1:
		return 0
	case binutil.UTF16BOM:
		return 1
	case binutil.UTF16BE:
		return 2
	default:
		return 3
	}
}

// isValidFrameIDByte reports whether c can start/compose an ID3v2 frame ID
// (spec §4.D failure semantics: "stops on an invalid-ID byte").
func isValidFrameIDByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func validFrameID(id string) bool {
	if len(id) == 0 {
		return false
	}
	for i := 0; i < len(id); i++ {
		if !isValidFrameIDByte(id[i]) {
			return false
		}
	}
	return true
}
