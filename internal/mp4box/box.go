// Package mp4box implements the ISO-BMFF box tree MP4/M4A containers use,
// including the iTunes "ilst" metadata atoms (spec §4.I). Grounded on the
// teacher's mp4.go, which walks the same box structure via a flat
// io.ReadSeeker-driven recursive descent; generalized here into an
// in-memory Box tree so boxes can be rebuilt and re-serialized (the
// teacher only ever reads).
package mp4box

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

// Box is one node of the ISO-BMFF tree. Container boxes (moov, udta, meta,
// ilst, and any box holding nested boxes) have Children populated;
// leaf boxes carry their raw Payload instead.
type Box struct {
	Type     string
	Payload  []byte
	Children []*Box
}

// containerTypes lists the box types this engine always recurses into,
// grounded on the teacher's switch in readAtoms (mp4.go): "meta", "moov",
// "udta", "ilst". "meta" additionally skips a 4-byte version/flags field
// before its children, handled in Decode below. ilst's own children are
// not listed here since their type codes vary per metadata field; those
// are forced into container form positionally via forceContainer instead.
var containerTypes = map[string]bool{
	"moov": true, "udta": true, "ilst": true, "meta": true,
	"trak": true, "mdia": true, "minf": true, "stbl": true, "dinf": true,
	"----": true,
}

// Decode parses the top-level box sequence in b.
func Decode(b []byte) ([]*Box, error) {
	return decodeBoxes(b, false)
}

// decodeBoxes parses a sequence of sibling boxes. forceContainer is set
// when decoding the immediate children of an "ilst" box: every iTunes
// metadata item atom (its 4-byte code varies per field, e.g. "\xa9nam",
// "covr", "----") is itself a container of "data"/"mean"/"name" sub-atoms,
// so container-ness there is positional rather than keyed by a fixed type
// list (spec §4.I).
func decodeBoxes(b []byte, forceContainer bool) ([]*Box, error) {
	var boxes []*Box
	offset := 0
	for offset < len(b) {
		box, n, err := decodeOneBox(b[offset:], forceContainer)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
		offset += n
	}
	return boxes, nil
}

// decodeOneBox parses a single box header and body at the start of b,
// handling the size==1 64-bit extended size and size==0 "extends to end of
// file" cases (spec §4.I).
func decodeOneBox(b []byte, forceContainer bool) (*Box, int, error) {
	if len(b) < 8 {
		return nil, 0, metaerr.New(metaerr.TruncatedInput, "mp4 box header")
	}
	size32, err := binutil.BE32(b[0:4])
	if err != nil {
		return nil, 0, err
	}
	typ := string(b[4:8])

	headerLen := 8
	var totalSize int64
	switch size32 {
	case 0:
		totalSize = int64(len(b)) // extends to end of the enclosing container
	case 1:
		if len(b) < 16 {
			return nil, 0, metaerr.New(metaerr.TruncatedInput, "mp4 box 64-bit size")
		}
		big, err := binutil.BE64(b[8:16])
		if err != nil {
			return nil, 0, err
		}
		headerLen = 16
		totalSize = int64(big)
	default:
		totalSize = int64(size32)
	}

	if totalSize < int64(headerLen) || totalSize > int64(len(b)) {
		return nil, 0, metaerr.New(metaerr.TruncatedInput, "mp4 box size out of range")
	}

	bodyStart := headerLen
	bodyEnd := int(totalSize)
	body := b[bodyStart:bodyEnd]

	box := &Box{Type: typ}

	if typ == "meta" {
		// next_item_id / version+flags: 4 bytes before nested boxes.
		if len(body) >= 4 {
			children, err := decodeBoxes(body[4:], false)
			if err == nil {
				box.Children = children
				return box, bodyEnd, nil
			}
		}
	}

	if containerTypes[typ] || forceContainer {
		children, err := decodeBoxes(body, typ == "ilst")
		if err == nil {
			box.Children = children
			return box, bodyEnd, nil
		}
	}

	box.Payload = append([]byte(nil), body...)
	return box, bodyEnd, nil
}

// Encode serializes a box tree back to wire bytes, recomputing every
// box's size bottom-up (spec §4.I Render). Sizes that would overflow a
// 32-bit field are promoted to the 64-bit extended-size form.
func Encode(boxes []*Box) []byte {
	out := binutil.Acquire()
	defer out.Release()
	for _, box := range boxes {
		out.Bytes(encodeBox(box))
	}
	return out.Finalize().Bytes()
}

func encodeBox(box *Box) []byte {
	var body []byte
	if box.Children != nil {
		body = Encode(box.Children)
		if box.Type == "meta" {
			prefix := append([]byte{0, 0, 0, 0}, body...)
			body = prefix
		}
	} else {
		body = box.Payload
	}

	b := binutil.Acquire()
	defer b.Release()

	total := 8 + len(body)
	if total > 0xFFFFFFFF {
		b.BE32(1)
		b.Bytes([]byte(box.Type))
		b.BE64(uint64(total + 8))
	} else {
		b.BE32(uint32(total))
		b.Bytes([]byte(box.Type))
	}
	b.Bytes(body)

	return b.Finalize().Bytes()
}

// Find returns the first immediate child of boxes matching typ, or nil.
func Find(boxes []*Box, typ string) *Box {
	for _, b := range boxes {
		if b.Type == typ {
			return b
		}
	}
	return nil
}

// FindPath walks a dotted path of box types (e.g. "moov.udta.meta.ilst")
// returning the final box's children, or nil if any segment is absent.
func FindPath(boxes []*Box, path ...string) []*Box {
	cur := boxes
	for i, p := range path {
		b := Find(cur, p)
		if b == nil {
			return nil
		}
		if i == len(path)-1 {
			return b.Children
		}
		cur = b.Children
	}
	return cur
}
