package binutil

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
)

// ErrTruncated is returned by the read helpers below when fewer bytes are
// available than the requested field width.
type ErrTruncated struct {
	Want, Have int
}

func (e *ErrTruncated) Error() string {
	return fmt.Sprintf("binutil: need %d bytes, have %d", e.Want, e.Have)
}

// BE16/BE24/BE32/BE64 read fixed-width big-endian unsigned integers from b.
// The 24-bit variant zero-extends into the returned uint32.
func BE16(b []byte) (uint16, error) {
	if len(b) < 2 {
		return 0, &ErrTruncated{2, len(b)}
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func BE24(b []byte) (uint32, error) {
	if len(b) < 3 {
		return 0, &ErrTruncated{3, len(b)}
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

func BE32(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, &ErrTruncated{4, len(b)}
	}
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), nil
}

func BE64(b []byte) (uint64, error) {
	if len(b) < 8 {
		return 0, &ErrTruncated{8, len(b)}
	}
	var x uint64
	for i := 0; i < 8; i++ {
		x = x<<8 | uint64(b[i])
	}
	return x, nil
}

// LE16/LE24/LE32/LE64 read fixed-width little-endian unsigned integers.
func LE16(b []byte) (uint16, error) {
	if len(b) < 2 {
		return 0, &ErrTruncated{2, len(b)}
	}
	return uint16(b[1])<<8 | uint16(b[0]), nil
}

func LE24(b []byte) (uint32, error) {
	if len(b) < 3 {
		return 0, &ErrTruncated{3, len(b)}
	}
	return uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0]), nil
}

func LE32(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, &ErrTruncated{4, len(b)}
	}
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0]), nil
}

func LE64(b []byte) (uint64, error) {
	if len(b) < 8 {
		return 0, &ErrTruncated{8, len(b)}
	}
	var x uint64
	for i := 7; i >= 0; i-- {
		x = x<<8 | uint64(b[i])
	}
	return x, nil
}

// NewBitReader returns a big-endian bit-level reader over b for packed
// sub-byte fields. The FLAC STREAMINFO and Musepack SV7 decoders do not use
// it; they unpack their fields with plain shifts and masks.
func NewBitReader(b []byte) *bitio.Reader {
	return bitio.NewReader(bytes.NewReader(b))
}

// NewBitWriter returns a big-endian bit-level writer whose bytes can be
// recovered once the caller calls Close (which pads the final partial byte
// with zero bits, as required by every packed field this codec emits).
func NewBitWriter(buf *bytes.Buffer) *bitio.Writer {
	return bitio.NewWriter(buf)
}
