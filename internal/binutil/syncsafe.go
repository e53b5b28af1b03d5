package binutil

import "fmt"

// ErrSyncSafeHighBit is returned by DecodeSyncSafe32Strict when a byte's
// high bit is set, which is invalid in a sync-safe encoding.
type ErrSyncSafeHighBit struct {
	Index int
	Byte  byte
}

func (e *ErrSyncSafeHighBit) Error() string {
	return fmt.Sprintf("binutil: sync-safe byte %d (0x%02x) has high bit set", e.Index, e.Byte)
}

// DecodeSyncSafe32 decodes a four-byte ID3v2.4 sync-safe integer (four 7-bit
// groups packed MSB-first into a 32-bit value whose high bit is always
// zero). High bits in the source bytes are masked off rather than
// rejected — lenient decoding, used during normal parsing.
func DecodeSyncSafe32(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, &ErrTruncated{4, len(b)}
	}
	var x uint32
	for _, c := range b[:4] {
		x = x<<7 | uint32(c&0x7f)
	}
	return x, nil
}

// DecodeSyncSafe32Strict is as DecodeSyncSafe32 but fails if any byte has
// its high bit set. No parser in this module calls it; normal parsing uses
// the lenient DecodeSyncSafe32.
func DecodeSyncSafe32Strict(b []byte) (uint32, error) {
	if len(b) < 4 {
		return 0, &ErrTruncated{4, len(b)}
	}
	var x uint32
	for i, c := range b[:4] {
		if c&0x80 != 0 {
			return 0, &ErrSyncSafeHighBit{Index: i, Byte: c}
		}
		x = x<<7 | uint32(c)
	}
	return x, nil
}

// EncodeSyncSafe32 splits x (must fit in 28 bits) into four sync-safe bytes.
func EncodeSyncSafe32(x uint32) []byte {
	return []byte{
		byte((x >> 21) & 0x7f),
		byte((x >> 14) & 0x7f),
		byte((x >> 7) & 0x7f),
		byte(x & 0x7f),
	}
}

// DecodeSyncSafeN decodes an n-byte sequence of 7-bit groups, most
// significant first, masking off each byte's high bit. The ID3v2 frame
// reader does not call it: v2.2/2.3 frame sizes are read with BE24/BE32.
// n must be between 1 and 5.
func DecodeSyncSafeN(b []byte) int {
	var n int
	for _, x := range b {
		n = n<<7 | int(x&0x7f)
	}
	return n
}
