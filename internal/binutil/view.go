// Package binutil provides the binary codec toolkit shared by every
// container engine: an immutable byte view, a growable builder, endian and
// sync-safe integer codecs, bounded string decoding and CRC helpers.
package binutil

import "bytes"

// View is an immutable, shareable, zero-copy window over a byte range.
// Many independent Views may exist over one underlying buffer; nothing in
// this package ever mutates the bytes a View was constructed from.
type View struct {
	b []byte
}

// NewView wraps b without copying. Callers must not mutate b afterwards.
func NewView(b []byte) View {
	return View{b: b}
}

// Len returns the number of bytes in the view.
func (v View) Len() int {
	return len(v.b)
}

// Bytes returns the underlying slice. Callers must treat it as read-only.
func (v View) Bytes() []byte {
	return v.b
}

// At returns the byte at index i.
func (v View) At(i int) (byte, bool) {
	if i < 0 || i >= len(v.b) {
		return 0, false
	}
	return v.b[i], true
}

// Slice returns a sub-view [start:end). Panics are never raised; an
// out-of-range request returns an empty View.
func (v View) Slice(start, end int) View {
	if start < 0 {
		start = 0
	}
	if end > len(v.b) {
		end = len(v.b)
	}
	if start >= end {
		return View{}
	}
	return View{b: v.b[start:end]}
}

// Index searches for pattern starting at from, returning -1 if absent.
func (v View) Index(pattern []byte, from int) int {
	if from < 0 || from > len(v.b) {
		return -1
	}
	i := bytes.Index(v.b[from:], pattern)
	if i < 0 {
		return -1
	}
	return i + from
}

// Equal reports whether two views hold identical bytes.
func (v View) Equal(o View) bool {
	return bytes.Equal(v.b, o.b)
}

// String decodes the view under enc, returning the logical Unicode text.
func (v View) String(enc Encoding) (string, error) {
	return DecodeString(enc, v.b)
}
