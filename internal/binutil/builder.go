package binutil

import "sync"

var builderPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 512)
		return &buf
	},
}

// Builder is a growable, scoped byte accumulator. Its backing array is
// drawn from a process-wide pool and must be released with Release once the
// caller is done with it — typically via defer immediately after Acquire.
// A Builder is not safe for concurrent use; each one has a single owner.
type Builder struct {
	buf      *[]byte
	released bool
}

// Acquire obtains a Builder with pooled backing storage.
func Acquire() *Builder {
	buf := builderPool.Get().(*[]byte)
	*buf = (*buf)[:0]
	return &Builder{buf: buf}
}

// Release returns the backing storage to the pool. Safe to call more than
// once; subsequent calls are no-ops.
func (b *Builder) Release() {
	if b.released {
		return
	}
	b.released = true
	builderPool.Put(b.buf)
	b.buf = nil
}

func (b *Builder) Len() int {
	return len(*b.buf)
}

// Byte appends a single byte.
func (b *Builder) Byte(x byte) *Builder {
	*b.buf = append(*b.buf, x)
	return b
}

// Bytes appends raw bytes.
func (b *Builder) Bytes(p []byte) *Builder {
	*b.buf = append(*b.buf, p...)
	return b
}

// AppendView appends the bytes backing an existing View.
func (b *Builder) AppendView(v View) *Builder {
	return b.Bytes(v.Bytes())
}

// Zeros appends n zero bytes.
func (b *Builder) Zeros(n int) *Builder {
	for i := 0; i < n; i++ {
		*b.buf = append(*b.buf, 0)
	}
	return b
}

// BE16/BE24/BE32/BE64 append fixed-width big-endian unsigned integers.
func (b *Builder) BE16(x uint16) *Builder {
	return b.Bytes([]byte{byte(x >> 8), byte(x)})
}

func (b *Builder) BE24(x uint32) *Builder {
	return b.Bytes([]byte{byte(x >> 16), byte(x >> 8), byte(x)})
}

func (b *Builder) BE32(x uint32) *Builder {
	return b.Bytes([]byte{byte(x >> 24), byte(x >> 16), byte(x >> 8), byte(x)})
}

func (b *Builder) BE64(x uint64) *Builder {
	return b.Bytes([]byte{
		byte(x >> 56), byte(x >> 48), byte(x >> 40), byte(x >> 32),
		byte(x >> 24), byte(x >> 16), byte(x >> 8), byte(x),
	})
}

// LE16/LE24/LE32/LE64 append fixed-width little-endian unsigned integers.
func (b *Builder) LE16(x uint16) *Builder {
	return b.Bytes([]byte{byte(x), byte(x >> 8)})
}

func (b *Builder) LE24(x uint32) *Builder {
	return b.Bytes([]byte{byte(x), byte(x >> 8), byte(x >> 16)})
}

func (b *Builder) LE32(x uint32) *Builder {
	return b.Bytes([]byte{byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24)})
}

func (b *Builder) LE64(x uint64) *Builder {
	return b.Bytes([]byte{
		byte(x), byte(x >> 8), byte(x >> 16), byte(x >> 24),
		byte(x >> 32), byte(x >> 40), byte(x >> 48), byte(x >> 56),
	})
}

// SyncSafe32 appends a 28-bit value packed into four sync-safe bytes
// (ID3v2.4 tag/frame sizes).
func (b *Builder) SyncSafe32(x uint32) *Builder {
	return b.Bytes(EncodeSyncSafe32(x))
}

// FixedString appends s re-encoded under enc, cut or zero-padded to exactly
// n bytes. The cut falls at byte n, so a multi-byte code point straddling
// it is split.
func (b *Builder) FixedString(s string, enc Encoding, n int) *Builder {
	encoded, _ := EncodeString(enc, s)
	if len(encoded) >= n {
		return b.Bytes(encoded[:n])
	}
	b.Bytes(encoded)
	return b.Zeros(n - len(encoded))
}

// EncodedString appends s re-encoded under enc with no padding.
func (b *Builder) EncodedString(s string, enc Encoding) *Builder {
	encoded, _ := EncodeString(enc, s)
	return b.Bytes(encoded)
}

// Finalize turns the builder's contents into an immutable View. The builder's backing
// array is copied so the caller may continue to mutate or Release the
// Builder independently of the returned View.
func (b *Builder) Finalize() View {
	out := make([]byte, len(*b.buf))
	copy(out, *b.buf)
	return View{b: out}
}
