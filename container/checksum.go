package container

import (
	"crypto/sha1"
	"encoding/hex"

	"github.com/corvidaudio/metatag/internal/metaerr"
)

// audioSource is implemented by every file class and exposes exactly the
// byte range tag edits never touch: MPEG frames, FLAC frames, the `data`/
// `SSND`/`mdat` payload, the DSD/DST stream, or (for Musepack/APE) the
// opaque body preceding the trailer. Grounded on the teacher's hash.go/
// sum.go, whose Hash/Sum functions describe themselves as producing a
// checksum "which metadata (ID3, MP4) invariant" by walking past whatever
// tag prefix/suffix a format carries before hashing; here each file class
// already tracks that boundary for Render, so the checksum reuses it
// instead of re-deriving it.
type audioSource interface {
	audioBytes() []byte
}

// AudioChecksum returns a hex-encoded SHA-1 digest of f's audio-only byte
// range: unaffected by any tag edit, so two copies of a file differing
// only in metadata produce the same checksum. Uses crypto/sha1 directly,
// as the teacher's own hash.go/sum.go do for this exact purpose.
func AudioChecksum(f MediaFile) (string, error) {
	src, ok := f.(audioSource)
	if !ok {
		return "", metaerr.New(metaerr.UnsupportedVersion, "audio checksum not supported for this file class")
	}
	sum := sha1.Sum(src.audioBytes())
	return hex.EncodeToString(sum[:]), nil
}
