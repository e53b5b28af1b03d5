package id3v2

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/corvidaudio/metatag/internal/metaerr"
)

// inflateFrame decompresses a frame body flagged with the v2.3/2.4
// compression bit. No example repo in the corpus carries a third-party
// zlib-compatible codec (ID3v2 compression is the DEFLATE/zlib format
// specifically, not a pluggable one) — compress/zlib is the correct and
// only implementation to reach for, so this one decoder stays on the
// standard library (see DESIGN.md).
func inflateFrame(b []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecompressionFailed, "opening zlib stream", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecompressionFailed, "inflating frame", err)
	}
	return out, nil
}
