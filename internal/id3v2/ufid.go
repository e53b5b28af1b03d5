package id3v2

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

// UFIDContent decodes UFID: null-terminated Latin-1 owner + raw identifier
// bytes (spec §4.D). MusicBrainz Track IDs are carried as a UFID with owner
// "http://musicbrainz.org".
type UFIDContent struct {
	Owner      string
	Identifier []byte
}

func decodeUFID(b []byte) (*UFIDContent, error) {
	head, tail, ok := binutil.SplitAtDelimiter(b, binutil.Latin1)
	if !ok {
		return nil, metaerr.New(metaerr.InvalidField, "UFID missing owner terminator")
	}
	return &UFIDContent{Owner: string(head), Identifier: tail}, nil
}

// EncodeUFID renders a UFID frame body.
func EncodeUFID(u *UFIDContent) []byte {
	b := binutil.Acquire()
	defer b.Release()
	b.Bytes([]byte(u.Owner))
	b.Byte(0)
	b.Bytes(u.Identifier)
	return b.Finalize().Bytes()
}
