package id3v2

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

// POPMContent decodes POPM (popularimeter): null-terminated Latin-1 email +
// rating byte + an extensible-width play counter (spec §4.D). The counter
// is commonly 4 bytes but the format allows any remaining width, so it is
// decoded as a big-endian integer of whatever length is left.
type POPMContent struct {
	Email   string
	Rating  byte
	Counter uint64
}

func decodePOPM(b []byte) (*POPMContent, error) {
	head, tail, ok := binutil.SplitAtDelimiter(b, binutil.Latin1)
	if !ok {
		return nil, metaerr.New(metaerr.InvalidField, "POPM missing email terminator")
	}
	if len(tail) < 1 {
		return nil, metaerr.New(metaerr.TruncatedInput, "POPM missing rating byte")
	}
	rating := tail[0]
	counterBytes := tail[1:]

	var counter uint64
	for _, c := range counterBytes {
		counter = counter<<8 | uint64(c)
	}

	return &POPMContent{Email: string(head), Rating: rating, Counter: counter}, nil
}

// EncodePOPM renders a POPM frame body with a 4-byte play counter.
func EncodePOPM(p *POPMContent) []byte {
	b := binutil.Acquire()
	defer b.Release()
	b.Bytes([]byte(p.Email))
	b.Byte(0)
	b.Byte(p.Rating)
	b.BE32(uint32(p.Counter))
	return b.Finalize().Bytes()
}
