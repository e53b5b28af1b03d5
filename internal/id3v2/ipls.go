package id3v2

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

// IPLSContent decodes TIPL/TMCL (v2.4) and the legacy IPLS (v2.3): encoding
// + alternating null-terminated role/person pairs (spec §4.D).
type IPLSContent struct {
	Encoding binutil.Encoding
	Pairs    []RolePerson
}

type RolePerson struct {
	Role   string
	Person string
}

func decodeIPLS(b []byte) (*IPLSContent, error) {
	if len(b) == 0 {
		return nil, metaerr.New(metaerr.TruncatedInput, "empty IPLS/TIPL/TMCL frame")
	}
	enc, ok := textEncodingToBinutil(b[0])
	if !ok {
		return nil, metaerr.New(metaerr.InvalidField, "invalid text encoding byte")
	}
	rest := b[1:]

	var pairs []RolePerson
	for len(rest) > 0 {
		role, tail, ok := binutil.SplitAtDelimiter(rest, enc)
		if !ok {
			break
		}
		person, tail2, ok := binutil.SplitAtDelimiter(tail, enc)
		if !ok {
			// Trailing unterminated person string: consume the remainder.
			roleS, _ := binutil.DecodeString(enc, role)
			personS, _ := binutil.DecodeString(enc, tail)
			pairs = append(pairs, RolePerson{Role: roleS, Person: personS})
			break
		}
		roleS, err := binutil.DecodeString(enc, role)
		if err != nil {
			return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding IPLS role", err)
		}
		personS, err := binutil.DecodeString(enc, person)
		if err != nil {
			return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding IPLS person", err)
		}
		pairs = append(pairs, RolePerson{Role: roleS, Person: personS})
		rest = tail2
	}

	return &IPLSContent{Encoding: enc, Pairs: pairs}, nil
}

// EncodeIPLS renders a TIPL/TMCL/IPLS frame body.
func EncodeIPLS(c *IPLSContent) []byte {
	b := binutil.Acquire()
	defer b.Release()
	b.Byte(binutilToTextEncoding(c.Encoding))
	for _, p := range c.Pairs {
		b.EncodedString(p.Role, c.Encoding)
		b.Bytes(binutil.Delimiter(c.Encoding))
		b.EncodedString(p.Person, c.Encoding)
		b.Bytes(binutil.Delimiter(c.Encoding))
	}
	return b.Finalize().Bytes()
}
