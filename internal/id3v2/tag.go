package id3v2

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

// Tag is a fully decoded, round-trippable ID3v2 tag: header plus frames in
// insertion order (spec §4.D).
type Tag struct {
	Header *Header
	Frames []*Frame
}

// Read parses an ID3v2 tag from the start of b. b need not be truncated to
// the tag's declared size — Read clamps traversal itself (spec §4.D
// Tag-size policy).
func Read(b []byte) (*Tag, error) {
	h, err := ReadHeader(b)
	if err != nil {
		return nil, err
	}

	body := b[HeaderSize:]
	declaredEnd := h.Size
	if declaredEnd > len(body) {
		declaredEnd = len(body) // clamp to actual bytes present
	}
	body = body[:declaredEnd]

	if h.Unsynchronisation {
		body = RemoveUnsync(body)
	}

	offset := 0
	if h.ExtendedHeader {
		n, err := skipExtendedHeader(body, h.Version)
		if err != nil {
			return nil, err
		}
		if n > len(body) {
			n = len(body)
		}
		offset = n
	}

	tag := &Tag{Header: h}

	for offset < len(body) {
		id, size, headerSize, flags, err := readFrameHeader(body[offset:], h.Version)
		if err != nil {
			break // malformed header: treat remainder as padding
		}

		if !validFrameID(id) {
			break // invalid-ID byte: remainder is padding (spec §4.D failure semantics)
		}
		if size == 0 {
			break // zero size: padding zone begins here
		}

		contentStart := offset + headerSize
		contentEnd := contentStart + size
		if contentEnd > len(body) {
			break // frame straddles the boundary: skip and stop
		}

		raw := body[contentStart:contentEnd]
		offset = contentEnd

		if flags.DataLengthIndicator && len(raw) >= 4 {
			raw = raw[4:]
		}
		if flags.Unsynchronisation {
			raw = RemoveUnsync(raw)
		}

		if flags.Compression {
			decompressed, err := inflateFrame(raw)
			if err != nil {
				continue // per-frame zlib failure drops the frame (spec §4.D)
			}
			raw = decompressed
		}

		frame, err := decodeFrameContent(id, raw, h.Version)
		if err != nil {
			continue // any frame failing to parse is skipped
		}
		frame.Flags = flags
		tag.Frames = append(tag.Frames, frame)
	}

	return tag, nil
}

// readFrameHeader parses one frame header at the start of b under the
// version-specific layout (spec §4.D Frame header).
func readFrameHeader(b []byte, v Version) (id string, size, headerSize int, flags FrameFlags, err error) {
	switch v {
	case V2_2:
		if len(b) < 6 {
			return "", 0, 0, FrameFlags{}, metaerr.New(metaerr.TruncatedInput, "v2.2 frame header")
		}
		id = string(b[0:3])
		sz, e := binutil.BE24(b[3:6])
		if e != nil {
			return "", 0, 0, FrameFlags{}, e
		}
		if mapped, ok := mapFrameID(id); ok {
			id = mapped
		}
		return id, int(sz), 6, FrameFlags{}, nil

	case V2_3:
		if len(b) < 10 {
			return "", 0, 0, FrameFlags{}, metaerr.New(metaerr.TruncatedInput, "v2.3 frame header")
		}
		id = string(b[0:4])
		sz, e := binutil.BE32(b[4:8])
		if e != nil {
			return "", 0, 0, FrameFlags{}, e
		}
		fl := decodeFrameFlags(b[8], b[9])
		return id, int(sz), 10, fl, nil

	default: // V2_4
		if len(b) < 10 {
			return "", 0, 0, FrameFlags{}, metaerr.New(metaerr.TruncatedInput, "v2.4 frame header")
		}
		id = string(b[0:4])
		sz, e := binutil.DecodeSyncSafe32(b[4:8])
		if e != nil {
			return "", 0, 0, FrameFlags{}, e
		}
		fl := decodeFrameFlags(b[8], b[9])
		return id, int(sz), 10, fl, nil
	}
}

func decodeFrameFlags(msg, format byte) FrameFlags {
	return FrameFlags{
		TagAlterPreservation:  msg&0x40 != 0,
		FileAlterPreservation: msg&0x20 != 0,
		ReadOnly:              msg&0x10 != 0,
		GroupIdentity:         format&0x80 != 0,
		Compression:           format&0x08 != 0,
		Encryption:            format&0x04 != 0,
		Unsynchronisation:     format&0x02 != 0,
		DataLengthIndicator:   format&0x01 != 0,
	}
}

func encodeFrameFlags(f FrameFlags) (msg, format byte) {
	if f.TagAlterPreservation {
		msg |= 0x40
	}
	if f.FileAlterPreservation {
		msg |= 0x20
	}
	if f.ReadOnly {
		msg |= 0x10
	}
	if f.GroupIdentity {
		format |= 0x80
	}
	if f.Compression {
		format |= 0x08
	}
	if f.Encryption {
		format |= 0x04
	}
	if f.Unsynchronisation {
		format |= 0x02
	}
	if f.DataLengthIndicator {
		format |= 0x01
	}
	return msg, format
}

// decodeFrameContent dispatches a frame's raw payload to the matching
// content codec by ID (spec §4.D Frame content decoders).
func decodeFrameContent(id string, raw []byte, v Version) (*Frame, error) {
	switch {
	case id == "TXXX":
		c, err := decodeTXXX(raw, v)
		if err != nil {
			return nil, err
		}
		return &Frame{ID: id, Text: c}, nil

	case len(id) > 0 && id[0] == 'T':
		c, err := decodeTextFrame(raw, v)
		if err != nil {
			return nil, err
		}
		return &Frame{ID: id, Text: c}, nil

	case id == "COMM" || id == "USLT":
		c, err := decodeCommFrame(raw)
		if err != nil {
			return nil, err
		}
		return &Frame{ID: id, Comm: c}, nil

	case id == "APIC":
		decode := decodeAPIC
		if v == V2_2 {
			decode = decodePIC // v2.2 PIC: 3-char format code instead of a MIME string
		}
		c, err := decode(raw)
		if err != nil {
			return nil, err
		}
		return &Frame{ID: id, Pic: c}, nil

	case id == "UFID":
		c, err := decodeUFID(raw)
		if err != nil {
			return nil, err
		}
		return &Frame{ID: id, Ufid: c}, nil

	case id == "TIPL" || id == "TMCL" || id == "IPLS":
		c, err := decodeIPLS(raw)
		if err != nil {
			return nil, err
		}
		return &Frame{ID: id, Ipls: c}, nil

	case id == "POPM":
		c, err := decodePOPM(raw)
		if err != nil {
			return nil, err
		}
		return &Frame{ID: id, Popm: c}, nil

	default:
		// PRIV, GEOB, CHAP, CTOC, SYLT and anything else unrecognized:
		// preserved opaquely (spec §4.D).
		cp := make([]byte, len(raw))
		copy(cp, raw)
		return &Frame{ID: id, Raw: &RawContent{Data: cp}}, nil
	}
}

// RenderOptions controls optional behaviors of Render not implied by the
// tag's declared version (spec §4.D Render).
type RenderOptions struct {
	PaddingBytes int  // default 1024 if zero; explicit 0 must use NoPadding
	NoPadding    bool
	Unsynchronise bool // opt-in; default off per spec
}

// DefaultRenderOptions returns the spec's default render policy: 1024 bytes
// of padding, no unsynchronization.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{PaddingBytes: 1024}
}

// Render serializes t back into a complete ID3v2 tag (header + frames +
// padding), per spec §4.D Render.
func Render(t *Tag, opts RenderOptions) binutil.View {
	body := binutil.Acquire()
	defer body.Release()

	for _, f := range t.Frames {
		content := encodeFrameContent(f, t.Header.Version)
		msg, format := encodeFrameFlags(f.Flags)

		if t.Header.Version == V2_2 {
			body.Bytes([]byte(demapFrameID(f.ID)))
			body.BE24(uint32(len(content)))
		} else if t.Header.Version == V2_4 {
			body.Bytes([]byte(f.ID))
			body.SyncSafe32(uint32(len(content)))
			body.Byte(msg)
			body.Byte(format)
		} else {
			body.Bytes([]byte(f.ID))
			body.BE32(uint32(len(content)))
			body.Byte(msg)
			body.Byte(format)
		}
		body.Bytes(content)
	}

	padding := opts.PaddingBytes
	if !opts.NoPadding && padding == 0 {
		padding = 1024
	}
	if padding > 0 {
		body.Zeros(padding)
	}

	payload := body.Finalize().Bytes()
	if opts.Unsynchronise {
		payload = ApplyUnsync(payload)
	}

	h := &Header{
		Version:           t.Header.Version,
		Unsynchronisation: opts.Unsynchronise,
		Size:              len(payload),
	}

	out := binutil.Acquire()
	defer out.Release()
	out.AppendView(h.Render())
	out.Bytes(payload)
	return out.Finalize()
}

func encodeFrameContent(f *Frame, v Version) []byte {
	switch {
	case f.ID == "TXXX" && f.Text != nil:
		return EncodeTXXX(f.Text, v)
	case f.Text != nil:
		return EncodeText(f.Text, v)
	case f.Comm != nil:
		return EncodeComm(f.Comm)
	case f.Pic != nil:
		if v == V2_2 {
			return EncodePIC(f.Pic)
		}
		return EncodeAPIC(f.Pic)
	case f.Ufid != nil:
		return EncodeUFID(f.Ufid)
	case f.Ipls != nil:
		return EncodeIPLS(f.Ipls)
	case f.Popm != nil:
		return EncodePOPM(f.Popm)
	case f.Raw != nil:
		return f.Raw.Data
	default:
		return nil
	}
}
