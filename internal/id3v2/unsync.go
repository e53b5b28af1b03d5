package id3v2

// RemoveUnsync reverses the 0xFF 0x00 -> 0xFF substitution applied at write
// time to keep false MPEG sync sequences out of the tag body (spec §4.D
// Unsynchronization). Grounded on the teacher's unsynchroniser io.Reader
// (id3v2.go), generalized to operate over an in-memory slice since the
// codec toolkit works on Views/Builders rather than streaming readers.
func RemoveUnsync(b []byte) []byte {
	out := make([]byte, 0, len(b))
	ff := false
	for _, c := range b {
		if ff && c == 0x00 {
			ff = false
			continue
		}
		out = append(out, c)
		ff = c == 0xFF
	}
	return out
}

// ApplyUnsync inserts a 0x00 byte after each 0xFF that is followed by
// 0x00, by a byte with its top three bits set, or by nothing at all,
// guaranteeing no 0xFF in the output is ever followed by a byte >=
// 0xE0 or by end-of-stream.
func ApplyUnsync(b []byte) []byte {
	out := make([]byte, 0, len(b)+len(b)/32+1)
	for i, c := range b {
		out = append(out, c)
		if c == 0xFF {
			next := byte(0x00)
			if i+1 < len(b) {
				next = b[i+1]
			}
			if i+1 >= len(b) || next == 0x00 || next&0xE0 == 0xE0 {
				out = append(out, 0x00)
			}
		}
	}
	return out
}
