package container

// MPEG audio frame header decoding (spec §4.L MP3 rule), adapted from the
// teacher's mp3.go tables: frame sync plus version/layer/bitrate/sampling
// lookup and the Xing/Info VBR header. Unlike the teacher's multi-frame
// scanning loop (which averages bitrate across up to 100 frames to
// extrapolate duration for CBR streams lacking a Xing header), this reads
// only the first audio frame directly from the in-memory byte slice: the
// container already holds the whole file, so there's no streaming
// constraint forcing an amortized scan, and a single frame's bitrate is
// exact for CBR and close enough for VBR streams that do carry a Xing
// header (the common case).

var (
	mp3Version = [4]string{"2.5", "", "2", "1"}
	mp3Layer   = [4]string{"", "III", "II", "I"}
	mp3Bitrate = map[string][16]int{
		"1I":     {0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448},
		"1II":    {0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384},
		"1III":   {0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320},
		"2I":     {0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256},
		"2II":    {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
		"2III":   {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
		"2.5I":   {0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256},
		"2.5II":  {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
		"2.5III": {0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
	}
	mp3Sampling = map[string][4]int{
		"1":   {44100, 48000, 32000, 0},
		"2":   {22050, 24000, 16000, 0},
		"2.5": {11025, 12000, 8000, 0},
	}
	mp3Channel      = [4]string{"Stereo", "Join Stereo", "Dual", "Mono"}
	frameLengthMult = map[string]int{
		"1I": 48, "1II": 144, "1III": 144,
		"2I": 24, "2II": 144, "2III": 72,
		"2.5I": 24, "2.5II": 144, "2.5III": 72,
	}
)

type mp3FrameHeader struct {
	Version  string
	Layer    string
	Bitrate  int
	Sampling int
	Mode     string
	FrameLen int
}

// findFirstFrame scans b for the first valid MPEG frame sync and decodes
// its header, returning the header and its byte offset within b.
func findFirstFrame(b []byte) (*mp3FrameHeader, int, bool) {
	for i := 0; i+4 <= len(b); i++ {
		if b[i] != 0xFF || b[i+1]&0xE0 != 0xE0 {
			continue
		}
		if h, ok := decodeFrameHeader(b[i : i+4]); ok {
			return h, i, true
		}
	}
	return nil, 0, false
}

func decodeFrameHeader(buf []byte) (*mp3FrameHeader, bool) {
	v := buf[1] & 0x18 >> 3
	l := buf[1] & 0x06 >> 1
	b := buf[2] & 0xF0 >> 4
	s := buf[2] & 0x0C >> 2
	c := buf[3] & 0xC0 >> 6

	if l == 0 || b == 15 || v == 1 || b == 0 || s == 3 {
		return nil, false
	}

	version := mp3Version[v]
	layer := mp3Layer[l]
	sampling := mp3Sampling[version][s]
	if sampling == 0 {
		return nil, false
	}

	bitrate := mp3Bitrate[version+layer][b]
	mult := frameLengthMult[version+layer]
	frameLen := mult * bitrate * 1000 / sampling

	return &mp3FrameHeader{
		Version:  version,
		Layer:    layer,
		Bitrate:  bitrate,
		Sampling: sampling,
		Mode:     mp3Channel[c],
		FrameLen: frameLen,
	}, true
}

// xingOffset returns the byte offset of a Xing/Info/VBRI header within the
// frame payload, past the side-info block whose size depends on version
// and channel mode (spec §4.L, teacher's xingoffset).
func xingOffset(version, mode string) int {
	switch {
	case version == "2" && mode == "Mono":
		return 9
	case version == "1" && mode != "Mono":
		return 32
	default:
		return 17
	}
}

func samplesPerFrame(version, layer string) float64 {
	switch {
	case version == "1" && layer == "I":
		return 384
	case (version == "2" || version == "2.5") && layer == "III":
		return 576
	}
	return 1152
}

// parseAudioProperties derives AudioProperties from the first frame found
// in body, preferring a Xing/Info VBR header's declared frame/byte counts
// for duration when present.
func parseAudioProperties(body []byte) AudioProperties {
	h, offset, ok := findFirstFrame(body)
	if !ok {
		return AudioProperties{}
	}

	channels := 2
	if h.Mode == "Mono" {
		channels = 1
	}
	props := AudioProperties{
		SampleRate: h.Sampling,
		Channels:   channels,
		Bitrate:    h.Bitrate,
	}

	xo := offset + 4 + xingOffset(h.Version, h.Mode)
	if xo+8 <= len(body) {
		tag := string(body[xo : xo+4])
		if tag == "Xing" || tag == "Info" {
			flags := body[xo+7]
			if flags&0x3 == 0x3 && xo+16 <= len(body) {
				frames := be32(body[xo+8 : xo+12])
				size := be32(body[xo+12 : xo+16])
				spf := samplesPerFrame(h.Version, h.Layer)
				totalSamples := float64(frames) * spf
				if h.Sampling > 0 {
					props.Duration = totalSamples / float64(h.Sampling)
				}
				if props.Duration > 0 {
					props.Bitrate = int(float64(size) * 8 / 1000 / props.Duration)
				}
				props.VBR = tag == "Xing"
				return props
			}
		}
	}

	if h.Bitrate > 0 && h.Sampling > 0 {
		props.Duration = float64(len(body)-offset) * 8 / float64(h.Bitrate) / 1000
	}
	return props
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
