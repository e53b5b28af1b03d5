package container

import (
	"context"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
	"github.com/corvidaudio/metatag/internal/mp4box"
	"github.com/corvidaudio/metatag/internal/vfs"
	"github.com/corvidaudio/metatag/tagmodel"
)

// audioSampleEntryHeaderLen is the fixed portion of an AudioSampleEntryV0
// preceding its codec-specific child boxes: 6 reserved + 2
// data_reference_index + 8 reserved + 2 channel_count + 2 sample_size +
// 2 pre_defined + 2 reserved + 4 sample_rate (spec §4.I stsd rule).
const audioSampleEntryHeaderLen = 28

// MP4File is the MP4/M4A file class (spec §4.L, §4.I): the ISO-BMFF box
// tree with its iTunes "ilst" metadata atoms. Grounded on the teacher's
// mp4.go (the same moov/udta/meta/ilst and stsd/mvhd navigation, there
// read-only) via internal/mp4box.
type MP4File struct {
	boxes  []*mp4box.Box
	ilst   *mp4box.Box // nil if the file carries no metadata atom chain yet
	udta   *mp4box.Box
	meta   *mp4box.Box
	moov   *mp4box.Box
	tag    *tagmodel.Mp4IlstTag
	audio  AudioProperties
}

// ReadMP4 parses a complete MP4/M4A file image.
func ReadMP4(b []byte) (*MP4File, error) {
	boxes, err := mp4box.Decode(b)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.DecodingFailed, "decoding mp4 box tree", err)
	}

	moov := mp4box.Find(boxes, "moov")
	if moov == nil {
		return nil, metaerr.New(metaerr.InvalidField, "missing moov box")
	}

	f := &MP4File{boxes: boxes, moov: moov}

	var ilstItems []*mp4box.Box
	if udta := mp4box.Find(moov.Children, "udta"); udta != nil {
		f.udta = udta
		if meta := mp4box.Find(udta.Children, "meta"); meta != nil {
			f.meta = meta
			if ilst := mp4box.Find(meta.Children, "ilst"); ilst != nil {
				f.ilst = ilst
				ilstItems = ilst.Children
			}
		}
	}
	f.tag = tagmodel.NewMp4IlstTag(ilstItems)

	f.audio = parseMP4AudioProperties(moov)

	return f, nil
}

// parseMP4AudioProperties derives duration from mvhd (falling back to the
// audio track's mdhd when mvhd's timescale is the degenerate 1 Hz case),
// and sample rate/channels/bits-per-sample/bitrate from the first audio
// track's sample description (spec §4.I Audio properties).
func parseMP4AudioProperties(moov *mp4box.Box) AudioProperties {
	var audio AudioProperties

	mvhdTimescale, mvhdDuration := parseMvhd(mp4box.Find(moov.Children, "mvhd"))

	for _, trak := range moov.Children {
		if trak.Type != "trak" {
			continue
		}
		mdia := mp4box.Find(trak.Children, "mdia")
		if mdia == nil {
			continue
		}
		minf := mp4box.Find(mdia.Children, "minf")
		if minf == nil {
			continue
		}
		stbl := mp4box.Find(minf.Children, "stbl")
		if stbl == nil {
			continue
		}
		stsd := mp4box.Find(stbl.Children, "stsd")
		if stsd == nil || len(stsd.Payload) < 8 {
			continue
		}
		entry, err := mp4box.Decode(stsd.Payload[8:])
		if err != nil || len(entry) == 0 {
			continue
		}
		sampleEntry := entry[0]
		if !isAudioCodec(sampleEntry.Type) {
			continue
		}

		audio.SampleRate, audio.Channels, audio.BitsPerSample, audio.Bitrate = parseAudioSampleEntry(sampleEntry)

		mdhdTimescale, mdhdDuration := parseMdhd(mp4box.Find(mdia.Children, "mdhd"))
		timescale, duration := mvhdTimescale, mvhdDuration
		if timescale <= 1 && mdhdTimescale > 0 {
			timescale, duration = mdhdTimescale, mdhdDuration
		}
		if audio.SampleRate == 0 && mdhdTimescale > 0 {
			audio.SampleRate = mdhdTimescale
		}
		if timescale > 0 {
			audio.Duration = float64(duration) / float64(timescale)
		}
		break
	}

	return audio
}

func isAudioCodec(typ string) bool {
	switch typ {
	case "mp4a", "alac", "fLaC", "Opus", "ac-3", "ec-3":
		return true
	}
	return false
}

func parseMvhd(mvhd *mp4box.Box) (timescale int, duration uint64) {
	if mvhd == nil || len(mvhd.Payload) < 4 {
		return 0, 0
	}
	p := mvhd.Payload
	version := p[0]
	if version == 1 && len(p) >= 32 {
		ts, _ := binutil.BE32(p[20:24])
		dur, _ := binutil.BE64(p[24:32])
		return int(ts), dur
	}
	if len(p) >= 20 {
		ts, _ := binutil.BE32(p[12:16])
		dur, _ := binutil.BE32(p[16:20])
		return int(ts), uint64(dur)
	}
	return 0, 0
}

func parseMdhd(mdhd *mp4box.Box) (timescale int, duration uint64) {
	if mdhd == nil || len(mdhd.Payload) < 4 {
		return 0, 0
	}
	p := mdhd.Payload
	version := p[0]
	if version == 1 && len(p) >= 32 {
		ts, _ := binutil.BE32(p[20:24])
		dur, _ := binutil.BE64(p[24:32])
		return int(ts), dur
	}
	if len(p) >= 20 {
		ts, _ := binutil.BE32(p[12:16])
		dur, _ := binutil.BE32(p[16:20])
		return int(ts), uint64(dur)
	}
	return 0, 0
}

// parseAudioSampleEntry reads the fixed AudioSampleEntryV0 fields and, when
// present, a codec-specific child box (esds for AAC, alac for ALAC) for
// average bitrate.
func parseAudioSampleEntry(entry *mp4box.Box) (sampleRate, channels, bits, bitrate int) {
	p := entry.Payload
	if len(p) < audioSampleEntryHeaderLen {
		return
	}
	ch, _ := binutil.BE16(p[16:18])
	sz, _ := binutil.BE16(p[18:20])
	sr, _ := binutil.BE32(p[24:28])
	channels = int(ch)
	bits = int(sz)
	sampleRate = int(sr >> 16)

	if len(p) > audioSampleEntryHeaderLen {
		children, err := mp4box.Decode(p[audioSampleEntryHeaderLen:])
		if err == nil {
			if esds := mp4box.Find(children, "esds"); esds != nil {
				bitrate = parseEsdsBitrate(esds.Payload)
			}
			if alac := mp4box.Find(children, "alac"); alac != nil {
				bitrate = parseAlacBitrate(alac.Payload)
			}
		}
	}
	return
}

// parseEsdsBitrate scans an esds FullBox payload for the DecoderConfigDescriptor
// (tag 0x04) and reads its average-bitrate field. Assumes the common
// single-byte descriptor-length encoding (no multi-byte continuation),
// which covers the overwhelming majority of AAC files in practice.
func parseEsdsBitrate(payload []byte) int {
	for i := 0; i+2 < len(payload); i++ {
		if payload[i] != 0x04 {
			continue
		}
		length := int(payload[i+1])
		start := i + 2
		if length < 13 || start+13 > len(payload) {
			continue
		}
		avg := be32(payload[start+9 : start+13])
		if avg > 0 {
			return int(avg) / 1000
		}
	}
	return 0
}

// parseAlacBitrate reads the average bitrate field from an ALAC magic
// cookie (spec §4.I: 36-byte structure, avgBitRate at offset 24).
func parseAlacBitrate(payload []byte) int {
	body := payload
	if len(body) >= 4 { // skip FullBox version+flags when present
		body = body[4:]
	}
	if len(body) < 28 {
		return 0
	}
	avg := be32(body[24:28])
	return int(avg) / 1000
}

// TryReadMP4 is ReadMP4 with error swallowed to an ok flag.
func TryReadMP4(b []byte) (*MP4File, bool) {
	f, err := ReadMP4(b)
	if err != nil {
		return nil, false
	}
	return f, true
}

// ReadMP4FromFile reads and parses path through fs.
func ReadMP4FromFile(path string, fs vfs.FS) (*MP4File, error) {
	b, err := fs.ReadAll(path)
	if err != nil {
		return nil, metaerr.Wrap(metaerr.IoFailure, "reading file", err)
	}
	return ReadMP4(b)
}

// ReadMP4FromFileAsync is ReadMP4FromFile honoring ctx cancellation before
// the read begins.
func ReadMP4FromFileAsync(ctx context.Context, path string, fs vfs.FS) (*MP4File, error) {
	select {
	case <-ctx.Done():
		return nil, vfs.ErrCancelled
	default:
	}
	return ReadMP4FromFile(path, fs)
}

func (f *MP4File) Format() Format { return FormatMP4 }

func (f *MP4File) AudioProperties() AudioProperties { return f.audio }

func (f *MP4File) Tags() []tagmodel.Tag {
	return []tagmodel.Tag{f.tag}
}

// Render re-encodes the ilst child list from current tag state, creating
// the udta/meta/ilst chain under moov when the file didn't already carry
// one, then re-serializes the whole box tree bottom-up (spec §4.I Render).
func (f *MP4File) Render() ([]byte, error) {
	view, err := f.tag.Render()
	if err != nil {
		return nil, err
	}
	items, err := mp4box.Decode(view.Bytes())
	if err != nil {
		return nil, metaerr.Wrap(metaerr.EncodingFailed, "re-decoding rendered ilst items", err)
	}

	if f.ilst != nil {
		f.ilst.Children = items
	} else {
		f.ilst = &mp4box.Box{Type: "ilst", Children: items}
		if f.meta == nil {
			f.meta = &mp4box.Box{Type: "meta", Children: []*mp4box.Box{f.ilst}}
		} else {
			f.meta.Children = append(f.meta.Children, f.ilst)
		}
		if f.udta == nil {
			f.udta = &mp4box.Box{Type: "udta", Children: []*mp4box.Box{f.meta}}
			f.moov.Children = append(f.moov.Children, f.udta)
		} else if mp4box.Find(f.udta.Children, "meta") == nil {
			f.udta.Children = append(f.udta.Children, f.meta)
		}
	}

	return mp4box.Encode(f.boxes), nil
}

func (f *MP4File) SaveToFile(path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFile(f, path, fs)
}

func (f *MP4File) SaveToFileAsync(ctx context.Context, path string, fs vfs.FS) vfs.WriteResult {
	return SaveToFileAsync(ctx, f, path, fs)
}

// audioBytes returns the `mdat` box payload, untouched by tag edits.
func (f *MP4File) audioBytes() []byte {
	if b := mp4box.Find(f.boxes, "mdat"); b != nil {
		return b.Payload
	}
	return nil
}
