// Package container implements the per-container file classes and
// recognition/dispatch layer (spec §4.L, §4.M): MP3, FLAC, Ogg
// (Vorbis/Opus), MP4, WAV, AIFF/AIFC, DSF, DFF and Musepack, each exposing
// its tag(s) as mutable tagmodel.Tag references and its stream properties
// as an immutable AudioProperties snapshot. Grounded on the teacher's root
// tag.go (ReadFrom dispatch and the read-only Metadata interface it
// generalizes) plus mp3.go/flac.go/ogg.go/mp4.go for the per-format parsing
// this layer now also renders back out.
package container

import (
	"context"

	"github.com/corvidaudio/metatag/internal/metaerr"
	"github.com/corvidaudio/metatag/internal/vfs"
	"github.com/corvidaudio/metatag/tagmodel"
)

// Format identifies a recognized container kind (spec §4.M).
type Format string

const (
	FormatMP3      Format = "mp3"
	FormatFLAC     Format = "flac"
	FormatOggVorbis Format = "ogg_vorbis"
	FormatOggOpus  Format = "ogg_opus"
	FormatMP4      Format = "mp4"
	FormatWAV      Format = "wav"
	FormatAIFF     Format = "aiff"
	FormatDSF      Format = "dsf"
	FormatDFF      Format = "dff"
	FormatMusepackSV7 Format = "musepack_sv7"
	FormatMusepackSV8 Format = "musepack_sv8"
	FormatAPE      Format = "ape"
)

// AudioProperties is the immutable stream-property snapshot every file
// class exposes alongside its tag(s) (spec §4.L). Not every field applies
// to every format; zero means "not derived for this container".
type AudioProperties struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	Bitrate       int // kbps; 0 when not computed (e.g. lossless containers)
	Duration      float64 // seconds
	VBR           bool
}

// MediaFile is the common shape every per-container file class implements
// (spec §4.L): its tag set, its derived audio properties, and a Render
// back to a complete byte image of the file.
type MediaFile interface {
	Format() Format
	Tags() []tagmodel.Tag
	AudioProperties() AudioProperties
	Render() ([]byte, error)
}

// OpenResult is the spec's MediaFileOpenResult (§4.M): the recognized
// format, the opened file object, its audio properties, and an error when
// recognition or parsing failed.
type OpenResult struct {
	Format          Format
	File            MediaFile
	AudioProperties AudioProperties
	Err             error
}

// Open recognizes and decodes b per the magic-sniff priority order of spec
// §4.M, falling back to extension-hint tie-breaking via hint (a lowercase
// extension without the dot, e.g. "mp3"; pass "" when unavailable).
func Open(b []byte, hint string) OpenResult {
	format, ok := Detect(b, hint)
	if !ok {
		return OpenResult{Err: metaerr.New(metaerr.BadMagic, "unrecognized container format")}
	}

	var (
		file MediaFile
		err  error
	)
	switch format {
	case FormatMP3:
		file, err = ReadMP3(b)
	case FormatFLAC:
		file, err = ReadFLAC(b)
	case FormatOggVorbis, FormatOggOpus:
		file, err = ReadOgg(b)
	case FormatMP4:
		file, err = ReadMP4(b)
	case FormatWAV:
		file, err = ReadWAV(b)
	case FormatAIFF:
		file, err = ReadAIFF(b)
	case FormatDSF:
		file, err = ReadDSF(b)
	case FormatDFF:
		file, err = ReadDFF(b)
	case FormatMusepackSV7, FormatMusepackSV8:
		file, err = ReadMusepack(b)
	case FormatAPE:
		file, err = ReadAPEFile(b)
	default:
		err = metaerr.New(metaerr.UnsupportedVersion, "recognized but unimplemented format")
	}
	if err != nil {
		return OpenResult{Format: format, Err: err}
	}
	return OpenResult{Format: format, File: file, AudioProperties: file.AudioProperties()}
}

// Detect sniffs b's leading bytes per spec §4.M's priority order, using
// hint (a lowercase extension, no dot) only to break ties a magic sniff
// alone can't resolve (a bare MPEG frame sync with no ID3 prefix).
func Detect(b []byte, hint string) (Format, bool) {
	if len(b) >= 3 && string(b[0:3]) == "ID3" {
		return FormatMP3, true
	}
	if len(b) >= 4 && string(b[0:4]) == "fLaC" {
		return FormatFLAC, true
	}
	if len(b) >= 4 && string(b[0:4]) == "OggS" {
		return detectOggCodec(b)
	}
	if len(b) >= 8 && string(b[4:8]) == "ftyp" {
		return FormatMP4, true
	}
	if len(b) >= 12 && string(b[0:4]) == "RIFF" && string(b[8:12]) == "WAVE" {
		return FormatWAV, true
	}
	if len(b) >= 12 && string(b[0:4]) == "FORM" && (string(b[8:12]) == "AIFF" || string(b[8:12]) == "AIFC") {
		return FormatAIFF, true
	}
	if len(b) >= 4 && string(b[0:4]) == "DSD " {
		return FormatDSF, true
	}
	if len(b) >= 16 && string(b[0:4]) == "FRM8" && string(b[12:16]) == "DSD " {
		return FormatDFF, true
	}
	if len(b) >= 3 && string(b[0:3]) == "MP+" {
		return FormatMusepackSV7, true
	}
	if len(b) >= 4 && string(b[0:4]) == "MPCK" {
		return FormatMusepackSV8, true
	}
	if len(b) >= 8 && string(b[0:8]) == "APETAGEX" {
		return FormatAPE, true
	}
	// Raw MPEG audio with no ID3v2 prefix: only trust the frame sync when
	// the extension hint agrees, since a bare 0xFF sync is common noise.
	if hint == "mp3" && len(b) >= 2 && b[0] == 0xFF && b[1]&0xE0 == 0xE0 {
		return FormatMP3, true
	}
	return "", false
}

// detectOggCodec peeks the first page's payload to tell Vorbis and Opus
// apart (spec §4.M). FLAC-in-Ogg is not told apart: any Ogg stream without
// a Vorbis or Opus identification magic is reported as FormatOggVorbis.
func detectOggCodec(b []byte) (Format, bool) {
	const headerSearchLimit = 64
	end := len(b)
	if end > headerSearchLimit {
		end = headerSearchLimit
	}
	window := b[:end]
	switch {
	case containsAt(window, []byte("\x01vorbis")):
		return FormatOggVorbis, true
	case containsAt(window, []byte("OpusHead")):
		return FormatOggOpus, true
	default:
		return FormatOggVorbis, len(b) >= 4 && string(b[0:4]) == "OggS"
	}
}

func containsAt(haystack, needle []byte) bool {
	if len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// ReadFromFile opens path through fs and parses it via Open, using path's
// extension as Detect's tie-break hint.
func ReadFromFile(path string, fs vfs.FS) OpenResult {
	b, err := fs.ReadAll(path)
	if err != nil {
		return OpenResult{Err: metaerr.Wrap(metaerr.IoFailure, "reading file", err)}
	}
	return Open(b, extensionHint(path))
}

// ReadFromFileAsync is as ReadFromFile but honors ctx cancellation before
// the read begins (spec §5 Suspension points).
func ReadFromFileAsync(ctx context.Context, path string, fs vfs.FS) OpenResult {
	select {
	case <-ctx.Done():
		return OpenResult{Err: vfs.ErrCancelled}
	default:
	}
	return ReadFromFile(path, fs)
}

// SaveToFile renders file and atomically writes it to path through fs.
func SaveToFile(file MediaFile, path string, fs vfs.FS) vfs.WriteResult {
	b, err := file.Render()
	if err != nil {
		return vfs.WriteResult{Error: err}
	}
	return vfs.Write(fs, path, b)
}

// SaveToFileAsync is as SaveToFile but honors ctx cancellation cooperatively
// through the underlying atomic write (spec §5 Cancellation).
func SaveToFileAsync(ctx context.Context, file MediaFile, path string, fs vfs.FS) vfs.WriteResult {
	b, err := file.Render()
	if err != nil {
		return vfs.WriteResult{Error: err}
	}
	return vfs.WriteAsync(ctx, fs, path, b)
}

func extensionHint(path string) string {
	dot := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			dot = i
			break
		}
		if path[i] == '/' {
			break
		}
	}
	if dot < 0 {
		return ""
	}
	ext := path[dot+1:]
	out := make([]byte, len(ext))
	for i := 0; i < len(ext); i++ {
		c := ext[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
