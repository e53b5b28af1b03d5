// Package apetag implements the APEv2 tag format (spec §4.K): a 32-byte
// footer at end-of-file (optionally mirrored by a matching header), and an
// item list of key+typed-value pairs. Used both as a standalone trailer
// (Musepack, WavPack) and appended after the audio body of other
// containers. No teacher equivalent (dhowden/tag has no APE support);
// grounded directly on spec.md §4.K and built in the teacher's idiom
// (Builder/View codec, metaerr error taxonomy).
package apetag

import (
	"strings"

	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

const (
	Magic      = "APETAGEX"
	FooterSize = 32

	Version1000 uint32 = 1000
	Version2000 uint32 = 2000
)

// ItemValueType is APEv2's 2-bit item value-type tag (spec §4.K).
type ItemValueType uint32

const (
	ValueUTF8     ItemValueType = 0
	ValueBinary   ItemValueType = 1
	ValueExternal ItemValueType = 2
)

// globalFlags bit positions within the 32-bit LE flags field (spec §4.K).
const (
	flagHasHeader uint32 = 1 << 31
	flagIsHeader  uint32 = 1 << 29
	flagReadOnly  uint32 = 1 << 30
)

// Item is one APEv2 tag entry.
type Item struct {
	Key       string
	ValueType ItemValueType
	ReadOnly  bool
	Value     []byte // UTF-8 text, binary blob, or external-reference text per ValueType
}

// Tag is a decoded APEv2 tag: its version and item list.
type Tag struct {
	Version   uint32
	HasHeader bool
	Items     []*Item
}

// Decode parses an APEv2 tag out of b, where b ends exactly at the
// footer (typically the trailing 32+ bytes of a file). It walks backward
// from the footer to find the item list. A header in front of the items is
// only noted through the footer's has-header bit (Tag.HasHeader); its
// bytes are not read.
func Decode(b []byte) (*Tag, error) {
	if len(b) < FooterSize {
		return nil, metaerr.New(metaerr.TruncatedInput, "APEv2 footer")
	}
	footer := b[len(b)-FooterSize:]
	if string(footer[0:8]) != Magic {
		return nil, metaerr.New(metaerr.BadMagic, "expected APETAGEX footer magic")
	}

	version, err := binutil.LE32(footer[8:12])
	if err != nil {
		return nil, err
	}
	tagSize, err := binutil.LE32(footer[12:16])
	if err != nil {
		return nil, err
	}
	itemCount, err := binutil.LE32(footer[16:20])
	if err != nil {
		return nil, err
	}
	flags, err := binutil.LE32(footer[20:24])
	if err != nil {
		return nil, err
	}

	// tagSize covers the item list plus this footer, excluding any header.
	itemsStart := len(b) - int(tagSize)
	if itemsStart < 0 || itemsStart > len(b)-FooterSize {
		return nil, metaerr.New(metaerr.InvalidField, "APEv2 tag size out of range")
	}
	itemsEnd := len(b) - FooterSize

	items, err := decodeItems(b[itemsStart:itemsEnd], int(itemCount))
	if err != nil {
		return nil, err
	}

	return &Tag{
		Version:   version,
		HasHeader: flags&flagHasHeader != 0,
		Items:     items,
	}, nil
}

func decodeItems(b []byte, count int) ([]*Item, error) {
	var items []*Item
	offset := 0
	for i := 0; i < count; i++ {
		if offset+8 > len(b) {
			return nil, metaerr.New(metaerr.TruncatedInput, "APEv2 item header")
		}
		valueSize, err := binutil.LE32(b[offset : offset+4])
		if err != nil {
			return nil, err
		}
		itemFlags, err := binutil.LE32(b[offset+4 : offset+8])
		if err != nil {
			return nil, err
		}
		offset += 8

		keyEnd := strings.IndexByte(string(b[offset:]), 0)
		if keyEnd < 0 {
			return nil, metaerr.New(metaerr.TruncatedInput, "APEv2 item key terminator")
		}
		key := string(b[offset : offset+keyEnd])
		offset += keyEnd + 1

		if offset+int(valueSize) > len(b) {
			return nil, metaerr.New(metaerr.TruncatedInput, "APEv2 item value")
		}
		value := append([]byte(nil), b[offset:offset+int(valueSize)]...)
		offset += int(valueSize)

		items = append(items, &Item{
			Key:       key,
			ValueType: ItemValueType((itemFlags >> 1) & 0x3),
			ReadOnly:  itemFlags&1 != 0,
			Value:     value,
		})
	}
	return items, nil
}

// Encode renders a Tag to its wire form: item list, footer, and (when
// t.HasHeader) a matching mirrored header in front. tagSize in both the
// header and footer excludes the header itself, matching spec §4.K.
func Encode(t *Tag) []byte {
	itemsBody := encodeItems(t.Items)
	tagSize := uint32(len(itemsBody) + FooterSize)

	out := binutil.Acquire()
	defer out.Release()

	if t.HasHeader {
		writeFooterOrHeader(out, t, tagSize, true)
	}
	out.Bytes(itemsBody)
	writeFooterOrHeader(out, t, tagSize, false)

	return out.Finalize().Bytes()
}

func writeFooterOrHeader(b *binutil.Builder, t *Tag, tagSize uint32, isHeader bool) {
	flags := uint32(0)
	if t.HasHeader {
		flags |= flagHasHeader
	}
	if isHeader {
		flags |= flagIsHeader
	}

	b.Bytes([]byte(Magic))
	b.LE32(t.Version)
	b.LE32(tagSize)
	b.LE32(uint32(len(t.Items)))
	b.LE32(flags)
	b.Zeros(8) // reserved
}

func encodeItems(items []*Item) []byte {
	b := binutil.Acquire()
	defer b.Release()
	for _, it := range items {
		b.LE32(uint32(len(it.Value)))
		flags := uint32(it.ValueType) << 1
		if it.ReadOnly {
			flags |= 1
		}
		b.LE32(flags)
		b.Bytes([]byte(it.Key))
		b.Byte(0)
		b.Bytes(it.Value)
	}
	return b.Finalize().Bytes()
}

// Get returns the first item's value as text, decoded as UTF-8, or "" if
// absent. Intended for ValueUTF8 items; binary/external items should read
// Value directly.
func (t *Tag) Get(key string) string {
	for _, it := range t.Items {
		if strings.EqualFold(it.Key, key) {
			s, _ := binutil.DecodeString(binutil.UTF8, it.Value)
			return s
		}
	}
	return ""
}

// Set replaces (or appends) a UTF-8 text item under key.
func (t *Tag) Set(key, value string) {
	enc, _ := binutil.EncodeString(binutil.UTF8, value)
	for _, it := range t.Items {
		if strings.EqualFold(it.Key, key) {
			it.Value = enc
			it.ValueType = ValueUTF8
			return
		}
	}
	t.Items = append(t.Items, &Item{Key: key, ValueType: ValueUTF8, Value: enc})
}
