package mp4box

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

// DataClass is the iTunes "data" atom's type-indicator class (spec §4.I),
// grounded on the teacher's atomTypes map (mp4.go).
type DataClass uint32

const (
	ClassImplicit DataClass = 0
	ClassText     DataClass = 1
	ClassJPEG     DataClass = 13
	ClassPNG      DataClass = 14
	ClassUint8    DataClass = 21
)

// ItemValue is one decoded ilst item's "data" sub-atom payload.
type ItemValue struct {
	Class DataClass
	Raw   []byte // bytes following the 8-byte version/flags+locale header
}

// DecodeDataAtom parses a standard iTunes "data" sub-atom body: 1-byte
// version + 3-byte class + 4-byte locale (usually zero) + payload.
func DecodeDataAtom(payload []byte) (*ItemValue, error) {
	if len(payload) < 8 {
		return nil, metaerr.New(metaerr.TruncatedInput, "data atom too short")
	}
	class, err := binutil.BE32(payload[0:4])
	if err != nil {
		return nil, err
	}
	return &ItemValue{Class: DataClass(class & 0x00FFFFFF), Raw: payload[8:]}, nil
}

// EncodeDataAtom renders an ItemValue back into a "data" sub-atom body.
func EncodeDataAtom(v *ItemValue) []byte {
	b := binutil.Acquire()
	defer b.Release()
	b.BE32(uint32(v.Class))
	b.BE32(0) // locale, always zero on write
	b.Bytes(v.Raw)
	return b.Finalize().Bytes()
}

// Text decodes v.Raw as UTF-8 text.
func (v *ItemValue) Text() string {
	s, _ := binutil.DecodeString(binutil.UTF8, v.Raw)
	return s
}

// TextValue builds an ItemValue holding UTF-8 text.
func TextValue(s string) *ItemValue {
	enc, _ := binutil.EncodeString(binutil.UTF8, s)
	return &ItemValue{Class: ClassText, Raw: enc}
}

// TrackDisk decodes a trkn/disk item body: 2-byte pad, 2-byte index,
// 2-byte total, 2-byte pad (spec §4.I).
func TrackDisk(raw []byte) (index, total int) {
	if len(raw) < 6 {
		return 0, 0
	}
	return int(raw[3]), int(raw[5])
}

// EncodeTrackDisk renders the 8-byte trkn/disk payload.
func EncodeTrackDisk(index, total int) []byte {
	return []byte{0, 0, 0, byte(index), 0, byte(total), 0, 0}
}

// Bool decodes a single-byte boolean atom (cpil).
func Bool(raw []byte) bool {
	return len(raw) > 0 && raw[0] != 0
}

// EncodeBool renders a single-byte boolean payload.
func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

// FreeformItem is one "----" (mean/name/data) custom metadata item (spec
// §4.I), grounded on the teacher's readCustomAtom (mp4.go).
type FreeformItem struct {
	Mean string
	Name string
	Data [][]byte
}

// DecodeFreeform parses a "----" box's children into a FreeformItem, or
// returns ok=false if it isn't a well-formed com.apple.iTunes triple.
func DecodeFreeform(children []*Box) (FreeformItem, bool) {
	var item FreeformItem
	var sawData bool
	for _, c := range children {
		switch c.Type {
		case "mean":
			if len(c.Payload) >= 4 {
				item.Mean = string(c.Payload[4:])
			}
		case "name":
			if len(c.Payload) >= 4 {
				item.Name = string(c.Payload[4:])
			}
		case "data":
			if len(c.Payload) >= 8 {
				item.Data = append(item.Data, c.Payload[8:])
				sawData = true
			}
		}
	}
	if item.Mean != "com.apple.iTunes" || item.Name == "" || !sawData {
		return FreeformItem{}, false
	}
	return item, true
}

// EncodeFreeform renders a FreeformItem back into a "----" box's children.
func EncodeFreeform(item FreeformItem) []*Box {
	meanBody := append([]byte{0, 0, 0, 0}, []byte(item.Mean)...)
	nameBody := append([]byte{0, 0, 0, 0}, []byte(item.Name)...)

	boxes := []*Box{
		{Type: "mean", Payload: meanBody},
		{Type: "name", Payload: nameBody},
	}
	for _, d := range item.Data {
		dataBody := append([]byte{0, 0, 0, 1, 0, 0, 0, 0}, d...) // class=text, locale=0
		boxes = append(boxes, &Box{Type: "data", Payload: dataBody})
	}
	return boxes
}
