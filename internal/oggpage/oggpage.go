// Package oggpage implements the Ogg page/segment framing layer shared by
// Vorbis, Opus, and FLAC-in-Ogg (spec §4.G). Grounded on the teacher's
// ogg.go, which walks this structure inline while skipping straight to the
// Vorbis comment packet; generalized here into a reusable page reader/
// writer plus packet reassembly, since the expanded spec needs general
// packet boundaries (any codec's header packets), not just Vorbis's.
package oggpage

import (
	"github.com/corvidaudio/metatag/internal/binutil"
	"github.com/corvidaudio/metatag/internal/metaerr"
)

const (
	magic            = "OggS"
	fixedHeaderSize  = 27 // through the segment-count byte, before the segment table
	headerContinued  = 0x01
	headerBOS        = 0x02
	headerEOS        = 0x04
	maxSegments      = 255
	maxSegmentLength = 255
)

// Page is one decoded Ogg page (spec §4.G Page header).
type Page struct {
	Version        byte
	Continued      bool
	BOS            bool
	EOS            bool
	GranulePos     uint64
	SerialNumber   uint32
	SequenceNumber uint32
	CRC            uint32
	Segments       []byte // raw lacing values
	Payload        []byte
}

// ReadPage parses one page starting at the beginning of b, returning the
// page and the number of bytes it consumed.
func ReadPage(b []byte) (*Page, int, error) {
	if len(b) < fixedHeaderSize {
		return nil, 0, metaerr.New(metaerr.TruncatedInput, "ogg page header")
	}
	if string(b[0:4]) != magic {
		return nil, 0, metaerr.New(metaerr.BadMagic, "expected 'OggS'")
	}

	version := b[4]
	headerType := b[5]
	granule, err := binutil.LE64(b[6:14])
	if err != nil {
		return nil, 0, err
	}
	serial, err := binutil.LE32(b[14:18])
	if err != nil {
		return nil, 0, err
	}
	seq, err := binutil.LE32(b[18:22])
	if err != nil {
		return nil, 0, err
	}
	crc, err := binutil.LE32(b[22:26])
	if err != nil {
		return nil, 0, err
	}
	segCount := int(b[26])

	if len(b) < fixedHeaderSize+segCount {
		return nil, 0, metaerr.New(metaerr.TruncatedInput, "ogg segment table")
	}
	segments := b[fixedHeaderSize : fixedHeaderSize+segCount]

	payloadLen := 0
	for _, s := range segments {
		payloadLen += int(s)
	}

	payloadStart := fixedHeaderSize + segCount
	payloadEnd := payloadStart + payloadLen
	if payloadEnd > len(b) {
		return nil, 0, metaerr.New(metaerr.TruncatedInput, "ogg page payload")
	}

	p := &Page{
		Version:        version,
		Continued:      headerType&headerContinued != 0,
		BOS:            headerType&headerBOS != 0,
		EOS:            headerType&headerEOS != 0,
		GranulePos:     granule,
		SerialNumber:   serial,
		SequenceNumber: seq,
		CRC:            crc,
		Segments:       append([]byte(nil), segments...),
		Payload:        append([]byte(nil), b[payloadStart:payloadEnd]...),
	}
	return p, payloadEnd, nil
}

// segmentTableFor computes lacing values for a payload of length n,
// per Ogg's framing rule: every full 255-byte segment is followed by one
// more segment (possibly zero-length) whose value is < 255.
func segmentTableFor(n int) []byte {
	var segs []byte
	for n >= maxSegmentLength {
		segs = append(segs, maxSegmentLength)
		n -= maxSegmentLength
	}
	segs = append(segs, byte(n))
	return segs
}

// Render serializes p into its wire bytes, recomputing the CRC over the
// full page with the CRC field zeroed (spec §4.G).
func (p *Page) Render() binutil.View {
	if p.Segments == nil {
		p.Segments = segmentTableFor(len(p.Payload))
	}

	b := binutil.Acquire()
	defer b.Release()

	b.Bytes([]byte(magic))
	b.Byte(p.Version)

	var headerType byte
	if p.Continued {
		headerType |= headerContinued
	}
	if p.BOS {
		headerType |= headerBOS
	}
	if p.EOS {
		headerType |= headerEOS
	}
	b.Byte(headerType)

	b.LE64(p.GranulePos)
	b.LE32(p.SerialNumber)
	b.LE32(p.SequenceNumber)
	b.LE32(0) // CRC placeholder, patched below
	b.Byte(byte(len(p.Segments)))
	b.Bytes(p.Segments)
	b.Bytes(p.Payload)

	raw := b.Finalize().Bytes()
	crc := binutil.CRC32Ogg(raw)
	raw[22] = byte(crc)
	raw[23] = byte(crc >> 8)
	raw[24] = byte(crc >> 16)
	raw[25] = byte(crc >> 24)

	return binutil.NewView(raw)
}

// DefaultMaxPages bounds how many pages ReadPages will walk before giving
// up, guarding against a corrupt stream whose pages never terminate (spec
// §4.G "safety caps").
const DefaultMaxPages = 100_000

// ReadPages walks consecutive pages from the start of b until maxPages is
// reached, b is exhausted, or a page fails to parse.
func ReadPages(b []byte, maxPages int) ([]*Page, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	var pages []*Page
	offset := 0
	for offset < len(b) && len(pages) < maxPages {
		p, n, err := ReadPage(b[offset:])
		if err != nil {
			break
		}
		pages = append(pages, p)
		offset += n
	}
	return pages, nil
}

// ReassemblePackets concatenates the payloads of a run of pages sharing one
// logical packet stream, following the continuation flag: a page whose
// first lacing value continues the prior packet has its header-type
// continuation bit set (spec §4.G). It returns the boundaries of each
// completed packet found across pages.
func ReassemblePackets(pages []*Page) [][]byte {
	var packets [][]byte
	var current []byte

	for _, p := range pages {
		off := 0
		for i, seg := range p.Segments {
			end := off + int(seg)
			if end > len(p.Payload) {
				end = len(p.Payload)
			}
			current = append(current, p.Payload[off:end]...)
			off = end
			lastInPage := i == len(p.Segments)-1
			if seg < maxSegmentLength {
				packets = append(packets, current)
				current = nil
			} else if lastInPage {
				// full-length final segment: packet continues onto the next page
			}
		}
	}
	if len(current) > 0 {
		packets = append(packets, current)
	}
	return packets
}
