package binutil

// oggTable is the CRC-32 table Ogg pages use: polynomial 0x04C11DB7
// processed MSB-first (non-reflected), initial value 0, no final XOR,
// computed with the CRC field itself zeroed. This is NOT Go's
// hash/crc32.IEEE table, which is the reflected (LSB-first) form of a
// different common CRC-32 variant and produces a different checksum on
// identical input; hand-rolled here the same way crc8Table/crc16Table
// below are, since no pack example imports a library exposing this
// non-reflected variant.
var oggTable = func() [256]uint32 {
	var t [256]uint32
	for i := 0; i < 256; i++ {
		r := uint32(i) << 24
		for b := 0; b < 8; b++ {
			if r&0x80000000 != 0 {
				r = (r << 1) ^ 0x04C11DB7
			} else {
				r <<= 1
			}
		}
		t[i] = r
	}
	return t
}()

// CRC32Ogg computes the Ogg page checksum: CRC-32 (poly 0x04C11DB7, MSB
// first, init 0, no final XOR) over page exactly as given; the caller
// passes the page with its CRC field already zeroed.
func CRC32Ogg(page []byte) uint32 {
	var crc uint32
	for _, x := range page {
		crc = (crc << 8) ^ oggTable[byte(crc>>24)^x]
	}
	return crc
}

// crc8Table is the standard CRC-8/ATM (polynomial 0x07) table. No decoder
// in this module calls CRC8; the Musepack SV8 packet reader does not
// verify a checksum.
var crc8Table = func() [256]byte {
	var t [256]byte
	for i := 0; i < 256; i++ {
		c := byte(i)
		for b := 0; b < 8; b++ {
			if c&0x80 != 0 {
				c = (c << 1) ^ 0x07
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return t
}()

// CRC8 computes the CRC-8 checksum over b.
func CRC8(b []byte) byte {
	var c byte
	for _, x := range b {
		c = crc8Table[c^x]
	}
	return c
}

// crc16Table is the CRC-16/CCITT-FALSE table (polynomial 0x1021, init
// 0xFFFF), no pack dependency implements this narrow a checksum so it is
// hand-rolled here (see DESIGN.md).
var crc16Table = func() [256]uint16 {
	var t [256]uint16
	for i := 0; i < 256; i++ {
		c := uint16(i) << 8
		for b := 0; b < 8; b++ {
			if c&0x8000 != 0 {
				c = (c << 1) ^ 0x1021
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return t
}()

// CRC16CCITT computes the CRC-16/CCITT checksum over b.
func CRC16CCITT(b []byte) uint16 {
	c := uint16(0xFFFF)
	for _, x := range b {
		c = (c << 8) ^ crc16Table[byte(c>>8)^x]
	}
	return c
}
