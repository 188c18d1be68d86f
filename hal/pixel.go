package hal

import "image/color"

// packRGB565 truncates c to 16 bits. Alpha is ignored.
func packRGB565(c color.RGBA) uint16 {
	return uint16(c.R&0xF8)<<8 | uint16(c.G&0xFC)<<3 | uint16(c.B)>>3
}

// unpackRGB565 widens p to 8 bits per channel by replicating the high bits
// into the low ones, so full-scale channels stay 0xFF.
func unpackRGB565(p uint16) color.RGBA {
	r := uint8(p>>11) & 0x1F
	g := uint8(p>>5) & 0x3F
	b := uint8(p) & 0x1F
	return color.RGBA{R: r<<3 | r>>2, G: g<<2 | g>>4, B: b<<3 | b>>2, A: 0xFF}
}
