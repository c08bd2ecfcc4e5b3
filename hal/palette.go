package hal

import "image/color"

// Palette maps LUT8 indices to colours. Entries are 12-bit 0x0RGB values,
// four bits per channel, as loaded by LoadRGB4.
type Palette [256]uint16

// DefaultPalette is black background with magenta pixels.
func DefaultPalette() Palette {
	var p Palette
	p.LoadRGB4([]uint16{0x0000, 0x0f0f})
	return p
}

// LoadRGB4 replaces the first len(colours) entries.
func (p *Palette) LoadRGB4(colours []uint16) {
	for i, c := range colours {
		if i >= len(p) {
			return
		}
		p[i] = c & 0x0fff
	}
}

// RGB returns the 8-bit per channel colour of index i.
func (p *Palette) RGB(i uint8) (r, g, b uint8) {
	return rgb888From444(p[i])
}

// RGBA returns index i as an opaque color.RGBA.
func (p *Palette) RGBA(i uint8) color.RGBA {
	r, g, b := p.RGB(i)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// ExpandRGBA converts a LUT8 surface into packed RGBA pixels.
// dst must hold at least Width*Height*4 bytes.
func (p *Palette) ExpandRGBA(dst []byte, s *Surface) {
	if s == nil || s.Format != PixelFormatLUT8 {
		return
	}
	var lut [256][3]uint8
	for i := range lut {
		lut[i][0], lut[i][1], lut[i][2] = rgb888From444(p[i])
	}
	j := 0
	for y := 0; y < s.Height; y++ {
		row := s.Row(y)
		for x := 0; x < s.Width && j+3 < len(dst); x++ {
			c := lut[row[x]]
			dst[j+0] = c[0]
			dst[j+1] = c[1]
			dst[j+2] = c[2]
			dst[j+3] = 0xFF
			j += 4
		}
	}
}

func rgb888From444(p uint16) (r, g, b uint8) {
	rr := uint8((p >> 8) & 0x0F)
	gg := uint8((p >> 4) & 0x0F)
	bb := uint8(p & 0x0F)
	return rr<<4 | rr, gg<<4 | gg, bb<<4 | bb
}
