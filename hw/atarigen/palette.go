package atarigen

import (
	"atarihw/hw/gfx"
	"atarihw/hw/hwio"
)

// RGB666 decodes the 6-6-6 palette word format: 5 bits per component plus a
// shared intensity bit (bit 15) used as the lowest bit of each component.
func RGB666(w uint16) (r, g, b uint8) {
	i := w >> 15 & 1
	r6 := (w>>9)&0x3E | i
	g6 := (w>>4)&0x3E | i
	b6 := (w<<1)&0x3E | i
	return gfx.Expand6(r6), gfx.Expand6(g6), gfx.Expand6(b6)
}

// PaletteRAM is palette memory holding one word per pen.
type PaletteRAM struct {
	Data    []byte
	Palette *gfx.Palette
	Decode  func(w uint16) (r, g, b uint8)
}

func NewPaletteRAM(size int, pal *gfx.Palette, decode func(uint16) (uint8, uint8, uint8)) *PaletteRAM {
	return &PaletteRAM{Data: make([]byte, size), Palette: pal, Decode: decode}
}

func (pr *PaletteRAM) Read(off uint32) uint16 {
	return hwio.ReadWord(pr.Data, off)
}

func (pr *PaletteRAM) Write(off uint32, val, mask uint16) {
	_, cur := hwio.WriteWordMasked(pr.Data, off, val, mask)
	if pen := int(off / 2); pen < pr.Palette.Len() {
		r, g, b := pr.Decode(cur)
		pr.Palette.SetRGB(pen, r, g, b)
	}
}

// Refresh decodes all pens again, after a state load.
func (pr *PaletteRAM) Refresh() {
	for off := 0; off+1 < len(pr.Data) && off/2 < pr.Palette.Len(); off += 2 {
		r, g, b := pr.Decode(hwio.ReadWord(pr.Data, uint32(off)))
		pr.Palette.SetRGB(off/2, r, g, b)
	}
}
