package gfx

import (
	"image"
	"image/color"

	"atarihw/hw/hwio"
)

// Palette holds the colors of all pens, and tracks which pens are used by the
// frame being drawn.
type Palette struct {
	colors  []color.RGBA
	used    *hwio.Bitset
	changed *hwio.Bitset
}

func NewPalette(n int) *Palette {
	p := &Palette{
		colors:  make([]color.RGBA, n),
		used:    hwio.NewBitset(uint(n)),
		changed: hwio.NewBitset(uint(n)),
	}
	for i := range p.colors {
		p.colors[i].A = 0xFF
	}
	return p
}

func (p *Palette) Len() int { return len(p.colors) }

func (p *Palette) SetRGB(i int, r, g, b uint8) {
	c := color.RGBA{R: r, G: g, B: b, A: 0xFF}
	if p.colors[i] != c {
		p.colors[i] = c
		p.changed.Set(uint(i))
	}
}

func (p *Palette) Color(i int) color.RGBA {
	return p.colors[i]
}

// ResetUsage forgets all pens marked by the previous frame.
func (p *Palette) ResetUsage() {
	p.used.Reset()
}

// MarkUsed marks the pens base+n for each bit n set in usage.
func (p *Palette) MarkUsed(base int, usage uint32) {
	for n := 0; usage != 0; n, usage = n+1, usage>>1 {
		if usage&1 != 0 && base+n < len(p.colors) {
			p.used.Set(uint(base + n))
		}
	}
}

// MarkRange marks count pens starting at base.
func (p *Palette) MarkRange(base, count int) {
	p.used.SetRange(uint(base), uint(min(base+count, len(p.colors))))
}

func (p *Palette) Used(i int) bool {
	return p.used.Test(uint(i))
}

// UsedCount returns the number of pens marked for the current frame.
func (p *Palette) UsedCount() int {
	return p.used.Count()
}

// Recalc commits the color changes made since the previous call. It reports
// whether a pen used by the current frame changed color, in which case
// cached layers must be redrawn entirely.
func (p *Palette) Recalc() bool {
	remapped := false
	for i := range uint(len(p.colors)) {
		if p.changed.Test(i) && p.used.Test(i) {
			remapped = true
			break
		}
	}
	p.changed.Reset()
	return remapped
}

// ToImage converts the clipped part of a bitmap to RGBA. TransparentPen and
// out of range pens are rendered black.
func (p *Palette) ToImage(bm *Bitmap, clip Rect) *image.RGBA {
	clip = clip.Intersect(bm.Bounds())
	img := image.NewRGBA(image.Rect(0, 0, clip.Width(), clip.Height()))
	for y := clip.MinY; y <= clip.MaxY; y++ {
		for x := clip.MinX; x <= clip.MaxX; x++ {
			c := color.RGBA{A: 0xFF}
			if pen := int(bm.At(x, y)); pen < len(p.colors) {
				c = p.colors[pen]
			}
			img.SetRGBA(x-clip.MinX, y-clip.MinY, c)
		}
	}
	return img
}

// Expand5 expands a 5-bit component to 8 bits.
func Expand5(c uint16) uint8 {
	c &= 0x1F
	return uint8(c<<3 | c>>2)
}

// Expand6 expands a 6-bit component to 8 bits.
func Expand6(c uint16) uint8 {
	c &= 0x3F
	return uint8(c<<2 | c>>4)
}

// XRGB555 decodes a xRRRRRGGGGGBBBBB word.
func XRGB555(w uint16) (r, g, b uint8) {
	return Expand5(w >> 10), Expand5(w >> 5), Expand5(w)
}

// IRGB4444 decodes a IIIIRRRRGGGGBBBB word: each 4-bit component is scaled
// by the intensity, where intensity 0 is not black.
func IRGB4444(w uint16) (r, g, b uint8) {
	i := int(w>>12&15) + 1
	scale := func(c uint16) uint8 {
		return uint8(int(c&15) * 0x11 * i / 16)
	}
	return scale(w >> 8), scale(w >> 4), scale(w)
}
