package gfx

import "fmt"

// Layout describes how tiles are stored in a ROM region. Offsets are in bits
// from the start of a tile.
type Layout struct {
	Width, Height int
	Total         int // number of tiles; 0 computes it from the region size
	Planes        int
	PlaneOffset   []int
	XOffset       []int
	YOffset       []int
	CharIncrement int // distance between tiles, in bits
}

// Element is a decoded set of tiles sharing dimensions and color layout.
type Element struct {
	Width, Height int
	Total         int

	// Pens of a tile start at ColorBase + color*ColorGranularity.
	ColorBase        int
	ColorGranularity int

	pix []uint8

	// PenUsage has bit n set when a tile uses raw pixel value n.
	PenUsage []uint32
}

// Decode converts the planar tile data of region into an Element.
func Decode(l Layout, region []byte, colorBase int) (*Element, error) {
	if len(l.PlaneOffset) != l.Planes || len(l.XOffset) != l.Width || len(l.YOffset) != l.Height {
		return nil, fmt.Errorf("inconsistent gfx layout %dx%dx%d", l.Width, l.Height, l.Planes)
	}
	total := l.Total
	if total == 0 {
		total = len(region) * 8 / l.CharIncrement
	}
	if total == 0 || total*l.CharIncrement > len(region)*8 {
		return nil, fmt.Errorf("gfx region too small: %d tiles of %d bits in %d bytes", total, l.CharIncrement, len(region))
	}

	el := &Element{
		Width:            l.Width,
		Height:           l.Height,
		Total:            total,
		ColorBase:        colorBase,
		ColorGranularity: 1 << l.Planes,
		pix:              make([]uint8, total*l.Width*l.Height),
		PenUsage:         make([]uint32, total),
	}

	bit := func(off int) uint8 {
		return region[off/8] >> (7 - off%8) & 1
	}
	for code := range total {
		base := code * l.CharIncrement
		tile := el.Tile(code)
		var usage uint32
		for y := range l.Height {
			for x := range l.Width {
				var v uint8
				for p, poff := range l.PlaneOffset {
					v |= bit(base+poff+l.YOffset[y]+l.XOffset[x]) << (l.Planes - 1 - p)
				}
				tile[y*l.Width+x] = v
				usage |= 1 << (v & 31)
			}
		}
		el.PenUsage[code] = usage
	}
	return el, nil
}

// NewElement wraps already decoded pixels, one byte per pixel.
func NewElement(w, h int, pix []uint8, colorBase, granularity int) *Element {
	total := len(pix) / (w * h)
	el := &Element{
		Width:            w,
		Height:           h,
		Total:            total,
		ColorBase:        colorBase,
		ColorGranularity: granularity,
		pix:              pix,
		PenUsage:         make([]uint32, total),
	}
	for code := range total {
		for _, v := range el.Tile(code) {
			el.PenUsage[code] |= 1 << (v & 31)
		}
	}
	return el
}

// Tile returns the pixels of a tile, row by row. Codes wrap around Total.
func (el *Element) Tile(code int) []uint8 {
	code %= el.Total
	n := el.Width * el.Height
	return el.pix[code*n : (code+1)*n]
}

// Pen returns the pen of raw pixel v drawn with color.
func (el *Element) Pen(color int, v uint8) uint16 {
	return uint16(el.ColorBase + color*el.ColorGranularity + int(v))
}

// Seq is a helper to build layout offsets: n values starting at start with
// the given step.
func Seq(start, step, n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = start + i*step
	}
	return s
}
