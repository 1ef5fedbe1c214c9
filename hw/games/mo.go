package games

import "atarihw/hw/gfx"

// Tile layouts. Graphics ROMs hold packed pixels, one nibble (or two bits)
// per pixel, most significant first.
var (
	layout4bpp8x8 = gfx.Layout{
		Width:         8,
		Height:        8,
		Planes:        4,
		PlaneOffset:   []int{0, 1, 2, 3},
		XOffset:       gfx.Seq(0, 4, 8),
		YOffset:       gfx.Seq(0, 32, 8),
		CharIncrement: 256,
	}

	// 16x8 tiles are 8x8 tiles with doubled pixels.
	layout4bpp16x8 = gfx.Layout{
		Width:         16,
		Height:        8,
		Planes:        4,
		PlaneOffset:   []int{0, 1, 2, 3},
		XOffset:       double(gfx.Seq(0, 4, 8)),
		YOffset:       gfx.Seq(0, 32, 8),
		CharIncrement: 256,
	}

	layout2bpp8x8 = gfx.Layout{
		Width:         8,
		Height:        8,
		Planes:        2,
		PlaneOffset:   []int{0, 1},
		XOffset:       gfx.Seq(0, 2, 8),
		YOffset:       gfx.Seq(0, 16, 8),
		CharIncrement: 128,
	}
)

func double(s []int) []int {
	d := make([]int, 0, 2*len(s))
	for _, v := range s {
		d = append(d, v, v)
	}
	return d
}

// Motion object list of the 1024-entry boards (Batman, EPRoM, Off the
// Wall), 4 words per entry:
//
//	word 0: x position in bits 6-15
//	word 1: y position in bits 7-15, width-1 in bits 4-6, height-1 in bits 0-2
//	word 2: tile code in bits 0-14, horizontal flip in bit 15
//	word 3: color in bits 0-3, priority in bits 4-5, link in bits 6-15
const (
	mo1024Count = 1024
	mo1024Link  = 3
)

// decodeMO1024 decodes an entry, scrolled by the motion object scroll
// registers. It reports false for objects entirely off the left edge.
func decodeMO1024(entry []uint16, xscroll, yscroll, screenW int) (moInfo, bool) {
	mo := moInfo{
		code:  int(entry[2] & 0x7FFF),
		flipx: entry[2]&0x8000 != 0,
		color: int(entry[3] & 0xF),
		group: int(entry[3]>>4) & 3,
		w:     int(entry[1]>>4)&7 + 1,
		h:     int(entry[1]&7) + 1,
	}
	mo.x = foldX(int(entry[0]>>6)&0x3FF-xscroll, screenW)
	if mo.x <= -16 {
		return mo, false
	}
	mo.y = foldY(int(entry[1]>>7)&0x1FF-yscroll, mo.h*8)
	return mo, true
}

// foldX maps a 10-bit x position to the screen: positions past the right
// edge wrap to the left.
func foldX(x, screenW int) int {
	x &= 0x3FF
	if x >= screenW {
		x -= 0x400
	}
	return x
}

// foldY maps a 9-bit y position to the screen: objects whose bottom would
// wrap are moved above the top edge.
func foldY(y, height int) int {
	y &= 0x1FF
	if y > 0x200-height {
		y -= 0x200
	}
	return y
}
