package games

import (
	"fmt"

	"atarihw/hw/atarigen"
	"atarihw/hw/gfx"
	"atarihw/hw/hwdefs"
	"atarihw/hw/hwio"
	"atarihw/hw/jsa"
	"atarihw/romset"
)

var Blasteroids = GameDesc{
	Name:     "blstroid",
	FullName: "Blasteroids",
	Year:     1987,
	Screen:   atarigen.Screen{Width: 320, Height: 240, TotalLines: 262, FPS: 60},
	CPUs:     []hwdefs.CPU{hwdefs.MainCPU, hwdefs.AudioCPU},
	JSA:      jsa.JSAI,
	Chips:    []hwdefs.Chip{hwdefs.YM2151},
	IRQPolicy: atarigen.PriorityPolicy(hwdefs.MainCPU, map[hwdefs.IRQSource]int{
		hwdefs.ScanlineIRQ: 1,
		hwdefs.VideoIRQ:    2,
		hwdefs.SoundIRQ:    4,
	}),
	EEPROMSize: 0x400,
	Regions: []romset.Region{
		{Name: regionMain, Size: 0x40000},
		{Name: regionAudio, Size: jsa.ROMSize},
		{Name: regionPF, Size: 0x40000, Invert: true},
		{Name: regionMO, Size: 0x100000, Invert: true},
	},
	Load: loadBlasteroids,
}

const (
	blstroidMOColors = 0x000
	blstroidPFColors = 0x100

	// The playfield word of this column marks the rows raising the scanline
	// interrupt.
	blstroidIRQColumn = 40
)

type blasteroids struct {
	*base

	pf       *layer
	pfRAM    *hwio.Mem
	moRAM    *hwio.Mem
	mo       *atarigen.MOList
	moEl     *gfx.Element
	priority [8]uint16 // per playfield color, the motion object colors it covers
}

func loadBlasteroids(b *base) (driver, error) {
	g := &blasteroids{base: b}

	pfEl, err := b.decodeGfx(regionPF, layout4bpp16x8, blstroidPFColors)
	if err != nil {
		return nil, err
	}
	if g.moEl, err = b.decodeGfx(regionMO, layout4bpp16x8, blstroidMOColors); err != nil {
		return nil, err
	}

	m := b.main
	if err := b.mapROM(m, 0x000000, regionMain, 0, 0x40000); err != nil {
		return nil, err
	}
	b.mapWrite(m, 0xFF8000, 0xFF8001, "watchdog", b.watchdogWrite)
	b.mapWrite(m, 0xFF8200, 0xFF8201, "scanline-ack", func(uint32, uint16, uint16) { b.gen.IRQ.ScanlineIntAck() })
	b.mapWrite(m, 0xFF8400, 0xFF8401, "video-ack", func(uint32, uint16, uint16) { b.gen.IRQ.VideoIntAck() })
	b.mapWrite(m, 0xFF8600, 0xFF8601, "eeprom-enable", b.gen.EEPROM.Enable)
	b.mapWrite(m, 0xFF8800, 0xFF89FF, "priority", g.priorityWrite)
	b.mapWrite(m, 0xFF8A00, 0xFF8A01, "sound-w", b.gen.Sound.SendToSound)
	b.mapWrite(m, 0xFF8C00, 0xFF8C01, "sound-reset", b.gen.Sound.SoundResetWrite)
	b.mapWrite(m, 0xFF8E00, 0xFF8E01, "halt", b.gen.HaltUntilHblank)
	b.mapRead(m, 0xFF9400, 0xFF9401, "sound-r", b.gen.Sound.ReadFromSoundUpper)
	b.mapRead(m, 0xFF9800, 0xFF9801, "in0", func(uint32) uint16 { return b.port(PortMain0) })
	b.mapRead(m, 0xFF9804, 0xFF9805, "special", func(uint32) uint16 {
		return b.specialPort(PortSpecial, 0x0010, 0x0020, 0x0040)
	})
	b.mapPalette(0xFFA000, 0x400, gfx.XRGB555)
	b.mapEEPROM(0xFFB000, false)

	pf := atarigen.NewPlayfield("pf", 64, 32, 16, 8, false, b.desc.Screen.Height)
	g.pfRAM = b.mapRAM(m, 0xFFC000, "pf", 0x1000)
	g.pfRAM.WriteCb = pf.TrackWrite
	g.moRAM = b.mapRAM(m, 0xFFD000, "mo", 0x1000)
	b.mapRAM(m, 0xFFE000, "ram", 0x2000)

	g.pf = b.addLayer(&layer{pf: pf, el: pfEl, tile: g.tile})
	g.mo = atarigen.NewMOList(atarigen.MODesc{
		MaxCount:   512,
		EntryWords: 4,
		EntrySkip:  8,
		WordSkip:   2,
		IgnoreWord: -1,
		LinkWord:   2,
		LinkShift:  3,
		LinkMask:   0x1FF,
	}, b.desc.Screen.Height)

	b.gen.OnFrameStart(func() {
		pf.ResetList()
		g.mo.Reset()
	})
	return g, nil
}

func (g *blasteroids) tile(index int) tileInfo {
	w := hwio.ReadWord(g.pfRAM.Data, uint32(index*2))
	c := int(w>>12) & 7
	return tileInfo{code: int(w & 0xFFF), color: c, group: c}
}

func (g *blasteroids) reset() {
	g.priority = [8]uint16{}
	g.gen.ScanlineTimerReset(g.scanlineUpdate, 8)
	g.vblankInterrupt()
}

// priorityWrite sets bit (off>>1)&15 of the table of color (off>>5)&7 from
// bit 0 of the data.
func (g *blasteroids) priorityWrite(off uint32, val, mask uint16) {
	if mask&hwio.MaskLow == 0 {
		return
	}
	which := (off >> 5) & 7
	bit := uint16(1) << ((off >> 1) & 15)
	if val&1 != 0 {
		g.priority[which] |= bit
	} else {
		g.priority[which] &^= bit
	}
}

func (g *blasteroids) scanlineUpdate(scanline int) {
	// Rows of the playfield carry a marker in an off-screen column that
	// raises the scanline interrupt near the end of the row.
	if scanline < g.desc.Screen.Height {
		off := uint32((scanline/8*64 + blstroidIRQColumn) * 2)
		if hwio.ReadWord(g.pfRAM.Data, off)&0x8000 != 0 {
			g.gen.IRQ.ScanlinePulse(7)
		}
	}
	g.pf.pf.Update(atarigen.PFState{}, scanline)
	g.mo.Update(g.moRAM.Data, 0, scanline)
}

// Motion object entry, 4 words:
//
//	word 0: y position in bits 7-15, height-1 in bits 0-3
//	word 1: tile code in bits 0-13, horizontal flip in bit 15
//	word 2: link in bits 3-11
//	word 3: x position in bits 6-15, color in bits 0-3
func (g *blasteroids) decodeMO(entry []uint16) (moInfo, bool) {
	mo := moInfo{
		code:  int(entry[1] & 0x3FFF),
		flipx: entry[1]&0x8000 != 0,
		color: int(entry[3] & 0xF),
		w:     1,
		h:     int(entry[0]&0xF) + 1,
	}
	mo.x = int(entry[3]>>6) & 0x3FF
	if mo.x >= 0x200 {
		mo.x -= 0x400
	}
	if mo.x <= -g.moEl.Width {
		return mo, false
	}
	mo.y = foldY(int(entry[0]>>7), mo.h*g.moEl.Height)
	return mo, true
}

func (g *blasteroids) render(dst *gfx.Bitmap) {
	clip := g.visible()
	g.beginFrame(func(pal *gfx.Palette) {
		g.pf.markPens(pal, clip)
		g.mo.Process(clip, func(entry []uint16, _ gfx.Rect) {
			if mo, ok := g.decodeMO(entry); ok {
				markMOPens(pal, g.moEl, mo)
			}
		})
	})

	d := g.drawer
	g.pf.update(d)
	g.pf.draw(d, dst, clip)
	g.mo.Process(clip, func(entry []uint16, band gfx.Rect) {
		mo, ok := g.decodeMO(entry)
		if !ok {
			return
		}
		drawMO(d, dst, g.moEl, mo, band)
		g.overrender(dst, mo.footprint(g.moEl).Intersect(band), g.pf, func(t tileInfo) bool {
			return g.priority[t.group]&(1<<mo.color) != 0
		})
	})
}

func (g *blasteroids) saveLatches(l map[string]int) {
	for i, p := range g.priority {
		l[priorityKey(i)] = int(p)
	}
}

func (g *blasteroids) loadLatches(l map[string]int) {
	for i := range g.priority {
		g.priority[i] = uint16(l[priorityKey(i)])
	}
}

func priorityKey(i int) string {
	return fmt.Sprintf("priority%d", i)
}
