package games

import (
	"atarihw/hw/atarigen"
	"atarihw/hw/gfx"
	"atarihw/hw/hwdefs"
	"atarihw/hw/hwio"
	"atarihw/hw/jsa"
	"atarihw/romset"
)

var SkullXBones = GameDesc{
	Name:     "skullxbo",
	FullName: "Skull & Crossbones",
	Year:     1989,
	Screen:   atarigen.Screen{Width: 336, Height: 240, TotalLines: 262, FPS: 60},
	CPUs:     []hwdefs.CPU{hwdefs.MainCPU, hwdefs.AudioCPU},
	JSA:      jsa.JSAII,
	Chips:    []hwdefs.Chip{hwdefs.YM2151, hwdefs.OKI6295},
	IRQPolicy: atarigen.PriorityPolicy(hwdefs.MainCPU, map[hwdefs.IRQSource]int{
		hwdefs.ScanlineIRQ: 1,
		hwdefs.VideoIRQ:    2,
		hwdefs.SoundIRQ:    4,
	}),
	EEPROMSize: 0x1000,
	Regions: []romset.Region{
		{Name: regionMain, Size: 0x80000},
		{Name: regionAudio, Size: jsa.ROMSize},
		{Name: regionPF, Size: 0x80000, Invert: true},
		{Name: regionMO, Size: 0x100000, Invert: true},
		{Name: regionAlpha, Size: 0x10000},
		{Name: regionADPCM, Size: 0x80000},
	},
	Load: loadSkullXBones,
}

const (
	skullMOColors    = 0x000
	skullPFColors    = 0x200
	skullAlphaColors = 0x300

	// Alpha RAM holds 31 rows of 64 words, then the SLIP table.
	skullAlphaWords = 0x7C0
	skullSlipOffset = 0xF80

	// The alpha word of this column marks the rows raising the scanline
	// interrupt.
	skullIRQColumn = 42

	skullMOBankSize = 0x1000
)

type skullxbo struct {
	*base

	pf       *layer
	pfRAM    *hwio.Mem
	colorRAM *hwio.Mem
	moRAM    *hwio.Mem
	alphaRAM *hwio.Mem

	mo    *atarigen.MOList
	moEl  *gfx.Element
	alpha *alphaLayer

	moBank  int
	pfLatch int // -1 until written
	xscroll int
	yscroll int
}

func loadSkullXBones(b *base) (driver, error) {
	g := &skullxbo{base: b}

	pfEl, err := b.decodeGfx(regionPF, layout4bpp16x8, skullPFColors)
	if err != nil {
		return nil, err
	}
	if g.moEl, err = b.decodeGfx(regionMO, layout4bpp16x8, skullMOColors); err != nil {
		return nil, err
	}
	alphaEl, err := b.decodeGfx(regionAlpha, layout2bpp8x8, skullAlphaColors)
	if err != nil {
		return nil, err
	}

	m := b.main
	if err := b.mapROM(m, 0x000000, regionMain, 0, 0x80000); err != nil {
		return nil, err
	}
	b.mapWrite(m, 0xFF0000, 0xFF07FF, "mobwr", func(off uint32, _, _ uint16) {
		g.moBank = int(off>>10) & 1
	})
	b.mapWrite(m, 0xFF0800, 0xFF0BFF, "halt", b.gen.HaltUntilHblank)
	b.mapWrite(m, 0xFF0C00, 0xFF0FFF, "eeprom-enable", b.gen.EEPROM.Enable)
	b.mapWrite(m, 0xFF1000, 0xFF13FF, "video-ack", func(uint32, uint16, uint16) { b.gen.IRQ.VideoIntAck() })
	b.mapWrite(m, 0xFF1400, 0xFF17FF, "sound-w", b.gen.Sound.SendToSoundUpper)
	b.mapWrite(m, 0xFF1800, 0xFF1BFF, "sound-reset", b.gen.Sound.SoundResetWrite)
	b.mapWrite(m, 0xFF1C00, 0xFF1C7F, "pf-latch", func(_ uint32, val, _ uint16) {
		g.pfLatch = int(val & 0xFF)
	})
	b.mapWrite(m, 0xFF1C80, 0xFF1CFF, "xscroll", g.xscrollWrite)
	b.mapWrite(m, 0xFF1D00, 0xFF1D7F, "scanline-ack", func(uint32, uint16, uint16) { b.gen.IRQ.ScanlineIntAck() })
	b.mapWrite(m, 0xFF1D80, 0xFF1DFF, "watchdog", b.watchdogWrite)
	b.mapWrite(m, 0xFF1F00, 0xFF1F7F, "yscroll", g.yscrollWrite)
	b.mapPalette(0xFF2000, 0x1000, atarigen.RGB666)

	pf := atarigen.NewPlayfield("pf", 64, 64, 16, 8, true, b.desc.Screen.Height)
	g.pfRAM = b.mapRAM(m, 0xFF4000, "pf", 0x2000)
	g.colorRAM = b.mapRAM(m, 0xFF6000, "pfcolor", 0x2000)
	g.pfRAM.WriteCb = func(off uint32, old, cur uint16) {
		pf.TrackWrite(off, old, cur)
		g.latchColor(pf, off)
	}
	g.colorRAM.WriteCb = func(off uint32, old, cur uint16) {
		if hwio.Changed(old, cur, 0x00FF) {
			pf.MarkDirty(int(off / 2))
		}
	}
	g.moRAM = b.mapRAM(m, 0xFF8000, "mo", 2*skullMOBankSize)
	b.mapEEPROM(0xFFA000, false)
	b.mapRead(m, 0xFFB000, 0xFFB001, "in0", func(uint32) uint16 { return b.port(PortMain0) })
	b.mapRead(m, 0xFFB002, 0xFFB003, "special", func(uint32) uint16 {
		return b.specialPort(PortSpecial, 0x0080, 0x0020, 0x0010)
	})
	b.mapRead(m, 0xFFB004, 0xFFB005, "sound-r", b.gen.Sound.ReadFromSoundUpper)
	g.alphaRAM = b.mapRAM(m, 0xFFC000, "alpha", 0x1000)
	b.mapRAM(m, 0xFFE000, "ram", 0x2000)

	g.pf = b.addLayer(&layer{pf: pf, el: pfEl, tile: g.tile})
	g.mo = atarigen.NewMOList(atarigen.MODesc{
		MaxCount:   512,
		EntryWords: 4,
		EntrySkip:  8,
		WordSkip:   2,
		IgnoreWord: 0,
		LinkWord:   3,
		LinkMask:   0x1FF,
	}, b.desc.Screen.Height)
	g.alpha = &alphaLayer{
		ram:  g.alphaRAM.Data[:skullSlipOffset],
		cols: 64,
		rows: 31,
		el:   alphaEl,
		decode: func(w uint16) (tileInfo, bool) {
			return tileInfo{code: int(w & 0x3FF), color: int(w>>10) & 0x1F}, w&0x8000 != 0
		},
	}

	b.gen.OnFrameStart(func() {
		pf.ResetList()
		g.mo.Reset()
	})
	return g, nil
}

func (g *skullxbo) tile(index int) tileInfo {
	off := uint32(index * 2)
	w := hwio.ReadWord(g.pfRAM.Data, off)
	c := int(hwio.ReadWord(g.colorRAM.Data, off))
	return tileInfo{
		code:  int(w & 0x7FFF),
		flipx: w&0x8000 != 0,
		color: c & 0xF,
		group: c >> 4 & 3,
	}
}

// latchColor stores the latched color into the color RAM word of a
// playfield write.
func (g *skullxbo) latchColor(pf *atarigen.Playfield, off uint32) {
	if g.pfLatch < 0 {
		return
	}
	old, cur := hwio.WriteWordMasked(g.colorRAM.Data, off, uint16(g.pfLatch), hwio.MaskLow)
	if old != cur {
		pf.MarkDirty(int(off / 2))
	}
}

func (g *skullxbo) reset() {
	g.moBank = 0
	g.pfLatch = -1
	g.xscroll, g.yscroll = 0, 0
	g.gen.ScanlineTimerReset(g.scanlineUpdate, 8)
	g.vblankInterrupt()
}

func (g *skullxbo) xscrollWrite(_ uint32, val, mask uint16) {
	g.xscroll = int(hwio.Combine(uint16(g.xscroll<<7), val, mask)>>7) & 0x1FF
	g.updateScroll()
}

func (g *skullxbo) yscrollWrite(_ uint32, val, mask uint16) {
	g.yscroll = int(hwio.Combine(uint16(g.yscroll<<7), val, mask)>>7) & 0x1FF
	g.updateScroll()
}

func (g *skullxbo) updateScroll() {
	g.pf.pf.Update(atarigen.PFState{HScroll: g.xscroll, VScroll: g.yscroll}, g.gen.Scanline())
}

// alphaIRQ raises the scanline interrupt for the rows whose marker word is
// set. The marker of the row being drawn is one row up.
func (g *skullxbo) alphaIRQ(scanline int) {
	off := (scanline-8)/8*64 + skullIRQColumn
	if off < 0 {
		off += skullAlphaWords
	}
	if off >= skullAlphaWords {
		return
	}
	if hwio.ReadWord(g.alphaRAM.Data, uint32(off*2))&0x8000 != 0 {
		g.gen.IRQ.ScanlinePulse(6)
	}
}

func (g *skullxbo) moBankRAM() []byte {
	start := g.moBank * skullMOBankSize
	return g.moRAM.Data[start : start+skullMOBankSize]
}

func (g *skullxbo) scanlineUpdate(scanline int) {
	g.alphaIRQ(scanline)
	g.pf.pf.Update(atarigen.PFState{HScroll: g.xscroll, VScroll: g.yscroll}, scanline)
	g.mo.UpdateSlip512(g.moBankRAM(), g.yscroll, scanline, g.alphaRAM.Data[skullSlipOffset:])
}

// Motion object entry, 4 words:
//
//	word 0: tile code in bits 0-14, horizontal flip in bit 15; 0xFFFF skips
//	word 1: y position in bits 7-15, height-1 in bits 0-3
//	word 2: x position in bits 7-15, priority in bits 4-5, color in bits 0-3
//	word 3: link in bits 0-8
func (g *skullxbo) decodeMO(entry []uint16) moInfo {
	mo := moInfo{
		code:  int(entry[0] & 0x7FFF),
		flipx: entry[0]&0x8000 != 0,
		color: int(entry[2] & 0xF),
		group: int(entry[2]>>4) & 3,
		w:     1,
		h:     int(entry[1]&0xF) + 1,
	}
	mo.x = (int(entry[2]>>7) - g.xscroll) & 0x1FF
	if mo.x > 0x200-g.moEl.Width {
		mo.x -= 0x200
	}
	mo.y = foldY(int(entry[1]>>7)-g.yscroll, mo.h*g.moEl.Height)
	return mo
}

func (g *skullxbo) render(dst *gfx.Bitmap) {
	clip := g.visible()
	g.beginFrame(func(pal *gfx.Palette) {
		g.pf.markPens(pal, clip)
		g.mo.Process(clip, func(entry []uint16, _ gfx.Rect) {
			markMOPens(pal, g.moEl, g.decodeMO(entry))
		})
		g.alpha.markPens(pal, clip)
	})

	d := g.drawer
	g.pf.update(d)
	g.pf.draw(d, dst, clip)
	g.mo.Process(clip, func(entry []uint16, band gfx.Rect) {
		mo := g.decodeMO(entry)
		drawMO(d, dst, g.moEl, mo, band)
		g.overrender(dst, mo.footprint(g.moEl).Intersect(band), g.pf, func(t tileInfo) bool {
			return mo.group < t.group
		})
	})
	g.alpha.draw(d, dst, clip)
}

func (g *skullxbo) saveLatches(l map[string]int) {
	l["mobank"] = g.moBank
	l["pflatch"] = g.pfLatch
	l["xscroll"] = g.xscroll
	l["yscroll"] = g.yscroll
}

func (g *skullxbo) loadLatches(l map[string]int) {
	g.moBank = l["mobank"]
	g.pfLatch = l["pflatch"]
	g.xscroll = l["xscroll"]
	g.yscroll = l["yscroll"]
}
