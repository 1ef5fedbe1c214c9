package games

import (
	"atarihw/hw/atarigen"
	"atarihw/hw/gfx"
	"atarihw/hw/hwdefs"
	"atarihw/hw/hwio"
	"atarihw/hw/jsa"
	"atarihw/romset"
)

var Batman = GameDesc{
	Name:     "batman",
	FullName: "Batman",
	Year:     1991,
	Screen:   atarigen.Screen{Width: 336, Height: 240, TotalLines: 262, FPS: 60},
	CPUs:     []hwdefs.CPU{hwdefs.MainCPU, hwdefs.AudioCPU},
	JSA:      jsa.JSAIII,
	Chips:    []hwdefs.Chip{hwdefs.YM2151, hwdefs.OKI6295},
	IRQPolicy: atarigen.PriorityPolicy(hwdefs.MainCPU, map[hwdefs.IRQSource]int{
		hwdefs.ScanlineIRQ: 4,
		hwdefs.SoundIRQ:    6,
	}),
	EEPROMSize: 0x1000,
	Regions: []romset.Region{
		{Name: regionMain, Size: 0xC0000},
		{Name: regionAudio, Size: jsa.ROMSize},
		{Name: regionPF, Size: 0x100000, Invert: true},
		{Name: regionMO, Size: 0x100000, Invert: true},
		{Name: regionAlpha, Size: 0x20000},
		{Name: regionADPCM, Size: 0x100000},
	},
	Load: loadBatman,
}

// Palette layout.
const (
	batmanMOColors    = 0x000
	batmanPFColors    = 0x200
	batmanAlphaColors = 0x400
)

type batman struct {
	*base

	vc    *atarigen.VideoControl
	latch atarigen.Latch

	pf1, pf2 *layer
	pfRAM1   *hwio.Mem
	pfRAM2   *hwio.Mem
	colorRAM *hwio.Mem
	moRAM    *hwio.Mem
	alphaRAM *hwio.Mem

	mo      *atarigen.MOList
	moEl    *gfx.Element
	alpha   *alphaLayer
	palBank int
}

func loadBatman(b *base) (driver, error) {
	g := &batman{base: b}
	if err := expandADPCM(b); err != nil {
		return nil, err
	}

	pfEl, err := b.decodeGfx(regionPF, layout4bpp8x8, batmanPFColors)
	if err != nil {
		return nil, err
	}
	if g.moEl, err = b.decodeGfx(regionMO, layout4bpp8x8, batmanMOColors); err != nil {
		return nil, err
	}
	alphaEl, err := b.decodeGfx(regionAlpha, layout2bpp8x8, batmanAlphaColors)
	if err != nil {
		return nil, err
	}

	m := b.main
	if err := b.mapROM(m, 0x000000, regionMain, 0, 0xC0000); err != nil {
		return nil, err
	}
	b.mapRAM(m, 0x100000, "ram", 0x10000)
	b.mapEEPROM(0x120000, false)
	b.mapRead(m, 0x260000, 0x260001, "in0", func(uint32) uint16 { return b.port(PortMain0) })
	b.mapRead(m, 0x260002, 0x260003, "in1", func(uint32) uint16 { return b.port(PortMain1) })
	b.mapRead(m, 0x260010, 0x260011, "special", func(uint32) uint16 {
		return b.specialPort(PortSpecial, 0x0080, 0x0020, 0x0010)
	})
	b.mapRead(m, 0x260030, 0x260031, "sound-r", b.gen.Sound.ReadFromSound)
	b.mapWrite(m, 0x260040, 0x260041, "sound-w", b.gen.Sound.SendToSound)
	g.latch = atarigen.Latch{Name: "latch", OnChange: g.latchChanged}
	m.MapDevice(0x260050, &hwio.Device{Name: "latch", Size: 2, ReadCb: g.latch.Read, PeekCb: g.latch.Read, WriteCb: g.latch.Write})
	b.mapWrite(m, 0x260060, 0x260061, "eeprom-enable", b.gen.EEPROM.Enable)
	b.mapWrite(m, 0x2A0000, 0x2A0001, "watchdog", b.watchdogWrite)
	b.mapPalette(0x3E0000, 0x1000, atarigen.RGB666)
	g.vc = b.mapVideoControl(0x3EFFC0)

	pf1 := atarigen.NewPlayfield("pf1", 64, 64, 8, 8, true, b.desc.Screen.Height)
	pf2 := atarigen.NewPlayfield("pf2", 64, 64, 8, 8, true, b.desc.Screen.Height)
	g.pfRAM1 = b.mapRAM(m, 0x3F0000, "pf1", 0x2000)
	g.pfRAM2 = b.mapRAM(m, 0x3F2000, "pf2", 0x2000)
	g.colorRAM = b.mapRAM(m, 0x3F4000, "pfcolor", 0x2000)
	g.moRAM = b.mapRAM(m, 0x3F6000, "mo", 0x2000)
	g.alphaRAM = b.mapRAM(m, 0x3F8000, "alpha", 0x1000)
	g.pfRAM1.WriteCb = func(off uint32, old, cur uint16) {
		pf1.TrackWrite(off, old, cur)
		g.latchColor(pf1, off, g.vc.State.Latch1, hwio.MaskLow)
	}
	g.pfRAM2.WriteCb = func(off uint32, old, cur uint16) {
		pf2.TrackWrite(off, old, cur)
		g.latchColor(pf2, off, g.vc.State.Latch2<<8, hwio.MaskHigh)
	}
	g.colorRAM.WriteCb = func(off uint32, old, cur uint16) {
		if hwio.Changed(old, cur, 0x00FF) {
			pf1.MarkDirty(int(off / 2))
		}
		if hwio.Changed(old, cur, 0xFF00) {
			pf2.MarkDirty(int(off / 2))
		}
	}

	g.pf1 = b.addLayer(&layer{pf: pf1, el: pfEl, tile: func(i int) tileInfo { return g.tile(g.pfRAM1, i, 0) }})
	g.pf2 = b.addLayer(&layer{pf: pf2, el: pfEl, tile: func(i int) tileInfo { return g.tile(g.pfRAM2, i, 8) }, transparent: true})
	g.mo = atarigen.NewMOList(atarigen.MODesc{
		MaxCount:   mo1024Count,
		EntryWords: 4,
		EntrySkip:  8,
		WordSkip:   2,
		IgnoreWord: -1,
		LinkWord:   mo1024Link,
		LinkShift:  6,
		LinkMask:   0x3FF,
	}, b.desc.Screen.Height)
	g.alpha = &alphaLayer{
		ram:  g.alphaRAM.Data,
		cols: 64,
		rows: 32,
		el:   alphaEl,
		decode: func(w uint16) (tileInfo, bool) {
			bank := int(g.latch.Value>>12) & 7
			return tileInfo{code: int(w&0x3FF) | bank<<10, color: int(w>>10) & 0xF}, w&0x8000 != 0
		},
	}

	b.gen.OnFrameStart(func() {
		pf1.ResetList()
		pf2.ResetList()
		g.mo.Reset()
	})
	return g, nil
}

// tile decodes a playfield word and its color byte: the low byte of the
// color RAM word for playfield 1, the high byte for playfield 2.
func (g *batman) tile(ram *hwio.Mem, index int, shift uint) tileInfo {
	off := uint32(index * 2)
	w := hwio.ReadWord(ram.Data, off)
	c := int(hwio.ReadWord(g.colorRAM.Data, off)>>shift) & 0xFF
	return tileInfo{
		code:  int(w & 0x7FFF),
		flipx: w&0x8000 != 0,
		color: g.palBank<<4 | c&0xF,
		group: c >> 4 & 3,
	}
}

// latchColor stores an enabled video controller latch into the color byte
// of a playfield write: latch 1 for playfield 1, latch 2 for playfield 2.
func (g *batman) latchColor(pf *atarigen.Playfield, off uint32, latch int, mask uint16) {
	if latch < 0 {
		return
	}
	old, cur := hwio.WriteWordMasked(g.colorRAM.Data, off, uint16(latch), mask)
	if old != cur {
		pf.MarkDirty(int(off / 2))
	}
}

func (g *batman) reset() {
	g.vc.Reset()
	g.latch.Reset(0)
	g.palBank = 0
	g.gen.ScanlineTimerReset(g.scanlineUpdate, 8)
}

func (g *batman) latchChanged(old, cur uint16) {
	g.audioReset(old, cur, 4)
	if hwio.Changed(old, cur, 0x7000) {
		modGame.DebugZ("alpha bank").Uint16("bank", cur>>12&7).End()
	}
}

func (g *batman) scanlineUpdate(scanline int) {
	if scanline == 0 {
		g.vc.Update(g.alphaRAM.Data[0xF00:])
	}
	st := g.vc.State
	if st.PaletteBank != g.palBank {
		g.palBank = st.PaletteBank
		g.pf1.pf.MarkAllDirty()
		g.pf2.pf.MarkAllDirty()
	}
	g.pf1.pf.Update(atarigen.PFState{HScroll: st.PF1XScroll, VScroll: st.PF1YScroll}, scanline)
	g.pf2.pf.Update(atarigen.PFState{HScroll: st.PF2XScroll, VScroll: st.PF2YScroll}, scanline)
	g.mo.Update(g.moRAM.Data, 0, scanline)
}

func (g *batman) decodeMO(entry []uint16) (moInfo, bool) {
	st := g.vc.State
	return decodeMO1024(entry, st.MOXScroll, st.MOYScroll, g.desc.Screen.Width)
}

func (g *batman) render(dst *gfx.Bitmap) {
	clip := g.visible()
	g.beginFrame(func(pal *gfx.Palette) {
		g.pf1.markPens(pal, clip)
		g.pf2.markPens(pal, clip)
		g.mo.Process(clip, func(entry []uint16, _ gfx.Rect) {
			if mo, ok := g.decodeMO(entry); ok {
				markMOPens(pal, g.moEl, mo)
			}
		})
		g.alpha.markPens(pal, clip)
	})

	d := g.drawer
	g.pf1.update(d)
	g.pf2.update(d)
	g.pf1.draw(d, dst, clip)
	g.pf2.draw(d, dst, clip)

	g.mo.Process(clip, func(entry []uint16, band gfx.Rect) {
		mo, ok := g.decodeMO(entry)
		if !ok {
			return
		}
		drawMO(d, dst, g.moEl, mo, band)
		g.overrender(dst, mo.footprint(g.moEl).Intersect(band), g.pf2, func(t tileInfo) bool {
			return mo.group < t.group
		})
	})
	g.alpha.draw(d, dst, clip)
}

func (g *batman) saveLatches(l map[string]int) {
	l["latch"] = int(g.latch.Value)
	l["palbank"] = g.palBank
	saveVideoControl(g.vc, l)
}

func (g *batman) loadLatches(l map[string]int) {
	g.latch.Value = uint16(l["latch"])
	g.palBank = l["palbank"]
	g.loadVideoControl(g.vc, l)
}
