package games

import (
	"atarihw/hw/atarigen"
	"atarihw/hw/gfx"
	"atarihw/hw/hwdefs"
	"atarihw/hw/hwio"
	"atarihw/hw/jsa"
	"atarihw/romset"
)

var EPRoM = GameDesc{
	Name:       "eprom",
	FullName:   "Escape from the Planet of the Robot Monsters",
	Year:       1989,
	Screen:     atarigen.Screen{Width: 336, Height: 240, TotalLines: 262, FPS: 60},
	CPUs:       []hwdefs.CPU{hwdefs.MainCPU, hwdefs.AudioCPU, hwdefs.ExtraCPU},
	JSA:        jsa.JSAI,
	Chips:      []hwdefs.Chip{hwdefs.YM2151, hwdefs.POKEY, hwdefs.TMS5220},
	IRQPolicy:  epromPolicy,
	EEPROMSize: 0x1000,
	Regions: []romset.Region{
		{Name: regionMain, Size: 0xA0000},
		{Name: regionExtra, Size: 0x80000},
		{Name: regionAudio, Size: jsa.ROMSize},
		{Name: regionPF, Size: 0x100000, Invert: true},
		{Name: regionAlpha, Size: 0x4000},
	},
	Load: loadEPRoM,
}

// epromPolicy drives both 68000s: the video interrupt reaches both at level
// 4, the sound interrupt only the main one at level 6.
func epromPolicy(pending hwdefs.IRQSource) []atarigen.IRQLine {
	main, extra := 0, 0
	if pending&hwdefs.VideoIRQ != 0 {
		main, extra = 4, 4
	}
	if pending&hwdefs.SoundIRQ != 0 {
		main = 6
	}
	return []atarigen.IRQLine{
		{CPU: hwdefs.MainCPU, Level: main},
		{CPU: hwdefs.ExtraCPU, Level: extra},
	}
}

const (
	epromMOColors    = 0x000
	epromPFColors    = 0x200
	epromAlphaColors = 0x300

	// Offset in shared RAM of the word both CPUs poll to synchronize.
	epromSyncOffset = 0xCC00
)

type eprom struct {
	*base

	latch    atarigen.Latch
	adcSel   int
	shared   *hwio.Mem
	pf       *layer
	pfRAM    *hwio.Mem
	colorRAM *hwio.Mem
	moRAM    *hwio.Mem
	alphaRAM *hwio.Mem

	mo    *atarigen.MOList
	pfEl  *gfx.Element
	moEl  *gfx.Element
	alpha *alphaLayer
}

func loadEPRoM(b *base) (driver, error) {
	g := &eprom{base: b}

	var err error
	if g.pfEl, err = b.decodeGfx(regionPF, layout4bpp8x8, epromPFColors); err != nil {
		return nil, err
	}
	alphaEl, err := b.decodeGfx(regionAlpha, layout2bpp8x8, epromAlphaColors)
	if err != nil {
		return nil, err
	}
	// Motion objects share the playfield graphics with their own colors.
	moEl := *g.pfEl
	moEl.ColorBase = epromMOColors

	m, x := b.main, b.extra
	if err := b.mapROM(m, 0x000000, regionMain, 0, 0xA0000); err != nil {
		return nil, err
	}
	if err := b.mapROM(x, 0x000000, regionExtra, 0, 0x80000); err != nil {
		return nil, err
	}
	b.mapEEPROM(0x0E0000, false)

	g.shared = b.ram("shared", 0x10000)
	g.shared.WriteCb = g.syncWrite
	m.MapMem(0x160000, g.shared)
	x.MapMem(0x160000, g.shared)

	b.mapWrite(m, 0x1F0000, 0x1F0001, "eeprom-enable", b.gen.EEPROM.Enable)
	b.mapRead(m, 0x260000, 0x260001, "in0", func(uint32) uint16 { return b.port(PortMain0) })
	b.mapRead(m, 0x260010, 0x260011, "special", func(uint32) uint16 {
		return b.specialPort(PortSpecial, 0x0080, 0x0020, 0x0010)
	})
	b.mapRead(m, 0x260020, 0x260027, "adc", g.adcRead)
	b.mapRead(m, 0x260030, 0x260031, "sound-r", b.gen.Sound.ReadFromSound)
	b.mapWrite(m, 0x2E0000, 0x2E0001, "watchdog", b.watchdogWrite)
	videoAck := func(uint32, uint16, uint16) { b.gen.IRQ.VideoIntAck() }
	b.mapWrite(m, 0x360000, 0x360001, "video-ack", videoAck)
	b.mapWrite(x, 0x360000, 0x360001, "video-ack", videoAck)
	g.latch = atarigen.Latch{Name: "latch", OnChange: g.latchChanged}
	b.mapWrite(m, 0x360010, 0x360011, "latch", g.latch.Write)
	b.mapWrite(m, 0x360020, 0x360021, "sound-reset", b.gen.Sound.SoundResetWrite)
	b.mapWrite(m, 0x360030, 0x360031, "sound-w", b.gen.Sound.SendToSound)
	b.mapPalette(0x3E0000, 0x1000, gfx.IRGB4444)

	pf := atarigen.NewPlayfield("pf", 64, 64, 8, 8, true, b.desc.Screen.Height)
	g.pfRAM = b.mapRAM(m, 0x3F0000, "pf", 0x2000)
	g.pfRAM.WriteCb = pf.TrackWrite
	g.moRAM = b.mapRAM(m, 0x3F2000, "mo", 0x2000)
	g.colorRAM = b.mapRAM(m, 0x3F4000, "pfcolor", 0x2000)
	g.colorRAM.WriteCb = func(off uint32, old, cur uint16) {
		if hwio.Changed(old, cur, 0x00FF) {
			pf.MarkDirty(int(off / 2))
		}
	}
	b.mapRAM(m, 0x3F6000, "ram", 0x2000)
	g.alphaRAM = b.mapRAM(m, 0x3F8000, "alpha", 0x1000)

	g.pf = b.addLayer(&layer{pf: pf, el: g.pfEl, tile: g.tile})
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
	g.moEl = &moEl
	g.alpha = &alphaLayer{
		ram:  g.alphaRAM.Data,
		cols: 64,
		rows: 30,
		el:   alphaEl,
		decode: func(w uint16) (tileInfo, bool) {
			return tileInfo{code: int(w & 0x3FF), color: int(w>>10) & 0xF}, w&0x8000 != 0
		},
	}

	b.gen.OnFrameStart(func() {
		pf.ResetList()
		g.mo.Reset()
	})
	return g, nil
}

func (g *eprom) tile(index int) tileInfo {
	off := uint32(index * 2)
	w := hwio.ReadWord(g.pfRAM.Data, off)
	c := int(hwio.ReadWord(g.colorRAM.Data, off)) & 0xF
	return tileInfo{
		code:  int(w & 0x7FFF),
		flipx: w&0x8000 != 0,
		color: c,
		group: c,
	}
}

func (g *eprom) reset() {
	g.latch.Reset(0)
	g.adcSel = 0
	// The extra CPU stays in reset until the main CPU releases it.
	g.env.Host.SetResetLine(hwdefs.ExtraCPU, hwdefs.AssertLine)
	g.gen.ScanlineTimerReset(g.scanlineUpdate, 8)
	g.vblankInterrupt()
}

// syncWrite asks for a reschedule when a CPU changes the high byte of the
// sync word, so that the other CPU sees it promptly.
func (g *eprom) syncWrite(off uint32, old, cur uint16) {
	if off == epromSyncOffset && hwio.Changed(old, cur, 0xFF00) {
		modQuirk.DebugZ("sync word").Hex16("old", old).Hex16("new", cur).End()
		g.env.Host.RequestReschedule()
	}
}

// adcRead returns the analog input selected by the previous access, and
// selects the one of this access for the next.
func (g *eprom) adcRead(off uint32) uint16 {
	result := g.port(PortADC0 + g.adcSel)
	g.adcSel = int(off>>1) & 3
	return result
}

// Latch bits:
//
//	bit 0: extra CPU reset, active low
//	bits 1-4: screen intensity
//	bit 5: video disable
func (g *eprom) latchChanged(old, cur uint16) {
	if hwio.Changed(old, cur, 0x0001) {
		state := hwdefs.AssertLine
		if cur&1 != 0 {
			state = hwdefs.ClearLine
		}
		g.env.Host.SetResetLine(hwdefs.ExtraCPU, state)
	}
}

func (g *eprom) videoDisabled() bool { return g.latch.Value&0x20 != 0 }

func (g *eprom) scroll() (x, y int) {
	x = int(hwio.ReadWord(g.alphaRAM.Data, 0xF00)>>7) & 0x1FF
	y = int(hwio.ReadWord(g.alphaRAM.Data, 0xF02)>>7) & 0x1FF
	return x, y
}

func (g *eprom) scanlineUpdate(scanline int) {
	x, y := g.scroll()
	g.pf.pf.Update(atarigen.PFState{HScroll: x, VScroll: y}, scanline)
	g.mo.UpdateSlip512(g.moRAM.Data, y, scanline, g.alphaRAM.Data[0xF80:])
}

func (g *eprom) decodeMO(entry []uint16) (moInfo, bool) {
	x, y := g.scroll()
	return decodeMO1024(entry, x, y, g.desc.Screen.Width)
}

func (g *eprom) render(dst *gfx.Bitmap) {
	clip := g.visible()
	if g.videoDisabled() {
		g.drawer.FillRect(dst, clip, 0)
		return
	}
	g.beginFrame(func(pal *gfx.Palette) {
		g.pf.markPens(pal, clip)
		g.mo.Process(clip, func(entry []uint16, _ gfx.Rect) {
			if mo, ok := g.decodeMO(entry); ok {
				markMOPens(pal, g.moEl, mo)
			}
		})
		g.alpha.markPens(pal, clip)
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
			return mo.group < t.group>>2
		})
	})
	g.alpha.draw(d, dst, clip)
}

func (g *eprom) saveLatches(l map[string]int) {
	l["latch"] = int(g.latch.Value)
	l["adc"] = g.adcSel
}

func (g *eprom) loadLatches(l map[string]int) {
	g.latch.Value = uint16(l["latch"])
	g.adcSel = l["adc"]
	if g.latch.Value&1 != 0 {
		g.env.Host.SetResetLine(hwdefs.ExtraCPU, hwdefs.ClearLine)
	}
}
