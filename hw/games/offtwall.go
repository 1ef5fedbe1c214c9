package games

import (
	"atarihw/hw/atarigen"
	"atarihw/hw/gfx"
	"atarihw/hw/hwdefs"
	"atarihw/hw/hwio"
	"atarihw/hw/jsa"
	"atarihw/romset"
)

var OffTheWall = GameDesc{
	Name:     "offtwall",
	FullName: "Off the Wall",
	Year:     1991,
	Screen:   atarigen.Screen{Width: 336, Height: 240, TotalLines: 262, FPS: 60},
	CPUs:     []hwdefs.CPU{hwdefs.MainCPU, hwdefs.AudioCPU},
	JSA:      jsa.JSAIII,
	Chips:    []hwdefs.Chip{hwdefs.YM2151},
	IRQPolicy: atarigen.PriorityPolicy(hwdefs.MainCPU, map[hwdefs.IRQSource]int{
		hwdefs.ScanlineIRQ: 4,
		hwdefs.SoundIRQ:    6,
	}),
	EEPROMSize: 0x1000,
	Regions: []romset.Region{
		{Name: regionMain, Size: 0x40000},
		{Name: regionAudio, Size: jsa.ROMSize},
		{Name: regionPF, Size: 0x40000, Invert: true},
		{Name: regionMO, Size: 0x80000, Invert: true},
	},
	Load: loadOffTheWall,
}

const (
	offtwallMOColors = 0x000
	offtwallPFColors = 0x100
)

// Protection and speed quirks. Addresses are on the main bus.
const (
	// Reading the bank table selects a bank of the window.
	otwBankTableStart = 0x037EC2
	otwBankTableEnd   = 0x037F39
	otwWindowStart    = 0x038000
	otwWindowEnd      = 0x03FFFF
	otwBankSize       = 0x2000

	// The ROM checksum is read from the window and compared against the
	// sum stored in RAM.
	otwChecksumHi    = 0x03E000
	otwChecksumLo    = 0x03E002
	otwChecksumPC    = 0x037000
	otwChecksumMagic = 0xAAAA5555
	otwChecksumRAM   = 0x3FD210

	// Bit 8 of the verify cell tells the game the protection passed.
	otwVerifyCell    = 0x3FDF1E
	otwVerifyPCStart = 0x5C5E
	otwVerifyPCEnd   = 0xC432

	// The sprite cache holds 4-word entries below its count cell. The
	// game expects at least 38 tiles worth of width in it.
	otwCacheCount    = 0x3FDE42
	otwCacheEntries  = otwCacheCount - 0x200
	otwCachePC1      = 0x99F8
	otwCachePC2      = 0x9992
	otwCacheMinWidth = 38

	otwRAMStart = 0x3F8000
)

type offtwall struct {
	*base

	vc    *atarigen.VideoControl
	latch atarigen.Latch
	rom   []byte
	bank  int

	pf    *layer
	pfRAM *hwio.Mem
	moRAM *hwio.Mem
	ram   *hwio.Mem
	mo    *atarigen.MOList
	moEl  *gfx.Element
}

func loadOffTheWall(b *base) (driver, error) {
	g := &offtwall{base: b}

	pfEl, err := b.decodeGfx(regionPF, layout4bpp8x8, offtwallPFColors)
	if err != nil {
		return nil, err
	}
	if g.moEl, err = b.decodeGfx(regionMO, layout4bpp8x8, offtwallMOColors); err != nil {
		return nil, err
	}
	if g.rom, err = b.roms.Region(regionMain); err != nil {
		return nil, err
	}

	m := b.main
	if err := b.mapROM(m, 0x000000, regionMain, 0, otwBankTableStart); err != nil {
		return nil, err
	}
	b.mapRead(m, otwBankTableStart, otwBankTableEnd, "bank-table", g.bankTableRead)
	if err := b.mapROM(m, otwBankTableEnd+1, regionMain, otwBankTableEnd+1, otwWindowStart-otwBankTableEnd-1); err != nil {
		return nil, err
	}
	b.mapRead(m, otwWindowStart, otwWindowEnd, "window", func(off uint32) uint16 {
		return g.windowRead(off, g.pc())
	})
	b.mapEEPROM(0x120000, true)
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

	pf := atarigen.NewPlayfield("pf", 64, 64, 8, 8, true, b.desc.Screen.Height)
	g.pfRAM = b.mapRAM(m, 0x3F4000, "pf", 0x2000)
	g.pfRAM.WriteCb = pf.TrackWrite
	g.moRAM = b.mapRAM(m, 0x3F6000, "mo", 0x2000)

	// Work RAM goes through a device: some of its cells are read with side
	// effects.
	g.ram = b.ram("ram", 0x8000)
	m.MapDevice(otwRAMStart, &hwio.Device{
		Name:   "ram",
		Size:   len(g.ram.Data),
		ReadCb: func(off uint32) uint16 { return g.ramRead(off, g.pc()) },
		PeekCb: func(off uint32) uint16 { return hwio.ReadWord(g.ram.Data, off) },
		WriteCb: func(off uint32, val, mask uint16) {
			hwio.WriteWordMasked(g.ram.Data, off, val, mask)
		},
	})

	g.pf = b.addLayer(&layer{pf: pf, el: pfEl, tile: g.tile})
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

	b.gen.OnFrameStart(func() {
		pf.ResetList()
		g.mo.Reset()
	})
	return g, nil
}

func (g *offtwall) tile(index int) tileInfo {
	w := hwio.ReadWord(g.pfRAM.Data, uint32(index*2))
	c := int(w>>12) & 7
	return tileInfo{
		code:  int(w & 0xFFF),
		flipx: w&0x8000 != 0,
		color: c,
		group: c,
	}
}

func (g *offtwall) reset() {
	g.vc.Reset()
	g.latch.Reset(0)
	g.bank = 0
	g.gen.ScanlineTimerReset(g.scanlineUpdate, 8)
}

func (g *offtwall) latchChanged(old, cur uint16) {
	g.audioReset(old, cur, 4)
}

// bankTableRead returns the table word and selects the bank given by its
// position in the table.
func (g *offtwall) bankTableRead(off uint32) uint16 {
	g.bank = int(off/2) & 3
	modQuirk.DebugZ("bankswitch").Int("bank", g.bank).End()
	return hwio.ReadWord(g.rom, otwBankTableStart+off)
}

// windowRead reads the banked window. Past the ROM code the checksum cells
// read back the value that makes the ROM sum match.
func (g *offtwall) windowRead(off, pc uint32) uint16 {
	if pc > otwChecksumPC {
		switch otwWindowStart + off {
		case otwChecksumHi:
			return uint16(g.checksum() >> 16)
		case otwChecksumLo:
			return uint16(g.checksum())
		}
	}
	return hwio.ReadWord(g.rom, otwWindowStart+(uint32(g.bank*otwBankSize)+off)&0x7FFF)
}

func (g *offtwall) checksum() uint32 {
	off := uint32(otwChecksumRAM - otwRAMStart)
	sum := uint32(hwio.ReadWord(g.ram.Data, off))<<16 | uint32(hwio.ReadWord(g.ram.Data, off+2))
	return otwChecksumMagic - sum
}

func (g *offtwall) ramRead(off, pc uint32) uint16 {
	switch otwRAMStart + off {
	case otwVerifyCell:
		return g.verifyRead(pc)
	case otwCacheCount:
		if pc == otwCachePC1 || pc == otwCachePC2 {
			return g.spriteCacheRead()
		}
	}
	return hwio.ReadWord(g.ram.Data, off)
}

// verifyRead shows the verify bit set while the protection check runs,
// leaving the stored word unchanged.
func (g *offtwall) verifyRead(pc uint32) uint16 {
	w := hwio.ReadWord(g.ram.Data, otwVerifyCell-otwRAMStart)
	if pc >= otwVerifyPCStart && pc <= otwVerifyPCEnd {
		w |= 0x0100
	}
	return w
}

// spriteCacheRead pads the sprite cache with off-screen entries until it
// holds enough width, and returns the updated count word.
func (g *offtwall) spriteCacheRead() uint16 {
	countOff := uint32(otwCacheCount - otwRAMStart)
	base := uint32(otwCacheEntries - otwRAMStart)
	w := hwio.ReadWord(g.ram.Data, countOff)
	count := int(w >> 8)

	width := 0
	for i := range count {
		w1 := hwio.ReadWord(g.ram.Data, base+uint32(i*8)+2)
		width += 1 + int(w1>>4)&7
	}
	for width <= otwCacheMinWidth && (count+1)*8 <= 0x200 {
		e := base + uint32(count*8)
		hwio.WriteWord(g.ram.Data, e, (42*8)<<7)
		hwio.WriteWord(g.ram.Data, e+2, (30*8)<<7|7<<4)
		hwio.WriteWord(g.ram.Data, e+4, 0)
		width += 8
		count++
	}
	w = uint16(count)<<8 | w&0xFF
	hwio.WriteWord(g.ram.Data, countOff, w)
	modQuirk.DebugZ("sprite cache").Int("count", count).Int("width", width).End()
	return w
}

func (g *offtwall) scanlineUpdate(scanline int) {
	st := g.vc.State
	g.pf.pf.Update(atarigen.PFState{HScroll: st.PF1XScroll, VScroll: st.PF1YScroll}, scanline)
	g.mo.Update(g.moRAM.Data, 0, scanline)
}

func (g *offtwall) decodeMO(entry []uint16) (moInfo, bool) {
	st := g.vc.State
	return decodeMO1024(entry, st.MOXScroll, st.MOYScroll, g.desc.Screen.Width)
}

func (g *offtwall) render(dst *gfx.Bitmap) {
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
			return mo.group < t.group>>1
		})
	})
}

func (g *offtwall) saveLatches(l map[string]int) {
	l["latch"] = int(g.latch.Value)
	l["bank"] = g.bank
	saveVideoControl(g.vc, l)
}

func (g *offtwall) loadLatches(l map[string]int) {
	g.latch.Value = uint16(l["latch"])
	g.bank = l["bank"]
	g.loadVideoControl(g.vc, l)
}
