// Package jsa emulates the JSA family of Atari audio boards: the bus of
// their 6502, the register window that drives the sound chips, program ROM
// banking and the volume mixer.
package jsa

import (
	"fmt"

	"atarihw/emu/log"
	"atarihw/hw/atarigen"
	"atarihw/hw/hwdefs"
	"atarihw/hw/hwio"
)

var modJSA = log.NewModule("jsa")

// Variant is a board revision.
type Variant int

const (
	JSAI Variant = iota
	JSAII
	JSAIII
	JSAIIIS
)

func (v Variant) String() string {
	switch v {
	case JSAI:
		return "JSA I"
	case JSAII:
		return "JSA II"
	case JSAIII:
		return "JSA III"
	case JSAIIIS:
		return "JSA IIIs"
	}
	return "JSA ?"
}

const (
	masterClock = 3579545
	okiClock    = 14318180 / 12

	bankWindow = 0x3000
	bankSource = 0x10000
	bankSize   = 0x1000
	// ROMSize is the size of the audio CPU region: 64K address space plus
	// the four banked pages.
	ROMSize = bankSource + 4*bankSize
)

// Config describes a board instance.
type Config struct {
	Variant Variant
	Chips   Chips
	Mixer   VolumeSink
	Ports   Ports

	IOPort   int    // port read by /RDIO
	TestPort int    // port holding the self-test switch
	TestMask uint16 // self-test switch bit, active low

	ROM []byte // audio CPU region, ROMSize bytes

	Speedup  *atarigen.Speedup
	PCSource atarigen.PCSource
}

// Board is a JSA audio board.
type Board struct {
	cfg  Config
	gen  *atarigen.Platform
	regs regset

	Bus    *hwio.Table8
	RAM    [0x2000]byte
	Window [bankSize]byte

	Bank        int
	Overall     int
	Volumes     [hwdefs.NumChips]int
	OKIBankBase [2]int
	SpeechData  uint8
	LastCtl     uint8

	CoinCounters [2]int // /WRIO bit 4 and bit 5 rising edges

	timed *atarigen.Event
}

// regset is the register decode of one variant.
type regset interface {
	read(b *Board, off uint16) uint8
	write(b *Board, off uint16, val uint8)
	chips() []hwdefs.Chip // chips the variant can carry
}

func New(gen *atarigen.Platform, cfg Config) (*Board, error) {
	var regs regset
	switch cfg.Variant {
	case JSAI:
		regs = jsaI{}
	case JSAII:
		regs = jsaII{}
	case JSAIII:
		regs = jsaIII{}
	case JSAIIIS:
		regs = jsaIIIS{}
	default:
		return nil, fmt.Errorf("unknown jsa variant %d", cfg.Variant)
	}
	if len(cfg.ROM) < ROMSize {
		return nil, fmt.Errorf("%v: audio rom is %d bytes, want %d", cfg.Variant, len(cfg.ROM), ROMSize)
	}
	if cfg.Chips.YM2151 == nil {
		return nil, fmt.Errorf("%v: YM2151 is required", cfg.Variant)
	}
	for chip := range hwdefs.NumChips {
		if cfg.Chips.present(chip) && !supports(regs, chip) {
			return nil, fmt.Errorf("%v cannot carry a %v", cfg.Variant, chip)
		}
	}
	if cfg.Speedup != nil && cfg.PCSource == nil {
		return nil, fmt.Errorf("%v: speedup needs a pc source", cfg.Variant)
	}

	b := &Board{cfg: cfg, gen: gen, regs: regs}
	b.mapBus()
	return b, nil
}

func supports(regs regset, chip hwdefs.Chip) bool {
	for _, c := range regs.chips() {
		if c == chip {
			return true
		}
	}
	return false
}

func (b *Board) Variant() Variant { return b.cfg.Variant }

// Present reports whether a chip is populated.
func (b *Board) Present(chip hwdefs.Chip) bool { return b.cfg.Chips.present(chip) }

func (b *Board) mapBus() {
	b.Bus = hwio.NewTable8("jsa")
	b.Bus.MapMem(0x0000, &hwio.Mem{Name: "ram", Data: b.RAM[:]})
	b.Bus.MapDevice(0x2000, &hwio.Device8{
		Name:    "ym2151",
		Size:    0x800,
		ReadCb:  func(off uint16) uint8 { return b.cfg.Chips.YM2151.Read(int(off & 1)) },
		WriteCb: func(off uint16, val uint8) { b.cfg.Chips.YM2151.Write(int(off&1), val) },
	})
	b.Bus.MapDevice(0x2800, &hwio.Device8{
		Name:    "io",
		Size:    0x400,
		ReadCb:  func(off uint16) uint8 { return b.regs.read(b, off) },
		PeekCb:  func(uint16) uint8 { return 0xFF },
		WriteCb: func(off uint16, val uint8) { b.regs.write(b, off, val) },
	})
	if pokey := b.cfg.Chips.POKEY; pokey != nil {
		b.Bus.MapDevice(0x2C00, &hwio.Device8{
			Name:    "pokey",
			Size:    0x400,
			ReadCb:  func(off uint16) uint8 { return pokey.Read(int(off & 0xF)) },
			WriteCb: func(off uint16, val uint8) { pokey.Write(int(off&0xF), val) },
		})
	}
	b.Bus.MapMem(bankWindow, &hwio.Mem{Name: "bank", Data: b.Window[:], Flags: hwio.MemFlagReadOnly})
	b.Bus.MapMem(0x4000, &hwio.Mem{Name: "rom0", Data: b.cfg.ROM[0x4000:0x8000], Flags: hwio.MemFlagReadOnly})
	b.Bus.MapMem(0x8000, &hwio.Mem{Name: "rom1", Data: b.cfg.ROM[0x8000:0x10000], Flags: hwio.MemFlagReadOnly})

	if s := b.cfg.Speedup; s != nil {
		b.Bus.Unmap(s.Addr, s.Addr)
		b.Bus.MapDevice(s.Addr, &hwio.Device8{
			Name:    "speedup",
			Size:    1,
			ReadCb:  b.gen.SpeedupRead(*s, b.RAM[:], b.cfg.PCSource),
			WriteCb: func(_ uint16, val uint8) { b.RAM[s.Addr] = val },
		})
	}
}

// Reset brings the board to its power-on state: full volumes, bank 0, and a
// cleared mailbox.
func (b *Board) Reset() {
	b.Overall = 100
	for i := range b.Volumes {
		b.Volumes[i] = 100
	}
	b.OKIBankBase = [2]int{}
	b.SpeechData = 0
	b.LastCtl = 0
	b.setBank(0)
	b.UpdateAllVolumes()
	b.gen.Sound.Reset()

	if b.timed != nil {
		b.gen.Sched.Cancel(b.timed)
	}
	b.timed = b.gen.Sched.Every(0, b.timedPeriod(), "jsa-timed-irq", func(int) {
		b.gen.Sound.TimedIntGen()
	})
}

// timedPeriod returns the period in scanlines of the 6502 timed interrupt,
// clocked at masterClock/4/16/16/14.
func (b *Board) timedPeriod() int {
	scr := b.gen.Screen
	linesPerSec := scr.TotalLines * scr.FPS
	return max(1, (linesPerSec*4*16*16*14+masterClock/2)/masterClock)
}

func (b *Board) setBank(bank int) {
	b.Bank = bank & 3
	src := bankSource + b.Bank*bankSize
	copy(b.Window[:], b.cfg.ROM[src:src+bankSize])
}

// Restore applies the exported bank and volume fields after they have been
// loaded from a saved state.
func (b *Board) Restore() {
	b.setBank(b.Bank)
	for i, base := range b.OKIBankBase {
		b.setOKIBank(i, base)
	}
	b.UpdateAllVolumes()
}

// UpdateAllVolumes forwards the effective volume of every present chip to
// the mixer.
func (b *Board) UpdateAllVolumes() {
	if b.cfg.Mixer == nil {
		return
	}
	for chip := range hwdefs.NumChips {
		if b.cfg.Chips.present(chip) {
			b.cfg.Mixer.SetChipVolume(chip, b.Overall*b.Volumes[chip]/100)
		}
	}
}

// readIO composes the /RDIO byte: the input port with the status bits
// XORed in.
func (b *Board) readIO(testBits uint8, tms bool) uint8 {
	result := uint8(0xFF)
	if b.cfg.Ports != nil {
		result = uint8(b.cfg.Ports.ReadPort(b.cfg.IOPort))
		if b.cfg.Ports.ReadPort(b.cfg.TestPort)&b.cfg.TestMask == 0 {
			result ^= testBits
		}
	}
	snd := b.gen.Sound
	if snd.CPUToSoundReady {
		result ^= 0x40
	}
	if snd.SoundToCPUReady {
		result ^= 0x20
	}
	if tms && (b.cfg.Chips.TMS5220 == nil || b.cfg.Chips.TMS5220.Ready()) {
		result ^= 0x10
	}
	return result
}

// writeCtl handles the /WRIO bits common to all variants: YM2151 reset,
// coin counters and program bank.
func (b *Board) writeCtl(val uint8) {
	if val&0x01 == 0 {
		b.cfg.Chips.YM2151.Reset()
	}
	old := uint16(b.LastCtl)
	if hwio.RisingEdge(old, uint16(val), 4) {
		b.CoinCounters[0]++
	}
	if hwio.RisingEdge(old, uint16(val), 5) {
		b.CoinCounters[1]++
	}
	b.setBank(int(val >> 6))
}

// writeOKICtl handles the OKI6295 bits of /WRIO: clock select (bit 3) and
// reset (bit 2, active low).
func (b *Board) writeOKICtl(val uint8) {
	div := 165
	if val&0x08 != 0 {
		div = 132
	}
	for _, oki := range b.cfg.Chips.OKI {
		if oki == nil {
			continue
		}
		oki.SetFrequency(okiClock / div)
		if val&0x04 == 0 {
			oki.Reset()
		}
	}
}

func (b *Board) setOKIBank(i, base int) {
	b.OKIBankBase[i] = base
	if oki := b.cfg.Chips.OKI[i]; oki != nil {
		oki.SetBankBase(base)
	}
}

func (b *Board) unknownRead(off uint16) uint8 {
	modJSA.DebugZ("unknown read").Stringer("board", b.cfg.Variant).Hex16("off", off).End()
	return 0xFF
}

func (b *Board) unknownWrite(off uint16, val uint8) {
	modJSA.DebugZ("unknown write").Stringer("board", b.cfg.Variant).Hex16("off", off).Hex8("val", val).End()
}

// volume scales a raw register field of the given width to 0-100.
func volume(raw, maxRaw uint8) int {
	return int(raw) * 100 / int(maxRaw)
}
