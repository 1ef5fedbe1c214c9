// Package atarigen implements the hardware services shared by the Atari
// raster boards: EEPROM, the sound mailbox between the main CPU and the JSA
// audio CPU, interrupt synthesis, the scanline scheduler, the video
// controller, and the playfield and motion object bookkeeping used by the
// compositors.
package atarigen

import (
	"fmt"
	"slices"

	"atarihw/hw/hwdefs"
)

// Host is the set of services the emulated CPUs and their scheduler provide
// to the board.
type Host interface {
	// SetIRQLine sets the interrupt level of a CPU. For 68000 CPUs asserting
	// a level replaces the previous one; clearing uses hwdefs.NoIRQ. The 6502
	// has a single IRQ line, level 0.
	SetIRQLine(cpu hwdefs.CPU, level int, state hwdefs.LineState)
	SetNMILine(cpu hwdefs.CPU, state hwdefs.LineState)
	SetResetLine(cpu hwdefs.CPU, state hwdefs.LineState)
	SetHaltLine(cpu hwdefs.CPU, state hwdefs.LineState)
	// SpinUntilInterrupt suspends a CPU until its next interrupt.
	SpinUntilInterrupt(cpu hwdefs.CPU)
	// RequestReschedule asks the scheduler to interleave CPUs sooner.
	RequestReschedule()
	// HorzBeamPos returns the horizontal beam position, in pixels.
	HorzBeamPos() int
}

// Screen describes the raster timing of a board.
type Screen struct {
	Width, Height int // visible area
	TotalLines    int // lines per frame, VBLANK included
	FPS           int
}

// Config describes the shared hardware of a board.
type Config struct {
	CPUs          []hwdefs.CPU
	Screen        Screen
	IRQPolicy     IRQPolicy
	EEPROMSize    int
	EEPROMDefault []uint16
}

// Platform is the shared state of one emulated machine. Everything the
// per-game handlers mutate lives here or in the game's own state, never in
// package variables.
type Platform struct {
	host   Host
	cpus   []hwdefs.CPU
	Screen Screen

	EEPROM   *EEPROM
	Sound    *SoundIO
	IRQ      *Interrupts
	Sched    *Scheduler
	Messages *Messages

	frameResets  []func()
	scanlineTick *Event
}

func New(host Host, cfg Config) (*Platform, error) {
	if cfg.Screen.TotalLines <= cfg.Screen.Height || cfg.Screen.Height <= 0 {
		return nil, fmt.Errorf("invalid screen timing: %d visible lines, %d total", cfg.Screen.Height, cfg.Screen.TotalLines)
	}
	if !slices.Contains(cfg.CPUs, hwdefs.MainCPU) {
		return nil, fmt.Errorf("board without main CPU")
	}
	if cfg.Screen.FPS == 0 {
		cfg.Screen.FPS = 60
	}

	p := &Platform{
		host:   host,
		cpus:   slices.Clone(cfg.CPUs),
		Screen: cfg.Screen,
	}
	p.EEPROM = NewEEPROM(cfg.EEPROMSize, cfg.EEPROMDefault)
	p.IRQ = newInterrupts(p, cfg.IRQPolicy)
	p.Sound = newSoundIO(p)
	p.Sched = NewScheduler(cfg.Screen.TotalLines)
	p.Messages = NewMessages(cfg.Screen.FPS)
	return p, nil
}

func (p *Platform) Host() Host { return p.host }

// HasCPU reports whether the board has the given CPU.
func (p *Platform) HasCPU(cpu hwdefs.CPU) bool {
	return slices.Contains(p.cpus, cpu)
}

// Reset brings the shared hardware to its power-on state. EEPROM contents
// are preserved.
func (p *Platform) Reset() {
	p.EEPROM.Reset()
	p.Sound.Reset()
	p.IRQ.Reset()
	p.Sched.Reset()
	p.scanlineTick = nil
}

// OnFrameStart registers a function called at scanline 0 of every frame,
// before the scanline callback.
func (p *Platform) OnFrameStart(fn func()) {
	p.frameResets = append(p.frameResets, fn)
}

// ScanlineTimerReset arms update to be called at scanline 0 and every
// linesPerCall scanlines after it, up to the end of the frame.
func (p *Platform) ScanlineTimerReset(update func(scanline int), linesPerCall int) {
	if p.scanlineTick != nil {
		p.Sched.Cancel(p.scanlineTick)
		p.scanlineTick = nil
	}
	if update == nil || linesPerCall <= 0 {
		return
	}

	var fire func(scanline int)
	fire = func(scanline int) {
		if scanline == 0 {
			for _, fn := range p.frameResets {
				fn()
			}
		}
		update(scanline)

		next := scanline + linesPerCall
		if next >= p.Screen.TotalLines {
			next = 0
		}
		p.scanlineTick = p.Sched.At(next, "scanline-update", fire)
	}
	p.scanlineTick = p.Sched.At(0, "scanline-update", fire)
}

// Scanline returns the scanline being drawn.
func (p *Platform) Scanline() int {
	return p.Sched.Line()
}

// InVBlank reports whether the beam is in the vertical blanking interval.
func (p *Platform) InVBlank() bool {
	return p.Sched.Line() >= p.Screen.Height
}
