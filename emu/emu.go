// Package emu runs a game board frame by frame and handles what lives around
// it: configuration, NVRAM, save states and screenshots.
package emu

import (
	"fmt"
	"sync/atomic"
	"time"

	"atarihw/emu/log"
	"atarihw/hw/games"
	"atarihw/hw/sound"
	"atarihw/romset"
)

type Emulator struct {
	Machine *games.Machine
	Mixer   *sound.Mixer // nil when audio is disabled
	cfg     Config

	frame    uint64
	messages []string

	// These are accessed concurrently by the emulator loop and its
	// controller.
	quit   atomic.Bool
	paused atomic.Bool
	reset  atomic.Bool
}

// Launch builds the board of a game and plugs it into env. A nil host, pc
// source or ports in env are replaced by a NullHost and idle inputs, and
// absent chips by silent ones. Audio samples go to sink, which may be nil. It
// doesn't start the emulation loop, call Run for that.
func Launch(desc *games.GameDesc, roms romset.Set, env games.Env, sink sound.Sink, cfg Config) (*Emulator, error) {
	cfg.Check()
	if env.Host == nil {
		h := NewNullHost()
		env.Host = h
		if env.PCs == nil {
			env.PCs = h
		}
	}
	if env.Ports == nil {
		env.Ports = Ports{}
	}
	if env.Chips.YM2151 == nil {
		env.Chips = SilentChips()
	}

	e := &Emulator{cfg: cfg}
	if !cfg.Audio.DisableAudio {
		e.Mixer = sound.NewMixer(cfg.Audio.SampleRate, sink)
		env.Mixer = e.Mixer
	}

	m, err := games.Load(desc, roms, env)
	if err != nil {
		return nil, fmt.Errorf("power up failed: %w", err)
	}
	e.Machine = m

	if cfg.Audio.DisableAudio {
		log.ModEmu.WarnZ("Audio disabled").End()
		if !cfg.Emulation.SkipSoundMessage {
			m.Platform().Messages.ShowSound()
		}
	} else {
		log.ModEmu.InfoZ("Audio enabled").Uint32("rate", cfg.Audio.SampleRate).End()
	}
	return e, nil
}

// Frame returns the number of frames run since launch.
func (e *Emulator) Frame() uint64 { return e.frame }

// Messages returns the on-screen messages of the last frame.
func (e *Emulator) Messages() []string { return e.messages }

// RunOneFrame runs every scanline of a frame, closes the audio frame and
// renders the screen.
func (e *Emulator) RunOneFrame() {
	m := e.Machine
	scr := m.Desc().Screen
	for range scr.TotalLines {
		m.Tick()
	}
	if e.Mixer != nil {
		e.Mixer.EndFrame(uint32(sound.ClockRate / scr.FPS))
	}
	m.Render()
	e.messages = m.Platform().Messages.Tick()
	e.frame++
}

// Run runs frames until Stop is called, or n frames have run when n > 0.
func (e *Emulator) Run(n int) {
	start := e.frame
	for !e.quit.Load() {
		if n > 0 && e.frame-start >= uint64(n) {
			break
		}
		// Handle pause.
		if e.paused.Load() {
			// Don't burn cpu while paused.
			time.Sleep(100 * time.Millisecond)
		} else {
			e.RunOneFrame()
		}
		e.handleReset()
	}
	log.ModEmu.InfoZ("Emulation loop exited").Uint("frames", e.frame-start).End()
}

// SetPause, Stop and Reset allow to control the emulator loop in a
// concurrent-safe way.

func (e *Emulator) SetPause(pause bool) { e.paused.CompareAndSwap(!pause, pause) }
func (e *Emulator) Reset()              { e.reset.Store(true) }
func (e *Emulator) Stop()               { e.quit.Store(true) }

func (e *Emulator) handleReset() {
	if e.reset.CompareAndSwap(true, false) {
		log.ModEmu.InfoZ("Performing reset").End()
		e.Machine.Reset()
		if e.Mixer != nil {
			e.Mixer.Reset()
		}
	}
}
