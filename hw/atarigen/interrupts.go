package atarigen

import (
	"fmt"

	"atarihw/hw/hwdefs"
)

// IRQLine is the interrupt level a policy wants on a CPU. Level 0 means no
// interrupt.
type IRQLine struct {
	CPU   hwdefs.CPU
	Level int
}

// IRQPolicy maps the pending interrupt sources to the level of every CPU it
// drives. It must be a pure function of its argument.
type IRQPolicy func(pending hwdefs.IRQSource) []IRQLine

// Interrupts keeps the pending interrupt sources of the main CPUs and applies
// the board policy to the CPU lines.
type Interrupts struct {
	p       *Platform
	policy  IRQPolicy
	pending hwdefs.IRQSource
	levels  map[hwdefs.CPU]int

	scanlineEvent *Event
}

func newInterrupts(p *Platform, policy IRQPolicy) *Interrupts {
	return &Interrupts{p: p, policy: policy, levels: make(map[hwdefs.CPU]int)}
}

// SetPolicy installs a new policy and resets the interrupt state.
func (irq *Interrupts) SetPolicy(policy IRQPolicy) {
	irq.policy = policy
	irq.Reset()
}

func (irq *Interrupts) Reset() {
	irq.pending = 0
	clear(irq.levels)
	if irq.scanlineEvent != nil {
		irq.p.Sched.Cancel(irq.scanlineEvent)
		irq.scanlineEvent = nil
	}
}

// Pending returns the set of pending sources.
func (irq *Interrupts) Pending() hwdefs.IRQSource { return irq.pending }

// Restore sets the pending sources of a saved state and drives the lines.
func (irq *Interrupts) Restore(pending hwdefs.IRQSource) {
	irq.pending = pending
	irq.Update()
}

// Level returns the level last applied to a CPU, 0 if none.
func (irq *Interrupts) Level(cpu hwdefs.CPU) int { return irq.levels[cpu] }

func (irq *Interrupts) Gen(src hwdefs.IRQSource) {
	irq.pending |= src
	irq.Update()
}

func (irq *Interrupts) Ack(src hwdefs.IRQSource) {
	irq.pending &^= src
	irq.Update()
}

func (irq *Interrupts) ScanlineIntGen() { irq.Gen(hwdefs.ScanlineIRQ) }
func (irq *Interrupts) ScanlineIntAck() { irq.Ack(hwdefs.ScanlineIRQ) }
func (irq *Interrupts) SoundIntGen()    { irq.Gen(hwdefs.SoundIRQ) }
func (irq *Interrupts) SoundIntAck()    { irq.Ack(hwdefs.SoundIRQ) }
func (irq *Interrupts) VideoIntGen()    { irq.Gen(hwdefs.VideoIRQ) }
func (irq *Interrupts) VideoIntAck()    { irq.Ack(hwdefs.VideoIRQ) }

// Update applies the policy to the current sources. Lines already at the
// wanted level are left untouched, so repeated calls have no effect.
func (irq *Interrupts) Update() {
	if irq.policy == nil {
		return
	}
	for _, line := range irq.policy(irq.pending) {
		if !irq.p.HasCPU(line.CPU) {
			panic(fmt.Sprintf("interrupt policy drives unknown cpu %v", line.CPU))
		}
		last, known := irq.levels[line.CPU]
		if known && last == line.Level {
			continue
		}
		irq.levels[line.CPU] = line.Level
		if line.Level != 0 {
			irq.p.host.SetIRQLine(line.CPU, line.Level, hwdefs.AssertLine)
		} else {
			irq.p.host.SetIRQLine(line.CPU, hwdefs.NoIRQ, hwdefs.ClearLine)
		}
	}
}

// ScanlineIntSet arms the scanline interrupt at the given line. It then
// fires once per frame until re-armed.
func (irq *Interrupts) ScanlineIntSet(scanline int) {
	if irq.scanlineEvent != nil {
		irq.p.Sched.Cancel(irq.scanlineEvent)
	}
	irq.scanlineEvent = irq.p.Sched.Every(scanline, irq.p.Screen.TotalLines, "scanline-irq", func(int) {
		irq.ScanlineIntGen()
	})
}

// ScanlinePulse raises the scanline interrupt n lines from now and drops it
// the line after.
func (irq *Interrupts) ScanlinePulse(n int) {
	irq.p.Sched.After(n, "scanline-irq-on", func(int) {
		irq.ScanlineIntGen()
		irq.p.Sched.After(1, "scanline-irq-off", func(int) {
			irq.ScanlineIntAck()
		})
	})
}

// PriorityPolicy builds the common policy where each source maps to a
// fixed level on a single CPU, and the highest pending level wins.
func PriorityPolicy(cpu hwdefs.CPU, levels map[hwdefs.IRQSource]int) IRQPolicy {
	return func(pending hwdefs.IRQSource) []IRQLine {
		level := 0
		for src, l := range levels {
			if pending&src != 0 && l > level {
				level = l
			}
		}
		return []IRQLine{{CPU: cpu, Level: level}}
	}
}
