package atarigen

import (
	"fmt"
	"testing"

	"atarihw/hw/hwdefs"
)

// recHost records every line change requested by the board.
type recHost struct {
	calls       []string
	irq         map[hwdefs.CPU]int
	nmi         map[hwdefs.CPU]bool
	resets      int
	halted      bool
	spins       int
	reschedules int
	hpos        int
}

func newRecHost() *recHost {
	return &recHost{irq: map[hwdefs.CPU]int{}, nmi: map[hwdefs.CPU]bool{}}
}

func (h *recHost) SetIRQLine(cpu hwdefs.CPU, level int, state hwdefs.LineState) {
	h.calls = append(h.calls, fmt.Sprintf("irq %v %d %v", cpu, level, state))
	if state == hwdefs.AssertLine {
		h.irq[cpu] = level
	} else {
		h.irq[cpu] = 0
	}
}

func (h *recHost) SetNMILine(cpu hwdefs.CPU, state hwdefs.LineState) {
	h.nmi[cpu] = state == hwdefs.AssertLine
}

func (h *recHost) SetResetLine(cpu hwdefs.CPU, state hwdefs.LineState) {
	h.calls = append(h.calls, fmt.Sprintf("reset %v %v", cpu, state))
	h.resets++
}

func (h *recHost) SetHaltLine(cpu hwdefs.CPU, state hwdefs.LineState) {
	h.halted = state == hwdefs.AssertLine
}

func (h *recHost) SpinUntilInterrupt(hwdefs.CPU) { h.spins++ }
func (h *recHost) RequestReschedule()            { h.reschedules++ }
func (h *recHost) HorzBeamPos() int              { return h.hpos }

func (h *recHost) reset() { h.calls = nil }

var testPolicy = PriorityPolicy(hwdefs.MainCPU, map[hwdefs.IRQSource]int{
	hwdefs.ScanlineIRQ: 1,
	hwdefs.VideoIRQ:    2,
	hwdefs.SoundIRQ:    4,
})

func newTestPlatform(t *testing.T) (*Platform, *recHost) {
	t.Helper()
	h := newRecHost()
	p, err := New(h, Config{
		CPUs:       []hwdefs.CPU{hwdefs.MainCPU, hwdefs.AudioCPU},
		Screen:     Screen{Width: 336, Height: 240, TotalLines: 262},
		IRQPolicy:  testPolicy,
		EEPROMSize: 0x100,
	})
	if err != nil {
		t.Fatal(err)
	}
	p.Reset()
	h.reset()
	return p, h
}

// runLines ticks the scheduler n times.
func runLines(p *Platform, n int) {
	for range n {
		p.Sched.Tick()
	}
}
