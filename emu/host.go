package emu

import (
	"atarihw/hw/hwdefs"
	"atarihw/hw/jsa"
)

// NullHost stands in for the CPU cores when the board runs on its own: it
// records the state of the CPU lines and never executes code.
type NullHost struct {
	IRQ         map[hwdefs.CPU]int // asserted level, absent when clear
	NMI         map[hwdefs.CPU]bool
	InReset     map[hwdefs.CPU]bool
	Halted      map[hwdefs.CPU]bool
	Reschedules int
}

func NewNullHost() *NullHost {
	return &NullHost{
		IRQ:     make(map[hwdefs.CPU]int),
		NMI:     make(map[hwdefs.CPU]bool),
		InReset: make(map[hwdefs.CPU]bool),
		Halted:  make(map[hwdefs.CPU]bool),
	}
}

func (h *NullHost) SetIRQLine(cpu hwdefs.CPU, level int, state hwdefs.LineState) {
	if state == hwdefs.ClearLine {
		delete(h.IRQ, cpu)
		return
	}
	h.IRQ[cpu] = level
}

func (h *NullHost) SetNMILine(cpu hwdefs.CPU, state hwdefs.LineState) {
	h.NMI[cpu] = state == hwdefs.AssertLine
}

func (h *NullHost) SetResetLine(cpu hwdefs.CPU, state hwdefs.LineState) {
	// A pulse leaves the CPU running.
	h.InReset[cpu] = state == hwdefs.AssertLine
}

func (h *NullHost) SetHaltLine(cpu hwdefs.CPU, state hwdefs.LineState) {
	h.Halted[cpu] = state == hwdefs.AssertLine
}

func (h *NullHost) SpinUntilInterrupt(hwdefs.CPU) {}
func (h *NullHost) RequestReschedule()            { h.Reschedules++ }
func (h *NullHost) HorzBeamPos() int              { return 0 }
func (h *NullHost) PreviousPC(hwdefs.CPU) uint32  { return 0 }

// Ports holds the value of the input ports. Missing ports read all bits
// high, the idle state of the cabinet inputs.
type Ports map[int]uint16

func (p Ports) ReadPort(index int) uint16 {
	if v, ok := p[index]; ok {
		return v
	}
	return 0xFFFF
}

// SilentChips returns chips answering like idle hardware and producing no
// sound, for boards run without chip emulation.
func SilentChips() jsa.Chips {
	return jsa.Chips{
		YM2151:  silentYM{},
		POKEY:   silentPOKEY{},
		TMS5220: silentTMS{},
		OKI:     [2]jsa.OKI6295{silentOKI{}, silentOKI{}},
	}
}

type silentYM struct{}

func (silentYM) Reset()           {}
func (silentYM) Read(int) uint8   { return 0 }
func (silentYM) Write(int, uint8) {}

type silentPOKEY struct{}

func (silentPOKEY) Read(int) uint8   { return 0xFF }
func (silentPOKEY) Write(int, uint8) {}

type silentTMS struct{}

func (silentTMS) Ready() bool      { return true }
func (silentTMS) WriteData(uint8)  {}
func (silentTMS) SetFrequency(int) {}

type silentOKI struct{}

func (silentOKI) Reset()           {}
func (silentOKI) Status() uint8    { return 0 }
func (silentOKI) Write(uint8)      {}
func (silentOKI) SetFrequency(int) {}
func (silentOKI) SetBankBase(int)  {}
