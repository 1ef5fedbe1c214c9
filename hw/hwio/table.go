package hwio

import (
	"fmt"

	"atarihw/emu/log"
)

// BankIO16 is implemented by anything that can sit on a 16-bit data bus.
// Addresses passed to handlers are relative to the mapping base.
type BankIO16 interface {
	// Read16 reads the word at the even offset off. If peek is true, the read
	// must not have side effects (debugging/tracing).
	Read16(off uint32, peek bool) uint16
	// Write16 writes val on the byte lanes selected by mask.
	Write16(off uint32, val, mask uint16)
}

// Table is a 16-bit wide bus with a 24-bit address space, as seen by a
// 68000 CPU.
type Table struct {
	Name string

	// Unmapped is returned by reads of addresses nothing is mapped at.
	Unmapped uint16
	// LogUnmapped logs accesses to unmapped addresses.
	LogUnmapped bool

	spans rangeMap[BankIO16]
}

const addrMask24 = 0xFFFFFF

func NewTable(name string) *Table {
	return &Table{Name: name, Unmapped: 0xFFFF}
}

func (t *Table) Reset() {
	t.spans = rangeMap[BankIO16]{}
}

// Map maps io over [begin, end]. Overlapping an existing mapping is a
// programming error and panics.
func (t *Table) Map(begin, end uint32, io BankIO16) {
	if err := t.spans.insert(begin&addrMask24, end&addrMask24, io); err != nil {
		panic(fmt.Errorf("bus %s: %w", t.Name, err))
	}
}

func (t *Table) MapMem(addr uint32, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex32("addr", addr).
		Hex32("size", uint32(mem.vsize())).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	t.Map(addr, addr+uint32(mem.vsize())-1, mem.BankIO16())
}

func (t *Table) MapDevice(addr uint32, dev *Device) {
	t.Map(addr, addr+uint32(dev.Size)-1, dev)
}

// MapReg16 maps a register over [begin, end] (mirrored on every word).
func (t *Table) MapReg16(begin, end uint32, reg *Reg16) {
	t.Map(begin, end, reg)
}

func (t *Table) Unmap(begin, end uint32) {
	t.spans.remove(begin&addrMask24, end&addrMask24)
}

func (t *Table) Read16(addr uint32) uint16 {
	return t.read16(addr, false)
}

func (t *Table) Peek16(addr uint32) uint16 {
	return t.read16(addr, true)
}

func (t *Table) read16(addr uint32, peek bool) uint16 {
	addr &= addrMask24 &^ 1
	s, ok := t.spans.search(addr)
	if !ok {
		if t.LogUnmapped && !peek {
			log.ModHwIo.ErrorZ("unmapped Read16").
				String("bus", t.Name).
				Hex32("addr", addr).
				End()
		}
		return t.Unmapped
	}
	return s.io.Read16(addr-s.base, peek)
}

func (t *Table) Write16(addr uint32, val, mask uint16) {
	addr &= addrMask24 &^ 1
	s, ok := t.spans.search(addr)
	if !ok {
		if t.LogUnmapped {
			log.ModHwIo.ErrorZ("unmapped Write16").
				String("bus", t.Name).
				Hex32("addr", addr).
				Hex16("val", val).
				Hex16("mask", mask).
				End()
		}
		return
	}
	s.io.Write16(addr-s.base, val, mask)
}

// Read8 performs a byte read: even addresses return the upper lane.
func (t *Table) Read8(addr uint32) uint8 {
	w := t.Read16(addr)
	if addr&1 == 0 {
		return uint8(w >> 8)
	}
	return uint8(w)
}

// Write8 performs a byte write, driving only the lane addressed.
func (t *Table) Write8(addr uint32, val uint8) {
	if addr&1 == 0 {
		t.Write16(addr, uint16(val)<<8, MaskHigh)
		return
	}
	t.Write16(addr, uint16(val), MaskLow)
}

// Read32 and Write32 split long accesses into two word accesses, high word
// first.
func (t *Table) Read32(addr uint32) uint32 {
	return uint32(t.Read16(addr))<<16 | uint32(t.Read16(addr+2))
}

func (t *Table) Write32(addr uint32, val uint32) {
	t.Write16(addr, uint16(val>>16), MaskWord)
	t.Write16(addr+2, uint16(val), MaskWord)
}
