package hwio

import (
	"fmt"

	"atarihw/emu/log"
)

// BankIO8 is implemented by anything that can sit on an 8-bit data bus.
// Addresses passed to handlers are relative to the mapping base.
type BankIO8 interface {
	Read8(off uint16, peek bool) uint8
	Write8(off uint16, val uint8)
}

// Table8 is an 8-bit wide bus with a 16-bit address space, as seen by a 6502.
type Table8 struct {
	Name string

	Unmapped    uint8
	LogUnmapped bool

	spans rangeMap[BankIO8]
}

func NewTable8(name string) *Table8 {
	return &Table8{Name: name, Unmapped: 0xFF}
}

func (t *Table8) Reset() {
	t.spans = rangeMap[BankIO8]{}
}

func (t *Table8) Map(begin, end uint16, io BankIO8) {
	if err := t.spans.insert(uint32(begin), uint32(end), io); err != nil {
		panic(fmt.Errorf("bus %s: %w", t.Name, err))
	}
}

func (t *Table8) MapMem(addr uint16, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex16("addr", addr).
		Hex32("size", uint32(mem.vsize())).
		String("area", mem.Name).
		String("bus", t.Name).
		End()

	t.Map(addr, addr+uint16(mem.vsize()-1), mem.BankIO8())
}

func (t *Table8) MapDevice(addr uint16, dev *Device8) {
	t.Map(addr, addr+uint16(dev.Size-1), dev)
}

func (t *Table8) Unmap(begin, end uint16) {
	t.spans.remove(uint32(begin), uint32(end))
}

func (t *Table8) Read8(addr uint16) uint8 {
	return t.read8(addr, false)
}

func (t *Table8) Peek8(addr uint16) uint8 {
	return t.read8(addr, true)
}

func (t *Table8) read8(addr uint16, peek bool) uint8 {
	s, ok := t.spans.search(uint32(addr))
	if !ok {
		if t.LogUnmapped && !peek {
			log.ModHwIo.ErrorZ("unmapped Read8").
				String("bus", t.Name).
				Hex16("addr", addr).
				End()
		}
		return t.Unmapped
	}
	return s.io.Read8(addr-uint16(s.base), peek)
}

func (t *Table8) Write8(addr uint16, val uint8) {
	s, ok := t.spans.search(uint32(addr))
	if !ok {
		if t.LogUnmapped {
			log.ModHwIo.ErrorZ("unmapped Write8").
				String("bus", t.Name).
				Hex16("addr", addr).
				Hex8("val", val).
				End()
		}
		return
	}
	s.io.Write8(addr-uint16(s.base), val)
}

// Read16LE reads a little-endian word, as the 6502 fetches vectors.
func (t *Table8) Read16LE(addr uint16) uint16 {
	return uint16(t.Read8(addr)) | uint16(t.Read8(addr+1))<<8
}
