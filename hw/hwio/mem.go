package hwio

import (
	"atarihw/emu/log"
)

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlagReadOnly  MemFlags = (1 << iota) // writes are rejected
	MemFlagNoROLog                          // rejected writes are not logged
)

// Mem is a linear memory area that can be mapped into a Table (as big-endian
// words) or a Table8 (as bytes).
//
// The physical buffer must be a power of two; a VSize larger than the buffer
// mirrors it.
type Mem struct {
	Name  string   // name of the memory area (for debugging)
	Data  []byte   // actual memory buffer
	VSize int      // virtual size of the area (0 means len(Data))
	Flags MemFlags // access flags

	// WriteCb, if set, is called after every accepted write with the byte
	// offset of the written word (or byte), and the old and new values.
	WriteCb func(off uint32, old, val uint16)
}

func (m *Mem) vsize() int {
	if m.VSize == 0 {
		return len(m.Data)
	}
	return m.VSize
}

func (m *Mem) check() {
	if len(m.Data) == 0 || len(m.Data)&(len(m.Data)-1) != 0 {
		panic("memory buffer size is not pow2: " + m.Name)
	}
}

func (m *Mem) BankIO16() BankIO16 {
	m.check()
	return &mem16{m: m, mask: uint32(len(m.Data) - 1)}
}

func (m *Mem) BankIO8() BankIO8 {
	m.check()
	return &mem8{m: m, mask: uint16(len(m.Data) - 1)}
}

func (m *Mem) rejectWrite(off uint32) {
	if m.Flags&MemFlagNoROLog != 0 {
		return
	}
	log.ModHwIo.ErrorZ("write to read-only memory").
		String("area", m.Name).
		Hex32("off", off).
		End()
}

type mem16 struct {
	m    *Mem
	mask uint32
}

func (m *mem16) Read16(off uint32, _ bool) uint16 {
	return ReadWord(m.m.Data, off&m.mask)
}

func (m *mem16) Write16(off uint32, val, mask uint16) {
	off &= m.mask
	if m.m.Flags&MemFlagReadOnly != 0 {
		m.m.rejectWrite(off)
		return
	}
	old, cur := WriteWordMasked(m.m.Data, off, val, mask)
	if m.m.WriteCb != nil {
		m.m.WriteCb(off&^1, old, cur)
	}
}

type mem8 struct {
	m    *Mem
	mask uint16
}

func (m *mem8) Read8(off uint16, _ bool) uint8 {
	return m.m.Data[off&m.mask]
}

func (m *mem8) Write8(off uint16, val uint8) {
	off &= m.mask
	if m.m.Flags&MemFlagReadOnly != 0 {
		m.m.rejectWrite(uint32(off))
		return
	}
	old := m.m.Data[off]
	m.m.Data[off] = val
	if m.m.WriteCb != nil {
		m.m.WriteCb(uint32(off), uint16(old), uint16(val))
	}
}
