package hwio_test

import (
	"testing"

	"atarihw/hw/hwio"
)

type testBus struct {
	t testing.TB
	*hwio.Table

	RAM    hwio.Mem
	ROM    hwio.Mem
	Status hwio.Reg16
	Dev    hwio.Device

	devWrites [][3]uint32
	ramWrites int
}

func newTestBus(tb testing.TB) *testBus {
	b := &testBus{t: tb, Table: hwio.NewTable("main")}
	b.RAM = hwio.Mem{Name: "ram", Data: make([]byte, 0x1000), VSize: 0x2000}
	b.RAM.WriteCb = func(off uint32, old, val uint16) {
		if old != val {
			b.ramWrites++
		}
	}
	b.ROM = hwio.Mem{Name: "rom", Data: []byte{0x12, 0x34, 0x56, 0x78}, Flags: hwio.MemFlagReadOnly | hwio.MemFlagNoROLog}
	b.Status = hwio.Reg16{Name: "status", Value: 0x00FF, RoMask: 0x00FF}
	b.Dev = hwio.Device{
		Name:   "dev",
		Size:   0x100,
		ReadCb: func(off uint32) uint16 { return 0xD000 | uint16(off) },
		PeekCb: func(off uint32) uint16 { return 0xEEEE },
		WriteCb: func(off uint32, val, mask uint16) {
			b.devWrites = append(b.devWrites, [3]uint32{off, uint32(val), uint32(mask)})
		},
	}

	b.MapMem(0xFF0000, &b.RAM)
	b.MapMem(0x000000, &b.ROM)
	b.MapReg16(0x260000, 0x26000F, &b.Status)
	b.MapDevice(0x3E0000, &b.Dev)
	return b
}

func (b *testBus) wantRead16(addr uint32, want uint16) {
	b.t.Helper()
	if got := b.Read16(addr); got != want {
		b.t.Errorf("Read16(%06X) = %04X, want %04X", addr, got, want)
	}
}

func TestTableMem(t *testing.T) {
	b := newTestBus(t)

	b.wantRead16(0xFF0000, 0)
	b.Write16(0xFF0000, 0xBEEF, hwio.MaskWord)
	b.wantRead16(0xFF0000, 0xBEEF)
	// mirrored over the virtual size
	b.wantRead16(0xFF1000, 0xBEEF)

	b.Write8(0xFF0000, 0x11)
	b.wantRead16(0xFF0000, 0x11EF)
	b.Write8(0xFF0001, 0x22)
	b.wantRead16(0xFF0000, 0x1122)
	if got := b.Read8(0xFF0001); got != 0x22 {
		t.Errorf("Read8 odd = %02X, want 22", got)
	}

	// Odd word addresses are aligned down.
	b.wantRead16(0xFF0001, 0x1122)

	// Same value writes still reach the callback, with old == new.
	b.Write16(0xFF0000, 0x1122, hwio.MaskWord)
	if b.ramWrites != 3 {
		t.Errorf("ram changes = %d, want 3", b.ramWrites)
	}

	if got := b.Read32(0xFF0000); got != 0x11220000 {
		t.Errorf("Read32 = %08X", got)
	}
}

func TestTableReadOnly(t *testing.T) {
	b := newTestBus(t)

	b.wantRead16(0x000000, 0x1234)
	b.Write16(0x000000, 0xFFFF, hwio.MaskWord)
	b.wantRead16(0x000000, 0x1234)
	b.wantRead16(0x000002, 0x5678)
}

func TestTableDevice(t *testing.T) {
	b := newTestBus(t)

	b.wantRead16(0x3E0010, 0xD010)
	if got := b.Peek16(0x3E0010); got != 0xEEEE {
		t.Errorf("Peek16 = %04X, want EEEE", got)
	}
	b.Write8(0x3E0021, 0x5A)
	want := [][3]uint32{{0x20, 0x5A, 0xFF}}
	if len(b.devWrites) != 1 || b.devWrites[0] != want[0] {
		t.Errorf("device writes = %v, want %v", b.devWrites, want)
	}
}

func TestTableRegMirror(t *testing.T) {
	b := newTestBus(t)

	b.Write16(0x260008, 0xAB00, hwio.MaskWord)
	b.wantRead16(0x260000, 0xABFF)
	b.wantRead16(0x26000E, 0xABFF)
}

func TestTableUnmapped(t *testing.T) {
	b := newTestBus(t)

	b.wantRead16(0x500000, 0xFFFF)
	b.Write16(0x500000, 0x1234, hwio.MaskWord) // silently dropped

	b.Unmap(0xFF0800, 0xFF0FFF)
	b.wantRead16(0xFF0800, 0xFFFF)
	b.Write16(0xFF0000, 0x4321, hwio.MaskWord)
	b.wantRead16(0xFF0000, 0x4321)
	// The upper mirror keeps its original base.
	b.wantRead16(0xFF1000, 0x4321)
}

func TestTableOverlapPanics(t *testing.T) {
	b := newTestBus(t)

	defer func() {
		if recover() == nil {
			t.Errorf("overlapping map should panic")
		}
	}()
	b.MapDevice(0x3E0080, &hwio.Device{Name: "overlap", Size: 0x100})
}

func TestTable8(t *testing.T) {
	bus := hwio.NewTable8("audio")
	ram := hwio.Mem{Name: "ram", Data: make([]byte, 0x800), VSize: 0x2000}
	bus.MapMem(0x0000, &ram)

	var last [2]uint16
	bus.MapDevice(0x2800, &hwio.Device8{
		Name:    "io",
		Size:    0x400,
		ReadCb:  func(off uint16) uint8 { return uint8(off) },
		WriteCb: func(off uint16, val uint8) { last = [2]uint16{off, uint16(val)} },
	})

	bus.Write8(0x0010, 0x42)
	if got := bus.Read8(0x0810); got != 0x42 {
		t.Errorf("mirrored Read8 = %02X, want 42", got)
	}
	if got := bus.Read8(0x2806); got != 0x06 {
		t.Errorf("device Read8 = %02X, want 06", got)
	}
	bus.Write8(0x2A04, 0x99)
	if last != [2]uint16{0x204, 0x99} {
		t.Errorf("device write = %v", last)
	}
	if got := bus.Read8(0x3000); got != 0xFF {
		t.Errorf("unmapped Read8 = %02X, want FF", got)
	}
}
