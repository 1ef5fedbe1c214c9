package games

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"atarihw/hw/hwio"
)

// otwSet fills the main ROM of Off the Wall with the number of the 8KB page
// each byte belongs to.
func otwSet() map[string][]byte {
	set := blankSet(&OffTheWall)
	rom := set[regionMain]
	for i := range rom {
		rom[i] = byte(i >> 13)
	}
	return set
}

func TestOffTheWallBankswitch(t *testing.T) {
	tm := newTestMachine(t, &OffTheWall, otwSet(), nil)

	if got := tm.read16(0x038000); got != 0x1C1C {
		t.Fatalf("bank 0 window = %#04x, want 0x1c1c", got)
	}
	// Reading the third word of the table selects bank 2.
	if got := tm.read16(otwBankTableStart + 4); got != 0x1B1B {
		t.Fatalf("bank table read = %#04x, want the ROM word", got)
	}
	if got := tm.read16(0x038000); got != 0x1E1E {
		t.Errorf("bank 2 window = %#04x, want 0x1e1e", got)
	}
	// Bank 3 wraps around the window.
	tm.read16(otwBankTableStart + 6)
	if got := tm.read16(0x038000 + 0x2000); got != 0x1C1C {
		t.Errorf("bank 3 window wrap = %#04x, want 0x1c1c", got)
	}
	// The fixed ROM around the table is untouched.
	if got := tm.read16(0x037F3A); got != 0x1B1B {
		t.Errorf("rom after table = %#04x", got)
	}
}

func TestOffTheWallChecksum(t *testing.T) {
	tm := newTestMachine(t, &OffTheWall, otwSet(), nil)
	tm.write16(otwChecksumRAM, 0x1111)
	tm.write16(otwChecksumRAM+2, 0x2222)

	tm.pcs.pc = 0x1000
	if got := tm.read16(otwChecksumHi); got != 0x1F1F {
		t.Errorf("checksum cell read from low pc = %#04x, want ROM", got)
	}

	tm.pcs.pc = 0x037002
	hi, lo := tm.read16(otwChecksumHi), tm.read16(otwChecksumLo)
	if sum := uint32(hi)<<16 | uint32(lo); sum+0x11112222 != otwChecksumMagic {
		t.Errorf("checksum = %#08x, want %#08x", sum, otwChecksumMagic-0x11112222)
	}
}

func TestOffTheWallVerify(t *testing.T) {
	tests := []struct {
		pc   uint32
		want uint16
	}{
		{0x5C5D, 0x0004},
		{0x5C5E, 0x0104},
		{0xC432, 0x0104},
		{0xC433, 0x0004},
	}
	for _, tt := range tests {
		tm := newTestMachine(t, &OffTheWall, nil, nil)
		tm.write16(otwVerifyCell, 0x0004)
		tm.pcs.pc = tt.pc
		if got := tm.read16(otwVerifyCell); got != tt.want {
			t.Errorf("pc %#x: verify cell = %#04x, want %#04x", tt.pc, got, tt.want)
		}
		tm.pcs.pc = 0x100000
		if got := tm.read16(otwVerifyCell); got != 0x0004 {
			t.Errorf("pc %#x: later read outside the window = %#04x, want 0x0004", tt.pc, got)
		}
	}
}

func TestOffTheWallSpriteCache(t *testing.T) {
	tm := newTestMachine(t, &OffTheWall, nil, nil)

	// Two entries 8 tiles wide each.
	for i := range 2 {
		e := uint32(otwCacheEntries + i*8)
		tm.write16(e, 0x1000)
		tm.write16(e+2, 7<<4)
		tm.write16(e+4, 0x4321)
	}
	tm.write16(otwCacheCount, 0x0255)

	tm.pcs.pc = 0x1234
	if got := tm.read16(otwCacheCount); got != 0x0255 {
		t.Fatalf("count read from other pc = %#04x, want unchanged", got)
	}

	tm.pcs.pc = otwCachePC1
	if got := tm.read16(otwCacheCount); got != 0x0555 {
		t.Fatalf("padded count = %#04x, want 0x0555", got)
	}
	var got [][]uint16
	for i := range 5 {
		e := uint32(otwCacheEntries + i*8)
		got = append(got, []uint16{tm.read16(e), tm.read16(e + 2), tm.read16(e + 4)})
	}
	sentinel := []uint16{0xA800, 0x7870, 0}
	want := [][]uint16{
		{0x1000, 0x0070, 0x4321},
		{0x1000, 0x0070, 0x4321},
		sentinel, sentinel, sentinel,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sprite cache mismatch (-want +got):\n%s", diff)
	}

	// Wide enough now.
	tm.pcs.pc = otwCachePC2
	if got := tm.read16(otwCacheCount); got != 0x0555 {
		t.Errorf("second read = %#04x, want 0x0555", got)
	}
}

func TestEPRoMSync(t *testing.T) {
	tm := newTestMachine(t, &EPRoM, nil, nil)
	sync := uint32(0x160000 + epromSyncOffset)

	tm.main.Write16(sync, 0x0012, hwio.MaskLow)
	tm.write16(sync+2, 0xFF00)
	if tm.host.reschedules != 0 {
		t.Fatalf("low byte and neighbour writes rescheduled %d times", tm.host.reschedules)
	}
	tm.write16(sync, 0x0112)
	if tm.host.reschedules != 1 {
		t.Fatalf("high byte change rescheduled %d times, want 1", tm.host.reschedules)
	}
	// Same value from the other CPU.
	tm.extra.Write16(sync, 0x0112, hwio.MaskWord)
	if tm.host.reschedules != 1 {
		t.Fatalf("unchanged write rescheduled")
	}
	tm.extra.Write16(sync, 0x0000, hwio.MaskHigh)
	if tm.host.reschedules != 2 {
		t.Errorf("extra cpu write rescheduled %d times, want 2", tm.host.reschedules)
	}
	if got := tm.read16(sync); got != 0x0012 {
		t.Errorf("sync word = %#04x, want 0x0012", got)
	}
}

func TestEPRoMLatchAndADC(t *testing.T) {
	tm := newTestMachine(t, &EPRoM, nil, nil)
	tm.write16(0x360010, 0x0001)
	tm.write16(0x360010, 0x0021)
	tm.write16(0x360010, 0x0020)
	want := []string{"reset extra clear", "reset extra assert"}
	if diff := cmp.Diff(want, tm.host.calls); diff != "" {
		t.Errorf("reset lines mismatch (-want +got):\n%s", diff)
	}
	if !tm.drv.(*eprom).videoDisabled() {
		t.Errorf("video not disabled")
	}

	for i := range 4 {
		tm.ports[PortADC0+i] = uint16(0x100 + i)
	}
	var got []uint16
	for _, addr := range []uint32{0x260022, 0x260026, 0x260020, 0x260024} {
		got = append(got, tm.read16(addr))
	}
	if diff := cmp.Diff([]uint16{0x100, 0x101, 0x103, 0x100}, got); diff != "" {
		t.Errorf("adc reads mismatch (-want +got):\n%s", diff)
	}
}

func TestBatmanLatch(t *testing.T) {
	tm := newTestMachine(t, &Batman, nil, nil)
	g := tm.drv.(*batman)

	tm.write16(0x260050, 0x3010)
	tm.write16(0x260050, 0x3000)
	want := []string{
		"reset audio clear",
		"reset audio pulse",
		"halt audio clear",
		"reset audio assert",
	}
	if diff := cmp.Diff(want, tm.host.calls); diff != "" {
		t.Errorf("host calls mismatch (-want +got):\n%s", diff)
	}
	if got := tm.read16(0x260050); got != 0x3000 {
		t.Errorf("latch reads %#04x", got)
	}
	tile, opaque := g.alpha.decode(0x8C05)
	if tile.code != 3<<10|5 || tile.color != 3 || !opaque {
		t.Errorf("alpha word decodes to %+v opaque=%t", tile, opaque)
	}
}

func TestBatmanLatchedColor(t *testing.T) {
	tm := newTestMachine(t, &Batman, nil, nil)
	g := tm.drv.(*batman)
	const vc = 0x3EFFC0

	tm.write16(0x3F0000+2*3, 0x0001)
	if got := hwio.ReadWord(g.colorRAM.Data, 2*3); got != 0 {
		t.Fatalf("color written with latching disabled: %#04x", got)
	}

	tm.write16(vc+0x38, 0x0005)
	tm.write16(vc+0x14, 0x0080)
	tm.write16(vc+0x3A, 0x0007)
	// Unchanged tile words: only the latched color dirties the tiles.
	g.pf1.pf.ClearDirty(4)
	g.pf2.pf.ClearDirty(4)
	tm.write16(0x3F0000+2*4, 0)
	tm.write16(0x3F2000+2*4, 0)
	if got := hwio.ReadWord(g.colorRAM.Data, 2*4); got != 0x0705 {
		t.Errorf("latched color = %#04x, want 0x0705", got)
	}
	if !g.pf1.pf.Dirty(4) || !g.pf2.pf.Dirty(4) {
		t.Errorf("latched tiles not dirty")
	}

	tm.write16(vc+0x14, 0)
	tm.write16(0x3F0000+2*5, 0x0001)
	if got := hwio.ReadWord(g.colorRAM.Data, 2*5); got != 0 {
		t.Errorf("color written after disabling: %#04x", got)
	}
}

func TestBlasteroidsPriority(t *testing.T) {
	tm := newTestMachine(t, &Blasteroids, nil, nil)
	g := tm.drv.(*blasteroids)

	addr := uint32(0xFF8800 + 3<<5 + 5<<1)
	tm.write16(addr, 1)
	tm.write16(addr+2, 1)
	if got := g.priority[3]; got != 0x0060 {
		t.Fatalf("priority[3] = %#04x, want 0x0060", got)
	}
	tm.write16(addr, 0)
	if got := g.priority[3]; got != 0x0040 {
		t.Errorf("priority[3] = %#04x, want 0x0040", got)
	}
}

func TestSkullAlphaIRQ(t *testing.T) {
	tests := []struct {
		scanline int
		marker   int // word index of the marker, -1 for none
		want     bool
	}{
		{0, 0x7C0 - 64 + skullIRQColumn, true},
		{16, 64 + skullIRQColumn, true},
		{16, 2*64 + skullIRQColumn, false},
		{248, 30*64 + skullIRQColumn, true},
		{256, -1, false},
	}
	for _, tt := range tests {
		tm := newTestMachine(t, &SkullXBones, nil, nil)
		g := tm.drv.(*skullxbo)
		if tt.marker >= 0 {
			hwio.WriteWord(g.alphaRAM.Data, uint32(tt.marker*2), 0x8000)
		}
		before := tm.gen.Sched.Pending()
		g.alphaIRQ(tt.scanline)
		if got := tm.gen.Sched.Pending() > before; got != tt.want {
			t.Errorf("scanline %d: pulse scheduled = %t, want %t", tt.scanline, got, tt.want)
		}
	}
}

func TestSkullLatchedColor(t *testing.T) {
	tm := newTestMachine(t, &SkullXBones, nil, nil)
	g := tm.drv.(*skullxbo)

	tm.write16(0xFF4002, 0x0010)
	if got := tm.read16(0xFF6002); got != 0 {
		t.Fatalf("color written before any latch: %#04x", got)
	}
	tm.write16(0xFF1C00, 0x0025)
	tm.write16(0xFF4004, 0x0010)
	if got := tm.read16(0xFF6004); got != 0x0025 {
		t.Errorf("latched color = %#04x, want 0x0025", got)
	}
	if tile := g.tile(2); tile.color != 5 || tile.group != 2 {
		t.Errorf("tile 2 = %+v", tile)
	}
}

func TestSaveLoadLatches(t *testing.T) {
	tm := newTestMachine(t, &SkullXBones, nil, nil)
	tm.write16(0xFF0400, 0)
	tm.write16(0xFF1C80, 0x0080)
	tm.write16(0xFF1D80, 0)
	saved := tm.SaveLatches()

	want := map[string]int{"watchdog": 1, "mobank": 1, "pflatch": -1, "xscroll": 1, "yscroll": 0}
	if diff := cmp.Diff(want, saved); diff != "" {
		t.Fatalf("latches mismatch (-want +got):\n%s", diff)
	}

	tm2 := newTestMachine(t, &SkullXBones, nil, nil)
	tm2.LoadLatches(saved)
	if diff := cmp.Diff(saved, tm2.SaveLatches()); diff != "" {
		t.Errorf("restored latches mismatch (-want +got):\n%s", diff)
	}
}
