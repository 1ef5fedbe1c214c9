package games

import (
	"fmt"
	"testing"

	"atarihw/hw/gfx"
	"atarihw/hw/hwdefs"
	"atarihw/hw/hwio"
	"atarihw/hw/jsa"
	"atarihw/romset"
)

type testHost struct {
	calls       []string
	irq         map[hwdefs.CPU]int
	reschedules int
}

func (h *testHost) SetIRQLine(cpu hwdefs.CPU, level int, state hwdefs.LineState) {
	if state == hwdefs.AssertLine {
		h.irq[cpu] = level
	} else {
		h.irq[cpu] = 0
	}
}

func (h *testHost) SetNMILine(hwdefs.CPU, hwdefs.LineState) {}

func (h *testHost) SetResetLine(cpu hwdefs.CPU, state hwdefs.LineState) {
	h.calls = append(h.calls, fmt.Sprintf("reset %v %v", cpu, state))
}

func (h *testHost) SetHaltLine(cpu hwdefs.CPU, state hwdefs.LineState) {
	h.calls = append(h.calls, fmt.Sprintf("halt %v %v", cpu, state))
}

func (h *testHost) SpinUntilInterrupt(hwdefs.CPU) {}
func (h *testHost) RequestReschedule()            { h.reschedules++ }
func (h *testHost) HorzBeamPos() int              { return 0 }

type testPCs struct{ pc uint32 }

func (p *testPCs) PreviousPC(hwdefs.CPU) uint32 { return p.pc }

type testPorts map[int]uint16

func (p testPorts) ReadPort(i int) uint16 {
	if v, ok := p[i]; ok {
		return v
	}
	return 0xFFFF
}

type fakeYM struct{}

func (fakeYM) Reset()           {}
func (fakeYM) Read(int) uint8   { return 0 }
func (fakeYM) Write(int, uint8) {}

// countingDrawer counts the tiles drawn into each bitmap.
type countingDrawer struct {
	gfx.Direct
	tiles map[*gfx.Bitmap]int
}

func newCountingDrawer() *countingDrawer {
	return &countingDrawer{tiles: make(map[*gfx.Bitmap]int)}
}

func (d *countingDrawer) DrawTile(dst *gfx.Bitmap, el *gfx.Element, code, color int, flipx, flipy bool, sx, sy int, clip gfx.Rect, mode gfx.Mode, pen uint16) {
	d.tiles[dst]++
	d.Direct.DrawTile(dst, el, code, color, flipx, flipy, sx, sy, clip, mode, pen)
}

type testMachine struct {
	*Machine
	host  *testHost
	pcs   *testPCs
	ports testPorts
}

// blankSet returns a ROM set with every region of desc zeroed.
func blankSet(desc *GameDesc) romset.Set {
	set := romset.Set{}
	for _, r := range desc.Regions {
		set[r.Name] = make([]byte, r.Size)
	}
	return set
}

func newTestMachine(t *testing.T, desc *GameDesc, set romset.Set, drawer gfx.Drawer) *testMachine {
	t.Helper()
	if set == nil {
		set = blankSet(desc)
	}
	tm := &testMachine{
		host:  &testHost{irq: map[hwdefs.CPU]int{}},
		pcs:   &testPCs{},
		ports: testPorts{},
	}
	m, err := Load(desc, set, Env{
		Host:   tm.host,
		PCs:    tm.pcs,
		Ports:  tm.ports,
		Chips:  jsa.Chips{YM2151: fakeYM{}},
		Drawer: drawer,
	})
	if err != nil {
		t.Fatal(err)
	}
	tm.Machine = m
	tm.host.calls = nil
	return tm
}

func (tm *testMachine) runFrame() {
	for range tm.desc.Screen.TotalLines {
		tm.Tick()
	}
}

func (tm *testMachine) write16(addr uint32, val uint16) {
	tm.main.Write16(addr, val, hwio.MaskWord)
}

func (tm *testMachine) read16(addr uint32) uint16 {
	return tm.main.Read16(addr)
}
