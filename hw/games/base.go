package games

import (
	"fmt"
	"slices"

	"atarihw/hw/atarigen"
	"atarihw/hw/gfx"
	"atarihw/hw/hwdefs"
	"atarihw/hw/hwio"
	"atarihw/hw/jsa"
	"atarihw/romset"
)

// ROM regions shared by all games.
const (
	regionMain  = "maincpu"
	regionExtra = "extracpu"
	regionAudio = "audiocpu"
	regionPF    = "gfx1"
	regionMO    = "gfx2"
	regionAlpha = "gfx3"
	regionADPCM = "adpcm"
)

// Input ports shared by all games. Game specific ports follow.
const (
	PortMain0 = iota
	PortMain1
	PortSpecial // VBLANK and mailbox bits are XORed into this one
	PortAudio   // read by the audio CPU through /RDIO
	PortTest    // self-test switch, bit 0 active low
	PortADC0    // analog inputs (EPRoM)
)

// Env holds the collaborators a machine is plugged into.
type Env struct {
	Host   atarigen.Host
	PCs    atarigen.PCSource
	Ports  jsa.Ports
	Chips  jsa.Chips // chips the game does not carry are ignored
	Mixer  jsa.VolumeSink
	Drawer gfx.Drawer // nil means gfx.Direct
}

// driver is the game specific part of a machine.
type driver interface {
	reset()
	render(dst *gfx.Bitmap)
	saveLatches(latches map[string]int)
	loadLatches(latches map[string]int)
}

// base is the machine context: every piece of state a handler may touch.
type base struct {
	desc *GameDesc
	env  Env
	roms romset.Set

	gen   *atarigen.Platform
	main  *hwio.Table
	extra *hwio.Table
	jsa   *jsa.Board

	pal     *gfx.Palette
	palRAM  *atarigen.PaletteRAM
	drawer  gfx.Drawer
	scratch *gfx.Bitmap
	layers  []*layer

	mems     []*hwio.Mem
	watchdog int
}

// Machine is an emulated game board.
type Machine struct {
	*base
	drv    driver
	Screen *gfx.Bitmap
}

// Load builds the machine of a game from its ROM set.
func Load(desc *GameDesc, roms romset.Set, env Env) (*Machine, error) {
	switch {
	case env.Host == nil:
		return nil, fmt.Errorf("%s: no host", desc.Name)
	case env.PCs == nil:
		return nil, fmt.Errorf("%s: no pc source", desc.Name)
	case env.Ports == nil:
		return nil, fmt.Errorf("%s: no input ports", desc.Name)
	}
	if env.Drawer == nil {
		env.Drawer = gfx.Direct{}
	}

	gen, err := atarigen.New(env.Host, atarigen.Config{
		CPUs:          desc.CPUs,
		Screen:        desc.Screen,
		IRQPolicy:     desc.IRQPolicy,
		EEPROMSize:    desc.EEPROMSize,
		EEPROMDefault: desc.EEPROMDefault,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", desc.Name, err)
	}

	b := &base{
		desc:    desc,
		env:     env,
		roms:    roms,
		gen:     gen,
		main:    hwio.NewTable(desc.Name + "-main"),
		drawer:  env.Drawer,
		scratch: gfx.NewBitmap(desc.Screen.Width, desc.Screen.Height),
	}
	if slices.Contains(desc.CPUs, hwdefs.ExtraCPU) {
		b.extra = hwio.NewTable(desc.Name + "-extra")
	}

	audio, err := roms.Region(regionAudio)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", desc.Name, err)
	}
	b.jsa, err = jsa.New(gen, jsa.Config{
		Variant:  desc.JSA,
		Chips:    b.chips(),
		Mixer:    env.Mixer,
		Ports:    env.Ports,
		IOPort:   PortAudio,
		TestPort: PortTest,
		TestMask: 0x0001,
		ROM:      audio,
		Speedup:  desc.Speedup,
		PCSource: env.PCs,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", desc.Name, err)
	}

	drv, err := desc.Load(b)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", desc.Name, err)
	}

	m := &Machine{
		base:   b,
		drv:    drv,
		Screen: gfx.NewBitmap(desc.Screen.Width, desc.Screen.Height),
	}
	m.Reset()
	modGame.InfoZ("machine loaded").String("game", desc.Name).Stringer("jsa", desc.JSA).End()
	return m, nil
}

// chips keeps the chips of env the game's board carries.
func (b *base) chips() jsa.Chips {
	var c jsa.Chips
	if b.desc.HasChip(hwdefs.YM2151) {
		c.YM2151 = b.env.Chips.YM2151
	}
	if b.desc.HasChip(hwdefs.POKEY) {
		c.POKEY = b.env.Chips.POKEY
	}
	if b.desc.HasChip(hwdefs.TMS5220) {
		c.TMS5220 = b.env.Chips.TMS5220
	}
	if b.desc.HasChip(hwdefs.OKI6295) {
		c.OKI[0] = b.env.Chips.OKI[0]
	}
	if b.desc.HasChip(hwdefs.OKI6295B) {
		c.OKI[1] = b.env.Chips.OKI[1]
	}
	return c
}

// Reset is a hard reset of the board. EEPROM contents survive.
func (m *Machine) Reset() {
	m.gen.Reset()
	m.jsa.Reset()
	m.watchdog = 0
	m.drv.reset()
}

// Tick advances the board by one scanline.
func (m *Machine) Tick() { m.gen.Sched.Tick() }

// Render composites the current frame into m.Screen.
func (m *Machine) Render() *gfx.Bitmap {
	m.drv.render(m.Screen)
	return m.Screen
}

func (b *base) Desc() *GameDesc              { return b.desc }
func (b *base) Platform() *atarigen.Platform { return b.gen }
func (b *base) Palette() *gfx.Palette        { return b.pal }
func (b *base) JSA() *jsa.Board              { return b.jsa }
func (b *base) Watchdog() int                { return b.watchdog }

// Bus returns the bus of a CPU, nil if the board has none.
func (b *base) Bus(cpu hwdefs.CPU) *hwio.Table {
	switch cpu {
	case hwdefs.MainCPU:
		return b.main
	case hwdefs.ExtraCPU:
		return b.extra
	}
	return nil
}

// AudioBus returns the bus of the audio CPU.
func (b *base) AudioBus() *hwio.Table8 { return b.jsa.Bus }

// Mems returns the RAM areas of the board, in a stable order.
func (b *base) Mems() []*hwio.Mem { return b.mems }

// Mem returns the RAM area with the given name.
func (b *base) Mem(name string) (*hwio.Mem, bool) {
	i := slices.IndexFunc(b.mems, func(m *hwio.Mem) bool { return m.Name == name })
	if i < 0 {
		return nil, false
	}
	return b.mems[i], true
}

// SaveLatches returns the game latches to store in a snapshot.
func (m *Machine) SaveLatches() map[string]int {
	latches := map[string]int{"watchdog": m.watchdog}
	m.drv.saveLatches(latches)
	return latches
}

// LoadLatches restores the game latches of a snapshot, and invalidates
// every cached layer.
func (m *Machine) LoadLatches(latches map[string]int) {
	m.watchdog = latches["watchdog"]
	m.drv.loadLatches(latches)
	m.palRAM.Refresh()
	for _, l := range m.layers {
		l.pf.MarkAllDirty()
	}
}

// pc returns the previous PC of the main CPU.
func (b *base) pc() uint32 {
	return b.env.PCs.PreviousPC(hwdefs.MainCPU)
}

func (b *base) port(index int) uint16 {
	return b.env.Ports.ReadPort(index)
}

// ram allocates a RAM area saved in snapshots.
func (b *base) ram(name string, size int) *hwio.Mem {
	m := &hwio.Mem{Name: name, Data: make([]byte, size)}
	b.mems = append(b.mems, m)
	return m
}

// mapRAM allocates a RAM area and maps it on bus at addr.
func (b *base) mapRAM(bus *hwio.Table, addr uint32, name string, size int) *hwio.Mem {
	m := b.ram(name, size)
	bus.MapMem(addr, m)
	return m
}

// mapROM maps size bytes of a region at addr, read-only.
func (b *base) mapROM(bus *hwio.Table, addr uint32, region string, off, size int) error {
	buf, err := b.roms.Region(region)
	if err != nil {
		return err
	}
	if off+size > len(buf) {
		return fmt.Errorf("region %s is %#x bytes, need %#x", region, len(buf), off+size)
	}
	rom := buf[off : off+size]
	read := func(off uint32) uint16 { return hwio.ReadWord(rom, off) }
	bus.MapDevice(addr, &hwio.Device{
		Name:   fmt.Sprintf("%s@%x", region, off),
		Size:   size,
		Flags:  hwio.ReadOnlyFlag,
		ReadCb: read,
		PeekCb: read,
	})
	return nil
}

// mapPalette maps a palette RAM of size bytes, one word per pen.
func (b *base) mapPalette(addr uint32, size int, decode func(uint16) (uint8, uint8, uint8)) {
	b.pal = gfx.NewPalette(size / 2)
	b.palRAM = atarigen.NewPaletteRAM(size, b.pal, decode)
	b.mems = append(b.mems, &hwio.Mem{Name: "palette", Data: b.palRAM.Data})
	b.main.MapDevice(addr, &hwio.Device{
		Name:    "palette",
		Size:    size,
		ReadCb:  b.palRAM.Read,
		PeekCb:  b.palRAM.Read,
		WriteCb: b.palRAM.Write,
	})
}

func (b *base) mapEEPROM(addr uint32, upper bool) {
	e := b.gen.EEPROM
	dev := &hwio.Device{
		Name:    "eeprom",
		Size:    len(e.Data),
		ReadCb:  e.Read,
		PeekCb:  e.Read,
		WriteCb: e.Write,
	}
	if upper {
		dev.ReadCb, dev.PeekCb, dev.WriteCb = e.ReadUpper, e.ReadUpper, e.WriteUpper
	}
	b.main.MapDevice(addr, dev)
}

// mapRead maps a read handler over [begin, end].
func (b *base) mapRead(bus *hwio.Table, begin, end uint32, name string, fn func(off uint32) uint16) {
	bus.MapDevice(begin, &hwio.Device{
		Name:   name,
		Size:   int(end - begin + 1),
		Flags:  hwio.ReadOnlyFlag,
		ReadCb: fn,
	})
}

// mapWrite maps a write handler over [begin, end].
func (b *base) mapWrite(bus *hwio.Table, begin, end uint32, name string, fn func(off uint32, val, mask uint16)) {
	bus.MapDevice(begin, &hwio.Device{
		Name:    name,
		Size:    int(end - begin + 1),
		Flags:   hwio.WriteOnlyFlag,
		WriteCb: fn,
	})
}

func (b *base) watchdogWrite(uint32, uint16, uint16) {
	b.watchdog++
}

// specialPort reads a port and XORs in the VBLANK and mailbox status bits.
// A zero bit disables the corresponding status.
func (b *base) specialPort(index int, vblank, soundToCPU, cpuToSound uint16) uint16 {
	result := b.port(index)
	if b.gen.InVBlank() {
		result ^= vblank
	}
	if b.gen.Sound.SoundToCPUReady {
		result ^= soundToCPU
	}
	if b.gen.Sound.CPUToSoundReady {
		result ^= cpuToSound
	}
	return result
}

// vblankInterrupt raises the video interrupt at the start of every VBLANK.
func (b *base) vblankInterrupt() {
	b.gen.Sched.Every(b.desc.Screen.Height, b.desc.Screen.TotalLines, "vblank", func(int) {
		b.gen.IRQ.VideoIntGen()
	})
}

// decodeGfx decodes a graphics region with the given layout.
func (b *base) decodeGfx(region string, l gfx.Layout, colorBase int) (*gfx.Element, error) {
	buf, err := b.roms.Region(region)
	if err != nil {
		return nil, err
	}
	el, err := gfx.Decode(l, buf, colorBase)
	if err != nil {
		return nil, fmt.Errorf("region %s: %w", region, err)
	}
	return el, nil
}

func (b *base) addLayer(l *layer) *layer {
	b.layers = append(b.layers, l)
	return l
}

// beginFrame accounts the pens used by the frame and, when a used pen
// changed color, forces every cached tile to be redrawn.
func (b *base) beginFrame(markPens func(pal *gfx.Palette)) {
	b.pal.ResetUsage()
	markPens(b.pal)
	if b.pal.Recalc() {
		for _, l := range b.layers {
			l.pf.MarkAllDirty()
		}
	}
}

// visible returns the clip rectangle of the screen.
func (b *base) visible() gfx.Rect {
	return gfx.NewRect(0, 0, b.desc.Screen.Width, b.desc.Screen.Height)
}

// audioReset drives the audio CPU reset line from bit n of a latch: the CPU
// is held in reset while the bit is low, and restarts with a flushed mailbox
// on the rising edge.
func (b *base) audioReset(old, cur uint16, n uint) {
	switch {
	case hwio.FallingEdge(old, cur, n):
		b.env.Host.SetResetLine(hwdefs.AudioCPU, hwdefs.AssertLine)
	case hwio.RisingEdge(old, cur, n):
		b.env.Host.SetResetLine(hwdefs.AudioCPU, hwdefs.ClearLine)
		b.gen.Sound.SoundReset()
	}
}

// expandADPCM lays out the ADPCM ROMs the way the JSA III banking expects.
func expandADPCM(b *base) error {
	buf, err := b.roms.Region(regionADPCM)
	if err != nil {
		return err
	}
	return jsa.ExpandADPCM(buf)
}

// ADPCM returns the sample ROM of the OKI chips, nil for games without.
func (b *base) ADPCM() []byte { return b.roms[regionADPCM] }

// mapVideoControl maps the video controller at addr and saves its registers
// in snapshots.
func (b *base) mapVideoControl(addr uint32) *atarigen.VideoControl {
	vc := atarigen.NewVideoControl(b.gen)
	b.main.MapDevice(addr, &hwio.Device{
		Name:    "vc",
		Size:    len(vc.Data),
		ReadCb:  vc.Read,
		PeekCb:  vc.Read,
		WriteCb: vc.Write,
	})
	b.mems = append(b.mems, &hwio.Mem{Name: "vc", Data: vc.Data[:]})
	return vc
}

func saveVideoControl(vc *atarigen.VideoControl, l map[string]int) {
	st := vc.State
	l["vc.pending1"], l["vc.pending2"] = vc.Pending1, vc.Pending2
	l["vc.latch1"] = st.Latch1
	l["vc.latch2"] = st.Latch2
	l["vc.palbank"] = st.PaletteBank
	l["vc.rowscroll"] = b2i(st.RowscrollEnable)
	l["vc.mox"], l["vc.moy"] = st.MOXScroll, st.MOYScroll
	l["vc.pf1x"], l["vc.pf1y"] = st.PF1XScroll, st.PF1YScroll
	l["vc.pf2x"], l["vc.pf2y"] = st.PF2XScroll, st.PF2YScroll
}

// loadVideoControl restores the decoded registers and re-arms the scanline
// interrupt they program.
func (b *base) loadVideoControl(vc *atarigen.VideoControl, l map[string]int) {
	vc.State = atarigen.VideoState{
		Latch1:          l["vc.latch1"],
		Latch2:          l["vc.latch2"],
		PaletteBank:     l["vc.palbank"],
		RowscrollEnable: l["vc.rowscroll"] != 0,
		MOXScroll:       l["vc.mox"],
		MOYScroll:       l["vc.moy"],
		PF1XScroll:      l["vc.pf1x"],
		PF1YScroll:      l["vc.pf1y"],
		PF2XScroll:      l["vc.pf2x"],
		PF2YScroll:      l["vc.pf2y"],
	}
	vc.Pending1, vc.Pending2 = l["vc.pending1"], l["vc.pending2"]
	if line := hwio.ReadWord(vc.Data[:], 0x06) & 0x1FF; line != 0 {
		b.gen.IRQ.ScanlineIntSet(int(line))
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
