package atarigen

import "atarihw/hw/hwdefs"

// PCSource gives access to the program counter of the instruction being
// executed by a CPU.
type PCSource interface {
	PreviousPC(cpu hwdefs.CPU) uint32
}

// Hblank reports whether a beam position is in the horizontal blanking
// interval: the last tenth of a line.
func Hblank(hpos, width int) bool {
	return hpos > width*9/10
}

// InHblank reports whether the beam is currently in HBLANK.
func (p *Platform) InHblank() bool {
	return Hblank(p.host.HorzBeamPos(), p.Screen.Width)
}

// HaltUntilHblank halts the main CPU; it is released at the next scanline
// boundary.
func (p *Platform) HaltUntilHblank(uint32, uint16, uint16) {
	p.host.SetHaltLine(hwdefs.MainCPU, hwdefs.AssertLine)
	p.Sched.After(1, "hblank-release", func(int) {
		p.host.SetHaltLine(hwdefs.MainCPU, hwdefs.ClearLine)
	})
}

// Speedup describes the idle loop of a sound program: the loop at PC polls
// RAM at Addr until it differs from Compare.
type Speedup struct {
	PC      uint16
	Addr    uint16
	Compare uint16
}

// Hit reports whether a read of the polled location from pc spins in the
// idle loop.
func (s Speedup) Hit(pc uint16, ram []byte) bool {
	return pc == s.PC && ram[s.Addr] == ram[s.Compare]
}

// SpeedupRead returns a read handler for the polled location that suspends
// the audio CPU until its next interrupt while idle.
func (p *Platform) SpeedupRead(s Speedup, ram []byte, pcs PCSource) func(off uint16) uint8 {
	return func(uint16) uint8 {
		if s.Hit(uint16(pcs.PreviousPC(hwdefs.AudioCPU)), ram) {
			p.host.SpinUntilInterrupt(hwdefs.AudioCPU)
		}
		return ram[s.Addr]
	}
}

// Messages are warnings overlaid on the screen for a while.
type Messages struct {
	fps       int
	lines     []string
	remaining int
}

const messageSeconds = 15

func NewMessages(fps int) *Messages {
	return &Messages{fps: fps}
}

// Show displays lines for 15 seconds.
func (m *Messages) Show(lines ...string) {
	m.lines = lines
	m.remaining = messageSeconds * m.fps
	modGen.InfoZ("on-screen message").String("text", lines[0]).End()
}

// ShowSlapstic warns that the protection chip is emulated by workarounds.
func (m *Messages) ShowSlapstic() {
	m.Show("THIS GAME USES A SLAPSTIC", "PROTECTION IS BYPASSED", "SOME FEATURES MAY FAIL")
}

// ShowSound warns that the game runs without sound, which some games detect.
func (m *Messages) ShowSound() {
	m.Show("SOUND IS DISABLED", "THE GAME MAY REPORT", "A SOUND BOARD ERROR")
}

// Tick consumes one frame and returns the lines to display.
func (m *Messages) Tick() []string {
	if m.remaining <= 0 {
		return nil
	}
	m.remaining--
	return m.lines
}

func (m *Messages) Active() bool { return m.remaining > 0 }
