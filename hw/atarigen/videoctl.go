package atarigen

import "atarihw/hw/hwio"

// Latch is a 16-bit write-mostly register. Reads return the last written
// value; OnChange sees the merged old and new values so that handlers can
// act on edges only.
type Latch struct {
	Name     string
	Value    uint16
	OnChange func(old, cur uint16)
}

func (l *Latch) Reset(v uint16) {
	l.Value = v
}

func (l *Latch) Read(uint32) uint16 {
	return l.Value
}

func (l *Latch) Write(_ uint32, val, mask uint16) {
	old := l.Value
	l.Value = hwio.Combine(old, val, mask)
	if l.OnChange != nil {
		l.OnChange(old, l.Value)
	}
}

// VideoState is the decoded content of the video controller.
type VideoState struct {
	Latch1, Latch2  int // -1 when disabled or not the last latch written
	RowscrollEnable bool
	PaletteBank     int

	MOXScroll, MOYScroll   int
	PF1XScroll, PF1YScroll int
	PF2XScroll, PF2YScroll int
}

// VideoControl is the 0x40-byte video controller of the later boards.
//
// Writes to 0x38 and 0x3A store the pending latch values; only the last one
// written is kept, the other becomes -1. They reach State while latching is
// enabled by bit 7 of 0x14.
type VideoControl struct {
	p     *Platform
	Data  [0x40]byte
	State VideoState

	Pending1, Pending2 int
}

func NewVideoControl(p *Platform) *VideoControl {
	vc := &VideoControl{p: p}
	vc.Reset()
	return vc
}

func (vc *VideoControl) Reset() {
	vc.Data = [0x40]byte{}
	vc.State = VideoState{Latch1: -1, Latch2: -1}
	vc.Pending1, vc.Pending2 = -1, -1
}

func (vc *VideoControl) latching() bool {
	return hwio.ReadWord(vc.Data[:], 0x14)&0x0080 != 0
}

// Read returns the scanline counter at offset 0 (bit 14 set during VBLANK)
// and the last written words elsewhere.
func (vc *VideoControl) Read(off uint32) uint16 {
	off &= 0x3E
	if off == 0 {
		result := uint16(min(vc.p.Scanline(), 255))
		if vc.p.InVBlank() {
			result |= 0x4000
		}
		return result
	}
	return hwio.ReadWord(vc.Data[:], off)
}

func (vc *VideoControl) Write(off uint32, val, mask uint16) {
	off &= 0x3E
	old, cur := hwio.WriteWordMasked(vc.Data[:], off, val, mask)
	st := &vc.State

	switch off {
	case 0x06:
		if old != cur {
			vc.p.IRQ.ScanlineIntSet(int(cur & 0x1FF))
		}

	case 0x14:
		if cur&0x0080 != 0 {
			st.Latch1, st.Latch2 = vc.Pending1, vc.Pending2
		} else {
			st.Latch1, st.Latch2 = -1, -1
		}
		st.RowscrollEnable = cur&0x2000 != 0
		st.PaletteBank = int((cur>>10)&1) ^ 1

	case 0x20, 0x22, 0x24, 0x26, 0x28, 0x2A, 0x2C, 0x2E,
		0x30, 0x32, 0x34, 0x36:
		v := int(cur>>7) & 0x1FF
		switch cur & 15 {
		case 9:
			st.MOXScroll = v
		case 10:
			st.PF2XScroll = v
		case 11:
			st.PF1XScroll = v
		case 13:
			st.MOYScroll = v
		case 14:
			st.PF2YScroll = v
		case 15:
			st.PF1YScroll = v
		}

	case 0x38:
		vc.Pending1, vc.Pending2 = int(cur), -1
		if vc.latching() {
			st.Latch1 = vc.Pending1
		}
	case 0x3A:
		vc.Pending1, vc.Pending2 = -1, int(cur)
		if vc.latching() {
			st.Latch2 = vc.Pending2
		}

	case 0x3C:
		vc.p.IRQ.ScanlineIntAck()
	}
}

// Update echoes every non-zero word of a 0x38-byte block (usually the tail
// of alpha RAM) into the controller.
func (vc *VideoControl) Update(data []byte) {
	for off := uint32(0); off < 0x38 && int(off) < len(data); off += 2 {
		if w := hwio.ReadWord(data, off); w != 0 {
			vc.Write(off, w, hwio.MaskWord)
		}
	}
}
