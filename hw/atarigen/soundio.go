package atarigen

import (
	"atarihw/hw/hwdefs"
	"atarihw/hw/hwio"
)

// SoundIO is the mailbox between the main CPU and the audio CPU, plus the
// audio CPU interrupt sources.
type SoundIO struct {
	p *Platform

	CPUToSound      uint8
	CPUToSoundReady bool
	SoundToCPU      uint8
	SoundToCPUReady bool

	TimedInt  bool
	YM2151Int bool
}

func newSoundIO(p *Platform) *SoundIO {
	return &SoundIO{p: p}
}

func (s *SoundIO) Reset() {
	s.CPUToSound, s.CPUToSoundReady = 0, false
	s.SoundToCPU, s.SoundToCPUReady = 0, false
	s.TimedInt, s.YM2151Int = false, false
	s.update6502()
}

func (s *SoundIO) hasAudio() bool {
	return s.p.HasCPU(hwdefs.AudioCPU)
}

// SendToSound latches a byte for the audio CPU and raises its NMI. Only
// writes driving the low lane are accepted.
func (s *SoundIO) SendToSound(_ uint32, val, mask uint16) {
	if mask&hwio.MaskLow == 0 {
		return
	}
	s.sendToSound(uint8(val))
}

// SendToSoundUpper is the variant latching the upper byte.
func (s *SoundIO) SendToSoundUpper(_ uint32, val, mask uint16) {
	if mask&hwio.MaskHigh == 0 {
		return
	}
	s.sendToSound(uint8(val >> 8))
}

func (s *SoundIO) sendToSound(b uint8) {
	modMailbox.DebugZ("main->sound").Hex8("val", b).End()
	s.CPUToSound = b
	s.CPUToSoundReady = true
	if s.hasAudio() {
		s.p.host.SetNMILine(hwdefs.AudioCPU, hwdefs.AssertLine)
	}
	s.p.host.RequestReschedule()
	s.p.IRQ.Update()
}

// ReadFromSound returns the byte sent by the audio CPU in the low lane. It
// clears the ready flag and acknowledges the sound interrupt.
func (s *SoundIO) ReadFromSound(uint32) uint16 {
	s.SoundToCPUReady = false
	s.p.IRQ.SoundIntAck()
	return uint16(s.SoundToCPU) | 0xFF00
}

// ReadFromSoundUpper returns the byte in the upper lane.
func (s *SoundIO) ReadFromSoundUpper(uint32) uint16 {
	s.SoundToCPUReady = false
	s.p.IRQ.SoundIntAck()
	return uint16(s.SoundToCPU)<<8 | 0x00FF
}

// SendToCPU is the audio CPU side of the mailbox: it latches a byte for the
// main CPU and raises the sound interrupt.
func (s *SoundIO) SendToCPU(b uint8) {
	modMailbox.DebugZ("sound->main").Hex8("val", b).End()
	s.SoundToCPU = b
	s.SoundToCPUReady = true
	s.p.host.RequestReschedule()
	s.p.IRQ.SoundIntGen()
}

// ReadFromCPU returns the byte sent by the main CPU and releases the audio
// CPU NMI.
func (s *SoundIO) ReadFromCPU() uint8 {
	s.CPUToSoundReady = false
	if s.hasAudio() {
		s.p.host.SetNMILine(hwdefs.AudioCPU, hwdefs.ClearLine)
	}
	s.p.IRQ.Update()
	return s.CPUToSound
}

// SoundReset pulses the audio CPU reset line, and flushes the pending byte
// for the main CPU.
func (s *SoundIO) SoundReset() {
	if s.hasAudio() {
		s.p.host.SetResetLine(hwdefs.AudioCPU, hwdefs.PulseLine)
		s.p.host.SetHaltLine(hwdefs.AudioCPU, hwdefs.ClearLine)
	}
	s.SoundToCPUReady = false
	s.p.IRQ.SoundIntAck()
}

// SoundResetWrite is the bus handler of SoundReset.
func (s *SoundIO) SoundResetWrite(uint32, uint16, uint16) {
	s.SoundReset()
}

// TimedIntGen raises the periodic audio CPU interrupt.
func (s *SoundIO) TimedIntGen() {
	s.TimedInt = true
	s.update6502()
}

// IRQAck clears the periodic audio CPU interrupt.
func (s *SoundIO) IRQAck() {
	s.TimedInt = false
	s.update6502()
}

// SetYM2151IRQ follows the interrupt output of the YM2151.
func (s *SoundIO) SetYM2151IRQ(state bool) {
	s.YM2151Int = state
	s.update6502()
}

// UpdateIRQ drives the audio CPU interrupt line from the current sources.
func (s *SoundIO) UpdateIRQ() { s.update6502() }

func (s *SoundIO) update6502() {
	if !s.hasAudio() {
		return
	}
	state := hwdefs.ClearLine
	if s.TimedInt || s.YM2151Int {
		state = hwdefs.AssertLine
	}
	s.p.host.SetIRQLine(hwdefs.AudioCPU, 0, state)
}
