// Package snapshot captures and restores the state of a running machine.
//
// A snapshot is taken between frames. CPU cores belong to the host and are
// not part of it.
package snapshot

import (
	"fmt"

	"atarihw/hw/games"
	"atarihw/hw/hwdefs"
)

// Version is the version of the snapshot document.
const Version = 1

type State struct {
	Version int
	Game    string
	Frame   uint64

	EEPROM  EEPROM
	Sound   Sound
	IRQ     hwdefs.IRQSource
	JSA     JSA
	Mems    map[string][]byte
	Latches map[string]int
}

type EEPROM struct {
	Data     []byte
	Unlocked bool
}

// Sound is the mailbox between the main and audio CPUs.
type Sound struct {
	CPUToSound      uint8
	CPUToSoundReady bool
	SoundToCPU      uint8
	SoundToCPUReady bool
	TimedInt        bool
	YM2151Int       bool
}

type JSA struct {
	RAM          []byte
	Bank         int
	Overall      int
	Volumes      []int
	OKIBankBase  []int
	SpeechData   uint8
	LastCtl      uint8
	CoinCounters []int
}

// Take captures the state of m. Slices are copies.
func Take(m *games.Machine, frame uint64) *State {
	gen := m.Platform()
	b := m.JSA()
	st := &State{
		Version: Version,
		Game:    m.Desc().Name,
		Frame:   frame,
		EEPROM: EEPROM{
			Data:     clone(gen.EEPROM.Data),
			Unlocked: gen.EEPROM.Unlocked(),
		},
		Sound: Sound{
			CPUToSound:      gen.Sound.CPUToSound,
			CPUToSoundReady: gen.Sound.CPUToSoundReady,
			SoundToCPU:      gen.Sound.SoundToCPU,
			SoundToCPUReady: gen.Sound.SoundToCPUReady,
			TimedInt:        gen.Sound.TimedInt,
			YM2151Int:       gen.Sound.YM2151Int,
		},
		IRQ: gen.IRQ.Pending(),
		JSA: JSA{
			RAM:          clone(b.RAM[:]),
			Bank:         b.Bank,
			Overall:      b.Overall,
			Volumes:      append([]int(nil), b.Volumes[:]...),
			OKIBankBase:  append([]int(nil), b.OKIBankBase[:]...),
			SpeechData:   b.SpeechData,
			LastCtl:      b.LastCtl,
			CoinCounters: append([]int(nil), b.CoinCounters[:]...),
		},
		Mems:    make(map[string][]byte),
		Latches: m.SaveLatches(),
	}
	for _, mem := range m.Mems() {
		st.Mems[mem.Name] = clone(mem.Data)
	}
	return st
}

// Apply resets m and loads st into it. Buffers must match the size of the
// ones of m.
func Apply(m *games.Machine, st *State) error {
	if st.Version != Version {
		return fmt.Errorf("snapshot version %d, want %d", st.Version, Version)
	}
	if st.Game != m.Desc().Name {
		return fmt.Errorf("snapshot is for %q, machine runs %q", st.Game, m.Desc().Name)
	}
	gen := m.Platform()
	if len(st.EEPROM.Data) != len(gen.EEPROM.Data) {
		return fmt.Errorf("eeprom: %d bytes, want %d", len(st.EEPROM.Data), len(gen.EEPROM.Data))
	}
	for _, mem := range m.Mems() {
		buf, ok := st.Mems[mem.Name]
		if !ok {
			return fmt.Errorf("missing buffer %q", mem.Name)
		}
		if len(buf) != len(mem.Data) {
			return fmt.Errorf("buffer %q: %d bytes, want %d", mem.Name, len(buf), len(mem.Data))
		}
	}
	b := m.JSA()
	if len(st.JSA.RAM) != len(b.RAM) {
		return fmt.Errorf("jsa ram: %d bytes, want %d", len(st.JSA.RAM), len(b.RAM))
	}

	m.Reset()

	copy(gen.EEPROM.Data, st.EEPROM.Data)
	if st.EEPROM.Unlocked {
		gen.EEPROM.Enable(0, 0, 0)
	}
	for _, mem := range m.Mems() {
		copy(mem.Data, st.Mems[mem.Name])
	}

	snd := gen.Sound
	snd.CPUToSound, snd.CPUToSoundReady = st.Sound.CPUToSound, st.Sound.CPUToSoundReady
	snd.SoundToCPU, snd.SoundToCPUReady = st.Sound.SoundToCPU, st.Sound.SoundToCPUReady
	snd.TimedInt, snd.YM2151Int = st.Sound.TimedInt, st.Sound.YM2151Int
	snd.UpdateIRQ()

	copy(b.RAM[:], st.JSA.RAM)
	b.Bank = st.JSA.Bank
	b.Overall = st.JSA.Overall
	copy(b.Volumes[:], st.JSA.Volumes)
	copy(b.OKIBankBase[:], st.JSA.OKIBankBase)
	b.SpeechData = st.JSA.SpeechData
	b.LastCtl = st.JSA.LastCtl
	copy(b.CoinCounters[:], st.JSA.CoinCounters)
	b.Restore()

	m.LoadLatches(st.Latches)

	gen.IRQ.Restore(st.IRQ)
	modSnap.InfoZ("snapshot applied").String("game", st.Game).Uint("frame", st.Frame).End()
	return nil
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
