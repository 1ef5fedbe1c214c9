package emu

import (
	"fmt"
	"os"

	"atarihw/emu/log"
	"atarihw/hw/snapshot"
)

// SaveState writes a snapshot of the board to path.
func (e *Emulator) SaveState(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	if err := snapshot.Write(f, snapshot.Take(e.Machine, e.frame)); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	log.ModEmu.InfoZ("State saved").String("path", path).Uint("frame", e.frame).End()
	return nil
}

// LoadState restores a snapshot written by SaveState. The board must run
// the game the snapshot was taken from.
func (e *Emulator) LoadState(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}
	defer f.Close()

	st, err := snapshot.Read(f)
	if err != nil {
		return err
	}
	if err := snapshot.Apply(e.Machine, st); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if e.Mixer != nil {
		e.Mixer.Reset()
	}
	e.frame = st.Frame
	return nil
}
