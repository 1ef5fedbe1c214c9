package emu

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"atarihw/emu/log"
)

func (e *Emulator) nvramPath() string {
	return filepath.Join(e.cfg.General.NVRAMPath(), e.Machine.Desc().Name+".nv")
}

// LoadNVRAM restores the EEPROM saved by a previous session. Without one,
// the EEPROM keeps its factory defaults.
func (e *Emulator) LoadNVRAM() error {
	path := e.nvramPath()
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.ModEmu.InfoZ("No saved nvram").String("path", path).End()
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load nvram: %w", err)
	}
	defer f.Close()

	if err := e.Machine.Platform().EEPROM.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.ModEmu.InfoZ("Loaded nvram").String("path", path).End()
	return nil
}

// SaveNVRAM writes the EEPROM for the next session.
func (e *Emulator) SaveNVRAM() error {
	path := e.nvramPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to save nvram: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to save nvram: %w", err)
	}
	if err := e.Machine.Platform().EEPROM.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
