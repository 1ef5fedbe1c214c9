package atarigen

import (
	"fmt"
	"io"

	"atarihw/hw/hwio"
)

// EEPROM is the battery-backed settings storage. Each 16-bit bus word holds
// one meaningful byte, the low one; writes are accepted only after an unlock
// and each accepted write locks the device again.
type EEPROM struct {
	Data     []byte // word storage, big-endian
	unlocked bool

	// Default is the compressed factory image, see Decompress.
	Default []uint16
}

func NewEEPROM(size int, def []uint16) *EEPROM {
	e := &EEPROM{Data: make([]byte, size), Default: def}
	e.Clear()
	return e
}

// Reset locks the EEPROM. Contents are preserved.
func (e *EEPROM) Reset() {
	e.unlocked = false
}

func (e *EEPROM) Unlocked() bool { return e.unlocked }

// Enable unlocks the next write, whatever the written value.
func (e *EEPROM) Enable(uint32, uint16, uint16) {
	e.unlocked = true
}

// Read returns the word at off with the upper byte forced to 0xFF.
func (e *EEPROM) Read(off uint32) uint16 {
	if int(off) >= len(e.Data) {
		return 0xFFFF
	}
	return hwio.ReadWord(e.Data, off) | 0xFF00
}

// ReadUpper is the variant for boards wiring the EEPROM on the upper lane.
func (e *EEPROM) ReadUpper(off uint32) uint16 {
	if int(off) >= len(e.Data) {
		return 0xFFFF
	}
	return hwio.ReadWord(e.Data, off)<<8 | 0x00FF
}

// Write stores val if the EEPROM is unlocked, and locks it again.
func (e *EEPROM) Write(off uint32, val, mask uint16) {
	if !e.unlocked {
		modEEPROM.DebugZ("write while locked").Hex32("off", off).Hex16("val", val).End()
		return
	}
	if int(off) < len(e.Data) {
		hwio.WriteWordMasked(e.Data, off, val, mask)
	}
	e.unlocked = false
}

// WriteUpper is the variant storing the upper byte of val.
func (e *EEPROM) WriteUpper(off uint32, val, mask uint16) {
	e.Write(off, val>>8, mask>>8)
}

// Clear brings the EEPROM to its factory state: all 0xFF, then the default
// image if any.
func (e *EEPROM) Clear() {
	for i := range e.Data {
		e.Data[i] = 0xFF
	}
	if len(e.Default) > 0 {
		Decompress(e.Data, e.Default)
	}
}

// Decompress expands a factory image into dst. The first value selects the
// packing: 0 for bytes, anything else for words (each value stored in both
// bytes). Then each value is count<<8 | data, terminated by a 0.
func Decompress(dst []byte, def []uint16) {
	if len(def) == 0 {
		return
	}
	words := def[0] != 0
	i := 0
	for _, v := range def[1:] {
		if v == 0 {
			break
		}
		count, data := int(v>>8), uint8(v)
		for range count {
			if words {
				if i+1 >= len(dst) {
					return
				}
				dst[i], dst[i+1] = data, data
				i += 2
			} else {
				if i >= len(dst) {
					return
				}
				dst[i] = data
				i++
			}
		}
	}
}

// Load restores EEPROM contents saved with Save. A short file leaves the
// tail untouched.
func (e *EEPROM) Load(r io.Reader) error {
	n, err := io.ReadFull(r, e.Data)
	if err != nil && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("read eeprom: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("read eeprom: empty file")
	}
	return nil
}

func (e *EEPROM) Save(w io.Writer) error {
	if _, err := w.Write(e.Data); err != nil {
		return fmt.Errorf("write eeprom: %w", err)
	}
	return nil
}
