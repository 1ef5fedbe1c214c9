package jsa

import "atarihw/hw/hwdefs"

// The sound chips are emulated outside of the board; these are the
// interfaces the board drives them through.

type YM2151 interface {
	Reset()
	Read(off int) uint8
	Write(off int, val uint8)
}

type POKEY interface {
	Read(off int) uint8
	Write(off int, val uint8)
}

type TMS5220 interface {
	Ready() bool
	WriteData(val uint8)
	SetFrequency(hz int)
}

type OKI6295 interface {
	Reset()
	Status() uint8
	Write(val uint8)
	SetFrequency(hz int)
	SetBankBase(base int)
}

// VolumeSink receives the effective volume (0-100) of each chip.
type VolumeSink interface {
	SetChipVolume(chip hwdefs.Chip, volume int)
}

// Ports reads the input ports of the cabinet.
type Ports interface {
	ReadPort(index int) uint16
}

// Chips lists the chips populated on a board. Nil means absent.
type Chips struct {
	YM2151  YM2151
	POKEY   POKEY
	TMS5220 TMS5220
	OKI     [2]OKI6295
}

func (c *Chips) present(chip hwdefs.Chip) bool {
	switch chip {
	case hwdefs.YM2151:
		return c.YM2151 != nil
	case hwdefs.POKEY:
		return c.POKEY != nil
	case hwdefs.TMS5220:
		return c.TMS5220 != nil
	case hwdefs.OKI6295:
		return c.OKI[0] != nil
	case hwdefs.OKI6295B:
		return c.OKI[1] != nil
	}
	return false
}
