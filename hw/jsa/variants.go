package jsa

import "atarihw/hw/hwdefs"

// Register window decode. All variants select a register with off&0x206;
// bit 9 separates reads from writes.
const (
	regRDV    = 0x000 // read: OKI status, write (III): overall volume
	regRDP    = 0x002 // read from main CPU
	regRDIO   = 0x004 // read input port and status bits
	regIRQACK = 0x006
	regWRV    = 0x200 // write speech (I) or OKI command
	regWRP    = 0x202 // write to main CPU
	regWRIO   = 0x204
	regMIX    = 0x206
)

func slot(off uint16) uint16 { return off & 0x206 }

// readCommon decodes the registers shared by all variants, and reports
// whether it handled off.
func (b *Board) readCommon(off uint16) (uint8, bool) {
	switch slot(off) {
	case regRDP:
		return b.gen.Sound.ReadFromCPU(), true
	case regIRQACK:
		b.gen.Sound.IRQAck()
		return 0xFF, true
	}
	return 0, false
}

func (b *Board) writeCommon(off uint16, val uint8) bool {
	switch slot(off) {
	case regIRQACK:
		b.gen.Sound.IRQAck()
		return true
	case regWRP:
		b.gen.Sound.SendToCPU(val)
		return true
	}
	return false
}

// jsaI carries a YM2151, an optional POKEY and an optional TMS5220.
type jsaI struct{}

func (jsaI) chips() []hwdefs.Chip {
	return []hwdefs.Chip{hwdefs.YM2151, hwdefs.POKEY, hwdefs.TMS5220}
}

func (jsaI) read(b *Board, off uint16) uint8 {
	if v, ok := b.readCommon(off); ok {
		return v
	}
	if slot(off) == regRDIO {
		return b.readIO(0x80, true)
	}
	return b.unknownRead(off)
}

func (jsaI) write(b *Board, off uint16, val uint8) {
	if b.writeCommon(off, val) {
		return
	}
	switch slot(off) {
	case regWRV:
		b.SpeechData = val

	case regWRIO:
		tms := b.cfg.Chips.TMS5220
		if tms != nil {
			// strobe the speech latch on the rising edge of bit 1
			if (val^b.LastCtl)&0x02 != 0 && val&0x02 != 0 {
				tms.WriteData(b.SpeechData)
			}
			count := 5 | int(val>>2)&2
			tms.SetFrequency(masterClock * 2 / (16 - count))
		}
		b.writeCtl(val)
		b.LastCtl = val
		b.UpdateAllVolumes()

	case regMIX:
		b.Volumes[hwdefs.TMS5220] = volume((val>>6)&3, 3)
		b.Volumes[hwdefs.POKEY] = volume((val>>4)&3, 3)
		b.Volumes[hwdefs.YM2151] = volume((val>>1)&7, 7)
		b.UpdateAllVolumes()

	default:
		b.unknownWrite(off, val)
	}
}

// jsaII replaces the speech chip with an OKI6295.
type jsaII struct{}

func (jsaII) chips() []hwdefs.Chip {
	return []hwdefs.Chip{hwdefs.YM2151, hwdefs.OKI6295}
}

func (jsaII) read(b *Board, off uint16) uint8 {
	if v, ok := b.readCommon(off); ok {
		return v
	}
	switch slot(off) {
	case regRDV:
		return b.okiStatus(0)
	case regRDIO:
		return b.readIO(0x80, false)
	}
	return b.unknownRead(off)
}

func (jsaII) write(b *Board, off uint16, val uint8) {
	if b.writeCommon(off, val) {
		return
	}
	switch slot(off) {
	case regWRV:
		b.okiWrite(0, val)
	case regWRIO:
		b.writeII(val)
	case regMIX:
		b.mixII(val)
	default:
		b.unknownWrite(off, val)
	}
}

func (b *Board) writeII(val uint8) {
	b.writeCtl(val)
	b.writeOKICtl(val)
	b.LastCtl = val
	b.UpdateAllVolumes()
}

func (b *Board) mixII(val uint8) {
	b.Volumes[hwdefs.YM2151] = volume((val>>1)&7, 7)
	b.Volumes[hwdefs.OKI6295] = 50 + int(val&1)*50
	b.Volumes[hwdefs.OKI6295B] = b.Volumes[hwdefs.OKI6295]
	b.UpdateAllVolumes()
}

func (b *Board) okiStatus(i int) uint8 {
	if oki := b.cfg.Chips.OKI[i]; oki != nil {
		return oki.Status()
	}
	return 0xFF
}

func (b *Board) okiWrite(i int, val uint8) {
	if oki := b.cfg.Chips.OKI[i]; oki != nil {
		oki.Write(val)
	}
}

// jsaIII adds ADPCM banking and an overall volume register. The OKI6295 is
// optional.
type jsaIII struct{}

func (jsaIII) chips() []hwdefs.Chip {
	return []hwdefs.Chip{hwdefs.YM2151, hwdefs.OKI6295}
}

func (jsaIII) read(b *Board, off uint16) uint8 {
	if v, ok := b.readCommon(off); ok {
		return v
	}
	switch slot(off) {
	case regRDV:
		return b.okiStatus(0)
	case regRDIO:
		return b.readIO(0x90, false)
	}
	return b.unknownRead(off)
}

func (jsaIII) write(b *Board, off uint16, val uint8) {
	if b.writeCommon(off, val) {
		return
	}
	switch slot(off) {
	case regRDV:
		b.writeOverall(val)
	case regWRV:
		b.okiWrite(0, val)
	case regWRIO:
		b.writeIII(val)
	case regMIX:
		b.mixIII(val)
	default:
		b.unknownWrite(off, val)
	}
}

func (b *Board) writeOverall(val uint8) {
	b.Overall = int(val) * 100 / 127
	b.UpdateAllVolumes()
}

// writeIII adds the low ADPCM bank bit (bit 1) to the JSA II controls.
func (b *Board) writeIII(val uint8) {
	b.setOKIBank(0, b.OKIBankBase[0]&0x80000|int(val>>1&1)*0x40000)
	b.writeII(val)
}

// mixIII adds the high ADPCM bank bit (bit 4) to the JSA II mixer.
func (b *Board) mixIII(val uint8) {
	b.setOKIBank(0, int(val>>4&1)*0x80000|b.OKIBankBase[0]&0x40000)
	b.mixII(val)
}

// jsaIIIS doubles the OKI6295: the low address bit selects the chip for
// /RDV and /WRV.
type jsaIIIS struct{}

func (jsaIIIS) chips() []hwdefs.Chip {
	return []hwdefs.Chip{hwdefs.YM2151, hwdefs.OKI6295, hwdefs.OKI6295B}
}

func (jsaIIIS) read(b *Board, off uint16) uint8 {
	if v, ok := b.readCommon(off); ok {
		return v
	}
	switch slot(off) {
	case regRDV:
		return b.okiStatus(int(off & 1))
	case regRDIO:
		return b.readIO(0x90, false)
	}
	return b.unknownRead(off)
}

func (jsaIIIS) write(b *Board, off uint16, val uint8) {
	if b.writeCommon(off, val) {
		return
	}
	switch slot(off) {
	case regRDV:
		b.writeOverall(val)
	case regWRV:
		b.okiWrite(int(off&1), val)
	case regWRIO:
		b.writeIII(val)
	case regMIX:
		// the second chip is banked by bits 6-7
		b.setOKIBank(1, int(val>>6)*0x40000)
		b.mixIII(val)
	default:
		b.unknownWrite(off, val)
	}
}
