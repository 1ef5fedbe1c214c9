package hwio

import "atarihw/emu/log"

type RWFlags uint8

const (
	ReadWriteFlag RWFlags = 0
	ReadOnlyFlag  RWFlags = (1 << iota)
	WriteOnlyFlag
)

// Device is a BankIO16 implementation that allows manual management of an
// entire range of the bus. Callbacks receive the byte offset from the start
// of the device.
type Device struct {
	Name  string // name of the area (for debugging)
	Size  int    // size in bytes
	Flags RWFlags

	ReadCb  func(off uint32) uint16
	PeekCb  func(off uint32) uint16
	WriteCb func(off uint32, val, mask uint16)
}

func (d *Device) Read16(off uint32, peek bool) uint16 {
	if peek {
		if d.PeekCb != nil {
			return d.PeekCb(off)
		}
		return 0xFFFF
	}
	switch {
	case d.Flags&WriteOnlyFlag != 0:
		log.ModHwIo.DebugZ("read from write-only device").
			String("name", d.Name).
			Hex32("off", off).
			End()
		fallthrough
	case d.ReadCb == nil:
		return 0xFFFF
	}
	return d.ReadCb(off)
}

func (d *Device) Write16(off uint32, val, mask uint16) {
	switch {
	case d.Flags&ReadOnlyFlag != 0:
		log.ModHwIo.DebugZ("write to read-only device").
			String("name", d.Name).
			Hex32("off", off).
			Hex16("val", val).
			End()
		fallthrough
	case d.WriteCb == nil:
		return
	}
	d.WriteCb(off, val, mask)
}

// Device8 is the 8-bit bus counterpart of Device.
type Device8 struct {
	Name  string
	Size  int
	Flags RWFlags

	ReadCb  func(off uint16) uint8
	PeekCb  func(off uint16) uint8
	WriteCb func(off uint16, val uint8)
}

func (d *Device8) Read8(off uint16, peek bool) uint8 {
	if peek {
		if d.PeekCb != nil {
			return d.PeekCb(off)
		}
		return 0xFF
	}
	if d.Flags&WriteOnlyFlag != 0 || d.ReadCb == nil {
		return 0xFF
	}
	return d.ReadCb(off)
}

func (d *Device8) Write8(off uint16, val uint8) {
	if d.Flags&ReadOnlyFlag != 0 || d.WriteCb == nil {
		return
	}
	d.WriteCb(off, val)
}
