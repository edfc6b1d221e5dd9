package hwio

import "ldmasim/emu/log"

// Device allows manual management of an entire range of the bus, with byte
// granularity. Offsets passed to the callbacks are relative to the start of
// the device.
type Device struct {
	Name  string // name of the memory area (for debugging)
	Size  int    // size of the memory area
	Flags RWFlags

	ReadCb  func(off uint32) uint8
	PeekCb  func(off uint32) uint8
	WriteCb func(off uint32, val uint8)
}

func (d *Device) Read8(off uint32) uint8 {
	switch {
	case d.Flags&WriteOnlyFlag != 0:
		log.ModHwIo.ErrorZ("invalid Read8 from writeonly device").
			String("name", d.Name).
			Hex32("off", off).
			End()
		fallthrough
	case d.ReadCb == nil:
		return 0
	}
	return d.ReadCb(off)
}

func (d *Device) Peek8(off uint32) uint8 {
	if d.PeekCb != nil {
		return d.PeekCb(off)
	}
	return 0
}

func (d *Device) Write8(off uint32, val uint8) {
	switch {
	case d.Flags&ReadOnlyFlag != 0:
		log.ModHwIo.ErrorZ("invalid Write8 to readonly device").
			String("name", d.Name).
			Hex32("off", off).
			End()
		fallthrough
	case d.WriteCb == nil:
		return
	}

	d.WriteCb(off, val)
}
