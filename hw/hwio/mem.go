package hwio

import (
	"ldmasim/emu/log"
)

type MemFlags int

const (
	MemFlagReadWrite MemFlags = 0
	MemFlagReadOnly  MemFlags = (1 << iota) // read-only accesses
	MemFlagNoROLog                          // skip logging attempts to write when configured to readonly
)

// Mem is a linear memory area that can be mapped on a Bus. The mapped size
// (VSize) can be bigger than the physical buffer, in which case the buffer is
// mirrored.
type Mem struct {
	Name    string              // name of the memory area (for debugging)
	Data    []byte              // actual memory buffer
	VSize   int                 // virtual size of the memory (0 means len(Data))
	Flags   MemFlags            // flags determining how the memory can be accessed
	WriteCb func(uint32, uint8) // optional write callback, called after the write
}

// NewMem allocates a zeroed memory area of the given size.
func NewMem(name string, size int, flags MemFlags) *Mem {
	return &Mem{
		Name:  name,
		Data:  make([]byte, size),
		Flags: flags,
	}
}

func (m *Mem) size() uint32 {
	if m.VSize != 0 {
		return uint32(m.VSize)
	}
	return uint32(len(m.Data))
}

func (m *Mem) Read8(off uint32) uint8 {
	return m.Data[off%uint32(len(m.Data))]
}

func (m *Mem) Write8(off uint32, val uint8) {
	switch {
	case m.Flags&MemFlagReadOnly == 0:
		m.Data[off%uint32(len(m.Data))] = val
		if m.WriteCb != nil {
			m.WriteCb(off, val)
		}
	case m.Flags&MemFlagNoROLog != 0:
		return
	default:
		log.ModMem.ErrorZ("Write8 to readonly memory").
			String("name", m.Name).
			Hex32("off", off).
			Hex8("val", val).
			End()
	}
}

// Load copies data into memory at offset off, ignoring the read-only flag.
func (m *Mem) Load(off uint32, data []byte) {
	for i, b := range data {
		m.Data[(off+uint32(i))%uint32(len(m.Data))] = b
	}
}
