package hwio

import (
	"fmt"
	"slices"

	"ldmasim/emu/log"
)

type mapping struct {
	begin, end uint32 // inclusive
	name       string

	mem  *Mem
	dev  *Device
	bank BankIO32
}

// Bus is a 32-bit little-endian address space on which memories, devices and
// register banks are mapped.
type Bus struct {
	Name string

	maps []mapping // sorted by begin, non-overlapping
}

func NewBus(name string) *Bus {
	return &Bus{Name: name}
}

func (b *Bus) insert(m mapping) {
	if m.end < m.begin {
		panic(fmt.Errorf("%s: invalid range for %s [%#x-%#x]", b.Name, m.name, m.begin, m.end))
	}
	idx, _ := slices.BinarySearchFunc(b.maps, m.begin, func(e mapping, addr uint32) int {
		switch {
		case e.begin < addr:
			return -1
		case e.begin > addr:
			return 1
		}
		return 0
	})
	if idx > 0 && b.maps[idx-1].end >= m.begin {
		panic(fmt.Errorf("%s: %s overlaps %s at %#x", b.Name, m.name, b.maps[idx-1].name, m.begin))
	}
	if idx < len(b.maps) && b.maps[idx].begin <= m.end {
		panic(fmt.Errorf("%s: %s overlaps %s at %#x", b.Name, m.name, b.maps[idx].name, b.maps[idx].begin))
	}
	b.maps = slices.Insert(b.maps, idx, m)
}

func (b *Bus) MapMem(addr uint32, mem *Mem) {
	log.ModHwIo.DebugZ("mapping mem").
		Hex32("addr", addr).
		Hex32("size", mem.size()).
		String("area", mem.Name).
		String("bus", b.Name).
		End()

	if len(mem.Data) == 0 {
		panic(fmt.Errorf("%s: empty memory %s", b.Name, mem.Name))
	}
	b.insert(mapping{begin: addr, end: addr + mem.size() - 1, name: mem.Name, mem: mem})
}

func (b *Bus) MapDevice(addr uint32, dev *Device) {
	log.ModHwIo.DebugZ("mapping device").
		Hex32("addr", addr).
		Int("size", dev.Size).
		String("dev", dev.Name).
		String("bus", b.Name).
		End()

	b.insert(mapping{begin: addr, end: addr + uint32(dev.Size) - 1, name: dev.Name, dev: dev})
}

// MapBank maps a register bank of the given size (in bytes).
func (b *Bus) MapBank(addr, size uint32, name string, bank BankIO32) {
	log.ModHwIo.DebugZ("mapping bank").
		Hex32("addr", addr).
		Hex32("size", size).
		String("bank", name).
		String("bus", b.Name).
		End()

	b.insert(mapping{begin: addr, end: addr + size - 1, name: name, bank: bank})
}

// MapTable is a convenience function mapping a register Table.
func (b *Bus) MapTable(addr uint32, t *Table) {
	b.MapBank(addr, t.Size, t.Name, t)
}

// Unmap removes all mappings starting within [begin, end].
func (b *Bus) Unmap(begin, end uint32) {
	b.maps = slices.DeleteFunc(b.maps, func(m mapping) bool {
		return m.begin >= begin && m.begin <= end
	})
}

func (b *Bus) search(addr uint32) *mapping {
	idx, found := slices.BinarySearchFunc(b.maps, addr, func(e mapping, addr uint32) int {
		switch {
		case e.end < addr:
			return -1
		case e.begin > addr:
			return 1
		}
		return 0
	})
	if !found {
		return nil
	}
	return &b.maps[idx]
}

func (b *Bus) unmapped(op string, addr uint32) {
	log.ModHwIo.ErrorZ("unmapped "+op).
		String("bus", b.Name).
		Hex32("addr", addr).
		End()
}

func (b *Bus) Read8(addr uint32) uint8 {
	m := b.search(addr)
	if m == nil {
		b.unmapped("Read8", addr)
		return 0
	}
	off := addr - m.begin
	switch {
	case m.mem != nil:
		return m.mem.Read8(off)
	case m.dev != nil:
		return m.dev.Read8(off)
	}
	return uint8(m.bank.Read32(off&^3, false) >> (8 * (off & 3)))
}

func (b *Bus) Peek8(addr uint32) uint8 {
	m := b.search(addr)
	if m == nil {
		return 0
	}
	off := addr - m.begin
	switch {
	case m.mem != nil:
		return m.mem.Read8(off)
	case m.dev != nil:
		return m.dev.Peek8(off)
	}
	return uint8(m.bank.Read32(off&^3, true) >> (8 * (off & 3)))
}

func (b *Bus) Write8(addr uint32, val uint8) {
	m := b.search(addr)
	if m == nil {
		b.unmapped("Write8", addr)
		return
	}
	off := addr - m.begin
	switch {
	case m.mem != nil:
		m.mem.Write8(off, val)
	case m.dev != nil:
		m.dev.Write8(off, val)
	default:
		b.writeNarrow(m, off, uint32(val), 0xFF)
	}
}

// Narrow writes to a register bank are merged into the current word value.
func (b *Bus) writeNarrow(m *mapping, off, val, mask uint32) {
	shift := 8 * (off & 3)
	word := m.bank.Read32(off&^3, true)
	word = word&^(mask<<shift) | (val&mask)<<shift
	log.ModHwIo.DebugZ("narrow write to register bank").
		String("bank", m.name).
		Hex32("off", off).
		Hex32("word", word).
		End()
	m.bank.Write32(off&^3, word)
}

func (b *Bus) Read16(addr uint32) uint16 {
	if m := b.search(addr); m != nil && m.bank != nil && addr&1 == 0 {
		off := addr - m.begin
		return uint16(m.bank.Read32(off&^3, false) >> (8 * (off & 3)))
	}
	return uint16(b.Read8(addr)) | uint16(b.Read8(addr+1))<<8
}

func (b *Bus) Write16(addr uint32, val uint16) {
	if m := b.search(addr); m != nil && m.bank != nil && addr&1 == 0 {
		b.writeNarrow(m, addr-m.begin, uint32(val), 0xFFFF)
		return
	}
	b.Write8(addr, uint8(val))
	b.Write8(addr+1, uint8(val>>8))
}

func (b *Bus) Read32(addr uint32) uint32 {
	if m := b.search(addr); m != nil && m.bank != nil && addr&3 == 0 {
		return m.bank.Read32(addr-m.begin, false)
	}
	return uint32(b.Read16(addr)) | uint32(b.Read16(addr+2))<<16
}

func (b *Bus) Peek32(addr uint32) uint32 {
	if m := b.search(addr); m != nil && m.bank != nil && addr&3 == 0 {
		return m.bank.Read32(addr-m.begin, true)
	}
	return uint32(b.Peek8(addr)) | uint32(b.Peek8(addr+1))<<8 |
		uint32(b.Peek8(addr+2))<<16 | uint32(b.Peek8(addr+3))<<24
}

func (b *Bus) Write32(addr uint32, val uint32) {
	if m := b.search(addr); m != nil && m.bank != nil && addr&3 == 0 {
		m.bank.Write32(addr-m.begin, val)
		return
	}
	b.Write16(addr, uint16(val))
	b.Write16(addr+2, uint16(val>>16))
}

// ReadBytes reads n consecutive bytes starting at addr.
func (b *Bus) ReadBytes(addr uint32, n int) []byte {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = b.Read8(addr + uint32(i))
	}
	return buf
}

// WriteBytes writes data at consecutive addresses starting at addr.
func (b *Bus) WriteBytes(addr uint32, data []byte) {
	for i, v := range data {
		b.Write8(addr+uint32(i), v)
	}
}
