package hwio

import (
	"fmt"
	"slices"

	"ldmasim/emu/log"
)

// log unmapped accesses (useful for debugging, but firmware often probes
// reserved registers)
const logUnmapped = true

// BankIO32 is implemented by everything that can be mapped as a register
// bank on a Bus. Addresses are offsets relative to the start of the bank.
type BankIO32 interface {
	// Read32 reads a word at the given offset. If peek is true, the read
	// shouldn't have any side effects (debugging/tracing).
	Read32(addr uint32, peek bool) uint32
	Write32(addr uint32, val uint32)
}

type AliasMode uint8

const (
	NoAlias AliasMode = iota

	// The register space is mirrored 3 times: writes at +SetBank, +ClearBank
	// and +ToggleBank respectively set, clear or toggle the written bits.
	SetClearToggle
)

const (
	SetBank    = 0x1000
	ClearBank  = 0x2000
	ToggleBank = 0x3000

	bankMask = 0x3000
)

// Table maps 32-bit registers at fixed offsets within a register bank.
type Table struct {
	Name  string
	Size  uint32
	Alias AliasMode

	regs map[uint32]*Reg32
}

func NewTable(name string, size uint32, alias AliasMode) *Table {
	return &Table{
		Name:  name,
		Size:  size,
		Alias: alias,
		regs:  make(map[uint32]*Reg32),
	}
}

func (t *Table) MapReg32(off uint32, reg *Reg32) {
	if off&3 != 0 {
		panic(fmt.Errorf("%s: misaligned register %s at %#x", t.Name, reg.Name, off))
	}
	if prev, ok := t.regs[off]; ok {
		panic(fmt.Errorf("%s: register %s overlaps %s at %#x", t.Name, reg.Name, prev.Name, off))
	}
	t.regs[off] = reg
}

// MapRegs maps a register array, the i-th register being mapped at
// base+i*stride.
func (t *Table) MapRegs(base, stride uint32, regs []*Reg32) {
	for i, reg := range regs {
		t.MapReg32(base+uint32(i)*stride, reg)
	}
}

// Reg returns the register mapped at offset off, or nil.
func (t *Table) Reg(off uint32) *Reg32 {
	return t.regs[off]
}

// Offsets returns the offsets of all mapped registers, in increasing order.
func (t *Table) Offsets() []uint32 {
	offs := make([]uint32, 0, len(t.regs))
	for off := range t.regs {
		offs = append(offs, off)
	}
	slices.Sort(offs)
	return offs
}

// Reset loads the reset value in all registers, without calling any callback.
func (t *Table) Reset() {
	for _, reg := range t.regs {
		reg.Value = reg.Reset
	}
}

func (t *Table) resolve(addr uint32) (off, bank uint32) {
	if t.Alias == SetClearToggle {
		return addr &^ bankMask, addr & bankMask
	}
	return addr, 0
}

// Read32 reads the register mapped at addr. Reads through an alias bank read
// the underlying register.
func (t *Table) Read32(addr uint32, peek bool) uint32 {
	off, _ := t.resolve(addr &^ 3)
	reg := t.regs[off]
	if reg == nil {
		if logUnmapped && !peek {
			log.ModHwIo.WarnZ("unmapped Read32").
				String("name", t.Name).
				Hex32("addr", addr).
				End()
		}
		return 0
	}
	if peek {
		return reg.Peek32()
	}
	return reg.Read32(addr)
}

// Write32 writes the register mapped at addr. Writes through an alias bank
// are turned into a single write of the combined value to the underlying
// register.
func (t *Table) Write32(addr uint32, val uint32) {
	off, bank := t.resolve(addr &^ 3)
	reg := t.regs[off]
	if reg == nil {
		if logUnmapped {
			log.ModHwIo.WarnZ("unmapped Write32").
				String("name", t.Name).
				Hex32("addr", addr).
				Hex32("val", val).
				End()
		}
		return
	}

	switch bank {
	case SetBank:
		val = reg.Peek32() | val
	case ClearBank:
		val = reg.Peek32() &^ val
	case ToggleBank:
		val = reg.Peek32() ^ val
	}
	if bank != 0 {
		log.ModHwIo.DebugZ("aliased write").
			String("reg", reg.Name).
			Hex32("bank", bank).
			Hex32("val", val).
			End()
	}
	reg.Write32(addr, val)
}
