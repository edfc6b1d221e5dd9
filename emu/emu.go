// Package emu assembles complete machines around an LDMA controller and runs
// scripted scenarios on them.
package emu

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/sarchlab/akita/v4/sim"

	"ldmasim/emu/log"
	"ldmasim/hw/clock"
	"ldmasim/hw/hwio"
	"ldmasim/hw/ldma"
)

// Default placement of the controller registers, as on series 2 parts.
const (
	DefaultLDMABase = 0x4004_0000
	DefaultXbarBase = 0x4004_4000
)

// A Region is a memory area mapped on the system bus.
type Region struct {
	Name     string   `toml:"name"`
	Base     uint32   `toml:"base"`
	Size     int      `toml:"size"`
	ReadOnly bool     `toml:"readonly"`
	Data     HexBytes `toml:"data"` // loaded at Base
}

// A Sink is a peripheral data register, such as a UART transmit register.
// It records every byte written to it and reads as zero.
type Sink struct {
	Name string `toml:"name"`
	Base uint32 `toml:"base"`
	Size int    `toml:"size"` // default 4
}

// Layout describes the system bus of a machine.
type Layout struct {
	LDMABase uint32
	XbarBase uint32
	Regions  []Region
	Sinks    []Sink
}

// Machine is a system bus with memories and an LDMA controller, driven by a
// virtual clock.
type Machine struct {
	Bus   *hwio.Bus
	Clock *clock.Clock
	LDMA  *ldma.Controller
	Mems  []*hwio.Mem

	bases []uint32          // base address of each of Mems
	irqs  []ldma.Interrupts // interrupt output changes, in order
	sinks map[string][]byte
}

// NewMachine powers up a machine of the given family. The controller is in
// its reset state and memories hold their preloaded data.
func NewMachine(family *ldma.Family, layout Layout, opts ldma.Options) (*Machine, error) {
	if err := checkLayout(family, layout); err != nil {
		return nil, err
	}

	m := &Machine{
		Bus:   hwio.NewBus("sysbus"),
		Clock: clock.New(),
		sinks: make(map[string][]byte),
	}
	for i, r := range layout.Regions {
		if r.Name == "" {
			r.Name = fmt.Sprintf("mem%d", i)
		}
		flags := hwio.MemFlagReadWrite
		if r.ReadOnly {
			flags = hwio.MemFlagReadOnly
		}
		mem := hwio.NewMem(r.Name, r.Size, flags)
		mem.Load(0, r.Data)
		m.Bus.MapMem(r.Base, mem)
		m.Mems = append(m.Mems, mem)
		m.bases = append(m.bases, r.Base)
	}

	for _, sk := range layout.Sinks {
		m.mapSink(sk)
	}

	m.LDMA = ldma.New(family, m.Bus, m.Clock, opts)
	m.Bus.MapTable(layout.LDMABase, m.LDMA.Regs())
	if xbar := m.LDMA.XbarRegs(); xbar != nil {
		m.Bus.MapTable(layout.XbarBase, xbar)
	}
	m.LDMA.SetIRQHandler(func(irq ldma.Interrupts) {
		log.ModIRQ.DebugZ("irq").
			Stringer("lines", irq).
			Duration("time", vtimeDuration(m.Clock.Now())).
			End()
		m.irqs = append(m.irqs, irq)
	})

	log.ModEmu.InfoZ("machine powered up").
		String("family", family.Name).
		Int("mems", len(m.Mems)).
		Hex32("ldma", layout.LDMABase).
		End()
	return m, nil
}

// IRQHistory returns the successive levels taken by the interrupt outputs.
func (m *Machine) IRQHistory() []ldma.Interrupts {
	return m.irqs
}

func (m *Machine) mapSink(sk Sink) {
	name := sk.Name
	m.sinks[name] = nil
	m.Bus.MapDevice(sk.Base, &hwio.Device{
		Name: name,
		Size: sinkSize(sk),
		WriteCb: func(_ uint32, val uint8) {
			m.sinks[name] = append(m.sinks[name], val)
		},
	})
}

func sinkSize(sk Sink) int {
	if sk.Size == 0 {
		return 4
	}
	return sk.Size
}

// SinkData returns the bytes written so far to the named sink.
func (m *Machine) SinkData(name string) ([]byte, bool) {
	data, ok := m.sinks[name]
	return data, ok
}

// Load copies data at addr, bypassing bus access checks. The whole range must
// fit in a single memory region.
func (m *Machine) Load(addr uint32, data []byte) error {
	for i, mem := range m.Mems {
		base := m.bases[i]
		if addr < base {
			continue
		}
		off := addr - base
		if uint64(off)+uint64(len(data)) <= uint64(len(mem.Data)) {
			mem.Load(off, data)
			return nil
		}
	}
	return fmt.Errorf("load of %d bytes at %#08x: not within a memory region", len(data), addr)
}

func vtimeDuration(t sim.VTimeInSec) time.Duration {
	return time.Duration(math.Round(float64(t) * 1e9))
}

type span struct {
	name       string
	begin, end uint64 // end excluded
}

func checkLayout(family *ldma.Family, layout Layout) error {
	spans := []span{{"ldma", uint64(layout.LDMABase), uint64(layout.LDMABase) + uint64(family.RegionSize())}}
	if family.XbarSize() != 0 {
		spans = append(spans, span{"ldmaxbar", uint64(layout.XbarBase), uint64(layout.XbarBase) + uint64(family.XbarSize())})
	}
	names := make(map[string]bool)
	for i, r := range layout.Regions {
		if r.Size <= 0 {
			return fmt.Errorf("memory region %d: invalid size %d", i, r.Size)
		}
		if len(r.Data) > r.Size {
			return fmt.Errorf("memory region %d: %d bytes of data do not fit in %d bytes", i, len(r.Data), r.Size)
		}
		name := r.Name
		if name == "" {
			name = fmt.Sprintf("mem%d", i)
		}
		if names[name] {
			return fmt.Errorf("memory region %d: duplicate name %q", i, name)
		}
		names[name] = true
		spans = append(spans, span{name, uint64(r.Base), uint64(r.Base) + uint64(r.Size)})
	}
	for i, sk := range layout.Sinks {
		if sk.Name == "" {
			return fmt.Errorf("sink %d: missing name", i)
		}
		if names[sk.Name] {
			return fmt.Errorf("sink %d: duplicate name %q", i, sk.Name)
		}
		if sinkSize(sk) <= 0 {
			return fmt.Errorf("sink %s: invalid size %d", sk.Name, sk.Size)
		}
		names[sk.Name] = true
		spans = append(spans, span{sk.Name, uint64(sk.Base), uint64(sk.Base) + uint64(sinkSize(sk))})
	}

	slices.SortFunc(spans, func(a, b span) int { return cmp.Compare(a.begin, b.begin) })
	for i, s := range spans {
		if s.end > 1<<32 {
			return fmt.Errorf("%s: beyond the end of the address space", s.name)
		}
		if i > 0 && spans[i-1].end > s.begin {
			return fmt.Errorf("%s overlaps %s at %#08x", s.name, spans[i-1].name, s.begin)
		}
	}
	return nil
}
