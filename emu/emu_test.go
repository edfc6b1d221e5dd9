package emu

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ldmasim/emu/log"
	"ldmasim/hw/ldma"
)

func newMachine(tb testing.TB, f *ldma.Family, regions ...Region) *Machine {
	tb.Helper()

	if len(regions) == 0 {
		regions = []Region{DefaultRAM}
	}
	m, err := NewMachine(f, Layout{
		LDMABase: DefaultLDMABase,
		XbarBase: DefaultXbarBase,
		Regions:  regions,
	}, ldma.DefaultOptions())
	if err != nil {
		tb.Fatal(err)
	}
	return m
}

func TestMachineMapping(t *testing.T) {
	log.Disable()

	m := newMachine(t, ldma.EFR32xG22,
		Region{Name: "flash", Base: 0, Size: 0x100, ReadOnly: true, Data: HexBytes{0xAA, 0xBB}},
		Region{Name: "ram", Base: 0x2000_0000, Size: 0x100},
	)

	if got := m.Bus.Read8(1); got != 0xBB {
		t.Errorf("flash[1] = %#x, want 0xbb", got)
	}
	m.Bus.Write8(0, 0x11)
	if got := m.Bus.Read8(0); got != 0xAA {
		t.Errorf("read-only flash written: %#x", got)
	}

	// Channel 2 REQSEL, through the crossbar.
	m.Bus.Write32(DefaultXbarBase+8, 0x0004_0002)
	if src, sig := m.LDMA.Channel(2).RequestSelect(); src != 4 || sig != 2 {
		t.Errorf("REQSEL = %d/%d, want 4/2", src, sig)
	}
	// IEN
	m.Bus.Write32(DefaultLDMABase+0x54, 0x3)
	if !m.LDMA.Channel(1).DoneInterruptEnable() {
		t.Errorf("IEN not mapped")
	}
}

func TestMachineLoad(t *testing.T) {
	log.Disable()

	m := newMachine(t, ldma.EFR32MG24,
		Region{Name: "rom", Base: 0x0800_0000, Size: 0x10, ReadOnly: true},
		DefaultRAM,
	)
	if err := m.Load(0x0800_000E, []byte{1, 2}); err != nil {
		t.Fatal(err)
	}
	if got := m.Bus.Read16(0x0800_000E); got != 0x0201 {
		t.Errorf("rom = %#x, want 0x201", got)
	}
	if err := m.Load(0x0800_000F, []byte{1, 2}); err == nil {
		t.Errorf("Load across the end of a region succeeded")
	}
	if err := m.Load(0x1000_0000, []byte{1}); err == nil {
		t.Errorf("Load outside of memory succeeded")
	}
}

func TestMachineIRQHistory(t *testing.T) {
	log.Disable()

	m := newMachine(t, ldma.LDMA33)
	m.Bus.Write32(DefaultLDMABase+0x58, 0x5) // IEN
	m.Bus.Write32(DefaultLDMABase+0x54, 0x1) // IF
	m.Bus.Write32(DefaultLDMABase+0x54, 0x5)
	m.Bus.Write32(DefaultLDMABase+0x54, 0x0)

	want := []ldma.Interrupts{
		{Channels: 0x1},
		{Channels: 0x5},
		{},
	}
	if diff := cmp.Diff(want, m.IRQHistory()); diff != "" {
		t.Errorf("IRQ history mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckLayout(t *testing.T) {
	tests := []struct {
		name    string
		f       *ldma.Family
		layout  Layout
		wantErr bool
	}{
		{"default", ldma.EFR32xG22, Layout{DefaultLDMABase, DefaultXbarBase, []Region{DefaultRAM}, nil}, false},
		{"mg12 ignores xbar", ldma.EFR32MG12, Layout{0x400E_2000, 0x400E_2000, nil, nil}, false},
		{"xbar overlap", ldma.EFR32MG24, Layout{0x4000_0000, 0x4000_3000, nil, nil}, true},
		{"adjacent", ldma.EFR32MG24, Layout{0x4000_0000, 0x4000_4000, []Region{{Base: 0x4000_8000, Size: 1}}, nil}, false},
		{"zero size", ldma.EFR32MG24, Layout{DefaultLDMABase, DefaultXbarBase, []Region{{Size: 0}}, nil}, true},
		{"end of space", ldma.EFR32MG24, Layout{DefaultLDMABase, DefaultXbarBase, []Region{{Base: 0xFFFF_FF00, Size: 0x200}}, nil}, true},
		{"duplicate names", ldma.EFR32MG24, Layout{DefaultLDMABase, DefaultXbarBase, []Region{{Name: "a", Size: 1}, {Name: "a", Base: 1, Size: 1}}, nil}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkLayout(tt.f, tt.layout)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkLayout() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestMachineSink(t *testing.T) {
	log.Disable()

	layout := Layout{
		LDMABase: DefaultLDMABase,
		XbarBase: DefaultXbarBase,
		Regions:  []Region{DefaultRAM},
		Sinks:    []Sink{{Name: "tx", Base: 0x4001_0000}},
	}
	m, err := NewMachine(ldma.EFR32xG22, layout, ldma.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	m.Bus.Write8(0x4001_0000, 0x41)
	m.Bus.Write32(0x4001_0000, 0x4443_4200)
	if got := m.Bus.Read32(0x4001_0000); got != 0 {
		t.Errorf("sink reads %#x, want 0", got)
	}

	got, ok := m.SinkData("tx")
	if !ok {
		t.Fatal("no sink named tx")
	}
	if diff := cmp.Diff([]byte{0x41, 0x00, 0x42, 0x43, 0x44}, got); diff != "" {
		t.Errorf("sink data mismatch (-want +got):\n%s", diff)
	}
	if _, ok := m.SinkData("rx"); ok {
		t.Errorf("unknown sink found")
	}

	layout.Sinks = append(layout.Sinks, Sink{Name: "ram", Base: 0x4002_0000})
	if _, err := NewMachine(ldma.EFR32xG22, layout, ldma.DefaultOptions()); err == nil {
		t.Errorf("NewMachine accepted a sink named after a memory region")
	}
}
