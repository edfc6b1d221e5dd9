package ldma

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sarchlab/akita/v4/sim"

	"ldmasim/hw/clock"
	"ldmasim/hw/hwio"
)

const (
	ramSize  = 0x10000
	ldmaBase = 0x4000_0000
	xbarBase = 0x4000_8000
)

type transferLog []TransferEvent

func (l *transferLog) TraceTransfer(t TransferEvent) { *l = append(*l, t) }

type testMachine struct {
	t testing.TB

	bus  *hwio.Bus
	ram  *hwio.Mem
	clk  *clock.Clock
	ctrl *Controller

	irqs      []Interrupts
	transfers transferLog
}

func newTestMachine(tb testing.TB, f *Family, opts Options) *testMachine {
	tb.Helper()

	m := &testMachine{
		t:   tb,
		bus: hwio.NewBus("sysbus"),
		ram: hwio.NewMem("ram", ramSize, hwio.MemFlagReadWrite),
		clk: clock.New(),
	}
	m.bus.MapMem(0, m.ram)
	m.ctrl = New(f, m.bus, m.clk, opts)
	m.bus.MapTable(ldmaBase, m.ctrl.Regs())
	if xbar := m.ctrl.XbarRegs(); xbar != nil {
		m.bus.MapTable(xbarBase, xbar)
	}
	m.ctrl.SetIRQHandler(func(irq Interrupts) { m.irqs = append(m.irqs, irq) })
	return m
}

// trace starts recording minor transfers.
func (m *testMachine) trace() {
	m.transfers = nil
	m.ctrl.SetTracer(&m.transfers)
}

func (m *testMachine) regAddr(name string) uint32 {
	m.t.Helper()
	for _, def := range m.ctrl.family.global {
		if def.name == name {
			return ldmaBase + def.off
		}
	}
	m.t.Fatalf("%s: no register named %s", m.ctrl.family.Name, name)
	return 0
}

func (m *testMachine) chRegAddr(ch int, name string) uint32 {
	m.t.Helper()
	f := m.ctrl.family
	if name == "REQSEL" && f.xbarSize != 0 {
		return xbarBase + f.reqSelBase + 4*uint32(ch)
	}
	for _, def := range f.channel {
		if def.name == name {
			return ldmaBase + f.chanBase + uint32(ch)*f.chanStride + def.off
		}
	}
	m.t.Fatalf("%s: no channel register named %s", f.Name, name)
	return 0
}

func (m *testMachine) write(name string, val uint32) {
	m.t.Helper()
	m.bus.Write32(m.regAddr(name), val)
}

func (m *testMachine) read(name string) uint32 {
	m.t.Helper()
	return m.bus.Read32(m.regAddr(name))
}

func (m *testMachine) writeCh(ch int, name string, val uint32) {
	m.t.Helper()
	m.bus.Write32(m.chRegAddr(ch, name), val)
}

func (m *testMachine) readCh(ch int, name string) uint32 {
	m.t.Helper()
	return m.bus.Read32(m.chRegAddr(ch, name))
}

func (m *testMachine) wantRead32(addr, want uint32) {
	m.t.Helper()
	if got := m.bus.Read32(addr); got != want {
		m.t.Errorf("Read32(%08X) = %08X, want %08X", addr, got, want)
	}
}

func (m *testMachine) wantReg(name string, want uint32) {
	m.t.Helper()
	if got := m.read(name); got != want {
		m.t.Errorf("%s = %08X, want %08X", name, got, want)
	}
}

// selectRequest binds channel ch to the request line (source, signal).
func (m *testMachine) selectRequest(ch int, source, signal uint8) {
	m.t.Helper()
	m.writeCh(ch, "REQSEL", uint32(source)<<reqSelSourcePos|uint32(signal))
}

func (m *testMachine) enable(ch int) {
	m.t.Helper()
	m.write("CHEN", m.read("CHEN")|1<<ch)
}

func (m *testMachine) clearDone(ch int) {
	m.t.Helper()
	m.write("CHDONE", m.read("CHDONE")&^(1<<ch))
}

// program writes d into the descriptor registers of channel ch.
func (m *testMachine) program(ch int, d Descriptor) {
	m.t.Helper()
	m.writeCh(ch, "CTRL", d.ControlWord())
	m.writeCh(ch, "SRC", d.SrcAddr)
	m.writeCh(ch, "DST", d.DstAddr)
	m.writeCh(ch, "LINK", d.LinkWord())
}

// arm enables channel ch and link-loads the descriptor at addr, the way
// firmware drivers start a descriptor chain.
func (m *testMachine) arm(ch int, addr uint32) {
	m.t.Helper()
	m.enable(ch)
	m.clearDone(ch)
	m.writeCh(ch, "LINK", addr)
	m.write("LINKLOAD", 1<<ch)
}

func (m *testMachine) putDesc(addr uint32, d Descriptor) {
	buf := d.Encode()
	m.ram.Load(addr, buf[:])
}

func (m *testMachine) getDesc(addr uint32) Descriptor {
	var buf [DescriptorSize]byte
	copy(buf[:], m.ram.Data[addr:])
	return Decode(buf)
}

func (m *testMachine) fill(addr uint32, data ...byte) {
	m.ram.Load(addr, data)
}

func (m *testMachine) wantMem(addr uint32, want ...byte) {
	m.t.Helper()
	got := m.ram.Data[addr : addr+uint32(len(want))]
	if diff := cmp.Diff(want, got); diff != "" {
		m.t.Errorf("memory at %#x mismatch (-want +got):\n%s", addr, diff)
	}
}

func (m *testMachine) advanceUs(us int) {
	m.t.Helper()
	if err := m.clk.RunUntil(sim.MHz.NCyclesLater(us, 0)); err != nil {
		m.t.Fatal(err)
	}
}

// byteCopy returns a Block mode descriptor copying count bytes, one per
// request.
func byteCopy(src, dst uint32, count int) Descriptor {
	return Descriptor{
		Kind:      Transfer,
		XferCount: uint16(count - 1),
		BlockSize: Unit1,
		ReqMode:   BlockRequest,
		SrcInc:    IncOne,
		Size:      SizeByte,
		DstInc:    IncOne,
		SrcAddr:   src,
		DstAddr:   dst,
	}
}
