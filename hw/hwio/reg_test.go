package hwio

import "testing"

func TestReg32(t *testing.T) {
	r := Reg32{Value: 0x11223344, RoMask: 0xFFFF0000}

	if got := r.Read32(0); got != 0x11223344 {
		t.Errorf("invalid read: %x", got)
	}

	r.Write32(0, 0xAABBCCDD)
	if r.Value != 0x1122CCDD {
		t.Errorf("writemask not respected: %x", r.Value)
	}

	var old, val uint32
	r.WriteCb = func(o, v uint32) { old, val = o, v }
	r.Write32(0, 0x0)
	if old != 0x1122CCDD || val != 0x11220000 {
		t.Errorf("WriteCb(%x, %x), want WriteCb(1122ccdd, 11220000)", old, val)
	}
}

func TestReg32Flags(t *testing.T) {
	ro := Reg32{Value: 0x55, Flags: ReadOnlyFlag}
	ro.Write32(0, 0xAA)
	if ro.Value != 0x55 {
		t.Errorf("readonly reg written: %x", ro.Value)
	}

	wo := Reg32{Value: 0x55, Flags: WriteOnlyFlag}
	if got := wo.Read32(0); got != 0 {
		t.Errorf("writeonly reg read = %x, want 0", got)
	}
	if got := wo.Peek32(); got != 0x55 {
		t.Errorf("writeonly reg peek = %x, want 55", got)
	}

	cb := Reg32{Value: 0x1, ReadCb: func(val uint32) uint32 { return val << 4 }}
	if got := cb.Read32(0); got != 0x10 {
		t.Errorf("ReadCb not called: %x", got)
	}
}

func TestBitops(t *testing.T) {
	var v uint32
	SetBits32(&v, 4, 11, 0x7FF)
	if v != 0x7FF0 {
		t.Errorf("SetBits32 = %x, want 7ff0", v)
	}
	SetBits32(&v, 4, 11, 0xFFFF)
	if v != 0x7FF0 {
		t.Errorf("SetBits32 overflowed: %x", v)
	}
	if got := Bits32(v, 8, 4); got != 0xF {
		t.Errorf("Bits32 = %x, want f", got)
	}
	ClearBit32(&v, 4)
	if GetBit32(v, 4) {
		t.Errorf("bit 4 still set")
	}
	if got := Bool32(true, 31); got != 0x80000000 {
		t.Errorf("Bool32 = %x", got)
	}
}
