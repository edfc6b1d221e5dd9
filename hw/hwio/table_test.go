package hwio_test

import (
	"testing"

	"ldmasim/hw/hwio"
)

type testTable struct {
	t testing.TB
	*hwio.Table

	REG0   hwio.Reg32
	REG1   hwio.Reg32
	STATUS hwio.Reg32

	writes int
}

func newTestTable(tb testing.TB, alias hwio.AliasMode) *testTable {
	tbl := &testTable{t: tb, Table: hwio.NewTable("regs", 0x4000, alias)}
	tbl.REG0 = hwio.Reg32{Name: "REG0", Reset: 0x12345678}
	tbl.REG1 = hwio.Reg32{Name: "REG1", RoMask: 0xFF000000, WriteCb: tbl.WriteREG1}
	tbl.STATUS = hwio.Reg32{Name: "STATUS", Flags: hwio.ReadOnlyFlag, ReadCb: func(uint32) uint32 { return 0xC0DE }}
	tbl.MapReg32(0x0, &tbl.REG0)
	tbl.MapReg32(0x4, &tbl.REG1)
	tbl.MapReg32(0x8, &tbl.STATUS)
	tbl.Reset()
	return tbl
}

func (tbl *testTable) WriteREG1(old, val uint32) { tbl.writes++ }

func (tbl *testTable) wantRead32(addr uint32, want uint32) {
	tbl.t.Helper()

	if got := tbl.Read32(addr, false); got != want {
		tbl.t.Errorf("Read32(%04X) = %08X, want %08X", addr, got, want)
	}
}

func TestTable(t *testing.T) {
	tbl := newTestTable(t, hwio.NoAlias)

	tbl.wantRead32(0x0, 0x12345678)
	tbl.Write32(0x0, 0xCAFEBABE)
	tbl.wantRead32(0x0, 0xCAFEBABE)

	tbl.Write32(0x4, 0xFFFFFFFF)
	tbl.wantRead32(0x4, 0x00FFFFFF)

	tbl.Write32(0x8, 0xFFFFFFFF)
	tbl.wantRead32(0x8, 0xC0DE)

	// Unmapped.
	tbl.wantRead32(0x10, 0)

	// No aliasing: the set bank is just another (unmapped) offset.
	tbl.Write32(0x1000, 0xFFFFFFFF)
	tbl.wantRead32(0x0, 0xCAFEBABE)

	tbl.Reset()
	tbl.wantRead32(0x0, 0x12345678)
	tbl.wantRead32(0x4, 0)
}

func TestTableAliasing(t *testing.T) {
	const O, V = 0xF0F0_1234, 0x0FF0_00FF

	tests := []struct {
		name string
		bank uint32
		want uint32
	}{
		{"direct", 0, V},
		{"set", hwio.SetBank, O | V},
		{"clear", hwio.ClearBank, O &^ V},
		{"toggle", hwio.ToggleBank, O ^ V},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newTestTable(t, hwio.SetClearToggle)
			tbl.Write32(0x0, O)

			tbl.Write32(tt.bank+0x0, V)
			tbl.wantRead32(0x0, tt.want)

			// Reads through any alias see the register.
			for _, bank := range []uint32{hwio.SetBank, hwio.ClearBank, hwio.ToggleBank} {
				tbl.wantRead32(bank, tt.want)
			}
		})
	}
}

func TestTableAliasingSingleWrite(t *testing.T) {
	tbl := newTestTable(t, hwio.SetClearToggle)

	tbl.Write32(hwio.SetBank+0x4, 0x0000FFFF)
	tbl.Write32(hwio.ClearBank+0x4, 0x000000FF)
	tbl.Write32(hwio.ToggleBank+0x4, 0x00FF0000)

	tbl.wantRead32(0x4, 0x00FFFF00)
	if tbl.writes != 3 {
		t.Errorf("WriteCb called %d times, want 3", tbl.writes)
	}
}
