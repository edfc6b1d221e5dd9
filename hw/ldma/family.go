package ldma

import (
	"fmt"
	"strings"

	"ldmasim/hw/hwdefs"
	"ldmasim/hw/hwio"
)

// Source is a request line source, as selected by REQSEL.SOURCESEL.
type Source struct {
	Name   string
	Number uint8
}

type regKind uint8

const (
	regStorage regKind = iota

	// controller-wide, one bit per channel
	regChEnable    // read/write enables
	regChEnableSet // write 1 to enable
	regChDisable   // write 1 to disable
	regChStatus    // enabled, read-only
	regChBusy      // in progress, read-only
	regChDone      // read/write done
	regChDoneClear // write 1 to clear done
	regSwReq       // write 1 to request
	regReqDisable  // read/write request disable
	regLinkLoad    // write 1 to link-load
	regIF          // read/write done interrupt flags
	regIFReadOnly  // done interrupt flags, read-only
	regIFSet       // write 1 to set interrupt flags
	regIFClear     // write 1 to clear interrupt flags
	regIEN         // read/write interrupt enables
	regSoftReset   // write 1 to reset the controller

	// per channel
	regReqSel
	regCfg
	regLoop
	regCtrl
	regSrc
	regDst
	regLink
	regXCtrl
	regDualDst
	regILSrc
)

type regDef struct {
	name     string
	off      uint32
	kind     regKind
	reset    uint32
	readOnly bool
}

// A Family describes a controller variant: its register layout, interrupt
// wiring and request line tables. Families are static data; a single engine
// serves them all.
type Family struct {
	Name        string
	Description string
	Channels    int
	IRQ         hwdefs.IRQWiring
	Alias       hwio.AliasMode

	Sources []Source
	Pull    *PullTable

	// LDMA register region
	size       uint32
	global     []regDef
	chanBase   uint32
	chanStride uint32
	channel    []regDef

	// LDMAXBAR register region, if any, else request selects are part of
	// the channel registers.
	xbarSize   uint32
	xbar       []regDef
	reqSelBase uint32
}

// RegionSize returns the size of the LDMA register region.
func (f *Family) RegionSize() uint32 { return f.size }

// XbarSize returns the size of the crossbar register region, 0 if the family
// has none.
func (f *Family) XbarSize() uint32 { return f.xbarSize }

func (f *Family) channelMask() uint32 {
	return uint32(1)<<f.Channels - 1
}

// SourceByName returns the number of the source with the given name, case
// insensitive.
func (f *Family) SourceByName(name string) (uint8, bool) {
	for _, src := range f.Sources {
		if strings.EqualFold(src.Name, name) {
			return src.Number, true
		}
	}
	return 0, false
}

// SourceName returns the name of the source with number n.
func (f *Family) SourceName(n uint8) string {
	for _, src := range f.Sources {
		if src.Number == n {
			return src.Name
		}
	}
	return fmt.Sprintf("%#02x", n)
}

func (f *Family) String() string { return f.Name }

// Families lists all supported families.
var Families = []*Family{
	EFR32MG12,
	EFR32xG22,
	EFR32MG24,
	LDMA33,
}

// FamilyByName returns the family with the given name, case insensitive.
func FamilyByName(name string) (*Family, error) {
	for _, f := range Families {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	names := make([]string, len(Families))
	for i, f := range Families {
		names[i] = f.Name
	}
	return nil, fmt.Errorf("unknown family %q (want one of %s)", name, strings.Join(names, ", "))
}

// Registers shared by the series 2 parts.
func series2Globals(chen regKind) []regDef {
	return []regDef{
		{name: "IPVERSION", off: 0x00, readOnly: true},
		{name: "EN", off: 0x04},
		{name: "CTRL", off: 0x08},
		{name: "STATUS", off: 0x0C},
		{name: "SYNCSWSET", off: 0x10},
		{name: "SYNCSWCLR", off: 0x14},
		{name: "SYNCHWEN", off: 0x18},
		{name: "SYNCHWSEL", off: 0x1C},
		{name: "SYNCSTATUS", off: 0x20},
		{name: "CHEN", off: 0x24, kind: chen},
		{name: "CHDIS", off: 0x28, kind: regChDisable},
		{name: "CHSTATUS", off: 0x2C, kind: regChStatus},
		{name: "CHBUSY", off: 0x30, kind: regChBusy},
		{name: "CHDONE", off: 0x34, kind: regChDone},
		{name: "DBGHALT", off: 0x38},
		{name: "SWREQ", off: 0x3C, kind: regSwReq},
		{name: "REQDIS", off: 0x40, kind: regReqDisable},
		{name: "REQPEND", off: 0x44},
		{name: "LINKLOAD", off: 0x48, kind: regLinkLoad},
		{name: "REQCLEAR", off: 0x4C},
		{name: "IF", off: 0x50, kind: regIF},
		{name: "IEN", off: 0x54, kind: regIEN},
	}
}

var series2Channel = []regDef{
	{name: "CFG", off: 0x00, kind: regCfg},
	{name: "LOOP", off: 0x04, kind: regLoop},
	{name: "CTRL", off: 0x08, kind: regCtrl},
	{name: "SRC", off: 0x0C, kind: regSrc},
	{name: "DST", off: 0x10, kind: regDst},
	{name: "LINK", off: 0x14, kind: regLink},
}
