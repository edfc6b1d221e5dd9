package ldma

import (
	"ldmasim/hw/hwdefs"
	"ldmasim/hw/hwio"
)

// LDMA 3.3 request sources.
const (
	l33None     = 0x00
	l33LDMAXBAR = 0x01
	l33TIMER0   = 0x02
	l33TIMER1   = 0x03
	l33I2C0     = 0x04
	l33I2C1     = 0x05
	l33TIMER2   = 0x06
	l33TIMER3   = 0x07
	l33EUSART1  = 0x08
	l33EUSART0  = 0x09
	l33AGC      = 0x0A
	l33PROTIMER = 0x0B
	l33MODEM    = 0x0C
	l33ADC      = 0x0D
	l33PIXELRZ0 = 0x0E
	l33EUSART2  = 0x0F
	l33PIXELRZ1 = 0x10
	l33I2C2     = 0x11
)

// LDMA33 is the 3.3 revision of the IP: aliased registers, one interrupt
// line per channel, extended descriptor words and a software reset.
//
// AGC, PROTIMER, MODEM, ADC and PIXELRZ requests aren't classified: binding a
// channel to one of them is reported as an invalid pair.
var LDMA33 = &Family{
	Name:        "ldma33",
	Description: "LDMA 3.3",
	Channels:    8,
	IRQ:         hwdefs.ChannelIRQs,
	Alias:       hwio.SetClearToggle,

	Sources: []Source{
		{"NONE", l33None},
		{"LDMAXBAR", l33LDMAXBAR},
		{"TIMER0", l33TIMER0},
		{"TIMER1", l33TIMER1},
		{"I2C0", l33I2C0},
		{"I2C1", l33I2C1},
		{"TIMER2", l33TIMER2},
		{"TIMER3", l33TIMER3},
		{"EUSART1", l33EUSART1},
		{"EUSART0", l33EUSART0},
		{"AGC", l33AGC},
		{"PROTIMER", l33PROTIMER},
		{"MODEM", l33MODEM},
		{"ADC", l33ADC},
		{"PIXELRZ0", l33PIXELRZ0},
		{"EUSART2", l33EUSART2},
		{"PIXELRZ1", l33PIXELRZ1},
		{"I2C2", l33I2C2},
	},

	Pull: NewPullTable(
		PullRule{Sources: sources(l33None), Signals: signals(AnySignal)},
		PullRule{Sources: sources(l33LDMAXBAR), Signals: signals(0, 1)},
		// RXFL, TXFL
		PullRule{Sources: sources(l33EUSART0, l33EUSART1, l33EUSART2), Signals: signals(0)},
		PullRule{Sources: sources(l33EUSART0, l33EUSART1, l33EUSART2), Signals: signals(1), Pull: true},
		PullRule{Sources: sources(l33I2C0, l33I2C1, l33I2C2), Signals: signals(0)},
		PullRule{Sources: sources(l33I2C0, l33I2C1, l33I2C2), Signals: signals(1), Pull: true},
		PullRule{Sources: sources(l33TIMER0, l33TIMER1, l33TIMER2, l33TIMER3), Signals: signals(0, 1, 2, 3)},
	),

	size: 0x4000,
	global: []regDef{
		{name: "IPVERSION", off: 0x00, readOnly: true},
		{name: "EN", off: 0x04},
		{name: "SWRST", off: 0x08, kind: regSoftReset},
		{name: "CTRL", off: 0x0C, reset: 0x1E000000},
		{name: "STATUS", off: 0x10},
		{name: "SYNCSWSET", off: 0x14},
		{name: "SYNCSWCLR", off: 0x18},
		{name: "SYNCHWEN", off: 0x1C},
		{name: "SYNCHWSEL", off: 0x20},
		{name: "SYNCSTATUS", off: 0x24},
		{name: "CHEN", off: 0x28, kind: regChEnableSet},
		{name: "CHDIS", off: 0x2C, kind: regChDisable},
		{name: "CHSTATUS", off: 0x30, kind: regChStatus},
		{name: "CHBUSY", off: 0x34, kind: regChBusy},
		{name: "CHDONE", off: 0x38, kind: regChDone},
		{name: "DBGHALT", off: 0x3C},
		{name: "SWREQ", off: 0x40, kind: regSwReq},
		{name: "REQDIS", off: 0x44, kind: regReqDisable},
		{name: "REQPEND", off: 0x48},
		{name: "LINKLOAD", off: 0x4C, kind: regLinkLoad},
		{name: "REQCLEAR", off: 0x50},
		{name: "IF", off: 0x54, kind: regIF},
		{name: "IEN", off: 0x58, kind: regIEN},
		{name: "REQABORT", off: 0x5C},
		{name: "ABORTSTATUS", off: 0x60},
	},
	chanBase:   0x70,
	chanStride: 0x30,
	channel: append(series2Channel[:len(series2Channel):len(series2Channel)],
		regDef{name: "XCTRL", off: 0x18, kind: regXCtrl},
		regDef{name: "DUALDST", off: 0x1C, kind: regDualDst},
		regDef{name: "ILSRC", off: 0x20, kind: regILSrc},
	),

	xbarSize:   0x4000,
	xbar:       []regDef{{name: "IPVERSION", off: 0x00, readOnly: true}},
	reqSelBase: 0x04,
}
