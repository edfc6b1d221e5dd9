package ldma

import (
	"ldmasim/hw/hwdefs"
	"ldmasim/hw/hwio"
)

// EFR32MG12 request sources.
const (
	mg12None     = 0x00
	mg12PRS      = 0x01
	mg12ADC0     = 0x08
	mg12VDAC0    = 0x0A
	mg12USART0   = 0x0C
	mg12USART1   = 0x0D
	mg12USART2   = 0x0E
	mg12USART3   = 0x0F
	mg12LEUART0  = 0x10
	mg12I2C0     = 0x14
	mg12I2C1     = 0x15
	mg12TIMER0   = 0x18
	mg12TIMER1   = 0x19
	mg12WTIMER0  = 0x1A
	mg12WTIMER1  = 0x1B
	mg12PROTIMER = 0x24
	mg12MODEM    = 0x26
	mg12AGC      = 0x27
	mg12MSC      = 0x30
	mg12CRYPTO0  = 0x31
	mg12CSEN     = 0x32
	mg12LESENSE  = 0x33
	mg12CRYPTO1  = 0x34
)

// EFR32MG12 is the series 1 LDMA: a single register region, no aliasing,
// request selects in the channel registers.
var EFR32MG12 = &Family{
	Name:        "efr32mg12",
	Description: "EFR32MG12 (series 1)",
	Channels:    8,
	IRQ:         hwdefs.WideIRQ,
	Alias:       hwio.NoAlias,

	Sources: []Source{
		{"NONE", mg12None},
		{"PRS", mg12PRS},
		{"ADC0", mg12ADC0},
		{"VDAC0", mg12VDAC0},
		{"USART0", mg12USART0},
		{"USART1", mg12USART1},
		{"USART2", mg12USART2},
		{"USART3", mg12USART3},
		{"LEUART0", mg12LEUART0},
		{"I2C0", mg12I2C0},
		{"I2C1", mg12I2C1},
		{"TIMER0", mg12TIMER0},
		{"TIMER1", mg12TIMER1},
		{"WTIMER0", mg12WTIMER0},
		{"WTIMER1", mg12WTIMER1},
		{"PROTIMER", mg12PROTIMER},
		{"MODEM", mg12MODEM},
		{"AGC", mg12AGC},
		{"MSC", mg12MSC},
		{"CRYPTO0", mg12CRYPTO0},
		{"CSEN", mg12CSEN},
		{"LESENSE", mg12LESENSE},
		{"CRYPTO1", mg12CRYPTO1},
	},

	Pull: NewPullTable(
		PullRule{Sources: sources(mg12None), Signals: signals(AnySignal)},
		PullRule{Sources: sources(mg12PRS, mg12ADC0, mg12VDAC0, mg12CSEN), Signals: signals(0, 1)},
		// RXDATAV, TXBL, TXEMPTY
		PullRule{Sources: sources(mg12USART0, mg12USART2, mg12LEUART0), Signals: signals(0)},
		PullRule{Sources: sources(mg12USART0, mg12USART2, mg12LEUART0), Signals: signals(1, 2), Pull: true},
		// RXDATAV, TXBL, TXEMPTY, RXDATAVRIGHT, TXBLRIGHT
		PullRule{Sources: sources(mg12USART1, mg12USART3), Signals: signals(0, 3)},
		PullRule{Sources: sources(mg12USART1, mg12USART3), Signals: signals(1, 2, 4), Pull: true},
		// RXDATAV, TXBL
		PullRule{Sources: sources(mg12I2C0, mg12I2C1), Signals: signals(0)},
		PullRule{Sources: sources(mg12I2C0, mg12I2C1), Signals: signals(1), Pull: true},
		PullRule{Sources: sources(mg12TIMER0, mg12WTIMER0), Signals: signals(0, 1, 2, 3)},
		PullRule{Sources: sources(mg12TIMER1, mg12WTIMER1), Signals: signals(0, 1, 2, 3, 4)},
		PullRule{Sources: sources(mg12PROTIMER), Signals: signals(0, 1, 2, 3, 4, 5, 6, 7)},
		PullRule{Sources: sources(mg12MODEM, mg12AGC, mg12MSC, mg12LESENSE), Signals: signals(0)},
		PullRule{Sources: sources(mg12CRYPTO0, mg12CRYPTO1), Signals: signals(0, 1, 2, 3, 4)},
	),

	size: 0x400,
	global: []regDef{
		{name: "CTRL", off: 0x000},
		{name: "STATUS", off: 0x004},
		{name: "SYNC", off: 0x008},
		{name: "CHEN", off: 0x020, kind: regChEnable},
		{name: "CHBUSY", off: 0x024, kind: regChBusy},
		{name: "CHDONE", off: 0x028, kind: regChDone},
		{name: "DBGHALT", off: 0x02C},
		{name: "SWREQ", off: 0x030, kind: regSwReq},
		{name: "REQDIS", off: 0x034, kind: regReqDisable},
		{name: "REQPEND", off: 0x038},
		{name: "LINKLOAD", off: 0x03C, kind: regLinkLoad},
		{name: "REQCLEAR", off: 0x040},
		{name: "IF", off: 0x060, kind: regIFReadOnly},
		{name: "IFS", off: 0x064, kind: regIFSet},
		{name: "IFC", off: 0x068, kind: regIFClear},
		{name: "IEN", off: 0x06C, kind: regIEN},
	},
	chanBase:   0x080,
	chanStride: 0x30,
	channel: []regDef{
		{name: "REQSEL", off: 0x00, kind: regReqSel},
		{name: "CFG", off: 0x04, kind: regCfg},
		{name: "LOOP", off: 0x08, kind: regLoop},
		{name: "CTRL", off: 0x0C, kind: regCtrl},
		{name: "SRC", off: 0x10, kind: regSrc},
		{name: "DST", off: 0x14, kind: regDst},
		{name: "LINK", off: 0x18, kind: regLink},
	},
}
