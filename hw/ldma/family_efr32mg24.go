package ldma

import (
	"ldmasim/hw/hwdefs"
	"ldmasim/hw/hwio"
)

// EFR32MG24 request sources.
const (
	mg24None     = 0x00
	mg24LDMAXBAR = 0x01
	mg24TIMER0   = 0x02
	mg24TIMER1   = 0x03
	mg24USART0   = 0x04
	mg24I2C0     = 0x05
	mg24I2C1     = 0x06
	mg24IADC0    = 0x0A
	mg24MSC      = 0x0B
	mg24TIMER2   = 0x0C
	mg24TIMER3   = 0x0D
	mg24TIMER4   = 0x0E
	mg24EUSART0  = 0x0F
	mg24EUSART1  = 0x10
	mg24VDAC0    = 0x11
	mg24VDAC1    = 0x12
)

// EFR32MG24 has the series 2 layout without generic aliasing: only CHDONE
// and IF have dedicated set/clear registers, at their alias offsets.
var EFR32MG24 = &Family{
	Name:        "efr32mg24",
	Description: "EFR32MG24 (series 2)",
	Channels:    8,
	IRQ:         hwdefs.WideIRQ,
	Alias:       hwio.NoAlias,

	Sources: []Source{
		{"NONE", mg24None},
		{"LDMAXBAR", mg24LDMAXBAR},
		{"TIMER0", mg24TIMER0},
		{"TIMER1", mg24TIMER1},
		{"USART0", mg24USART0},
		{"I2C0", mg24I2C0},
		{"I2C1", mg24I2C1},
		{"IADC0", mg24IADC0},
		{"MSC", mg24MSC},
		{"TIMER2", mg24TIMER2},
		{"TIMER3", mg24TIMER3},
		{"TIMER4", mg24TIMER4},
		{"EUSART0", mg24EUSART0},
		{"EUSART1", mg24EUSART1},
		{"VDAC0", mg24VDAC0},
		{"VDAC1", mg24VDAC1},
	},

	Pull: NewPullTable(
		PullRule{Sources: sources(mg24None), Signals: signals(AnySignal)},
		PullRule{Sources: sources(mg24LDMAXBAR, mg24IADC0, mg24VDAC0, mg24VDAC1), Signals: signals(0, 1)},
		// RXDATAV, RXDATAVRIGHT, TXBL, TXBLRIGHT, TXEMPTY
		PullRule{Sources: sources(mg24USART0), Signals: signals(0)},
		PullRule{Sources: sources(mg24USART0), Signals: signals(2, 4), Pull: true},
		// RXFL, TXFL
		PullRule{Sources: sources(mg24EUSART0, mg24EUSART1), Signals: signals(0)},
		PullRule{Sources: sources(mg24EUSART0, mg24EUSART1), Signals: signals(1), Pull: true},
		PullRule{Sources: sources(mg24I2C0, mg24I2C1), Signals: signals(0)},
		PullRule{Sources: sources(mg24I2C0, mg24I2C1), Signals: signals(1), Pull: true},
		PullRule{Sources: sources(mg24TIMER0, mg24TIMER1, mg24TIMER2, mg24TIMER3, mg24TIMER4), Signals: signals(0, 1, 2, 3)},
		PullRule{Sources: sources(mg24MSC), Signals: signals(0)},
	),

	size: 0x4000,
	global: append(series2Globals(regChEnable),
		regDef{name: "IF_SET", off: hwio.SetBank + 0x50, kind: regIFSet},
		regDef{name: "CHDONE_CLR", off: hwio.ClearBank + 0x34, kind: regChDoneClear},
		regDef{name: "IF_CLR", off: hwio.ClearBank + 0x50, kind: regIFClear},
	),
	chanBase:   0x5C,
	chanStride: 0x30,
	channel:    series2Channel,

	xbarSize:   0x4000,
	xbar:       []regDef{{name: "IPVERSION", off: 0x00, readOnly: true}},
	reqSelBase: 0x04,
}
