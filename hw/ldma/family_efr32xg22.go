package ldma

import (
	"ldmasim/hw/hwdefs"
	"ldmasim/hw/hwio"
)

// EFR32xG22 request sources.
const (
	xg22None     = 0x00
	xg22LDMAXBAR = 0x01
	xg22TIMER0   = 0x02
	xg22TIMER1   = 0x03
	xg22USART0   = 0x04
	xg22USART1   = 0x05
	xg22I2C0     = 0x06
	xg22I2C1     = 0x07
	xg22IADC0    = 0x0B
	xg22MSC      = 0x0C
	xg22TIMER2   = 0x0D
	xg22TIMER3   = 0x0E
	xg22PDM      = 0x0F
	xg22EUART0   = 0x10
	xg22TIMER4   = 0x11
)

// EFR32xG22 is the first series 2 LDMA: set/clear/toggle aliased registers,
// request selects in a separate crossbar region, write-1 channel enables.
var EFR32xG22 = &Family{
	Name:        "efr32xg22",
	Description: "EFR32xG22 (series 2)",
	Channels:    8,
	IRQ:         hwdefs.WideIRQ,
	Alias:       hwio.SetClearToggle,

	Sources: []Source{
		{"NONE", xg22None},
		{"LDMAXBAR", xg22LDMAXBAR},
		{"TIMER0", xg22TIMER0},
		{"TIMER1", xg22TIMER1},
		{"USART0", xg22USART0},
		{"USART1", xg22USART1},
		{"I2C0", xg22I2C0},
		{"I2C1", xg22I2C1},
		{"IADC0", xg22IADC0},
		{"MSC", xg22MSC},
		{"TIMER2", xg22TIMER2},
		{"TIMER3", xg22TIMER3},
		{"PDM", xg22PDM},
		{"EUART0", xg22EUART0},
		{"TIMER4", xg22TIMER4},
	},

	Pull: NewPullTable(
		PullRule{Sources: sources(xg22None), Signals: signals(AnySignal)},
		PullRule{Sources: sources(xg22LDMAXBAR, xg22IADC0), Signals: signals(0, 1)},
		// RXDATAV, RXDATAVRIGHT, TXBL, TXBLRIGHT, TXEMPTY
		PullRule{Sources: sources(xg22USART0, xg22USART1), Signals: signals(0)},
		PullRule{Sources: sources(xg22USART0, xg22USART1), Signals: signals(2, 4), Pull: true},
		// RXFL, TXFL
		PullRule{Sources: sources(xg22EUART0), Signals: signals(0)},
		PullRule{Sources: sources(xg22EUART0), Signals: signals(1), Pull: true},
		PullRule{Sources: sources(xg22I2C0, xg22I2C1), Signals: signals(0)},
		PullRule{Sources: sources(xg22I2C0, xg22I2C1), Signals: signals(1), Pull: true},
		PullRule{Sources: sources(xg22TIMER0, xg22TIMER1, xg22TIMER2, xg22TIMER3, xg22TIMER4), Signals: signals(0, 1, 2, 3)},
		PullRule{Sources: sources(xg22MSC), Signals: signals(0)},
	),

	size:       0x4000,
	global:     series2Globals(regChEnableSet),
	chanBase:   0x5C,
	chanStride: 0x30,
	channel:    series2Channel,

	xbarSize:   0x4000,
	reqSelBase: 0x00,
}
