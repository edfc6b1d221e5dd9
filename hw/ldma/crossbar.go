package ldma

import (
	"fmt"

	"ldmasim/emu/log"
	"ldmasim/hw/hwio"
)

// Signal identifies a peripheral request line, as routed by the crossbar.
//
//	0-3   signal number
//	4-9   source
//	12    single request
type Signal uint16

const (
	sigNumberMask = 0xF
	sigSourcePos  = 4
	sigSourceMask = 0x3F
	sigSingleBit  = 12

	signalMask = hwio.NumBits - 1
)

func MakeSignal(source, number uint8, single bool) Signal {
	s := Signal(source&sigSourceMask)<<sigSourcePos | Signal(number&sigNumberMask)
	if single {
		s |= 1 << sigSingleBit
	}
	return s
}

func (s Signal) Number() uint8 { return uint8(s & sigNumberMask) }
func (s Signal) Source() uint8 { return uint8(s>>sigSourcePos) & sigSourceMask }
func (s Signal) Single() bool  { return s&(1<<sigSingleBit) != 0 }

func (s Signal) String() string {
	str := fmt.Sprintf("0x%02x:%d", s.Source(), s.Number())
	if s.Single() {
		str += "(single)"
	}
	return str
}

// crossbar holds the set of currently asserted request lines.
type crossbar struct {
	asserted hwio.Bitset
}

func (x *crossbar) set(s Signal, asserted bool) {
	s &= signalMask
	if asserted {
		x.asserted.Set(uint(s))
	} else {
		x.asserted.Clear(uint(s))
	}
}

// isOn reports whether the request line (source, number) is asserted, either
// as a burst request or, unless ignoreSingle is set, as a single request.
func (x *crossbar) isOn(source, number uint8, ignoreSingle bool) bool {
	burst := MakeSignal(source, number, false)
	if x.asserted.Test(uint(burst)) {
		return true
	}
	return !ignoreSingle && x.asserted.Test(uint(MakeSignal(source, number, true)))
}

// signals returns the asserted request lines, in increasing order.
func (x *crossbar) signals() []Signal {
	var sigs []Signal
	x.asserted.Each(func(i uint) { sigs = append(sigs, Signal(i)) })
	return sigs
}

func (x *crossbar) reset() {
	x.asserted.Reset()
}

// OnSignal is called by peripherals when a request line changes level. On
// assertion, every channel bound to the line is started, unless it ignores
// single requests and the request is single.
func (c *Controller) OnSignal(s Signal, asserted bool) {
	log.ModXbar.DebugZ("signal").
		Stringer("sig", s).
		Bool("on", asserted).
		End()

	c.xbar.set(s, asserted)
	if !asserted {
		return
	}
	for _, ch := range c.channels {
		if s.Single() && ch.desc.IgnoreSingleRequests {
			continue
		}
		if ch.source == s.Source() && ch.signal == s.Number() {
			ch.startFromSignal()
		}
	}
}

// Signals returns the currently asserted request lines.
func (c *Controller) Signals() []Signal {
	return c.xbar.signals()
}
