package ldma

import (
	"ldmasim/emu/log"
	"ldmasim/hw/hwdefs"
)

// Interrupts holds the level of the controller interrupt outputs. Outputs a
// family doesn't wire out always read low.
type Interrupts struct {
	Wide     bool
	Channels hwdefs.IRQLines
}

func (irq Interrupts) String() string {
	s := "wide=0"
	if irq.Wide {
		s = "wide=1"
	}
	return s + " ch=" + irq.Channels.String()
}

// IRQ returns the current level of the interrupt outputs.
func (c *Controller) IRQ() Interrupts {
	return c.irq
}

// SetIRQHandler registers the function called each time an interrupt output
// changes level.
func (c *Controller) SetIRQHandler(fn func(Interrupts)) {
	c.irqHandler = fn
}

func (c *Controller) updateIRQ() {
	var lines hwdefs.IRQLines
	for _, ch := range c.channels {
		if ch.IRQ() {
			lines |= 1 << ch.idx
		}
	}

	var irq Interrupts
	if c.family.IRQ&hwdefs.WideIRQ != 0 {
		irq.Wide = lines != 0
	}
	if c.family.IRQ&hwdefs.ChannelIRQs != 0 {
		irq.Channels = lines
	}
	if irq == c.irq {
		return
	}

	log.ModIRQ.DebugZ("interrupts changed").
		Stringer("from", c.irq).
		Stringer("to", irq).
		End()

	c.irq = irq
	if c.irqHandler != nil {
		c.irqHandler(irq)
	}
}
