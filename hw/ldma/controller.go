// Package ldma models the linked-descriptor DMA controllers (LDMA) found in
// EFR32 parts: channels executing chains of in-memory descriptors, started by
// software or by peripheral request lines routed through a crossbar.
//
// The model runs in virtual time. Every minor transfer completes atomically;
// the only scheduled activity is the pull timer of channels bound to
// level-sensitive request lines.
package ldma

import (
	"github.com/sarchlab/akita/v4/sim"

	"ldmasim/emu/log"
	"ldmasim/hw/clock"
	"ldmasim/hw/dmaengine"
	"ldmasim/hw/hwio"
)

// Bus is the system bus, as seen by the controller.
type Bus interface {
	dmaengine.Bus
	ReadBytes(addr uint32, n int) []byte
	WriteBytes(addr uint32, data []byte)
}

type Options struct {
	// Flush the live descriptor to its load address before loading the next
	// one in a chain. On by default.
	WriteBack bool

	// Pull timer frequency and limit.
	PullFreq  sim.Freq
	PullLimit int
}

// DefaultOptions returns the options matching the hardware: descriptors are
// written back and a pull happens every 15 ticks of a 1MHz clock.
func DefaultOptions() Options {
	return Options{
		WriteBack: true,
		PullFreq:  1 * sim.MHz,
		PullLimit: 15,
	}
}

// TransferEvent describes a minor transfer, as reported to a Tracer.
type TransferEvent struct {
	Time    sim.VTimeInSec
	Channel int
	dmaengine.Request
}

// Tracer receives every minor transfer performed by the controller.
type Tracer interface {
	TraceTransfer(TransferEvent)
}

type Controller struct {
	family *Family
	opts   Options

	bus    Bus
	clk    *clock.Clock
	engine *dmaengine.Engine

	channels []*Channel
	xbar     crossbar

	irq        Interrupts
	irqHandler func(Interrupts)

	tracer Tracer
	active *Channel // channel issuing the current copy

	regs     *hwio.Table
	xbarRegs *hwio.Table
}

// New creates a controller of the given family, in its reset state.
func New(family *Family, bus Bus, clk *clock.Clock, opts Options) *Controller {
	if opts.PullFreq == 0 || opts.PullLimit <= 0 {
		def := DefaultOptions()
		opts.PullFreq, opts.PullLimit = def.PullFreq, def.PullLimit
	}

	c := &Controller{
		family: family,
		opts:   opts,
		bus:    bus,
		clk:    clk,
		engine: dmaengine.New(bus),
	}
	c.channels = make([]*Channel, family.Channels)
	for i := range c.channels {
		c.channels[i] = newChannel(c, i)
	}
	c.buildRegs()
	c.Reset()
	return c
}

func (c *Controller) Family() *Family { return c.family }

func (c *Controller) Options() Options { return c.opts }

// Now returns the current virtual time.
func (c *Controller) Now() sim.VTimeInSec { return c.clk.Now() }

// Channel returns the i-th channel.
func (c *Controller) Channel(i int) *Channel { return c.channels[i] }

// Channels returns all channels, by index.
func (c *Controller) Channels() []*Channel { return c.channels }

// Regs returns the LDMA register region.
func (c *Controller) Regs() *hwio.Table { return c.regs }

// XbarRegs returns the crossbar register region, nil if the family has
// request selects in the LDMA region.
func (c *Controller) XbarRegs() *hwio.Table { return c.xbarRegs }

// SetTracer sets (or removes, if nil) the transfer tracer.
func (c *Controller) SetTracer(t Tracer) {
	c.tracer = t
	if t == nil {
		c.engine.SetTracer(nil)
		return
	}
	c.engine.SetTracer(c)
}

// Reset brings the controller and all channels to their reset state.
func (c *Controller) Reset() {
	log.ModDMA.InfoZ("reset").String("family", c.family.Name).End()

	c.xbar.reset()
	for _, ch := range c.channels {
		ch.reset()
	}
	c.regs.Reset()
	if c.xbarRegs != nil {
		c.xbarRegs.Reset()
	}
	c.updateIRQ()
}

func (c *Controller) issueCopy(ch *Channel, req dmaengine.Request) {
	// Copies can nest: a bus access may assert a request line bound to
	// another channel.
	prev := c.active
	c.active = ch
	c.engine.IssueCopy(req)
	c.active = prev
}

// TraceCopy implements dmaengine.Tracer.
func (c *Controller) TraceCopy(req dmaengine.Request) {
	if c.tracer == nil || c.active == nil {
		return
	}
	c.tracer.TraceTransfer(TransferEvent{
		Time:    c.clk.Now(),
		Channel: c.active.idx,
		Request: req,
	})
}
