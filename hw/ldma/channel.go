package ldma

import (
	"strconv"

	"ldmasim/emu/log"
	"ldmasim/hw/clock"
	"ldmasim/hw/dmaengine"
)

//go:generate go tool stringer -type=State -output=channel_string.go

// State is the observable state of a channel.
type State uint8

const (
	Idle         State = iota // nothing to do, or disabled
	ArmedPulling              // pull timer armed, waiting for the next tick
	Active                    // inside an activation
	Done                      // the current descriptor has completed
)

// A Channel executes a chain of descriptors. Channels are created with their
// controller and never destroyed.
type Channel struct {
	ctrl *Controller
	idx  int

	desc     Descriptor
	descAddr uint32
	hasAddr  bool // descAddr holds the address of the last loaded descriptor

	enabled    bool
	done       bool
	reqDisable bool
	doneIF     bool
	doneIEN    bool
	inProgress bool

	// request select
	source uint8
	signal uint8

	// configuration, stored only
	arbSlots   uint8
	srcIncSign bool
	dstIncSign bool
	loop       uint8

	pull *clock.Timer
}

func newChannel(ctrl *Controller, idx int) *Channel {
	ch := &Channel{ctrl: ctrl, idx: idx}
	ch.pull = clock.NewTimer(ctrl.clk, "pull"+strconv.Itoa(idx), ctrl.opts.PullFreq, ctrl.opts.PullLimit, ch.pullTick)
	return ch
}

func (ch *Channel) Index() int { return ch.idx }

// Descriptor returns a copy of the live descriptor.
func (ch *Channel) Descriptor() Descriptor { return ch.desc }

// DescriptorAddr returns the address of the last loaded descriptor, if any.
func (ch *Channel) DescriptorAddr() (uint32, bool) { return ch.descAddr, ch.hasAddr }

func (ch *Channel) Enabled() bool             { return ch.enabled }
func (ch *Channel) Done() bool                { return ch.done }
func (ch *Channel) Busy() bool                { return ch.inProgress }
func (ch *Channel) RequestDisable() bool      { return ch.reqDisable }
func (ch *Channel) DoneInterrupt() bool       { return ch.doneIF }
func (ch *Channel) DoneInterruptEnable() bool { return ch.doneIEN }

// IRQ returns the interrupt level of the channel.
func (ch *Channel) IRQ() bool { return ch.doneIF && ch.doneIEN }

// RequestSelect returns the request line the channel is bound to.
func (ch *Channel) RequestSelect() (source, signal uint8) { return ch.source, ch.signal }

func (ch *Channel) State() State {
	switch {
	case ch.inProgress:
		return Active
	case ch.done:
		return Done
	case ch.pull.Enabled():
		return ArmedPulling
	}
	return Idle
}

func (ch *Channel) reset() {
	ch.desc = Descriptor{}
	ch.pull.Reset()
	ch.doneIF = false
	ch.doneIEN = false
	ch.descAddr, ch.hasAddr = 0, false
	ch.reqDisable = false
	ch.enabled = false
	ch.done = false
	ch.inProgress = false
	ch.source, ch.signal = 0, 0
	ch.arbSlots, ch.srcIncSign, ch.dstIncSign = 0, false, false
	ch.loop = 0
}

// SetEnabled enables or disables the channel. Enabling clears done and starts
// the channel.
func (ch *Channel) SetEnabled(enabled bool) {
	if ch.enabled == enabled {
		return
	}
	ch.enabled = enabled
	log.ModDMA.DebugZ("channel enable").
		Int("ch", ch.idx).
		Bool("enabled", enabled).
		End()
	if !enabled {
		ch.pull.SetEnabled(false)
		return
	}
	ch.SetDone(false)
	ch.start()
}

// SetDone sets the done flag. The done interrupt is latched when done goes
// from false to true and the descriptor enables it.
func (ch *Channel) SetDone(done bool) {
	if !ch.done && done && ch.desc.DoneIEN {
		ch.doneIF = true
	}
	ch.done = done
}

// SetRequestDisable sets the request disable flag. Clearing it while the
// request line is asserted starts the channel.
func (ch *Channel) SetRequestDisable(disable bool) {
	old := ch.reqDisable
	ch.reqDisable = disable
	if old && !disable && ch.signalIsOn() {
		ch.startFromSignal()
	}
}

func (ch *Channel) SetDoneInterrupt(v bool)       { ch.doneIF = v }
func (ch *Channel) SetDoneInterruptEnable(v bool) { ch.doneIEN = v }

// SetRequestSelect binds the channel to a request line. The pull timer is
// armed if the line is pulled.
func (ch *Channel) SetRequestSelect(source, signal uint8) {
	ch.source, ch.signal = source, signal
	if ch.enabled && ch.shouldPull() {
		ch.pull.SetEnabled(true)
	}
}

// SoftwareRequest starts the channel, whatever the state of its request line
// and of the request disable flag.
func (ch *Channel) SoftwareRequest() {
	ch.start()
}

// LinkLoad loads the descriptor at the link address then, if the channel
// can be started right away, starts it.
func (ch *Channel) LinkLoad() {
	ch.loadDescriptor()
	if !ch.reqDisable && (ch.desc.AutoRequest || ch.signalIsOn()) {
		ch.start()
	}
}

func (ch *Channel) signalIsOn() bool {
	return ch.ctrl.xbar.isOn(ch.source, ch.signal, ch.desc.IgnoreSingleRequests)
}

func (ch *Channel) shouldPull() bool {
	pull, known := ch.ctrl.family.Pull.Classify(ch.source, ch.signal)
	if !known {
		log.ModXbar.ErrorZ("invalid source and signal pair").
			Int("ch", ch.idx).
			Hex8("source", ch.source).
			Hex8("signal", ch.signal).
			End()
	}
	return pull
}

// startFromSignal starts the channel on a request line edge. Disabled
// channels don't listen to their request line.
func (ch *Channel) startFromSignal() {
	if ch.enabled && !ch.reqDisable {
		ch.start()
	}
}

// start arms the pull timer when the request line is pulled, otherwise runs
// an activation right away.
func (ch *Channel) start() {
	if !ch.enabled {
		log.ModDMA.WarnZ("start request on disabled channel, ignored").
			Int("ch", ch.idx).
			End()
		return
	}
	if ch.shouldPull() {
		ch.pull.SetEnabled(true)
		return
	}
	ch.activate()
}

func (ch *Channel) pullTick() {
	if !ch.reqDisable && ch.enabled {
		ch.activate()
	}
	if !ch.enabled || !ch.signalIsOn() || !ch.shouldPull() {
		ch.pull.SetEnabled(false)
	}
}

// activate runs minor transfers, following links, until the channel has
// nothing left to do. Starts requested while an activation is in progress
// (by a peripheral reacting to a bus access, for example) are ignored.
func (ch *Channel) activate() {
	if ch.inProgress || ch.done {
		return
	}

	ch.inProgress = true
	for {
		loaded := false
		if !ch.transfer() {
			// Nothing moved and nothing will: don't spin on an asserted line.
			break
		}
		if ch.done && ch.desc.Link {
			ch.loadDescriptor()
			loaded = true
			ch.SetDone(false)
		}
		if !(ch.desc.AutoRequest && loaded) && (ch.done || !ch.signalIsOn()) {
			break
		}
	}
	ch.inProgress = false

	if ch.done {
		ch.pull.SetEnabled(false)
	}
}

// transfer runs a minor transfer. It returns false if the descriptor can't be
// executed.
func (ch *Channel) transfer() bool {
	d := &ch.desc
	switch d.Kind {
	case Transfer:
	case Synchronize, Write:
		log.ModDMA.WarnZ("structure type not implemented").
			Int("ch", ch.idx).
			Stringer("type", d.Kind).
			End()
		ch.ctrl.updateIRQ()
		return false
	default:
		log.ModDMA.ErrorZ("invalid structure type, no action performed").
			Int("ch", ch.idx).
			End()
		return false
	}

	width, ok := d.Width()
	if !ok {
		log.ModDMA.ErrorZ("reserved unit size, no action performed").
			Int("ch", ch.idx).
			End()
		return false
	}
	units, ok := d.units()
	if !ok {
		return false
	}

	log.ModDMA.DebugZ("transfer").
		Int("ch", ch.idx).
		Int("count", d.TransferCount()).
		Int("units", units).
		End()

	ch.ctrl.issueCopy(ch, dmaengine.Request{
		Source:          d.SrcAddr,
		Destination:     d.DstAddr,
		Size:            units * int(width),
		ReadWidth:       width,
		WriteWidth:      width,
		SourceStep:      d.SourceStep(),
		DestinationStep: d.DestinationStep(),
	})

	if d.ReqMode == BlockRequest {
		if units == d.TransferCount() {
			ch.SetDone(true)
			d.XferCount = 0
		} else {
			d.XferCount -= uint16(units)
		}
		d.SrcAddr += d.SourceStep() * uint32(units)
		d.DstAddr += d.DestinationStep() * uint32(units)
	} else {
		ch.SetDone(true)
	}
	ch.ctrl.updateIRQ()
	return true
}

// loadDescriptor fetches the descriptor at the link address, relative to the
// current one if the link is relative.
func (ch *Channel) loadDescriptor() {
	addr := ch.desc.LinkAddr << 2
	if ch.hasAddr && ch.desc.LinkMode == Relative {
		addr += ch.descAddr
	}

	if ch.ctrl.opts.WriteBack && ch.hasAddr {
		buf := ch.desc.Encode()
		ch.ctrl.bus.WriteBytes(ch.descAddr, buf[:])
	}

	var buf [DescriptorSize]byte
	copy(buf[:], ch.ctrl.bus.ReadBytes(addr, DescriptorSize))
	ch.desc = Decode(buf)
	ch.descAddr, ch.hasAddr = addr, true

	log.ModDMA.DebugZ("descriptor loaded").
		Int("ch", ch.idx).
		Hex32("addr", addr).
		Blob("data", buf[:]).
		End()
}
