package ldma

import (
	"ldmasim/hw/snapshot"
)

// State returns a snapshot of the controller.
func (c *Controller) State() *snapshot.Controller {
	state := &snapshot.Controller{
		Family: c.family.Name,
		Time:   float64(c.clk.Now()),
		IRQ: snapshot.IRQ{
			Wide:     c.irq.Wide,
			Channels: uint32(c.irq.Channels),
		},
	}
	for _, s := range c.Signals() {
		state.Signals = append(state.Signals, uint16(s))
	}
	for _, ch := range c.channels {
		state.Channels = append(state.Channels, ch.snapshot())
	}
	return state
}

func (ch *Channel) snapshot() snapshot.Channel {
	d := &ch.desc
	return snapshot.Channel{
		Index:               ch.idx,
		State:               ch.State().String(),
		Enabled:             ch.enabled,
		Done:                ch.done,
		Busy:                ch.inProgress,
		RequestDisable:      ch.reqDisable,
		DoneInterrupt:       ch.doneIF,
		DoneInterruptEnable: ch.doneIEN,
		Source:              ch.source,
		Signal:              ch.signal,
		HasDescriptorAddr:   ch.hasAddr,
		DescriptorAddr:      ch.descAddr,
		Descriptor: snapshot.Descriptor{
			Kind:                 d.Kind.String(),
			AutoRequest:          d.AutoRequest,
			TransferCount:        d.TransferCount(),
			ByteSwap:             d.ByteSwap,
			BlockSize:            d.BlockSize.String(),
			DoneIEN:              d.DoneIEN,
			ReqMode:              d.ReqMode.String(),
			DecLoopCount:         d.DecLoopCount,
			IgnoreSingleRequests: d.IgnoreSingleRequests,
			SrcInc:               d.SrcInc.String(),
			Size:                 d.Size.String(),
			DstInc:               d.DstInc.String(),
			SrcMode:              d.SrcMode.String(),
			DstMode:              d.DstMode.String(),
			SrcAddr:              d.SrcAddr,
			DstAddr:              d.DstAddr,
			LinkMode:             d.LinkMode.String(),
			Link:                 d.Link,
			LinkAddr:             d.LinkAddr,
		},
	}
}
