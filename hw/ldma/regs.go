package ldma

import (
	"strconv"

	"ldmasim/hw/hwio"
)

const ifErrorBit = 31

func (c *Controller) buildRegs() {
	f := c.family

	c.regs = hwio.NewTable(f.Name+".ldma", f.size, f.Alias)
	for _, def := range f.global {
		c.regs.MapReg32(def.off, c.globalReg(def))
	}
	for _, ch := range c.channels {
		base := f.chanBase + uint32(ch.idx)*f.chanStride
		for _, def := range f.channel {
			c.regs.MapReg32(base+def.off, ch.reg(def))
		}
	}

	if f.xbarSize == 0 {
		return
	}
	c.xbarRegs = hwio.NewTable(f.Name+".xbar", f.xbarSize, f.Alias)
	for _, def := range f.xbar {
		c.xbarRegs.MapReg32(def.off, c.globalReg(def))
	}
	for _, ch := range c.channels {
		def := regDef{name: "REQSEL", kind: regReqSel}
		c.xbarRegs.MapReg32(f.reqSelBase+4*uint32(ch.idx), ch.reg(def))
	}
}

// channelBits returns a word with bit i set if fn is true for channel i.
func (c *Controller) channelBits(fn func(*Channel) bool) uint32 {
	var v uint32
	for _, ch := range c.channels {
		v |= hwio.Bool32(fn(ch), uint(ch.idx))
	}
	return v
}

// forEachBit calls fn for each channel with the bit of val for that channel.
func (c *Controller) forEachBit(val uint32, fn func(*Channel, bool)) {
	for _, ch := range c.channels {
		fn(ch, hwio.GetBit32(val, uint(ch.idx)))
	}
}

// forEachSetBit calls fn for each channel whose bit is set in val.
func (c *Controller) forEachSetBit(val uint32, fn func(*Channel)) {
	for _, ch := range c.channels {
		if hwio.GetBit32(val, uint(ch.idx)) {
			fn(ch)
		}
	}
}

func readZero(uint32) uint32 { return 0 }

func (c *Controller) globalReg(def regDef) *hwio.Reg32 {
	reg := &hwio.Reg32{
		Name:  def.name,
		Value: def.reset,
		Reset: def.reset,
	}
	if def.readOnly {
		reg.Flags = hwio.ReadOnlyFlag
	}

	enabled := func(uint32) uint32 { return c.channelBits((*Channel).Enabled) }

	switch def.kind {
	case regStorage:

	case regChEnable:
		reg.ReadCb = enabled
		reg.WriteCb = func(_, val uint32) { c.forEachBit(val, (*Channel).SetEnabled) }

	case regChEnableSet:
		reg.ReadCb = enabled
		reg.WriteCb = func(_, val uint32) {
			c.forEachSetBit(val, func(ch *Channel) { ch.SetEnabled(true) })
		}

	case regChDisable:
		reg.ReadCb = readZero
		reg.WriteCb = func(_, val uint32) {
			c.forEachSetBit(val, func(ch *Channel) { ch.SetEnabled(false) })
		}

	case regChStatus:
		reg.Flags = hwio.ReadOnlyFlag
		reg.ReadCb = enabled

	case regChBusy:
		reg.Flags = hwio.ReadOnlyFlag
		reg.ReadCb = func(uint32) uint32 { return c.channelBits((*Channel).Busy) }

	case regChDone:
		reg.ReadCb = func(uint32) uint32 { return c.channelBits((*Channel).Done) }
		reg.WriteCb = func(_, val uint32) {
			c.forEachBit(val, (*Channel).SetDone)
			c.updateIRQ()
		}

	case regChDoneClear:
		reg.ReadCb = func(uint32) uint32 { return c.channelBits((*Channel).Done) }
		reg.WriteCb = func(_, val uint32) {
			c.forEachSetBit(val, func(ch *Channel) { ch.SetDone(false) })
		}

	case regSwReq:
		reg.ReadCb = readZero
		reg.WriteCb = func(_, val uint32) { c.forEachSetBit(val, (*Channel).SoftwareRequest) }

	case regReqDisable:
		reg.ReadCb = func(uint32) uint32 { return c.channelBits((*Channel).RequestDisable) }
		reg.WriteCb = func(_, val uint32) { c.forEachBit(val, (*Channel).SetRequestDisable) }

	case regLinkLoad:
		reg.ReadCb = readZero
		reg.WriteCb = func(_, val uint32) { c.forEachSetBit(val, (*Channel).LinkLoad) }

	case regIF, regIFReadOnly:
		reg.ReadCb = func(val uint32) uint32 {
			return val&(1<<ifErrorBit) | c.channelBits((*Channel).DoneInterrupt)
		}
		if def.kind == regIFReadOnly {
			// Only the error flag is stored.
			reg.RoMask = ^uint32(1 << ifErrorBit)
			reg.WriteCb = func(_, _ uint32) { c.updateIRQ() }
			break
		}
		reg.WriteCb = func(_, val uint32) {
			c.forEachBit(val, (*Channel).SetDoneInterrupt)
			c.updateIRQ()
		}

	case regIFSet:
		reg.ReadCb = readZero
		reg.WriteCb = func(_, val uint32) {
			c.forEachSetBit(val, func(ch *Channel) { ch.SetDoneInterrupt(true) })
			c.updateIRQ()
		}

	case regIFClear:
		reg.ReadCb = readZero
		reg.WriteCb = func(_, val uint32) {
			c.forEachSetBit(val, func(ch *Channel) { ch.SetDoneInterrupt(false) })
			c.updateIRQ()
		}

	case regIEN:
		reg.ReadCb = func(val uint32) uint32 {
			return val&(1<<ifErrorBit) | c.channelBits((*Channel).DoneInterruptEnable)
		}
		reg.WriteCb = func(_, val uint32) {
			c.forEachBit(val, (*Channel).SetDoneInterruptEnable)
			c.updateIRQ()
		}

	case regSoftReset:
		reg.ReadCb = readZero
		reg.WriteCb = func(_, val uint32) {
			if val&1 != 0 {
				c.Reset()
			}
		}

	default:
		panic("ldma: " + def.name + ": not a controller register")
	}
	return reg
}

// Field layout of the channel registers.
const (
	reqSelSignalPos = 0
	reqSelSignalLen = 4
	reqSelSourcePos = 16
	reqSelSourceLen = 6

	cfgArbSlotsPos = 16
	cfgArbSlotsLen = 2
	cfgSrcIncSign  = 20
	cfgDstIncSign  = 21

	loopCountLen = 8
)

func (ch *Channel) reg(def regDef) *hwio.Reg32 {
	reg := &hwio.Reg32{
		Name: "CH" + strconv.Itoa(ch.idx) + "_" + def.name,
	}

	switch def.kind {
	case regReqSel:
		reg.ReadCb = func(uint32) uint32 {
			var v uint32
			hwio.SetBits32(&v, reqSelSignalPos, reqSelSignalLen, uint32(ch.signal))
			hwio.SetBits32(&v, reqSelSourcePos, reqSelSourceLen, uint32(ch.source))
			return v
		}
		reg.WriteCb = func(_, val uint32) {
			ch.SetRequestSelect(
				uint8(hwio.Bits32(val, reqSelSourcePos, reqSelSourceLen)),
				uint8(hwio.Bits32(val, reqSelSignalPos, reqSelSignalLen)))
		}

	case regCfg:
		reg.ReadCb = func(uint32) uint32 {
			var v uint32
			hwio.SetBits32(&v, cfgArbSlotsPos, cfgArbSlotsLen, uint32(ch.arbSlots))
			v |= hwio.Bool32(ch.srcIncSign, cfgSrcIncSign)
			v |= hwio.Bool32(ch.dstIncSign, cfgDstIncSign)
			return v
		}
		reg.WriteCb = func(_, val uint32) {
			ch.arbSlots = uint8(hwio.Bits32(val, cfgArbSlotsPos, cfgArbSlotsLen))
			ch.srcIncSign = hwio.GetBit32(val, cfgSrcIncSign)
			ch.dstIncSign = hwio.GetBit32(val, cfgDstIncSign)
		}

	case regLoop:
		reg.ReadCb = func(uint32) uint32 { return uint32(ch.loop) }
		reg.WriteCb = func(_, val uint32) { ch.loop = uint8(hwio.Bits32(val, 0, loopCountLen)) }

	case regCtrl:
		// STRUCTREQ reads as zero.
		reg.ReadCb = func(uint32) uint32 { return ch.desc.ControlWord() &^ (1 << ctrlStructReq) }
		reg.WriteCb = func(_, val uint32) { ch.writeControl(val) }

	case regSrc:
		reg.ReadCb = func(uint32) uint32 { return ch.desc.SrcAddr }
		reg.WriteCb = func(_, val uint32) { ch.desc.SrcAddr = val }

	case regDst:
		reg.ReadCb = func(uint32) uint32 { return ch.desc.DstAddr }
		reg.WriteCb = func(_, val uint32) { ch.desc.DstAddr = val }

	case regLink:
		reg.ReadCb = func(uint32) uint32 { return ch.desc.LinkWord() }
		reg.WriteCb = func(_, val uint32) { ch.desc.SetLinkWord(val) }

	case regXCtrl:
		reg.ReadCb = func(uint32) uint32 { return ch.desc.ExtendedControl }
		reg.WriteCb = func(_, val uint32) { ch.desc.ExtendedControl = val }

	case regDualDst:
		reg.ReadCb = func(uint32) uint32 { return ch.desc.DualDestination }
		reg.WriteCb = func(_, val uint32) { ch.desc.DualDestination = val }

	case regILSrc:
		reg.ReadCb = func(uint32) uint32 { return ch.desc.InterleaveSource }
		reg.WriteCb = func(_, val uint32) { ch.desc.InterleaveSource = val }

	default:
		panic("ldma: " + def.name + ": not a channel register")
	}
	return reg
}

// writeControl handles a write to the channel CTRL register. The structure
// type and addressing modes are read-only. STRUCTREQ can only be set, and
// setting it link-loads the channel.
func (ch *Channel) writeControl(val uint32) {
	w := val&^ctrlReadOnlyMask | ch.desc.ControlWord()&ctrlReadOnlyMask
	autoReq := ch.desc.AutoRequest
	ch.desc.SetControlWord(w)

	req := hwio.GetBit32(val, ctrlStructReq)
	ch.desc.AutoRequest = autoReq || req
	if req {
		ch.LinkLoad()
	}
}
