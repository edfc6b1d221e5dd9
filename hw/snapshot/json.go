package snapshot

import (
	"fmt"
	"io"

	"github.com/go-faster/jx"
)

// Encode writes the controller state as a JSON object.
func (c *Controller) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("family", func(e *jx.Encoder) { e.Str(c.Family) })
		e.Field("time", func(e *jx.Encoder) { e.Float64(c.Time) })
		e.Field("irq", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("wide", func(e *jx.Encoder) { e.Bool(c.IRQ.Wide) })
				e.Field("channels", func(e *jx.Encoder) { e.UInt32(c.IRQ.Channels) })
			})
		})
		e.Field("signals", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, s := range c.Signals {
					e.UInt16(s)
				}
			})
		})
		e.Field("channels", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for i := range c.Channels {
					c.Channels[i].Encode(e)
				}
			})
		})
	})
}

func (ch *Channel) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("index", func(e *jx.Encoder) { e.Int(ch.Index) })
		e.Field("state", func(e *jx.Encoder) { e.Str(ch.State) })
		e.Field("enabled", func(e *jx.Encoder) { e.Bool(ch.Enabled) })
		e.Field("done", func(e *jx.Encoder) { e.Bool(ch.Done) })
		e.Field("busy", func(e *jx.Encoder) { e.Bool(ch.Busy) })
		e.Field("reqdis", func(e *jx.Encoder) { e.Bool(ch.RequestDisable) })
		e.Field("doneif", func(e *jx.Encoder) { e.Bool(ch.DoneInterrupt) })
		e.Field("doneien", func(e *jx.Encoder) { e.Bool(ch.DoneInterruptEnable) })
		e.Field("source", func(e *jx.Encoder) { e.UInt8(ch.Source) })
		e.Field("signal", func(e *jx.Encoder) { e.UInt8(ch.Signal) })
		if ch.HasDescriptorAddr {
			e.Field("descaddr", func(e *jx.Encoder) { e.UInt32(ch.DescriptorAddr) })
		}
		e.Field("desc", ch.Descriptor.Encode)
	})
}

func (d *Descriptor) Encode(e *jx.Encoder) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("kind", func(e *jx.Encoder) { e.Str(d.Kind) })
		e.Field("structreq", func(e *jx.Encoder) { e.Bool(d.AutoRequest) })
		e.Field("xfercnt", func(e *jx.Encoder) { e.Int(d.TransferCount) })
		e.Field("byteswap", func(e *jx.Encoder) { e.Bool(d.ByteSwap) })
		e.Field("blocksize", func(e *jx.Encoder) { e.Str(d.BlockSize) })
		e.Field("doneien", func(e *jx.Encoder) { e.Bool(d.DoneIEN) })
		e.Field("reqmode", func(e *jx.Encoder) { e.Str(d.ReqMode) })
		e.Field("decloopcnt", func(e *jx.Encoder) { e.Bool(d.DecLoopCount) })
		e.Field("ignoresreq", func(e *jx.Encoder) { e.Bool(d.IgnoreSingleRequests) })
		e.Field("srcinc", func(e *jx.Encoder) { e.Str(d.SrcInc) })
		e.Field("size", func(e *jx.Encoder) { e.Str(d.Size) })
		e.Field("dstinc", func(e *jx.Encoder) { e.Str(d.DstInc) })
		e.Field("srcmode", func(e *jx.Encoder) { e.Str(d.SrcMode) })
		e.Field("dstmode", func(e *jx.Encoder) { e.Str(d.DstMode) })
		e.Field("src", func(e *jx.Encoder) { e.UInt32(d.SrcAddr) })
		e.Field("dst", func(e *jx.Encoder) { e.UInt32(d.DstAddr) })
		e.Field("linkmode", func(e *jx.Encoder) { e.Str(d.LinkMode) })
		e.Field("link", func(e *jx.Encoder) { e.Bool(d.Link) })
		e.Field("linkaddr", func(e *jx.Encoder) { e.UInt32(d.LinkAddr) })
	})
}

// Decode reads a controller state written by Encode.
func (c *Controller) Decode(d *jx.Decoder) error {
	*c = Controller{}
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "family":
			c.Family, err = d.Str()
		case "time":
			c.Time, err = d.Float64()
		case "irq":
			err = d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "wide":
					c.IRQ.Wide, err = d.Bool()
				case "channels":
					c.IRQ.Channels, err = d.UInt32()
				default:
					err = d.Skip()
				}
				return err
			})
		case "signals":
			err = d.Arr(func(d *jx.Decoder) error {
				s, err := d.UInt16()
				c.Signals = append(c.Signals, s)
				return err
			})
		case "channels":
			err = d.Arr(func(d *jx.Decoder) error {
				var ch Channel
				if err := ch.Decode(d); err != nil {
					return err
				}
				c.Channels = append(c.Channels, ch)
				return nil
			})
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return nil
	})
}

func (ch *Channel) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "index":
			ch.Index, err = d.Int()
		case "state":
			ch.State, err = d.Str()
		case "enabled":
			ch.Enabled, err = d.Bool()
		case "done":
			ch.Done, err = d.Bool()
		case "busy":
			ch.Busy, err = d.Bool()
		case "reqdis":
			ch.RequestDisable, err = d.Bool()
		case "doneif":
			ch.DoneInterrupt, err = d.Bool()
		case "doneien":
			ch.DoneInterruptEnable, err = d.Bool()
		case "source":
			ch.Source, err = d.UInt8()
		case "signal":
			ch.Signal, err = d.UInt8()
		case "descaddr":
			ch.HasDescriptorAddr = true
			ch.DescriptorAddr, err = d.UInt32()
		case "desc":
			err = ch.Descriptor.Decode(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("channel %s: %w", key, err)
		}
		return nil
	})
}

func (desc *Descriptor) Decode(d *jx.Decoder) error {
	return d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "kind":
			desc.Kind, err = d.Str()
		case "structreq":
			desc.AutoRequest, err = d.Bool()
		case "xfercnt":
			desc.TransferCount, err = d.Int()
		case "byteswap":
			desc.ByteSwap, err = d.Bool()
		case "blocksize":
			desc.BlockSize, err = d.Str()
		case "doneien":
			desc.DoneIEN, err = d.Bool()
		case "reqmode":
			desc.ReqMode, err = d.Str()
		case "decloopcnt":
			desc.DecLoopCount, err = d.Bool()
		case "ignoresreq":
			desc.IgnoreSingleRequests, err = d.Bool()
		case "srcinc":
			desc.SrcInc, err = d.Str()
		case "size":
			desc.Size, err = d.Str()
		case "dstinc":
			desc.DstInc, err = d.Str()
		case "srcmode":
			desc.SrcMode, err = d.Str()
		case "dstmode":
			desc.DstMode, err = d.Str()
		case "src":
			desc.SrcAddr, err = d.UInt32()
		case "dst":
			desc.DstAddr, err = d.UInt32()
		case "linkmode":
			desc.LinkMode, err = d.Str()
		case "link":
			desc.Link, err = d.Bool()
		case "linkaddr":
			desc.LinkAddr, err = d.UInt32()
		default:
			err = d.Skip()
		}
		if err != nil {
			return fmt.Errorf("descriptor %s: %w", key, err)
		}
		return nil
	})
}

// WriteJSON writes the indented JSON encoding of c to w.
func (c *Controller) WriteJSON(w io.Writer) error {
	var e jx.Encoder
	e.SetIdent(2)
	c.Encode(&e)
	if _, err := w.Write(append(e.Bytes(), '\n')); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return nil
}

// Unmarshal decodes a controller state from its JSON encoding.
func Unmarshal(data []byte) (*Controller, error) {
	var c Controller
	if err := c.Decode(jx.DecodeBytes(data)); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return &c, nil
}
