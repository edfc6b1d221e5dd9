// Package dmaengine implements the memory to memory copy primitive used by DMA
// controllers: it moves bytes over the bus, unit by unit, stepping the source
// and destination addresses independently.
package dmaengine

import (
	"fmt"

	"ldmasim/emu/log"
)

// Bus is the system bus as seen by the copy engine.
type Bus interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, val uint8)
	Write16(addr uint32, val uint16)
	Write32(addr uint32, val uint32)
}

// Width is the size, in bytes, of a single bus access.
type Width uint8

const (
	Byte     Width = 1
	HalfWord Width = 2
	Word     Width = 4
)

func (w Width) String() string {
	switch w {
	case Byte:
		return "byte"
	case HalfWord:
		return "halfword"
	case Word:
		return "word"
	}
	return fmt.Sprintf("Width(%d)", uint8(w))
}

func (w Width) valid() bool {
	return w == Byte || w == HalfWord || w == Word
}

// Request describes a copy. Size is in bytes. Steps are added to the source
// (resp. destination) address after each read (resp. write) access; a zero
// step keeps the address fixed, as for a peripheral data register.
type Request struct {
	Source          uint32
	Destination     uint32
	Size            int
	ReadWidth       Width
	WriteWidth      Width
	SourceStep      uint32
	DestinationStep uint32
}

// Response holds the addresses following the last read and write accesses.
type Response struct {
	ReadAddress  uint32
	WriteAddress uint32
}

// Tracer is notified of every copy, before it's performed.
type Tracer interface {
	TraceCopy(req Request)
}

type Engine struct {
	bus    Bus
	tracer Tracer
}

func New(bus Bus) *Engine {
	return &Engine{bus: bus}
}

// SetTracer sets (or removes, if nil) the copy tracer.
func (e *Engine) SetTracer(t Tracer) {
	e.tracer = t
}

// IssueCopy performs the copy synchronously. An invalid request is logged and
// moves nothing.
func (e *Engine) IssueCopy(req Request) Response {
	resp := Response{ReadAddress: req.Source, WriteAddress: req.Destination}

	if !req.ReadWidth.valid() || !req.WriteWidth.valid() {
		log.ModDMA.ErrorZ("invalid copy width").
			Stringer("read", req.ReadWidth).
			Stringer("write", req.WriteWidth).
			End()
		return resp
	}
	if req.Size <= 0 {
		return resp
	}
	unit := max(int(req.ReadWidth), int(req.WriteWidth))
	if req.Size%unit != 0 {
		log.ModDMA.WarnZ("copy size is not a multiple of access width, truncated").
			Int("size", req.Size).
			Int("width", unit).
			End()
		req.Size -= req.Size % unit
	}

	if e.tracer != nil {
		e.tracer.TraceCopy(req)
	}

	log.ModDMA.DebugZ("copy").
		Hex32("src", req.Source).
		Hex32("dst", req.Destination).
		Int("size", req.Size).
		Stringer("rwidth", req.ReadWidth).
		Stringer("wwidth", req.WriteWidth).
		End()

	if req.ReadWidth == req.WriteWidth {
		for range req.Size / int(req.ReadWidth) {
			e.write(req.WriteWidth, resp.WriteAddress, e.read(req.ReadWidth, resp.ReadAddress))
			resp.ReadAddress += req.SourceStep
			resp.WriteAddress += req.DestinationStep
		}
		return resp
	}

	// Different widths: gather everything, then scatter.
	buf := make([]byte, 0, req.Size)
	for range req.Size / int(req.ReadWidth) {
		v := e.read(req.ReadWidth, resp.ReadAddress)
		for i := range int(req.ReadWidth) {
			buf = append(buf, uint8(v>>(8*i)))
		}
		resp.ReadAddress += req.SourceStep
	}
	for off := 0; off < len(buf); off += int(req.WriteWidth) {
		var v uint32
		for i := range int(req.WriteWidth) {
			v |= uint32(buf[off+i]) << (8 * i)
		}
		e.write(req.WriteWidth, resp.WriteAddress, v)
		resp.WriteAddress += req.DestinationStep
	}
	return resp
}

func (e *Engine) read(w Width, addr uint32) uint32 {
	switch w {
	case Byte:
		return uint32(e.bus.Read8(addr))
	case HalfWord:
		return uint32(e.bus.Read16(addr))
	}
	return e.bus.Read32(addr)
}

func (e *Engine) write(w Width, addr uint32, val uint32) {
	switch w {
	case Byte:
		e.bus.Write8(addr, uint8(val))
	case HalfWord:
		e.bus.Write16(addr, uint16(val))
	default:
		e.bus.Write32(addr, val)
	}
}
