package ldma

import (
	"encoding/binary"

	"ldmasim/emu/log"
	"ldmasim/hw/dmaengine"
	"ldmasim/hw/hwio"
)

// DescriptorSize is the size in bytes of an in-memory descriptor.
const DescriptorSize = 32

//go:generate go tool stringer -type=StructureKind,BlockSize,RequestMode,Increment,UnitSize,AddressingMode -output=descriptor_string.go

type StructureKind uint8

const (
	Transfer StructureKind = iota
	Synchronize
	Write
	Invalid
)

type BlockSize uint8

const (
	Unit1 BlockSize = iota
	Unit2
	Unit3
	Unit4
	Unit6
	Unit8
	_
	Unit16
	_
	Unit32
	Unit64
	Unit128
	Unit256
	Unit512
	Unit1024
	BlockAll
)

type RequestMode uint8

const (
	BlockRequest RequestMode = iota
	AllRequest
)

type Increment uint8

const (
	IncOne Increment = iota
	IncTwo
	IncFour
	IncNone
)

type UnitSize uint8

const (
	SizeByte UnitSize = iota
	SizeHalfWord
	SizeWord
	sizeReserved
)

type AddressingMode uint8

const (
	Absolute AddressingMode = iota
	Relative
)

// Descriptor is a decoded transfer descriptor.
//
// Word 0 (control):
//
//	0-1    structure kind
//	3      autoRequest (STRUCTREQ)
//	4-14   transfer count - 1
//	15     byte swap
//	16-19  block size
//	20     done interrupt enable (DONEIEN)
//	21     request mode
//	22     decrement loop count
//	23     ignore single requests
//	24-25  source increment
//	26-27  unit size
//	28-29  destination increment
//	30     source addressing mode
//	31     destination addressing mode
//
// Word 1 is the source address, word 2 the destination address.
//
// Word 3 (link):
//
//	0      link mode
//	1      link
//	2-31   link address (word address)
//
// Words 4 to 6 hold the extended control, dual destination and interleaving
// source words of the parts supporting them. Word 7 is reserved.
type Descriptor struct {
	Kind                 StructureKind
	AutoRequest          bool
	XferCount            uint16 // transfer count - 1, 11 bits
	ByteSwap             bool
	BlockSize            BlockSize
	DoneIEN              bool
	ReqMode              RequestMode
	DecLoopCount         bool
	IgnoreSingleRequests bool
	SrcInc               Increment
	Size                 UnitSize
	DstInc               Increment
	SrcMode              AddressingMode
	DstMode              AddressingMode

	SrcAddr uint32
	DstAddr uint32

	LinkMode AddressingMode
	Link     bool
	LinkAddr uint32 // 30 bits, byte address is LinkAddr<<2

	ExtendedControl  uint32
	DualDestination  uint32
	InterleaveSource uint32
}

// Control word bit layout.
const (
	ctrlKindPos      = 0
	ctrlKindLen      = 2
	ctrlStructReq    = 3
	ctrlXferCntPos   = 4
	ctrlXferCntLen   = 11
	ctrlByteSwap     = 15
	ctrlBlockSizePos = 16
	ctrlBlockSizeLen = 4
	ctrlDoneIEN      = 20
	ctrlReqMode      = 21
	ctrlDecLoopCnt   = 22
	ctrlIgnoreSReq   = 23
	ctrlSrcIncPos    = 24
	ctrlSizePos      = 26
	ctrlDstIncPos    = 28
	ctrlSrcMode      = 30
	ctrlDstMode      = 31

	// Fields of the control word that software can't write through the
	// channel CTRL register.
	ctrlReadOnlyMask = 0x3<<ctrlKindPos | 1<<ctrlSrcMode | 1<<ctrlDstMode

	maxXferCount = 1<<ctrlXferCntLen - 1

	linkModeBit = 0
	linkBit     = 1
	linkAddrPos = 2
	linkAddrLen = 30
)

// ControlWord encodes descriptor word 0.
func (d *Descriptor) ControlWord() uint32 {
	var w uint32
	hwio.SetBits32(&w, ctrlKindPos, ctrlKindLen, uint32(d.Kind))
	w |= hwio.Bool32(d.AutoRequest, ctrlStructReq)
	hwio.SetBits32(&w, ctrlXferCntPos, ctrlXferCntLen, uint32(d.XferCount))
	w |= hwio.Bool32(d.ByteSwap, ctrlByteSwap)
	hwio.SetBits32(&w, ctrlBlockSizePos, ctrlBlockSizeLen, uint32(d.BlockSize))
	w |= hwio.Bool32(d.DoneIEN, ctrlDoneIEN)
	w |= uint32(d.ReqMode&1) << ctrlReqMode
	w |= hwio.Bool32(d.DecLoopCount, ctrlDecLoopCnt)
	w |= hwio.Bool32(d.IgnoreSingleRequests, ctrlIgnoreSReq)
	hwio.SetBits32(&w, ctrlSrcIncPos, 2, uint32(d.SrcInc))
	hwio.SetBits32(&w, ctrlSizePos, 2, uint32(d.Size))
	hwio.SetBits32(&w, ctrlDstIncPos, 2, uint32(d.DstInc))
	w |= uint32(d.SrcMode&1) << ctrlSrcMode
	w |= uint32(d.DstMode&1) << ctrlDstMode
	return w
}

// SetControlWord decodes descriptor word 0.
func (d *Descriptor) SetControlWord(w uint32) {
	d.Kind = StructureKind(hwio.Bits32(w, ctrlKindPos, ctrlKindLen))
	d.AutoRequest = hwio.GetBit32(w, ctrlStructReq)
	d.XferCount = uint16(hwio.Bits32(w, ctrlXferCntPos, ctrlXferCntLen))
	d.ByteSwap = hwio.GetBit32(w, ctrlByteSwap)
	d.BlockSize = BlockSize(hwio.Bits32(w, ctrlBlockSizePos, ctrlBlockSizeLen))
	d.DoneIEN = hwio.GetBit32(w, ctrlDoneIEN)
	d.ReqMode = RequestMode(hwio.GetBiti32(w, ctrlReqMode))
	d.DecLoopCount = hwio.GetBit32(w, ctrlDecLoopCnt)
	d.IgnoreSingleRequests = hwio.GetBit32(w, ctrlIgnoreSReq)
	d.SrcInc = Increment(hwio.Bits32(w, ctrlSrcIncPos, 2))
	d.Size = UnitSize(hwio.Bits32(w, ctrlSizePos, 2))
	d.DstInc = Increment(hwio.Bits32(w, ctrlDstIncPos, 2))
	d.SrcMode = AddressingMode(hwio.GetBiti32(w, ctrlSrcMode))
	d.DstMode = AddressingMode(hwio.GetBiti32(w, ctrlDstMode))
}

// LinkWord encodes descriptor word 3.
func (d *Descriptor) LinkWord() uint32 {
	var w uint32
	w |= uint32(d.LinkMode&1) << linkModeBit
	w |= hwio.Bool32(d.Link, linkBit)
	hwio.SetBits32(&w, linkAddrPos, linkAddrLen, d.LinkAddr)
	return w
}

// SetLinkWord decodes descriptor word 3.
func (d *Descriptor) SetLinkWord(w uint32) {
	d.LinkMode = AddressingMode(hwio.GetBiti32(w, linkModeBit))
	d.Link = hwio.GetBit32(w, linkBit)
	d.LinkAddr = hwio.Bits32(w, linkAddrPos, linkAddrLen)
}

// Decode decodes a descriptor from its in-memory representation.
func Decode(buf [DescriptorSize]byte) Descriptor {
	var d Descriptor
	d.SetControlWord(binary.LittleEndian.Uint32(buf[0:]))
	d.SrcAddr = binary.LittleEndian.Uint32(buf[4:])
	d.DstAddr = binary.LittleEndian.Uint32(buf[8:])
	d.SetLinkWord(binary.LittleEndian.Uint32(buf[12:]))
	d.ExtendedControl = binary.LittleEndian.Uint32(buf[16:])
	d.DualDestination = binary.LittleEndian.Uint32(buf[20:])
	d.InterleaveSource = binary.LittleEndian.Uint32(buf[24:])
	return d
}

// Encode returns the in-memory representation of the descriptor.
func (d *Descriptor) Encode() [DescriptorSize]byte {
	var buf [DescriptorSize]byte
	binary.LittleEndian.PutUint32(buf[0:], d.ControlWord())
	binary.LittleEndian.PutUint32(buf[4:], d.SrcAddr)
	binary.LittleEndian.PutUint32(buf[8:], d.DstAddr)
	binary.LittleEndian.PutUint32(buf[12:], d.LinkWord())
	binary.LittleEndian.PutUint32(buf[16:], d.ExtendedControl)
	binary.LittleEndian.PutUint32(buf[20:], d.DualDestination)
	binary.LittleEndian.PutUint32(buf[24:], d.InterleaveSource)
	return buf
}

// TransferCount returns the number of units left to transfer, never 0.
func (d *Descriptor) TransferCount() int {
	return int(d.XferCount) + 1
}

// BlockUnits returns the number of units moved by one Block mode request.
// ok is false for reserved block size values.
func (d *Descriptor) BlockUnits() (n int, ok bool) {
	switch bs := d.BlockSize; {
	case bs <= Unit2:
		return 1 << bs, true
	case bs == Unit3:
		return 3, true
	case bs == Unit4:
		return 4, true
	case bs == Unit6:
		return 6, true
	case bs == Unit8:
		return 8, true
	case bs == Unit16:
		return 16, true
	case bs >= Unit32 && bs <= Unit1024:
		return 1 << (bs - 4), true
	case bs == BlockAll:
		return d.TransferCount(), true
	}
	return 0, false
}

// Width returns the copy width matching the unit size.
func (d *Descriptor) Width() (dmaengine.Width, bool) {
	if d.Size == sizeReserved {
		return 0, false
	}
	return dmaengine.Width(1 << d.Size), true
}

func incrementStep(inc Increment, size UnitSize) uint32 {
	if inc == IncNone {
		return 0
	}
	return (1 << size) << inc
}

// SourceStep returns the source address increment applied per unit.
func (d *Descriptor) SourceStep() uint32 {
	return incrementStep(d.SrcInc, d.Size)
}

// DestinationStep returns the destination address increment applied per unit.
func (d *Descriptor) DestinationStep() uint32 {
	return incrementStep(d.DstInc, d.Size)
}

// units returns the number of units moved by the next minor transfer.
func (d *Descriptor) units() (int, bool) {
	if d.ReqMode == AllRequest {
		return d.TransferCount(), true
	}
	n, ok := d.BlockUnits()
	if !ok {
		log.ModDMA.WarnZ("reserved block size").
			Stringer("size", d.BlockSize).
			End()
		return 0, false
	}
	return min(d.TransferCount(), n), true
}
