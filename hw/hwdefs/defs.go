package hwdefs

import (
	"strconv"
	"strings"
)

// IRQLines is a set of per-channel interrupt lines, bit i for channel i.
type IRQLines uint32

func (irq IRQLines) Has(ch int) bool {
	return irq&(1<<ch) != 0
}

func (irq IRQLines) String() string {
	if irq == 0 {
		return "none"
	}
	var names []string
	for i := range 32 {
		if irq.Has(i) {
			names = append(names, "ch"+strconv.Itoa(i))
		}
	}
	return strings.Join(names, "|")
}

// IRQWiring tells which interrupt outputs a controller exposes.
type IRQWiring uint8

const (
	WideIRQ     IRQWiring = 1 << iota // single line, OR of all channels
	ChannelIRQs                       // one line per channel
)

func (w IRQWiring) String() string {
	switch w {
	case WideIRQ:
		return "wide"
	case ChannelIRQs:
		return "per-channel"
	case WideIRQ | ChannelIRQs:
		return "wide+per-channel"
	}
	return "none"
}

const MaxChannels = 32
