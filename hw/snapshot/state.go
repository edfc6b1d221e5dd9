package snapshot

// Controller is the observable state of an LDMA controller.
type Controller struct {
	Family string
	Time   float64 // virtual time, in seconds

	IRQ      IRQ
	Signals  []uint16
	Channels []Channel
}

type IRQ struct {
	Wide     bool
	Channels uint32
}

type Channel struct {
	Index int
	State string

	Enabled             bool
	Done                bool
	Busy                bool
	RequestDisable      bool
	DoneInterrupt       bool
	DoneInterruptEnable bool

	Source uint8
	Signal uint8

	HasDescriptorAddr bool
	DescriptorAddr    uint32
	Descriptor        Descriptor
}

// Descriptor holds the decoded fields of a live descriptor. Enumerated fields
// are stored by name.
type Descriptor struct {
	Kind                 string
	AutoRequest          bool
	TransferCount        int
	ByteSwap             bool
	BlockSize            string
	DoneIEN              bool
	ReqMode              string
	DecLoopCount         bool
	IgnoreSingleRequests bool
	SrcInc               string
	Size                 string
	DstInc               string
	SrcMode              string
	DstMode              string

	SrcAddr uint32
	DstAddr uint32

	LinkMode string
	Link     bool
	LinkAddr uint32
}
