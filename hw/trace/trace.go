// Package trace writes a textual trace of the minor transfers performed by
// an LDMA controller, one line per transfer.
package trace

import (
	"fmt"
	"io"
	"sync"

	"ldmasim/hw/ldma"
)

// Writer implements ldma.Tracer. Writers sharing an io.Writer must share the
// same mutex, so that lines of concurrent machines don't interleave.
type Writer struct {
	Prefix string // prepended to each line, if not empty

	mu *sync.Mutex
	w  io.Writer
}

// NewWriter returns a Writer writing to w. If mu is nil, the Writer is not
// safe for concurrent use with other writers on w.
func NewWriter(w io.Writer, mu *sync.Mutex, prefix string) *Writer {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &Writer{Prefix: prefix, mu: mu, w: w}
}

func hexEncode(dst []byte, v byte) {
	const hextable = "0123456789ABCDEF"
	dst[0] = hextable[v>>4]
	dst[1] = hextable[v&0x0f]
}

func hexEncode32(dst []byte, v uint32) {
	hexEncode(dst[0:], byte(v>>24))
	hexEncode(dst[2:], byte(v>>16))
	hexEncode(dst[4:], byte(v>>8))
	hexEncode(dst[6:], byte(v))
}

// TraceTransfer implements ldma.Tracer.
//
// Format:
//
//	[prefix ]TIME CHn SSSSSSSS>DDDDDDDD size:N width:W step:S/D
func (t *Writer) TraceTransfer(tr ldma.TransferEvent) {
	buf := make([]byte, 0, 96)
	if t.Prefix != "" {
		buf = append(buf, t.Prefix...)
		buf = append(buf, ' ')
	}
	buf = fmt.Appendf(buf, "%12.3fus CH%d ", float64(tr.Time)*1e6, tr.Channel)

	off := len(buf)
	buf = append(buf, "00000000>00000000"...)
	hexEncode32(buf[off:], tr.Source)
	hexEncode32(buf[off+9:], tr.Destination)

	buf = fmt.Appendf(buf, " size:%d width:%s step:%d/%d\n",
		tr.Size, tr.ReadWidth, tr.SourceStep, tr.DestinationStep)

	t.mu.Lock()
	t.w.Write(buf)
	t.mu.Unlock()
}
