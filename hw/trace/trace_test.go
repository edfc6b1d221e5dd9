package trace

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sarchlab/akita/v4/sim"

	"ldmasim/hw/dmaengine"
	"ldmasim/hw/ldma"
)

func TestTraceFormat(t *testing.T) {
	want := []string{
		`       0.000us CH0 00001000>00002000 size:4 width:byte step:1/1`,
		`      15.000us CH7 2000FFFC>4000C03C size:8 width:word step:4/0`,
	}

	var out bytes.Buffer
	tw := NewWriter(&out, nil, "")
	tw.TraceTransfer(ldma.TransferEvent{
		Channel: 0,
		Request: dmaengine.Request{
			Source: 0x1000, Destination: 0x2000, Size: 4,
			ReadWidth: dmaengine.Byte, WriteWidth: dmaengine.Byte,
			SourceStep: 1, DestinationStep: 1,
		},
	})
	tw.TraceTransfer(ldma.TransferEvent{
		Time:    sim.MHz.NCyclesLater(15, 0),
		Channel: 7,
		Request: dmaengine.Request{
			Source: 0x2000_FFFC, Destination: 0x4000_C03C, Size: 8,
			ReadWidth: dmaengine.Word, WriteWidth: dmaengine.Word,
			SourceStep: 4,
		},
	})

	got := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestTracePrefix(t *testing.T) {
	var (
		out bytes.Buffer
		mu  sync.Mutex
		wg  sync.WaitGroup
	)

	for _, name := range []string{"a.toml", "b.toml"} {
		tw := NewWriter(&out, &mu, name)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				tw.TraceTransfer(ldma.TransferEvent{Request: dmaengine.Request{ReadWidth: dmaengine.HalfWord}})
			}
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 200 {
		t.Fatalf("got %d lines, want 200", len(lines))
	}
	for _, l := range lines {
		if !strings.HasPrefix(l, "a.toml ") && !strings.HasPrefix(l, "b.toml ") {
			t.Fatalf("interleaved or unprefixed line %q", l)
		}
		if !strings.HasSuffix(l, "width:halfword step:0/0") {
			t.Fatalf("truncated line %q", l)
		}
	}
}

func TestTraceController(t *testing.T) {
	// Wiring check: the writer satisfies the controller's tracer interface.
	var _ ldma.Tracer = (*Writer)(nil)
}

func BenchmarkTraceTransfer(b *testing.B) {
	tw := NewWriter(discard{}, nil, "bench")
	tr := ldma.TransferEvent{
		Request: dmaengine.Request{
			Source: 0x1000, Destination: 0x2000, Size: 4,
			ReadWidth: dmaengine.Byte, WriteWidth: dmaengine.Byte,
		},
	}
	for range b.N {
		tw.TraceTransfer(tr)
	}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
