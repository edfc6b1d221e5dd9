package emu

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ldmasim/emu/log"
	"ldmasim/hw/ldma"
	"ldmasim/tests"
)

func parse(t *testing.T, src string) *Scenario {
	t.Helper()

	sc, err := ParseScenario(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func run(t *testing.T, sc *Scenario, tracer ldma.Tracer) *Result {
	t.Helper()

	res, err := sc.Run(context.Background(), DefaultConfig(), tracer)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestScenarios(t *testing.T) {
	log.Disable()

	for _, path := range tests.ScenarioFiles(t) {
		t.Run(filepath.Base(path), func(t *testing.T) {
			sc, err := LoadScenario(path)
			if err != nil {
				t.Fatal(err)
			}
			res := run(t, sc, nil)
			for _, f := range res.Failures {
				t.Error(f)
			}
			if res.State == nil {
				t.Fatal("no final state")
			}
			if res.State.Family != sc.Family {
				t.Errorf("state family = %s, want %s", res.State.Family, sc.Family)
			}
		})
	}
}

const copyScenario = `
family = "efr32xg22"

[[load]]
addr = 0x2000_1000
data = "11 22 33 44"

[[step]]
write = { addr = 0x4004_0064, value = 0x0013_0030 }
[[step]]
write = { addr = 0x4004_0068, value = 0x2000_1000 }
[[step]]
write = { addr = 0x4004_006C, value = 0x2000_2000 }
[[step]]
write = { addr = 0x4004_0024, value = 1 }
`

func TestScenarioFailuresCollected(t *testing.T) {
	log.Disable()

	sc := parse(t, copyScenario+`
[[step]]
expect_mem = { addr = 0x2000_2000, data = "11223355" }
[[step]]
expect_channel = { index = 0, done = true }
[[step]]
read = { addr = 0x4004_0034, expect = 0xFF }
[[step]]
read = { addr = 0x4004_0034, expect = 0xFF, mask = 0x1 }
[[step]]
expect_channel = { index = 9 }
`)
	res := run(t, sc, nil)

	want := []Failure{
		{Step: 4, Msg: "memory at 0x20002000 = 11223344, want 11223355"},
		{Step: 6, Msg: "read 0x40040034 = 0x1, want 0xff (mask 0xffffffff)"},
		{Step: 8, Msg: "no channel 9"},
	}
	if diff := cmp.Diff(want, res.Failures); diff != "" {
		t.Errorf("failures mismatch (-want +got):\n%s", diff)
	}
	if !res.Failed() {
		t.Errorf("Failed() = false")
	}
	if got := res.Failures[0].String(); got != "step 5: memory at 0x20002000 = 11223344, want 11223355" {
		t.Errorf("String() = %q", got)
	}
}

func TestScenarioChannelMismatch(t *testing.T) {
	log.Disable()

	sc := parse(t, copyScenario+`
[[step]]
expect_channel = { index = 0, done = false, enabled = false, state = "idle" }
`)
	res := run(t, sc, nil)
	want := []Failure{
		{Step: 4, Msg: "channel 0: done=true, want false, enabled=true, want false, state=Done, want idle"},
	}
	if diff := cmp.Diff(want, res.Failures); diff != "" {
		t.Errorf("failures mismatch (-want +got):\n%s", diff)
	}
}

type transfers []ldma.TransferEvent

func (tr *transfers) TraceTransfer(t ldma.TransferEvent) { *tr = append(*tr, t) }

func TestScenarioSignals(t *testing.T) {
	log.Disable()

	// TIMER0 CC0 on xg22 is an edge request: nothing moves between the
	// enable and the assertion.
	sc := parse(t, `
family = "efr32xg22"

[[load]]
addr = 0x2000_1000
data = "a1a2a3"

[[step]]
write = { addr = 0x4004_4000, value = 0x0002_0000 }
[[step]]
write = { addr = 0x4004_0064, value = 0x0000_0020 }
[[step]]
write = { addr = 0x4004_0068, value = 0x2000_1000 }
[[step]]
write = { addr = 0x4004_006C, value = 0x2000_2000 }
[[step]]
write = { addr = 0x4004_0024, value = 1 }
[[step]]
advance = 100.0
[[step]]
signal = { source = 2, signal = 0 }
[[step]]
signal = { source = "timer0", signal = 0, asserted = false }
[[step]]
expect_mem = { addr = 0x2000_2000, data = "a1a2a3" }
[[step]]
expect_channel = { index = 0, done = true }
`)
	var got transfers
	res := run(t, sc, &got)
	for _, f := range res.Failures {
		t.Error(f)
	}

	// The enable itself moves the first unit.
	if len(got) != 3 {
		t.Fatalf("got %d transfers, want 3", len(got))
	}
	wantTimes := []float64{0, 100e-6, 100e-6}
	for i, tr := range got {
		if tr.Channel != 0 || tr.Size != 1 || tr.Source != 0x2000_1000+uint32(i) {
			t.Errorf("transfer %d = %+v", i, tr)
		}
		if math.Abs(float64(tr.Time)-wantTimes[i]) > 1e-12 {
			t.Errorf("transfer %d at %g, want %g", i, float64(tr.Time), wantTimes[i])
		}
	}
	if len(res.State.Signals) != 0 {
		t.Errorf("signals still asserted: %v", res.State.Signals)
	}
}

func TestScenarioWriteBackOption(t *testing.T) {
	log.Disable()

	// The channel registers hold a descriptor linking to A, which links to B.
	// A is flushed to memory when B gets loaded, unless write-back is off.
	const src = `
family = "efr32xg22"
%s

[[load]]
addr = 0x2000_3000
data = "18000100 00100020 00200020 22300020"
[[load]]
addr = 0x2000_3020
data = "18000100 00100020 10200020 00000000"

[[step]]
write = { addr = 0x4004_0064, value = 0x0001_0010 }
[[step]]
write = { addr = 0x4004_0068, value = 0x2000_1000 }
[[step]]
write = { addr = 0x4004_006C, value = 0x2000_2000 }
[[step]]
write = { addr = 0x4004_0070, value = 0x2000_3002 }
[[step]]
write = { addr = 0x4004_0024, value = 1 }
[[step]]
expect_channel = { index = 0, done = true }
[[step]]
expect_mem = { addr = 0x2000_3000, data = "%s" }
`
	tests := []struct {
		name string
		opts string
		want string
	}{
		{"default", "", "08000100 02100020"},
		{"no write-back", "[options]\nwrite_back = false", "18000100 00100020"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, parse(t, fmt.Sprintf(src, tt.opts, tt.want)), nil)
			for _, f := range res.Failures {
				t.Error(f)
			}
			if got := res.State.Channels[0].DescriptorAddr; got != 0x2000_3020 {
				t.Errorf("descriptor address = %#x, want 0x20003020", got)
			}
		})
	}
}

func TestParseScenarioErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"no action", "[[step]]\n", "step 1: no action"},
		{"two actions", "[[step]]\nadvance = 1.0\nwrite = { addr = 0, value = 0 }\n", "step 1: more than one action"},
		{"bad width", "[[step]]\nadvance = 1.0\n[[step]]\nread = { addr = 0, expect = 0, width = 24 }\n", "step 2: invalid access width 24"},
		{"negative advance", "[[step]]\nadvance = -1.0\n", "negative advance"},
		{"unknown key", "familly = \"efr32xg22\"\n", "unknown keys"},
		{"bad hex", "[[load]]\naddr = 0\ndata = \"abc\"\n", "invalid hex data"},
		{"source range", "[[step]]\nsignal = { source = 64, signal = 0 }\n", "out of range"},
		{"source type", "[[step]]\nsignal = { source = true, signal = 0 }\n", "name or a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario(strings.NewReader(tt.src))
			if err == nil {
				t.Fatalf("ParseScenario succeeded, want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestScenarioBuildErrors(t *testing.T) {
	log.Disable()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown family", `family = "efr32bg13"`, "unknown family"},
		{"overlap", "[[memory]]\nbase = 0x4004_1000\nsize = 0x100\n", "overlaps"},
		{"overlap xbar", "xbar_base = 0x4004_2000\n", "overlaps"},
		{"load outside", "[[load]]\naddr = 0x3000_0000\ndata = \"00\"\n", "not within a memory region"},
		{"data too big", "[[memory]]\nsize = 1\ndata = \"0000\"\n", "do not fit"},
		{"unknown source", "[[step]]\nsignal = { source = \"UART9\", signal = 0 }\n", "no source named"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := parse(t, tt.src)
			_, err := sc.Run(context.Background(), DefaultConfig(), nil)
			if err == nil {
				t.Fatalf("Run succeeded, want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestScenarioCancel(t *testing.T) {
	log.Disable()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sc := parse(t, "[[step]]\nadvance = 1.0\n")
	if _, err := sc.Run(ctx, DefaultConfig(), nil); err != context.Canceled {
		t.Errorf("Run() error = %v, want %v", err, context.Canceled)
	}
}
