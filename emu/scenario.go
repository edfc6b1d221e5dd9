package emu

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/sarchlab/akita/v4/sim"

	"ldmasim/emu/log"
	"ldmasim/hw/hwdefs"
	"ldmasim/hw/ldma"
	"ldmasim/hw/snapshot"
)

// DefaultRAM is the memory region of scenarios that don't declare any.
var DefaultRAM = Region{Name: "ram", Base: 0x2000_0000, Size: 0x10000}

// A Scenario describes a machine and a script driving it. Scenarios are
// stored as TOML.
type Scenario struct {
	Name     string          `toml:"name"`
	Family   string          `toml:"family"`
	LDMABase *uint32         `toml:"ldma_base"`
	XbarBase *uint32         `toml:"xbar_base"`
	Options  ScenarioOptions `toml:"options"`
	Memory   []Region        `toml:"memory"`
	Sinks    []Sink          `toml:"sink"`
	Load     []Preload       `toml:"load"`
	Steps    []Step          `toml:"step"`
}

// ScenarioOptions override the controller options of the configuration.
type ScenarioOptions struct {
	WriteBack *bool `toml:"write_back"`
}

// Preload is data copied to memory before the first step.
type Preload struct {
	Addr uint32   `toml:"addr"`
	Data HexBytes `toml:"data"`
}

// A Step holds exactly one action.
type Step struct {
	Write         *WriteStep         `toml:"write"`
	Read          *ReadStep          `toml:"read"`
	Signal        *SignalStep        `toml:"signal"`
	Advance       *float64           `toml:"advance"` // microseconds
	ExpectMem     *ExpectMemStep     `toml:"expect_mem"`
	ExpectIRQ     *ExpectIRQStep     `toml:"expect_irq"`
	ExpectChannel *ExpectChannelStep `toml:"expect_channel"`
	ExpectSink    *ExpectSinkStep    `toml:"expect_sink"`
}

type WriteStep struct {
	Addr  uint32 `toml:"addr"`
	Value uint32 `toml:"value"`
	Width int    `toml:"width"` // 8, 16 or 32 (default)
}

type ReadStep struct {
	Addr   uint32  `toml:"addr"`
	Expect uint32  `toml:"expect"`
	Mask   *uint32 `toml:"mask"`
	Width  int     `toml:"width"`
}

type SignalStep struct {
	Source   SourceRef `toml:"source"`
	Signal   uint8     `toml:"signal"`
	Single   bool      `toml:"single"`
	Asserted *bool     `toml:"asserted"` // default true
}

type ExpectMemStep struct {
	Addr uint32   `toml:"addr"`
	Data HexBytes `toml:"data"`
}

type ExpectIRQStep struct {
	Wide     bool   `toml:"wide"`
	Channels uint32 `toml:"channels"`
}

type ExpectChannelStep struct {
	Index   int    `toml:"index"`
	Done    *bool  `toml:"done"`
	Enabled *bool  `toml:"enabled"`
	Busy    *bool  `toml:"busy"`
	State   string `toml:"state"`
}

type ExpectSinkStep struct {
	Name string   `toml:"name"`
	Data HexBytes `toml:"data"`
}

// HexBytes is a byte string written in hexadecimal. Spaces and underscores
// are ignored.
type HexBytes []byte

func (h *HexBytes) UnmarshalText(text []byte) error {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' {
			return -1
		}
		return r
	}, string(text))
	buf, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid hex data: %w", err)
	}
	*h = buf
	return nil
}

func (h HexBytes) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(h)), nil
}

// SourceRef designates a request source, by name or by number.
type SourceRef struct {
	Name   string
	Number uint8
}

// UnmarshalTOML implements toml.Unmarshaler.
func (s *SourceRef) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case string:
		s.Name = v
	case int64:
		if v < 0 || v > 0x3F {
			return fmt.Errorf("source number %d out of range", v)
		}
		s.Number = uint8(v)
	default:
		return fmt.Errorf("source must be a name or a number, got %T", v)
	}
	return nil
}

func (s SourceRef) resolve(f *ldma.Family) (uint8, error) {
	if s.Name == "" {
		return s.Number, nil
	}
	n, ok := f.SourceByName(s.Name)
	if !ok {
		return 0, fmt.Errorf("%s has no source named %q", f.Name, s.Name)
	}
	return n, nil
}

// LoadScenario reads a scenario from a TOML file. Scenarios without a name
// are named after their file.
func LoadScenario(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc, err := ParseScenario(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// ParseScenario decodes and validates a TOML scenario.
func ParseScenario(r io.Reader) (*Scenario, error) {
	var sc Scenario
	md, err := toml.NewDecoder(r).Decode(&sc)
	if err != nil {
		return nil, err
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("unknown keys: %v", keys)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	var errs []error
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i+1, err))
		}
	}
	return errors.Join(errs...)
}

func (st *Step) validate() error {
	n := 0
	for _, set := range []bool{
		st.Write != nil,
		st.Read != nil,
		st.Signal != nil,
		st.Advance != nil,
		st.ExpectMem != nil,
		st.ExpectIRQ != nil,
		st.ExpectChannel != nil,
		st.ExpectSink != nil,
	} {
		if set {
			n++
		}
	}
	switch {
	case n == 0:
		return errors.New("no action")
	case n > 1:
		return errors.New("more than one action")
	case st.Write != nil:
		return checkWidth(st.Write.Width)
	case st.Read != nil:
		return checkWidth(st.Read.Width)
	case st.Advance != nil && *st.Advance < 0:
		return fmt.Errorf("negative advance %g", *st.Advance)
	}
	return nil
}

func checkWidth(w int) error {
	switch w {
	case 0, 8, 16, 32:
		return nil
	}
	return fmt.Errorf("invalid access width %d", w)
}

// Failure is an unmet expectation.
type Failure struct {
	Step int // 0-based
	Msg  string
}

func (f Failure) String() string {
	return fmt.Sprintf("step %d: %s", f.Step+1, f.Msg)
}

// Result is the outcome of a scenario run.
type Result struct {
	Name     string
	Failures []Failure
	State    *snapshot.Controller
}

// Failed reports whether at least one expectation wasn't met.
func (r *Result) Failed() bool { return len(r.Failures) != 0 }

// Build powers up the machine described by sc.
func (sc *Scenario) Build(cfg Config, tracer ldma.Tracer) (*Machine, error) {
	name := sc.Family
	if name == "" {
		name = cfg.General.Family
	}
	family, err := ldma.FamilyByName(name)
	if err != nil {
		return nil, err
	}

	layout := Layout{
		LDMABase: DefaultLDMABase,
		XbarBase: DefaultXbarBase,
		Regions:  sc.Memory,
		Sinks:    sc.Sinks,
	}
	if sc.LDMABase != nil {
		layout.LDMABase = *sc.LDMABase
	}
	if sc.XbarBase != nil {
		layout.XbarBase = *sc.XbarBase
	}
	if len(layout.Regions) == 0 {
		layout.Regions = []Region{DefaultRAM}
	}

	opts := cfg.Options()
	if sc.Options.WriteBack != nil {
		opts.WriteBack = *sc.Options.WriteBack
	}

	m, err := NewMachine(family, layout, opts)
	if err != nil {
		return nil, err
	}
	for _, pl := range sc.Load {
		if err := m.Load(pl.Addr, pl.Data); err != nil {
			return nil, err
		}
	}
	if tracer != nil {
		m.LDMA.SetTracer(tracer)
	}
	return m, nil
}

// Run builds the machine and executes every step, collecting unmet
// expectations. The returned error is only about the scenario itself or ctx
// cancellation, not about its expectations.
func (sc *Scenario) Run(ctx context.Context, cfg Config, tracer ldma.Tracer) (*Result, error) {
	m, err := sc.Build(cfg, tracer)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}

	res := &Result{Name: sc.Name}
	for i := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		msg, err := sc.exec(m, &sc.Steps[i])
		if err != nil {
			return nil, fmt.Errorf("scenario %s: step %d: %w", sc.Name, i+1, err)
		}
		if msg != "" {
			res.Failures = append(res.Failures, Failure{Step: i, Msg: msg})
			log.ModScenario.DebugZ("expectation failed").
				String("scenario", sc.Name).
				Int("step", i+1).
				String("msg", msg).
				End()
		}
	}
	res.State = m.LDMA.State()

	log.ModScenario.InfoZ("scenario done").
		String("scenario", sc.Name).
		Int("steps", len(sc.Steps)).
		Int("failures", len(res.Failures)).
		End()
	return res, nil
}

// exec executes a single step. It returns a non-empty message if an
// expectation isn't met.
func (sc *Scenario) exec(m *Machine, st *Step) (string, error) {
	switch {
	case st.Write != nil:
		w := st.Write
		log.ModScenario.DebugZ("write").Hex32("addr", w.Addr).Hex32("val", w.Value).End()
		switch w.Width {
		case 8:
			m.Bus.Write8(w.Addr, uint8(w.Value))
		case 16:
			m.Bus.Write16(w.Addr, uint16(w.Value))
		default:
			m.Bus.Write32(w.Addr, w.Value)
		}

	case st.Read != nil:
		r := st.Read
		var got uint32
		switch r.Width {
		case 8:
			got = uint32(m.Bus.Read8(r.Addr))
		case 16:
			got = uint32(m.Bus.Read16(r.Addr))
		default:
			got = m.Bus.Read32(r.Addr)
		}
		mask := ^uint32(0)
		if r.Mask != nil {
			mask = *r.Mask
		}
		if got&mask != r.Expect&mask {
			return fmt.Sprintf("read %#08x = %#x, want %#x (mask %#x)", r.Addr, got, r.Expect, mask), nil
		}

	case st.Signal != nil:
		s := st.Signal
		src, err := s.Source.resolve(m.LDMA.Family())
		if err != nil {
			return "", err
		}
		asserted := s.Asserted == nil || *s.Asserted
		m.LDMA.OnSignal(ldma.MakeSignal(src, s.Signal, s.Single), asserted)

	case st.Advance != nil:
		if err := m.Clock.Advance(sim.VTimeInSec(*st.Advance * 1e-6)); err != nil {
			return "", err
		}

	case st.ExpectMem != nil:
		e := st.ExpectMem
		got := make([]byte, len(e.Data))
		for i := range got {
			got[i] = m.Bus.Peek8(e.Addr + uint32(i))
		}
		if !bytes.Equal(got, e.Data) {
			return fmt.Sprintf("memory at %#08x = %x, want %x", e.Addr, got, []byte(e.Data)), nil
		}

	case st.ExpectIRQ != nil:
		want := ldma.Interrupts{Wide: st.ExpectIRQ.Wide, Channels: hwdefs.IRQLines(st.ExpectIRQ.Channels)}
		if got := m.LDMA.IRQ(); got != want {
			return fmt.Sprintf("irq = %v, want %v", got, want), nil
		}

	case st.ExpectChannel != nil:
		return expectChannel(m.LDMA, st.ExpectChannel), nil

	case st.ExpectSink != nil:
		e := st.ExpectSink
		got, ok := m.SinkData(e.Name)
		if !ok {
			return "", fmt.Errorf("no sink named %q", e.Name)
		}
		if !bytes.Equal(got, e.Data) {
			return fmt.Sprintf("sink %s received %x, want %x", e.Name, got, []byte(e.Data)), nil
		}
	}
	return "", nil
}

func expectChannel(c *ldma.Controller, e *ExpectChannelStep) string {
	if e.Index < 0 || e.Index >= len(c.Channels()) {
		return fmt.Sprintf("no channel %d", e.Index)
	}
	ch := c.Channel(e.Index)

	var diffs []string
	check := func(name string, want *bool, got bool) {
		if want != nil && *want != got {
			diffs = append(diffs, fmt.Sprintf("%s=%t, want %t", name, got, *want))
		}
	}
	check("done", e.Done, ch.Done())
	check("enabled", e.Enabled, ch.Enabled())
	check("busy", e.Busy, ch.Busy())
	if e.State != "" && !strings.EqualFold(e.State, ch.State().String()) {
		diffs = append(diffs, fmt.Sprintf("state=%s, want %s", ch.State(), e.State))
	}
	if len(diffs) == 0 {
		return ""
	}
	return fmt.Sprintf("channel %d: %s", e.Index, strings.Join(diffs, ", "))
}
