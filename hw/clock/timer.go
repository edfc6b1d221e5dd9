package clock

import (
	"github.com/sarchlab/akita/v4/sim"

	"ldmasim/emu/log"
)

// Timer is a periodic timer counting at Freq, calling OnTick every Limit
// counts while enabled.
type Timer struct {
	Name  string
	Freq  sim.Freq
	Limit int

	OnTick func()

	clk     *Clock
	enabled bool

	// Incremented each time the timer is disarmed: events scheduled by a
	// previous arming are ignored when they fire.
	gen uint64
}

type tickEvent struct {
	*sim.EventBase
	gen uint64
}

func NewTimer(clk *Clock, name string, freq sim.Freq, limit int, onTick func()) *Timer {
	return &Timer{
		Name:   name,
		Freq:   freq,
		Limit:  limit,
		OnTick: onTick,
		clk:    clk,
	}
}

// Period returns the virtual time between two ticks.
func (t *Timer) Period() sim.VTimeInSec {
	return t.Freq.Period() * sim.VTimeInSec(t.Limit)
}

func (t *Timer) Enabled() bool {
	return t.enabled
}

// SetEnabled arms or disarms the timer. Arming an already armed timer does
// not restart its period.
func (t *Timer) SetEnabled(enabled bool) {
	if t.enabled == enabled {
		return
	}
	t.enabled = enabled
	if enabled {
		log.ModClock.DebugZ("timer armed").String("name", t.Name).End()
		t.schedule()
		return
	}
	log.ModClock.DebugZ("timer disarmed").String("name", t.Name).End()
	t.gen++
}

// Reset disarms the timer.
func (t *Timer) Reset() {
	t.SetEnabled(false)
}

func (t *Timer) schedule() {
	when := t.Freq.NCyclesLater(t.Limit, t.clk.Now())
	t.clk.Schedule(tickEvent{EventBase: sim.NewEventBase(when, t), gen: t.gen})
}

// Handle implements sim.Handler.
func (t *Timer) Handle(e sim.Event) error {
	evt := e.(tickEvent)
	if !t.enabled || evt.gen != t.gen {
		return nil
	}

	// Re-arm before ticking, so that OnTick can disarm.
	t.schedule()
	if t.OnTick != nil {
		t.OnTick()
	}
	return nil
}
