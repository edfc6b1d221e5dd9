// Package clock provides the virtual time base of the simulation: an ordered
// queue of future events, drained up to a target time.
package clock

import (
	"fmt"

	"github.com/sarchlab/akita/v4/sim"

	"ldmasim/emu/log"
)

// Times are compared at this resolution, so that floating point rounding in
// period computations never reorders events.
const resolution = sim.GHz

// Clock is a single-threaded virtual clock. Events are run in time order by
// RunUntil. The order of events scheduled at the same time is unspecified but
// deterministic.
type Clock struct {
	queue sim.EventQueue
	now   sim.VTimeInSec
}

func New() *Clock {
	return &Clock{queue: sim.NewEventQueue()}
}

// Now returns the current virtual time.
func (c *Clock) Now() sim.VTimeInSec {
	return c.now
}

// Cycle returns the current virtual time, as a number of cycles of f.
func (c *Clock) Cycle(f sim.Freq) uint64 {
	return f.Cycle(c.now)
}

// Pending returns the number of scheduled events.
func (c *Clock) Pending() int {
	return c.queue.Len()
}

// Schedule adds an event to the queue. Events in the past are run at the
// next call to RunUntil.
func (c *Clock) Schedule(evt sim.Event) {
	c.queue.Push(evt)
}

func before(a, b sim.VTimeInSec) bool {
	return resolution.Cycle(a) <= resolution.Cycle(b)
}

// RunUntil runs all events scheduled at or before t, in order, then sets the
// current time to t. Events scheduled by handlers are run too if they fall
// within t. The first handler error stops the run and is returned.
func (c *Clock) RunUntil(t sim.VTimeInSec) error {
	if t < c.now {
		return fmt.Errorf("clock: cannot go back in time (now %v, target %v)", c.now, t)
	}

	for c.queue.Len() > 0 {
		next := c.queue.Peek()
		if !before(next.Time(), t) {
			break
		}
		evt := c.queue.Pop()
		if evt.Time() > c.now {
			c.now = evt.Time()
		}

		log.ModClock.DebugZ("event").
			Stringer("time", vtime(c.now)).
			End()

		if err := evt.Handler().Handle(evt); err != nil {
			return fmt.Errorf("clock: event at %v: %w", vtime(c.now), err)
		}
	}
	c.now = t
	return nil
}

// Advance runs the clock for the duration d.
func (c *Clock) Advance(d sim.VTimeInSec) error {
	return c.RunUntil(c.now + d)
}

type vtime sim.VTimeInSec

func (t vtime) String() string {
	return fmt.Sprintf("%.3fus", float64(t)*1e6)
}
