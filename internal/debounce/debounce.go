// Package debounce runs the last of a burst of calls after a quiet period.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDelay is the quiet period used by the search widget.
const DefaultDelay = 300 * time.Millisecond

// Debouncer schedules at most one pending call. Scheduling again replaces
// the pending call and restarts the delay.
type Debouncer struct {
	clock clockwork.Clock
	delay time.Duration

	mu    sync.Mutex
	timer clockwork.Timer
	gen   uint64
}

// New returns a Debouncer on the given clock. A nil clock means the real one
// and a non-positive delay means DefaultDelay.
func New(clock clockwork.Clock, delay time.Duration) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{clock: clock, delay: delay}
}

// Delay reports the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule cancels any pending call and runs fn once the delay has passed
// without another Schedule. The returned function cancels this particular
// call and reports whether it was still pending.
func (d *Debouncer) Schedule(fn func()) (cancel func() bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.gen != gen {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.gen++
		d.mu.Unlock()
		fn()
	})

	return func() bool {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.gen != gen {
			return false
		}
		return d.stopLocked()
	}
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

// Pending reports whether a call is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// stopLocked bumps the generation so a timer that already fired but has not
// taken the lock yet sees itself as stale.
func (d *Debouncer) stopLocked() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}
