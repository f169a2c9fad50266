package navigation

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of calls: each Trigger cancels the pending one
// and restarts the window, so only the last callback scheduled fires.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timer   *time.Timer
	seq     uint64
	stopped bool
}

func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Trigger schedules fn to run after the window. A zero window runs fn
// synchronously.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	seq := d.seq

	if d.window <= 0 {
		d.mu.Unlock()
		fn()
		return
	}

	d.timer = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		// A later Trigger or Cancel may have raced with the timer firing.
		if d.stopped || seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
	d.mu.Unlock()
}

// Pending reports whether a callback is scheduled and has not fired yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops the pending callback, if any. The debouncer stays usable.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

// Stop cancels the pending callback and ignores every later Trigger.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
