package roadmap

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid triggers into one deferred execution. Arm
// schedules the function after the fixed delay, restarting the clock if
// a timer is already pending; Cancel drops any pending execution;
// Flush runs a pending execution immediately. At most one execution is
// pending at a time.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()
}

// NewDebouncer creates a debouncer with a fixed delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Arm schedules fn after the delay, replacing any pending execution.
func (d *Debouncer) Arm(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()

		fn := d.pending
		d.pending = nil
		d.timer = nil

		d.mu.Unlock()

		if fn != nil {
			fn()
		}
	})
}

// Cancel drops the pending execution, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.pending = nil
}

// Flush executes the pending function immediately, if any.
func (d *Debouncer) Flush() {
	d.mu.Lock()

	fn := d.pending
	d.pending = nil

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}

	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Pending reports whether an execution is currently scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.pending != nil
}
