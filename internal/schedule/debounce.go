// Package schedule provides the cancel-and-reschedule trailing-task
// abstraction behind the two debounced lanes in the editor: selection
// coalescing and transcript persistence.
package schedule

import (
	"sync"
	"time"
)

// Debouncer runs a task once, a fixed delay after the most recent Schedule
// call. Each Schedule cancels the previous pending run. Safe for
// concurrent use.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	task  func()
}

// NewDebouncer creates a debouncer with the given trailing delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule arms the debouncer with task. Any previously pending task is
// cancelled; task fires after the delay unless rescheduled again.
func (d *Debouncer) Schedule(task func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.task = task
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		t := d.task
		d.task = nil
		d.timer = nil
		d.mu.Unlock()
		if t != nil {
			t()
		}
	})
}

// Flush runs any pending task immediately instead of waiting out the delay.
// Used on shutdown so a trailing persistence write is not lost.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	t := d.task
	d.task = nil
	d.mu.Unlock()

	if t != nil {
		t()
	}
}

// Stop cancels any pending task without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.task = nil
}

// Pending reports whether a task is scheduled and not yet run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.task != nil
}
