// Package calc holds the reactive calculation sessions behind the
// interactive surfaces. A session owns one calculator's input, recomputes
// the full result on every edit, and persists a snapshot through a
// RecordSaver once the input has been quiet for the debounce window.
package calc

import (
	"sync"
	"time"
)

// Debouncer runs a function once the caller has been quiet for the
// configured delay. At most one fire is pending; Arm replaces any pending
// timer. After Stop the debouncer is dead and Arm is a no-op.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Arm schedules fn after the quiet window, replacing any pending timer.
func (d *Debouncer) Arm(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending fire and disables the debouncer. Calling Stop
// more than once is safe. A function already running keeps running.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
