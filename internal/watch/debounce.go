package watch

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into one callback.
type Debouncer struct {
	window   time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	callback func()
}

// NewDebouncer creates a debouncer firing callback window after the last trigger.
func NewDebouncer(window time.Duration, callback func()) *Debouncer {
	return &Debouncer{window: window, callback: callback}
}

// Trigger restarts the window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.callback)
}

// Stop cancels a pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
