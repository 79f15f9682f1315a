package gating

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of triggers into one delayed run. There is at
// most one armed task; every Trigger re-arms it. fn is called without any
// Debouncer lock held and must read its inputs at call time.
type Debouncer struct {
	mu      sync.Mutex
	sched   Scheduler
	window  time.Duration
	fn      func()
	timer   Timer
	gen     uint64
	stopped bool
}

// NewDebouncer creates a debouncer. A nil scheduler uses SystemScheduler.
func NewDebouncer(sched Scheduler, window time.Duration, fn func()) *Debouncer {
	if sched == nil {
		sched = SystemScheduler{}
	}
	return &Debouncer{sched: sched, window: window, fn: fn}
}

// Trigger (re)arms the delayed run.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.sched.AfterFunc(d.window, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Pending reports whether a run is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil && !d.stopped
}

// Flush runs an armed task immediately. It reports whether anything ran.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.stopped || d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	d.mu.Unlock()
	d.fn()
	return true
}

// Stop cancels any armed task; later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
