// Package tick provides the scheduling primitive behind debounced commits:
// schedule a callback for a future tick, cancel it if it hasn't run yet.
package tick

import (
	"sync"
	"sync/atomic"
)

// Handle refers to a single scheduled callback. Each callback runs at most
// once; a handle that was stopped first never runs.
type Handle struct {
	claimed atomic.Bool
	stop    func()
}

// begin claims the callback for execution. Returns false if the callback
// was already stopped or already ran.
func (h *Handle) begin() bool {
	return h.claimed.CompareAndSwap(false, true)
}

// Stop cancels the callback. Returns false if it already ran or was
// already stopped.
func (h *Handle) Stop() bool {
	if h == nil {
		return false
	}
	if !h.claimed.CompareAndSwap(false, true) {
		return false
	}
	if h.stop != nil {
		h.stop()
	}
	return true
}

// Scheduler schedules callbacks onto some future tick.
type Scheduler interface {
	ScheduleOnce(fn func()) *Handle
}

var (
	defaultMu    sync.RWMutex
	defaultSched Scheduler = NewTimerScheduler(0)
)

// Default returns the process-wide scheduler. Unless SetDefault was called
// it is a zero-delay timer scheduler.
func Default() Scheduler {
	defaultMu.RLock()
	s := defaultSched
	defaultMu.RUnlock()
	return s
}

// SetDefault installs the process-wide scheduler. Hosts that drive a frame
// loop should call this once at startup, before any cells are created.
func SetDefault(s Scheduler) {
	if s == nil {
		return
	}
	defaultMu.Lock()
	defaultSched = s
	defaultMu.Unlock()
}
