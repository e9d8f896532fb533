package tick

import "time"

// TimerScheduler defers callbacks through the runtime timer wheel. A zero
// delay still defers: the callback runs on a timer goroutine, never inline
// with the caller.
type TimerScheduler struct {
	delay time.Duration
}

func NewTimerScheduler(delay time.Duration) *TimerScheduler {
	if delay < 0 {
		delay = 0
	}
	return &TimerScheduler{delay: delay}
}

func (s *TimerScheduler) ScheduleOnce(fn func()) *Handle {
	h := &Handle{}
	t := time.AfterFunc(s.delay, func() {
		if h.begin() {
			fn()
		}
	})
	h.stop = func() { t.Stop() }
	return h
}
