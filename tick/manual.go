package tick

import (
	"sync"

	"github.com/eapache/queue"
)

type task struct {
	h  *Handle
	fn func()
}

// ManualScheduler holds callbacks until someone flushes them. Ticks are
// whatever the caller says they are, which makes it the scheduler of choice
// for tests and benchmarks.
type ManualScheduler struct {
	mu      sync.Mutex
	pending *queue.Queue
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: queue.New()}
}

func (s *ManualScheduler) ScheduleOnce(fn func()) *Handle {
	h := &Handle{}
	s.mu.Lock()
	s.pending.Add(&task{h: h, fn: fn})
	s.mu.Unlock()
	return h
}

// Len reports how many callbacks are waiting, stopped ones included.
func (s *ManualScheduler) Len() int {
	s.mu.Lock()
	n := s.pending.Length()
	s.mu.Unlock()
	return n
}

// Flush runs every callback scheduled before the call, in schedule order,
// and returns how many actually ran. Callbacks scheduled during the flush
// wait for the next one.
func (s *ManualScheduler) Flush() int {
	s.mu.Lock()
	tasks := make([]*task, 0, s.pending.Length())
	for s.pending.Length() > 0 {
		tasks = append(tasks, s.pending.Remove().(*task))
	}
	s.mu.Unlock()

	ran := 0
	for _, t := range tasks {
		if t.h.begin() {
			t.fn()
			ran++
		}
	}
	return ran
}
