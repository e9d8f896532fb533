package tick

import (
	"context"
	"time"
)

// DefaultFrameInterval matches a 60fps render loop.
const DefaultFrameInterval = time.Second / 60

// FrameScheduler aligns callbacks to a fixed-rate frame loop: everything
// scheduled during a frame runs together at the start of the next one.
type FrameScheduler struct {
	*ManualScheduler
	interval time.Duration
}

func NewFrameScheduler(interval time.Duration) *FrameScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameScheduler{
		ManualScheduler: NewManualScheduler(),
		interval:        interval,
	}
}

// Run drives the frame loop until ctx is cancelled, draining pending
// callbacks once per frame.
func (s *FrameScheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Flush()
		}
	}
}
