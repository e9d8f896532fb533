package tick_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/delaneyj/storeparty/tick"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualSchedulerFlushRunsInOrder(t *testing.T) {
	s := tick.NewManualScheduler()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		s.ScheduleOnce(func() { order = append(order, i) })
	}
	assert.Equal(t, 3, s.Len())

	assert.Equal(t, 3, s.Flush())
	assert.Equal(t, []int{0, 1, 2}, order)
	assert.Zero(t, s.Len())
	assert.Zero(t, s.Flush())
}

// callbacks scheduled during a flush wait for the next tick
func TestManualSchedulerDefersNestedSchedules(t *testing.T) {
	s := tick.NewManualScheduler()

	nested := 0
	s.ScheduleOnce(func() {
		s.ScheduleOnce(func() { nested++ })
	})

	assert.Equal(t, 1, s.Flush())
	assert.Zero(t, nested)
	assert.Equal(t, 1, s.Flush())
	assert.Equal(t, 1, nested)
}

func TestHandleStopPreventsRun(t *testing.T) {
	s := tick.NewManualScheduler()

	ran := false
	h := s.ScheduleOnce(func() { ran = true })

	assert.True(t, h.Stop())
	assert.False(t, h.Stop(), "second stop finds nothing to cancel")

	assert.Zero(t, s.Flush())
	assert.False(t, ran)
}

func TestHandleStopAfterRun(t *testing.T) {
	s := tick.NewManualScheduler()
	h := s.ScheduleOnce(func() {})
	s.Flush()
	assert.False(t, h.Stop())
}

func TestNilHandleStop(t *testing.T) {
	var h *tick.Handle
	assert.False(t, h.Stop())
}

func TestTimerSchedulerRunsCallback(t *testing.T) {
	s := tick.NewTimerScheduler(time.Millisecond)

	done := make(chan struct{})
	s.ScheduleOnce(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never ran")
	}
}

func TestTimerSchedulerStopCancels(t *testing.T) {
	s := tick.NewTimerScheduler(20 * time.Millisecond)

	var ran atomic.Bool
	h := s.ScheduleOnce(func() { ran.Store(true) })
	require.True(t, h.Stop())

	time.Sleep(60 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestFrameSchedulerDrainsPerFrame(t *testing.T) {
	s := tick.NewFrameScheduler(time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	done := make(chan struct{})
	s.ScheduleOnce(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("frame loop never drained")
	}

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("frame loop never stopped")
	}
}

func TestDefaultSchedulerSwap(t *testing.T) {
	prev := tick.Default()
	defer tick.SetDefault(prev)

	manual := tick.NewManualScheduler()
	tick.SetDefault(manual)
	assert.Same(t, tick.Scheduler(manual), tick.Default())

	// nil installs nothing
	tick.SetDefault(nil)
	assert.Same(t, tick.Scheduler(manual), tick.Default())
}
