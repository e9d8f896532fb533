// Package observable provides a single-value reactive cell with debounced,
// batched change notification. Writes coalesce: any number of writes
// between two scheduler ticks produce at most one commit, carrying the
// committed value from before the batch and the last written value.
package observable

import (
	"fmt"
	"log"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/storeparty/tick"
)

// ErrorHandler is told about a resolver that panicked during Update. prior
// is the committed value the resolver was called with.
type ErrorHandler[T any] func(prior T, err error)

// Observable is a single mutable value. Reads see the committed value;
// writes land on a pending value that is committed on the next scheduler
// tick, or synchronously for the *Now variants.
type Observable[T comparable] struct {
	mu      sync.Mutex
	name    string
	id      uint64
	current T
	future  T
	pending bool
	handle  *tick.Handle
	sched   tick.Scheduler
	subs    *registry[T]
	onError ErrorHandler[T]
}

type Option[T comparable] func(*Observable[T])

// WithScheduler overrides tick.Default for this cell.
func WithScheduler[T comparable](s tick.Scheduler) Option[T] {
	return func(o *Observable[T]) { o.sched = s }
}

// WithName labels the cell in resolver-failure logs.
func WithName[T comparable](name string) Option[T] {
	return func(o *Observable[T]) { o.name = name }
}

// WithErrorHandler replaces the default log-based resolver-failure handler.
func WithErrorHandler[T comparable](fn ErrorHandler[T]) Option[T] {
	return func(o *Observable[T]) { o.onError = fn }
}

func New[T comparable](initial T, opts ...Option[T]) *Observable[T] {
	o := &Observable[T]{
		current: initial,
		future:  initial,
		subs:    newRegistry[T](),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.sched == nil {
		o.sched = tick.Default()
	}
	if o.name == "" {
		o.name = fmt.Sprintf("observable@%p", o)
	}
	o.id = xxhash.Sum64String(o.name)
	if o.onError == nil {
		name, id := o.name, o.id
		o.onError = func(prior T, err error) {
			log.Printf("%s(%016x): resolver failed, prior state %v: %v", name, id, prior, err)
		}
	}
	return o
}

// NewFrom builds a cell from a producer, evaluated once, eagerly, before
// the cell exists. Reads never invoke the producer again.
func NewFrom[T comparable](produce func() T, opts ...Option[T]) *Observable[T] {
	return New(produce(), opts...)
}

// Name returns the cell's label.
func (o *Observable[T]) Name() string { return o.name }

// ID returns the xxhash of the cell's label.
func (o *Observable[T]) ID() uint64 { return o.id }

// Get returns the committed value. It never blocks and has no side effects.
func (o *Observable[T]) Get() T {
	o.mu.Lock()
	v := o.current
	o.mu.Unlock()
	return v
}

// Pending reports whether a batch is open, i.e. a write happened whose
// commit hasn't run yet.
func (o *Observable[T]) Pending() bool {
	o.mu.Lock()
	p := o.pending
	o.mu.Unlock()
	return p
}

// Set writes v into the pending value. The first write of a batch
// schedules a commit on the next tick; writes after that just replace the
// pending value, so subscribers see only the last one.
func (o *Observable[T]) Set(v T) { o.write(v, false) }

// SetNow writes v and commits synchronously before returning, cancelling
// any scheduled commit so a stale tick can't re-fire with a superseded
// pending value.
func (o *Observable[T]) SetNow(v T) { o.write(v, true) }

// Update writes fn(committed value) like Set. fn runs outside the cell
// lock; Update is not atomic across goroutines.
func (o *Observable[T]) Update(fn func(T) T) { o.write(o.resolve(fn), false) }

// UpdateNow writes fn(committed value) like SetNow.
func (o *Observable[T]) UpdateNow(fn func(T) T) { o.write(o.resolve(fn), true) }

// Flush commits any open batch immediately. Without an open batch it is a
// no-op. The pending value is left as-is.
func (o *Observable[T]) Flush() { o.commit() }

// Subscribe registers fn for commit notifications. The returned function
// removes exactly this registration and is safe to call more than once.
// Subscriber panics are not recovered: a panicking subscriber aborts the
// rest of the fan-out and propagates to whoever drove the commit.
func (o *Observable[T]) Subscribe(fn Listener[T]) (unsub func()) {
	if fn == nil {
		return func() {}
	}
	sub := &subscription[T]{fn: fn}
	o.mu.Lock()
	o.subs.add(sub)
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			o.subs.remove(sub)
			o.mu.Unlock()
		})
	}
}

// Subscribers reports how many registrations are live.
func (o *Observable[T]) Subscribers() int {
	o.mu.Lock()
	n := o.subs.size()
	o.mu.Unlock()
	return n
}

// Clear drops every subscriber. The cell stays readable and writable and a
// scheduled commit still runs, just with nobody listening.
func (o *Observable[T]) Clear() {
	o.mu.Lock()
	o.subs.clear()
	o.mu.Unlock()
}

// resolve runs fn against the committed value. A panicking resolver is
// reported through the error handler and the write degrades to
// re-asserting the committed value; the panic never reaches the caller.
func (o *Observable[T]) resolve(fn func(T) T) (next T) {
	prior := o.Get()
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("%v", r)
			}
			o.onError(prior, err)
			next = prior
		}
	}()
	return fn(prior)
}

func (o *Observable[T]) write(v T, immediate bool) {
	o.mu.Lock()
	o.future = v
	if immediate {
		if o.handle != nil {
			o.handle.Stop()
			o.handle = nil
		}
		o.pending = true
		o.mu.Unlock()
		o.commit()
		return
	}
	if !o.pending {
		o.pending = true
		o.handle = o.sched.ScheduleOnce(o.commit)
	}
	o.mu.Unlock()
}

// commit moves the pending value into the committed one and fans out
// (next, prev) to subscribers. A stale invocation, one whose batch was
// already consumed by an immediate write, is a no-op. So is a batch whose
// value equals the committed one: no spurious events for no-op writes.
func (o *Observable[T]) commit() {
	o.mu.Lock()
	if !o.pending {
		o.mu.Unlock()
		return
	}
	o.pending = false
	if o.handle != nil {
		o.handle.Stop()
		o.handle = nil
	}
	if o.current == o.future {
		o.mu.Unlock()
		return
	}
	prev := o.current
	o.current = o.future
	next := o.current
	subs := o.subs.snapshot()
	o.mu.Unlock()

	o.subs.fanout(subs, next, prev)
}
