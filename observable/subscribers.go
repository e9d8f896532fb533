package observable

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Listener receives the committed value and the value it replaced.
type Listener[T any] func(next, prev T)

// subscription is the identity token for one registration. Go funcs are
// not comparable, so each Subscribe call gets its own token.
type subscription[T any] struct {
	fn Listener[T]
}

// registry tracks subscriber tokens with set membership for identity and a
// slice for insertion-ordered fan-out. Mutation happens under the owning
// cell's lock; fan-out happens outside it against a snapshot.
type registry[T any] struct {
	members mapset.Set[*subscription[T]]
	ordered []*subscription[T]
}

func newRegistry[T any]() *registry[T] {
	return &registry[T]{members: mapset.NewSet[*subscription[T]]()}
}

func (r *registry[T]) add(sub *subscription[T]) {
	if r.members.Add(sub) {
		r.ordered = append(r.ordered, sub)
	}
}

func (r *registry[T]) remove(sub *subscription[T]) {
	if !r.members.Contains(sub) {
		return
	}
	r.members.Remove(sub)
	for i, s := range r.ordered {
		if s == sub {
			r.ordered = append(r.ordered[:i], r.ordered[i+1:]...)
			break
		}
	}
}

func (r *registry[T]) clear() {
	r.members.Clear()
	r.ordered = nil
}

func (r *registry[T]) size() int {
	return len(r.ordered)
}

func (r *registry[T]) snapshot() []*subscription[T] {
	if len(r.ordered) == 0 {
		return nil
	}
	subs := make([]*subscription[T], len(r.ordered))
	copy(subs, r.ordered)
	return subs
}

// fanout calls every subscriber in subs, in insertion order. Membership is
// rechecked before each call, so a subscriber removed mid-pass is skipped
// while everyone present at the start is called at most once. Panics in
// subscriber callbacks are not recovered and abort the rest of the pass.
func (r *registry[T]) fanout(subs []*subscription[T], next, prev T) {
	for _, sub := range subs {
		if r.members.Contains(sub) {
			sub.fn(next, prev)
		}
	}
}
