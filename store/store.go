// Package store composes an observable cell with a caller-defined set of
// actions closed over that cell.
package store

import "github.com/delaneyj/storeparty/observable"

// Store merges cell accessors and actions. Cell methods are promoted from
// the embedded observable; actions live behind the Actions field, so an
// action name can never shadow Get, Set, Subscribe or Clear. That is the
// whole collision policy: the cell always wins, deterministically.
type Store[S comparable, A any] struct {
	*observable.Observable[S]
	Actions A
}

// New builds a cell from initial, runs factory once against it, and
// returns both merged.
func New[S comparable, A any](
	initial S,
	factory func(*observable.Observable[S]) A,
	opts ...observable.Option[S],
) *Store[S, A] {
	return compose(observable.New(initial, opts...), factory)
}

// NewFrom is New with the initial state built by produce, evaluated once,
// eagerly, at construction.
func NewFrom[S comparable, A any](
	produce func() S,
	factory func(*observable.Observable[S]) A,
	opts ...observable.Option[S],
) *Store[S, A] {
	return compose(observable.NewFrom(produce, opts...), factory)
}

func compose[S comparable, A any](
	obs *observable.Observable[S],
	factory func(*observable.Observable[S]) A,
) *Store[S, A] {
	s := &Store[S, A]{Observable: obs}
	if factory != nil {
		s.Actions = factory(obs)
	}
	return s
}
