package observable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryAddIsIdempotentPerToken(t *testing.T) {
	r := newRegistry[int]()
	sub := &subscription[int]{fn: func(int, int) {}}

	r.add(sub)
	r.add(sub)
	assert.Equal(t, 1, r.size())

	other := &subscription[int]{fn: func(int, int) {}}
	r.add(other)
	assert.Equal(t, 2, r.size())
}

func TestRegistryRemoveAbsentIsNoop(t *testing.T) {
	r := newRegistry[int]()
	sub := &subscription[int]{fn: func(int, int) {}}

	r.remove(sub)
	assert.Zero(t, r.size())

	r.add(sub)
	r.remove(sub)
	r.remove(sub)
	assert.Zero(t, r.size())
}

func TestRegistryPreservesInsertionOrder(t *testing.T) {
	r := newRegistry[int]()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		r.add(&subscription[int]{fn: func(int, int) {
			order = append(order, i)
		}})
	}

	r.fanout(r.snapshot(), 1, 0)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestRegistryClearEmptiesMembership(t *testing.T) {
	r := newRegistry[int]()
	calls := 0
	r.add(&subscription[int]{fn: func(int, int) { calls++ }})
	r.add(&subscription[int]{fn: func(int, int) { calls++ }})

	snap := r.snapshot()
	r.clear()
	assert.Zero(t, r.size())

	// a snapshot taken before clear finds nobody left to call
	r.fanout(snap, 1, 0)
	assert.Zero(t, calls)
}
