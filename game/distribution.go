package game

import "math/rand"

// Distribution picks items in proportion to integer weights. Each unit of
// weight is one slot in a flat table, so a pick is one random index.
type Distribution[T any] struct {
	slots []T
}

// NewDistribution expands the weights of items into the slot table. Items with
// a zero or negative weight can never be picked.
func NewDistribution[T any](items []T, weight func(T) int) *Distribution[T] {
	total := 0
	for _, it := range items {
		if w := weight(it); w > 0 {
			total += w
		}
	}
	slots := make([]T, 0, total)
	for _, it := range items {
		for i := 0; i < weight(it); i++ {
			slots = append(slots, it)
		}
	}
	return &Distribution[T]{slots: slots}
}

// Total is the sum of all positive weights.
func (d *Distribution[T]) Total() int {
	return len(d.slots)
}

// Pick draws one item. ok is false when every weight was zero.
func (d *Distribution[T]) Pick(rng *rand.Rand) (item T, ok bool) {
	if len(d.slots) == 0 {
		return item, false
	}
	return d.slots[rng.Intn(len(d.slots))], true
}
