// Package chance provides weighted random selection.
package chance

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrEmpty is returned when picking from a table with no entries.
var ErrEmpty = errors.New("chance: empty table")

type entry[T any] struct {
	item   T
	weight float64
}

// Table is a weighted set of outcomes.
type Table[T any] struct {
	entries []entry[T]
	total   float64
}

// New creates an empty table.
func New[T any]() *Table[T] {
	return &Table[T]{}
}

// Add registers an outcome. Weights must be positive.
func (t *Table[T]) Add(item T, weight float64) error {
	if weight <= 0 {
		return fmt.Errorf("chance: weight %f must be positive", weight)
	}
	t.entries = append(t.entries, entry[T]{item: item, weight: weight})
	t.total += weight
	return nil
}

// Len returns the number of outcomes.
func (t *Table[T]) Len() int {
	return len(t.entries)
}

// Total returns the summed weight of all outcomes.
func (t *Table[T]) Total() float64 {
	return t.total
}

// Pick draws a uniform value in [0, total) and returns the outcome whose
// cumulative weight interval contains it.
func (t *Table[T]) Pick(rng *rand.Rand) (T, error) {
	var zero T
	if len(t.entries) == 0 {
		return zero, ErrEmpty
	}

	roll := rng.Float64() * t.total
	cumulative := 0.0
	for _, e := range t.entries {
		cumulative += e.weight
		if roll < cumulative {
			return e.item, nil
		}
	}
	// Float rounding can leave roll == cumulative on the last entry.
	return t.entries[len(t.entries)-1].item, nil
}
