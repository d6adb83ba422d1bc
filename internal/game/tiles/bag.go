package tiles

import (
	"cmp"
	"maps"
	"slices"
)

// Bag is a weighted multiset: each key maps to a non-negative count.
// Keys are always visited in ascending order so that seeded sampling and
// rendering are reproducible regardless of map iteration order.
type Bag[K cmp.Ordered] struct {
	counts map[K]int
}

// NewBag creates an empty bag.
func NewBag[K cmp.Ordered]() Bag[K] {
	return Bag[K]{counts: make(map[K]int)}
}

// BagOf builds a bag from a plain count map. Non-positive entries are dropped.
func BagOf[K cmp.Ordered](counts map[K]int) Bag[K] {
	b := NewBag[K]()
	for k, n := range counts {
		b.Add(k, n)
	}
	return b
}

// Add puts n items of key k into the bag. Non-positive amounts are ignored.
func (b *Bag[K]) Add(k K, n int) {
	if n <= 0 {
		return
	}
	if b.counts == nil {
		b.counts = make(map[K]int)
	}
	b.counts[k] += n
}

// Merge adds every entry of other into b.
func (b *Bag[K]) Merge(other Bag[K]) {
	for _, k := range other.Keys() {
		b.Add(k, other.counts[k])
	}
}

// Remove takes up to n items of key k out of the bag and reports how many were removed.
func (b *Bag[K]) Remove(k K, n int) int {
	have := b.counts[k]
	if n <= 0 || have == 0 {
		return 0
	}
	if n > have {
		n = have
	}
	if have == n {
		delete(b.counts, k)
	} else {
		b.counts[k] = have - n
	}
	return n
}

// RemoveAll takes every item of key k out of the bag.
func (b *Bag[K]) RemoveAll(k K) int {
	n := b.counts[k]
	delete(b.counts, k)
	return n
}

// Count returns the number of items of key k.
func (b Bag[K]) Count(k K) int {
	return b.counts[k]
}

// Total returns the number of items across all keys.
func (b Bag[K]) Total() int {
	total := 0
	for _, n := range b.counts {
		total += n
	}
	return total
}

// Empty reports whether the bag holds nothing.
func (b Bag[K]) Empty() bool {
	return b.Total() == 0
}

// Keys returns the keys with a positive count, ascending.
func (b Bag[K]) Keys() []K {
	return slices.Sorted(maps.Keys(b.counts))
}

// Drain empties the bag and returns its former contents.
func (b *Bag[K]) Drain() Bag[K] {
	out := Bag[K]{counts: b.counts}
	if out.counts == nil {
		out.counts = make(map[K]int)
	}
	b.counts = make(map[K]int)
	return out
}

// Clone returns an independent copy.
func (b Bag[K]) Clone() Bag[K] {
	out := NewBag[K]()
	for k, n := range b.counts {
		out.counts[k] = n
	}
	return out
}

// Map returns a plain copy of the counts.
func (b Bag[K]) Map() map[K]int {
	out := make(map[K]int, len(b.counts))
	for k, n := range b.counts {
		out[k] = n
	}
	return out
}
