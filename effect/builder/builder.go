// Package builder decouples how traversal results are gathered (slice,
// map, fold, discard) from the aggregation algorithms that produce them.
//
// A Builder is a single-use mutable accumulator: Add ingests one item,
// Finish yields the collected value. Behavior of Add after Finish is
// unspecified, and after a short-circuited traversal the builder contents
// are undefined — callers must not inspect a builder once the traversal it
// was handed to has halted.
package builder

// Builder accumulates items of type T into a final value of type R.
type Builder[T, R any] interface {
	Add(item T)
	Finish() R
}

// --- append to slice ---

type sliceBuilder[T any] struct {
	items []T
}

// Slice returns a builder that appends items in call order.
func Slice[T any]() Builder[T, []T] {
	return &sliceBuilder[T]{}
}

func (b *sliceBuilder[T]) Add(item T) { b.items = append(b.items, item) }
func (b *sliceBuilder[T]) Finish() []T {
	items := b.items
	b.items = nil
	return items
}

// --- assign by key ---

// Entry is a key-value pair for map-building traversals.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

type keyBuilder[K comparable, V any] struct {
	entries map[K]V
}

// ByKey returns a builder that assembles a map from Entry pairs.
func ByKey[K comparable, V any]() Builder[Entry[K, V], map[K]V] {
	return &keyBuilder[K, V]{entries: make(map[K]V)}
}

func (b *keyBuilder[K, V]) Add(e Entry[K, V]) { b.entries[e.Key] = e.Value }
func (b *keyBuilder[K, V]) Finish() map[K]V {
	entries := b.entries
	b.entries = nil
	return entries
}

// --- associative fold ---

type foldBuilder[T, R any] struct {
	acc     R
	combine func(R, T) R
}

// Fold returns a builder seeded with init that folds every item into the
// accumulator with combine. combine must be associative with respect to
// the items for concurrent use.
func Fold[T, R any](init R, combine func(R, T) R) Builder[T, R] {
	return &foldBuilder[T, R]{acc: init, combine: combine}
}

func (b *foldBuilder[T, R]) Add(item T) { b.acc = b.combine(b.acc, item) }
func (b *foldBuilder[T, R]) Finish() R  { return b.acc }

// --- discard ---

type discardBuilder[T any] struct{}

// Discard returns a builder that drops every item. Used when only the
// effect's success or failure matters, not its payload.
func Discard[T any]() Builder[T, struct{}] {
	return discardBuilder[T]{}
}

func (discardBuilder[T]) Add(T)            {}
func (discardBuilder[T]) Finish() struct{} { return struct{}{} }
