package builder

// Positional builders restore input order from out-of-order completion:
// concurrent traversal settles tasks in real-world completion order, so
// array-shaped results are routed through a builder that writes each item
// into the slot of its element's original position.

// Indexed pairs an item with the position of the element it came from.
type Indexed[T any] struct {
	Pos  int
	Item T
}

type indexBuilder[T any] struct {
	slots []T
}

// ByIndex returns a builder over Indexed items that writes positionally
// into a slot buffer of length n. Finish returns the slots in input order
// regardless of the order Add was called in.
func ByIndex[T any](n int) Builder[Indexed[T], []T] {
	return &indexBuilder[T]{slots: make([]T, n)}
}

func (b *indexBuilder[T]) Add(it Indexed[T]) { b.slots[it.Pos] = it.Item }
func (b *indexBuilder[T]) Finish() []T {
	slots := b.slots
	b.slots = nil
	return slots
}

type keyedByPosBuilder[K comparable, V any] struct {
	keys    []K
	entries map[K]V
}

// KeyedByPos returns a positional builder that assembles a map: the item at
// position i is stored under keys[i]. Record-shaped concurrent traversals
// use it to produce key-addressed output from index-addressed settlements.
func KeyedByPos[K comparable, V any](keys []K) Builder[Indexed[V], map[K]V] {
	return &keyedByPosBuilder[K, V]{
		keys:    keys,
		entries: make(map[K]V, len(keys)),
	}
}

func (b *keyedByPosBuilder[K, V]) Add(it Indexed[V]) {
	b.entries[b.keys[it.Pos]] = it.Item
}

func (b *keyedByPosBuilder[K, V]) Finish() map[K]V {
	entries := b.entries
	b.entries = nil
	return entries
}

// DropIndex adapts a plain builder to a positional traversal by discarding
// the position before forwarding the item.
func DropIndex[T, R any](inner Builder[T, R]) Builder[Indexed[T], R] {
	return dropIndexBuilder[T, R]{inner: inner}
}

type dropIndexBuilder[T, R any] struct {
	inner Builder[T, R]
}

func (b dropIndexBuilder[T, R]) Add(it Indexed[T]) { b.inner.Add(it.Item) }
func (b dropIndexBuilder[T, R]) Finish() R         { return b.inner.Finish() }
