package eval

// Collection-inside-out helpers: turn a collection of Evals into an Eval of
// the collection. Built from FlatMap, so depth tracks collection size on
// the heap-allocated continuation stack, not the native one.

// Collect sequences a slice of Evals into an Eval of their outcomes in
// input order.
func Collect[A any](evals []Eval[A]) Eval[[]A] {
	acc := Now(make([]A, 0, len(evals)))
	for _, e := range evals {
		acc = ZipWith(acc, e, func(xs []A, x A) []A {
			return append(xs, x)
		})
	}
	return acc
}

// Gather sequences a record of Evals into an Eval of a record of their
// outcomes, keyed identically.
func Gather[K comparable, V any](record map[K]Eval[V]) Eval[map[K]V] {
	acc := Now(make(map[K]V, len(record)))
	for k, e := range record {
		acc = ZipWith(acc, e, func(m map[K]V, v V) map[K]V {
			m[k] = v
			return m
		})
	}
	return acc
}
