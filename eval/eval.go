// Package eval provides a deferred, stack-safe evaluator for synchronous
// computations. An Eval is an instruction tree — immediate outcomes, lazy
// thunks (memoized or not), deferred tree construction, and binds — that
// Run interprets iteratively with an explicit continuation stack, so chains
// of dependent computations of any depth consume heap, never native stack.
//
// Internals are type-erased: node continuations trade in `any` and concrete
// types are recovered at the typed Eval facade, the usual shape for
// heterogeneous instruction chains under Go generics.
package eval

// node is the marker interface for instruction-tree nodes.
type node interface {
	node()
}

// nowNode carries a precomputed outcome.
type nowNode struct{ v any }

func (nowNode) node() {}

// onceNode carries a thunk until first evaluation, then transitions one-way
// to its cached outcome. The thunk reference is dropped on transition.
// Evaluation is single-threaded by design; no locking guards the cache.
type onceNode struct {
	thunk func() any
	done  bool
	v     any
}

func (*onceNode) node() {}

// alwaysNode carries a thunk invoked afresh on every evaluation.
type alwaysNode struct{ thunk func() any }

func (alwaysNode) node() {}

// deferNode carries a thunk that builds a new subtree, delaying tree
// construction (recursive definitions, coroutine bodies).
type deferNode struct{ thunk func() node }

func (deferNode) node() {}

// bindNode carries an upstream tree and a continuation from its outcome to
// the downstream tree.
type bindNode struct {
	up   node
	cont func(any) node
}

func (*bindNode) node() {}

// Eval is a deferred computation producing an A when Run.
//
// Copies of an Eval share nodes: a memoized outcome computed through one
// reference is observed by every other reference to the same instance.
type Eval[A any] struct{ n node }

// Now wraps an already-known outcome.
func Now[A any](a A) Eval[A] {
	return Eval[A]{n: nowNode{v: a}}
}

// Once wraps a thunk that runs at most one time; the outcome is cached
// permanently and the thunk released.
func Once[A any](thunk func() A) Eval[A] {
	return Eval[A]{n: &onceNode{thunk: func() any { return thunk() }}}
}

// Always wraps a thunk that re-runs on every evaluation.
func Always[A any](thunk func() A) Eval[A] {
	return Eval[A]{n: alwaysNode{thunk: func() any { return thunk() }}}
}

// Defer wraps a thunk that itself returns an Eval, delaying construction of
// the tree until evaluation reaches it.
func Defer[A any](thunk func() Eval[A]) Eval[A] {
	return Eval[A]{n: deferNode{thunk: func() node { return thunk().n }}}
}

// FlatMap sequences f after e. Composes to arbitrary depth without stack
// growth proportional to depth.
func FlatMap[A, B any](e Eval[A], f func(A) Eval[B]) Eval[B] {
	return Eval[B]{n: &bindNode{
		up:   e.n,
		cont: func(v any) node { return f(v.(A)).n },
	}}
}

// Map transforms the outcome of e.
func Map[A, B any](e Eval[A], f func(A) B) Eval[B] {
	return FlatMap(e, func(a A) Eval[B] { return Now(f(a)) })
}

// ZipWith combines the outcomes of two Evals.
func ZipWith[A, B, C any](ea Eval[A], eb Eval[B], f func(A, B) C) Eval[C] {
	return FlatMap(ea, func(a A) Eval[C] {
		return Map(eb, func(b B) C { return f(a, b) })
	})
}

// Run evaluates the tree to its outcome. The entire loop runs to completion
// within this call; Eval never suspends.
func (e Eval[A]) Run() A {
	return run(e.n).(A)
}

// run is the iterative interpreter: a current-node pointer plus an explicit
// LIFO of pending continuations in place of native call frames. The loop is
// bounded by the number of bind nodes visited.
func run(root node) any {
	cur := root
	var stack []func(any) node
	for {
		var v any
		switch n := cur.(type) {
		case *bindNode:
			stack = append(stack, n.cont)
			cur = n.up
			continue
		case deferNode:
			cur = n.thunk()
			continue
		case nowNode:
			v = n.v
		case *onceNode:
			if !n.done {
				n.v = n.thunk()
				n.done = true
				n.thunk = nil
			}
			v = n.v
		case alwaysNode:
			v = n.thunk()
		default:
			panic("eval: unknown node kind")
		}
		if len(stack) == 0 {
			return v
		}
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cur = k(v)
	}
}
