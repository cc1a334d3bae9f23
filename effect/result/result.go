// Package result provides the disjoint-failure container: a value is either
// productive with a payload or terminal with an error. Aggregation over
// results uses the halt policy — the first failure wins.
package result

import (
	"context"
	"slices"

	"github.com/lightfold/effectgo/effect"
	"github.com/lightfold/effectgo/effect/builder"
	"github.com/lightfold/effectgo/shared/helper"
)

// Result carries either a payload or an error, never both.
type Result[A any] struct {
	value A
	err   error
}

// Ok wraps a payload productively.
func Ok[A any](a A) Result[A] {
	return Result[A]{value: a}
}

// Err wraps err terminally.
func Err[A any](err error) Result[A] {
	return Result[A]{err: err}
}

// IsErr reports whether r is terminal.
func (r Result[A]) IsErr() bool { return r.err != nil }

// Get returns the payload and the error; exactly one is meaningful.
func (r Result[A]) Get() (A, error) { return r.value, r.err }

// MustGet returns the payload, panicking on a terminal result.
func (r Result[A]) MustGet() A {
	if r.err != nil {
		panic(r.err)
	}
	return r.value
}

// Map transforms the payload of a productive result.
func Map[A, B any](r Result[A], f func(A) B) Result[B] {
	if r.err != nil {
		return Err[B](r.err)
	}
	return Ok(f(r.value))
}

// FlatMap sequences a result-producing function after r.
func FlatMap[A, B any](r Result[A], f func(A) Result[B]) Result[B] {
	if r.err != nil {
		return Err[B](r.err)
	}
	return f(r.value)
}

// --- capability contract ---

type algebra[A any] struct{}

func (algebra[A]) IsTerminal(r Result[A]) bool { return r.err != nil }
func (algebra[A]) Payload(r Result[A]) A       { return r.value }
func (algebra[A]) Failure(r Result[A]) error   { return r.err }
func (algebra[A]) Terminal(err error) Result[A] {
	return Result[A]{err: err}
}
func (algebra[A]) Productive(a A) Result[A] {
	return Result[A]{value: a}
}

// Instance returns the algebra the generic core consumes for Result[A].
func Instance[A any]() effect.Algebra[Result[A], A, error] {
	return algebra[A]{}
}

// erase widens the payload type for the type-erased coroutine boundary.
func erase[A any](r Result[A]) Result[any] {
	if r.err != nil {
		return Err[any](r.err)
	}
	return Ok[any](r.value)
}

// --- coroutine driving ---

// Co is the binder handle passed to Do bodies.
type Co = effect.Coro[Result[any], any]

// Do runs body as a coroutine: each Bind either yields the payload of a
// productive result or halts the body (running its defers) and makes Do
// return the terminal result.
func Do[R any](body func(co *Co) R) Result[R] {
	return effect.Do(Instance[any](), Instance[R](), body)
}

// Bind extracts the payload of r inside a Do body, halting the body if r
// is terminal.
func Bind[B any](co *Co, r Result[B]) B {
	return helper.MustGetTypedValue[B](func() (any, error) {
		return co.Bind(erase(r)), nil
	})
}

// --- sequential aggregation ---

// Reduce folds elems through step, halting at the first failure.
func Reduce[T, B any](elems []T, step func(acc B, el T) Result[B], init B) Result[B] {
	return effect.Reduce(Instance[B](), Instance[B](), slices.Values(elems), step, init)
}

// Traverse applies step to every element in order; the first failure aborts
// the traversal.
func Traverse[T, B any](elems []T, step func(T) Result[B]) Result[[]B] {
	return effect.Traverse(Instance[B](), Instance[[]B](), slices.Values(elems), step)
}

// All collects the payloads of effs, or the first failure.
func All[A any](effs []Result[A]) Result[[]A] {
	return effect.All(Instance[A](), Instance[[]A](), slices.Values(effs))
}

// ForEach runs step for its effect only.
func ForEach[T, B any](elems []T, step func(T) Result[B]) Result[struct{}] {
	return effect.ForEach(Instance[B](), Instance[struct{}](), slices.Values(elems), step)
}

// --- concurrent aggregation ---

// TraversePar maps elems concurrently; the slice is in input order even
// though tasks settle in completion order. A step error fails the whole
// call.
func TraversePar[T, B any](ctx context.Context, elems []T, step func(context.Context, T) (Result[B], error)) (Result[[]B], error) {
	return effect.TraversePar(ctx, Instance[B](), Instance[[]B](), elems, step)
}

// AllPar settles effs concurrently, halting on the first failure.
func AllPar[A any](ctx context.Context, effs []Result[A]) (Result[[]A], error) {
	return effect.AllPar(ctx, Instance[A](), Instance[[]A](), effs)
}

// AllPropsPar resolves a record of results into a record of payloads.
func AllPropsPar[K comparable, B any](ctx context.Context, record map[K]Result[B]) (Result[map[K]B], error) {
	return effect.AllPropsPar(ctx, Instance[B](), Instance[map[K]B](), record)
}

// ForEachPar runs step over every element concurrently for its effect only.
func ForEachPar[T, B any](ctx context.Context, elems []T, step func(context.Context, T) (Result[B], error)) (Result[struct{}], error) {
	return effect.ForEachPar(ctx, Instance[B](), Instance[struct{}](), elems, step)
}

// Map2Par resolves two results concurrently and applies f to the payloads.
func Map2Par[A, B, C any](ctx context.Context, ra Result[A], rb Result[B], f func(A, B) C) (Result[C], error) {
	vs, err := effect.AllPar(ctx, Instance[any](), Instance[[]any](), []Result[any]{erase(ra), erase(rb)})
	if err != nil {
		return Result[C]{}, err
	}
	return Map(vs, func(xs []any) C {
		return f(xs[0].(A), xs[1].(B))
	}), nil
}

// Map3Par resolves three results concurrently and applies f to the payloads.
func Map3Par[A, B, C, D any](ctx context.Context, ra Result[A], rb Result[B], rc Result[C], f func(A, B, C) D) (Result[D], error) {
	vs, err := effect.AllPar(ctx, Instance[any](), Instance[[]any](), []Result[any]{erase(ra), erase(rb), erase(rc)})
	if err != nil {
		return Result[D]{}, err
	}
	return Map(vs, func(xs []any) D {
		return f(xs[0].(A), xs[1].(B), xs[2].(C))
	}), nil
}

// TraverseParKeyed bounds fan-out to cfg workers with per-key ordering.
func TraverseParKeyed[T, B any](
	ctx context.Context,
	elems []T,
	key func(T) string,
	workers, bufferSize int,
	step func(context.Context, T) (Result[B], error),
) (Result[[]B], error) {
	return effect.TraverseIntoParKeyed(ctx, Instance[B](), Instance[[]B](), elems, key,
		effect.NewPoolConfig(bufferSize, workers), step, builder.ByIndex[B](len(elems)))
}
