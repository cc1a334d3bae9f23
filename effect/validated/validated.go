// Package validated provides the accumulating-failure container: like
// result it is either productive or failed, but concurrent aggregation does
// not stop at the first failure — every failure is merged associatively
// (multierr) until all tasks have settled.
package validated

import (
	"context"
	"slices"

	"go.uber.org/multierr"

	"github.com/lightfold/effectgo/effect"
	"github.com/lightfold/effectgo/shared/helper"
)

// Validated carries either a payload or one or more combined errors.
type Validated[A any] struct {
	value A
	err   error
}

// Valid wraps a payload productively.
func Valid[A any](a A) Validated[A] {
	return Validated[A]{value: a}
}

// Invalid wraps err terminally.
func Invalid[A any](err error) Validated[A] {
	return Validated[A]{err: err}
}

// IsInvalid reports whether v is terminal.
func (v Validated[A]) IsInvalid() bool { return v.err != nil }

// Get returns the payload and the combined error; exactly one is
// meaningful. Individual failures are recoverable via multierr.Errors.
func (v Validated[A]) Get() (A, error) { return v.value, v.err }

// Errors returns the individual accumulated failures.
func (v Validated[A]) Errors() []error { return multierr.Errors(v.err) }

// Map transforms the payload of a valid value.
func Map[A, B any](v Validated[A], f func(A) B) Validated[B] {
	if v.err != nil {
		return Invalid[B](v.err)
	}
	return Valid(f(v.value))
}

// --- capability contract ---

type algebra[A any] struct{}

func (algebra[A]) IsTerminal(v Validated[A]) bool { return v.err != nil }
func (algebra[A]) Payload(v Validated[A]) A       { return v.value }
func (algebra[A]) Failure(v Validated[A]) error   { return v.err }
func (algebra[A]) Terminal(err error) Validated[A] {
	return Validated[A]{err: err}
}
func (algebra[A]) Productive(a A) Validated[A] {
	return Validated[A]{value: a}
}

// Combine merges two failure payloads. multierr.Append is associative in
// the flattened error list, which is all aggregation observes.
func (algebra[A]) Combine(a, b error) error {
	return multierr.Append(a, b)
}

// Accumulated reports the failure payload of a terminal value; valid
// values carry no side payload.
func (algebra[A]) Accumulated(v Validated[A]) (error, bool) {
	return v.err, v.err != nil
}

// Attach prepends an accumulated failure onto v, forcing it terminal.
func (algebra[A]) Attach(v Validated[A], err error) Validated[A] {
	if err == nil {
		return v
	}
	return Validated[A]{err: multierr.Append(err, v.err)}
}

// Instance returns the algebra the generic core consumes for Validated[A].
// It implements effect.Accumulating, which selects the accumulate policy
// for concurrent aggregation.
func Instance[A any]() effect.Algebra[Validated[A], A, error] {
	return algebra[A]{}
}

func erase[A any](v Validated[A]) Validated[any] {
	if v.err != nil {
		return Invalid[any](v.err)
	}
	return Valid[any](v.value)
}

// --- coroutine driving ---

// Co is the binder handle passed to Do bodies. Sequential binds still
// short-circuit at the first failure; accumulation is a property of
// concurrent settlement, not of dependent sequencing.
type Co = effect.Coro[Validated[any], any]

// Do runs body as a coroutine over validated values.
func Do[R any](body func(co *Co) R) Validated[R] {
	return effect.Do(Instance[any](), Instance[R](), body)
}

// Bind extracts the payload of v inside a Do body, halting the body if v
// is invalid.
func Bind[B any](co *Co, v Validated[B]) B {
	return helper.MustGetTypedValue[B](func() (any, error) {
		return co.Bind(erase(v)), nil
	})
}

// --- sequential aggregation ---

// Traverse applies step to every element in order; the first failure aborts
// the traversal. Use TraversePar to accumulate failures across elements.
func Traverse[T, B any](elems []T, step func(T) Validated[B]) Validated[[]B] {
	return effect.Traverse(Instance[B](), Instance[[]B](), slices.Values(elems), step)
}

// All collects the payloads of effs sequentially, or the first failure.
func All[A any](effs []Validated[A]) Validated[[]A] {
	return effect.All(Instance[A](), Instance[[]A](), slices.Values(effs))
}

// ForEach runs step for its effect only, stopping at the first failure.
func ForEach[T, B any](elems []T, step func(T) Validated[B]) Validated[struct{}] {
	return effect.ForEach(Instance[B](), Instance[struct{}](), slices.Values(elems), step)
}

// --- concurrent aggregation ---

// TraversePar maps elems concurrently. Failures from every settled task are
// combined in settlement order; the slice of a fully-valid run is in input
// order.
func TraversePar[T, B any](ctx context.Context, elems []T, step func(context.Context, T) (Validated[B], error)) (Validated[[]B], error) {
	return effect.TraversePar(ctx, Instance[B](), Instance[[]B](), elems, step)
}

// AllPar settles effs concurrently, accumulating every failure.
func AllPar[A any](ctx context.Context, effs []Validated[A]) (Validated[[]A], error) {
	return effect.AllPar(ctx, Instance[A](), Instance[[]A](), effs)
}

// AllPropsPar resolves a record of validated values, accumulating every
// failure.
func AllPropsPar[K comparable, B any](ctx context.Context, record map[K]Validated[B]) (Validated[map[K]B], error) {
	return effect.AllPropsPar(ctx, Instance[B](), Instance[map[K]B](), record)
}

// ForEachPar runs step over every element concurrently for its effect only,
// accumulating every failure.
func ForEachPar[T, B any](ctx context.Context, elems []T, step func(context.Context, T) (Validated[B], error)) (Validated[struct{}], error) {
	return effect.ForEachPar(ctx, Instance[B](), Instance[struct{}](), elems, step)
}

// Map2Par resolves two validated values concurrently, combining both
// failures when both are invalid.
func Map2Par[A, B, C any](ctx context.Context, va Validated[A], vb Validated[B], f func(A, B) C) (Validated[C], error) {
	vs, err := effect.AllPar(ctx, Instance[any](), Instance[[]any](), []Validated[any]{erase(va), erase(vb)})
	if err != nil {
		return Validated[C]{}, err
	}
	return Map(vs, func(xs []any) C {
		return f(xs[0].(A), xs[1].(B))
	}), nil
}

// Map3Par resolves three validated values concurrently, combining the
// failures of every invalid argument.
func Map3Par[A, B, C, D any](ctx context.Context, va Validated[A], vb Validated[B], vc Validated[C], f func(A, B, C) D) (Validated[D], error) {
	vs, err := effect.AllPar(ctx, Instance[any](), Instance[[]any](), []Validated[any]{erase(va), erase(vb), erase(vc)})
	if err != nil {
		return Validated[D]{}, err
	}
	return Map(vs, func(xs []any) D {
		return f(xs[0].(A), xs[1].(B), xs[2].(C))
	}), nil
}
