// Package option provides the optional-value container: a value is either
// present or absent, with no failure payload beyond absence itself.
// Aggregation over options uses the halt policy — the first absence wins.
package option

import (
	"context"
	"slices"

	"github.com/lightfold/effectgo/effect"
	"github.com/lightfold/effectgo/shared/helper"
)

// Option carries a payload when present.
type Option[A any] struct {
	value   A
	present bool
}

// Some wraps a payload.
func Some[A any](a A) Option[A] {
	return Option[A]{value: a, present: true}
}

// None is the absent option.
func None[A any]() Option[A] {
	return Option[A]{}
}

// IsNone reports whether o is absent.
func (o Option[A]) IsNone() bool { return !o.present }

// Get returns the payload and whether it is present.
func (o Option[A]) Get() (A, bool) { return o.value, o.present }

// OrElse returns the payload, or fallback when absent.
func (o Option[A]) OrElse(fallback A) A {
	if !o.present {
		return fallback
	}
	return o.value
}

// Map transforms the payload of a present option.
func Map[A, B any](o Option[A], f func(A) B) Option[B] {
	if !o.present {
		return None[B]()
	}
	return Some(f(o.value))
}

// FlatMap sequences an option-producing function after o.
func FlatMap[A, B any](o Option[A], f func(A) Option[B]) Option[B] {
	if !o.present {
		return None[B]()
	}
	return f(o.value)
}

// --- capability contract ---

type algebra[A any] struct{}

func (algebra[A]) IsTerminal(o Option[A]) bool    { return !o.present }
func (algebra[A]) Payload(o Option[A]) A          { return o.value }
func (algebra[A]) Failure(Option[A]) effect.Unit  { return effect.Unit{} }
func (algebra[A]) Terminal(effect.Unit) Option[A] { return Option[A]{} }
func (algebra[A]) Productive(a A) Option[A]       { return Some(a) }

// Instance returns the algebra the generic core consumes for Option[A].
func Instance[A any]() effect.Algebra[Option[A], A, effect.Unit] {
	return algebra[A]{}
}

func erase[A any](o Option[A]) Option[any] {
	if !o.present {
		return None[any]()
	}
	return Some[any](o.value)
}

// --- coroutine driving ---

// Co is the binder handle passed to Do bodies.
type Co = effect.Coro[Option[any], any]

// Do runs body as a coroutine; the first absent Bind halts the body and
// makes Do return None.
func Do[R any](body func(co *Co) R) Option[R] {
	return effect.Do(Instance[any](), Instance[R](), body)
}

// Bind extracts the payload of o inside a Do body, halting the body if o
// is absent.
func Bind[B any](co *Co, o Option[B]) B {
	return helper.MustGetTypedValue[B](func() (any, error) {
		return co.Bind(erase(o)), nil
	})
}

// --- sequential aggregation ---

// Reduce folds elems through step, halting at the first absence.
func Reduce[T, B any](elems []T, step func(acc B, el T) Option[B], init B) Option[B] {
	return effect.Reduce(Instance[B](), Instance[B](), slices.Values(elems), step, init)
}

// Traverse applies step to every element in order; the first absence aborts
// the traversal.
func Traverse[T, B any](elems []T, step func(T) Option[B]) Option[[]B] {
	return effect.Traverse(Instance[B](), Instance[[]B](), slices.Values(elems), step)
}

// All collects the payloads of effs, or None at the first absence.
func All[A any](effs []Option[A]) Option[[]A] {
	return effect.All(Instance[A](), Instance[[]A](), slices.Values(effs))
}

// ForEach runs step for its effect only.
func ForEach[T, B any](elems []T, step func(T) Option[B]) Option[struct{}] {
	return effect.ForEach(Instance[B](), Instance[struct{}](), slices.Values(elems), step)
}

// --- concurrent aggregation ---

// TraversePar maps elems concurrently; the slice is in input order even
// though tasks settle in completion order.
func TraversePar[T, B any](ctx context.Context, elems []T, step func(context.Context, T) (Option[B], error)) (Option[[]B], error) {
	return effect.TraversePar(ctx, Instance[B](), Instance[[]B](), elems, step)
}

// AllPar settles effs concurrently, halting at the first absence.
func AllPar[A any](ctx context.Context, effs []Option[A]) (Option[[]A], error) {
	return effect.AllPar(ctx, Instance[A](), Instance[[]A](), effs)
}

// AllPropsPar resolves a record of options into a record of payloads.
func AllPropsPar[K comparable, B any](ctx context.Context, record map[K]Option[B]) (Option[map[K]B], error) {
	return effect.AllPropsPar(ctx, Instance[B](), Instance[map[K]B](), record)
}

// ForEachPar runs step over every element concurrently for its effect only.
func ForEachPar[T, B any](ctx context.Context, elems []T, step func(context.Context, T) (Option[B], error)) (Option[struct{}], error) {
	return effect.ForEachPar(ctx, Instance[B](), Instance[struct{}](), elems, step)
}

// Map2Par resolves two options concurrently and applies f to the payloads.
func Map2Par[A, B, C any](ctx context.Context, oa Option[A], ob Option[B], f func(A, B) C) (Option[C], error) {
	vs, err := effect.AllPar(ctx, Instance[any](), Instance[[]any](), []Option[any]{erase(oa), erase(ob)})
	if err != nil {
		return Option[C]{}, err
	}
	return Map(vs, func(xs []any) C {
		return f(xs[0].(A), xs[1].(B))
	}), nil
}

// Map3Par resolves three options concurrently and applies f to the payloads.
func Map3Par[A, B, C, D any](ctx context.Context, oa Option[A], ob Option[B], oc Option[C], f func(A, B, C) D) (Option[D], error) {
	vs, err := effect.AllPar(ctx, Instance[any](), Instance[[]any](), []Option[any]{erase(oa), erase(ob), erase(oc)})
	if err != nil {
		return Option[D]{}, err
	}
	return Map(vs, func(xs []any) D {
		return f(xs[0].(A), xs[1].(B), xs[2].(C))
	}), nil
}
