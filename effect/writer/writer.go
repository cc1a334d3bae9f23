// Package writer provides the logging container: a value carries an
// accumulated log alongside its payload, and stays able to log even while
// productive. A failed writer is terminal but still carries its log.
//
// The log type W is combined with an explicit associative function supplied
// when an instance is built; the package never assumes a particular monoid
// (strings concatenate, slices append, counters add).
package writer

import (
	"context"
	"slices"

	"github.com/lightfold/effectgo/effect"
	"github.com/lightfold/effectgo/shared/helper"
)

// Semigroup is an associative combine over log payloads.
type Semigroup[W any] func(a, b W) W

// Writer carries a payload and, optionally, an accumulated log.
type Writer[W, A any] struct {
	value  A
	log    W
	hasLog bool
	failed bool
}

// Pure wraps a payload with no log.
func Pure[W, A any](a A) Writer[W, A] {
	return Writer[W, A]{value: a}
}

// Logged wraps a payload together with a log entry.
func Logged[W, A any](w W, a A) Writer[W, A] {
	return Writer[W, A]{value: a, log: w, hasLog: true}
}

// Tell is a payload-free log entry, used purely for its accumulation.
func Tell[W any](w W) Writer[W, struct{}] {
	return Logged(w, struct{}{})
}

// Fail is a terminal writer carrying a log entry.
func Fail[W, A any](w W) Writer[W, A] {
	return Writer[W, A]{log: w, hasLog: true, failed: true}
}

// IsFailed reports whether w is terminal.
func (w Writer[W, A]) IsFailed() bool { return w.failed }

// Value returns the payload. Meaningless when w is failed.
func (w Writer[W, A]) Value() A { return w.value }

// Log returns the accumulated log and whether any was recorded.
func (w Writer[W, A]) Log() (W, bool) { return w.log, w.hasLog }

// --- capability contract ---

type algebra[W, A any] struct {
	combine Semigroup[W]
}

func (algebra[W, A]) IsTerminal(w Writer[W, A]) bool { return w.failed }
func (algebra[W, A]) Payload(w Writer[W, A]) A       { return w.value }
func (algebra[W, A]) Failure(w Writer[W, A]) W       { return w.log }
func (algebra[W, A]) Terminal(log W) Writer[W, A] {
	return Writer[W, A]{log: log, hasLog: true, failed: true}
}
func (algebra[W, A]) Productive(a A) Writer[W, A] {
	return Writer[W, A]{value: a}
}

func (alg algebra[W, A]) Combine(a, b W) W {
	return alg.combine(a, b)
}

// Accumulated reports the log carried by w — present for terminal values
// and for any productive value that logged.
func (algebra[W, A]) Accumulated(w Writer[W, A]) (W, bool) {
	return w.log, w.hasLog
}

// Attach prepends an accumulated log onto w.
func (alg algebra[W, A]) Attach(w Writer[W, A], log W) Writer[W, A] {
	if w.hasLog {
		w.log = alg.combine(log, w.log)
	} else {
		w.log = log
		w.hasLog = true
	}
	return w
}

// Instance returns the algebra the generic core consumes for Writer[W, A].
// It implements effect.Accumulating: logs thread through sequential binds
// and merge in settlement order under concurrent aggregation.
func Instance[W, A any](combine Semigroup[W]) effect.Algebra[Writer[W, A], A, W] {
	return algebra[W, A]{combine: combine}
}

func erase[W, A any](w Writer[W, A]) Writer[W, any] {
	return Writer[W, any]{value: w.value, log: w.log, hasLog: w.hasLog, failed: w.failed}
}

// --- coroutine driving ---

// Co is the binder handle passed to Do bodies.
type Co[W any] = effect.Coro[Writer[W, any], any]

// Do runs body as a coroutine: logs of every bound writer are combined in
// bind order and carried on the final value; a failed bind halts the body
// and Do returns a failed writer with everything logged up to and including
// the failure.
func Do[W, R any](combine Semigroup[W], body func(co *Co[W]) R) Writer[W, R] {
	return effect.Do(Instance[W, any](combine), Instance[W, R](combine), body)
}

// Bind extracts the payload of w inside a Do body, recording its log and
// halting the body if w is failed.
func Bind[W, B any](co *Co[W], w Writer[W, B]) B {
	return helper.MustGetTypedValue[B](func() (any, error) {
		return co.Bind(erase(w)), nil
	})
}

// --- sequential aggregation ---

// Traverse applies step to every element in order, concatenating logs in
// iteration order; a failed step aborts the traversal with everything
// logged so far.
func Traverse[W, T, B any](combine Semigroup[W], elems []T, step func(T) Writer[W, B]) Writer[W, []B] {
	return effect.Traverse(Instance[W, B](combine), Instance[W, []B](combine), slices.Values(elems), step)
}

// All collects the payloads of effs sequentially with their logs.
func All[W, A any](combine Semigroup[W], effs []Writer[W, A]) Writer[W, []A] {
	return effect.All(Instance[W, A](combine), Instance[W, []A](combine), slices.Values(effs))
}

// ForEach runs step for its logs only, stopping at the first failure.
func ForEach[W, T, B any](combine Semigroup[W], elems []T, step func(T) Writer[W, B]) Writer[W, struct{}] {
	return effect.ForEach(Instance[W, B](combine), Instance[W, struct{}](combine), slices.Values(elems), step)
}

// --- concurrent aggregation ---

// TraversePar maps elems concurrently. Logs merge in settlement order — an
// explicit, observable property — while the payload slice of a fully
// successful run is restored to input order.
func TraversePar[W, T, B any](ctx context.Context, combine Semigroup[W], elems []T, step func(context.Context, T) (Writer[W, B], error)) (Writer[W, []B], error) {
	return effect.TraversePar(ctx, Instance[W, B](combine), Instance[W, []B](combine), elems, step)
}

// AllPar settles effs concurrently, merging logs in settlement order.
func AllPar[W, A any](ctx context.Context, combine Semigroup[W], effs []Writer[W, A]) (Writer[W, []A], error) {
	return effect.AllPar(ctx, Instance[W, A](combine), Instance[W, []A](combine), effs)
}

// ForEachPar runs step over every element concurrently, keeping only logs.
func ForEachPar[W, T, B any](ctx context.Context, combine Semigroup[W], elems []T, step func(context.Context, T) (Writer[W, B], error)) (Writer[W, struct{}], error) {
	return effect.ForEachPar(ctx, Instance[W, B](combine), Instance[W, struct{}](combine), elems, step)
}

// Map2Par resolves two writers concurrently, merging their logs in
// settlement order and applying f to the payloads.
func Map2Par[W, A, B, C any](ctx context.Context, combine Semigroup[W], wa Writer[W, A], wb Writer[W, B], f func(A, B) C) (Writer[W, C], error) {
	vs, err := effect.AllPar(ctx, Instance[W, any](combine), Instance[W, []any](combine), []Writer[W, any]{erase(wa), erase(wb)})
	if err != nil {
		return Writer[W, C]{}, err
	}
	if vs.IsFailed() {
		return Writer[W, C]{log: vs.log, hasLog: vs.hasLog, failed: true}, nil
	}
	xs := vs.Value()
	out := Writer[W, C]{value: f(xs[0].(A), xs[1].(B))}
	out.log, out.hasLog = vs.log, vs.hasLog
	return out, nil
}

// Map3Par resolves three writers concurrently, merging their logs in
// settlement order and applying f to the payloads.
func Map3Par[W, A, B, C, D any](ctx context.Context, combine Semigroup[W], wa Writer[W, A], wb Writer[W, B], wc Writer[W, C], f func(A, B, C) D) (Writer[W, D], error) {
	vs, err := effect.AllPar(ctx, Instance[W, any](combine), Instance[W, []any](combine), []Writer[W, any]{erase(wa), erase(wb), erase(wc)})
	if err != nil {
		return Writer[W, D]{}, err
	}
	if vs.IsFailed() {
		return Writer[W, D]{log: vs.log, hasLog: vs.hasLog, failed: true}, nil
	}
	xs := vs.Value()
	out := Writer[W, D]{value: f(xs[0].(A), xs[1].(B), xs[2].(C))}
	out.log, out.hasLog = vs.log, vs.hasLog
	return out, nil
}
