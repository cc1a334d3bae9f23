package effect

import (
	"iter"

	"github.com/lightfold/effectgo/effect/builder"
)

// Sequential aggregation: each step is finished before the next one starts,
// element order is preserved for both invocation and side effects, and the
// first terminal result aborts the remainder of the traversal.

// Reduce threads an accumulator through the elements one at a time by
// driving a coroutine over the stepped container values. The first terminal
// step halts the fold and Reduce returns its failure as a terminal value;
// otherwise the final accumulator is wrapped productively.
func Reduce[T, FB, B, E, FR any](
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, B, E],
	seq iter.Seq[T],
	step func(acc B, el T) FB,
	init B,
) FR {
	return Do(stepAlg, outAlg, func(co *Coro[FB, B]) B {
		acc := init
		for el := range seq {
			acc = co.Bind(step(acc, el))
		}
		return acc
	})
}

// TraverseInto applies step to every element in iteration order, depositing
// each productive payload into bld. A single terminal step aborts the whole
// traversal; the builder contents are undefined afterwards.
//
// When the step algebra is Accumulating, side payloads of productive steps
// are combined in iteration order and attached to the final productive
// value; a terminal step's payload is combined after them before the
// traversal resolves terminally. For containers whose only side payload is
// the terminal failure this degenerates to the plain short-circuit.
func TraverseInto[T, FB, B, E, FR, R any](
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, R, E],
	seq iter.Seq[T],
	step func(el T) FB,
	bld builder.Builder[B, R],
) FR {
	acc, accumulate := accumulatorOf(stepAlg)
	var (
		accumulated E
		hasAcc      bool
	)
	merge := func(f FB) {
		if !accumulate {
			return
		}
		if e, ok := acc.Accumulated(f); ok {
			if hasAcc {
				accumulated = acc.Combine(accumulated, e)
			} else {
				accumulated, hasAcc = e, true
			}
		}
	}

	for el := range seq {
		f := step(el)
		merge(f)
		if stepAlg.IsTerminal(f) {
			if accumulate && hasAcc {
				return outAlg.Terminal(accumulated)
			}
			return outAlg.Terminal(stepAlg.Failure(f))
		}
		bld.Add(stepAlg.Payload(f))
	}

	ret := outAlg.Productive(bld.Finish())
	if hasAcc {
		if retAcc, ok := accumulatorOf(outAlg); ok {
			ret = retAcc.Attach(ret, accumulated)
		}
	}
	return ret
}

// Traverse is TraverseInto with an order-preserving slice builder.
func Traverse[T, FB, B, E, FR any](
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, []B, E],
	seq iter.Seq[T],
	step func(el T) FB,
) FR {
	return TraverseInto(stepAlg, outAlg, seq, step, builder.Slice[B]())
}

// AllInto traverses a sequence of already-built container values.
func AllInto[FB, B, E, FR, R any](
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, R, E],
	effs iter.Seq[FB],
	bld builder.Builder[B, R],
) FR {
	return TraverseInto(stepAlg, outAlg, effs, func(f FB) FB { return f }, bld)
}

// All collects a sequence of container values into a single container of
// their payloads, in input order.
func All[FB, B, E, FR any](
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, []B, E],
	effs iter.Seq[FB],
) FR {
	return AllInto(stepAlg, outAlg, effs, builder.Slice[B]())
}

// ForEach runs step over every element for its effect only, discarding
// payloads. The result carries struct{} productively, or the first failure.
func ForEach[T, FB, B, E, FR any](
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, struct{}, E],
	seq iter.Seq[T],
	step func(el T) FB,
) FR {
	return TraverseInto(stepAlg, outAlg, seq, step, builder.Discard[B]())
}
