package effect

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lightfold/effectgo/effect/builder"
	"github.com/lightfold/effectgo/effect/internal/dispatch"
	"github.com/lightfold/effectgo/effect/internal/elog"
)

// Concurrent aggregation: every step is launched before any settlement is
// consumed, settlements arrive in real-world completion order, and the
// combination policy is selected by the step algebra — halt on the first
// terminal settlement, or accumulate every side payload via the container's
// associative combine until all tasks have settled.
//
// Modeled failures are ordinary returns. A step that returns a non-nil
// error or panics is a hard failure of the whole call: the error is
// returned (the panic re-panicked) at its settlement, regardless of how
// many other tasks already produced modeled results. Nothing is cancelled
// on resolution; in-flight tasks run to completion and their settlements
// are discarded.

// settlement is one task's outcome, tagged with its element's position.
type settlement[FB any] struct {
	pos      int
	eff      FB
	err      error
	panicked bool
	cause    any
}

// settle runs one step, converting a panic into a settlement so the
// collector can re-panic it in the caller instead of killing the process
// from a bare goroutine.
func settle[T, FB any](ctx context.Context, pos int, el T, step func(context.Context, T) (FB, error)) (s settlement[FB]) {
	s.pos = pos
	defer func() {
		if r := recover(); r != nil {
			s.panicked = true
			s.cause = r
		}
	}()
	s.eff, s.err = step(ctx, el)
	return
}

// TraverseIntoPar applies step to every element concurrently and folds the
// settlements into bld under the policy selected by stepAlg. The builder
// receives Indexed items so array-shaped variants can restore input order;
// the accumulated payload (accumulate policy) reflects settlement order,
// which is deliberate and observable.
func TraverseIntoPar[T, FB, B, E, FR, R any](
	ctx context.Context,
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, R, E],
	elems []T,
	step func(context.Context, T) (FB, error),
	bld builder.Builder[builder.Indexed[B], R],
) (FR, error) {
	runID := uuid.New().String()
	settled := make(chan settlement[FB], len(elems))

	elog.L().Debug("parallel traversal started",
		zap.String("runId", runID),
		zap.Int("tasks", len(elems)),
	)

	for pos, el := range elems {
		go func(pos int, el T) {
			settled <- settle(ctx, pos, el, step)
		}(pos, el)
	}

	return collect(ctx, runID, stepAlg, outAlg, len(elems), settled, bld)
}

// keyedTask routes one element to the worker owning its key.
type keyedTask[T any] struct {
	pos int
	el  T
	key string
}

func (t keyedTask[T]) PartitionKey() string { return t.key }

// TraverseIntoParKeyed is TraverseIntoPar with fan-out bounded to
// cfg.NumWorkers and per-key ordering: elements sharing a key are stepped
// in input order on the same worker, distinct keys proceed concurrently.
func TraverseIntoParKeyed[T, FB, B, E, FR, R any](
	ctx context.Context,
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, R, E],
	elems []T,
	key func(T) string,
	cfg PoolConfig,
	step func(context.Context, T) (FB, error),
	bld builder.Builder[builder.Indexed[B], R],
) (FR, error) {
	runID := uuid.New().String()
	settled := make(chan settlement[FB], len(elems))

	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := dispatch.NewPool(poolCtx, cfg, func(ctx context.Context, t keyedTask[T]) {
		settled <- settle(ctx, t.pos, t.el, step)
	})

	elog.L().Debug("keyed parallel traversal started",
		zap.String("runId", runID),
		zap.Int("tasks", len(elems)),
		zap.Int("workers", cfg.NumWorkers),
	)

	go func() {
		for pos, el := range elems {
			if !pool.Submit(poolCtx, keyedTask[T]{pos: pos, el: el, key: key(el)}) {
				return
			}
		}
	}()

	return collect(ctx, runID, stepAlg, outAlg, len(elems), settled, bld)
}

// collect drains n settlements under the policy selected by stepAlg.
func collect[FB, B, E, FR, R any](
	ctx context.Context,
	runID string,
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, R, E],
	n int,
	settled <-chan settlement[FB],
	bld builder.Builder[builder.Indexed[B], R],
) (FR, error) {
	var zero FR
	start := time.Now()
	acc, accumulate := accumulatorOf(stepAlg)

	var (
		accumulated E
		hasAcc      bool
		failed      bool
		remaining   = n
	)

	finish := func(f FR, terminal bool) (FR, error) {
		elog.L().Debug("parallel traversal resolved",
			zap.String("runId", runID),
			zap.Bool("terminal", terminal),
			zap.Int("unsettled", remaining),
			zap.Any("span", NewTimeSpan(start, time.Now())),
		)
		return f, nil
	}

	for remaining > 0 {
		var s settlement[FB]
		select {
		case s = <-settled:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
		remaining--

		if s.panicked {
			panic(s.cause)
		}
		if s.err != nil {
			elog.L().Debug("parallel traversal hard failure",
				zap.String("runId", runID),
				zap.Int("pos", s.pos),
				zap.Error(s.err),
			)
			return zero, s.err
		}

		if !accumulate {
			// Halt policy: first terminal settlement resolves the call;
			// tasks still in flight settle into the buffered channel and
			// are never looked at.
			if stepAlg.IsTerminal(s.eff) {
				return finish(outAlg.Terminal(stepAlg.Failure(s.eff)), true)
			}
			bld.Add(builder.Indexed[B]{Pos: s.pos, Item: stepAlg.Payload(s.eff)})
			continue
		}

		// Accumulate policy: merge side payloads in settlement order and
		// keep building only while no terminal has been recorded.
		if e, ok := acc.Accumulated(s.eff); ok {
			if hasAcc {
				accumulated = acc.Combine(accumulated, e)
			} else {
				accumulated, hasAcc = e, true
			}
		}
		if stepAlg.IsTerminal(s.eff) {
			failed = true
			continue
		}
		if !failed {
			bld.Add(builder.Indexed[B]{Pos: s.pos, Item: stepAlg.Payload(s.eff)})
		}
	}

	if failed {
		return finish(outAlg.Terminal(accumulated), true)
	}
	ret := outAlg.Productive(bld.Finish())
	if hasAcc {
		if retAcc, ok := accumulatorOf(outAlg); ok {
			ret = retAcc.Attach(ret, accumulated)
		}
	}
	return finish(ret, false)
}

// TraversePar maps elements concurrently into a slice in input order, even
// though tasks settle in completion order.
func TraversePar[T, FB, B, E, FR any](
	ctx context.Context,
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, []B, E],
	elems []T,
	step func(context.Context, T) (FB, error),
) (FR, error) {
	return TraverseIntoPar(ctx, stepAlg, outAlg, elems, step, builder.ByIndex[B](len(elems)))
}

// AllIntoPar settles a slice of already-built container values concurrently.
func AllIntoPar[FB, B, E, FR, R any](
	ctx context.Context,
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, R, E],
	effs []FB,
	bld builder.Builder[builder.Indexed[B], R],
) (FR, error) {
	return TraverseIntoPar(ctx, stepAlg, outAlg, effs,
		func(_ context.Context, f FB) (FB, error) { return f, nil }, bld)
}

// AllPar collects container values concurrently into a slice of payloads in
// input order.
func AllPar[FB, B, E, FR any](
	ctx context.Context,
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, []B, E],
	effs []FB,
) (FR, error) {
	return AllIntoPar(ctx, stepAlg, outAlg, effs, builder.ByIndex[B](len(effs)))
}

// AllPropsPar resolves a record of container values concurrently into a
// record of payloads keyed identically.
func AllPropsPar[K comparable, FB, B, E, FR any](
	ctx context.Context,
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, map[K]B, E],
	record map[K]FB,
) (FR, error) {
	keys := make([]K, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	return TraverseIntoPar(ctx, stepAlg, outAlg, keys,
		func(_ context.Context, k K) (FB, error) { return record[k], nil },
		builder.KeyedByPos[K, B](keys))
}

// ForEachPar runs step over every element concurrently for its effect only.
func ForEachPar[T, FB, B, E, FR any](
	ctx context.Context,
	stepAlg Algebra[FB, B, E],
	outAlg Algebra[FR, struct{}, E],
	elems []T,
	step func(context.Context, T) (FB, error),
) (FR, error) {
	return TraverseIntoPar(ctx, stepAlg, outAlg, elems, step,
		builder.DropIndex(builder.Discard[B]()))
}
