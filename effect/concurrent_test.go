package effect_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightfold/effectgo/effect/option"
	"github.com/lightfold/effectgo/effect/result"
	"github.com/lightfold/effectgo/effect/validated"
	"github.com/lightfold/effectgo/effect/writer"
)

func TestTraversePar_RestoresInputOrder(t *testing.T) {
	ctx := context.Background()
	delays := map[string]time.Duration{"a": 50 * time.Millisecond, "b": 10 * time.Millisecond}

	r, err := result.TraversePar(ctx, []string{"a", "b"}, func(_ context.Context, s string) (result.Result[string], error) {
		time.Sleep(delays[s])
		return result.Ok("got:" + s), nil
	})

	require.NoError(t, err)
	vs, rerr := r.Get()
	require.NoError(t, rerr)
	assert.Equal(t, []string{"got:a", "got:b"}, vs,
		"input order must be restored even though b settles first")
}

func TestTraversePar_HaltPolicyReturnsFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	r, err := result.TraversePar(ctx, []int{1, 2, 3}, func(_ context.Context, n int) (result.Result[int], error) {
		if n == 2 {
			return result.Err[int](boom), nil
		}
		time.Sleep(20 * time.Millisecond)
		return result.Ok(n), nil
	})

	require.NoError(t, err)
	_, rerr := r.Get()
	assert.ErrorIs(t, rerr, boom)
}

func TestTraversePar_AllStepsLaunchedBeforeAnySettles(t *testing.T) {
	ctx := context.Background()
	var started sync.WaitGroup
	started.Add(3)

	_, err := result.TraversePar(ctx, []int{1, 2, 3}, func(_ context.Context, n int) (result.Result[int], error) {
		started.Done()
		// Every task blocks until all three are running: true fan-out, no
		// sequential awaiting between launches.
		started.Wait()
		return result.Ok(n), nil
	})

	require.NoError(t, err)
}

func TestWriterTraversePar_AccumulatesInSettlementOrder(t *testing.T) {
	ctx := context.Background()
	delays := []time.Duration{50 * time.Millisecond, 10 * time.Millisecond}
	logs := []string{"a", "b"}

	w, err := writer.TraversePar(ctx, concat, []int{0, 1}, func(_ context.Context, i int) (writer.Writer[string, int], error) {
		time.Sleep(delays[i])
		return writer.Fail[string, int](logs[i]), nil
	})

	require.NoError(t, err)
	require.True(t, w.IsFailed())
	log, ok := w.Log()
	require.True(t, ok)
	assert.Equal(t, "ba", log, "the faster task settles first, so its log combines first")
}

func TestWriterTraversePar_SuccessLogsMergeButSliceIsOrdered(t *testing.T) {
	ctx := context.Background()
	delays := []time.Duration{40 * time.Millisecond, 5 * time.Millisecond}

	w, err := writer.TraversePar(ctx, concat, []int{0, 1}, func(_ context.Context, i int) (writer.Writer[string, int], error) {
		time.Sleep(delays[i])
		return writer.Logged(fmt.Sprint(i), i*100), nil
	})

	require.NoError(t, err)
	require.False(t, w.IsFailed())
	assert.Equal(t, []int{0, 100}, w.Value())
	log, ok := w.Log()
	require.True(t, ok)
	assert.Equal(t, "10", log, "logs reflect settlement order, not input order")
}

func TestValidatedTraversePar_AccumulatesEveryFailure(t *testing.T) {
	ctx := context.Background()
	errA := errors.New("a is bad")
	errB := errors.New("b is bad")
	fails := map[string]error{"a": errA, "b": errB}

	v, err := validated.TraversePar(ctx, []string{"a", "ok", "b"}, func(_ context.Context, s string) (validated.Validated[string], error) {
		if e, bad := fails[s]; bad {
			return validated.Invalid[string](e), nil
		}
		return validated.Valid(s), nil
	})

	require.NoError(t, err)
	require.True(t, v.IsInvalid())
	_, verr := v.Get()
	assert.ErrorIs(t, verr, errA)
	assert.ErrorIs(t, verr, errB)
	assert.Len(t, v.Errors(), 2)
}

func TestTraversePar_HardErrorFailsWholeCall(t *testing.T) {
	ctx := context.Background()
	broken := errors.New("connection reset")

	_, err := result.TraversePar(ctx, []int{1, 2, 3}, func(_ context.Context, n int) (result.Result[int], error) {
		if n == 3 {
			return result.Result[int]{}, broken
		}
		return result.Ok(n), nil
	})

	assert.ErrorIs(t, err, broken)
}

func TestTraversePar_StepPanicRepanicsInCaller(t *testing.T) {
	ctx := context.Background()

	assert.PanicsWithValue(t, "task blew up", func() {
		_, _ = result.TraversePar(ctx, []int{1, 2}, func(_ context.Context, n int) (result.Result[int], error) {
			if n == 2 {
				panic("task blew up")
			}
			return result.Ok(n), nil
		})
	})
}

func TestAllPar_HaltsOnAbsence(t *testing.T) {
	ctx := context.Background()

	o, err := option.AllPar(ctx, []option.Option[int]{option.Some(1), option.None[int](), option.Some(3)})
	require.NoError(t, err)
	assert.True(t, o.IsNone())

	o, err = option.AllPar(ctx, []option.Option[int]{option.Some(1), option.Some(2)})
	require.NoError(t, err)
	vs, ok := o.Get()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, vs)
}

func TestAllPropsPar_BuildsRecord(t *testing.T) {
	ctx := context.Background()

	r, err := result.AllPropsPar(ctx, map[string]result.Result[int]{
		"one": result.Ok(1),
		"two": result.Ok(2),
	})

	require.NoError(t, err)
	m, rerr := r.Get()
	require.NoError(t, rerr)
	assert.Equal(t, map[string]int{"one": 1, "two": 2}, m)
}

func TestForEachPar_RunsEveryStep(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	var seen []int

	r, err := result.ForEachPar(ctx, []int{1, 2, 3}, func(_ context.Context, n int) (result.Result[int], error) {
		mu.Lock()
		seen = append(seen, n)
		mu.Unlock()
		return result.Ok(n), nil
	})

	require.NoError(t, err)
	require.False(t, r.IsErr())
	assert.ElementsMatch(t, []int{1, 2, 3}, seen)
}

func TestMap2Par_AppliesFunctionToPayloads(t *testing.T) {
	ctx := context.Background()

	r, err := result.Map2Par(ctx, result.Ok(40), result.Ok(2), func(a, b int) int { return a + b })
	require.NoError(t, err)
	v, rerr := r.Get()
	require.NoError(t, rerr)
	assert.Equal(t, 42, v)

	boom := errors.New("boom")
	r, err = result.Map2Par(ctx, result.Ok(1), result.Err[int](boom), func(a, b int) int { return a + b })
	require.NoError(t, err)
	_, rerr = r.Get()
	assert.ErrorIs(t, rerr, boom)
}

func TestMap2Par_ValidatedCombinesBothFailures(t *testing.T) {
	ctx := context.Background()
	errA := errors.New("left")
	errB := errors.New("right")

	v, err := validated.Map2Par(ctx, validated.Invalid[int](errA), validated.Invalid[int](errB), func(a, b int) int { return a + b })
	require.NoError(t, err)
	require.True(t, v.IsInvalid())
	_, verr := v.Get()
	assert.ErrorIs(t, verr, errA)
	assert.ErrorIs(t, verr, errB)
}

func TestTraverseParKeyed_PreservesPerKeyOrder(t *testing.T) {
	ctx := context.Background()
	type job struct {
		key string
		seq int
	}
	jobs := []job{
		{"a", 0}, {"b", 0}, {"a", 1}, {"b", 1}, {"a", 2}, {"b", 2},
	}

	var mu sync.Mutex
	perKey := map[string][]int{}

	r, err := result.TraverseParKeyed(ctx, jobs,
		func(j job) string { return j.key },
		2, 4,
		func(_ context.Context, j job) (result.Result[string], error) {
			// Uneven work so cross-key interleaving actually happens.
			if j.key == "a" {
				time.Sleep(5 * time.Millisecond)
			}
			mu.Lock()
			perKey[j.key] = append(perKey[j.key], j.seq)
			mu.Unlock()
			return result.Ok(fmt.Sprintf("%s%d", j.key, j.seq)), nil
		})

	require.NoError(t, err)
	vs, rerr := r.Get()
	require.NoError(t, rerr)
	assert.Equal(t, []string{"a0", "b0", "a1", "b1", "a2", "b2"}, vs)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2}, perKey["a"], "same-key jobs must run in input order")
	assert.Equal(t, []int{0, 1, 2}, perKey["b"], "same-key jobs must run in input order")
}

func TestTraversePar_EmptyInputResolvesProductively(t *testing.T) {
	ctx := context.Background()

	r, err := result.TraversePar(ctx, nil, func(_ context.Context, n int) (result.Result[int], error) {
		return result.Ok(n), nil
	})

	require.NoError(t, err)
	vs, rerr := r.Get()
	require.NoError(t, rerr)
	assert.Empty(t, vs)
}
