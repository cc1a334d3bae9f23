package effect_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightfold/effectgo/effect/result"
	"github.com/lightfold/effectgo/effect/writer"
)

func TestDo_ThreadsPayloadsThroughBinds(t *testing.T) {
	r := result.Do(func(co *result.Co) int {
		a := result.Bind(co, result.Ok(20))
		b := result.Bind(co, result.Ok(22))
		return a + b
	})

	v, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestDo_HaltsAtFirstTerminal(t *testing.T) {
	boom := errors.New("boom")
	laterRan := false

	r := result.Do(func(co *result.Co) int {
		result.Bind(co, result.Err[int](boom))
		laterRan = true
		return result.Bind(co, result.Ok(1))
	})

	_, err := r.Get()
	assert.ErrorIs(t, err, boom)
	assert.False(t, laterRan, "body must not continue past a terminal bind")
}

func TestDo_DefersRunBeforeHaltedResultReturns(t *testing.T) {
	boom := errors.New("boom")
	cleaned := false

	r := result.Do(func(co *result.Co) int {
		defer func() { cleaned = true }()
		return result.Bind(co, result.Err[int](boom))
	})

	_, err := r.Get()
	assert.ErrorIs(t, err, boom)
	assert.True(t, cleaned, "deferred cleanup must run during the forced return")
}

func TestDo_NestedDefersRunInOrder(t *testing.T) {
	var order []string
	inner := func(co *result.Co) int {
		defer func() { order = append(order, "inner") }()
		return result.Bind(co, result.Err[int](errors.New("halt")))
	}

	r := result.Do(func(co *result.Co) int {
		defer func() { order = append(order, "outer") }()
		return inner(co)
	})

	require.True(t, r.IsErr())
	assert.Equal(t, []string{"inner", "outer"}, order)
}

func TestDo_BodyPanicPropagatesAsHardFailure(t *testing.T) {
	assert.PanicsWithValue(t, "kaput", func() {
		result.Do(func(co *result.Co) int {
			result.Bind(co, result.Ok(1))
			panic("kaput")
		})
	})
}

func TestDo_NoBindsWrapsReturnProductively(t *testing.T) {
	r := result.Do(func(*result.Co) string { return "plain" })

	v, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, "plain", v)
}

func concat(a, b string) string { return a + b }

func TestWriterDo_AccumulatesLogsAcrossBinds(t *testing.T) {
	w := writer.Do(concat, func(co *writer.Co[string]) int {
		a := writer.Bind(co, writer.Logged("a", 1))
		writer.Bind(co, writer.Tell[string]("b"))
		c := writer.Bind(co, writer.Logged("c", 2))
		return a + c
	})

	require.False(t, w.IsFailed())
	assert.Equal(t, 3, w.Value())
	log, ok := w.Log()
	require.True(t, ok)
	assert.Equal(t, "abc", log)
}

func TestWriterDo_FailureKeepsEverythingLogged(t *testing.T) {
	w := writer.Do(concat, func(co *writer.Co[string]) int {
		writer.Bind(co, writer.Logged("a", 1))
		writer.Bind(co, writer.Fail[string, int]("x"))
		return 0
	})

	require.True(t, w.IsFailed())
	log, ok := w.Log()
	require.True(t, ok)
	assert.Equal(t, "ax", log)
}
