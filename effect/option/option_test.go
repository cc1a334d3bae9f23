package option_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lightfold/effectgo/effect/option"
)

func TestSomeAndNone(t *testing.T) {
	s := option.Some("hi")
	require.False(t, s.IsNone())
	v, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, "hi", v)

	n := option.None[string]()
	assert.True(t, n.IsNone())
	assert.Equal(t, "fallback", n.OrElse("fallback"))
	assert.Equal(t, "hi", s.OrElse("fallback"))
}

func TestMapAndFlatMap(t *testing.T) {
	o := option.Map(option.Some(21), func(n int) int { return n * 2 })
	assert.Equal(t, 42, o.OrElse(0))

	o = option.Map(option.None[int](), func(n int) int { return n * 2 })
	assert.True(t, o.IsNone())

	s := option.FlatMap(option.Some(7), func(n int) option.Option[string] {
		return option.Some(strconv.Itoa(n))
	})
	assert.Equal(t, "7", s.OrElse(""))

	s = option.FlatMap(option.Some(7), func(int) option.Option[string] {
		return option.None[string]()
	})
	assert.True(t, s.IsNone())
}

func TestDo_HaltsAtFirstNone(t *testing.T) {
	o := option.Do(func(co *option.Co) int {
		a := option.Bind(co, option.Some(40))
		b := option.Bind(co, option.Some(2))
		return a + b
	})
	assert.Equal(t, 42, o.OrElse(0))

	reached := false
	o = option.Do(func(co *option.Co) int {
		a := option.Bind(co, option.Some(40))
		b := option.Bind(co, option.None[int]())
		reached = true
		return a + b
	})
	assert.True(t, o.IsNone())
	assert.False(t, reached)
}

func TestTraverse_StopsAtFirstAbsence(t *testing.T) {
	lookup := map[string]int{"a": 1, "b": 2}
	var calls int

	o := option.Traverse([]string{"a", "missing", "b"}, func(k string) option.Option[int] {
		calls++
		if v, ok := lookup[k]; ok {
			return option.Some(v)
		}
		return option.None[int]()
	})

	assert.True(t, o.IsNone())
	assert.Equal(t, 2, calls)
}

func TestReduce_FoldsWhilePresent(t *testing.T) {
	o := option.Reduce([]int{1, 2, 3}, func(acc, n int) option.Option[int] {
		return option.Some(acc + n)
	}, 0)
	assert.Equal(t, 6, o.OrElse(-1))
}

func TestAll_CollectsOrNone(t *testing.T) {
	o := option.All([]option.Option[int]{option.Some(1), option.Some(2)})
	vs, ok := o.Get()
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, vs)

	o = option.All([]option.Option[int]{option.Some(1), option.None[int]()})
	assert.True(t, o.IsNone())
}

func TestForEach_RunsForEffect(t *testing.T) {
	var seen []string
	o := option.ForEach([]string{"x", "y"}, func(s string) option.Option[string] {
		seen = append(seen, s)
		return option.Some(s)
	})
	require.False(t, o.IsNone())
	assert.Equal(t, []string{"x", "y"}, seen)
}
