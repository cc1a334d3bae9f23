package eval

import "github.com/lightfold/effectgo/shared/helper"

// Generator-driven construction. The body runs in its own goroutine and
// binds upstream Evals through Await; the whole composition is wrapped in
// Defer so the body does not start until the composed Eval is actually Run.
// Recursive coroutines therefore cost one goroutine per nesting level —
// heap, not native stack.

// Co is the binder handle passed to Do bodies.
type Co struct {
	yields  chan node
	resumes chan any
}

func (c *Co) bind(n node) any {
	c.yields <- n
	return <-c.resumes
}

// Await evaluates e and returns its outcome into the body.
func Await[B any](co *Co, e Eval[B]) B {
	return helper.MustGetTypedValue[B](func() (any, error) {
		return co.bind(e.n), nil
	})
}

// Do builds an Eval from a coroutine body. Each Await runs the bound Eval
// through the trampoline before resuming the body with its outcome. A panic
// in the body propagates out of Run.
func Do[R any](body func(co *Co) R) Eval[R] {
	return Defer(func() Eval[R] {
		co := &Co{
			yields:  make(chan node),
			resumes: make(chan any),
		}
		type outcome struct {
			ret      R
			panicked bool
			cause    any
		}
		done := make(chan outcome, 1)

		go func() {
			var out outcome
			defer func() {
				if r := recover(); r != nil {
					out.panicked = true
					out.cause = r
				}
				done <- out
			}()
			out.ret = body(co)
		}()

		for {
			select {
			case n := <-co.yields:
				co.resumes <- run(n)
			case out := <-done:
				if out.panicked {
					panic(out.cause)
				}
				return Now(out.ret)
			}
		}
	})
}
