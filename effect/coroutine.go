package effect

// Coroutine driver. Go has no native two-way generators, so the driven body
// runs in its own goroutine and trades values with the driver over
// unbuffered channels: Bind sends the yielded container value out and
// blocks until the driver resumes it with the extracted payload. Forcing an
// early return on a terminal yield is done by closing a halt channel, which
// makes the pending Bind panic with a private sentinel — deferred cleanup
// in the body runs during the unwind, exactly like a generator's forced
// return running its finally blocks.

// haltSignal is the sentinel carried by the forced-return panic. It never
// escapes the body goroutine.
type haltSignal struct{}

// Coro is the handle a driven body uses to bind container values.
// FY is the container type of yielded values, Y their payload type.
// Container packages drive with Y = any and recover concrete payload types
// in their typed Bind wrappers.
type Coro[FY, Y any] struct {
	yields  chan FY
	resumes chan Y
	halt    chan struct{}
}

// Bind yields f to the driver and blocks until the driver either resumes
// with f's success payload or forces the body to return because f was
// terminal. A body must interact with the driver only through Bind;
// yielding non-container values has no representation here, which removes
// the source contract's undefined-behavior corner by construction.
func (c *Coro[FY, Y]) Bind(f FY) Y {
	select {
	case c.yields <- f:
	case <-c.halt:
		panic(haltSignal{})
	}
	select {
	case v := <-c.resumes:
		return v
	case <-c.halt:
		panic(haltSignal{})
	}
}

// bodyOutcome is what the body goroutine reports back when it stops
// running, whatever the reason.
type bodyOutcome[R any] struct {
	ret      R
	halted   bool
	panicked bool
	cause    any
}

// Do drives body as a coroutine over container values.
//
// Every productive yield has its payload extracted and resumed into the
// body. The first terminal yield halts the body (its defers run), and Do
// returns retAlg.Terminal with the terminal's failure payload. If the body
// returns normally, Do wraps its return value with retAlg.Productive.
//
// If yieldAlg is Accumulating, the side payloads of every yield are
// combined in yield order and attached to the final value, so logging
// containers keep their logs across binds.
//
// A panic in the body other than the forced-return sentinel is re-panicked
// in the caller: a hard failure, distinct from the modeled terminal
// channel, and never coerced into a container value.
func Do[FY, Y, E, FR, R any](
	yieldAlg Algebra[FY, Y, E],
	retAlg Algebra[FR, R, E],
	body func(*Coro[FY, Y]) R,
) FR {
	co := &Coro[FY, Y]{
		yields:  make(chan FY),
		resumes: make(chan Y),
		halt:    make(chan struct{}),
	}
	done := make(chan bodyOutcome[R], 1)

	go func() {
		var out bodyOutcome[R]
		defer func() {
			if r := recover(); r != nil {
				if _, ok := r.(haltSignal); ok {
					out.halted = true
				} else {
					out.panicked = true
					out.cause = r
				}
			}
			done <- out
		}()
		out.ret = body(co)
	}()

	acc, accumulate := accumulatorOf(yieldAlg)
	var (
		accumulated E
		hasAcc      bool
	)
	merge := func(f FY) {
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

	for {
		select {
		case f := <-co.yields:
			if yieldAlg.IsTerminal(f) {
				close(co.halt)
				// Wait for the body to drain so its defers have run
				// before the halted result is returned.
				out := <-done
				if out.panicked {
					panic(out.cause)
				}
				merge(f)
				if accumulate && hasAcc {
					return retAlg.Terminal(accumulated)
				}
				return retAlg.Terminal(yieldAlg.Failure(f))
			}
			merge(f)
			co.resumes <- yieldAlg.Payload(f)
		case out := <-done:
			if out.panicked {
				panic(out.cause)
			}
			ret := retAlg.Productive(out.ret)
			if hasAcc {
				if retAcc, ok := accumulatorOf(retAlg); ok {
					ret = retAcc.Attach(ret, accumulated)
				}
			}
			return ret
		}
	}
}
