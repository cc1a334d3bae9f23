package effect

// Algebra is the capability contract a container type supplies to the core.
//
// F is the container type, A its success payload, E its failure payload.
// An F value is in exactly one of two states: terminal (carries an E) or
// productive (carries an A). The core constructs container values only
// through Terminal and Productive and inspects them only through
// IsTerminal, Payload and Failure — it never special-cases a concrete
// container.
type Algebra[F, A, E any] interface {
	IsTerminal(f F) bool

	// Payload returns the success payload. Meaningless when f is terminal.
	Payload(f F) A

	// Failure returns the failure payload. Meaningless when f is productive.
	Failure(f F) E

	Terminal(e E) F
	Productive(a A) F
}

// Accumulating is the optional capability of containers with an
// accumulating failure or log channel. The core detects it by interface
// assertion on the Algebra instance; containers that implement it are
// aggregated under the accumulate policy, all others under the halt policy.
//
// Accumulated must report a payload for every terminal value. Logging
// containers additionally report one for productive values, which is how a
// single accumulate loop serves both failure accumulation and log
// threading.
type Accumulating[F, E any] interface {
	// Combine merges two accumulated payloads. Must be associative.
	Combine(a, b E) E

	// Accumulated returns the side payload carried by f, if any.
	Accumulated(f F) (E, bool)

	// Attach prepends an already-accumulated payload onto f.
	Attach(f F, e E) F
}

// accumulatorOf asserts the Accumulating capability of an algebra instance.
func accumulatorOf[F, A, E any](alg Algebra[F, A, E]) (Accumulating[F, E], bool) {
	acc, ok := any(alg).(Accumulating[F, E])
	return acc, ok
}

// Unit is the empty payload type. Containers without a meaningful failure
// payload (option) use it as their E.
type Unit = struct{}
