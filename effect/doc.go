// Package effect contains the shared composition machinery behind the
// concrete effect containers (option, result, validated, writer): the
// capability contract every container exposes to the core, a coroutine
// driver for writing sequential binds as straight-line code, and sequential
// and concurrent aggregation over collections of effectful steps.
//
// The core never inspects a concrete container type. Containers participate
// by supplying an Algebra instance — a predicate for terminality, payload
// extractors, and terminal/productive constructors — and, for containers
// with an accumulating failure or log channel, an Accumulating instance
// whose associative Combine merges two payloads.
//
// Because Go has no higher-kinded types, operations that change the payload
// type (traversals wrap a collection where steps produced elements) accept
// two Algebra instances: one describing the stepped values, one describing
// the wrapped result. The container packages provide typed wrappers that
// hide this plumbing; most callers never touch the core directly.
package effect
