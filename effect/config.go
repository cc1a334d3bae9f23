package effect

import "github.com/lightfold/effectgo/effect/internal/dispatch"

// PoolConfig sizes the worker pool of a keyed parallel traversal.
type PoolConfig = dispatch.Config

// NewPoolConfig normalizes non-positive sizes to 1.
func NewPoolConfig(bufferSize, numWorkers int) PoolConfig {
	return dispatch.NewConfig(bufferSize, numWorkers)
}
