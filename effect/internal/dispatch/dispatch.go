// Package dispatch provides the partitioned worker pool behind keyed
// bounded-parallel traversal. Messages carrying the same partition key hash
// to the same worker goroutine, so they are handled in submission order,
// while messages with distinct keys proceed concurrently across workers.
package dispatch

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/lightfold/effectgo/effect/internal/elog"
)

// Keyed is implemented by messages that carry a partition key.
type Keyed interface {
	PartitionKey() string
}

// Config sizes a worker pool.
type Config struct {
	BufferSize int // default: 1
	NumWorkers int // default: 1
}

// NewConfig normalizes non-positive sizes to 1.
func NewConfig(bufferSize, numWorkers int) Config {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return Config{BufferSize: bufferSize, NumWorkers: numWorkers}
}

func indexByHash(msg Keyed, numChs int) int {
	switch numChs {
	case 0:
		panic("dispatch: number of channels cannot be 0")
	case 1:
		return 0
	default:
		return int(xxhash.Sum64String(msg.PartitionKey()) % uint64(numChs))
	}
}

// Pool is a fixed set of worker goroutines, one queue each, selected by
// partition-key hash. Workers run until ctx is cancelled.
type Pool[T Keyed] struct {
	chs []chan T
}

// NewPool starts cfg.NumWorkers workers that apply handle to every
// submitted message. It returns once every worker is running.
func NewPool[T Keyed](ctx context.Context, cfg Config, handle func(context.Context, T)) Pool[T] {
	channels := make([]chan T, cfg.NumWorkers)
	ready := sync.WaitGroup{}
	for i := 0; i < cfg.NumWorkers; i++ {
		ready.Add(1)
		// The channel is never closed: a sender blocked in Submit's select
		// must not race a close from the exiting worker. Unread messages are
		// reclaimed with the channel itself.
		ch := make(chan T, cfg.BufferSize)
		go func(ch chan T) {
			ready.Done()
			for {
				select {
				case msg := <-ch:
					handle(ctx, msg)
				case <-ctx.Done():
					return
				}
			}
		}(ch)
		channels[i] = ch
	}
	ready.Wait()
	elog.L().Debug("dispatch pool started",
		zap.Int("workers", cfg.NumWorkers),
		zap.Int("bufferSize", cfg.BufferSize),
	)
	return Pool[T]{chs: channels}
}

// Submit routes msg to the worker owning its partition key. Returns false
// if ctx was cancelled before the message could be queued.
func (p Pool[T]) Submit(ctx context.Context, msg T) bool {
	select {
	case p.chs[indexByHash(msg, len(p.chs))] <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}
