// Package workerpool provides a bounded pool for CPU-bound work. Callers
// submit a function and wait for its result; the calling goroutine stays
// responsive to context cancellation while the work runs.
package workerpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of concurrently executing submissions with a
// weighted semaphore. Safe for concurrent use.
type Pool struct {
	sem *semaphore.Weighted
}

// New creates a pool that runs at most size submissions concurrently.
// A size below 1 defaults to runtime.NumCPU().
func New(size int) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size))}
}

// Submit runs fn on the pool and blocks until it completes or ctx is done.
// If ctx is cancelled while waiting for a slot, fn never runs. If ctx is
// cancelled after fn has started, Submit returns the context error and the
// running computation finishes in the background with its result discarded;
// fn must therefore not mutate shared state.
func (p *Pool) Submit(ctx context.Context, fn func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		defer p.sem.Release(1)
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
