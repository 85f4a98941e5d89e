// Package taskpool provides small bounded-concurrency task runners,
// generalized from the worker-pool-over-channel pattern used ad hoc in
// the forge client's label resolution.
package taskpool

import (
	"context"
	"errors"
	"sync"
)

// Pool runs tasks with at most Size of them in flight at once.
type Pool struct {
	size int
}

// New returns a Pool that runs up to size tasks concurrently. A size
// of zero or less is treated as 1.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: size}
}

// Run invokes fn once per index in [0, n), waiting for every call to
// finish before returning; an error from one call does not stop the
// others. Once ctx is done, indexes not yet handed out are skipped.
// Errors from every call are joined; callers that need per-item
// results should have fn stash them through a closure, as calls run
// concurrently on up to the pool's size of goroutines.
func Run(ctx context.Context, p *Pool, n int, fn func(ctx context.Context, i int) error) error {
	if n == 0 {
		return nil
	}

	idxc := make(chan int)
	errc := make(chan error, n)

	var wg sync.WaitGroup
	workers := p.size
	if workers > n {
		workers = n
	}
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxc {
				errc <- fn(ctx, i)
			}
		}()
	}

	go func() {
		defer close(idxc)
		for i := range n {
			select {
			case idxc <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	close(errc)

	var errs []error
	for err := range errc {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
