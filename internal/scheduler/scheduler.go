// Package scheduler provides the bounded worker pool that runs one hashing
// task per input file. Results are correlated to their originating input
// slot, never to completion order: worker completion order is
// nondeterministic and must not decide which file a digest belongs to.
package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/multisum/multisum/internal/hashing"
)

// DefaultWorkers is the pool size used when the configuration does not set
// one.
const DefaultWorkers = 4

// ErrNotProcessed marks result slots whose task was never started because
// dispatch stopped after an earlier failure or a context cancellation.
var ErrNotProcessed = errors.New("task not processed")

// Task computes the digests for a single file. Each invocation owns its own
// accumulators; tasks share no mutable hashing state.
type Task func(ctx context.Context, path string) (*hashing.FileDigestSet, error)

// Result is the outcome of one task, keyed by the input path it was
// dispatched for.
type Result struct {
	Path string
	Set  *hashing.FileDigestSet
	Err  error
}

// Pool is a fixed-size worker pool.
type Pool struct {
	workers int
}

// New creates a pool with the given worker count. Counts below 1 are clamped
// to 1.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Workers returns the pool size.
func (p *Pool) Workers() int {
	return p.workers
}

// Run dispatches one task per path and returns one Result per input path, in
// input order. Per-path failures are recorded in their result slot.
//
// With ignoreErrors false, the first failure stops dispatch of not-yet-started
// tasks; already-started tasks finish, their results are kept, and the first
// error is returned. Slots that were never dispatched carry ErrNotProcessed.
// With ignoreErrors true, all paths are processed and the returned error is
// nil unless ctx was cancelled.
func (p *Pool) Run(ctx context.Context, paths []string, task Task, ignoreErrors bool) ([]Result, error) {
	results := make([]Result, len(paths))
	for i, path := range paths {
		results[i] = Result{Path: path, Err: ErrNotProcessed}
	}

	tasks := make(chan int)
	stop := make(chan struct{})
	var stopOnce sync.Once

	var errMu sync.Mutex
	var firstErr error
	recordErr := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
		stopOnce.Do(func() { close(stop) })
	}

	go func() {
		defer close(tasks)
		for i := range paths {
			select {
			case <-stop:
				return
			case <-ctx.Done():
				return
			case tasks <- i:
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range tasks {
				set, err := task(ctx, paths[i])
				// Each worker writes only its own slots; no lock needed.
				results[i] = Result{Path: paths[i], Set: set, Err: err}
				if err != nil && !ignoreErrors {
					recordErr(err)
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}
	return results, firstErr
}
