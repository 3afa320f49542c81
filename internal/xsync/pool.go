// Package xsync provides a small bounded worker-pool abstraction used to cap
// fan-out concurrency within a single pipeline stage (the per-candidate
// highlight calls in evidence).
//
// Adapted from the pool/limiter shape in the Tangerg-lynx pkg/sync package:
// a narrow Pool interface over a real scheduler, backed here by
// gammazero/workerpool so that a stage can submit N jobs and block until
// they drain without hand-rolling a semaphore and WaitGroup every time.
package xsync

import (
	"sync"

	"github.com/gammazero/workerpool"

	"github.com/resonantlabs/shortlist/internal/xsafe"
)

// BoundedGroup runs a fixed number of jobs with at most `limit` executing
// concurrently, collecting the first error (if any) without aborting
// in-flight jobs — callers that need all results regardless of individual
// failures should ignore the returned error and inspect per-job state.
type BoundedGroup struct {
	pool  *workerpool.WorkerPool
	wg    sync.WaitGroup
	mu    sync.Mutex
	first error
}

// NewBoundedGroup creates a group that runs at most `limit` jobs at once.
// limit <= 0 is treated as 1.
func NewBoundedGroup(limit int) *BoundedGroup {
	if limit <= 0 {
		limit = 1
	}
	return &BoundedGroup{pool: workerpool.New(limit)}
}

// Go schedules fn to run on the pool. Panics inside fn are recovered and
// surfaced as the group's first error instead of crashing the worker.
func (g *BoundedGroup) Go(fn func() error) {
	g.wg.Add(1)
	g.pool.Submit(func() {
		defer g.wg.Done()
		err := xsafe.Call(fn)
		if err != nil {
			g.mu.Lock()
			if g.first == nil {
				g.first = err
			}
			g.mu.Unlock()
		}
	})
}

// Wait blocks until every submitted job has completed and releases the
// pool's workers. It returns the first error encountered, if any.
func (g *BoundedGroup) Wait() error {
	g.wg.Wait()
	g.pool.StopWait()
	return g.first
}
