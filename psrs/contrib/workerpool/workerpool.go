// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a fixed-size, persistent worker pool for
// phase-structured parallel computation. A Pool is created once with the
// number of workers an algorithm needs and reused for every phase, so the
// goroutines are spawned once per sorter rather than once per phase.
//
// Run dispatches exactly one task per worker id and waits for all of them.
// Because there are exactly as many goroutines as tasks, tasks of one Run may
// rendezvous with each other on a barrier without deadlocking.
//
// Usage:
//
//	pool := workerpool.New(threads)
//	defer pool.Close()
//
//	for _, phase := range phases {
//	    if err := pool.Run(ctx, phase); err != nil {
//	        return err
//	    }
//	}
package workerpool

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("workerpool: closed")

// Pool is a persistent worker pool that can be reused across many parallel
// operations. Workers are spawned once at creation and reused.
type Pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool

	// runMu serializes Run and ParallelForAtomic: a Run round needs every
	// worker at once.
	runMu sync.Mutex
}

// workItem represents a single parallel operation to execute.
type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

// New creates a new worker pool with the specified number of workers.
// Workers are spawned immediately and persist until Close is called.
// If numWorkers <= 0, uses GOMAXPROCS.
func New(numWorkers int) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers),
	}

	for range numWorkers {
		go p.worker()
	}

	return p
}

// worker is the main loop for each persistent worker goroutine.
func (p *Pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Close shuts down the worker pool. All pending work will complete.
// Calling Close multiple times is safe.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		p.runMu.Lock()
		defer p.runMu.Unlock()
		p.closed.Store(true)
		close(p.workC)
	})
}

// Run executes fn(ctx, id) once for every worker id in [0, NumWorkers()),
// each on its own goroutine, and blocks until all of them return.
//
// The ctx passed to fn is cancelled as soon as any fn returns an error, so
// that workers blocked on a shared barrier are released. All errors are
// combined into the result.
//
// Unlike the ParallelFor helpers, Run never degrades to sequential execution:
// tasks of one round may wait for each other. It returns ErrClosed instead.
func (p *Pool) Run(ctx context.Context, fn func(ctx context.Context, id int) error) error {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if p.closed.Load() {
		return ErrClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make([]error, p.numWorkers)
	var wg sync.WaitGroup
	wg.Add(p.numWorkers)

	for id := range p.numWorkers {
		p.workC <- workItem{
			fn: func() {
				defer func() {
					if r := recover(); r != nil {
						errs[id] = errors.Newf("worker %d panicked: %v", id, r)
						cancel()
					}
				}()
				if err := fn(ctx, id); err != nil {
					errs[id] = errors.Wrapf(err, "worker %d", id)
					cancel()
				}
			},
			barrier: &wg,
		}
	}

	wg.Wait()

	var combined error
	for _, err := range errs {
		combined = errors.CombineErrors(combined, err)
	}
	return combined
}

// ParallelForAtomic executes fn for each index in [0, n) using atomic work
// stealing. This provides better load balancing when work per item varies.
// Blocks until all work completes.
//
// fn receives the index to process.
func (p *Pool) ParallelForAtomic(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	p.runMu.Lock()
	defer p.runMu.Unlock()

	workers := min(p.numWorkers, n)

	if p.closed.Load() || workers == 1 {
		// Fallback to sequential if pool is closed or there is one item
		for i := range n {
			fn(i)
		}
		return
	}

	var nextIdx atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		p.workC <- workItem{
			fn: func() {
				for {
					idx := int(nextIdx.Add(1)) - 1
					if idx >= n {
						return
					}
					fn(idx)
				}
			},
			barrier: &wg,
		}
	}

	wg.Wait()
}
