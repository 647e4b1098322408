// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestNew(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	if pool.NumWorkers() != 4 {
		t.Errorf("NumWorkers() = %d, want 4", pool.NumWorkers())
	}
}

func TestNewDefault(t *testing.T) {
	pool := New(0)
	defer pool.Close()

	if pool.NumWorkers() != runtime.GOMAXPROCS(0) {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), runtime.GOMAXPROCS(0))
	}
}

func TestRunEveryID(t *testing.T) {
	pool := New(6)
	defer pool.Close()

	seen := make([]int, 6)
	err := pool.Run(context.Background(), func(_ context.Context, id int) error {
		seen[id]++
		return nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("worker %d ran %d times, want 1", id, n)
		}
	}
}

// TestRunRendezvous checks that all tasks of a round run concurrently: each
// one waits until every task has started.
func TestRunRendezvous(t *testing.T) {
	const workers = 8
	pool := New(workers)
	defer pool.Close()

	for round := range 20 {
		var started sync.WaitGroup
		started.Add(workers)
		err := pool.Run(context.Background(), func(_ context.Context, id int) error {
			started.Done()
			started.Wait()
			return nil
		})
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
	}
}

func TestRunErrorCancels(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	boom := errors.New("boom")
	err := pool.Run(context.Background(), func(ctx context.Context, id int) error {
		if id == 2 {
			return boom
		}
		<-ctx.Done()
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("Run error = %v, want %v", err, boom)
	}
}

func TestRunPanic(t *testing.T) {
	pool := New(2)
	defer pool.Close()

	err := pool.Run(context.Background(), func(ctx context.Context, id int) error {
		if id == 0 {
			panic("bad worker")
		}
		<-ctx.Done()
		return nil
	})
	if err == nil {
		t.Fatal("Run should report the panic")
	}

	// The pool stays usable.
	var ran atomic.Int32
	if err := pool.Run(context.Background(), func(context.Context, int) error {
		ran.Add(1)
		return nil
	}); err != nil {
		t.Fatalf("Run after panic: %v", err)
	}
	if ran.Load() != 2 {
		t.Errorf("ran = %d, want 2", ran.Load())
	}
}

func TestRunClosed(t *testing.T) {
	pool := New(2)
	pool.Close()

	err := pool.Run(context.Background(), func(context.Context, int) error { return nil })
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Run on closed pool = %v, want ErrClosed", err)
	}
}

func TestParallelForAtomic(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	n := 100
	results := make([]int, n)

	pool.ParallelForAtomic(n, func(i int) {
		results[i] = i * 2
	})

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestParallelForAtomicEmpty(t *testing.T) {
	pool := New(4)
	defer pool.Close()

	called := false
	pool.ParallelForAtomic(0, func(i int) {
		called = true
	})

	if called {
		t.Error("fn should not be called for n=0")
	}
}

func TestClosedPoolFallback(t *testing.T) {
	pool := New(4)
	pool.Close()

	var sum atomic.Int64
	pool.ParallelForAtomic(100, func(i int) {
		sum.Add(int64(i))
	})

	expected := int64(99 * 100 / 2)
	if sum.Load() != expected {
		t.Errorf("sum = %d, want %d", sum.Load(), expected)
	}
}

func TestMultipleCloses(t *testing.T) {
	pool := New(4)
	pool.Close()
	pool.Close()
	pool.Close()
}
