// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package psrs

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/golang/glog"

	"github.com/solarcreature/PSRS/psrs/barrier"
	"github.com/solarcreature/PSRS/psrs/contrib/workerpool"
)

// Sorter runs PSRS with a fixed number of workers. The workers are spawned
// once by New and reused by every call to Sort.
type Sorter[K Key] struct {
	threads  int
	observer Observer
	pool     *workerpool.Pool
}

// New creates a Sorter. Close it to stop its workers.
func New[K Key](cfg Config) (*Sorter[K], error) {
	threads, err := cfg.threads()
	if err != nil {
		return nil, err
	}
	return &Sorter[K]{
		threads:  threads,
		observer: cfg.Observer,
		pool:     workerpool.New(threads),
	}, nil
}

// Threads returns the number of workers.
func (s *Sorter[K]) Threads() int {
	return s.threads
}

// Close stops the workers. Results already returned stay valid.
func (s *Sorter[K]) Close() {
	s.pool.Close()
}

// Sort sorts data with PSRS. Phase 1 sorts each worker's block of data in
// place; the final order is available from Result.Concat, data itself is not
// globally sorted afterwards.
//
// len(data) must be at least Threads(). ctx bounds the whole run: when it is
// done, workers blocked on a phase barrier are released and Sort returns the
// context error. No partial result is returned on error.
func (s *Sorter[K]) Sort(ctx context.Context, data []K) (*Result[K], error) {
	n, p := len(data), s.threads
	if n == 0 {
		return &Result[K]{pool: s.pool}, nil
	}
	if n < p {
		return nil, errors.Wrapf(ErrInvalidConfig, "%d keys cannot be split across %d workers", n, p)
	}

	blocks := Blocks(n, p)
	if err := checkBlocks(blocks, n); err != nil {
		return nil, err
	}

	res := &Result[K]{
		Workers: make([]Worker[K], p),
		Table:   NewTable(p),
		data:    data,
		pool:    s.pool,
	}
	for i := range res.Workers {
		res.Workers[i].ID = i
		res.Workers[i].Block = blocks[i]
	}
	glog.V(2).Infof("psrs: sorting %d keys with %d workers", n, p)

	// Phase 1: local sort and regular sampling.
	stride := SampleStride(n, p)
	err := s.runPhase(ctx, PhaseLocalSort, res, func(_ context.Context, _ *barrier.Barrier, w *Worker[K]) error {
		block := data[w.Block.Start:w.Block.End]
		w.Samples = SortAndSample(block, w.Block.Start, stride, p, make([]Sample[K], 0, p))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Pivot selection, on the coordinator.
	samples := make([]Sample[K], 0, p*p)
	for i := range res.Workers {
		samples = append(samples, res.Workers[i].Samples...)
	}
	res.Pivots = SelectPivots(samples, p)
	for i := range res.Workers {
		res.Workers[i].Pivots = res.Pivots
	}
	glog.V(2).Infof("psrs: pivots %v", res.Pivots)
	s.notify(PhasePivots)

	// Phase 2: partition each block by the pivots.
	err = s.runPhase(ctx, PhasePartition, res, func(_ context.Context, _ *barrier.Barrier, w *Worker[K]) error {
		block := data[w.Block.Start:w.Block.End]
		w.Buckets = Partition(block, w.Pivots, make([]Range, 0, p))
		w.GlobalBuckets = globalize(w.Buckets, w.Block.Start, make([]Range, 0, p))
		if glog.V(3) {
			glog.Infof("psrs: worker %d buckets %v", w.ID, w.GlobalBuckets)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Phase 3: publish own row, wait for every row, then read own column.
	err = s.runPhase(ctx, PhaseExchange, res, func(ctx context.Context, b *barrier.Barrier, w *Worker[K]) error {
		res.Table.Publish(w.ID, w.GlobalBuckets)
		if err := b.Wait(ctx); err != nil {
			return err
		}
		w.Inputs = res.Table.Column(w.ID, make([]Range, 0, p))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Phase 4: k-way merge of the received runs.
	err = s.runPhase(ctx, PhaseMerge, res, func(_ context.Context, _ *barrier.Barrier, w *Worker[K]) error {
		w.Merged = MergeRuns(data, w.Inputs, make([]K, 0, totalLen(w.Inputs)))
		if glog.V(3) {
			glog.Infof("psrs: worker %d merged %d keys", w.ID, len(w.Merged))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// phaseFunc is the per-worker body of a phase. b is the phase barrier, for
// phases that need a rendezvous before they finish.
type phaseFunc[K Key] func(ctx context.Context, b *barrier.Barrier, w *Worker[K]) error

// runPhase runs fn on every worker and joins them. Each worker passes the
// phase barrier after fn. The barrier's party count is taken from the live
// worker count every time.
func (s *Sorter[K]) runPhase(ctx context.Context, phase Phase, res *Result[K], fn phaseFunc[K]) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "psrs: before phase %s", phase)
	}

	b, err := barrier.New(len(res.Workers))
	if err != nil {
		return err
	}
	defer b.Close()

	err = s.pool.Run(ctx, func(ctx context.Context, id int) error {
		w := &res.Workers[id]
		if err := fn(ctx, b, w); err != nil {
			return err
		}
		return b.Wait(ctx)
	})
	if err != nil {
		return errors.Wrapf(err, "psrs: phase %s", phase)
	}

	glog.V(2).Infof("psrs: phase %s done", phase)
	s.notify(phase)
	return nil
}

func (s *Sorter[K]) notify(phase Phase) {
	if s.observer != nil {
		s.observer.PhaseDone(phase)
	}
}

// Sort sorts data with a temporary Sorter of the given number of workers and
// returns the sorted keys in a new slice. data is left block-sorted.
func Sort[K Key](ctx context.Context, data []K, threads int) ([]K, error) {
	s, err := New[K](Config{Threads: threads})
	if err != nil {
		return nil, err
	}
	defer s.Close()

	res, err := s.Sort(ctx, data)
	if err != nil {
		return nil, err
	}
	return res.Concat(), nil
}
