package psrs

import (
	"github.com/samber/lo"

	"github.com/solarcreature/PSRS/psrs/contrib/workerpool"
)

// Result is the state of a finished PSRS run.
type Result[K Key] struct {
	// Workers holds every worker's state, indexed by worker id.
	Workers []Worker[K]

	// Pivots are the p-1 pivots shared by all workers.
	Pivots []K

	// Table is the partition table built by the exchange phase.
	Table *Table

	data []K
	pool *workerpool.Pool
}

// Len returns the number of sorted keys.
func (r *Result[K]) Len() int {
	return len(r.data)
}

// Offsets returns the position of each worker's merged run in the final
// output, followed by the total length.
func (r *Result[K]) Offsets() []int {
	offsets := make([]int, len(r.Workers)+1)
	for i := range r.Workers {
		offsets[i+1] = offsets[i] + len(r.Workers[i].Merged)
	}
	return offsets
}

// Concat returns the merged runs concatenated in worker order: the sorted
// array. The copies run in parallel on the sorter's workers, or sequentially
// once the sorter is closed.
func (r *Result[K]) Concat() []K {
	offsets := r.Offsets()
	out := make([]K, offsets[len(offsets)-1])
	copyRun := func(i int) {
		copy(out[offsets[i]:offsets[i+1]], r.Workers[i].Merged)
	}
	if r.pool == nil {
		for i := range r.Workers {
			copyRun(i)
		}
		return out
	}
	r.pool.ParallelForAtomic(len(r.Workers), copyRun)
	return out
}

// Stats describes how evenly a run spread the keys.
type Stats struct {
	Threads int
	Keys    int

	// BucketSizes[src][dst] is the size of source worker src's bucket dst.
	BucketSizes [][]int

	// MergeInputs[dst] is the number of keys worker dst merged.
	MergeInputs []int

	// Ideal is Keys / Threads.
	Ideal float64

	// Imbalance is max(MergeInputs) / Ideal; 1 is perfect balance.
	Imbalance float64
}

// Stats returns the bucket and merge-input sizes of the run.
func (r *Result[K]) Stats() Stats {
	st := Stats{Threads: len(r.Workers), Keys: len(r.data)}
	if st.Threads == 0 {
		return st
	}

	st.BucketSizes = lo.Map(r.Workers, func(w Worker[K], _ int) []int {
		return lo.Map(w.Buckets, func(b Range, _ int) int { return b.Len() })
	})
	st.MergeInputs = lo.Map(r.Workers, func(w Worker[K], _ int) int {
		return totalLen(w.Inputs)
	})
	st.Ideal = float64(st.Keys) / float64(st.Threads)
	st.Imbalance = float64(lo.Max(st.MergeInputs)) / st.Ideal
	return st
}
