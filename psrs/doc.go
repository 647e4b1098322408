// Package psrs sorts integer arrays with Parallel Sort by Regular Sampling.
//
// PSRS runs a fixed number of workers through four phases:
//
//  1. Local sort: each worker sorts its contiguous block of the array in
//     place and takes p regular samples from it.
//  2. Partition: the coordinator sorts the p² samples and picks p-1 pivots;
//     each worker then splits its block into p buckets by binary search.
//  3. Exchange: bucket j of every worker is routed to worker j. Only index
//     ranges move, never values.
//  4. Merge: each worker k-way merges the p runs it received.
//
// Concatenating the merged runs in worker order yields the sorted array.
//
// Basic usage:
//
//	import "github.com/solarcreature/PSRS/psrs"
//
//	sorted, err := psrs.Sort(ctx, data, runtime.GOMAXPROCS(0))
//
// For repeated sorts, or to observe phase boundaries, build a Sorter:
//
//	s, err := psrs.New[int64](psrs.Config{Threads: 8, Observer: recorder})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	res, err := s.Sort(ctx, data)
//	out := res.Concat()
package psrs
