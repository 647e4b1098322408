// Package sort provides the in-place comparison sort used for PSRS local
// blocks.
//
// # Algorithm
//
// Sort is an introsort variant that combines:
//   - Insertion sort for small ranges
//   - 3-way quicksort partitioning around a sampled median, so runs of equal
//     keys are settled in one pass
//   - Heapsort fallback to guarantee O(n log n) worst case
//
// The sort is not stable; duplicate keys are interchangeable.
//
// # Supported Types
//
// Any integer type (golang.org/x/exp/constraints.Integer).
//
// # Example Usage
//
//	import "github.com/solarcreature/PSRS/psrs/contrib/sort"
//
//	func ProcessBlock(block []int64) {
//	    sort.Sort(block) // In-place ascending sort
//	}
//
// # Performance
//
// Random data is the best case. Adversarial patterns (sorted, reverse,
// all-equal) degrade gracefully: all-equal input finishes in a single
// partition pass and the depth limit bounds the rest.
package sort
