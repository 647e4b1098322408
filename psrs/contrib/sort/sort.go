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

package sort

import "golang.org/x/exp/constraints"

// sortInsertionThreshold: use insertion sort for ranges this size or smaller.
const sortInsertionThreshold = 24

// Sort sorts data in-place in ascending order.
func Sort[T constraints.Integer](data []T) {
	n := len(data)
	if n <= 1 {
		return
	}
	sortImpl(data, maxDepth(n))
}

// maxDepth returns the recursion budget before falling back to heapsort:
// 2 * ceil(log2(n+1)).
func maxDepth(n int) int {
	depth := 0
	for tmp := n; tmp > 0; tmp >>= 1 {
		depth++
	}
	return depth * 2
}

// sortImpl is the recursive implementation of Sort.
func sortImpl[T constraints.Integer](data []T, depthLimit int) {
	for {
		n := len(data)
		if n <= sortInsertionThreshold {
			InsertionSort(data)
			return
		}

		if depthLimit == 0 {
			sortHeap(data)
			return
		}
		depthLimit--

		pivot := PivotSampled(data)
		lt, gt := Partition3Way(data, pivot)

		// Recurse into the smaller side, loop on the larger one.
		if lt < n-gt {
			sortImpl(data[:lt], depthLimit)
			data = data[gt:]
		} else {
			sortImpl(data[gt:], depthLimit)
			data = data[:lt]
		}
	}
}

// sortHeap is heapsort for O(n log n) worst-case guarantee.
func sortHeap[T constraints.Integer](data []T) {
	n := len(data)
	if n <= 1 {
		return
	}

	// Build max-heap
	for i := n/2 - 1; i >= 0; i-- {
		siftDown(data, i, n)
	}

	// Extract elements
	for i := n - 1; i > 0; i-- {
		data[0], data[i] = data[i], data[0]
		siftDown(data, 0, i)
	}
}

func siftDown[T constraints.Integer](data []T, i, n int) {
	for {
		largest := i
		left := 2*i + 1
		right := 2*i + 2

		if left < n && data[left] > data[largest] {
			largest = left
		}
		if right < n && data[right] > data[largest] {
			largest = right
		}

		if largest == i {
			break
		}

		data[i], data[largest] = data[largest], data[i]
		i = largest
	}
}

// IsSorted reports whether data is in ascending order.
func IsSorted[T constraints.Integer](data []T) bool {
	for i := 1; i < len(data); i++ {
		if data[i] < data[i-1] {
			return false
		}
	}
	return true
}
