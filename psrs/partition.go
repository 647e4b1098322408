package psrs

// Partition splits the sorted block into len(pivots)+1 buckets, appended to
// dst as block-relative ranges. Bucket i holds the keys in
// (pivots[i-1], pivots[i]]: a key equal to a pivot goes to the lower bucket.
// The buckets are contiguous, ascending, and cover the block exactly once.
//
// pivots must be ascending.
func Partition[K Key](block []K, pivots []K, dst []Range) []Range {
	start := 0
	for _, pivot := range pivots {
		end := upperBound(block, start, pivot)
		dst = append(dst, Range{Start: start, End: end})
		start = end
	}
	return append(dst, Range{Start: start, End: len(block)})
}

// upperBound returns the first index i in [lo, len(block)) with
// block[i] > pivot, or len(block). block[i-1] is then the rightmost key not
// exceeding the pivot.
func upperBound[K Key](block []K, lo int, pivot K) int {
	hi := len(block)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if block[mid] <= pivot {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// globalize appends the buckets shifted by off to dst.
func globalize(buckets []Range, off int, dst []Range) []Range {
	for _, b := range buckets {
		dst = append(dst, b.Shift(off))
	}
	return dst
}
