package psrs

import "github.com/solarcreature/PSRS/psrs/contrib/sort"

// SampleStride returns the distance between regular samples for an array of
// n keys and p workers: n / p². It is 0 when n < p², in which case every
// sample is taken at offset 0.
func SampleStride(n, p int) int {
	return n / (p * p)
}

// SortAndSample sorts block in place and appends p regular samples to dst,
// taken at offsets 0, stride, 2·stride, … of the sorted block. start is the
// global index of block[0].
//
// Blocks built by Blocks are always long enough: (p-1)·(n/p²) < n/p.
func SortAndSample[K Key](block []K, start, stride, p int, dst []Sample[K]) []Sample[K] {
	sort.Sort(block)
	if len(block) == 0 {
		return dst
	}
	for i := range p {
		off := min(i*stride, len(block)-1)
		dst = append(dst, Sample[K]{Value: block[off], Index: start + off})
	}
	return dst
}
