package psrs

import (
	"cmp"
	"slices"
)

// SelectPivots sorts samples by value and returns the p-1 pivots at sorted
// positions i·p + p/2 - 1 for i = 1..p-1. samples normally holds p² entries,
// p from each worker. Ties between equal values are ordered arbitrarily.
func SelectPivots[K Key](samples []Sample[K], p int) []K {
	if p < 2 {
		return nil
	}
	slices.SortFunc(samples, func(a, b Sample[K]) int {
		return cmp.Compare(a.Value, b.Value)
	})

	rho := p / 2
	pivots := make([]K, 0, p-1)
	for i := 1; i < p; i++ {
		pos := min(i*p+rho-1, len(samples)-1)
		pivots = append(pivots, samples[pos].Value)
	}
	return pivots
}
