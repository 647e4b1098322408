// Package verify checks a parallel sort's output against a sequential
// reference. It is the oracle used by the psrs command and the tests; the
// sorter itself never depends on it.
//
// Two independent checks are made:
//   - the output equals a reference ascending sort of the input, element by
//     element;
//   - the output is non-decreasing and has the same multiset digest as the
//     input (Checksum), which catches lost or duplicated keys without
//     trusting the reference sort.
package verify

import (
	"context"
	"encoding/binary"
	"slices"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"
)

// Reference returns a sorted copy of input.
func Reference[K constraints.Integer](input []K) []K {
	ref := slices.Clone(input)
	slices.Sort(ref)
	return ref
}

// Equal reports whether got and want have the same length and elements.
func Equal[K constraints.Integer](got, want []K) bool {
	return slices.Equal(got, want)
}

// Sum is an order-independent digest of a multiset of keys.
type Sum struct {
	Count uint64
	Hash  uint64
}

// Checksum digests values as a multiset: the count, and the wrapping sum of
// the xxhash64 of each key's fixed-width little-endian encoding. Permuting
// values does not change the result.
func Checksum[K constraints.Integer](values []K) Sum {
	var zero K
	width := int(unsafe.Sizeof(zero))
	var buf [8]byte
	var s Sum
	for _, v := range values {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		s.Hash += xxhash.Sum64(buf[:width])
		s.Count++
	}
	return s
}

// Report is the outcome of Verify.
type Report struct {
	// Equivalent: output equals the reference sort of the input.
	Equivalent bool

	// Sorted: output is non-decreasing.
	Sorted bool

	// ChecksumMatch: output and input have the same multiset digest.
	ChecksumMatch bool

	InputSum, OutputSum Sum
}

// OK is the single verdict: every check passed.
func (r Report) OK() bool {
	return r.Equivalent && r.Sorted && r.ChecksumMatch
}

// Verify checks output against input. input must hold the original keys (not
// the block-sorted array the sorter leaves behind). The checks run
// concurrently; ctx cancels them.
func Verify[K constraints.Integer](ctx context.Context, input, output []K) (Report, error) {
	return VerifyAgainst(ctx, input, nil, output)
}

// VerifyAgainst is Verify with a precomputed reference sort. If reference is
// nil it is computed from input.
func VerifyAgainst[K constraints.Integer](ctx context.Context, input, reference, output []K) (Report, error) {
	var rep Report
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ref := reference
		if ref == nil {
			ref = Reference(input)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rep.Equivalent = Equal(output, ref)
		return nil
	})
	g.Go(func() error {
		rep.InputSum = Checksum(input)
		return ctx.Err()
	})
	g.Go(func() error {
		rep.Sorted = slices.IsSorted(output)
		rep.OutputSum = Checksum(output)
		return ctx.Err()
	})

	if err := g.Wait(); err != nil {
		return Report{}, errors.Wrap(err, "verify")
	}
	rep.ChecksumMatch = rep.InputSum == rep.OutputSum
	return rep, nil
}
