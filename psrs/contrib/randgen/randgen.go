// Package randgen fills large key arrays with seeded pseudo-random input.
//
// The array is cut into fixed-size chunks and chunk c is generated by its
// own PCG stream seeded from (seed, c). Chunks are filled in parallel, yet
// the contents depend only on the seed, never on the number of workers.
package randgen

import (
	"math/rand/v2"

	"github.com/solarcreature/PSRS/psrs/contrib/workerpool"
)

// ChunkSize is the number of keys generated by one stream.
const ChunkSize = 1 << 16

// streamMix separates the per-chunk stream seeds from the user seed.
const streamMix = 0x9e3779b97f4a7c15

// Fill overwrites data with keys drawn from seed. If maxValue > 0 the keys
// are uniform in [0, maxValue); otherwise they span the whole int64 range,
// negatives included. A nil pool fills sequentially.
func Fill(pool *workerpool.Pool, data []int64, seed uint64, maxValue int64) {
	chunks := (len(data) + ChunkSize - 1) / ChunkSize
	fillChunk := func(c int) {
		start := c * ChunkSize
		end := min(start+ChunkSize, len(data))
		r := rand.New(rand.NewPCG(seed, uint64(c)^streamMix))
		chunk := data[start:end]
		if maxValue > 0 {
			for i := range chunk {
				chunk[i] = r.Int64N(maxValue)
			}
			return
		}
		for i := range chunk {
			chunk[i] = int64(r.Uint64())
		}
	}

	if pool == nil {
		for c := range chunks {
			fillChunk(c)
		}
		return
	}
	pool.ParallelForAtomic(chunks, fillChunk)
}

// Generate returns n keys drawn from seed; see Fill.
func Generate(pool *workerpool.Pool, n int, seed uint64, maxValue int64) []int64 {
	data := make([]int64, n)
	Fill(pool, data, seed, maxValue)
	return data
}
