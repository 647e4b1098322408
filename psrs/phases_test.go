package psrs

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocks(t *testing.T) {
	tests := []struct {
		n, p int
		want []Range
	}{
		{9, 3, []Range{{0, 3}, {3, 6}, {6, 9}}},
		{10, 3, []Range{{0, 3}, {3, 6}, {6, 10}}},
		{5, 5, []Range{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 5}}},
		{7, 1, []Range{{0, 7}}},
	}
	for _, tt := range tests {
		got := Blocks(tt.n, tt.p)
		assert.Equal(t, tt.want, got, "Blocks(%d, %d)", tt.n, tt.p)
		assert.NoError(t, checkBlocks(got, tt.n))
	}
}

func TestCheckBlocksRejectsOverlap(t *testing.T) {
	assert.Error(t, checkBlocks([]Range{{0, 4}, {3, 8}}, 8))
	assert.Error(t, checkBlocks([]Range{{0, 4}, {4, 7}}, 8))
}

func TestSortAndSampleStrideZero(t *testing.T) {
	// n=5, p=3: stride 0, every sample is the block minimum.
	block := []int64{9, 4, 6}
	samples := SortAndSample(block, 2, SampleStride(5, 3), 3, nil)
	assert.Equal(t, []int64{4, 6, 9}, block)
	assert.Equal(t, []Sample[int64]{{4, 2}, {4, 2}, {4, 2}}, samples)
}

func TestSortAndSampleStride(t *testing.T) {
	// n=32, p=2: stride 8 within a block of 16.
	block := make([]int32, 16)
	for i := range block {
		block[i] = int32(15 - i)
	}
	samples := SortAndSample(block, 16, SampleStride(32, 2), 2, nil)
	assert.Equal(t, []Sample[int32]{{0, 16}, {8, 24}}, samples)
}

func TestSelectPivots(t *testing.T) {
	samples := []Sample[int64]{
		{9, 0}, {1, 1}, {8, 2}, {2, 3},
		{7, 4}, {3, 5}, {6, 6}, {4, 7},
		{5, 8}, {16, 9}, {10, 10}, {15, 11},
		{11, 12}, {14, 13}, {12, 14}, {13, 15},
	}
	// p=4, rho=2: positions 5, 9, 13 of 1..16.
	assert.Equal(t, []int64{6, 10, 14}, SelectPivots(samples, 4))
	assert.True(t, slices.IsSortedFunc(samples, func(a, b Sample[int64]) int {
		return int(a.Value - b.Value)
	}))
}

func TestSelectPivotsSingleWorker(t *testing.T) {
	assert.Nil(t, SelectPivots([]Sample[int64]{{3, 0}}, 1))
}

func TestPartitionTieGoesLow(t *testing.T) {
	block := []int64{1, 2, 4, 4, 4, 5, 6, 6, 9}
	got := Partition(block, []int64{4, 6}, nil)
	// Every 4 stays in bucket 0 and every 6 in bucket 1.
	assert.Equal(t, []Range{{0, 5}, {5, 8}, {8, 9}}, got)
}

func TestPartitionEdges(t *testing.T) {
	block := []int64{10, 20, 30}

	// All pivots below the block: everything in the last bucket.
	assert.Equal(t, []Range{{0, 0}, {0, 0}, {0, 3}}, Partition(block, []int64{1, 5}, nil))

	// All pivots above the block: everything in the first bucket.
	assert.Equal(t, []Range{{0, 3}, {3, 3}, {3, 3}}, Partition(block, []int64{50, 60}, nil))

	// No pivots: one bucket.
	assert.Equal(t, []Range{{0, 3}}, Partition(block, nil, nil))

	// Empty block.
	assert.Equal(t, []Range{{0, 0}, {0, 0}}, Partition([]int64{}, []int64{7}, nil))
}

func TestPartitionCompleteness(t *testing.T) {
	block := randomKeys(42, 777, 100)
	slices.Sort(block)
	pivots := []int64{10, 10, 33, 50, 51, 99}

	buckets := Partition(block, pivots, nil)
	require.Len(t, buckets, len(pivots)+1)

	next := 0
	for i, b := range buckets {
		require.Equal(t, next, b.Start, "bucket %d not contiguous", i)
		require.LessOrEqual(t, b.Start, b.End)
		for j := b.Start; j < b.End; j++ {
			if i < len(pivots) {
				require.LessOrEqual(t, block[j], pivots[i])
			}
			if i > 0 {
				require.Greater(t, block[j], pivots[i-1])
			}
		}
		next = b.End
	}
	assert.Equal(t, len(block), next)
}

func TestGlobalize(t *testing.T) {
	got := globalize([]Range{{0, 2}, {2, 2}, {2, 5}}, 10, nil)
	assert.Equal(t, []Range{{10, 12}, {12, 12}, {12, 15}}, got)
}

func TestTable(t *testing.T) {
	tab := NewTable(3)
	assert.Equal(t, 3, tab.Size())

	tab.Publish(0, []Range{{0, 1}, {1, 2}, {2, 3}})
	tab.Publish(1, []Range{{3, 5}, {5, 5}, {5, 6}})
	tab.Publish(2, []Range{{6, 7}, {7, 8}, {8, 9}})

	assert.Equal(t, Range{3, 5}, tab.Get(1, 0))
	assert.Equal(t, []Range{{1, 2}, {5, 5}, {7, 8}}, tab.Column(1, nil))
	assert.Equal(t, []Range{{6, 7}, {7, 8}, {8, 9}}, tab.Row(2))

	tab.Put(2, 2, Range{0, 0})
	assert.True(t, tab.Get(2, 2).Empty())
}

func TestMergeRuns(t *testing.T) {
	data := []int64{3, 5, 8, 1, 2, 9, 4, 6, 7}
	runs := []Range{{0, 3}, {3, 6}, {6, 9}}
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8, 9}, MergeRuns(data, runs, nil))
}

func TestMergeRunsEmptyAndDuplicates(t *testing.T) {
	data := []int64{2, 2, 5, 1, 2, 2, 7}
	runs := []Range{{0, 3}, {3, 3}, {3, 6}, {6, 7}, {7, 7}}
	assert.Equal(t, []int64{1, 2, 2, 2, 2, 5, 7}, MergeRuns(data, runs, nil))

	assert.Empty(t, MergeRuns(data, nil, nil))
	assert.Empty(t, MergeRuns(data, []Range{{4, 4}}, nil))
}

func TestMergeRunsAppends(t *testing.T) {
	data := []int64{4, 9, 1}
	got := MergeRuns(data, []Range{{0, 2}, {2, 3}}, []int64{-1})
	assert.Equal(t, []int64{-1, 1, 4, 9}, got)
}

func TestMergeRunsManyRuns(t *testing.T) {
	data := randomKeys(8, 4000, 1000)
	var runs []Range
	for start := 0; start < len(data); {
		end := min(start+1+start%37, len(data))
		slices.Sort(data[start:end])
		runs = append(runs, Range{start, end})
		start = end
	}
	got := MergeRuns(data, runs, nil)
	assert.Equal(t, sortedCopy(data), got)
}

func TestRange(t *testing.T) {
	assert.Equal(t, 3, Range{2, 5}.Len())
	assert.Equal(t, 0, Range{5, 2}.Len())
	assert.True(t, Range{4, 4}.Empty())
	assert.Equal(t, "[2,5)", Range{2, 5}.String())
	assert.Equal(t, Range{12, 15}, Range{2, 5}.Shift(10))
}

func TestPhaseString(t *testing.T) {
	names := make([]string, len(Phases))
	for i, p := range Phases {
		names[i] = p.String()
	}
	assert.Equal(t, []string{"local_sort", "pivots", "partition", "exchange", "merge"}, names)
	assert.Equal(t, "unknown", Phase(0).String())
}
