package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(path)
	require.NoError(t, err)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := range 5 {
		seq, err := s.Append(Record{
			Time:       base.Add(time.Duration(i) * time.Minute),
			ArraySize:  1000 * (i + 1),
			Threads:    4,
			Seed:       uint64(i),
			PhaseMicro: [4]int64{10, 20, 30, 40},
			TotalMicro: 100,
			Equivalent: true,
			Verified:   true,
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(i+1), seq)
	}

	all, err := s.List(0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, uint64(5), all[0].Seq, "newest first")
	assert.Equal(t, 5000, all[0].ArraySize)
	assert.Equal(t, uint64(1), all[4].Seq)
	assert.True(t, all[4].Time.Equal(base))

	top, err := s.List(2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, []uint64{5, 4}, []uint64{top[0].Seq, top[1].Seq})

	require.NoError(t, s.Close())

	// Reopen: records persist and the sequence continues.
	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	seq, err := s.Append(Record{ArraySize: 1})
	require.NoError(t, err)
	assert.Equal(t, uint64(6), seq)
}

func TestListEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer s.Close()

	recs, err := s.List(10)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "runs.db"))
	assert.Error(t, err)
}
