package psrs

import (
	"os"
	"runtime"
	"strconv"

	"github.com/cockroachdb/errors"
)

// ErrInvalidConfig is returned for configurations that cannot run, before
// any worker is started.
var ErrInvalidConfig = errors.New("psrs: invalid configuration")

// Config configures a Sorter.
type Config struct {
	// Threads is the number of workers. Zero means DefaultThreads().
	Threads int

	// Observer, if set, is told when each phase completes.
	Observer Observer
}

// ThreadsEnv returns the worker count set by the PSRS_THREADS environment
// variable, or 0 if it is unset or not a positive integer.
func ThreadsEnv() int {
	val := os.Getenv("PSRS_THREADS")
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// DefaultThreads returns PSRS_THREADS if set, else GOMAXPROCS.
func DefaultThreads() int {
	if n := ThreadsEnv(); n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

func (c Config) threads() (int, error) {
	switch {
	case c.Threads < 0:
		return 0, errors.Wrapf(ErrInvalidConfig, "threads must not be negative, got %d", c.Threads)
	case c.Threads == 0:
		return DefaultThreads(), nil
	default:
		return c.Threads, nil
	}
}

// Blocks splits [0, n) into p contiguous blocks of n/p indices; the last
// block absorbs the remainder.
func Blocks(n, p int) []Range {
	blocks := make([]Range, p)
	size := n / p
	for i := range p {
		blocks[i] = Range{Start: i * size, End: (i + 1) * size}
	}
	blocks[p-1].End = n
	return blocks
}

// checkBlocks asserts that blocks are disjoint, ordered, and cover [0, n).
func checkBlocks(blocks []Range, n int) error {
	next := 0
	for i, b := range blocks {
		if b.Start != next || b.End < b.Start {
			return errors.AssertionFailedf("block %d is %s, want start %d", i, b, next)
		}
		next = b.End
	}
	if next != n {
		return errors.AssertionFailedf("blocks cover [0,%d), want [0,%d)", next, n)
	}
	return nil
}
