package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	"github.com/samber/lo"

	"github.com/solarcreature/PSRS/psrs"
	"github.com/solarcreature/PSRS/psrs/contrib/history"
	"github.com/solarcreature/PSRS/psrs/contrib/metrics"
	"github.com/solarcreature/PSRS/psrs/contrib/randgen"
	"github.com/solarcreature/PSRS/psrs/contrib/verify"
	"github.com/solarcreature/PSRS/psrs/contrib/workerpool"
)

var (
	errConfig   = errors.New("invalid arguments")
	errMismatch = errors.New("the final output is not equal to the sequential sort result")
)

type runOptions struct {
	arraySize   int
	threads     int
	seed        uint64
	seedSet     bool
	maxValue    int64
	timeout     time.Duration
	verify      bool
	historyPath string
	metricsPath string
}

// parseArgs reads and validates the two positional arguments.
func (o *runOptions) parseArgs(args []string) error {
	size, err := strconv.Atoi(args[0])
	if err != nil || size < 1 {
		return errors.Wrapf(errConfig, "array size must be a positive integer, got %q", args[0])
	}
	threads, err := strconv.Atoi(args[1])
	if err != nil || threads < 1 {
		return errors.Wrapf(errConfig, "thread count must be a positive integer, got %q", args[1])
	}
	if threads > size {
		return errors.Wrapf(errConfig, "thread count %d exceeds array size %d", threads, size)
	}
	if o.maxValue < 0 {
		return errors.Wrapf(errConfig, "max-value must not be negative, got %d", o.maxValue)
	}
	o.arraySize, o.threads = size, threads
	return nil
}

// run generates the input, sorts it, and reports.
func run(ctx context.Context, out io.Writer, o *runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if !o.seedSet {
		o.seed = uint64(time.Now().UnixNano())
	}
	glog.V(1).Infof("psrs: size=%d threads=%d seed=%d max=%d", o.arraySize, o.threads, o.seed, o.maxValue)

	genPool := workerpool.New(0)
	data := randgen.Generate(genPool, o.arraySize, o.seed, o.maxValue)
	genPool.Close()
	fmt.Fprintf(out, "Sorting %s keys with %d threads (seed %d)\n", humanize.Comma(int64(o.arraySize)), o.threads, o.seed)

	rec := metrics.NewRecorder(nil)

	var input, reference []int64
	if o.verify {
		input = slices.Clone(data)
		start := time.Now()
		reference = verify.Reference(input)
		seq := time.Since(start)
		rec.ObserveSequential(seq)
		fmt.Fprintf(out, "Time taken for sequential sort: %d microseconds\n", seq.Microseconds())
	}

	sorter, err := psrs.New[int64](psrs.Config{Threads: o.threads, Observer: rec})
	if err != nil {
		return err
	}
	defer sorter.Close()

	sortCtx := ctx
	if o.timeout > 0 {
		var cancel context.CancelFunc
		sortCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	rec.Start()
	res, err := sorter.Sort(sortCtx, data)
	if err != nil {
		return errors.Wrap(err, "parallel sort")
	}

	timings := rec.Timings()
	for i, d := range timings.Phases {
		fmt.Fprintf(out, "Time taken for phase %d: %d microseconds\n", i+1, d.Microseconds())
	}
	fmt.Fprintf(out, "Time taken as a whole: %d microseconds\n", timings.Total.Microseconds())

	stats := res.Stats()
	rec.ObserveStats(stats)
	fmt.Fprintf(out, "Largest merge input: %s keys (%.2fx the ideal %s)\n",
		humanize.Comma(int64(lo.Max(stats.MergeInputs))), stats.Imbalance, humanize.Comma(int64(stats.Ideal)))

	output := res.Concat()
	equivalent := true
	if o.verify {
		rep, err := verify.VerifyAgainst(ctx, input, reference, output)
		if err != nil {
			return err
		}
		equivalent = rep.OK()
		rec.ObserveVerification(equivalent)
		if equivalent {
			fmt.Fprintln(out, "The final output is equal to sequential sort result.")
		} else {
			fmt.Fprintln(out, "The final output is NOT equal to sequential sort result.")
			glog.Errorf("psrs: verification failed: %+v", rep)
		}
	}

	if o.historyPath != "" {
		if err := appendHistory(o, timings, stats, equivalent, rec); err != nil {
			return err
		}
	}
	if o.metricsPath != "" {
		if err := rec.WriteTextfile(o.metricsPath); err != nil {
			return err
		}
	}

	if !equivalent {
		return errMismatch
	}
	return nil
}

func appendHistory(o *runOptions, t metrics.Timings, st psrs.Stats, equivalent bool, rec *metrics.Recorder) error {
	store, err := history.Open(o.historyPath)
	if err != nil {
		return err
	}
	defer store.Close()

	r := history.Record{
		Time:       time.Now().UTC(),
		ArraySize:  o.arraySize,
		Threads:    o.threads,
		Seed:       o.seed,
		MaxValue:   o.maxValue,
		TotalMicro: t.Total.Microseconds(),
		Imbalance:  st.Imbalance,
		Verified:   o.verify,
		Equivalent: equivalent,
	}
	for i, d := range t.Phases {
		r.PhaseMicro[i] = d.Microseconds()
	}
	if o.verify {
		r.SeqMicro = rec.SequentialDuration().Microseconds()
	}
	seq, err := store.Append(r)
	if err != nil {
		return err
	}
	glog.V(1).Infof("psrs: recorded run %d in %s", seq, o.historyPath)
	return nil
}
