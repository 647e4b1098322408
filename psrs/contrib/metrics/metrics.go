// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package metrics times PSRS phases and exports run metrics in the
// Prometheus format.
//
// The sorter never reads the clock; it only reports phase boundaries to its
// Observer. A Recorder is such an observer: it stamps every boundary with its
// clock and keeps the elapsed time of each phase.
//
// Usage:
//
//	rec := metrics.NewRecorder(nil)
//	s, _ := psrs.New[int64](psrs.Config{Threads: 8, Observer: rec})
//	rec.Start()
//	res, _ := s.Sort(ctx, data)
//	fmt.Println(rec.Timings().Total)
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/solarcreature/PSRS/psrs"
)

// Timings are the elapsed times of one run, grouped the way the psrs
// command reports them.
type Timings struct {
	// Phases[0..3] are phases 1 to 4. Phase 2 includes pivot selection.
	Phases [4]time.Duration

	// Total is the time from Start to the end of the merge phase.
	Total time.Duration
}

// Recorder is a psrs.Observer that records phase durations and exposes them,
// together with balance and verification results, as Prometheus metrics on
// its own registry.
type Recorder struct {
	now func() time.Time

	mu        sync.Mutex
	start     time.Time
	last      time.Time
	durations map[psrs.Phase]time.Duration
	seq       time.Duration

	registry      *prometheus.Registry
	phaseSeconds  *prometheus.HistogramVec
	totalSeconds  prometheus.Histogram
	seqSeconds    prometheus.Gauge
	mergeInput    *prometheus.GaugeVec
	imbalance     prometheus.Gauge
	verifications *prometheus.CounterVec
}

// NewRecorder returns a Recorder reading time from now, or time.Now if nil.
func NewRecorder(now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	r := &Recorder{
		now:       now,
		durations: make(map[psrs.Phase]time.Duration),
		registry:  prometheus.NewRegistry(),
		phaseSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "psrs_phase_duration_seconds",
			Help:    "Wall time of each PSRS phase.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 14),
		}, []string{"phase"}),
		totalSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "psrs_sort_duration_seconds",
			Help:    "Wall time of a whole PSRS run.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 14),
		}),
		seqSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "psrs_sequential_sort_seconds",
			Help: "Wall time of the sequential reference sort.",
		}),
		mergeInput: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "psrs_merge_input_elements",
			Help: "Number of keys each worker merged in phase 4.",
		}, []string{"worker"}),
		imbalance: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "psrs_imbalance_ratio",
			Help: "Largest merge input divided by the ideal keys per worker.",
		}),
		verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "psrs_verifications_total",
			Help: "Verification outcomes.",
		}, []string{"result"}),
	}
	r.registry.MustRegister(
		r.phaseSeconds,
		r.totalSeconds,
		r.seqSeconds,
		r.mergeInput,
		r.imbalance,
		r.verifications,
	)
	return r
}

// Start marks the beginning of a run and clears earlier durations.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.start = r.now()
	r.last = r.start
	clear(r.durations)
}

// PhaseDone implements psrs.Observer.
func (r *Recorder) PhaseDone(p psrs.Phase) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := r.now()
	d := t.Sub(r.last)
	r.last = t
	r.durations[p] = d
	r.phaseSeconds.WithLabelValues(p.String()).Observe(d.Seconds())
	if p == psrs.PhaseMerge {
		r.totalSeconds.Observe(t.Sub(r.start).Seconds())
	}
}

// Duration returns the recorded duration of phase p.
func (r *Recorder) Duration(p psrs.Phase) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.durations[p]
}

// Timings returns the durations of the last run.
func (r *Recorder) Timings() Timings {
	r.mu.Lock()
	defer r.mu.Unlock()
	var t Timings
	t.Phases[0] = r.durations[psrs.PhaseLocalSort]
	t.Phases[1] = r.durations[psrs.PhasePivots] + r.durations[psrs.PhasePartition]
	t.Phases[2] = r.durations[psrs.PhaseExchange]
	t.Phases[3] = r.durations[psrs.PhaseMerge]
	for _, d := range r.durations {
		t.Total += d
	}
	return t
}

// ObserveStats records the balance of a finished run.
func (r *Recorder) ObserveStats(st psrs.Stats) {
	for w, n := range st.MergeInputs {
		r.mergeInput.WithLabelValues(strconv.Itoa(w)).Set(float64(n))
	}
	r.imbalance.Set(st.Imbalance)
}

// ObserveSequential records the time of the sequential reference sort.
func (r *Recorder) ObserveSequential(d time.Duration) {
	r.mu.Lock()
	r.seq = d
	r.mu.Unlock()
	r.seqSeconds.Set(d.Seconds())
}

// SequentialDuration returns the time passed to ObserveSequential.
func (r *Recorder) SequentialDuration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seq
}

// ObserveVerification counts a verification outcome.
func (r *Recorder) ObserveVerification(ok bool) {
	result := "mismatch"
	if ok {
		result = "equal"
	}
	r.verifications.WithLabelValues(result).Inc()
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the metrics in the Prometheus text format to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", path)
	}
	return nil
}
