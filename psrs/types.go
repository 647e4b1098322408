// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package psrs

import (
	"fmt"

	"golang.org/x/exp/constraints"
	"golang.org/x/sys/cpu"
)

// Key is a constraint for the element types PSRS can sort.
type Key interface {
	constraints.Integer
}

// Range is a half-open index range [Start, End).
type Range struct {
	Start, End int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Empty reports whether the range holds no indices.
func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Shift returns the range moved by off.
func (r Range) Shift(off int) Range {
	return Range{Start: r.Start + off, End: r.End + off}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Sample is a regular sample: a key and its position in the global array.
type Sample[K Key] struct {
	Value K
	Index int
}

// Worker is the state owned by one PSRS worker. During a phase only the
// worker with this ID writes to it; the coordinator reads it between phases.
type Worker[K Key] struct {
	ID int

	// Block is the worker's slice of the global array.
	Block Range

	// Samples holds the Phase 1 regular samples.
	Samples []Sample[K]

	// Pivots is shared by all workers and read-only from Phase 2 on.
	Pivots []K

	// Buckets are the Phase 2 buckets in block-relative indices;
	// GlobalBuckets are the same ranges in global indices.
	Buckets       []Range
	GlobalBuckets []Range

	// Inputs are the Phase 3 runs routed to this worker, one per source
	// worker in source order.
	Inputs []Range

	// Merged is the Phase 4 output run.
	Merged []K

	_ cpu.CacheLinePad
}

// Phase identifies a PSRS stage.
type Phase int

const (
	// PhaseLocalSort sorts each block and takes regular samples.
	PhaseLocalSort Phase = iota + 1

	// PhasePivots selects the pivots on the coordinator.
	PhasePivots

	// PhasePartition splits each block into buckets.
	PhasePartition

	// PhaseExchange routes buckets to their destination workers.
	PhaseExchange

	// PhaseMerge merges each worker's received runs.
	PhaseMerge
)

// Phases lists every phase in execution order.
var Phases = []Phase{PhaseLocalSort, PhasePivots, PhasePartition, PhaseExchange, PhaseMerge}

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhaseLocalSort:
		return "local_sort"
	case PhasePivots:
		return "pivots"
	case PhasePartition:
		return "partition"
	case PhaseExchange:
		return "exchange"
	case PhaseMerge:
		return "merge"
	default:
		return "unknown"
	}
}

// Observer is notified by the coordinator when a phase has finished on every
// worker. Calls happen on the goroutine that called Sort, in Phases order.
type Observer interface {
	PhaseDone(Phase)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Phase)

// PhaseDone calls f(p).
func (f ObserverFunc) PhaseDone(p Phase) { f(p) }
