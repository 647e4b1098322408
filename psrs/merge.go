package psrs

// cursor is the head of one run being merged: the key at pos, and the end
// of the run.
type cursor[K Key] struct {
	value K
	pos   int
	end   int
}

// runHeap is a min-heap of cursors ordered by head value.
type runHeap[K Key] struct {
	items []cursor[K]
}

func (h *runHeap[K]) len() int {
	return len(h.items)
}

func (h *runHeap[K]) push(c cursor[K]) {
	h.items = append(h.items, c)
	h.up(len(h.items) - 1)
}

// replaceTop overwrites the minimum with c and restores the heap.
func (h *runHeap[K]) replaceTop(c cursor[K]) {
	h.items[0] = c
	h.down(0)
}

// popTop removes the minimum.
func (h *runHeap[K]) popTop() {
	n := len(h.items) - 1
	h.items[0] = h.items[n]
	h.items = h.items[:n]
	if n > 0 {
		h.down(0)
	}
}

func (h *runHeap[K]) up(j int) {
	for j > 0 {
		i := (j - 1) / 2
		if h.items[i].value <= h.items[j].value {
			break
		}
		h.items[i], h.items[j] = h.items[j], h.items[i]
		j = i
	}
}

func (h *runHeap[K]) down(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := left + 1
		if left < n && h.items[left].value < h.items[smallest].value {
			smallest = left
		}
		if right < n && h.items[right].value < h.items[smallest].value {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// MergeRuns k-way merges the ascending runs of data named by runs and
// appends the result to dst. Empty runs are skipped. Equal keys from
// different runs come out in no particular order.
func MergeRuns[K Key](data []K, runs []Range, dst []K) []K {
	h := runHeap[K]{items: make([]cursor[K], 0, len(runs))}
	for _, r := range runs {
		if r.Empty() {
			continue
		}
		h.push(cursor[K]{value: data[r.Start], pos: r.Start, end: r.End})
	}

	for h.len() > 0 {
		top := h.items[0]
		dst = append(dst, top.value)
		if next := top.pos + 1; next < top.end {
			h.replaceTop(cursor[K]{value: data[next], pos: next, end: top.end})
		} else {
			h.popTop()
		}
	}
	return dst
}

// totalLen returns the number of indices covered by runs.
func totalLen(runs []Range) int {
	n := 0
	for _, r := range runs {
		n += r.Len()
	}
	return n
}
