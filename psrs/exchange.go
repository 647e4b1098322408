package psrs

// Table is the p × p partition table of the exchange phase. Cell [src][dst]
// holds the global range of source worker src's bucket dst. Each cell has a
// single writer, worker src, so no locking is needed; readers must be
// ordered after the writers by a barrier.
type Table struct {
	p     int
	cells []Range
}

// NewTable returns an empty p × p table.
func NewTable(p int) *Table {
	return &Table{p: p, cells: make([]Range, p*p)}
}

// Size returns p.
func (t *Table) Size() int {
	return t.p
}

// Put stores r in cell [src][dst].
func (t *Table) Put(src, dst int, r Range) {
	t.cells[src*t.p+dst] = r
}

// Get returns cell [src][dst].
func (t *Table) Get(src, dst int) Range {
	return t.cells[src*t.p+dst]
}

// Row returns the ranges worker src sends, indexed by destination.
func (t *Table) Row(src int) []Range {
	return t.cells[src*t.p : (src+1)*t.p]
}

// Column appends the ranges routed to dst, in source order, to out.
func (t *Table) Column(dst int, out []Range) []Range {
	for src := range t.p {
		out = append(out, t.cells[src*t.p+dst])
	}
	return out
}

// Publish writes every bucket of one source worker into its row.
func (t *Table) Publish(src int, buckets []Range) {
	copy(t.Row(src), buckets)
}
