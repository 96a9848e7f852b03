package quotient

// Iterator yields each stored fingerprint exactly once, in table order
// starting at the first cluster start. It must not outlive the filter, and
// mutating the filter mid-iteration invalidates it.
type Iterator struct {
	qf       *QuotientFilter
	index    uint64
	quotient uint64
	visited  uint64
}

// Iterator starts an iteration over the stored fingerprints.
func (qf *QuotientFilter) Iterator() *Iterator {
	it := &Iterator{qf: qf}
	if qf.entries == 0 {
		return it
	}
	for start := uint64(0); start < qf.Cap(); start++ {
		if qf.slotAt(start).clusterStart() {
			it.index = start
			it.quotient = start
			break
		}
	}
	return it
}

// Done reports whether every stored fingerprint has been yielded.
func (it *Iterator) Done() bool {
	return it.visited == it.qf.entries
}

// Next returns the next stored fingerprint, a q+r bit value. Callers must
// check Done first.
func (it *Iterator) Next() uint64 {
	for !it.Done() {
		e := it.qf.slotAt(it.index)

		// Track the quotient owning the current run.
		if e.clusterStart() {
			it.quotient = it.index
		} else if e.runStart() {
			q := it.quotient
			for {
				q = it.qf.next(q)
				if it.qf.slotAt(q).occupied() {
					break
				}
			}
			it.quotient = q
		}

		it.index = it.qf.next(it.index)

		if !e.empty() {
			it.visited++
			return (it.quotient << it.qf.rbits) | e.remainder()
		}
	}
	panic("quotient: Next on exhausted iterator")
}
