package quotient

import "math"

// New returns a filter with 2^q slots storing r-bit remainders, backed by a
// heap-allocated table.
func New(q, r uint8) (*QuotientFilter, error) {
	return NewAlloc(q, r, heapAllocator{})
}

// NewAlloc is New with an injected table allocator. A failed allocation
// leaves nothing to release; the returned error is the only artifact.
func NewAlloc(q, r uint8, a Allocator) (*QuotientFilter, error) {
	if q == 0 || r == 0 || uint(q)+uint(r) > 64 {
		return nil, ErrInvalidParams
	}
	qf := &QuotientFilter{
		qbits:           q,
		rbits:           r,
		slotBits:        r + 3,
		indexMask:       lowMask(uint(q)),
		remainderMask:   lowMask(uint(r)),
		slotMask:        lowMask(uint(r) + 3),
		fingerprintMask: lowMask(uint(q) + uint(r)),
		alloc:           a,
	}
	qf.table = a.Alloc(tableWords(q, r))
	if qf.table == nil {
		return nil, ErrAllocFailed
	}
	return qf, nil
}

// NewProbability picks q and r for an expected capacity and target
// false-positive rate.
func NewProbability(capacity int, fpRate float64) (*QuotientFilter, error) {
	if capacity <= 0 || fpRate <= 0 || fpRate >= 1 {
		return nil, ErrInvalidParams
	}
	q := uint8(math.Ceil(math.Log2(float64(capacity))))
	if q == 0 {
		q = 1
	}
	r := uint8(math.Ceil(-math.Log2(fpRate)))
	if r == 0 {
		r = 1
	}
	return New(q, r)
}

// Len returns the number of stored fingerprints.
func (qf *QuotientFilter) Len() uint64 { return qf.entries }

// Cap returns the slot count, 2^q.
func (qf *QuotientFilter) Cap() uint64 { return uint64(1) << qf.qbits }

// FalsePositiveRate estimates the current false-positive probability under a
// uniform-hash assumption.
func (qf *QuotientFilter) FalsePositiveRate() float64 {
	p := int(qf.qbits) + int(qf.rbits)
	return 1 - math.Exp(-float64(qf.entries)/math.Ldexp(1, p))
}

func (qf *QuotientFilter) quotientOf(hash uint64) uint64 {
	return (hash >> qf.rbits) & qf.indexMask
}

func (qf *QuotientFilter) remainderOf(hash uint64) uint64 {
	return hash & qf.remainderMask
}

// findRun returns the index of the first slot of the run for quotient fq.
// The caller has already checked that slot fq is occupied.
func (qf *QuotientFilter) findRun(fq uint64) uint64 {
	// Walk back to the start of the cluster.
	b := fq
	for qf.slotAt(b).shifted() {
		b = qf.prev(b)
	}

	// The k-th occupied quotient in a cluster owns the k-th run. Advance s
	// over runs and b over occupied quotients until b reaches fq.
	s := b
	for b != fq {
		for {
			s = qf.next(s)
			if !qf.slotAt(s).continuation() {
				break
			}
		}
		for {
			b = qf.next(b)
			if qf.slotAt(b).occupied() {
				break
			}
		}
	}
	return s
}

// insertInto writes e at slot s, shifting the rest of the cluster right by
// one. The occupied bit stays with each slot index rather than moving with
// the displaced payloads.
func (qf *QuotientFilter) insertInto(s uint64, e slot) {
	curr := e
	for {
		prev := qf.slotAt(s)
		empty := prev.empty()
		if !empty {
			prev = prev.setShifted()
			if prev.occupied() {
				curr = curr.setOccupied()
				prev = prev.clrOccupied()
			}
		}
		qf.setSlotAt(s, curr)
		curr = prev
		s = qf.next(s)
		if empty {
			return
		}
	}
}

// Insert adds the low q+r bits of hash to the filter. Duplicate fingerprints
// are collapsed and do not change Len. Returns ErrFull when all 2^q slots
// are in use; the filter is unchanged.
func (qf *QuotientFilter) Insert(hash uint64) error {
	if qf.entries >= qf.Cap() {
		return ErrFull
	}

	fq := qf.quotientOf(hash)
	fr := qf.remainderOf(hash)
	T := qf.slotAt(fq)
	entry := newSlot(fr)

	if T.empty() {
		qf.setSlotAt(fq, entry.setOccupied())
		qf.entries++
		return nil
	}

	if !T.occupied() {
		qf.setSlotAt(fq, T.setOccupied())
	}

	start := qf.findRun(fq)
	s := start

	if T.occupied() {
		// Keep the run sorted: move s to the insert position, bailing on
		// an exact duplicate.
		for {
			rem := qf.slotAt(s).remainder()
			if rem == fr {
				return nil
			}
			if rem > fr {
				break
			}
			s = qf.next(s)
			if !qf.slotAt(s).continuation() {
				break
			}
		}

		if s == start {
			// The old head of the run becomes a continuation.
			old := qf.slotAt(start)
			qf.setSlotAt(start, old.setContinuation())
		} else {
			entry = entry.setContinuation()
		}
	}

	if s != fq {
		entry = entry.setShifted()
	}

	qf.insertInto(s, entry)
	qf.entries++
	return nil
}

// MayContain reports whether a hash with the same low q+r bits has been
// inserted. False positives are possible, false negatives are not.
func (qf *QuotientFilter) MayContain(hash uint64) bool {
	fq := qf.quotientOf(hash)
	fr := qf.remainderOf(hash)

	if !qf.slotAt(fq).occupied() {
		return false
	}

	s := qf.findRun(fq)
	for {
		rem := qf.slotAt(s).remainder()
		if rem == fr {
			return true
		}
		if rem > fr {
			return false
		}
		s = qf.next(s)
		if !qf.slotAt(s).continuation() {
			return false
		}
	}
}

// Remove deletes the fingerprint of hash. Removing a hash that was never
// inserted is a successful no-op. Hashes with bits above the fingerprint
// width are rejected with ErrHashOutOfDomain: they cannot have been stored,
// and deleting their low-bit projection could evict another key.
func (qf *QuotientFilter) Remove(hash uint64) error {
	if hash>>qf.rbits>>qf.qbits != 0 {
		return ErrHashOutOfDomain
	}

	fq := qf.quotientOf(hash)
	fr := qf.remainderOf(hash)
	T := qf.slotAt(fq)

	if !T.occupied() || qf.entries == 0 {
		return nil
	}

	start := qf.findRun(fq)
	s := start
	for {
		rem := qf.slotAt(s).remainder()
		if rem == fr {
			break
		}
		if rem > fr {
			return nil
		}
		s = qf.next(s)
		if !qf.slotAt(s).continuation() {
			return nil
		}
	}

	kill := qf.slotAt(s)
	replaceRunStart := kill.runStart()

	// A run of one loses its occupied bit at the canonical slot.
	if replaceRunStart && !qf.slotAt(qf.next(s)).continuation() {
		qf.setSlotAt(fq, T.clrOccupied())
	}

	qf.deleteEntry(s, fq)

	// If the run survives the loss of its head, the old second entry is the
	// new head. Only a surviving run is patched here: anything else now at s
	// belongs to a later quotient and keeps its metadata.
	if replaceRunStart {
		next := qf.slotAt(s)
		if next.continuation() {
			updated := next.clrContinuation()
			if s == fq {
				// The new head slid into its canonical slot.
				updated = updated.clrShifted()
			}
			qf.setSlotAt(s, updated)
		}
	}

	qf.entries--
	return nil
}

// deleteEntry vacates slot s by shifting the tail of its cluster left one
// slot. quot is the quotient of the entry being removed; a virtual cursor
// advanced over occupied indices tracks which run each moved entry belongs
// to, so entries sliding into their canonical slot drop their shifted bit.
func (qf *QuotientFilter) deleteEntry(s, quot uint64) {
	orig := s
	curr := qf.slotAt(s)
	sp := qf.next(s)

	for {
		next := qf.slotAt(sp)
		currOccupied := curr.occupied()

		if next.empty() || next.clusterStart() || sp == orig {
			// End of the cluster: zero the vacated slot so empty cells
			// carry no stale remainder bits.
			qf.setSlotAt(s, 0)
			return
		}

		updated := next
		if next.runStart() {
			for {
				quot = qf.next(quot)
				if qf.slotAt(quot).occupied() {
					break
				}
			}
			if currOccupied && quot == s {
				updated = updated.clrShifted()
			}
		}

		// The occupied bit belongs to the destination index.
		if currOccupied {
			updated = updated.setOccupied()
		} else {
			updated = updated.clrOccupied()
		}
		qf.setSlotAt(s, updated)

		s = sp
		sp = qf.next(sp)
		curr = next
	}
}

// Clear drops every stored fingerprint, keeping the table buffer.
func (qf *QuotientFilter) Clear() {
	qf.entries = 0
	for i := range qf.table {
		qf.table[i] = 0
	}
}

// Destroy releases the table through the owning allocator. The filter may
// not be used afterwards, but Destroy itself is safe to call on a filter
// whose construction failed.
func (qf *QuotientFilter) Destroy() {
	if qf == nil {
		return
	}
	if qf.table != nil && qf.alloc != nil {
		qf.alloc.Free(qf.table)
	}
	qf.table = nil
	qf.entries = 0
}

// Merge builds a filter holding every fingerprint of a and b. The output is
// sized with one extra quotient bit over the wider input so it cannot
// overflow, and takes the wider remainder. It is allocated through a's
// allocator. Inputs with differing fingerprint widths merge lossily, since
// each fingerprint is re-split under the output's widths.
func Merge(a, b *QuotientFilter) (*QuotientFilter, error) {
	q := a.qbits
	if b.qbits > q {
		q = b.qbits
	}
	r := a.rbits
	if b.rbits > r {
		r = b.rbits
	}

	out, err := NewAlloc(q+1, r, a.alloc)
	if err != nil {
		return nil, err
	}

	for _, src := range []*QuotientFilter{a, b} {
		for it := src.Iterator(); !it.Done(); {
			if err := out.Insert(it.Next()); err != nil {
				out.Destroy()
				return nil, err
			}
		}
	}
	return out, nil
}
