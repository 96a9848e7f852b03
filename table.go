package quotient

// dataWords is the number of 64-bit words holding slot bits for 2^q slots of
// r+3 bits each.
func dataWords(q, r uint8) int {
	bits := (uint64(1) << q) * uint64(r+3)
	return int((bits + 63) / 64)
}

// tableWords adds one padding word so a spill read at the final slot never
// indexes past the buffer.
func tableWords(q, r uint8) int {
	return dataWords(q, r) + 1
}

// TableSize returns the size in bytes of the packed slot table for a filter
// with 2^q slots of r+3 bits.
func TableSize(q, r uint8) int {
	bits := (uint64(1) << q) * uint64(r+3)
	return int((bits + 7) / 8)
}

// slotAt returns table cell i in the low bits. A cell may straddle a word
// boundary, in which case the high part is read from the next word.
func (qf *QuotientFilter) slotAt(i uint64) slot {
	bitpos := uint64(qf.slotBits) * i
	word := bitpos / 64
	off := bitpos % 64
	v := (qf.table[word] >> off) & qf.slotMask
	if spill := int(off) + int(qf.slotBits) - 64; spill > 0 {
		v |= (qf.table[word+1] & lowMask(uint(spill))) << (uint(qf.slotBits) - uint(spill))
	}
	return slot(v)
}

// setSlotAt stores the low r+3 bits of v into table cell i.
func (qf *QuotientFilter) setSlotAt(i uint64, v slot) {
	bitpos := uint64(qf.slotBits) * i
	word := bitpos / 64
	off := bitpos % 64
	e := uint64(v) & qf.slotMask
	qf.table[word] &^= qf.slotMask << off
	qf.table[word] |= e << off
	if spill := int(off) + int(qf.slotBits) - 64; spill > 0 {
		qf.table[word+1] &^= lowMask(uint(spill))
		qf.table[word+1] |= e >> (uint(qf.slotBits) - uint(spill))
	}
}

// The index space is cyclic modulo 2^q.

func (qf *QuotientFilter) next(i uint64) uint64 { return (i + 1) & qf.indexMask }
func (qf *QuotientFilter) prev(i uint64) uint64 { return (i - 1) & qf.indexMask }
