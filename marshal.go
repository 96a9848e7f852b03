package quotient

import (
	"encoding/binary"
	"errors"
)

// Serialized form: a 16-byte header (magic, q, r, entry count) followed by
// the packed table words in little-endian order. The padding word is not
// written.
const (
	marshalMagic       = "QFv1"
	marshalHeaderBytes = 16
)

// ErrBadEncoding is returned by UnmarshalBinary for input that is not a
// well-formed serialized filter.
var ErrBadEncoding = errors.New("quotient: malformed filter encoding")

// MarshalBinary implements encoding.BinaryMarshaler.
func (qf *QuotientFilter) MarshalBinary() ([]byte, error) {
	words := dataWords(qf.qbits, qf.rbits)
	buf := make([]byte, marshalHeaderBytes+8*words)
	copy(buf, marshalMagic)
	buf[4] = qf.qbits
	buf[5] = qf.rbits
	binary.LittleEndian.PutUint64(buf[8:], qf.entries)
	for i := 0; i < words; i++ {
		binary.LittleEndian.PutUint64(buf[marshalHeaderBytes+8*i:], qf.table[i])
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, replacing the
// receiver's contents. An allocator already attached to the receiver is kept
// and used for the new table.
func (qf *QuotientFilter) UnmarshalBinary(data []byte) error {
	if len(data) < marshalHeaderBytes || string(data[:4]) != marshalMagic {
		return ErrBadEncoding
	}
	q, r := data[4], data[5]
	if q == 0 || r == 0 || uint(q)+uint(r) > 64 {
		return ErrBadEncoding
	}
	words := dataWords(q, r)
	if len(data) != marshalHeaderBytes+8*words {
		return ErrBadEncoding
	}
	entries := binary.LittleEndian.Uint64(data[8:])
	if entries > uint64(1)<<q {
		return ErrBadEncoding
	}

	alloc := qf.alloc
	if alloc == nil {
		alloc = heapAllocator{}
	}
	fresh, err := NewAlloc(q, r, alloc)
	if err != nil {
		return err
	}
	for i := 0; i < words; i++ {
		fresh.table[i] = binary.LittleEndian.Uint64(data[marshalHeaderBytes+8*i:])
	}
	fresh.entries = entries
	fresh.keyHash = qf.keyHash

	qf.Destroy()
	*qf = *fresh
	return nil
}
