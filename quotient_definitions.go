// Package quotient implements an in-memory quotient filter: a compact
// approximate-membership set over 64-bit hashes that supports insertion,
// lookup, deletion, iteration over stored fingerprints, and merging.
package quotient

import (
	"errors"
	"hash"
)

// QuotientFilter is a compact approximate-membership set over 64-bit hashes.
// It stores the low q+r bits of each hash (the fingerprint) in a bit-packed
// table of 2^q slots of r+3 bits. Like a Bloom filter it can report false
// positives but never false negatives; unlike one it supports deletion,
// enumeration of stored fingerprints, and merging without rehashing.
//
// Only the low q+r bits of a hash are stored. Callers whose hashes carry
// meaningful higher bits should mask them before insertion, or two distinct
// keys colliding in the low bits become indistinguishable and removing one
// produces a false negative for the other.
type QuotientFilter struct {
	qbits    uint8
	rbits    uint8
	slotBits uint8

	entries uint64

	indexMask       uint64
	remainderMask   uint64
	slotMask        uint64
	fingerprintMask uint64

	table []uint64
	alloc Allocator

	keyHash hash.Hash64
}

var (
	// ErrInvalidParams is returned by the constructors when q or r is zero
	// or q+r exceeds 64.
	ErrInvalidParams = errors.New("quotient: q and r must be nonzero with q+r at most 64")

	// ErrAllocFailed is returned when the allocator yields no table buffer.
	ErrAllocFailed = errors.New("quotient: table allocation failed")

	// ErrFull is returned by Insert when the filter holds 2^q entries.
	ErrFull = errors.New("quotient: filter is at capacity")

	// ErrHashOutOfDomain is returned by Remove for hashes with bits set
	// above position q+r. Such a hash cannot have been stored, and removing
	// its low-bit projection could evict another key's fingerprint.
	ErrHashOutOfDomain = errors.New("quotient: hash has bits above the fingerprint width")
)

// Allocator supplies and releases the word buffer backing a filter table.
type Allocator interface {
	Alloc(words int) []uint64
	Free(buf []uint64)
}

type heapAllocator struct{}

func (heapAllocator) Alloc(words int) []uint64 { return make([]uint64, words) }
func (heapAllocator) Free([]uint64)            {}
