package quotient

import (
	"hash"

	"github.com/cespare/xxhash/v2"
)

// The filter core consumes pre-hashed 64-bit values. The Key/String methods
// below are a convenience frontend that hashes raw key material with xxhash
// and masks the digest to the fingerprint width, so a key inserted here can
// always be removed here.

// NewHash is New with a caller-supplied key hasher replacing xxhash for the
// Key and String methods. The hasher is used serially and unsynchronized.
func NewHash(h hash.Hash64, q, r uint8) (*QuotientFilter, error) {
	qf, err := New(q, r)
	if err != nil {
		return nil, err
	}
	qf.keyHash = h
	return qf, nil
}

func (qf *QuotientFilter) hashKey(key []byte) uint64 {
	if qf.keyHash == nil {
		return xxhash.Sum64(key) & qf.fingerprintMask
	}
	qf.keyHash.Reset()
	qf.keyHash.Write(key)
	return qf.keyHash.Sum64() & qf.fingerprintMask
}

func (qf *QuotientFilter) hashString(key string) uint64 {
	if qf.keyHash == nil {
		return xxhash.Sum64String(key) & qf.fingerprintMask
	}
	return qf.hashKey([]byte(key))
}

// InsertKey hashes key and inserts its fingerprint.
func (qf *QuotientFilter) InsertKey(key []byte) error {
	return qf.Insert(qf.hashKey(key))
}

// MayContainKey reports whether key's fingerprint may be present.
func (qf *QuotientFilter) MayContainKey(key []byte) bool {
	return qf.MayContain(qf.hashKey(key))
}

// RemoveKey removes key's fingerprint.
func (qf *QuotientFilter) RemoveKey(key []byte) error {
	return qf.Remove(qf.hashKey(key))
}

// InsertString hashes key and inserts its fingerprint.
func (qf *QuotientFilter) InsertString(key string) error {
	return qf.Insert(qf.hashString(key))
}

// MayContainString reports whether key's fingerprint may be present.
func (qf *QuotientFilter) MayContainString(key string) bool {
	return qf.MayContain(qf.hashString(key))
}

// RemoveString removes key's fingerprint.
func (qf *QuotientFilter) RemoveString(key string) error {
	return qf.Remove(qf.hashString(key))
}
