package quotient

import "sync"

// Locked wraps a QuotientFilter with a mutex for callers that need to share
// one filter across goroutines. The core itself is single-threaded; this is
// the external serialization it requires.
type Locked struct {
	mu sync.RWMutex
	qf *QuotientFilter
}

// NewLocked returns a mutex-guarded filter with 2^q slots and r-bit
// remainders.
func NewLocked(q, r uint8) (*Locked, error) {
	qf, err := New(q, r)
	if err != nil {
		return nil, err
	}
	return &Locked{qf: qf}, nil
}

func (l *Locked) Insert(hash uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.qf.Insert(hash)
}

func (l *Locked) MayContain(hash uint64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.qf.MayContain(hash)
}

func (l *Locked) Remove(hash uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.qf.Remove(hash)
}

func (l *Locked) InsertKey(key []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.qf.InsertKey(key)
}

func (l *Locked) MayContainKey(key []byte) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.qf.MayContainKey(key)
}

func (l *Locked) RemoveKey(key []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.qf.RemoveKey(key)
}

func (l *Locked) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.qf.Clear()
}

func (l *Locked) Len() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.qf.Len()
}

func (l *Locked) FalsePositiveRate() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.qf.FalsePositiveRate()
}
