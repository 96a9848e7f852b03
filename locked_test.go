package quotient

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockedConcurrentUse(t *testing.T) {
	l, err := NewLocked(12, 8)
	require.NoError(t, err)

	const (
		workers = 8
		perWorker = 200
	)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				h := uint64(w*perWorker+i) & l.qf.fingerprintMask
				if err := l.Insert(h); err != nil {
					t.Error(err)
					return
				}
				l.MayContain(h)
			}
		}(w)
	}
	wg.Wait()

	assert.EqualValues(t, workers*perWorker, l.Len())
	for h := uint64(0); h < workers*perWorker; h++ {
		require.True(t, l.MayContain(h), "hash %#x", h)
	}
	checkConsistent(t, l.qf)

	for h := uint64(0); h < workers*perWorker; h++ {
		require.NoError(t, l.Remove(h))
	}
	assert.EqualValues(t, 0, l.Len())

	l.Insert(1)
	l.Clear()
	assert.EqualValues(t, 0, l.Len())
	assert.EqualValues(t, 0, l.FalsePositiveRate())

	_, err = NewLocked(0, 1)
	assert.ErrorIs(t, err, ErrInvalidParams)
}

func TestLockedKeys(t *testing.T) {
	l, err := NewLocked(8, 8)
	require.NoError(t, err)

	require.NoError(t, l.InsertKey([]byte("alpha")))
	assert.True(t, l.MayContainKey([]byte("alpha")))
	require.NoError(t, l.RemoveKey([]byte("alpha")))
	assert.False(t, l.MayContainKey([]byte("alpha")))
}
