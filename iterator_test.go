package quotient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIteratorEmpty(t *testing.T) {
	qf, err := New(4, 4)
	require.NoError(t, err)
	defer qf.Destroy()

	it := qf.Iterator()
	assert.True(t, it.Done())
}

func TestIteratorYieldsStoredFingerprints(t *testing.T) {
	qf, err := New(5, 5)
	require.NoError(t, err)
	defer qf.Destroy()

	hashes := []uint64{0x001, 0x022, 0x023, 0x1ff, 0x200, 0x3a5}
	for _, h := range hashes {
		require.NoError(t, qf.Insert(h))
	}

	seen := map[uint64]int{}
	for it := qf.Iterator(); !it.Done(); {
		seen[it.Next()]++
	}

	require.Len(t, seen, len(hashes))
	for _, h := range hashes {
		assert.Equal(t, 1, seen[h], "hash %#x", h)
	}
}

// A run anchored at the last slot wraps to the front of the table; the
// iterator has to keep attributing its entries to the high quotient.
func TestIteratorWrappedCluster(t *testing.T) {
	qf, err := New(3, 3)
	require.NoError(t, err)
	defer qf.Destroy()

	hashes := []uint64{7<<3 | 1, 7<<3 | 2, 7<<3 | 3}
	for _, h := range hashes {
		require.NoError(t, qf.Insert(h))
	}
	checkConsistent(t, qf)

	seen := map[uint64]int{}
	for it := qf.Iterator(); !it.Done(); {
		seen[it.Next()]++
	}

	require.Len(t, seen, len(hashes))
	for _, h := range hashes {
		assert.Equal(t, 1, seen[h], "hash %#x", h)
	}
}

func TestIteratorNextPastDonePanics(t *testing.T) {
	qf, err := New(4, 4)
	require.NoError(t, err)
	defer qf.Destroy()

	require.NoError(t, qf.Insert(0x42))

	it := qf.Iterator()
	assert.EqualValues(t, 0x42, it.Next())
	require.True(t, it.Done())
	assert.Panics(t, func() { it.Next() })
}
