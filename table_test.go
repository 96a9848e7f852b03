package quotient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableSize(t *testing.T) {
	// 2^q slots of r+3 bits, rounded up to whole bytes.
	assert.Equal(t, 14, TableSize(4, 4))
	assert.Equal(t, 6, TableSize(3, 3))
	assert.Equal(t, 1, TableSize(1, 1))
	assert.Equal(t, 8<<10, TableSize(10, 61))
}

// Sequential and randomized cell round-trips, including slot widths that
// straddle word boundaries.
func TestSlotRoundTrip(t *testing.T) {
	rng := testRng
	for q := uint8(1); q <= 8; q++ {
		for _, r := range []uint8{1, 3, 5, 10, 13, 29, 61} {
			if uint(q)+uint(r) > 64 {
				continue
			}
			qf, err := New(q, r)
			require.NoError(t, err)

			size := qf.Cap()
			for i := uint64(0); i < size; i++ {
				require.EqualValues(t, 0, qf.slotAt(i), "q=%d r=%d slot %d not zeroed", q, r, i)
			}

			for i := uint64(0); i < size; i++ {
				qf.setSlotAt(i, slot(i)&slot(qf.slotMask))
			}
			for i := uint64(0); i < size; i++ {
				require.EqualValues(t, uint64(i)&qf.slotMask, qf.slotAt(i), "q=%d r=%d slot %d", q, r, i)
			}

			qf.Clear()
			want := make([]uint64, size)
			for n := uint64(0); n < size; n++ {
				i := splitmix64(&rng) & qf.indexMask
				v := splitmix64(&rng) & qf.slotMask
				qf.setSlotAt(i, slot(v))
				want[i] = v
			}
			for i := uint64(0); i < size; i++ {
				require.EqualValues(t, want[i], qf.slotAt(i), "q=%d r=%d slot %d", q, r, i)
			}

			qf.Destroy()
		}
	}
}

// A write must not clobber the neighbouring cells, in particular across a
// word boundary.
func TestSlotWriteIsolated(t *testing.T) {
	qf, err := New(4, 10) // 13-bit slots: every fifth slot spills
	require.NoError(t, err)
	defer qf.Destroy()

	for i := uint64(0); i < qf.Cap(); i++ {
		qf.setSlotAt(i, slot(qf.slotMask))
	}
	for i := uint64(0); i < qf.Cap(); i++ {
		qf.setSlotAt(i, 0)
		for j := uint64(0); j < qf.Cap(); j++ {
			if j == i {
				require.EqualValues(t, 0, qf.slotAt(j))
			} else {
				require.EqualValues(t, qf.slotMask, qf.slotAt(j), "write to %d disturbed %d", i, j)
			}
		}
		qf.setSlotAt(i, slot(qf.slotMask))
	}
}
