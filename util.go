package quotient

// lowMask returns a mask of the n low bits, for n in 0..64.
func lowMask(n uint) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}
