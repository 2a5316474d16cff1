package mt63

// The Walsh-Hadamard transform is the spreading FEC of MT63: a single
// character becomes a pseudo-orthogonal ±1 pattern across all 64 carriers, so
// the receiver can recover it even when some carriers are faded.
//
// Neither direction applies any normalization. This is a protocol constant,
// not an oversight: the decoder side is defined relative to the same
// convention, so forwardWalsh(inverseWalsh(v)) yields 64*v.

// inverseWalsh applies the inverse Walsh-Hadamard transform in place, using
// the fast butterfly schedule with doubling pair distance.
func inverseWalsh(v []float64) {
	for step := 1; step < len(v); step <<= 1 {
		for block := 0; block < len(v); block += step << 1 {
			for i := block; i < block+step; i++ {
				a, b := v[i], v[i+step]
				v[i], v[i+step] = a+b, a-b
			}
		}
	}
}

// forwardWalsh applies the forward Walsh-Hadamard transform in place, using
// the fast butterfly schedule with halving pair distance.
func forwardWalsh(v []float64) {
	for step := len(v) >> 1; step >= 1; step >>= 1 {
		for block := 0; block < len(v); block += step << 1 {
			for i := block; i < block+step; i++ {
				a, b := v[i], v[i+step]
				v[i], v[i+step] = a+b, a-b
			}
		}
	}
}
