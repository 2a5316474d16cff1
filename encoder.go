package mt63

// encoder turns one 7-bit character code into the 64 bits that modulate the
// carriers of one symbol: the code is spread over all carriers by the inverse
// Walsh transform and the resulting bits are diversified in time by a
// circular interleave pipe.
type encoder struct {
	pipe    []byte // depth*dataCarriers bits, circular
	ptr     int    // write pointer into pipe
	offsets []int  // per-carrier read offset relative to ptr
	spread  []float64
}

// newEncoder creates an encoder for the given interleave depth. The
// per-carrier offsets are generated from the mode's fixed stride; the
// cumulative offsets wrap modulo the depth, which guarantees that every
// written bit is read exactly once per pipe cycle.
func newEncoder(depth int, stride int) *encoder {
	offsets := make([]int, dataCarriers)
	for i := range offsets {
		offsets[i] = ((i * stride) % depth) * dataCarriers
	}
	return &encoder{
		pipe:    make([]byte, depth*dataCarriers),
		offsets: offsets,
		spread:  make([]float64, dataCarriers),
	}
}

// Reset clears the interleave pipe.
func (e *encoder) Reset() {
	for i := range e.pipe {
		e.pipe[i] = 0
	}
	e.ptr = 0
}

// Encode spreads the given character code over the carriers and returns the
// interleaved bits for the current symbol, one per carrier. Only the low
// 7 bits of code are used.
func (e *encoder) Encode(code byte) []byte {
	code &= 0x7F

	for i := range e.spread {
		e.spread[i] = 0
	}
	if code < dataCarriers {
		e.spread[code] = 1
	} else {
		e.spread[code-dataCarriers] = -1
	}
	inverseWalsh(e.spread)

	for i, v := range e.spread {
		var bit byte
		if v < 0 {
			bit = 1
		}
		e.pipe[(e.ptr+i)%len(e.pipe)] = bit
	}

	bits := make([]byte, dataCarriers)
	for i := range bits {
		bits[i] = e.pipe[(e.ptr+e.offsets[i]+i)%len(e.pipe)]
	}

	e.ptr = (e.ptr + dataCarriers) % len(e.pipe)
	return bits
}
