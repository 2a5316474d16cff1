package mt63

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/ftl/mt63/dsp"
)

// carrierAmplitude scales each carrier phasor so that the combined power of
// all 64 carriers matches the protocol's target level.
const carrierAmplitude = 4.0 / dataCarriers

// synthesizer holds the per-carrier differential phase state and turns the
// interleaved bits of one symbol into decimated complex baseband samples.
//
// Carriers are placed alternately into two frequency-domain buffers, each
// inverse-transformed on its own. The two time-domain halves are stitched
// into one block of twice the transform size, and a raised-cosine window
// folds the block into the overlap accumulator, from which one symbol
// separation's worth of samples is read per call. The accumulator carries the
// remaining windowed energy into the following symbols.
type synthesizer struct {
	bins []int // carrier index -> transform bin
	corr []int // per-carrier phase rotation per symbol, in twiddle steps

	phase   []int // differential phase state, always in [0, transformLen)
	twiddle []complex128

	fft          *fourier.CmplxFFT
	freqA, freqB []complex128
	timeA, timeB []complex128
	window       []float64
	acc          []complex128
	out          []complex128

	rng *rand.Rand
}

// newSynthesizer creates a synthesizer with the carriers of the given mode
// centered on the given audio frequency. The carrier-to-bin mapping is
// relative to the baseband rate; the frequency bins wrap around the transform
// size, the rate converter later selects the spectral image at the actual
// audio frequency.
func newSynthesizer(mode Mode, frequency float64) *synthesizer {
	centerBin := int(math.Round(frequency * transformLen / mode.basebandRate()))
	firstBin := centerBin - (dataCarriers/2-1)*carrierSepar - carrierSepar/2

	bins := make([]int, dataCarriers)
	corr := make([]int, dataCarriers)
	for i := range bins {
		bin := firstBin + i*carrierSepar
		bins[i] = ((bin % transformLen) + transformLen) % transformLen
		corr[i] = (bins[i] * symbolSepar) % transformLen
	}

	twiddle := make([]complex128, transformLen)
	for p := range twiddle {
		phi := 2 * math.Pi * float64(p) / transformLen
		twiddle[p] = complex(math.Cos(phi), math.Sin(phi))
	}

	s := &synthesizer{
		bins:    bins,
		corr:    corr,
		phase:   make([]int, dataCarriers),
		twiddle: twiddle,
		fft:     fourier.NewCmplxFFT(transformLen),
		freqA:   make([]complex128, transformLen),
		freqB:   make([]complex128, transformLen),
		timeA:   make([]complex128, transformLen),
		timeB:   make([]complex128, transformLen),
		window:  dsp.Hann(2 * transformLen),
		acc:     make([]complex128, 2*transformLen),
		out:     make([]complex128, symbolSepar),
	}
	s.Reset()
	return s
}

// Reset discards all phase and window memory, the fixed PRNG seed keeps the
// jam symbol deterministic.
func (s *synthesizer) Reset() {
	for i := range s.phase {
		s.phase[i] = 0
	}
	for i := range s.acc {
		s.acc[i] = 0
	}
	s.rng = rand.New(rand.NewSource(0x6d743633))
}

// Process advances the differential phase of each carrier by the bit assigned
// to it and synthesizes one symbol. A set bit advances the phase by the
// carrier's correction constant only, a cleared bit adds a 180° flip on top.
// The returned slice is valid until the next call.
func (s *synthesizer) Process(bits []byte) []complex128 {
	for i := range s.phase {
		step := s.corr[i]
		if bits[i] == 0 {
			step += transformLen / 2
		}
		s.phase[i] = (s.phase[i] + step) % transformLen
	}
	return s.synthesize()
}

// ProcessJam kicks every carrier by ±90° at random and synthesizes one
// symbol. The jam symbol marks the end of the transmission for carrier
// detectors: the simultaneous quarter-period jumps cannot occur in data.
func (s *synthesizer) ProcessJam() []complex128 {
	for i := range s.phase {
		kick := transformLen / 4
		if s.rng.Intn(2) == 0 {
			kick = -kick
		}
		s.phase[i] = ((s.phase[i]+s.corr[i]+kick)%transformLen + transformLen) % transformLen
	}
	return s.synthesize()
}

func (s *synthesizer) synthesize() []complex128 {
	for i := range s.freqA {
		s.freqA[i] = 0
		s.freqB[i] = 0
	}
	for i := range s.bins {
		c := carrierAmplitude * s.twiddle[s.phase[i]]
		if i%2 == 0 {
			s.freqA[s.bins[i]] = c
		} else {
			s.freqB[s.bins[i]] = c
		}
	}

	// unnormalized inverse transform, one per half-symbol
	s.fft.Sequence(s.timeA, s.freqA)
	s.fft.Sequence(s.timeB, s.freqB)

	for i := range s.timeA {
		s.acc[i] += s.timeA[i] * complex(s.window[i], 0)
		s.acc[transformLen+i] += s.timeB[i] * complex(s.window[transformLen+i], 0)
	}

	copy(s.out, s.acc[:symbolSepar])
	copy(s.acc, s.acc[symbolSepar:])
	for i := len(s.acc) - symbolSepar; i < len(s.acc); i++ {
		s.acc[i] = 0
	}
	return s.out
}
