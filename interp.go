package mt63

import (
	"math"

	"github.com/ftl/mt63/dsp"
)

// aliasFilterTaps is the length of the interpolator's alias filter in
// baseband samples; the audio-rate kernel has aliasFilterTaps*ratio taps.
const aliasFilterTaps = 64

// interpolator upsamples the decimated complex baseband to the audio rate.
//
// It is a polyphase FIR interpolator with an analytic bandpass kernel pair:
// a windowed-sinc lowpass prototype modulated by cosine (in-phase) and sine
// (quadrature). Upsampling replicates the baseband spectrum every baseband
// rate; the kernel selects the single image that lies at the requested audio
// frequency and takes the real part. A persistent tap ring carries the filter
// state between calls.
type interpolator struct {
	ratio int
	inpI  [][]float64 // [phase][tap] in-phase sub-kernels
	inpQ  [][]float64 // [phase][tap] quadrature sub-kernels
	ring  []complex128
	head  int
}

// newInterpolator designs the kernels for the given mode, centered on the
// given audio frequency. The lowpass prototype cutoff keeps the carriers flat
// and the aliases attenuated within 3/4 of the bandwidth on either side.
func newInterpolator(mode Mode, frequency float64) *interpolator {
	ratio := mode.InterpolateRatio
	taps := aliasFilterTaps * ratio
	cutoff := 0.62 * mode.Bandwidth / AudioSampleRate
	prototype := dsp.Lowpass(taps, cutoff)

	center := 0.5 * float64(taps-1)
	gain := 2 * float64(ratio) // analytic-to-real and zero-stuffing compensation
	inpI := make([][]float64, ratio)
	inpQ := make([][]float64, ratio)
	for p := range inpI {
		inpI[p] = make([]float64, aliasFilterTaps)
		inpQ[p] = make([]float64, aliasFilterTaps)
		for j := range inpI[p] {
			k := j*ratio + p
			phi := 2 * math.Pi * frequency * (float64(k) - center) / AudioSampleRate
			inpI[p][j] = gain * prototype[k] * math.Cos(phi)
			inpQ[p][j] = gain * prototype[k] * math.Sin(phi)
		}
	}

	return &interpolator{
		ratio: ratio,
		inpI:  inpI,
		inpQ:  inpQ,
		ring:  make([]complex128, aliasFilterTaps),
	}
}

// Reset clears the tap ring.
func (ip *interpolator) Reset() {
	for i := range ip.ring {
		ip.ring[i] = 0
	}
	ip.head = 0
}

// Process appends ratio real audio samples to out for every complex baseband
// sample in in, and returns the extended slice.
func (ip *interpolator) Process(out []float64, in []complex128) []float64 {
	for _, x := range in {
		ip.head++
		if ip.head == len(ip.ring) {
			ip.head = 0
		}
		ip.ring[ip.head] = x

		for p := 0; p < ip.ratio; p++ {
			hI := ip.inpI[p]
			hQ := ip.inpQ[p]
			idx := ip.head
			var y float64
			for j := 0; j < len(ip.ring); j++ {
				y += real(ip.ring[idx])*hI[j] - imag(ip.ring[idx])*hQ[j]
				idx--
				if idx < 0 {
					idx = len(ip.ring) - 1
				}
			}
			out = append(out, y)
		}
	}
	return out
}
