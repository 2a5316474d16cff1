// Package dsp provides the few signal processing primitives shared by the
// modulator: windowed-sinc FIR design and window shapes.
package dsp

import "math"

// Lowpass designs a Hamming-windowed sinc lowpass FIR kernel with the given
// number of taps. The cutoff frequency is given as a fraction of the sampling
// frequency (0 < cutoff < 0.5). The kernel is normalized for unity gain at DC.
func Lowpass(taps int, cutoff float64) []float64 {
	kernel := make([]float64, taps)
	center := 0.5 * float64(taps-1)

	for j := range kernel {
		t := float64(j) - center
		var sinc float64
		if t == 0 {
			sinc = 2 * cutoff
		} else {
			sinc = math.Sin(2*math.Pi*cutoff*t) / (math.Pi * t)
		}
		kernel[j] = sinc * hamming(taps, j)
	}

	var gain float64
	for _, c := range kernel {
		gain += c
	}
	for j := range kernel {
		kernel[j] /= gain
	}
	return kernel
}

func hamming(taps int, j int) float64 {
	return 0.53836 - 0.46164*math.Cos(2*math.Pi*float64(j)/float64(taps-1))
}

// Hann returns a raised-cosine window of the given length. The window is
// periodic (half-sample offset), so shifted copies at any hop dividing the
// length sum to a constant.
func Hann(length int) []float64 {
	w := make([]float64, length)
	for j := range w {
		w[j] = 0.5 * (1 - math.Cos(2*math.Pi*(float64(j)+0.5)/float64(length)))
	}
	return w
}
