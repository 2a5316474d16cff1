package mt63

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"
	"pgregory.net/rapid"
)

func TestModeByName(t *testing.T) {
	for name, expected := range Modes {
		actual, err := ModeByName(name)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}

	_, err := ModeByName("MT63-4000X")
	assert.Error(t, err)
}

func TestConfigurationErrors(t *testing.T) {
	testCases := []struct {
		desc       string
		mode       string
		frequency  float64
		sampleRate int
	}{
		{"unknown mode", "PSK31", 1000, 8000},
		{"unsupported sample rate", "MT63-1000L", 1000, 44100},
		{"carrier band above Nyquist", "MT63-2000L", 3500, 8000},
		{"carrier band below zero", "MT63-2000L", 1000, 8000},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			_, err := Modulate("test", tC.mode, tC.frequency, tC.sampleRate, false)
			assert.Error(t, err)
		})
	}
}

func TestDurationFormula(t *testing.T) {
	// two interleaver flushes of depth null characters plus one jam
	// symbol wrap every message
	testCases := []struct {
		desc      string
		text      string
		mode      string
		frequency float64
		preamble  bool
	}{
		{"single character", "A", "MT63-1000L", 1000, false},
		{"single character short interleave", "A", "MT63-500S", 1000, false},
		{"escaped byte counts twice", string([]byte{200}), "MT63-1000L", 1000, false},
		{"with two-tone preamble", "A", "MT63-1000L", 1000, true},
		{"empty text", "", "MT63-2000S", 2000, false},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			mode := Modes[tC.mode]

			effectiveLen := 0
			for i := 0; i < len(tC.text); i++ {
				effectiveLen++
				if tC.text[i] >= 0x80 {
					effectiveLen++
				}
			}
			expected := (2*mode.InterleaveDepth + effectiveLen + 1) * mode.SymbolDuration()
			if tC.preamble {
				expected += twoToneSeconds * AudioSampleRate
			}

			samples, err := Modulate(tC.text, tC.mode, tC.frequency, AudioSampleRate, tC.preamble)
			require.NoError(t, err)
			assert.Equal(t, expected, len(samples))
		})
	}
}

func TestAmplitudeBound(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := string(rapid.SliceOfN(rapid.Byte(), 1, 20).Draw(t, "text"))
		modeName := rapid.SampledFrom([]string{
			"MT63-500S", "MT63-1000S", "MT63-1000L", "MT63-2000S",
		}).Draw(t, "mode")

		samples, err := Modulate(text, modeName, 1600, AudioSampleRate, false)
		if err != nil {
			t.Fatal(err)
		}

		peak := 0.0
		for _, s := range samples {
			if a := math.Abs(s); a > peak {
				peak = a
			}
		}
		if peak > 1.0 {
			t.Fatalf("peak %f exceeds 1.0", peak)
		}
		if peak < 1.0-1e-9 {
			t.Fatalf("peak %f, normalization must scale the peak to exactly 1.0", peak)
		}
	})
}

func TestEscapeSequence(t *testing.T) {
	// a byte with the 8th bit set is sent as the escape character
	// followed by its low 7 bits
	escaped, err := Modulate(string([]byte{200}), "MT63-1000L", 1000, AudioSampleRate, false)
	require.NoError(t, err)
	explicit, err := Modulate(string([]byte{escapeCode, 200 & 0x7F}), "MT63-1000L", 1000, AudioSampleRate, false)
	require.NoError(t, err)

	assert.Equal(t, explicit, escaped)
}

func TestDeterminism(t *testing.T) {
	first, err := Modulate("determinism", "MT63-500L", 1000, AudioSampleRate, true)
	require.NoError(t, err)
	second, err := Modulate("determinism", "MT63-500L", 1000, AudioSampleRate, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTransmitterIsReusable(t *testing.T) {
	tx, err := NewTransmitter(Modes["MT63-1000S"], 1000, AudioSampleRate, false)
	require.NoError(t, err)

	first := tx.Modulate("again")
	second := tx.Modulate("again")

	assert.Equal(t, first, second)
}

func TestSpectralContainment(t *testing.T) {
	const frequency = 1000.0
	mode := Modes["MT63-1000L"]

	samples, err := Modulate("the quick brown fox", mode.Name, frequency, AudioSampleRate, false)
	require.NoError(t, err)

	// zero-pad to a power of two for the spectrum estimate
	n := 1
	for n < len(samples) {
		n <<= 1
	}
	padded := make([]float64, n)
	copy(padded, samples)
	spectrum := fourier.NewFFT(n).Coefficients(nil, padded)

	lower := frequency - 0.75*mode.Bandwidth
	upper := frequency + 0.75*mode.Bandwidth
	var inBand, total float64
	for i, c := range spectrum {
		f := float64(i) * AudioSampleRate / float64(n)
		energy := real(c)*real(c) + imag(c)*imag(c)
		total += energy
		if f >= lower && f <= upper {
			inBand += energy
		}
	}

	require.Positive(t, total)
	assert.Greater(t, inBand/total, 0.99, "out-of-band energy must be near zero")
}
