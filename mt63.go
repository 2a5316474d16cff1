/*
Package mt63 implements the transmit side of the MT63 digital mode, as
designed by Pawel Jalocha, SP9VRC: 64 differentially phase-modulated
sub-carriers, character spreading through a Walsh-Hadamard transform, and
time diversification through a long block interleaver.

The modulator is a pure function from a message and a set of parameters to a
mono floating-point PCM buffer at 8000 Hz. Writing the buffer to a WAV file
or a sound device is up to the caller.
*/
package mt63

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// twoToneSeconds is the fixed duration of the optional two-tone preamble.
const twoToneSeconds = 2

// Modulate synthesizes the given text in the named mode, centered on the
// given audio frequency in Hz. The only supported sample rate is
// AudioSampleRate. With preamble enabled, the transmission starts with a
// two-tone section to aid the receiver's frequency acquisition.
//
// The returned samples are in [-1.0, 1.0].
func Modulate(text string, modeName string, frequency float64, sampleRate int, preamble bool) ([]float64, error) {
	mode, err := ModeByName(modeName)
	if err != nil {
		return nil, err
	}
	tx, err := NewTransmitter(mode, frequency, sampleRate, preamble)
	if err != nil {
		return nil, err
	}
	return tx.Modulate(text), nil
}

// Transmitter synthesizes MT63 messages. It owns all mutable synthesis state
// (interleave pipe, carrier phases, window and filter memory), so independent
// transmitters can run concurrently. One transmitter must only synthesize one
// message at a time.
type Transmitter struct {
	mode      Mode
	frequency float64
	preamble  bool

	encoder      *encoder
	synthesizer  *synthesizer
	interpolator *interpolator
}

// NewTransmitter validates the given parameters and creates a transmitter for
// them. The carriers and their 3/4-bandwidth guard on either side must fit
// between zero and the Nyquist frequency.
func NewTransmitter(mode Mode, frequency float64, sampleRate int, preamble bool) (*Transmitter, error) {
	if _, ok := Modes[mode.Name]; !ok {
		return nil, fmt.Errorf("unknown mode %q", mode.Name)
	}
	if sampleRate != AudioSampleRate {
		return nil, fmt.Errorf("unsupported sample rate %d, must be %d", sampleRate, AudioSampleRate)
	}
	guard := 0.75 * mode.Bandwidth
	if frequency-guard <= 0 || frequency+guard >= AudioSampleRate/2 {
		return nil, fmt.Errorf("frequency %.0f Hz does not fit the %s signal below the Nyquist frequency", frequency, mode.Name)
	}

	return &Transmitter{
		mode:         mode,
		frequency:    frequency,
		preamble:     preamble,
		encoder:      newEncoder(mode.InterleaveDepth, mode.interleaveStride),
		synthesizer:  newSynthesizer(mode, frequency),
		interpolator: newInterpolator(mode, frequency),
	}, nil
}

// Modulate synthesizes one complete message. All synthesis state is reset
// first, so consecutive messages from the same transmitter are independent.
//
// The transmission consists of the optional two-tone preamble, the
// interleaver priming run-in of InterleaveDepth null characters, the message
// characters, another InterleaveDepth null characters draining the
// interleaver, and one jam symbol marking the end of the transmission.
// Bytes with the 8th bit set are sent as an escape character followed by
// their low 7 bits. The whole buffer is peak-normalized at the end.
func (t *Transmitter) Modulate(text string) []float64 {
	t.encoder.Reset()
	t.synthesizer.Reset()
	t.interpolator.Reset()

	depth := t.mode.InterleaveDepth
	symbols := 2*depth + 1
	for i := 0; i < len(text); i++ {
		symbols++
		if text[i] >= 0x80 {
			symbols++
		}
	}
	out := make([]float64, 0, t.twoToneLen()+symbols*t.mode.SymbolDuration())

	if t.preamble {
		out = t.appendTwoTone(out)
	}
	for i := 0; i < depth; i++ {
		out = t.appendChar(out, 0)
	}
	for i := 0; i < len(text); i++ {
		b := text[i]
		if b >= 0x80 {
			out = t.appendChar(out, escapeCode)
			out = t.appendChar(out, b&0x7F)
		} else {
			out = t.appendChar(out, b)
		}
	}
	for i := 0; i < depth; i++ {
		out = t.appendChar(out, 0)
	}
	out = t.interpolator.Process(out, t.synthesizer.ProcessJam())

	normalize(out)
	return out
}

func (t *Transmitter) appendChar(out []float64, code byte) []float64 {
	bits := t.encoder.Encode(code)
	baseband := t.synthesizer.Process(bits)
	return t.interpolator.Process(out, baseband)
}

func (t *Transmitter) twoToneLen() int {
	if !t.preamble {
		return 0
	}
	return twoToneSeconds * AudioSampleRate
}

// appendTwoTone appends the dual-tone preamble, one tone on each edge of the
// carrier band.
func (t *Transmitter) appendTwoTone(out []float64) []float64 {
	lower := t.frequency - t.mode.Bandwidth/2
	upper := t.frequency + t.mode.Bandwidth/2
	for i := 0; i < twoToneSeconds*AudioSampleRate; i++ {
		phi := 2 * math.Pi * float64(i) / AudioSampleRate
		out = append(out, 0.5*math.Sin(phi*lower)+0.5*math.Sin(phi*upper))
	}
	return out
}

// normalize scales the whole buffer so that the maximum absolute value is
// exactly 1.0. A buffer that already fits into [-1.0, 1.0] passes through
// unchanged.
func normalize(samples []float64) {
	if len(samples) == 0 {
		return
	}
	peak := floats.Norm(samples, math.Inf(1))
	if peak <= 1.0 {
		return
	}
	// dividing instead of multiplying by the reciprocal keeps the peak
	// sample at exactly 1.0
	for i := range samples {
		samples[i] /= peak
	}
}
