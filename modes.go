package mt63

import "fmt"

// AudioSampleRate is the only audio sample rate the modulator supports.
// Resampling to other rates is up to the caller.
const AudioSampleRate = 8000

const (
	dataCarriers = 64  // simultaneously modulated sub-carriers
	transformLen = 512 // size of the spectral synthesis transform

	// carrierSepar is the sub-carrier spacing in transform bins. The 64
	// carriers always occupy half of the baseband spectrum, so the
	// spacing is the same in every bandwidth.
	carrierSepar = 4

	// symbolSepar is the number of decimated complex baseband samples
	// per symbol. The baseband rate scales with the bandwidth, so this
	// too is the same in every mode: one symbol is always
	// symbolSepar*InterpolateRatio audio samples.
	symbolSepar = 200

	escapeCode = 127 // announces a byte with the 8th bit set
)

// Mode describes one of the six MT63 submodes. The numeric part of the name
// selects the bandwidth, the trailing letter the interleave depth (S=32, L=64).
type Mode struct {
	Name string

	// Bandwidth of the transmitted signal in Hz.
	Bandwidth float64

	// InterleaveDepth is the number of symbols over which the bits of a
	// single character are spread in time.
	InterleaveDepth int

	// InterpolateRatio is the upsampling factor from the decimated
	// complex baseband to the audio sample rate.
	InterpolateRatio int

	// interleaveStride generates the per-carrier interleave pattern, it
	// is coprime to the interleave depth.
	interleaveStride int
}

// Modes contains all MT63 submodes, by name.
var Modes = map[string]Mode{
	"MT63-500S":  {Name: "MT63-500S", Bandwidth: 500, InterleaveDepth: 32, InterpolateRatio: 8, interleaveStride: 13},
	"MT63-500L":  {Name: "MT63-500L", Bandwidth: 500, InterleaveDepth: 64, InterpolateRatio: 8, interleaveStride: 23},
	"MT63-1000S": {Name: "MT63-1000S", Bandwidth: 1000, InterleaveDepth: 32, InterpolateRatio: 4, interleaveStride: 13},
	"MT63-1000L": {Name: "MT63-1000L", Bandwidth: 1000, InterleaveDepth: 64, InterpolateRatio: 4, interleaveStride: 23},
	"MT63-2000S": {Name: "MT63-2000S", Bandwidth: 2000, InterleaveDepth: 32, InterpolateRatio: 2, interleaveStride: 13},
	"MT63-2000L": {Name: "MT63-2000L", Bandwidth: 2000, InterleaveDepth: 64, InterpolateRatio: 2, interleaveStride: 23},
}

// ModeByName returns the mode with the given name.
func ModeByName(name string) (Mode, error) {
	mode, ok := Modes[name]
	if !ok {
		return Mode{}, fmt.Errorf("unknown mode %q", name)
	}
	return mode, nil
}

// basebandRate returns the complex baseband sample rate of this mode in Hz.
func (m Mode) basebandRate() float64 {
	return float64(AudioSampleRate) / float64(m.InterpolateRatio)
}

// SymbolDuration returns the length of one symbol in audio samples.
func (m Mode) SymbolDuration() int {
	return symbolSepar * m.InterpolateRatio
}
