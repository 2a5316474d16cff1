// The mt63 command synthesizes a text message as an MT63 transmission and
// writes it to a mono WAV file.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/spf13/cobra"

	"github.com/ftl/mt63"
)

var rootCmd = &cobra.Command{
	Use:   "mt63 [flags] <text>...",
	Short: "synthesize an MT63 transmission",
	Long:  "Synthesize a text message as an MT63 transmission and write it to a mono 16bit WAV file at 8000 Hz.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  run,
}

var (
	modeName    string
	frequency   float64
	preamble    bool
	outFilename string
)

func init() {
	rootCmd.Flags().StringVar(&modeName, "mode", "MT63-1000L", "MT63 submode (MT63-500S/L, MT63-1000S/L, MT63-2000S/L)")
	rootCmd.Flags().Float64Var(&frequency, "frequency", 1000, "audio center frequency in Hz")
	rootCmd.Flags().BoolVar(&preamble, "preamble", false, "send a two-tone preamble before the data")
	rootCmd.Flags().StringVar(&outFilename, "out", "mt63.wav", "output WAV filename")
}

func run(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	samples, err := mt63.Modulate(text, modeName, frequency, mt63.AudioSampleRate, preamble)
	if err != nil {
		return err
	}
	log.Info("synthesized transmission",
		"mode", modeName,
		"frequency", frequency,
		"samples", len(samples),
		"duration", fmt.Sprintf("%.1fs", float64(len(samples))/mt63.AudioSampleRate),
	)

	if err := writeWAV(outFilename, samples); err != nil {
		return err
	}
	log.Info("wrote WAV file", "filename", outFilename)
	return nil
}

func writeWAV(filename string, samples []float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := wav.NewEncoder(file, mt63.AudioSampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: mt63.AudioSampleRate},
		SourceBitDepth: 16,
		Data:           make([]int, len(samples)),
	}
	for i, s := range samples {
		buf.Data[i] = int(s * 32767)
	}
	if err := encoder.Write(buf); err != nil {
		return err
	}
	return encoder.Close()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
