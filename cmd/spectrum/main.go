// This tool reads a window of samples from a PCM file, runs a Fourier
// transform over it, and prints the dominant frequency.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/go-audio/audio"

	"github.com/cwbudde/pcm"
	"github.com/cwbudde/pcm/fft"
)

func main() {
	err := run(os.Args[1:], os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
}

var (
	errMissingPath       = errors.New("the -path flag is required")
	errWindowNotPowerOf2 = errors.New("the -window flag must be a power of two")
)

func run(args []string, out io.Writer) error {
	flagSet := flag.NewFlagSet("spectrum", flag.ContinueOnError)

	path := flagSet.String("path", "", "file to analyze")
	start := flagSet.Int64("start", 0, "first frame of the analysis window")
	window := flagSet.Int("window", 4096, "analysis window size in frames (power of two)")

	err := flagSet.Parse(args)
	if err != nil {
		return err
	}

	if *path == "" {
		return errMissingPath
	}

	if !fft.IsPowerOfTwo(*window) {
		return fmt.Errorf("%w: got %d", errWindowNotPowerOf2, *window)
	}

	provider, err := pcm.Open(*path)
	if err != nil {
		return err
	}
	defer provider.Close()

	signal, err := readMono(provider, *start, *window)
	if err != nil {
		return err
	}

	re, im, err := fft.Transform(signal)
	if err != nil {
		return err
	}

	peak := 1

	var peakMag float64

	for i := 1; i < *window/2; i++ {
		mag := math.Hypot(re[i], im[i])
		if mag > peakMag {
			peak, peakMag = i, mag
		}
	}

	freq := fft.FrequencyAtIndex(int(provider.SampleRate()), *window, peak)
	fmt.Fprintf(out, "%s: dominant frequency %.1f Hz (bin %d of %d)\n", *path, freq, peak, *window)

	return nil
}

// readMono reads count frames starting at start and mixes all channels
// into one normalized signal. Frames past the end of the file stay
// zero, keeping the window length a power of two.
func readMono(provider *pcm.Provider, start int64, count int) ([]float64, error) {
	channels := int(provider.NumChannels())

	buf := &audio.IntBuffer{Data: make([]int, count*channels)}

	n, err := provider.ReadIntBuffer(buf, start)
	if err != nil {
		return nil, err
	}

	scale := math.Ldexp(1, int(provider.BytesPerSample())*8-1)

	out := make([]float64, count)
	for frame := 0; frame < n/channels; frame++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[frame*channels+ch])
		}

		out[frame] = sum / float64(channels) / scale
	}

	return out, nil
}
