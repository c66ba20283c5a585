// Package fft implements a radix-2 Fourier transform for spectral
// analysis of decoded sample buffers. It operates purely on slices of
// samples and knows nothing about audio containers.
package fft

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotPowerOfTwo is returned when an input length is not a positive
// power of two.
var ErrNotPowerOfTwo = errors.New("input length is not a power of two")

// Transform computes the forward DFT of a real-valued input whose
// length is a power of two, returning the real and imaginary parts of
// the spectrum.
func Transform(input []float64) (re, im []float64, err error) {
	return doTransform(input, nil, false)
}

// Inverse computes the inverse DFT of a complex spectrum, normalized
// by the input length. For a spectrum produced by Transform, the real
// part of the result is the original signal.
func Inverse(specRe, specIm []float64) (re, im []float64, err error) {
	return doTransform(specRe, specIm, true)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NumberOfBitsNeeded returns the width of the index space for an
// n-point transform.
func NumberOfBitsNeeded(n int) (int, error) {
	if !IsPowerOfTwo(n) {
		return 0, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, n)
	}

	bits := 0
	for 1<<bits < n {
		bits++
	}

	return bits, nil
}

// ReverseBits returns index with its lowest bits bits reversed.
func ReverseBits(index, bits int) int {
	out := 0
	for i := 0; i < bits; i++ {
		out = out<<1 | index&1
		index >>= 1
	}

	return out
}

// FrequencyAtIndex returns the frequency in Hz represented by spectrum
// bin index of an n-point transform at the given sample rate.
func FrequencyAtIndex(sampleRate, n, index int) float64 {
	if n == 0 {
		return 0
	}

	return float64(index) * float64(sampleRate) / float64(n)
}

func doTransform(inRe, inIm []float64, inverse bool) (outRe, outIm []float64, err error) {
	n := len(inRe)

	bits, err := NumberOfBitsNeeded(n)
	if err != nil {
		return nil, nil, err
	}

	if inIm != nil && len(inIm) != n {
		return nil, nil, fmt.Errorf("imaginary part has length %d, want %d", len(inIm), n)
	}

	outRe = make([]float64, n)
	outIm = make([]float64, n)

	// Bit-reversal permutation, then in-place butterflies.
	for i := 0; i < n; i++ {
		j := ReverseBits(i, bits)

		outRe[j] = inRe[i]
		if inIm != nil {
			outIm[j] = inIm[i]
		}
	}

	angleSign := -1.0
	if inverse {
		angleSign = 1.0
	}

	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		step := angleSign * 2 * math.Pi / float64(size)

		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				wRe := math.Cos(step * float64(k))
				wIm := math.Sin(step * float64(k))

				i, j := start+k, start+k+half

				tRe := wRe*outRe[j] - wIm*outIm[j]
				tIm := wRe*outIm[j] + wIm*outRe[j]

				outRe[j] = outRe[i] - tRe
				outIm[j] = outIm[i] - tIm
				outRe[i] += tRe
				outIm[i] += tIm
			}
		}
	}

	if inverse {
		for i := 0; i < n; i++ {
			outRe[i] /= float64(n)
			outIm[i] /= float64(n)
		}
	}

	return outRe, outIm, nil
}
