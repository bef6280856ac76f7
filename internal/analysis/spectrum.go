package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the one-sided power spectrum of a real series,
// zero-padded to the next power of two.
func PowerSpectrum(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)

	coeffs := fft.FFTReal(padded)

	ps := make([]float64, n/2)
	for i := range ps {
		mag := cmplx.Abs(coeffs[i])
		ps[i] = mag * mag
	}
	return ps
}

// DominantFrequency locates the strongest non-DC component of a series
// sampled at spacing dz and returns it in cycles per unit length.
// For a THG run the harmonic intensity beats at roughly δβ/2π.
func DominantFrequency(data []float64, dz float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dz <= 0 {
		return 0
	}

	maxIdx := 1
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[maxIdx] {
			maxIdx = i
		}
	}

	n := len(ps) * 2
	return float64(maxIdx) / (float64(n) * dz)
}
