package waveform

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// Low-pass cutoff as a fraction of the Nyquist frequency.
const FilterCutoff = 0.1

// MakeFilter returns a Hamming-windowed sinc low-pass filter with ntaps
// coefficients and unit gain at DC, scaled by multiplier and optionally
// rounded to integers.
func MakeFilter(ntaps int, multiplier float64, doRounding bool) ([]float64, error) {
	if ntaps < 1 {
		return nil, fmt.Errorf("ntaps must be positive, got %d", ntaps)
	}
	var win []float64
	if ntaps == 1 {
		win = []float64{1}
	} else {
		win = window.Hamming(ntaps)
	}

	alpha := 0.5 * float64(ntaps-1)
	coeffs := make([]float64, ntaps)
	sum := 0.0
	for i := range coeffs {
		m := float64(i) - alpha
		coeffs[i] = FilterCutoff * sinc(FilterCutoff*m) * win[i]
		sum += coeffs[i]
	}
	for i := range coeffs {
		coeffs[i] = coeffs[i] / sum * multiplier
		if doRounding {
			coeffs[i] = math.Round(coeffs[i])
		}
	}
	return coeffs, nil
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// ApplyFilter convolves waveform with coeffs, keeping only the samples where
// the two overlap completely, and divides by multiplier.
func ApplyFilter(coeffs []float64, waveform []float64, multiplier float64) []float64 {
	// numpy "valid" mode swaps the inputs when the kernel is the longer one
	long, short := waveform, coeffs
	if len(short) > len(long) {
		long, short = short, long
	}
	if len(short) == 0 {
		return []float64{}
	}
	n := len(long) - len(short) + 1
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		acc := 0.0
		for k := 0; k < len(short); k++ {
			acc += long[i+len(short)-1-k] * short[k]
		}
		out[i] = acc / multiplier
	}
	return out
}

// FrequencyResponse returns the gain of coeffs at n/2+1 frequencies from DC
// to Nyquist, computed from an n-point FFT.
func FrequencyResponse(coeffs []float64, n int) ([]float64, error) {
	if n < len(coeffs) {
		return nil, fmt.Errorf("response length %d shorter than filter length %d", n, len(coeffs))
	}
	padded := make([]float64, n)
	copy(padded, coeffs)
	spectrum := fft.FFTReal(padded)
	gain := make([]float64, n/2+1)
	for i := range gain {
		gain[i] = cmplx.Abs(spectrum[i])
	}
	return gain, nil
}
