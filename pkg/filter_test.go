package waveform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeFilter(t *testing.T) {
	coeffs, err := MakeFilter(5, 1, false)
	require.NoError(t, err)
	want := []float64{0.0338332401184245, 0.24012702387971543, 0.45207947200372, 0.24012702387971546, 0.0338332401184245}
	require.Len(t, coeffs, len(want))
	for i := range want {
		assert.InDelta(t, want[i], coeffs[i], 1e-9, "tap %d", i)
	}
}

func TestMakeFilterScaledAndRounded(t *testing.T) {
	coeffs, err := MakeFilter(32, 100, true)
	require.NoError(t, err)

	sum := 0.0
	for i, c := range coeffs {
		assert.Equal(t, math.Round(c), c)
		assert.Equal(t, c, coeffs[len(coeffs)-1-i], "filter is symmetric")
		sum += c
	}
	assert.InDelta(t, 100, sum, 5)

	_, err = MakeFilter(0, 1, false)
	assert.Error(t, err)
}

func TestApplyFilter(t *testing.T) {
	assert.Equal(t, []float64{2, 2}, ApplyFilter([]float64{1, 0, -1}, []float64{1, 2, 3, 4}, 1))
	assert.Equal(t, []float64{1, 1}, ApplyFilter([]float64{1, 0, -1}, []float64{1, 2, 3, 4}, 2))
	// kernel longer than the waveform
	assert.Equal(t, []float64{2, -1}, ApplyFilter([]float64{1, 2}, []float64{1, 0, -1}, 1))
	assert.Empty(t, ApplyFilter(nil, []float64{1, 2}, 1))
}

func TestApplyFilterKeepsDC(t *testing.T) {
	coeffs, err := MakeFilter(16, 1, false)
	require.NoError(t, err)
	flat := make([]float64, 100)
	for i := range flat {
		flat[i] = 42
	}
	out := ApplyFilter(coeffs, flat, 1)
	require.Len(t, out, 85)
	for _, v := range out {
		assert.InDelta(t, 42, v, 1e-9)
	}
}

func TestFrequencyResponse(t *testing.T) {
	coeffs, err := MakeFilter(32, 1, false)
	require.NoError(t, err)
	gain, err := FrequencyResponse(coeffs, 256)
	require.NoError(t, err)
	require.Len(t, gain, 129)
	assert.InDelta(t, 1, gain[0], 1e-9)
	assert.Less(t, gain[128], 0.01)
	// cutoff at 0.1 of Nyquist is the -6 dB point of a windowed sinc
	assert.InDelta(t, 0.5, gain[13], 0.1)

	_, err = FrequencyResponse(coeffs, 8)
	assert.Error(t, err)
}
