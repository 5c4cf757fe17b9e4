package waveform

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWaveformsNpy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump_waveform.npy")
	writeNpy(t, path, [][]int32{
		{0, 1601, 900, 901, 902},
		{0, 1600, 800, 801, 802},
	})

	w, err := LoadWaveforms(path, FormatOffline)
	require.NoError(t, err)
	require.Equal(t, 2, w.Len())
	assert.Equal(t, 3, w.NSamples())
	assert.Equal(t, []int{1601, 1600}, w.Channels())
	assert.Equal(t, []float64{800, 801, 802}, w.Rows[1].ADC)
}

func TestLoadWaveformsText(t *testing.T) {
	path := writeText(t, t.TempDir(), "dump.txt",
		"2 1600 10 11 12 13",
		"",
		"2 1601 20 21 22 23",
	)
	w, err := LoadWaveforms(path, FormatOffline)
	require.NoError(t, err)
	require.Equal(t, 2, w.Len())
	assert.Equal(t, 2, w.Rows[0].Event)
	assert.Equal(t, []float64{20, 21, 22, 23}, w.Rows[1].ADC)
}

func TestLoadWaveformsRagged(t *testing.T) {
	path := writeText(t, t.TempDir(), "dump.txt",
		"0 1600 10 11 12",
		"0 1601 20 21",
	)
	_, err := LoadWaveforms(path, FormatOffline)
	var rowErr *ErrMalformedRow
	require.True(t, errors.As(err, &rowErr))
	assert.Equal(t, 2, rowErr.Line)
}

func TestLoadWaveformsMissingFile(t *testing.T) {
	_, err := LoadWaveforms(filepath.Join(t.TempDir(), "nope.npy"), FormatOffline)
	var openErr *ErrOpenFile
	require.True(t, errors.As(err, &openErr))
}

func TestLoadWaveformsOnline(t *testing.T) {
	path := writeText(t, t.TempDir(), "online.txt",
		"0 1600 1601 1602",
		"0x10 5 6 7",
		"0x11 8 9 10",
	)
	w, err := LoadWaveforms(path, FormatOnline)
	require.NoError(t, err)
	require.Equal(t, 3, w.Len())
	assert.Equal(t, []int{1600, 1601, 1602}, w.Channels())
	assert.Equal(t, Row{Event: 0, Channel: 1601, ADC: []float64{6, 9}}, w.Rows[1])
}

func TestLoadFilesOnlineSynchronises(t *testing.T) {
	dir := t.TempDir()
	a := writeText(t, dir, "a.txt",
		"0 1600 1601",
		"0x111461d3b022001 1 2",
		"0x111461d3b022002 3 4",
		"0x111461d3b022003 5 6",
		"0x111461d3b022004 7 8",
	)
	b := writeText(t, dir, "b.txt",
		"0 1602",
		"0x111461d3b022002 30",
		"0x111461d3b022003 50",
		"0x111461d3b022004 70",
		"0x111461d3b022005 90",
	)

	w, err := LoadFiles([]string{a, b}, FormatOnline)
	require.NoError(t, err)
	require.Equal(t, []int{1600, 1601, 1602}, w.Channels())
	assert.Equal(t, []float64{3, 5, 7}, w.Rows[0].ADC)
	assert.Equal(t, []float64{4, 6, 8}, w.Rows[1].ADC)
	assert.Equal(t, []float64{30, 50, 70}, w.Rows[2].ADC)
}

func TestLoadFilesOnlineNpy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "online.npy")
	writeNpy(t, path, [][]int32{
		{0, 1600, 1601},
		{100, 5, 6},
		{101, 8, 9},
	})

	w, err := LoadFiles([]string{path}, FormatOnline)
	require.NoError(t, err)
	assert.Equal(t, []int{1600, 1601}, w.Channels())
	assert.Equal(t, []float64{6, 9}, w.Rows[1].ADC)

	other := filepath.Join(dir, "other.npy")
	writeNpy(t, other, [][]int32{
		{0, 1602},
		{101, 70},
		{102, 80},
	})
	w, err = LoadFiles([]string{path, other}, FormatOnline)
	require.NoError(t, err)
	require.Equal(t, []int{1600, 1601, 1602}, w.Channels())
	assert.Equal(t, []float64{8}, w.Rows[0].ADC)
	assert.Equal(t, []float64{70}, w.Rows[2].ADC)
}

func TestLoadFilesOnlineBadTimestamp(t *testing.T) {
	dir := t.TempDir()
	a := writeText(t, dir, "a.txt",
		"0 1600",
		"0x10 1",
		"1.5e3 2",
	)
	b := writeText(t, dir, "b.txt",
		"0 1601",
		"0x10 3",
		"0x11 4",
	)

	_, err := LoadFiles([]string{a, b}, FormatOnline)
	var rowErr *ErrMalformedRow
	require.ErrorAs(t, err, &rowErr)
	assert.Equal(t, a, rowErr.Filename)
	assert.Equal(t, 3, rowErr.Line)
}

func TestLoadFilesOffline(t *testing.T) {
	dir := t.TempDir()
	a := writeText(t, dir, "a.txt", "0 1600 1 2 3")
	b := filepath.Join(dir, "b.npy")
	writeNpy(t, b, [][]int32{{0, 1601, 4, 5, 6}})

	w, err := LoadFiles([]string{a, b}, FormatOffline)
	require.NoError(t, err)
	assert.Equal(t, []int{1600, 1601}, w.Channels())

	c := writeText(t, dir, "c.txt", "0 1602 1 2")
	_, err = LoadFiles([]string{a, c}, FormatOffline)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("online")
	require.NoError(t, err)
	assert.Equal(t, FormatOnline, f)
	_, err = ParseFormat("root")
	assert.Error(t, err)
}

func TestLoadHits(t *testing.T) {
	dir := t.TempDir()
	writeText(t, dir, "run1_hits_evt1.txt",
		"1600 120.5 3.2",
		"1601 130 4",
	)
	hits, err := LoadHitsFor([]string{filepath.Join(dir, "run1_waveform_evt1.npy")})
	require.NoError(t, err)
	assert.Equal(t, []Hit{{Channel: 1600, Time: 120.5}, {Channel: 1601, Time: 130}}, hits)
}
