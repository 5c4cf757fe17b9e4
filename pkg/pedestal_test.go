package waveform

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPedSub(t *testing.T) {
	w := Waveforms{Rows: []Row{
		{Event: 7, Channel: 1600, ADC: []float64{500, 502, 501, 900}},
		{Event: 7, Channel: 1601, ADC: []float64{10, 20, 30}},
	}}
	sub, err := PedSub(w)
	require.NoError(t, err)

	assert.Equal(t, 7, sub.Rows[0].Event)
	assert.Equal(t, 1600, sub.Rows[0].Channel)
	// even number of samples: mean of the middle two
	assert.Equal(t, []float64{-1.5, 0.5, -0.5, 398.5}, sub.Rows[0].ADC)
	assert.Equal(t, []float64{-10, 0, 10}, sub.Rows[1].ADC)

	// the input is left alone
	assert.Equal(t, []float64{500, 502, 501, 900}, w.Rows[0].ADC)
}

func TestPedSubEmptyRow(t *testing.T) {
	_, err := PedSub(Waveforms{Rows: []Row{{Channel: 3}}})
	assert.Error(t, err)
}

func TestSelectPedSub(t *testing.T) {
	w := makeRows(channelRange(1600, 1610), 9, 800, 50)
	sub, err := SelectPedSub(w, 0, ViewZ, SideWall)
	require.NoError(t, err)
	require.Equal(t, 10, sub.Len())
	for _, row := range sub.Rows {
		assert.Equal(t, 50.0, row.ADC[4])
		assert.Equal(t, 0.0, row.ADC[0])
	}
}

func TestPedSubAPAFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evt.npy")
	writeNpy(t, path, [][]int32{
		{1, 2100, 1, 1, 1},
		{1, 1700, 5, 7, 9},
		{1, 100, 3, 3, 3},
	})

	sub, err := PedSubAPAFromFile(path, 0, ViewZ, SideWall)
	require.NoError(t, err)
	require.Equal(t, 1, sub.Len())
	assert.Equal(t, 1700, sub.Rows[0].Channel)
	assert.Equal(t, []float64{-2, 0, 2}, sub.Rows[0].ADC)

	_, err = PedSubAPAFromFile(path, 1, ViewZ, SideBoth)
	var noChans *ErrNoChannels
	assert.ErrorAs(t, err, &noChans)

	_, err = PedSubAPAFromFile(filepath.Join(t.TempDir(), "missing.npy"), 0, ViewZ, SideBoth)
	var openErr *ErrOpenFile
	assert.ErrorAs(t, err, &openErr)
}
