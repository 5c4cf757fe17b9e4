package waveform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg/draw"
)

func testEvent() Waveforms {
	var chans []int
	for _, apa := range []int{1, 3} {
		base := apa * ChannelsPerAPA
		// a gap in the z view to get two heat map blocks
		chans = append(chans, channelRange(base, base+20)...)
		chans = append(chans, channelRange(base+800, base+820)...)
		chans = append(chans, channelRange(base+1600, base+1610)...)
		chans = append(chans, channelRange(base+1615, base+1630)...)
	}
	return makeRows(chans, 64, 900, 40)
}

func TestBuildEventViews(t *testing.T) {
	ev, err := BuildEventViews(testEvent(), []int{3, 1}, false)
	require.NoError(t, err)
	require.Len(t, ev.Views, 2)
	assert.Equal(t, 25, ev.Views[3][ViewZ].Len())
	assert.Equal(t, 20, ev.Views[1][ViewU].Len())
	assert.Equal(t, 40.0, ev.Views[1][ViewV].Rows[0].ADC[32])

	ev, err = BuildEventViews(testEvent(), []int{1}, true)
	require.NoError(t, err)
	assert.Len(t, ev.Views[1], 1)

	_, err = BuildEventViews(testEvent(), []int{2}, false)
	assert.Error(t, err)
}

func TestPlotView(t *testing.T) {
	ev, err := BuildEventViews(testEvent(), []int{1}, true)
	require.NoError(t, err)
	z := ev.Views[1][ViewZ]

	tmax := 50.0
	opts := DisplayOptions{CMax: 20, TMax: &tmax, UseChannelNumber: true, Width: 6.4, Height: 4.8}
	hits := []Hit{{Channel: float64(z.Rows[0].Channel), Time: 32}, {Channel: 1, Time: 32}, {Channel: float64(z.Rows[1].Channel), Time: 60}}
	p, err := PlotView(z, hits, opts)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.X.Min)
	assert.Equal(t, 50.0, p.X.Max)
	assert.Equal(t, float64(z.Rows[0].Channel), p.Y.Min)
	assert.Equal(t, float64(z.Rows[z.Len()-1].Channel+1), p.Y.Max)
	assert.Equal(t, "Offline channel number", p.Y.Label.Text)

	pts := hitPoints(z, hits, true, 0, 50)
	require.Len(t, pts, 1)
	assert.Equal(t, float64(z.Rows[0].Channel)+0.5, pts[0].Y)

	pts = hitPoints(z, hits, false, 0, 100)
	require.Len(t, pts, 2)
	assert.Equal(t, 1.5, pts[1].Y)

	opts.CMax = 0
	_, err = PlotView(z, nil, opts)
	assert.Error(t, err)
}

func TestEventDisplaySave(t *testing.T) {
	ev, err := BuildEventViews(testEvent(), []int{3, 1}, false)
	require.NoError(t, err)

	opts := DisplayOptionsFromConfig(DefaultConfiguration())
	opts.Title = "Run 5141, event 3"
	opts.DPI = 50
	display, err := NewEventDisplay(ev, []Hit{{Channel: 3*ChannelsPerAPA + 1605, Time: 32}}, opts)
	require.NoError(t, err)
	require.Len(t, display.Plots, 2)
	require.Len(t, display.Plots[0], 3)
	assert.Equal(t, "Z view", display.Plots[0][0].Title.Text)
	assert.Equal(t, "", display.Plots[1][0].Title.Text)
	assert.Equal(t, "", display.Plots[0][0].X.Label.Text)
	assert.Equal(t, "", display.Plots[1][1].Y.Label.Text)

	dir := t.TempDir()
	for _, name := range []string{"evt.png", "evt.svg", "evt.pdf"} {
		path := filepath.Join(dir, name)
		require.NoError(t, display.Save(path), name)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0), name)
	}
	// both z views have two blocks of channels, u and v one each
	require.Len(t, display.heatmaps, 8)
	for _, h := range display.heatmaps {
		assert.True(t, h.Rasterized)
	}
}

func TestEventDisplaySavePDF(t *testing.T) {
	ev, err := BuildEventViews(testEvent(), []int{1}, true)
	require.NoError(t, err)
	opts := DisplayOptionsFromConfig(DefaultConfiguration())
	opts.CollectionOnly = true
	opts.UseChannelNumber = true
	display, err := NewEventDisplay(ev, nil, opts)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "evt.PDF")
	require.NoError(t, display.Save(path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPlotSteps(t *testing.T) {
	p, err := PlotSteps("channel 1600", []Trace{
		{Name: "raw", Values: []float64{1, 3, 2}},
		{Name: "pedestal", Values: FrugalPedestal([]float64{1, 3, 2})},
	})
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "steps.png")
	require.NoError(t, SaveFigure(path, 300, 200, 72, func(c draw.Canvas) { p.Draw(c) }))
	_, err = os.Stat(path)
	require.NoError(t, err)
}
