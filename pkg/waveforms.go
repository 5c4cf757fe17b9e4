package waveform

import (
	"fmt"
	"sort"
)

// Row is one line of a waveform array: event number, offline channel number
// and the ADC samples of that channel.
type Row struct {
	Event   int
	Channel int
	ADC     []float64
}

// Waveforms holds one row per channel. All rows have the same number of samples.
type Waveforms struct {
	Rows []Row
}

func (w Waveforms) Len() int {
	return len(w.Rows)
}

func (w Waveforms) NSamples() int {
	if len(w.Rows) == 0 {
		return 0
	}
	return len(w.Rows[0].ADC)
}

func (w Waveforms) Channels() []int {
	chans := make([]int, len(w.Rows))
	for i, row := range w.Rows {
		chans[i] = row.Channel
	}
	return chans
}

// Validate checks that every row has the same number of samples.
func (w Waveforms) Validate() error {
	n := w.NSamples()
	for i, row := range w.Rows {
		if len(row.ADC) != n {
			return &ErrMalformedRow{
				Line:   i,
				Reason: fmt.Sprintf("got %d samples on channel %d: expected %d", len(row.ADC), row.Channel, n),
			}
		}
	}
	return nil
}

// Channel returns the samples of channel chan, which must appear exactly once.
func (w Waveforms) Channel(channel int) ([]float64, error) {
	matches := 0
	var adc []float64
	for _, row := range w.Rows {
		if row.Channel == channel {
			matches++
			adc = row.ADC
		}
	}
	if matches != 1 {
		return nil, &ErrChannelNotFound{Channel: channel, Matches: matches}
	}
	return adc, nil
}

// CollectionChannel returns the collection wire collIndex of apa.
func (w Waveforms) CollectionChannel(apa int, collIndex int) ([]float64, error) {
	return w.Channel(ChannelsPerAPA*apa + viewStart[ViewZ] + collIndex)
}

// SortByChannel orders the rows by offline channel number, which for
// collection channels is also the order in space.
func (w Waveforms) SortByChannel() {
	sort.SliceStable(w.Rows, func(i, j int) bool {
		return w.Rows[i].Channel < w.Rows[j].Channel
	})
}

// Concat appends the rows of all inputs. The inputs must have the same number of samples.
func Concat(all ...Waveforms) (Waveforms, error) {
	var ret Waveforms
	for _, w := range all {
		ret.Rows = append(ret.Rows, w.Rows...)
	}
	if err := ret.Validate(); err != nil {
		return Waveforms{}, fmt.Errorf("error concatenating waveforms: %w", err)
	}
	return ret, nil
}

// Clone returns a deep copy.
func (w Waveforms) Clone() Waveforms {
	ret := Waveforms{Rows: make([]Row, len(w.Rows))}
	for i, row := range w.Rows {
		adc := make([]float64, len(row.ADC))
		copy(adc, row.ADC)
		ret.Rows[i] = Row{Event: row.Event, Channel: row.Channel, ADC: adc}
	}
	return ret
}

// Flatten returns the samples in row-major order.
func (w Waveforms) Flatten() []float64 {
	n := w.NSamples()
	data := make([]float64, 0, len(w.Rows)*n)
	for _, row := range w.Rows {
		data = append(data, row.ADC...)
	}
	return data
}
