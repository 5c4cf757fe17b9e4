package waveform

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// MedianPedestal estimates the pedestal of a channel as its median ADC value.
func MedianPedestal(adc []float64) (float64, error) {
	median, err := stats.Median(adc)
	if err != nil {
		return 0, fmt.Errorf("error computing median: %w", err)
	}
	return median, nil
}

// PedSub returns a copy of w with the median of each row subtracted from its
// samples. Event and channel numbers are left alone.
func PedSub(w Waveforms) (Waveforms, error) {
	ret := w.Clone()
	for i := range ret.Rows {
		ped, err := MedianPedestal(ret.Rows[i].ADC)
		if err != nil {
			return Waveforms{}, fmt.Errorf("channel %d: %w", ret.Rows[i].Channel, err)
		}
		for j := range ret.Rows[i].ADC {
			ret.Rows[i].ADC[j] -= ped
		}
	}
	return ret, nil
}

// SelectPedSub is SelectAPA followed by PedSub.
func SelectPedSub(w Waveforms, apa int, view View, side Side) (Waveforms, error) {
	sel, err := SelectAPA(w, apa, view, side)
	if err != nil {
		return Waveforms{}, err
	}
	return PedSub(sel)
}

// PedSubAPAFromFile loads filename and returns the pedestal-subtracted view.
func PedSubAPAFromFile(filename string, apa int, view View, side Side) (Waveforms, error) {
	w, err := LoadWaveforms(filename, FormatOffline)
	if err != nil {
		return Waveforms{}, err
	}
	return SelectPedSub(w, apa, view, side)
}
