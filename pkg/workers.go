package waveform

import (
	"fmt"
)

type ChannelJob struct {
	Index int
	Run   int
	Row   Row
}

type ChannelResult struct {
	Index    int
	Summary  PedestalSummary
	Baseline []float64
	Error    bool
}

// TrackChannel computes the median and tracked pedestals of one channel and
// the RMS of the samples around the tracked pedestal. The samples are fed
// one at a time through a Tracker, as a live stream would be.
func TrackChannel(run int, row Row, params SigKillParams) (ChannelResult, error) {
	median, err := MedianPedestal(row.ADC)
	if err != nil {
		return ChannelResult{}, fmt.Errorf("channel %d: %w", row.Channel, err)
	}
	tracker, err := NewTracker[float64](params)
	if err != nil {
		return ChannelResult{}, fmt.Errorf("channel %d: %w", row.Channel, err)
	}

	var rs RunningStat
	baseline := make([]float64, 0, len(row.ADC))
	for _, s := range row.ADC {
		if ped, ok := tracker.Push(s); ok {
			rs.Update(row.ADC[len(baseline)] - ped)
			baseline = append(baseline, ped)
		}
	}
	for _, ped := range tracker.Flush() {
		rs.Update(row.ADC[len(baseline)] - ped)
		baseline = append(baseline, ped)
	}
	return ChannelResult{
		Summary: PedestalSummary{
			Run:     run,
			Event:   row.Event,
			Channel: row.Channel,
			Median:  median,
			Frugal:  baseline[len(baseline)-1],
			RMS:     rs.StdDev(),
		},
		Baseline: baseline,
	}, nil
}

func processJob(id int, job ChannelJob, params SigKillParams) (result ChannelResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error(fmt.Sprintf("worker %d recovered from panic on channel %d: %v", id, job.Row.Channel, r))
			result = ChannelResult{Index: job.Index, Error: true}
		}
	}()

	result, err := TrackChannel(job.Run, job.Row, params)
	if err != nil {
		logger.Error(fmt.Errorf("worker %d: %w", id, err).Error())
		return ChannelResult{Index: job.Index, Error: true}
	}
	result.Index = job.Index
	return result
}

func worker(id int, jobs <-chan ChannelJob, results chan<- ChannelResult, params SigKillParams) {
	for job := range jobs {
		logInfo(2, fmt.Sprintf("Worker %d processing channel %d", id, job.Row.Channel), "workers")
		results <- processJob(id, job, params)
	}
}

func sendChannelsToWorkers(run int, w Waveforms, jobs chan<- ChannelJob) {
	for i, row := range w.Rows {
		jobs <- ChannelJob{Index: i, Run: run, Row: row}
	}
	close(jobs)
}

// TrackPedestals runs TrackChannel on every row using numWorkers goroutines.
// The results are in row order. Channels that failed have Error set.
func TrackPedestals(run int, w Waveforms, params SigKillParams, numWorkers int) ([]ChannelResult, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	jobs := make(chan ChannelJob, numWorkers)
	results := make(chan ChannelResult, numWorkers)
	for id := 1; id <= numWorkers; id++ {
		go worker(id, jobs, results, params)
	}
	go sendChannelsToWorkers(run, w, jobs)

	ordered := make([]ChannelResult, w.Len())
	for n := 0; n < w.Len(); n++ {
		result := <-results
		ordered[result.Index] = result
	}
	return ordered, nil
}

// Summaries returns the summaries of the channels that did not fail.
func Summaries(results []ChannelResult) []PedestalSummary {
	peds := make([]PedestalSummary, 0, len(results))
	for _, r := range results {
		if !r.Error {
			peds = append(peds, r.Summary)
		}
	}
	return peds
}
