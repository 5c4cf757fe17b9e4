package waveform

import "fmt"

// Hit is a reconstructed hit: offline channel and peak time in ticks.
type Hit struct {
	Channel float64
	Time    float64
}

// LoadHits reads a text file whose first two columns are channel and time.
func LoadHits(filename string) ([]Hit, error) {
	m, err := LoadMatrix(filename)
	if err != nil {
		return nil, err
	}
	if m.Rows > 0 && m.Cols < 2 {
		return nil, &ErrMalformedRow{Filename: filename, Reason: fmt.Sprintf("hits need at least 2 columns, got %d", m.Cols)}
	}
	hits := make([]Hit, m.Rows)
	for i := range hits {
		row := m.Row(i)
		hits[i] = Hit{Channel: row[0], Time: row[1]}
	}
	logInfo(1, fmt.Sprintf("Read %d hits from %s", len(hits), filename), "hits")
	return hits, nil
}

// LoadHitsFor reads the hits file belonging to each waveform file.
func LoadHitsFor(filenames []string) ([]Hit, error) {
	var all []Hit
	for _, f := range filenames {
		hits, err := LoadHits(HitsFilename(f))
		if err != nil {
			return nil, err
		}
		all = append(all, hits...)
	}
	return all, nil
}
