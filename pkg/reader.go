package waveform

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sbinet/npyio"
)

type Format int

const (
	// One channel per row: event number, channel number, samples.
	FormatOffline Format = iota
	// One channel per column. The first row holds the channel numbers and
	// the first column the timestamp of each sample.
	FormatOnline
)

func (f Format) String() string {
	switch f {
	case FormatOffline:
		return "offline"
	case FormatOnline:
		return "online"
	default:
		return "unknown"
	}
}

func ParseFormat(s string) (Format, error) {
	switch s {
	case "offline", "":
		return FormatOffline, nil
	case "online":
		return FormatOnline, nil
	}
	return 0, fmt.Errorf("unknown format %q: expected online or offline", s)
}

// Matrix is a dense row-major 2D array read from disk.
type Matrix struct {
	Rows int
	Cols int
	Data []float64
	// First column parsed as exact integers. Timestamps do not fit in a
	// float64 mantissa.
	Keys []uint64
	// Rows whose first column is not an integer, mapped to their line.
	badKeys map[int]int
}

func (m Matrix) Row(i int) []float64 {
	return m.Data[i*m.Cols : (i+1)*m.Cols]
}

// LoadMatrix reads a 2D array from a .npy file or a whitespace-separated text file.
func LoadMatrix(filename string) (Matrix, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Matrix{}, &ErrOpenFile{Filename: filename, Err: err}
	}
	defer file.Close()

	if strings.HasSuffix(filename, "npy") {
		return readNpy(file, filename)
	}
	return readText(file, filename)
}

func readNpy(r io.Reader, filename string) (Matrix, error) {
	npy, err := npyio.NewReader(r)
	if err != nil {
		return Matrix{}, fmt.Errorf("error reading numpy header of %q: %w", filename, err)
	}
	descr := npy.Header.Descr
	if len(descr.Shape) != 2 || descr.Fortran {
		return Matrix{}, &ErrUnsupportedDtype{Filename: filename, Dtype: descr.Type, Shape: descr.Shape}
	}
	m := Matrix{Rows: descr.Shape[0], Cols: descr.Shape[1]}

	switch strings.TrimLeft(descr.Type, "<|=") {
	case "i2":
		m.Data, m.Keys, err = readNpyAs[int16](npy, m.Rows, m.Cols)
	case "u2":
		m.Data, m.Keys, err = readNpyAs[uint16](npy, m.Rows, m.Cols)
	case "i4":
		m.Data, m.Keys, err = readNpyAs[int32](npy, m.Rows, m.Cols)
	case "i8":
		m.Data, m.Keys, err = readNpyAs[int64](npy, m.Rows, m.Cols)
	case "f4":
		m.Data, m.Keys, err = readNpyAs[float32](npy, m.Rows, m.Cols)
	case "f8":
		m.Data, m.Keys, err = readNpyAs[float64](npy, m.Rows, m.Cols)
	default:
		return Matrix{}, &ErrUnsupportedDtype{Filename: filename, Dtype: descr.Type, Shape: descr.Shape}
	}
	if err != nil {
		return Matrix{}, fmt.Errorf("error reading numpy data of %q: %w", filename, err)
	}
	if len(m.Data) != m.Rows*m.Cols {
		return Matrix{}, &ErrMalformedRow{Filename: filename, Reason: fmt.Sprintf("read %d values, expected %d", len(m.Data), m.Rows*m.Cols)}
	}
	return m, nil
}

// readNpyAs converts the samples to float64 and keeps the first column of
// each row unconverted as its key.
func readNpyAs[T Sample](npy *npyio.Reader, rows int, cols int) ([]float64, []uint64, error) {
	var raw []T
	if err := npy.Read(&raw); err != nil {
		return nil, nil, err
	}
	data := make([]float64, len(raw))
	for i, v := range raw {
		data[i] = float64(v)
	}
	var keys []uint64
	if cols > 0 && len(raw) == rows*cols {
		keys = make([]uint64, rows)
		for r := range keys {
			keys[r] = uint64(raw[r*cols])
		}
	}
	return data, keys, nil
}

func readText(r io.Reader, filename string) (Matrix, error) {
	var m Matrix
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 64*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if m.Rows == 0 {
			m.Cols = len(fields)
		} else if len(fields) != m.Cols {
			return Matrix{}, &ErrMalformedRow{
				Filename: filename,
				Line:     line,
				Reason:   fmt.Sprintf("got %d columns, expected %d", len(fields), m.Cols),
			}
		}
		key, err := strconv.ParseUint(fields[0], 0, 64)
		if err != nil {
			if m.badKeys == nil {
				m.badKeys = make(map[int]int)
			}
			m.badKeys[m.Rows] = line
		}
		m.Keys = append(m.Keys, key)
		for _, f := range fields {
			v, err := parseNumber(f)
			if err != nil {
				return Matrix{}, &ErrMalformedRow{Filename: filename, Line: line, Reason: err.Error()}
			}
			m.Data = append(m.Data, v)
		}
		m.Rows++
	}
	if err := scanner.Err(); err != nil {
		return Matrix{}, fmt.Errorf("error reading %q: %w", filename, err)
	}
	return m, nil
}

// parseNumber accepts decimal and 0x-prefixed integers as well as floats.
func parseNumber(s string) (float64, error) {
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return float64(i), nil
	}
	if u, err := strconv.ParseUint(s, 0, 64); err == nil {
		return float64(u), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return f, nil
}

// OfflineWaveforms interprets each row of m as event, channel, samples.
func OfflineWaveforms(m Matrix, filename string) (Waveforms, error) {
	if m.Rows > 0 && m.Cols < 2 {
		return Waveforms{}, &ErrMalformedRow{Filename: filename, Reason: fmt.Sprintf("need at least 2 columns, got %d", m.Cols)}
	}
	w := Waveforms{Rows: make([]Row, m.Rows)}
	for i := 0; i < m.Rows; i++ {
		row := m.Row(i)
		adc := make([]float64, m.Cols-2)
		copy(adc, row[2:])
		w.Rows[i] = Row{Event: int(row[0]), Channel: int(row[1]), ADC: adc}
	}
	return w, nil
}

// OnlineWaveforms transposes an online array, drops the timestamp column
// and uses event number 0 for every channel.
func OnlineWaveforms(m Matrix, filename string) (Waveforms, error) {
	if m.Rows < 1 || m.Cols < 2 {
		return Waveforms{}, &ErrMalformedRow{Filename: filename, Reason: fmt.Sprintf("online array too small: %dx%d", m.Rows, m.Cols)}
	}
	w := Waveforms{Rows: make([]Row, m.Cols-1)}
	for c := 1; c < m.Cols; c++ {
		adc := make([]float64, m.Rows-1)
		for r := 1; r < m.Rows; r++ {
			adc[r-1] = m.Data[r*m.Cols+c]
		}
		w.Rows[c-1] = Row{Event: 0, Channel: int(m.Data[c]), ADC: adc}
	}
	return w, nil
}

// LoadWaveforms reads a single file in the given format.
func LoadWaveforms(filename string, format Format) (Waveforms, error) {
	m, err := LoadMatrix(filename)
	if err != nil {
		return Waveforms{}, err
	}
	logInfo(1, fmt.Sprintf("Read %dx%d array from %s", m.Rows, m.Cols, filename), "reader")
	switch format {
	case FormatOnline:
		return OnlineWaveforms(m, filename)
	default:
		return OfflineWaveforms(m, filename)
	}
}

// LoadFiles reads and concatenates several files. When there is more than
// one online file they are first cropped to the span of timestamps common
// to all of them.
func LoadFiles(filenames []string, format Format) (Waveforms, error) {
	matrices := make([]Matrix, len(filenames))
	for i, f := range filenames {
		m, err := LoadMatrix(f)
		if err != nil {
			return Waveforms{}, err
		}
		matrices[i] = m
	}

	all := make([]Waveforms, len(matrices))
	if format == FormatOnline {
		synced := matrices
		if len(matrices) > 1 {
			var err error
			if synced, err = SyncOnline(matrices, filenames); err != nil {
				return Waveforms{}, err
			}
		}
		for i, m := range synced {
			w, err := OnlineWaveforms(m, filenames[i])
			if err != nil {
				return Waveforms{}, err
			}
			all[i] = w
		}
	} else {
		for i, m := range matrices {
			w, err := OfflineWaveforms(m, filenames[i])
			if err != nil {
				return Waveforms{}, err
			}
			all[i] = w
		}
	}
	return Concat(all...)
}

// SyncOnline keeps, in every online array, the header row and the rows whose
// timestamps lie between the latest first timestamp and the earliest last
// timestamp of all arrays.
func SyncOnline(matrices []Matrix, filenames []string) ([]Matrix, error) {
	if len(matrices) == 0 {
		return nil, nil
	}
	lines := make([]map[uint64]int, len(matrices))
	var timeStart, timeEnd uint64
	for i, m := range matrices {
		if m.Rows < 2 {
			return nil, &ErrMalformedRow{Filename: filenames[i], Reason: "online file has no samples"}
		}
		if len(m.Keys) != m.Rows {
			return nil, &ErrMalformedRow{Filename: filenames[i], Reason: "no timestamps read"}
		}
		for r := 1; r < m.Rows; r++ {
			if line, bad := m.badKeys[r]; bad {
				return nil, &ErrMalformedRow{Filename: filenames[i], Line: line, Reason: "timestamp is not an integer"}
			}
		}
		lines[i] = make(map[uint64]int, m.Rows-1)
		first, last := m.Keys[1], m.Keys[1]
		for r := 1; r < m.Rows; r++ {
			ts := m.Keys[r]
			lines[i][ts] = r
			first = min(first, ts)
			last = max(last, ts)
		}
		if i == 0 {
			timeStart, timeEnd = first, last
		} else {
			timeStart = max(timeStart, first)
			timeEnd = min(timeEnd, last)
		}
	}
	logInfo(1, fmt.Sprintf("Time start for all the files is: 0x%x", timeStart), "reader")
	logInfo(1, fmt.Sprintf("Time end for all the files is: 0x%x", timeEnd), "reader")

	ret := make([]Matrix, len(matrices))
	for i, m := range matrices {
		startAt, okStart := lines[i][timeStart]
		endAt, okEnd := lines[i][timeEnd]
		if !okStart || !okEnd || endAt < startAt {
			return nil, fmt.Errorf("file %q does not cover timestamps 0x%x-0x%x", filenames[i], timeStart, timeEnd)
		}
		if endAt+1 < m.Rows {
			logInfo(1, fmt.Sprintf("ignoring lines %d to %d for file %s for time sync", endAt, m.Rows, filenames[i]), "reader")
		}
		if startAt > 1 {
			logInfo(1, fmt.Sprintf("ignoring lines 1 to %d for file %s for time sync", startAt, filenames[i]), "reader")
		}
		rows := 1 + endAt - startAt + 1
		data := make([]float64, 0, rows*m.Cols)
		data = append(data, m.Row(0)...)
		data = append(data, m.Data[startAt*m.Cols:(endAt+1)*m.Cols]...)
		keys := append([]uint64{m.Keys[0]}, m.Keys[startAt:endAt+1]...)
		ret[i] = Matrix{Rows: rows, Cols: m.Cols, Data: data, Keys: keys}
	}
	return ret, nil
}
