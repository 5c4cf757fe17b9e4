package waveform

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func init() {
	SetLogger(NewLogger(io.Discard, io.Discard))
}

// makeRows builds rows with the given channels, each holding n samples of
// base+channel%5 with a bump of height bump in the middle.
func makeRows(channels []int, n int, base float64, bump float64) Waveforms {
	var w Waveforms
	for _, ch := range channels {
		adc := make([]float64, n)
		for i := range adc {
			adc[i] = base + float64(ch%5)
			if i == n/2 {
				adc[i] += bump
			}
		}
		w.Rows = append(w.Rows, Row{Event: 1, Channel: ch, ADC: adc})
	}
	return w
}

func channelRange(first, last int) []int {
	var chans []int
	for ch := first; ch < last; ch++ {
		chans = append(chans, ch)
	}
	return chans
}

// writeNpy writes a 2D C-ordered little-endian int32 numpy array.
func writeNpy(t *testing.T, path string, rows [][]int32) {
	t.Helper()
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	header := fmt.Sprintf("{'descr': '<i4', 'fortran_order': False, 'shape': (%d, %d), }", len(rows), cols)
	// magic (6) + version (2) + header length (2) + header, padded to 64 bytes
	total := 10 + len(header) + 1
	pad := (64 - total%64) % 64
	header += strings.Repeat(" ", pad) + "\n"

	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{1, 0})
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(len(header))))
	buf.WriteString(header)
	for _, row := range rows {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, row))
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func writeText(t *testing.T, dir string, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}
