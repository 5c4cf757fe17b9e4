package waveform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDumpName = "/data/np04_raw_run005141_0001_dl1_waveform_evt3_t0x111461d3c7f9840.npy"

func TestParseEventFilename(t *testing.T) {
	info, ok := ParseEventFilename(testDumpName)
	require.True(t, ok)
	assert.Equal(t, 5141, info.Run)
	assert.Equal(t, 3, info.Event)
	assert.Equal(t, uint64(0x111461d3c7f9840), info.Timestamp)
	assert.Equal(t, int64(1538395200), info.Time().Unix())
	assert.Equal(t, 500000000, info.Time().Nanosecond())
	assert.Equal(t, "Run 5141, event 3 (timestamp 0x111461d3c7f9840, 2018-10-01 12:00:00 UTC)", info.Title())
}

func TestParseEventFilenameNoMatch(t *testing.T) {
	_, ok := ParseEventFilename("run5141_evt3.npy")
	assert.False(t, ok)
	assert.Equal(t, "", TitleFromFilenames([]string{"a.npy", "b.txt"}))
	assert.Equal(t, "Run 5141, event 3 (timestamp 0x111461d3c7f9840, 2018-10-01 12:00:00 UTC)",
		TitleFromFilenames([]string{"a.npy", testDumpName}))
}

func TestHitsFilename(t *testing.T) {
	assert.Equal(t, "/data/np04_raw_run005141_0001_dl1_hits_evt3_t0x111461d3c7f9840.txt", HitsFilename(testDumpName))
	assert.Equal(t, "waves.txt", HitsFilename("waves.txt"))
}
