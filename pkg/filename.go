package waveform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Timing system clock, in ticks per second.
const ClockFrequency = 50e6

var fnameRe = regexp.MustCompile(`np04_raw_run([0-9]+)_...._dl.*_waveform_evt([0-9]+)_t(0x[0-9a-f]+)`)

// EventInfo is what can be recovered from a dump file name.
type EventInfo struct {
	Run       int
	Event     int
	Timestamp uint64
}

// ParseEventFilename extracts run, event and timestamp from names like
// np04_raw_run005141_0001_dl1_waveform_evt3_t0x4a2b1c.npy.
func ParseEventFilename(name string) (EventInfo, bool) {
	m := fnameRe.FindStringSubmatch(name)
	if m == nil {
		return EventInfo{}, false
	}
	// Leading zeros are decimal here, not octal
	run, err := strconv.Atoi(m[1])
	if err != nil {
		return EventInfo{}, false
	}
	evt, err := strconv.Atoi(m[2])
	if err != nil {
		return EventInfo{}, false
	}
	ts, err := strconv.ParseUint(strings.TrimPrefix(m[3], "0x"), 16, 64)
	if err != nil {
		return EventInfo{}, false
	}
	return EventInfo{Run: run, Event: evt, Timestamp: ts}, true
}

// Time converts the timestamp from clock ticks since the epoch.
func (e EventInfo) Time() time.Time {
	secs := e.Timestamp / uint64(ClockFrequency)
	ticks := e.Timestamp % uint64(ClockFrequency)
	nsecs := ticks * uint64(time.Second) / uint64(ClockFrequency)
	return time.Unix(int64(secs), int64(nsecs)).UTC()
}

func (e EventInfo) Title() string {
	timestr := e.Time().Format("2006-01-02 15:04:05 UTC")
	return fmt.Sprintf("Run %d, event %d (timestamp 0x%x, %s)", e.Run, e.Event, e.Timestamp, timestr)
}

// TitleFromFilenames returns the title of the first file name that parses,
// or an empty string.
func TitleFromFilenames(names []string) string {
	for _, name := range names {
		if info, ok := ParseEventFilename(name); ok {
			return info.Title()
		}
	}
	return ""
}

// HitsFilename returns the name of the hits file written alongside a waveform dump.
func HitsFilename(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "waveform", "hits"), ".npy", ".txt")
}
