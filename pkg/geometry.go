package waveform

import (
	"fmt"
	"sort"
	"strings"
)

const ChannelsPerAPA = 2560

// Collection wires facing the wall or the cryostat in each half of the z view.
const collectionHalf = 480

type View int

const (
	ViewU View = iota
	ViewV
	ViewZ
)

func (v View) String() string {
	switch v {
	case ViewU:
		return "u"
	case ViewV:
		return "v"
	case ViewZ:
		return "z"
	default:
		return "unknown"
	}
}

func ParseView(s string) (View, error) {
	switch strings.ToLower(s) {
	case "u":
		return ViewU, nil
	case "v":
		return ViewV, nil
	case "z":
		return ViewZ, nil
	}
	return 0, fmt.Errorf("unknown view %q: expected u, v or z", s)
}

type Side int

const (
	SideBoth Side = iota
	SideWall
	SideCryo
)

func (s Side) String() string {
	switch s {
	case SideBoth:
		return "both"
	case SideWall:
		return "wall"
	case SideCryo:
		return "cryo"
	default:
		return "unknown"
	}
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "both", "":
		return SideBoth, nil
	case "wall":
		return SideWall, nil
	case "cryo":
		return SideCryo, nil
	}
	return 0, fmt.Errorf("unknown side %q: expected wall, cryo or both", s)
}

var viewStart = map[View]int{ViewU: 0, ViewV: 800, ViewZ: 1600}
var viewEnd = map[View]int{ViewU: 800, ViewV: 1600, ViewZ: 2560}

// ChannelRange returns the half-open range [first, last) of offline channel
// numbers for a view of an APA. Even-numbered APAs have the wall-facing
// collection wires at 0-480 and the cryostat-facing ones at 480-960; odd
// APAs are the other way round.
func ChannelRange(apa int, view View, side Side) (int, int, error) {
	if _, ok := viewStart[view]; !ok {
		return 0, 0, fmt.Errorf("unknown view %d", view)
	}
	if side != SideBoth && view != ViewZ {
		return 0, 0, &ErrInvalidSelection{View: view, Side: side}
	}

	base := ChannelsPerAPA*apa + viewStart[view]
	wallStart, cryoStart := 0, collectionHalf
	if apa%2 != 0 {
		wallStart, cryoStart = collectionHalf, 0
	}

	switch side {
	case SideWall:
		return base + wallStart, base + wallStart + collectionHalf, nil
	case SideCryo:
		return base + cryoStart, base + cryoStart + collectionHalf, nil
	case SideBoth:
		return base, ChannelsPerAPA*apa + viewEnd[view], nil
	}
	return 0, 0, fmt.Errorf("unknown side %d", side)
}

// SelectAPA returns the rows of one APA view, ordered by channel number.
// The input arrays are in electronics order, not channel order.
func SelectAPA(w Waveforms, apa int, view View, side Side) (Waveforms, error) {
	first, last, err := ChannelRange(apa, view, side)
	if err != nil {
		return Waveforms{}, err
	}
	logInfo(1, fmt.Sprintf("Looking for %d,%d", first, last), "geometry")

	var ret Waveforms
	for _, row := range w.Rows {
		if row.Channel >= first && row.Channel < last {
			ret.Rows = append(ret.Rows, row)
		}
	}
	if len(ret.Rows) == 0 {
		return Waveforms{}, &ErrNoChannels{APA: apa, View: view, Side: side}
	}
	ret.SortByChannel()
	return ret, nil
}

// SplitContiguous splits w into blocks of consecutive channel numbers.
func SplitContiguous(w Waveforms) []Waveforms {
	var ret []Waveforms
	prev := 0
	for i := 1; i <= len(w.Rows); i++ {
		if i == len(w.Rows) || w.Rows[i].Channel-w.Rows[i-1].Channel != 1 {
			ret = append(ret, Waveforms{Rows: w.Rows[prev:i]})
			prev = i
		}
	}
	return ret
}

// ViewIndex returns the position of channel inside a channel-sorted view,
// or -1 if the view does not contain it.
func ViewIndex(w Waveforms, channel int) int {
	i := sort.Search(len(w.Rows), func(i int) bool { return w.Rows[i].Channel >= channel })
	if i < len(w.Rows) && w.Rows[i].Channel == channel {
		return i
	}
	return -1
}
