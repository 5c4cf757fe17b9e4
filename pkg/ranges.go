package waveform

import (
	"strconv"
	"strings"
)

// StringToIntList converts a comma-separated list of natural numbers into a
// slice. Items may also be inclusive ranges "N-M", so "1,2" and
// "1,3,10-20,21" are both valid.
func StringToIntList(s string) ([]int, error) {
	var ret []int
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if lo, hi, ok := strings.Cut(item, "-"); ok {
			first, err := strconv.Atoi(lo)
			if err != nil {
				return nil, &ErrInvalidRange{Input: s}
			}
			last, err := strconv.Atoi(hi)
			if err != nil {
				return nil, &ErrInvalidRange{Input: s}
			}
			for i := first; i <= last; i++ {
				ret = append(ret, i)
			}
			continue
		}
		v, err := strconv.Atoi(item)
		if err != nil {
			return nil, &ErrInvalidRange{Input: s}
		}
		ret = append(ret, v)
	}
	return ret, nil
}
