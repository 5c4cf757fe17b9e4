package waveform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringToIntList(t *testing.T) {
	tests := []struct {
		in   string
		want []int
	}{
		{"1,2", []int{1, 2}},
		{"3", []int{3}},
		{"1,3,10-12,21", []int{1, 3, 10, 11, 12, 21}},
		{"5-5", []int{5}},
		{"4-2", nil},
	}
	for _, tt := range tests {
		got, err := StringToIntList(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestStringToIntListInvalid(t *testing.T) {
	for _, in := range []string{"", "a", "1,,2", "1-", "-3", "1-2-3", "2.5"} {
		_, err := StringToIntList(in)
		var rangeErr *ErrInvalidRange
		require.True(t, errors.As(err, &rangeErr), "input %q", in)
		assert.Equal(t, in, rangeErr.Input)
	}
}
