package waveform

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

type Sample interface {
	constraints.Integer | constraints.Float
}

// FrugalPedestal tracks the median of raw by stepping the estimate one ADC
// count towards every sample.
func FrugalPedestal[T Sample](raw []T) []T {
	ped := make([]T, len(raw))
	if len(raw) == 0 {
		return ped
	}
	median := raw[0]
	for i, s := range raw {
		if s > median {
			median++
		}
		if s < median {
			median--
		}
		ped[i] = median
	}
	return ped
}

// SigKillParams configures FrugalPedestalSigKill.
type SigKillParams struct {
	// Distance ahead of the current sample that is checked for a hit.
	Lookahead int
	// A sample more than Threshold above the pedestal starts a hit.
	Threshold int
	// Number of net samples above (below) the pedestal before it moves.
	NContig int
}

func (p SigKillParams) validate() error {
	if p.Lookahead < 0 {
		return fmt.Errorf("lookahead must not be negative, got %d", p.Lookahead)
	}
	if p.NContig < 0 {
		return fmt.Errorf("ncontig must not be negative, got %d", p.NContig)
	}
	return nil
}

// FrugalPedestalSigKill is FrugalPedestal with the update frozen during hits.
// A hit starts when the sample Lookahead ticks ahead rises more than
// Threshold above the pedestal and ends when the current sample falls below
// it. Outside hits the pedestal moves by one only after the accumulated
// above/below count exceeds NContig. The last Lookahead samples keep the
// final pedestal.
func FrugalPedestalSigKill[T Sample](raw []T, params SigKillParams) ([]T, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	ped := make([]T, len(raw))
	if len(raw) == 0 {
		return ped, nil
	}

	st := newSigKillState(raw[0], params)
	n := len(raw) - params.Lookahead
	for i := 0; i < n; i++ {
		ped[i] = st.step(raw[i], raw[i+params.Lookahead])
	}
	if n < 0 {
		n = 0
	}
	for i := n; i < len(raw); i++ {
		ped[i] = st.median
	}
	return ped, nil
}

type sigKillState[T Sample] struct {
	median    T
	threshold T
	ncontig   int
	accum     int
	// false while inside a hit
	updating bool
}

func newSigKillState[T Sample](first T, params SigKillParams) *sigKillState[T] {
	return &sigKillState[T]{
		median:    first,
		threshold: T(params.Threshold),
		ncontig:   params.NContig,
		updating:  true,
	}
}

func (st *sigKillState[T]) step(s T, sigCand T) T {
	candAbove := sigCand > st.median+st.threshold
	currentBelow := s < st.median

	if st.updating && candAbove {
		st.updating = false
	}
	if !st.updating && currentBelow {
		st.updating = true
	}

	if st.updating {
		if s > st.median {
			st.accum++
		}
		if s < st.median {
			st.accum--
		}
		if st.accum > st.ncontig {
			st.median++
			st.accum = 0
		}
		if st.accum < -st.ncontig {
			st.median--
			st.accum = 0
		}
	}
	return st.median
}

// Tracker is the streaming form of FrugalPedestalSigKill. Samples are pushed
// one at a time and pedestal values come out Lookahead samples later.
type Tracker[T Sample] struct {
	params  SigKillParams
	state   *sigKillState[T]
	pending []T
}

func NewTracker[T Sample](params SigKillParams) (*Tracker[T], error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Tracker[T]{params: params}, nil
}

// Push adds a sample and returns the pedestal of the sample Lookahead
// positions back, if there is one.
func (t *Tracker[T]) Push(s T) (T, bool) {
	if t.state == nil {
		t.state = newSigKillState(s, t.params)
	}
	t.pending = append(t.pending, s)
	if len(t.pending) <= t.params.Lookahead {
		var zero T
		return zero, false
	}
	current := t.pending[0]
	t.pending = t.pending[1:]
	return t.state.step(current, s), true
}

// Flush returns the pedestal for the samples still waiting for their
// lookahead and resets the tracker.
func (t *Tracker[T]) Flush() []T {
	out := make([]T, len(t.pending))
	if t.state != nil {
		for i := range out {
			out[i] = t.state.median
		}
	}
	t.pending = nil
	t.state = nil
	return out
}

// Pedestal is the current estimate.
func (t *Tracker[T]) Pedestal() (T, bool) {
	if t.state == nil {
		var zero T
		return zero, false
	}
	return t.state.median, true
}
