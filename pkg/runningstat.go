package waveform

import "math"

// RunningStat accumulates mean and variance in one pass (Welford '62).
type RunningStat struct {
	n       uint64
	mean    float64
	sumSqDv float64
}

func (r *RunningStat) Reset() *RunningStat {
	r.n = 0
	r.mean = 0
	r.sumSqDv = 0
	return r
}

func (r *RunningStat) Update(x float64) *RunningStat {
	r.n++
	if r.n == 1 {
		r.mean = x
	} else {
		last := r.mean
		r.mean += (x - r.mean) / float64(r.n)
		r.sumSqDv += (x - last) * (x - r.mean)
	}
	return r
}

func (r *RunningStat) N() uint64 {
	return r.n
}

func (r *RunningStat) Mean() float64 {
	return r.mean
}

func (r *RunningStat) Variance() float64 {
	if r.n > 1 {
		return r.sumSqDv / float64(r.n-1)
	}
	return 0
}

func (r *RunningStat) StdDev() float64 {
	return math.Sqrt(r.Variance())
}
