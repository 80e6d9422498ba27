package orientation

import (
	"math"
	"sync"
)

// Meter keeps a running, sample-weighted average of batch results, e.g.
// over one validation epoch. It is safe for concurrent use.
type Meter struct {
	mu    sync.Mutex
	sum   Result
	min   Result
	max   Result
	count int
	steps int
}

// NewMeter returns an empty meter.
func NewMeter() *Meter {
	m := &Meter{}
	m.Reset()
	return m
}

// Reset clears all accumulated statistics.
func (m *Meter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	inf := math.Inf(1)
	m.sum = Result{}
	m.min = Result{ErrTheta: inf, AccTheta: inf, ErrXcYc: inf, ErrXtYt: inf, ErrW: inf}
	m.max = Result{ErrTheta: -inf, AccTheta: -inf, ErrXcYc: -inf, ErrXtYt: -inf, ErrW: -inf}
	m.count = 0
	m.steps = 0
}

// Update adds the result of a batch of n samples. Batches with n <= 0 are
// ignored.
func (m *Meter) Update(r Result, n int) {
	if n <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	w := float64(n)
	m.sum.ErrTheta += r.ErrTheta * w
	m.sum.AccTheta += r.AccTheta * w
	m.sum.ErrXcYc += r.ErrXcYc * w
	m.sum.ErrXtYt += r.ErrXtYt * w
	m.sum.ErrW += r.ErrW * w

	m.min = combine(m.min, r, math.Min)
	m.max = combine(m.max, r, math.Max)
	m.count += n
	m.steps++
}

// Average returns the sample-weighted mean of every field, or a zero Result
// if nothing was recorded.
func (m *Meter) Average() Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.count == 0 {
		return Result{}
	}
	n := float64(m.count)
	return Result{
		ErrTheta: m.sum.ErrTheta / n,
		AccTheta: m.sum.AccTheta / n,
		ErrXcYc:  m.sum.ErrXcYc / n,
		ErrXtYt:  m.sum.ErrXtYt / n,
		ErrW:     m.sum.ErrW / n,
	}
}

// Min returns the field-wise minimum over recorded batches.
func (m *Meter) Min() Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.steps == 0 {
		return Result{}
	}
	return m.min
}

// Max returns the field-wise maximum over recorded batches.
func (m *Meter) Max() Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.steps == 0 {
		return Result{}
	}
	return m.max
}

// Count returns the number of samples recorded.
func (m *Meter) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// Steps returns the number of batches recorded.
func (m *Meter) Steps() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.steps
}

func combine(a, b Result, f func(x, y float64) float64) Result {
	return Result{
		ErrTheta: f(a.ErrTheta, b.ErrTheta),
		AccTheta: f(a.AccTheta, b.AccTheta),
		ErrXcYc:  f(a.ErrXcYc, b.ErrXcYc),
		ErrXtYt:  f(a.ErrXtYt, b.ErrXtYt),
		ErrW:     f(a.ErrW, b.ErrW),
	}
}
