package orientation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeter_WeightedAverage(t *testing.T) {
	m := NewMeter()
	assert.Equal(t, Result{}, m.Average())

	m.Update(Result{ErrTheta: 10, AccTheta: 1, ErrXcYc: 2, ErrXtYt: 4, ErrW: 1}, 3)
	m.Update(Result{ErrTheta: 30, AccTheta: 0, ErrXcYc: 6, ErrXtYt: 0, ErrW: 5}, 1)
	m.Update(Result{ErrTheta: 1000}, 0)

	avg := m.Average()
	assert.InDelta(t, 15, avg.ErrTheta, 1e-12)
	assert.InDelta(t, 0.75, avg.AccTheta, 1e-12)
	assert.InDelta(t, 3, avg.ErrXcYc, 1e-12)
	assert.InDelta(t, 3, avg.ErrXtYt, 1e-12)
	assert.InDelta(t, 2, avg.ErrW, 1e-12)

	assert.Equal(t, 4, m.Count())
	assert.Equal(t, 2, m.Steps())
	assert.Equal(t, Result{ErrTheta: 10, AccTheta: 0, ErrXcYc: 2, ErrXtYt: 0, ErrW: 1}, m.Min())
	assert.Equal(t, Result{ErrTheta: 30, AccTheta: 1, ErrXcYc: 6, ErrXtYt: 4, ErrW: 5}, m.Max())

	m.Reset()
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, Result{}, m.Min())
	assert.Equal(t, Result{}, m.Average())
}

func TestMeter_ConcurrentUpdates(t *testing.T) {
	m := NewMeter()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Update(Result{ErrTheta: 2, AccTheta: 0.5}, 2)
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, m.Count())
	assert.InDelta(t, 2, m.Average().ErrTheta, 1e-12)
	assert.InDelta(t, 0.5, m.Average().AccTheta, 1e-12)
}
