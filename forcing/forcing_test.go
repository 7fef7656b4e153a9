package forcing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPeriodicEvaluate(t *testing.T) {
	var (
		baseline  = 1000.
		amplitude = -2000.
		period    = 43200.
		tol       = 1.e-9
	)
	p := NewPeriodic(baseline, amplitude, period)
	{ // Known values at t=0, quarter period and half period
		assert.InDelta(t, 1000., p.Evaluate(0), tol)
		assert.InDelta(t, -1000., p.Evaluate(10800), tol) // sin = 1
		assert.InDelta(t, 1000., p.Evaluate(21600), tol)  // sin = 0
	}
	{ // Closed form holds for arbitrary times, including t beyond one period
		for _, tt := range []float64{0, 1, 500, 7000, 50000, 86400, 1.e6} {
			want := baseline + amplitude*math.Sin(2.*math.Pi*tt/period)
			assert.InDelta(t, want, p.Evaluate(tt), tol)
		}
	}
	{ // Periodicity
		for _, tt := range []float64{0, 137.5, 10800, 21600, 40000} {
			assert.InDelta(t, p.Evaluate(tt), p.Evaluate(tt+period), tol)
		}
	}
	{ // Evaluate is pure - it does not touch the stored value
		before := p.Current
		_ = p.Evaluate(12345)
		assert.Equal(t, before, p.Current)
	}
	{ // Construction seeds the value at t=0
		assert.InDelta(t, baseline, p.Current, tol)
	}
	assert.Panics(t, func() { NewPeriodic(1, 1, 0) })
}

func TestPeriodicOnStep(t *testing.T) {
	p := NewPeriodic(1000, -2000, 43200)
	{ // OnStep writes Evaluate(tNew) in place, visible on the next read
		p.OnStep(10800)
		assert.InDelta(t, -1000., p.Value(), 1.e-9)
		p.OnStep(21600)
		assert.InDelta(t, 1000., p.Value(), 1.e-9)
	}
	{ // Trigger check: exact match fires once, near misses fire nothing
		var fired []float64
		p.Observe(NewTriggerSet([]float64{1000, 2000, 4000, 7000}, Exact, 0),
			func(tNew float64) { fired = append(fired, tNew) })
		p.OnStep(999)
		assert.Empty(t, fired)
		p.OnStep(1000)
		assert.Equal(t, []float64{1000}, fired)
		p.OnStep(1000.5)
		assert.Equal(t, []float64{1000}, fired)
		p.OnStep(7000)
		assert.Equal(t, []float64{1000, 7000}, fired)
		// The value update still happened on the non-matching steps
		assert.InDelta(t, p.Evaluate(7000), p.Value(), 1.e-12)
	}
}

func TestBoundarySpec(t *testing.T) {
	var (
		tidal = NewPeriodic(1000, -2000, 43200)
		bs    = NewBoundarySpec()
	)
	bs.Set(1, RoleFlux, tidal)
	bs.Set(2, RoleElevation, Constant(0))
	{ // Role lookup
		assert.Equal(t, tidal, bs.Get(1, RoleFlux))
		assert.Equal(t, Constant(0), bs.Get(2, RoleElevation))
		assert.Nil(t, bs.Get(1, RoleElevation))
		assert.Nil(t, bs.Get(3, RoleFlux))
		assert.Equal(t, []int{1, 2}, bs.IDs())
	}
	{ // The map itself is static; the referenced value mutates in place
		before := bs.Get(1, RoleFlux).Value()
		tidal.OnStep(10800)
		after := bs.Get(1, RoleFlux).Value()
		assert.InDelta(t, 1000., before, 1.e-9)
		assert.InDelta(t, -1000., after, 1.e-9)
		assert.Equal(t, tidal, bs.Get(1, RoleFlux))
	}
}
