package SWE2D

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/goswe/SW2D"
	"github.com/notargets/goswe/forcing"
	"github.com/notargets/goswe/model_problems/SWE2D/standing_wave"
	"github.com/notargets/goswe/types"
	"github.com/stretchr/testify/assert"
)

func TestSteppers(t *testing.T) {
	{ // Stepper type parsing
		assert.Equal(t, STEPPER_CrankNicolson, NewStepperType(""))
		assert.Equal(t, STEPPER_CrankNicolson, NewStepperType("Crank-Nicolson"))
		assert.Equal(t, STEPPER_SSPRK3, NewStepperType("RK3"))
		assert.Equal(t, "SSP RK3", STEPPER_SSPRK3.Print())
		assert.Panics(t, func() { NewStepperType("leapfrog") })
	}
	{ // The explicit stepper lands on the final time in whole steps
		c := NewSWE(1427.85, 40000, 2000, 20, 80, 2,
			0.4, 0, 0, 0, STEPPER_SSPRK3, nil, 1, 0, false)
		dt := c.CalculateDT()
		n := c.FinalTime / dt
		assert.InDelta(t, math.Round(n), n, 1.e-9)
		assert.True(t, dt <= 0.4*500./math.Sqrt(9.81*20)+1.e-12)
	}
	{ // The theta scheme requires an explicit step size
		c := NewSWE(100, 1000, 1000, 10, 4, 4,
			0, 0, 0, 0, STEPPER_CrankNicolson, nil, 1, 0, false)
		assert.Panics(t, func() { c.CalculateDT() })
		c.Dt = 25
		assert.Equal(t, 25., c.CalculateDT())
	}
	assert.Panics(t, func() {
		NewSWE(100, 1000, 1000, -5, 4, 4,
			0, 1, 0, 0, STEPPER_CrankNicolson, nil, 1, 0, false)
	})
}

func TestMassConservation(t *testing.T) {
	var (
		bump = func(x, y float64) float64 {
			r2 := ((x-4000)*(x-4000) + (y-2000)*(y-2000)) / (800. * 800.)
			return 0.1 * math.Exp(-r2)
		}
		sumEta = func(c *SWE) (sum float64) {
			for _, v := range c.Eta.Data() {
				sum += v
			}
			return
		}
	)
	{ // Crank Nicolson in a closed basin
		c := NewSWE(500, 8000, 4000, 20, 16, 8,
			0, 25, 0.5, 0, STEPPER_CrankNicolson, nil, 4, 0, false)
		c.SetInitialElevation(bump)
		vol0 := sumEta(c)
		c.Solve(&PlotMeta{StepsBeforePlot: 100})
		assert.Equal(t, 20, c.Steps)
		assert.InDelta(t, vol0, sumEta(c), 1.e-6)
		// By now the bump has radiated away from the center
		assert.Less(t, c.Eta.At(4, 8), 0.05)
	}
	{ // SSP RK3 in a closed basin
		c := NewSWE(500, 8000, 4000, 20, 16, 8,
			0.4, 0, 0, 0, STEPPER_SSPRK3, nil, 4, 0, false)
		c.SetInitialElevation(bump)
		vol0 := sumEta(c)
		c.Solve(&PlotMeta{StepsBeforePlot: 100})
		assert.InDelta(t, vol0, sumEta(c), 1.e-10)
	}
}

func TestStandingWave(t *testing.T) {
	var (
		w  = standing_wave.NewWave(0.05, 40000, 20, 1)
		ic = func(x, y float64) (eta float64) {
			eta, _ = w.GetState(0, x)
			return
		}
		check = func(c *SWE, tol float64) {
			var (
				cm = c.Mesh
				xc = cm.Xc.Data()
				xf = cm.Xf.Data()
			)
			for j := 0; j < cm.Ny; j++ {
				for i := 0; i < cm.Nx; i++ {
					eta, _ := w.GetState(c.Time, xc[i])
					assert.InDelta(t, eta, c.Eta.At(j, i), tol)
				}
				for i := 0; i <= cm.Nx; i++ {
					_, u := w.GetState(c.Time, xf[i])
					assert.InDelta(t, u, c.U.At(j, i), tol)
				}
			}
			assert.InDelta(t, 0, c.V.MaxAbs(), 1.e-12)
		}
	)
	{ // Crank Nicolson over a quarter period
		c := NewSWE(1420, 40000, 2000, 20, 80, 2,
			0, 20, 0.5, 0, STEPPER_CrankNicolson, nil, 2, 0, false)
		c.SetInitialElevation(ic)
		c.Solve(&PlotMeta{StepsBeforePlot: 1000})
		assert.Equal(t, 71, c.Steps)
		check(c, 1.e-4)
	}
	{ // SSP RK3 over a quarter period
		c := NewSWE(1420, 40000, 2000, 20, 80, 2,
			0.4, 0, 0, 0, STEPPER_SSPRK3, nil, 2, 0, false)
		c.SetInitialElevation(ic)
		c.Solve(&PlotMeta{StepsBeforePlot: 1000})
		check(c, 1.e-4)
	}
}

func TestElevationBoundaries(t *testing.T) {
	// Opposite constant elevations with bottom drag settle into a linear
	// surface slope carrying a uniform flow
	bcs := forcing.NewBoundarySpec().
		Set(SW2D.BoundaryLeft, forcing.RoleElevation, forcing.Constant(0.1)).
		Set(SW2D.BoundaryRight, forcing.RoleElevation, forcing.Constant(-0.1))
	c := NewSWE(3000, 10000, 1000, 20, 20, 2,
		0, 100, 0.5, 0.01, STEPPER_CrankNicolson, bcs, 1, 0, false)
	c.Solve(&PlotMeta{StepsBeforePlot: 1000})
	var (
		cm = c.Mesh
		s  = -0.2 / cm.Lx
	)
	for i := 0; i < cm.Nx; i++ {
		x := cm.Xc.AtVec(i)
		assert.InDelta(t, 0.1+s*x, c.Eta.At(0, i), 1.e-5)
		assert.InDelta(t, 0.1+s*x, c.Eta.At(1, i), 1.e-5)
	}
	uSteady := -c.Gravity * s / c.Drag
	for i := 0; i <= cm.Nx; i++ {
		assert.InDelta(t, uSteady, c.U.At(0, i), 1.e-5)
	}
	assert.InDelta(t, 0, c.V.MaxAbs(), 1.e-12)
}

func TestTidalForcing(t *testing.T) {
	var (
		p   = forcing.NewPeriodic(1000, -2000, 43200)
		bcs = forcing.NewBoundarySpec().Set(SW2D.BoundaryLeft, forcing.RoleFlux, p)
		c   = NewSWE(600, 10000, 2000, 20, 10, 2,
			0, 60, 0.5, 0, STEPPER_CrankNicolson, bcs, 1, 0, false)
		fired  []float64
		sumEta = func() (sum float64) {
			for _, v := range c.Eta.Data() {
				sum += v
			}
			return
		}
	)
	c.AddStepHook(p)
	p.Observe(forcing.NewTriggerSet([]float64{120, 300, 330.5}, forcing.Exact, 60),
		func(tt float64) { fired = append(fired, tt) })

	vol0 := sumEta()
	c.Solve(&PlotMeta{StepsBeforePlot: 100})

	{ // The hook leaves the forcing evaluated at the final step time
		assert.Equal(t, 10, c.Steps)
		assert.InDelta(t, p.Evaluate(600), p.Value(), 1.e-15)
	}
	{ // Pinned faces carry the value of the previously completed step
		area := 2000. * 20.
		assert.InDelta(t, p.Evaluate(540)/area, c.U.At(0, 0), 1.e-15)
		assert.InDelta(t, p.Evaluate(540)/area, c.U.At(1, 0), 1.e-15)
	}
	{ // Volume added matches the time integral of the prescribed flux
		var qdt float64
		for n := 0; n < c.Steps; n++ {
			qdt += p.Evaluate(float64(n)*60.) * 60.
		}
		vol := (sumEta() - vol0) * c.Mesh.Dx * c.Mesh.Dy
		assert.InDelta(t, qdt, vol, 1.e-5*math.Abs(qdt))
	}
	{ // Triggers off the step sequence are silently skipped
		assert.Equal(t, []float64{120, 300}, fired)
	}
}

// tableCount is an in-memory Recorder standing in for the sqlite writer.
type tableCount struct {
	created []string
	rows    map[string][]any
}

func (r *tableCount) CreateTable(name string, sample any) { r.created = append(r.created, name) }
func (r *tableCount) InsertData(name string, entry any)   { r.rows[name] = append(r.rows[name], entry) }
func (r *tableCount) ListTables() []string                { return r.created }
func (r *tableCount) Flush()                              {}

func TestExporter(t *testing.T) {
	var (
		rec = &tableCount{rows: make(map[string][]any)}
		p   = forcing.NewPeriodic(1000, -2000, 43200)
		bcs = forcing.NewBoundarySpec().Set(SW2D.BoundaryLeft, forcing.RoleFlux, p)
		c   = NewSWE(600, 10000, 2000, 20, 10, 2,
			0, 60, 0.5, 0, STEPPER_CrankNicolson, bcs, 1, 0, false)
		dir = t.TempDir()
		e   = NewExporter(c, 180, dir, rec)
	)
	assert.Panics(t, func() { NewExporter(c, 0, dir, rec) })
	e.AddProbe("mid", 5000, 1000)
	e.AddProbe("mouth", 9750, 1000)
	c.AddStepHook(p)
	c.AddStepHook(e)
	e.Export(0)
	c.Solve(&PlotMeta{StepsBeforePlot: 100})

	{ // Tables registered at construction
		assert.Equal(t, []string{"gauges", "forcing"}, rec.created)
	}
	{ // One export at t = 0 plus the interval exports at 180, 360, 540
		assert.Equal(t, 4*2, len(rec.rows["gauges"]))
		assert.Equal(t, 4, len(rec.rows["forcing"]))
		for i := 0; i < 4; i++ {
			name := filepath.Join(dir, fmt.Sprintf("checkpoint_%05d.dat", i))
			_, err := os.Stat(name)
			assert.NoError(t, err)
		}
	}
	{ // Recorded samples carry the probe names and forcing values
		s0 := rec.rows["gauges"][0].(ProbeSample)
		assert.Equal(t, "mid", s0.Probe)
		assert.Equal(t, 0., s0.Time)
		last := rec.rows["forcing"][3].(ForcingSample)
		assert.Equal(t, SW2D.BoundaryLeft, last.Boundary)
		assert.Equal(t, forcing.RoleFlux, last.Role)
		assert.Equal(t, 540., last.Time)
		assert.InDelta(t, p.Evaluate(540), last.Value, 1.e-12)
	}
}

func TestSampleAt(t *testing.T) {
	c := NewSWE(1, 4000, 2000, 10, 8, 4,
		0, 1, 0.5, 0, STEPPER_CrankNicolson, nil, 1, 0, false)
	c.SetInitialElevation(func(x, y float64) float64 { return 0.001*x + 0.0001*y })
	for j := 0; j < 4; j++ {
		for i := 0; i <= 8; i++ {
			c.U.Set(j, i, 0.1*float64(i))
		}
	}
	for j := 0; j <= 4; j++ {
		for i := 0; i < 8; i++ {
			c.V.Set(j, i, 0.01*float64(j))
		}
	}
	{ // Interior sample reads the containing cell
		eta, u, v := c.SampleAt(1300, 700)
		assert.InDelta(t, 0.001*1250+0.0001*750, eta, 1.e-12)
		assert.InDelta(t, 0.25, u, 1.e-12)
		assert.InDelta(t, 0.015, v, 1.e-12)
	}
	{ // Coordinates outside the channel clamp to the nearest cell
		eta, _, _ := c.SampleAt(-50, 700)
		assert.InDelta(t, 0.001*250+0.0001*750, eta, 1.e-12)
		eta, _, _ = c.SampleAt(1.e9, 1.e9)
		assert.InDelta(t, 0.001*3750+0.0001*1750, eta, 1.e-12)
	}
}

func TestBoundarySpecFromInput(t *testing.T) {
	in := map[string]map[int]map[string]float64{
		"flux":      {1: {"baseline": 1000, "amplitude": -2000, "period": 43200}},
		"elevation": {2: {"value": 0.25}},
		"wall":      {3: {}, 4: {}},
	}
	bs := NewBoundarySpecFromInput(in)
	assert.Equal(t, []int{1, 2}, bs.IDs())
	p, ok := bs.Get(1, forcing.RoleFlux).(*forcing.Periodic)
	assert.True(t, ok)
	assert.Equal(t, 43200., p.Period)
	assert.InDelta(t, 1000., p.Value(), 1.e-12)
	assert.Equal(t, 0.25, bs.Get(2, forcing.RoleElevation).Value())
	assert.Nil(t, bs.Get(3, forcing.RoleFlux))
	assert.Panics(t, func() {
		NewBoundarySpecFromInput(map[string]map[int]map[string]float64{
			"radiation": {2: {"value": 0}},
		})
	})
	assert.Panics(t, func() {
		NewBoundarySpecFromInput(map[string]map[int]map[string]float64{
			"bogus": {1: {}},
		})
	})
}

func TestGetPlotField(t *testing.T) {
	c := NewSWE(1, 2000, 1000, 10, 4, 2,
		0, 1, 0.5, 0, STEPPER_CrankNicolson, nil, 1, 0, false)
	c.SetInitialElevation(func(x, y float64) float64 { return 0.01 })
	for j := 0; j < 2; j++ {
		for i := 0; i <= 4; i++ {
			c.U.Set(j, i, 0.3)
		}
	}
	for j := 0; j <= 2; j++ {
		for i := 0; i < 4; i++ {
			c.V.Set(j, i, 0.4)
		}
	}
	f := c.GetPlotField(types.FieldElevation)
	assert.Equal(t, c.Mesh.NCells(), len(f))
	assert.InDelta(t, 0.01, f[0], 1.e-12)
	f = c.GetPlotField(types.FieldSpeed)
	assert.InDelta(t, 0.5, f[5], 1.e-12)
	f = c.GetPlotField(types.FieldU)
	assert.InDelta(t, 0.3, f[2], 1.e-12)
	f = c.GetPlotField(types.FieldV)
	assert.InDelta(t, 0.4, f[7], 1.e-12)
}
