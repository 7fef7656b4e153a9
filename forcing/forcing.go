// Package forcing provides the scalar boundary values consumed by the
// solver's assembly: fixed constants and sinusoidal tidal signals that are
// recomputed in place once per completed time step, plus the trigger
// bookkeeping that fires observation actions at fixed simulation times.
package forcing

import (
	"fmt"
	"math"
	"sort"
)

// Role names used to key boundary values in a BoundarySpec.
const (
	RoleElevation = "elevation"
	RoleFlux      = "flux"
)

// Value is a scalar boundary value as seen by equation assembly. The solver
// reads it between step callbacks and never writes it.
type Value interface {
	Value() float64
}

// Constant is a fixed boundary value.
type Constant float64

func (c Constant) Value() float64 { return float64(c) }

// Periodic holds a sinusoidal forcing as explicit state: baseline,
// amplitude and period plus the current value. The current value is written
// in place by OnStep once per completed time step and read by the solver's
// next assembly step. The struct is exclusively owned by its step hook -
// nothing else writes it during a run.
type Periodic struct {
	Baseline  float64
	Amplitude float64
	Period    float64
	Current   float64
	triggers  *TriggerSet
	observe   func(t float64)
}

func NewPeriodic(baseline, amplitude, period float64) (p *Periodic) {
	if period <= 0 {
		err := fmt.Errorf("forcing period must be positive, got %v", period)
		panic(err)
	}
	p = &Periodic{
		Baseline:  baseline,
		Amplitude: amplitude,
		Period:    period,
	}
	p.Current = p.Evaluate(0)
	return
}

// Evaluate returns baseline + amplitude*sin(2*pi*t/period). Pure - no side
// effects, total for all t including arbitrarily many periods.
func (p *Periodic) Evaluate(t float64) float64 {
	return p.Baseline + p.Amplitude*math.Sin(2.*math.Pi*t/p.Period)
}

// Value returns the forcing as of the last completed step.
func (p *Periodic) Value() float64 { return p.Current }

// Observe attaches a trigger set and the observation action it fires.
// Triggers are checked inside OnStep after the value update.
func (p *Periodic) Observe(ts *TriggerSet, action func(t float64)) {
	p.triggers = ts
	p.observe = action
}

// OnStep is the per-step hook: it recomputes the forcing at tNew, writes it
// into Current, then checks tNew against the trigger instants and fires the
// observation action on a match. Invoked by the solver once per completed
// time step.
func (p *Periodic) OnStep(tNew float64) {
	p.Current = p.Evaluate(tNew)
	if p.triggers != nil && p.observe != nil && p.triggers.Match(tNew) {
		p.observe(tNew)
	}
}

// BoundarySpec maps an integer boundary identifier to its named
// boundary-value roles ("elevation", "flux"). It is assembled once before
// the run and never restructured afterward - only the contents of a
// referenced Periodic change, via its own OnStep.
type BoundarySpec map[int]map[string]Value

func NewBoundarySpec() BoundarySpec {
	return make(BoundarySpec)
}

// Set binds a value provider to a named role on one boundary.
func (bs BoundarySpec) Set(id int, role string, v Value) BoundarySpec {
	if _, ok := bs[id]; !ok {
		bs[id] = make(map[string]Value)
	}
	bs[id][role] = v
	return bs
}

// Get returns the provider bound to a role on a boundary, or nil when the
// boundary has no such role.
func (bs BoundarySpec) Get(id int, role string) Value {
	if roles, ok := bs[id]; ok {
		return roles[role]
	}
	return nil
}

// IDs returns the boundary identifiers carrying at least one role, sorted.
func (bs BoundarySpec) IDs() (ids []int) {
	for id := range bs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return
}

func (bs BoundarySpec) Print() {
	for _, id := range bs.IDs() {
		var roles []string
		for role := range bs[id] {
			roles = append(roles, role)
		}
		sort.Strings(roles)
		for _, role := range roles {
			fmt.Printf("Boundary %d: %s = %v\n", id, role, bs[id][role].Value())
		}
	}
}
