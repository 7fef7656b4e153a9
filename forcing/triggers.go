package forcing

import (
	"fmt"
	"math"
	"strings"
)

// TriggerPolicy selects how a step time is matched against the trigger
// instants.
type TriggerPolicy uint8

const (
	// Exact fires only when the step time equals a trigger instant as a
	// floating value. This is deliberately fragile: when the step sequence
	// never lands exactly on a trigger, that trigger silently never fires.
	// Step size and trigger list must be chosen so triggers are exact
	// multiples of the step.
	Exact TriggerPolicy = iota

	// Window fires when the step time is within half a step of a trigger,
	// once per trigger.
	Window

	// StepIndex precomputes round(trigger/stepSize) and compares integer
	// step counts, firing on the nearest step regardless of floating
	// accumulation. Requires the hook to be invoked exactly once per step.
	StepIndex
)

var TriggerPolicyNames = map[string]TriggerPolicy{
	"exact":     Exact,
	"window":    Window,
	"stepindex": StepIndex,
}

func (tp TriggerPolicy) String() string {
	names := map[TriggerPolicy]string{
		Exact:     "Exact",
		Window:    "Window",
		StepIndex: "StepIndex",
	}
	if name, ok := names[tp]; ok {
		return name
	}
	return "Unknown"
}

func NewTriggerPolicy(label string) (tp TriggerPolicy) {
	var (
		ok  bool
		err error
	)
	if len(label) == 0 {
		return Exact
	}
	label = strings.ToLower(strings.TrimSpace(label))
	if tp, ok = TriggerPolicyNames[label]; !ok {
		err = fmt.Errorf("unable to use trigger policy named %s", label)
		panic(err)
	}
	return
}

// TriggerSet is a fixed finite set of simulation instants at which an
// observation action should fire.
type TriggerSet struct {
	Times    []float64
	Policy   TriggerPolicy
	StepSize float64

	fired     []bool       // Window: one shot per trigger
	steps     map[int]bool // StepIndex: precomputed firing steps
	stepCount int          // StepIndex: hook invocations seen
}

func NewTriggerSet(times []float64, policy TriggerPolicy, stepSize float64) (ts *TriggerSet) {
	if policy != Exact && stepSize <= 0 {
		err := fmt.Errorf("trigger policy %v requires a positive step size, got %v", policy, stepSize)
		panic(err)
	}
	ts = &TriggerSet{
		Times:    append([]float64{}, times...),
		Policy:   policy,
		StepSize: stepSize,
	}
	switch policy {
	case Window:
		ts.fired = make([]bool, len(ts.Times))
	case StepIndex:
		ts.steps = make(map[int]bool)
		for _, tt := range ts.Times {
			ts.steps[int(math.Round(tt/stepSize))] = true
		}
	}
	return
}

// Match reports whether tNew lands on a trigger instant under the
// configured policy. A nil set matches nothing.
func (ts *TriggerSet) Match(tNew float64) bool {
	if ts == nil {
		return false
	}
	switch ts.Policy {
	case Exact:
		for _, tt := range ts.Times {
			if tNew == tt {
				return true
			}
		}
	case Window:
		for i, tt := range ts.Times {
			if !ts.fired[i] && math.Abs(tNew-tt) < 0.5*ts.StepSize {
				ts.fired[i] = true
				return true
			}
		}
	case StepIndex:
		ts.stepCount++
		return ts.steps[ts.stepCount]
	}
	return false
}
