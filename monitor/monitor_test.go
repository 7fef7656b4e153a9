package monitor

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	t     float64
	steps int
	final float64
}

func (f *fakeClock) Now() float64 { return f.t }

func (f *fakeClock) Progress() (t float64, steps int, fraction float64) {
	return f.t, f.steps, f.t / f.final
}

func TestMonitorHandlers(t *testing.T) {
	var (
		m  = NewMonitor()
		fc = &fakeClock{t: 1800, steps: 36, final: 7200}
	)
	m.RegisterTimeTeller(fc)
	m.RegisterProgressReporter(fc)

	{ // Simulation time
		w := httptest.NewRecorder()
		m.now(w, httptest.NewRequest("GET", "/api/now", nil))
		assert.JSONEq(t, `{"now":1800}`, w.Body.String())
	}
	{ // Progress
		w := httptest.NewRecorder()
		m.progress(w, httptest.NewRequest("GET", "/api/progress", nil))
		var rsp progressRsp
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &rsp))
		assert.Equal(t, 1800., rsp.Time)
		assert.Equal(t, 36, rsp.Step)
		assert.InDelta(t, 0.25, rsp.Fraction, 1.e-12)
	}
}

func TestMonitorRejectsLowPorts(t *testing.T) {
	m := NewMonitor().WithPortNumber(80)
	assert.Equal(t, 0, m.portNumber)

	m = NewMonitor().WithPortNumber(8080)
	assert.Equal(t, 8080, m.portNumber)
}
