package standing_wave

import "math"

// Wave is the analytic standing wave in a closed rectangular basin of
// length L and uniform depth H, uniform across the width. Mode m has m
// half wavelengths along the basin and satisfies the closed wall
// condition u = 0 at both ends exactly.
type Wave struct {
	A, L, H  float64
	Mode     int
	K, Omega float64
	Gravity  float64
}

func NewWave(amplitude, length, depth float64, mode int) (w *Wave) {
	if mode < 1 {
		mode = 1
	}
	w = &Wave{
		A:       amplitude,
		L:       length,
		H:       depth,
		Mode:    mode,
		Gravity: 9.81,
	}
	w.K = float64(w.Mode) * math.Pi / length
	w.Omega = w.K * math.Sqrt(w.Gravity*depth)
	return
}

// Period is the seiche period of the mode.
func (w *Wave) Period() float64 {
	return 2. * math.Pi / w.Omega
}

// GetState returns the elevation and x velocity at time t and position
// x. The y velocity is identically zero.
func (w *Wave) GetState(t, x float64) (eta, u float64) {
	eta = w.A * math.Cos(w.K*x) * math.Cos(w.Omega*t)
	u = w.A * math.Sqrt(w.Gravity/w.H) * math.Sin(w.K*x) * math.Sin(w.Omega*t)
	return
}
