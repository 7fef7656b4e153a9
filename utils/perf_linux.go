//go:build linux
// +build linux

package utils

import (
	"fmt"

	perf "github.com/hodgesds/perf-utils"
)

// InstrumentRun executes f once under hardware CPU counters and prints the
// cycle and instruction totals. The instruction counter is nested inside
// the cycle counter so a single execution of f feeds both.
func InstrumentRun(f func() error) (err error) {
	var (
		cycles, instrs *perf.ProfileValue
	)
	if cycles, err = perf.CPUCycles(func() (ierr error) {
		instrs, ierr = perf.CPUInstructions(f)
		return
	}); err != nil {
		return
	}
	var ipc float64
	if cycles.Value != 0 {
		ipc = float64(instrs.Value) / float64(cycles.Value)
	}
	active := 100.
	if cycles.TimeEnabled != 0 {
		active = 100. * float64(cycles.TimeRunning) / float64(cycles.TimeEnabled)
	}
	fmt.Printf("CPU cycles = %d, instructions = %d, IPC = %5.2f, counters active %5.1f%%\n",
		cycles.Value, instrs.Value, ipc, active)
	return
}
