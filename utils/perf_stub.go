//go:build !linux
// +build !linux

package utils

import "fmt"

// InstrumentRun falls back to an uninstrumented run where hardware perf
// counters are unavailable.
func InstrumentRun(f func() error) error {
	fmt.Println("hardware perf counters require linux, running uninstrumented")
	return f()
}
