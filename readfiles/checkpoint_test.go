package readfiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/notargets/goswe/model_problems/SWE2D"
	"github.com/stretchr/testify/assert"
)

func TestReadCheckpoint(t *testing.T) {
	var (
		dir = t.TempDir()
		fn  = filepath.Join(dir, "checkpoint_00000.dat")
	)
	c := SWE2D.NewSWE(7200, 40000, 2000, 20, 8, 4, 0.7, 50, 0.5, 0,
		SWE2D.STEPPER_CrankNicolson, nil, 1, 0, false)
	c.SetInitialElevation(func(x, y float64) float64 {
		return 0.001*x + 0.0001*y
	})
	c.Time = 150
	c.Steps = 3
	c.SaveCheckpoint(fn)

	cp := ReadCheckpoint(fn, false)
	assert.Equal(t, 8, cp.Nx)
	assert.Equal(t, 4, cp.Ny)
	assert.Equal(t, 40000., cp.Lx)
	assert.Equal(t, 2000., cp.Ly)
	assert.Equal(t, 20., cp.Depth)
	assert.Equal(t, 150., cp.Time)
	assert.Equal(t, 3, cp.Steps)
	for j := 0; j < 4; j++ {
		for i := 0; i < 8; i++ {
			assert.InDelta(t, c.Eta.At(j, i), cp.Eta.At(j, i), 1.e-14)
		}
	}
	nr, nc := cp.U.Dims()
	assert.Equal(t, [2]int{4, 9}, [2]int{nr, nc})
	nr, nc = cp.V.Dims()
	assert.Equal(t, [2]int{5, 8}, [2]int{nr, nc})
}

func TestReadProbes(t *testing.T) {
	var (
		dir = t.TempDir()
		fn  = filepath.Join(dir, "gauges.csv")
	)
	data := "name,x,y\nmid,20000,1000\nmouth,39750,1000\n"
	if err := os.WriteFile(fn, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	names, xs, ys := ReadProbes(fn)
	assert.Equal(t, []string{"mid", "mouth"}, names)
	assert.Equal(t, []float64{20000, 39750}, xs)
	assert.Equal(t, []float64{1000, 1000}, ys)
}
