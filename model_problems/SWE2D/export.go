package SWE2D

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/notargets/goswe/forcing"
	"github.com/notargets/goswe/recording"
)

// ProbeSample is one gauge reading.
type ProbeSample struct {
	Time  float64
	Step  int
	Probe string
	Eta   float64
	U     float64
	V     float64
}

// ForcingSample is one boundary forcing value.
type ForcingSample struct {
	Time     float64
	Step     int
	Boundary int
	Role     string
	Value    float64
}

// Probe is a named sampling location.
type Probe struct {
	Name string
	X, Y float64
}

// Exporter writes checkpoints and records gauge and forcing samples on
// a fixed simulation time interval. It runs on the per-step callback
// chain.
type Exporter struct {
	c         *SWE
	Interval  float64
	OutputDir string
	Recorder  recording.Recorder
	probes    []Probe
	nextT     float64
	index     int
}

func NewExporter(c *SWE, interval float64, outputDir string,
	rec recording.Recorder) (e *Exporter) {
	if interval <= 0 {
		err := fmt.Errorf("export interval must be positive, got %v", interval)
		panic(err)
	}
	e = &Exporter{
		c:         c,
		Interval:  interval,
		OutputDir: outputDir,
		Recorder:  rec,
		nextT:     interval,
	}
	if len(outputDir) != 0 {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			panic(err)
		}
	}
	if rec != nil {
		rec.CreateTable("gauges", ProbeSample{})
		rec.CreateTable("forcing", ForcingSample{})
	}
	return
}

// AddProbe registers a gauge at (x, y), sampled on every export.
func (e *Exporter) AddProbe(name string, x, y float64) {
	e.probes = append(e.probes, Probe{Name: name, X: x, Y: y})
}

func (e *Exporter) OnStep(t float64) {
	if t+1.e-9 < e.nextT {
		return
	}
	for t+1.e-9 >= e.nextT {
		e.nextT += e.Interval
	}
	e.Export(t)
}

// Export records the current state unconditionally. Callers use it for
// the initial state and from trigger actions, the interval based
// exports arrive through OnStep.
func (e *Exporter) Export(t float64) {
	var (
		c = e.c
	)
	if e.Recorder != nil {
		for _, p := range e.probes {
			eta, u, v := c.SampleAt(p.X, p.Y)
			e.Recorder.InsertData("gauges", ProbeSample{
				Time: t, Step: c.Steps, Probe: p.Name, Eta: eta, U: u, V: v,
			})
		}
		for _, id := range c.BCs.IDs() {
			for _, role := range []string{forcing.RoleElevation, forcing.RoleFlux} {
				if v := c.BCs.Get(id, role); v != nil {
					e.Recorder.InsertData("forcing", ForcingSample{
						Time: t, Step: c.Steps, Boundary: id, Role: role, Value: v.Value(),
					})
				}
			}
		}
	}
	if len(e.OutputDir) != 0 {
		fileName := filepath.Join(e.OutputDir,
			fmt.Sprintf("checkpoint_%05d.dat", e.index))
		c.SaveCheckpoint(fileName)
	}
	e.index++
}

// SampleAt reads the fields at the cell containing (x, y). Coordinates
// outside the channel clamp to the nearest cell. Face velocities are
// averaged to the center.
func (c *SWE) SampleAt(x, y float64) (eta, u, v float64) {
	var (
		cm = c.Mesh
		i  = int(math.Floor(x / cm.Dx))
		j  = int(math.Floor(y / cm.Dy))
	)
	if i < 0 {
		i = 0
	}
	if i > cm.Nx-1 {
		i = cm.Nx - 1
	}
	if j < 0 {
		j = 0
	}
	if j > cm.Ny-1 {
		j = cm.Ny - 1
	}
	eta = c.Eta.At(j, i)
	u = 0.5 * (c.U.At(j, i) + c.U.At(j, i+1))
	v = 0.5 * (c.V.At(j, i) + c.V.At(j+1, i))
	return
}

// SaveCheckpoint writes the solution in a flat binary layout: the mesh
// dimensions and extents, depth, time and step count, then the three
// fields in row major order.
func (c *SWE) SaveCheckpoint(fileName string) {
	var (
		err  error
		file *os.File
		cm   = c.Mesh
	)
	file, err = os.Create(fileName)
	if err != nil {
		panic(err)
	}
	defer file.Close()

	binary.Write(file, binary.LittleEndian, int64(cm.Nx))
	binary.Write(file, binary.LittleEndian, int64(cm.Ny))
	binary.Write(file, binary.LittleEndian, cm.Lx)
	binary.Write(file, binary.LittleEndian, cm.Ly)
	binary.Write(file, binary.LittleEndian, c.Depth)
	binary.Write(file, binary.LittleEndian, c.Time)
	binary.Write(file, binary.LittleEndian, int64(c.Steps))
	binary.Write(file, binary.LittleEndian, c.Eta.Data())
	binary.Write(file, binary.LittleEndian, c.U.Data())
	binary.Write(file, binary.LittleEndian, c.V.Data())
}
