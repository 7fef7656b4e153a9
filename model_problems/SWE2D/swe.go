package SWE2D

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/notargets/goswe/SW2D"
	"github.com/notargets/goswe/forcing"
	"github.com/notargets/goswe/utils"
)

/*
Solves the depth averaged shallow water equations, linearized about a
resting state of uniform depth H:

	d(eta)/dt + H div(u)     = 0
	d(u)/dt   + g grad(eta)  = -Cd u

on a rectangular channel discretized with an Arakawa C staggered grid.
Elevation unknowns live at cell centers, normal velocities at the cell
faces. Boundary conditions are prescribed per side of the rectangle:
closed wall, prescribed elevation, or prescribed total volume flux,
where the flux may vary in time through the forcing package.
*/
type SWE struct {
	// Input parameters
	FinalTime float64
	CFL       float64
	Dt        float64 // Fixed step size used by the theta scheme
	Theta     float64 // Implicitness, 0.5 is Crank Nicolson
	Depth     float64
	Gravity   float64
	Drag      float64 // Linear bottom drag coefficient
	Stepper   StepperType

	Mesh *SW2D.ChannelMesh
	BCs  forcing.BoundarySpec

	// Solution fields on the staggered grid
	Eta utils.Matrix // (Ny x Nx) cell centered elevation
	U   utils.Matrix // (Ny x Nx+1) x-face normal velocity
	V   utils.Matrix // (Ny+1 x Nx) y-face normal velocity

	Time  float64
	Steps int

	ParallelDegree int
	Partitions     *utils.PartitionMap // Cell row ranges for parallel sweeps
	VPartitions    *utils.PartitionMap // V face row ranges
	MaxIterations  int

	hooks []StepHook
	chart ChartState
}

// StepHook receives the new simulation time once after every completed
// step, after the solution fields have been advanced to that time.
type StepHook interface {
	OnStep(t float64)
}

func NewSWE(FinalTime, lx, ly, depth float64, nx, ny int,
	CFL, dt, theta, drag float64, st StepperType,
	bcs forcing.BoundarySpec, ProcLimit, MaxIterations int,
	verbose bool) (c *SWE) {
	c = &SWE{
		FinalTime:     FinalTime,
		CFL:           CFL,
		Dt:            dt,
		Theta:         theta,
		Depth:         depth,
		Gravity:       9.81,
		Drag:          drag,
		Stepper:       st,
		BCs:           bcs,
		MaxIterations: MaxIterations,
	}
	if c.Theta <= 0 {
		c.Theta = 0.5
	}
	if c.MaxIterations == 0 {
		c.MaxIterations = math.MaxInt32
	}
	if depth <= 0 {
		err := fmt.Errorf("water depth must be positive, got %v", depth)
		panic(err)
	}

	c.Mesh = SW2D.NewChannelMesh(lx, ly, nx, ny)

	c.SetParallelDegree(ProcLimit, ny) // Must occur after determining the row count

	c.Eta = c.Mesh.NewElevationField()
	c.U = c.Mesh.NewUField()
	c.V = c.Mesh.NewVField()
	c.applyVelocityBCs(c.U, c.V)

	if verbose {
		fmt.Printf("Shallow Water Equations in 2 Dimensions\n")
		fmt.Printf("Using %d go routines in parallel\n", c.Partitions.ParallelDegree)
		fmt.Printf("Time stepper: %s\n", c.Stepper.Print())
		c.Mesh.Print()
		c.BCs.Print()
		fmt.Printf("Depth = %8.2fm, gravity wave speed = %8.4fm/s\n",
			c.Depth, math.Sqrt(c.Gravity*c.Depth))
		fmt.Printf("CFL = %8.4f, Theta = %5.2f, Drag = %8.5f\n\n\n",
			c.CFL, c.Theta, c.Drag)
	}
	return
}

func (c *SWE) SetParallelDegree(ProcLimit, NyMax int) {
	if ProcLimit != 0 {
		c.ParallelDegree = ProcLimit
	} else {
		c.ParallelDegree = runtime.NumCPU()
	}
	runtime.GOMAXPROCS(runtime.NumCPU())
	if c.ParallelDegree > NyMax {
		c.ParallelDegree = 1
	}
	c.Partitions = utils.NewPartitionMap(c.ParallelDegree, NyMax)
	c.VPartitions = utils.NewPartitionMap(c.ParallelDegree, NyMax+1)
}

// AddStepHook appends h to the per-step callback chain. Hooks run in
// registration order after each step, seeing the advanced fields.
func (c *SWE) AddStepHook(h StepHook) {
	c.hooks = append(c.hooks, h)
}

// SetInitialElevation fills the elevation field from a function of the
// cell center coordinates.
func (c *SWE) SetInitialElevation(f func(x, y float64) float64) {
	var (
		cm = c.Mesh
		xc = cm.Xc.Data()
		yc = cm.Yc.Data()
	)
	for j := 0; j < cm.Ny; j++ {
		for i := 0; i < cm.Nx; i++ {
			c.Eta.Set(j, i, f(xc[i], yc[j]))
		}
	}
}

// SetState overwrites the solution fields and the clock, used to
// resume a run from a checkpoint. The fields must match the mesh
// staggering.
func (c *SWE) SetState(Eta, U, V utils.Matrix, Time float64, Steps int) {
	var (
		cm        = c.Mesh
		checkDims = func(m utils.Matrix, nr, nc int, name string) {
			r, co := m.Dims()
			if r != nr || co != nc {
				err := fmt.Errorf("%s field is %dx%d, mesh needs %dx%d",
					name, r, co, nr, nc)
				panic(err)
			}
		}
	)
	checkDims(Eta, cm.Ny, cm.Nx, "elevation")
	checkDims(U, cm.Ny, cm.Nx+1, "u")
	checkDims(V, cm.Ny+1, cm.Nx, "v")
	copy(c.Eta.Data(), Eta.Data())
	copy(c.U.Data(), U.Data())
	copy(c.V.Data(), V.Data())
	c.Time = Time
	c.Steps = Steps
	c.applyVelocityBCs(c.U, c.V)
}

// Now reports the current simulation time.
func (c *SWE) Now() float64 { return c.Time }

// Progress reports the simulation time, step count and completed
// fraction of the run.
func (c *SWE) Progress() (t float64, steps int, fraction float64) {
	t, steps = c.Time, c.Steps
	if c.FinalTime > 0 {
		fraction = t / c.FinalTime
	}
	return
}

func (c *SWE) Solve(pm *PlotMeta) {
	var (
		FinalTime = c.FinalTime
		Time      = c.Time // Nonzero after a checkpoint restore
		dt        float64
		steps     = c.Steps
		steps0    = c.Steps
		finished  bool
		plotQ     = pm.Plot
		Residual  [3]utils.Matrix
	)
	c.PrintInitialization(FinalTime)

	dt = c.CalculateDT()
	ts := c.NewTimeStepper(dt)

	elapsed := time.Duration(0)
	var start time.Time
	for !finished {
		start = time.Now()
		Residual = ts.Step(c, dt)
		elapsed += time.Now().Sub(start)
		steps++
		Time += dt
		c.Time = Time
		c.Steps = steps
		for _, h := range c.hooks {
			h.OnStep(Time)
		}
		finished = c.CheckIfFinished(Time, FinalTime, steps)
		if finished || steps%pm.StepsBeforePlot == 0 || steps == steps0+1 {
			c.PrintUpdate(Time, dt, steps, Residual, plotQ, pm)
		}
	}
	c.PrintFinal(elapsed, steps-steps0)
}

// CalculateDT returns the step size for the run. The theta scheme is
// unconditionally stable and takes the configured step directly, the
// explicit scheme is limited by the gravity wave CFL condition and is
// shortened so that an integer number of steps lands on FinalTime.
func (c *SWE) CalculateDT() (dt float64) {
	var (
		cm = c.Mesh
	)
	switch c.Stepper {
	case STEPPER_CrankNicolson:
		if c.Dt <= 0 {
			err := fmt.Errorf("the theta scheme needs a positive step size, got %v", c.Dt)
			panic(err)
		}
		dt = c.Dt
	case STEPPER_SSPRK3:
		if c.CFL <= 0 {
			err := fmt.Errorf("the explicit stepper needs a positive CFL, got %v", c.CFL)
			panic(err)
		}
		wave := math.Sqrt(c.Gravity * c.Depth)
		dt = c.CFL * math.Min(cm.Dx, cm.Dy) / wave
		if c.Dt > 0 && c.Dt < dt {
			dt = c.Dt
		}
		nSteps := math.Ceil(c.FinalTime / dt)
		dt = c.FinalTime / nSteps
	}
	return
}

func (c *SWE) CheckIfFinished(Time, FinalTime float64, steps int) (finished bool) {
	if Time >= FinalTime || steps >= c.MaxIterations {
		finished = true
	}
	return
}

func (c *SWE) PrintInitialization(FinalTime float64) {
	fmt.Printf("Solving until finaltime = %8.2f\n", FinalTime)
	fmt.Printf("    iter        time      dt")
	fmt.Printf("   Res(eta)     Res(u)     Res(v)")
	fmt.Printf("         L1         L2\n")
}

func (c *SWE) PrintUpdate(Time, dt float64, steps int,
	Residual [3]utils.Matrix, plotQ bool, pm *PlotMeta) {
	format := "%11.4e"
	if plotQ {
		c.PlotSolution(pm)
	}
	fmt.Printf("%8d%12.2f%8.3f", steps, Time, dt)
	var l1, l2 float64
	for n := 0; n < 3; n++ {
		maxR := Residual[n].MaxAbs()
		fmt.Printf(format, maxR)
		if maxR > l1 {
			l1 = maxR
		}
		l2 += maxR * maxR
	}
	fmt.Printf(format, l1)
	fmt.Printf(format, math.Sqrt(l2)/3.)
	fmt.Printf("\n")
}

func (c *SWE) PrintFinal(elapsed time.Duration, steps int) {
	rate := float64(elapsed.Microseconds()) / (float64(c.Mesh.NCells() * steps))
	fmt.Printf("\nRate of execution = %8.5f us/(cell*iteration) over %d iterations\n",
		rate, steps)
}
