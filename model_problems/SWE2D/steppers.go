package SWE2D

import (
	"fmt"
	"strings"
	"sync"

	"github.com/notargets/goswe/SW2D"
	"github.com/notargets/goswe/types"
	"github.com/notargets/goswe/utils"
)

type StepperType uint

const (
	STEPPER_CrankNicolson StepperType = iota
	STEPPER_SSPRK3
)

var (
	StepperNames = map[string]StepperType{
		"cn":             STEPPER_CrankNicolson,
		"cranknicolson":  STEPPER_CrankNicolson,
		"crank-nicolson": STEPPER_CrankNicolson,
		"theta":          STEPPER_CrankNicolson,
		"ssprk3":         STEPPER_SSPRK3,
		"ssprk33":        STEPPER_SSPRK3,
		"rk3":            STEPPER_SSPRK3,
	}
	StepperPrintNames = []string{"Crank Nicolson", "SSP RK3"}
)

func (st StepperType) Print() (txt string) {
	txt = StepperPrintNames[st]
	return
}

func NewStepperType(label string) (st StepperType) {
	var (
		ok  bool
		err error
	)
	if len(label) == 0 {
		return STEPPER_CrankNicolson
	}
	label = strings.ToLower(label)
	if st, ok = StepperNames[label]; !ok {
		err = fmt.Errorf("unable to use time stepper named %s", label)
		panic(err)
	}
	return
}

// timeStepper advances the solution fields by one step of size dt and
// returns the per-equation residual fields for progress reporting.
type timeStepper interface {
	Step(c *SWE, dt float64) (Residual [3]utils.Matrix)
}

func (c *SWE) NewTimeStepper(dt float64) (ts timeStepper) {
	switch c.Stepper {
	case STEPPER_CrankNicolson:
		ts = c.NewThetaScheme(dt)
	case STEPPER_SSPRK3:
		ts = c.NewRungeKutta3SSP()
	default:
		err := fmt.Errorf("unknown stepper type %v", c.Stepper)
		panic(err)
	}
	return
}

// computeRHS evaluates the semi-discrete right hand side on the
// staggered grid. Pinned boundary faces get a zero tendency. Elevation
// sides enter the pressure gradient over the half spacing between the
// boundary line and the first cell center.
func (c *SWE) computeRHS(Eta, U, V, RHSEta, RHSU, RHSV utils.Matrix) {
	var (
		cm                     = c.Mesh
		g, H, Cd               = c.Gravity, c.Depth, c.Drag
		oodx, oody             = 1. / cm.Dx, 1. / cm.Dy
		leftTag                = c.boundaryTag(SW2D.BoundaryLeft)
		rightTag               = c.boundaryTag(SW2D.BoundaryRight)
		bottomTag              = c.boundaryTag(SW2D.BoundaryBottom)
		topTag                 = c.boundaryTag(SW2D.BoundaryTop)
		etaW, etaE, etaS, etaN float64
		wg                     = sync.WaitGroup{}
	)
	if leftTag == types.BCElevation {
		etaW = c.boundaryElevation(SW2D.BoundaryLeft)
	}
	if rightTag == types.BCElevation {
		etaE = c.boundaryElevation(SW2D.BoundaryRight)
	}
	if bottomTag == types.BCElevation {
		etaS = c.boundaryElevation(SW2D.BoundaryBottom)
	}
	if topTag == types.BCElevation {
		etaN = c.boundaryElevation(SW2D.BoundaryTop)
	}
	for np := 0; np < c.Partitions.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			jmin, jmax := c.Partitions.GetBucketRange(np)
			for j := jmin; j < jmax; j++ {
				if leftTag == types.BCElevation {
					RHSU.Set(j, 0, -2.*g*(Eta.At(j, 0)-etaW)*oodx-Cd*U.At(j, 0))
				} else {
					RHSU.Set(j, 0, 0)
				}
				for i := 1; i < cm.Nx; i++ {
					RHSU.Set(j, i, -g*(Eta.At(j, i)-Eta.At(j, i-1))*oodx-Cd*U.At(j, i))
				}
				if rightTag == types.BCElevation {
					RHSU.Set(j, cm.Nx, -2.*g*(etaE-Eta.At(j, cm.Nx-1))*oodx-Cd*U.At(j, cm.Nx))
				} else {
					RHSU.Set(j, cm.Nx, 0)
				}
				for i := 0; i < cm.Nx; i++ {
					RHSEta.Set(j, i,
						-H*((U.At(j, i+1)-U.At(j, i))*oodx+(V.At(j+1, i)-V.At(j, i))*oody))
				}
			}
		}(np)
	}
	for np := 0; np < c.VPartitions.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			jmin, jmax := c.VPartitions.GetBucketRange(np)
			for j := jmin; j < jmax; j++ {
				switch {
				case j == 0:
					for i := 0; i < cm.Nx; i++ {
						if bottomTag == types.BCElevation {
							RHSV.Set(0, i, -2.*g*(Eta.At(0, i)-etaS)*oody-Cd*V.At(0, i))
						} else {
							RHSV.Set(0, i, 0)
						}
					}
				case j == cm.Ny:
					for i := 0; i < cm.Nx; i++ {
						if topTag == types.BCElevation {
							RHSV.Set(cm.Ny, i, -2.*g*(etaN-Eta.At(cm.Ny-1, i))*oody-Cd*V.At(cm.Ny, i))
						} else {
							RHSV.Set(cm.Ny, i, 0)
						}
					}
				default:
					for i := 0; i < cm.Nx; i++ {
						RHSV.Set(j, i, -g*(Eta.At(j, i)-Eta.At(j-1, i))*oody-Cd*V.At(j, i))
					}
				}
			}
		}(np)
	}
	wg.Wait()
}

// RungeKutta3SSP is the explicit strong stability preserving three
// stage scheme of Shu and Osher.
type RungeKutta3SSP struct {
	Eta1, U1, V1       utils.Matrix
	Eta2, U2, V2       utils.Matrix
	RHSEta, RHSU, RHSV utils.Matrix
}

func (c *SWE) NewRungeKutta3SSP() (rk *RungeKutta3SSP) {
	var (
		cm = c.Mesh
	)
	rk = &RungeKutta3SSP{
		Eta1: cm.NewElevationField(), U1: cm.NewUField(), V1: cm.NewVField(),
		Eta2: cm.NewElevationField(), U2: cm.NewUField(), V2: cm.NewVField(),
		RHSEta: cm.NewElevationField(), RHSU: cm.NewUField(), RHSV: cm.NewVField(),
	}
	return
}

func (rk *RungeKutta3SSP) Step(c *SWE, dt float64) (Residual [3]utils.Matrix) {
	// Refresh pinned faces with the current forcing values
	c.applyVelocityBCs(c.U, c.V)

	c.computeRHS(c.Eta, c.U, c.V, rk.RHSEta, rk.RHSU, rk.RHSV)
	rk.Eta1.Zero().Add(c.Eta).AddScaled(rk.RHSEta, dt)
	rk.U1.Zero().Add(c.U).AddScaled(rk.RHSU, dt)
	rk.V1.Zero().Add(c.V).AddScaled(rk.RHSV, dt)

	c.computeRHS(rk.Eta1, rk.U1, rk.V1, rk.RHSEta, rk.RHSU, rk.RHSV)
	rk.Eta2.Zero().AddScaled(c.Eta, 3./4.).AddScaled(rk.Eta1, 1./4.).AddScaled(rk.RHSEta, dt/4.)
	rk.U2.Zero().AddScaled(c.U, 3./4.).AddScaled(rk.U1, 1./4.).AddScaled(rk.RHSU, dt/4.)
	rk.V2.Zero().AddScaled(c.V, 3./4.).AddScaled(rk.V1, 1./4.).AddScaled(rk.RHSV, dt/4.)

	c.computeRHS(rk.Eta2, rk.U2, rk.V2, rk.RHSEta, rk.RHSU, rk.RHSV)
	c.Eta.Scale(1. / 3.).AddScaled(rk.Eta2, 2./3.).AddScaled(rk.RHSEta, 2.*dt/3.)
	c.U.Scale(1. / 3.).AddScaled(rk.U2, 2./3.).AddScaled(rk.RHSU, 2.*dt/3.)
	c.V.Scale(1. / 3.).AddScaled(rk.V2, 2./3.).AddScaled(rk.RHSV, 2.*dt/3.)

	Residual = [3]utils.Matrix{rk.RHSEta, rk.RHSU, rk.RHSV}
	return
}

// ThetaScheme is the semi-implicit theta method, Crank Nicolson at
// theta = 0.5. Velocities are eliminated from the continuity equation,
// leaving one symmetric positive definite Helmholtz system for the new
// elevation. The operator is assembled once and solved every step by
// conjugate gradients.
type ThetaScheme struct {
	A              utils.CSR
	RHS, EtaNew    []float64
	Ustar, Vstar   utils.Matrix
	DEta, DU, DV   utils.Matrix // Rate of change over the step
	ADrag          float64      // Implicit drag factor 1/(1 + dt Cd)
	AlphaX, AlphaY float64
	CGTol          float64
	CGMaxIter      int
}

func (c *SWE) NewThetaScheme(dt float64) (th *ThetaScheme) {
	var (
		cm    = c.Mesh
		n     = cm.NCells()
		aDrag = 1. / (1. + dt*c.Drag)
		alpha = aDrag * c.Gravity * c.Depth * (dt * c.Theta) * (dt * c.Theta)
	)
	th = &ThetaScheme{
		RHS:       make([]float64, n),
		EtaNew:    make([]float64, n),
		Ustar:     cm.NewUField(),
		Vstar:     cm.NewVField(),
		DEta:      cm.NewElevationField(),
		DU:        cm.NewUField(),
		DV:        cm.NewVField(),
		ADrag:     aDrag,
		AlphaX:    alpha / (cm.Dx * cm.Dx),
		AlphaY:    alpha / (cm.Dy * cm.Dy),
		CGTol:     1.e-10,
		CGMaxIter: n,
	}
	th.A = th.assembleOperator(c)
	return
}

// assembleOperator builds the elevation system over the cell centered
// unknowns. Walls and flux sides carry no gradient coupling through the
// boundary. Elevation sides couple to the boundary value at half
// spacing, which lands on the diagonal and keeps the operator
// symmetric, the boundary data goes to the right hand side each step.
func (th *ThetaScheme) assembleOperator(c *SWE) utils.CSR {
	var (
		cm        = c.Mesh
		ax, ay    = th.AlphaX, th.AlphaY
		leftTag   = c.boundaryTag(SW2D.BoundaryLeft)
		rightTag  = c.boundaryTag(SW2D.BoundaryRight)
		bottomTag = c.boundaryTag(SW2D.BoundaryBottom)
		topTag    = c.boundaryTag(SW2D.BoundaryTop)
		A         = utils.NewDOK(cm.NCells(), cm.NCells())
	)
	for j := 0; j < cm.Ny; j++ {
		for i := 0; i < cm.Nx; i++ {
			var (
				row  = cm.CellIndex(i, j)
				diag = 1.
			)
			switch {
			case i > 0:
				diag += ax
				A.Set(row, cm.CellIndex(i-1, j), -ax)
			case leftTag == types.BCElevation:
				diag += 2. * ax
			}
			switch {
			case i < cm.Nx-1:
				diag += ax
				A.Set(row, cm.CellIndex(i+1, j), -ax)
			case rightTag == types.BCElevation:
				diag += 2. * ax
			}
			switch {
			case j > 0:
				diag += ay
				A.Set(row, cm.CellIndex(i, j-1), -ay)
			case bottomTag == types.BCElevation:
				diag += 2. * ay
			}
			switch {
			case j < cm.Ny-1:
				diag += ay
				A.Set(row, cm.CellIndex(i, j+1), -ay)
			case topTag == types.BCElevation:
				diag += 2. * ay
			}
			A.Set(row, row, diag)
		}
	}
	return A.ToCSR()
}

func (th *ThetaScheme) Step(c *SWE, dt float64) (Residual [3]utils.Matrix) {
	var (
		cm                     = c.Mesh
		g, H                   = c.Gravity, c.Depth
		theta                  = c.Theta
		a                      = th.ADrag
		oodx, oody             = 1. / cm.Dx, 1. / cm.Dy
		gdtE                   = g * dt * (1. - theta) // Explicit gradient weight
		gdtI                   = a * g * dt * theta    // Implicit gradient weight
		leftTag                = c.boundaryTag(SW2D.BoundaryLeft)
		rightTag               = c.boundaryTag(SW2D.BoundaryRight)
		bottomTag              = c.boundaryTag(SW2D.BoundaryBottom)
		topTag                 = c.boundaryTag(SW2D.BoundaryTop)
		etaW, etaE, etaS, etaN float64
		wg                     = sync.WaitGroup{}
	)
	if leftTag == types.BCElevation {
		etaW = c.boundaryElevation(SW2D.BoundaryLeft)
	}
	if rightTag == types.BCElevation {
		etaE = c.boundaryElevation(SW2D.BoundaryRight)
	}
	if bottomTag == types.BCElevation {
		etaS = c.boundaryElevation(SW2D.BoundaryBottom)
	}
	if topTag == types.BCElevation {
		etaN = c.boundaryElevation(SW2D.BoundaryTop)
	}

	// Refresh pinned faces with the current forcing values
	c.applyVelocityBCs(c.U, c.V)

	// Provisional velocities, the explicit part of the momentum update
	// with the drag factor folded in. Pinned faces keep their values.
	for np := 0; np < c.Partitions.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			jmin, jmax := c.Partitions.GetBucketRange(np)
			for j := jmin; j < jmax; j++ {
				if leftTag == types.BCElevation {
					th.Ustar.Set(j, 0, a*(c.U.At(j, 0)-2.*gdtE*(c.Eta.At(j, 0)-etaW)*oodx))
				} else {
					th.Ustar.Set(j, 0, c.U.At(j, 0))
				}
				for i := 1; i < cm.Nx; i++ {
					th.Ustar.Set(j, i, a*(c.U.At(j, i)-gdtE*(c.Eta.At(j, i)-c.Eta.At(j, i-1))*oodx))
				}
				if rightTag == types.BCElevation {
					th.Ustar.Set(j, cm.Nx, a*(c.U.At(j, cm.Nx)-2.*gdtE*(etaE-c.Eta.At(j, cm.Nx-1))*oodx))
				} else {
					th.Ustar.Set(j, cm.Nx, c.U.At(j, cm.Nx))
				}
			}
		}(np)
	}
	for np := 0; np < c.VPartitions.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			jmin, jmax := c.VPartitions.GetBucketRange(np)
			for j := jmin; j < jmax; j++ {
				switch {
				case j == 0:
					for i := 0; i < cm.Nx; i++ {
						if bottomTag == types.BCElevation {
							th.Vstar.Set(0, i, a*(c.V.At(0, i)-2.*gdtE*(c.Eta.At(0, i)-etaS)*oody))
						} else {
							th.Vstar.Set(0, i, c.V.At(0, i))
						}
					}
				case j == cm.Ny:
					for i := 0; i < cm.Nx; i++ {
						if topTag == types.BCElevation {
							th.Vstar.Set(cm.Ny, i, a*(c.V.At(cm.Ny, i)-2.*gdtE*(etaN-c.Eta.At(cm.Ny-1, i))*oody))
						} else {
							th.Vstar.Set(cm.Ny, i, c.V.At(cm.Ny, i))
						}
					}
				default:
					for i := 0; i < cm.Nx; i++ {
						th.Vstar.Set(j, i, a*(c.V.At(j, i)-gdtE*(c.Eta.At(j, i)-c.Eta.At(j-1, i))*oody))
					}
				}
			}
		}(np)
	}
	wg.Wait()

	// Right hand side is the old elevation minus the weighted divergence
	// of the old and provisional velocities, plus elevation boundary data
	for np := 0; np < c.Partitions.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			jmin, jmax := c.Partitions.GetBucketRange(np)
			for j := jmin; j < jmax; j++ {
				for i := 0; i < cm.Nx; i++ {
					var (
						row     = cm.CellIndex(i, j)
						divOld  = (c.U.At(j, i+1)-c.U.At(j, i))*oodx + (c.V.At(j+1, i)-c.V.At(j, i))*oody
						divStar = (th.Ustar.At(j, i+1)-th.Ustar.At(j, i))*oodx + (th.Vstar.At(j+1, i)-th.Vstar.At(j, i))*oody
					)
					rhs := c.Eta.At(j, i) - H*dt*((1.-theta)*divOld+theta*divStar)
					if i == 0 && leftTag == types.BCElevation {
						rhs += 2. * th.AlphaX * etaW
					}
					if i == cm.Nx-1 && rightTag == types.BCElevation {
						rhs += 2. * th.AlphaX * etaE
					}
					if j == 0 && bottomTag == types.BCElevation {
						rhs += 2. * th.AlphaY * etaS
					}
					if j == cm.Ny-1 && topTag == types.BCElevation {
						rhs += 2. * th.AlphaY * etaN
					}
					th.RHS[row] = rhs
				}
			}
		}(np)
	}
	wg.Wait()

	// Warm start the solve from the old elevation
	copy(th.EtaNew, c.Eta.Data())
	iter, resid := th.A.SolveCG(th.RHS, th.EtaNew, th.CGTol, th.CGMaxIter)
	if resid >= th.CGTol {
		err := fmt.Errorf("conjugate gradient stalled after %d iterations, residual = %v", iter, resid)
		panic(err)
	}

	// Correct the velocities with the implicit gradient of the new
	// elevation and write the new fields back
	for np := 0; np < c.Partitions.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			jmin, jmax := c.Partitions.GetBucketRange(np)
			for j := jmin; j < jmax; j++ {
				if leftTag == types.BCElevation {
					unew := th.Ustar.At(j, 0) - 2.*gdtI*(th.EtaNew[cm.CellIndex(0, j)]-etaW)*oodx
					th.DU.Set(j, 0, (unew-c.U.At(j, 0))/dt)
					c.U.Set(j, 0, unew)
				} else {
					th.DU.Set(j, 0, 0)
				}
				for i := 1; i < cm.Nx; i++ {
					unew := th.Ustar.At(j, i) - gdtI*(th.EtaNew[cm.CellIndex(i, j)]-th.EtaNew[cm.CellIndex(i-1, j)])*oodx
					th.DU.Set(j, i, (unew-c.U.At(j, i))/dt)
					c.U.Set(j, i, unew)
				}
				if rightTag == types.BCElevation {
					unew := th.Ustar.At(j, cm.Nx) - 2.*gdtI*(etaE-th.EtaNew[cm.CellIndex(cm.Nx-1, j)])*oodx
					th.DU.Set(j, cm.Nx, (unew-c.U.At(j, cm.Nx))/dt)
					c.U.Set(j, cm.Nx, unew)
				} else {
					th.DU.Set(j, cm.Nx, 0)
				}
				for i := 0; i < cm.Nx; i++ {
					row := cm.CellIndex(i, j)
					th.DEta.Set(j, i, (th.EtaNew[row]-c.Eta.At(j, i))/dt)
					c.Eta.Set(j, i, th.EtaNew[row])
				}
			}
		}(np)
	}
	for np := 0; np < c.VPartitions.ParallelDegree; np++ {
		wg.Add(1)
		go func(np int) {
			defer wg.Done()
			jmin, jmax := c.VPartitions.GetBucketRange(np)
			for j := jmin; j < jmax; j++ {
				switch {
				case j == 0:
					for i := 0; i < cm.Nx; i++ {
						if bottomTag == types.BCElevation {
							vnew := th.Vstar.At(0, i) - 2.*gdtI*(th.EtaNew[cm.CellIndex(i, 0)]-etaS)*oody
							th.DV.Set(0, i, (vnew-c.V.At(0, i))/dt)
							c.V.Set(0, i, vnew)
						} else {
							th.DV.Set(0, i, 0)
						}
					}
				case j == cm.Ny:
					for i := 0; i < cm.Nx; i++ {
						if topTag == types.BCElevation {
							vnew := th.Vstar.At(cm.Ny, i) - 2.*gdtI*(etaN-th.EtaNew[cm.CellIndex(i, cm.Ny-1)])*oody
							th.DV.Set(cm.Ny, i, (vnew-c.V.At(cm.Ny, i))/dt)
							c.V.Set(cm.Ny, i, vnew)
						} else {
							th.DV.Set(cm.Ny, i, 0)
						}
					}
				default:
					for i := 0; i < cm.Nx; i++ {
						vnew := th.Vstar.At(j, i) - gdtI*(th.EtaNew[cm.CellIndex(i, j)]-th.EtaNew[cm.CellIndex(i, j-1)])*oody
						th.DV.Set(j, i, (vnew-c.V.At(j, i))/dt)
						c.V.Set(j, i, vnew)
					}
				}
			}
		}(np)
	}
	wg.Wait()

	Residual = [3]utils.Matrix{th.DEta, th.DU, th.DV}
	return
}
