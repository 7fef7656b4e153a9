package SWE2D

import (
	"fmt"
	"strings"

	"github.com/notargets/goswe/SW2D"
	"github.com/notargets/goswe/forcing"
	"github.com/notargets/goswe/types"
	"github.com/notargets/goswe/utils"
)

// NewBoundarySpecFromInput converts the BCs section of the input file
// into a BoundarySpec. The first key is the role name, the second the
// boundary id, the third the parameter name. A parameter set containing
// "period" builds a sinusoidal forcing from its "baseline", "amplitude"
// and "period" entries, otherwise "value" is taken as a constant. Sides
// that are not listed behave as closed walls.
func NewBoundarySpecFromInput(in map[string]map[int]map[string]float64) (bs forcing.BoundarySpec) {
	bs = forcing.NewBoundarySpec()
	for role, byID := range in {
		tag, present := types.BCNameMap[strings.ToLower(strings.TrimSpace(role))]
		if !present {
			err := fmt.Errorf("unknown boundary role %s", role)
			panic(err)
		}
		var roleName string
		switch tag {
		case types.BCElevation:
			roleName = forcing.RoleElevation
		case types.BCFlux:
			roleName = forcing.RoleFlux
		case types.BCWall:
			continue // Walls are the default, nothing to record
		default:
			err := fmt.Errorf("boundary role %s is not supported by the channel solver", role)
			panic(err)
		}
		for id, params := range byID {
			if _, timeVarying := params["period"]; timeVarying {
				bs.Set(id, roleName, forcing.NewPeriodic(
					params["baseline"], params["amplitude"], params["period"]))
			} else {
				bs.Set(id, roleName, forcing.Constant(params["value"]))
			}
		}
	}
	return
}

// boundaryTag classifies one side of the channel from its prescribed
// roles. Elevation wins over flux, sides with neither are walls.
func (c *SWE) boundaryTag(id int) types.BCTag {
	if c.BCs != nil {
		if c.BCs.Get(id, forcing.RoleElevation) != nil {
			return types.BCElevation
		}
		if c.BCs.Get(id, forcing.RoleFlux) != nil {
			return types.BCFlux
		}
	}
	return types.BCWall
}

// boundaryElevation is the prescribed elevation on one side.
func (c *SWE) boundaryElevation(id int) float64 {
	return c.BCs.Get(id, forcing.RoleElevation).Value()
}

// fluxVelocity converts the prescribed total volume flux through one
// side into the face normal velocity. The flux is signed positive into
// the domain regardless of which side carries it.
func (c *SWE) fluxVelocity(id int) (ub float64) {
	var (
		q    = c.BCs.Get(id, forcing.RoleFlux).Value()
		area = c.Mesh.BoundaryLength(id) * c.Depth
	)
	ub = q / area
	switch id {
	case SW2D.BoundaryRight, SW2D.BoundaryTop:
		ub = -ub // Inward is the negative coordinate direction
	}
	return
}

// applyVelocityBCs pins the normal velocity on every wall and flux side
// using the current forcing values. Faces on elevation sides are left
// free and evolve with the interior.
func (c *SWE) applyVelocityBCs(U, V utils.Matrix) {
	var (
		cm = c.Mesh
	)
	for _, id := range []int{SW2D.BoundaryLeft, SW2D.BoundaryRight} {
		tag := c.boundaryTag(id)
		if tag == types.BCElevation {
			continue
		}
		var ub float64
		if tag == types.BCFlux {
			ub = c.fluxVelocity(id)
		}
		i := 0
		if id == SW2D.BoundaryRight {
			i = cm.Nx
		}
		for j := 0; j < cm.Ny; j++ {
			U.Set(j, i, ub)
		}
	}
	for _, id := range []int{SW2D.BoundaryBottom, SW2D.BoundaryTop} {
		tag := c.boundaryTag(id)
		if tag == types.BCElevation {
			continue
		}
		var vb float64
		if tag == types.BCFlux {
			vb = c.fluxVelocity(id)
		}
		j := 0
		if id == SW2D.BoundaryTop {
			j = cm.Ny
		}
		for i := 0; i < cm.Nx; i++ {
			V.Set(j, i, vb)
		}
	}
}
