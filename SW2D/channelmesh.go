package SW2D

import (
	"fmt"

	"github.com/notargets/goswe/utils"
)

// Boundary identifiers assigned to the four sides of the rectangle, in the
// convention of the coastal-ocean mesh utilities: 1 = left (x=0),
// 2 = right (x=Lx), 3 = bottom (y=0), 4 = top (y=Ly).
const (
	BoundaryLeft = iota + 1
	BoundaryRight
	BoundaryBottom
	BoundaryTop
)

// ChannelMesh is a structured Arakawa C-grid over [0,Lx] x [0,Ly] with
// Nx x Ny cells: elevation unknowns live at cell centers, u on the x-normal
// faces ((Nx+1) per row), v on the y-normal faces ((Ny+1) per column).
// Field matrices are indexed At(j, i) with j the y (row) index and i the x
// (column) index, so flattened storage runs x-fastest.
type ChannelMesh struct {
	Lx, Ly float64
	Nx, Ny int
	Dx, Dy float64
	Xc, Yc utils.Vector // Cell center coordinates
	Xf, Yf utils.Vector // Face coordinates
}

func NewChannelMesh(lx, ly float64, nx, ny int) (cm *ChannelMesh) {
	if lx <= 0 || ly <= 0 || nx < 1 || ny < 1 {
		err := fmt.Errorf("invalid channel dimensions: %v x %v with %d x %d cells", lx, ly, nx, ny)
		panic(err)
	}
	cm = &ChannelMesh{
		Lx: lx, Ly: ly,
		Nx: nx, Ny: ny,
		Dx: lx / float64(nx),
		Dy: ly / float64(ny),
	}
	cm.Xc = utils.NewRangeVector(0.5*cm.Dx, lx-0.5*cm.Dx, nx)
	cm.Yc = utils.NewRangeVector(0.5*cm.Dy, ly-0.5*cm.Dy, ny)
	cm.Xf = utils.NewRangeVector(0, lx, nx+1)
	cm.Yf = utils.NewRangeVector(0, ly, ny+1)
	return
}

// NewElevationField allocates a cell-centered scalar field.
func (cm *ChannelMesh) NewElevationField() utils.Matrix {
	return utils.NewMatrix(cm.Ny, cm.Nx)
}

// NewUField allocates an x-face normal velocity field.
func (cm *ChannelMesh) NewUField() utils.Matrix {
	return utils.NewMatrix(cm.Ny, cm.Nx+1)
}

// NewVField allocates a y-face normal velocity field.
func (cm *ChannelMesh) NewVField() utils.Matrix {
	return utils.NewMatrix(cm.Ny+1, cm.Nx)
}

// CellIndex flattens cell (i, j) into the row-major unknown numbering used
// by the implicit elevation system.
func (cm *ChannelMesh) CellIndex(i, j int) int {
	return i + j*cm.Nx
}

// NCells is the number of elevation unknowns.
func (cm *ChannelMesh) NCells() int { return cm.Nx * cm.Ny }

// BoundaryLength returns the length of one side of the rectangle.
func (cm *ChannelMesh) BoundaryLength(id int) (length float64) {
	switch id {
	case BoundaryLeft, BoundaryRight:
		length = cm.Ly
	case BoundaryBottom, BoundaryTop:
		length = cm.Lx
	default:
		err := fmt.Errorf("unknown boundary identifier %d", id)
		panic(err)
	}
	return
}

// BoundaryFaceCount returns the number of velocity faces on one side.
func (cm *ChannelMesh) BoundaryFaceCount(id int) (n int) {
	switch id {
	case BoundaryLeft, BoundaryRight:
		n = cm.Ny
	case BoundaryBottom, BoundaryTop:
		n = cm.Nx
	default:
		err := fmt.Errorf("unknown boundary identifier %d", id)
		panic(err)
	}
	return
}

func (cm *ChannelMesh) Print() {
	fmt.Printf("Channel mesh: %.0fm x %.0fm, %d x %d cells, dx = %.1fm, dy = %.1fm\n",
		cm.Lx, cm.Ly, cm.Nx, cm.Ny, cm.Dx, cm.Dy)
}
