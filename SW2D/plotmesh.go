package SW2D

import (
	"github.com/notargets/avs/geometry"
	"github.com/pradeep-pyro/triangle"
)

// PlotMesh triangulates the cell centers for shaded field rendering.
// Delaunay on the structured point set reduces to a diagonal split of each
// quad, giving 2*(Nx-1)*(Ny-1) display triangles whose vertices carry the
// cell-centered field values directly.
func (cm *ChannelMesh) PlotMesh() (gm geometry.TriMesh) {
	var (
		nPts = cm.NCells()
		pts  = make([][2]float64, nPts)
		xc   = cm.Xc.Data()
		yc   = cm.Yc.Data()
	)
	for j := 0; j < cm.Ny; j++ {
		for i := 0; i < cm.Nx; i++ {
			ind := cm.CellIndex(i, j)
			pts[ind][0] = xc[i]
			pts[ind][1] = yc[j]
		}
	}
	tris := triangle.Delaunay(pts)
	gm = geometry.TriMesh{
		XY:       make([]float32, 2*nPts),
		TriVerts: make([][3]int64, len(tris)),
	}
	for i, pt := range pts {
		gm.XY[2*i] = float32(pt[0])
		gm.XY[2*i+1] = float32(pt[1])
	}
	for k, tri := range tris {
		for n := 0; n < 3; n++ {
			gm.TriVerts[k][n] = int64(tri[n])
		}
	}
	return
}
