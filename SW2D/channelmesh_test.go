package SW2D

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelMesh(t *testing.T) {
	cm := NewChannelMesh(40000, 2000, 80, 4)
	{ // Spacings and coordinates
		assert.Equal(t, 500., cm.Dx)
		assert.Equal(t, 500., cm.Dy)
		assert.Equal(t, 80, cm.Xc.Len())
		assert.Equal(t, 81, cm.Xf.Len())
		assert.Equal(t, 250., cm.Xc.AtVec(0))
		assert.Equal(t, 0., cm.Xf.AtVec(0))
		assert.Equal(t, 40000., cm.Xf.AtVec(80))
		assert.InDelta(t, 39750., cm.Xc.AtVec(79), 1.e-9)
	}
	{ // Field allocation matches the staggering
		eta := cm.NewElevationField()
		u := cm.NewUField()
		v := cm.NewVField()
		nr, nc := eta.Dims()
		assert.Equal(t, [2]int{4, 80}, [2]int{nr, nc})
		nr, nc = u.Dims()
		assert.Equal(t, [2]int{4, 81}, [2]int{nr, nc})
		nr, nc = v.Dims()
		assert.Equal(t, [2]int{5, 80}, [2]int{nr, nc})
	}
	{ // Flattened numbering runs x fastest
		assert.Equal(t, 0, cm.CellIndex(0, 0))
		assert.Equal(t, 79, cm.CellIndex(79, 0))
		assert.Equal(t, 80, cm.CellIndex(0, 1))
		assert.Equal(t, cm.NCells()-1, cm.CellIndex(79, 3))
	}
	{ // Boundary sides
		assert.Equal(t, 2000., cm.BoundaryLength(BoundaryLeft))
		assert.Equal(t, 40000., cm.BoundaryLength(BoundaryTop))
		assert.Equal(t, 4, cm.BoundaryFaceCount(BoundaryRight))
		assert.Equal(t, 80, cm.BoundaryFaceCount(BoundaryBottom))
		assert.Panics(t, func() { cm.BoundaryLength(5) })
	}
	assert.Panics(t, func() { NewChannelMesh(-1, 1, 1, 1) })
}

func TestPlotMesh(t *testing.T) {
	cm := NewChannelMesh(4000, 2000, 8, 4)
	gm := cm.PlotMesh()
	assert.Equal(t, 2*cm.NCells(), len(gm.XY))
	// A structured point set triangulates into two triangles per quad
	assert.Equal(t, 2*(cm.Nx-1)*(cm.Ny-1), len(gm.TriVerts))
	// Vertex order matches the cell numbering
	assert.Equal(t, float32(250.), gm.XY[0])
	assert.Equal(t, float32(250.), gm.XY[1])
	for _, tri := range gm.TriVerts {
		for _, v := range tri {
			assert.True(t, v >= 0 && v < int64(cm.NCells()))
		}
	}
}
