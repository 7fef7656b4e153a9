package SWE2D

import (
	"fmt"
	"math"
	"time"

	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/geometry"
	utils2 "github.com/notargets/avs/utils"
	"github.com/notargets/goswe/SW2D"
	"github.com/notargets/goswe/types"
	"github.com/notargets/goswe/utils"
)

type PlotMeta struct {
	Plot            bool
	Field           types.Field
	FieldMinP       *float64
	FieldMaxP       *float64
	FrameTime       time.Duration
	StepsBeforePlot int
}

type ChartState struct {
	chart *chart2d.Chart2D
	gm    *geometry.TriMesh
}

// GetPlotField samples the requested field at the cell centers. Face
// velocities are averaged to the centers.
func (c *SWE) GetPlotField(field types.Field) (f []float64) {
	var (
		cm = c.Mesh
	)
	f = make([]float64, cm.NCells())
	for j := 0; j < cm.Ny; j++ {
		for i := 0; i < cm.Nx; i++ {
			var (
				ind = cm.CellIndex(i, j)
				u   = 0.5 * (c.U.At(j, i) + c.U.At(j, i+1))
				v   = 0.5 * (c.V.At(j, i) + c.V.At(j+1, i))
			)
			switch field {
			case types.FieldElevation:
				f[ind] = c.Eta.At(j, i)
			case types.FieldU:
				f[ind] = u
			case types.FieldV:
				f[ind] = v
			case types.FieldSpeed:
				f[ind] = math.Sqrt(u*u + v*v)
			}
		}
	}
	return
}

// PlotSolution renders the selected field shaded over the cell center
// triangulation. The color map rescales every frame unless fixed bounds
// were given in the PlotMeta.
func (c *SWE) PlotSolution(pm *PlotMeta) {
	var (
		cm    = c.Mesh
		field = c.GetPlotField(pm.Field)
	)
	if c.chart.chart == nil {
		gm := cm.PlotMesh()
		c.chart.gm = &gm
		width := 1800
		height := int(float64(width) * cm.Ly / cm.Lx)
		if height < 200 {
			height = 200
		}
		if height > 1080 {
			height = 1080
		}
		c.chart.chart = chart2d.NewChart2D(0, float32(cm.Lx), 0, float32(cm.Ly),
			width, height, utils2.WHITE, utils2.BLACK)
		c.chart.chart.AddTriMesh(gm)
		c.chart.chart.AddLine(channelOutline(cm), utils.GetColor(utils.Black))
	}
	fmin, fmax := getFieldMinMax(field)
	if pm.FieldMinP != nil {
		fmin = *pm.FieldMinP
	}
	if pm.FieldMaxP != nil {
		fmax = *pm.FieldMaxP
	}
	if fmax <= fmin {
		fmin, fmax = fmin-1.e-3, fmin+1.e-3
	}
	pField := make([]float32, len(field))
	for i, fv := range field {
		pField[i] = float32(fv)
	}
	vs := geometry.VertexScalar{
		TMesh:       c.chart.gm,
		FieldValues: pField,
	}
	fmt.Printf(" Plot>%s min,max = %8.5f,%8.5f\n", pm.Field.String(), fmin, fmax)
	c.chart.chart.AddShadedVertexScalar(&vs, float32(fmin), float32(fmax))
	utils.SleepFor(int(pm.FrameTime.Milliseconds()))
}

// channelOutline packs the four channel walls as line segments.
func channelOutline(cm *SW2D.ChannelMesh) (line []float32) {
	var (
		lx, ly = float32(cm.Lx), float32(cm.Ly)
	)
	line = []float32{
		0, 0, lx, 0,
		lx, 0, lx, ly,
		lx, ly, 0, ly,
		0, ly, 0, 0,
	}
	return
}

func getFieldMinMax(field []float64) (fMin, fMax float64) {
	for i, f := range field {
		if i == 0 {
			fMin = f
			fMax = f
		}
		if f < fMin {
			fMin = f
		}
		if f > fMax {
			fMax = f
		}
	}
	return
}
