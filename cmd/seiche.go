/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"time"

	"github.com/notargets/goswe/model_problems/SWE2D"
	"github.com/notargets/goswe/model_problems/SWE2D/standing_wave"
	"github.com/notargets/goswe/types"
	"github.com/spf13/cobra"
)

type ModelSeiche struct {
	Nx, Ny        int
	Length, Width float64
	Depth         float64
	Amplitude     float64
	Mode          int
	Periods       float64
	CFL, Dt       float64
	Stepper       string
	Graph         bool
	PlotSteps     int
	Delay         time.Duration
}

// SeicheCmd represents the seiche command
var SeicheCmd = &cobra.Command{
	Use:   "seiche",
	Short: "Closed basin standing wave validated against the analytic solution",
	Long: `Runs a free standing wave in a closed basin and reports the elevation
error against the analytic seiche solution. Useful for checking the
accuracy of the time steppers and for grid convergence studies.

goswe seiche -n 80 --periods 1`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("seiche called")
		ms := &ModelSeiche{}
		ms.Nx, _ = cmd.Flags().GetInt("nx")
		ms.Ny, _ = cmd.Flags().GetInt("ny")
		ms.Length, _ = cmd.Flags().GetFloat64("length")
		ms.Width, _ = cmd.Flags().GetFloat64("width")
		ms.Depth, _ = cmd.Flags().GetFloat64("depth")
		ms.Amplitude, _ = cmd.Flags().GetFloat64("amplitude")
		ms.Mode, _ = cmd.Flags().GetInt("mode")
		ms.Periods, _ = cmd.Flags().GetFloat64("periods")
		ms.CFL, _ = cmd.Flags().GetFloat64("CFL")
		ms.Dt, _ = cmd.Flags().GetFloat64("dt")
		ms.Stepper, _ = cmd.Flags().GetString("stepper")
		ms.Graph, _ = cmd.Flags().GetBool("graph")
		ms.PlotSteps, _ = cmd.Flags().GetInt("plotSteps")
		dr, _ := cmd.Flags().GetInt("delay")
		ms.Delay = time.Duration(time.Duration(dr) * time.Millisecond)
		RunSeiche(ms)
	},
}

func init() {
	rootCmd.AddCommand(SeicheCmd)
	SeicheCmd.Flags().IntP("nx", "n", 80, "number of cells along the basin")
	SeicheCmd.Flags().Int("ny", 2, "number of cells across the basin")
	SeicheCmd.Flags().Float64P("length", "L", 40000, "basin length in meters")
	SeicheCmd.Flags().Float64P("width", "W", 2000, "basin width in meters")
	SeicheCmd.Flags().Float64P("depth", "H", 20, "resting water depth in meters")
	SeicheCmd.Flags().Float64P("amplitude", "a", 0.05, "initial wave amplitude in meters")
	SeicheCmd.Flags().IntP("mode", "m", 1, "seiche mode, number of half wavelengths")
	SeicheCmd.Flags().Float64("periods", 1, "number of seiche periods to integrate")
	SeicheCmd.Flags().Float64("CFL", 0.4, "CFL for the explicit stepper")
	SeicheCmd.Flags().Float64("dt", 0, "step size for the theta scheme, 0 takes T/256")
	SeicheCmd.Flags().String("stepper", "cn", "time stepper - cn or ssprk3")
	SeicheCmd.Flags().BoolP("graph", "g", false, "display a graph while computing solution")
	SeicheCmd.Flags().IntP("plotSteps", "s", 10, "number of steps before plotting each frame")
	SeicheCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
}

func RunSeiche(ms *ModelSeiche) {
	w := standing_wave.NewWave(ms.Amplitude, ms.Length, ms.Depth, ms.Mode)
	FinalTime := ms.Periods * w.Period()
	dt := ms.Dt
	if dt <= 0 {
		dt = w.Period() / 256.
	}
	c := SWE2D.NewSWE(FinalTime, ms.Length, ms.Width, ms.Depth, ms.Nx, ms.Ny,
		ms.CFL, dt, 0.5, 0, SWE2D.NewStepperType(ms.Stepper), nil, 0, 0, true)
	c.SetInitialElevation(func(x, y float64) (eta float64) {
		eta, _ = w.GetState(0, x)
		return
	})
	pm := &SWE2D.PlotMeta{
		Plot:            ms.Graph,
		Field:           types.FieldElevation,
		FrameTime:       ms.Delay,
		StepsBeforePlot: ms.PlotSteps,
	}
	c.Solve(pm)

	var (
		cm        = c.Mesh
		xc        = cm.Xc.Data()
		rms, maxE float64
	)
	for j := 0; j < cm.Ny; j++ {
		for i := 0; i < cm.Nx; i++ {
			eta, _ := w.GetState(c.Time, xc[i])
			diff := c.Eta.At(j, i) - eta
			rms += diff * diff
			if math.Abs(diff) > maxE {
				maxE = math.Abs(diff)
			}
		}
	}
	rms = math.Sqrt(rms / float64(cm.NCells()))
	fmt.Printf("\nSeiche mode %d over %4.2f periods, T = %8.2fs, dx = %8.2fm\n",
		ms.Mode, ms.Periods, w.Period(), cm.Dx)
	fmt.Printf("Elevation error vs analytic: RMS = %8.5e, Max = %8.5e\n", rms, maxE)
}
