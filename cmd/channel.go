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
	"io/ioutil"
	"os"
	"time"

	"github.com/pkg/profile"

	"github.com/notargets/goswe/InputParameters"
	"github.com/notargets/goswe/forcing"
	"github.com/notargets/goswe/model_problems/SWE2D"
	"github.com/notargets/goswe/monitor"
	"github.com/notargets/goswe/readfiles"
	"github.com/notargets/goswe/recording"
	"github.com/notargets/goswe/types"
	"github.com/notargets/goswe/utils"

	"github.com/spf13/cobra"
)

type ModelChannel struct {
	ICFile         string
	CheckpointFile string
	ProbesFile     string
	OutputDir      string
	RecordFile     string
	Graph          bool
	GraphField     string
	PlotSteps      int
	Delay          time.Duration
	MonitorPort    int
	Parallelism    int
	Profile        bool
	Perf           bool
}

// ChannelCmd represents the channel command
var ChannelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Tidal channel solver for the linearized shallow water equations",
	Long: `Tidal channel solver for the linearized shallow water equations on a
rectangular channel with a staggered structured grid. Reads a YAML
input file describing the channel, the time stepping and the boundary
forcing, then integrates to the final time with optional gauge
recording, checkpointing and live plotting.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		fmt.Println("channel called")
		mc := &ModelChannel{}
		if mc.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		mc.CheckpointFile, _ = cmd.Flags().GetString("checkpoint")
		mc.ProbesFile, _ = cmd.Flags().GetString("probes")
		mc.OutputDir, _ = cmd.Flags().GetString("outputDir")
		mc.RecordFile, _ = cmd.Flags().GetString("record")
		mc.Graph, _ = cmd.Flags().GetBool("graph")
		mc.GraphField, _ = cmd.Flags().GetString("graphField")
		mc.PlotSteps, _ = cmd.Flags().GetInt("plotSteps")
		dr, _ := cmd.Flags().GetInt("delay")
		mc.Delay = time.Duration(time.Duration(dr) * time.Millisecond)
		mc.MonitorPort, _ = cmd.Flags().GetInt("monitor")
		mc.Parallelism, _ = cmd.Flags().GetInt("parallelism")
		mc.Profile, _ = cmd.Flags().GetBool("profile")
		mc.Perf, _ = cmd.Flags().GetBool("perf")
		ip := processChannelInput(mc)
		RunChannel(mc, ip)
	},
}

func processChannelInput(mc *ModelChannel) (ip *InputParameters.InputParametersSWE) {
	var (
		err error
	)
	if len(mc.ICFile) == 0 {
		err := fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML format")
		fmt.Printf("error: %s\n", err.Error())
		exampleFile := `
########################################
Title: "Tidal Channel"
Depth: 20.
ChannelLength: 40000.
ChannelWidth: 2000.
Nx: 80
Ny: 4
Dt: 50.
Theta: 0.5
Drag: 0.0025
FinalTime: 7200.
Stepper: CrankNicolson # Can be "SSPRK3"
ExportInterval: 100.
LogFrequency: 50
# Plot instants must be exact multiples of Dt under the default trigger
# policy, or they silently never fire
PlotTimes: [1000., 2000., 4000., 7000.]
BCs:
  Flux:
      1:
         baseline: 1000.
         amplitude: -2000.
         period: 43200.
  Elevation:
      2:
         value: 0.
########################################
`
		fmt.Printf("Example File:%s\n", exampleFile)
		os.Exit(1)
	}
	var data []byte
	if data, err = ioutil.ReadFile(mc.ICFile); err != nil {
		panic(err)
	}
	ip = &InputParameters.InputParametersSWE{}
	if err = ip.Parse(data); err != nil {
		panic(err)
	}
	return
}

func init() {
	rootCmd.AddCommand(ChannelCmd)
	ChannelCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- Depth\n\t- FinalTime\n\t- BCs")
	ChannelCmd.Flags().String("checkpoint", "", "checkpoint file to resume the run from")
	ChannelCmd.Flags().String("probes", "", "CSV file of gauge locations with a header line: name,x,y")
	ChannelCmd.Flags().StringP("outputDir", "o", "", "directory receiving checkpoint files")
	ChannelCmd.Flags().String("record", "", "record gauges and forcing to this sqlite database")
	ChannelCmd.Flags().BoolP("graph", "g", false, "display a graph while computing solution")
	ChannelCmd.Flags().StringP("graphField", "q", "elevation", "which field should be displayed - elevation, u, v, speed")
	ChannelCmd.Flags().IntP("plotSteps", "s", 1, "number of steps before plotting each frame")
	ChannelCmd.Flags().IntP("delay", "d", 0, "milliseconds of delay for plotting")
	ChannelCmd.Flags().Int("monitor", -1, "port for the status http server, 0 picks a free port")
	ChannelCmd.Flags().IntP("parallelism", "p", 0, "limit the number of parallel go routines, 0 uses all cores")
	ChannelCmd.Flags().Bool("profile", false, "write a cpu profile of the run")
	ChannelCmd.Flags().Bool("perf", false, "instrument the run with hardware performance counters")
}

func RunChannel(mc *ModelChannel, ip *InputParameters.InputParametersSWE) {
	var (
		bcs = SWE2D.NewBoundarySpecFromInput(ip.BCs)
		c   = SWE2D.NewSWE(ip.FinalTime, ip.ChannelLength, ip.ChannelWidth,
			ip.Depth, ip.Nx, ip.Ny, ip.CFL, ip.Dt, ip.Theta, ip.Drag,
			SWE2D.NewStepperType(ip.Stepper), bcs, mc.Parallelism,
			ip.MaxIterations, true)
	)
	if len(mc.CheckpointFile) != 0 {
		chk := readfiles.ReadCheckpoint(mc.CheckpointFile, true)
		c.SetState(chk.Eta, chk.U, chk.V, chk.Time, chk.Steps)
	}

	pm := &SWE2D.PlotMeta{
		Plot:            mc.Graph,
		Field:           types.NewField(mc.GraphField),
		FieldMinP:       nil,
		FieldMaxP:       nil,
		FrameTime:       mc.Delay,
		StepsBeforePlot: mc.PlotSteps,
	}
	if ip.LogFrequency > 0 {
		pm.StepsBeforePlot = ip.LogFrequency
	}
	if pm.StepsBeforePlot <= 0 {
		pm.StepsBeforePlot = 1
	}

	// Sinusoidal forcings advance once per completed step
	var tidal *forcing.Periodic
	for _, id := range bcs.IDs() {
		for _, role := range []string{forcing.RoleElevation, forcing.RoleFlux} {
			if p, ok := bcs.Get(id, role).(*forcing.Periodic); ok {
				c.AddStepHook(p)
				if tidal == nil {
					tidal = p
				}
			}
		}
	}

	var e *SWE2D.Exporter
	if ip.ExportInterval > 0 {
		var rec recording.Recorder
		if len(mc.RecordFile) != 0 {
			rec = recording.New(mc.RecordFile)
		}
		e = SWE2D.NewExporter(c, ip.ExportInterval, mc.OutputDir, rec)
		if len(mc.ProbesFile) != 0 {
			names, xs, ys := readfiles.ReadProbes(mc.ProbesFile)
			for i, name := range names {
				e.AddProbe(name, xs[i], ys[i])
			}
		}
		c.AddStepHook(e)
		e.Export(0)
	}

	if len(ip.PlotTimes) != 0 {
		ts := forcing.NewTriggerSet(ip.PlotTimes,
			forcing.NewTriggerPolicy(ip.TriggerPolicy), c.CalculateDT())
		action := func(tt float64) {
			if mc.Graph {
				c.PlotSolution(pm)
			}
			if e != nil {
				e.Export(tt)
			}
		}
		if tidal != nil {
			tidal.Observe(ts, action)
		} else {
			c.AddStepHook(&observer{ts: ts, action: action})
		}
	}

	if mc.MonitorPort >= 0 {
		m := monitor.NewMonitor().WithPortNumber(mc.MonitorPort)
		m.RegisterTimeTeller(c)
		m.RegisterProgressReporter(c)
		m.StartServer()
	}

	if mc.Profile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}
	if mc.Perf {
		if err := utils.InstrumentRun(func() error {
			c.Solve(pm)
			return nil
		}); err != nil {
			panic(err)
		}
	} else {
		c.Solve(pm)
	}
	if e != nil && e.Recorder != nil {
		e.Recorder.Flush()
	}
}

// observer fires trigger actions on runs with no sinusoidal forcing to
// ride on.
type observer struct {
	ts     *forcing.TriggerSet
	action func(t float64)
}

func (o *observer) OnStep(t float64) {
	if o.ts.Match(t) {
		o.action(t)
	}
}
