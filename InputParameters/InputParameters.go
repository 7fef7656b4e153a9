package InputParameters

import (
	"fmt"
	"sort"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type InputParametersSWE struct {
	Title          string                                `yaml:"Title"`
	Depth          float64                               `yaml:"Depth"`
	ChannelLength  float64                               `yaml:"ChannelLength"`
	ChannelWidth   float64                               `yaml:"ChannelWidth"`
	Nx             int                                   `yaml:"Nx"`
	Ny             int                                   `yaml:"Ny"`
	CFL            float64                               `yaml:"CFL"`
	Dt             float64                               `yaml:"Dt"`
	Theta          float64                               `yaml:"Theta"`
	Drag           float64                               `yaml:"Drag"`
	FinalTime      float64                               `yaml:"FinalTime"`
	Stepper        string                                `yaml:"Stepper"`
	ExportInterval float64                               `yaml:"ExportInterval"`
	LogFrequency   int                                   `yaml:"LogFrequency"`
	TriggerPolicy  string                                `yaml:"TriggerPolicy"`
	PlotTimes      []float64                             `yaml:"PlotTimes"`
	MaxIterations  int                                   `yaml:"MaxIterations"`
	BCs            map[string]map[int]map[string]float64 `yaml:"BCs"` // First key is BC role name, second is the boundary id
}

func (ip *InputParametersSWE) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersSWE) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("%8.2f\t\t= Depth\n", ip.Depth)
	fmt.Printf("%8.2f x %8.2f\t= Channel Length x Width\n", ip.ChannelLength, ip.ChannelWidth)
	fmt.Printf("%d x %d\t\t= Cells\n", ip.Nx, ip.Ny)
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5f\t\t= Dt\n", ip.Dt)
	fmt.Printf("%8.5f\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%s]\t\t\t= Stepper\n", ip.Stepper)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
