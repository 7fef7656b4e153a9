package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"
)

var (
	csvFile string
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	studies := readCSV(csvFile)
	for _, cs := range studies {
		fmt.Printf("Title = %s, Stepper = %s, Dt = %5.2f\n", cs.title, cs.stepper, cs.dt)
		for i := range cs.numPTS {
			fmt.Printf("%d, %v, %v, %v, %v, %v, %v\n",
				cs.numPTS[i], cs.etaRMS[i], cs.uRMS[i], cs.vRMS[i], cs.etaMAX[i], cs.uMAX[i], cs.vMAX[i])
		}
	}
}

type ConvergenceStudy struct {
	title              string
	stepper            string
	numPTS             []int
	dt                 float64
	etaRMS, uRMS, vRMS []float64
	etaMAX, uMAX, vMAX []float64
}

func NewConvergenceStudy(title, stepper string, dt float64) *ConvergenceStudy {
	return &ConvergenceStudy{
		title:   title,
		stepper: stepper,
		dt:      dt,
	}
}

func (cs *ConvergenceStudy) Add(numPTS int, etaRMS, uRMS, vRMS, etaMAX, uMAX, vMAX float64) {
	cs.numPTS = append(cs.numPTS, numPTS)
	cs.etaRMS = append(cs.etaRMS, etaRMS)
	cs.uRMS = append(cs.uRMS, uRMS)
	cs.vRMS = append(cs.vRMS, vRMS)
	cs.etaMAX = append(cs.etaMAX, etaMAX)
	cs.uMAX = append(cs.uMAX, uMAX)
	cs.vMAX = append(cs.vMAX, vMAX)
}

func readCSV(csvFile string) (studies map[string]*ConvergenceStudy) {
	var (
		records                                [][]string
		err                                    error
		f                                      *os.File
		ok                                     bool
		cs                                     *ConvergenceStudy
		dt                                     float64
		etaRMS, uRMS, vRMS, etaMAX, uMAX, vMAX float64
	)
	studies = make(map[string]*ConvergenceStudy)
	if f, err = os.Open(csvFile); err != nil {
		panic(err)
	}
	r := csv.NewReader(bufio.NewReader(f))
	if records, err = r.ReadAll(); err != nil {
		panic(err)
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		title, nptstxt, stepper, dttxt := rec[0], rec[1], rec[2], rec[3]
		npts, _ := strconv.Atoi(nptstxt)
		_, _ = fmt.Sscanf(dttxt, "%f", &dt)
		combTitle := title + stepper
		if cs, ok = studies[combTitle]; !ok {
			cs = NewConvergenceStudy(title, stepper, dt)
			studies[combTitle] = cs
		}
		_, _ = fmt.Sscanf(rec[4], "%f", &etaRMS)
		_, _ = fmt.Sscanf(rec[5], "%f", &uRMS)
		_, _ = fmt.Sscanf(rec[6], "%f", &vRMS)
		_, _ = fmt.Sscanf(rec[7], "%f", &etaMAX)
		_, _ = fmt.Sscanf(rec[8], "%f", &uMAX)
		_, _ = fmt.Sscanf(rec[9], "%f", &vMAX)
		cs.Add(npts, etaRMS, uRMS, vRMS, etaMAX, uMAX, vMAX)
	}
	return
}
