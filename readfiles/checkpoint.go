package readfiles

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/notargets/goswe/utils"
)

// Checkpoint holds one saved solver state.
type Checkpoint struct {
	Nx, Ny    int
	Lx, Ly    float64
	Depth     float64
	Time      float64
	Steps     int
	Eta, U, V utils.Matrix
}

// ReadCheckpoint loads a state written by the solver checkpoint writer:
// mesh dimensions and extents, depth, time and step count in little
// endian, then the elevation and the two face velocity fields in row
// major order.
func ReadCheckpoint(fileName string, verbose bool) (cp *Checkpoint) {
	var (
		file *os.File
		err  error
	)
	if verbose {
		fmt.Printf("Reading checkpoint file named: %s\n", fileName)
	}
	if file, err = os.Open(fileName); err != nil {
		panic(fmt.Errorf("unable to open file %s\n %s", fileName, err))
	}
	defer file.Close()

	var nx, ny, steps int64
	cp = &Checkpoint{}
	mustRead(file, &nx)
	mustRead(file, &ny)
	mustRead(file, &cp.Lx)
	mustRead(file, &cp.Ly)
	mustRead(file, &cp.Depth)
	mustRead(file, &cp.Time)
	mustRead(file, &steps)
	cp.Nx, cp.Ny, cp.Steps = int(nx), int(ny), int(steps)
	if cp.Nx <= 0 || cp.Ny <= 0 {
		panic(fmt.Errorf("corrupt checkpoint %s: %d x %d cells", fileName, cp.Nx, cp.Ny))
	}

	eta := make([]float64, cp.Nx*cp.Ny)
	u := make([]float64, (cp.Nx+1)*cp.Ny)
	v := make([]float64, cp.Nx*(cp.Ny+1))
	mustRead(file, eta)
	mustRead(file, u)
	mustRead(file, v)
	cp.Eta = utils.NewMatrix(cp.Ny, cp.Nx, eta)
	cp.U = utils.NewMatrix(cp.Ny, cp.Nx+1, u)
	cp.V = utils.NewMatrix(cp.Ny+1, cp.Nx, v)

	if verbose {
		fmt.Printf("Nx = %d, Ny = %d, time = %8.2f\n", cp.Nx, cp.Ny, cp.Time)
	}
	return
}

func mustRead(file *os.File, data interface{}) {
	if err := binary.Read(file, binary.LittleEndian, data); err != nil {
		panic(err)
	}
}
