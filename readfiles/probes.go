package readfiles

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
)

// ReadProbes loads gauge locations from a CSV file with a header row
// followed by records of name, x, y.
func ReadProbes(fileName string) (names []string, xs, ys []float64) {
	var (
		records [][]string
		err     error
		f       *os.File
		x, y    float64
	)
	if f, err = os.Open(fileName); err != nil {
		panic(fmt.Errorf("unable to open file %s\n %s", fileName, err))
	}
	defer f.Close()
	r := csv.NewReader(bufio.NewReader(f))
	if records, err = r.ReadAll(); err != nil {
		panic(err)
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		if len(rec) < 3 {
			panic(fmt.Errorf("probe record %d needs name, x, y - got %v", i, rec))
		}
		if _, err = fmt.Sscanf(rec[1], "%f", &x); err != nil {
			panic(fmt.Errorf("bad x coordinate in probe record %d: %v", i, rec))
		}
		if _, err = fmt.Sscanf(rec[2], "%f", &y); err != nil {
			panic(fmt.Errorf("bad y coordinate in probe record %d: %v", i, rec))
		}
		names = append(names, rec[0])
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return
}
