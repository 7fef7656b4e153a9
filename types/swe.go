package types

import (
	"fmt"
	"strings"
)

// BCTag labels the boundary-value role applied to one side of the domain
// boundary. Sides with no role in the input file are closed walls.
type BCTag uint8

const (
	BCNone BCTag = iota

	// Closed boundary, zero normal velocity
	BCWall

	// Prescribed surface elevation (Dirichlet on eta)
	BCElevation

	// Prescribed total volume flux through the boundary, positive into
	// the domain
	BCFlux

	// Open boundary passing outgoing waves (reserved)
	BCRadiation
)

// String returns the string representation of a BCTag
func (bc BCTag) String() string {
	names := map[BCTag]string{
		BCNone:      "None",
		BCWall:      "Wall",
		BCElevation: "Elevation",
		BCFlux:      "Flux",
		BCRadiation: "Radiation",
	}
	if name, ok := names[bc]; ok {
		return name
	}
	return "Unknown"
}

// BCNameMap provides a mapping from input-file role names to BCTag
// Keys are lowercase for case-insensitive matching
var BCNameMap = map[string]BCTag{
	"wall":      BCWall,
	"closed":    BCWall,
	"elevation": BCElevation,
	"eta":       BCElevation,
	"flux":      BCFlux,
	"discharge": BCFlux,
	"radiation": BCRadiation,
	"open":      BCRadiation,
}

// ParseBCName converts a boundary role name to a BCTag
// The matching is case-insensitive and trims whitespace
// Unknown names default to a closed wall
func ParseBCName(name string) BCTag {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if tag, ok := BCNameMap[lowerName]; ok {
		return tag
	}
	return BCWall
}

// Field selects a scalar field of the solution for plotting and export.
type Field uint8

const (
	FieldElevation Field = iota
	FieldU
	FieldV
	FieldSpeed
)

func (f Field) String() string {
	names := map[Field]string{
		FieldElevation: "Elevation",
		FieldU:         "U",
		FieldV:         "V",
		FieldSpeed:     "Speed",
	}
	if name, ok := names[f]; ok {
		return name
	}
	return "Unknown"
}

var FieldNames = map[string]Field{
	"elevation": FieldElevation,
	"eta":       FieldElevation,
	"u":         FieldU,
	"v":         FieldV,
	"speed":     FieldSpeed,
	"velocity":  FieldSpeed,
}

func NewField(label string) (f Field) {
	var (
		ok  bool
		err error
	)
	if len(label) == 0 {
		return FieldElevation
	}
	label = strings.ToLower(strings.TrimSpace(label))
	if f, ok = FieldNames[label]; !ok {
		err = fmt.Errorf("unable to use plot field named %s", label)
		panic(err)
	}
	return
}
