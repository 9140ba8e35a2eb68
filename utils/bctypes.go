package utils

import (
	"fmt"
	"strings"
)

// BCType represents the boundary condition kinds for porous media flow
type BCType uint16

const (
	// BCNone indicates no boundary condition (interior face)
	BCNone BCType = iota

	BCDirichlet // Prescribed fluid state (pressure and saturation) outside the face
	BCNoFlow    // Impermeable face, all phase fluxes are zero
	BCOutflow   // Exterior state copied from the interior cell, gravity drives the flux
)

// String returns the string representation of a BCType
func (bc BCType) String() string {
	names := map[BCType]string{
		BCNone:      "None",
		BCDirichlet: "Dirichlet",
		BCNoFlow:    "NoFlow",
		BCOutflow:   "Outflow",
	}

	if name, ok := names[bc]; ok {
		return name
	}
	return "Unknown"
}

// BCNameMap provides a mapping from common boundary condition names to BCType
// Keys are lowercase for case-insensitive matching
var BCNameMap = map[string]BCType{
	"dirichlet":  BCDirichlet,
	"pressure":   BCDirichlet,
	"fixedstate": BCDirichlet,

	"noflow":      BCNoFlow,
	"no_flow":     BCNoFlow,
	"wall":        BCNoFlow,
	"neumann":     BCNoFlow,
	"impermeable": BCNoFlow,

	"outflow": BCOutflow,
	"outlet":  BCOutflow,
	"free":    BCOutflow,
}

// ParseBCName converts a boundary condition name string to BCType
// The matching is case-insensitive and trims whitespace
func ParseBCName(name string) (bcType BCType, err error) {
	var (
		ok        bool
		lowerName = strings.ToLower(strings.TrimSpace(name))
	)
	if bcType, ok = BCNameMap[lowerName]; !ok {
		err = fmt.Errorf("unknown boundary condition type %q", name)
	}
	return
}
