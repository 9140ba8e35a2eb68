// Package fluids holds the fluid system (phase properties) and the
// two-phase fluid state used by the flux and material-law packages.
package fluids

import (
	"fmt"
	"math"
	"strings"
)

const (
	WettingPhase = iota
	NonWettingPhase
	NumPhases
)

// FluidState is the read side of a thermodynamic state of all phases
type FluidState interface {
	Pressure(phaseIdx int) float64
	Density(phaseIdx int) float64
	Saturation(phaseIdx int) float64
	Temperature() float64
}

// FluidSystem provides phase properties. Density is a function of the phase
// pressure; viscosity is evaluated from a fluid state through a ParameterCache.
type FluidSystem interface {
	NumPhases() int
	PhaseName(phaseIdx int) string
	MolarMass(phaseIdx int) float64
	PhaseDensity(phaseIdx int, temperature, pressure float64) float64
	Viscosity(fs FluidState, cache *ParameterCache, phaseIdx int) float64
}

// ParameterCache stores the quantities of a fluid state that the fluid system
// needs repeatedly, so that a boundary state can be evaluated without
// recomputing them per phase.
type ParameterCache struct {
	Pressure    []float64
	Temperature float64
	valid       bool
}

func NewParameterCache(numPhases int) *ParameterCache {
	return &ParameterCache{Pressure: make([]float64, numPhases)}
}

// UpdateAll refreshes the cache from fs
func (pc *ParameterCache) UpdateAll(fs FluidState) {
	for i := range pc.Pressure {
		pc.Pressure[i] = fs.Pressure(i)
	}
	pc.Temperature = fs.Temperature()
	pc.valid = true
}

func (pc *ParameterCache) Valid() bool { return pc != nil && pc.valid }

// Phase describes a slightly compressible liquid or gas:
//
//	rho(p) = R0 + C (p - P0)
//	mu(p)  = Mu0 exp(CMu (p - P0))
type Phase struct {
	Name      string
	R0        float64 // density at reference pressure P0 [kg/m³]
	P0        float64 // reference pressure [Pa]
	C         float64 // density compressibility [kg/(m³ Pa)]
	Mu0       float64 // viscosity at P0 [Pa s]
	CMu       float64 // viscosity pressure coefficient [1/Pa]
	MolarMass float64 // [kg/mol]
}

// Water returns liquid water near standard conditions
func Water() Phase {
	return Phase{
		Name:      "w",
		R0:        1000.,
		P0:        1.e5,
		C:         4.53e-7,
		Mu0:       1.e-3,
		MolarMass: 18.e-3,
	}
}

// DNAPL returns a dense non-aqueous phase liquid (trichloroethene)
func DNAPL() Phase {
	return Phase{
		Name:      "n",
		R0:        1460.,
		P0:        1.e5,
		Mu0:       5.7e-4,
		MolarMass: 131.39e-3,
	}
}

// Air returns dry air as an ideal-gas-like linearized phase
func Air() Phase {
	return Phase{
		Name:      "g",
		R0:        1.2,
		P0:        1.e5,
		C:         1.17e-5,
		Mu0:       1.8e-5,
		MolarMass: 28.96e-3,
	}
}

// PhaseByName returns one of the predefined phases: water, dnapl or air
func PhaseByName(name string) (ph Phase, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "water", "w":
		ph = Water()
	case "dnapl", "n":
		ph = DNAPL()
	case "air", "g":
		ph = Air()
	default:
		err = fmt.Errorf("unknown phase %q, use one of water, dnapl, air", name)
	}
	return
}

// ImmiscibleFluidSystem is a fluid system of immiscible phases, each made of
// a single component with the same index as its phase.
type ImmiscibleFluidSystem struct {
	Phases []Phase
}

func NewImmiscibleFluidSystem(phases ...Phase) (fsys *ImmiscibleFluidSystem) {
	if len(phases) == 0 {
		panic(fmt.Errorf("fluid system needs at least one phase"))
	}
	fsys = &ImmiscibleFluidSystem{Phases: phases}
	return
}

func (fsys *ImmiscibleFluidSystem) NumPhases() int { return len(fsys.Phases) }

func (fsys *ImmiscibleFluidSystem) PhaseName(phaseIdx int) string {
	return fsys.Phases[phaseIdx].Name
}

func (fsys *ImmiscibleFluidSystem) MolarMass(phaseIdx int) float64 {
	return fsys.Phases[phaseIdx].MolarMass
}

func (fsys *ImmiscibleFluidSystem) PhaseDensity(phaseIdx int, temperature, pressure float64) float64 {
	ph := fsys.Phases[phaseIdx]
	return ph.R0 + ph.C*(pressure-ph.P0)
}

func (fsys *ImmiscibleFluidSystem) Viscosity(fs FluidState, cache *ParameterCache, phaseIdx int) float64 {
	var (
		ph = fsys.Phases[phaseIdx]
		p  float64
	)
	if ph.CMu == 0 {
		return ph.Mu0
	}
	if cache.Valid() {
		p = cache.Pressure[phaseIdx]
	} else {
		p = fs.Pressure(phaseIdx)
	}
	return ph.Mu0 * math.Exp(ph.CMu*(p-ph.P0))
}
