package fvcontext

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/goporous/fluids"
	"github.com/notargets/goporous/material"
)

// IntensiveQuantities are the secondary quantities of one cell at one time
// level, evaluated from the wetting pressure and the non-wetting saturation.
type IntensiveQuantities struct {
	fs        *fluids.TwoPhaseFluidState
	relPerm   []float64
	viscosity []float64
	mobility  []float64
	pc        []float64
	K         mat.Symmetric
}

func newIntensiveQuantities(fsys fluids.FluidSystem) *IntensiveQuantities {
	return &IntensiveQuantities{
		fs:        fluids.NewTwoPhaseFluidState(fsys),
		relPerm:   make([]float64, fluids.NumPhases),
		viscosity: make([]float64, fluids.NumPhases),
		mobility:  make([]float64, fluids.NumPhases),
		pc:        make([]float64, fluids.NumPhases),
	}
}

// Update evaluates the fluid state and the phase mobilities. The non-wetting
// pressure is pW + Pc(Sw).
func (iq *IntensiveQuantities) Update(fsys fluids.FluidSystem, law material.TwoPhaseLaw, K mat.Symmetric,
	Sn, pW, temperature float64) (err error) {
	var (
		ml material.TwoPhaseMaterialLaw
	)
	iq.fs.Update(Sn, pW, pW, temperature)
	if err = ml.CapillaryPressures(iq.pc, law, iq.fs); err != nil {
		return
	}
	iq.fs.Update(Sn, pW, pW+iq.pc[fluids.NonWettingPhase], temperature)
	if err = ml.RelativePermeabilities(iq.relPerm, law, iq.fs); err != nil {
		return
	}
	for phaseIdx := 0; phaseIdx < fluids.NumPhases; phaseIdx++ {
		iq.viscosity[phaseIdx] = fsys.Viscosity(iq.fs, nil, phaseIdx)
		iq.mobility[phaseIdx] = iq.relPerm[phaseIdx] / iq.viscosity[phaseIdx]
	}
	iq.K = K
	return
}

func (iq *IntensiveQuantities) FluidState() fluids.FluidState        { return iq.fs }
func (iq *IntensiveQuantities) State() *fluids.TwoPhaseFluidState    { return iq.fs }
func (iq *IntensiveQuantities) Mobility(phaseIdx int) float64        { return iq.mobility[phaseIdx] }
func (iq *IntensiveQuantities) Viscosity(phaseIdx int) float64       { return iq.viscosity[phaseIdx] }
func (iq *IntensiveQuantities) IntrinsicPermeability() mat.Symmetric { return iq.K }

func (iq *IntensiveQuantities) RelativePermeability(phaseIdx int) float64 {
	return iq.relPerm[phaseIdx]
}
