// Package darcy computes upwinded, gravity corrected volumetric phase fluxes
// across the faces of a finite volume discretization of porous media flow.
//
// The flux evaluator does not own any grid or state; everything it needs is
// reached through an ElementContext.
package darcy

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/goporous/fluids"
)

type ElementContext interface {
	Dim() int
	Stencil(timeIdx int) Stencil
	// Pos is the center of DOF dofIdx
	Pos(dofIdx, timeIdx int) []float64
	IntensiveQuantities(dofIdx, timeIdx int) IntensiveQuantities
	GradientCalculator() GradientCalculator
	Problem() Problem
	Model() Model
	FluidSystem() FluidSystem
	MaterialLaw() MaterialLaw
}

type Stencil interface {
	NumInteriorFaces() int
	NumBoundaryFaces() int
	InteriorFace(faceIdx int) Face
	BoundaryFace(bfIdx int) Face
}

type Face interface {
	Normal() mat.Vector // unit normal pointing from the interior to the exterior DOF
	IntegrationPos() []float64
	InteriorIndex() int
	ExteriorIndex() int // -1 on boundary faces
	Area() float64
}

// IntensiveQuantities are the per DOF secondary quantities
type IntensiveQuantities interface {
	FluidState() fluids.FluidState
	Mobility(phaseIdx int) float64
	IntrinsicPermeability() mat.Symmetric
}

type GradientCalculator interface {
	CalculateGradient(dst *mat.VecDense, ctx ElementContext, faceIdx int, cb PressureCallback)
	// CalculateBoundaryGradient uses cb.BoundaryValue at the face integration point
	CalculateBoundaryGradient(dst *mat.VecDense, ctx ElementContext, bfIdx int, cb BoundaryPressureCallback)
}

type Problem interface {
	EnableGravity() bool
	Gravity(ctx ElementContext, dofIdx, timeIdx int) mat.Vector
	// IntersectionIntrinsicPermeability is the permeability tensor used at
	// interior face faceIdx, usually an average of both adjacent DOFs
	IntersectionIntrinsicPermeability(ctx ElementContext, faceIdx, timeIdx int) mat.Symmetric
	MaterialLawParams(ctx ElementContext, dofIdx, timeIdx int) any
}

type FluidSystem interface {
	NumPhases() int
	PhaseName(phaseIdx int) string
	Viscosity(fs fluids.FluidState, cache *fluids.ParameterCache, phaseIdx int) float64
}

type MaterialLaw interface {
	RelativePermeabilities(kr []float64, params any, fs fluids.FluidState) error
}

type Model interface {
	PhaseIsConsidered(phaseIdx int) bool
}

// PressureCallback reads the pressure of one phase from the intensive
// quantities of a DOF
type PressureCallback struct {
	Ctx      ElementContext
	PhaseIdx int
	TimeIdx  int
}

func (cb PressureCallback) Value(dofIdx int) float64 {
	return cb.Ctx.IntensiveQuantities(dofIdx, cb.TimeIdx).FluidState().Pressure(cb.PhaseIdx)
}

// BoundaryPressureCallback additionally reads the pressure of a caller
// supplied boundary state
type BoundaryPressureCallback struct {
	PressureCallback
	BoundaryState fluids.FluidState
}

func (cb BoundaryPressureCallback) BoundaryValue() float64 {
	return cb.BoundaryState.Pressure(cb.PhaseIdx)
}
