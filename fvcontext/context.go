// Package fvcontext evaluates a two-phase state on a cube grid and exposes it
// to the flux evaluator as an element context: cell centered DOFs, two time
// levels, two-point gradients and cell wise spatial parameters.
package fvcontext

import (
	"fmt"

	"github.com/notargets/goporous/darcy"
	"github.com/notargets/goporous/fluids"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/material"
	"github.com/notargets/goporous/primaryvars"
)

const NumTimeLevels = 2

// Primary variable indices of the two-phase model
const (
	PressureWIdx = iota
	SaturationNIdx
	NumEq
)

// Model decides which phases take part in the flow
type Model struct {
	Considered []bool
}

func NewModel(numPhases int) (m *Model) {
	m = &Model{Considered: make([]bool, numPhases)}
	for i := range m.Considered {
		m.Considered[i] = true
	}
	return
}

func (m *Model) PhaseIsConsidered(phaseIdx int) bool { return m.Considered[phaseIdx] }

type Context struct {
	Grid        *grid.CubeGrid
	Temperature float64
	stencil     *Stencil
	iqs         [NumTimeLevels][]*IntensiveQuantities
	problem     *Problem
	model       *Model
	fsys        fluids.FluidSystem
	ml          material.TwoPhaseMaterialLaw
	gradCalc    TwoPointGradient
}

func NewContext(cg *grid.CubeGrid, fsys fluids.FluidSystem, problem *Problem, temperature float64) (ctx *Context) {
	ctx = &Context{
		Grid:        cg,
		Temperature: temperature,
		stencil:     NewStencil(cg),
		problem:     problem,
		model:       NewModel(fsys.NumPhases()),
		fsys:        fsys,
	}
	for timeIdx := 0; timeIdx < NumTimeLevels; timeIdx++ {
		ctx.iqs[timeIdx] = make([]*IntensiveQuantities, cg.NumCells)
		for k := range ctx.iqs[timeIdx] {
			ctx.iqs[timeIdx][k] = newIntensiveQuantities(fsys)
		}
	}
	return
}

// SetState evaluates the intensive quantities of cell dofIdx at time level
// timeIdx from the wetting pressure and the non-wetting saturation
func (ctx *Context) SetState(timeIdx, dofIdx int, pW, Sn float64) error {
	if timeIdx < 0 || timeIdx >= NumTimeLevels {
		return fmt.Errorf("time index %d out of range [0, %d)", timeIdx, NumTimeLevels)
	}
	return ctx.iqs[timeIdx][dofIdx].Update(ctx.fsys, ctx.problem.Law(dofIdx), ctx.problem.Permeability(dofIdx),
		Sn, pW, ctx.Temperature)
}

// SetPrimaryVariables is SetState with the values taken from pv
func (ctx *Context) SetPrimaryVariables(timeIdx, dofIdx int, pv primaryvars.PrimaryVariables) error {
	if pv.NumEq() != NumEq {
		return fmt.Errorf("two-phase primary variables need %d entries, have %d", NumEq, pv.NumEq())
	}
	if err := pv.CheckDefined(); err != nil {
		return fmt.Errorf("cell %d: %w", dofIdx, err)
	}
	return ctx.SetState(timeIdx, dofIdx, pv.AtVec(PressureWIdx), pv.AtVec(SaturationNIdx))
}

// BoundaryState evaluates a fluid state for a boundary face of cell dofIdx,
// using the material law of that cell for the capillary pressure
func (ctx *Context) BoundaryState(dofIdx int, pW, Sn float64) (fs *fluids.TwoPhaseFluidState, err error) {
	iq := newIntensiveQuantities(ctx.fsys)
	if err = iq.Update(ctx.fsys, ctx.problem.Law(dofIdx), ctx.problem.Permeability(dofIdx),
		Sn, pW, ctx.Temperature); err != nil {
		return
	}
	fs = iq.fs
	return
}

// Advance copies the current time level onto the previous one
func (ctx *Context) Advance() {
	for k, iq := range ctx.iqs[primaryvars.CurrentTime] {
		prev := ctx.iqs[primaryvars.PreviousTime][k]
		prev.fs.Assign(iq.fs)
		copy(prev.relPerm, iq.relPerm)
		copy(prev.viscosity, iq.viscosity)
		copy(prev.mobility, iq.mobility)
		copy(prev.pc, iq.pc)
		prev.K = iq.K
	}
}

func (ctx *Context) Dim() int                                     { return ctx.Grid.Dim }
func (ctx *Context) Stencil(timeIdx int) darcy.Stencil            { return ctx.stencil }
func (ctx *Context) Pos(dofIdx, timeIdx int) []float64            { return ctx.Grid.CellCenters[dofIdx] }
func (ctx *Context) GradientCalculator() darcy.GradientCalculator { return ctx.gradCalc }
func (ctx *Context) Problem() darcy.Problem                       { return ctx.problem }
func (ctx *Context) Model() darcy.Model                           { return ctx.model }
func (ctx *Context) FluidSystem() darcy.FluidSystem               { return ctx.fsys }
func (ctx *Context) MaterialLaw() darcy.MaterialLaw               { return ctx.ml }
func (ctx *Context) Spatial() *Problem                            { return ctx.problem }
func (ctx *Context) PhaseModel() *Model                           { return ctx.model }

func (ctx *Context) IntensiveQuantities(dofIdx, timeIdx int) darcy.IntensiveQuantities {
	return ctx.iqs[timeIdx][dofIdx]
}

// Cell returns the concrete intensive quantities of a cell
func (ctx *Context) Cell(dofIdx, timeIdx int) *IntensiveQuantities {
	return ctx.iqs[timeIdx][dofIdx]
}
