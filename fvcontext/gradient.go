package fvcontext

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/goporous/darcy"
	"github.com/notargets/goporous/utils"
)

// TwoPointGradient reconstructs face gradients from the two values on either
// side of the face, (vEx - vIn) d/|d|² with d the distance vector between
// both points. On a cube grid d is parallel to the face normal.
type TwoPointGradient struct{}

func (TwoPointGradient) CalculateGradient(dst *mat.VecDense, ctx darcy.ElementContext, faceIdx int,
	cb darcy.PressureCallback) {
	var (
		f    = ctx.Stencil(cb.TimeIdx).InteriorFace(faceIdx)
		i, j = f.InteriorIndex(), f.ExteriorIndex()
	)
	twoPoint(dst, ctx.Pos(i, cb.TimeIdx), ctx.Pos(j, cb.TimeIdx), cb.Value(i), cb.Value(j))
}

// CalculateBoundaryGradient uses the boundary value at the face integration point
func (TwoPointGradient) CalculateBoundaryGradient(dst *mat.VecDense, ctx darcy.ElementContext, bfIdx int,
	cb darcy.BoundaryPressureCallback) {
	var (
		f = ctx.Stencil(cb.TimeIdx).BoundaryFace(bfIdx)
		i = f.InteriorIndex()
	)
	twoPoint(dst, ctx.Pos(i, cb.TimeIdx), f.IntegrationPos(), cb.Value(i), cb.BoundaryValue())
}

func twoPoint(dst *mat.VecDense, posIn, posEx []float64, vIn, vEx float64) {
	d := utils.VecDiff(posEx, posIn)
	dst.ScaleVec((vEx-vIn)/utils.Norm2Squared(d), mat.NewVecDense(len(d), d))
}
