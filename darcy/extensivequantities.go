package darcy

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/goporous/fluids"
	"github.com/notargets/goporous/utils"
)

// UndefinedGradient is the potential gradient component of phases the model
// does not consider
var UndefinedGradient = math.NaN()

// ExtensiveQuantities holds the per phase flux state of one face. A value is
// reused face after face by one worker and must not be shared.
type ExtensiveQuantities struct {
	numPhases, dim   int
	potentialGrad    []*mat.VecDense
	filterVelocity   []*mat.VecDense
	volumeFlux       []float64
	mobility         []float64
	upstreamDofIdx   []int
	downstreamDofIdx []int
	K                mat.Symmetric
	normal           mat.Vector
	interiorDofIdx   int
	exteriorDofIdx   int
	faceIdx          int
	onBoundary       bool
	gradientsReady   bool
	law              VelocityLaw
	kr               []float64
}

func NewExtensiveQuantities(numPhases, dim int) (eq *ExtensiveQuantities) {
	eq = &ExtensiveQuantities{
		numPhases:        numPhases,
		dim:              dim,
		potentialGrad:    make([]*mat.VecDense, numPhases),
		filterVelocity:   make([]*mat.VecDense, numPhases),
		volumeFlux:       make([]float64, numPhases),
		mobility:         make([]float64, numPhases),
		upstreamDofIdx:   make([]int, numPhases),
		downstreamDofIdx: make([]int, numPhases),
		law:              DarcyLaw{},
		kr:               make([]float64, numPhases),
	}
	for phaseIdx := 0; phaseIdx < numPhases; phaseIdx++ {
		eq.potentialGrad[phaseIdx] = mat.NewVecDense(dim, nil)
		eq.filterVelocity[phaseIdx] = mat.NewVecDense(dim, nil)
	}
	eq.Reset()
	return
}

// SetVelocityLaw replaces the Darcy law used by CalculateFluxes
func (eq *ExtensiveQuantities) SetVelocityLaw(law VelocityLaw) { eq.law = law }

// Reset clears all per face state
func (eq *ExtensiveQuantities) Reset() {
	for phaseIdx := 0; phaseIdx < eq.numPhases; phaseIdx++ {
		eq.potentialGrad[phaseIdx].Zero()
		eq.filterVelocity[phaseIdx].Zero()
		eq.volumeFlux[phaseIdx] = 0
		eq.mobility[phaseIdx] = 0
		eq.upstreamDofIdx[phaseIdx] = -1
		eq.downstreamDofIdx[phaseIdx] = -1
	}
	eq.K, eq.normal = nil, nil
	eq.interiorDofIdx, eq.exteriorDofIdx, eq.faceIdx = -1, -1, -1
	eq.onBoundary, eq.gradientsReady = false, false
}

// Update calculates gradients and fluxes of interior face faceIdx
func (eq *ExtensiveQuantities) Update(ctx ElementContext, faceIdx, timeIdx int) (err error) {
	if err = eq.CalculateGradients(ctx, faceIdx, timeIdx); err != nil {
		return
	}
	return eq.CalculateFluxes(ctx, faceIdx, timeIdx)
}

// UpdateBoundary calculates gradients and fluxes of boundary face bfIdx
// against the boundary state fs
func (eq *ExtensiveQuantities) UpdateBoundary(ctx ElementContext, bfIdx, timeIdx int,
	fs fluids.FluidState, cache *fluids.ParameterCache) (err error) {
	if err = eq.CalculateBoundaryGradients(ctx, bfIdx, timeIdx, fs, cache); err != nil {
		return
	}
	return eq.CalculateBoundaryFluxes(ctx, bfIdx, timeIdx)
}

// CalculateGradients computes the potential gradient of every considered
// phase at interior face faceIdx, the face permeability and the upstream
// direction. The gradient is the pressure gradient corrected by the
// hydrostatic pressure difference between both DOFs if gravity is enabled.
func (eq *ExtensiveQuantities) CalculateGradients(ctx ElementContext, faceIdx, timeIdx int) (err error) {
	var (
		problem   = ctx.Problem()
		model     = ctx.Model()
		face      = ctx.Stencil(timeIdx).InteriorFace(faceIdx)
		i, j      = face.InteriorIndex(), face.ExteriorIndex()
		gravityOn = problem.EnableGravity()
		gradCalc  = ctx.GradientCalculator()
	)
	eq.gradientsReady = false
	eq.interiorDofIdx, eq.exteriorDofIdx = i, j
	eq.faceIdx, eq.onBoundary = faceIdx, false
	eq.normal = face.Normal()
	for phaseIdx := 0; phaseIdx < eq.numPhases; phaseIdx++ {
		grad := eq.potentialGrad[phaseIdx]
		if !model.PhaseIsConsidered(phaseIdx) {
			utils.VecFill(grad, UndefinedGradient)
			continue
		}
		gradCalc.CalculateGradient(grad, ctx, faceIdx,
			PressureCallback{Ctx: ctx, PhaseIdx: phaseIdx, TimeIdx: timeIdx})
		if gravityOn {
			var (
				posIn   = ctx.Pos(i, timeIdx)
				posEx   = ctx.Pos(j, timeIdx)
				posFace = face.IntegrationPos()
				rhoIn   = ctx.IntensiveQuantities(i, timeIdx).FluidState().Density(phaseIdx)
				rhoEx   = ctx.IntensiveQuantities(j, timeIdx).FluidState().Density(phaseIdx)
				pStatIn = -rhoIn * hydrostaticHead(problem.Gravity(ctx, i, timeIdx), posIn, posFace)
				pStatEx = -rhoEx * hydrostaticHead(problem.Gravity(ctx, j, timeIdx), posEx, posFace)
			)
			addGravityCorrection(grad, utils.VecDiff(posEx, posIn), pStatEx-pStatIn)
		}
		if !utils.IsFinite(grad) {
			return eq.numericalProblem(ctx, phaseIdx, false)
		}
	}
	eq.K = problem.IntersectionIntrinsicPermeability(ctx, faceIdx, timeIdx)
	for phaseIdx := 0; phaseIdx < eq.numPhases; phaseIdx++ {
		if !model.PhaseIsConsidered(phaseIdx) {
			eq.setNotConsidered(phaseIdx)
			continue
		}
		up := eq.upwind(phaseIdx)
		eq.mobility[phaseIdx] = ctx.IntensiveQuantities(up, timeIdx).Mobility(phaseIdx)
	}
	eq.gradientsReady = true
	return
}

// CalculateBoundaryGradients is CalculateGradients for boundary face bfIdx,
// where the exterior side is the boundary state fs. If the boundary is
// upstream the mobility is evaluated from fs with the material law
// parameters of the interior DOF.
func (eq *ExtensiveQuantities) CalculateBoundaryGradients(ctx ElementContext, bfIdx, timeIdx int,
	fs fluids.FluidState, cache *fluids.ParameterCache) (err error) {
	var (
		problem   = ctx.Problem()
		model     = ctx.Model()
		face      = ctx.Stencil(timeIdx).BoundaryFace(bfIdx)
		i         = face.InteriorIndex()
		gravityOn = problem.EnableGravity()
		gradCalc  = ctx.GradientCalculator()
		iq        = ctx.IntensiveQuantities(i, timeIdx)
	)
	eq.gradientsReady = false
	eq.interiorDofIdx, eq.exteriorDofIdx = i, -1
	eq.faceIdx, eq.onBoundary = bfIdx, true
	eq.normal = face.Normal()
	for phaseIdx := 0; phaseIdx < eq.numPhases; phaseIdx++ {
		grad := eq.potentialGrad[phaseIdx]
		if !model.PhaseIsConsidered(phaseIdx) {
			utils.VecFill(grad, UndefinedGradient)
			continue
		}
		gradCalc.CalculateBoundaryGradient(grad, ctx, bfIdx, BoundaryPressureCallback{
			PressureCallback: PressureCallback{Ctx: ctx, PhaseIdx: phaseIdx, TimeIdx: timeIdx},
			BoundaryState:    fs,
		})
		if gravityOn {
			var (
				posIn   = ctx.Pos(i, timeIdx)
				posFace = face.IntegrationPos()
				rhoIn   = iq.FluidState().Density(phaseIdx)
				pStatIn = -rhoIn * hydrostaticHead(problem.Gravity(ctx, i, timeIdx), posIn, posFace)
			)
			// the hydrostatic pressure is zero at the face itself
			addGravityCorrection(grad, utils.VecDiff(posFace, posIn), -pStatIn)
		}
		if !utils.IsFinite(grad) {
			return eq.numericalProblem(ctx, phaseIdx, true)
		}
	}
	eq.K = iq.IntrinsicPermeability()
	krReady := false
	for phaseIdx := 0; phaseIdx < eq.numPhases; phaseIdx++ {
		if !model.PhaseIsConsidered(phaseIdx) {
			eq.setNotConsidered(phaseIdx)
			continue
		}
		if up := eq.upwind(phaseIdx); up == i {
			eq.mobility[phaseIdx] = iq.Mobility(phaseIdx)
			continue
		}
		// kr of the boundary state is the same for all phases
		if !krReady {
			if err = ctx.MaterialLaw().RelativePermeabilities(eq.kr,
				problem.MaterialLawParams(ctx, i, timeIdx), fs); err != nil {
				return
			}
			krReady = true
		}
		mu := ctx.FluidSystem().Viscosity(fs, cache, phaseIdx)
		eq.mobility[phaseIdx] = eq.kr[phaseIdx] / mu
	}
	eq.gradientsReady = true
	return
}

// CalculateFluxes evaluates the filter velocity and the volume flux per unit
// face area of every phase at interior face faceIdx, from the gradients
// calculated for that face
func (eq *ExtensiveQuantities) CalculateFluxes(ctx ElementContext, faceIdx, timeIdx int) (err error) {
	if err = eq.checkFace(faceIdx, false); err != nil {
		return
	}
	eq.calculateFluxes(ctx, ctx.Stencil(timeIdx).InteriorFace(faceIdx).Normal())
	return
}

// CalculateBoundaryFluxes is CalculateFluxes for boundary face bfIdx
func (eq *ExtensiveQuantities) CalculateBoundaryFluxes(ctx ElementContext, bfIdx, timeIdx int) (err error) {
	if err = eq.checkFace(bfIdx, true); err != nil {
		return
	}
	eq.calculateFluxes(ctx, ctx.Stencil(timeIdx).BoundaryFace(bfIdx).Normal())
	return
}

func (eq *ExtensiveQuantities) checkFace(faceIdx int, boundary bool) error {
	if !eq.gradientsReady {
		return ErrGradientsNotReady
	}
	if faceIdx != eq.faceIdx || boundary != eq.onBoundary {
		return &FaceMismatchError{
			GradientFace: eq.faceIdx, GradientBoundary: eq.onBoundary,
			FluxFace: faceIdx, FluxBoundary: boundary,
		}
	}
	return nil
}

func (eq *ExtensiveQuantities) calculateFluxes(ctx ElementContext, normal mat.Vector) {
	model := ctx.Model()
	for phaseIdx := 0; phaseIdx < eq.numPhases; phaseIdx++ {
		v := eq.filterVelocity[phaseIdx]
		if !model.PhaseIsConsidered(phaseIdx) {
			v.Zero()
			eq.volumeFlux[phaseIdx] = 0
			continue
		}
		eq.law.FilterVelocity(v, phaseIdx, eq.potentialGrad[phaseIdx], eq.K, eq.mobility[phaseIdx])
		eq.volumeFlux[phaseIdx] = mat.Dot(v, normal)
	}
}

// upwind picks the upstream DOF from the sign of grad·n. A positive
// projection means the potential rises towards the exterior, so the flow
// comes from there; zero falls to the interior.
func (eq *ExtensiveQuantities) upwind(phaseIdx int) (up int) {
	if mat.Dot(eq.potentialGrad[phaseIdx], eq.normal) > 0 {
		eq.upstreamDofIdx[phaseIdx] = eq.exteriorDofIdx
		eq.downstreamDofIdx[phaseIdx] = eq.interiorDofIdx
	} else {
		eq.upstreamDofIdx[phaseIdx] = eq.interiorDofIdx
		eq.downstreamDofIdx[phaseIdx] = eq.exteriorDofIdx
	}
	return eq.upstreamDofIdx[phaseIdx]
}

func (eq *ExtensiveQuantities) setNotConsidered(phaseIdx int) {
	eq.upstreamDofIdx[phaseIdx] = eq.interiorDofIdx
	eq.downstreamDofIdx[phaseIdx] = eq.exteriorDofIdx
	eq.mobility[phaseIdx] = 0
}

func (eq *ExtensiveQuantities) numericalProblem(ctx ElementContext, phaseIdx int, boundary bool) error {
	return &NumericalProblemError{
		PhaseName: ctx.FluidSystem().PhaseName(phaseIdx),
		PhaseIdx:  phaseIdx,
		FaceIdx:   eq.faceIdx,
		Boundary:  boundary,
		Gradient:  utils.VecGetF64(eq.potentialGrad[phaseIdx]),
	}
}

// hydrostaticHead is g·(pos - posFace)
func hydrostaticHead(g mat.Vector, pos, posFace []float64) float64 {
	return mat.Dot(g, mat.NewVecDense(len(pos), utils.VecDiff(pos, posFace)))
}

// addGravityCorrection adds the finite difference d·dp/|d|² of a hydrostatic
// pressure difference dp over the distance vector d
func addGravityCorrection(grad *mat.VecDense, d []float64, dp float64) {
	dist2 := utils.Norm2Squared(d)
	grad.AddScaledVec(grad, dp/dist2, mat.NewVecDense(len(d), d))
}

func (eq *ExtensiveQuantities) PotentialGrad(phaseIdx int) mat.Vector {
	return eq.potentialGrad[phaseIdx]
}

func (eq *ExtensiveQuantities) FilterVelocity(phaseIdx int) mat.Vector {
	return eq.filterVelocity[phaseIdx]
}

func (eq *ExtensiveQuantities) VolumeFlux(phaseIdx int) float64 {
	return eq.volumeFlux[phaseIdx]
}

func (eq *ExtensiveQuantities) Mobility(phaseIdx int) float64 {
	return eq.mobility[phaseIdx]
}

func (eq *ExtensiveQuantities) UpstreamIndex(phaseIdx int) int {
	return eq.upstreamDofIdx[phaseIdx]
}

func (eq *ExtensiveQuantities) DownstreamIndex(phaseIdx int) int {
	return eq.downstreamDofIdx[phaseIdx]
}

func (eq *ExtensiveQuantities) IntrinsicPermeability() mat.Symmetric {
	return eq.K
}

func (eq *ExtensiveQuantities) InteriorIndex() int {
	return eq.interiorDofIdx
}

func (eq *ExtensiveQuantities) ExteriorIndex() int {
	return eq.exteriorDofIdx
}

func (eq *ExtensiveQuantities) OnBoundary() bool {
	return eq.onBoundary
}

func (eq *ExtensiveQuantities) NumPhases() int {
	return eq.numPhases
}
