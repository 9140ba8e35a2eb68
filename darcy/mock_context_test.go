package darcy

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/goporous/fluids"
	"github.com/notargets/goporous/utils"
)

type testFluidState struct {
	p, rho, S []float64
	T         float64
}

func (fs *testFluidState) Pressure(phaseIdx int) float64   { return fs.p[phaseIdx] }
func (fs *testFluidState) Density(phaseIdx int) float64    { return fs.rho[phaseIdx] }
func (fs *testFluidState) Saturation(phaseIdx int) float64 { return fs.S[phaseIdx] }
func (fs *testFluidState) Temperature() float64            { return fs.T }

type testIntensiveQuantities struct {
	fs  *testFluidState
	mob []float64
	K   mat.Symmetric
}

func (iq *testIntensiveQuantities) FluidState() fluids.FluidState        { return iq.fs }
func (iq *testIntensiveQuantities) Mobility(phaseIdx int) float64        { return iq.mob[phaseIdx] }
func (iq *testIntensiveQuantities) IntrinsicPermeability() mat.Symmetric { return iq.K }

type testFace struct {
	normal   []float64
	pos      []float64
	in, ex   int
	faceArea float64
}

func (f testFace) Normal() mat.Vector        { return mat.NewVecDense(len(f.normal), f.normal) }
func (f testFace) IntegrationPos() []float64 { return f.pos }
func (f testFace) InteriorIndex() int        { return f.in }
func (f testFace) ExteriorIndex() int        { return f.ex }
func (f testFace) Area() float64             { return f.faceArea }

type testStencil struct {
	interior, boundary []testFace
}

func (s *testStencil) NumInteriorFaces() int   { return len(s.interior) }
func (s *testStencil) NumBoundaryFaces() int   { return len(s.boundary) }
func (s *testStencil) InteriorFace(i int) Face { return s.interior[i] }
func (s *testStencil) BoundaryFace(i int) Face { return s.boundary[i] }

// twoPointGradient is the finite difference along the line between both DOFs
type twoPointGradient struct{}

func (twoPointGradient) CalculateGradient(dst *mat.VecDense, ctx ElementContext, faceIdx int, cb PressureCallback) {
	f := ctx.Stencil(cb.TimeIdx).InteriorFace(faceIdx)
	var (
		i, j = f.InteriorIndex(), f.ExteriorIndex()
		d    = utils.VecDiff(ctx.Pos(j, cb.TimeIdx), ctx.Pos(i, cb.TimeIdx))
	)
	dst.ScaleVec((cb.Value(j)-cb.Value(i))/utils.Norm2Squared(d), mat.NewVecDense(len(d), d))
}

func (twoPointGradient) CalculateBoundaryGradient(dst *mat.VecDense, ctx ElementContext, bfIdx int, cb BoundaryPressureCallback) {
	f := ctx.Stencil(cb.TimeIdx).BoundaryFace(bfIdx)
	var (
		i = f.InteriorIndex()
		d = utils.VecDiff(f.IntegrationPos(), ctx.Pos(i, cb.TimeIdx))
	)
	dst.ScaleVec((cb.BoundaryValue()-cb.Value(i))/utils.Norm2Squared(d), mat.NewVecDense(len(d), d))
}

type testProblem struct {
	gravityOn bool
	g         []float64
	K         mat.Symmetric
}

func (p *testProblem) EnableGravity() bool { return p.gravityOn }
func (p *testProblem) Gravity(ctx ElementContext, dofIdx, timeIdx int) mat.Vector {
	return mat.NewVecDense(len(p.g), p.g)
}
func (p *testProblem) IntersectionIntrinsicPermeability(ctx ElementContext, faceIdx, timeIdx int) mat.Symmetric {
	return p.K
}
func (p *testProblem) MaterialLawParams(ctx ElementContext, dofIdx, timeIdx int) any {
	return fmt.Sprintf("params of %d", dofIdx)
}

type testFluidSystem struct {
	names []string
	mu    []float64
}

func (fsys *testFluidSystem) NumPhases() int                { return len(fsys.names) }
func (fsys *testFluidSystem) PhaseName(phaseIdx int) string { return fsys.names[phaseIdx] }
func (fsys *testFluidSystem) Viscosity(fs fluids.FluidState, cache *fluids.ParameterCache, phaseIdx int) float64 {
	return fsys.mu[phaseIdx]
}

// constantKr returns kr regardless of the state and records the params it saw
type constantKr struct {
	kr         []float64
	lastParams any
	calls      int
}

func (ml *constantKr) RelativePermeabilities(kr []float64, params any, fs fluids.FluidState) error {
	ml.lastParams = params
	ml.calls++
	copy(kr, ml.kr)
	return nil
}

type testModel struct {
	considered []bool
}

func (m *testModel) PhaseIsConsidered(phaseIdx int) bool { return m.considered[phaseIdx] }

type testContext struct {
	dim     int
	pos     [][]float64
	iqs     []*testIntensiveQuantities
	stencil *testStencil
	problem *testProblem
	model   *testModel
	fsys    *testFluidSystem
	ml      *constantKr
}

func (c *testContext) Dim() int                               { return c.dim }
func (c *testContext) Stencil(timeIdx int) Stencil            { return c.stencil }
func (c *testContext) Pos(dofIdx, timeIdx int) []float64      { return c.pos[dofIdx] }
func (c *testContext) GradientCalculator() GradientCalculator { return twoPointGradient{} }
func (c *testContext) Problem() Problem                       { return c.problem }
func (c *testContext) Model() Model                           { return c.model }
func (c *testContext) FluidSystem() FluidSystem               { return c.fsys }
func (c *testContext) MaterialLaw() MaterialLaw               { return c.ml }
func (c *testContext) IntensiveQuantities(dofIdx, timeIdx int) IntensiveQuantities {
	return c.iqs[dofIdx]
}

// newColumnContext returns two DOFs stacked along the last axis of a dim
// dimensional domain, one unit apart, with a face in the middle and one
// boundary face on top of the upper DOF. Both phases have pressure p[dof]
// and the given density.
func newColumnContext(dim int, p []float64, rho float64) (c *testContext) {
	var (
		up     = make([]float64, dim)
		posLo  = make([]float64, dim)
		posHi  = make([]float64, dim)
		posMid = make([]float64, dim)
		posTop = make([]float64, dim)
		K      = mat.NewSymDense(dim, nil)
	)
	up[dim-1] = 1
	posHi[dim-1], posMid[dim-1], posTop[dim-1] = 1, 0.5, 1.5
	for i := 0; i < dim; i++ {
		K.SetSym(i, i, 1.e-12)
	}
	c = &testContext{
		dim: dim,
		pos: [][]float64{posLo, posHi},
		stencil: &testStencil{
			interior: []testFace{{normal: up, pos: posMid, in: 0, ex: 1, faceArea: 1}},
			boundary: []testFace{{normal: up, pos: posTop, in: 1, ex: -1, faceArea: 1}},
		},
		problem: &testProblem{g: make([]float64, dim), K: K},
		model:   &testModel{considered: []bool{true, true}},
		fsys:    &testFluidSystem{names: []string{"w", "n"}, mu: []float64{1.e-3, 5.e-4}},
		ml:      &constantKr{kr: []float64{0.25, 0.5}},
	}
	c.problem.g[dim-1] = -9.81
	for dof := 0; dof < 2; dof++ {
		c.iqs = append(c.iqs, &testIntensiveQuantities{
			fs: &testFluidState{
				p:   []float64{p[dof], p[dof]},
				rho: []float64{rho, rho},
				S:   []float64{0.5, 0.5},
				T:   293.15,
			},
			// distinct per DOF so the upstream choice is visible
			mob: []float64{100. * float64(dof+1), 200. * float64(dof+1)},
			K:   K,
		})
	}
	return
}

// reversed swaps the interior and exterior DOF of the interior face
func (c *testContext) reversed() *testContext {
	r := *c
	f := c.stencil.interior[0]
	n := make([]float64, len(f.normal))
	for i := range n {
		n[i] = -f.normal[i]
	}
	r.stencil = &testStencil{
		interior: []testFace{{normal: n, pos: f.pos, in: f.ex, ex: f.in, faceArea: f.faceArea}},
		boundary: c.stencil.boundary,
	}
	return &r
}
