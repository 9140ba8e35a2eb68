package darcy

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/goporous/fluids"
)

func TestInteriorFlux(t *testing.T) {
	{ // Pressure drop upwards, flow goes up and the lower DOF is upstream
		ctx := newColumnContext(2, []float64{2.e5, 1.e5}, 1000)
		eq := NewExtensiveQuantities(2, 2)
		require.NoError(t, eq.Update(ctx, 0, 0))
		assert.InDeltaSlice(t, []float64{0, -1.e5}, mat.Col(nil, 0, eq.PotentialGrad(0)), 1.e-9)
		assert.Equal(t, 0, eq.UpstreamIndex(0))
		assert.Equal(t, 1, eq.DownstreamIndex(0))
		assert.Equal(t, 100., eq.Mobility(0))
		assert.Equal(t, 200., eq.Mobility(1))
		assert.InDelta(t, 1.e-5, eq.VolumeFlux(0), 1.e-18)
		assert.InDelta(t, 2.e-5, eq.VolumeFlux(1), 1.e-18)
		assert.InDelta(t, 1.e-5, eq.FilterVelocity(0).AtVec(1), 1.e-18)
		assert.Equal(t, 0., eq.FilterVelocity(0).AtVec(0))
		assert.False(t, eq.OnBoundary())
		assert.Equal(t, 0, eq.InteriorIndex())
		assert.Equal(t, 1, eq.ExteriorIndex())
		assert.Equal(t, ctx.problem.K, eq.IntrinsicPermeability())

		// Reversing the face negates the flux and swaps up and downstream
		rev := NewExtensiveQuantities(2, 2)
		require.NoError(t, rev.Update(ctx.reversed(), 0, 0))
		for phaseIdx := 0; phaseIdx < 2; phaseIdx++ {
			assert.Equal(t, -eq.VolumeFlux(phaseIdx), rev.VolumeFlux(phaseIdx))
			assert.Equal(t, eq.UpstreamIndex(phaseIdx), rev.UpstreamIndex(phaseIdx))
			assert.Equal(t, eq.DownstreamIndex(phaseIdx), rev.DownstreamIndex(phaseIdx))
			assert.Equal(t, eq.Mobility(phaseIdx), rev.Mobility(phaseIdx))
		}
		assert.Equal(t, 1, rev.InteriorIndex())
		assert.Equal(t, 0, rev.UpstreamIndex(0))

		eq.Reset()
		assert.Equal(t, -1, eq.UpstreamIndex(0))
		assert.Equal(t, 0., eq.VolumeFlux(0))
		assert.Nil(t, eq.IntrinsicPermeability())
	}
	{ // Uniform pressure without gravity, nothing moves
		ctx := newColumnContext(3, []float64{1.e5, 1.e5}, 1000)
		eq := NewExtensiveQuantities(2, 3)
		require.NoError(t, eq.Update(ctx, 0, 0))
		for phaseIdx := 0; phaseIdx < 2; phaseIdx++ {
			assert.Equal(t, []float64{0, 0, 0}, mat.Col(nil, 0, eq.PotentialGrad(phaseIdx)))
			assert.Equal(t, 0., eq.VolumeFlux(phaseIdx))
			assert.Equal(t, 0, eq.UpstreamIndex(phaseIdx), "a zero projection goes to the interior")
		}
	}
	{ // A phase the model ignores has an undefined gradient and no flux
		ctx := newColumnContext(2, []float64{2.e5, 1.e5}, 1000)
		ctx.model.considered[1] = false
		eq := NewExtensiveQuantities(2, 2)
		require.NoError(t, eq.Update(ctx, 0, 0))
		for i := 0; i < 2; i++ {
			assert.True(t, math.IsNaN(eq.PotentialGrad(1).AtVec(i)))
			assert.Equal(t, 0., eq.FilterVelocity(1).AtVec(i))
		}
		assert.Equal(t, 0., eq.VolumeFlux(1))
		assert.Equal(t, 0., eq.Mobility(1))
		assert.InDelta(t, 1.e-5, eq.VolumeFlux(0), 1.e-18)
	}
}

func TestGravity(t *testing.T) {
	var (
		rho, g, h = 1000., 9.81, 1.
	)
	for dim := 1; dim <= 3; dim++ {
		{ // Uniform pressure, the fluid above is pulled down into the interior DOF
			ctx := newColumnContext(dim, []float64{1.e5, 1.e5}, rho)
			ctx.problem.gravityOn = true
			eq := NewExtensiveQuantities(2, dim)
			require.NoError(t, eq.Update(ctx, 0, 0))
			assert.InDelta(t, rho*g*h, eq.PotentialGrad(0).AtVec(dim-1), 1.e-9)
			for i := 0; i < dim-1; i++ {
				assert.Equal(t, 0., eq.PotentialGrad(0).AtVec(i))
			}
			assert.Equal(t, 1, eq.UpstreamIndex(0))
			assert.Equal(t, 0, eq.DownstreamIndex(0))
			assert.Equal(t, 200., eq.Mobility(0))
			assert.InDelta(t, -200.*1.e-12*rho*g*h, eq.VolumeFlux(0), 1.e-18)
		}
		{ // Hydrostatic pressure balances gravity
			ctx := newColumnContext(dim, []float64{1.e5, 1.e5 - rho*g*h}, rho)
			ctx.problem.gravityOn = true
			eq := NewExtensiveQuantities(2, dim)
			require.NoError(t, eq.Update(ctx, 0, 0))
			assert.InDelta(t, 0., eq.PotentialGrad(0).AtVec(dim-1), 1.e-9)
			assert.InDelta(t, 0., eq.VolumeFlux(0), 1.e-20)
		}
	}
}

func TestBoundaryFlux(t *testing.T) {
	ctx := newColumnContext(2, []float64{1.e5, 1.e5}, 1000)
	bfs := &testFluidState{
		p:   []float64{1.e5, 1.e5},
		rho: []float64{1000, 1000},
		S:   []float64{0.5, 0.5},
		T:   293.15,
	}
	eq := NewExtensiveQuantities(2, 2)
	{ // Same state on both sides, no flux and the interior DOF is upstream
		require.NoError(t, eq.UpdateBoundary(ctx, 0, 0, bfs, nil))
		assert.True(t, eq.OnBoundary())
		assert.Equal(t, 1, eq.InteriorIndex())
		assert.Equal(t, -1, eq.ExteriorIndex())
		for phaseIdx := 0; phaseIdx < 2; phaseIdx++ {
			assert.Equal(t, 0., eq.VolumeFlux(phaseIdx))
			assert.Equal(t, 1, eq.UpstreamIndex(phaseIdx))
			assert.Equal(t, -1, eq.DownstreamIndex(phaseIdx))
		}
		assert.Equal(t, 200., eq.Mobility(0))
		// The boundary uses the permeability of the interior DOF
		assert.Equal(t, ctx.iqs[1].K, eq.IntrinsicPermeability())
	}
	{ // Hydrostatic boundary pressure with gravity, still no flux
		ctx.problem.gravityOn = true
		bfs.p[0] = 1.e5 - 1000*9.81*0.5
		require.NoError(t, eq.UpdateBoundary(ctx, 0, 0, bfs, nil))
		assert.InDelta(t, 0., eq.PotentialGrad(0).AtVec(1), 1.e-9)
		assert.InDelta(t, 0., eq.VolumeFlux(0), 1.e-20)
		ctx.problem.gravityOn = false
	}
	{ // Higher boundary pressure, the boundary is upstream and supplies the mobility
		bfs.p[0], bfs.p[1] = 2.e5, 2.e5
		ctx.ml.lastParams, ctx.ml.calls = nil, 0
		require.NoError(t, eq.UpdateBoundary(ctx, 0, 0, bfs, fluids.NewParameterCache(2)))
		// Both phases come from the boundary, kr is evaluated once
		assert.Equal(t, 1, ctx.ml.calls)
		assert.InDelta(t, 2.e5, eq.PotentialGrad(0).AtVec(1), 1.e-6)
		assert.Equal(t, -1, eq.UpstreamIndex(0))
		assert.Equal(t, 1, eq.DownstreamIndex(0))
		assert.Equal(t, "params of 1", ctx.ml.lastParams)
		assert.InDelta(t, 0.25/1.e-3, eq.Mobility(0), 1.e-12)
		assert.InDelta(t, 0.5/5.e-4, eq.Mobility(1), 1.e-12)
		assert.InDelta(t, -250.*1.e-12*2.e5, eq.VolumeFlux(0), 1.e-18)
		require.NoError(t, eq.CalculateBoundaryFluxes(ctx, 0, 0))
		assert.InDelta(t, -1000.*1.e-12*2.e5, eq.VolumeFlux(1), 1.e-18)
	}
}

func TestFluxFaceIndex(t *testing.T) {
	ctx := newColumnContext(2, []float64{2.e5, 1.e5}, 1000)
	eq := NewExtensiveQuantities(2, 2)
	require.NoError(t, eq.Update(ctx, 0, 0))
	flux := eq.VolumeFlux(0)
	require.True(t, flux > 0)
	{ // Fluxes are projected on the normal of the requested face
		f := &ctx.stencil.interior[0]
		f.normal = []float64{0, -1}
		require.NoError(t, eq.CalculateFluxes(ctx, 0, 0))
		assert.InDelta(t, -flux, eq.VolumeFlux(0), 1.e-20)
		f.normal = []float64{0, 1}
	}
	{ // Fluxes for any other face than the one of the gradients are refused
		for _, err := range []error{
			eq.CalculateFluxes(ctx, 1, 0),
			eq.CalculateBoundaryFluxes(ctx, 0, 0),
		} {
			var fme *FaceMismatchError
			require.True(t, errors.As(err, &fme))
			assert.Equal(t, 0, fme.GradientFace)
			assert.False(t, fme.GradientBoundary)
		}
		assert.Equal(t, flux, eq.VolumeFlux(0))
	}
	{ // Same for a boundary face
		bfs := &testFluidState{
			p:   []float64{1.e5, 1.e5},
			rho: []float64{1000, 1000},
			S:   []float64{0.5, 0.5},
		}
		require.NoError(t, eq.UpdateBoundary(ctx, 0, 0, bfs, nil))
		err := eq.CalculateFluxes(ctx, 0, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "interior face 0, gradients are for boundary face 0")
	}
}

func TestNumericalProblem(t *testing.T) {
	ctx := newColumnContext(2, []float64{2.e5, 1.e5}, 1000)
	eq := NewExtensiveQuantities(2, 2)
	require.NoError(t, eq.Update(ctx, 0, 0))
	flux := eq.VolumeFlux(0)
	{ // Interior face
		ctx.iqs[1].fs.p[0] = math.NaN()
		err := eq.Update(ctx, 0, 0)
		require.Error(t, err)
		var npe *NumericalProblemError
		require.True(t, errors.As(err, &npe))
		assert.Equal(t, "w", npe.PhaseName)
		assert.Equal(t, 0, npe.PhaseIdx)
		assert.Equal(t, 0, npe.FaceIdx)
		assert.False(t, npe.Boundary)
		assert.Contains(t, err.Error(), "interior face 0")
		// Nothing was written to the fluxes
		assert.Equal(t, flux, eq.VolumeFlux(0))
		assert.Equal(t, ErrGradientsNotReady, eq.CalculateFluxes(ctx, 0, 0))
		assert.True(t, IsNumericalProblem(err))
		ctx.iqs[1].fs.p[0] = 1.e5
	}
	{ // Boundary face
		bfs := &testFluidState{
			p:   []float64{1.e5, math.Inf(1)},
			rho: []float64{1000, 1000},
			S:   []float64{0.5, 0.5},
		}
		err := eq.UpdateBoundary(ctx, 0, 0, bfs, nil)
		var npe *NumericalProblemError
		require.True(t, errors.As(err, &npe))
		assert.Equal(t, "n", npe.PhaseName)
		assert.True(t, npe.Boundary)
		assert.Equal(t, flux, eq.VolumeFlux(0))
	}
	assert.False(t, IsNumericalProblem(ErrGradientsNotReady))
}

func TestVelocityLaws(t *testing.T) {
	var (
		K    = mat.NewSymDense(2, []float64{2.e-12, 0, 0, 1.e-12})
		grad = mat.NewVecDense(2, []float64{-3.e4, 4.e4})
		mob  = 100.
		vD   = mat.NewVecDense(2, nil)
		vF   = mat.NewVecDense(2, nil)
	)
	DarcyLaw{}.FilterVelocity(vD, 0, grad, K, mob)
	assert.InDeltaSlice(t, []float64{6.e-6, -4.e-6}, vD.RawVector().Data, 1.e-20)
	{ // Forchheimer without an inertial coefficient is Darcy
		ForchheimerLaw{Beta: []float64{0}}.FilterVelocity(vF, 0, grad, K, mob)
		assert.Equal(t, vD.RawVector().Data, vF.RawVector().Data)
		ForchheimerLaw{}.FilterVelocity(vF, 1, grad, K, mob)
		assert.Equal(t, vD.RawVector().Data, vF.RawVector().Data)
	}
	{ // With inertia the velocity is slower, in the same direction
		beta := 1.e3
		ForchheimerLaw{Beta: []float64{beta}}.FilterVelocity(vF, 0, grad, K, mob)
		w, v := mat.Norm(vD, 2), mat.Norm(vF, 2)
		assert.Less(t, v, w)
		assert.InDelta(t, 1., mat.Dot(vD, vF)/(w*v), 1.e-12)
		assert.InDelta(t, w, (1+mob*beta*v)*v, 1.e-18)
	}
	{ // Swapping the law on the flux evaluator
		ctx := newColumnContext(2, []float64{2.e5, 1.e5}, 1000)
		eq := NewExtensiveQuantities(2, 2)
		eq.SetVelocityLaw(ForchheimerLaw{Beta: []float64{1.e4, 0}})
		require.NoError(t, eq.Update(ctx, 0, 0))
		assert.Less(t, eq.VolumeFlux(0), 1.e-5)
		assert.Greater(t, eq.VolumeFlux(0), 0.)
		assert.InDelta(t, 2.e-5, eq.VolumeFlux(1), 1.e-18)
	}
}
