package primaryvars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/goporous/fluids"
)

func TestPrimaryVariables(t *testing.T) {
	{ // Construction
		pv := New(2)
		assert.Equal(t, 2, pv.NumEq())
		assert.Error(t, pv.CheckDefined())
		pv.SetVec(0, 1.e5)
		assert.Error(t, pv.CheckDefined())
		pv.SetVec(1, 0.3)
		assert.NoError(t, pv.CheckDefined())

		pc := NewFromScalar(3, 7)
		for i := 0; i < 3; i++ {
			assert.Equal(t, 7., pc.AtVec(i))
		}
	}
	{ // Copies are independent
		pv := NewFromScalar(2, 1)
		cp := pv.Clone()
		cp.SetVec(0, 5)
		assert.Equal(t, 1., pv.AtVec(0))
		pv.Assign(cp)
		assert.Equal(t, 5., pv.AtVec(0))
	}
	{ // Evaluations depend on the time level
		pv := NewFromScalar(2, 0)
		pv.SetVec(0, 2.e5)
		pv.SetVec(1, 0.25)
		e := pv.MakeEvaluation(1, CurrentTime)
		assert.Equal(t, 0.25, e.Value)
		assert.Equal(t, []float64{0, 1}, e.Derivs)
		e = pv.MakeEvaluation(1, PreviousTime)
		assert.Equal(t, 0.25, e.Value)
		assert.Equal(t, []float64{0, 0}, e.Derivs)
	}
	{ // Naive assignment is not provided by the base vector
		fs := fluids.NewTwoPhaseFluidState(fluids.NewImmiscibleFluidSystem(fluids.Water(), fluids.DNAPL()))
		assert.Error(t, New(2).AssignNaive(fs))
	}
}

func TestEvaluation(t *testing.T) {
	var (
		pv = NewFromScalar(2, 0)
	)
	pv.SetVec(0, 3)
	pv.SetVec(1, 2)
	x, y := pv.MakeEvaluation(0, CurrentTime), pv.MakeEvaluation(1, CurrentTime)
	// f = x*y + x/y - (x - y)*2
	f := x.Mul(y).Add(x.Div(y)).Sub(x.Sub(y).Scale(2))
	require.Equal(t, 2, f.NumVars())
	assert.InDelta(t, 6.+1.5-2., f.Value, 1.e-14)
	// df/dx = y + 1/y - 2, df/dy = x - x/y² + 2
	assert.InDelta(t, 2.+0.5-2., f.Derivs[0], 1.e-14)
	assert.InDelta(t, 3.-0.75+2., f.Derivs[1], 1.e-14)

	c := Constant(1, 3)
	assert.Panics(t, func() { c.Add(x) })
}
