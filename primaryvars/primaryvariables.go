// Package primaryvars holds the vector of primary variables of one DOF as
// seen by a Newton-type nonlinear solver.
package primaryvars

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/goporous/fluids"
	"github.com/notargets/goporous/utils"
)

const (
	CurrentTime  = 0 // time index of the solution being solved for
	PreviousTime = 1 // time index of the last converged solution
)

type PrimaryVariables struct {
	*mat.VecDense
}

// New returns numEq primary variables, all undefined (NaN) until assigned
func New(numEq int) PrimaryVariables {
	return PrimaryVariables{utils.NaNVec(numEq)}
}

// NewFromScalar returns numEq primary variables all set to value
func NewFromScalar(numEq int, value float64) PrimaryVariables {
	return PrimaryVariables{utils.NewVecConst(numEq, value)}
}

func (pv PrimaryVariables) NumEq() int { return pv.Len() }

// Clone returns an independent copy
func (pv PrimaryVariables) Clone() (r PrimaryVariables) {
	r = PrimaryVariables{mat.VecDenseCopyOf(pv.VecDense)}
	return
}

// Assign copies the values of other into pv, both must have equal length
func (pv PrimaryVariables) Assign(other PrimaryVariables) {
	pv.CopyVec(other.VecDense)
}

// MakeEvaluation returns primary variable varIdx as an evaluation. For the
// current time level it is a variable (derivative one with respect to
// itself), for any other time level a constant.
func (pv PrimaryVariables) MakeEvaluation(varIdx, timeIdx int) Evaluation {
	if timeIdx == CurrentTime {
		return Variable(pv.AtVec(varIdx), varIdx, pv.Len())
	}
	return Constant(pv.AtVec(varIdx), pv.Len())
}

// AssignNaive sets the primary variables from a fluid state without any
// consistency checks. Models provide their own mapping; the base vector has
// none.
func (pv PrimaryVariables) AssignNaive(fs fluids.FluidState) error {
	return fmt.Errorf("the primary variables do not define a naive assignment from a fluid state")
}

// CheckDefined returns an error naming the first entry that is not a finite number
func (pv PrimaryVariables) CheckDefined() error {
	for i := 0; i < pv.Len(); i++ {
		if val := pv.AtVec(i); math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("primary variable %d is undefined: %v", i, val)
		}
	}
	return nil
}
