package darcy

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// VelocityLaw turns the potential gradient of a phase into its filter
// velocity. dst has the dimension of grad and must not alias it.
type VelocityLaw interface {
	FilterVelocity(dst *mat.VecDense, phaseIdx int, grad mat.Vector, K mat.Matrix, mobility float64)
}

// DarcyLaw is v = -mobility K grad
type DarcyLaw struct{}

func (DarcyLaw) FilterVelocity(dst *mat.VecDense, phaseIdx int, grad mat.Vector, K mat.Matrix, mobility float64) {
	dst.MulVec(K, grad)
	dst.ScaleVec(-mobility, dst)
}

// ForchheimerLaw adds an inertial term to Darcy's law,
//
//	(1 + mobility Beta |v|) v = -mobility K grad
//
// Beta is per phase [1/m], a missing or zero entry gives Darcy's law.
type ForchheimerLaw struct {
	Beta []float64
}

func (fl ForchheimerLaw) FilterVelocity(dst *mat.VecDense, phaseIdx int, grad mat.Vector, K mat.Matrix, mobility float64) {
	DarcyLaw{}.FilterVelocity(dst, phaseIdx, grad, K, mobility)
	var beta float64
	if phaseIdx < len(fl.Beta) {
		beta = fl.Beta[phaseIdx]
	}
	w := mat.Norm(dst, 2)
	if beta == 0 || w == 0 {
		return
	}
	// positive root of mobility*beta*|v|^2 + |v| - |w| = 0
	v := 2 * w / (1 + math.Sqrt(1+4*mobility*beta*w))
	dst.ScaleVec(v/w, dst)
}
