package darcy

import (
	"errors"
	"fmt"
)

var ErrGradientsNotReady = errors.New("fluxes requested before the gradients of the face were calculated")

// FaceMismatchError reports fluxes requested for another face than the one
// whose gradients were calculated last
type FaceMismatchError struct {
	GradientFace     int
	GradientBoundary bool
	FluxFace         int
	FluxBoundary     bool
}

func (e *FaceMismatchError) Error() string {
	return fmt.Sprintf("fluxes requested for %s face %d, gradients are for %s face %d",
		faceKind(e.FluxBoundary), e.FluxFace, faceKind(e.GradientBoundary), e.GradientFace)
}

func faceKind(boundary bool) string {
	if boundary {
		return "boundary"
	}
	return "interior"
}

// NumericalProblemError reports a non finite potential gradient, usually the
// sign of a diverging nonlinear iteration
type NumericalProblemError struct {
	PhaseName string
	PhaseIdx  int
	FaceIdx   int
	Boundary  bool
	Gradient  []float64
}

func (e *NumericalProblemError) Error() string {
	return fmt.Sprintf("non-finite potential gradient %v for phase %q (%d) at %s face %d",
		e.Gradient, e.PhaseName, e.PhaseIdx, faceKind(e.Boundary), e.FaceIdx)
}

// IsNumericalProblem reports whether err wraps a NumericalProblemError
func IsNumericalProblem(err error) bool {
	var npe *NumericalProblemError
	return errors.As(err, &npe)
}
