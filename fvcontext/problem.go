package fvcontext

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/goporous/darcy"
	"github.com/notargets/goporous/grid"
	"github.com/notargets/goporous/material"
)

// Problem holds the spatial parameters of a cube grid: gravity, the
// intrinsic permeability and the material law of every cell.
type Problem struct {
	gravity       *mat.VecDense
	enableGravity bool
	perm          []mat.Symmetric
	laws          []material.TwoPhaseLaw
	faceK         []mat.Symmetric
}

// NewProblem checks and stores the parameters. perm and laws hold either one
// entry for a homogeneous domain or one entry per cell. The permeability of
// each interior face is the harmonic mean of both adjacent cells.
func NewProblem(cg *grid.CubeGrid, gravity []float64, enableGravity bool,
	perm []mat.Symmetric, laws []material.TwoPhaseLaw) (p *Problem, err error) {
	if len(gravity) != cg.Dim {
		err = fmt.Errorf("gravity must have %d components, have %d", cg.Dim, len(gravity))
		return
	}
	if len(perm) != 1 && len(perm) != cg.NumCells {
		err = fmt.Errorf("need 1 or %d permeabilities, have %d", cg.NumCells, len(perm))
		return
	}
	if len(laws) != 1 && len(laws) != cg.NumCells {
		err = fmt.Errorf("need 1 or %d material laws, have %d", cg.NumCells, len(laws))
		return
	}
	for i, K := range perm {
		if K.SymmetricDim() != cg.Dim {
			err = fmt.Errorf("permeability %d has dimension %d, grid has %d", i, K.SymmetricDim(), cg.Dim)
			return
		}
	}
	p = &Problem{
		gravity:       mat.NewVecDense(cg.Dim, append([]float64{}, gravity...)),
		enableGravity: enableGravity,
		perm:          perm,
		laws:          laws,
		faceK:         make([]mat.Symmetric, len(cg.InteriorFaces)),
	}
	for i, f := range cg.InteriorFaces {
		if p.faceK[i], err = HarmonicMean(p.Permeability(f.Interior), p.Permeability(f.Exterior)); err != nil {
			return nil, fmt.Errorf("face %d: %w", i, err)
		}
	}
	return
}

func (p *Problem) EnableGravity() bool { return p.enableGravity }

func (p *Problem) Gravity(ctx darcy.ElementContext, dofIdx, timeIdx int) mat.Vector {
	return p.gravity
}

func (p *Problem) IntersectionIntrinsicPermeability(ctx darcy.ElementContext, faceIdx, timeIdx int) mat.Symmetric {
	return p.faceK[faceIdx]
}

// MaterialLawParams returns the material.TwoPhaseLaw of a cell
func (p *Problem) MaterialLawParams(ctx darcy.ElementContext, dofIdx, timeIdx int) any {
	return p.Law(dofIdx)
}

func (p *Problem) Law(dofIdx int) material.TwoPhaseLaw {
	if len(p.laws) == 1 {
		return p.laws[0]
	}
	return p.laws[dofIdx]
}

func (p *Problem) Permeability(dofIdx int) mat.Symmetric {
	if len(p.perm) == 1 {
		return p.perm[0]
	}
	return p.perm[dofIdx]
}

// HarmonicMean returns 2 (K1⁻¹ + K2⁻¹)⁻¹, for diagonal tensors the entry
// wise harmonic mean
func HarmonicMean(K1, K2 mat.Symmetric) (Kf *mat.SymDense, err error) {
	var (
		n            = K1.SymmetricDim()
		K1inv, K2inv mat.Dense
		sum, sumInv  mat.Dense
	)
	if err = K1inv.Inverse(K1); err != nil {
		return nil, fmt.Errorf("singular permeability: %w", err)
	}
	if err = K2inv.Inverse(K2); err != nil {
		return nil, fmt.Errorf("singular permeability: %w", err)
	}
	sum.Add(&K1inv, &K2inv)
	if err = sumInv.Inverse(&sum); err != nil {
		return nil, fmt.Errorf("singular permeability sum: %w", err)
	}
	Kf = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			Kf.SetSym(i, j, sumInv.At(i, j)+sumInv.At(j, i))
		}
	}
	return
}

// DiagonalPermeability returns the isotropic or axis aligned tensor with the
// given diagonal
func DiagonalPermeability(diag ...float64) *mat.SymDense {
	K := mat.NewSymDense(len(diag), nil)
	for i, k := range diag {
		K.SetSym(i, i, k)
	}
	return K
}
