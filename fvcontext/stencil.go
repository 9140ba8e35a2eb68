package fvcontext

import (
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/goporous/darcy"
	"github.com/notargets/goporous/grid"
)

// Face adapts a grid face to the flux evaluator
type Face struct {
	gf     *grid.Face
	normal *mat.VecDense
}

func newFace(gf *grid.Face) Face {
	return Face{gf: gf, normal: mat.NewVecDense(len(gf.Normal), gf.Normal)}
}

func (f Face) Normal() mat.Vector        { return f.normal }
func (f Face) IntegrationPos() []float64 { return f.gf.Center }
func (f Face) InteriorIndex() int        { return f.gf.Interior }
func (f Face) ExteriorIndex() int        { return f.gf.Exterior }
func (f Face) Area() float64             { return f.gf.Area }
func (f Face) BoundaryID() int           { return f.gf.BoundaryID }

// Stencil holds every face of a cube grid; with a cell centered scheme on a
// structured grid the whole grid is one stencil.
type Stencil struct {
	interior, boundary []Face
}

func NewStencil(cg *grid.CubeGrid) (st *Stencil) {
	st = &Stencil{
		interior: make([]Face, len(cg.InteriorFaces)),
		boundary: make([]Face, len(cg.BoundaryFaces)),
	}
	for i := range cg.InteriorFaces {
		st.interior[i] = newFace(&cg.InteriorFaces[i])
	}
	for i := range cg.BoundaryFaces {
		st.boundary[i] = newFace(&cg.BoundaryFaces[i])
	}
	return
}

func (st *Stencil) NumInteriorFaces() int               { return len(st.interior) }
func (st *Stencil) NumBoundaryFaces() int               { return len(st.boundary) }
func (st *Stencil) InteriorFace(faceIdx int) darcy.Face { return st.interior[faceIdx] }
func (st *Stencil) BoundaryFace(bfIdx int) darcy.Face   { return st.boundary[bfIdx] }
