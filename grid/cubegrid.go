// Package grid builds structured cube grids (line segments in 1D,
// rectangles in 2D, cuboids in 3D) with the face connectivity needed by a
// cell centered finite volume discretization.
package grid

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// Face is a planar interface between two cells, or between a cell and the
// domain exterior. Exterior is -1 on boundary faces.
type Face struct {
	Normal     []float64 // unit normal, pointing from Interior to Exterior
	Center     []float64 // integration point
	Area       float64
	Interior   int
	Exterior   int
	Axis       int
	BoundaryID int // 2*Axis for the lower side, 2*Axis+1 for the upper side, -1 for interior faces
}

func (f Face) IsBoundary() bool { return f.Exterior < 0 }

type CubeGrid struct {
	Dim           int
	LowerLeft     []float64
	UpperRight    []float64
	Cells         []int     // number of cells per axis
	Spacing       []float64 // cell size per axis
	NumCells      int
	CellCenters   [][]float64
	CellVolume    float64
	InteriorFaces []Face
	BoundaryFaces []Face
}

// NewCubeGrid creates a cube grid with cells[i] intervals along axis i
// between lowerLeft and upperRight, then applies the global refinements.
// Each refinement bisects every cell along every axis.
func NewCubeGrid(lowerLeft, upperRight []float64, cells []int, refinements int) (cg *CubeGrid, err error) {
	var (
		dim = len(cells)
	)
	if dim < 1 || dim > 3 {
		err = fmt.Errorf("cube grid dimension must be 1, 2 or 3, have %d", dim)
		return
	}
	if len(lowerLeft) != dim || len(upperRight) != dim {
		err = fmt.Errorf("cube grid corners must have %d coordinates, have %d and %d",
			dim, len(lowerLeft), len(upperRight))
		return
	}
	if refinements < 0 {
		err = fmt.Errorf("number of global refinements must not be negative, have %d", refinements)
		return
	}
	cg = &CubeGrid{
		Dim:        dim,
		LowerLeft:  append([]float64{}, lowerLeft...),
		UpperRight: append([]float64{}, upperRight...),
		Cells:      make([]int, dim),
		Spacing:    make([]float64, dim),
		NumCells:   1,
		CellVolume: 1,
	}
	for i := 0; i < dim; i++ {
		if cells[i] < 1 {
			return nil, fmt.Errorf("number of cells along axis %d must be positive, have %d", i, cells[i])
		}
		if upperRight[i] <= lowerLeft[i] {
			return nil, fmt.Errorf("domain size along axis %d must be positive, have [%g, %g]",
				i, lowerLeft[i], upperRight[i])
		}
		cg.Cells[i] = cells[i] << refinements
		cg.Spacing[i] = (upperRight[i] - lowerLeft[i]) / float64(cg.Cells[i])
		cg.NumCells *= cg.Cells[i]
		cg.CellVolume *= cg.Spacing[i]
	}
	cg.buildCells()
	cg.buildFaces()
	return
}

// NewCubeGridFromSize creates a grid with the lower left corner at the origin
func NewCubeGridFromSize(domainSize []float64, cells []int, refinements int) (*CubeGrid, error) {
	return NewCubeGrid(make([]float64, len(domainSize)), domainSize, cells, refinements)
}

// CellIndex maps per-axis indices onto the cell index, axis 0 runs fastest
func (cg *CubeGrid) CellIndex(ijk []int) (idx int) {
	for i := cg.Dim - 1; i >= 0; i-- {
		idx = idx*cg.Cells[i] + ijk[i]
	}
	return
}

func (cg *CubeGrid) CellIJK(idx int) (ijk []int) {
	ijk = make([]int, cg.Dim)
	for i := 0; i < cg.Dim; i++ {
		ijk[i] = idx % cg.Cells[i]
		idx /= cg.Cells[i]
	}
	return
}

func (cg *CubeGrid) buildCells() {
	cg.CellCenters = make([][]float64, cg.NumCells)
	for k := 0; k < cg.NumCells; k++ {
		ijk := cg.CellIJK(k)
		c := make([]float64, cg.Dim)
		for i := range c {
			c[i] = cg.LowerLeft[i] + (float64(ijk[i])+0.5)*cg.Spacing[i]
		}
		cg.CellCenters[k] = c
	}
}

func (cg *CubeGrid) faceArea(axis int) (area float64) {
	area = 1
	for i := 0; i < cg.Dim; i++ {
		if i != axis {
			area *= cg.Spacing[i]
		}
	}
	return
}

func (cg *CubeGrid) newFace(cell, axis int, sign float64) (f Face) {
	f = Face{
		Normal:   make([]float64, cg.Dim),
		Center:   append([]float64{}, cg.CellCenters[cell]...),
		Area:     cg.faceArea(axis),
		Interior: cell,
		Axis:     axis,
	}
	f.Normal[axis] = sign
	f.Center[axis] += sign * 0.5 * cg.Spacing[axis]
	return
}

func (cg *CubeGrid) buildFaces() {
	for axis := 0; axis < cg.Dim; axis++ {
		for k := 0; k < cg.NumCells; k++ {
			ijk := cg.CellIJK(k)
			if ijk[axis] == cg.Cells[axis]-1 {
				continue
			}
			ijk[axis]++
			f := cg.newFace(k, axis, 1)
			f.Exterior = cg.CellIndex(ijk)
			f.BoundaryID = -1
			cg.InteriorFaces = append(cg.InteriorFaces, f)
		}
	}
	for axis := 0; axis < cg.Dim; axis++ {
		for side := 0; side < 2; side++ {
			var (
				sign = float64(2*side - 1)
				edge = side * (cg.Cells[axis] - 1)
			)
			for k := 0; k < cg.NumCells; k++ {
				if cg.CellIJK(k)[axis] != edge {
					continue
				}
				f := cg.newFace(k, axis, sign)
				f.Exterior = -1
				f.BoundaryID = 2*axis + side
				cg.BoundaryFaces = append(cg.BoundaryFaces, f)
			}
		}
	}
}

var boundaryNames = []string{"xmin", "xmax", "ymin", "ymax", "zmin", "zmax"}

// BoundaryName returns the name of a boundary side, e.g. "ymax"
func BoundaryName(boundaryID int) string {
	if boundaryID < 0 || boundaryID >= len(boundaryNames) {
		return "interior"
	}
	return boundaryNames[boundaryID]
}

// BoundaryID is the inverse of BoundaryName, -1 for unknown names
func BoundaryID(name string) int {
	for i, n := range boundaryNames {
		if n == name {
			return i
		}
	}
	return -1
}

// Incidence returns the signed cell/face incidence matrix, rows are cells and
// columns are the interior faces followed by the boundary faces. An entry is
// +1 where the face normal points out of the cell and -1 where it points in,
// so that Incidence times the face fluxes gives the net outflow of each cell.
func (cg *CubeGrid) Incidence() *sparse.CSR {
	var (
		nIF = len(cg.InteriorFaces)
		dok = sparse.NewDOK(cg.NumCells, nIF+len(cg.BoundaryFaces))
	)
	for j, f := range cg.InteriorFaces {
		dok.Set(f.Interior, j, 1)
		dok.Set(f.Exterior, j, -1)
	}
	for j, f := range cg.BoundaryFaces {
		dok.Set(f.Interior, nIF+j, 1)
	}
	return dok.ToCSR()
}

// NetOutflow sums face fluxes into the net outflow of each cell using the
// incidence matrix, faceFlux is ordered as the Incidence columns.
func (cg *CubeGrid) NetOutflow(incidence mat.Matrix, faceFlux []float64) (net []float64) {
	var (
		x = mat.NewVecDense(len(faceFlux), faceFlux)
		y = mat.NewVecDense(cg.NumCells, nil)
	)
	y.MulVec(incidence, x)
	net = y.RawVector().Data
	return
}
