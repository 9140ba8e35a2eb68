package utils

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func NewVecConst(N int, val float64) (V *mat.VecDense) {
	var (
		x = make([]float64, N)
	)
	for i := 0; i < N; i++ {
		x[i] = val
	}
	V = mat.NewVecDense(N, x)
	return
}

// VecDiff returns a - b for two points of equal dimension.
func VecDiff(a, b []float64) (d []float64) {
	d = make([]float64, len(a))
	floats.SubTo(d, a, b)
	return
}

func Norm2Squared(v []float64) float64 {
	return floats.Dot(v, v)
}

// VecFill sets every entry of v to val; NaN is used to mark undefined state.
func VecFill(v *mat.VecDense, val float64) {
	d := v.RawVector().Data
	for i := range d {
		d[i] = val
	}
}

func NaNVec(N int) *mat.VecDense {
	return NewVecConst(N, math.NaN())
}

func VecGetF64(v mat.Vector) (r []float64) {
	r = make([]float64, v.Len())
	for i := 0; i < v.Len(); i++ {
		r[i] = v.AtVec(i)
	}
	return
}
