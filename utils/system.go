package utils

import (
	"fmt"
	"math"
	"runtime"

	"gonum.org/v1/gonum/mat"
)

func GetMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	bToMb := func(b uint64) uint64 {
		return b / 1024 / 1024
	}
	return fmt.Sprintf("Alloc = %v MiB TotalAlloc = %v MiB Sys = %v MiB NumGC = %v",
		bToMb(m.Alloc), bToMb(m.TotalAlloc), bToMb(m.Sys), m.NumGC)
}

// IsFinite reports whether every entry of A is neither NaN nor ±Inf.
func IsFinite(A any) bool {
	switch v := A.(type) {
	case float64:
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	case []float64:
		for _, f := range v {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return false
			}
		}
	case *mat.VecDense:
		return IsFinite(v.RawVector().Data)
	case mat.Vector:
		for i := 0; i < v.Len(); i++ {
			if !IsFinite(v.AtVec(i)) {
				return false
			}
		}
	case mat.Matrix:
		nr, nc := v.Dims()
		for i := 0; i < nr; i++ {
			for j := 0; j < nc; j++ {
				if !IsFinite(v.At(i, j)) {
					return false
				}
			}
		}
	}
	return true
}
