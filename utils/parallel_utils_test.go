package utils

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	sizes := func(pm *PartitionMap) (histo map[int]int) {
		histo = make(map[int]int)
		for np := 0; np < pm.ParallelDegree; np++ {
			kMin, kMax := pm.GetBucketRange(np)
			histo[kMax-kMin]++
		}
		return
	}
	{ // Bucket sizes differ by at most one face
		assert.Equal(t, map[int]int{0: 30, 1: 2}, sizes(NewPartitionMap(32, 2)))
		assert.Equal(t, map[int]int{8: 32}, sizes(NewPartitionMap(32, 256)))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, sizes(NewPartitionMap(32, 287)))
	}
	{ // Buckets are contiguous and cover the range in order
		for _, nFaces := range []int{1, 17, 100, 1331} {
			pm := NewPartitionMap(ParallelDegree(7, nFaces), nFaces)
			var next int
			for np := 0; np < pm.ParallelDegree; np++ {
				kMin, kMax := pm.GetBucketRange(np)
				assert.Equal(t, next, kMin)
				next = kMax
			}
			assert.Equal(t, nFaces, next)
		}
	}
	{ // Every face index maps back to the worker that owns it
		for nFaces := 1; nFaces < 300; nFaces++ {
			pm := NewPartitionMap(ParallelDegree(5, nFaces), nFaces)
			for k := 0; k < nFaces; k++ {
				bn, kMin, kMax := pm.GetBucket(k)
				assert.True(t, k >= kMin && k < kMax)
				rMin, rMax := pm.GetBucketRange(bn)
				assert.Equal(t, [2]int{rMin, rMax}, [2]int{kMin, kMax})
			}
		}
		pm := NewPartitionMap(3, 10)
		bn, _, _ := pm.GetBucket(10)
		assert.Equal(t, -1, bn)
		bn, _, _ = pm.GetBucket(-1)
		assert.Equal(t, -1, bn)
	}
}

func TestParallelDegree(t *testing.T) {
	assert.Equal(t, 4, ParallelDegree(4, 100))
	assert.Equal(t, 3, ParallelDegree(4, 3))
	assert.Equal(t, 1, ParallelDegree(4, 0))
	want := runtime.NumCPU()
	if want > 1000 {
		want = 1000
	}
	assert.Equal(t, want, ParallelDegree(0, 1000))
}
