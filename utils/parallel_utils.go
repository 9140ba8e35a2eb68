package utils

import "runtime"

// PartitionMap splits the index range [0, MaxIndex) into ParallelDegree
// contiguous buckets, used to hand one slice of faces to each goroutine.
type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree partitions
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

// ParallelDegree resolves a requested worker count against the work size:
// zero means one worker per CPU, and never more workers than items.
func ParallelDegree(ProcLimit, Kmax int) (NP int) {
	if ProcLimit > 0 {
		NP = ProcLimit
	} else {
		NP = runtime.NumCPU()
	}
	if NP > Kmax {
		NP = Kmax
	}
	if NP < 1 {
		NP = 1
	}
	return
}

// GetBucket finds the bucket holding index k, -1 if k is out of range. The
// search starts from the proportional guess, which is at most one bucket off.
func (pm *PartitionMap) GetBucket(k int) (bucketNum, kMin, kMax int) {
	if k < 0 || k >= pm.MaxIndex {
		return -1, 0, 0
	}
	bucketNum = pm.ParallelDegree * k / pm.MaxIndex
	for {
		kMin, kMax = pm.GetBucketRange(bucketNum)
		switch {
		case k < kMin:
			bucketNum--
		case k >= kMax:
			bucketNum++
		default:
			return
		}
	}
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	// This routine splits one dimension into c.ParallelDegree pieces, with a maximum imbalance of one item
	var (
		Npart            = pm.MaxIndex / (pm.ParallelDegree)
		startAdd, endAdd int
		remainder        int
	)
	remainder = pm.MaxIndex % pm.ParallelDegree
	if remainder != 0 { // spread the remainder over the first chunks evenly
		if threadNum+1 > remainder {
			startAdd = remainder
			endAdd = 0
		} else {
			startAdd = threadNum
			endAdd = 1
		}
	}
	bucket[0] = threadNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}
