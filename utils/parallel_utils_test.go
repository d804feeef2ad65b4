package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	getHisto := func(K, Np int) (histo map[int]int) {
		pm := NewPartitionMap(Np, K)
		histo = make(map[int]int)
		for np := 0; np < pm.ParallelDegree; np++ {
			kMin, kMax := pm.GetBucketRange(np)
			histo[kMax-kMin]++
		}
		return
	}
	getTotal := func(histo map[int]int) (total int) {
		for key, count := range histo {
			total += key * count
		}
		return
	}
	{ // More workers than sweep points collapses to one point per worker
		pm := NewPartitionMap(32, 2)
		assert.Equal(t, 2, pm.ParallelDegree)
		assert.Equal(t, map[int]int{1: 2}, getHisto(2, 32))
	}
	{ // Balanced splits
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Ranges are contiguous and cover every index once
		for maxIndex := 10; maxIndex < 500; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			next := 0
			for n := 0; n < pm.ParallelDegree; n++ {
				kMin, kMax := pm.GetBucketRange(n)
				assert.Equal(t, next, kMin)
				assert.True(t, kMax > kMin)
				next = kMax
			}
			assert.Equal(t, maxIndex, next)
		}
	}
	{ // Default degree
		pm := NewPartitionMap(0, 1000)
		assert.True(t, pm.ParallelDegree >= 1)
		assert.Equal(t, 1000, pm.Partitions[pm.ParallelDegree-1][1])
	}
}
