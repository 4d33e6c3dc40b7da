package wml

import (
	"math/rand"
	"testing"
)

//distinctWidth finds the smallest log2 width >= from at which every index gets its own slot.
func distinctWidth(t *testing.T, hash HashFunc, from int, indices ...int) int {
	t.Helper()
	for width := from; width <= 24; width++ {
		seen := make(map[int]bool, len(indices))
		clash := false
		for _, index := range indices {
			slot := SlotFor(hash, width, index)
			if seen[slot] {
				clash = true
				break
			}
			seen[slot] = true
		}
		if !clash {
			return width
		}
	}
	t.Fatalf("no collision-free width for %v", indices)
	return 0
}

//linearDataset labels random sparse examples by the sign of a fixed weight vector.
func linearDataset(seed int64, n, dim, perExample int) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	truth := make([]float32, dim)
	for i := range truth {
		truth[i] = float32(rng.NormFloat64())
	}
	ds := &Dataset{}
	for i := 0; i < n; i++ {
		indices := rng.Perm(dim)[:perExample]
		features := make([]Feature, perExample)
		var dot float32
		for j, index := range indices {
			v := float32(rng.Float64())
			features[j] = Feature{Index: index, Value: v}
			dot += truth[index] * v
		}
		ds.Add(Example{Label: dot >= 0, Features: features})
	}
	return ds
}

//twoFeatureDataset alternates feature 1 (positive) and feature 2 (negative).
func twoFeatureDataset(n int) *Dataset {
	ds := &Dataset{}
	for i := 0; i < n; i++ {
		ds.Add(Example{Label: true, Features: []Feature{{Index: 1, Value: 1}}})
		ds.Add(Example{Label: false, Features: []Feature{{Index: 2, Value: 1}}})
	}
	return ds
}

func heapKeys(h *Heap) []int { return h.Keys() }
