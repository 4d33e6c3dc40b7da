// Package wmeval compares the approximate models against each other and against the
// exact uncompressed model.
package wmeval

import (
	"math/bits"

	"gonum.org/v1/gonum/floats"

	"github.com/tarstars/sketched_classification/golang/wmsketch/wml"
)

const (
	//BytesPerHeapEntry is the cost of one tracked (key, weight) pair.
	BytesPerHeapEntry = 8
	//BytesPerCounter is the cost of one float32 sketch counter.
	BytesPerCounter = 4
)

//ReconstructionError is ||estimate - truth||_2 / ||truth||_2 over dense vectors of the
//given dimensionality, and zero when the truth is all zero. Keys outside the
//dimensionality are ignored.
func ReconstructionError(truth, estimate []wml.Pair, dimensionality int) float64 {
	wStar := densify(truth, dimensionality)
	wEst := densify(estimate, dimensionality)
	den := floats.Norm(wStar, 2)
	if den == 0 {
		return 0
	}
	return floats.Distance(wEst, wStar, 2) / den
}

func densify(pairs []wml.Pair, dimensionality int) []float64 {
	dense := make([]float64, dimensionality)
	for _, p := range pairs {
		if p.Key >= 0 && p.Key < dimensionality {
			dense[p.Key] = float64(p.Weight)
		}
	}
	return dense
}

//SketchWidthForBudget splits totalBytes between a K-entry heap and depth rows of
//counters and returns the log2 width of one row, at least 1.
func SketchWidthForBudget(totalBytes, k, depth int) int {
	if depth < 1 {
		depth = 1
	}
	sketchBytes := totalBytes - BytesPerHeapEntry*k
	counters := max(1, sketchBytes/BytesPerCounter)
	perRow := max(1, counters/depth)
	return max(1, bits.Len(uint(perRow))-1)
}

//MemoryBytes is the nominal footprint of a model with a K-entry heap and depth rows
//of 2^width counters.
func MemoryBytes(width, depth, k int) uint64 {
	if depth < 1 {
		depth = 1
	}
	return uint64(BytesPerHeapEntry*k) + uint64(depth)*uint64(BytesPerCounter)<<width
}
