package wml

import "sort"

//Classifier is the contract shared by every model variant.
type Classifier interface {
	//Predict classifies without mutating the model.
	Predict(features []Feature) bool
	//Update takes one training step and returns a prediction for the example. WMSketch
	//predicts after the step, every other variant before it.
	Update(features []Feature, label bool) bool
	//Rank returns at most K (feature index, weight) pairs, descending by |weight|.
	Rank() []Pair
	//Bias returns the current bias term.
	Bias() float32
}

//sortByMagnitude orders pairs descending by |weight|, ties by ascending key.
func sortByMagnitude(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := abs32(pairs[i].Weight), abs32(pairs[j].Weight)
		if ai != aj {
			return ai > aj
		}
		return pairs[i].Key < pairs[j].Key
	})
}

//truncate keeps the first k pairs.
func truncate(pairs []Pair, k int) []Pair {
	if len(pairs) > k {
		return pairs[:k]
	}
	return pairs
}
