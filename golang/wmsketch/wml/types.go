package wml

import "math"

//Feature is one sparse coordinate of an example.
type Feature struct {
	Index int
	Value float32
}

//Example is a labelled sparse vector. Duplicate indices are summed by every model.
type Example struct {
	Label    bool
	Features []Feature
}

//Dataset is an ordered collection of examples. Dimensionality is 1 + the largest index seen.
type Dataset struct {
	Examples       []Example
	Dimensionality int
}

//Add appends an example and widens the dimensionality if needed.
func (ds *Dataset) Add(example Example) {
	for _, f := range example.Features {
		if f.Index+1 > ds.Dimensionality {
			ds.Dimensionality = f.Index + 1
		}
	}
	ds.Examples = append(ds.Examples, example)
}

//Len returns the number of examples.
func (ds *Dataset) Len() int {
	return len(ds.Examples)
}

//Pair is a (key, weight) entry. Trackers store them and Rank reports them.
type Pair struct {
	Key    int     `json:"key"`
	Weight float32 `json:"weight"`
}

//Sign converts a boolean label into ±1.
func Sign(label bool) float32 {
	if label {
		return 1
	}
	return -1
}

func sigmoid(x float32) float32 {
	return float32(1.0 / (1.0 + math.Exp(-float64(x))))
}

//logisticGrad is the derivative of the logistic loss at margin x.
func logisticGrad(x float32) float32 {
	return -(1 - sigmoid(x))
}

func abs32(x float32) float32 {
	return float32(math.Abs(float64(x)))
}

//learningRate is the shared decaying schedule lr0 / (1 + lr0*l2*t).
func learningRate(lr0, l2 float32, t int64) float32 {
	return lr0 / (1.0 + lr0*l2*float32(t))
}
