package wml

import "math"

//PMI ranks features by their smoothed pointwise mutual information with the positive
//class. An embedded dense logistic regression only serves Predict and Update.
type PMI struct {
	dimensionality int
	topK           int
	smooth         float64
	positive       map[int]int
	negative       map[int]int
	totalPositive  int
	totalNegative  int
	model          *Uncompressed
}

//NewPMI creates empty counts. smooth is the additive smoothing constant.
func NewPMI(dimensionality, topK int, learningRate, l2 float32, smooth float64) *PMI {
	return &PMI{
		dimensionality: dimensionality,
		topK:           topK,
		smooth:         smooth,
		positive:       make(map[int]int),
		negative:       make(map[int]int),
		model:          NewUncompressed(dimensionality, topK, learningRate, l2),
	}
}

func (m *PMI) Predict(features []Feature) bool {
	return m.model.Predict(features)
}

//Update counts co-occurrences first, then steps the dense model.
func (m *PMI) Update(features []Feature, label bool) bool {
	counts := m.negative
	if label {
		m.totalPositive++
		counts = m.positive
	} else {
		m.totalNegative++
	}
	for _, f := range features {
		counts[f.Index]++
	}
	return m.model.Update(features, label)
}

//Score returns log P(feature | label) / P(feature) with additive smoothing.
func (m *PMI) Score(index int, label bool) float64 {
	countForLabel, totalLabel := m.negative[index], m.totalNegative
	if label {
		countForLabel, totalLabel = m.positive[index], m.totalPositive
	}
	countForFeature := m.positive[index] + m.negative[index]
	totalExamples := m.totalPositive + m.totalNegative
	dim := float64(m.dimensionality)

	featureGivenLabel := (float64(countForLabel) + m.smooth) / (float64(totalLabel) + m.smooth*dim)
	feature := (float64(countForFeature) + 2*m.smooth) / (float64(totalExamples) + 2*m.smooth*dim)
	if feature <= 0 || featureGivenLabel <= 0 {
		return 0
	}
	return math.Log(featureGivenLabel / feature)
}

//Rank orders every observed feature by |PMI| with the positive class.
func (m *PMI) Rank() []Pair {
	pairs := make([]Pair, 0, len(m.positive)+len(m.negative))
	seen := make(map[int]struct{}, cap(pairs))
	for _, counts := range []map[int]int{m.positive, m.negative} {
		for index := range counts {
			if _, ok := seen[index]; ok {
				continue
			}
			seen[index] = struct{}{}
			pairs = append(pairs, Pair{Key: index, Weight: float32(m.Score(index, true))})
		}
	}
	sortByMagnitude(pairs)
	return truncate(pairs, m.topK)
}

//TopWeights is the weight-magnitude ranking of the embedded model.
func (m *PMI) TopWeights() []Pair {
	return m.model.Rank()
}

//TopWeightsPMI maps each feature of TopWeights to its PMI with the positive class.
func (m *PMI) TopWeightsPMI() map[int]float64 {
	top := m.TopWeights()
	scores := make(map[int]float64, len(top))
	for _, p := range top {
		scores[p.Key] = m.Score(p.Key, true)
	}
	return scores
}

func (m *PMI) Bias() float32 { return m.model.Bias() }
