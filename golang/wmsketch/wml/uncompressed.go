package wml

//Uncompressed is a dense logistic regression over the full dimensionality. Its ranking
//is exact, which makes it the reference for the approximate models.
type Uncompressed struct {
	weights      []float32
	bias         float32
	topK         int
	learningRate float32
	l2           float32
	iteration    int64
}

//NewUncompressed creates a zero model of the given dimensionality.
func NewUncompressed(dimensionality, topK int, learningRate, l2 float32) *Uncompressed {
	return &Uncompressed{
		weights:      make([]float32, dimensionality),
		topK:         topK,
		learningRate: learningRate,
		l2:           l2,
		iteration:    1,
	}
}

//score ignores indices outside the dimensionality the model was built with.
func (m *Uncompressed) score(features []Feature) float32 {
	sum := m.bias
	for _, f := range features {
		if f.Index < len(m.weights) {
			sum += m.weights[f.Index] * f.Value
		}
	}
	return sum
}

func (m *Uncompressed) Predict(features []Feature) bool {
	return m.score(features) >= 0
}

func (m *Uncompressed) Update(features []Feature, label bool) bool {
	y := Sign(label)
	score := m.score(features)
	g := logisticGrad(y * score)
	lr := learningRate(m.learningRate, m.l2, m.iteration)
	for _, f := range features {
		if f.Index < len(m.weights) {
			m.weights[f.Index] -= lr * y * g * f.Value
		}
	}
	m.bias -= lr * y * g
	m.iteration++
	return score >= 0
}

func (m *Uncompressed) Rank() []Pair {
	pairs := make([]Pair, len(m.weights))
	for i, w := range m.weights {
		pairs[i] = Pair{Key: i, Weight: w}
	}
	sortByMagnitude(pairs)
	return truncate(pairs, m.topK)
}

func (m *Uncompressed) Bias() float32 { return m.bias }

//Weight returns the learned weight of one feature, zero outside the dimensionality.
func (m *Uncompressed) Weight(index int) float32 {
	if index < 0 || index >= len(m.weights) {
		return 0
	}
	return m.weights[index]
}
