package wml

//Truncated keeps only a K-entry active set with lazy L2 decay. A feature outside the
//set has weight zero for prediction and for the gradient; if its update cannot displace
//the lightest active entry it is dropped.
type Truncated struct {
	active       *Heap
	bias         float32
	scale        float32
	learningRate float32
	l2           float32
	iteration    int64
}

//NewTruncated creates an empty model tracking at most topK features.
func NewTruncated(topK int, learningRate, l2 float32) *Truncated {
	return &Truncated{
		active:       NewHeap(topK),
		scale:        1,
		learningRate: learningRate,
		l2:           l2,
	}
}

func (m *Truncated) weight(index int) float32 {
	if m.active.Contains(index) {
		return m.active.Get(index)
	}
	return 0
}

func (m *Truncated) score(features []Feature) float32 {
	var sum float32
	for _, f := range features {
		sum += m.weight(f.Index) * f.Value
	}
	return sum*m.scale + m.bias
}

func (m *Truncated) Predict(features []Feature) bool {
	return m.score(features) >= 0
}

//Update stores weights divided by the scale so that reading them back through the
//scale yields the decayed value.
func (m *Truncated) Update(features []Feature, label bool) bool {
	score := m.score(features)
	y := Sign(label)
	lr := learningRate(m.learningRate, m.l2, m.iteration)

	m.scale *= 1 - lr*m.l2

	g := logisticGrad(y * score)
	for _, f := range features {
		delta := lr * y * g * f.Value / m.scale
		m.active.InsertOrChange(f.Index, m.weight(f.Index)-delta)
	}

	m.bias -= lr * y * g
	m.iteration++
	return score >= 0
}

func (m *Truncated) Rank() []Pair {
	items := m.active.Items()
	for i := range items {
		items[i].Weight *= m.scale
	}
	sortByMagnitude(items)
	return items
}

func (m *Truncated) Bias() float32 { return m.bias }

//Scale returns the accumulated lazy decay factor.
func (m *Truncated) Scale() float32 { return m.scale }
