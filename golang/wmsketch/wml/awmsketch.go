package wml

//AWMSketch keeps the heaviest features exactly in an active set and lets a hashed
//sketch approximate everything else. L2 decay is applied lazily through a global scale
//that multiplies every stored weight (active and sketched) at read time; the bias is
//never scaled.
type AWMSketch struct {
	sketch       *LogisticSketch
	active       *Heap
	bias         float32
	scale        float32
	learningRate float32
	l2           float32
	iteration    int64
}

//NewAWMSketch creates an active set of topK entries backed by 2^width counters.
func NewAWMSketch(topK, width, depth int, learningRate, l2 float32, hash HashFunc) *AWMSketch {
	return &AWMSketch{
		sketch:       NewLogisticSketch(width, depth, learningRate, hash),
		active:       NewHeap(topK),
		scale:        1,
		learningRate: learningRate,
		l2:           l2,
	}
}

func (m *AWMSketch) weight(index int) float32 {
	if m.active.Contains(index) {
		return m.active.Get(index)
	}
	return m.sketch.ReadSlot(index)
}

//product is the scaled dot product, without the bias.
func (m *AWMSketch) product(features []Feature) float32 {
	var sum float32
	for _, f := range features {
		sum += m.weight(f.Index) * f.Value
	}
	return sum * m.scale
}

func (m *AWMSketch) score(features []Feature) float32 {
	return m.product(features) + m.bias
}

func (m *AWMSketch) Predict(features []Feature) bool {
	return m.score(features) >= 0
}

//Update leaves the model and the iteration counter untouched for an empty example.
func (m *AWMSketch) Update(features []Feature, label bool) bool {
	if len(features) == 0 {
		return m.bias >= 0
	}

	score := m.score(features)
	y := Sign(label)
	lr := learningRate(m.learningRate, m.l2, m.iteration)
	g := logisticGrad(y * score)

	m.scale *= 1 - lr*m.l2

	for _, f := range features {
		delta := lr * y * g * f.Value
		if m.active.Contains(f.Index) {
			m.active.ChangeVal(f.Index, m.active.Get(f.Index)-delta)
			continue
		}
		m.sketch.AdjustSlot(f.Index, -delta)
		updated := m.sketch.ReadSlot(f.Index)
		if m.promotes(updated) {
			m.active.InsertOrChange(f.Index, updated)
		}
	}

	m.bias -= lr * y * g
	m.iteration++
	return score >= 0
}

//promotes admits a sketched weight while the active set has room, or when it is
//strictly heavier than the lightest active entry.
func (m *AWMSketch) promotes(weight float32) bool {
	if m.active.Len() < m.active.Capacity() {
		return true
	}
	minAbs, ok := m.active.MinAbs()
	return ok && abs32(weight) > minAbs
}

//Rank returns every active entry, scaled, descending by magnitude.
func (m *AWMSketch) Rank() []Pair {
	items := m.active.Items()
	for i := range items {
		items[i].Weight *= m.scale
	}
	sortByMagnitude(items)
	return items
}

func (m *AWMSketch) Bias() float32 { return m.bias }

//Scale returns the accumulated lazy decay factor.
func (m *AWMSketch) Scale() float32 { return m.scale }

//Active exposes the active set for diagnostics.
func (m *AWMSketch) Active() *Heap { return m.active }

//Sketch exposes the fallback counters for diagnostics.
func (m *AWMSketch) Sketch() *LogisticSketch { return m.sketch }
