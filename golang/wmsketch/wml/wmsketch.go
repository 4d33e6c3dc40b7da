package wml

//WMSketch is a pure sketch with a read-only top-K overlay. Only counters whose slot is
//tracked contribute to a prediction; untracked slots count as zero.
type WMSketch struct {
	topK   int
	sketch *LogisticSketch
	heap   *Heap
	//owners remembers the last feature written into each tracked slot.
	owners map[int]int
}

//NewWMSketch creates a sketch of 2^width counters tracked by a K-entry heap keyed by slot.
func NewWMSketch(width, depth, topK int, learningRate float32, hash HashFunc) *WMSketch {
	return &WMSketch{
		topK:   topK,
		sketch: NewLogisticSketch(width, depth, learningRate, hash),
		heap:   NewHeap(topK),
		owners: make(map[int]int, topK),
	}
}

func (m *WMSketch) Predict(features []Feature) bool {
	sum := m.sketch.Bias()
	for _, f := range features {
		slot := m.sketch.Slot(f.Index)
		if m.heap.Contains(slot) {
			sum += m.heap.Get(slot) * f.Value
		}
	}
	return sum >= 0
}

//Update steps the sketch, pushes every touched slot into the tracker, and predicts with
//the refreshed tracker.
func (m *WMSketch) Update(features []Feature, label bool) bool {
	m.sketch.Update(features, label)
	for _, f := range features {
		slot := m.sketch.Slot(f.Index)
		m.heap.InsertOrChange(slot, m.sketch.WeightAt(slot))
		if m.heap.Contains(slot) {
			m.owners[slot] = f.Index
		}
	}
	m.pruneOwners()
	return m.Predict(features)
}

//pruneOwners drops evicted slots so the side table stays within K entries.
func (m *WMSketch) pruneOwners() {
	if len(m.owners) <= m.heap.Len() {
		return
	}
	for slot := range m.owners {
		if !m.heap.Contains(slot) {
			delete(m.owners, slot)
		}
	}
}

//Rank resynchronises each tracked slot from the sketch before ordering.
func (m *WMSketch) Rank() []Pair {
	for _, slot := range m.heap.Keys() {
		m.heap.ChangeVal(slot, m.sketch.WeightAt(slot))
	}
	items := m.heap.Items()
	pairs := make([]Pair, 0, len(items))
	for _, item := range items {
		pairs = append(pairs, Pair{Key: m.owners[item.Key], Weight: item.Weight})
	}
	sortByMagnitude(pairs)
	return truncate(pairs, m.topK)
}

func (m *WMSketch) Bias() float32 { return m.sketch.Bias() }

//Sketch exposes the underlying counters for diagnostics.
func (m *WMSketch) Sketch() *LogisticSketch { return m.sketch }
