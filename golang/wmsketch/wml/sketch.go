package wml

//LogisticSketch approximates a weight vector of any dimensionality with 2^width
//counters addressed by a hash of the feature index. Colliding indices share a counter;
//nothing detects or resolves that.
type LogisticSketch struct {
	width        int
	depth        int
	mask         uint64
	hash         HashFunc
	weights      []float32
	bias         float32
	learningRate float32
}

//NewLogisticSketch allocates 2^width counters. depth is recorded but a single row is
//used: there is no median-of-rows estimate.
func NewLogisticSketch(width, depth int, learningRate float32, hash HashFunc) *LogisticSketch {
	if hash == nil {
		hash = HashXX
	}
	if depth > 1 {
		logger.Warnw("sketch depth has no effect, a single hash row is used", "depth", depth)
	}
	size := 1 << width
	return &LogisticSketch{
		width:        width,
		depth:        depth,
		mask:         uint64(size - 1),
		hash:         hash,
		weights:      make([]float32, size),
		learningRate: learningRate,
	}
}

//Slot returns the counter addressed by a feature index.
func (s *LogisticSketch) Slot(index int) int {
	return slotOf(s.hash, index, s.mask)
}

func (s *LogisticSketch) product(features []Feature) float32 {
	sum := s.bias
	for _, f := range features {
		sum += s.weights[s.Slot(f.Index)] * f.Value
	}
	return sum
}

//Predict classifies with the raw counters.
func (s *LogisticSketch) Predict(features []Feature) bool {
	return s.product(features) >= 0
}

//Update takes one logistic gradient step on every touched counter and the bias, always
//with the constant step given at construction.
//The returned prediction is the one made before the step.
func (s *LogisticSketch) Update(features []Feature, label bool) bool {
	y := Sign(label)
	score := s.product(features)
	g := logisticGrad(y * score)
	for _, f := range features {
		slot := s.Slot(f.Index)
		s.weights[slot] -= s.learningRate * g * y * f.Value
	}
	s.bias -= s.learningRate * g * y
	return score >= 0
}

//ReadSlot returns the counter addressed by index.
func (s *LogisticSketch) ReadSlot(index int) float32 {
	return s.weights[s.Slot(index)]
}

//AdjustSlot adds delta to the counter addressed by index.
func (s *LogisticSketch) AdjustSlot(index int, delta float32) {
	s.weights[s.Slot(index)] += delta
}

//WeightAt returns the counter at a physical slot.
func (s *LogisticSketch) WeightAt(slot int) float32 {
	return s.weights[slot]
}

func (s *LogisticSketch) Bias() float32 { return s.bias }

func (s *LogisticSketch) Len() int { return len(s.weights) }

func (s *LogisticSketch) Width() int { return s.width }

func (s *LogisticSketch) Depth() int { return s.depth }
