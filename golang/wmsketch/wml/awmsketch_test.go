package wml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//With room for every feature, no collisions and no decay, the active set is an exact
//copy of the dense model.
func TestAWMSketchMatchesUncompressedWhenEverythingFits(t *testing.T) {
	const dim = 10
	all := make([]int, dim)
	for i := range all {
		all[i] = i
	}
	width := distinctWidth(t, HashXX, 6, all...)
	ds := linearDataset(7, 300, dim, 3)

	dense := NewUncompressed(dim, dim, 0.1, 0)
	awm := NewAWMSketch(dim, width, 1, 0.1, 0, HashXX)
	for i, example := range ds.Examples {
		want := dense.Update(example.Features, example.Label)
		got := awm.Update(example.Features, example.Label)
		require.Equal(t, want, got, "prediction at step %d", i)
	}

	assert.InDelta(t, dense.Bias(), awm.Bias(), 1e-4)
	ranked := awm.Rank()
	require.Equal(t, dim, len(ranked))
	for _, p := range ranked {
		assert.InDelta(t, dense.Weight(p.Key), p.Weight, 1e-4, "feature %d", p.Key)
	}
	assert.Equal(t, float32(1), awm.Scale())
}

func TestAWMSketchEmptyUpdateIsNoop(t *testing.T) {
	m := NewAWMSketch(4, 6, 1, 0.1, 0.1, HashXX)
	assert.True(t, m.Update(nil, false))
	assert.Equal(t, float32(0), m.Bias())
	assert.Equal(t, float32(1), m.Scale())
	assert.Equal(t, 0, m.Active().Len())
}

func TestAWMSketchLazyScale(t *testing.T) {
	m := NewAWMSketch(4, 6, 1, 0.1, 0.1, HashXX)
	m.Update([]Feature{{Index: 3, Value: 1}}, true)

	assert.InDelta(t, 0.99, m.Scale(), 1e-6)
	assert.InDelta(t, 0.05, m.Bias(), 1e-6, "bias is never scaled")
	ranked := m.Rank()
	require.Len(t, ranked, 1)
	assert.Equal(t, 3, ranked[0].Key)
	assert.InDelta(t, 0.05*0.99, ranked[0].Weight, 1e-6)
}

func TestAWMSketchPromotesHeavierSketchedFeature(t *testing.T) {
	width := distinctWidth(t, HashXX, 4, 1, 2)
	m := NewAWMSketch(1, width, 1, 0.1, 0, HashXX)

	m.Update([]Feature{{Index: 1, Value: 1}}, true)
	require.Equal(t, []int{1}, heapKeys(m.Active()))

	m.Update([]Feature{{Index: 2, Value: 0.1}}, true)
	assert.Equal(t, []int{1}, heapKeys(m.Active()), "a lighter weight stays in the sketch")
	assert.NotZero(t, m.Sketch().ReadSlot(2))

	m.Update([]Feature{{Index: 2, Value: 5}}, true)
	assert.Equal(t, []int{2}, heapKeys(m.Active()))
}

func TestAWMSketchLearnsSeparableData(t *testing.T) {
	width := distinctWidth(t, HashXX, 8, 1, 2)
	m := NewAWMSketch(2, width, 1, 0.5, 1e-6, HashXX)
	Train(m, twoFeatureDataset(50), TrainParams{Epochs: 2})

	assert.True(t, m.Predict([]Feature{{Index: 1, Value: 1}}))
	assert.False(t, m.Predict([]Feature{{Index: 2, Value: 1}}))
	ranked := m.Rank()
	require.Len(t, ranked, 2)
	assert.ElementsMatch(t, []int{1, 2}, []int{ranked[0].Key, ranked[1].Key})
}

func TestAWMSketchEndToEnd(t *testing.T) {
	width := distinctWidth(t, HashXX, 4, 0, 1)
	ds := &Dataset{}
	ds.Add(Example{Label: true, Features: []Feature{{Index: 0, Value: 1}}})
	ds.Add(Example{Label: false, Features: []Feature{{Index: 1, Value: 1}}})
	require.Equal(t, 2, ds.Dimensionality)

	m := NewAWMSketch(2, width, 1, 0.1, 1e-6, HashXX)
	result := Train(m, ds, TrainParams{Epochs: 1})

	assert.Equal(t, 2, result.Count)
	//A zero score predicts positive: the first example is right, the second (score = bias > 0) is not.
	assert.Equal(t, 1, result.Mismatches)
	weights := map[int]float32{}
	for _, p := range m.Rank() {
		weights[p.Key] = p.Weight
	}
	assert.Positive(t, weights[0])
	assert.Negative(t, weights[1])
}
