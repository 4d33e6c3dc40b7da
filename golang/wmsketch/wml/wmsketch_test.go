package wml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWMSketchUpdateReturnsRefreshedPrediction(t *testing.T) {
	width := distinctWidth(t, HashXX, 4, 1, 2)

	m := NewWMSketch(width, 1, 4, 0.1, HashXX)
	assert.True(t, m.Update([]Feature{{Index: 1, Value: 1}}, true))

	m = NewWMSketch(width, 1, 4, 0.1, HashXX)
	assert.False(t, m.Update([]Feature{{Index: 1, Value: 1}}, false),
		"prediction is taken after the step")
}

func TestWMSketchRanksFeatureIndices(t *testing.T) {
	width := distinctWidth(t, HashXX, 4, 1, 2)
	m := NewWMSketch(width, 1, 2, 0.5, HashXX)
	Train(m, twoFeatureDataset(50), TrainParams{Epochs: 2})

	assert.True(t, m.Predict([]Feature{{Index: 1, Value: 1}}))
	assert.False(t, m.Predict([]Feature{{Index: 2, Value: 1}}))

	ranked := m.Rank()
	require.Len(t, ranked, 2)
	byKey := map[int]float32{}
	for _, p := range ranked {
		byKey[p.Key] = p.Weight
	}
	require.Contains(t, byKey, 1)
	require.Contains(t, byKey, 2)
	assert.Positive(t, byKey[1])
	assert.Negative(t, byKey[2])
	assert.Equal(t, m.Sketch().ReadSlot(1), byKey[1])
	assert.Equal(t, m.Sketch().ReadSlot(2), byKey[2])
}

func TestWMSketchUntrackedSlotsCountAsZero(t *testing.T) {
	width := distinctWidth(t, HashXX, 4, 1, 2)
	m := NewWMSketch(width, 1, 1, 0.5, HashXX)

	m.Update([]Feature{{Index: 1, Value: 1}}, true)
	m.Update([]Feature{{Index: 2, Value: 3}}, false)

	ranked := m.Rank()
	require.Len(t, ranked, 1)
	assert.Equal(t, 2, ranked[0].Key)
	assert.NotZero(t, m.Sketch().ReadSlot(1), "the sketch keeps the evicted counter")
}

func TestWMSketchRankIsBoundedAndDescending(t *testing.T) {
	m := NewWMSketch(5, 1, 6, 0.1, HashMetro)
	Train(m, linearDataset(3, 200, 40, 4), TrainParams{Epochs: 1})

	ranked := m.Rank()
	require.LessOrEqual(t, len(ranked), 6)
	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, abs32(ranked[i-1].Weight), abs32(ranked[i].Weight))
	}
}
