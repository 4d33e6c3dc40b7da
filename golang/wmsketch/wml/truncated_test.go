package wml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncatedDropsLightCandidates(t *testing.T) {
	m := NewTruncated(1, 0.1, 0)

	m.Update([]Feature{{Index: 1, Value: 1}}, true)
	require.Equal(t, []int{1}, heapKeys(m.active))

	m.Update([]Feature{{Index: 2, Value: 0.5}}, true)
	assert.Equal(t, []int{1}, heapKeys(m.active))
	assert.InDelta(t, 0.05, m.Rank()[0].Weight, 1e-6)

	m.Update([]Feature{{Index: 2, Value: 3}}, true)
	assert.Equal(t, []int{2}, heapKeys(m.active))
}

func TestTruncatedStoresDeltaOverScale(t *testing.T) {
	m := NewTruncated(4, 0.1, 0.1)
	m.Update([]Feature{{Index: 3, Value: 1}}, true)

	assert.InDelta(t, 0.99, m.Scale(), 1e-6)
	assert.InDelta(t, 0.05/0.99, m.active.Get(3), 1e-6)
	ranked := m.Rank()
	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.05, ranked[0].Weight, 1e-6)
}

func TestTruncatedEmptyUpdateStillAdvances(t *testing.T) {
	m := NewTruncated(4, 0.1, 0.1)
	m.Update(nil, true)
	assert.Equal(t, int64(1), m.iteration)
	assert.InDelta(t, 0.99, m.Scale(), 1e-6)
	assert.InDelta(t, 0.05, m.Bias(), 1e-6)
}

func TestTruncatedLearnsSeparableData(t *testing.T) {
	m := NewTruncated(2, 0.5, 1e-6)
	Train(m, twoFeatureDataset(50), TrainParams{Epochs: 2})

	assert.True(t, m.Predict([]Feature{{Index: 1, Value: 1}}))
	assert.False(t, m.Predict([]Feature{{Index: 2, Value: 1}}))
	ranked := m.Rank()
	require.Len(t, ranked, 2)
	assert.ElementsMatch(t, []int{1, 2}, []int{ranked[0].Key, ranked[1].Key})
}
