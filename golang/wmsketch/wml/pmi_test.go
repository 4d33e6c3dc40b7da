package wml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPMIScores(t *testing.T) {
	m := NewPMI(2, 2, 0.1, 0, 1)
	for i := 0; i < 3; i++ {
		m.Update([]Feature{{Index: 0, Value: 1}}, true)
		m.Update([]Feature{{Index: 1, Value: 1}}, false)
	}

	assert.InDelta(t, math.Log(1.6), m.Score(0, true), 1e-9)
	assert.InDelta(t, math.Log(0.4), m.Score(1, true), 1e-9)
	assert.InDelta(t, math.Log(0.4), m.Score(0, false), 1e-9)

	ranked := m.Rank()
	require.Len(t, ranked, 2)
	assert.Equal(t, 1, ranked[0].Key, "ranked by |PMI|")
	assert.InDelta(t, math.Log(0.4), ranked[0].Weight, 1e-6)
	assert.Equal(t, 0, ranked[1].Key)
}

func TestPMIDelegatesPrediction(t *testing.T) {
	m := NewPMI(3, 3, 0.5, 0, 1)
	Train(m, twoFeatureDataset(30), TrainParams{Epochs: 1})

	assert.True(t, m.Predict([]Feature{{Index: 1, Value: 1}}))
	assert.False(t, m.Predict([]Feature{{Index: 2, Value: 1}}))
	assert.Equal(t, m.model.Bias(), m.Bias())

	top := m.TopWeightsPMI()
	assert.Len(t, top, 3)
	assert.Greater(t, top[1], 0.0)
	assert.Less(t, top[2], 0.0)
}

func TestPMIRankTruncates(t *testing.T) {
	m := NewPMI(10, 3, 0.1, 0, 1)
	for i := 0; i < 10; i++ {
		m.Update([]Feature{{Index: i, Value: 1}}, i%2 == 0)
	}
	assert.Len(t, m.Rank(), 3)
}
