package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarstars/sketched_classification/golang/wmsketch/wml"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDecodeConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg := decodeConfig(writeTemp(t, dir, "run.yaml", "method: WMSketch\nlog2_width: 12\nbudgets:\n  - label: tiny\n    log2_width: 4\n    depth: 1\n"))
	assert.Equal(t, "WMSketch", cfg.Method)
	assert.Equal(t, 12, cfg.Log2Width)
	assert.Equal(t, []wml.Budget{{Label: "tiny", Log2Width: 4, Depth: 1}}, cfg.Budgets)
	assert.Equal(t, 512, cfg.TopK)
	assert.Equal(t, "xxhash", cfg.Hash)

	cfg = decodeConfig(writeTemp(t, dir, "run.json", `{"method": "PMI", "lr_init": 0.5, "topk": 0}`))
	assert.Equal(t, "PMI", cfg.Method)
	assert.Equal(t, float32(0.5), cfg.LearningRate)
	assert.Equal(t, 0, cfg.TopK, "an explicit zero overrides the default")
	assert.Equal(t, 1, cfg.Epochs)
}

func TestTrainAndGraphModes(t *testing.T) {
	dir := t.TempDir()
	trainFile := writeTemp(t, dir, "train.svm", "1 1:1 3:0.5\n-1 2:1\n1 1:1\n-1 2:1 3:0.5\n")

	cfg := wml.DefaultConfig()
	cfg.Method = "AWMsketch"
	cfg.Log2Width = 6
	cfg.TopK = 2
	cfg.Epochs = 3
	cfg.Train = trainFile
	cfg.Test = trainFile
	cfg.FileNameResults = filepath.Join(dir, "results.json")
	cfg.FileNameTopIndices = filepath.Join(dir, "top_indices.npy")
	cfg.FileNameTopWeights = filepath.Join(dir, "top_weights.npy")
	cfg.FileNameMetrics = filepath.Join(dir, "train.prom")
	cfg.FileNameGraph = filepath.Join(dir, "slots.svg")

	train(cfg)

	raw, err := os.ReadFile(cfg.FileNameResults)
	require.NoError(t, err)
	var report wml.Report
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Equal(t, "AWMsketch", report.Method)
	assert.Equal(t, 12, report.TrainCount)
	require.NotNil(t, report.Test)

	ranked, err := wml.LoadTopWeights(cfg.FileNameTopIndices, cfg.FileNameTopWeights)
	require.NoError(t, err)
	assert.Equal(t, report.TopIndices, []int{ranked[0].Key, ranked[1].Key})
	assert.FileExists(t, cfg.FileNameMetrics)

	graph(cfg)
	assert.FileExists(t, cfg.FileNameGraph)
}

func TestCollisionsMode(t *testing.T) {
	dir := t.TempDir()
	cfg := wml.DefaultConfig()
	cfg.Train = writeTemp(t, dir, "train.svm", "1 1:1 2:1\n-1 3:1\n")
	cfg.FileNameResults = filepath.Join(dir, "collisions.json")

	collisions(cfg)

	raw, err := os.ReadFile(cfg.FileNameResults)
	require.NoError(t, err)
	var report collisionsReport
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Equal(t, uint64(3), report.DistinctFeatures)
	assert.Equal(t, uint64(1024), report.Slots)
	assert.Empty(t, report.RankedAliases)
}

func TestCollisionsModeGroupsRankedFeatures(t *testing.T) {
	dir := t.TempDir()
	cfg := wml.DefaultConfig()
	cfg.Log2Width = 1
	cfg.Train = writeTemp(t, dir, "train.svm", "1 0:1 1:1 2:1\n")
	cfg.FileNameResults = filepath.Join(dir, "collisions.json")
	cfg.FileNameTopIndices = filepath.Join(dir, "top_indices.npy")
	cfg.FileNameTopWeights = filepath.Join(dir, "top_weights.npy")
	ranked := []wml.Pair{{Key: 0, Weight: 1}, {Key: 1, Weight: -0.5}, {Key: 2, Weight: 0.25}}
	require.NoError(t, wml.DumpTopWeights(ranked, cfg.FileNameTopIndices, cfg.FileNameTopWeights))

	collisions(cfg)

	raw, err := os.ReadFile(cfg.FileNameResults)
	require.NoError(t, err)
	var report collisionsReport
	require.NoError(t, json.Unmarshal(raw, &report))
	require.NotEmpty(t, report.RankedAliases, "three features in two slots share one")
	for slot, members := range report.RankedAliases {
		assert.GreaterOrEqual(t, len(members), 2)
		for _, index := range members {
			assert.Equal(t, slot, wml.SlotFor(wml.HashXX, 1, index))
		}
	}
}
