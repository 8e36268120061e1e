package boost

import (
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		TreesPerChunk: 20,
		LearningRate:  0.1,
		MaxDepth:      3,
		MinLeafSize:   2,
	}
}

func testLogger() zerolog.Logger {
	return zerolog.New(nil).Level(zerolog.Disabled)
}

func makeData(n int, seed int64) ([][]float64, []float64) {
	rng := rand.New(rand.NewSource(seed))
	features := make([][]float64, n)
	targets := make([]float64, n)
	for i := range features {
		row := []float64{rng.Float64() * 4, rng.Float64() * 4, rng.Float64() * 4}
		features[i] = row
		targets[i] = row[0]*row[0] - 2*row[1] + row[2]
	}
	return features, targets
}

func TestFitReducesTrainingError(t *testing.T) {
	features, targets := makeData(400, 1)
	reg := NewRegressor(testConfig(), testLogger())

	require.NoError(t, reg.Fit(features, targets, 400))

	preds, err := reg.Predict(features)
	require.NoError(t, err)

	var sse, baseSSE float64
	var mean float64
	for _, y := range targets {
		mean += y
	}
	mean /= float64(len(targets))
	for i, y := range targets {
		d := preds[i] - y
		sse += d * d
		b := y - mean
		baseSSE += b * b
	}

	// The ensemble must clearly beat the mean predictor on its own
	// training data.
	assert.Less(t, sse, baseSSE*0.5)
}

func TestFitChunkContinuesEnsemble(t *testing.T) {
	features, targets := makeData(300, 2)
	reg := NewRegressor(testConfig(), testLogger())

	require.NoError(t, reg.FitChunk(features[:100], targets[:100]))
	assert.Equal(t, 20, reg.NumTrees())

	require.NoError(t, reg.FitChunk(features[100:200], targets[100:200]))
	assert.Equal(t, 40, reg.NumTrees())

	require.NoError(t, reg.FitChunk(features[200:], targets[200:]))
	assert.Equal(t, 60, reg.NumTrees())
}

func TestChunkedFitMatchesManualChunking(t *testing.T) {
	features, targets := makeData(200, 3)

	auto := NewRegressor(testConfig(), testLogger())
	require.NoError(t, auto.Fit(features, targets, 100))

	manual := NewRegressor(testConfig(), testLogger())
	require.NoError(t, manual.FitChunk(features[:100], targets[:100]))
	require.NoError(t, manual.FitChunk(features[100:], targets[100:]))

	autoPreds, err := auto.Predict(features)
	require.NoError(t, err)
	manualPreds, err := manual.Predict(features)
	require.NoError(t, err)
	assert.Equal(t, manualPreds, autoPreds)
}

func TestPredictBeforeFitFails(t *testing.T) {
	reg := NewRegressor(testConfig(), testLogger())
	_, err := reg.Predict([][]float64{{1, 2, 3}})
	assert.Error(t, err)
}

func TestFitChunkValidatesInput(t *testing.T) {
	reg := NewRegressor(testConfig(), testLogger())
	assert.Error(t, reg.FitChunk(nil, nil))
	assert.Error(t, reg.FitChunk([][]float64{{1}}, []float64{1, 2}))
	assert.Error(t, reg.Fit([][]float64{{1}}, []float64{1}, 0))
}
