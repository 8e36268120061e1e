package plotting

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qemar/qlab/internal/bulk"
	"github.com/qemar/qlab/internal/metrics"
)

func requireNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestCombinedResults(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	n := 50
	targets := make([]float64, n)
	quantumPreds := make([]float64, n)
	boostPreds := make([]float64, n)
	for i := range targets {
		targets[i] = rng.NormFloat64()
		quantumPreds[i] = targets[i] + rng.NormFloat64()*0.3
		boostPreds[i] = targets[i] + rng.NormFloat64()*0.1
	}

	quantumSummary, err := metrics.Evaluate(quantumPreds, targets)
	require.NoError(t, err)
	boostSummary, err := metrics.Evaluate(boostPreds, targets)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "combined.png")
	require.NoError(t, CombinedResults(path, targets, quantumPreds, boostPreds, quantumSummary, boostSummary))
	requireNonEmptyFile(t, path)
}

func TestStudyFigures(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "alpha_hist.png")
	require.NoError(t, AlphaHistogram(path, []float64{1.1, 1.2, 1.15, 1.3, 1.05}))
	requireNonEmptyFile(t, path)

	path = filepath.Join(dir, "alpha_vs_theta.png")
	require.NoError(t, AlphaVsTheta(path, []float64{0, 1, 2}, []float64{1.0, 1.4, 1.1}))
	requireNonEmptyFile(t, path)

	path = filepath.Join(dir, "noise_shift.png")
	require.NoError(t, NoiseShift(path, []int64{1, 2, 3}, []float64{-0.1, 0.05, 0.02}))
	requireNonEmptyFile(t, path)

	path = filepath.Join(dir, "rt_scatter.png")
	require.NoError(t, RTScatter(path, []float64{0.2, 0.5, 0.9}, []float64{1, 1, 2}, 1.8))
	requireNonEmptyFile(t, path)

	tree, err := bulk.NewTree(4)
	require.NoError(t, err)
	positions, lines := tree.Layout()

	path = filepath.Join(dir, "bulk_tree.png")
	require.NoError(t, BulkTree(path, positions, lines))
	requireNonEmptyFile(t, path)
}
