package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHybridDefaults(t *testing.T) {
	cfg, err := LoadHybrid()
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, 5000, cfg.NSamples)
	assert.Equal(t, 0.2, cfg.TestSplit)
	assert.Equal(t, 3, cfg.NQubits)
	assert.Equal(t, 2, cfg.CircuitLayers)
	assert.Equal(t, 30, cfg.Epochs)
	assert.Equal(t, 512, cfg.ChunkSize)
	assert.Equal(t, 25, cfg.TreesPerChunk)
}

func TestLoadHybridEnvOverrides(t *testing.T) {
	t.Setenv("QLAB_SEED", "7")
	t.Setenv("QLAB_SAMPLES", "100")
	t.Setenv("QLAB_EPOCHS", "3")

	cfg, err := LoadHybrid()
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 100, cfg.NSamples)
	assert.Equal(t, 3, cfg.Epochs)
}

func TestHybridValidate(t *testing.T) {
	cfg, err := LoadHybrid()
	require.NoError(t, err)

	cfg.NSamples = 0
	assert.Error(t, cfg.Validate())

	cfg, err = LoadHybrid()
	require.NoError(t, err)
	cfg.BatchSize = cfg.ChunkSize + 1
	assert.Error(t, cfg.Validate())

	cfg, err = LoadHybrid()
	require.NoError(t, err)
	cfg.Patience = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadHybridRejectsZeroEpochs(t *testing.T) {
	t.Setenv("QLAB_EPOCHS", "0")

	_, err := LoadHybrid()
	assert.Error(t, err)
}

func TestLoadStudyDefaults(t *testing.T) {
	cfg, err := LoadStudy()
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.NQubits)
	assert.Equal(t, 4, cfg.CircuitLayers)
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7, 8}, cfg.Seeds)
	assert.Equal(t, 9, cfg.ThetaSteps)
	assert.Equal(t, 0.05, cfg.NoiseProb)
	assert.Equal(t, "qemar_rt_full16", cfg.OutputDir)
}

func TestLoadStudyEnvOverrides(t *testing.T) {
	t.Setenv("QLAB_QUBITS", "4")
	t.Setenv("QLAB_SEEDS", "1, 2, 5")
	t.Setenv("QLAB_THETA_STEPS", "3")

	cfg, err := LoadStudy()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.NQubits)
	assert.Equal(t, []int64{1, 2, 5}, cfg.Seeds)
	assert.Equal(t, 3, cfg.ThetaSteps)
}

func TestStudyValidateRejectsNonPowerOfTwoQubits(t *testing.T) {
	for _, n := range []int{0, 1, 3, 6, 12, 17} {
		cfg := &StudyConfig{
			NQubits:       n,
			CircuitLayers: 2,
			Seeds:         []int64{1},
			ThetaSteps:    2,
			NoiseProb:     0.05,
		}
		assert.Error(t, cfg.Validate(), "qubit count %d", n)
	}
}

func TestStudyValidateBounds(t *testing.T) {
	base := func() *StudyConfig {
		return &StudyConfig{
			NQubits:       4,
			CircuitLayers: 2,
			Seeds:         []int64{1},
			ThetaSteps:    2,
			NoiseProb:     0.05,
		}
	}
	require.NoError(t, base().Validate())

	cfg := base()
	cfg.Seeds = nil
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.ThetaSteps = 1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.NoiseProb = 1.5
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.CircuitLayers = 0
	assert.Error(t, cfg.Validate())
}
