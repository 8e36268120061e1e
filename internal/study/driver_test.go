package study

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qemar/qlab/internal/config"
)

func smallStudyConfig(t *testing.T) *config.StudyConfig {
	t.Helper()
	cfg := &config.StudyConfig{
		LogLevel:      "disabled",
		NQubits:       4,
		CircuitLayers: 2,
		Seeds:         []int64{1, 2},
		ThetaStart:    0,
		ThetaStop:     math.Pi,
		ThetaSteps:    3,
		NoiseProb:     0.05,
		OutputDir:     t.TempDir(),
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestDriverRunWritesAllFigures(t *testing.T) {
	cfg := smallStudyConfig(t)
	log := zerolog.New(nil).Level(zerolog.Disabled)

	driver, err := NewDriver(cfg, log)
	require.NoError(t, err)
	require.NoError(t, driver.Run())

	for _, name := range []string{
		"alpha_hist.png",
		"alpha_vs_theta.png",
		"noise_shift.png",
		"rt_scatter16.png",
		"bulk_tree16.png",
	} {
		info, err := os.Stat(filepath.Join(cfg.OutputDir, name))
		require.NoError(t, err, "missing figure %s", name)
		assert.Greater(t, info.Size(), int64(0), "empty figure %s", name)
	}
}

func TestNewDriverRejectsBadQubitCount(t *testing.T) {
	cfg := smallStudyConfig(t)
	cfg.NQubits = 6

	log := zerolog.New(nil).Level(zerolog.Disabled)
	_, err := NewDriver(cfg, log)
	assert.Error(t, err)
}

func TestDriverRunsAreReproducible(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)

	cfgA := smallStudyConfig(t)
	driverA, err := NewDriver(cfgA, log)
	require.NoError(t, err)

	stateA, err := driverA.stateForSeed(3, math.Pi/4)
	require.NoError(t, err)

	cfgB := smallStudyConfig(t)
	driverB, err := NewDriver(cfgB, log)
	require.NoError(t, err)

	stateB, err := driverB.stateForSeed(3, math.Pi/4)
	require.NoError(t, err)

	assert.Equal(t, stateA.Amplitudes, stateB.Amplitudes)
}
