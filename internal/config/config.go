// Package config provides configuration management functionality.
//
// Both experiment binaries construct their configuration exactly once at
// startup and pass it by reference to every component. No package in this
// repository reads configuration from ambient global state.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// HybridConfig holds configuration for the hybrid quantum-classical
// regression experiment (cmd/hybridreg).
type HybridConfig struct {
	LogLevel string

	// Data generation
	Seed      int64
	NSamples  int
	TestSplit float64 // fraction of samples held out for testing

	// Quantum model
	NQubits       int // one qubit per input feature
	CircuitLayers int

	// Training
	LearningRate float64
	Epochs       int
	BatchSize    int
	ChunkSize    int // outer chunk size, bounds peak memory only
	Patience     int // epochs without improvement before early stop

	// Gradient-boosted baseline
	BoostChunkSize    int
	TreesPerChunk     int
	BoostLearningRate float64
	BoostMaxDepth     int
	BoostMinLeafSize  int

	// Output
	CombinedPlotPath     string
	ResidualPlotPath     string
	TrainingPlotPath     string
	MetricsPlotPath      string
	OpenResultsInBrowser bool
}

// StudyConfig holds configuration for the 16-qubit holographic RT study
// (cmd/rtstudy). The struct is immutable after Load.
type StudyConfig struct {
	LogLevel string

	NQubits       int
	CircuitLayers int

	// Experiment sweep
	Seeds      []int64
	ThetaStart float64
	ThetaStop  float64
	ThetaSteps int
	NoiseProb  float64

	// Output
	OutputDir string
}

// LoadHybrid reads the hybrid regression configuration from environment
// variables, applying the experiment's fixed defaults.
func LoadHybrid() (*HybridConfig, error) {
	_ = godotenv.Load()

	cfg := &HybridConfig{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		Seed:      getEnvAsInt64("QLAB_SEED", 42),
		NSamples:  getEnvAsInt("QLAB_SAMPLES", 5000),
		TestSplit: 0.2,

		NQubits:       3,
		CircuitLayers: getEnvAsInt("QLAB_CIRCUIT_LAYERS", 2),

		LearningRate: 0.01,
		Epochs:       getEnvAsInt("QLAB_EPOCHS", 30),
		BatchSize:    32,
		ChunkSize:    getEnvAsInt("QLAB_CHUNK_SIZE", 512),
		Patience:     5,

		BoostChunkSize:    1000,
		TreesPerChunk:     25,
		BoostLearningRate: 0.1,
		BoostMaxDepth:     3,
		BoostMinLeafSize:  5,

		CombinedPlotPath:     "combined_results.png",
		ResidualPlotPath:     "residual_analysis.png",
		TrainingPlotPath:     "training_and_predictions.png",
		MetricsPlotPath:      "metrics_comparison.png",
		OpenResultsInBrowser: getEnvAsBool("QLAB_OPEN_BROWSER", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the hybrid configuration for values the pipeline cannot
// recover from at runtime.
func (c *HybridConfig) Validate() error {
	if c.NSamples <= 0 {
		return fmt.Errorf("sample count must be positive, got %d", c.NSamples)
	}
	if c.TestSplit <= 0 || c.TestSplit >= 1 {
		return fmt.Errorf("test split must be in (0, 1), got %f", c.TestSplit)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epoch count must be positive, got %d", c.Epochs)
	}
	if c.Patience <= 0 {
		return fmt.Errorf("early-stopping patience must be positive, got %d", c.Patience)
	}
	if c.ChunkSize <= 0 || c.BatchSize <= 0 {
		return fmt.Errorf("chunk size and batch size must be positive")
	}
	if c.BatchSize > c.ChunkSize {
		return fmt.Errorf("batch size %d exceeds chunk size %d", c.BatchSize, c.ChunkSize)
	}
	return nil
}

// LoadStudy reads the RT study configuration from environment variables,
// applying the fixed defaults of the 16-qubit run.
func LoadStudy() (*StudyConfig, error) {
	_ = godotenv.Load()

	cfg := &StudyConfig{
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		NQubits:       getEnvAsInt("QLAB_QUBITS", 16),
		CircuitLayers: getEnvAsInt("QLAB_CIRCUIT_LAYERS", 4),
		Seeds:         getEnvAsInt64Slice("QLAB_SEEDS", []int64{1, 2, 3, 4, 5, 6, 7, 8}),
		ThetaStart:    0.0,
		ThetaStop:     math.Pi,
		ThetaSteps:    getEnvAsInt("QLAB_THETA_STEPS", 9),
		NoiseProb:     getEnvAsFloat("QLAB_NOISE_PROB", 0.05),
		OutputDir:     getEnv("QLAB_OUTPUT_DIR", "qemar_rt_full16"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the study configuration. A non-power-of-two qubit count is
// fatal at startup: the bulk tree construction requires 2^depth leaves.
func (c *StudyConfig) Validate() error {
	if c.NQubits < 2 {
		return fmt.Errorf("qubit count must be at least 2, got %d", c.NQubits)
	}
	if c.NQubits&(c.NQubits-1) != 0 {
		return fmt.Errorf("qubit count must be a power of two, got %d", c.NQubits)
	}
	if c.CircuitLayers <= 0 {
		return fmt.Errorf("circuit layers must be positive, got %d", c.CircuitLayers)
	}
	if len(c.Seeds) == 0 {
		return fmt.Errorf("at least one seed is required")
	}
	if c.ThetaSteps < 2 {
		return fmt.Errorf("theta sweep needs at least 2 steps, got %d", c.ThetaSteps)
	}
	if c.NoiseProb < 0 || c.NoiseProb > 1 {
		return fmt.Errorf("noise probability must be in [0, 1], got %f", c.NoiseProb)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsInt64Slice(key string, defaultValue []int64) []int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return defaultValue
		}
		out = append(out, v)
	}
	return out
}
