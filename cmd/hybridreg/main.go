// Package main is the entry point for the hybrid quantum-classical
// regression experiment. It generates a synthetic dataset, trains a
// parameterized-quantum-circuit model and a gradient-boosted baseline on
// the same standardized features, evaluates both, and renders a comparison
// figure.
package main

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/qemar/qlab/internal/boost"
	"github.com/qemar/qlab/internal/config"
	"github.com/qemar/qlab/internal/dataset"
	"github.com/qemar/qlab/internal/hybrid"
	"github.com/qemar/qlab/internal/metrics"
	"github.com/qemar/qlab/internal/plotting"
	"github.com/qemar/qlab/internal/report"
	"github.com/qemar/qlab/pkg/logger"
)

func main() {
	cfg, err := config.LoadHybrid()
	if err != nil {
		fallback := logger.New("info")
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.LogLevel)
	log = log.With().Str("run_id", uuid.New().String()).Logger()
	log.Info().Msg("Starting hybrid regression experiment")

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Experiment failed")
	}
}

func run(cfg *config.HybridConfig, log zerolog.Logger) error {
	// Data generation and preparation.
	generator, err := dataset.NewGenerator(cfg.Seed)
	if err != nil {
		return fmt.Errorf("failed to create data generator: %w", err)
	}
	data, err := generator.Generate(cfg.NSamples)
	if err != nil {
		return fmt.Errorf("failed to generate dataset: %w", err)
	}
	log.Info().Int("samples", data.Len()).Msg("Dataset generated")

	train, test, err := data.Split(cfg.TestSplit)
	if err != nil {
		return fmt.Errorf("failed to split dataset: %w", err)
	}
	scaler, err := dataset.FitScaler(train)
	if err != nil {
		return fmt.Errorf("failed to fit scaler: %w", err)
	}
	trainScaled := scaler.Transform(train)
	testScaled := scaler.Transform(test)
	log.Info().
		Int("train", trainScaled.Len()).
		Int("test", testScaled.Len()).
		Msg("Dataset split and standardized")

	// Hybrid quantum-classical model.
	modelRng := rand.New(rand.NewSource(cfg.Seed))
	model := hybrid.NewModel(cfg.NQubits, cfg.CircuitLayers, modelRng)
	trainer := hybrid.NewTrainer(model, hybrid.TrainConfig{
		LearningRate: cfg.LearningRate,
		Epochs:       cfg.Epochs,
		BatchSize:    cfg.BatchSize,
		ChunkSize:    cfg.ChunkSize,
		Patience:     cfg.Patience,
	}, log)

	trainResult, err := trainer.Train(trainScaled.Features, trainScaled.Targets)
	if err != nil {
		return fmt.Errorf("hybrid training failed: %w", err)
	}
	log.Info().
		Int("epochs_run", trainResult.EpochsRun).
		Float64("best_loss", trainResult.BestLoss).
		Bool("stopped_early", trainResult.StoppedEarly).
		Msg("Hybrid model trained")

	quantumPreds, err := model.Predict(testScaled.Features, cfg.ChunkSize)
	if err != nil {
		return fmt.Errorf("hybrid inference failed: %w", err)
	}

	// Gradient-boosted baseline over the same standardized features.
	booster := boost.NewRegressor(boost.Config{
		TreesPerChunk: cfg.TreesPerChunk,
		LearningRate:  cfg.BoostLearningRate,
		MaxDepth:      cfg.BoostMaxDepth,
		MinLeafSize:   cfg.BoostMinLeafSize,
	}, log)
	if err := booster.Fit(trainScaled.Features, trainScaled.Targets, cfg.BoostChunkSize); err != nil {
		return fmt.Errorf("boosting failed: %w", err)
	}
	log.Info().Int("trees", booster.NumTrees()).Msg("Boosted baseline trained")

	boostPreds, err := booster.Predict(testScaled.Features)
	if err != nil {
		return fmt.Errorf("boosted inference failed: %w", err)
	}

	// Evaluation.
	quantumSummary, err := metrics.Evaluate(quantumPreds, testScaled.Targets)
	if err != nil {
		return fmt.Errorf("hybrid evaluation failed: %w", err)
	}
	boostSummary, err := metrics.Evaluate(boostPreds, testScaled.Targets)
	if err != nil {
		return fmt.Errorf("baseline evaluation failed: %w", err)
	}

	log.Info().
		Float64("quantum_mae", quantumSummary.MAE).
		Float64("quantum_rmse", quantumSummary.RMSE).
		Float64("quantum_r2", quantumSummary.R2).
		Float64("xgb_mae", boostSummary.MAE).
		Float64("xgb_rmse", boostSummary.RMSE).
		Float64("xgb_r2", boostSummary.R2).
		Msg("Evaluation complete")

	fmt.Printf("Quantum hybrid:   MAE=%.4f RMSE=%.4f R2=%.4f\n", quantumSummary.MAE, quantumSummary.RMSE, quantumSummary.R2)
	fmt.Printf("Gradient boosted: MAE=%.4f RMSE=%.4f R2=%.4f\n", boostSummary.MAE, boostSummary.RMSE, boostSummary.R2)

	// Visualization is best-effort: a plotting failure must not discard
	// the numerical results above.
	log.Info().
		Str("combined", cfg.CombinedPlotPath).
		Str("residuals", cfg.ResidualPlotPath).
		Str("training", cfg.TrainingPlotPath).
		Str("metrics", cfg.MetricsPlotPath).
		Msg("Rendering combined figure")
	if err := plotting.CombinedResults(
		cfg.CombinedPlotPath,
		testScaled.Targets, quantumPreds, boostPreds,
		quantumSummary, boostSummary,
	); err != nil {
		log.Error().Err(err).Msg("Plotting failed, continuing without figures")
		return nil
	}

	if cfg.OpenResultsInBrowser {
		if err := report.OpenInBrowser(cfg.CombinedPlotPath); err != nil {
			log.Warn().Err(err).Msg("Could not open results in browser")
		}
	}

	return nil
}
