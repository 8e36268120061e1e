package boost

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Config holds the boosting hyperparameters.
type Config struct {
	TreesPerChunk int
	LearningRate  float64
	MaxDepth      int
	MinLeafSize   int
}

// Regressor is a gradient-boosted ensemble grown incrementally across
// index-contiguous chunks of the training set. Each FitChunk call continues
// the existing ensemble with trees fitted on that chunk's rows only, so the
// result is sensitive to chunk order and size. That continuation policy is
// the model's contract, not an optimization target.
type Regressor struct {
	cfg   Config
	log   zerolog.Logger
	base  float64
	trees []*treeNode
	fit   bool
}

// NewRegressor creates an empty ensemble.
func NewRegressor(cfg Config, log zerolog.Logger) *Regressor {
	return &Regressor{
		cfg: cfg,
		log: log.With().Str("service", "boost").Logger(),
	}
}

// NumTrees returns the current ensemble size.
func (r *Regressor) NumTrees() int { return len(r.trees) }

// FitChunk appends cfg.TreesPerChunk trees fitted on the residuals of the
// given chunk. The first chunk also sets the base prediction to the chunk's
// target mean.
func (r *Regressor) FitChunk(features [][]float64, targets []float64) error {
	if len(features) == 0 || len(features) != len(targets) {
		return fmt.Errorf("invalid chunk: %d feature rows, %d targets", len(features), len(targets))
	}

	indices := make([]int, len(features))
	for i := range indices {
		indices[i] = i
	}

	if !r.fit {
		r.base = meanAt(targets, indices)
		r.fit = true
	}

	// Current ensemble predictions for this chunk's rows.
	preds := make([]float64, len(features))
	for i, row := range features {
		preds[i] = r.predictRow(row)
	}

	residuals := make([]float64, len(targets))
	for t := 0; t < r.cfg.TreesPerChunk; t++ {
		for i := range targets {
			residuals[i] = targets[i] - preds[i]
		}
		tree := buildTree(features, residuals, indices, 0, r.cfg.MaxDepth, r.cfg.MinLeafSize)
		r.trees = append(r.trees, tree)
		for i, row := range features {
			preds[i] += r.cfg.LearningRate * tree.predict(row)
		}
	}

	r.log.Debug().
		Int("chunk_rows", len(features)).
		Int("ensemble_trees", len(r.trees)).
		Msg("Chunk fitted")
	return nil
}

// Fit trains the ensemble over the whole training set in index-contiguous
// chunks of the given size, continuing (never restarting) the ensemble.
func (r *Regressor) Fit(features [][]float64, targets []float64, chunkSize int) error {
	if chunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}
	for start := 0; start < len(features); start += chunkSize {
		end := start + chunkSize
		if end > len(features) {
			end = len(features)
		}
		if err := r.FitChunk(features[start:end], targets[start:end]); err != nil {
			return fmt.Errorf("chunk [%d:%d] failed: %w", start, end, err)
		}
	}
	return nil
}

// Predict evaluates the ensemble for every feature row.
func (r *Regressor) Predict(features [][]float64) ([]float64, error) {
	if !r.fit {
		return nil, fmt.Errorf("regressor has not been fitted")
	}
	preds := make([]float64, len(features))
	for i, row := range features {
		preds[i] = r.predictRow(row)
	}
	return preds, nil
}

func (r *Regressor) predictRow(row []float64) float64 {
	pred := r.base
	for _, tree := range r.trees {
		pred += r.cfg.LearningRate * tree.predict(row)
	}
	return pred
}
