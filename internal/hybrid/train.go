package hybrid

import (
	"fmt"
	"math"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/qemar/qlab/internal/sysinfo"
)

// TrainConfig holds the optimizer hyperparameters and the memory-bounding
// loop shape. Chunking exists purely to bound peak memory, not for
// correctness: gradients are applied per mini-batch regardless.
type TrainConfig struct {
	LearningRate float64
	Epochs       int
	BatchSize    int
	ChunkSize    int
	Patience     int
}

// TrainResult summarizes one training run.
type TrainResult struct {
	EpochLosses  []float64
	BestLoss     float64
	EpochsRun    int
	StoppedEarly bool
}

// Trainer minimizes mean-squared error with Adam. Circuit gradients come
// from the parameter-shift rule; the linear head is differentiated
// analytically.
type Trainer struct {
	model *Model
	cfg   TrainConfig
	log   zerolog.Logger

	// Adam moment estimates, laid out as circuit weights then linear
	// weights then bias.
	m    []float64
	v    []float64
	step int
}

const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-8
)

// NewTrainer creates a trainer for the given model.
func NewTrainer(model *Model, cfg TrainConfig, log zerolog.Logger) *Trainer {
	nParams := model.NumCircuitParams() + len(model.LinW) + 1
	return &Trainer{
		model: model,
		cfg:   cfg,
		log:   log.With().Str("service", "hybrid_trainer").Logger(),
		m:     make([]float64, nParams),
		v:     make([]float64, nParams),
	}
}

// Train runs up to cfg.Epochs passes over the training data, processing it
// in fixed-size outer chunks and inner mini-batches. Transient buffers are
// released between chunks and the process footprint is logged. Training
// stops early when the epoch loss has not improved for cfg.Patience
// consecutive epochs.
func (t *Trainer) Train(features [][]float64, targets []float64) (*TrainResult, error) {
	if len(features) != len(targets) {
		return nil, fmt.Errorf("feature count %d does not match target count %d", len(features), len(targets))
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("training set is empty")
	}

	result := &TrainResult{BestLoss: math.Inf(1)}
	noImprove := 0

	for epoch := 0; epoch < t.cfg.Epochs; epoch++ {
		var epochLoss float64

		for chunkStart := 0; chunkStart < len(features); chunkStart += t.cfg.ChunkSize {
			chunkEnd := chunkStart + t.cfg.ChunkSize
			if chunkEnd > len(features) {
				chunkEnd = len(features)
			}

			for batchStart := chunkStart; batchStart < chunkEnd; batchStart += t.cfg.BatchSize {
				batchEnd := batchStart + t.cfg.BatchSize
				if batchEnd > chunkEnd {
					batchEnd = chunkEnd
				}
				loss, err := t.trainBatch(features[batchStart:batchEnd], targets[batchStart:batchEnd])
				if err != nil {
					return nil, fmt.Errorf("batch [%d:%d] failed: %w", batchStart, batchEnd, err)
				}
				epochLoss += loss * float64(batchEnd-batchStart)
			}

			// Reclaim transient circuit buffers before the next chunk.
			runtime.GC()
			t.log.Debug().
				Int("epoch", epoch).
				Int("chunk_end", chunkEnd).
				Float64("rss_mb", sysinfo.RSSMegabytes()).
				Msg("Chunk processed")
		}

		epochLoss /= float64(len(features))
		result.EpochLosses = append(result.EpochLosses, epochLoss)
		result.EpochsRun = epoch + 1

		t.log.Info().
			Int("epoch", epoch).
			Float64("loss", epochLoss).
			Msg("Epoch complete")

		if epochLoss < result.BestLoss {
			result.BestLoss = epochLoss
			noImprove = 0
		} else {
			noImprove++
			if noImprove >= t.cfg.Patience {
				result.StoppedEarly = true
				t.log.Info().
					Int("epoch", epoch).
					Float64("best_loss", result.BestLoss).
					Msg("Early stopping: no improvement")
				break
			}
		}
	}

	return result, nil
}

// trainBatch accumulates gradients over one mini-batch and applies a single
// Adam update. Returns the batch mean-squared error.
func (t *Trainer) trainBatch(features [][]float64, targets []float64) (float64, error) {
	model := t.model
	nCircuit := model.NumCircuitParams()
	grads := make([]float64, nCircuit+len(model.LinW)+1)
	batchN := float64(len(features))

	var loss float64
	for i, row := range features {
		pred, exps, err := model.Forward(row)
		if err != nil {
			return 0, err
		}
		diff := pred - targets[i]
		loss += diff * diff

		// d(MSE)/d(pred), averaged over the batch.
		gradFactor := 2 * diff / batchN

		for q, e := range exps {
			grads[nCircuit+q] += gradFactor * e
		}
		grads[nCircuit+len(model.LinW)] += gradFactor

		// Parameter-shift rule: dE/dw = (E(w+pi/2) - E(w-pi/2)) / 2.
		idx := 0
		for l := range model.Weights {
			for q := range model.Weights[l] {
				dPred, err := t.shiftGradient(row, l, q)
				if err != nil {
					return 0, err
				}
				grads[idx] += gradFactor * dPred
				idx++
			}
		}
	}

	t.applyAdam(grads)
	return loss / batchN, nil
}

// shiftGradient evaluates the derivative of the model prediction with
// respect to circuit weight (l, q) via two shifted circuit evaluations.
func (t *Trainer) shiftGradient(features []float64, l, q int) (float64, error) {
	model := t.model
	original := model.Weights[l][q]

	model.Weights[l][q] = original + math.Pi/2
	expsPlus, err := model.circuit.Expectations(features, model.Weights)
	if err != nil {
		model.Weights[l][q] = original
		return 0, err
	}

	model.Weights[l][q] = original - math.Pi/2
	expsMinus, err := model.circuit.Expectations(features, model.Weights)
	model.Weights[l][q] = original
	if err != nil {
		return 0, err
	}

	var dPred float64
	for j := range expsPlus {
		dPred += model.LinW[j] * (expsPlus[j] - expsMinus[j]) / 2
	}
	return dPred, nil
}

// applyAdam performs one first-order adaptive update over all parameters.
func (t *Trainer) applyAdam(grads []float64) {
	t.step++
	model := t.model

	update := func(idx int, param float64, grad float64) float64 {
		t.m[idx] = adamBeta1*t.m[idx] + (1-adamBeta1)*grad
		t.v[idx] = adamBeta2*t.v[idx] + (1-adamBeta2)*grad*grad
		mHat := t.m[idx] / (1 - math.Pow(adamBeta1, float64(t.step)))
		vHat := t.v[idx] / (1 - math.Pow(adamBeta2, float64(t.step)))
		return param - t.cfg.LearningRate*mHat/(math.Sqrt(vHat)+adamEpsilon)
	}

	idx := 0
	for l := range model.Weights {
		for q := range model.Weights[l] {
			model.Weights[l][q] = update(idx, model.Weights[l][q], grads[idx])
			idx++
		}
	}
	for q := range model.LinW {
		model.LinW[q] = update(idx, model.LinW[q], grads[idx])
		idx++
	}
	model.LinB = update(idx, model.LinB, grads[idx])
}
