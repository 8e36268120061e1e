// Package hybrid implements the hybrid quantum-classical regression model:
// a parameterized quantum circuit producing per-qubit expectation values,
// fed through a trainable linear output layer.
package hybrid

import (
	"fmt"
	"math/rand"
	"runtime"

	"github.com/qemar/qlab/internal/quantum"
)

// Model holds the trainable state: the circuit weight tensor (layers x
// qubits) and the linear head. The optimizer is the only writer; inference
// treats the model as read-only.
type Model struct {
	circuit *quantum.EmbeddingCircuit

	Weights [][]float64 // circuit rotation angles, layers x qubits
	LinW    []float64   // linear layer weights, one per qubit expectation
	LinB    float64     // linear layer bias
}

// NewModel creates a model with small random initial parameters drawn from
// the given generator.
func NewModel(numQubits, layers int, rng *rand.Rand) *Model {
	weights := make([][]float64, layers)
	for l := range weights {
		weights[l] = make([]float64, numQubits)
		for q := range weights[l] {
			weights[l][q] = rng.NormFloat64() * 0.1
		}
	}
	linW := make([]float64, numQubits)
	for q := range linW {
		linW[q] = rng.NormFloat64() * 0.1
	}

	return &Model{
		circuit: quantum.NewEmbeddingCircuit(numQubits, layers),
		Weights: weights,
		LinW:    linW,
	}
}

// Forward evaluates one sample: the circuit expectation values and the
// scalar prediction through the linear head.
func (m *Model) Forward(features []float64) (float64, []float64, error) {
	exps, err := m.circuit.Expectations(features, m.Weights)
	if err != nil {
		return 0, nil, fmt.Errorf("circuit evaluation failed: %w", err)
	}
	pred := m.LinB
	for q, e := range exps {
		pred += m.LinW[q] * e
	}
	return pred, exps, nil
}

// Predict runs inference over the feature matrix in fixed-size chunks,
// releasing transient buffers between chunks to bound peak memory. No
// gradient bookkeeping happens here.
func (m *Model) Predict(features [][]float64, chunkSize int) ([]float64, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	preds := make([]float64, len(features))
	for start := 0; start < len(features); start += chunkSize {
		end := start + chunkSize
		if end > len(features) {
			end = len(features)
		}
		for i := start; i < end; i++ {
			pred, _, err := m.Forward(features[i])
			if err != nil {
				return nil, fmt.Errorf("prediction failed at sample %d: %w", i, err)
			}
			preds[i] = pred
		}
		runtime.GC()
	}
	return preds, nil
}

// NumCircuitParams returns the number of circuit weights.
func (m *Model) NumCircuitParams() int {
	n := 0
	for _, layer := range m.Weights {
		n += len(layer)
	}
	return n
}
