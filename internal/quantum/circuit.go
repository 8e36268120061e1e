package quantum

import (
	"fmt"
	"math"
	"math/rand"
)

// Evaluator is the circuit-evaluation boundary used by the experiment
// drivers: parameters go in, a state vector or per-qubit expectation values
// come out. Gradients are obtained through the parameter-shift rule on top
// of this interface, never by differentiating simulator internals.
type Evaluator interface {
	// Expectations evaluates the circuit for a single sample and returns
	// one Pauli-Z expectation value per qubit.
	Expectations(features []float64, weights [][]float64) ([]float64, error)
}

// EmbeddingCircuit is the hybrid model's fixed-topology circuit: angle
// embedding of the input features followed by trainable entangling layers.
type EmbeddingCircuit struct {
	NumQubits int
	Layers    int
}

// NewEmbeddingCircuit creates a circuit over numQubits qubits with the given
// number of entangling layers.
func NewEmbeddingCircuit(numQubits, layers int) *EmbeddingCircuit {
	return &EmbeddingCircuit{NumQubits: numQubits, Layers: layers}
}

// Expectations embeds one sample's features as RY rotation angles, applies
// the trainable entangling layers and returns <Z> per qubit.
//
// weights has shape [Layers][NumQubits]. Each layer applies a per-qubit RY
// rotation followed by a CNOT ring (qubit i controls qubit (i+1) mod n).
func (c *EmbeddingCircuit) Expectations(features []float64, weights [][]float64) ([]float64, error) {
	if len(features) != c.NumQubits {
		return nil, fmt.Errorf("expected %d features, got %d", c.NumQubits, len(features))
	}
	if len(weights) != c.Layers {
		return nil, fmt.Errorf("expected %d weight layers, got %d", c.Layers, len(weights))
	}

	state := NewStateVector(c.NumQubits)
	for q, angle := range features {
		state.RY(q, angle)
	}

	for l := 0; l < c.Layers; l++ {
		if len(weights[l]) != c.NumQubits {
			return nil, fmt.Errorf("weight layer %d has %d entries, expected %d", l, len(weights[l]), c.NumQubits)
		}
		for q := 0; q < c.NumQubits; q++ {
			state.RY(q, weights[l][q])
		}
		for q := 0; q < c.NumQubits; q++ {
			state.CNOT(q, (q+1)%c.NumQubits)
		}
	}

	exps := make([]float64, c.NumQubits)
	for q := 0; q < c.NumQubits; q++ {
		exps[q] = state.ExpectationZ(q)
	}
	return exps, nil
}

// BrickworkCircuit is the RT study's MERA-like circuit: a global RY(theta)
// preparation layer followed by alternating brick-work layers of two-qubit
// blocks. Each block consumes four rotation parameters.
type BrickworkCircuit struct {
	NumQubits int
	Layers    int
}

// NewBrickworkCircuit creates the study circuit topology.
func NewBrickworkCircuit(numQubits, layers int) *BrickworkCircuit {
	return &BrickworkCircuit{NumQubits: numQubits, Layers: layers}
}

// ParamsPerLayer returns the number of parameters one layer consumes:
// numQubits/2 blocks of four rotations each.
func (c *BrickworkCircuit) ParamsPerLayer() int {
	return c.NumQubits / 2 * 4
}

// RandomParameters draws a full parameter tensor (Layers x ParamsPerLayer)
// from the given generator, uniform in [0, 2*pi).
func (c *BrickworkCircuit) RandomParameters(rng *rand.Rand) [][]float64 {
	params := make([][]float64, c.Layers)
	for l := range params {
		params[l] = make([]float64, c.ParamsPerLayer())
		for i := range params[l] {
			params[l][i] = rng.Float64() * 2 * math.Pi
		}
	}
	return params
}

// State evaluates the circuit and returns the full state vector.
//
// Layer l pairs qubits with offset l%2: even layers couple (0,1), (2,3), ...
// and odd layers couple (1,2), (3,4), ..., (n-1,0). Each pair (a,b) applies
// RY(p0) a, RY(p1) b, CNOT(a,b), RY(p2) a, RY(p3) b.
func (c *BrickworkCircuit) State(theta float64, params [][]float64) (*StateVector, error) {
	if len(params) != c.Layers {
		return nil, fmt.Errorf("expected %d parameter layers, got %d", c.Layers, len(params))
	}

	state := NewStateVector(c.NumQubits)
	for q := 0; q < c.NumQubits; q++ {
		state.RY(q, theta)
	}

	for l := 0; l < c.Layers; l++ {
		if len(params[l]) != c.ParamsPerLayer() {
			return nil, fmt.Errorf("parameter layer %d has %d entries, expected %d", l, len(params[l]), c.ParamsPerLayer())
		}
		offset := l % 2
		idx := 0
		for i := 0; i < c.NumQubits/2; i++ {
			a := (2*i + offset) % c.NumQubits
			b := (a + 1) % c.NumQubits
			p := params[l][idx : idx+4]
			idx += 4
			state.RY(a, p[0])
			state.RY(b, p[1])
			state.CNOT(a, b)
			state.RY(a, p[2])
			state.RY(b, p[3])
		}
	}

	return state, nil
}

// ApplyBitFlipNoise flips each qubit independently with probability p using
// the supplied generator. The caller owns the generator so paired clean and
// noisy evaluations stay reproducible.
func ApplyBitFlipNoise(state *StateVector, p float64, rng *rand.Rand) {
	if p <= 0 {
		return
	}
	for q := 0; q < state.NumQubits; q++ {
		if rng.Float64() < p {
			state.X(q)
		}
	}
}

// BellState returns the two-qubit state (|00> + |11>)/sqrt(2): H on qubit 0
// followed by CNOT(0,1). Used by the study's self-test mode.
func BellState() *StateVector {
	state := NewStateVector(2)
	state.H(0)
	state.CNOT(0, 1)
	return state
}
