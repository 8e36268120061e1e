package quantum

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddingCircuitExpectations(t *testing.T) {
	circuit := NewEmbeddingCircuit(3, 2)
	weights := [][]float64{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
	}

	exps, err := circuit.Expectations([]float64{0.5, -0.3, 1.1}, weights)
	require.NoError(t, err)
	require.Len(t, exps, 3)
	for _, e := range exps {
		assert.GreaterOrEqual(t, e, -1.0)
		assert.LessOrEqual(t, e, 1.0)
	}
}

func TestEmbeddingCircuitIsDeterministic(t *testing.T) {
	circuit := NewEmbeddingCircuit(3, 2)
	weights := [][]float64{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
	}
	features := []float64{0.5, -0.3, 1.1}

	a, err := circuit.Expectations(features, weights)
	require.NoError(t, err)
	b, err := circuit.Expectations(features, weights)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEmbeddingCircuitShapeErrors(t *testing.T) {
	circuit := NewEmbeddingCircuit(3, 2)

	_, err := circuit.Expectations([]float64{0.5}, [][]float64{{0, 0, 0}, {0, 0, 0}})
	assert.Error(t, err)

	_, err = circuit.Expectations([]float64{0.5, 0.1, 0.2}, [][]float64{{0, 0, 0}})
	assert.Error(t, err)

	_, err = circuit.Expectations([]float64{0.5, 0.1, 0.2}, [][]float64{{0, 0}, {0, 0, 0}})
	assert.Error(t, err)
}

func TestBrickworkCircuitState(t *testing.T) {
	circuit := NewBrickworkCircuit(4, 3)
	assert.Equal(t, 8, circuit.ParamsPerLayer())

	rng := rand.New(rand.NewSource(7))
	params := circuit.RandomParameters(rng)
	require.Len(t, params, 3)
	require.Len(t, params[0], 8)

	state, err := circuit.State(0.5, params)
	require.NoError(t, err)
	require.NoError(t, state.Validate(1e-9))
}

func TestBrickworkCircuitParameterDeterminism(t *testing.T) {
	circuit := NewBrickworkCircuit(4, 2)

	a := circuit.RandomParameters(rand.New(rand.NewSource(3)))
	b := circuit.RandomParameters(rand.New(rand.NewSource(3)))
	assert.Equal(t, a, b)
}

func TestBrickworkCircuitShapeErrors(t *testing.T) {
	circuit := NewBrickworkCircuit(4, 2)

	_, err := circuit.State(0.1, [][]float64{make([]float64, 8)})
	assert.Error(t, err)

	_, err = circuit.State(0.1, [][]float64{make([]float64, 8), make([]float64, 7)})
	assert.Error(t, err)
}

func TestApplyBitFlipNoise(t *testing.T) {
	base := NewStateVector(4)

	// Same seed, same flips.
	a := base.Clone()
	b := base.Clone()
	ApplyBitFlipNoise(a, 0.5, rand.New(rand.NewSource(11)))
	ApplyBitFlipNoise(b, 0.5, rand.New(rand.NewSource(11)))
	assert.Equal(t, a.Amplitudes, b.Amplitudes)

	// Zero probability never touches the state.
	c := base.Clone()
	ApplyBitFlipNoise(c, 0, rand.New(rand.NewSource(11)))
	assert.Equal(t, base.Amplitudes, c.Amplitudes)

	require.NoError(t, a.Validate(1e-9))
}
