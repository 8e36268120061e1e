package quantum

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateVectorIsGroundState(t *testing.T) {
	state := NewStateVector(3)

	assert.Equal(t, 8, len(state.Amplitudes))
	assert.Equal(t, complex128(1), state.Amplitudes[0])
	assert.InDelta(t, 1.0, state.Norm(), 1e-12)
}

func TestBellStateAmplitudes(t *testing.T) {
	state := BellState()

	inv := 1.0 / math.Sqrt2
	assert.InDelta(t, inv, real(state.Amplitudes[0]), 1e-12)
	assert.InDelta(t, 0.0, real(state.Amplitudes[1]), 1e-12)
	assert.InDelta(t, 0.0, real(state.Amplitudes[2]), 1e-12)
	assert.InDelta(t, inv, real(state.Amplitudes[3]), 1e-12)
}

func TestGatesPreserveNorm(t *testing.T) {
	state := NewStateVector(4)
	state.H(0)
	state.RY(1, 0.7)
	state.RX(2, 1.3)
	state.RZ(3, 2.1)
	state.CNOT(0, 2)
	state.X(3)

	require.NoError(t, state.Validate(1e-9))
}

func TestExpectationZ(t *testing.T) {
	state := NewStateVector(2)
	assert.InDelta(t, 1.0, state.ExpectationZ(0), 1e-12)

	state.X(0)
	assert.InDelta(t, -1.0, state.ExpectationZ(0), 1e-12)
	assert.InDelta(t, 1.0, state.ExpectationZ(1), 1e-12)

	// RY(pi/2) puts the qubit on the equator.
	state = NewStateVector(1)
	state.RY(0, math.Pi/2)
	assert.InDelta(t, 0.0, state.ExpectationZ(0), 1e-12)
}

func TestCloneIsIndependent(t *testing.T) {
	state := NewStateVector(2)
	state.H(0)
	clone := state.Clone()
	clone.X(1)

	assert.NotEqual(t, state.Amplitudes, clone.Amplitudes)
	assert.InDelta(t, 1.0, state.Norm(), 1e-12)
}
