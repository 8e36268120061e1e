package study

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qemar/qlab/internal/quantum"
)

func TestCheckSSABellState(t *testing.T) {
	violations, err := CheckSSA(quantum.BellState(), ContiguousRegions(2))
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestCheckSSARandomCircuitState(t *testing.T) {
	circuit := quantum.NewBrickworkCircuit(4, 3)
	params := circuit.RandomParameters(rand.New(rand.NewSource(17)))
	state, err := circuit.State(0.8, params)
	require.NoError(t, err)

	violations, err := CheckSSA(state, ContiguousRegions(4))
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestCheckSSASkipsDisjointAndCoveringPairs(t *testing.T) {
	// The only contiguous pairs on two qubits are disjoint or self-pairs,
	// so the check reduces to two trivial self comparisons and never
	// requests an entropy of the full system.
	state := quantum.BellState()
	violations, err := CheckSSA(state, [][]int{{0}, {1}})
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestIntersectAndUnite(t *testing.T) {
	assert.Equal(t, []int{2, 3}, intersect([]int{1, 2, 3}, []int{2, 3, 4}))
	assert.Nil(t, intersect([]int{0, 1}, []int{2, 3}))
	assert.Equal(t, []int{1, 2, 3, 4}, unite([]int{1, 2, 3}, []int{2, 3, 4}))
	assert.Equal(t, []int{0, 1, 2, 3}, unite([]int{0, 1}, []int{2, 3}))
}
