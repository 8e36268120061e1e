package bulk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/graph/simple"
)

func TestNewTreeRequiresPowerOfTwoLeaves(t *testing.T) {
	for _, n := range []int{0, 1, 3, 6, 12} {
		_, err := NewTree(n)
		assert.Error(t, err, "leaf count %d", n)
	}
	for _, n := range []int{2, 4, 8, 16} {
		tree, err := NewTree(n)
		require.NoError(t, err)
		assert.Equal(t, n, tree.NumLeaves())
	}
}

func TestTreeStructure(t *testing.T) {
	tree, err := NewTree(4)
	require.NoError(t, err)

	// 2n-1 nodes and n-1 internal nodes with two edges each.
	assert.Equal(t, 7, tree.Graph().Nodes().Len())

	edgeCount := 0
	edges := tree.Graph().(*simple.UndirectedGraph).Edges()
	for edges.Next() {
		edgeCount++
	}
	assert.Equal(t, 6, edgeCount)
}

func TestCutLengthMatchesComplement(t *testing.T) {
	tree, err := NewTree(8)
	require.NoError(t, err)

	region := []int{0, 1, 2}
	complement := []int{3, 4, 5, 6, 7}

	a, err := tree.CutLength(region)
	require.NoError(t, err)
	b, err := tree.CutLength(complement)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCutLengthMonotoneUnderGrowth(t *testing.T) {
	tree, err := NewTree(16)
	require.NoError(t, err)

	prev := 0
	region := []int{}
	for q := 0; q < 15; q++ {
		region = append(region, q)
		cut, err := tree.CutLength(region)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, cut, prev)
		assert.Positive(t, cut)
		prev = cut
	}
}

func TestCutLengthIgnoresRegionOrder(t *testing.T) {
	tree, err := NewTree(8)
	require.NoError(t, err)

	a, err := tree.CutLength([]int{5, 1, 3})
	require.NoError(t, err)
	b, err := tree.CutLength([]int{3, 5, 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCutLengthValidatesRegion(t *testing.T) {
	tree, err := NewTree(4)
	require.NoError(t, err)

	_, err = tree.CutLength(nil)
	assert.Error(t, err)

	_, err = tree.CutLength([]int{0, 1, 2, 3})
	assert.Error(t, err)

	_, err = tree.CutLength([]int{7})
	assert.Error(t, err)

	_, err = tree.CutLength([]int{1, 1})
	assert.Error(t, err)
}

func TestLayout(t *testing.T) {
	tree, err := NewTree(4)
	require.NoError(t, err)

	positions, lines := tree.Layout()
	require.Len(t, positions, 7)
	require.Len(t, lines, 6)

	leaves := 0
	for _, p := range positions {
		if p.Leaf {
			leaves++
			assert.Equal(t, 0.0, p.Y)
		} else {
			assert.Greater(t, p.Y, 0.0)
		}
	}
	assert.Equal(t, 4, leaves)

	// Root sits at the horizontal center of the leaf row.
	assert.Equal(t, 1.5, positions[0].X)
}
