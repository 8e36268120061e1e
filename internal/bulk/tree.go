// Package bulk models the holographic bulk as a balanced binary tree whose
// leaves are identified with boundary qubits, and computes the minimum-cut
// proxy for bulk minimal-surface lengths.
package bulk

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
)

// Tree is a balanced binary tree with a fixed leaf-to-qubit bijection. It is
// built once per run and never mutated, so cut lengths are memoized per
// region.
type Tree struct {
	g         *simple.UndirectedGraph
	numLeaves int
	depth     int

	// leafNode[q] is the graph node ID carrying qubit q. Leaves are
	// assigned left to right in qubit enumeration order.
	leafNode []int64

	cuts map[string]int
}

// NewTree builds the tree for the given leaf count, which must be a power
// of two. Nodes use heap indexing: node i has children 2i+1 and 2i+2, the
// root is 0 and the leaves are the last numLeaves nodes.
func NewTree(numLeaves int) (*Tree, error) {
	if numLeaves < 2 || numLeaves&(numLeaves-1) != 0 {
		return nil, fmt.Errorf("leaf count must be a power of two >= 2, got %d", numLeaves)
	}

	g := simple.NewUndirectedGraph()
	total := 2*numLeaves - 1
	for i := 0; i < total; i++ {
		g.AddNode(simple.Node(i))
	}
	for i := 0; 2*i+2 < total; i++ {
		g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(2*i + 1)})
		g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(2*i + 2)})
	}

	depth := 0
	for 1<<depth < numLeaves {
		depth++
	}

	leafNode := make([]int64, numLeaves)
	for q := 0; q < numLeaves; q++ {
		leafNode[q] = int64(numLeaves - 1 + q)
	}

	return &Tree{
		g:         g,
		numLeaves: numLeaves,
		depth:     depth,
		leafNode:  leafNode,
		cuts:      make(map[string]int),
	}, nil
}

// NumLeaves returns the number of leaves (qubits).
func (t *Tree) NumLeaves() int { return t.numLeaves }

// CutLength returns the bulk minimal-surface proxy for the given qubit
// region: the minimum, over all (inside-leaf, outside-leaf) pairs, of the
// minimum edge cut separating that pair in the tree. Results are cached by
// the region's sorted index tuple; the tree and region set never change
// within a run.
func (t *Tree) CutLength(region []int) (int, error) {
	inside, err := t.validateRegion(region)
	if err != nil {
		return 0, err
	}

	key := regionKey(inside)
	if cut, ok := t.cuts[key]; ok {
		return cut, nil
	}

	insideSet := make(map[int]bool, len(inside))
	for _, q := range inside {
		insideSet[q] = true
	}

	best := -1
	for _, qIn := range inside {
		for qOut := 0; qOut < t.numLeaves; qOut++ {
			if insideSet[qOut] {
				continue
			}
			cut := t.minEdgeCut(t.leafNode[qIn], t.leafNode[qOut])
			if best < 0 || cut < best {
				best = cut
			}
		}
	}

	t.cuts[key] = best
	return best, nil
}

// minEdgeCut computes the s-t minimum edge cut size with unit capacities via
// BFS augmenting paths (Edmonds-Karp on the bidirected graph).
func (t *Tree) minEdgeCut(s, tgt int64) int {
	// Residual capacities per directed edge; every undirected tree edge
	// contributes one unit in each direction.
	type edgeKey struct{ from, to int64 }
	residual := make(map[edgeKey]int)
	edges := t.g.Edges()
	for edges.Next() {
		e := edges.Edge()
		u, v := e.From().ID(), e.To().ID()
		residual[edgeKey{u, v}] = 1
		residual[edgeKey{v, u}] = 1
	}

	flow := 0
	for {
		// BFS for a shortest augmenting path.
		parent := map[int64]int64{s: s}
		queue := []int64{s}
		found := false
		for len(queue) > 0 && !found {
			u := queue[0]
			queue = queue[1:]
			neighbors := t.g.From(u)
			for neighbors.Next() {
				v := neighbors.Node().ID()
				if _, seen := parent[v]; seen || residual[edgeKey{u, v}] == 0 {
					continue
				}
				parent[v] = u
				if v == tgt {
					found = true
					break
				}
				queue = append(queue, v)
			}
		}
		if !found {
			return flow
		}

		// Unit capacities: each augmenting path carries exactly one unit.
		for v := tgt; v != s; v = parent[v] {
			u := parent[v]
			residual[edgeKey{u, v}]--
			residual[edgeKey{v, u}]++
		}
		flow++
	}
}

// validateRegion checks the region is a non-empty proper subset of the
// leaves and returns it sorted.
func (t *Tree) validateRegion(region []int) ([]int, error) {
	if len(region) == 0 {
		return nil, fmt.Errorf("region must not be empty")
	}
	if len(region) >= t.numLeaves {
		return nil, fmt.Errorf("region of %d leaves must be a proper subset of %d", len(region), t.numLeaves)
	}
	sorted := make([]int, len(region))
	copy(sorted, region)
	sort.Ints(sorted)
	for i, q := range sorted {
		if q < 0 || q >= t.numLeaves {
			return nil, fmt.Errorf("leaf index %d out of range [0, %d)", q, t.numLeaves)
		}
		if i > 0 && sorted[i-1] == q {
			return nil, fmt.Errorf("duplicate leaf index %d in region", q)
		}
	}
	return sorted, nil
}

func regionKey(sorted []int) string {
	parts := make([]string, len(sorted))
	for i, q := range sorted {
		parts[i] = strconv.Itoa(q)
	}
	return strings.Join(parts, ",")
}

// NodePosition is a 2D layout coordinate for visualization.
type NodePosition struct {
	ID   int64
	X, Y float64
	Leaf bool
}

// EdgeLine is one drawn tree edge.
type EdgeLine struct {
	X0, Y0, X1, Y1 float64
}

// Layout places leaves evenly along the x axis and each internal node at
// the midpoint of its children, one unit higher per level.
func (t *Tree) Layout() ([]NodePosition, []EdgeLine) {
	total := 2*t.numLeaves - 1
	xs := make([]float64, total)
	ys := make([]float64, total)

	for q := 0; q < t.numLeaves; q++ {
		idx := t.numLeaves - 1 + q
		xs[idx] = float64(q)
		ys[idx] = 0
	}
	for i := t.numLeaves - 2; i >= 0; i-- {
		l, r := 2*i+1, 2*i+2
		xs[i] = (xs[l] + xs[r]) / 2
		ys[i] = maxFloat(ys[l], ys[r]) + 1
	}

	positions := make([]NodePosition, total)
	for i := 0; i < total; i++ {
		positions[i] = NodePosition{
			ID:   int64(i),
			X:    xs[i],
			Y:    ys[i],
			Leaf: i >= t.numLeaves-1,
		}
	}

	var lines []EdgeLine
	for i := 0; 2*i+2 < total; i++ {
		for _, c := range []int{2*i + 1, 2*i + 2} {
			lines = append(lines, EdgeLine{X0: xs[i], Y0: ys[i], X1: xs[c], Y1: ys[c]})
		}
	}
	return positions, lines
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Graph exposes the underlying graph for tests.
func (t *Tree) Graph() graph.Undirected { return t.g }
