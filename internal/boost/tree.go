// Package boost implements the gradient-boosted regression baseline: depth-
// limited CART trees grown on residuals, with chunked continuation fitting.
package boost

import (
	"math"
	"sort"
)

// treeNode is one node of a binary regression tree. Leaves carry the mean
// residual of their samples.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// predict routes one feature row to a leaf value.
func (n *treeNode) predict(row []float64) float64 {
	node := n
	for !node.leaf {
		if row[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

// buildTree grows a regression tree on the given rows by greedy variance
// reduction, limited by depth and leaf size.
func buildTree(features [][]float64, targets []float64, indices []int, depth, maxDepth, minLeafSize int) *treeNode {
	if depth >= maxDepth || len(indices) < 2*minLeafSize {
		return &treeNode{leaf: true, value: meanAt(targets, indices)}
	}

	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0
	parentSSE := sseAt(targets, indices)

	nFeatures := len(features[0])
	sorted := make([]int, len(indices))
	for f := 0; f < nFeatures; f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool {
			return features[sorted[a]][f] < features[sorted[b]][f]
		})

		// Prefix sums over the sorted order let each split position be
		// scored in constant time.
		var leftSum, leftSq float64
		var totalSum, totalSq float64
		for _, i := range sorted {
			totalSum += targets[i]
			totalSq += targets[i] * targets[i]
		}

		for pos := 0; pos < len(sorted)-1; pos++ {
			i := sorted[pos]
			leftSum += targets[i]
			leftSq += targets[i] * targets[i]

			nLeft := pos + 1
			nRight := len(sorted) - nLeft
			if nLeft < minLeafSize || nRight < minLeafSize {
				continue
			}
			// Identical feature values cannot be separated.
			if features[sorted[pos]][f] == features[sorted[pos+1]][f] {
				continue
			}

			rightSum := totalSum - leftSum
			rightSq := totalSq - leftSq
			childSSE := (leftSq - leftSum*leftSum/float64(nLeft)) +
				(rightSq - rightSum*rightSum/float64(nRight))
			gain := parentSSE - childSSE
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (features[sorted[pos]][f] + features[sorted[pos+1]][f]) / 2
			}
		}
	}

	if bestFeature < 0 || bestGain <= 1e-12 {
		return &treeNode{leaf: true, value: meanAt(targets, indices)}
	}

	var leftIdx, rightIdx []int
	for _, i := range indices {
		if features[i][bestFeature] <= bestThreshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      buildTree(features, targets, leftIdx, depth+1, maxDepth, minLeafSize),
		right:     buildTree(features, targets, rightIdx, depth+1, maxDepth, minLeafSize),
	}
}

func meanAt(values []float64, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	var sum float64
	for _, i := range indices {
		sum += values[i]
	}
	return sum / float64(len(indices))
}

func sseAt(values []float64, indices []int) float64 {
	mean := meanAt(values, indices)
	var sse float64
	for _, i := range indices {
		d := values[i] - mean
		sse += d * d
	}
	if math.IsNaN(sse) {
		return 0
	}
	return sse
}
