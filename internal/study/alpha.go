// Package study drives the holographic RT experiment: region enumeration,
// the entropy/cut-length alpha fit, the strong-subadditivity check and the
// multi-stage study runner.
package study

import (
	"fmt"
)

// AlphaFit is the fitted linear relation between boundary entanglement
// entropy and bulk cut length, L ~ alpha * S.
type AlphaFit struct {
	Alpha    float64
	Residual float64 // total squared residual of the fit
}

// SolveAlpha finds the scalar alpha minimizing the sum of squared residuals
// (L - alpha*S)^2 in closed form: alpha = (L.S) / (S.S).
func SolveAlpha(entropies, cutLengths []float64) (*AlphaFit, error) {
	if len(entropies) != len(cutLengths) {
		return nil, fmt.Errorf("entropy count %d does not match cut-length count %d", len(entropies), len(cutLengths))
	}
	if len(entropies) == 0 {
		return nil, fmt.Errorf("cannot fit alpha on empty data")
	}

	var dotLS, dotSS float64
	for i, s := range entropies {
		dotLS += cutLengths[i] * s
		dotSS += s * s
	}
	if dotSS == 0 {
		return nil, fmt.Errorf("all entropies are zero, alpha is undetermined")
	}

	alpha := dotLS / dotSS
	var residual float64
	for i, s := range entropies {
		d := cutLengths[i] - alpha*s
		residual += d * d
	}

	return &AlphaFit{Alpha: alpha, Residual: residual}, nil
}

// ContiguousRegions enumerates every contiguous qubit interval of length
// 1..n-1, in increasing (length, start) order. The slice is built once per
// run and reused as a fixed region set across all experiment
// configurations.
func ContiguousRegions(numQubits int) [][]int {
	var regions [][]int
	for length := 1; length < numQubits; length++ {
		for start := 0; start+length <= numQubits; start++ {
			region := make([]int, length)
			for i := range region {
				region[i] = start + i
			}
			regions = append(regions, region)
		}
	}
	return regions
}
