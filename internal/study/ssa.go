package study

import (
	"fmt"

	"github.com/qemar/qlab/internal/quantum"
)

// ssaTolerance absorbs violations at machine precision; anything beyond it
// is reported.
const ssaTolerance = 1e-6

// SSAViolation records one failing region pair of the strong-subadditivity
// inequality S(A) + S(B) >= S(A|B) + S(A&B).
type SSAViolation struct {
	A       []int
	B       []int
	Deficit float64 // how far the inequality is violated, always > tolerance
}

// CheckSSA brute-forces strong subadditivity over every pair of contiguous
// regions whose intersection is non-empty and whose union is strictly
// smaller than the full system. It returns all violating pairs; for valid
// states the slice stays empty up to numerical noise.
func CheckSSA(state *quantum.StateVector, regions [][]int) ([]SSAViolation, error) {
	entropies := make(map[string]float64)
	entropyOf := func(region []int) (float64, error) {
		key := fmt.Sprint(region)
		if s, ok := entropies[key]; ok {
			return s, nil
		}
		s, err := quantum.Entropy(state, region)
		if err != nil {
			return 0, err
		}
		entropies[key] = s
		return s, nil
	}

	var violations []SSAViolation
	for i := 0; i < len(regions); i++ {
		for j := i; j < len(regions); j++ {
			a, b := regions[i], regions[j]
			inter := intersect(a, b)
			if len(inter) == 0 {
				continue
			}
			union := unite(a, b)
			if len(union) >= state.NumQubits {
				continue
			}

			sA, err := entropyOf(a)
			if err != nil {
				return nil, fmt.Errorf("entropy of region %v failed: %w", a, err)
			}
			sB, err := entropyOf(b)
			if err != nil {
				return nil, fmt.Errorf("entropy of region %v failed: %w", b, err)
			}
			sUnion, err := entropyOf(union)
			if err != nil {
				return nil, fmt.Errorf("entropy of union %v failed: %w", union, err)
			}
			sInter, err := entropyOf(inter)
			if err != nil {
				return nil, fmt.Errorf("entropy of intersection %v failed: %w", inter, err)
			}

			deficit := sUnion + sInter - sA - sB
			if deficit > ssaTolerance {
				violations = append(violations, SSAViolation{A: a, B: b, Deficit: deficit})
			}
		}
	}
	return violations, nil
}

// intersect returns the sorted intersection of two sorted index slices.
func intersect(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// unite returns the sorted union of two sorted index slices.
func unite(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i] < b[j]):
			out = append(out, a[i])
			i++
		case i >= len(a) || b[j] < a[i]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
