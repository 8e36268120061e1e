package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// eigClipMin is the lower clip applied to density-matrix eigenvalues before
// the -p*log(p) sum, guarding against log(0) on numerically zero weights.
const eigClipMin = 1e-9

// ReducedDensityMatrix computes the density matrix of the given qubit subset
// by tracing out the complementary qubits of a pure state. The region may be
// non-contiguous; it must be non-empty and strictly smaller than the system.
func ReducedDensityMatrix(state *StateVector, region []int) (*mat.CDense, error) {
	region, err := normalizeRegion(state.NumQubits, region)
	if err != nil {
		return nil, err
	}

	k := len(region)
	comp := complement(state.NumQubits, region)
	dim := 1 << k
	envDim := 1 << len(comp)

	rho := mat.NewCDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			var sum complex128
			for e := 0; e < envDim; e++ {
				a := composeIndex(region, i, comp, e)
				b := composeIndex(region, j, comp, e)
				sum += state.Amplitudes[a] * cmplx.Conj(state.Amplitudes[b])
			}
			rho.Set(i, j, sum)
		}
	}
	return rho, nil
}

// Entropy returns the von Neumann entropy of the reduced state on the given
// qubit subset, in nats. For a pure global state the entropy of a region
// equals the entropy of its complement, so the reduced matrix is always
// built on the smaller side of the bipartition.
func Entropy(state *StateVector, region []int) (float64, error) {
	region, err := normalizeRegion(state.NumQubits, region)
	if err != nil {
		return 0, err
	}

	if len(region) > state.NumQubits/2 {
		region = complement(state.NumQubits, region)
	}

	rho, err := ReducedDensityMatrix(state, region)
	if err != nil {
		return 0, err
	}

	eigs, err := hermitianEigenvalues(rho)
	if err != nil {
		return 0, err
	}

	var entropy float64
	for _, p := range eigs {
		p = math.Min(math.Max(p, eigClipMin), 1)
		entropy -= p * math.Log(p)
	}
	return entropy, nil
}

// hermitianEigenvalues returns the eigenvalues of a complex Hermitian matrix
// H = X + iY through its real symmetric embedding [[X, -Y], [Y, X]], whose
// spectrum is that of H with every eigenvalue doubled.
func hermitianEigenvalues(h *mat.CDense) ([]float64, error) {
	m, n := h.Dims()
	if m != n {
		return nil, fmt.Errorf("matrix is %dx%d, expected square", m, n)
	}

	embed := mat.NewSymDense(2*m, nil)
	for i := 0; i < m; i++ {
		for j := i; j < m; j++ {
			v := h.At(i, j)
			x, y := real(v), imag(v)
			embed.SetSym(i, j, x)
			embed.SetSym(m+i, m+j, x)
			// The off-diagonal blocks hold -Y and Y; SetSym mirrors the
			// upper triangle, and Y is antisymmetric for Hermitian H.
			embed.SetSym(i, m+j, -y)
			if i != j {
				embed.SetSym(j, m+i, y)
			}
		}
	}

	var eig mat.EigenSym
	if !eig.Factorize(embed, false) {
		return nil, fmt.Errorf("eigendecomposition of %dx%d density matrix failed", m, m)
	}
	all := eig.Values(nil)
	sort.Float64s(all)

	// Each eigenvalue of H appears exactly twice in the embedding; take
	// every second entry of the sorted spectrum.
	eigs := make([]float64, 0, m)
	for i := 0; i < len(all); i += 2 {
		eigs = append(eigs, all[i])
	}
	return eigs, nil
}

// normalizeRegion validates the subset, sorts it and removes nothing: any
// duplicate or out-of-range index is an error, as is an empty region or the
// full system.
func normalizeRegion(numQubits int, region []int) ([]int, error) {
	if len(region) == 0 {
		return nil, fmt.Errorf("region must not be empty")
	}
	if len(region) >= numQubits {
		return nil, fmt.Errorf("region of %d qubits must be smaller than the %d-qubit system", len(region), numQubits)
	}

	sorted := make([]int, len(region))
	copy(sorted, region)
	sort.Ints(sorted)
	for i, q := range sorted {
		if q < 0 || q >= numQubits {
			return nil, fmt.Errorf("qubit index %d out of range [0, %d)", q, numQubits)
		}
		if i > 0 && sorted[i-1] == q {
			return nil, fmt.Errorf("duplicate qubit index %d in region", q)
		}
	}
	return sorted, nil
}

// complement returns the sorted qubit indices not present in region.
// region must be sorted.
func complement(numQubits int, region []int) []int {
	comp := make([]int, 0, numQubits-len(region))
	ri := 0
	for q := 0; q < numQubits; q++ {
		if ri < len(region) && region[ri] == q {
			ri++
			continue
		}
		comp = append(comp, q)
	}
	return comp
}

// composeIndex builds a full basis index from a region basis index and a
// complement basis index: bit i of regionIdx lands on qubit region[i].
func composeIndex(region []int, regionIdx int, comp []int, compIdx int) int {
	idx := 0
	for i, q := range region {
		if regionIdx&(1<<i) != 0 {
			idx |= 1 << q
		}
	}
	for i, q := range comp {
		if compIdx&(1<<i) != 0 {
			idx |= 1 << q
		}
	}
	return idx
}
