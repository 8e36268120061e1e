// Package quantum implements a dense statevector simulator for small qubit
// registers, together with the entanglement measures used by the experiment
// drivers. Basis states are indexed so that bit q of the index holds the
// computational value of qubit q.
package quantum

import (
	"fmt"
	"math"
	"math/cmplx"
)

// StateVector is the full amplitude vector of an n-qubit register.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector creates the |0...0> state over numQubits qubits.
func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]complex128, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// Clone returns a deep copy of the state.
func (s *StateVector) Clone() *StateVector {
	amps := make([]complex128, len(s.Amplitudes))
	copy(amps, s.Amplitudes)
	return &StateVector{Amplitudes: amps, NumQubits: s.NumQubits}
}

// H applies a Hadamard gate to qubit q.
func (s *StateVector) H(q int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = hFactor * (a + b)
			s.Amplitudes[j] = hFactor * (a - b)
		}
	}
}

// X applies a Pauli-X (bit flip) gate to qubit q.
func (s *StateVector) X(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// RX applies a rotation about the X axis by theta to qubit q.
func (s *StateVector) RX(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = c*a + js*b
			s.Amplitudes[j] = js*a + c*b
		}
	}
}

// RY applies a rotation about the Y axis by theta to qubit q.
func (s *StateVector) RY(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = c*a - sn*b
			s.Amplitudes[j] = sn*a + c*b
		}
	}
}

// RZ applies a rotation about the Z axis by theta to qubit q.
func (s *StateVector) RZ(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	phase := cmplx.Exp(complex(0, theta/2))
	conj := cmplx.Conj(phase)
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= conj
		}
	}
}

// CNOT applies a controlled-X gate with the given control and target qubits.
func (s *StateVector) CNOT(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// ExpectationZ returns <Z> for qubit q: P(0) - P(1).
func (s *StateVector) ExpectationZ(q int) float64 {
	n := len(s.Amplitudes)
	bit := 1 << q
	var exp float64
	for i := 0; i < n; i++ {
		p := real(s.Amplitudes[i] * cmplx.Conj(s.Amplitudes[i]))
		if i&bit == 0 {
			exp += p
		} else {
			exp -= p
		}
	}
	return exp
}

// Norm returns the 2-norm of the amplitude vector. A valid state has norm 1.
func (s *StateVector) Norm() float64 {
	var sum float64
	for _, a := range s.Amplitudes {
		sum += real(a * cmplx.Conj(a))
	}
	return math.Sqrt(sum)
}

// Validate returns an error if the state is not normalized within tol.
func (s *StateVector) Validate(tol float64) error {
	if n := s.Norm(); math.Abs(n-1) > tol {
		return fmt.Errorf("state norm %f deviates from 1 by more than %g", n, tol)
	}
	return nil
}
