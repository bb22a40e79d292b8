// Package quantum implements the statevector simulation engine: an n-qubit
// state as a vector of 2^n complex amplitudes, in-place gate operators,
// probability extraction, and measurement sampling. Bit k of an amplitude
// index is the value of qubit k (qubit 0 is the least significant bit).
package quantum

import (
	"fmt"
	"math"

	"github.com/marlomb/qcompose/internal/circuit"
)

// StateVector is the full joint state of NumQubits qubits. It is created
// fresh for every simulation run and mutated in place by gate operators.
type StateVector struct {
	Amplitudes []complex128
	NumQubits  int
}

// NewStateVector returns the all-zero basis state |0...0⟩: amplitude 1 at
// index 0 and 0 elsewhere.
func NewStateVector(numQubits int) (*StateVector, error) {
	if numQubits < 1 || numQubits > circuit.MaxQubits {
		return nil, fmt.Errorf("qubit count %d out of range [1, %d]", numQubits, circuit.MaxQubits)
	}
	amps := make([]complex128, 1<<numQubits)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}, nil
}

func (s *StateVector) checkQubit(q int) error {
	if q < 0 || q >= s.NumQubits {
		return fmt.Errorf("qubit %d out of range [0, %d)", q, s.NumQubits)
	}
	return nil
}

// ApplyUnitary applies the 2x2 matrix [[m00 m01], [m10 m11]] to the target
// qubit: for every index pair (i, j) with the target bit clear in i and
// j = i|bit, the amplitude pair becomes (m00*a+m01*b, m10*a+m11*b).
// Runs in O(2^n) and mutates the vector in place.
func (s *StateVector) ApplyUnitary(target int, m00, m01, m10, m11 complex128) error {
	if err := s.checkQubit(target); err != nil {
		return err
	}
	bit := 1 << target
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = m00*a + m01*b
			s.Amplitudes[j] = m10*a + m11*b
		}
	}
	return nil
}

// ApplyH applies the Hadamard gate to qubit q.
func (s *StateVector) ApplyH(q int) error {
	h := complex(1/math.Sqrt2, 0)
	return s.ApplyUnitary(q, h, h, h, -h)
}

// ApplyX applies the Pauli-X (bit flip) gate to qubit q. X is the
// pair-swap special case of ApplyUnitary.
func (s *StateVector) ApplyX(q int) error {
	if err := s.checkQubit(q); err != nil {
		return err
	}
	bit := 1 << q
	for i := range s.Amplitudes {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
	return nil
}

// ApplyCX applies a controlled-X gate: amplitudes with the control bit set
// have their target-bit pair swapped, everything else is untouched.
func (s *StateVector) ApplyCX(control, target int) error {
	if err := s.checkQubit(control); err != nil {
		return err
	}
	if err := s.checkQubit(target); err != nil {
		return err
	}
	if control == target {
		return fmt.Errorf("cx control and target are both qubit %d", control)
	}
	cBit := 1 << control
	tBit := 1 << target
	for i := range s.Amplitudes {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
	return nil
}

// SqrMag returns the squared magnitude re²+im² of an amplitude.
func SqrMag(a complex128) float64 {
	return real(a)*real(a) + imag(a)*imag(a)
}

// Probabilities returns the basis-state probability of each amplitude as a
// fresh slice; the state itself is not consumed.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, a := range s.Amplitudes {
		probs[i] = SqrMag(a)
	}
	return probs
}
