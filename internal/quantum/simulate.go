package quantum

import (
	"github.com/marlomb/qcompose/internal/circuit"
)

// Simulate replays the circuit against a fresh zero state and returns the
// final probability distribution. Moments are applied in their stored
// order and gates within a moment in document order. Measurement markers
// do not mutate the state; the distribution reports the uncollapsed final
// state. The circuit is treated as read-only for the duration of the call
// and the intermediate statevector never escapes, so concurrent calls over
// the same circuit value do not interfere.
func Simulate(c *circuit.Circuit) ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	state, err := NewStateVector(c.NumQubits)
	if err != nil {
		return nil, err
	}
	for _, m := range c.Moments {
		for _, g := range m.Gates {
			switch g.Kind {
			case circuit.Hadamard:
				err = state.ApplyH(g.Qubits[0])
			case circuit.PauliX:
				err = state.ApplyX(g.Qubits[0])
			case circuit.ControlledX:
				err = state.ApplyCX(g.Qubits[0], g.Qubits[1])
			case circuit.Measure:
				// annotation only, no state mutation
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return state.Probabilities(), nil
}
