// Package circuit holds the editable quantum circuit model: an ordered
// sequence of moments (discrete time steps), each holding gate instances.
// The circuit is the sole unit of input to the simulation engine; the TUI
// and the HTTP API both build and mutate values of this package.
package circuit

import (
	"fmt"
	"slices"
)

// MaxQubits bounds the circuit width so the 2^n amplitude vector stays
// tractable (4096 entries at the cap).
const MaxQubits = 12

// GateKind enumerates the supported gate set. The simulation engine
// switches exhaustively over this enum, so an unsupported kind is a
// compile-time omission rather than a silent runtime no-op.
type GateKind int

const (
	Hadamard GateKind = iota
	PauliX
	ControlledX
	Measure
)

// String returns the QASM mnemonic for the gate kind.
func (k GateKind) String() string {
	switch k {
	case Hadamard:
		return "h"
	case PauliX:
		return "x"
	case ControlledX:
		return "cx"
	case Measure:
		return "measure"
	}
	return fmt.Sprintf("GateKind(%d)", int(k))
}

// Arity returns how many qubit indices a gate of this kind carries.
func (k GateKind) Arity() int {
	if k == ControlledX {
		return 2
	}
	return 1
}

// Gate is a placed gate instance: a kind plus its ordered qubit indices.
// Single-qubit kinds carry one index; ControlledX carries [control, target].
type Gate struct {
	Kind   GateKind `json:"kind"`
	Qubits []int    `json:"qubits"`
}

// H returns a Hadamard gate on qubit q.
func H(q int) Gate { return Gate{Kind: Hadamard, Qubits: []int{q}} }

// X returns a Pauli-X gate on qubit q.
func X(q int) Gate { return Gate{Kind: PauliX, Qubits: []int{q}} }

// CX returns a controlled-X gate with the given control and target qubits.
func CX(control, target int) Gate {
	return Gate{Kind: ControlledX, Qubits: []int{control, target}}
}

// M returns a measurement marker on qubit q. Measurement markers do not
// mutate the simulated state; they annotate where a readout would occur.
func M(q int) Gate { return Gate{Kind: Measure, Qubits: []int{q}} }

// Target returns the target qubit: the sole index for single-qubit gates,
// the second index for ControlledX.
func (g Gate) Target() int {
	return g.Qubits[len(g.Qubits)-1]
}

// Control returns the control qubit for ControlledX, or -1 otherwise.
func (g Gate) Control() int {
	if g.Kind == ControlledX {
		return g.Qubits[0]
	}
	return -1
}

// References reports whether the gate touches the given qubit.
func (g Gate) References(q int) bool {
	return slices.Contains(g.Qubits, q)
}

// Validate checks the gate against a circuit of numQubits wires.
func (g Gate) Validate(numQubits int) error {
	if len(g.Qubits) != g.Kind.Arity() {
		return fmt.Errorf("gate %s: expected %d qubit(s), got %d", g.Kind, g.Kind.Arity(), len(g.Qubits))
	}
	for _, q := range g.Qubits {
		if q < 0 || q >= numQubits {
			return fmt.Errorf("gate %s: qubit %d out of range [0, %d)", g.Kind, q, numQubits)
		}
	}
	if g.Kind == ControlledX && g.Qubits[0] == g.Qubits[1] {
		return fmt.Errorf("gate cx: control and target are both qubit %d", g.Qubits[0])
	}
	return nil
}

// Moment is one discrete time step. Gates within a moment are laid out as
// simultaneous, but the simulator applies them in document order; valid
// circuits never place two gates on the same qubit in one moment, and when
// an invalid one does, the application order stays deterministic.
type Moment struct {
	Gates []Gate `json:"gates"`
}

// Occupies reports whether any gate in the moment touches qubit q.
func (m Moment) Occupies(q int) bool {
	for _, g := range m.Gates {
		if g.References(q) {
			return true
		}
	}
	return false
}

// Circuit is an ordered sequence of moments over a fixed number of qubits.
type Circuit struct {
	NumQubits int      `json:"qubits"`
	Moments   []Moment `json:"moments"`
}

// New returns an empty circuit with the given qubit count.
func New(numQubits int) (*Circuit, error) {
	if numQubits < 1 || numQubits > MaxQubits {
		return nil, fmt.Errorf("qubit count %d out of range [1, %d]", numQubits, MaxQubits)
	}
	return &Circuit{NumQubits: numQubits}, nil
}

// Validate checks the qubit count and every gate of every moment.
func (c *Circuit) Validate() error {
	if c.NumQubits < 1 || c.NumQubits > MaxQubits {
		return fmt.Errorf("qubit count %d out of range [1, %d]", c.NumQubits, MaxQubits)
	}
	for si, m := range c.Moments {
		for _, g := range m.Gates {
			if err := g.Validate(c.NumQubits); err != nil {
				return fmt.Errorf("moment %d: %w", si, err)
			}
		}
	}
	return nil
}

// Steps returns the number of moments.
func (c *Circuit) Steps() int { return len(c.Moments) }

// ensureStep grows the moment sequence so that step is a valid index.
func (c *Circuit) ensureStep(step int) {
	for len(c.Moments) <= step {
		c.Moments = append(c.Moments, Moment{})
	}
}

// CanPlaceAt reports whether all listed qubits are free at the given step.
func (c *Circuit) CanPlaceAt(step int, qubits []int) bool {
	if step >= len(c.Moments) {
		return true
	}
	for _, q := range qubits {
		if c.Moments[step].Occupies(q) {
			return false
		}
	}
	return true
}

// Place puts a gate into the moment at step, extending the circuit as
// needed. The gate itself must be valid for this circuit; qubit conflicts
// within the moment are the caller's concern (the composer checks
// CanPlaceAt first, the model itself tolerates them).
func (c *Circuit) Place(step int, g Gate) error {
	if step < 0 {
		return fmt.Errorf("step %d is negative", step)
	}
	if err := g.Validate(c.NumQubits); err != nil {
		return err
	}
	c.ensureStep(step)
	c.Moments[step].Gates = append(c.Moments[step].Gates, g)
	return nil
}

// GateAt returns the gate at (step, qubit), or nil when the cell is empty.
func (c *Circuit) GateAt(step, qubit int) *Gate {
	if step < 0 || step >= len(c.Moments) {
		return nil
	}
	for i := range c.Moments[step].Gates {
		if c.Moments[step].Gates[i].References(qubit) {
			return &c.Moments[step].Gates[i]
		}
	}
	return nil
}

// RemoveAt deletes any gate touching the given qubit at the given step.
func (c *Circuit) RemoveAt(step, qubit int) {
	if step < 0 || step >= len(c.Moments) {
		return
	}
	c.Moments[step].Gates = slices.DeleteFunc(c.Moments[step].Gates, func(g Gate) bool {
		return g.References(qubit)
	})
}

// RemoveGatesOnQubit deletes every gate referencing the qubit, across all
// moments. Used when the composer shrinks the circuit.
func (c *Circuit) RemoveGatesOnQubit(qubit int) {
	for i := range c.Moments {
		c.Moments[i].Gates = slices.DeleteFunc(c.Moments[i].Gates, func(g Gate) bool {
			return g.References(qubit)
		})
	}
}

// Measured returns the qubits carrying a measurement marker, in ascending
// order without duplicates.
func (c *Circuit) Measured() []int {
	seen := make(map[int]bool)
	var out []int
	for _, m := range c.Moments {
		for _, g := range m.Gates {
			if g.Kind == Measure && !seen[g.Target()] {
				seen[g.Target()] = true
				out = append(out, g.Target())
			}
		}
	}
	slices.Sort(out)
	return out
}

// Compact repacks every gate into the earliest moment whose qubits are all
// free, preserving the relative order of gates on each qubit. Trailing
// empty moments are dropped.
func (c *Circuit) Compact() {
	nextFree := make([]int, c.NumQubits)
	var packed []Moment
	for _, m := range c.Moments {
		for _, g := range m.Gates {
			step := 0
			for _, q := range g.Qubits {
				if q >= 0 && q < c.NumQubits && nextFree[q] > step {
					step = nextFree[q]
				}
			}
			for len(packed) <= step {
				packed = append(packed, Moment{})
			}
			packed[step].Gates = append(packed[step].Gates, g)
			for _, q := range g.Qubits {
				if q >= 0 && q < c.NumQubits {
					nextFree[q] = step + 1
				}
			}
		}
	}
	c.Moments = packed
}
