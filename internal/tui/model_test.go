package tui

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/marlomb/qcompose/internal/circuit"
)

func TestInitialModelHasLiveResults(t *testing.T) {
	m := initialModel(zerolog.Nop())
	if m.circuit.NumQubits != defaultQubits {
		t.Fatalf("NumQubits = %d, want %d", m.circuit.NumQubits, defaultQubits)
	}
	if len(m.probs) != 1<<defaultQubits {
		t.Fatalf("len(probs) = %d, want %d", len(m.probs), 1<<defaultQubits)
	}
	if m.probs[0] != 1.0 {
		t.Errorf("empty circuit should leave all weight on |000>, got %v", m.probs[0])
	}
	if !strings.Contains(m.qasmEditor.Value(), "qreg q[3];") {
		t.Errorf("editor not seeded with the circuit QASM:\n%s", m.qasmEditor.Value())
	}
}

func TestPlaceGateAdvancesCursorAndRefreshes(t *testing.T) {
	m := initialModel(zerolog.Nop())

	if !m.placeGate(circuit.Hadamard, -1) {
		t.Fatal("placing on an empty cell should succeed")
	}
	if m.cursorStep != 1 {
		t.Errorf("cursorStep = %d, want 1", m.cursorStep)
	}
	if g := m.circuit.GateAt(0, 0); g == nil || g.Kind != circuit.Hadamard {
		t.Errorf("GateAt(0,0) = %+v, want h", g)
	}

	// The distribution updates with the mutation.
	tol := 1e-9
	if diff := m.probs[0] - 0.5; diff > tol || diff < -tol {
		t.Errorf("probs[0] = %v, want 0.5", m.probs[0])
	}
}

func TestPlaceGateRejectsOccupiedCell(t *testing.T) {
	m := initialModel(zerolog.Nop())
	m.placeGate(circuit.PauliX, -1)
	m.cursorStep = 0

	if m.placeGate(circuit.Hadamard, -1) {
		t.Fatal("placing on an occupied cell should fail")
	}
	if m.statusMsg == "" {
		t.Error("rejection should surface a status message")
	}
}

func TestRunShotsInvalidatedByMutation(t *testing.T) {
	m := initialModel(zerolog.Nop())
	m.rng = rand.New(rand.NewSource(7))

	m.runShots(100)
	if m.countShots != 100 {
		t.Fatalf("countShots = %d, want 100", m.countShots)
	}
	total := 0
	for _, n := range m.counts {
		total += n
	}
	if total != 100 {
		t.Fatalf("counts total %d, want 100", total)
	}

	m.placeGate(circuit.Hadamard, -1)
	if m.counts != nil || m.countShots != 0 {
		t.Error("mutation should invalidate stale counts")
	}
}

func TestParseQASMInputRebuildsCircuit(t *testing.T) {
	m := initialModel(zerolog.Nop())
	m.qasmEditor.SetValue("qreg q[2];\nh q[0];\ncx q[0], q[1];\n")
	m.parseQASMInput()

	if m.circuit.NumQubits != 2 {
		t.Fatalf("NumQubits = %d, want 2", m.circuit.NumQubits)
	}
	if m.circuit.Steps() != 2 {
		t.Fatalf("Steps() = %d, want 2", m.circuit.Steps())
	}
	tol := 1e-9
	for i, want := range []float64{0.5, 0, 0, 0.5} {
		if diff := m.probs[i] - want; diff > tol || diff < -tol {
			t.Errorf("probs[%d] = %v, want %v", i, m.probs[i], want)
		}
	}
}

func TestParseQASMInputKeepsCircuitOnError(t *testing.T) {
	m := initialModel(zerolog.Nop())
	m.placeGate(circuit.Hadamard, -1)
	before := m.circuit

	m.qasmEditor.SetValue("qreg q[1];\nnope q[0];\n")
	m.parseQASMInput()

	if m.circuit != before {
		t.Error("parse failure should keep the current circuit")
	}
	if m.statusMsg == "" {
		t.Error("parse failure should surface a status message")
	}
}
