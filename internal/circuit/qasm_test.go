package circuit

import (
	"strings"
	"testing"
)

func TestToQASMBell(t *testing.T) {
	c, _ := New(2)
	c.Place(0, H(0))
	c.Place(1, CX(0, 1))
	c.Place(2, M(0))
	c.Place(2, M(1))

	got := c.ToQASM()
	want := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[2];
creg c[2];

h q[0];
cx q[0], q[1];
measure q[0] -> c[0];
measure q[1] -> c[1];
`
	if got != want {
		t.Errorf("ToQASM() =\n%s\nwant:\n%s", got, want)
	}
}

func TestToQASMSparseMeasurementSizesCreg(t *testing.T) {
	// Measuring only q[2] still writes measure q[2] -> c[2], so the creg
	// must cover classical bit 2 even though one qubit is measured.
	c, _ := New(3)
	c.Place(0, H(2))
	c.Place(1, M(2))

	got := c.ToQASM()
	if !strings.Contains(got, "creg c[3];") {
		t.Errorf("creg must cover the highest classical bit index:\n%s", got)
	}
	if !strings.Contains(got, "measure q[2] -> c[2];") {
		t.Errorf("missing measure line:\n%s", got)
	}
}

func TestToQASMEmptyCircuitHasOneCreg(t *testing.T) {
	c, _ := New(3)
	got := c.ToQASM()
	if !strings.Contains(got, "qreg q[3];") {
		t.Errorf("missing qreg declaration:\n%s", got)
	}
	if !strings.Contains(got, "creg c[1];") {
		t.Errorf("creg should default to width 1 with no measurements:\n%s", got)
	}
}

func TestQASMRoundTrip(t *testing.T) {
	// Already packed, so the parser's moment assignment reproduces it.
	c, _ := New(3)
	c.Place(0, H(0))
	c.Place(0, X(2))
	c.Place(1, CX(0, 1))
	c.Place(2, M(0))
	c.Place(2, M(1))

	parsed, err := ParseQASM(c.ToQASM())
	if err != nil {
		t.Fatal(err)
	}
	if parsed.NumQubits != 3 {
		t.Fatalf("NumQubits = %d, want 3", parsed.NumQubits)
	}

	var orig, back []string
	for _, m := range c.Moments {
		for _, g := range m.Gates {
			orig = append(orig, g.Kind.String())
		}
	}
	for _, m := range parsed.Moments {
		for _, g := range m.Gates {
			back = append(back, g.Kind.String())
		}
	}
	if strings.Join(orig, " ") != strings.Join(back, " ") {
		t.Errorf("gate sequence changed: %v -> %v", orig, back)
	}
}

func TestParseQASMPacksParallelGates(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[3];
creg c[1];

h q[0];
h q[1];
cx q[0], q[1];
x q[2];
`
	c, err := ParseQASM(src)
	if err != nil {
		t.Fatal(err)
	}
	if c.Steps() != 2 {
		t.Fatalf("Steps() = %d, want 2", c.Steps())
	}
	// Both h gates and the x are independent, so they share the first
	// moment; the cx depends on both h gates and lands in the second.
	if g := c.GateAt(0, 0); g == nil || g.Kind != Hadamard {
		t.Errorf("step 0 qubit 0: got %+v, want h", g)
	}
	if g := c.GateAt(0, 1); g == nil || g.Kind != Hadamard {
		t.Errorf("step 0 qubit 1: got %+v, want h", g)
	}
	if g := c.GateAt(0, 2); g == nil || g.Kind != PauliX {
		t.Errorf("step 0 qubit 2: got %+v, want x", g)
	}
	if g := c.GateAt(1, 0); g == nil || g.Kind != ControlledX {
		t.Errorf("step 1: got %+v, want cx", g)
	}
}

func TestParseQASMGrowsQubitCount(t *testing.T) {
	c, err := ParseQASM("qreg q[2];\nh q[0];\ncx q[0], q[3];")
	if err != nil {
		t.Fatal(err)
	}
	if c.NumQubits != 4 {
		t.Errorf("NumQubits = %d, want 4 (widened by gate reference)", c.NumQubits)
	}
}

func TestParseQASMErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown single-qubit gate", "qreg q[1];\nt q[0];"},
		{"unknown two-qubit gate", "qreg q[2];\ncz q[0], q[1];"},
		{"degenerate cx", "qreg q[2];\ncx q[1], q[1];"},
		{"garbage line", "qreg q[1];\nhello world"},
		{"too many qubits", "qreg q[64];\nh q[0];"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseQASM(tt.src); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestParseQASMSkipsCommentsAndBlanks(t *testing.T) {
	src := "// a bell pair\n\nqreg q[2];\nh q[0];\ncx q[0], q[1];\n"
	c, err := ParseQASM(src)
	if err != nil {
		t.Fatal(err)
	}
	if c.Steps() != 2 {
		t.Errorf("Steps() = %d, want 2", c.Steps())
	}
}
