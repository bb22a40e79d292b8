package quantum

import (
	"math"
	"testing"
)

const tol = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewStateVector(t *testing.T) {
	for n := 1; n <= 12; n++ {
		s, err := NewStateVector(n)
		if err != nil {
			t.Fatalf("NewStateVector(%d): %v", n, err)
		}
		if len(s.Amplitudes) != 1<<n {
			t.Fatalf("n=%d: expected %d amplitudes, got %d", n, 1<<n, len(s.Amplitudes))
		}
		if s.Amplitudes[0] != 1 {
			t.Errorf("n=%d: amplitude at index 0 is %v, want 1", n, s.Amplitudes[0])
		}
		for i := 1; i < len(s.Amplitudes); i++ {
			if s.Amplitudes[i] != 0 {
				t.Errorf("n=%d: amplitude at index %d is %v, want 0", n, i, s.Amplitudes[i])
			}
		}
		probs := s.Probabilities()
		if !almostEqual(probs[0], 1.0) {
			t.Errorf("n=%d: probability at index 0 is %g, want 1", n, probs[0])
		}
	}
}

func TestNewStateVectorRejectsBadCounts(t *testing.T) {
	for _, n := range []int{-1, 0, 13, 64} {
		if _, err := NewStateVector(n); err == nil {
			t.Errorf("NewStateVector(%d): expected error", n)
		}
	}
}

func TestHadamardTwiceIsIdentity(t *testing.T) {
	s, _ := NewStateVector(2)
	if err := s.ApplyH(1); err != nil {
		t.Fatal(err)
	}
	if err := s.ApplyH(1); err != nil {
		t.Fatal(err)
	}
	probs := s.Probabilities()
	if !almostEqual(probs[0], 1.0) {
		t.Errorf("H·H should be identity, got probability %g at index 0", probs[0])
	}
	for i := 1; i < len(probs); i++ {
		if !almostEqual(probs[i], 0) {
			t.Errorf("H·H residual probability %g at index %d", probs[i], i)
		}
	}
}

func TestPauliXInvolution(t *testing.T) {
	s, _ := NewStateVector(3)
	s.ApplyH(0)
	s.ApplyCX(0, 2)
	before := make([]complex128, len(s.Amplitudes))
	copy(before, s.Amplitudes)

	s.ApplyX(1)
	s.ApplyX(1)

	// X swaps amplitude pairs exactly, so a double application restores
	// the vector bit for bit.
	for i := range before {
		if s.Amplitudes[i] != before[i] {
			t.Fatalf("X·X changed amplitude %d: %v -> %v", i, before[i], s.Amplitudes[i])
		}
	}
}

func TestPauliXOnSingleQubit(t *testing.T) {
	s, _ := NewStateVector(1)
	if err := s.ApplyX(0); err != nil {
		t.Fatal(err)
	}
	probs := s.Probabilities()
	if !almostEqual(probs[0], 0) || !almostEqual(probs[1], 1) {
		t.Errorf("X|0⟩: got probabilities %v, want [0 1]", probs)
	}
}

func TestControlledXNoOpWhenControlZero(t *testing.T) {
	s, _ := NewStateVector(2)
	if err := s.ApplyCX(0, 1); err != nil {
		t.Fatal(err)
	}
	probs := s.Probabilities()
	if !almostEqual(probs[0], 1) {
		t.Errorf("CX with control in |0⟩ should leave the zero state, got %v", probs)
	}
}

func TestBellState(t *testing.T) {
	s, _ := NewStateVector(2)
	s.ApplyH(0)
	s.ApplyCX(0, 1)

	probs := s.Probabilities()
	want := []float64{0.5, 0, 0, 0.5}
	for i := range want {
		if !almostEqual(probs[i], want[i]) {
			t.Errorf("bell state probability at index %d: got %g, want %g", i, probs[i], want[i])
		}
	}
}

func TestUnitarityPreserved(t *testing.T) {
	s, _ := NewStateVector(3)
	ops := []func() error{
		func() error { return s.ApplyH(0) },
		func() error { return s.ApplyX(1) },
		func() error { return s.ApplyCX(0, 2) },
		func() error { return s.ApplyH(1) },
		func() error { return s.ApplyCX(1, 0) },
		func() error { return s.ApplyH(2) },
	}
	for i, op := range ops {
		if err := op(); err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
		total := 0.0
		for _, p := range s.Probabilities() {
			total += p
		}
		if !almostEqual(total, 1.0) {
			t.Fatalf("after op %d: probabilities sum to %.12f, want 1", i, total)
		}
	}
}

func TestApplyUnitaryMatchesHadamard(t *testing.T) {
	a, _ := NewStateVector(2)
	b, _ := NewStateVector(2)
	a.ApplyX(1)
	b.ApplyX(1)

	a.ApplyH(1)
	h := complex(1/math.Sqrt2, 0)
	b.ApplyUnitary(1, h, h, h, -h)

	for i := range a.Amplitudes {
		if a.Amplitudes[i] != b.Amplitudes[i] {
			t.Fatalf("amplitude %d differs: %v vs %v", i, a.Amplitudes[i], b.Amplitudes[i])
		}
	}
}

func TestOperatorValidation(t *testing.T) {
	s, _ := NewStateVector(2)
	tests := []struct {
		name string
		op   func() error
	}{
		{"H out of range", func() error { return s.ApplyH(2) }},
		{"H negative", func() error { return s.ApplyH(-1) }},
		{"X out of range", func() error { return s.ApplyX(5) }},
		{"CX control out of range", func() error { return s.ApplyCX(2, 0) }},
		{"CX target out of range", func() error { return s.ApplyCX(0, -1) }},
		{"CX degenerate", func() error { return s.ApplyCX(1, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.op(); err == nil {
				t.Fatal("expected error")
			}
			// A rejected operator must leave the vector untouched.
			if s.Amplitudes[0] != 1 {
				t.Fatalf("state mutated by rejected operator: %v", s.Amplitudes)
			}
		})
	}
}

func TestSqrMag(t *testing.T) {
	tests := []struct {
		in   complex128
		want float64
	}{
		{0, 0},
		{1, 1},
		{complex(0, 1), 1},
		{complex(3, 4), 25},
		{complex(1/math.Sqrt2, 0), 0.5},
	}
	for _, tt := range tests {
		if got := SqrMag(tt.in); !almostEqual(got, tt.want) {
			t.Errorf("SqrMag(%v) = %g, want %g", tt.in, got, tt.want)
		}
	}
}
