package circuit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for the QASM 2.0 subset this model round-trips.
var (
	qregRegex    = regexp.MustCompile(`qreg\s+(\w+)\[(\d+)\]`)
	singleRegex  = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\];?$`)
	twoQubRegex  = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\],\s*q\[(\d+)\];?$`)
	measureRegex = regexp.MustCompile(`^measure\s+q\[(\d+)\]\s*->\s*(\w+)\[(\d+)\];?$`)
)

// ToQASM generates OpenQASM 2.0 output, one instruction per gate, in
// moment order and document order within each moment. Measure lines map
// qubit i to classical bit i, so the creg must be large enough to hold
// the highest classical bit index used.
func (c *Circuit) ToQASM() string {
	numCbits := 1
	for _, q := range c.Measured() {
		if q+1 > numCbits {
			numCbits = q + 1
		}
	}

	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", max(c.NumQubits, 1))
	fmt.Fprintf(&sb, "creg c[%d];\n\n", numCbits)

	for _, m := range c.Moments {
		for _, g := range m.Gates {
			switch g.Kind {
			case ControlledX:
				fmt.Fprintf(&sb, "cx q[%d], q[%d];\n", g.Qubits[0], g.Qubits[1])
			case Measure:
				fmt.Fprintf(&sb, "measure q[%d] -> c[%d];\n", g.Target(), g.Target())
			default:
				fmt.Fprintf(&sb, "%s q[%d];\n", g.Kind, g.Target())
			}
		}
	}

	return sb.String()
}

// ParseQASM parses a QASM subset (h, x, cx, measure) and rebuilds the
// circuit. Each parsed gate is packed into the earliest moment whose
// qubits are all free, so independent gates land in the same time step.
// Instructions outside the subset are an error, not a silent drop.
func ParseQASM(src string) (*Circuit, error) {
	c := &Circuit{NumQubits: 1}
	nextFree := map[int]int{}

	place := func(g Gate) {
		step := 0
		for _, q := range g.Qubits {
			if nextFree[q] > step {
				step = nextFree[q]
			}
			if q+1 > c.NumQubits {
				c.NumQubits = q + 1
			}
		}
		c.ensureStep(step)
		c.Moments[step].Gates = append(c.Moments[step].Gates, g)
		for _, q := range g.Qubits {
			nextFree[q] = step + 1
		}
	}

	for lineno, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") {
			continue
		}
		if strings.HasPrefix(line, "qreg") {
			if m := qregRegex.FindStringSubmatch(line); len(m) > 2 {
				n, _ := strconv.Atoi(m[2])
				if n > c.NumQubits {
					c.NumQubits = n
				}
			}
			continue
		}

		if m := measureRegex.FindStringSubmatch(line); m != nil {
			q, _ := strconv.Atoi(m[1])
			place(M(q))
			continue
		}

		if m := twoQubRegex.FindStringSubmatch(line); m != nil {
			name := strings.ToLower(m[1])
			if name != "cx" {
				return nil, fmt.Errorf("line %d: unsupported gate %q", lineno+1, name)
			}
			control, _ := strconv.Atoi(m[2])
			target, _ := strconv.Atoi(m[3])
			if control == target {
				return nil, fmt.Errorf("line %d: cx control and target are both q[%d]", lineno+1, control)
			}
			place(CX(control, target))
			continue
		}

		if m := singleRegex.FindStringSubmatch(line); m != nil {
			name := strings.ToLower(m[1])
			q, _ := strconv.Atoi(m[2])
			switch name {
			case "h":
				place(H(q))
			case "x":
				place(X(q))
			default:
				return nil, fmt.Errorf("line %d: unsupported gate %q", lineno+1, name)
			}
			continue
		}

		return nil, fmt.Errorf("line %d: cannot parse %q", lineno+1, line)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
