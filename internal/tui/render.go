package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/marlomb/qcompose/internal/circuit"
	"github.com/marlomb/qcompose/internal/quantum"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	total := width - len(s)
	left := total / 2
	right := total - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

// gateDisplayName returns the boxed display name for a gate kind.
func gateDisplayName(kind circuit.GateKind) string {
	switch kind {
	case circuit.Hadamard:
		return "H"
	case circuit.PauliX:
		return "X"
	case circuit.Measure:
		return "M"
	}
	return "?"
}

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	gate        *circuit.Gate
	isControl   bool
	isTarget    bool
	vertAbove   bool
	vertBelow   bool
	passThrough bool
}

// cellInfoAt returns rendering information for the cell at (step, qubit).
func (m Model) cellInfoAt(step, qubit int) cellInfo {
	var info cellInfo

	gate := m.circuit.GateAt(step, qubit)
	if gate != nil {
		info.gate = gate
		info.isControl = gate.Kind == circuit.ControlledX && gate.Control() == qubit
		info.isTarget = gate.Kind == circuit.ControlledX && gate.Target() == qubit
	}

	// Vertical connector between control and target of a cx at this step.
	if step < m.circuit.Steps() {
		for _, g := range m.circuit.Moments[step].Gates {
			if g.Kind != circuit.ControlledX {
				continue
			}
			minQ, maxQ := min(g.Control(), g.Target()), max(g.Control(), g.Target())
			if qubit >= minQ && qubit <= maxQ {
				if qubit > minQ {
					info.vertAbove = true
				}
				if qubit < maxQ {
					info.vertBelow = true
				}
				if qubit > minQ && qubit < maxQ && info.gate == nil {
					info.passThrough = true
				}
			}
		}
	}

	return info
}

// ──────────────────────────── Cell rendering ────────────────────────────

type cellHighlight int

const (
	hlNone cellHighlight = iota
	hlCursor
	hlTargetSelect
)

// renderCell returns 3 lines (top, mid, bot) for a single cell, each
// exactly cellW visual characters wide.
func renderCell(info cellInfo, hl cellHighlight) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)

	// ── Highlighted cell (cursor or target selection) ──
	if hl == hlCursor || hl == hlTargetSelect {
		bdr := cursorBoxStyle
		if hl == hlTargetSelect {
			bdr = targetSelectStyle
		}
		innerW := cellW - 2
		dashL := (innerW - 1) / 2
		dashR := innerW - dashL - 1

		top = bdr.Render("╔" + strings.Repeat("═", innerW) + "╗")
		bot = bdr.Render("╚" + strings.Repeat("═", innerW) + "╝")

		switch {
		case info.isControl:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render("●") + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.isTarget:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + gateStyle.Render("⊕") + strings.Repeat("─", dashR) + bdr.Render("║")
		case info.gate != nil:
			name := padCenter(gateDisplayName(info.gate.Kind), gateNameW)
			mid = bdr.Render("║") + "┤" + gateStyle.Render(name) + "├" + bdr.Render("║")
		case info.passThrough:
			mid = bdr.Render("║") + strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR) + bdr.Render("║")
		default:
			mid = bdr.Render("║") + strings.Repeat("─", innerW) + bdr.Render("║")
		}

		return
	}

	// ── Normal (non-highlighted) cells ──
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	switch {
	case info.isControl || info.isTarget:
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		sym := "●"
		if info.isTarget {
			sym = "⊕"
		}
		mid = strings.Repeat("─", dashL) + gateStyle.Render(sym) + strings.Repeat("─", dashR)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}

	case info.gate != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(gateDisplayName(info.gate.Kind), gateNameW)
		top = strings.Repeat(" ", margin) + gateStyle.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + gateStyle.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + gateStyle.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)

	case info.passThrough:
		top = vertRow
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
		bot = vertRow

	default:
		// Empty wire
		top = emptyRow
		if info.vertAbove {
			top = vertRow
		}
		mid = strings.Repeat("─", cellW)
		bot = emptyRow
		if info.vertBelow {
			bot = vertRow
		}
	}

	return
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Quantum Circuit"))
	sb.WriteString("\n\n")

	availWidth := width - labelVisualW - 4
	maxSteps := max(availWidth/cellW, 1)

	startStep := 0
	if m.cursorStep >= maxSteps {
		startStep = m.cursorStep - maxSteps + 1
	}

	if startStep > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", startStep, startStep+maxSteps-1)
	}

	// Step number header
	header := strings.Repeat(" ", labelVisualW)
	for step := startStep; step < startStep+maxSteps; step++ {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", step), cellW))
	}
	sb.WriteString(header + "\n")

	// Render each qubit as 3 lines
	for qubit := range m.circuit.NumQubits {
		topLine := strings.Repeat(" ", labelVisualW)
		label := fmt.Sprintf("q[%d]", qubit)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", label)) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := startStep; step < startStep+maxSteps; step++ {
			info := m.cellInfoAt(step, qubit)

			hl := hlNone
			if step == m.cursorStep && qubit == m.cursorQubit && (m.focus == focusCircuit || m.focus == focusSelectTarget || m.focus == focusMenu) {
				hl = hlCursor
			} else if step == m.cursorStep && qubit == m.targetQubit && m.focus == focusSelectTarget {
				hl = hlTargetSelect
			}

			top, mid, bot := renderCell(info, hl)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	// Status line
	if m.focus == focusSelectTarget {
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "  %s", activeStyle.Render("CX"))
		sb.WriteString("  Select target qubit: ")
		fmt.Fprintf(&sb, "%s", targetSelectStyle.Render(fmt.Sprintf("q[%d]", m.targetQubit)))
		sb.WriteString(dimStyle.Render("   ↑↓ Move  Enter Confirm  Esc Cancel"))
	} else {
		fmt.Fprintf(&sb, "\n  Position: Step %d, Qubit %d", m.cursorStep, m.cursorQubit)
		if m.statusMsg != "" {
			fmt.Fprintf(&sb, "  │  %s", activeStyle.Render(m.statusMsg))
		}
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the QASM editor panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM Editor"
	if m.focus == focusQASM {
		title += " [ACTIVE]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.qasmEditor.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderProbPanel renders the live basis-state probability bars.
func (m Model) renderProbPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Probabilities"))
	sb.WriteString("\n")

	barW := max(width-22, 4)
	maxRows := max(height-3, 1)
	shown := 0
	hidden := 0
	for i, p := range m.probs {
		if p < 1e-9 {
			continue
		}
		if shown >= maxRows {
			hidden++
			continue
		}
		key := quantum.BitstringKey(i, m.circuit.NumQubits)
		filled := min(int(p*float64(barW)+0.5), barW)
		bar := barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", barW-filled))
		fmt.Fprintf(&sb, "|%s⟩ %s %.4f\n", qubitLabelStyle.Render(key), bar, p)
		shown++
	}
	if hidden > 0 {
		fmt.Fprintf(&sb, "%s\n", dimStyle.Render(fmt.Sprintf("… %d more", hidden)))
	}
	if shown == 0 {
		sb.WriteString(dimStyle.Render("(no amplitudes)"))
	}

	return probStyle.Width(width).Height(height).Render(sb.String())
}

// renderCountsPanel renders the sampled measurement histogram, sorted by
// bitstring.
func (m Model) renderCountsPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Counts"))
	if m.countShots > 0 {
		fmt.Fprintf(&sb, " %s", dimStyle.Render(fmt.Sprintf("(%d shots)", m.countShots)))
	}
	sb.WriteString("\n")

	if len(m.counts) == 0 {
		sb.WriteString(dimStyle.Render("press r to run shots"))
		return countsStyle.Width(width).Height(height).Render(sb.String())
	}

	keys := make([]string, 0, len(m.counts))
	for k := range m.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	maxRows := max(height-3, 1)
	for i, k := range keys {
		if i >= maxRows {
			fmt.Fprintf(&sb, "%s\n", dimStyle.Render(fmt.Sprintf("… %d more", len(keys)-i)))
			break
		}
		n := m.counts[k]
		frac := float64(n) / float64(m.countShots)
		fmt.Fprintf(&sb, "%s %6d  %s\n", qubitLabelStyle.Render(k), n, dimStyle.Render(fmt.Sprintf("%5.1f%%", frac*100)))
	}

	return countsStyle.Width(width).Height(height).Render(sb.String())
}

// renderControlsPanel renders the bottom help/controls bar.
func (m Model) renderControlsPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(activeStyle.Render("Navigate: "))
	sb.WriteString("↑↓/jk Qubit  ←→/hl Step  +/- Qubits")
	sb.WriteString("    ")
	sb.WriteString(activeStyle.Render("a"))
	sb.WriteString(" Add gate  ")
	sb.WriteString(activeStyle.Render("r"))
	sb.WriteString(" Run shots\n")

	sb.WriteString(activeStyle.Render("Actions:  "))
	sb.WriteString("Tab Focus QASM  Bksp Delete  c Compact  ^R Reset  ^S Save  q/^C Quit")

	return controlsStyle.Width(width).Height(height).Render(sb.String())
}

// ──────────────────────────── Overlay helpers ────────────────────────────

// overlayAt composites the overlay string on top of the background at
// position (x, y), tracking visible columns through ANSI escape sequences.
func overlayAt(bg, overlay string, x, y int) string {
	bgLines := strings.Split(bg, "\n")
	ovLines := strings.Split(overlay, "\n")

	for i, ovLine := range ovLines {
		bgIdx := y + i
		if bgIdx < 0 || bgIdx >= len(bgLines) {
			continue
		}
		bgLines[bgIdx] = spliceLineAt(bgLines[bgIdx], ovLine, x)
	}
	return strings.Join(bgLines, "\n")
}

// skipEscape returns the index just past the ANSI escape sequence that
// starts at runes[i]. Sequences terminate on a letter other than the
// '[' introducer.
func skipEscape(runes []rune, i int) int {
	i++
	for i < len(runes) {
		r := runes[i]
		i++
		if r != '[' && ((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')) {
			break
		}
	}
	return i
}

// spliceLineAt replaces visible columns starting at position x in bgLine
// with overlay content, preserving escape sequences around the splice.
func spliceLineAt(bgLine, overlay string, x int) string {
	runes := []rune(bgLine)
	ovWidth := visibleLen(overlay)

	// Prefix: everything up to visible column x, escapes included, padded
	// with spaces when the background line is shorter than x.
	var prefix strings.Builder
	col := 0
	i := 0
	for i < len(runes) && col < x {
		if runes[i] == '\x1b' {
			end := skipEscape(runes, i)
			prefix.WriteString(string(runes[i:end]))
			i = end
			continue
		}
		prefix.WriteRune(runes[i])
		col++
		i++
	}
	for col < x {
		prefix.WriteRune(' ')
		col++
	}

	// Drop the background columns the overlay covers.
	skipped := 0
	for i < len(runes) && skipped < ovWidth {
		if runes[i] == '\x1b' {
			i = skipEscape(runes, i)
			continue
		}
		skipped++
		i++
	}

	return prefix.String() + overlay + string(runes[i:])
}

// visibleLen returns the number of visible (non-escape) characters.
func visibleLen(s string) int {
	runes := []rune(s)
	n := 0
	for i := 0; i < len(runes); {
		if runes[i] == '\x1b' {
			i = skipEscape(runes, i)
			continue
		}
		n++
		i++
	}
	return n
}
