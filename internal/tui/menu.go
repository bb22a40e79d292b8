package tui

import (
	"fmt"
	"strings"

	"github.com/marlomb/qcompose/internal/circuit"
)

// menuItem represents a single gate choice in the picker.
type menuItem struct {
	name        string
	kind        circuit.GateKind
	symbol      string
	needsTarget bool
}

// gateMenu defines the picker entries in display order.
var gateMenu = []menuItem{
	{name: "Hadamard", kind: circuit.Hadamard, symbol: "H"},
	{name: "Pauli-X (NOT)", kind: circuit.PauliX, symbol: "X"},
	{name: "CNOT", kind: circuit.ControlledX, symbol: "●─⊕", needsTarget: true},
	{name: "Measure", kind: circuit.Measure, symbol: "M"},
}

// renderMenu renders the floating gate-picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Add Gate"))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 28)))
	sb.WriteString("\n")

	for i, item := range gateMenu {
		if i == m.menuIdx {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-15s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-15s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		if item.needsTarget {
			sb.WriteString(dimStyle.Render(" →target"))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}

// renderShotsInput renders the shot-count prompt popup.
func (m Model) renderShotsInput() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Run Measurement Shots"))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Shots: %s_", m.shotsInput))
	sb.WriteString("\n\n")
	sb.WriteString(dimStyle.Render("1 to 100000  ⏎ Run  Esc ✕"))
	return menuBorderStyle.Render(sb.String())
}
