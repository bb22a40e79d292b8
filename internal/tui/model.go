// Package tui is the terminal composer: a bubbletea program for placing
// gates on qubit wires, editing the QASM view, and watching the simulated
// probabilities and sampled counts update live.
package tui

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/marlomb/qcompose/internal/circuit"
	"github.com/marlomb/qcompose/internal/quantum"
)

const defaultQubits = 3

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusMenu
	focusSelectTarget
	focusShots
)

// Model represents the TUI application state.
type Model struct {
	circuit     *circuit.Circuit
	cursorQubit int
	cursorStep  int
	width       int
	height      int
	qasmEditor  textarea.Model
	focus       focus
	lastQASM    string
	statusMsg   string // transient status message (e.g. save confirmation)

	// Menu and target-selection state
	menuIdx     int
	pendingKind circuit.GateKind
	targetQubit int

	// Simulation results
	probs      []float64
	counts     map[string]int
	countShots int
	shotsInput string
	rng        *rand.Rand

	log zerolog.Logger
}

func initialModel(log zerolog.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(12)
	ta.ShowLineNumbers = true
	ta.KeyMap.InsertNewline.SetEnabled(true)

	c, _ := circuit.New(defaultQubits)

	m := Model{
		circuit:    c,
		qasmEditor: ta,
		focus:      focusCircuit,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		log:        log,
	}
	m.refresh()
	return m
}

// Run starts the composer program.
func Run(log zerolog.Logger) error {
	p := tea.NewProgram(initialModel(log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// refresh recomputes the QASM view and the probability distribution after
// any circuit mutation, and invalidates stale sample counts.
func (m *Model) refresh() {
	qasm := m.circuit.ToQASM()
	m.qasmEditor.SetValue(qasm)
	m.lastQASM = qasm

	probs, err := quantum.Simulate(m.circuit)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Simulation error: %v", err)
		m.probs = nil
	} else {
		m.probs = probs
	}
	m.counts = nil
	m.countShots = 0
}

// parseQASMInput rebuilds the circuit from the editor when its content
// changed. Parse failures keep the current circuit and surface a message.
func (m *Model) parseQASMInput() {
	qasm := m.qasmEditor.Value()
	if qasm == m.lastQASM {
		return
	}
	c, err := circuit.ParseQASM(qasm)
	if err != nil {
		m.statusMsg = fmt.Sprintf("QASM: %v", err)
		return
	}
	m.circuit = c
	m.lastQASM = qasm
	m.cursorQubit = min(m.cursorQubit, c.NumQubits-1)

	probs, simErr := quantum.Simulate(m.circuit)
	if simErr != nil {
		m.statusMsg = fmt.Sprintf("Simulation error: %v", simErr)
		m.probs = nil
	} else {
		m.probs = probs
		m.statusMsg = ""
	}
	m.counts = nil
	m.countShots = 0
}

// placeGate places a gate at the cursor position. targetQ is the CX
// target (-1 for single-qubit kinds). Returns false when the cell is
// occupied.
func (m *Model) placeGate(kind circuit.GateKind, targetQ int) bool {
	var g circuit.Gate
	switch kind {
	case circuit.ControlledX:
		g = circuit.CX(m.cursorQubit, targetQ)
	case circuit.Measure:
		g = circuit.M(m.cursorQubit)
	case circuit.PauliX:
		g = circuit.X(m.cursorQubit)
	default:
		g = circuit.H(m.cursorQubit)
	}

	if !m.circuit.CanPlaceAt(m.cursorStep, g.Qubits) {
		m.statusMsg = "Cannot place: qubit already used by another gate at this step"
		return false
	}
	if err := m.circuit.Place(m.cursorStep, g); err != nil {
		m.statusMsg = err.Error()
		return false
	}

	m.cursorStep++
	m.refresh()
	return true
}

// runShots samples the current distribution.
func (m *Model) runShots(shots int) {
	counts, err := quantum.SampleCounts(m.probs, shots, m.rng)
	if err != nil {
		m.statusMsg = fmt.Sprintf("Sampling error: %v", err)
		return
	}
	m.counts = counts
	m.countShots = shots
	m.log.Debug().Int("shots", shots).Msg("sampling run complete")
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		qasmW := max(msg.Width/3-6, 20)
		m.qasmEditor.SetWidth(qasmW)
		editorH := max(m.circuitPanelHeight()-7, 4)
		m.qasmEditor.SetHeight(editorH)

	case tea.KeyMsg:
		key := msg.String()
		m.statusMsg = ""

		if key == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch key {
			case "q":
				return m, tea.Quit
			case "tab":
				m.focus = focusQASM
				m.qasmEditor.Focus()
			case "ctrl+r":
				m.circuit.Moments = nil
				m.cursorStep = 0
				m.refresh()
			case "ctrl+s":
				qasm := m.circuit.ToQASM()
				if err := os.WriteFile("circuit.qasm", []byte(qasm), 0644); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved circuit.qasm"
				}
			case "up", "k":
				if m.cursorQubit > 0 {
					m.cursorQubit--
				}
			case "down", "j":
				if m.cursorQubit < m.circuit.NumQubits-1 {
					m.cursorQubit++
				}
			case "left", "h":
				if m.cursorStep > 0 {
					m.cursorStep--
				}
			case "right", "l":
				m.cursorStep++
			case "+", "=":
				if m.circuit.NumQubits < circuit.MaxQubits {
					m.circuit.NumQubits++
					m.refresh()
				} else {
					m.statusMsg = fmt.Sprintf("At the %d-qubit limit", circuit.MaxQubits)
				}
			case "-":
				if m.circuit.NumQubits > 1 {
					m.circuit.NumQubits--
					m.cursorQubit = min(m.cursorQubit, m.circuit.NumQubits-1)
					m.circuit.RemoveGatesOnQubit(m.circuit.NumQubits)
					m.refresh()
				}
			case "a":
				m.focus = focusMenu
				m.menuIdx = 0
			case "r":
				m.shotsInput = ""
				m.focus = focusShots
			case "c":
				m.circuit.Compact()
				m.cursorStep = min(m.cursorStep, m.circuit.Steps())
				m.refresh()
			case "backspace", "delete":
				m.circuit.RemoveAt(m.cursorStep, m.cursorQubit)
				m.refresh()
			}

		case focusMenu:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				if m.menuIdx > 0 {
					m.menuIdx--
				}
			case "down", "j":
				if m.menuIdx < len(gateMenu)-1 {
					m.menuIdx++
				}
			case "enter":
				item := gateMenu[m.menuIdx]
				m.pendingKind = item.kind

				if item.needsTarget {
					if m.circuit.NumQubits < 2 {
						m.statusMsg = "CNOT needs at least 2 qubits"
						m.focus = focusCircuit
						break
					}
					m.focus = focusSelectTarget
					m.targetQubit = m.cursorQubit + 1
					if m.targetQubit >= m.circuit.NumQubits {
						m.targetQubit = m.cursorQubit - 1
					}
				} else {
					if m.placeGate(item.kind, -1) {
						m.focus = focusCircuit
					}
				}
			}

		case focusSelectTarget:
			switch key {
			case "esc":
				m.focus = focusCircuit
			case "up", "k":
				for next := m.targetQubit - 1; next >= 0; next-- {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "down", "j":
				for next := m.targetQubit + 1; next < m.circuit.NumQubits; next++ {
					if next != m.cursorQubit {
						m.targetQubit = next
						break
					}
				}
			case "enter":
				if m.placeGate(m.pendingKind, m.targetQubit) {
					m.focus = focusCircuit
				}
			}

		case focusShots:
			switch key {
			case "esc":
				m.shotsInput = ""
				m.focus = focusCircuit
			case "backspace":
				if len(m.shotsInput) > 0 {
					m.shotsInput = m.shotsInput[:len(m.shotsInput)-1]
				}
			case "enter":
				shots, err := strconv.Atoi(m.shotsInput)
				if err != nil || shots < 1 || shots > quantum.MaxShots {
					m.statusMsg = fmt.Sprintf("Shots must be 1 to %d", quantum.MaxShots)
					break
				}
				m.runShots(shots)
				m.shotsInput = ""
				m.focus = focusCircuit
			default:
				if len(key) == 1 && key[0] >= '0' && key[0] <= '9' && len(m.shotsInput) < 6 {
					m.shotsInput += key
				}
			}

		case focusQASM:
			switch key {
			case "tab":
				m.focus = focusCircuit
				m.qasmEditor.Blur()
			default:
				var cmd tea.Cmd
				m.qasmEditor, cmd = m.qasmEditor.Update(msg)
				cmds = append(cmds, cmd)
				m.parseQASMInput()
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// circuitPanelHeight is the height of the top row of panels.
func (m Model) circuitPanelHeight() int {
	resultsH := 10
	controlsH := 4
	return max(m.height-resultsH-controlsH, 8)
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	qasmWidth := m.width / 3
	circuitWidth := m.width - qasmWidth - 4
	circuitHeight := m.circuitPanelHeight()
	resultsH := 8
	probWidth := m.width / 2
	countsWidth := m.width - probWidth - 4

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	qasmPanel := m.renderQASMPanel(qasmWidth, circuitHeight)
	probPanel := m.renderProbPanel(probWidth, resultsH)
	countsPanel := m.renderCountsPanel(countsWidth, resultsH)
	controlsPanel := m.renderControlsPanel(m.width-4, 2)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, qasmPanel)
	midRow := lipgloss.JoinHorizontal(lipgloss.Top, probPanel, countsPanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, midRow, controlsPanel)

	if m.focus == focusMenu {
		frame = overlayAt(frame, m.renderMenu(), 2, 2)
	}
	if m.focus == focusShots {
		frame = overlayAt(frame, m.renderShotsInput(), 2, 2)
	}

	return frame
}
