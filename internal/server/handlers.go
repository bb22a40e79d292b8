package server

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/google/uuid"

	"github.com/marlomb/qcompose/internal/circuit"
	"github.com/marlomb/qcompose/internal/quantum"
)

// gatePayload is one gate instance on the wire. Kind uses the QASM
// mnemonics; qubits are [target] or [control, target] for cx.
type gatePayload struct {
	Kind   string `json:"kind" validate:"required,oneof=h x cx measure"`
	Qubits []int  `json:"qubits" validate:"required,min=1,max=2,dive,gte=0,lt=12"`
}

// circuitPayload mirrors circuit.Circuit: moments are ordered lists of
// gates, applied in document order.
type circuitPayload struct {
	Qubits  int             `json:"qubits" validate:"required,gte=1,lte=12"`
	Moments [][]gatePayload `json:"moments" validate:"dive,dive"`
}

type sampleRequest struct {
	circuitPayload
	Shots int    `json:"shots" validate:"required,gte=1,lte=100000"`
	Seed  *int64 `json:"seed,omitempty"`
}

// toCircuit converts a validated payload into the model type. Gate-level
// constraints the struct tags cannot express (arity, in-range indices,
// degenerate cx) surface through circuit.Validate via quantum.Simulate.
func (p circuitPayload) toCircuit() (*circuit.Circuit, error) {
	c := &circuit.Circuit{NumQubits: p.Qubits}
	for _, pm := range p.Moments {
		m := circuit.Moment{}
		for _, pg := range pm {
			var kind circuit.GateKind
			switch pg.Kind {
			case "h":
				kind = circuit.Hadamard
			case "x":
				kind = circuit.PauliX
			case "cx":
				kind = circuit.ControlledX
			case "measure":
				kind = circuit.Measure
			default:
				return nil, fmt.Errorf("unknown gate kind %q", pg.Kind)
			}
			m.Gates = append(m.Gates, circuit.Gate{Kind: kind, Qubits: pg.Qubits})
		}
		c.Moments = append(c.Moments, m)
	}
	return c, nil
}

// decode reads and validates a JSON request body.
func (s *Server) decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSimulate replays the posted circuit and returns the probability
// distribution over basis states, indexed with qubit 0 as the least
// significant bit.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req circuitPayload
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := req.toCircuit()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	probs, err := quantum.Simulate(c)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.simulations.Inc()

	s.writeJSON(w, http.StatusOK, map[string]any{
		"qubits":        c.NumQubits,
		"probabilities": probs,
	})
}

// handleSample simulates the circuit and draws the requested number of
// measurement shots. An explicit seed makes the histogram reproducible;
// otherwise each request gets an independent time-seeded source.
func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	var req sampleRequest
	if err := s.decode(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	c, err := req.toCircuit()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	probs, err := quantum.Simulate(c)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var rng *rand.Rand
	if req.Seed != nil {
		rng = rand.New(rand.NewSource(*req.Seed))
	}
	counts, err := quantum.SampleCounts(probs, req.Shots, rng)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.simulations.Inc()
	s.sampleShots.Add(float64(req.Shots))

	jobID := uuid.NewString()
	s.log.Debug().Str("job_id", jobID).Int("shots", req.Shots).Msg("sampling run complete")

	s.writeJSON(w, http.StatusOK, map[string]any{
		"job_id": jobID,
		"qubits": c.NumQubits,
		"shots":  req.Shots,
		"counts": counts,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
