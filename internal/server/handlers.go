package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aristath/cppi/internal/domain"
	"github.com/aristath/cppi/internal/modules/cppi"
)

// simulateRequest is the body of POST /api/cppi/simulate. Parameters start
// from the server defaults; fields present in the body override them.
type simulateRequest struct {
	Parameters domain.Parameters     `json:"parameters"`
	Periods    []domain.ReturnSeries `json:"periods"`
}

// SimulateResponse is the data payload of a simulation
type SimulateResponse struct {
	RunID  string                   `json:"run_id"`
	Report domain.PerformanceReport `json:"report"`
	NAV    domain.Series            `json:"nav"` // last period, path 0
}

// envelope matches the data/metadata shape of the API responses
type envelope struct {
	Data     interface{}            `json:"data"`
	Metadata map[string]interface{} `json:"metadata"`
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleDefaults returns the parameters a simulation starts from
func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, envelope{
		Data:     s.defaults,
		Metadata: map[string]interface{}{"timestamp": time.Now().Format(time.RFC3339)},
	})
}

// handleSimulate runs the CPPI strategy over the posted return series
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	req := simulateRequest{Parameters: s.defaults}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Parameters.PathCount > s.maxPathCount {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("path_count %d exceeds the limit of %d", req.Parameters.PathCount, s.maxPathCount))
		return
	}

	result, err := s.service.Run(r.Context(), req.Parameters, req.Periods)
	if err != nil {
		s.writeError(w, statusFor(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, envelope{
		Data: SimulateResponse{
			RunID:  uuid.NewString(),
			Report: result.Report,
			NAV:    result.Last().NAV,
		},
		Metadata: map[string]interface{}{
			"timestamp":   time.Now().Format(time.RFC3339),
			"periods":     len(result.Periods),
			"duration_ms": result.Duration.Milliseconds(),
		},
	})
}

// statusFor maps a simulation error to an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidParameters),
		errors.Is(err, cppi.ErrSeriesTooShort),
		errors.Is(err, cppi.ErrNoPeriods):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeJSON writes a JSON response. The body is encoded before the status
// goes out so an encoding failure can still be reported as a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		s.log.Error().Err(err).Int("status", status).Msg("Failed to encode JSON response")
		buf.Reset()
		buf.WriteString(`{"error":"failed to encode response"}` + "\n")
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.Debug().Err(err).Msg("Failed to write response")
	}
}
