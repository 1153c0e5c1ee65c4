package server

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/willf/downlow/internal/core"
)

// healthResponse is the liveness payload.
type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// versionResponse reports build information.
type versionResponse struct {
	Version string `json:"version"`
}

// statusResponse reports the live batch counters.
type statusResponse struct {
	RunID          string     `json:"run_id"`
	StartedAt      time.Time  `json:"started_at"`
	ElapsedSeconds float64    `json:"elapsed_seconds"`
	Stats          core.Stats `json:"stats"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, versionResponse{Version: s.version})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil {
		http.Error(w, "no run in progress", http.StatusServiceUnavailable)
		return
	}
	startedAt := s.provider.StartedAt()
	resp := statusResponse{
		RunID:     s.provider.RunID(),
		StartedAt: startedAt,
		Stats:     s.provider.Snapshot(),
	}
	if !startedAt.IsZero() {
		resp.ElapsedSeconds = time.Since(startedAt).Seconds()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write response", zap.Error(err))
	}
}
