package api

import (
	"net/http"

	"github.com/vytor/karrito/internal/logger"
)

// handleHealth is the liveness probe; it always returns 200.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady returns 503 while the store cannot answer a trivial query.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.Health == nil || !s.Health.TestConnection(r.Context()) {
		logger.FromContext(r.Context()).Warn("readiness check failed: database unavailable")
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
