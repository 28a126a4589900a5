package web

import (
	"net/http"

	"github.com/geohome/geohome/internal/domain"
)

const apiVersion = "1.0.0"

var endpointGroups = []string{
	"/api/auth",
	"/api/inspections",
	"/api/rooms",
	"/api/external-areas",
	"/api/keys-and-meters",
	"/api/templates",
	"/api/upload",
	"/api/cep",
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Welcome to Geohome API",
		"version":   apiVersion,
		"endpoints": endpointGroups,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.logger.Error("health check failed", "error", err)
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusNotFound, envelope{Message: "Route not found"})
}

func (s *Server) handleCEP(w http.ResponseWriter, r *http.Request) {
	if s.svc.CEP == nil {
		s.writeError(w, r, domain.ErrUnavailable)
		return
	}
	addr, err := s.svc.CEP.Lookup(r.Context(), r.PathValue("cep"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, "", addr)
}
