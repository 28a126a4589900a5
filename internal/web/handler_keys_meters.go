package web

import (
	"net/http"

	"github.com/geohome/geohome/internal/domain"
)

func (s *Server) handleGetKeysMeters(w http.ResponseWriter, r *http.Request) {
	km, err := s.svc.KeysMeters.Get(r.Context(), userID(r), r.PathValue("inspectionId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, "", km)
}

// handleSaveChecklist writes every entry independently. When some entries
// fail the others stay written and the response lists each failure.
func (s *Server) handleSaveChecklist(w http.ResponseWriter, r *http.Request) {
	var in domain.ChecklistInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	groups, err := s.svc.KeysMeters.SaveChecklist(r.Context(), userID(r), r.PathValue("inspectionId"), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, "Checklist saved successfully", map[string]any{"checklist": groups})
}

func (s *Server) handleAddKey(w http.ResponseWriter, r *http.Request) {
	var in domain.KeyInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	key, err := s.svc.KeysMeters.AddKey(r.Context(), userID(r), r.PathValue("inspectionId"), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusCreated, "Key added successfully", key)
}

func (s *Server) handleUpdateKey(w http.ResponseWriter, r *http.Request) {
	var in domain.KeyInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	key, err := s.svc.KeysMeters.UpdateKey(r.Context(), userID(r), r.PathValue("keyId"), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, "Key updated successfully", key)
}

func (s *Server) handleDeleteKey(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.KeysMeters.DeleteKey(r.Context(), userID(r), r.PathValue("keyId")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Key deleted successfully"})
}

func (s *Server) handleAddMeter(w http.ResponseWriter, r *http.Request) {
	var in domain.MeterInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	meter, err := s.svc.KeysMeters.AddMeter(r.Context(), userID(r), r.PathValue("inspectionId"), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusCreated, "Meter added successfully", meter)
}

func (s *Server) handleUpdateMeter(w http.ResponseWriter, r *http.Request) {
	var in domain.MeterInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	meter, err := s.svc.KeysMeters.UpdateMeter(r.Context(), userID(r), r.PathValue("meterId"), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, "Meter updated successfully", meter)
}

func (s *Server) handleDeleteMeter(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.KeysMeters.DeleteMeter(r.Context(), userID(r), r.PathValue("meterId")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Meter deleted successfully"})
}
