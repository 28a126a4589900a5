package web

import (
	"fmt"
	"net/http"

	"github.com/geohome/geohome/internal/domain"
)

func (s *Server) handleCreateInspection(w http.ResponseWriter, r *http.Request) {
	var in domain.InspectionInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	insp, err := s.svc.Inspections.Create(r.Context(), userID(r), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusCreated, "Inspection created successfully", insp)
}

func (s *Server) handleListInspections(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Inspections.List(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeList(w, list, len(list))
}

func (s *Server) handleInspectionSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.svc.Inspections.Summary(r.Context(), userID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, "", sum)
}

func (s *Server) handleGetInspection(w http.ResponseWriter, r *http.Request) {
	record, err := s.svc.Inspections.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, "", record)
}

func (s *Server) handleUpdateInspection(w http.ResponseWriter, r *http.Request) {
	var in domain.InspectionInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	insp, err := s.svc.Inspections.Update(r.Context(), userID(r), r.PathValue("id"), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, "Inspection updated successfully", insp)
}

func (s *Server) handleDeleteInspection(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Inspections.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Inspection deleted successfully"})
}

// handleReport streams the rendered PDF. On a renderer failure the 500
// body carries the whole record for client-side rendering.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	pdf, _, err := s.svc.Reports.Generate(r.Context(), userID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="inspection_%s.pdf"`, id))
	w.Header().Set("Content-Length", fmt.Sprint(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		s.logger.Error("write pdf failed", "inspection_id", id, "error", err)
	}
}

func (s *Server) handleOpinion(w http.ResponseWriter, r *http.Request) {
	text, err := s.svc.Opinions.Draft(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, "", map[string]string{"opinion": text})
}
