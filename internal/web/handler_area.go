package web

import (
	"net/http"

	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/service"
)

// registerAreaRoutes mounts the CRUD routes shared by rooms and external
// areas under prefix. label names the resource in messages.
func (s *Server) registerAreaRoutes(prefix string, svc *service.AreaService, label string) {
	h := &areaHandlers{s: s, svc: svc, label: label}
	s.mux.HandleFunc("POST "+prefix, s.requireAuth(h.create))
	s.mux.HandleFunc("GET "+prefix+"/inspection/{inspectionId}", s.requireAuth(h.listByInspection))
	s.mux.HandleFunc("GET "+prefix+"/{id}", s.requireAuth(h.get))
	s.mux.HandleFunc("PUT "+prefix+"/{id}", s.requireAuth(h.update))
	s.mux.HandleFunc("DELETE "+prefix+"/{id}", s.requireAuth(h.delete))
}

type areaHandlers struct {
	s     *Server
	svc   *service.AreaService
	label string
}

func (h *areaHandlers) create(w http.ResponseWriter, r *http.Request) {
	var in domain.AreaInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.s.writeError(w, r, err)
		return
	}

	area, err := h.svc.Create(r.Context(), userID(r), &in)
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	h.s.writeData(w, http.StatusCreated, h.label+" created successfully", area)
}

func (h *areaHandlers) listByInspection(w http.ResponseWriter, r *http.Request) {
	areas, err := h.svc.ListByInspection(r.Context(), userID(r), r.PathValue("inspectionId"))
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	h.s.writeList(w, areas, len(areas))
}

func (h *areaHandlers) get(w http.ResponseWriter, r *http.Request) {
	area, err := h.svc.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	h.s.writeData(w, http.StatusOK, "", area)
}

func (h *areaHandlers) update(w http.ResponseWriter, r *http.Request) {
	var in domain.AreaInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.s.writeError(w, r, err)
		return
	}

	area, err := h.svc.Update(r.Context(), userID(r), r.PathValue("id"), &in)
	if err != nil {
		h.s.writeError(w, r, err)
		return
	}
	h.s.writeData(w, http.StatusOK, h.label+" updated successfully", area)
}

func (h *areaHandlers) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		h.s.writeError(w, r, err)
		return
	}
	h.s.writeJSON(w, http.StatusOK, envelope{Success: true, Message: h.label + " deleted successfully"})
}
