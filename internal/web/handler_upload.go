package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/service"
)

// multipartOverhead is the room left for form boundaries and headers on
// top of the photo itself.
const multipartOverhead = 512 << 10

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	limit := int64(service.MaxUploadSize + multipartOverhead)
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || r.ContentLength > limit {
			s.writeError(w, r, service.ErrFileTooLarge)
			return
		}
		s.writeError(w, r, &domain.ValidationError{Errors: []domain.FieldError{
			{Field: "photo", Message: "Request must be multipart/form-data"},
		}})
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.logger.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile("photo")
	if err != nil {
		s.writeError(w, r, &domain.ValidationError{Errors: []domain.FieldError{
			{Field: "photo", Message: "No file uploaded"},
		}})
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	res, err := s.svc.Uploads.Upload(r.Context(), header.Filename, file)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, "File uploaded successfully", res)
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	rc, mimeType, err := s.svc.Uploads.Open(r.Context(), r.PathValue("key"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer closeWithLog(rc, "photo", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Error("failed to stream photo", "key", r.PathValue("key"), "error", err)
	}
}
