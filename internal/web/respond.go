package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"go.uber.org/multierr"

	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/service"
)

const maxJSONBody = 1 << 20

// envelope is the body of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Errors  any    `json:"errors,omitempty"`
	Debug   string `json:"debug,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeData(w http.ResponseWriter, status int, message string, data any) {
	s.writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

func (s *Server) writeList(w http.ResponseWriter, data any, count int) {
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Count: &count})
}

// writeError is the single place where errors become HTTP responses.
// Missing and foreign records produce byte-identical 404 bodies.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		status = http.StatusInternalServerError
		env    = envelope{Message: "Internal server error"}

		verr     *domain.ValidationError
		batch    *domain.BatchError
		upstream *domain.UpstreamError
		serr     *domain.StoreError
		tooLarge *http.MaxBytesError
	)

	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		env.Message = "Validation failed"
		env.Errors = verr.Errors
	case errors.As(err, &batch):
		status = http.StatusBadRequest
		env.Message = "Failed to save some checklist items"
		msgs := []string{}
		for _, e := range multierr.Errors(batch.Err) {
			msgs = append(msgs, e.Error())
		}
		env.Errors = msgs
	case errors.Is(err, domain.ErrUnauthenticated):
		status = http.StatusUnauthorized
		env.Message = "Authentication required"
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		env.Message = "Resource not found"
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusBadRequest
		env.Message = "User already registered"
	case errors.Is(err, service.ErrFileTooLarge), errors.As(err, &tooLarge):
		status = http.StatusRequestEntityTooLarge
		env.Message = "File exceeds the 5MB limit"
	case errors.Is(err, domain.ErrUnavailable):
		status = http.StatusServiceUnavailable
		env.Message = "Service not configured"
	case errors.As(err, &upstream):
		status = http.StatusInternalServerError
		if upstream.Record != nil {
			env.Message = "Error generating PDF with the rendering service. Use frontend fallback."
			env.Data = upstream.Record
		} else {
			env.Message = "Upstream service failed"
		}
	case errors.As(err, &serr):
		status = http.StatusBadRequest
		env.Message = "Database operation failed"
	}

	level := slog.LevelDebug
	if status >= 500 || serr != nil {
		level = slog.LevelError
	}
	s.logger.Log(r.Context(), level, "request failed",
		"method", r.Method, "path", r.URL.Path, "status", status, "user_id", userID(r), "error", err)

	// 404 bodies never carry debug detail: missing and foreign records must
	// look the same.
	if !s.production && status != http.StatusNotFound {
		env.Debug = err.Error()
	}
	s.writeJSON(w, status, env)
}

// decodeJSON reads a JSON body into v. Malformed bodies become a
// ValidationError.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		msg := "Request body must be valid JSON"
		if errors.Is(err, io.EOF) {
			msg = "Request body is required"
		}
		return &domain.ValidationError{Errors: []domain.FieldError{{Field: "body", Message: msg}}}
	}
	return nil
}

func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
