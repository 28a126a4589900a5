package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/logging"
	"github.com/geohome/geohome/internal/service"
)

func errorResponse(t *testing.T, production bool, err error) (int, map[string]any) {
	t.Helper()
	s := &Server{production: production, logger: logging.Discard()}
	rec := httptest.NewRecorder()
	s.writeError(rec, httptest.NewRequest(http.MethodGet, "/api/x", nil), err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestWriteErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &domain.ValidationError{Errors: []domain.FieldError{{Field: "name", Message: "required"}}}, http.StatusBadRequest},
		{"unauthenticated", fmt.Errorf("expired: %w", domain.ErrUnauthenticated), http.StatusUnauthorized},
		{"not found", fmt.Errorf("inspection x: %w", domain.ErrNotFound), http.StatusNotFound},
		{"conflict", domain.ErrConflict, http.StatusBadRequest},
		{"too large", service.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"unavailable", domain.ErrUnavailable, http.StatusServiceUnavailable},
		{"store", &domain.StoreError{Op: "insert room", Err: errors.New("constraint")}, http.StatusBadRequest},
		{"upstream", &domain.UpstreamError{Err: errors.New("boom")}, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := errorResponse(t, false, tc.err)
			assert.Equal(t, tc.want, status)
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestWriteErrorBatchListsEveryFailure(t *testing.T) {
	errs := multierr.Append(errors.New("update checklist item a: not found"), errors.New("insert checklist item \"b\": locked"))
	status, body := errorResponse(t, true, &domain.BatchError{Op: "save checklist", Err: errs})

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Len(t, body["errors"], 2)
	assert.NotContains(t, body, "debug")
}

func TestWriteErrorFallbackRecord(t *testing.T) {
	record := &domain.InspectionRecord{Inspection: &domain.Inspection{ID: "insp-1"}}
	status, body := errorResponse(t, false, &domain.UpstreamError{Record: record, Err: errors.New("502")})

	assert.Equal(t, http.StatusInternalServerError, status)
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "insp-1", data["id"])
	assert.Contains(t, body["debug"], "502")
}

func TestWriteErrorNotFoundHasNoDebug(t *testing.T) {
	_, a := errorResponse(t, false, fmt.Errorf("room 1 belongs to someone else: %w", domain.ErrNotFound))
	_, b := errorResponse(t, false, fmt.Errorf("room 2 does not exist: %w", domain.ErrNotFound))
	assert.Equal(t, a, b)
	assert.NotContains(t, a, "debug")
}

func TestBearerToken(t *testing.T) {
	cases := map[string]struct {
		header string
		token  string
		ok     bool
	}{
		"valid":        {"Bearer abc.def", "abc.def", true},
		"lower scheme": {"bearer abc", "abc", true},
		"missing":      {"", "", false},
		"basic":        {"Basic dXNlcg==", "", false},
		"empty token":  {"Bearer   ", "", false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			token, ok := bearerToken(r)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.token, token)
		})
	}
}
