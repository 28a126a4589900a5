package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geohome/geohome/internal/domain"
)

func sampleRecord() *domain.InspectionRecord {
	return &domain.InspectionRecord{
		Inspection: &domain.Inspection{ID: "insp-1", Protocol: "VST202501020001", Status: domain.StatusDraft},
		Rooms:      []*domain.Area{{ID: "room-1", Name: "Sala"}},
	}
}

func TestRender(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate-pdf", r.URL.Path)
		assert.Equal(t, "application/pdf", r.Header.Get("Accept"))

		var body struct {
			Inspection map[string]any `json:"inspection"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "insp-1", body.Inspection["id"])
		assert.Len(t, body.Inspection["rooms"], 1)

		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer server.Close()

	pdf, err := New(server.URL+"/", time.Second).Render(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), pdf)
}

func TestRenderNon2xx(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := New(server.URL, time.Second).Render(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Equal(t, 1, calls)
}

func TestRenderTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	_, err := New(server.URL, 50*time.Millisecond).Render(context.Background(), sampleRecord())
	assert.Error(t, err)
}

func TestRenderUnreachable(t *testing.T) {
	_, err := New("http://127.0.0.1:1", time.Second).Render(context.Background(), sampleRecord())
	assert.Error(t, err)
}

func TestRenderEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := New(server.URL, time.Second).Render(context.Background(), sampleRecord())
	assert.Error(t, err)
}

func TestRenderOversizedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4 this document is too long"))
	}))
	defer server.Close()

	renderer := New(server.URL, time.Second)
	renderer.maxSize = 16

	pdf, err := renderer.Render(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Nil(t, pdf)
	assert.Contains(t, err.Error(), "exceeds")

	renderer.maxSize = 64
	pdf, err = renderer.Render(context.Background(), sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 this document is too long", string(pdf))
}
