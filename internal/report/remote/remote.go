// Package remote renders reports through the external PDF service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/geohome/geohome/internal/domain"
)

const maxPDFSize = 50 << 20

type Renderer struct {
	baseURL string
	client  *http.Client
	maxSize int64
}

// New builds a renderer for the service at baseURL. The timeout bounds the
// whole call; there is no retry.
func New(baseURL string, timeout time.Duration) *Renderer {
	return &Renderer{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		maxSize: maxPDFSize,
	}
}

func (r *Renderer) Render(ctx context.Context, record *domain.InspectionRecord) ([]byte, error) {
	payload, err := json.Marshal(map[string]any{"inspection": record})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/generate-pdf", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call pdf service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close pdf service response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("pdf service returned status %d: %s", resp.StatusCode, errBody)
	}

	pdf, err := io.ReadAll(io.LimitReader(resp.Body, r.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf: %w", err)
	}
	if int64(len(pdf)) > r.maxSize {
		return nil, fmt.Errorf("pdf exceeds %d bytes", r.maxSize)
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("pdf service returned an empty body")
	}
	return pdf, nil
}
