// Package report turns an inspection record into a PDF.
package report

import (
	"context"

	"github.com/geohome/geohome/internal/domain"
)

type Renderer interface {
	Render(ctx context.Context, record *domain.InspectionRecord) ([]byte, error)
}
