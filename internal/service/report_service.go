package service

import (
	"context"
	"log/slog"

	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/opinion"
	"github.com/geohome/geohome/internal/report"
)

type ReportService struct {
	records  recordLoader
	renderer report.Renderer
	logger   *slog.Logger
}

func NewReportService(records recordLoader, renderer report.Renderer, logger *slog.Logger) *ReportService {
	return &ReportService{records: records, renderer: renderer, logger: logger}
}

// Generate renders the PDF of an owned inspection. When the renderer fails
// the error is a *domain.UpstreamError carrying the full record, so the
// caller can render it locally. The render is attempted once.
func (s *ReportService) Generate(ctx context.Context, userID, inspectionID string) ([]byte, *domain.InspectionRecord, error) {
	record, err := s.records.Get(ctx, userID, inspectionID)
	if err != nil {
		return nil, nil, err
	}

	pdf, err := s.renderer.Render(ctx, record)
	if err != nil {
		s.logger.Error("pdf render failed", "inspection_id", inspectionID, "error", err)
		return nil, record, &domain.UpstreamError{Record: record, Err: err}
	}
	s.logger.Info("pdf rendered", "inspection_id", inspectionID, "bytes", len(pdf))
	return pdf, record, nil
}

type OpinionService struct {
	records recordLoader
	drafter opinion.Drafter
	logger  *slog.Logger
}

// NewOpinionService accepts a nil drafter; Draft then fails with
// domain.ErrUnavailable.
func NewOpinionService(records recordLoader, drafter opinion.Drafter, logger *slog.Logger) *OpinionService {
	return &OpinionService{records: records, drafter: drafter, logger: logger}
}

func (s *OpinionService) Draft(ctx context.Context, userID, inspectionID string) (string, error) {
	if s.drafter == nil {
		return "", domain.ErrUnavailable
	}
	record, err := s.records.Get(ctx, userID, inspectionID)
	if err != nil {
		return "", err
	}

	text, err := s.drafter.Draft(ctx, record)
	if err != nil {
		s.logger.Error("opinion draft failed", "inspection_id", inspectionID, "error", err)
		return "", &domain.UpstreamError{Err: err}
	}
	return text, nil
}
