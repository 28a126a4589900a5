package service

import (
	"context"
	"log/slog"

	"github.com/geohome/geohome/internal/domain"
)

type TemplateService struct {
	templates templateRepository
	logger    *slog.Logger
}

func NewTemplateService(templates templateRepository, logger *slog.Logger) *TemplateService {
	return &TemplateService{templates: templates, logger: logger}
}

func (s *TemplateService) Create(ctx context.Context, userID string, in *domain.TemplateInput) (*domain.Template, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.templates.Create(ctx, &domain.Template{
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Sections:    in.TemplateSections(),
	})
}

func (s *TemplateService) List(ctx context.Context, userID string) ([]*domain.Template, error) {
	return s.templates.ListByUser(ctx, userID)
}

func (s *TemplateService) Get(ctx context.Context, userID, id string) (*domain.Template, error) {
	t, err := s.templates.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (s *TemplateService) Update(ctx context.Context, userID, id string, in *domain.TemplateInput) (*domain.Template, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.templates.Update(ctx, &domain.Template{
		ID:          id,
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		Sections:    in.TemplateSections(),
	})
}

func (s *TemplateService) Delete(ctx context.Context, userID, id string) error {
	return s.templates.Delete(ctx, id, userID)
}
