package service

import (
	"context"
	"log/slog"

	"github.com/geohome/geohome/internal/domain"
)

// AreaService manages rooms or external areas, depending on the repository
// it is built with. Every call re-checks that the parent inspection belongs
// to the caller.
type AreaService struct {
	inspections inspectionOwner
	areas       areaRepository
	kind        string
	logger      *slog.Logger
}

// NewAreaService builds a service over areas; kind ("room", "external
// area") only shows up in log lines.
func NewAreaService(inspections inspectionOwner, areas areaRepository, kind string, logger *slog.Logger) *AreaService {
	return &AreaService{
		inspections: inspections,
		areas:       areas,
		kind:        kind,
		logger:      logger,
	}
}

func (s *AreaService) Create(ctx context.Context, userID string, in *domain.AreaInput) (*domain.Area, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := ownedInspection(ctx, s.inspections, in.InspectionID, userID); err != nil {
		return nil, err
	}

	area, err := s.areas.Create(ctx, &domain.Area{
		InspectionID: in.InspectionID,
		Name:         in.Name,
		Type:         in.Type,
		Condition:    in.Condition,
		Items:        *in.Items,
		Notes:        in.Notes,
		Photos:       in.Photos,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("area created", "kind", s.kind, "id", area.ID, "inspection_id", area.InspectionID)
	return area, nil
}

func (s *AreaService) ListByInspection(ctx context.Context, userID, inspectionID string) ([]*domain.Area, error) {
	if _, err := ownedInspection(ctx, s.inspections, inspectionID, userID); err != nil {
		return nil, err
	}
	return s.areas.ListByInspection(ctx, inspectionID)
}

func (s *AreaService) Get(ctx context.Context, userID, id string) (*domain.Area, error) {
	area, err := s.areas.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if area == nil {
		return nil, domain.ErrNotFound
	}
	return area, nil
}

// Update rewrites the area. Omitted photos keep the stored list.
func (s *AreaService) Update(ctx context.Context, userID, id string, in *domain.AreaInput) (*domain.Area, error) {
	if err := in.ValidateUpdate(); err != nil {
		return nil, err
	}
	current, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	photos := in.Photos
	if photos == nil {
		photos = current.Photos
	}
	return s.areas.Update(ctx, &domain.Area{
		ID:           id,
		InspectionID: current.InspectionID,
		Name:         in.Name,
		Type:         in.Type,
		Condition:    in.Condition,
		Items:        *in.Items,
		Notes:        in.Notes,
		Photos:       photos,
	})
}

func (s *AreaService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.areas.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Debug("area deleted", "kind", s.kind, "id", id)
	return nil
}
