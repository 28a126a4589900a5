package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/geohome/geohome/internal/domain"
)

const recentInspections = 5

type InspectionService struct {
	inspections   inspectionRepository
	rooms         areaRepository
	externalAreas areaRepository
	keys          keyRepository
	meters        meterRepository
	checklist     checklistRepository
	templates     templateRepository
	logger        *slog.Logger
	now           func() time.Time
}

func NewInspectionService(
	inspections inspectionRepository,
	rooms areaRepository,
	externalAreas areaRepository,
	keys keyRepository,
	meters meterRepository,
	checklist checklistRepository,
	templates templateRepository,
	logger *slog.Logger,
) *InspectionService {
	return &InspectionService{
		inspections:   inspections,
		rooms:         rooms,
		externalAreas: externalAreas,
		keys:          keys,
		meters:        meters,
		checklist:     checklist,
		templates:     templates,
		logger:        logger,
		now:           time.Now,
	}
}

// Create stores a new draft inspection with a fresh report protocol.
func (s *InspectionService) Create(ctx context.Context, userID string, in *domain.InspectionInput) (*domain.Inspection, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	templateID, err := s.checkTemplate(ctx, userID, in.TemplateID)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.StatusDraft
	}
	insp, err := s.inspections.Create(ctx, &domain.Inspection{
		UserID:               userID,
		Protocol:             domain.NewProtocol(s.now()),
		PropertyData:         *in.PropertyData,
		StructuralConditions: *in.StructuralConditions,
		Installations:        *in.Installations,
		InspectorData:        *in.InspectorData,
		TemplateID:           templateID,
		Notes:                in.Notes,
		Status:               status,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("inspection created", "inspection_id", insp.ID, "user_id", userID, "protocol", insp.Protocol)
	return insp, nil
}

func (s *InspectionService) List(ctx context.Context, userID string) ([]*domain.Inspection, error) {
	return s.inspections.ListByUser(ctx, userID)
}

// Get returns the inspection with all of its child records.
func (s *InspectionService) Get(ctx context.Context, userID, id string) (*domain.InspectionRecord, error) {
	insp, err := ownedInspection(ctx, s.inspections, id, userID)
	if err != nil {
		return nil, err
	}

	record := &domain.InspectionRecord{Inspection: insp}
	if record.Rooms, err = s.rooms.ListByInspection(ctx, id); err != nil {
		return nil, err
	}
	if record.ExternalAreas, err = s.externalAreas.ListByInspection(ctx, id); err != nil {
		return nil, err
	}
	if record.Keys, err = s.keys.ListByInspection(ctx, id); err != nil {
		return nil, err
	}
	if record.Meters, err = s.meters.ListByInspection(ctx, id); err != nil {
		return nil, err
	}
	if record.Checklist, err = s.checklist.ListByInspection(ctx, id); err != nil {
		return nil, err
	}
	return record, nil
}

// Update replaces the editable fields. An omitted status keeps the current
// one.
func (s *InspectionService) Update(ctx context.Context, userID, id string, in *domain.InspectionInput) (*domain.Inspection, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	current, err := ownedInspection(ctx, s.inspections, id, userID)
	if err != nil {
		return nil, err
	}
	templateID, err := s.checkTemplate(ctx, userID, in.TemplateID)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = current.Status
	}
	return s.inspections.Update(ctx, &domain.Inspection{
		ID:                   id,
		UserID:               userID,
		PropertyData:         *in.PropertyData,
		StructuralConditions: *in.StructuralConditions,
		Installations:        *in.Installations,
		InspectorData:        *in.InspectorData,
		TemplateID:           templateID,
		Notes:                in.Notes,
		Status:               status,
	})
}

// Delete removes the children concurrently and then the inspection. A failed
// child delete is logged and does not stop the parent delete.
func (s *InspectionService) Delete(ctx context.Context, userID, id string) error {
	if _, err := ownedInspection(ctx, s.inspections, id, userID); err != nil {
		return err
	}

	children := map[string]func(context.Context, string) (int64, error){
		"rooms":                 s.rooms.DeleteByInspection,
		"external_areas":        s.externalAreas.DeleteByInspection,
		"keys":                  s.keys.DeleteByInspection,
		"meters":                s.meters.DeleteByInspection,
		"keys_meters_checklist": s.checklist.DeleteByInspection,
	}

	var wg sync.WaitGroup
	for table, del := range children {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := del(ctx, id)
			if err != nil {
				s.logger.Error("child delete failed", "inspection_id", id, "table", table, "error", err)
				return
			}
			s.logger.Debug("children deleted", "inspection_id", id, "table", table, "rows", n)
		}()
	}
	wg.Wait()

	if err := s.inspections.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.logger.Info("inspection deleted", "inspection_id", id, "user_id", userID)
	return nil
}

func (s *InspectionService) Summary(ctx context.Context, userID string) (*domain.Summary, error) {
	counts, err := s.inspections.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	all, err := s.inspections.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	recent := all
	if len(recent) > recentInspections {
		recent = recent[:recentInspections]
	}
	return &domain.Summary{Total: total, ByStatus: counts, Recent: recent}, nil
}

// checkTemplate verifies that a referenced template belongs to the user. An
// empty id clears the reference.
func (s *InspectionService) checkTemplate(ctx context.Context, userID string, id *string) (*string, error) {
	if id == nil || *id == "" {
		return nil, nil
	}
	tmpl, err := s.templates.GetOwned(ctx, *id, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check template: %w", err)
	}
	if tmpl == nil {
		return nil, &domain.ValidationError{Errors: []domain.FieldError{
			{Field: "template_id", Message: "Template not found"},
		}}
	}
	return id, nil
}
