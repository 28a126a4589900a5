package service

import (
	"context"

	"github.com/geohome/geohome/internal/domain"
)

// The repository interfaces below are the subsets of the store types that
// the services need.

type inspectionRepository interface {
	Create(ctx context.Context, in *domain.Inspection) (*domain.Inspection, error)
	GetOwned(ctx context.Context, id, userID string) (*domain.Inspection, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Inspection, error)
	Update(ctx context.Context, in *domain.Inspection) (*domain.Inspection, error)
	SetStatus(ctx context.Context, id, userID string, status domain.InspectionStatus) error
	Delete(ctx context.Context, id, userID string) error
	CountByStatus(ctx context.Context, userID string) (map[domain.InspectionStatus]int, error)
}

// inspectionOwner is all a child-resource service needs to authorize.
type inspectionOwner interface {
	GetOwned(ctx context.Context, id, userID string) (*domain.Inspection, error)
}

type areaRepository interface {
	Create(ctx context.Context, a *domain.Area) (*domain.Area, error)
	GetOwned(ctx context.Context, id, userID string) (*domain.Area, error)
	ListByInspection(ctx context.Context, inspectionID string) ([]*domain.Area, error)
	Update(ctx context.Context, a *domain.Area) (*domain.Area, error)
	Delete(ctx context.Context, id string) error
	DeleteByInspection(ctx context.Context, inspectionID string) (int64, error)
}

type keyRepository interface {
	Create(ctx context.Context, k *domain.Key) (*domain.Key, error)
	GetOwned(ctx context.Context, id, userID string) (*domain.Key, error)
	ListByInspection(ctx context.Context, inspectionID string) ([]*domain.Key, error)
	Update(ctx context.Context, k *domain.Key) (*domain.Key, error)
	Delete(ctx context.Context, id string) error
	DeleteByInspection(ctx context.Context, inspectionID string) (int64, error)
}

type meterRepository interface {
	Create(ctx context.Context, m *domain.Meter) (*domain.Meter, error)
	GetOwned(ctx context.Context, id, userID string) (*domain.Meter, error)
	ListByInspection(ctx context.Context, inspectionID string) ([]*domain.Meter, error)
	Update(ctx context.Context, m *domain.Meter) (*domain.Meter, error)
	Delete(ctx context.Context, id string) error
	DeleteByInspection(ctx context.Context, inspectionID string) (int64, error)
}

type checklistRepository interface {
	Insert(ctx context.Context, item *domain.ChecklistItem) (*domain.ChecklistItem, error)
	UpdateScoped(ctx context.Context, id, inspectionID string, checked bool, observations string) error
	ListByInspection(ctx context.Context, inspectionID string) ([]*domain.ChecklistItem, error)
	DeleteByInspection(ctx context.Context, inspectionID string) (int64, error)
}

type templateRepository interface {
	Create(ctx context.Context, t *domain.Template) (*domain.Template, error)
	GetOwned(ctx context.Context, id, userID string) (*domain.Template, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Template, error)
	Update(ctx context.Context, t *domain.Template) (*domain.Template, error)
	Delete(ctx context.Context, id, userID string) error
}

// recordLoader loads an owned inspection with all of its children.
type recordLoader interface {
	Get(ctx context.Context, userID, id string) (*domain.InspectionRecord, error)
}

// ownedInspection authorizes a child-resource operation. Missing and foreign
// inspections both come back as domain.ErrNotFound.
func ownedInspection(ctx context.Context, repo inspectionOwner, id, userID string) (*domain.Inspection, error) {
	insp, err := repo.GetOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if insp == nil {
		return nil, domain.ErrNotFound
	}
	return insp, nil
}
