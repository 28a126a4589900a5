package store

import (
	"context"
	"fmt"

	"github.com/geohome/geohome/internal/db"
	"github.com/geohome/geohome/internal/domain"
)

const inspectionColumns = `id, user_id, protocol, property_data, structural_conditions,
	installations, inspector_data, template_id, notes, status, created_at, updated_at`

type InspectionStore struct {
	db *db.DB
}

func NewInspectionStore(d *db.DB) *InspectionStore {
	return &InspectionStore{db: d}
}

type inspectionBlobs struct {
	property, structural, installations, inspector string
}

func encodeInspection(in *domain.Inspection) (inspectionBlobs, error) {
	var b inspectionBlobs
	var err error
	if b.property, err = toJSON(in.PropertyData); err != nil {
		return b, err
	}
	if b.structural, err = toJSON(in.StructuralConditions); err != nil {
		return b, err
	}
	if b.installations, err = toJSON(in.Installations); err != nil {
		return b, err
	}
	if b.inspector, err = toJSON(in.InspectorData); err != nil {
		return b, err
	}
	return b, nil
}

// Create stores in under a fresh id. UserID, Protocol and Status must be set.
func (s *InspectionStore) Create(ctx context.Context, in *domain.Inspection) (*domain.Inspection, error) {
	blobs, err := encodeInspection(in)
	if err != nil {
		return nil, storeErr("encode inspection", err)
	}

	id := newID()
	ts := now()
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO inspections (id, user_id, protocol, property_data, structural_conditions,
			installations, inspector_data, template_id, notes, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), id, in.UserID, in.Protocol, blobs.property, blobs.structural, blobs.installations,
		blobs.inspector, in.TemplateID, in.Notes, in.Status, ts, ts)
	if err != nil {
		return nil, storeErr("create inspection", err)
	}

	return s.GetOwned(ctx, id, in.UserID)
}

// GetOwned returns the inspection only if userID owns it. A missing
// inspection and a foreign one both yield nil, nil.
func (s *InspectionStore) GetOwned(ctx context.Context, id, userID string) (*domain.Inspection, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT `+inspectionColumns+` FROM inspections WHERE id = ? AND user_id = ?
	`), id, userID)

	insp, err := scanInspection(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get inspection", err)
	}
	return insp, nil
}

// ListByUser returns the user's inspections, newest first.
func (s *InspectionStore) ListByUser(ctx context.Context, userID string) ([]*domain.Inspection, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT `+inspectionColumns+` FROM inspections WHERE user_id = ? ORDER BY created_at DESC
	`), userID)
	if err != nil {
		return nil, storeErr("list inspections", err)
	}
	defer rows.Close()

	inspections := []*domain.Inspection{}
	for rows.Next() {
		insp, err := scanInspection(rows)
		if err != nil {
			return nil, storeErr("scan inspection", err)
		}
		inspections = append(inspections, insp)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate inspections", err)
	}
	return inspections, nil
}

// Update overwrites the editable fields of an owned inspection.
func (s *InspectionStore) Update(ctx context.Context, in *domain.Inspection) (*domain.Inspection, error) {
	blobs, err := encodeInspection(in)
	if err != nil {
		return nil, storeErr("encode inspection", err)
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE inspections SET property_data = ?, structural_conditions = ?, installations = ?,
			inspector_data = ?, template_id = ?, notes = ?, status = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`), blobs.property, blobs.structural, blobs.installations, blobs.inspector,
		in.TemplateID, in.Notes, in.Status, now(), in.ID, in.UserID)
	if err != nil {
		return nil, storeErr("update inspection", err)
	}
	if err := affectedOne(res, "update inspection"); err != nil {
		return nil, err
	}

	return s.GetOwned(ctx, in.ID, in.UserID)
}

func (s *InspectionStore) SetStatus(ctx context.Context, id, userID string, status domain.InspectionStatus) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE inspections SET status = ?, updated_at = ? WHERE id = ? AND user_id = ?
	`), status, now(), id, userID)
	if err != nil {
		return storeErr("update inspection status", err)
	}
	return affectedOne(res, "update inspection status")
}

func (s *InspectionStore) Delete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM inspections WHERE id = ? AND user_id = ?
	`), id, userID)
	if err != nil {
		return storeErr("delete inspection", err)
	}
	return affectedOne(res, "delete inspection")
}

func (s *InspectionStore) CountByStatus(ctx context.Context, userID string) (map[domain.InspectionStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT status, COUNT(*) FROM inspections WHERE user_id = ? GROUP BY status
	`), userID)
	if err != nil {
		return nil, storeErr("count inspections", err)
	}
	defer rows.Close()

	counts := map[domain.InspectionStatus]int{
		domain.StatusDraft:      0,
		domain.StatusInProgress: 0,
		domain.StatusCompleted:  0,
	}
	for rows.Next() {
		var status domain.InspectionStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, storeErr("scan inspection count", err)
		}
		counts[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate inspection counts", err)
	}
	return counts, nil
}

func scanInspection(sc scanner) (*domain.Inspection, error) {
	insp := &domain.Inspection{}
	var blobs inspectionBlobs
	err := sc.Scan(&insp.ID, &insp.UserID, &insp.Protocol, &blobs.property, &blobs.structural,
		&blobs.installations, &blobs.inspector, &insp.TemplateID, &insp.Notes, &insp.Status,
		&insp.CreatedAt, &insp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := fromJSON(blobs.property, &insp.PropertyData); err != nil {
		return nil, fmt.Errorf("decode property_data: %w", err)
	}
	if err := fromJSON(blobs.structural, &insp.StructuralConditions); err != nil {
		return nil, fmt.Errorf("decode structural_conditions: %w", err)
	}
	if err := fromJSON(blobs.installations, &insp.Installations); err != nil {
		return nil, fmt.Errorf("decode installations: %w", err)
	}
	if err := fromJSON(blobs.inspector, &insp.InspectorData); err != nil {
		return nil, fmt.Errorf("decode inspector_data: %w", err)
	}
	return insp, nil
}
