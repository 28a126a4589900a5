package store

import (
	"context"

	"github.com/geohome/geohome/internal/db"
	"github.com/geohome/geohome/internal/domain"
)

const checklistColumns = `id, inspection_id, checklist_type, item_label, is_checked, observations,
	created_at, updated_at`

type ChecklistStore struct {
	db *db.DB
}

func NewChecklistStore(d *db.DB) *ChecklistStore {
	return &ChecklistStore{db: d}
}

func (s *ChecklistStore) Insert(ctx context.Context, item *domain.ChecklistItem) (*domain.ChecklistItem, error) {
	id := newID()
	ts := now()
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO keys_meters_checklist (id, inspection_id, checklist_type, item_label, is_checked,
			observations, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), id, item.InspectionID, item.ChecklistType, item.ItemLabel, item.IsChecked, item.Observations, ts, ts)
	if err != nil {
		return nil, storeErr("insert checklist item", err)
	}

	out := *item
	out.ID = id
	out.CreatedAt, out.UpdatedAt = ts, ts
	return &out, nil
}

// UpdateScoped sets the checked flag and observations of item id, but only
// if it belongs to inspectionID. Zero matching rows yields domain.ErrNotFound.
func (s *ChecklistStore) UpdateScoped(ctx context.Context, id, inspectionID string, checked bool, observations string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE keys_meters_checklist SET is_checked = ?, observations = ?, updated_at = ?
		WHERE id = ? AND inspection_id = ?
	`), checked, observations, now(), id, inspectionID)
	if err != nil {
		return storeErr("update checklist item", err)
	}
	return affectedOne(res, "update checklist item")
}

// ListByInspection returns the checklist ordered by type, then insertion.
func (s *ChecklistStore) ListByInspection(ctx context.Context, inspectionID string) ([]*domain.ChecklistItem, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT `+checklistColumns+` FROM keys_meters_checklist
		WHERE inspection_id = ? ORDER BY checklist_type ASC, created_at ASC
	`), inspectionID)
	if err != nil {
		return nil, storeErr("list checklist", err)
	}
	defer rows.Close()

	items := []*domain.ChecklistItem{}
	for rows.Next() {
		item := &domain.ChecklistItem{}
		if err := rows.Scan(&item.ID, &item.InspectionID, &item.ChecklistType, &item.ItemLabel,
			&item.IsChecked, &item.Observations, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, storeErr("scan checklist item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate checklist", err)
	}
	return items, nil
}

func (s *ChecklistStore) DeleteByInspection(ctx context.Context, inspectionID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM keys_meters_checklist WHERE inspection_id = ?
	`), inspectionID)
	if err != nil {
		return 0, storeErr("delete checklist", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("delete checklist", err)
	}
	return n, nil
}
