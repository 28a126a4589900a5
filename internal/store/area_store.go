package store

import (
	"context"
	"fmt"

	"github.com/geohome/geohome/internal/db"
	"github.com/geohome/geohome/internal/domain"
)

// AreaTable names one of the two tables sharing the area shape.
type AreaTable string

const (
	RoomsTable         AreaTable = "rooms"
	ExternalAreasTable AreaTable = "external_areas"
)

const areaColumns = `a.id, a.inspection_id, a.name, a.type, a.condition, a.items, a.notes, a.photos,
	a.created_at, a.updated_at`

// AreaStore serves rooms and external areas; the table is fixed at
// construction.
type AreaStore struct {
	db    *db.DB
	table AreaTable
}

func NewAreaStore(d *db.DB, table AreaTable) *AreaStore {
	return &AreaStore{db: d, table: table}
}

func (s *AreaStore) Table() AreaTable {
	return s.table
}

func (s *AreaStore) Create(ctx context.Context, a *domain.Area) (*domain.Area, error) {
	items, photos, err := encodeArea(a)
	if err != nil {
		return nil, storeErr("encode area", err)
	}

	id := newID()
	ts := now()
	_, err = s.db.ExecContext(ctx, s.db.Rebind(fmt.Sprintf(`
		INSERT INTO %s (id, inspection_id, name, type, condition, items, notes, photos, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, s.table)), id, a.InspectionID, a.Name, a.Type, a.Condition, items, a.Notes, photos, ts, ts)
	if err != nil {
		return nil, storeErr("create "+s.singular(), err)
	}

	return s.GetByID(ctx, id)
}

func (s *AreaStore) GetByID(ctx context.Context, id string) (*domain.Area, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(fmt.Sprintf(`
		SELECT %s FROM %s a WHERE a.id = ?
	`, areaColumns, s.table)), id)

	area, err := scanArea(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get "+s.singular(), err)
	}
	return area, nil
}

// GetOwned returns the area only when its parent inspection belongs to
// userID.
func (s *AreaStore) GetOwned(ctx context.Context, id, userID string) (*domain.Area, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(fmt.Sprintf(`
		SELECT %s FROM %s a
		JOIN inspections i ON i.id = a.inspection_id
		WHERE a.id = ? AND i.user_id = ?
	`, areaColumns, s.table)), id, userID)

	area, err := scanArea(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get "+s.singular(), err)
	}
	return area, nil
}

func (s *AreaStore) ListByInspection(ctx context.Context, inspectionID string) ([]*domain.Area, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(fmt.Sprintf(`
		SELECT %s FROM %s a WHERE a.inspection_id = ? ORDER BY a.created_at ASC
	`, areaColumns, s.table)), inspectionID)
	if err != nil {
		return nil, storeErr("list "+string(s.table), err)
	}
	defer rows.Close()

	areas := []*domain.Area{}
	for rows.Next() {
		area, err := scanArea(rows)
		if err != nil {
			return nil, storeErr("scan "+s.singular(), err)
		}
		areas = append(areas, area)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate "+string(s.table), err)
	}
	return areas, nil
}

// Update rewrites an area in place. The row must still belong to
// a.InspectionID.
func (s *AreaStore) Update(ctx context.Context, a *domain.Area) (*domain.Area, error) {
	items, photos, err := encodeArea(a)
	if err != nil {
		return nil, storeErr("encode area", err)
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(fmt.Sprintf(`
		UPDATE %s SET name = ?, type = ?, condition = ?, items = ?, notes = ?, photos = ?, updated_at = ?
		WHERE id = ? AND inspection_id = ?
	`, s.table)), a.Name, a.Type, a.Condition, items, a.Notes, photos, now(), a.ID, a.InspectionID)
	if err != nil {
		return nil, storeErr("update "+s.singular(), err)
	}
	if err := affectedOne(res, "update "+s.singular()); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, a.ID)
}

func (s *AreaStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(fmt.Sprintf(`
		DELETE FROM %s WHERE id = ?
	`, s.table)), id)
	if err != nil {
		return storeErr("delete "+s.singular(), err)
	}
	return affectedOne(res, "delete "+s.singular())
}

// DeleteByInspection removes every area of the inspection and reports how
// many rows went away.
func (s *AreaStore) DeleteByInspection(ctx context.Context, inspectionID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(fmt.Sprintf(`
		DELETE FROM %s WHERE inspection_id = ?
	`, s.table)), inspectionID)
	if err != nil {
		return 0, storeErr("delete "+string(s.table), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("delete "+string(s.table), err)
	}
	return n, nil
}

func (s *AreaStore) singular() string {
	if s.table == RoomsTable {
		return "room"
	}
	return "external area"
}

func encodeArea(a *domain.Area) (items, photos string, err error) {
	list := a.Items
	if list == nil {
		list = []domain.AreaItem{}
	}
	if items, err = toJSON(list); err != nil {
		return "", "", err
	}
	if photos, err = photosJSON(a.Photos); err != nil {
		return "", "", err
	}
	return items, photos, nil
}

func scanArea(sc scanner) (*domain.Area, error) {
	a := &domain.Area{}
	var items, photos string
	err := sc.Scan(&a.ID, &a.InspectionID, &a.Name, &a.Type, &a.Condition, &items, &a.Notes, &photos,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := fromJSON(items, &a.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if err := fromJSON(photos, &a.Photos); err != nil {
		return nil, fmt.Errorf("decode photos: %w", err)
	}
	return a, nil
}
