package store

import (
	"context"
	"fmt"

	"github.com/geohome/geohome/internal/db"
	"github.com/geohome/geohome/internal/domain"
)

const meterColumns = `m.id, m.inspection_id, m.meter_type, m.meter_number, m.current_reading, m.condition,
	m.seal_intact, m.photos, m.observations, m.leaks, m.meter_display_type, m.breakers_working,
	m.leak_test_done, m.safety_valve_working, m.created_at, m.updated_at`

type MeterStore struct {
	db *db.DB
}

func NewMeterStore(d *db.DB) *MeterStore {
	return &MeterStore{db: d}
}

func (s *MeterStore) Create(ctx context.Context, m *domain.Meter) (*domain.Meter, error) {
	photos, err := photosJSON(m.Photos)
	if err != nil {
		return nil, storeErr("encode meter photos", err)
	}

	id := newID()
	ts := now()
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO meters (id, inspection_id, meter_type, meter_number, current_reading, condition,
			seal_intact, photos, observations, leaks, meter_display_type, breakers_working,
			leak_test_done, safety_valve_working, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), id, m.InspectionID, m.MeterType, m.MeterNumber, m.CurrentReading, m.Condition,
		m.SealIntact, photos, m.Observations, m.Leaks, m.MeterDisplayType, m.BreakersWorking,
		m.LeakTestDone, m.SafetyValveWorking, ts, ts)
	if err != nil {
		return nil, storeErr("create meter", err)
	}

	return s.GetByID(ctx, id)
}

func (s *MeterStore) GetByID(ctx context.Context, id string) (*domain.Meter, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT `+meterColumns+` FROM meters m WHERE m.id = ?
	`), id)

	m, err := scanMeter(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get meter", err)
	}
	return m, nil
}

// GetOwned returns the meter only when its inspection belongs to userID.
func (s *MeterStore) GetOwned(ctx context.Context, id, userID string) (*domain.Meter, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT `+meterColumns+` FROM meters m
		JOIN inspections i ON i.id = m.inspection_id
		WHERE m.id = ? AND i.user_id = ?
	`), id, userID)

	m, err := scanMeter(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get meter", err)
	}
	return m, nil
}

func (s *MeterStore) ListByInspection(ctx context.Context, inspectionID string) ([]*domain.Meter, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT `+meterColumns+` FROM meters m WHERE m.inspection_id = ? ORDER BY m.meter_type ASC, m.created_at ASC
	`), inspectionID)
	if err != nil {
		return nil, storeErr("list meters", err)
	}
	defer rows.Close()

	meters := []*domain.Meter{}
	for rows.Next() {
		m, err := scanMeter(rows)
		if err != nil {
			return nil, storeErr("scan meter", err)
		}
		meters = append(meters, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate meters", err)
	}
	return meters, nil
}

func (s *MeterStore) Update(ctx context.Context, m *domain.Meter) (*domain.Meter, error) {
	photos, err := photosJSON(m.Photos)
	if err != nil {
		return nil, storeErr("encode meter photos", err)
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE meters SET meter_type = ?, meter_number = ?, current_reading = ?, condition = ?,
			seal_intact = ?, photos = ?, observations = ?, leaks = ?, meter_display_type = ?,
			breakers_working = ?, leak_test_done = ?, safety_valve_working = ?, updated_at = ?
		WHERE id = ? AND inspection_id = ?
	`), m.MeterType, m.MeterNumber, m.CurrentReading, m.Condition, m.SealIntact, photos,
		m.Observations, m.Leaks, m.MeterDisplayType, m.BreakersWorking, m.LeakTestDone,
		m.SafetyValveWorking, now(), m.ID, m.InspectionID)
	if err != nil {
		return nil, storeErr("update meter", err)
	}
	if err := affectedOne(res, "update meter"); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, m.ID)
}

func (s *MeterStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM meters WHERE id = ?`), id)
	if err != nil {
		return storeErr("delete meter", err)
	}
	return affectedOne(res, "delete meter")
}

func (s *MeterStore) DeleteByInspection(ctx context.Context, inspectionID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM meters WHERE inspection_id = ?`), inspectionID)
	if err != nil {
		return 0, storeErr("delete meters", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("delete meters", err)
	}
	return n, nil
}

func scanMeter(sc scanner) (*domain.Meter, error) {
	m := &domain.Meter{}
	var photos string
	err := sc.Scan(&m.ID, &m.InspectionID, &m.MeterType, &m.MeterNumber, &m.CurrentReading, &m.Condition,
		&m.SealIntact, &photos, &m.Observations, &m.Leaks, &m.MeterDisplayType, &m.BreakersWorking,
		&m.LeakTestDone, &m.SafetyValveWorking, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := fromJSON(photos, &m.Photos); err != nil {
		return nil, fmt.Errorf("decode photos: %w", err)
	}
	return m, nil
}
