package store

import (
	"context"
	"fmt"

	"github.com/geohome/geohome/internal/db"
	"github.com/geohome/geohome/internal/domain"
)

const keyColumns = `k.id, k.inspection_id, k.room_name, k.key_count, k.clearly_identified, k.condition,
	k.tested, k.photos, k.observations, k.created_at, k.updated_at`

type KeyStore struct {
	db *db.DB
}

func NewKeyStore(d *db.DB) *KeyStore {
	return &KeyStore{db: d}
}

func (s *KeyStore) Create(ctx context.Context, k *domain.Key) (*domain.Key, error) {
	photos, err := photosJSON(k.Photos)
	if err != nil {
		return nil, storeErr("encode key photos", err)
	}

	id := newID()
	ts := now()
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO keys (id, inspection_id, room_name, key_count, clearly_identified, condition,
			tested, photos, observations, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), id, k.InspectionID, k.RoomName, k.KeyCount, k.ClearlyIdentified, k.Condition,
		k.Tested, photos, k.Observations, ts, ts)
	if err != nil {
		return nil, storeErr("create key", err)
	}

	return s.GetByID(ctx, id)
}

func (s *KeyStore) GetByID(ctx context.Context, id string) (*domain.Key, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT `+keyColumns+` FROM keys k WHERE k.id = ?
	`), id)

	k, err := scanKey(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get key", err)
	}
	return k, nil
}

// GetOwned returns the key only when its inspection belongs to userID.
func (s *KeyStore) GetOwned(ctx context.Context, id, userID string) (*domain.Key, error) {
	row := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT `+keyColumns+` FROM keys k
		JOIN inspections i ON i.id = k.inspection_id
		WHERE k.id = ? AND i.user_id = ?
	`), id, userID)

	k, err := scanKey(row)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get key", err)
	}
	return k, nil
}

func (s *KeyStore) ListByInspection(ctx context.Context, inspectionID string) ([]*domain.Key, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(`
		SELECT `+keyColumns+` FROM keys k WHERE k.inspection_id = ? ORDER BY k.created_at ASC
	`), inspectionID)
	if err != nil {
		return nil, storeErr("list keys", err)
	}
	defer rows.Close()

	keys := []*domain.Key{}
	for rows.Next() {
		k, err := scanKey(rows)
		if err != nil {
			return nil, storeErr("scan key", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate keys", err)
	}
	return keys, nil
}

func (s *KeyStore) Update(ctx context.Context, k *domain.Key) (*domain.Key, error) {
	photos, err := photosJSON(k.Photos)
	if err != nil {
		return nil, storeErr("encode key photos", err)
	}

	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE keys SET room_name = ?, key_count = ?, clearly_identified = ?, condition = ?,
			tested = ?, photos = ?, observations = ?, updated_at = ?
		WHERE id = ? AND inspection_id = ?
	`), k.RoomName, k.KeyCount, k.ClearlyIdentified, k.Condition, k.Tested, photos,
		k.Observations, now(), k.ID, k.InspectionID)
	if err != nil {
		return nil, storeErr("update key", err)
	}
	if err := affectedOne(res, "update key"); err != nil {
		return nil, err
	}

	return s.GetByID(ctx, k.ID)
}

func (s *KeyStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM keys WHERE id = ?`), id)
	if err != nil {
		return storeErr("delete key", err)
	}
	return affectedOne(res, "delete key")
}

func (s *KeyStore) DeleteByInspection(ctx context.Context, inspectionID string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM keys WHERE inspection_id = ?`), inspectionID)
	if err != nil {
		return 0, storeErr("delete keys", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("delete keys", err)
	}
	return n, nil
}

func scanKey(sc scanner) (*domain.Key, error) {
	k := &domain.Key{}
	var photos string
	err := sc.Scan(&k.ID, &k.InspectionID, &k.RoomName, &k.KeyCount, &k.ClearlyIdentified, &k.Condition,
		&k.Tested, &photos, &k.Observations, &k.CreatedAt, &k.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := fromJSON(photos, &k.Photos); err != nil {
		return nil, fmt.Errorf("decode photos: %w", err)
	}
	return k, nil
}
