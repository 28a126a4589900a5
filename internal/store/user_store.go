package store

import (
	"context"
	"strings"
	"time"

	"github.com/geohome/geohome/internal/db"
	"github.com/geohome/geohome/internal/domain"
)

// UserRecord is a local account row including its password hash.
type UserRecord struct {
	domain.User
	PasswordHash string
}

type UserStore struct {
	db *db.DB
}

func NewUserStore(d *db.DB) *UserStore {
	return &UserStore{db: d}
}

// Create inserts a user. A duplicate email returns domain.ErrConflict, also
// when a concurrent insert wins between the lookup and the write.
func (s *UserStore) Create(ctx context.Context, email, name, passwordHash string) (*UserRecord, error) {
	existing, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}

	id := newID()
	ts := now()
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), id, normalizeEmail(email), name, passwordHash, ts, ts)
	if isUniqueViolation(err) {
		return nil, domain.ErrConflict
	}
	if err != nil {
		return nil, storeErr("create user", err)
	}

	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*UserRecord, error) {
	return s.getBy(ctx, "id", id)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*UserRecord, error) {
	return s.getBy(ctx, "email", normalizeEmail(email))
}

func (s *UserStore) getBy(ctx context.Context, column, value string) (*UserRecord, error) {
	u := &UserRecord{}
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT id, email, name, password_hash, created_at FROM users WHERE `+column+` = ?
	`), value).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if isNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get user", err)
	}
	return u, nil
}

func (s *UserStore) UpdateName(ctx context.Context, id, name string) (*UserRecord, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		UPDATE users SET name = ?, updated_at = ? WHERE id = ?
	`), name, now(), id)
	if err != nil {
		return nil, storeErr("update user", err)
	}
	if err := affectedOne(res, "update user"); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RevokedTokenStore struct {
	db *db.DB
}

func NewRevokedTokenStore(d *db.DB) *RevokedTokenStore {
	return &RevokedTokenStore{db: d}
}

// Revoke records jti as unusable. Revoking twice is not an error.
func (s *RevokedTokenStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	revoked, err := s.IsRevoked(ctx, jti)
	if err != nil {
		return err
	}
	if revoked {
		return nil
	}
	_, err = s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)
	`), jti, expiresAt.UTC())
	if err != nil {
		return storeErr("revoke token", err)
	}
	return nil
}

func (s *RevokedTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.db.Rebind(`
		SELECT COUNT(*) FROM revoked_tokens WHERE jti = ?
	`), jti).Scan(&n)
	if err != nil {
		return false, storeErr("check revoked token", err)
	}
	return n > 0, nil
}

// PurgeExpired drops revocations whose tokens would have expired anyway.
func (s *RevokedTokenStore) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`
		DELETE FROM revoked_tokens WHERE expires_at < ?
	`), before.UTC())
	if err != nil {
		return 0, storeErr("purge revoked tokens", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("purge revoked tokens", err)
	}
	return n, nil
}
