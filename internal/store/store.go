// Package store persists inspections and their child records. Every method
// issues a single statement; ownership checks are expressed as part of the
// WHERE clause rather than as a separate lookup.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/geohome/geohome/internal/domain"
)

func storeErr(op string, err error) error {
	return &domain.StoreError{Op: op, Err: err}
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func fromJSON(s string, v any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), v)
}

// photosJSON encodes a photo list, storing nil as an empty array.
func photosJSON(photos []string) (string, error) {
	if photos == nil {
		photos = []string{}
	}
	return toJSON(photos)
}

// affectedOne turns a zero-row write into domain.ErrNotFound.
func affectedOne(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr(op, fmt.Errorf("rows affected: %w", err))
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isUniqueViolation reports a UNIQUE constraint failure from either driver.
func isUniqueViolation(err error) bool {
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
