package db

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/geohome/geohome/internal/db/migrations"
)

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// DB is a *sql.DB that knows which placeholder style its driver expects.
// Stores write queries with '?' and pass them through Rebind.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the database for driver ("sqlite" or "postgres"), pings
// it and applies pending migrations. For sqlite, dsn is a file path.
func Open(driver, dsn string) (*DB, error) {
	d, err := connect(Dialect(driver), dsn)
	if err != nil {
		return nil, err
	}

	if err := migrations.Up(d.DB, string(d.Dialect)); err != nil {
		if cerr := d.Close(); cerr != nil {
			return nil, fmt.Errorf("failed to run migrations: %w (also failed to close db: %v)", err, cerr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return d, nil
}

// OpenUnmigrated connects without touching the schema. The migrate CLI uses
// it to report status.
func OpenUnmigrated(driver, dsn string) (*DB, error) {
	return connect(Dialect(driver), dsn)
}

// OpenForTesting returns a private in-memory SQLite database with the full
// schema applied.
func OpenForTesting() (*DB, error) {
	d, err := connect(DialectSQLite, ":memory:")
	if err != nil {
		return nil, err
	}
	if err := migrations.Up(d.DB, string(d.Dialect)); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return d, nil
}

func connect(dialect Dialect, dsn string) (*DB, error) {
	var (
		sqlDB *sql.DB
		err   error
	)
	switch dialect {
	case DialectSQLite:
		sqlDB, err = sql.Open("sqlite", sqliteDSN(dsn))
		if err == nil {
			// One connection keeps ":memory:" databases alive and serializes
			// writers, which SQLite needs anyway.
			sqlDB.SetMaxOpenConns(1)
		}
	case DialectPostgres:
		sqlDB, err = sql.Open("pgx", dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: sqlDB, Dialect: dialect}, nil
}

func sqliteDSN(path string) string {
	pragmas := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path == ":memory:" {
		return "file::memory:?" + pragmas
	}
	return fmt.Sprintf("file:%s?mode=rwc&%s&_pragma=journal_mode(WAL)", path, pragmas)
}

// Rebind rewrites '?' placeholders to '$1', '$2', ... for Postgres and
// returns the query unchanged for SQLite.
func (d *DB) Rebind(query string) string {
	if d.Dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
