// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// SQLite keeps everything in a single file, so it is the default backend
// for local development and the one the tests run against.
//
// The blank import below registers the "sqlite3" driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aanand-mishra/schools-api/internal/config"
	"github.com/aanand-mishra/schools-api/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// Db is a connection pool managed by database/sql and is safe for
// concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

const createSchoolsTable = `
	CREATE TABLE IF NOT EXISTS schools (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT      NOT NULL CHECK (length(name) BETWEEN 1 AND 255),
		address    TEXT      NOT NULL CHECK (length(address) BETWEEN 1 AND 500),
		latitude   REAL      NOT NULL CHECK (latitude BETWEEN -90 AND 90),
		longitude  REAL      NOT NULL CHECK (longitude BETWEEN -180 AND 180),
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

// New opens the SQLite database at cfg.Path, creates the schools table if
// it does not already exist, and returns a ready-to-use *SQLite.
//
// The file is opened in WAL mode with a busy timeout equal to
// cfg.ConnectTimeout, so concurrent writers queue for the write lock
// instead of failing with "database is locked".
func New(cfg config.Storage) (*SQLite, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL",
		cfg.Path, cfg.ConnectTimeout.Milliseconds())

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	db.SetMaxOpenConns(cfg.PoolSize)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, createSchoolsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// CreateSchool inserts a new row into the schools table.
//
// Values are passed through ? placeholders, never concatenated into the
// SQL, so user-supplied names cannot alter the statement.
func (s *SQLite) CreateSchool(ctx context.Context, name, address string, latitude, longitude float64) (types.School, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"INSERT INTO schools (name, address, latitude, longitude, created_at) VALUES (?, ?, ?, ?, ?)",
	)
	if err != nil {
		return types.School{}, fmt.Errorf("CreateSchool: prepare: %w", err)
	}
	defer stmt.Close()

	createdAt := time.Now().UTC().Truncate(time.Second)

	result, err := stmt.ExecContext(ctx, name, address, latitude, longitude, createdAt)
	if err != nil {
		return types.School{}, fmt.Errorf("CreateSchool: exec: %w", err)
	}

	// LastInsertId returns the AUTOINCREMENT key of the new row. SQLite
	// never hands out the same AUTOINCREMENT value twice.
	id, err := result.LastInsertId()
	if err != nil {
		return types.School{}, fmt.Errorf("CreateSchool: last insert id: %w", err)
	}

	return types.School{
		ID:        id,
		Name:      name,
		Address:   address,
		Latitude:  latitude,
		Longitude: longitude,
		CreatedAt: createdAt,
	}, nil
}

// GetSchools returns all school rows ordered by id.
func (s *SQLite) GetSchools(ctx context.Context) ([]types.School, error) {
	stmt, err := s.Db.PrepareContext(ctx,
		"SELECT id, name, address, latitude, longitude, created_at FROM schools ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("GetSchools: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetSchools: query: %w", err)
	}
	defer rows.Close()

	schools := make([]types.School, 0)

	for rows.Next() {
		var school types.School

		if err := rows.Scan(
			&school.ID,
			&school.Name,
			&school.Address,
			&school.Latitude,
			&school.Longitude,
			&school.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("GetSchools: scan row: %w", err)
		}

		schools = append(schools, school)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetSchools: rows iteration: %w", err)
	}

	return schools, nil
}

// Close closes the underlying connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}
