// Package postgres provides a PostgreSQL-backed implementation of the
// storage.Storage interface using a pgx connection pool.
package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/aanand-mishra/schools-api/internal/config"
	"github.com/aanand-mishra/schools-api/internal/types"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPort = 5432

const createSchoolsTable = `CREATE TABLE IF NOT EXISTS schools (
	id         BIGSERIAL PRIMARY KEY,
	name       VARCHAR(255)  NOT NULL,
	address    VARCHAR(500)  NOT NULL,
	latitude   NUMERIC(9,6)  NOT NULL CHECK (latitude BETWEEN -90 AND 90),
	longitude  NUMERIC(9,6)  NOT NULL CHECK (longitude BETWEEN -180 AND 180),
	created_at TIMESTAMPTZ   NOT NULL DEFAULT now()
);`

// Postgres implements storage.Storage. Acquiring a pooled connection
// honours the context deadline, so a saturated pool fails instead of
// blocking forever.
type Postgres struct {
	conn *pgxpool.Pool
}

// ConnString builds a postgres:// URL for cfg.
func ConnString(cfg config.Storage) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:   "/" + cfg.Name,
	}

	return u.String()
}

// New opens a pgx pool sized by cfg.PoolSize and creates the schools
// table if it does not already exist.
func New(cfg config.Storage) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(ConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("postgres.New: parse config: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.PoolSize)
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	conn, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres.New: open pool: %w", err)
	}

	if _, err := conn.Exec(ctx, createSchoolsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("postgres.New: create table: %w", err)
	}

	return &Postgres{conn: conn}, nil
}

// CreateSchool inserts one school and returns it as the table stores it,
// with coordinates at the column scale.
func (p *Postgres) CreateSchool(ctx context.Context, name, address string, latitude, longitude float64) (types.School, error) {
	school := types.School{
		Name:    name,
		Address: address,
	}

	// NUMERIC(9,6) rounds the coordinates, so read back what was stored.
	row := p.conn.QueryRow(ctx,
		`INSERT INTO schools (name, address, latitude, longitude) VALUES ($1, $2, $3, $4)
		 RETURNING id, latitude::float8, longitude::float8, created_at`,
		name, address, latitude, longitude,
	)
	if err := row.Scan(&school.ID, &school.Latitude, &school.Longitude, &school.CreatedAt); err != nil {
		return types.School{}, fmt.Errorf("CreateSchool: insert: %w", err)
	}

	school.CreatedAt = school.CreatedAt.UTC()

	return school, nil
}

// GetSchools returns every school ordered by id.
func (p *Postgres) GetSchools(ctx context.Context) ([]types.School, error) {
	rows, err := p.conn.Query(ctx,
		"SELECT id, name, address, latitude::float8, longitude::float8, created_at FROM schools ORDER BY id",
	)
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

		school.CreatedAt = school.CreatedAt.UTC()
		schools = append(schools, school)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetSchools: rows iteration: %w", err)
	}

	return schools, nil
}

// Close closes every connection in the pool.
func (p *Postgres) Close() error {
	p.conn.Close()
	return nil
}
