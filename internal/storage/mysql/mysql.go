// Package mysql provides a MySQL-backed implementation of the
// storage.Storage interface on top of database/sql and go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"net"
	"strconv"
	"time"

	"github.com/aanand-mishra/schools-api/internal/config"
	"github.com/aanand-mishra/schools-api/internal/types"
	"github.com/go-sql-driver/mysql"
)

const defaultPort = 3306

// coordinateScale is the number of decimal places the DECIMAL(9,6)
// coordinate columns keep.
const coordinateScale = 6

const createSchoolsTable = `
	CREATE TABLE IF NOT EXISTS schools (
		id         INT AUTO_INCREMENT PRIMARY KEY,
		name       VARCHAR(255)  NOT NULL,
		address    VARCHAR(500)  NOT NULL,
		latitude   DECIMAL(9,6)  NOT NULL,
		longitude  DECIMAL(9,6)  NOT NULL,
		created_at TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT chk_schools_latitude  CHECK (latitude BETWEEN -90 AND 90),
		CONSTRAINT chk_schools_longitude CHECK (longitude BETWEEN -180 AND 180)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

// MySQL implements storage.Storage. InnoDB makes every single-row insert
// atomic, and readers under the default isolation level never see a row
// before its insert commits.
type MySQL struct {
	Db *sql.DB
}

// DSN builds the driver data source name for cfg. Timestamps are parsed
// into time.Time and the session runs in UTC.
func DSN(cfg config.Storage) string {
	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}

	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Timeout = cfg.ConnectTimeout
	mc.Params = map[string]string{"time_zone": "'+00:00'"}

	return mc.FormatDSN()
}

// New connects to MySQL, sizes the pool from cfg.PoolSize and creates the
// schools table if it does not already exist.
func New(cfg config.Storage) (*MySQL, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("mysql.New: open db: %w", err)
	}

	db.SetMaxOpenConns(cfg.PoolSize)
	db.SetMaxIdleConns(cfg.PoolSize)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql.New: ping: %w", err)
	}

	if _, err := db.ExecContext(ctx, createSchoolsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql.New: create table: %w", err)
	}

	return &MySQL{Db: db}, nil
}

// roundDecimal rounds v half away from zero to coordinateScale places,
// the same way MySQL rounds a double into a DECIMAL column.
func roundDecimal(v float64) float64 {
	scale := math.Pow10(coordinateScale)
	return math.Round(v*scale) / scale
}

// CreateSchool inserts one school and returns it as a later GetSchools
// would read it back: coordinates rounded to the column scale and the
// timestamp truncated to the second.
func (m *MySQL) CreateSchool(ctx context.Context, name, address string, latitude, longitude float64) (types.School, error) {
	createdAt := time.Now().UTC().Truncate(time.Second)
	latitude, longitude = roundDecimal(latitude), roundDecimal(longitude)

	result, err := m.Db.ExecContext(ctx,
		"INSERT INTO schools (name, address, latitude, longitude, created_at) VALUES (?, ?, ?, ?, ?)",
		name, address, latitude, longitude, createdAt,
	)
	if err != nil {
		return types.School{}, fmt.Errorf("CreateSchool: exec: %w", err)
	}

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

// GetSchools returns every school ordered by id.
func (m *MySQL) GetSchools(ctx context.Context) ([]types.School, error) {
	rows, err := m.Db.QueryContext(ctx,
		"SELECT id, name, address, latitude, longitude, created_at FROM schools ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("GetSchools: query: %w", err)
	}
	defer rows.Close()

	schools := make([]types.School, 0)

	for rows.Next() {
		var school types.School

		// DECIMAL columns arrive as text and database/sql converts them
		// to float64.
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

// Close closes the connection pool.
func (m *MySQL) Close() error {
	return m.Db.Close()
}
