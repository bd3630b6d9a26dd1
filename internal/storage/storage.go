// Package storage defines the Storage interface, the Record Store
// contract that every database backend must satisfy.
//
// The locator and the HTTP layer depend only on this interface, so the
// backend (SQLite, MySQL, PostgreSQL) is picked once in main.go and tests
// can pass a fake.
package storage

import (
	"context"

	"github.com/aanand-mishra/schools-api/internal/types"
)

// Storage is the Record Store contract.
// Implementations must be safe for concurrent use.
type Storage interface {
	// CreateSchool inserts one school and returns it with the ID and
	// creation timestamp assigned by the store. The insert is a single
	// statement: either the row exists afterwards or it does not.
	CreateSchool(ctx context.Context, name, address string, latitude, longitude float64) (types.School, error)

	// GetSchools returns every stored school ordered by ID.
	// Returns an empty slice (not nil) when the store is empty.
	GetSchools(ctx context.Context) ([]types.School, error)

	// Close releases the connection pool.
	Close() error
}

// Failure is the StorageFailure error kind: the persistence layer could
// not complete an operation (connection loss, timeout, engine constraint).
//
// Op and Err are for logs. Callers outside the core only learn that the
// operation failed.
type Failure struct {
	Op  string
	Err error
}

func (f *Failure) Error() string {
	return "storage: " + f.Op + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error {
	return f.Err
}
