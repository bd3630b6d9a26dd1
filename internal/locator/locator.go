// Package locator is the transport-agnostic core of the service:
// adding schools and finding the schools nearest to a point.
//
// Every operation returns either a result, a *validation.Failure or a
// *storage.Failure. Store errors are logged with their cause here, so the
// layers above can report them generically.
package locator

import (
	"context"
	"log/slog"
	"time"

	"github.com/aanand-mishra/schools-api/internal/geo"
	"github.com/aanand-mishra/schools-api/internal/storage"
	"github.com/aanand-mishra/schools-api/internal/types"
	"github.com/aanand-mishra/schools-api/internal/validation"
)

// Locator composes the Record Store with the ranker.
type Locator struct {
	store   storage.Storage
	timeout time.Duration
	log     *slog.Logger
}

// New returns a Locator over store. Each store call is bounded by timeout;
// a call that cannot get a connection in time fails with *storage.Failure.
func New(store storage.Storage, timeout time.Duration, log *slog.Logger) *Locator {
	if log == nil {
		log = slog.Default()
	}
	return &Locator{store: store, timeout: timeout, log: log}
}

// AddSchool validates in and persists it.
// Nothing is written when validation fails.
func (l *Locator) AddSchool(ctx context.Context, in types.SchoolInput) (types.School, error) {
	school, err := validation.NewSchool(in)
	if err != nil {
		return types.School{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	created, err := l.store.CreateSchool(ctx, school.Name, school.Address, school.Latitude, school.Longitude)
	if err != nil {
		l.log.Error("failed to create school",
			slog.String("name", school.Name),
			slog.String("error", err.Error()))
		return types.School{}, &storage.Failure{Op: "create school", Err: err}
	}

	l.log.Info("school created", slog.Int64("id", created.ID))

	return created, nil
}

// FindNearby parses the query point from its textual form and returns
// every stored school, nearest first. The store is not touched when the
// point is invalid. An empty store yields an empty, non-nil slice.
func (l *Locator) FindNearby(ctx context.Context, lat, lng string) (types.QueryPoint, []types.NearbySchool, error) {
	point, err := validation.QueryPoint(lat, lng)
	if err != nil {
		return types.QueryPoint{}, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	schools, err := l.store.GetSchools(ctx)
	if err != nil {
		l.log.Error("failed to list schools", slog.String("error", err.Error()))
		return types.QueryPoint{}, nil, &storage.Failure{Op: "list schools", Err: err}
	}

	return point, geo.Rank(point, schools), nil
}
