// Package school contains the HTTP handlers for the School resource.
//
// Each handler is built by a factory that receives its dependencies and
// returns an http.HandlerFunc closing over them:
//
//	r.Post("/addSchool", school.New(loc))
//
// New(loc) runs once at startup; the returned func runs on every request.
package school

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/schools-api/internal/storage"
	"github.com/aanand-mishra/schools-api/internal/types"
	"github.com/aanand-mishra/schools-api/internal/utils/response"
	"github.com/aanand-mishra/schools-api/internal/validation"
)

// maxBodyBytes caps the size of a creation payload.
const maxBodyBytes = 1 << 20

// Locator is the core the handlers adapt to HTTP.
type Locator interface {
	AddSchool(ctx context.Context, in types.SchoolInput) (types.School, error)
	FindNearby(ctx context.Context, lat, lng string) (types.QueryPoint, []types.NearbySchool, error)
}

type createdResponse struct {
	Message string       `json:"message"`
	School  types.School `json:"school"`
}

type nearbyResponse struct {
	Count        int                  `json:"count"`
	UserLocation types.QueryPoint     `json:"user_location"`
	Schools      []types.NearbySchool `json:"schools"`
}

// New handles POST /addSchool.
//
// Request body (JSON); coordinates may be numbers or numeric strings:
//
//	{ "name": "Alpha", "address": "MG Road", "latitude": 12.9716, "longitude": 77.5946 }
//
// Success response (201 Created):
//
//	{ "message": "School added successfully", "school": { "id": 1, ... } }
//
// Error responses:
//
//	400 Bad Request: empty body, malformed JSON, or failed validation
//	500 Internal:    storage failure
func New(loc Locator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a school")

		var in types.SchoolInput

		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest,
				response.GeneralError(errors.New("request body is empty")))
			return
		}
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		school, err := loc.AddSchool(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, createdResponse{
			Message: "School added successfully",
			School:  school,
		})
	}
}

// GetNearby handles GET /listSchools?lat=..&lng=..
// (?latitude=..&longitude=.. is accepted too).
//
// Success response (200 OK), nearest first:
//
//	{
//	  "count": 2,
//	  "user_location": { "lat": 12.9716, "lng": 77.5946 },
//	  "schools": [ { "id": 1, ..., "distance_km": 0.000 }, ... ]
//	}
//
// An empty store gives "count": 0 and "schools": [].
func GetNearby(loc Locator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		lat := firstNonEmpty(q.Get("lat"), q.Get("latitude"))
		lng := firstNonEmpty(q.Get("lng"), q.Get("longitude"))

		slog.Info("listing nearby schools",
			slog.String("lat", lat),
			slog.String("lng", lng))

		point, schools, err := loc.FindNearby(r.Context(), lat, lng)
		if err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, nearbyResponse{
			Count:        len(schools),
			UserLocation: point,
			Schools:      schools,
		})
	}
}

// Health handles GET /.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  response.StatusOK,
			"service": "school-api",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// writeError maps the core's error kinds to HTTP. Storage details stay in
// the logs (written by the locator).
func writeError(w http.ResponseWriter, err error) {
	var (
		vf *validation.Failure
		sf *storage.Failure
	)

	switch {
	case errors.As(err, &vf):
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(vf))
	case errors.As(err, &sf):
		response.WriteJSON(w, http.StatusInternalServerError, response.InternalError())
	default:
		slog.Error("unexpected error", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.InternalError())
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
