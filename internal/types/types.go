// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, the ranker and the locator can all import types
// without depending on each other.
package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// School is a persisted school record.
//
// ID and CreatedAt are assigned by the store on insert and never change
// afterwards. Latitude is always within [-90, 90] and Longitude within
// [-180, 180] for anything that made it into storage.
type School struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// SchoolInput is the creation payload as it arrives at the boundary.
//
// Coordinates are kept as Coordinate (raw text) so that a non-numeric
// value becomes a field-level validation problem instead of a decode
// failure that hides the other fields.
//
// Name and Address are Text for the same reason: a number or an object in
// their place decodes to an empty value and is reported as a field error.
//
// validate:"..." tags are checked by go-playground/validator.
// "coordinate=N" is registered by the validation package: any finite
// decimal number whose absolute value is at most N.
type SchoolInput struct {
	Name      Text       `json:"name"      validate:"required"`
	Address   Text       `json:"address"   validate:"required"`
	Latitude  Coordinate `json:"latitude"  validate:"required,coordinate=90"`
	Longitude Coordinate `json:"longitude" validate:"required,coordinate=180"`
}

// Normalize strips surrounding whitespace from every field.
func (in SchoolInput) Normalize() SchoolInput {
	return SchoolInput{
		Name:      Text(strings.TrimSpace(string(in.Name))),
		Address:   Text(strings.TrimSpace(string(in.Address))),
		Latitude:  Coordinate(strings.TrimSpace(string(in.Latitude))),
		Longitude: Coordinate(strings.TrimSpace(string(in.Longitude))),
	}
}

// Text is a free-text field that only accepts a JSON string.
// null and every non-string JSON value decode to the empty Text.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = ""
		return nil
	}
	*t = Text(s)
	return nil
}

// Coordinate is a coordinate value in its textual form.
//
// It decodes from either a JSON number (12.97) or a JSON string ("12.97").
// Any other JSON value is kept verbatim so validation can reject it.
type Coordinate string

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Coordinate(s)
	default:
		*c = Coordinate(data)
	}

	return nil
}

// Float parses the coordinate as a float64.
func (c Coordinate) Float() (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(string(c)), 64)
}

// QueryPoint is the caller-supplied origin of a nearby search.
// It is never persisted and is not range-checked.
type QueryPoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// NearbySchool is a School annotated with its distance from a QueryPoint.
type NearbySchool struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	DistanceKm Distance `json:"distance_km"`
}

// Distance is a great-circle distance in kilometres.
//
// The value keeps full precision in memory; only its JSON form is rounded
// to three decimal places (e.g. 0.000, 5.185).
type Distance float64

// MarshalJSON implements json.Marshaler.
func (d Distance) MarshalJSON() ([]byte, error) {
	return []byte(d.String()), nil
}

// String formats the distance with three decimal places.
func (d Distance) String() string {
	rounded := math.Round(float64(d)*1000) / 1000
	if rounded == 0 {
		rounded = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(rounded, 'f', 3, 64)
}
