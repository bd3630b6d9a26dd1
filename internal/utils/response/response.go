// Package response provides helpers for writing consistent JSON HTTP
// responses.
//
// Success responses may have any shape. Error responses always look like
// one of:
//
//	{ "status": "error", "error": "internal server error" }
//	{ "status": "error", "errors": [ { "field": "latitude", "message": "..." } ] }
package response

import (
	"encoding/json"
	"net/http"

	"github.com/aanand-mishra/schools-api/internal/validation"
)

// Response is the standard envelope returned for error cases.
type Response struct {
	Status string                  `json:"status"`
	Error  string                  `json:"error,omitempty"`
	Errors []validation.FieldError `json:"errors,omitempty"`
}

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// WriteJSON writes data JSON-encoded with the given HTTP status code.
// Headers must be set before WriteHeader, and the body after it.
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps err into the standard Response shape. Use it for
// client mistakes whose message is safe to echo (e.g. malformed JSON).
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// InternalError is the response for a storage failure. The cause is
// deliberately not included.
func InternalError() Response {
	return Response{
		Status: StatusError,
		Error:  "internal server error",
	}
}

// ValidationError lists every invalid field of f.
func ValidationError(f *validation.Failure) Response {
	return Response{
		Status: StatusError,
		Errors: f.Fields,
	}
}
