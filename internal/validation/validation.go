// Package validation rejects malformed input before it reaches the store
// or the ranker.
//
// Every check reports all failing fields together, so a caller sees the
// complete set of problems in one response instead of fixing them one at
// a time.
package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/aanand-mishra/schools-api/internal/types"
	"github.com/go-playground/validator/v10"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Failure is the ValidationFailure error kind: caller-supplied data broke
// a precondition. It never coincides with a state change.
type Failure struct {
	Fields []FieldError
}

func (f *Failure) Error() string {
	msgs := make([]string, 0, len(f.Fields))
	for _, fe := range f.Fields {
		msgs = append(msgs, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

// validate is safe for concurrent use and caches struct metadata, so one
// instance is shared by the whole process.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names ("latitude"), not Go names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("coordinate", isCoordinate); err != nil {
		panic(err)
	}

	return v
}

// isCoordinate backs the "coordinate" rule. The field must be a finite
// decimal number (exponent forms like 1e-7 and bare forms like .5 or 12.
// included). With a parameter, "coordinate=90", its absolute value must
// also be at most the parameter.
func isCoordinate(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if strings.ContainsAny(s, "xX_") {
		return false
	}

	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}

	if p := fl.Param(); p != "" {
		bound, err := strconv.ParseFloat(p, 64)
		if err != nil {
			panic(fmt.Sprintf("coordinate: bad bound %q", p))
		}
		return math.Abs(n) <= bound
	}
	return true
}

// NewSchool validates a creation payload and returns the School it
// describes. ID and CreatedAt are left zero; the store assigns them.
//
// name and address are compared after trimming surrounding whitespace,
// latitude must be a number in [-90, 90] and longitude a number in
// [-180, 180].
func NewSchool(in types.SchoolInput) (types.School, error) {
	in = in.Normalize()

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return types.School{}, fmt.Errorf("NewSchool: validate: %w", err)
		}
		return types.School{}, fromValidator(verrs)
	}

	// The coordinate rule guarantees both values parse.
	lat, latErr := in.Latitude.Float()
	lng, lngErr := in.Longitude.Float()
	if latErr != nil || lngErr != nil {
		f := &Failure{}
		if latErr != nil {
			f.Fields = append(f.Fields, FieldError{"latitude", rangeMessage("latitude", "90")})
		}
		if lngErr != nil {
			f.Fields = append(f.Fields, FieldError{"longitude", rangeMessage("longitude", "180")})
		}
		return types.School{}, f
	}

	return types.School{
		Name:      string(in.Name),
		Address:   string(in.Address),
		Latitude:  lat,
		Longitude: lng,
	}, nil
}

// QueryPoint parses the origin of a nearby search.
//
// Both values must be present and finite numbers. The range is deliberately not
// checked: an out-of-range origin only changes the distances computed and
// never touches stored data.
func QueryPoint(lat, lng string) (types.QueryPoint, error) {
	var (
		point types.QueryPoint
		f     Failure
	)

	lat, lng = strings.TrimSpace(lat), strings.TrimSpace(lng)

	if err := validate.Var(lat, "required,coordinate"); err != nil {
		f.Fields = append(f.Fields, FieldError{"lat", "latitude (lat) is required and must be a valid number"})
	} else if point.Latitude, err = parseFloat(lat); err != nil {
		f.Fields = append(f.Fields, FieldError{"lat", "latitude (lat) is required and must be a valid number"})
	}

	if err := validate.Var(lng, "required,coordinate"); err != nil {
		f.Fields = append(f.Fields, FieldError{"lng", "longitude (lng) is required and must be a valid number"})
	} else if point.Longitude, err = parseFloat(lng); err != nil {
		f.Fields = append(f.Fields, FieldError{"lng", "longitude (lng) is required and must be a valid number"})
	}

	if len(f.Fields) > 0 {
		return types.QueryPoint{}, &f
	}
	return point, nil
}

func parseFloat(s string) (float64, error) {
	return types.Coordinate(s).Float()
}

// fromValidator turns validator.ValidationErrors into a Failure listing
// every field, in struct order.
func fromValidator(errs validator.ValidationErrors) *Failure {
	f := &Failure{Fields: make([]FieldError, 0, len(errs))}

	for _, e := range errs {
		field := e.Field()

		var msg string
		switch e.ActualTag() {
		case "required":
			if e.Type() == reflect.TypeOf(types.Text("")) {
				msg = fmt.Sprintf("%s is required and must be a string", field)
			} else {
				msg = fmt.Sprintf("%s is required", field)
			}
		case "coordinate":
			msg = rangeMessage(field, e.Param())
		default:
			msg = fmt.Sprintf("%s is invalid", field)
		}

		f.Fields = append(f.Fields, FieldError{Field: field, Message: msg})
	}

	return f
}

func rangeMessage(field, bound string) string {
	return fmt.Sprintf("%s must be a number between -%s and %s", field, bound, bound)
}
