package validation

import (
	"errors"
	"reflect"
	"testing"

	"github.com/aanand-mishra/schools-api/internal/types"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()

	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("error = %v, want *Failure", err)
	}

	fields := make([]string, 0, len(f.Fields))
	for _, fe := range f.Fields {
		if fe.Message == "" {
			t.Errorf("field %s has an empty message", fe.Field)
		}
		fields = append(fields, fe.Field)
	}
	return fields
}

func TestNewSchoolValid(t *testing.T) {
	school, err := NewSchool(types.SchoolInput{
		Name:      "  Alpha Public School ",
		Address:   " MG Road, Bengaluru",
		Latitude:  "12.9716",
		Longitude: "77.5946",
	})
	if err != nil {
		t.Fatalf("NewSchool: %v", err)
	}

	want := types.School{
		Name:      "Alpha Public School",
		Address:   "MG Road, Bengaluru",
		Latitude:  12.9716,
		Longitude: 77.5946,
	}
	if school != want {
		t.Errorf("NewSchool = %+v, want %+v", school, want)
	}
}

func TestNewSchoolBounds(t *testing.T) {
	valid := []struct{ lat, lng types.Coordinate }{
		{"90", "180"},
		{"-90", "-180"},
		{"0", "0"},
		{"90.000", "-180.0"},
		{"-89.999999", "179.999999"},
		{"1e-7", "1E1"},
		{".5", "-0.5e1"},
		{"12.", "+77.5"},
		{"9e1", "-1.8e2"},
	}

	for _, v := range valid {
		in := types.SchoolInput{Name: "n", Address: "a", Latitude: v.lat, Longitude: v.lng}
		if _, err := NewSchool(in); err != nil {
			t.Errorf("NewSchool(%s, %s): %v", v.lat, v.lng, err)
		}
	}
}

func TestNewSchoolInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   types.SchoolInput
		want []string
	}{
		{
			name: "everything missing",
			in:   types.SchoolInput{},
			want: []string{"name", "address", "latitude", "longitude"},
		},
		{
			name: "blank name and address",
			in:   types.SchoolInput{Name: "   ", Address: "\t", Latitude: "1", Longitude: "1"},
			want: []string{"name", "address"},
		},
		{
			name: "latitude too large",
			in:   types.SchoolInput{Name: "n", Address: "a", Latitude: "90.5", Longitude: "1"},
			want: []string{"latitude"},
		},
		{
			name: "both coordinates out of range",
			in:   types.SchoolInput{Name: "n", Address: "a", Latitude: "-91", Longitude: "181"},
			want: []string{"latitude", "longitude"},
		},
		{
			name: "non-numeric coordinates",
			in:   types.SchoolInput{Name: "n", Address: "a", Latitude: "abc", Longitude: "true"},
			want: []string{"latitude", "longitude"},
		},
		{
			name: "exponent forms out of range",
			in:   types.SchoolInput{Name: "n", Address: "a", Latitude: "9.1e1", Longitude: "-1.81E2"},
			want: []string{"latitude", "longitude"},
		},
		{
			name: "infinities and hex are not coordinates",
			in:   types.SchoolInput{Name: "n", Address: "a", Latitude: "-Inf", Longitude: "0x1p-2"},
			want: []string{"latitude", "longitude"},
		},
		{
			name: "all fields broken at once",
			in:   types.SchoolInput{Name: "", Address: "", Latitude: "100", Longitude: "-200"},
			want: []string{"name", "address", "latitude", "longitude"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchool(tt.in)
			if got := fieldsOf(t, err); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("fields = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewSchoolExponentValues(t *testing.T) {
	school, err := NewSchool(types.SchoolInput{Name: "n", Address: "a", Latitude: "1e-7", Longitude: "-0.5e1"})
	if err != nil {
		t.Fatalf("NewSchool: %v", err)
	}
	if school.Latitude != 1e-7 || school.Longitude != -5 {
		t.Errorf("coordinates = %v, %v; want 1e-7, -5", school.Latitude, school.Longitude)
	}
}

func TestNewSchoolTextMessages(t *testing.T) {
	_, err := NewSchool(types.SchoolInput{Address: "a", Latitude: "1", Longitude: "1"})

	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("error = %v, want *Failure", err)
	}

	want := []FieldError{{Field: "name", Message: "name is required and must be a string"}}
	if !reflect.DeepEqual(f.Fields, want) {
		t.Errorf("fields = %+v, want %+v", f.Fields, want)
	}
}

func TestNewSchoolMessages(t *testing.T) {
	_, err := NewSchool(types.SchoolInput{Name: "n", Address: "a", Latitude: "95", Longitude: "-190"})

	var f *Failure
	if !errors.As(err, &f) {
		t.Fatalf("error = %v, want *Failure", err)
	}

	want := []FieldError{
		{Field: "latitude", Message: "latitude must be a number between -90 and 90"},
		{Field: "longitude", Message: "longitude must be a number between -180 and 180"},
	}
	if !reflect.DeepEqual(f.Fields, want) {
		t.Errorf("fields = %+v, want %+v", f.Fields, want)
	}

	if f.Error() != "validation failed: latitude must be a number between -90 and 90, longitude must be a number between -180 and 180" {
		t.Errorf("Error() = %q", f.Error())
	}
}

func TestQueryPoint(t *testing.T) {
	p, err := QueryPoint("12.9716", " 77.5946 ")
	if err != nil {
		t.Fatalf("QueryPoint: %v", err)
	}
	if p.Latitude != 12.9716 || p.Longitude != 77.5946 {
		t.Errorf("QueryPoint = %+v", p)
	}
}

func TestQueryPointAcceptsOutOfRange(t *testing.T) {
	p, err := QueryPoint("123.5", "-500")
	if err != nil {
		t.Fatalf("QueryPoint: %v", err)
	}
	if p.Latitude != 123.5 || p.Longitude != -500 {
		t.Errorf("QueryPoint = %+v", p)
	}
}

func TestQueryPointExponentForms(t *testing.T) {
	tests := []struct {
		lat, lng string
		want     types.QueryPoint
	}{
		{"1e-7", "1E1", types.QueryPoint{Latitude: 1e-7, Longitude: 10}},
		{".5", "-0.5e1", types.QueryPoint{Latitude: 0.5, Longitude: -5}},
		{"12.", "1e3", types.QueryPoint{Latitude: 12, Longitude: 1000}},
	}

	for _, tt := range tests {
		p, err := QueryPoint(tt.lat, tt.lng)
		if err != nil {
			t.Errorf("QueryPoint(%q, %q): %v", tt.lat, tt.lng, err)
			continue
		}
		if p != tt.want {
			t.Errorf("QueryPoint(%q, %q) = %+v, want %+v", tt.lat, tt.lng, p, tt.want)
		}
	}
}

func TestQueryPointInvalid(t *testing.T) {
	tests := []struct {
		lat, lng string
		want     []string
	}{
		{"abc", "77.5", []string{"lat"}},
		{"12.9", "", []string{"lng"}},
		{"", "", []string{"lat", "lng"}},
		{"NaN", "Inf", []string{"lat", "lng"}},
		{"12.9.1", "1e", []string{"lat", "lng"}},
		{"1e400", "0x10", []string{"lat", "lng"}},
	}

	for _, tt := range tests {
		_, err := QueryPoint(tt.lat, tt.lng)
		if got := fieldsOf(t, err); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("QueryPoint(%q, %q) fields = %v, want %v", tt.lat, tt.lng, got, tt.want)
		}
	}
}
