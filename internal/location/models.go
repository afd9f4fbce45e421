package location

import (
	"context"
	"fmt"

	"github.com/patrick-anyanwu/SunProtection/internal/geo"
)

// Display names used when a location could not be resolved to a place.
const (
	UnknownLocation = "Unknown Location"
	NotFound        = "Location not found"
	FetchError      = "Error fetching data"
	InvalidLocation = "Invalid Location"
)

// Status records how a resolution ended. Anything other than StatusResolved is
// an error outcome the UI must present as such.
type Status string

const (
	StatusResolved Status = "resolved"
	StatusNotFound Status = "not_found"
	StatusFailed   Status = "failed"
)

// Result is a resolved location ready for display.
type Result struct {
	Point              geo.Point `json:"point"`
	DisplayName        string    `json:"displayName"`
	WithinJurisdiction bool      `json:"withinJurisdiction"`
	Status             Status    `json:"status"`
	Reason             string    `json:"reason,omitempty"`
}

// IsError reports whether the result is a sentinel rather than a real place.
func (r Result) IsError() bool {
	return r.Status != StatusResolved
}

// Place is the locality hierarchy a provider reports for a coordinate.
type Place struct {
	Locality string
	Region   string
	Country  string
}

// Geocoder converts free text into candidate coordinates, best match first.
// An empty slice with a nil error means the provider answered but found nothing.
type Geocoder interface {
	Name() string
	ForwardGeocode(ctx context.Context, query string) ([]geo.Point, error)
}

// InvalidInputError rejects malformed coordinate input.
type InvalidInputError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}
