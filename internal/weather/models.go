package weather

import (
	"time"

	"github.com/patrick-anyanwu/SunProtection/internal/location"
)

// EnvironmentalReading is the normalized current-conditions view returned for a
// UV lookup. It is always structurally valid: failures are carried by IsError
// and ErrorMessage with zeroed numeric fields.
type EnvironmentalReading struct {
	UVIndex      float64         `json:"uvIndex"`
	TemperatureC float64         `json:"temperatureCelsius"`
	Location     location.Result `json:"location"`
	IsError      bool            `json:"isError"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	ObservedAt   time.Time       `json:"observedAt"` // always UTC
}

// Conditions is a provider's normalized answer for a single coordinate.
// Absent numeric fields are reported as zero.
type Conditions struct {
	UVIndex      float64
	TemperatureC float64
	Place        location.Place
}
