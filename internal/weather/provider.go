package weather

import (
	"context"
	"fmt"

	"github.com/patrick-anyanwu/SunProtection/internal/geo"
)

// Provider abstracts a current-conditions source keyed by coordinates (e.g. WeatherAPI).
type Provider interface {
	Name() string
	Current(ctx context.Context, p geo.Point) (Conditions, error)
}

// ProviderError is an explicit error object returned by a provider, as opposed
// to a transport failure or an unreadable payload.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}
