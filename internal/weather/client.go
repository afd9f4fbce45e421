package weather

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/patrick-anyanwu/SunProtection/internal/geo"
	"github.com/patrick-anyanwu/SunProtection/internal/location"
	"github.com/patrick-anyanwu/SunProtection/internal/observability"
)

// Client fetches current conditions for a coordinate and never fails: every
// provider problem is folded into an error-flagged reading.
type Client struct {
	provider     Provider
	jurisdiction geo.Jurisdiction
	clock        clockwork.Clock
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewClient builds a Client. A nil clock uses the real clock.
func NewClient(provider Provider, j geo.Jurisdiction, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &Client{
		provider:     provider,
		jurisdiction: j,
		clock:        clock,
		metrics:      metrics,
		logger:       logger.With("component", "weather.client", "provider", provider.Name()),
	}
}

// Fetch returns the current UV index and temperature at p. overrideName, when
// non-blank, replaces the provider's place name on success.
func (c *Client) Fetch(ctx context.Context, p geo.Point, overrideName string) EnvironmentalReading {
	cond, err := c.provider.Current(ctx, p)
	if err != nil {
		return c.failedReading(p, err)
	}
	c.metrics.ObserveProvider(c.provider.Name(), "success")

	uv := cond.UVIndex
	if uv < 0 {
		uv = 0
	}

	return EnvironmentalReading{
		UVIndex:      uv,
		TemperatureC: cond.TemperatureC,
		Location: location.Result{
			Point:              p,
			DisplayName:        location.ComposeDisplayName(overrideName, cond.Place, c.jurisdiction.Country),
			WithinJurisdiction: c.jurisdiction.Contains(p),
			Status:             location.StatusResolved,
		},
		ObservedAt: c.clock.Now().UTC(),
	}
}

func (c *Client) failedReading(p geo.Point, err error) EnvironmentalReading {
	name := location.FetchError
	message := err.Error()

	var perr *ProviderError
	if errors.As(err, &perr) {
		name = location.InvalidLocation
		message = perr.Message
		c.metrics.ObserveProvider(c.provider.Name(), "provider_error")
	} else {
		c.metrics.ObserveProvider(c.provider.Name(), "unavailable")
	}

	c.logger.Warn("current conditions unavailable",
		"lat", p.Lat,
		"lon", p.Lon,
		"error", err,
	)

	return c.unresolvedReading(location.Result{
		Point:              p,
		DisplayName:        name,
		WithinJurisdiction: c.jurisdiction.Contains(p),
		Status:             location.StatusFailed,
		Reason:             message,
	})
}

// unresolvedReading wraps a non-resolved location into a zeroed error reading.
func (c *Client) unresolvedReading(res location.Result) EnvironmentalReading {
	return EnvironmentalReading{
		Location:     res,
		IsError:      true,
		ErrorMessage: res.Reason,
		ObservedAt:   c.clock.Now().UTC(),
	}
}
