package weather

import (
	"context"
	"log/slog"
	"strings"

	"github.com/patrick-anyanwu/SunProtection/internal/geo"
	"github.com/patrick-anyanwu/SunProtection/internal/location"
	"github.com/patrick-anyanwu/SunProtection/internal/observability"
)

// Query is the raw UV lookup input. Lat/Lon take precedence over Location; when
// all are blank the configured default coordinate is used.
type Query struct {
	Lat      string
	Lon      string
	Name     string // display name override for the coordinate path
	Location string // free-text city name
}

// Service runs the UV lookup pipeline: resolve the location, then fetch conditions.
type Service struct {
	resolver     *location.Resolver
	client       *Client
	defaultPoint geo.Point
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewService creates a new Service.
func NewService(resolver *location.Resolver, client *Client, defaultPoint geo.Point, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &Service{
		resolver:     resolver,
		client:       client,
		defaultPoint: defaultPoint,
		metrics:      metrics,
		logger:       logger.With("component", "weather.service"),
	}
}

// Lookup resolves q and returns a reading. The only error returned is a
// *location.InvalidInputError for malformed coordinates; unknown places and
// provider failures come back as error-flagged readings.
func (s *Service) Lookup(ctx context.Context, q Query) (EnvironmentalReading, error) {
	var res location.Result

	switch {
	case strings.TrimSpace(q.Lat) != "" && strings.TrimSpace(q.Lon) != "":
		r, err := s.resolver.ResolveFromCoordinates(q.Lat, q.Lon, q.Name)
		if err != nil {
			return EnvironmentalReading{}, err
		}
		res = r
	case strings.TrimSpace(q.Location) != "":
		res = s.resolver.ResolveFromCityName(ctx, q.Location)
		if res.IsError() {
			s.logger.Info("city lookup did not resolve", "query", q.Location, "status", res.Status)
			return s.client.unresolvedReading(res), nil
		}
	default:
		s.metrics.ObserveResolution("default", "resolved")
		res = s.resolver.ResolvePoint(s.defaultPoint, q.Name)
	}

	reading := s.client.Fetch(ctx, res.Point, res.DisplayName)
	reading.Location.WithinJurisdiction = res.WithinJurisdiction
	if !reading.IsError && !res.WithinJurisdiction {
		reading.Location.DisplayName = location.AnnotateOutside(
			reading.Location.DisplayName,
			s.resolver.Jurisdiction().Name,
		)
	}
	return reading, nil
}
