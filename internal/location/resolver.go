package location

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/patrick-anyanwu/SunProtection/internal/geo"
	"github.com/patrick-anyanwu/SunProtection/internal/observability"
)

var (
	errOutOfRange  = errors.New("out of range")
	errNoGeocoders = errors.New("no geocoding providers configured")
)

// Resolver turns raw user input into a Result and owns the jurisdiction check.
type Resolver struct {
	jurisdiction geo.Jurisdiction
	geocoders    []Geocoder
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewResolver builds a Resolver. Geocoders are consulted in order for city names.
func NewResolver(j geo.Jurisdiction, geocoders []Geocoder, metrics *observability.Metrics, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &Resolver{
		jurisdiction: j,
		geocoders:    geocoders,
		metrics:      metrics,
		logger:       logger.With("component", "location.resolver"),
	}
}

// Jurisdiction returns the region results are checked against.
func (r *Resolver) Jurisdiction() geo.Jurisdiction {
	return r.jurisdiction
}

// ParseCoordinates parses textual latitude/longitude. It rejects anything that is
// not a finite number inside the valid coordinate ranges.
func ParseCoordinates(lat, lon string) (geo.Point, error) {
	latF, err := parseCoordinate("latitude", lat, 90)
	if err != nil {
		return geo.Point{}, err
	}
	lonF, err := parseCoordinate("longitude", lon, 180)
	if err != nil {
		return geo.Point{}, err
	}
	return geo.Point{Lat: latF, Lon: lonF}, nil
}

func parseCoordinate(field, raw string, limit float64) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, &InvalidInputError{Field: field, Value: raw, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < -limit || v > limit {
		return 0, &InvalidInputError{Field: field, Value: raw, Err: errOutOfRange}
	}
	return v, nil
}

// ResolveFromCoordinates validates lat/lon and flags whether the point is inside
// the jurisdiction. Points outside are still resolved.
func (r *Resolver) ResolveFromCoordinates(lat, lon, overrideName string) (Result, error) {
	p, err := ParseCoordinates(lat, lon)
	if err != nil {
		r.metrics.ObserveResolution("coordinates", "invalid")
		return Result{}, err
	}
	r.metrics.ObserveResolution("coordinates", "resolved")
	return r.ResolvePoint(p, overrideName), nil
}

// ResolvePoint resolves an already validated point. DisplayName carries the
// override, if any; the final name is composed once provider place data is known.
func (r *Resolver) ResolvePoint(p geo.Point, overrideName string) Result {
	return Result{
		Point:              p,
		DisplayName:        strings.TrimSpace(overrideName),
		WithinJurisdiction: r.jurisdiction.Contains(p),
		Status:             StatusResolved,
	}
}

// ResolveFromCityName forward-geocodes name through each geocoder in turn and
// resolves the first match. Zero matches is a normal NotFound result; transport
// failures on every provider produce a Failed result. Neither is returned as an error.
func (r *Resolver) ResolveFromCityName(ctx context.Context, name string) Result {
	query := strings.TrimSpace(name)
	if query == "" {
		r.metrics.ObserveResolution("city", "not_found")
		return notFoundResult()
	}

	var (
		answered bool
		lastErr  error
	)
	for _, g := range r.geocoders {
		points, err := g.ForwardGeocode(ctx, query)
		if err != nil {
			r.logger.Warn("forward geocoding failed",
				"provider", g.Name(),
				"query", query,
				"error", err,
			)
			r.metrics.ObserveProvider(g.Name(), "unavailable")
			lastErr = err
			continue
		}
		answered = true
		if len(points) == 0 {
			r.metrics.ObserveProvider(g.Name(), "empty")
			r.logger.Debug("forward geocoding found no match", "provider", g.Name(), "query", query)
			continue
		}

		p := points[0]
		if !p.Valid() {
			r.logger.Warn("forward geocoding returned invalid coordinates",
				"provider", g.Name(),
				"lat", p.Lat,
				"lon", p.Lon,
			)
			r.metrics.ObserveProvider(g.Name(), "empty")
			continue
		}
		r.metrics.ObserveProvider(g.Name(), "success")
		r.metrics.ObserveResolution("city", "resolved")
		return r.ResolvePoint(p, "")
	}

	if answered {
		r.metrics.ObserveResolution("city", "not_found")
		return notFoundResult()
	}
	if lastErr == nil {
		lastErr = errNoGeocoders
	}

	r.metrics.ObserveResolution("city", "failed")
	return Result{
		DisplayName: FetchError,
		Status:      StatusFailed,
		Reason:      lastErr.Error(),
	}
}

func notFoundResult() Result {
	return Result{
		DisplayName:        NotFound,
		WithinJurisdiction: false,
		Status:             StatusNotFound,
		Reason:             NotFound,
	}
}
