package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/kelvins/geocoder"

	"github.com/patrick-anyanwu/SunProtection/internal/common"
	"github.com/patrick-anyanwu/SunProtection/internal/geo"
)

// GoogleGeocoder is the last-resort city-name geocoder, backed by the Google
// Geocoding API. The underlying library takes no context, so each call runs in
// its own goroutine and a cancelled caller stops waiting for it.
type GoogleGeocoder struct {
	apiKey  string
	country string
	lookup  func(geocoder.Address) (geocoder.Location, error)
}

// NewGoogleGeocoder sets the library's package-level key once; the key is
// fixed for the life of the process.
func NewGoogleGeocoder(apiKey, country string) *GoogleGeocoder {
	if apiKey != "" {
		geocoder.ApiKey = apiKey
	}
	return &GoogleGeocoder{apiKey: apiKey, country: country, lookup: geocoder.Geocoding}
}

func (g *GoogleGeocoder) Name() string {
	return "google"
}

type googleResult struct {
	loc geocoder.Location
	err error
}

func (g *GoogleGeocoder) ForwardGeocode(ctx context.Context, query string) ([]geo.Point, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("google: %w", errMissingKey)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Buffered so an abandoned lookup can still finish and exit.
	done := make(chan googleResult, 1)
	go func() {
		loc, err := g.lookup(geocoder.Address{City: query, Country: g.country})
		done <- googleResult{loc: loc, err: err}
	}()

	var res googleResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		if isZeroResults(res.err) {
			return nil, nil
		}
		return nil, fmt.Errorf("google geocoding: %w", res.err)
	}

	p := geo.Point{Lat: res.loc.Latitude, Lon: res.loc.Longitude}
	if p == (geo.Point{}) {
		return nil, nil
	}
	return []geo.Point{p}, nil
}

func isZeroResults(err error) bool {
	return common.HasAny(strings.ToLower(err.Error()), "zero_results", "no results")
}
