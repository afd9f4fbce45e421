package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/patrick-anyanwu/SunProtection/internal/geo"
	"github.com/patrick-anyanwu/SunProtection/internal/location"
	"github.com/patrick-anyanwu/SunProtection/internal/upstream"
	"github.com/patrick-anyanwu/SunProtection/internal/weather"
)

const defaultWeatherAPIURL = "https://api.weatherapi.com/v1"

// WeatherAPIProvider implements weather.Provider and location.Geocoder for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *upstream.Client
}

// NewWeatherAPIProvider builds the provider. An empty baseURL uses the public endpoint.
func NewWeatherAPIProvider(httpClient *http.Client, apiKey, baseURL string) *WeatherAPIProvider {
	if baseURL == "" {
		baseURL = defaultWeatherAPIURL
	}
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  upstream.New("weatherapi", httpClient),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type weatherAPIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type weatherAPICurrent struct {
	Location *struct {
		Name    string `json:"name"`
		Region  string `json:"region"`
		Country string `json:"country"`
	} `json:"location"`
	Current *struct {
		UV    *float64 `json:"uv"`
		TempC *float64 `json:"temp_c"`
	} `json:"current"`
	Error *weatherAPIError `json:"error"`
}

type weatherAPISearchHit struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// Current fetches current.json for point.
func (p *WeatherAPIProvider) Current(ctx context.Context, point geo.Point) (weather.Conditions, error) {
	if p.apiKey == "" {
		return weather.Conditions{}, fmt.Errorf("weatherapi: %w", errMissingKey)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", coordinate(point.Lat)+","+coordinate(point.Lon))

	resp, err := p.client.Get(ctx, p.baseURL+"/current.json?"+values.Encode())
	if err != nil {
		return weather.Conditions{}, err
	}
	defer resp.Body.Close()

	var payload weatherAPICurrent
	if err := decodeJSON(resp, &payload); err != nil {
		return weather.Conditions{}, fmt.Errorf("weatherapi current: %w", err)
	}

	// WeatherAPI reports bad locations and keys as an error object, usually with a 4xx.
	if payload.Error != nil {
		return weather.Conditions{}, &weather.ProviderError{
			Code:    payload.Error.Code,
			Message: payload.Error.Message,
		}
	}
	if resp.StatusCode != http.StatusOK {
		return weather.Conditions{}, unexpectedStatus(p.name, resp.StatusCode)
	}

	// An absent current block reads as zero UV and temperature.
	var cond weather.Conditions
	if payload.Current != nil {
		cond.UVIndex = valueOr(payload.Current.UV)
		cond.TemperatureC = valueOr(payload.Current.TempC)
	}
	if payload.Location != nil {
		cond.Place = location.Place{
			Locality: payload.Location.Name,
			Region:   payload.Location.Region,
			Country:  payload.Location.Country,
		}
	}
	return cond, nil
}

// ForwardGeocode resolves a city name through search.json. Hits without both
// coordinates are skipped.
func (p *WeatherAPIProvider) ForwardGeocode(ctx context.Context, query string) ([]geo.Point, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("weatherapi: %w", errMissingKey)
	}

	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("q", query)

	resp, err := p.client.Get(ctx, p.baseURL+"/search.json?"+values.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Error *weatherAPIError `json:"error"`
		}
		if decodeJSON(resp, &payload) == nil && payload.Error != nil {
			return nil, &weather.ProviderError{Code: payload.Error.Code, Message: payload.Error.Message}
		}
		return nil, unexpectedStatus(p.name, resp.StatusCode)
	}

	var hits []weatherAPISearchHit
	if err := decodeJSON(resp, &hits); err != nil {
		return nil, fmt.Errorf("weatherapi search: %w", err)
	}

	points := make([]geo.Point, 0, len(hits))
	for _, h := range hits {
		if h.Lat == nil || h.Lon == nil {
			continue
		}
		points = append(points, geo.Point{Lat: *h.Lat, Lon: *h.Lon})
	}
	return points, nil
}
