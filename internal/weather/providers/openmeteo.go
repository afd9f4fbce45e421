package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/patrick-anyanwu/SunProtection/internal/geo"
	"github.com/patrick-anyanwu/SunProtection/internal/upstream"
	"github.com/patrick-anyanwu/SunProtection/internal/weather"
)

const defaultOpenMeteoURL = "https://api.open-meteo.com/v1/forecast"

// OpenMeteoProvider implements weather.Provider for Open-Meteo. It needs no key
// but reports no place names, so readings fall back to the override or
// "Unknown Location".
type OpenMeteoProvider struct {
	name    string
	baseURL string
	client  *upstream.Client
}

func NewOpenMeteoProvider(httpClient *http.Client, baseURL string) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = defaultOpenMeteoURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  upstream.New("openmeteo", httpClient),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

func (p *OpenMeteoProvider) Current(ctx context.Context, point geo.Point) (weather.Conditions, error) {
	values := url.Values{}
	values.Set("latitude", coordinate(point.Lat))
	values.Set("longitude", coordinate(point.Lon))
	values.Set("current", "uv_index,temperature_2m")

	resp, err := p.client.Get(ctx, p.baseURL+"?"+values.Encode())
	if err != nil {
		return weather.Conditions{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Current *struct {
			UVIndex     *float64 `json:"uv_index"`
			Temperature *float64 `json:"temperature_2m"`
		} `json:"current"`
		Error  bool   `json:"error"`
		Reason string `json:"reason"`
	}
	if err := decodeJSON(resp, &payload); err != nil {
		return weather.Conditions{}, fmt.Errorf("openmeteo current: %w", err)
	}

	if payload.Error {
		return weather.Conditions{}, &weather.ProviderError{Code: resp.StatusCode, Message: payload.Reason}
	}
	if resp.StatusCode != http.StatusOK {
		return weather.Conditions{}, unexpectedStatus(p.name, resp.StatusCode)
	}

	var cond weather.Conditions
	if payload.Current != nil {
		cond.UVIndex = valueOr(payload.Current.UVIndex)
		cond.TemperatureC = valueOr(payload.Current.Temperature)
	}
	return cond, nil
}
