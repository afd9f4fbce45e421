package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrick-anyanwu/SunProtection/internal/geo"
	"github.com/patrick-anyanwu/SunProtection/internal/location"
	"github.com/patrick-anyanwu/SunProtection/internal/upstream"
	"github.com/patrick-anyanwu/SunProtection/internal/weather"
)

func newWeatherAPITestServer(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	var captured http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts, &captured
}

var melbourne = geo.Point{Lat: -37.8136, Lon: 144.9631}

func TestWeatherAPICurrent_Success(t *testing.T) {
	ts, req := newWeatherAPITestServer(t, http.StatusOK, `{
		"location": {"name": "Melbourne", "region": "Victoria", "country": "Australia"},
		"current": {"uv": 11.0, "temp_c": 34.5}
	}`)

	p := NewWeatherAPIProvider(ts.Client(), "test-key", ts.URL)
	cond, err := p.Current(context.Background(), melbourne)

	require.NoError(t, err)
	assert.Equal(t, 11.0, cond.UVIndex)
	assert.Equal(t, 34.5, cond.TemperatureC)
	assert.Equal(t, location.Place{Locality: "Melbourne", Region: "Victoria", Country: "Australia"}, cond.Place)
	assert.Equal(t, "/current.json", req.URL.Path)
	assert.Equal(t, "test-key", req.URL.Query().Get("key"))
	assert.Equal(t, "-37.8136,144.9631", req.URL.Query().Get("q"))
}

func TestWeatherAPICurrent_MissingFieldsDefaultToZero(t *testing.T) {
	ts, _ := newWeatherAPITestServer(t, http.StatusOK, `{"current": {}}`)

	cond, err := NewWeatherAPIProvider(ts.Client(), "k", ts.URL).Current(context.Background(), melbourne)

	require.NoError(t, err)
	assert.Zero(t, cond.UVIndex)
	assert.Zero(t, cond.TemperatureC)
	assert.Equal(t, location.Place{}, cond.Place)
}

func TestWeatherAPICurrent_ProviderError(t *testing.T) {
	ts, _ := newWeatherAPITestServer(t, http.StatusBadRequest,
		`{"error": {"code": 1006, "message": "No matching location found."}}`)

	_, err := NewWeatherAPIProvider(ts.Client(), "k", ts.URL).Current(context.Background(), melbourne)

	var perr *weather.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 1006, perr.Code)
	assert.Equal(t, "No matching location found.", perr.Message)
}

func TestWeatherAPICurrent_NonNumericPayload(t *testing.T) {
	ts, _ := newWeatherAPITestServer(t, http.StatusOK, `{"current": {"uv": "extreme"}}`)

	_, err := NewWeatherAPIProvider(ts.Client(), "k", ts.URL).Current(context.Background(), melbourne)

	assert.ErrorIs(t, err, errMalformed)
}

func TestWeatherAPICurrent_NoCurrentBlock(t *testing.T) {
	ts, _ := newWeatherAPITestServer(t, http.StatusOK,
		`{"location": {"name": "Geelong", "region": "Victoria", "country": "Australia"}}`)

	cond, err := NewWeatherAPIProvider(ts.Client(), "k", ts.URL).Current(context.Background(), melbourne)

	require.NoError(t, err)
	assert.Zero(t, cond.UVIndex)
	assert.Zero(t, cond.TemperatureC)
	assert.Equal(t, "Geelong", cond.Place.Locality)
}

func TestWeatherAPICurrent_ServerError(t *testing.T) {
	ts, _ := newWeatherAPITestServer(t, http.StatusBadGateway, `oops`)

	_, err := NewWeatherAPIProvider(ts.Client(), "k", ts.URL).Current(context.Background(), melbourne)

	assert.ErrorIs(t, err, upstream.ErrServerError)
}

func TestWeatherAPICurrent_MissingKey(t *testing.T) {
	_, err := NewWeatherAPIProvider(http.DefaultClient, "", "").Current(context.Background(), melbourne)
	assert.ErrorIs(t, err, errMissingKey)
}

func TestWeatherAPIForwardGeocode(t *testing.T) {
	ts, req := newWeatherAPITestServer(t, http.StatusOK, `[
		{"name": "Ballarat", "lat": -37.57, "lon": 143.85},
		{"name": "Broken"},
		{"name": "Ballarat North", "lat": -37.55, "lon": 143.86}
	]`)

	points, err := NewWeatherAPIProvider(ts.Client(), "k", ts.URL).ForwardGeocode(context.Background(), "Ballarat")

	require.NoError(t, err)
	assert.Equal(t, []geo.Point{{Lat: -37.57, Lon: 143.85}, {Lat: -37.55, Lon: 143.86}}, points)
	assert.Equal(t, "/search.json", req.URL.Path)
	assert.Equal(t, "Ballarat", req.URL.Query().Get("q"))
}

func TestWeatherAPIForwardGeocode_NoMatches(t *testing.T) {
	ts, _ := newWeatherAPITestServer(t, http.StatusOK, `[]`)

	points, err := NewWeatherAPIProvider(ts.Client(), "k", ts.URL).ForwardGeocode(context.Background(), "Atlantis")

	require.NoError(t, err)
	assert.Empty(t, points)
}

func TestWeatherAPIForwardGeocode_ErrorObject(t *testing.T) {
	ts, _ := newWeatherAPITestServer(t, http.StatusUnauthorized,
		`{"error": {"code": 2006, "message": "API key is invalid."}}`)

	_, err := NewWeatherAPIProvider(ts.Client(), "k", ts.URL).ForwardGeocode(context.Background(), "Ballarat")

	var perr *weather.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 2006, perr.Code)
}
