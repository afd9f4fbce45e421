package providers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrick-anyanwu/SunProtection/internal/weather"
)

func TestOpenMeteoCurrent_Success(t *testing.T) {
	ts, req := newWeatherAPITestServer(t, http.StatusOK,
		`{"current": {"time": "2024-01-15T03:00", "uv_index": 8.35, "temperature_2m": 27.1}}`)

	cond, err := NewOpenMeteoProvider(ts.Client(), ts.URL).Current(context.Background(), melbourne)

	require.NoError(t, err)
	assert.Equal(t, 8.35, cond.UVIndex)
	assert.Equal(t, 27.1, cond.TemperatureC)
	assert.Empty(t, cond.Place.Locality)
	assert.Equal(t, "uv_index,temperature_2m", req.URL.Query().Get("current"))
	assert.Equal(t, "-37.8136", req.URL.Query().Get("latitude"))
}

func TestOpenMeteoCurrent_ErrorObject(t *testing.T) {
	ts, _ := newWeatherAPITestServer(t, http.StatusBadRequest,
		`{"error": true, "reason": "Latitude must be in range of -90 to 90°."}`)

	_, err := NewOpenMeteoProvider(ts.Client(), ts.URL).Current(context.Background(), melbourne)

	var perr *weather.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Message, "Latitude must be in range")
}

func TestOpenMeteoCurrent_UnexpectedStatus(t *testing.T) {
	ts, _ := newWeatherAPITestServer(t, http.StatusNotFound, `{}`)

	_, err := NewOpenMeteoProvider(ts.Client(), ts.URL).Current(context.Background(), melbourne)

	assert.ErrorIs(t, err, errUnexpected)
}

func TestOpenMeteoCurrent_NoCurrentBlock(t *testing.T) {
	ts, _ := newWeatherAPITestServer(t, http.StatusOK, `{"latitude": -37.8, "longitude": 144.9}`)

	cond, err := NewOpenMeteoProvider(ts.Client(), ts.URL).Current(context.Background(), melbourne)

	require.NoError(t, err)
	assert.Zero(t, cond.UVIndex)
	assert.Zero(t, cond.TemperatureC)
}
