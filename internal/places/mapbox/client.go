package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/patrick-anyanwu/SunProtection/internal/geo"
	"github.com/patrick-anyanwu/SunProtection/internal/observability"
	"github.com/patrick-anyanwu/SunProtection/internal/places"
	"github.com/patrick-anyanwu/SunProtection/internal/upstream"
)

const defaultBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Client implements places.Provider and location.Geocoder using the Mapbox
// Geocoding API.
type Client struct {
	token   string
	baseURL string
	country string
	http    *upstream.Client
	logger  *slog.Logger
}

// NewClient creates a Mapbox client. country restricts forward geocoding
// (ISO 3166 alpha-2, lower case); an empty baseURL uses the public endpoint.
func NewClient(httpClient *http.Client, token, baseURL, country string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &Client{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		country: country,
		http:    upstream.New("mapbox", httpClient),
		logger:  logger.With("component", "mapbox"),
	}
}

func (c *Client) Name() string {
	return "mapbox"
}

// Search runs an autocomplete query.
func (c *Client) Search(ctx context.Context, req places.SearchRequest) ([]places.Feature, error) {
	params := url.Values{
		"access_token": {c.token},
		"autocomplete": {"true"},
		"language":     {"en"},
	}
	if req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}
	if len(req.Types) > 0 {
		params.Set("types", strings.Join(req.Types, ","))
	}
	if req.Country != "" {
		params.Set("country", req.Country)
	}
	if req.BBox != (geo.BoundingBox{}) {
		// Mapbox wants minLon,minLat,maxLon,maxLat.
		params.Set("bbox", joinCoords(req.BBox.MinLon, req.BBox.MinLat, req.BBox.MaxLon, req.BBox.MaxLat))
	}
	if req.Proximity != (geo.Point{}) {
		params.Set("proximity", joinCoords(req.Proximity.Lon, req.Proximity.Lat))
	}

	resp, err := c.doRequest(ctx, req.Query, params, "search")
	if err != nil {
		return nil, err
	}

	out := make([]places.Feature, 0, len(resp.Features))
	for _, f := range resp.Features {
		pf := places.Feature{PlaceName: f.PlaceName, Center: f.Center}
		for _, cx := range f.Context {
			pf.Context = append(pf.Context, places.ContextEntry{ID: cx.ID, Text: cx.Text})
		}
		out = append(out, pf)
	}
	return out, nil
}

// ForwardGeocode converts a city name to its best matching coordinate.
func (c *Client) ForwardGeocode(ctx context.Context, query string) ([]geo.Point, error) {
	params := url.Values{
		"access_token": {c.token},
		"limit":        {"1"},
		"types":        {"place,locality"},
	}
	if c.country != "" {
		params.Set("country", c.country)
	}

	resp, err := c.doRequest(ctx, query, params, "forward")
	if err != nil {
		return nil, err
	}

	var points []geo.Point
	for _, f := range resp.Features {
		if len(f.Center) != 2 {
			continue
		}
		points = append(points, geo.Point{Lat: f.Center[1], Lon: f.Center[0]})
	}
	return points, nil
}

func (c *Client) doRequest(ctx context.Context, query string, params url.Values, source string) (response, error) {
	if c.token == "" {
		return response{}, fmt.Errorf("mapbox %s: access token is not configured", source)
	}

	u := fmt.Sprintf("%s/%s.json?%s", c.baseURL, url.PathEscape(query), params.Encode())
	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return response{}, fmt.Errorf("%s geocode request: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return response{}, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var mapboxResp response
	if err := json.NewDecoder(resp.Body).Decode(&mapboxResp); err != nil {
		return response{}, fmt.Errorf("decode response: %w", err)
	}
	c.logger.Debug("mapbox response", "source", source, "features", len(mapboxResp.Features))
	return mapboxResp, nil
}

func joinCoords(vals ...float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

// Mapbox API response types.

type response struct {
	Features []feature `json:"features"`
}

type feature struct {
	Center    []float64     `json:"center"` // [lon, lat]
	PlaceName string        `json:"place_name"`
	Context   []contextItem `json:"context"`
}

type contextItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
