package places

import (
	"context"

	"github.com/patrick-anyanwu/SunProtection/internal/geo"
)

// Suggestion is a sanitized address candidate ready to hand to a browser.
type Suggestion struct {
	Name     string    `json:"name"`
	Suburb   string    `json:"suburb"`
	Postcode string    `json:"postcode"`
	Label    string    `json:"label"`
	Point    geo.Point `json:"point"`
}

// Feature is a raw, unsanitized provider result.
type Feature struct {
	PlaceName string
	Context   []ContextEntry
	Center    []float64 // [lon, lat]
}

// ContextEntry is one level of a feature's place hierarchy, e.g. ID "postcode.123".
type ContextEntry struct {
	ID   string
	Text string
}

// SearchRequest constrains a provider search. Proximity only biases ranking.
type SearchRequest struct {
	Query     string
	BBox      geo.BoundingBox
	Proximity geo.Point
	Country   string
	Types     []string
	Limit     int
}

// Provider is an autocomplete-capable places search.
type Provider interface {
	Search(ctx context.Context, req SearchRequest) ([]Feature, error)
}
