package places

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/patrick-anyanwu/SunProtection/internal/common"
	"github.com/patrick-anyanwu/SunProtection/internal/geo"
	"github.com/patrick-anyanwu/SunProtection/internal/observability"
)

const (
	MinQueryLength = 2
	MaxSuggestions = 10
)

var searchTypes = []string{"address", "place", "neighborhood", "locality", "poi"}

// Service produces address autocomplete suggestions restricted to one jurisdiction.
type Service struct {
	provider     Provider
	jurisdiction geo.Jurisdiction
	sanitizer    *Sanitizer
	metrics      *observability.Metrics
	logger       *slog.Logger
}

func NewService(provider Provider, j geo.Jurisdiction, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &Service{
		provider:     provider,
		jurisdiction: j,
		sanitizer:    NewSanitizer(),
		metrics:      metrics,
		logger:       logger.With("component", "places.service"),
	}
}

// Suggest returns at most MaxSuggestions sanitized suggestions in provider
// order. Short queries and provider failures yield an empty slice, never nil.
func (s *Service) Suggest(ctx context.Context, query string) []Suggestion {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []Suggestion{}
	}

	features, err := s.provider.Search(ctx, SearchRequest{
		Query:     query,
		BBox:      s.jurisdiction.Bounds,
		Proximity: s.jurisdiction.Reference,
		Country:   s.jurisdiction.CountryCode,
		Types:     searchTypes,
		Limit:     MaxSuggestions,
	})
	if err != nil {
		s.logger.Warn("address suggestions unavailable", "query", query, "error", err)
		return []Suggestion{}
	}

	out := make([]Suggestion, 0, min(len(features), MaxSuggestions))
	for _, f := range features {
		if len(out) == MaxSuggestions {
			break
		}
		if !common.ContainsFold(f.PlaceName, s.jurisdiction.Name) {
			s.metrics.ObserveSuggestionDropped("outside_jurisdiction")
			continue
		}
		if len(f.Center) != 2 {
			s.metrics.ObserveSuggestionDropped("missing_center")
			continue
		}
		out = append(out, s.toSuggestion(f))
	}
	return out
}

func (s *Service) toSuggestion(f Feature) Suggestion {
	var suburb, postcode string
	for _, c := range f.Context {
		switch {
		case strings.Contains(c.ID, "locality"):
			suburb = c.Text
		case strings.Contains(c.ID, "postcode"):
			postcode = c.Text
		}
	}
	if suburb == "" {
		suburb, _, _ = strings.Cut(f.PlaceName, ",")
		suburb = strings.TrimSpace(suburb)
	}

	label := f.PlaceName
	if suburb != "" {
		label = suburb
		if postcode != "" {
			label += " " + postcode
		}
	}

	return Suggestion{
		Name:     s.sanitizer.Clean(f.PlaceName),
		Suburb:   s.sanitizer.Clean(suburb),
		Postcode: s.sanitizer.Clean(postcode),
		Label:    s.sanitizer.Clean(label),
		Point:    geo.Point{Lat: f.Center[1], Lon: f.Center[0]},
	}
}
