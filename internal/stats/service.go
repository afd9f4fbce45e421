package stats

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/patrick-anyanwu/SunProtection/internal/observability"
)

// Options selects which records feed the report.
type Options struct {
	YearFrom    int      `yaml:"yearFrom"`
	CancerTypes []string `yaml:"cancerTypes"`
	Categories  []string `yaml:"categories"`
}

// DefaultOptions covers skin cancers from 2007, split by male and female.
func DefaultOptions() Options {
	return Options{
		YearFrom:    2007,
		CancerTypes: []string{"Melanoma of the skin", "Non-melanoma skin cancer (rare types)"},
		Categories:  []string{Males, Females},
	}
}

// Summary holds both aggregated views of one record load.
type Summary struct {
	Series    TimeSeries
	Breakdown Breakdown
}

// Service loads filtered records and aggregates them.
type Service struct {
	store   Store
	opts    Options
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewService(store Store, opts Options, metrics *observability.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &Service{
		store:   store,
		opts:    opts,
		metrics: metrics,
		logger:  logger.With("component", "stats.service"),
	}
}

// Summarize returns the time series and category breakdown. An empty store is
// not an error; the views are simply empty.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	records, err := s.store.Records(ctx, Filter{YearFrom: s.opts.YearFrom, CancerTypes: s.opts.CancerTypes})
	if err != nil {
		return Summary{}, fmt.Errorf("load cancer records: %w", err)
	}

	for _, r := range records {
		if _, ok := coerce(r.Count); !ok {
			s.logger.Debug("unparseable count", "year", r.Year, "data_type", r.DataType, "count", r.Count)
		}
	}

	sum := Summary{
		Series:    AggregateTimeSeries(records, s.opts.YearFrom, s.opts.CancerTypes),
		Breakdown: AggregateByCategory(records, s.opts.Categories),
	}
	if sum.Series.Skipped > 0 {
		s.metrics.ObserveDataQuality("count", sum.Series.Skipped)
		s.logger.Warn("records excluded from aggregation",
			"skipped", sum.Series.Skipped,
			"loaded", len(records),
		)
	}
	return sum, nil
}
