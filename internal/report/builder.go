package report

import (
	"context"
	"encoding/base64"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/patrick-anyanwu/SunProtection/internal/chart"
	"github.com/patrick-anyanwu/SunProtection/internal/observability"
	"github.com/patrick-anyanwu/SunProtection/internal/stats"
)

const cacheKey = "uv-impact"

// Report is the UV impact page payload. Chart fields are base64 PNGs, or null
// when there is nothing to plot.
type Report struct {
	TrendChart     *string             `json:"trendChart"`
	GenderChart    *string             `json:"genderChart"`
	Series         []stats.SeriesPoint `json:"series"`
	Breakdown      []stats.Slice       `json:"breakdown"`
	SkippedRecords int                 `json:"skippedRecords"`

	Trend  chart.Image `json:"-"`
	Gender chart.Image `json:"-"`
}

type summarizer interface {
	Summarize(ctx context.Context) (stats.Summary, error)
}

// Builder aggregates and renders the report, memoizing the result for ttl.
// The underlying records are read-only between reloads, so a cached report
// stays valid until Invalidate is called or it expires.
type Builder struct {
	stats    summarizer
	renderer *chart.Renderer
	cache    *cache.Cache
	ttl      time.Duration
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// NewBuilder creates a Builder. A non-positive ttl disables memoization.
func NewBuilder(s summarizer, renderer *chart.Renderer, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	b := &Builder{
		stats:    s,
		renderer: renderer,
		ttl:      ttl,
		metrics:  metrics,
		logger:   logger.With("component", "report.builder"),
	}
	if ttl > 0 {
		b.cache = cache.New(ttl, 2*ttl)
	}
	return b
}

// Build returns the current report.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	if b.cache != nil {
		if v, ok := b.cache.Get(cacheKey); ok {
			b.metrics.ObserveReportCache(true)
			return v.(Report), nil
		}
		b.metrics.ObserveReportCache(false)
	}

	sum, err := b.stats.Summarize(ctx)
	if err != nil {
		return Report{}, err
	}

	trend, err := b.renderer.RenderTimeSeries(sum.Series)
	if err != nil {
		return Report{}, err
	}
	gender, err := b.renderer.RenderProportion(sum.Breakdown)
	if err != nil {
		return Report{}, err
	}

	rep := Report{
		TrendChart:     encodeImage(trend),
		GenderChart:    encodeImage(gender),
		Series:         sum.Series.Points,
		Breakdown:      sum.Breakdown.Slices,
		SkippedRecords: sum.Series.Skipped,
		Trend:          trend,
		Gender:         gender,
	}
	if rep.Series == nil {
		rep.Series = []stats.SeriesPoint{}
	}
	if rep.Breakdown == nil {
		rep.Breakdown = []stats.Slice{}
	}

	b.logger.Debug("uv impact report built",
		"series_points", len(rep.Series),
		"categories", len(rep.Breakdown),
		"skipped", rep.SkippedRecords,
	)
	if b.cache != nil {
		b.cache.SetDefault(cacheKey, rep)
	}
	return rep, nil
}

// Invalidate drops the memoized report.
func (b *Builder) Invalidate() {
	if b.cache != nil {
		b.cache.Delete(cacheKey)
	}
}

func encodeImage(img chart.Image) *string {
	if img.NoData {
		return nil
	}
	s := base64.StdEncoding.EncodeToString(img.Data)
	return &s
}
