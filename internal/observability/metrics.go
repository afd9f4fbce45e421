package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sun_protection"

// Metrics holds the Prometheus collectors shared by the lookup and statistics pipelines.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	ProviderRequests    *prometheus.CounterVec // labels: provider, outcome={success,provider_error,unavailable,empty}; empty is a geocoder miss
	LocationResolutions *prometheus.CounterVec // labels: source={coordinates,city,default}, outcome={resolved,not_found,failed,invalid}
	SuggestionsDropped  *prometheus.CounterVec // labels: reason={outside_jurisdiction,missing_center}
	DataQualityIssues   *prometheus.CounterVec // labels: field
	ReportCache         *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics registers all collectors against reg, defaulting to the global
// Prometheus registry when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	m := &Metrics{
		gatherer: gatherer,
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Outbound provider calls by provider and outcome.",
		}, []string{"provider", "outcome"}),
		LocationResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_resolutions_total",
			Help:      "Location resolutions by input source and outcome.",
		}, []string{"source", "outcome"}),
		SuggestionsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_dropped_total",
			Help:      "Provider suggestions removed by post-filtering.",
		}, []string{"reason"}),
		DataQualityIssues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "data_quality_issues_total",
			Help:      "Historical records excluded from aggregation because a field could not be coerced.",
		}, []string{"field"}),
		ReportCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_cache_total",
			Help:      "UV impact report cache lookups.",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.ProviderRequests,
		m.LocationResolutions,
		m.SuggestionsDropped,
		m.DataQualityIssues,
		m.ReportCache,
	)
	return m
}

// Handler serves the registry this Metrics was registered with.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveProvider(provider, outcome string) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) ObserveResolution(source, outcome string) {
	if m == nil {
		return
	}
	m.LocationResolutions.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) ObserveSuggestionDropped(reason string) {
	if m == nil {
		return
	}
	m.SuggestionsDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveDataQuality(field string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.DataQualityIssues.WithLabelValues(field).Add(float64(n))
}

func (m *Metrics) ObserveReportCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ReportCache.WithLabelValues(result).Inc()
}
