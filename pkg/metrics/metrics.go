// Package metrics exposes service metrics on a dedicated prometheus registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lotto"

// Recorder owns the collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	inFlight        prometheus.Gauge
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	upstreamInFlight prometheus.Gauge
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec

	outcomes     *prometheus.CounterVec
	strategies   *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	latestDraw   prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry, including Go runtime
// and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Inbound requests currently being served.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Inbound requests by handler, code and method.",
		}, []string{"handler", "code", "method"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Inbound request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler", "code", "method"}),
		upstreamInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upstream_requests_in_flight",
			Help:      "Outbound requests to the lottery site in flight.",
		}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound requests to the lottery site by code and method.",
		}, []string{"code", "method"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Outbound request latency.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"code", "method"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrich_outcomes_total",
			Help:      "Enrichment results by outcome.",
		}, []string{"outcome"}),
		strategies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prize_table_strategy_hits_total",
			Help:      "Prize table extractions by winning strategy.",
		}, []string{"strategy"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by result.",
		}, []string{"result"}),
		latestDraw: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "latest_draw",
			Help:      "Newest published draw number known to the watcher.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.inFlight, r.requests, r.requestDuration,
		r.upstreamInFlight, r.upstreamRequests, r.upstreamDuration,
		r.outcomes, r.strategies, r.cacheLookups, r.latestDraw,
	)

	return r
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Middleware instruments an inbound handler under the given name.
func (r *Recorder) Middleware(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if r == nil {
			return next
		}

		labels := prometheus.Labels{"handler": name}
		return promhttp.InstrumentHandlerInFlight(r.inFlight,
			promhttp.InstrumentHandlerDuration(r.requestDuration.MustCurryWith(labels),
				promhttp.InstrumentHandlerCounter(r.requests.MustCurryWith(labels), next),
			),
		)
	}
}

// RoundTripper instruments outbound requests. A nil next uses http.DefaultTransport.
func (r *Recorder) RoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if r == nil {
		return next
	}

	return promhttp.InstrumentRoundTripperInFlight(r.upstreamInFlight,
		promhttp.InstrumentRoundTripperCounter(r.upstreamRequests,
			promhttp.InstrumentRoundTripperDuration(r.upstreamDuration, next),
		),
	)
}

// ObserveOutcome counts one enrichment result.
func (r *Recorder) ObserveOutcome(outcome string) {
	if r == nil {
		return
	}
	r.outcomes.WithLabelValues(outcome).Inc()
}

// ObserveStrategy counts one successful prize table extraction.
func (r *Recorder) ObserveStrategy(strategy string) {
	if r == nil {
		return
	}
	r.strategies.WithLabelValues(strategy).Inc()
}

// ObserveCacheLookup counts a cache hit or miss.
func (r *Recorder) ObserveCacheLookup(hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// SetLatestDraw records the newest published draw.
func (r *Recorder) SetLatestDraw(drwNo int) {
	if r == nil {
		return
	}
	r.latestDraw.Set(float64(drwNo))
}
