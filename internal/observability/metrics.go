// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Resolution metrics
	ResolutionsTotal  *prometheus.CounterVec // by chain, outcome
	ResolutionLatency *prometheus.HistogramVec

	// Provider metrics
	ProviderCalls   *prometheus.CounterVec // by provider, outcome
	ProviderLatency *prometheus.HistogramVec

	// Reference-price metrics
	ReferencePriceFallbacks *prometheus.CounterVec // by chain

	// Wallet metrics
	BalanceRequests *prometheus.CounterVec // by chain, outcome
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "tokenbot"
	}

	return &Metrics{
		ResolutionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "resolutions_total",
			Help:      "Total number of token resolutions by chain and outcome",
		}, []string{"chain", "outcome"}),
		ResolutionLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "resolution_duration_seconds",
			Help:      "End-to-end token resolution latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"chain"}),
		ProviderCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "calls_total",
			Help:      "Total number of provider calls by provider and outcome",
		}, []string{"provider", "outcome"}),
		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "provider",
			Name:      "call_duration_seconds",
			Help:      "Provider HTTP call latency",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"provider"}),
		ReferencePriceFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "resolver",
			Name:      "reference_price_fallbacks_total",
			Help:      "Times the hardcoded native-price constant was substituted",
		}, []string{"chain"}),
		BalanceRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "balance_requests_total",
			Help:      "Total number of wallet balance requests by chain and outcome",
		}, []string{"chain", "outcome"}),
	}
}

// ObserveProviderCall records one provider call.
func (m *Metrics) ObserveProviderCall(provider string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ProviderCalls.WithLabelValues(provider, outcome).Inc()
	m.ProviderLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}

// ObserveResolution records one completed resolution.
func (m *Metrics) ObserveResolution(chain string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "failed"
	}
	m.ResolutionsTotal.WithLabelValues(chain, outcome).Inc()
	m.ResolutionLatency.WithLabelValues(chain).Observe(time.Since(start).Seconds())
}

// ObserveBalanceRequest records one wallet balance request.
func (m *Metrics) ObserveBalanceRequest(chain string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.BalanceRequests.WithLabelValues(chain, outcome).Inc()
}

// ObserveReferencePriceFallback records one substitution of the
// hardcoded native-price constant.
func (m *Metrics) ObserveReferencePriceFallback(chain string) {
	if m == nil {
		return
	}
	m.ReferencePriceFallbacks.WithLabelValues(chain).Inc()
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
