// Package metrics exposes Prometheus collectors for HTTP traffic and computed
// packing plans. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eugenenazirov/stripplan/internal/packing"
)

const namespace = "stripplan"

// Metrics owns a private registry and the service collectors.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	plansTotal      *prometheus.CounterVec
	planBins        *prometheus.HistogramVec
	overloadedBins  *prometheus.CounterVec
	planDuration    *prometheus.HistogramVec
}

// New creates the registry with Go runtime and process collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{registry: reg}

	m.requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	m.requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	m.plansTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plans_total",
		Help:      "Packing plans computed, by mode and outcome",
	}, []string{"mode", "outcome"})

	m.planBins = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "plan_bins",
		Help:      "Number of rolls or sources per successful plan",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
	}, []string{"mode"})

	m.overloadedBins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "overloaded_bins_total",
		Help:      "Sources assigned beyond their rating because no catalog entry was large enough",
	}, []string{"mode"})

	m.planDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "plan_duration_seconds",
		Help:      "Time spent computing a plan",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
	}, []string{"mode"})

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.plansTotal, m.planBins, m.overloadedBins, m.planDuration)
	return m
}

// Handler returns the HTTP handler exposing the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// ObservePlan records a successful plan.
func (m *Metrics) ObservePlan(mode string, stats packing.Statistics, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.plansTotal.WithLabelValues(mode, "ok").Inc()
	m.planBins.WithLabelValues(mode).Observe(float64(stats.Bins))
	m.overloadedBins.WithLabelValues(mode).Add(float64(stats.OverloadedBins))
	m.planDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// ObserveFailure records a plan request rejected by the packer.
func (m *Metrics) ObserveFailure(mode string) {
	if m == nil {
		return
	}
	m.plansTotal.WithLabelValues(mode, "error").Inc()
}
