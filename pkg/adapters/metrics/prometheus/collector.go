package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector implements MetricsCollector using Prometheus
type Collector struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	faultDelay       prometheus.Histogram

	// Runtime metrics
	goroutines prometheus.Gauge
	heapAlloc  prometheus.Gauge
	buildInfo  *prometheus.GaugeVec
}

// NewCollector creates a new Prometheus metrics collector. All metrics
// register on the collector's private registry, never the global one.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sretest_http_requests_total",
				Help: "Total number of HTTP requests served",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sretest_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		requestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sretest_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
		faultDelay: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sretest_fault_delay_seconds",
				Help:    "Injected artificial delay in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
		),
		goroutines: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sretest_goroutines",
				Help: "Current number of goroutines",
			},
		),
		heapAlloc: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sretest_heap_alloc_bytes",
				Help: "Bytes of allocated heap objects",
			},
		),
		buildInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sretest_build_info",
				Help: "Build information, value is always 1",
			},
			[]string{"version"},
		),
	}
}

// Registry returns the registry holding every metric of this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveRequest records one served HTTP request
func (c *Collector) ObserveRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	c.requestsTotal.WithLabelValues(method, path, code).Inc()
	c.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncRequestsInFlight increments the in-flight request gauge
func (c *Collector) IncRequestsInFlight() {
	c.requestsInFlight.Inc()
}

// DecRequestsInFlight decrements the in-flight request gauge
func (c *Collector) DecRequestsInFlight() {
	c.requestsInFlight.Dec()
}

// ObserveFaultDelay records one injected artificial delay
func (c *Collector) ObserveFaultDelay(duration time.Duration) {
	c.faultDelay.Observe(duration.Seconds())
}

// SetRuntimeStats records a runtime snapshot
func (c *Collector) SetRuntimeStats(goroutines int, heapAllocBytes uint64) {
	c.goroutines.Set(float64(goroutines))
	c.heapAlloc.Set(float64(heapAllocBytes))
}

// SetBuildInfo publishes the build version as a constant gauge
func (c *Collector) SetBuildInfo(version string) {
	c.buildInfo.WithLabelValues(version).Set(1)
}
