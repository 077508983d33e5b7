package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/mnrl/pkg/errors"
)

// Metrics implements every hook interface on top of Prometheus collectors
// held in a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// Pipeline
	LoadsTotal     *prometheus.CounterVec
	LoadDuration   prometheus.Histogram
	NetworkNodes   prometheus.Histogram
	RendersTotal   *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec

	// Cache
	CacheOpsTotal     *prometheus.CounterVec
	CacheWrittenBytes prometheus.Counter

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

// NewMetrics creates the collectors in a fresh registry together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		LoadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mnrl_loads_total",
			Help: "Documents loaded, by result (ok or error code)",
		}, []string{"result"}),
		LoadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mnrl_load_duration_seconds",
			Help:    "Time spent validating and translating a document",
			Buckets: prometheus.DefBuckets,
		}),
		NetworkNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "mnrl_network_nodes",
			Help:    "Node count of successfully loaded networks",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		RendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mnrl_renders_total",
			Help: "Diagrams rendered, by format and result",
		}, []string{"format", "result"}),
		RenderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mnrl_render_duration_seconds",
			Help:    "Time spent rendering a diagram",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),

		CacheOpsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mnrl_cache_operations_total",
			Help: "Cache lookups and writes, by key type and operation",
		}, []string{"key_type", "op"}),
		CacheWrittenBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "mnrl_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}),

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "mnrl_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mnrl_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HTTPRequestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "mnrl_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		}),
	}
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// result labels an outcome: "ok", or the error code.
func result(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

func (m *Metrics) OnLoadStart(context.Context, string, int) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, nodeCount, _ int, d time.Duration, err error) {
	m.LoadsTotal.WithLabelValues(result(err)).Inc()
	m.LoadDuration.Observe(d.Seconds())
	if err == nil {
		m.NetworkNodes.Observe(float64(nodeCount))
	}
}

func (m *Metrics) OnRenderStart(context.Context, string, int) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	m.RendersTotal.WithLabelValues(format, result(err)).Inc()
	m.RenderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheOpsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheOpsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheOpsTotal.WithLabelValues(keyType, "set").Inc()
	m.CacheWrittenBytes.Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPRequestsInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.HTTPRequestsInFlight.Dec()
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
