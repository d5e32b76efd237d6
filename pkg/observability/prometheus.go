package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	layouts        *prometheus.CounterVec
	layoutDuration prometheus.Histogram
	layoutPasses   prometheus.Histogram
	layoutNodes    prometheus.Histogram
	clamped        prometheus.Counter
	renders        *prometheus.CounterVec
	renderDuration prometheus.Histogram
	cacheOps       *prometheus.CounterVec
	cacheBytes     prometheus.Counter
	requests       *prometheus.CounterVec
	reqDuration    *prometheus.HistogramVec
	inFlight       prometheus.Gauge
}

// NewPrometheus creates the collectors and registers them with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "threadmap",
			Name:      "layouts_total",
			Help:      "Layout runs by outcome.",
		}, []string{"outcome"}),
		layoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "threadmap",
			Name:      "layout_duration_seconds",
			Help:      "Wall time of layout runs, cache lookups included.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		layoutPasses: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "threadmap",
			Name:      "layout_collision_passes",
			Help:      "Collision passes used per computed layout.",
			Buckets:   prometheus.LinearBuckets(1, 1, 6),
		}),
		layoutNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "threadmap",
			Name:      "layout_nodes",
			Help:      "Nodes per layout request.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		clamped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "threadmap",
			Name:      "layout_clamped_nodes_total",
			Help:      "Concepts moved back into their parent's cluster band.",
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "threadmap",
			Name:      "renders_total",
			Help:      "Render runs by outcome.",
		}, []string{"outcome"}),
		renderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "threadmap",
			Name:      "render_duration_seconds",
			Help:      "Wall time of render runs.",
			Buckets:   prometheus.DefBuckets,
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "threadmap",
			Name:      "cache_operations_total",
			Help:      "Cache operations by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "threadmap",
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "threadmap",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "threadmap",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "threadmap",
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}),
	}
	reg.MustRegister(
		p.layouts, p.layoutDuration, p.layoutPasses, p.layoutNodes, p.clamped,
		p.renders, p.renderDuration,
		p.cacheOps, p.cacheBytes,
		p.requests, p.reqDuration, p.inFlight,
	)
	return p
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnLayoutStart implements PipelineHooks.
func (p *Prometheus) OnLayoutStart(_ context.Context, nodeCount int) {
	p.layoutNodes.Observe(float64(nodeCount))
}

// OnLayoutComplete implements PipelineHooks.
func (p *Prometheus) OnLayoutComplete(_ context.Context, ev LayoutEvent, d time.Duration, err error) {
	p.layoutDuration.Observe(d.Seconds())
	switch {
	case err != nil:
		p.layouts.WithLabelValues("error").Inc()
		return
	case ev.CacheHit:
		p.layouts.WithLabelValues("cached").Inc()
		return
	case ev.Converged:
		p.layouts.WithLabelValues("converged").Inc()
	default:
		p.layouts.WithLabelValues("unconverged").Inc()
	}
	p.layoutPasses.Observe(float64(ev.Passes))
	p.clamped.Add(float64(ev.Clamped))
}

// OnRenderStart implements PipelineHooks.
func (p *Prometheus) OnRenderStart(context.Context, []string) {}

// OnRenderComplete implements PipelineHooks.
func (p *Prometheus) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	p.renders.WithLabelValues(outcome(err)).Inc()
	p.renderDuration.Observe(d.Seconds())
}

// OnCacheHit implements CacheHooks.
func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements CacheHooks.
func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements CacheHooks.
func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.Add(float64(size))
}

// OnCacheError implements CacheHooks.
func (p *Prometheus) OnCacheError(_ context.Context, keyType, op string, _ error) {
	p.cacheOps.WithLabelValues(keyType, op+"_error").Inc()
}

// OnRequest implements HTTPHooks.
func (p *Prometheus) OnRequest(context.Context, string, string) {
	p.inFlight.Inc()
}

// OnResponse implements HTTPHooks.
func (p *Prometheus) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.inFlight.Dec()
	p.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.reqDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
